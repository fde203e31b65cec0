package deathlist

import (
	"strings"

	"github.com/wonny/briefing/internal/contracts"
)

// Category of an exit reason tag
type Category string

const (
	CategoryValue    Category = "value"
	CategoryQuality  Category = "quality"
	CategoryGrowth   Category = "growth"
	CategoryMomentum Category = "momentum"
	CategoryOutlook  Category = "outlook"
	CategoryPrice    Category = "price"
	CategoryOther    Category = "other"
)

// Direction of a tag's glyph
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionNone Direction = ""
)

// Reason is a parsed exit reason tag
type Reason struct {
	Category  Category  `json:"category"`
	Direction Direction `json:"direction"`
	Raw       string    `json:"raw"`
}

// Label returns the Korean label of the category
func (c Category) Label() string {
	switch c {
	case CategoryValue:
		return "가치"
	case CategoryQuality:
		return "퀄리티"
	case CategoryGrowth:
		return "성장"
	case CategoryMomentum:
		return "모멘텀"
	case CategoryOutlook:
		return "전망"
	case CategoryPrice:
		return "가격"
	default:
		return "기타"
	}
}

var factorPrefixes = map[string]Category{
	"V": CategoryValue,
	"Q": CategoryQuality,
	"G": CategoryGrowth,
	"M": CategoryMomentum,
}

// ParseTag classifies a tag. Unrecognized tags are kept as CategoryOther.
func ParseTag(tag string) Reason {
	raw := strings.TrimSpace(tag)
	r := Reason{Category: CategoryOther, Raw: raw}

	body := raw
	switch {
	case strings.HasSuffix(body, "↑"):
		r.Direction = DirectionUp
		body = strings.TrimSuffix(body, "↑")
	case strings.HasSuffix(body, "↓"):
		r.Direction = DirectionDown
		body = strings.TrimSuffix(body, "↓")
	}

	switch {
	case strings.Contains(body, "전망") || strings.EqualFold(body, "outlook"):
		r.Category = CategoryOutlook
	case strings.Contains(body, "가격") || strings.EqualFold(body, "price"):
		r.Category = CategoryPrice
	default:
		if c, ok := factorPrefixes[strings.ToUpper(body)]; ok {
			r.Category = c
		} else if c, ok := factorByName(body); ok {
			r.Category = c
		}
	}
	return r
}

func factorByName(s string) (Category, bool) {
	for _, f := range contracts.AllFactors() {
		if strings.EqualFold(s, string(f)) || s == f.Label() {
			return Category(f), true
		}
	}
	return "", false
}

// Categorize parses every tag of an entry
func Categorize(tags contracts.Tags) []Reason {
	out := make([]Reason, 0, len(tags))
	for _, t := range tags {
		if strings.TrimSpace(t) == "" {
			continue
		}
		out = append(out, ParseTag(t))
	}
	return out
}
