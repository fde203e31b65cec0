// Package sortfilter sorts and filters ranked stock collections for the
// ranking table.
package sortfilter

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/wonny/briefing/internal/contracts"
)

// Key is a sortable column
type Key string

const (
	KeyCompositeRank Key = "composite_rank"
	KeyScore         Key = "score"
	KeyPER           Key = "per"
	KeyPBR           Key = "pbr"
	KeyValue         Key = "value_s"
	KeyQuality       Key = "quality_s"
	KeyGrowth        Key = "growth_s"
	KeyMomentum      Key = "momentum_s"
)

// AllKeys returns the sortable columns in table order
func AllKeys() []Key {
	return []Key{KeyCompositeRank, KeyScore, KeyPER, KeyPBR, KeyValue, KeyQuality, KeyGrowth, KeyMomentum}
}

// Direction is asc or desc
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Toggle flips the direction
func (d Direction) Toggle() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

// 결측치 센티널: 해당 키의 "최악" 위치로 정렬
const (
	MissingMultiple = 9999.0 // per, pbr
	MissingFactor   = -999.0 // value_s ... momentum_s
)

// ParseKey validates a key from a query string
func ParseKey(s string) (Key, error) {
	k := Key(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllKeys() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// ParseDirection validates a direction; empty means the key's default
func ParseDirection(s string, key Key) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultDirection(key), nil
	case Asc:
		return Asc, nil
	case Desc:
		return Desc, nil
	default:
		return "", fmt.Errorf("unknown sort direction %q", s)
	}
}

// DefaultDirection is asc for rank and price multiples, desc for scores
func DefaultDirection(key Key) Direction {
	switch key {
	case KeyCompositeRank, KeyPER, KeyPBR:
		return Asc
	default:
		return Desc
	}
}

// Value extracts a null-safe sort value. Unknown keys resolve to 0.
func Value(s contracts.Stock, key Key) float64 {
	switch key {
	case KeyCompositeRank:
		return float64(s.CompositeRank)
	case KeyScore:
		return orDefault(s.Score, 0)
	case KeyPER:
		return orDefault(s.PER, MissingMultiple)
	case KeyPBR:
		return orDefault(s.PBR, MissingMultiple)
	case KeyValue:
		return orDefault(s.ValueS, MissingFactor)
	case KeyQuality:
		return orDefault(s.QualityS, MissingFactor)
	case KeyGrowth:
		return orDefault(s.GrowthS, MissingFactor)
	case KeyMomentum:
		return orDefault(s.MomentumS, MissingFactor)
	default:
		return 0
	}
}

func orDefault(v *float64, def float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return def
	}
	return *v
}

// Config is the active sort column and direction
type Config struct {
	Key       Key       `json:"key"`
	Direction Direction `json:"direction"`
}

// DefaultConfig sorts by composite rank ascending
func DefaultConfig() Config {
	return Config{Key: KeyCompositeRank, Direction: Asc}
}

// Select returns the config after a header click: re-selecting the active key
// toggles direction, a new key starts at its default direction.
func (c Config) Select(key Key) Config {
	if c.Key == key {
		return Config{Key: key, Direction: c.Direction.Toggle()}
	}
	return Config{Key: key, Direction: DefaultDirection(key)}
}

// Sort returns a new, stably sorted slice. The input is not modified.
func Sort(stocks []contracts.Stock, c Config) []contracts.Stock {
	out := make([]contracts.Stock, len(stocks))
	copy(out, stocks)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := Value(out[i], c.Key), Value(out[j], c.Key)
		if c.Direction == Desc {
			return a > b
		}
		return a < b
	})
	return out
}

// Predicate selects stocks
type Predicate func(contracts.Stock) bool

// Filter keeps stocks matching every predicate (logical AND). Nil predicates
// are ignored. Returns a new slice.
func Filter(stocks []contracts.Stock, preds ...Predicate) []contracts.Stock {
	out := make([]contracts.Stock, 0, len(stocks))
next:
	for _, s := range stocks {
		for _, p := range preds {
			if p != nil && !p(s) {
				continue next
			}
		}
		out = append(out, s)
	}
	return out
}

// BySector matches sector equality; an empty sector matches everything
func BySector(sector string) Predicate {
	sector = strings.TrimSpace(sector)
	if sector == "" {
		return nil
	}
	return func(s contracts.Stock) bool {
		return strings.TrimSpace(s.Sector) == sector
	}
}

// ByStatus matches pipeline status membership. An empty status matches
// everything; StatusNone matches unclassified tickers. A nil pipeline
// classifies every ticker as StatusNone.
func ByStatus(p *contracts.PipelineSnapshot, status contracts.Status) Predicate {
	if status == "" {
		return nil
	}
	return func(s contracts.Stock) bool {
		return p.StatusOf(s.Ticker) == status
	}
}

// Query bundles sort and filter parameters of the ranking view
type Query struct {
	Sort   Config
	Sector string
	Status contracts.Status
}

// Apply filters then sorts
func Apply(stocks []contracts.Stock, p *contracts.PipelineSnapshot, q Query) []contracts.Stock {
	filtered := Filter(stocks, BySector(q.Sector), ByStatus(p, q.Status))
	return Sort(filtered, q.Sort)
}

// ParseQuery applies raw sort/dir/sector/status values over def. Empty
// values keep the default; a new sort key starts at its default direction.
// status accepts verified, pending, new_entry, none, or all/empty for no filter.
func ParseQuery(def Query, sortKey, dir, sector, status string) (Query, error) {
	q := def
	if sortKey != "" {
		key, err := ParseKey(sortKey)
		if err != nil {
			return q, err
		}
		q.Sort = Config{Key: key, Direction: DefaultDirection(key)}
	}
	if dir != "" {
		d, err := ParseDirection(dir, q.Sort.Key)
		if err != nil {
			return q, err
		}
		q.Sort.Direction = d
	}
	if s := strings.TrimSpace(sector); s != "" {
		q.Sector = s
	}

	switch s := strings.ToLower(strings.TrimSpace(status)); s {
	case "":
	case "all":
		q.Status = ""
	case string(contracts.StatusNone):
		q.Status = contracts.StatusNone
	default:
		st := contracts.ParseStatus(s)
		if st == contracts.StatusNone {
			return q, fmt.Errorf("unknown status %q", status)
		}
		q.Status = st
	}
	return q, nil
}
