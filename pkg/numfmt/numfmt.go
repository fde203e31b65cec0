// Package numfmt holds the small numeric and display helpers shared by the
// analytics packages.
// ⭐ SSOT: clamp/round/날짜 포맷은 여기서만
package numfmt

import (
	"math"
	"strconv"
	"strings"
)

// Missing is rendered in place of an unavailable value
const Missing = "-"

// Clamp limits v to [lo, hi]. NaN is returned as lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampInt limits v to [lo, hi]
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Round rounds half away from zero
func Round(v float64) int {
	return int(math.Round(v))
}

// RoundTo rounds v to the given number of decimal places
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// SafeFloat converts NaN/Inf to nil and rounds to precision places.
// 업스트림 JSON의 NaN/문자열 숫자는 경계에서 nil로 정규화
func SafeFloat(v *float64, precision int) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	r := RoundTo(*v, precision)
	return &r
}

// Float returns a pointer to v
func Float(v float64) *float64 {
	return &v
}

// Int returns a pointer to v
func Int(v int) *int {
	return &v
}

// Fixed formats a nullable number with fixed digits, "-" when nil
func Fixed(v *float64, digits int) string {
	if v == nil || math.IsNaN(*v) {
		return Missing
	}
	return strconv.FormatFloat(*v, 'f', digits, 64)
}

// Signed formats a percentage change with an explicit sign ("+1.25%", "-0.40%")
func Signed(v *float64) string {
	if v == nil || math.IsNaN(*v) {
		return Missing
	}
	s := strconv.FormatFloat(*v, 'f', 2, 64) + "%"
	if *v >= 0 {
		return "+" + s
	}
	return s
}

// Thousands formats an integer with comma separators (2,431)
func Thousands(n int) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.Itoa(n)
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// DateStyle selects how a YYYYMMDD key is displayed
type DateStyle int

const (
	DateISO    DateStyle = iota // 2026-01-08
	DateShort                   // 01/08
	DateKorean                  // 2026년 01월 08일
)

// IsDateKey reports whether s is an 8-digit YYYYMMDD key
func IsDateKey(s string) bool {
	if len(s) != 8 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// FormatDate renders a YYYYMMDD key. Anything else is returned unchanged.
func FormatDate(key string, style DateStyle) string {
	if !IsDateKey(key) {
		return key
	}
	y, m, d := key[0:4], key[4:6], key[6:8]
	switch style {
	case DateShort:
		return m + "/" + d
	case DateKorean:
		return y + "년 " + m + "월 " + d + "일"
	default:
		return y + "-" + m + "-" + d
	}
}
