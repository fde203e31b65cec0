// Package grade converts standardized factor scores into letter grades.
//
// ⭐ SSOT: 등급 임계값은 이 패키지에서만 정의한다 (화면별 중복 계산 금지)
package grade

import (
	"math"
	"sort"

	"github.com/wonny/briefing/internal/contracts"
	"github.com/wonny/briefing/pkg/numfmt"
)

// band is an inclusive lower bound for a letter
type band struct {
	min    float64
	letter contracts.Letter
}

// 정규분포 기준 상위 10/20/30/50/70% 경계
var bands = []band{
	{1.28, contracts.LetterAPlus},
	{0.84, contracts.LetterA},
	{0.52, contracts.LetterBPlus},
	{0.00, contracts.LetterB},
	{-0.52, contracts.LetterC},
}

// Grade maps a standardized score to a letter. nil and NaN grade as D.
func Grade(score *float64) contracts.Letter {
	if score == nil {
		return contracts.LetterD
	}
	return Of(*score)
}

// Of grades a non-nullable score
func Of(score float64) contracts.Letter {
	if math.IsNaN(score) {
		return contracts.LetterD
	}
	for _, b := range bands {
		if score >= b.min {
			return b.letter
		}
	}
	return contracts.LetterD
}

// Percentile maps a score to an integer percentile in [1, 99].
// Display only; grading never uses it.
func Percentile(score float64) int {
	if math.IsNaN(score) {
		return 50
	}
	return numfmt.Round(numfmt.Clamp(50+score*50/3, 1, 99))
}

// PercentileOf is Percentile for nullable scores
func PercentileOf(score *float64) (int, bool) {
	if score == nil || math.IsNaN(*score) {
		return 0, false
	}
	return Percentile(*score), true
}

// TopPercent returns the "상위 N%" figure for a percentile
func TopPercent(percentile int) int {
	return 100 - numfmt.ClampInt(percentile, 1, 99)
}

// ForStock grades every factor of a stock on the absolute scale
func ForStock(s contracts.Stock) contracts.FactorGrades {
	return contracts.FactorGrades{
		Value:    Grade(s.ValueS),
		Quality:  Grade(s.QualityS),
		Growth:   Grade(s.GrowthS),
		Momentum: Grade(s.MomentumS),
	}
}

// FromRank grades a position within a group, where position 0 is best.
// position/size < .10 A+, < .20 A, < .30 B+, < .50 B, < .70 C, else D.
func FromRank(position, size int) contracts.Letter {
	p := float64(position) / float64(max(size, 1))
	switch {
	case p < 0.10:
		return contracts.LetterAPlus
	case p < 0.20:
		return contracts.LetterA
	case p < 0.30:
		return contracts.LetterBPlus
	case p < 0.50:
		return contracts.LetterB
	case p < 0.70:
		return contracts.LetterC
	default:
		return contracts.LetterD
	}
}

// Relative grades each factor by its position inside the given group
// (conventionally today's top 30). Missing factor scores count as 0.
func Relative(stocks []contracts.Stock) map[string]contracts.FactorGrades {
	out := make(map[string]contracts.FactorGrades, len(stocks))
	if len(stocks) == 0 {
		return out
	}

	type entry struct {
		ticker string
		score  float64
	}

	n := len(stocks)
	for _, f := range contracts.AllFactors() {
		entries := make([]entry, 0, n)
		for _, s := range stocks {
			v := 0.0
			if p := s.Factor(f); p != nil && !math.IsNaN(*p) {
				v = *p
			}
			entries = append(entries, entry{s.Ticker, v})
		}
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].score > entries[j].score
		})

		for idx, e := range entries {
			g := out[e.ticker]
			letter := FromRank(idx, n)
			switch f {
			case contracts.FactorValue:
				g.Value = letter
			case contracts.FactorQuality:
				g.Quality = letter
			case contracts.FactorGrowth:
				g.Growth = letter
			case contracts.FactorMomentum:
				g.Momentum = letter
			}
			out[e.ticker] = g
		}
	}
	return out
}

// Family groups letters into display tones
type Family string

const (
	FamilyExcellent Family = "excellent" // A+, A
	FamilyGood      Family = "good"      // B+, B
	FamilyFair      Family = "fair"      // C
	FamilyPoor      Family = "poor"      // D, unknown
)

// FamilyOf returns the tone family of a letter
func FamilyOf(l contracts.Letter) Family {
	switch l {
	case contracts.LetterAPlus, contracts.LetterA:
		return FamilyExcellent
	case contracts.LetterBPlus, contracts.LetterB:
		return FamilyGood
	case contracts.LetterC:
		return FamilyFair
	default:
		return FamilyPoor
	}
}

// Rank orders letters best first (A+ = 0); unknown letters sort last
func Rank(l contracts.Letter) int {
	for i, x := range contracts.AllLetters() {
		if x == l {
			return i
		}
	}
	return len(contracts.AllLetters())
}
