package grade

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/briefing/internal/contracts"
)

func f(v float64) *float64 { return &v }

func TestGrade_Boundaries(t *testing.T) {
	tests := []struct {
		name  string
		score *float64
		want  contracts.Letter
	}{
		{"nil", nil, contracts.LetterD},
		{"NaN", f(math.NaN()), contracts.LetterD},
		{"A+ cutoff", f(1.28), contracts.LetterAPlus},
		{"just below A+", f(1.27999), contracts.LetterA},
		{"A cutoff", f(0.84), contracts.LetterA},
		{"B+ cutoff", f(0.52), contracts.LetterBPlus},
		{"B cutoff", f(0), contracts.LetterB},
		{"C cutoff", f(-0.52), contracts.LetterC},
		{"just below C", f(-0.52000001), contracts.LetterD},
		{"far above", f(3), contracts.LetterAPlus},
		{"far below", f(-3), contracts.LetterD},
		{"+Inf", f(math.Inf(1)), contracts.LetterAPlus},
		{"-Inf", f(math.Inf(-1)), contracts.LetterD},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Grade(tt.score))
		})
	}
}

func TestGrade_Monotonic(t *testing.T) {
	prev := Rank(Of(3.0))
	for s := 3.0; s >= -3.0; s -= 0.01 {
		cur := Rank(Of(s))
		require.GreaterOrEqual(t, cur, prev, "grade improved as score fell at %.2f", s)
		prev = cur
	}
}

func TestPercentile(t *testing.T) {
	assert.Equal(t, 50, Percentile(0))
	assert.Equal(t, 99, Percentile(3))
	assert.Equal(t, 99, Percentile(10))
	assert.Equal(t, 1, Percentile(-10))
	assert.Equal(t, 67, Percentile(1)) // 66.67

	_, ok := PercentileOf(nil)
	assert.False(t, ok)
	p, ok := PercentileOf(f(-1))
	assert.True(t, ok)
	assert.Equal(t, 33, p)

	assert.Equal(t, 33, TopPercent(67))
}

func TestFromRank(t *testing.T) {
	size := 30
	want := map[int]contracts.Letter{
		0:  contracts.LetterAPlus,
		2:  contracts.LetterAPlus,
		3:  contracts.LetterA,
		6:  contracts.LetterBPlus,
		9:  contracts.LetterB,
		15: contracts.LetterC,
		21: contracts.LetterD,
		29: contracts.LetterD,
	}
	for pos, letter := range want {
		assert.Equal(t, letter, FromRank(pos, size), "position %d", pos)
	}
	assert.Equal(t, contracts.LetterAPlus, FromRank(0, 0))
}

func TestRelative(t *testing.T) {
	stocks := make([]contracts.Stock, 10)
	for i := range stocks {
		v := float64(10 - i)
		stocks[i] = contracts.Stock{Ticker: string(rune('A' + i)), ValueS: f(v), QualityS: f(-v)}
	}
	stocks[9].ValueS = nil // counts as 0 → still last

	grades := Relative(stocks)
	require.Len(t, grades, 10)

	assert.Equal(t, contracts.LetterAPlus, grades["A"].Value)
	assert.Equal(t, contracts.LetterA, grades["B"].Value)
	assert.Equal(t, contracts.LetterD, grades["J"].Value)

	// quality is reversed
	assert.Equal(t, contracts.LetterAPlus, grades["J"].Quality)
	assert.Equal(t, contracts.LetterD, grades["A"].Quality)

	assert.Empty(t, Relative(nil))
}

func TestForStock(t *testing.T) {
	g := ForStock(contracts.Stock{ValueS: f(1.5), QualityS: f(0.6), GrowthS: nil, MomentumS: f(-0.1)})
	assert.Equal(t, contracts.FactorGrades{
		Value:    contracts.LetterAPlus,
		Quality:  contracts.LetterBPlus,
		Growth:   contracts.LetterD,
		Momentum: contracts.LetterC,
	}, g)
}

func TestFamilyOf(t *testing.T) {
	assert.Equal(t, FamilyExcellent, FamilyOf(contracts.LetterA))
	assert.Equal(t, FamilyGood, FamilyOf(contracts.LetterBPlus))
	assert.Equal(t, FamilyFair, FamilyOf(contracts.LetterC))
	assert.Equal(t, FamilyPoor, FamilyOf("Z"))
}
