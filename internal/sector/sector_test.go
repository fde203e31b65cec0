package sector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/briefing/internal/contracts"
)

func stocks(sectors ...string) []contracts.Stock {
	out := make([]contracts.Stock, len(sectors))
	for i, s := range sectors {
		out[i] = contracts.Stock{CompositeRank: i + 1, Ticker: string(rune('A' + i)), Sector: s}
	}
	return out
}

func TestDistribution(t *testing.T) {
	in := stocks("은행", "반도체", "", "반도체", "자동차", "은행", "반도체", "  ", "화학")
	got := Distribution(in)

	require.Len(t, got, 4)
	assert.Equal(t, Count{"반도체", 3}, got[0])
	assert.Equal(t, Count{"은행", 2}, got[1])
	// ties keep first-seen order
	assert.Equal(t, Count{"자동차", 1}, got[2])
	assert.Equal(t, Count{"화학", 1}, got[3])

	assert.Equal(t, 7, Total(got), "sum equals stocks with non-empty sector")
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Count, got[i].Count)
	}
}

func TestDistribution_Empty(t *testing.T) {
	assert.Empty(t, Distribution(nil))
	assert.NotNil(t, Distribution(nil))
	assert.Empty(t, Distribution(stocks("", "")))
}

func TestTop(t *testing.T) {
	in := stocks("a", "b", "c", "d")
	in[0].CompositeRank, in[3].CompositeRank = 4, 1

	top := Top(in, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "D", top[0].Ticker)
	assert.Equal(t, "B", top[1].Ticker)
	assert.Equal(t, "A", in[0].Ticker, "input untouched")

	assert.Len(t, Top(in, 10), 4)
}

func TestOfSnapshot(t *testing.T) {
	snap := &contracts.RankingSnapshot{Rankings: stocks("은행", "은행", "반도체")}
	assert.Equal(t, []Count{{"은행", 2}}, OfSnapshot(snap, 2))
	assert.Empty(t, OfSnapshot(nil, 30))
}

func TestFromMapAndFormat(t *testing.T) {
	got := FromMap(map[string]int{"은행": 2, "반도체": 5, "자동차": 2, "": 4, "기타": 0})
	assert.Equal(t, []Count{{"반도체", 5}, {"은행", 2}, {"자동차", 2}}, got)
	assert.Equal(t, "반도체 5 · 은행 2 · 자동차 2", Format(got))
}
