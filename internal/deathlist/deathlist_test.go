package deathlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/briefing/internal/contracts"
)

func f(v float64) *float64 { return &v }

// snapshot ranks tickers in the given order, padding to size with fillers
func snapshot(date string, size int, tickers ...string) *contracts.RankingSnapshot {
	snap := &contracts.RankingSnapshot{Date: date}
	for i := 0; i < size; i++ {
		ticker := ""
		if i < len(tickers) {
			ticker = tickers[i]
		}
		if ticker == "" {
			ticker = "F" + string(rune('A'+i%26)) + string(rune('A'+i/26))
		}
		snap.Rankings = append(snap.Rankings, contracts.Stock{
			Rank: i + 1, CompositeRank: i + 1, Ticker: ticker, Name: ticker,
		})
	}
	return snap
}

func withTicker(tickers []string, pos int, ticker string) []string {
	out := make([]string, max(len(tickers), pos+1))
	copy(out, tickers)
	out[pos] = ticker
	return out
}

func TestDiff_DroppedOut(t *testing.T) {
	// X at rank 12 yesterday, gone from today's top 30
	yesterday := snapshot("20260107", 40, withTicker(nil, 11, "X")...)
	today := snapshot("20260108", 40, withTicker(withTicker(nil, 11, "FL"), 35, "X")...)

	entries := Diff(yesterday, today, DefaultOptions())
	var x *contracts.DeathListEntry
	for i := range entries {
		if entries[i].Ticker == "X" {
			x = &entries[i]
		}
	}
	require.NotNil(t, x)
	assert.True(t, x.DroppedOut)
	assert.Nil(t, x.TodayRank)
	assert.Equal(t, 12, x.YesterdayRank)
}

func TestDiff_StillInsideIsNotExit(t *testing.T) {
	// rank 5 → rank 25 without a flag stays off the list
	yesterday := snapshot("20260107", 30, withTicker(nil, 4, "Y")...)
	today := snapshot("20260108", 30, withTicker(withTicker(nil, 4, "Z"), 24, "Y")...)

	for _, e := range Diff(yesterday, today, DefaultOptions()) {
		assert.NotEqual(t, "Y", e.Ticker)
	}
}

func TestDiff_FlaggedInsideWindow(t *testing.T) {
	yesterday := snapshot("20260107", 30, withTicker(nil, 4, "Y")...)
	today := snapshot("20260108", 30, withTicker(withTicker(nil, 4, "Z"), 24, "Y")...)

	opts := DefaultOptions()
	opts.Flagged = map[string]contracts.Tags{"Y": {"M↓"}}

	var y *contracts.DeathListEntry
	entries := Diff(yesterday, today, opts)
	for i := range entries {
		if entries[i].Ticker == "Y" {
			y = &entries[i]
		}
	}
	require.NotNil(t, y)
	assert.False(t, y.DroppedOut)
	require.NotNil(t, y.TodayRank)
	assert.Equal(t, 25, *y.TodayRank)
	assert.Equal(t, 5, y.YesterdayRank)
	assert.Equal(t, contracts.Tags{"M↓"}, y.ExitReason)
}

func TestDiff_SortedAndInvariant(t *testing.T) {
	yesterday := snapshot("20260107", 30, "A", "B", "C", "D", "E")
	today := snapshot("20260108", 30, "E", "C")

	entries := Diff(yesterday, today, DefaultOptions())
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"A", "B", "D"}, []string{entries[0].Ticker, entries[1].Ticker, entries[2].Ticker})

	for i, e := range entries {
		assert.Equal(t, e.DroppedOut, e.TodayRank == nil, "today_rank nil iff dropped_out")
		if i > 0 {
			assert.LessOrEqual(t, entries[i-1].YesterdayRank, e.YesterdayRank)
		}
	}
}

func TestDiff_NilAndWindow(t *testing.T) {
	assert.NotNil(t, Diff(nil, nil, Options{}))
	assert.Empty(t, Diff(nil, snapshot("d", 5), Options{}))

	// everything gone when today is missing
	entries := Diff(snapshot("d", 3, "A", "B", "C"), nil, Options{})
	assert.Len(t, entries, 3)

	// a custom window tracks more of yesterday
	yesterday := snapshot("d", 50, withTicker(nil, 44, "W")...)
	today := snapshot("d", 50)
	assert.Len(t, Diff(yesterday, today, Options{Window: 50}), 1)
	assert.Empty(t, Diff(yesterday, today, Options{Window: 30}))
}

func TestReasons(t *testing.T) {
	y := contracts.Stock{Price: f(10000), FwdPER: f(10), ValueS: f(1.2), QualityS: f(0.5), MomentumS: f(0.9)}
	tt := contracts.Stock{Price: f(9500), FwdPER: f(10), ValueS: f(0.5), QualityS: f(0.4), MomentumS: nil}

	// EPS 1000 → 950 (-5%), price -5%, value -0.7
	assert.Equal(t, contracts.Tags{TagOutlookDown, TagPriceDown, "V↓"}, Reasons(y, tt, DefaultOptions()))

	up := contracts.Stock{Price: f(10500), FwdPER: f(9)}
	assert.Equal(t, contracts.Tags{TagOutlookUp, TagPriceUp}, Reasons(contracts.Stock{Price: f(10000), FwdPER: f(10)}, up, DefaultOptions()))

	// small moves and missing data produce no tags
	assert.Empty(t, Reasons(contracts.Stock{Price: f(100)}, contracts.Stock{Price: f(101)}, DefaultOptions()))
	assert.Empty(t, Reasons(contracts.Stock{}, contracts.Stock{}, DefaultOptions()))
	assert.NotNil(t, Reasons(contracts.Stock{}, contracts.Stock{}, DefaultOptions()))
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag string
		cat Category
		dir Direction
	}{
		{"V↓", CategoryValue, DirectionDown},
		{"Q↓", CategoryQuality, DirectionDown},
		{"G↑", CategoryGrowth, DirectionUp},
		{"M", CategoryMomentum, DirectionNone},
		{"momentum↓", CategoryMomentum, DirectionDown},
		{"⚠️전망↓", CategoryOutlook, DirectionDown},
		{"💪전망↑", CategoryOutlook, DirectionUp},
		{"📉가격↓", CategoryPrice, DirectionDown},
		{"AI위험", CategoryOther, DirectionNone},
		{"X↓", CategoryOther, DirectionDown},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			r := ParseTag(tt.tag)
			assert.Equal(t, tt.cat, r.Category)
			assert.Equal(t, tt.dir, r.Direction)
			assert.Equal(t, tt.tag, r.Raw)
		})
	}
}

func TestCategorize_KeepsUnknown(t *testing.T) {
	got := Categorize(contracts.Tags{"V↓", "", "뉴스"})
	require.Len(t, got, 2)
	assert.Equal(t, CategoryOther, got[1].Category)
	assert.Equal(t, "기타", got[1].Category.Label())
}
