package trajectory

import (
	"slices"
	"sort"

	"github.com/wonny/briefing/internal/contracts"
	"github.com/wonny/briefing/pkg/numfmt"
)

// Delta returns previous − latest rank (positive = improved). Needs ≥2 points.
func Delta(ranks []int) (int, bool) {
	n := len(ranks)
	if n < 2 {
		return 0, false
	}
	return ranks[n-2] - ranks[n-1], true
}

// Tier buckets a rank for badge coloring
type Tier string

const (
	TierTop   Tier = "top"   // 1-5
	TierUpper Tier = "upper" // 6-15
	TierRest  Tier = "rest"
)

// RankTier returns the badge tier of a rank
func RankTier(rank int) Tier {
	switch {
	case rank >= 1 && rank <= 5:
		return TierTop
	case rank >= 1 && rank <= 15:
		return TierUpper
	default:
		return TierRest
	}
}

// Selection is an immutable ordered set of tickers for the history chart
type Selection struct {
	keys []string
}

// NewSelection builds a selection, dropping duplicates
func NewSelection(keys ...string) Selection {
	var s Selection
	for _, k := range keys {
		if !s.Has(k) {
			s.keys = append(s.keys, k)
		}
	}
	return s
}

// Has reports membership
func (s Selection) Has(key string) bool {
	return slices.Contains(s.keys, key)
}

// Len returns the number of selected tickers
func (s Selection) Len() int {
	return len(s.keys)
}

// Keys returns the tickers in insertion order
func (s Selection) Keys() []string {
	return slices.Clone(s.keys)
}

// Toggle returns a new selection with key removed if present, appended otherwise.
// The receiver is never modified.
func (s Selection) Toggle(key string) Selection {
	next := make([]string, 0, len(s.keys)+1)
	found := false
	for _, k := range s.keys {
		if k == key {
			found = true
			continue
		}
		next = append(next, k)
	}
	if !found {
		next = append(next, key)
	}
	return Selection{keys: next}
}

// DefaultSelection picks the n tickers with the best latest rank
func DefaultSelection(all contracts.AllHistory, n int) Selection {
	tickers := make([]string, 0, len(all.Stocks))
	for t := range all.Stocks {
		tickers = append(tickers, t)
	}
	sort.Slice(tickers, func(i, j int) bool {
		ri, rj := all.Stocks[tickers[i]].LatestRank(), all.Stocks[tickers[j]].LatestRank()
		if ri != rj {
			return ri < rj
		}
		return tickers[i] < tickers[j]
	})
	if n >= 0 && n < len(tickers) {
		tickers = tickers[:n]
	}
	return NewSelection(tickers...)
}

// ChartRow is one date of the multi-line history chart
type ChartRow struct {
	Date  string         `json:"date"`
	Label string         `json:"label"` // MM/DD
	Ranks map[string]int `json:"ranks"` // selected ticker → composite rank
}

// ChartRows lays the selected tickers' ranks out per date (oldest → newest).
// Tickers missing on a date are simply absent from that row.
func ChartRows(all contracts.AllHistory, sel Selection) []ChartRow {
	rows := make([]ChartRow, 0, len(all.Dates))
	for _, date := range all.Dates {
		row := ChartRow{
			Date:  date,
			Label: numfmt.FormatDate(date, numfmt.DateShort),
			Ranks: make(map[string]int),
		}
		for _, t := range sel.keys {
			stock, ok := all.Stocks[t]
			if !ok {
				continue
			}
			for _, p := range stock.History {
				if p.Date == date {
					row.Ranks[t] = p.CompositeRank
					break
				}
			}
		}
		rows = append(rows, row)
	}
	return rows
}
