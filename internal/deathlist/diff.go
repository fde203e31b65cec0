// Package deathlist computes the Fast Out list: stocks that were inside
// yesterday's ranking window and left it today.
package deathlist

import (
	"math"
	"sort"

	"github.com/wonny/briefing/internal/contracts"
)

// Options tunes the diff
type Options struct {
	// Window is the tracked top-N (default 30)
	Window int
	// Flagged are tickers tagged upstream; they exit even while still inside
	// today's window. A nil/empty tag list falls back to computed reasons.
	Flagged map[string]contracts.Tags
	// MoveMin is the relative change that tags outlook/price moves (default 3%)
	MoveMin float64
	// FactorDropMin is the factor score drop that tags V↓ Q↓ G↓ M↓ (default 0.5)
	FactorDropMin float64
}

// DefaultOptions returns the canonical options
func DefaultOptions() Options {
	return Options{
		Window:        contracts.DefaultTopN,
		MoveMin:       0.03,
		FactorDropMin: 0.5,
	}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.Window <= 0 {
		o.Window = d.Window
	}
	if o.MoveMin <= 0 {
		o.MoveMin = d.MoveMin
	}
	if o.FactorDropMin <= 0 {
		o.FactorDropMin = d.FactorDropMin
	}
	return o
}

// Diff compares two snapshots. A stock in yesterday's top-Window is an exit when
// it is absent from today's top-Window (dropped_out, today_rank nil) or still
// inside but flagged. Entries are sorted by yesterday rank. Never returns nil.
func Diff(yesterday, today *contracts.RankingSnapshot, opts Options) []contracts.DeathListEntry {
	opts = opts.normalized()
	out := make([]contracts.DeathListEntry, 0)
	if yesterday == nil {
		return out
	}

	todayAll := today.Index()
	for _, y := range yesterday.Top(opts.Window) {
		t, present := todayAll[y.Ticker]
		inWindow := present && t.InWindow(opts.Window)
		flaggedTags, flagged := opts.Flagged[y.Ticker]

		switch {
		case !inWindow:
			entry := newEntry(y)
			entry.DroppedOut = true
			if present {
				entry.ExitReason = Reasons(y, t, opts)
			}
			out = append(out, entry)

		case flagged:
			entry := newEntry(y)
			rank := t.CompositeRank
			entry.TodayRank = &rank
			entry.ExitReason = flaggedTags
			if len(flaggedTags) == 0 {
				entry.ExitReason = Reasons(y, t, opts)
			}
			out = append(out, entry)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].YesterdayRank < out[j].YesterdayRank
	})
	return out
}

func newEntry(y contracts.Stock) contracts.DeathListEntry {
	return contracts.DeathListEntry{
		Ticker:        y.Ticker,
		Name:          y.Name,
		Sector:        y.Sector,
		YesterdayRank: y.CompositeRank,
		ExitReason:    contracts.Tags{},
	}
}

// Exit reason tags
const (
	TagOutlookUp   = "💪전망↑"
	TagOutlookDown = "⚠️전망↓"
	TagPriceUp     = "📈가격↑"
	TagPriceDown   = "📉가격↓"
)

// Reasons tags why a stock left: forward EPS (price / fwd PER) change, price
// change, then per-factor deterioration.
func Reasons(yesterday, today contracts.Stock, opts Options) contracts.Tags {
	opts = opts.normalized()
	tags := contracts.Tags{}

	eps0 := impliedEPS(today.Price, today.FwdPER)
	eps1 := impliedEPS(yesterday.Price, yesterday.FwdPER)
	if eps0 != nil && eps1 != nil && *eps1 != 0 {
		chg := (*eps0 - *eps1) / math.Abs(*eps1)
		if math.Abs(chg) >= opts.MoveMin {
			tags = append(tags, pick(chg > 0, TagOutlookUp, TagOutlookDown))
		}
	}

	if p0, p1 := today.Price, yesterday.Price; p0 != nil && p1 != nil && *p0 > 0 && *p1 > 0 {
		pct := (*p0 - *p1) / *p1
		if math.Abs(pct) >= opts.MoveMin {
			tags = append(tags, pick(pct > 0, TagPriceUp, TagPriceDown))
		}
	}

	for _, f := range contracts.AllFactors() {
		prev, cur := yesterday.Factor(f), today.Factor(f)
		if prev == nil || cur == nil {
			continue
		}
		if *prev-*cur >= opts.FactorDropMin {
			tags = append(tags, f.Letter()+"↓")
		}
	}
	return tags
}

func impliedEPS(price, fwdPER *float64) *float64 {
	if price == nil || fwdPER == nil || *price <= 0 || *fwdPER <= 0 {
		return nil
	}
	v := *price / *fwdPER
	return &v
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}
