package selection

import (
	"sort"
	"strings"

	"github.com/wonny/briefing/internal/contracts"
)

// UnknownSector buckets stocks without a sector in the pipeline summary
const UnknownSector = "기타"

// ClassifyPipeline classifies today's top-N from snapshots ordered newest
// first: verified = top-N on T0, T1 and T2; pending = T0 and T1 only;
// new_entry = everything else in today's top-N. Missing days count as absent.
// Verified is ordered by cfg.Weights over (T0, T1, T2), the others by
// today's rank.
func ClassifyPipeline(days []*contracts.RankingSnapshot, cfg Config) *contracts.PipelineSnapshot {
	p := &contracts.PipelineSnapshot{
		Verified: contracts.TickerList{},
		Pending:  contracts.TickerList{},
		NewEntry: contracts.TickerList{},
		Sectors:  map[string]int{},
	}
	if len(days) == 0 || days[0] == nil {
		return p
	}

	topN := cfg.TopN
	if topN <= 0 {
		topN = contracts.DefaultTopN
	}
	weights := cfg.Weights
	if len(weights) == 0 {
		weights = DefaultConfig().Weights
	}

	window := func(i int) map[string]int {
		ranks := make(map[string]int)
		if i >= len(days) || days[i] == nil {
			return ranks
		}
		for _, st := range days[i].Top(topN) {
			ranks[st.Ticker] = st.CompositeRank
		}
		return ranks
	}
	t1, t2 := window(1), window(2)

	today := days[0].Top(topN)
	sort.SliceStable(today, func(i, j int) bool {
		return today[i].CompositeRank < today[j].CompositeRank
	})

	weighted := make(map[string]float64)
	for _, st := range today {
		r1, in1 := t1[st.Ticker]
		r2, in2 := t2[st.Ticker]
		switch {
		case in1 && in2:
			ranks := [3]int{st.CompositeRank, r1, r2}
			for i := 0; i < len(ranks) && i < len(weights); i++ {
				weighted[st.Ticker] += float64(ranks[i]) * weights[i]
			}
			p.Verified = append(p.Verified, st.Ticker)
		case in1:
			p.Pending = append(p.Pending, st.Ticker)
		default:
			p.NewEntry = append(p.NewEntry, st.Ticker)
		}

		sector := strings.TrimSpace(st.Sector)
		if sector == "" {
			sector = UnknownSector
		}
		p.Sectors[sector]++
	}

	sort.SliceStable(p.Verified, func(i, j int) bool {
		return weighted[p.Verified[i]] < weighted[p.Verified[j]]
	})
	return p
}
