// Package sector counts sector occurrences inside the ranking window.
package sector

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wonny/briefing/internal/contracts"
)

// Count is one sector bucket
type Count struct {
	Sector string `json:"sector"`
	Count  int    `json:"count"`
}

// Distribution counts non-empty sectors, sorted by count desc. Ties keep the
// order in which sectors were first seen. Empty sectors are not counted.
func Distribution(stocks []contracts.Stock) []Count {
	idx := make(map[string]int)
	out := make([]Count, 0)
	for _, s := range stocks {
		name := strings.TrimSpace(s.Sector)
		if name == "" {
			continue
		}
		if i, ok := idx[name]; ok {
			out[i].Count++
			continue
		}
		idx[name] = len(out)
		out = append(out, Count{Sector: name, Count: 1})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// Top returns the first n stocks ordered by composite_rank (stable)
func Top(stocks []contracts.Stock, n int) []contracts.Stock {
	sorted := make([]contracts.Stock, len(stocks))
	copy(sorted, stocks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CompositeRank < sorted[j].CompositeRank
	})
	if n >= 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// OfSnapshot is Distribution over the snapshot's top-n window
func OfSnapshot(snap *contracts.RankingSnapshot, n int) []Count {
	if snap == nil {
		return []Count{}
	}
	return Distribution(Top(snap.Rankings, n))
}

// Total sums the counts
func Total(counts []Count) int {
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	return total
}

// FromMap converts a precomputed {"sector": count} map. Zero and negative
// counts are dropped; ties are ordered by sector name for determinism.
func FromMap(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for name, n := range m {
		if strings.TrimSpace(name) == "" || n <= 0 {
			continue
		}
		out = append(out, Count{Sector: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Sector < out[j].Sector
	})
	return out
}

// Format renders "반도체 5 · 은행 3"
func Format(counts []Count) string {
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		parts = append(parts, fmt.Sprintf("%s %d", c.Sector, c.Count))
	}
	return strings.Join(parts, " · ")
}
