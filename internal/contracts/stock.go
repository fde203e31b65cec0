package contracts

import (
	"encoding/json"
	"fmt"
)

// DefaultTopN is the canonical ranking window shown on the dashboard
const DefaultTopN = 30

// MissingRank stands in for an unknown rank in legacy payloads
const MissingRank = 999

// Stock is one ranked security in a snapshot
type Stock struct {
	Rank          int      `json:"rank"`
	CompositeRank int      `json:"composite_rank"` // 1 = best
	Ticker        string   `json:"ticker"`
	Name          string   `json:"name"`
	Sector        string   `json:"sector"`
	Score         *float64 `json:"score"`
	Price         *float64 `json:"price,omitempty"`

	// Fundamentals (nil = 데이터 없음, 0으로 취급 금지)
	PER    *float64 `json:"per"`
	PBR    *float64 `json:"pbr"`
	ROE    *float64 `json:"roe,omitempty"`
	FwdPER *float64 `json:"fwd_per,omitempty"`

	// Factor scores, standardized (~[-3, 3])
	ValueS    *float64 `json:"value_s"`
	QualityS  *float64 `json:"quality_s"`
	GrowthS   *float64 `json:"growth_s"`
	MomentumS *float64 `json:"momentum_s"`
}

// UnmarshalJSON falls back between rank and composite_rank like the ranking
// files written by the scoring pipeline do.
func (s *Stock) UnmarshalJSON(data []byte) error {
	type plain Stock
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.CompositeRank == 0 {
		p.CompositeRank = p.Rank
	}
	if p.Rank == 0 {
		p.Rank = p.CompositeRank
	}
	*s = Stock(p)
	return nil
}

// Factor returns the standardized score of a factor by key
func (s Stock) Factor(f Factor) *float64 {
	switch f {
	case FactorValue:
		return s.ValueS
	case FactorQuality:
		return s.QualityS
	case FactorGrowth:
		return s.GrowthS
	case FactorMomentum:
		return s.MomentumS
	default:
		return nil
	}
}

// InWindow reports whether the stock is ranked inside the top n
func (s Stock) InWindow(n int) bool {
	return s.CompositeRank > 0 && s.CompositeRank <= n
}

// Factor names one of the four scoring factors
type Factor string

const (
	FactorValue    Factor = "value"
	FactorQuality  Factor = "quality"
	FactorGrowth   Factor = "growth"
	FactorMomentum Factor = "momentum"
)

// AllFactors returns factors in display order (V, Q, G, M)
func AllFactors() []Factor {
	return []Factor{FactorValue, FactorQuality, FactorGrowth, FactorMomentum}
}

// Letter returns the single-letter abbreviation used in badges
func (f Factor) Letter() string {
	switch f {
	case FactorValue:
		return "V"
	case FactorQuality:
		return "Q"
	case FactorGrowth:
		return "G"
	case FactorMomentum:
		return "M"
	default:
		return "?"
	}
}

// Label returns the Korean label of the factor
func (f Factor) Label() string {
	switch f {
	case FactorValue:
		return "가치"
	case FactorQuality:
		return "퀄리티"
	case FactorGrowth:
		return "성장"
	case FactorMomentum:
		return "모멘텀"
	default:
		return string(f)
	}
}

// RankingMetadata describes upstream funnel sizes
type RankingMetadata struct {
	TotalUniverse   int    `json:"total_universe"`
	PrefilterPassed int    `json:"prefilter_passed"`
	ScoredCount     int    `json:"scored_count"`
	Version         string `json:"version,omitempty"`
}

// RankingSnapshot is one day of rankings
type RankingSnapshot struct {
	Date        string           `json:"date"`
	GeneratedAt string           `json:"generated_at,omitempty"`
	Rankings    []Stock          `json:"rankings"`
	Metadata    *RankingMetadata `json:"metadata,omitempty"`
}

// Top returns the stocks inside the top n window in snapshot order
func (r *RankingSnapshot) Top(n int) []Stock {
	if r == nil {
		return nil
	}
	out := make([]Stock, 0, n)
	for _, s := range r.Rankings {
		if s.InWindow(n) {
			out = append(out, s)
		}
	}
	return out
}

// Index returns ticker → stock for the whole snapshot
func (r *RankingSnapshot) Index() map[string]Stock {
	if r == nil {
		return map[string]Stock{}
	}
	m := make(map[string]Stock, len(r.Rankings))
	for _, s := range r.Rankings {
		m[s.Ticker] = s
	}
	return m
}

// Find looks a ticker up in the snapshot
func (r *RankingSnapshot) Find(ticker string) (Stock, bool) {
	if r == nil {
		return Stock{}, false
	}
	for _, s := range r.Rankings {
		if s.Ticker == ticker {
			return s, true
		}
	}
	return Stock{}, false
}

// Validate checks the structural invariants of a snapshot:
// unique tickers, contiguous ranks 1..N and the funnel ordering of metadata.
func (r *RankingSnapshot) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil snapshot", ErrInvalidSnapshot)
	}

	seen := make(map[string]bool, len(r.Rankings))
	ranks := make(map[int]bool, len(r.Rankings))
	for _, s := range r.Rankings {
		if s.Ticker == "" {
			return fmt.Errorf("%w: empty ticker", ErrInvalidSnapshot)
		}
		if seen[s.Ticker] {
			return fmt.Errorf("%w: duplicate ticker %s", ErrInvalidSnapshot, s.Ticker)
		}
		seen[s.Ticker] = true
		ranks[s.CompositeRank] = true
	}
	for i := 1; i <= len(r.Rankings); i++ {
		if !ranks[i] {
			return fmt.Errorf("%w: composite_rank %d missing", ErrInvalidSnapshot, i)
		}
	}

	if m := r.Metadata; m != nil {
		if m.TotalUniverse < m.PrefilterPassed || m.PrefilterPassed < m.ScoredCount {
			return fmt.Errorf("%w: funnel %d/%d/%d not non-increasing",
				ErrInvalidSnapshot, m.TotalUniverse, m.PrefilterPassed, m.ScoredCount)
		}
		if m.ScoredCount < len(r.Rankings) {
			return fmt.Errorf("%w: scored_count %d < rankings %d",
				ErrInvalidSnapshot, m.ScoredCount, len(r.Rankings))
		}
	}

	return nil
}
