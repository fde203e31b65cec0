package selection

import (
	"fmt"
	"sort"

	"github.com/wonny/briefing/internal/contracts"
	"github.com/wonny/briefing/internal/grade"
	"github.com/wonny/briefing/pkg/logger"
	"github.com/wonny/briefing/pkg/numfmt"
)

// Config controls the multi-day intersection (Slow In)
type Config struct {
	Days     int       `yaml:"days"`      // 연속 일수 (기본 3)
	Weights  []float64 `yaml:"weights"`   // T0, T1, T2 ... (기본 0.5/0.3/0.2)
	TopN     int       `yaml:"top_n"`     // 기본 30
	MaxPicks int       `yaml:"max_picks"` // 기본 5
	Weight   float64   `yaml:"weight"`    // 종목당 비중 % (기본 20)
}

// DefaultConfig returns the standard 3-day configuration
func DefaultConfig() Config {
	return Config{
		Days:     3,
		Weights:  []float64{0.5, 0.3, 0.2},
		TopN:     contracts.DefaultTopN,
		MaxPicks: 5,
		Weight:   20,
	}
}

// Validate checks the configuration
func (c Config) Validate() error {
	if c.Days < 1 {
		return fmt.Errorf("days must be >= 1, got %d", c.Days)
	}
	if len(c.Weights) != c.Days {
		return fmt.Errorf("weights length %d != days %d", len(c.Weights), c.Days)
	}
	sum := 0.0
	for _, w := range c.Weights {
		if w < 0 {
			return fmt.Errorf("weights must be non-negative")
		}
		sum += w
	}
	// Allow small floating point error
	if sum < 0.99 || sum > 1.01 {
		return fmt.Errorf("weights must sum to 1.0, got %.3f", sum)
	}
	if c.TopN < 1 {
		return fmt.Errorf("top_n must be >= 1")
	}
	if c.MaxPicks < 0 {
		return fmt.Errorf("max_picks must be >= 0")
	}
	return nil
}

// Selector picks stocks that stayed in the top-N on every one of the last N days
// ⭐ SSOT: 3일 교집합 선정 로직은 여기서만
type Selector struct {
	config Config
	logger *logger.Logger
}

// NewSelector creates a new selector
func NewSelector(config Config, log *logger.Logger) *Selector {
	return &Selector{config: config, logger: log}
}

// Config returns the selector configuration
func (s *Selector) Config() Config {
	return s.config
}

// Picks computes the picks from snapshots ordered newest first.
// Fewer snapshots than Days yields no picks and an explanatory message.
func (s *Selector) Picks(days []*contracts.RankingSnapshot) contracts.PicksResponse {
	n := s.config.Days
	if len(days) < n {
		return contracts.PicksResponse{
			Picks:   []contracts.Pick{},
			Message: fmt.Sprintf("순위 데이터가 %d일밖에 없습니다 (%d일 필요)", len(days), n),
		}
	}
	days = days[:n]

	windows := make([]map[string]contracts.Stock, n)
	dates := make([]string, n)
	for i, day := range days {
		if day == nil {
			return contracts.PicksResponse{
				Picks:   []contracts.Pick{},
				Message: fmt.Sprintf("T-%d 데이터 로드 실패", i),
			}
		}
		dates[i] = day.Date
		windows[i] = make(map[string]contracts.Stock)
		for _, st := range day.Top(s.config.TopN) {
			windows[i][st.Ticker] = st
		}
	}

	// 모든 날짜 Top N에 있는 종목
	common := make([]string, 0)
	for ticker := range windows[0] {
		inAll := true
		for _, w := range windows[1:] {
			if _, ok := w[ticker]; !ok {
				inAll = false
				break
			}
		}
		if inAll {
			common = append(common, ticker)
		}
	}

	grades := grade.Relative(days[0].Top(contracts.DefaultTopN))

	picks := make([]contracts.Pick, 0, len(common))
	for _, ticker := range common {
		weighted := 0.0
		trajectory := make([]int, n)
		for i := 0; i < n; i++ {
			rank := windows[i][ticker].CompositeRank
			weighted += float64(rank) * s.config.Weights[i]
			trajectory[n-1-i] = rank
		}

		pick := FromStock(windows[0][ticker])
		pick.WeightedRank = numfmt.RoundTo(weighted, 1)
		pick.Trajectory = trajectory
		pick.Weight = numfmt.Float(s.config.Weight)
		if g, ok := grades[ticker]; ok {
			pick.FactorGrades = &g
		}
		pick.BuyRationale = BuyRationale(pick)
		picks = append(picks, pick)
	}

	sort.Slice(picks, func(i, j int) bool {
		if picks[i].WeightedRank != picks[j].WeightedRank {
			return picks[i].WeightedRank < picks[j].WeightedRank
		}
		if picks[i].CompositeRank != picks[j].CompositeRank {
			return picks[i].CompositeRank < picks[j].CompositeRank
		}
		return picks[i].Ticker < picks[j].Ticker
	})

	total := len(picks)
	if s.config.MaxPicks >= 0 && len(picks) > s.config.MaxPicks {
		picks = picks[:s.config.MaxPicks]
	}
	skipped := total - len(picks)

	if s.logger != nil {
		s.logger.WithFields(map[string]interface{}{
			"dates":        dates,
			"total_common": total,
			"picks":        len(picks),
		}).Debug("Picks computed")
	}

	return contracts.PicksResponse{
		Picks:       picks,
		Dates:       dates,
		TotalCommon: numfmt.Int(total),
		Skipped:     numfmt.Int(skipped),
	}
}

// FromStock copies the stock fields a pick carries
func FromStock(st contracts.Stock) contracts.Pick {
	return contracts.Pick{
		Ticker:        st.Ticker,
		Name:          st.Name,
		Sector:        st.Sector,
		CompositeRank: st.CompositeRank,
		Score:         numfmt.SafeFloat(st.Score, 2),
		PER:           numfmt.SafeFloat(st.PER, 2),
		PBR:           numfmt.SafeFloat(st.PBR, 2),
		ROE:           numfmt.SafeFloat(st.ROE, 2),
		FwdPER:        numfmt.SafeFloat(st.FwdPER, 2),
	}
}
