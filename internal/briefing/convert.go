package briefing

import (
	"github.com/wonny/briefing/internal/contracts"
	"github.com/wonny/briefing/internal/regime"
	"github.com/wonny/briefing/internal/selection"
	"github.com/wonny/briefing/pkg/numfmt"
)

// Defaults for fields the upstream writer may omit
const (
	DefaultConcordance = "both_stable"
	DefaultRegime      = "normal"
	DefaultSlope       = "flat"
	UnavailableAction  = "데이터 수집 실패로 기본값을 적용했어요."
)

func safe(f contracts.OptFloat) *float64 {
	return numfmt.SafeFloat(f.Ptr(), 2)
}

// MarketFromCache converts the raw market and credit blocks
func MarketFromCache(cache *contracts.WebCache) *contracts.MarketSnapshot {
	m := &contracts.MarketSnapshot{
		Indices:  map[string]*contracts.IndexQuote{},
		Warnings: []string{},
		Date:     cache.Date,
	}

	var kospi, kosdaq *contracts.RawIndex
	if cache.Market != nil {
		kospi, kosdaq = cache.Market.KOSPI, cache.Market.KOSDAQ
		if cache.Market.Warnings != nil {
			m.Warnings = cache.Market.Warnings
		}
	}
	m.Indices[contracts.IndexKOSPI] = indexQuote(kospi)
	m.Indices[contracts.IndexKOSDAQ] = indexQuote(kosdaq)

	raw := cache.Credit
	if raw == nil {
		raw = &contracts.RawCredit{}
	}
	credit := &contracts.Credit{
		HY:          hyReading(raw.HY),
		KR:          krReading(raw.KR),
		VIX:         vixReading(raw.VIX),
		Concordance: raw.Concordance,
		Action: &contracts.Action{
			Text:  raw.FinalAction,
			Grade: regime.GradeFromActionText(raw.FinalAction),
		},
	}
	if credit.Concordance == "" {
		credit.Concordance = DefaultConcordance
	}
	m.Credit = credit
	m.PickLevel = regime.PickLevelFromAction(raw.FinalAction)
	return m
}

// EmptyMarket is served when no market data was collected
func EmptyMarket(date string) *contracts.MarketSnapshot {
	return &contracts.MarketSnapshot{
		Indices: map[string]*contracts.IndexQuote{
			contracts.IndexKOSPI:  {},
			contracts.IndexKOSDAQ: {},
		},
		Credit: &contracts.Credit{
			Concordance: DefaultConcordance,
			Action:      &contracts.Action{Text: UnavailableAction, Grade: regime.GradeUnknown},
		},
		Warnings:  []string{},
		PickLevel: regime.NormalPickLevel(),
		Date:      date,
	}
}

func indexQuote(raw *contracts.RawIndex) *contracts.IndexQuote {
	if raw == nil {
		return &contracts.IndexQuote{}
	}
	return &contracts.IndexQuote{Close: safe(raw.Close), ChangePct: safe(raw.ChangePct)}
}

func hyReading(raw *contracts.RawHY) *contracts.HYReading {
	if raw == nil {
		return nil
	}
	direction := "falling"
	if raw.Quadrant == "Q3" || raw.Quadrant == "Q4" {
		direction = "rising"
	}
	signals := raw.Signals
	if signals == nil {
		signals = []string{}
	}
	return &contracts.HYReading{
		Value:     safe(raw.Spread),
		Median:    safe(raw.Median10Y),
		Quadrant:  raw.Quadrant,
		Season:    raw.QuadrantLabel,
		Icon:      raw.QuadrantIcon,
		QDays:     raw.QDays,
		Direction: direction,
		Signals:   signals,
	}
}

func krReading(raw *contracts.RawKR) *contracts.KRReading {
	if raw == nil {
		return nil
	}
	return &contracts.KRReading{
		Spread:      safe(raw.Spread),
		Regime:      orDefault(raw.Regime, DefaultRegime),
		RegimeLabel: raw.RegimeLabel,
		RegimeIcon:  raw.RegimeIcon,
	}
}

func vixReading(raw *contracts.RawVIX) *contracts.VIXReading {
	if raw == nil {
		return nil
	}
	return &contracts.VIXReading{
		Value:          safe(raw.Current),
		Percentile:     safe(raw.Percentile),
		SlopeDirection: orDefault(raw.SlopeDir, DefaultSlope),
		Regime:         orDefault(raw.Regime, DefaultRegime),
		RegimeLabel:    raw.RegimeLabel,
		RegimeIcon:     raw.RegimeIcon,
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// PickFromRaw converts a precomputed pick. A missing weighted rank is
// recomputed from the trajectory when it covers every selection day.
func PickFromRaw(raw contracts.RawPick, cfg selection.Config) contracts.Pick {
	traj := raw.Trajectory()

	rank := contracts.MissingRank
	switch {
	case raw.RankT0 != nil:
		rank = *raw.RankT0
	case raw.CompositeRank != nil:
		rank = *raw.CompositeRank
	}

	p := contracts.Pick{
		Ticker:        raw.Ticker,
		Name:          raw.Name,
		Sector:        raw.Sector,
		CompositeRank: rank,
		Score:         safe(raw.Score),
		PER:           safe(raw.PER),
		PBR:           safe(raw.PBR),
		ROE:           safe(raw.ROE),
		FwdPER:        safe(raw.FwdPER),
		Trajectory:    traj,
		Weight:        raw.Weight.Ptr(),
	}
	if p.Weight == nil {
		p.Weight = numfmt.Float(cfg.Weight)
	}

	switch {
	case raw.WeightedRank.Valid:
		p.WeightedRank = numfmt.RoundTo(raw.WeightedRank.Value, 1)
	case len(traj) == len(cfg.Weights):
		w := 0.0
		for i, r := range traj {
			// trajectory is oldest first, weights newest first
			w += float64(r) * cfg.Weights[len(traj)-1-i]
		}
		p.WeightedRank = numfmt.RoundTo(w, 1)
	default:
		p.WeightedRank = float64(rank)
	}
	return p
}

// ExitFromRaw converts one exited entry. today_rank nil means the stock
// left the ranking entirely.
func ExitFromRaw(raw contracts.RawExit) contracts.DeathListEntry {
	yesterday := contracts.MissingRank
	switch {
	case raw.PrevRank != nil:
		yesterday = *raw.PrevRank
	case raw.Rank != nil:
		yesterday = *raw.Rank
	}
	tags := raw.ExitReason
	if tags == nil {
		tags = contracts.Tags{}
	}
	return contracts.DeathListEntry{
		Ticker:        raw.Ticker,
		Name:          raw.Name,
		Sector:        raw.Sector,
		YesterdayRank: yesterday,
		TodayRank:     raw.Rank,
		DroppedOut:    raw.Rank == nil,
		ExitReason:    tags,
	}
}

// PipelineFromCache converts the raw pipeline block
func PipelineFromCache(cache *contracts.WebCache) *contracts.PipelineSnapshot {
	p := &contracts.PipelineSnapshot{
		Verified: nonNil(cache.Pipeline.Verified),
		Pending:  nonNil(cache.Pipeline.Pending),
		NewEntry: nonNil(cache.Pipeline.NewEntry),
		Sectors:  cache.Sectors,
	}
	if p.Sectors == nil {
		p.Sectors = map[string]int{}
	}
	return p
}

func nonNil(l contracts.TickerList) contracts.TickerList {
	if l == nil {
		return contracts.TickerList{}
	}
	return l
}
