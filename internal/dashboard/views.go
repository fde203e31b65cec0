package dashboard

import (
	"github.com/wonny/briefing/internal/contracts"
	"github.com/wonny/briefing/internal/deathlist"
	"github.com/wonny/briefing/internal/funnel"
	"github.com/wonny/briefing/internal/grade"
	"github.com/wonny/briefing/internal/regime"
	"github.com/wonny/briefing/internal/sector"
	"github.com/wonny/briefing/internal/sortfilter"
	"github.com/wonny/briefing/internal/trajectory"
	"github.com/wonny/briefing/pkg/numfmt"
)

// Options tunes view building
type Options struct {
	Thresholds regime.Thresholds
	Query      sortfilter.Query
	Frame      trajectory.Frame
	// SectorTop is how many top-ranked stocks feed the sector distribution
	SectorTop int
}

// DefaultOptions returns the canonical options
func DefaultOptions() Options {
	return Options{
		Thresholds: regime.DefaultThresholds(),
		Query:      sortfilter.Query{Sort: sortfilter.DefaultConfig()},
		Frame:      trajectory.DefaultFrame,
		SectorTop:  contracts.DefaultTopN,
	}
}

// IndexRow is one market index line
type IndexRow struct {
	Key       string   `json:"key"`
	Name      string   `json:"name"`
	Close     *float64 `json:"close"`
	ChangePct *float64 `json:"change_pct"`
	Change    string   `json:"change"` // "+1.25%"
}

// MarketView is the market summary card
type MarketView struct {
	Available bool                     `json:"available"`
	Date      string                   `json:"date"`
	Indices   []IndexRow               `json:"indices"`
	Season    regime.SeasonInfo        `json:"season"`
	QDays     int                      `json:"q_days"`
	Signals   regime.Summary           `json:"signals"` // indicator cards
	Dots      regime.Summary           `json:"dots"`    // signal dots
	Action    string                   `json:"action"`
	Grade     string                   `json:"grade"`
	Severity  contracts.ActionSeverity `json:"severity"`
	PickLevel *contracts.PickLevel     `json:"pick_level,omitempty"`
	Warnings  []string                 `json:"warnings"`
}

var indexNames = []struct{ key, name string }{
	{contracts.IndexKOSPI, "코스피"},
	{contracts.IndexKOSDAQ, "코스닥"},
}

// BuildMarket builds the market card; nil is unavailable
func BuildMarket(m *contracts.MarketSnapshot, opts Options) MarketView {
	credit := m.CreditOrNil()
	v := MarketView{
		Available: m != nil,
		Indices:   make([]IndexRow, 0, len(indexNames)),
		Season:    regime.InfoOf(regime.SeasonFromCredit(credit)),
		Signals:   regime.Summarize(credit, opts.Thresholds),
		Dots:      regime.Summarize(credit, regime.SignalDotThresholds),
		Severity:  contracts.SeverityUnclassified,
		Warnings:  []string{},
	}
	if m == nil {
		return v
	}

	v.Date = m.Date
	for _, idx := range indexNames {
		row := IndexRow{Key: idx.key, Name: idx.name, Change: numfmt.Missing}
		if q := m.Indices[idx.key]; q != nil {
			row.Close, row.ChangePct = q.Close, q.ChangePct
			row.Change = numfmt.Signed(q.ChangePct)
		}
		v.Indices = append(v.Indices, row)
	}
	if credit != nil {
		if credit.HY != nil {
			v.QDays = credit.HY.QDays
		}
		if credit.Action != nil {
			v.Action, v.Grade = credit.Action.Text, credit.Action.Grade
		}
		v.Severity = regime.SeverityOf(credit.Action)
	}
	if m.Warnings != nil {
		v.Warnings = m.Warnings
	}
	v.PickLevel = m.PickLevel
	return v
}

// RankingRow is one line of the ranking table
type RankingRow struct {
	Stock      contracts.Stock        `json:"stock"`
	Grades     contracts.FactorGrades `json:"grades"`
	Percentile int                    `json:"percentile"` // of the best factor, for annotation
	Status     contracts.Status       `json:"status"`
	Tier       trajectory.Tier        `json:"tier"`
}

// RankingView is the sortable, filterable ranking table
type RankingView struct {
	Available bool                     `json:"available"`
	Date      string                   `json:"date"`
	Rows      []RankingRow             `json:"rows"`
	Total     int                      `json:"total"` // before filtering
	Counts    map[contracts.Status]int `json:"counts"`
	Sectors   []sector.Count           `json:"sectors"`
	Funnel    funnel.Funnel            `json:"funnel"`
	Query     sortfilter.Query         `json:"query"`
}

// BuildRanking builds the ranking table. The pipeline is optional: without
// it every status is none and the status filter matches nothing.
func BuildRanking(snap *contracts.RankingSnapshot, p *contracts.PipelineSnapshot, picks int, opts Options) RankingView {
	v := RankingView{
		Available: snap != nil,
		Rows:      []RankingRow{},
		Counts:    map[contracts.Status]int{},
		Sectors:   []sector.Count{},
		Funnel:    funnel.Build(nil, picks),
		Query:     opts.Query,
	}
	if snap == nil {
		return v
	}

	v.Date = snap.Date
	v.Total = len(snap.Rankings)
	v.Sectors = sector.OfSnapshot(snap, opts.SectorTop)
	v.Funnel = funnel.Build(snap.Metadata, picks)
	for _, s := range []contracts.Status{contracts.StatusVerified, contracts.StatusPending, contracts.StatusNewEntry} {
		v.Counts[s] = p.Count(s)
	}

	for _, st := range sortfilter.Apply(snap.Rankings, p, opts.Query) {
		best := 0
		for _, f := range contracts.AllFactors() {
			if pct, ok := grade.PercentileOf(st.Factor(f)); ok && pct > best {
				best = pct
			}
		}
		v.Rows = append(v.Rows, RankingRow{
			Stock:      st,
			Grades:     grade.ForStock(st),
			Percentile: best,
			Status:     p.StatusOf(st.Ticker),
			Tier:       trajectory.RankTier(st.CompositeRank),
		})
	}
	return v
}

// PickRow is one pick card
type PickRow struct {
	contracts.Pick
	Sparkline    *trajectory.Sparkline `json:"sparkline,omitempty"` // nil without trajectory
	Arrow        string                `json:"arrow"`
	Tier         trajectory.Tier       `json:"tier"`
	WeightedText string                `json:"weighted_text"`
}

// PicksView is the picks section
type PicksView struct {
	Available   bool      `json:"available"`
	Rows        []PickRow `json:"rows"`
	Suppressed  bool      `json:"suppressed"`
	Level       string    `json:"level,omitempty"`
	Warning     string    `json:"warning,omitempty"`
	Message     string    `json:"message,omitempty"`
	TotalCommon int       `json:"total_common"`
}

// BuildPicks builds the pick cards, capped by the market pick level.
// max_picks = 0 suppresses the list whatever the picks payload holds.
func BuildPicks(resp *contracts.PicksResponse, m *contracts.MarketSnapshot, opts Options) PicksView {
	v := PicksView{Available: resp != nil, Rows: []PickRow{}}
	var level *contracts.PickLevel
	if m != nil {
		level = m.PickLevel
	}
	if level != nil {
		v.Level = level.Label
		if level.Warning != nil {
			v.Warning = *level.Warning
		}
		v.Suppressed = level.Suppressed()
	}
	if resp == nil {
		return v
	}

	v.Message = resp.Message
	v.TotalCommon = len(resp.Picks)
	if resp.TotalCommon != nil {
		v.TotalCommon = *resp.TotalCommon
	}

	for _, p := range regime.ApplyPickLevel(resp.Picks, level) {
		row := PickRow{
			Pick:         p,
			Arrow:        trajectory.Arrow(p.Trajectory),
			Tier:         trajectory.RankTier(p.CompositeRank),
			WeightedText: numfmt.Fixed(&p.WeightedRank, 1),
		}
		if spark, ok := trajectory.Build(p.Trajectory, opts.Frame); ok {
			row.Sparkline = &spark
		}
		v.Rows = append(v.Rows, row)
	}
	return v
}

// DeathRow is one exit line with its categorised reasons
type DeathRow struct {
	contracts.DeathListEntry
	Reasons []deathlist.Reason `json:"reasons"`
	Drop    *int               `json:"drop,omitempty"` // today − yesterday, still ranked only
}

// DeathListView is the Fast Out section
type DeathListView struct {
	Available bool                `json:"available"`
	Dates     contracts.DiffDates `json:"dates"`
	Rows      []DeathRow          `json:"rows"`
	Dropped   int                 `json:"dropped"`
	Message   string              `json:"message,omitempty"`
}

// BuildDeathList builds the exits section
func BuildDeathList(resp *contracts.DeathListResponse) DeathListView {
	v := DeathListView{Available: resp != nil, Rows: []DeathRow{}}
	if resp == nil {
		return v
	}

	v.Dates, v.Message = resp.Dates, resp.Message
	for _, e := range resp.DeathList {
		row := DeathRow{DeathListEntry: e, Reasons: deathlist.Categorize(e.ExitReason)}
		if e.TodayRank != nil {
			drop := *e.TodayRank - e.YesterdayRank
			row.Drop = &drop
		}
		if e.DroppedOut {
			v.Dropped++
		}
		v.Rows = append(v.Rows, row)
	}
	return v
}

// Views is every section of one refresh
type Views struct {
	State     State                 `json:"state"`
	Missing   []Endpoint            `json:"missing"`
	Market    MarketView            `json:"market"`
	Ranking   RankingView           `json:"ranking"`
	Picks     PicksView             `json:"picks"`
	DeathList DeathListView         `json:"death_list"`
	AI        *contracts.AIResponse `json:"ai,omitempty"`
}

// Build builds every section from a bundle
func Build(b *Bundle, opts Options) Views {
	if b == nil {
		b = &Bundle{}
	}
	picks := 0
	if b.Picks != nil {
		picks = len(regime.ApplyPickLevel(b.Picks.Picks, pickLevel(b.Market)))
	}

	v := Views{
		State:     b.State(),
		Missing:   b.Missing(),
		Market:    BuildMarket(b.Market, opts),
		Ranking:   BuildRanking(b.Rankings, b.Pipeline, picks, opts),
		Picks:     BuildPicks(b.Picks, b.Market, opts),
		DeathList: BuildDeathList(b.DeathList),
	}
	if b.AI != nil && b.AI.Available {
		v.AI = b.AI
	}
	return v
}

func pickLevel(m *contracts.MarketSnapshot) *contracts.PickLevel {
	if m == nil {
		return nil
	}
	return m.PickLevel
}
