package contracts

// HistoryPoint is one day of a single ticker's ranking history
type HistoryPoint struct {
	Date          string   `json:"date"`
	Rank          int      `json:"rank"`
	CompositeRank int      `json:"composite_rank"`
	Score         *float64 `json:"score"`
	ValueS        *float64 `json:"value_s"`
	QualityS      *float64 `json:"quality_s"`
	GrowthS       *float64 `json:"growth_s"`
	MomentumS     *float64 `json:"momentum_s"`
}

// StockHistory is the /history/{ticker} payload
type StockHistory struct {
	Ticker  string         `json:"ticker"`
	History []HistoryPoint `json:"history"`
}

// Ranks returns composite ranks oldest → newest
func (h StockHistory) Ranks() []int {
	out := make([]int, 0, len(h.History))
	for _, p := range h.History {
		out = append(out, p.CompositeRank)
	}
	return out
}

// RankPoint is a compact history entry used by the all-stocks chart
type RankPoint struct {
	Date          string   `json:"date"`
	CompositeRank int      `json:"composite_rank"`
	Score         *float64 `json:"score"`
}

// TrackedStock is one ticker of the all-stocks history
type TrackedStock struct {
	Name    string      `json:"name"`
	Sector  string      `json:"sector"`
	History []RankPoint `json:"history"`
}

// LatestRank returns the newest composite rank, MissingRank when empty
func (t TrackedStock) LatestRank() int {
	if len(t.History) == 0 {
		return MissingRank
	}
	return t.History[len(t.History)-1].CompositeRank
}

// AllHistory is the /history payload
type AllHistory struct {
	Stocks map[string]TrackedStock `json:"stocks"`
	Dates  []string                `json:"dates"` // oldest → newest
}

// AIResponse is the /ai payload
type AIResponse struct {
	RiskFilter     *string  `json:"risk_filter"`
	PicksText      *string  `json:"picks_text"`
	FlaggedTickers []string `json:"flagged_tickers"`
	Available      bool     `json:"available"`
}

// DatesResponse is the /dates payload (newest first)
type DatesResponse struct {
	Dates []string `json:"dates"`
}
