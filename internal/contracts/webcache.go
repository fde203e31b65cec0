package contracts

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// WebCache is the raw web_data_YYYYMMDD.json document written by the upstream
// scoring pipeline. Key names follow the upstream writer; internal/briefing
// converts it into the strict entities above.
type WebCache struct {
	Date     string         `json:"date"`
	Market   *RawMarket     `json:"market"`
	Credit   *RawCredit     `json:"credit"`
	Pipeline *RawPipeline   `json:"pipeline"`
	Sectors  map[string]int `json:"sectors"`
	Picks    []RawPick      `json:"picks"`
	Exited   []RawExit      `json:"exited"`
	AI       *RawAI         `json:"ai"`
}

// RawIndex is one index block of the cache
type RawIndex struct {
	Close     OptFloat `json:"close"`
	ChangePct OptFloat `json:"change_pct"`
}

// RawMarket is the "market" block
type RawMarket struct {
	KOSPI    *RawIndex `json:"kospi"`
	KOSDAQ   *RawIndex `json:"kosdaq"`
	Warnings []string  `json:"warnings"`
}

// RawHY is credit.hy
type RawHY struct {
	Spread        OptFloat `json:"hy_spread"`
	Median10Y     OptFloat `json:"median_10y"`
	Quadrant      string   `json:"quadrant"`
	QuadrantLabel string   `json:"quadrant_label"`
	QuadrantIcon  string   `json:"quadrant_icon"`
	QDays         int      `json:"q_days"`
	Signals       []string `json:"signals"`
}

// RawKR is credit.kr
type RawKR struct {
	Spread      OptFloat `json:"spread"`
	Regime      string   `json:"regime"`
	RegimeLabel string   `json:"regime_label"`
	RegimeIcon  string   `json:"regime_icon"`
}

// RawVIX is credit.vix
type RawVIX struct {
	Current     OptFloat `json:"vix_current"`
	Percentile  OptFloat `json:"vix_pct"`
	SlopeDir    string   `json:"vix_slope_dir"`
	Regime      string   `json:"regime"`
	RegimeLabel string   `json:"regime_label"`
	RegimeIcon  string   `json:"regime_icon"`
}

// RawCredit is the "credit" block
type RawCredit struct {
	HY          *RawHY  `json:"hy"`
	KR          *RawKR  `json:"kr"`
	VIX         *RawVIX `json:"vix"`
	FinalAction string  `json:"final_action"`
	Concordance string  `json:"concordance"`
}

// RawPipeline is the "pipeline" block; each list holds stock objects
type RawPipeline struct {
	Verified TickerList `json:"verified"`
	Pending  TickerList `json:"pending"`
	NewEntry TickerList `json:"new_entry"`
}

// Empty reports whether the block carries no tickers at all
func (p *RawPipeline) Empty() bool {
	return p == nil || len(p.Verified)+len(p.Pending)+len(p.NewEntry) == 0
}

// RawPick is one precomputed pick; rank_t2..rank_t0 are oldest → newest
type RawPick struct {
	Ticker        string   `json:"ticker"`
	Name          string   `json:"name"`
	Sector        string   `json:"sector"`
	WeightedRank  OptFloat `json:"weighted_rank"`
	RankT0        *int     `json:"rank_t0"`
	RankT1        *int     `json:"rank_t1"`
	RankT2        *int     `json:"rank_t2"`
	CompositeRank *int     `json:"composite_rank"`
	Score         OptFloat `json:"score"`
	PER           OptFloat `json:"per"`
	PBR           OptFloat `json:"pbr"`
	ROE           OptFloat `json:"roe"`
	FwdPER        OptFloat `json:"fwd_per"`
	Weight        OptFloat `json:"weight"`
}

// Trajectory returns the non-null ranks T-2, T-1, T-0
func (p RawPick) Trajectory() []int {
	out := make([]int, 0, 3)
	for _, r := range []*int{p.RankT2, p.RankT1, p.RankT0} {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

// RawExit is one "exited" entry; rank is nil when the stock left the ranking
type RawExit struct {
	Ticker     string `json:"ticker"`
	Name       string `json:"name"`
	Sector     string `json:"sector"`
	PrevRank   *int   `json:"prev_rank"`
	Rank       *int   `json:"rank"`
	ExitReason Tags   `json:"exit_reason"`
}

// RawAI is the "ai" block
type RawAI struct {
	RiskFilter     *string  `json:"risk_filter"`
	PicksText      *string  `json:"picks_text"`
	FlaggedTickers []string `json:"flagged_tickers"`
}

// Empty reports whether the block has no content
func (a *RawAI) Empty() bool {
	return a == nil || (a.RiskFilter == nil && a.PicksText == nil && len(a.FlaggedTickers) == 0)
}

// OptFloat is a nullable number that also accepts numeric strings.
// NaN, Inf and unparsable values decode as null.
type OptFloat struct {
	Value float64
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler
func (f *OptFloat) UnmarshalJSON(data []byte) error {
	*f = OptFloat{}
	s := strings.TrimSpace(string(data))
	if s == "null" || s == "" {
		return nil
	}

	var v float64
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return nil
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			return nil
		}
		v = parsed
	} else if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	f.Value, f.Valid = v, true
	return nil
}

// MarshalJSON implements json.Marshaler
func (f OptFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Ptr returns the value as a pointer, nil when null
func (f OptFloat) Ptr() *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}
