package contracts

// IndexQuote is the latest close of a market index
type IndexQuote struct {
	Close     *float64 `json:"close"`
	ChangePct *float64 `json:"change_pct"`
}

// HYReading is the US high-yield spread reading (사계절 지표)
type HYReading struct {
	Value     *float64 `json:"value"`
	Median    *float64 `json:"median"`
	Quadrant  string   `json:"quadrant"`
	Season    string   `json:"season"` // free text, e.g. "🌸 봄(회복국면)"
	Icon      string   `json:"season_icon,omitempty"`
	QDays     int      `json:"q_days"` // 현 국면 유지 일수
	Direction string   `json:"direction,omitempty"`
	Signals   []string `json:"signals,omitempty"`
}

// KRReading is the domestic BBB- credit spread reading
type KRReading struct {
	Spread      *float64 `json:"spread"`
	Regime      string   `json:"regime"`
	RegimeLabel string   `json:"regime_label"`
	RegimeIcon  string   `json:"regime_icon,omitempty"`
}

// VIXReading is the volatility index reading
type VIXReading struct {
	Value          *float64 `json:"value"`
	Percentile     *float64 `json:"percentile"`
	SlopeDirection string   `json:"slope_direction,omitempty"`
	Regime         string   `json:"regime"`
	RegimeLabel    string   `json:"regime_label"`
	RegimeIcon     string   `json:"regime_icon,omitempty"`
}

// Action is the free-text recommendation plus its grade
type Action struct {
	Text  string `json:"text"`
	Grade string `json:"grade"`
}

// Credit groups the credit-market readings
type Credit struct {
	HY          *HYReading  `json:"hy"`
	KR          *KRReading  `json:"kr"`
	VIX         *VIXReading `json:"vix"`
	Concordance string      `json:"concordance,omitempty"`
	Action      *Action     `json:"action,omitempty"`
}

// PickLevel optionally caps the number of picks market-wide
type PickLevel struct {
	MaxPicks int     `json:"max_picks"`
	Label    string  `json:"label"`
	Warning  *string `json:"warning"`
}

// Suppressed reports whether picks are switched off
func (l *PickLevel) Suppressed() bool {
	return l != nil && l.MaxPicks == 0
}

// MarketSnapshot is the /market payload
type MarketSnapshot struct {
	Indices   map[string]*IndexQuote `json:"indices"`
	Credit    *Credit                `json:"credit"`
	Warnings  []string               `json:"warnings"`
	PickLevel *PickLevel             `json:"pick_level,omitempty"`
	Date      string                 `json:"date"`
}

// Index names used by the dashboard
const (
	IndexKOSPI  = "kospi"
	IndexKOSDAQ = "kosdaq"
)

// CreditOrNil returns the credit block of a possibly nil snapshot
func (m *MarketSnapshot) CreditOrNil() *Credit {
	if m == nil {
		return nil
	}
	return m.Credit
}
