package contracts

// FactorGrades holds one grade per factor
type FactorGrades struct {
	Value    Letter `json:"value"`
	Quality  Letter `json:"quality"`
	Growth   Letter `json:"growth"`
	Momentum Letter `json:"momentum"`
}

// Of returns the grade for a factor
func (g FactorGrades) Of(f Factor) Letter {
	switch f {
	case FactorValue:
		return g.Value
	case FactorQuality:
		return g.Quality
	case FactorGrowth:
		return g.Growth
	case FactorMomentum:
		return g.Momentum
	default:
		return LetterD
	}
}

// Pick is a stock selected by the multi-day intersection rule
type Pick struct {
	Ticker        string   `json:"ticker"`
	Name          string   `json:"name"`
	Sector        string   `json:"sector"`
	WeightedRank  float64  `json:"weighted_rank"`
	CompositeRank int      `json:"composite_rank"`
	Score         *float64 `json:"score"`
	PER           *float64 `json:"per"`
	PBR           *float64 `json:"pbr"`
	ROE           *float64 `json:"roe,omitempty"`
	FwdPER        *float64 `json:"fwd_per,omitempty"`

	// Trajectory is composite_rank per day, oldest → newest
	Trajectory   []int         `json:"trajectory"`
	FactorGrades *FactorGrades `json:"factor_grades,omitempty"`
	Weight       *float64      `json:"weight,omitempty"` // % of capital
	BuyRationale string        `json:"buy_rationale,omitempty"`
}

// PicksResponse is the /picks payload
type PicksResponse struct {
	Picks       []Pick   `json:"picks"`
	Dates       []string `json:"dates,omitempty"`
	TotalCommon *int     `json:"total_common,omitempty"`
	Skipped     *int     `json:"skipped,omitempty"`
	Message     string   `json:"message,omitempty"`
}
