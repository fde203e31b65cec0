package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/briefing/internal/contracts"
	"github.com/wonny/briefing/pkg/numfmt"
)

func snapshot(date string, tickers ...string) *contracts.RankingSnapshot {
	s := &contracts.RankingSnapshot{Date: date}
	for i, t := range tickers {
		s.Rankings = append(s.Rankings, contracts.Stock{
			Rank:          i + 1,
			CompositeRank: i + 1,
			Ticker:        t,
			Name:          t + " Corp",
			Sector:        "반도체",
		})
	}
	return s
}

func threeDays() []*contracts.RankingSnapshot {
	return []*contracts.RankingSnapshot{
		snapshot("2026-10-16", "A", "B", "C", "D"),
		snapshot("2026-10-15", "B", "A", "C", "D"),
		snapshot("2026-10-14", "C", "A", "B", "F"),
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"default", func(c *Config) {}, false},
		{"zero days", func(c *Config) { c.Days = 0 }, true},
		{"weights length mismatch", func(c *Config) { c.Weights = []float64{0.5, 0.5} }, true},
		{"weights do not sum to one", func(c *Config) { c.Weights = []float64{0.5, 0.5, 0.5} }, true},
		{"negative weight", func(c *Config) { c.Weights = []float64{1.2, 0, -0.2} }, true},
		{"zero top_n", func(c *Config) { c.TopN = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPicks(t *testing.T) {
	sel := NewSelector(DefaultConfig(), nil)
	resp := sel.Picks(threeDays())

	require.Len(t, resp.Picks, 3)
	assert.Empty(t, resp.Message)
	assert.Equal(t, []string{"2026-10-16", "2026-10-15", "2026-10-14"}, resp.Dates)
	require.NotNil(t, resp.TotalCommon)
	assert.Equal(t, 3, *resp.TotalCommon)
	assert.Equal(t, 0, *resp.Skipped)

	a, b, c := resp.Picks[0], resp.Picks[1], resp.Picks[2]
	assert.Equal(t, "A", a.Ticker)
	assert.InDelta(t, 1.5, a.WeightedRank, 1e-9)
	assert.Equal(t, []int{2, 2, 1}, a.Trajectory)

	assert.Equal(t, "B", b.Ticker)
	assert.InDelta(t, 1.9, b.WeightedRank, 1e-9)
	assert.Equal(t, []int{3, 1, 2}, b.Trajectory)

	assert.Equal(t, "C", c.Ticker)
	assert.InDelta(t, 2.6, c.WeightedRank, 1e-9)
	assert.Equal(t, []int{1, 3, 3}, c.Trajectory)

	for _, p := range resp.Picks {
		require.NotNil(t, p.Weight)
		assert.Equal(t, 20.0, *p.Weight)
		assert.NotNil(t, p.FactorGrades)
		assert.NotEqual(t, "D", p.Ticker)
	}
}

func TestPicks_MaxPicks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxPicks = 2
	resp := NewSelector(cfg, nil).Picks(threeDays())

	assert.Len(t, resp.Picks, 2)
	assert.Equal(t, 3, *resp.TotalCommon)
	assert.Equal(t, 1, *resp.Skipped)
}

func TestPicks_TopNWindow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TopN = 2
	resp := NewSelector(cfg, nil).Picks(threeDays())

	// C is 3rd on T0 and T1, A is the only ticker in the top 2 on every day
	require.Len(t, resp.Picks, 1)
	assert.Equal(t, "A", resp.Picks[0].Ticker)
}

func TestPicks_NotEnoughDays(t *testing.T) {
	sel := NewSelector(DefaultConfig(), nil)

	resp := sel.Picks(threeDays()[:2])
	assert.Empty(t, resp.Picks)
	assert.NotNil(t, resp.Picks)
	assert.Equal(t, "순위 데이터가 2일밖에 없습니다 (3일 필요)", resp.Message)

	resp = sel.Picks(nil)
	assert.Equal(t, "순위 데이터가 0일밖에 없습니다 (3일 필요)", resp.Message)
}

func TestClassifyPipeline(t *testing.T) {
	days := threeDays()
	days[0].Rankings[3].Sector = ""

	p := ClassifyPipeline(days, DefaultConfig())

	assert.Equal(t, contracts.TickerList{"A", "B", "C"}, p.Verified)
	assert.Equal(t, contracts.TickerList{"D"}, p.Pending)
	assert.Empty(t, p.NewEntry)
	assert.Equal(t, map[string]int{"반도체": 3, UnknownSector: 1}, p.Sectors)
	assert.NoError(t, p.Validate())
}

func TestClassifyPipeline_ConfiguredWeights(t *testing.T) {
	// A=1,2,2 B=2,1,3 C=3,3,1
	tests := []struct {
		name    string
		weights []float64
		want    contracts.TickerList
	}{
		{"default 0.5/0.3/0.2", []float64{0.5, 0.3, 0.2}, contracts.TickerList{"A", "B", "C"}},
		{"oldest day heaviest", []float64{0.2, 0.3, 0.5}, contracts.TickerList{"A", "C", "B"}},
		{"today only", []float64{1, 0, 0}, contracts.TickerList{"A", "B", "C"}},
		{"T2 only", []float64{0, 0, 1}, contracts.TickerList{"C", "A", "B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Weights = tt.weights
			p := ClassifyPipeline(threeDays(), cfg)
			assert.Equal(t, tt.want, p.Verified)
		})
	}
}

func TestClassifyPipeline_MissingDays(t *testing.T) {
	days := threeDays()

	p := ClassifyPipeline(days[:1], DefaultConfig())
	assert.Empty(t, p.Verified)
	assert.Empty(t, p.Pending)
	assert.Equal(t, contracts.TickerList{"A", "B", "C", "D"}, p.NewEntry)

	p = ClassifyPipeline(nil, DefaultConfig())
	assert.Empty(t, p.NewEntry)
	assert.NotNil(t, p.Sectors)
}

func TestBuyRationale(t *testing.T) {
	tests := []struct {
		name string
		pick contracts.Pick
		want string
	}{
		{
			name: "all phrases",
			pick: contracts.Pick{FwdPER: numfmt.Float(8), ROE: numfmt.Float(22), Trajectory: []int{3, 3, 3}},
			want: "Forward PER 8.0 (저평가) · ROE 22.0% (고수익) · 3일 연속 3위",
		},
		{
			name: "trailing PER fallback",
			pick: contracts.Pick{PER: numfmt.Float(12.34), ROE: numfmt.Float(11), Trajectory: []int{5, 4, 3}},
			want: "PER 12.3 (적정) · ROE 11.0% (양호) · 순위 상승 중 (5→3위)",
		},
		{
			name: "negative PER ignored",
			pick: contracts.Pick{PER: numfmt.Float(-3), ROE: numfmt.Float(5), Trajectory: []int{1, 2, 4}},
			want: "ROE 5.0%",
		},
		{
			name: "nothing",
			pick: contracts.Pick{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuyRationale(tt.pick))
		})
	}
}
