package dashboard

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/briefing/internal/contracts"
	"github.com/wonny/briefing/internal/deathlist"
	"github.com/wonny/briefing/internal/regime"
	"github.com/wonny/briefing/internal/sortfilter"
	"github.com/wonny/briefing/pkg/numfmt"
)

func rankingFixture() *contracts.RankingSnapshot {
	return &contracts.RankingSnapshot{
		Date: "20261016",
		Rankings: []contracts.Stock{
			{CompositeRank: 1, Ticker: "A", Name: "에이", Sector: "반도체", Score: numfmt.Float(90), PER: numfmt.Float(12), ValueS: numfmt.Float(1.5)},
			{CompositeRank: 2, Ticker: "B", Name: "비", Sector: "은행", Score: numfmt.Float(80), PER: nil, ValueS: numfmt.Float(-1)},
			{CompositeRank: 3, Ticker: "C", Name: "씨", Sector: "반도체", Score: numfmt.Float(70), PER: numfmt.Float(5)},
		},
		Metadata: &contracts.RankingMetadata{TotalUniverse: 2400, PrefilterPassed: 200, ScoredCount: 180},
	}
}

func pipelineFixture() *contracts.PipelineSnapshot {
	return &contracts.PipelineSnapshot{
		Verified: contracts.TickerList{"A", "C"},
		Pending:  contracts.TickerList{"B"},
		NewEntry: contracts.TickerList{},
	}
}

func marketFixture(action string) *contracts.MarketSnapshot {
	return &contracts.MarketSnapshot{
		Date: "20261016",
		Indices: map[string]*contracts.IndexQuote{
			contracts.IndexKOSPI: {Close: numfmt.Float(2600), ChangePct: numfmt.Float(1.25)},
		},
		Credit: &contracts.Credit{
			HY:     &contracts.HYReading{Value: numfmt.Float(3.5), Season: "🌸 봄(회복국면)", QDays: 12},
			KR:     &contracts.KRReading{Spread: numfmt.Float(9)},
			VIX:    &contracts.VIXReading{Value: numfmt.Float(22)},
			Action: &contracts.Action{Text: action, Grade: regime.GradeFromActionText(action)},
		},
		Warnings:  []string{"환율 급등"},
		PickLevel: regime.PickLevelFromAction(action),
	}
}

func picksFixture() *contracts.PicksResponse {
	total := 4
	return &contracts.PicksResponse{
		Picks: []contracts.Pick{
			{Ticker: "A", Name: "에이", CompositeRank: 1, WeightedRank: 1.5, Trajectory: []int{2, 2, 1}},
			{Ticker: "C", Name: "씨", CompositeRank: 3, WeightedRank: 2.6, Trajectory: []int{1, 3, 3}},
			{Ticker: "D", Name: "디", CompositeRank: 7, WeightedRank: 6.2},
			{Ticker: "E", Name: "이", CompositeRank: 9, WeightedRank: 8.8, Trajectory: []int{9}},
		},
		TotalCommon: &total,
	}
}

func TestLifecycle(t *testing.T) {
	s, err := Begin(StateIdle)
	require.NoError(t, err)
	assert.Equal(t, StateLoading, s)

	_, err = Begin(StateLoading)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = Complete(StateIdle, &Bundle{})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	s, err = Complete(StateLoading, &Bundle{})
	require.NoError(t, err)
	assert.Equal(t, StateFailed, s)

	s, err = Begin(s)
	require.NoError(t, err)
	assert.Equal(t, StateLoading, s)
}

func TestBundleState(t *testing.T) {
	full := func() *Bundle {
		return &Bundle{
			Rankings:  rankingFixture(),
			Picks:     picksFixture(),
			DeathList: &contracts.DeathListResponse{},
			Market:    marketFixture(""),
			Pipeline:  pipelineFixture(),
			AI:        &contracts.AIResponse{Available: true},
		}
	}

	tests := []struct {
		name    string
		modify  func(*Bundle)
		want    State
		missing []Endpoint
	}{
		{"all present", func(b *Bundle) {}, StateLoaded, []Endpoint{}},
		{"optional missing", func(b *Bundle) { b.Market = nil }, StatePartial, []Endpoint{EndpointMarket}},
		{"ai unavailable", func(b *Bundle) { b.AI.Available = false }, StatePartial, []Endpoint{EndpointAI}},
		{"optional error", func(b *Bundle) { b.SetError(EndpointPipeline, errors.New("500")) }, StatePartial, []Endpoint{EndpointPipeline}},
		{"required missing", func(b *Bundle) { b.Picks = nil }, StateFailed, []Endpoint{EndpointPicks}},
		{"required error", func(b *Bundle) { b.SetError(EndpointRankings, errors.New("500")) }, StateFailed, []Endpoint{EndpointRankings}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := full()
			tt.modify(b)
			assert.Equal(t, tt.want, b.State())
			assert.Equal(t, tt.missing, b.Missing())
		})
	}
}

func TestBundleErr(t *testing.T) {
	b := &Bundle{}
	assert.NoError(t, b.Err())

	b.SetError(EndpointMarket, errors.New("optional"))
	assert.NoError(t, b.Err())

	cause := errors.New("boom")
	b.SetError(EndpointPicks, cause)
	assert.ErrorIs(t, b.Err(), cause)
}

func TestBuildMarket(t *testing.T) {
	t.Run("unavailable", func(t *testing.T) {
		v := BuildMarket(nil, DefaultOptions())
		assert.False(t, v.Available)
		assert.Equal(t, regime.LabelUnavailable, v.Signals.Label)
		assert.Equal(t, contracts.SeverityUnclassified, v.Severity)
		assert.Empty(t, v.Indices)
	})

	t.Run("with data", func(t *testing.T) {
		v := BuildMarket(marketFixture("신규 매수를 줄이세요."), DefaultOptions())
		assert.True(t, v.Available)
		require.Len(t, v.Indices, 2)
		assert.Equal(t, "+1.25%", v.Indices[0].Change)
		assert.Equal(t, numfmt.Missing, v.Indices[1].Change)
		assert.Equal(t, "봄 (회복국면)", v.Season.Title())
		assert.Equal(t, 12, v.QDays)

		// VIX 22 is caution on the cards (20/30) and stable on the dots (25/30)
		assert.Equal(t, 1, v.Signals.Green)
		assert.Equal(t, 2, v.Signals.Red)
		assert.Equal(t, regime.LabelCaution, v.Signals.Label)
		assert.Equal(t, 2, v.Dots.Green)
		assert.Equal(t, contracts.SeverityWarning, v.Severity)
		assert.Equal(t, 3, v.PickLevel.MaxPicks)
	})
}

func TestBuildRanking(t *testing.T) {
	opts := DefaultOptions()

	v := BuildRanking(rankingFixture(), pipelineFixture(), 2, opts)
	require.Len(t, v.Rows, 3)
	assert.Equal(t, 3, v.Total)
	assert.Equal(t, "A", v.Rows[0].Stock.Ticker)
	assert.Equal(t, contracts.LetterAPlus, v.Rows[0].Grades.Value)
	assert.Equal(t, contracts.LetterD, v.Rows[2].Grades.Value)
	assert.Equal(t, contracts.StatusVerified, v.Rows[0].Status)
	assert.Equal(t, 2, v.Counts[contracts.StatusVerified])
	assert.Equal(t, "반도체", v.Sectors[0].Sector)
	assert.Equal(t, "2,400 → 200 → 180 → Top 30 → 2", v.Funnel.Path())

	opts.Query = sortfilter.Query{
		Sort:   sortfilter.Config{Key: sortfilter.KeyPER, Direction: sortfilter.Asc},
		Sector: "반도체",
	}
	v = BuildRanking(rankingFixture(), pipelineFixture(), 2, opts)
	require.Len(t, v.Rows, 2)
	assert.Equal(t, "C", v.Rows[0].Stock.Ticker)

	opts.Query = sortfilter.Query{Sort: sortfilter.DefaultConfig(), Status: contracts.StatusPending}
	v = BuildRanking(rankingFixture(), pipelineFixture(), 2, opts)
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "B", v.Rows[0].Stock.Ticker)

	v = BuildRanking(rankingFixture(), nil, 0, DefaultOptions())
	assert.Len(t, v.Rows, 3)
	assert.Equal(t, contracts.StatusNone, v.Rows[0].Status)

	v = BuildRanking(nil, nil, 0, DefaultOptions())
	assert.False(t, v.Available)
	assert.Len(t, v.Funnel.Stages, 5)
}

func TestBuildPicks(t *testing.T) {
	t.Run("normal level", func(t *testing.T) {
		v := BuildPicks(picksFixture(), marketFixture(""), DefaultOptions())
		require.Len(t, v.Rows, 4)
		assert.Equal(t, 4, v.TotalCommon)
		assert.Equal(t, "2→2→1위", v.Rows[0].Arrow)
		require.NotNil(t, v.Rows[0].Sparkline)
		assert.True(t, v.Rows[0].Sparkline.Improving)
		assert.False(t, v.Rows[1].Sparkline.Improving)
		assert.Nil(t, v.Rows[2].Sparkline)
		assert.Equal(t, "1.5", v.Rows[0].WeightedText)
	})

	t.Run("capped", func(t *testing.T) {
		v := BuildPicks(picksFixture(), marketFixture("신규 매수를 줄이세요."), DefaultOptions())
		assert.Len(t, v.Rows, 3)
		assert.False(t, v.Suppressed)
		assert.Equal(t, "축소", v.Level)
	})

	t.Run("suppressed", func(t *testing.T) {
		v := BuildPicks(picksFixture(), marketFixture("즉시 매도하세요"), DefaultOptions())
		assert.True(t, v.Suppressed)
		assert.Empty(t, v.Rows)
		assert.NotEmpty(t, v.Warning)
	})

	t.Run("no market", func(t *testing.T) {
		v := BuildPicks(picksFixture(), nil, DefaultOptions())
		assert.Len(t, v.Rows, 4)
		assert.Empty(t, v.Level)
	})

	t.Run("no picks", func(t *testing.T) {
		v := BuildPicks(nil, nil, DefaultOptions())
		assert.False(t, v.Available)
		assert.NotNil(t, v.Rows)
	})
}

func TestBuildDeathList(t *testing.T) {
	eight := 8
	resp := &contracts.DeathListResponse{
		DeathList: []contracts.DeathListEntry{
			{Ticker: "X", YesterdayRank: 5, TodayRank: &eight, ExitReason: contracts.Tags{"V↓", "뉴스"}},
			{Ticker: "Y", YesterdayRank: 12, DroppedOut: true, ExitReason: contracts.Tags{}},
		},
	}

	v := BuildDeathList(resp)
	require.Len(t, v.Rows, 2)
	assert.Equal(t, 1, v.Dropped)
	require.NotNil(t, v.Rows[0].Drop)
	assert.Equal(t, 3, *v.Rows[0].Drop)
	require.Len(t, v.Rows[0].Reasons, 2)
	assert.Equal(t, deathlist.CategoryValue, v.Rows[0].Reasons[0].Category)
	assert.Equal(t, deathlist.CategoryOther, v.Rows[0].Reasons[1].Category)
	assert.Nil(t, v.Rows[1].Drop)

	assert.False(t, BuildDeathList(nil).Available)
}

func TestRender(t *testing.T) {
	risk := "반도체 과열 주의"
	b := &Bundle{
		Rankings:  rankingFixture(),
		Picks:     picksFixture(),
		DeathList: &contracts.DeathListResponse{},
		Market:    marketFixture("신규 매수를 줄이세요."),
		AI:        &contracts.AIResponse{Available: true, RiskFilter: &risk},
	}

	v := Build(b, DefaultOptions())
	assert.Equal(t, StatePartial, v.State)
	assert.Equal(t, []Endpoint{EndpointPipeline}, v.Missing)
	assert.Equal(t, "2,400 → 200 → 180 → Top 30 → 3", v.Ranking.Funnel.Path())

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, v, RenderOptions{RankingRows: 2}))
	out := buf.String()

	assert.Contains(t, out, "2026년 10월 16일")
	assert.Contains(t, out, "상태: partial (없음: pipeline)")
	assert.Contains(t, out, "1/3 안정 · 주의 필요")
	assert.Contains(t, out, "1. 에이 (A) 가중 1.5 · 2→2→1위")
	assert.Contains(t, out, "(교집합 4종목 중 3종목)")
	assert.Contains(t, out, "이탈 종목 없음")
	assert.Contains(t, out, risk)
	assert.NotContains(t, out, "씨     ")
}

func TestRender_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Build(nil, DefaultOptions()), RenderOptions{}))
	out := buf.String()
	assert.Contains(t, out, "상태: failed")
	assert.Contains(t, out, "시장 데이터 없음")
	assert.Contains(t, out, "순위 데이터 없음")
}
