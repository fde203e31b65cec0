package regime

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/briefing/internal/contracts"
)

func f(v float64) *float64 { return &v }

func TestMatchSeason(t *testing.T) {
	tests := []struct {
		raw  string
		want contracts.Season
		ok   bool
	}{
		{"🌸 봄(회복국면)", contracts.SeasonSpring, true},
		{"SUMMER", contracts.SeasonSummer, true},
		{"Q3 overheating", contracts.SeasonAutumn, true},
		{"❄️ 겨울", contracts.SeasonWinter, true},
		{"q4", contracts.SeasonWinter, true},
		{"both_stable", contracts.SeasonNone, false},
		{"", contracts.SeasonNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := MatchSeason(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestSeasonOf_FallsBackToConcordance(t *testing.T) {
	assert.Equal(t, contracts.SeasonSpring, SeasonOf("봄", "q4"))
	assert.Equal(t, contracts.SeasonWinter, SeasonOf("unknown", "Q4"))
	assert.Equal(t, contracts.SeasonNone, SeasonOf("", "both_stable"))

	assert.Equal(t, contracts.SeasonNone, SeasonFromCredit(nil))
	assert.Equal(t, contracts.SeasonSummer, SeasonFromCredit(&contracts.Credit{Concordance: "summer"}))
}

func TestSeasonInfo(t *testing.T) {
	assert.Equal(t, "봄 (회복국면)", InfoOf(contracts.SeasonSpring).Title())
	assert.Equal(t, "", InfoOf(contracts.SeasonNone).Title())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		value *float64
		band  Band
		want  contracts.Regime
		ok    bool
	}{
		{"hy stable", f(3.99), CardThresholds.HY, contracts.RegimeStable, true},
		{"hy caution at cutoff", f(4), CardThresholds.HY, contracts.RegimeCaution, true},
		{"hy danger", f(6), CardThresholds.HY, contracts.RegimeDanger, true},
		{"kr caution", f(9), CardThresholds.KR, contracts.RegimeCaution, true},
		{"kr danger", f(10), CardThresholds.KR, contracts.RegimeDanger, true},
		{"vix stable", f(19.9), CardThresholds.VIX, contracts.RegimeStable, true},
		{"vix caution", f(28), CardThresholds.VIX, contracts.RegimeCaution, true},
		{"vix danger", f(30), CardThresholds.VIX, contracts.RegimeDanger, true},
		{"dot vix stable", f(24), SignalDotThresholds.VIX, contracts.RegimeStable, true},
		{"nil", nil, CardThresholds.HY, "", false},
		{"NaN", f(math.NaN()), CardThresholds.HY, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Classify(tt.value, tt.band)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestSummarize_EndToEnd(t *testing.T) {
	credit := &contracts.Credit{
		HY:  &contracts.HYReading{Value: f(3.5)},
		KR:  &contracts.KRReading{Spread: f(9.0)},
		VIX: &contracts.VIXReading{Value: f(28)},
	}

	s := Summarize(credit, DefaultThresholds())
	require.Len(t, s.Indicators, 3)
	assert.Equal(t, 1, s.Green)
	assert.Equal(t, 2, s.Red)
	assert.Equal(t, 3, s.Total)
	assert.InDelta(t, 1.0/3.0, s.Fraction, 1e-9)
	assert.Equal(t, LabelCaution, s.Label)
	assert.Equal(t, contracts.RegimeCaution, s.Indicators[1].Regime)
	assert.Equal(t, "1/3 안정 · 주의 필요", s.Headline())
}

func TestSummarize_Labels(t *testing.T) {
	allGreen := &contracts.Credit{
		HY:  &contracts.HYReading{Value: f(3)},
		VIX: &contracts.VIXReading{Value: f(15)},
	}
	s := Summarize(allGreen, DefaultThresholds())
	assert.Equal(t, LabelConfirmed, s.Label)
	assert.Equal(t, 1.0, s.Fraction)

	mixed := &contracts.Credit{
		HY: &contracts.HYReading{Value: f(3)},
		KR: &contracts.KRReading{Spread: f(12)},
	}
	assert.Equal(t, LabelMixed, Summarize(mixed, DefaultThresholds()).Label)

	// readings without values are skipped
	empty := &contracts.Credit{HY: &contracts.HYReading{}}
	s = Summarize(empty, DefaultThresholds())
	assert.Equal(t, LabelUnavailable, s.Label)
	assert.Equal(t, 0.0, s.Fraction)
	assert.NotNil(t, s.Indicators)

	assert.Equal(t, LabelUnavailable, Summarize(nil, DefaultThresholds()).Label)
}

func TestSummarize_SignalDotThresholds(t *testing.T) {
	credit := &contracts.Credit{VIX: &contracts.VIXReading{Value: f(22)}}
	assert.Equal(t, LabelCaution, Summarize(credit, CardThresholds).Label)
	assert.Equal(t, LabelConfirmed, Summarize(credit, SignalDotThresholds).Label)
}

func TestSeverity(t *testing.T) {
	tests := map[string]contracts.ActionSeverity{
		"aggressive": contracts.SeverityPositive,
		"accumulate": contracts.SeverityPositive,
		"normal":     contracts.SeverityNeutral,
		"neutral":    contracts.SeverityNeutral,
		"caution":    contracts.SeverityWarning,
		"reduce":     contracts.SeverityWarning,
		"danger":     contracts.SeveritySevere,
		"high_risk":  contracts.SeveritySevere,
		"unknown":    contracts.SeverityUnclassified,
		"":           contracts.SeverityUnclassified,
		"🚀":          contracts.SeverityUnclassified,
	}
	for grade, want := range tests {
		assert.Equal(t, want, Severity(grade), "grade %q", grade)
	}
	assert.Equal(t, contracts.SeverityUnclassified, SeverityOf(nil))
}

func TestGradeFromActionText(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"", GradeUnknown},
		{"🚨 즉시 매도하세요", GradeDanger},
		{"보유 종목을 줄이세요", GradeHighRisk},
		{"신규 매수를 멈추세요", GradeReduce},
		{"신규 매수를 줄이세요", GradeCaution},
		{"신중하게 접근하세요", GradeCaution},
		{"분할 매수로 접근하세요", GradeAccumulate},
		{"적극 매수 구간입니다", GradeAggressive},
		{"평소대로 투자하세요", GradeNormal},
		{"그 밖의 문장", GradeNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.want+"/"+tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, GradeFromActionText(tt.text))
		})
	}
}

func TestPickLevelFromAction(t *testing.T) {
	lvl := PickLevelFromAction("즉시 매도하세요")
	assert.Equal(t, 0, lvl.MaxPicks)
	assert.Equal(t, "전량 매도", lvl.Label)
	require.NotNil(t, lvl.Warning)

	lvl = PickLevelFromAction("분할 매수로 접근하세요")
	assert.Equal(t, 3, lvl.MaxPicks)
	assert.Nil(t, lvl.Warning)

	lvl = PickLevelFromAction("")
	assert.Equal(t, DefaultMaxPicks, lvl.MaxPicks)
	assert.Equal(t, "정상", lvl.Label)

	// returned levels never alias the rule table
	a := PickLevelFromAction("관망")
	*a.Warning = "changed"
	assert.Equal(t, "시장 불확실성으로 관망합니다.", *PickLevelFromAction("관망").Warning)
}

func TestApplyPickLevel(t *testing.T) {
	picks := []contracts.Pick{{Ticker: "A"}, {Ticker: "B"}, {Ticker: "C"}, {Ticker: "D"}}

	assert.Len(t, ApplyPickLevel(picks, nil), 4)
	assert.Empty(t, ApplyPickLevel(picks, &contracts.PickLevel{MaxPicks: 0}))
	assert.Len(t, ApplyPickLevel(picks, &contracts.PickLevel{MaxPicks: 3}), 3)
	assert.Len(t, ApplyPickLevel(picks, &contracts.PickLevel{MaxPicks: 10}), 4)
	assert.NotNil(t, ApplyPickLevel(nil, nil))
}
