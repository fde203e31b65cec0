package regime

import (
	"strings"

	"github.com/wonny/briefing/internal/contracts"
)

// Action grades written by the upstream risk monitor
const (
	GradeAggressive = "aggressive"
	GradeAccumulate = "accumulate"
	GradeNormal     = "normal"
	GradeNeutral    = "neutral"
	GradeCaution    = "caution"
	GradeReduce     = "reduce"
	GradeHighRisk   = "high_risk"
	GradeDanger     = "danger"
	GradeUnknown    = "unknown"
)

// Severity maps an action grade to its display tier. Total over any string.
func Severity(grade string) contracts.ActionSeverity {
	switch strings.ToLower(strings.TrimSpace(grade)) {
	case GradeAggressive, GradeAccumulate:
		return contracts.SeverityPositive
	case GradeNormal, GradeNeutral:
		return contracts.SeverityNeutral
	case GradeCaution, GradeReduce:
		return contracts.SeverityWarning
	case GradeDanger, GradeHighRisk:
		return contracts.SeveritySevere
	default:
		return contracts.SeverityUnclassified
	}
}

// SeverityOf is Severity over a possibly nil action
func SeverityOf(a *contracts.Action) contracts.ActionSeverity {
	if a == nil {
		return contracts.SeverityUnclassified
	}
	return Severity(a.Grade)
}

// 가장 위험 → 가장 안전 순서로 매칭
var actionGradeRules = []struct {
	grade    string
	keywords []string
}{
	{GradeDanger, []string{"즉시 매도", "🚨"}},
	{GradeHighRisk, []string{"보유 종목을 매도", "보유 종목을 줄이"}},
	{GradeReduce, []string{"신규 매수를 멈추"}},
	{GradeCaution, []string{"신규 매수를 줄이", "신중"}},
	{GradeAccumulate, []string{"분할 매수"}},
	{GradeAggressive, []string{"적극 매수", "적극 투자"}},
	{GradeNormal, []string{"평소대로"}},
}

// GradeFromActionText derives the action grade from the recommendation text.
// Empty text is unknown; text matching no rule is neutral.
func GradeFromActionText(text string) string {
	if strings.TrimSpace(text) == "" {
		return GradeUnknown
	}
	for _, r := range actionGradeRules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.grade
			}
		}
	}
	return GradeNeutral
}

// DefaultMaxPicks is the pick count when the market imposes no cap
const DefaultMaxPicks = 5

func warning(s string) *string { return &s }

var pickLevelRules = []struct {
	keyword string
	level   contracts.PickLevel
}{
	{"즉시 매도", contracts.PickLevel{MaxPicks: 0, Label: "전량 매도",
		Warning: warning("🚨 시장 위험으로 매수를 중단합니다. 보유 종목 매도를 검토하세요.")}},
	{"매도하세요", contracts.PickLevel{MaxPicks: 0, Label: "매도",
		Warning: warning("⚠️ 시장 위험으로 매수를 중단합니다. 보유 종목 매도를 검토하세요.")}},
	{"멈추", contracts.PickLevel{MaxPicks: 0, Label: "매수 중단",
		Warning: warning("⚠️ 시장 위험으로 신규 매수를 중단합니다.")}},
	{"관망", contracts.PickLevel{MaxPicks: 0, Label: "관망",
		Warning: warning("시장 불확실성으로 관망합니다.")}},
	{"줄이", contracts.PickLevel{MaxPicks: 3, Label: "축소",
		Warning: warning("⚠️ 시장 경고로 추천을 3종목으로 축소합니다.")}},
	{"분할 매수", contracts.PickLevel{MaxPicks: 3, Label: "분할 매수"}},
	{"신중", contracts.PickLevel{MaxPicks: 5, Label: "신중",
		Warning: warning("신규 매수 시 신중하세요.")}},
}

// NormalPickLevel is the uncapped level
func NormalPickLevel() *contracts.PickLevel {
	return &contracts.PickLevel{MaxPicks: DefaultMaxPicks, Label: "정상"}
}

// PickLevelFromAction derives the market-wide pick cap from the action text
func PickLevelFromAction(text string) *contracts.PickLevel {
	for _, r := range pickLevelRules {
		if strings.Contains(text, r.keyword) {
			level := r.level
			if r.level.Warning != nil {
				w := *r.level.Warning
				level.Warning = &w
			}
			return &level
		}
	}
	return NormalPickLevel()
}

// ApplyPickLevel caps picks by the market level. max_picks = 0 suppresses every
// pick; nil level leaves the list untouched. Always returns a new slice.
func ApplyPickLevel(picks []contracts.Pick, level *contracts.PickLevel) []contracts.Pick {
	n := len(picks)
	if level != nil && level.MaxPicks >= 0 && level.MaxPicks < n {
		n = level.MaxPicks
	}
	out := make([]contracts.Pick, n)
	copy(out, picks[:n])
	return out
}
