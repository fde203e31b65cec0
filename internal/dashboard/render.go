package dashboard

import (
	"fmt"
	"io"
	"strings"

	"github.com/wonny/briefing/internal/contracts"
	"github.com/wonny/briefing/internal/sector"
	"github.com/wonny/briefing/pkg/numfmt"
)

// 브리핑/CLI 공통 구분선
const (
	DoubleRule = "═══════════════════════════════════════════════════════════"
	SingleRule = "───────────────────────────────────────────────────────────"
)

// RenderOptions limits the plain-text briefing
type RenderOptions struct {
	RankingRows int // 0 = all rows
}

// printer remembers the first write error
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) section(title string) {
	p.printf("\n%s\n  %s\n%s\n", SingleRule, title, SingleRule)
}

// Render writes the plain-text briefing used by the CLI
func Render(w io.Writer, v Views, opts RenderOptions) error {
	p := &printer{w: w}

	date := v.Ranking.Date
	if date == "" {
		date = v.Market.Date
	}
	p.printf("%s\n  📊 오늘의 브리핑 %s\n", DoubleRule, numfmt.FormatDate(date, numfmt.DateKorean))
	p.printf("  상태: %s", v.State)
	if len(v.Missing) > 0 {
		names := make([]string, len(v.Missing))
		for i, e := range v.Missing {
			names[i] = string(e)
		}
		p.printf(" (없음: %s)", strings.Join(names, ", "))
	}
	p.printf("\n%s\n", DoubleRule)

	renderMarket(p, v.Market)
	renderPicks(p, v.Picks)
	renderRanking(p, v.Ranking, opts.RankingRows)
	renderDeathList(p, v.DeathList)
	if v.AI != nil && v.AI.RiskFilter != nil && *v.AI.RiskFilter != "" {
		p.section("🤖 AI 리스크 필터")
		p.printf("%s\n", *v.AI.RiskFilter)
	}
	return p.err
}

func renderMarket(p *printer, m MarketView) {
	p.section("🌐 시장")
	if !m.Available {
		p.printf("  시장 데이터 없음\n")
		return
	}
	for _, idx := range m.Indices {
		p.printf("  %-6s %10s  %s\n", idx.Name, numfmt.Fixed(idx.Close, 2), idx.Change)
	}
	if title := m.Season.Title(); title != "" {
		p.printf("  %s %s", m.Season.Icon, title)
		if m.QDays > 0 {
			p.printf(" · %d일째", m.QDays)
		}
		p.printf("\n")
	}
	p.printf("  신호: %s\n", m.Signals.Headline())
	for _, ind := range m.Signals.Indicators {
		p.printf("    - %s %s (%s)\n", ind.Label, numfmt.Fixed(ind.Value, 2), ind.Status())
	}
	if m.Action != "" {
		p.printf("  행동: %s [%s]\n", m.Action, m.Severity)
	}
	for _, w := range m.Warnings {
		p.printf("  ⚠️  %s\n", w)
	}
}

func renderPicks(p *printer, v PicksView) {
	p.section("🎯 추천 종목")
	switch {
	case !v.Available:
		p.printf("  추천 데이터 없음\n")
		return
	case v.Suppressed:
		p.printf("  %s\n", v.Warning)
		return
	case len(v.Rows) == 0:
		msg := v.Message
		if msg == "" {
			msg = "3일 연속 Top 30 종목이 없습니다"
		}
		p.printf("  %s\n", msg)
		return
	}
	if v.Warning != "" {
		p.printf("  %s\n", v.Warning)
	}
	for i, r := range v.Rows {
		p.printf("  %d. %s (%s) 가중 %s · %s\n", i+1, r.Name, r.Ticker, r.WeightedText, r.Arrow)
		if r.BuyRationale != "" {
			p.printf("     %s\n", r.BuyRationale)
		}
	}
	if v.TotalCommon > len(v.Rows) {
		p.printf("  (교집합 %d종목 중 %d종목)\n", v.TotalCommon, len(v.Rows))
	}
}

func renderRanking(p *printer, v RankingView, limit int) {
	p.section("🏆 순위")
	if !v.Available {
		p.printf("  순위 데이터 없음\n")
		return
	}
	p.printf("  %s\n", v.Funnel.Path())
	if len(v.Sectors) > 0 {
		p.printf("  섹터: %s\n", sector.Format(v.Sectors))
	}
	p.printf("  검증 %d · 대기 %d · 신규 %d\n",
		v.Counts[contracts.StatusVerified], v.Counts[contracts.StatusPending], v.Counts[contracts.StatusNewEntry])

	rows := v.Rows
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	for _, r := range rows {
		g := r.Grades
		p.printf("  %3d  %-12s %-8s V:%-2s Q:%-2s G:%-2s M:%-2s %s\n",
			r.Stock.CompositeRank, r.Stock.Name, r.Stock.Sector,
			g.Value, g.Quality, g.Growth, g.Momentum, statusMark(r.Status))
	}
}

func statusMark(s contracts.Status) string {
	switch s {
	case contracts.StatusVerified:
		return "✅"
	case contracts.StatusPending:
		return "⏳"
	case contracts.StatusNewEntry:
		return "🆕"
	default:
		return ""
	}
}

func renderDeathList(p *printer, v DeathListView) {
	p.section("💀 이탈 종목")
	if !v.Available {
		p.printf("  이탈 데이터 없음\n")
		return
	}
	if len(v.Rows) == 0 {
		msg := v.Message
		if msg == "" {
			msg = "이탈 종목 없음"
		}
		p.printf("  %s\n", msg)
		return
	}
	for _, r := range v.Rows {
		today := "이탈"
		if r.TodayRank != nil {
			today = fmt.Sprintf("%d위", *r.TodayRank)
		}
		labels := make([]string, 0, len(r.Reasons))
		for _, reason := range r.Reasons {
			labels = append(labels, reason.Raw)
		}
		p.printf("  %s (%s) %d위 → %s %s\n", r.Name, r.Ticker, r.YesterdayRank, today, strings.Join(labels, " "))
	}
}
