// Package briefing assembles the endpoint payloads from stored snapshots:
// the precomputed web cache when present, the ranking files otherwise.
package briefing

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/wonny/briefing/internal/contracts"
	"github.com/wonny/briefing/internal/deathlist"
	"github.com/wonny/briefing/internal/grade"
	"github.com/wonny/briefing/internal/regime"
	"github.com/wonny/briefing/internal/selection"
	"github.com/wonny/briefing/internal/store"
	"github.com/wonny/briefing/pkg/logger"
)

// Options tunes the derived payloads
type Options struct {
	Selection selection.Config
	DeathList deathlist.Options
	// HistoryWindow limits /history to stocks inside this top-N per day
	HistoryWindow int
}

// DefaultOptions returns the canonical options
func DefaultOptions() Options {
	return Options{
		Selection:     selection.DefaultConfig(),
		DeathList:     deathlist.DefaultOptions(),
		HistoryWindow: contracts.DefaultTopN,
	}
}

// Service builds briefing payloads
// ⭐ SSOT: 캐시 → 랭킹 fallback 판단은 여기서만
type Service struct {
	source   store.Source
	selector *selection.Selector
	opts     Options
	logger   *logger.Logger
}

// NewService creates a new briefing service
func NewService(source store.Source, opts Options, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	if opts.HistoryWindow <= 0 {
		opts.HistoryWindow = contracts.DefaultTopN
	}
	return &Service{
		source:   source,
		selector: selection.NewSelector(opts.Selection, log),
		opts:     opts,
		logger:   log.WithComponent("briefing"),
	}
}

// Dates lists the available ranking dates, newest first
func (s *Service) Dates(ctx context.Context) (*contracts.DatesResponse, error) {
	dates, err := s.source.Dates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list dates: %w", err)
	}
	return &contracts.DatesResponse{Dates: dates}, nil
}

// LatestRanking returns the newest ranking snapshot
func (s *Service) LatestRanking(ctx context.Context) (*contracts.RankingSnapshot, error) {
	dates, err := s.source.Dates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list dates: %w", err)
	}
	if len(dates) == 0 {
		return nil, fmt.Errorf("no ranking data: %w", contracts.ErrNotFound)
	}
	return s.Ranking(ctx, dates[0])
}

// Ranking returns the snapshot of a date. Structural problems are logged,
// the snapshot is still served.
func (s *Service) Ranking(ctx context.Context, date string) (*contracts.RankingSnapshot, error) {
	snap, err := s.source.Ranking(ctx, date)
	if err != nil {
		return nil, err
	}
	if err := snap.Validate(); err != nil {
		s.logger.WithError(err).WithField("date", date).Warn("Ranking snapshot failed validation")
	}
	return snap, nil
}

// webCache loads the newest web cache. A corrupt document counts as absent.
func (s *Service) webCache(ctx context.Context) *contracts.WebCache {
	cache, err := store.LatestWebCache(ctx, s.source)
	if err != nil {
		s.logger.WithError(err).Warn("Web cache unavailable, falling back to rankings")
		return nil
	}
	return cache
}

// Picks returns the multi-day intersection picks capped by the market pick level
func (s *Service) Picks(ctx context.Context) (*contracts.PicksResponse, error) {
	var resp contracts.PicksResponse
	if cache := s.webCache(ctx); cache != nil && len(cache.Picks) > 0 {
		resp = s.picksFromCache(ctx, cache)
	} else {
		days, err := store.Recent(ctx, s.source, s.opts.Selection.Days)
		if err != nil {
			return nil, fmt.Errorf("failed to load rankings: %w", err)
		}
		resp = s.selector.Picks(days)
	}

	market, err := s.Market(ctx)
	if err != nil {
		return nil, err
	}
	if market.PickLevel != nil && market.PickLevel.MaxPicks < len(resp.Picks) {
		capped := regime.ApplyPickLevel(resp.Picks, market.PickLevel)
		s.logger.WithFields(map[string]interface{}{
			"level": market.PickLevel.Label,
			"from":  len(resp.Picks),
			"to":    len(capped),
		}).Info("Picks capped by market level")
		resp.Picks = capped
		if resp.TotalCommon != nil {
			skipped := *resp.TotalCommon - len(capped)
			resp.Skipped = &skipped
		}
	}
	return &resp, nil
}

func (s *Service) picksFromCache(ctx context.Context, cache *contracts.WebCache) contracts.PicksResponse {
	grades := map[string]contracts.FactorGrades{}
	if latest, err := s.LatestRanking(ctx); err == nil {
		grades = grade.Relative(latest.Top(contracts.DefaultTopN))
	}

	picks := make([]contracts.Pick, 0, len(cache.Picks))
	for _, raw := range cache.Picks {
		p := PickFromRaw(raw, s.opts.Selection)
		if g, ok := grades[p.Ticker]; ok {
			p.FactorGrades = &g
		}
		p.BuyRationale = selection.BuyRationale(p)
		picks = append(picks, p)
	}

	total := len(picks)
	skipped := 0
	resp := contracts.PicksResponse{
		Picks:       picks,
		Dates:       []string{},
		TotalCommon: &total,
		Skipped:     &skipped,
	}
	if cache.Date != "" {
		resp.Dates = []string{cache.Date}
	}
	return resp
}

// DeathList returns the exits between the two latest days
func (s *Service) DeathList(ctx context.Context) (*contracts.DeathListResponse, error) {
	cache := s.webCache(ctx)
	if cache != nil && len(cache.Exited) > 0 {
		return s.deathListFromCache(ctx, cache), nil
	}

	days, err := store.Recent(ctx, s.source, 2)
	if err != nil {
		return nil, fmt.Errorf("failed to load rankings: %w", err)
	}
	if len(days) < 2 {
		return &contracts.DeathListResponse{
			DeathList: []contracts.DeathListEntry{},
			Message:   "2일 이상의 데이터가 필요합니다",
		}, nil
	}

	// AI flagged_tickers는 매수 주의 표시일 뿐 이탈 사유가 아님
	return &contracts.DeathListResponse{
		DeathList: deathlist.Diff(days[1], days[0], s.opts.DeathList),
		Dates:     contracts.DiffDates{Yesterday: days[1].Date, Today: days[0].Date},
	}, nil
}

func (s *Service) deathListFromCache(ctx context.Context, cache *contracts.WebCache) *contracts.DeathListResponse {
	entries := make([]contracts.DeathListEntry, 0, len(cache.Exited))
	for _, e := range cache.Exited {
		entries = append(entries, ExitFromRaw(e))
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].YesterdayRank < entries[j].YesterdayRank
	})

	dates := contracts.DiffDates{Today: cache.Date}
	if all, err := s.source.Dates(ctx); err == nil {
		for i, d := range all {
			if d == cache.Date && i+1 < len(all) {
				dates.Yesterday = all[i+1]
				break
			}
		}
	}
	return &contracts.DeathListResponse{DeathList: entries, Dates: dates}
}

// Market returns the market snapshot, or the unavailable default when no
// cache exists
func (s *Service) Market(ctx context.Context) (*contracts.MarketSnapshot, error) {
	cache := s.webCache(ctx)
	if cache != nil && (cache.Market != nil || cache.Credit != nil) {
		return MarketFromCache(cache), nil
	}

	date := ""
	if dates, err := s.source.Dates(ctx); err == nil && len(dates) > 0 {
		date = dates[0]
	}
	return EmptyMarket(date), nil
}

// Pipeline returns today's verified / pending / new_entry classification
func (s *Service) Pipeline(ctx context.Context) (*contracts.PipelineSnapshot, error) {
	var p *contracts.PipelineSnapshot
	if cache := s.webCache(ctx); cache != nil && !cache.Pipeline.Empty() {
		p = PipelineFromCache(cache)
	} else {
		days, err := store.Recent(ctx, s.source, 3)
		if err != nil {
			return nil, fmt.Errorf("failed to load rankings: %w", err)
		}
		p = selection.ClassifyPipeline(days, s.opts.Selection)
	}

	if err := p.Validate(); err != nil {
		s.logger.WithError(err).Warn("Pipeline sets overlap")
	}
	return p, nil
}

// AI returns the AI commentary block, available=false without one
func (s *Service) AI(ctx context.Context) (*contracts.AIResponse, error) {
	cache := s.webCache(ctx)
	if cache == nil || cache.AI.Empty() {
		return &contracts.AIResponse{FlaggedTickers: []string{}}, nil
	}

	resp := &contracts.AIResponse{
		RiskFilter:     CleanTextPtr(cache.AI.RiskFilter),
		PicksText:      CleanTextPtr(cache.AI.PicksText),
		FlaggedTickers: cache.AI.FlaggedTickers,
		Available:      true,
	}
	if resp.FlaggedTickers == nil {
		resp.FlaggedTickers = []string{}
	}
	return resp, nil
}

// History returns the daily ranking history of one ticker, oldest first
func (s *Service) History(ctx context.Context, ticker string) (*contracts.StockHistory, error) {
	days, err := s.allDays(ctx)
	if err != nil {
		return nil, err
	}

	h := &contracts.StockHistory{Ticker: ticker, History: []contracts.HistoryPoint{}}
	for _, day := range days {
		st, ok := day.Find(ticker)
		if !ok {
			continue
		}
		h.History = append(h.History, contracts.HistoryPoint{
			Date:          day.Date,
			Rank:          st.Rank,
			CompositeRank: st.CompositeRank,
			Score:         st.Score,
			ValueS:        st.ValueS,
			QualityS:      st.QualityS,
			GrowthS:       st.GrowthS,
			MomentumS:     st.MomentumS,
		})
	}
	if len(h.History) == 0 {
		return nil, fmt.Errorf("ticker %s: %w", ticker, contracts.ErrNotFound)
	}
	return h, nil
}

// AllHistory returns every stock that was inside the history window on any
// day, with its ranks on those days
func (s *Service) AllHistory(ctx context.Context) (*contracts.AllHistory, error) {
	days, err := s.allDays(ctx)
	if err != nil {
		return nil, err
	}

	out := &contracts.AllHistory{
		Stocks: map[string]contracts.TrackedStock{},
		Dates:  make([]string, 0, len(days)),
	}
	for _, day := range days {
		out.Dates = append(out.Dates, day.Date)
		for _, st := range day.Top(s.opts.HistoryWindow) {
			tracked, ok := out.Stocks[st.Ticker]
			if !ok {
				tracked = contracts.TrackedStock{Name: st.Name, Sector: st.Sector}
			}
			tracked.History = append(tracked.History, contracts.RankPoint{
				Date:          day.Date,
				CompositeRank: st.CompositeRank,
				Score:         st.Score,
			})
			out.Stocks[st.Ticker] = tracked
		}
	}
	return out, nil
}

// allDays loads every snapshot oldest first, skipping unreadable days
func (s *Service) allDays(ctx context.Context) ([]*contracts.RankingSnapshot, error) {
	dates, err := s.source.Dates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list dates: %w", err)
	}

	days := make([]*contracts.RankingSnapshot, 0, len(dates))
	for i := len(dates) - 1; i >= 0; i-- {
		snap, err := s.source.Ranking(ctx, dates[i])
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			s.logger.WithError(err).WithField("date", dates[i]).Warn("Skipping unreadable snapshot")
			continue
		}
		days = append(days, snap)
	}
	return days, nil
}
