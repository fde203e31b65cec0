package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/briefing/internal/briefing"
	"github.com/wonny/briefing/internal/contracts"
	"github.com/wonny/briefing/internal/dashboard"
	"github.com/wonny/briefing/internal/regime"
	"github.com/wonny/briefing/internal/sortfilter"
	"github.com/wonny/briefing/pkg/logger"
)

// BriefingHandler serves the briefing payloads and their derived views
// ⭐ SSOT: 브리핑 API 핸들러는 이 구조체에서만
type BriefingHandler struct {
	service *briefing.Service
	opts    dashboard.Options
	logger  *logger.Logger
}

// NewBriefingHandler creates a new briefing handler
func NewBriefingHandler(service *briefing.Service, opts dashboard.Options, log *logger.Logger) *BriefingHandler {
	return &BriefingHandler{
		service: service,
		opts:    opts,
		logger:  log.WithComponent("api"),
	}
}

// serve runs fn and writes its result as JSON
func serve[T any](h *BriefingHandler, w http.ResponseWriter, r *http.Request, fn func(ctx context.Context) (T, error)) {
	out, err := fn(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

// GetDates returns the available ranking dates
// GET /api/dates
func (h *BriefingHandler) GetDates(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, h.service.Dates)
}

// GetLatestRanking returns the newest ranking snapshot
// GET /api/rankings/latest
func (h *BriefingHandler) GetLatestRanking(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, h.service.LatestRanking)
}

// GetRanking returns the ranking snapshot of one date
// GET /api/rankings/{date}
func (h *BriefingHandler) GetRanking(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]
	serve(h, w, r, func(ctx context.Context) (*contracts.RankingSnapshot, error) {
		return h.service.Ranking(ctx, date)
	})
}

// GetPicks returns the common picks
// GET /api/picks
func (h *BriefingHandler) GetPicks(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, h.service.Picks)
}

// GetDeathList returns the exits between the last two days
// GET /api/deathlist
func (h *BriefingHandler) GetDeathList(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, h.service.DeathList)
}

// GetMarket returns the market snapshot
// GET /api/market
func (h *BriefingHandler) GetMarket(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, h.service.Market)
}

// GetPipeline returns the pipeline classification
// GET /api/pipeline
func (h *BriefingHandler) GetPipeline(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, h.service.Pipeline)
}

// GetAI returns the AI commentary
// GET /api/ai
func (h *BriefingHandler) GetAI(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, h.service.AI)
}

// GetAllHistory returns every ticker's rank history
// GET /api/history
func (h *BriefingHandler) GetAllHistory(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, h.service.AllHistory)
}

// GetHistory returns one ticker's rank history
// GET /api/history/{ticker}
func (h *BriefingHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]
	serve(h, w, r, func(ctx context.Context) (*contracts.StockHistory, error) {
		return h.service.History(ctx, ticker)
	})
}

// GetMarketView returns the market card
// GET /api/views/market
func (h *BriefingHandler) GetMarketView(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, func(ctx context.Context) (dashboard.MarketView, error) {
		m, err := h.service.Market(ctx)
		if err != nil {
			return dashboard.MarketView{}, err
		}
		return dashboard.BuildMarket(m, h.opts), nil
	})
}

// GetRankingView returns the sorted and filtered ranking table
// GET /api/views/rankings?sort=per&dir=asc&sector=반도체&status=verified
func (h *BriefingHandler) GetRankingView(w http.ResponseWriter, r *http.Request) {
	q, err := ParseQuery(r, h.opts.Query)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	opts := h.opts
	opts.Query = q

	serve(h, w, r, func(ctx context.Context) (dashboard.RankingView, error) {
		snap, err := h.service.LatestRanking(ctx)
		if err != nil {
			return dashboard.RankingView{}, err
		}
		// 파이프라인/픽은 선택 데이터: 실패 시 경고 후 진행
		p, err := h.service.Pipeline(ctx)
		if err != nil {
			h.logger.WithError(err).Warn("Pipeline unavailable for ranking view")
			p = nil
		}
		picks := 0
		if resp, err := h.service.Picks(ctx); err == nil {
			var level *contracts.PickLevel
			if m, err := h.service.Market(ctx); err == nil {
				level = m.PickLevel
			}
			picks = len(regime.ApplyPickLevel(resp.Picks, level))
		}
		return dashboard.BuildRanking(snap, p, picks, opts), nil
	})
}

// GetPicksView returns the pick cards
// GET /api/views/picks
func (h *BriefingHandler) GetPicksView(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, func(ctx context.Context) (dashboard.PicksView, error) {
		resp, err := h.service.Picks(ctx)
		if err != nil {
			return dashboard.PicksView{}, err
		}
		m, err := h.service.Market(ctx)
		if err != nil {
			h.logger.WithError(err).Warn("Market unavailable for picks view")
			m = nil
		}
		return dashboard.BuildPicks(resp, m, h.opts), nil
	})
}

// GetDeathListView returns the exits section
// GET /api/views/deathlist
func (h *BriefingHandler) GetDeathListView(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, func(ctx context.Context) (dashboard.DeathListView, error) {
		resp, err := h.service.DeathList(ctx)
		if err != nil {
			return dashboard.DeathListView{}, err
		}
		return dashboard.BuildDeathList(resp), nil
	})
}

// ParseQuery reads sort, dir, sector and status over the defaults
func ParseQuery(r *http.Request, def sortfilter.Query) (sortfilter.Query, error) {
	v := r.URL.Query()
	return sortfilter.ParseQuery(def, v.Get("sort"), v.Get("dir"), v.Get("sector"), v.Get("status"))
}
