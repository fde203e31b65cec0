package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/briefing/internal/api/handlers"
	"github.com/wonny/briefing/internal/api/stream"
	"github.com/wonny/briefing/pkg/logger"
	"github.com/wonny/briefing/pkg/redis"
)

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// RouterDeps are the collaborators of the router. Everything except
// Briefing is optional.
type RouterDeps struct {
	Briefing    *handlers.BriefingHandler
	Hub         *stream.Hub
	Metrics     *Metrics
	Limiter     *redis.RateLimiter
	CORSOrigins []string
	Health      map[string]HealthCheck
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(deps RouterDeps, log *logger.Logger) http.Handler {
	log = log.WithComponent("http")
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler(deps.Health)).Methods("GET")
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler()).Methods("GET")
	}

	api := r.PathPrefix("/api").Subrouter()
	api.Use(rateLimitMiddleware(deps.Limiter, log, deps.Metrics))

	// Raw payloads
	h := deps.Briefing
	api.HandleFunc("/dates", h.GetDates).Methods("GET")
	api.HandleFunc("/rankings/latest", h.GetLatestRanking).Methods("GET")
	api.HandleFunc("/rankings/{date}", h.GetRanking).Methods("GET")
	api.HandleFunc("/picks", h.GetPicks).Methods("GET")
	api.HandleFunc("/deathlist", h.GetDeathList).Methods("GET")
	api.HandleFunc("/market", h.GetMarket).Methods("GET")
	api.HandleFunc("/pipeline", h.GetPipeline).Methods("GET")
	api.HandleFunc("/ai", h.GetAI).Methods("GET")
	api.HandleFunc("/history", h.GetAllHistory).Methods("GET")
	api.HandleFunc("/history/{ticker}", h.GetHistory).Methods("GET")

	// Derived views
	api.HandleFunc("/views/market", h.GetMarketView).Methods("GET")
	api.HandleFunc("/views/rankings", h.GetRankingView).Methods("GET")
	api.HandleFunc("/views/picks", h.GetPicksView).Methods("GET")
	api.HandleFunc("/views/deathlist", h.GetDeathListView).Methods("GET")

	// Push
	if deps.Hub != nil {
		api.Handle("/stream", deps.Hub).Methods("GET")
		if deps.Metrics != nil {
			deps.Hub.OnCount = func(n int) { deps.Metrics.StreamClients.Set(float64(n)) }
		}
	}

	// Apply middleware
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(log, deps.Metrics))
	r.Use(recoveryMiddleware(log))

	// CORS wraps the whole router so preflights reach it before method matching
	return corsMiddleware(deps.CORSOrigins)(r)
}

// healthCheckHandler returns server health status. A failed check reports
// degraded with 503.
func healthCheckHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status, code := "ok", http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				results[name] = err.Error()
				status, code = "degraded", http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  status,
			"service": "briefing-api",
			"checks":  results,
		})
	}
}

// Broadcaster publishes events to the hub and counts them
type Broadcaster struct {
	Hub     *stream.Hub
	Metrics *Metrics
}

// Publish forwards v to every stream subscriber
func (b Broadcaster) Publish(v interface{}) {
	if b.Metrics != nil {
		b.Metrics.SnapshotEvents.Inc()
	}
	if b.Hub != nil {
		b.Hub.Publish(v)
	}
}
