package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/briefing/internal/api"
	"github.com/wonny/briefing/internal/api/handlers"
	"github.com/wonny/briefing/internal/api/stream"
	"github.com/wonny/briefing/internal/scheduler"
	"github.com/wonny/briefing/internal/scheduler/jobs"
	"github.com/wonny/briefing/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `브리핑 REST API 서버를 시작합니다.

이 명령어는:
- 스냅샷 소스 연결 (SOURCE=file|postgres)
- Redis 캐시/Rate limit (REDIS_ENABLED=true)
- 새 스냅샷 감시 스케줄러 (REFRESH_SCHEDULE)
- /api/stream 웹소켓 푸시

Endpoints:
  GET  /health
  GET  /metrics
  GET  /api/dates
  GET  /api/rankings/latest
  GET  /api/rankings/{date}
  GET  /api/picks
  GET  /api/deathlist
  GET  /api/market
  GET  /api/pipeline
  GET  /api/ai
  GET  /api/history
  GET  /api/history/{ticker}
  GET  /api/views/{market|rankings|picks|deathlist}
  GET  /api/stream

Example:
  go run ./cmd/briefing api
  go run ./cmd/briefing api --port 8090`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본값 $PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	out := newConsole(cmd)
	out.title("Briefing API Server")

	// 1. Load config
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	if apiPort != "" {
		rt.cfg.Port = apiPort
	}
	log := rt.logger

	log.WithFields(map[string]interface{}{
		"port":   rt.cfg.Port,
		"env":    rt.cfg.Env,
		"source": rt.cfg.Source,
	}).Info("Initializing API server")

	// 2. Open snapshot source + cache
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	src, err := rt.openSources(ctx)
	cancel()
	if err != nil {
		return err
	}
	defer src.Close()

	// 3. Service + handler
	svc := rt.newService(src)
	briefingHandler := handlers.NewBriefingHandler(svc, rt.view.DashboardOptions(), log)

	// 4. Stream hub + metrics
	hub := stream.NewHub(log, api.OriginChecker(rt.cfg.CORSOrigins))
	var metrics *api.Metrics
	if rt.cfg.MetricsEnabled {
		metrics = api.NewMetrics()
	}

	// 5. Health checks
	health := map[string]api.HealthCheck{
		"source": func(ctx context.Context) error {
			_, err := src.raw.Dates(ctx)
			return err
		},
	}
	if src.db != nil {
		health["database"] = src.db.Ping
	}
	if src.redis.Enabled() {
		health["redis"] = src.redis.Ping
	}

	// 6. Router + server
	router := api.NewRouter(api.RouterDeps{
		Briefing:    briefingHandler,
		Hub:         hub,
		Metrics:     metrics,
		Limiter:     redis.NewRateLimiter(src.redis, rt.cfg.Redis.Prefix),
		CORSOrigins: rt.cfg.CORSOrigins,
		Health:      health,
	}, log)
	server := api.New(rt.cfg, log, router)

	// 7. Snapshot watch
	sched := scheduler.New(log, scheduler.WithRetry(1, 5*time.Second))
	watch := jobs.NewSnapshotWatchJob(src.raw, src.cached, api.Broadcaster{Hub: hub, Metrics: metrics}, rt.cfg.RefreshSchedule, log)
	if err := sched.AddJob(watch); err != nil {
		return fmt.Errorf("schedule snapshot watch: %w", err)
	}
	// baseline before serving
	if _, err := sched.RunJob(watch.Name()); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	// 8. Start server with graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	log.Info("API server started successfully")
	out.blank()
	out.success(fmt.Sprintf("Server running on http://localhost:%s", rt.cfg.Port))
	out.kv("Stream", "ws://localhost:"+rt.cfg.Port+"/api/stream")
	out.kv("Snapshot watch", watch.Schedule())
	out.info("Press Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	log.Info("Shutting down server...")
	hub.Close()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
