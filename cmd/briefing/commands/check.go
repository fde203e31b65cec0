package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/briefing/internal/store"
	"github.com/wonny/briefing/internal/viewconfig"
	"github.com/wonny/briefing/pkg/numfmt"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "설정/소스 연결 점검",
	Long: `설정과 스냅샷 소스, 캐시 연결 상태를 점검합니다.

이 명령어는:
- 환경변수 설정 로드
- 분석 설정 YAML 검증 + 해시
- 스냅샷 소스 날짜 조회 (file 또는 postgres)
- PostgreSQL Health Check + Pool 통계 (SOURCE=postgres)
- Redis Ping (REDIS_ENABLED=true)

Example:
  go run ./cmd/briefing check
  go run ./cmd/briefing check --config config/briefing.yaml`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	out := newConsole(cmd)
	out.title("Briefing Connection Check")

	// 1. Configuration
	out.step("Loading configuration...")
	rt, err := loadRuntime()
	if err != nil {
		return fmt.Errorf("❌ Failed to load config: %w", err)
	}
	out.success(fmt.Sprintf("Config loaded (ENV: %s, SOURCE: %s)", rt.cfg.Env, rt.cfg.Source))

	hash, err := viewconfig.Hash(rt.view)
	if err != nil {
		return fmt.Errorf("❌ Failed to hash analytics config: %w", err)
	}
	out.kv("Analytics config", rt.cfg.ViewConfigPath)
	out.kv("Version", rt.view.Meta.Version)
	out.kv("Hash", hash[:12])
	out.kv("Selection", fmt.Sprintf("%d days, weights %v, top %d, max %d",
		rt.view.Selection.Days, rt.view.Selection.Weights, rt.view.Selection.TopN, rt.view.Selection.MaxPicks))
	out.blank()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	// 2. Source
	out.step("Opening snapshot source...")
	src, err := rt.openSources(ctx)
	if err != nil {
		return fmt.Errorf("❌ %w", err)
	}
	defer src.Close()

	dates, err := src.raw.Dates(ctx)
	if err != nil {
		return fmt.Errorf("❌ Failed to list ranking dates: %w", err)
	}
	webDates, err := src.raw.WebCacheDates(ctx)
	if err != nil {
		return fmt.Errorf("❌ Failed to list web cache dates: %w", err)
	}
	out.success(fmt.Sprintf("Ranking snapshots: %d, web caches: %d", len(dates), len(webDates)))
	if len(dates) > 0 {
		out.kv("Latest ranking", numfmt.FormatDate(dates[0], numfmt.DateISO))
	}
	if cache, err := store.LatestWebCache(ctx, src.raw); err != nil {
		out.warn(fmt.Sprintf("Latest web cache unreadable: %v", err))
	} else if cache != nil {
		out.kv("Latest web cache", numfmt.FormatDate(cache.Date, numfmt.DateISO))
	}
	out.blank()

	// 3. Database
	if src.db != nil {
		out.step("Getting database health status...")
		status, err := src.db.HealthCheck(ctx)
		if err != nil {
			return fmt.Errorf("❌ Health check failed: %w", err)
		}
		out.success("Health Check Results:")
		out.kv("Response Time", status.ResponseTime.String())
		out.kv("Max Connections", fmt.Sprint(status.MaxConns))
		out.kv("Total Connections", fmt.Sprint(status.TotalConns))
		out.kv("Idle Connections", fmt.Sprint(status.IdleConns))
		out.blank()
	}

	// 4. Redis
	if src.redis.Enabled() {
		out.step("Testing redis (Ping)...")
		if err := src.redis.Ping(ctx); err != nil {
			return fmt.Errorf("❌ Redis ping failed: %w", err)
		}
		out.success("Redis ping successful")
	} else {
		out.info("Redis disabled (pass-through cache)")
	}

	out.blank()
	out.success("All checks passed!")
	return nil
}
