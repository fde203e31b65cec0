package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/briefing/internal/briefing"
	"github.com/wonny/briefing/internal/client"
	"github.com/wonny/briefing/internal/dashboard"
	"github.com/wonny/briefing/internal/sortfilter"
	"github.com/wonny/briefing/pkg/httputil"
)

// briefCmd represents the brief command
var briefCmd = &cobra.Command{
	Use:   "brief",
	Short: "텍스트 브리핑 출력",
	Long: `API에서 모든 브리핑 데이터를 받아 텍스트 대시보드로 출력합니다.

필수 데이터(rankings, picks, deathlist) 중 하나라도 실패하면 에러,
선택 데이터(market, pipeline, ai)는 없어도 해당 섹션만 비워서 출력합니다.

Example:
  go run ./cmd/briefing brief
  go run ./cmd/briefing brief --local
  go run ./cmd/briefing brief --json
  go run ./cmd/briefing brief --sort per --status verified`,
	RunE: runBrief,
}

var (
	briefLocal  bool
	briefJSON   bool
	briefRows   int
	briefSort   string
	briefDir    string
	briefSector string
	briefStatus string

	briefTimeout time.Duration
)

func init() {
	rootCmd.AddCommand(briefCmd)

	// Flags
	briefCmd.Flags().BoolVar(&briefLocal, "local", false, "API 대신 스냅샷 소스를 직접 읽기")
	briefCmd.Flags().BoolVar(&briefJSON, "json", false, "뷰를 JSON으로 출력")
	briefCmd.Flags().IntVar(&briefRows, "rows", 0, "랭킹 출력 행 수 (기본값 설정 파일)")
	briefCmd.Flags().StringVar(&briefSort, "sort", "", "정렬 키 (composite_rank, per, pbr, score, ...)")
	briefCmd.Flags().StringVar(&briefDir, "dir", "", "정렬 방향 (asc|desc)")
	briefCmd.Flags().StringVar(&briefSector, "sector", "", "섹터 필터")
	briefCmd.Flags().StringVar(&briefStatus, "status", "", "파이프라인 상태 필터 (verified|pending|new_entry|none)")
	briefCmd.Flags().DurationVar(&briefTimeout, "timeout", 30*time.Second, "전체 조회 제한 시간")
}

func runBrief(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}

	opts := rt.view.DashboardOptions()
	opts.Query, err = sortfilter.ParseQuery(opts.Query, briefSort, briefDir, briefSector, briefStatus)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), briefTimeout)
	defer cancel()

	var bundle *dashboard.Bundle
	if briefLocal {
		src, err := rt.openSources(ctx)
		if err != nil {
			return err
		}
		defer src.Close()
		bundle = localBundle(ctx, rt.newService(src))
	} else {
		c := client.New(rt.cfg.Upstream.BaseURL, httputil.New(rt.cfg.Upstream, rt.logger), rt.logger)
		bundle, err = c.FetchAll(ctx)
	}

	out := newConsole(cmd)
	views := dashboard.Build(bundle, opts)
	if views.State == dashboard.StateFailed {
		if err == nil {
			err = bundle.Err()
		}
		if err == nil {
			err = fmt.Errorf("required briefing data missing: %v", views.Missing)
		}
		out.fail(fmt.Sprintf("브리핑 데이터를 불러오지 못했습니다: %v", err))
		return err
	}

	if briefJSON {
		enc := json.NewEncoder(out.w)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	}

	rows := rt.view.View.RankingRows
	if briefRows > 0 {
		rows = briefRows
	}
	if err := dashboard.Render(out.w, views, dashboard.RenderOptions{RankingRows: rows}); err != nil {
		return err
	}
	if views.State == dashboard.StatePartial {
		out.warn(fmt.Sprintf("일부 데이터 누락: %v", views.Missing))
	}
	out.printf("Generated at %s\n", time.Now().Format("2006-01-02 15:04:05"))
	return nil
}

// localBundle reads every payload from the service. Errors are recorded per
// endpoint the way the API client records them.
func localBundle(ctx context.Context, svc *briefing.Service) *dashboard.Bundle {
	b := &dashboard.Bundle{}
	record := func(e dashboard.Endpoint, err error) {
		if err != nil {
			b.SetError(e, err)
		}
	}

	var err error
	b.Rankings, err = svc.LatestRanking(ctx)
	record(dashboard.EndpointRankings, err)
	b.Picks, err = svc.Picks(ctx)
	record(dashboard.EndpointPicks, err)
	b.DeathList, err = svc.DeathList(ctx)
	record(dashboard.EndpointDeathList, err)
	b.Market, err = svc.Market(ctx)
	record(dashboard.EndpointMarket, err)
	b.Pipeline, err = svc.Pipeline(ctx)
	record(dashboard.EndpointPipeline, err)
	b.AI, err = svc.AI(ctx)
	record(dashboard.EndpointAI, err)
	return b
}
