package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/briefing/internal/client"
	"github.com/wonny/briefing/internal/contracts"
	"github.com/wonny/briefing/pkg/httputil"
	"github.com/wonny/briefing/pkg/numfmt"
)

// datesCmd represents the dates command
var datesCmd = &cobra.Command{
	Use:   "dates",
	Short: "랭킹 날짜 목록",
	Long: `사용 가능한 랭킹 스냅샷 날짜를 최신순으로 출력합니다.

Example:
  go run ./cmd/briefing dates
  go run ./cmd/briefing dates --local`,
	RunE: runDates,
}

var datesLocal bool

func init() {
	rootCmd.AddCommand(datesCmd)

	// Flags
	datesCmd.Flags().BoolVar(&datesLocal, "local", false, "API 대신 스냅샷 소스를 직접 읽기")
}

func runDates(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	var resp *contracts.DatesResponse
	if datesLocal {
		src, err := rt.openSources(ctx)
		if err != nil {
			return err
		}
		defer src.Close()
		resp, err = rt.newService(src).Dates(ctx)
		if err != nil {
			return err
		}
	} else {
		c := client.New(rt.cfg.Upstream.BaseURL, httputil.New(rt.cfg.Upstream, rt.logger), rt.logger)
		if resp, err = c.Dates(ctx); err != nil {
			return err
		}
	}

	out := newConsole(cmd)
	if len(resp.Dates) == 0 {
		out.warn("랭킹 데이터가 없습니다")
		return nil
	}
	items := make([]string, len(resp.Dates))
	for i, d := range resp.Dates {
		items[i] = fmt.Sprintf("%s  (%s)", d, numfmt.FormatDate(d, numfmt.DateKorean))
	}
	out.title(fmt.Sprintf("📅 랭킹 스냅샷 %d일", len(resp.Dates)))
	out.numbered(items)
	return nil
}
