package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	viewConfigFile string
	verbose        bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "briefing",
	Short: "주식 랭킹 브리핑 대시보드",
	Long: `Briefing Unified CLI

일별 랭킹 스냅샷과 웹 캐시로부터 공통 픽, Fast Out, 시장 신호,
파이프라인 분류를 계산해 API와 텍스트 브리핑으로 제공합니다.

Usage:
  go run ./cmd/briefing [command]

Examples:
  go run ./cmd/briefing api
  go run ./cmd/briefing brief
  go run ./cmd/briefing brief --local
  go run ./cmd/briefing grade 1.8 0.4 -1.2
  go run ./cmd/briefing dates --local
  go run ./cmd/briefing check`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&viewConfigFile, "config", "", "analytics config YAML (default is $BRIEFING_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
