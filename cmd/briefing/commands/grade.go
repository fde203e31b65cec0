package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wonny/briefing/internal/grade"
)

// gradeCmd represents the grade command
var gradeCmd = &cobra.Command{
	Use:   "grade <score...>",
	Short: "팩터 점수 → 등급 변환",
	Long: `표준화 팩터 점수(z-score)를 등급, 백분위, 상위 %로 변환합니다.

Example:
  go run ./cmd/briefing grade 1.8 0.4 -1.2`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGrade,
}

func init() {
	rootCmd.AddCommand(gradeCmd)
}

func runGrade(cmd *cobra.Command, args []string) error {
	rows := make([][]string, 0, len(args))
	for _, arg := range args {
		score, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("invalid score %q: %w", arg, err)
		}
		pct := grade.Percentile(score)
		rows = append(rows, []string{
			strconv.FormatFloat(score, 'f', 2, 64),
			string(grade.Of(score)),
			strconv.Itoa(pct),
			fmt.Sprintf("%d%%", grade.TopPercent(pct)),
		})
	}

	newConsole(cmd).table([]string{"Score", "Grade", "Percentile", "Top"}, []int{10, 6, 10, 8}, rows)
	return nil
}
