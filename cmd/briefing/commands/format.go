package commands

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/wonny/briefing/internal/dashboard"
)

// ═══════════════════════════════════════════════════════════
// Console output
// 모든 커맨드가 브리핑 본문(dashboard.Render)과 같은 구분선/포맷 사용
// ═══════════════════════════════════════════════════════════

// keyWidth aligns key/value lines across commands
const keyWidth = 18

// console writes command output to the cobra output stream
type console struct {
	w io.Writer
}

func newConsole(cmd *cobra.Command) *console {
	return &console{w: cmd.OutOrStdout()}
}

func (c *console) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.w, format, args...)
}

// title prints a boxed heading in the briefing rule style
func (c *console) title(text string) {
	c.printf("%s\n  %s\n%s\n", dashboard.DoubleRule, text, dashboard.SingleRule)
}

// step announces a check/fetch stage
func (c *console) step(text string) {
	c.printf("▶ %s\n", text)
}

func (c *console) blank() {
	c.printf("\n")
}

func (c *console) warn(message string) {
	c.printf("\n⚠️  %s\n\n", message)
}

func (c *console) success(message string) {
	c.printf("✅ %s\n", message)
}

func (c *console) fail(message string) {
	c.printf("❌ %s\n", message)
}

func (c *console) info(message string) {
	c.printf("ℹ️  %s\n", message)
}

// kv prints an aligned "key : value" line
func (c *console) kv(key, value string) {
	c.printf("   %-*s : %s\n", keyWidth, key, value)
}

// numbered prints a 1-based list
func (c *console) numbered(items []string) {
	for i, item := range items {
		c.printf("   %d. %s\n", i+1, item)
	}
}

// table prints a header, a rule sized to the columns and the rows.
// Widths count runes so Korean labels stay aligned with ASCII ones.
func (c *console) table(columns []string, widths []int, rows [][]string) {
	c.row(columns, widths)

	total := 0
	for i, w := range widths {
		total += w
		if i < len(widths)-1 {
			total += 2
		}
	}
	c.printf("%s\n", strings.Repeat("─", total))

	for _, r := range rows {
		c.row(r, widths)
	}
}

func (c *console) row(values []string, widths []int) {
	var b strings.Builder
	for i, val := range values {
		b.WriteString(val)
		if i < len(widths) {
			if pad := widths[i] - utf8.RuneCountInString(val); pad > 0 {
				b.WriteString(strings.Repeat(" ", pad))
			}
		}
		if i < len(values)-1 {
			b.WriteString("  ")
		}
	}
	c.printf("%s\n", strings.TrimRight(b.String(), " "))
}
