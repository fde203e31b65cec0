package selection

import (
	"fmt"
	"strings"

	"github.com/wonny/briefing/internal/contracts"
)

// BuyRationale summarizes why a pick qualifies: valuation, profitability and
// rank stability, joined with " · ". Empty when nothing applies.
func BuyRationale(p contracts.Pick) string {
	parts := make([]string, 0, 3)

	// PER 평가 (Forward PER 우선)
	if v := positive(p.FwdPER); v != nil {
		parts = append(parts, valuation("Forward PER", *v))
	} else if v := positive(p.PER); v != nil {
		parts = append(parts, valuation("PER", *v))
	}

	// ROE 평가
	if v := positive(p.ROE); v != nil {
		switch {
		case *v >= 20:
			parts = append(parts, fmt.Sprintf("ROE %.1f%% (고수익)", *v))
		case *v >= 10:
			parts = append(parts, fmt.Sprintf("ROE %.1f%% (양호)", *v))
		default:
			parts = append(parts, fmt.Sprintf("ROE %.1f%%", *v))
		}
	}

	// 순위 안정성
	if t := p.Trajectory; len(t) >= 3 {
		first, last := t[0], t[len(t)-1]
		switch {
		case allEqual(t):
			parts = append(parts, fmt.Sprintf("%d일 연속 %d위", len(t), first))
		case last <= first:
			parts = append(parts, fmt.Sprintf("순위 상승 중 (%d→%d위)", first, last))
		}
	}

	return strings.Join(parts, " · ")
}

func valuation(label string, v float64) string {
	switch {
	case v < 10:
		return fmt.Sprintf("%s %.1f (저평가)", label, v)
	case v < 15:
		return fmt.Sprintf("%s %.1f (적정)", label, v)
	default:
		return fmt.Sprintf("%s %.1f", label, v)
	}
}

func positive(v *float64) *float64 {
	if v == nil || *v <= 0 {
		return nil
	}
	return v
}

func allEqual(xs []int) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}
