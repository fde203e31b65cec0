package regime

import (
	"fmt"
	"math"

	"github.com/wonny/briefing/internal/contracts"
)

// Band is a three-tier threshold pair: v < Stable → stable, v < Caution →
// caution, otherwise danger.
type Band struct {
	Stable  float64 `yaml:"stable" json:"stable"`
	Caution float64 `yaml:"caution" json:"caution"`
}

// Validate checks Stable ≤ Caution
func (b Band) Validate() error {
	if b.Stable > b.Caution {
		return fmt.Errorf("band stable %.2f > caution %.2f", b.Stable, b.Caution)
	}
	return nil
}

// Thresholds holds one band per indicator
type Thresholds struct {
	HY  Band `yaml:"hy" json:"hy"`
	KR  Band `yaml:"kr" json:"kr"`
	VIX Band `yaml:"vix" json:"vix"`
}

// Validate checks every band
func (t Thresholds) Validate() error {
	for name, b := range map[string]Band{"hy": t.HY, "kr": t.KR, "vix": t.VIX} {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// ⭐ SSOT: 지표 카드 임계값 (대시보드 전체의 기준)
var CardThresholds = Thresholds{
	HY:  Band{Stable: 4, Caution: 6},
	KR:  Band{Stable: 8, Caution: 10},
	VIX: Band{Stable: 20, Caution: 30},
}

// SignalDotThresholds is the legacy signal-dot set where VIX counts as stable
// below 25. Kept distinct from CardThresholds; not used by Summarize unless
// passed explicitly.
var SignalDotThresholds = Thresholds{
	HY:  Band{Stable: 4, Caution: 6},
	KR:  Band{Stable: 8, Caution: 10},
	VIX: Band{Stable: 25, Caution: 30},
}

// DefaultThresholds is the canonical set
func DefaultThresholds() Thresholds {
	return CardThresholds
}

// Classify places a reading in a band. nil/NaN readings are unavailable (ok=false).
func Classify(value *float64, b Band) (contracts.Regime, bool) {
	if value == nil || math.IsNaN(*value) {
		return "", false
	}
	switch v := *value; {
	case v < b.Stable:
		return contracts.RegimeStable, true
	case v < b.Caution:
		return contracts.RegimeCaution, true
	default:
		return contracts.RegimeDanger, true
	}
}

// Indicator is one reading of the signal summary
type Indicator struct {
	Key    string           `json:"key"`
	Label  string           `json:"label"`
	Value  *float64         `json:"value"`
	Regime contracts.Regime `json:"regime"`
	OK     bool             `json:"ok"` // stable
}

// Status is the Korean tone word of the indicator
func (i Indicator) Status() string {
	switch i.Regime {
	case contracts.RegimeStable:
		return "안정"
	case contracts.RegimeCaution:
		return "주의"
	case contracts.RegimeDanger:
		if i.Key == KeyKR {
			return "위험"
		}
		return "경계"
	default:
		return "-"
	}
}

// Indicator keys
const (
	KeyHY  = "hy"
	KeyKR  = "kr"
	KeyVIX = "vix"
)

// SummaryLabel is the overall reading of the signal summary
type SummaryLabel string

const (
	LabelConfirmed   SummaryLabel = "confirmed"   // 모두 안정
	LabelCaution     SummaryLabel = "caution"     // red > green
	LabelMixed       SummaryLabel = "mixed"
	LabelUnavailable SummaryLabel = "unavailable" // 지표 없음
)

// Summary aggregates the available indicators
type Summary struct {
	Indicators []Indicator  `json:"indicators"`
	Green      int          `json:"green"`
	Red        int          `json:"red"`
	Total      int          `json:"total"`
	Fraction   float64      `json:"fraction"` // green / total, 0 when total == 0
	Label      SummaryLabel `json:"label"`
}

// Headline renders "2/3 안정 · 확실한 신호" style text
func (s Summary) Headline() string {
	if s.Total == 0 {
		return "신호 없음"
	}
	base := fmt.Sprintf("%d/%d 안정", s.Green, s.Total)
	switch s.Label {
	case LabelConfirmed:
		return base + " · 확실한 신호"
	case LabelCaution:
		return base + " · 주의 필요"
	default:
		return base
	}
}

// Summarize classifies the HY, KR and VIX readings of a credit block.
// Missing readings are skipped; a nil block yields LabelUnavailable.
func Summarize(c *contracts.Credit, t Thresholds) Summary {
	s := Summary{Indicators: []Indicator{}}

	if c != nil {
		if c.HY != nil {
			s.add(KeyHY, "미국 하이일드 스프레드", c.HY.Value, t.HY)
		}
		if c.KR != nil {
			s.add(KeyKR, "한국 BBB- 스프레드", c.KR.Spread, t.KR)
		}
		if c.VIX != nil {
			s.add(KeyVIX, "VIX 변동성", c.VIX.Value, t.VIX)
		}
	}

	s.Total = s.Green + s.Red
	switch {
	case s.Total == 0:
		s.Label = LabelUnavailable
	case s.Green == s.Total:
		s.Label = LabelConfirmed
	case s.Red > s.Green:
		s.Label = LabelCaution
	default:
		s.Label = LabelMixed
	}
	if s.Total > 0 {
		s.Fraction = float64(s.Green) / float64(s.Total)
	}
	return s
}

func (s *Summary) add(key, label string, value *float64, b Band) {
	r, ok := Classify(value, b)
	if !ok {
		return
	}
	ind := Indicator{Key: key, Label: label, Value: value, Regime: r, OK: r == contracts.RegimeStable}
	s.Indicators = append(s.Indicators, ind)
	if ind.OK {
		s.Green++
	} else {
		s.Red++
	}
}
