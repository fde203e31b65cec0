package viewconfig

import (
	"fmt"
	"math"

	"github.com/wonny/briefing/internal/sortfilter"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints
// 실패 시 error 반환 (프로그램 중단)
func Validate(cfg *Config) error {
	// === Selection ===
	s := cfg.Selection
	if s.Days < 1 {
		return ValidationError{"selection.days", "must be >= 1"}
	}
	if len(s.Weights) != s.Days {
		return ValidationError{"selection.weights", fmt.Sprintf("length must equal days (%d)", s.Days)}
	}
	if err := validateWeightsSum(s.Weights, 1.0, 1e-6); err != nil {
		return ValidationError{"selection.weights", err.Error()}
	}
	if s.TopN < 1 {
		return ValidationError{"selection.top_n", "must be >= 1"}
	}
	if s.MaxPicks < 0 || s.MaxPicks > s.TopN {
		return ValidationError{"selection.max_picks", "must be in [0, top_n]"}
	}
	if s.Weight <= 0 || s.Weight > 100 {
		return ValidationError{"selection.weight", "must be in (0, 100]"}
	}

	// === DeathList ===
	if cfg.DeathList.Window < 1 {
		return ValidationError{"deathlist.window", "must be >= 1"}
	}
	if cfg.DeathList.MoveMin <= 0 || cfg.DeathList.MoveMin >= 1 {
		return ValidationError{"deathlist.move_min", "must be in (0, 1)"}
	}
	if cfg.DeathList.FactorDropMin <= 0 {
		return ValidationError{"deathlist.factor_drop_min", "must be > 0"}
	}

	// === Thresholds ===
	if err := cfg.Thresholds.Validate(); err != nil {
		return ValidationError{"thresholds", err.Error()}
	}

	// === History ===
	if cfg.History.Window < 1 {
		return ValidationError{"history.window", "must be >= 1"}
	}
	if cfg.History.DefaultLines < 0 {
		return ValidationError{"history.default_lines", "must be >= 0"}
	}

	// === View ===
	if _, err := sortfilter.ParseKey(cfg.View.DefaultSort); err != nil {
		return ValidationError{"view.default_sort", err.Error()}
	}
	if cfg.View.RankingRows < 0 {
		return ValidationError{"view.ranking_rows", "must be >= 0"}
	}
	if cfg.View.SectorTop < 1 {
		return ValidationError{"view.sector_top", "must be >= 1"}
	}
	f := cfg.View.Sparkline
	if f.Width <= 2*f.Padding || f.Height <= 2*f.Padding || f.Padding < 0 {
		return ValidationError{"view.sparkline", "width and height must exceed 2*padding"}
	}

	return nil
}

func validateWeightsSum(weights []float64, target, tol float64) error {
	sum := 0.0
	for _, w := range weights {
		if w < 0 {
			return fmt.Errorf("weights must be non-negative")
		}
		sum += w
	}
	if math.Abs(sum-target) > tol {
		return fmt.Errorf("weights sum must be %.1f, got %.6f", target, sum)
	}
	return nil
}
