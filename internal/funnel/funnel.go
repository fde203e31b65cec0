// Package funnel builds the five-stage selection funnel
// (universe → prefilter → scored → top 30 → picks).
package funnel

import (
	"fmt"
	"strings"

	"github.com/wonny/briefing/internal/contracts"
	"github.com/wonny/briefing/pkg/numfmt"
)

// TopN is the fixed size of the ranking window stage
const TopN = contracts.DefaultTopN

// Bar height floors so zero-valued stages stay visible
const (
	DesktopFloor = 0.20
	MobileFloor  = 0.25
)

// StageKey identifies a funnel stage
type StageKey string

const (
	StageUniverse  StageKey = "universe"
	StagePrefilter StageKey = "prefilter"
	StageScored    StageKey = "scored"
	StageTopN      StageKey = "top_n"
	StagePicks     StageKey = "picks"
)

// Stage is one funnel step
type Stage struct {
	Key   StageKey `json:"key"`
	Label string   `json:"label"`
	Desc  string   `json:"desc"`
	Value int      `json:"value"`
}

// Funnel is always exactly five stages
type Funnel struct {
	Stages    []Stage `json:"stages"`
	Available bool    `json:"available"` // false when metadata was missing
}

// Build creates the funnel from snapshot metadata and the pick count.
// Negative counts clamp to 0 and universe ≥ prefilter ≥ scored is enforced
// by clamping; the top_n stage is always TopN.
func Build(meta *contracts.RankingMetadata, picks int) Funnel {
	var universe, prefilter, scored int
	if meta != nil {
		universe = max(meta.TotalUniverse, 0)
		prefilter = numfmt.ClampInt(meta.PrefilterPassed, 0, universe)
		scored = numfmt.ClampInt(meta.ScoredCount, 0, prefilter)
	}
	picks = numfmt.ClampInt(picks, 0, TopN)

	return Funnel{
		Stages: []Stage{
			{StageUniverse, "유니버스", "시총 3000억+ PER<=60", universe},
			{StagePrefilter, "사전필터", "마법공식 Top200", prefilter},
			{StageScored, "스코어링", "멀티팩터 점수", scored},
			{StageTopN, fmt.Sprintf("Top %d", TopN), "일일 순위", TopN},
			{StagePicks, "최종 추천", "3일 교집합", picks},
		},
		Available: meta != nil,
	}
}

// Value returns a stage's value, 0 for an unknown key
func (f Funnel) Value(key StageKey) int {
	for _, s := range f.Stages {
		if s.Key == key {
			return s.Value
		}
	}
	return 0
}

// HeightFraction normalizes a stage value against the universe size with a floor
func HeightFraction(value, totalUniverse int, floor float64) float64 {
	frac := float64(max(value, 0)) / float64(max(totalUniverse, 1))
	return max(floor, frac)
}

// Heights returns HeightFraction for every stage
func (f Funnel) Heights(floor float64) []float64 {
	total := f.Value(StageUniverse)
	out := make([]float64, len(f.Stages))
	for i, s := range f.Stages {
		out[i] = HeightFraction(s.Value, total, floor)
	}
	return out
}

// Path renders "2,400 → 200 → 180 → Top 30 → 5"
func (f Funnel) Path() string {
	parts := make([]string, 0, len(f.Stages))
	for _, s := range f.Stages {
		if s.Key == StageTopN {
			parts = append(parts, s.Label)
			continue
		}
		parts = append(parts, numfmt.Thousands(s.Value))
	}
	return strings.Join(parts, " → ")
}
