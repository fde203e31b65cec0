// Package trajectory turns rank histories into sparkline geometry, rank
// deltas and chart rows.
package trajectory

import (
	"strconv"
	"strings"

	"github.com/wonny/briefing/internal/contracts"
)

// Frame is the drawing area of a sparkline
type Frame struct {
	Width   float64
	Height  float64
	Padding float64
}

// DefaultFrame is the card sparkline (60x28, 4px padding)
var DefaultFrame = Frame{Width: 60, Height: 28, Padding: 4}

// Point is one sparkline vertex. Lower ranks map to smaller y.
type Point struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Rank int     `json:"rank"`
}

// Sparkline is the normalized series of a rank trajectory
type Sparkline struct {
	Points    []Point `json:"points"`
	Marker    Point   `json:"marker"` // last point
	Improving bool    `json:"improving"`
	Min       int     `json:"min"`
	Max       int     `json:"max"`
}

// Build normalizes a chronological trajectory. The y scale always covers the
// 1..30 window even when the observed ranks are narrower. An empty trajectory
// produces no series (ok=false).
func Build(traj []int, f Frame) (Sparkline, bool) {
	n := len(traj)
	if n == 0 {
		return Sparkline{}, false
	}

	lo, hi := 1, contracts.DefaultTopN
	for _, r := range traj {
		lo = min(lo, r)
		hi = max(hi, r)
	}
	span := float64(max(hi-lo, 1))
	innerW := f.Width - 2*f.Padding
	innerH := f.Height - 2*f.Padding
	steps := float64(max(n-1, 1))

	points := make([]Point, n)
	for i, r := range traj {
		points[i] = Point{
			X:    f.Padding + float64(i)/steps*innerW,
			Y:    f.Padding + float64(r-lo)/span*innerH,
			Rank: r,
		}
	}

	return Sparkline{
		Points:    points,
		Marker:    points[n-1],
		Improving: Improving(traj),
		Min:       lo,
		Max:       hi,
	}, true
}

// Improving reports last ≤ first. Empty trajectories are not improving.
func Improving(traj []int) bool {
	if len(traj) == 0 {
		return false
	}
	return traj[len(traj)-1] <= traj[0]
}

// Polyline renders the points as an SVG points attribute
func (s Sparkline) Polyline() string {
	parts := make([]string, len(s.Points))
	for i, p := range s.Points {
		parts[i] = strconv.FormatFloat(p.X, 'f', -1, 64) + "," + strconv.FormatFloat(p.Y, 'f', -1, 64)
	}
	return strings.Join(parts, " ")
}

// Arrow renders "5→3위" style text, "" when empty
func Arrow(traj []int) string {
	if len(traj) == 0 {
		return ""
	}
	parts := make([]string, len(traj))
	for i, r := range traj {
		parts[i] = strconv.Itoa(r)
	}
	return strings.Join(parts, "→") + "위"
}
