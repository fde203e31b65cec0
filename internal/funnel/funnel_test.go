package funnel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/briefing/internal/contracts"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name  string
		meta  *contracts.RankingMetadata
		picks int
		want  []int
		avail bool
	}{
		{
			name:  "normal",
			meta:  &contracts.RankingMetadata{TotalUniverse: 2400, PrefilterPassed: 200, ScoredCount: 180},
			picks: 5,
			want:  []int{2400, 200, 180, 30, 5},
			avail: true,
		},
		{
			name:  "scored below window keeps top_n fixed",
			meta:  &contracts.RankingMetadata{TotalUniverse: 50, PrefilterPassed: 20, ScoredCount: 12},
			picks: 2,
			want:  []int{50, 20, 12, 30, 2},
			avail: true,
		},
		{
			name:  "negatives clamp to zero",
			meta:  &contracts.RankingMetadata{TotalUniverse: -1, PrefilterPassed: -5, ScoredCount: -9},
			picks: -3,
			want:  []int{0, 0, 0, 30, 0},
			avail: true,
		},
		{
			name:  "out of order clamps down",
			meta:  &contracts.RankingMetadata{TotalUniverse: 100, PrefilterPassed: 300, ScoredCount: 400},
			picks: 99,
			want:  []int{100, 100, 100, 30, 30},
			avail: true,
		},
		{
			name:  "nil metadata",
			meta:  nil,
			picks: 5,
			want:  []int{0, 0, 0, 30, 5},
			avail: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Build(tt.meta, tt.picks)
			require.Len(t, f.Stages, 5)

			got := make([]int, 0, 5)
			for _, s := range f.Stages {
				assert.GreaterOrEqual(t, s.Value, 0)
				got = append(got, s.Value)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, TopN, f.Value(StageTopN))
			assert.Equal(t, tt.avail, f.Available)

			assert.GreaterOrEqual(t, got[0], got[1])
			assert.GreaterOrEqual(t, got[1], got[2])
		})
	}
}

func TestHeightFraction(t *testing.T) {
	assert.Equal(t, 1.0, HeightFraction(2400, 2400, DesktopFloor))
	assert.Equal(t, DesktopFloor, HeightFraction(5, 2400, DesktopFloor))
	assert.Equal(t, MobileFloor, HeightFraction(0, 0, MobileFloor))
	assert.InDelta(t, 0.5, HeightFraction(1200, 2400, DesktopFloor), 1e-9)
}

func TestFunnel_PathAndHeights(t *testing.T) {
	f := Build(&contracts.RankingMetadata{TotalUniverse: 2400, PrefilterPassed: 200, ScoredCount: 180}, 5)
	assert.Equal(t, "2,400 → 200 → 180 → Top 30 → 5", f.Path())

	h := f.Heights(DesktopFloor)
	require.Len(t, h, 5)
	assert.Equal(t, 1.0, h[0])
	for _, v := range h {
		assert.GreaterOrEqual(t, v, DesktopFloor)
	}
}
