package viewconfig

import (
	"github.com/wonny/briefing/internal/briefing"
	"github.com/wonny/briefing/internal/contracts"
	"github.com/wonny/briefing/internal/dashboard"
	"github.com/wonny/briefing/internal/deathlist"
	"github.com/wonny/briefing/internal/regime"
	"github.com/wonny/briefing/internal/selection"
	"github.com/wonny/briefing/internal/sortfilter"
	"github.com/wonny/briefing/internal/trajectory"
)

// Config는 브리핑 분석/화면 설정 전체
type Config struct {
	Meta       Meta              `yaml:"meta" json:"meta"`
	Selection  selection.Config  `yaml:"selection" json:"selection"`
	DeathList  DeathList         `yaml:"deathlist" json:"deathlist"`
	Thresholds regime.Thresholds `yaml:"thresholds" json:"thresholds"`
	History    History           `yaml:"history" json:"history"`
	View       View              `yaml:"view" json:"view"`
}

// Meta 메타 정보
type Meta struct {
	Version string `yaml:"version" json:"version"`
}

// DeathList Fast Out 설정
type DeathList struct {
	Window        int     `yaml:"window" json:"window"`                   // 추적 Top N
	MoveMin       float64 `yaml:"move_min" json:"move_min"`               // 전망/가격 변화 임계 (0.03 = 3%)
	FactorDropMin float64 `yaml:"factor_drop_min" json:"factor_drop_min"` // 팩터 하락 임계
}

// History 순위 히스토리 설정
type History struct {
	Window       int `yaml:"window" json:"window"`               // 날짜별 Top N
	DefaultLines int `yaml:"default_lines" json:"default_lines"` // 차트 기본 선택 종목 수
}

// View 화면 기본값
type View struct {
	DefaultSort string `yaml:"default_sort" json:"default_sort"`
	RankingRows int    `yaml:"ranking_rows" json:"ranking_rows"`
	SectorTop   int    `yaml:"sector_top" json:"sector_top"`
	Sparkline   Frame  `yaml:"sparkline" json:"sparkline"`
}

// Frame 스파크라인 크기
type Frame struct {
	Width   float64 `yaml:"width" json:"width"`
	Height  float64 `yaml:"height" json:"height"`
	Padding float64 `yaml:"padding" json:"padding"`
}

// Default returns the built-in configuration
func Default() *Config {
	d := deathlist.DefaultOptions()
	f := trajectory.DefaultFrame
	return &Config{
		Meta:      Meta{Version: "default"},
		Selection: selection.DefaultConfig(),
		DeathList: DeathList{
			Window:        d.Window,
			MoveMin:       d.MoveMin,
			FactorDropMin: d.FactorDropMin,
		},
		Thresholds: regime.DefaultThresholds(),
		History:    History{Window: contracts.DefaultTopN, DefaultLines: 5},
		View: View{
			DefaultSort: string(sortfilter.KeyCompositeRank),
			RankingRows: contracts.DefaultTopN,
			SectorTop:   contracts.DefaultTopN,
			Sparkline:   Frame{Width: f.Width, Height: f.Height, Padding: f.Padding},
		},
	}
}

// DeathListOptions converts to the diff options
func (c *Config) DeathListOptions() deathlist.Options {
	return deathlist.Options{
		Window:        c.DeathList.Window,
		MoveMin:       c.DeathList.MoveMin,
		FactorDropMin: c.DeathList.FactorDropMin,
	}
}

// BriefingOptions converts to the briefing service options
func (c *Config) BriefingOptions() briefing.Options {
	return briefing.Options{
		Selection:     c.Selection,
		DeathList:     c.DeathListOptions(),
		HistoryWindow: c.History.Window,
	}
}

// DashboardOptions converts to the view options
func (c *Config) DashboardOptions() dashboard.Options {
	key, err := sortfilter.ParseKey(c.View.DefaultSort)
	if err != nil {
		key = sortfilter.KeyCompositeRank
	}
	return dashboard.Options{
		Thresholds: c.Thresholds,
		Query: sortfilter.Query{
			Sort: sortfilter.Config{Key: key, Direction: sortfilter.DefaultDirection(key)},
		},
		Frame: trajectory.Frame{
			Width:   c.View.Sparkline.Width,
			Height:  c.View.Sparkline.Height,
			Padding: c.View.Sparkline.Padding,
		},
		SectorTop: c.View.SectorTop,
	}
}
