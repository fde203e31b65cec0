// Package regime classifies macro risk readings: credit-cycle season,
// per-indicator stability, the aggregate signal and the action severity.
package regime

import (
	"strings"

	"github.com/wonny/briefing/internal/contracts"
)

// seasonKeywords are matched in order; the first hit wins
var seasonKeywords = []struct {
	season   contracts.Season
	keywords []string
}{
	{contracts.SeasonSpring, []string{"봄", "spring", "q1"}},
	{contracts.SeasonSummer, []string{"여름", "summer", "q2"}},
	{contracts.SeasonAutumn, []string{"가을", "autumn", "q3"}},
	{contracts.SeasonWinter, []string{"겨울", "winter", "q4"}},
}

// MatchSeason matches free text against the season keywords, case-insensitively
func MatchSeason(raw string) (contracts.Season, bool) {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if lower == "" {
		return contracts.SeasonNone, false
	}
	for _, s := range seasonKeywords {
		for _, kw := range s.keywords {
			if strings.Contains(lower, kw) {
				return s.season, true
			}
		}
	}
	return contracts.SeasonNone, false
}

// SeasonOf resolves the season from the HY season label, falling back to the
// concordance field. Returns SeasonNone when neither matches.
func SeasonOf(hySeason, concordance string) contracts.Season {
	if s, ok := MatchSeason(hySeason); ok {
		return s
	}
	if s, ok := MatchSeason(concordance); ok {
		return s
	}
	return contracts.SeasonNone
}

// SeasonFromCredit is SeasonOf over a possibly nil credit block
func SeasonFromCredit(c *contracts.Credit) contracts.Season {
	if c == nil {
		return contracts.SeasonNone
	}
	label := ""
	if c.HY != nil {
		label = c.HY.Season
	}
	return SeasonOf(label, c.Concordance)
}

// SeasonInfo is display metadata of a season
type SeasonInfo struct {
	Season contracts.Season `json:"season"`
	Icon   string           `json:"icon"`
	Label  string           `json:"label"`
	Phase  string           `json:"phase"`
}

var seasonInfo = map[contracts.Season]SeasonInfo{
	contracts.SeasonSpring: {contracts.SeasonSpring, "🌸", "봄", "회복국면"},
	contracts.SeasonSummer: {contracts.SeasonSummer, "☀️", "여름", "성장국면"},
	contracts.SeasonAutumn: {contracts.SeasonAutumn, "🍂", "가을", "과열국면"},
	contracts.SeasonWinter: {contracts.SeasonWinter, "❄️", "겨울", "침체국면"},
}

// InfoOf returns display metadata; SeasonNone yields an empty label
func InfoOf(s contracts.Season) SeasonInfo {
	if info, ok := seasonInfo[s]; ok {
		return info
	}
	return SeasonInfo{Season: contracts.SeasonNone}
}

// Title renders "봄 (회복국면)", or "" for none
func (i SeasonInfo) Title() string {
	if i.Label == "" {
		return ""
	}
	return i.Label + " (" + i.Phase + ")"
}
