package contracts

import (
	"encoding/json"
	"strings"
)

// DeathListEntry is a stock that left the tracked window (Fast Out)
type DeathListEntry struct {
	Ticker        string `json:"ticker"`
	Name          string `json:"name"`
	Sector        string `json:"sector"`
	YesterdayRank int    `json:"yesterday_rank"`
	TodayRank     *int   `json:"today_rank"` // nil iff DroppedOut
	DroppedOut    bool   `json:"dropped_out"`
	ExitReason    Tags   `json:"exit_reason,omitempty"`
}

// DiffDates names the two snapshots of a diff
type DiffDates struct {
	Yesterday string `json:"yesterday"`
	Today     string `json:"today"`
}

// DeathListResponse is the /deathlist payload
type DeathListResponse struct {
	DeathList []DeathListEntry `json:"death_list"`
	Dates     DiffDates        `json:"dates"`
	Message   string           `json:"message,omitempty"`
}

// Tags are short exit-reason tags. On the wire they are either a string array or
// a single space separated string.
type Tags []string

// UnmarshalJSON accepts ["V↓","Q↓"], "V↓ Q↓" and null
func (t *Tags) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Tags(strings.Fields(s))
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	out := make(Tags, 0, len(list))
	for _, item := range list {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*t = out
	return nil
}
