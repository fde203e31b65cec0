package contracts

import (
	"encoding/json"
	"fmt"
)

// PipelineSnapshot classifies today's top-N tickers by how long they stayed there
// ⭐ SSOT: verified/pending/new_entry 판정 결과
type PipelineSnapshot struct {
	Verified TickerList     `json:"verified"`  // 3일 연속
	Pending  TickerList     `json:"pending"`   // 2일 연속
	NewEntry TickerList     `json:"new_entry"` // 신규 진입
	Sectors  map[string]int `json:"sectors,omitempty"`
}

// StatusOf returns the pipeline status of a ticker. Nil-safe.
func (p *PipelineSnapshot) StatusOf(ticker string) Status {
	if p == nil {
		return StatusNone
	}
	switch {
	case p.Verified.Contains(ticker):
		return StatusVerified
	case p.Pending.Contains(ticker):
		return StatusPending
	case p.NewEntry.Contains(ticker):
		return StatusNewEntry
	default:
		return StatusNone
	}
}

// Count returns the number of tickers with the status
func (p *PipelineSnapshot) Count(s Status) int {
	if p == nil {
		return 0
	}
	switch s {
	case StatusVerified:
		return len(p.Verified)
	case StatusPending:
		return len(p.Pending)
	case StatusNewEntry:
		return len(p.NewEntry)
	default:
		return 0
	}
}

// Validate checks that the three sets are disjoint
func (p *PipelineSnapshot) Validate() error {
	if p == nil {
		return nil
	}
	owner := make(map[string]Status)
	sets := []struct {
		status  Status
		tickers TickerList
	}{
		{StatusVerified, p.Verified},
		{StatusPending, p.Pending},
		{StatusNewEntry, p.NewEntry},
	}
	for _, set := range sets {
		for _, t := range set.tickers {
			if prev, ok := owner[t]; ok && prev != set.status {
				return fmt.Errorf("%w: ticker %s is both %s and %s", ErrInvalidSnapshot, t, prev, set.status)
			}
			owner[t] = set.status
		}
	}
	return nil
}

// TickerList is a list of tickers. On the wire it is either a string array or
// an array of stock objects carrying a "ticker" field.
type TickerList []string

// Contains reports membership
func (l TickerList) Contains(ticker string) bool {
	for _, t := range l {
		if t == ticker {
			return true
		}
	}
	return false
}

// UnmarshalJSON accepts ["005930"] and [{"ticker":"005930",...}]
func (l *TickerList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(TickerList, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
			continue
		}
		var obj struct {
			Ticker string `json:"ticker"`
		}
		if err := json.Unmarshal(item, &obj); err != nil {
			return fmt.Errorf("ticker list item: %w", err)
		}
		if obj.Ticker != "" {
			out = append(out, obj.Ticker)
		}
	}
	*l = out
	return nil
}
