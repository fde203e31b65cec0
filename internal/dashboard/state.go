// Package dashboard turns fetched payloads into display-ready views. Every
// builder accepts nil for optional payloads and degrades to an unavailable
// section.
package dashboard

import (
	"errors"
	"fmt"
	"sort"

	"github.com/wonny/briefing/internal/contracts"
)

// State is the fetch lifecycle of one refresh
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StatePartial State = "partial" // required ok, optional missing
	StateFailed  State = "failed"
)

// ErrInvalidTransition is returned for lifecycle steps out of order
var ErrInvalidTransition = errors.New("invalid state transition")

// Begin starts a refresh: idle or any finished state → loading
func Begin(s State) (State, error) {
	switch s {
	case StateIdle, StateLoaded, StatePartial, StateFailed:
		return StateLoading, nil
	default:
		return s, fmt.Errorf("%w: %s → %s", ErrInvalidTransition, s, StateLoading)
	}
}

// Complete finishes a refresh: loading → loaded, partial or failed
func Complete(s State, b *Bundle) (State, error) {
	if s != StateLoading {
		return s, fmt.Errorf("%w: complete from %s", ErrInvalidTransition, s)
	}
	return b.State(), nil
}

// Endpoint names one fetched payload
type Endpoint string

const (
	EndpointRankings  Endpoint = "rankings"
	EndpointPicks     Endpoint = "picks"
	EndpointDeathList Endpoint = "deathlist"
	EndpointMarket    Endpoint = "market"
	EndpointPipeline  Endpoint = "pipeline"
	EndpointAI        Endpoint = "ai"
)

// Required reports whether a failure of the endpoint fails the whole refresh
func (e Endpoint) Required() bool {
	switch e {
	case EndpointRankings, EndpointPicks, EndpointDeathList:
		return true
	default:
		return false
	}
}

// AllEndpoints lists every endpoint, required first
func AllEndpoints() []Endpoint {
	return []Endpoint{
		EndpointRankings, EndpointPicks, EndpointDeathList,
		EndpointMarket, EndpointPipeline, EndpointAI,
	}
}

// Bundle holds the result of one refresh. A nil payload is unavailable.
type Bundle struct {
	Rankings  *contracts.RankingSnapshot   `json:"rankings"`
	Picks     *contracts.PicksResponse     `json:"picks"`
	DeathList *contracts.DeathListResponse `json:"death_list"`
	Market    *contracts.MarketSnapshot    `json:"market"`
	Pipeline  *contracts.PipelineSnapshot  `json:"pipeline"`
	AI        *contracts.AIResponse        `json:"ai"`

	Errors map[Endpoint]error `json:"-"`
}

// SetError records a failed endpoint
func (b *Bundle) SetError(e Endpoint, err error) {
	if b.Errors == nil {
		b.Errors = make(map[Endpoint]error)
	}
	b.Errors[e] = err
}

func (b *Bundle) present(e Endpoint) bool {
	if b == nil {
		return false
	}
	if _, failed := b.Errors[e]; failed {
		return false
	}
	switch e {
	case EndpointRankings:
		return b.Rankings != nil
	case EndpointPicks:
		return b.Picks != nil
	case EndpointDeathList:
		return b.DeathList != nil
	case EndpointMarket:
		return b.Market != nil
	case EndpointPipeline:
		return b.Pipeline != nil
	case EndpointAI:
		return b.AI != nil && b.AI.Available
	default:
		return false
	}
}

// Missing lists the endpoints without a usable payload
func (b *Bundle) Missing() []Endpoint {
	out := make([]Endpoint, 0)
	for _, e := range AllEndpoints() {
		if !b.present(e) {
			out = append(out, e)
		}
	}
	return out
}

// State derives the lifecycle outcome of the bundle
func (b *Bundle) State() State {
	partial := false
	for _, e := range b.Missing() {
		if e.Required() {
			return StateFailed
		}
		partial = true
	}
	if partial {
		return StatePartial
	}
	return StateLoaded
}

// Err returns the first required-endpoint error, nil when none failed
func (b *Bundle) Err() error {
	if b == nil {
		return nil
	}
	keys := make([]string, 0, len(b.Errors))
	for e := range b.Errors {
		if e.Required() {
			keys = append(keys, string(e))
		}
	}
	if len(keys) == 0 {
		return nil
	}
	sort.Strings(keys)
	e := Endpoint(keys[0])
	return fmt.Errorf("%s: %w", e, b.Errors[e])
}
