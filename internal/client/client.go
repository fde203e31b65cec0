// Package client is the typed consumer of the briefing API. FetchAll issues
// every dashboard request concurrently and isolates optional failures.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/briefing/internal/contracts"
	"github.com/wonny/briefing/internal/dashboard"
	"github.com/wonny/briefing/pkg/httputil"
	"github.com/wonny/briefing/pkg/logger"
)

// Client calls the briefing API
type Client struct {
	http    *httputil.Client
	baseURL string
	logger  *logger.Logger
}

// New creates a client for baseURL (e.g. http://localhost:8090/api)
func New(baseURL string, http *httputil.Client, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{http: http, baseURL: baseURL, logger: log.WithComponent("client")}
}

func get[T any](ctx context.Context, c *Client, path string) (*T, error) {
	var out T
	if err := c.http.GetJSON(ctx, c.baseURL+path, &out); err != nil {
		var se *httputil.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%s: %w", path, contracts.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &out, nil
}

// Dates lists available dates, newest first
func (c *Client) Dates(ctx context.Context) (*contracts.DatesResponse, error) {
	return get[contracts.DatesResponse](ctx, c, "/dates")
}

// LatestRanking fetches the newest ranking snapshot
func (c *Client) LatestRanking(ctx context.Context) (*contracts.RankingSnapshot, error) {
	return get[contracts.RankingSnapshot](ctx, c, "/rankings/latest")
}

// Ranking fetches the snapshot of one date
func (c *Client) Ranking(ctx context.Context, date string) (*contracts.RankingSnapshot, error) {
	return get[contracts.RankingSnapshot](ctx, c, "/rankings/"+url.PathEscape(date))
}

// Picks fetches the multi-day picks
func (c *Client) Picks(ctx context.Context) (*contracts.PicksResponse, error) {
	return get[contracts.PicksResponse](ctx, c, "/picks")
}

// DeathList fetches the exits
func (c *Client) DeathList(ctx context.Context) (*contracts.DeathListResponse, error) {
	return get[contracts.DeathListResponse](ctx, c, "/deathlist")
}

// Market fetches the market snapshot
func (c *Client) Market(ctx context.Context) (*contracts.MarketSnapshot, error) {
	return get[contracts.MarketSnapshot](ctx, c, "/market")
}

// Pipeline fetches the pipeline classification
func (c *Client) Pipeline(ctx context.Context) (*contracts.PipelineSnapshot, error) {
	return get[contracts.PipelineSnapshot](ctx, c, "/pipeline")
}

// AI fetches the AI commentary
func (c *Client) AI(ctx context.Context) (*contracts.AIResponse, error) {
	return get[contracts.AIResponse](ctx, c, "/ai")
}

// History fetches one ticker's history; an unknown ticker is ErrNotFound
func (c *Client) History(ctx context.Context, ticker string) (*contracts.StockHistory, error) {
	return get[contracts.StockHistory](ctx, c, "/history/"+url.PathEscape(ticker))
}

// AllHistory fetches the top-30 history of every stock
func (c *Client) AllHistory(ctx context.Context) (*contracts.AllHistory, error) {
	return get[contracts.AllHistory](ctx, c, "/history")
}

// FetchAll fetches every dashboard payload concurrently. A failed required
// endpoint fails the call (the partial bundle is still returned); optional
// failures are recorded in the bundle and leave their payload nil.
func (c *Client) FetchAll(ctx context.Context) (*dashboard.Bundle, error) {
	b := &dashboard.Bundle{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	fetch := func(e dashboard.Endpoint, fn func(context.Context) error) {
		g.Go(func() error {
			err := fn(gctx)
			if err == nil {
				return nil
			}
			mu.Lock()
			b.SetError(e, err)
			mu.Unlock()

			if e.Required() {
				return err
			}
			c.logger.WithError(err).WithField("endpoint", string(e)).Warn("Optional endpoint unavailable")
			return nil
		})
	}

	fetch(dashboard.EndpointRankings, func(ctx context.Context) (err error) {
		b.Rankings, err = c.LatestRanking(ctx)
		return err
	})
	fetch(dashboard.EndpointPicks, func(ctx context.Context) (err error) {
		b.Picks, err = c.Picks(ctx)
		return err
	})
	fetch(dashboard.EndpointDeathList, func(ctx context.Context) (err error) {
		b.DeathList, err = c.DeathList(ctx)
		return err
	})
	fetch(dashboard.EndpointMarket, func(ctx context.Context) (err error) {
		b.Market, err = c.Market(ctx)
		return err
	})
	fetch(dashboard.EndpointPipeline, func(ctx context.Context) (err error) {
		b.Pipeline, err = c.Pipeline(ctx)
		return err
	})
	fetch(dashboard.EndpointAI, func(ctx context.Context) (err error) {
		b.AI, err = c.AI(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return b, fmt.Errorf("failed to fetch briefing: %w", err)
	}
	return b, nil
}
