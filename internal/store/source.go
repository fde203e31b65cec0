package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/wonny/briefing/internal/contracts"
	"github.com/wonny/briefing/pkg/numfmt"
)

// Source reads daily snapshots written by the upstream scoring pipeline.
// Dates are YYYYMMDD keys ordered newest first. A missing date is
// contracts.ErrNotFound.
type Source interface {
	Dates(ctx context.Context) ([]string, error)
	Ranking(ctx context.Context, date string) (*contracts.RankingSnapshot, error)
	WebCacheDates(ctx context.Context) ([]string, error)
	WebCache(ctx context.Context, date string) (*contracts.WebCache, error)
}

// LatestWebCache returns the newest web cache, nil when none exists
func LatestWebCache(ctx context.Context, src Source) (*contracts.WebCache, error) {
	dates, err := src.WebCacheDates(ctx)
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, nil
	}
	cache, err := src.WebCache(ctx, dates[0])
	if errors.Is(err, contracts.ErrNotFound) {
		return nil, nil
	}
	return cache, err
}

// Recent loads up to n ranking snapshots, newest first. Dates that fail to
// load are skipped.
func Recent(ctx context.Context, src Source, n int) ([]*contracts.RankingSnapshot, error) {
	dates, err := src.Dates(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*contracts.RankingSnapshot, 0, n)
	for _, d := range dates {
		if len(out) == n {
			break
		}
		snap, err := src.Ranking(ctx, d)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		out = append(out, snap)
	}
	return out, nil
}

func sortDates(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if numfmt.IsDateKey(k) {
			out = append(out, k)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out
}

func checkDate(date string) error {
	if !numfmt.IsDateKey(date) {
		return fmt.Errorf("%w: %q", contracts.ErrInvalidDate, date)
	}
	return nil
}
