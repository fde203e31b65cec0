package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/wonny/briefing/internal/contracts"
)

// Querier is the subset of pgxpool.Pool the postgres source uses
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresSource reads snapshots stored as jsonb documents
// ⭐ SSOT: briefing.ranking_snapshots / briefing.web_cache 조회는 여기서만
type PostgresSource struct {
	db Querier
}

// NewPostgresSource creates a postgres source
func NewPostgresSource(db Querier) *PostgresSource {
	return &PostgresSource{db: db}
}

// Dates lists ranking dates, newest first
func (s *PostgresSource) Dates(ctx context.Context) ([]string, error) {
	return s.dates(ctx, `SELECT snapshot_date FROM briefing.ranking_snapshots ORDER BY snapshot_date DESC`)
}

// WebCacheDates lists web cache dates, newest first
func (s *PostgresSource) WebCacheDates(ctx context.Context) ([]string, error) {
	return s.dates(ctx, `SELECT cache_date FROM briefing.web_cache ORDER BY cache_date DESC`)
}

// Ranking loads one ranking snapshot
func (s *PostgresSource) Ranking(ctx context.Context, date string) (*contracts.RankingSnapshot, error) {
	data, err := s.payload(ctx,
		`SELECT payload::text FROM briefing.ranking_snapshots WHERE snapshot_date = $1`, date)
	if err != nil {
		return nil, err
	}
	return contracts.DecodeRanking(data, date)
}

// WebCache loads one web cache document
func (s *PostgresSource) WebCache(ctx context.Context, date string) (*contracts.WebCache, error) {
	data, err := s.payload(ctx,
		`SELECT payload::text FROM briefing.web_cache WHERE cache_date = $1`, date)
	if err != nil {
		return nil, err
	}
	return contracts.DecodeWebCache(data, date)
}

func (s *PostgresSource) dates(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query dates: %w", err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan date: %w", err)
		}
		keys = append(keys, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dates: %w", err)
	}
	return sortDates(keys), nil
}

func (s *PostgresSource) payload(ctx context.Context, query, date string) ([]byte, error) {
	if err := checkDate(date); err != nil {
		return nil, err
	}

	var doc string
	err := s.db.QueryRow(ctx, query, date).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %s: %w", date, contracts.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %s: %w", date, err)
	}
	return []byte(doc), nil
}
