package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/wonny/briefing/internal/contracts"
)

const (
	rankingPrefix  = "ranking_"
	webCachePrefix = "web_data_"
)

// FileSource reads ranking_YYYYMMDD.json and web_data_YYYYMMDD.json from a
// state directory
type FileSource struct {
	dir string
}

// NewFileSource creates a file source over dir
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// Dir returns the state directory
func (s *FileSource) Dir() string {
	return s.dir
}

// Dates lists ranking dates, newest first
func (s *FileSource) Dates(ctx context.Context) ([]string, error) {
	return s.list(rankingPrefix)
}

// WebCacheDates lists web cache dates, newest first
func (s *FileSource) WebCacheDates(ctx context.Context) ([]string, error) {
	return s.list(webCachePrefix)
}

// Ranking loads one ranking snapshot
func (s *FileSource) Ranking(ctx context.Context, date string) (*contracts.RankingSnapshot, error) {
	data, err := s.read(rankingPrefix, date)
	if err != nil {
		return nil, err
	}
	return contracts.DecodeRanking(data, date)
}

// WebCache loads one web cache document
func (s *FileSource) WebCache(ctx context.Context, date string) (*contracts.WebCache, error) {
	data, err := s.read(webCachePrefix, date)
	if err != nil {
		return nil, err
	}
	return contracts.DecodeWebCache(data, date)
}

func (s *FileSource) list(prefix string) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state dir: %w", err)
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".json"))
	}
	return sortDates(keys), nil
}

func (s *FileSource) read(prefix, date string) ([]byte, error) {
	if err := checkDate(date); err != nil {
		return nil, err
	}
	path := filepath.Join(s.dir, prefix+date+".json")
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s%s: %w", prefix, date, contracts.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
