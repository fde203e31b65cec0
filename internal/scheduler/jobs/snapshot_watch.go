package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wonny/briefing/internal/store"
	"github.com/wonny/briefing/pkg/logger"
)

// EventSnapshot is published when a new ranking or web cache date appears
const EventSnapshot = "snapshot.updated"

// SnapshotEvent describes the latest state files seen by the watcher
type SnapshotEvent struct {
	Type         string    `json:"type"`
	Date         string    `json:"date"`
	WebCacheDate string    `json:"web_cache_date,omitempty"`
	DetectedAt   time.Time `json:"detected_at"`
}

// Invalidator drops cached reads
type Invalidator interface {
	Invalidate(ctx context.Context) (int, error)
}

// Publisher fans an event out to subscribers
type Publisher interface {
	Publish(v interface{})
}

// SnapshotWatchJob polls the source and reacts to new snapshots
type SnapshotWatchJob struct {
	source    store.Source
	cache     Invalidator
	publisher Publisher
	schedule  string
	logger    *logger.Logger

	mu       sync.Mutex
	baseline bool
	lastDate string
	lastWeb  string
}

// NewSnapshotWatchJob creates a watcher. source must bypass the cache; cache and publisher may be nil.
func NewSnapshotWatchJob(source store.Source, cache Invalidator, publisher Publisher, schedule string, log *logger.Logger) *SnapshotWatchJob {
	if schedule == "" {
		schedule = "@every 1m"
	}
	return &SnapshotWatchJob{
		source:    source,
		cache:     cache,
		publisher: publisher,
		schedule:  schedule,
		logger:    log.WithComponent("snapshot-watch"),
	}
}

// Name returns the job name
func (j *SnapshotWatchJob) Name() string {
	return "snapshot_watch"
}

// Schedule returns the cron schedule
func (j *SnapshotWatchJob) Schedule() string {
	return j.schedule
}

// Run checks the latest dates. The first run only records a baseline.
func (j *SnapshotWatchJob) Run(ctx context.Context) error {
	dates, err := j.source.Dates(ctx)
	if err != nil {
		return fmt.Errorf("list ranking dates: %w", err)
	}
	webDates, err := j.source.WebCacheDates(ctx)
	if err != nil {
		return fmt.Errorf("list web cache dates: %w", err)
	}

	latest := newest(dates)
	latestWeb := newest(webDates)

	j.mu.Lock()
	defer j.mu.Unlock()

	// 첫 실행은 기준점만 기록 (빈 소스도 기준점)
	if !j.baseline {
		j.baseline = true
		j.lastDate, j.lastWeb = latest, latestWeb
		return nil
	}
	if latest == j.lastDate && latestWeb == j.lastWeb {
		return nil
	}

	j.logger.WithFields(map[string]interface{}{
		"date":           latest,
		"web_cache_date": latestWeb,
	}).Info("New snapshot detected")

	// 무효화 실패 시 날짜를 갱신하지 않아 다음 실행에서 재시도
	if j.cache != nil {
		n, err := j.cache.Invalidate(ctx)
		if err != nil {
			return fmt.Errorf("invalidate cache: %w", err)
		}
		j.logger.WithField("keys", n).Debug("Cache invalidated")
	}
	j.lastDate, j.lastWeb = latest, latestWeb

	if j.publisher != nil {
		j.publisher.Publish(SnapshotEvent{
			Type:         EventSnapshot,
			Date:         latest,
			WebCacheDate: latestWeb,
			DetectedAt:   time.Now(),
		})
	}
	return nil
}

// Latest returns the dates seen on the last run
func (j *SnapshotWatchJob) Latest() (string, string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.lastDate, j.lastWeb
}

// newest returns the first key of a newest-first list
func newest(dates []string) string {
	if len(dates) == 0 {
		return ""
	}
	return dates[0]
}
