package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/aliskhannn/learning-progress-tracker/internal/domain/entities"
)

// ActivityLog keeps activity events in memory.
type ActivityLog struct {
	mu     sync.RWMutex
	events []entities.ActivityEvent
}

func NewActivityLog() *ActivityLog {
	return &ActivityLog{}
}

func (l *ActivityLog) Insert(_ context.Context, event entities.ActivityEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = append(l.events, event)
	return nil
}

func (l *ActivityLog) List(_ context.Context, filter entities.ActivityFilter) ([]entities.ActivityEvent, int, error) {
	l.mu.RLock()
	matched := lo.Filter(l.events, func(e entities.ActivityEvent, _ int) bool {
		return (filter.SessionID == "" || e.SessionID == filter.SessionID) &&
			(filter.Action == "" || e.Action == filter.Action) &&
			(filter.Level == "" || e.Level == filter.Level)
	})
	l.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if filter.Offset >= total {
		return []entities.ActivityEvent{}, total, nil
	}
	page := matched[filter.Offset:]
	if filter.Limit > 0 && len(page) > filter.Limit {
		page = page[:filter.Limit]
	}

	return page, total, nil
}

func (l *ActivityLog) CountByLevel(_ context.Context) (map[entities.LogLevel]int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	counts := make(map[entities.LogLevel]int)
	for _, e := range l.events {
		counts[e.Level]++
	}
	return counts, nil
}
