// Package memory keeps progress records in process memory. It backs tests and
// the "memory" database driver; data does not survive a restart.
package memory

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aliskhannn/learning-progress-tracker/internal/domain/entities"
	"github.com/aliskhannn/learning-progress-tracker/internal/service"
)

// Store is a progress repository and session transactor in one.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]map[string]entities.ProgressRecord

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source of record update times.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		sessions: make(map[string]map[string]entities.ProgressRecord),
		locks:    make(map[string]*sync.Mutex),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Get(_ context.Context, sessionID, key string) (*entities.ProgressRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.sessions[sessionID][key]
	if !ok {
		return nil, entities.ErrRecordNotFound
	}
	rec.Payload = append([]byte(nil), rec.Payload...)
	return &rec, nil
}

func (s *Store) QueryByPrefix(_ context.Context, sessionID, prefix string) ([]entities.ProgressRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []entities.ProgressRecord
	for key, rec := range s.sessions[sessionID] {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		rec.Payload = append([]byte(nil), rec.Payload...)
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Key < records[j].Key })
	return records, nil
}

func (s *Store) Upsert(_ context.Context, sessionID, key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		session = make(map[string]entities.ProgressRecord)
		s.sessions[sessionID] = session
	}

	session[key] = entities.ProgressRecord{
		SessionID: sessionID,
		Key:       key,
		Payload:   append([]byte(nil), payload...),
		UpdatedAt: s.now().UTC(),
	}
	return nil
}

func (s *Store) Count(_ context.Context, sessionID, prefix string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for key := range s.sessions[sessionID] {
		if strings.HasPrefix(key, prefix) {
			n++
		}
	}
	return n, nil
}

func (s *Store) DeleteSession(_ context.Context, sessionID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := int64(len(s.sessions[sessionID]))
	delete(s.sessions, sessionID)
	return n, nil
}

func (s *Store) ListSessionsUpdatedSince(_ context.Context, since time.Time) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sessions []string
	for id, records := range s.sessions {
		for _, rec := range records {
			if !rec.UpdatedAt.Before(since) {
				sessions = append(sessions, id)
				break
			}
		}
	}

	sort.Strings(sessions)
	return sessions, nil
}

// WithinSession runs fn under the session's lock. If fn fails, the session's
// records are restored to their state before the call.
func (s *Store) WithinSession(
	ctx context.Context,
	sessionID string,
	fn func(ctx context.Context, repo service.RecordRepository) error,
) error {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	snapshot, existed := s.snapshot(sessionID)

	if err := fn(ctx, s); err != nil {
		s.restore(sessionID, snapshot, existed)
		return err
	}
	return nil
}

func (s *Store) sessionLock(sessionID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	return lock
}

func (s *Store) snapshot(sessionID string) (map[string]entities.ProgressRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.sessions[sessionID]
	return maps.Clone(records), ok
}

func (s *Store) restore(sessionID string, records map[string]entities.ProgressRecord, existed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !existed {
		delete(s.sessions, sessionID)
		return
	}
	s.sessions[sessionID] = records
}
