package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/lshigami/bizcoach/internal/metrics"
	"github.com/lshigami/bizcoach/internal/session"
	"github.com/rs/zerolog/log"
)

var (
	ErrSessionNotFound = errors.New("practice session not found")
	ErrForbidden       = errors.New("permission denied")
)

// ActiveSession is one in-memory session owned by a user.
type ActiveSession struct {
	Store  *session.Store
	UserID string

	// turn serializes answer submissions and draft writes. Holders use
	// TryLock so a concurrent request is rejected instead of queued.
	turn sync.Mutex

	mu        sync.Mutex
	lastSeen  time.Time
	historyID *uint
}

// TryBeginTurn claims the session for one request. It never blocks.
func (a *ActiveSession) TryBeginTurn() bool { return a.turn.TryLock() }
func (a *ActiveSession) EndTurn()           { a.turn.Unlock() }

func (a *ActiveSession) touch(now time.Time) {
	a.mu.Lock()
	a.lastSeen = now
	a.mu.Unlock()
}

func (a *ActiveSession) idleSince() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastSeen
}

func (a *ActiveSession) HistoryID() *uint {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.historyID
}

func (a *ActiveSession) SetHistoryID(id uint) {
	a.mu.Lock()
	a.historyID = &id
	a.mu.Unlock()
}

// SessionRegistry maps session ids to active sessions and expires idle ones.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*ActiveSession
	ttl      time.Duration
	now      func() time.Time
	metrics  *metrics.Metrics
}

// NewSessionRegistry creates a registry that evicts sessions idle for longer than ttl.
func NewSessionRegistry(ttl time.Duration, m *metrics.Metrics) *SessionRegistry {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionRegistry{
		sessions: make(map[string]*ActiveSession),
		ttl:      ttl,
		now:      time.Now,
		metrics:  m,
	}
}

// Add registers a live session owned by userID.
func (r *SessionRegistry) Add(id, userID string, store *session.Store) *ActiveSession {
	entry := &ActiveSession{Store: store, UserID: userID, lastSeen: r.now()}
	r.mu.Lock()
	r.sessions[id] = entry
	n := len(r.sessions)
	r.mu.Unlock()
	r.metrics.SetActiveSessions(n)
	return entry
}

// Get returns the session if it exists and belongs to userID.
func (r *SessionRegistry) Get(id, userID string) (*ActiveSession, error) {
	r.mu.RLock()
	entry, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if entry.UserID != userID {
		return nil, ErrForbidden
	}
	entry.touch(r.now())
	return entry, nil
}

// Remove forgets the session. It is a no-op for unknown ids.
func (r *SessionRegistry) Remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()
	r.metrics.SetActiveSessions(n)
}

func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep resets and drops sessions idle for longer than the TTL. Sessions with
// a turn in flight are kept until the next sweep.
func (r *SessionRegistry) Sweep() int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	var expired []*ActiveSession
	for id, entry := range r.sessions {
		if !entry.idleSince().Before(cutoff) {
			continue
		}
		if !entry.TryBeginTurn() {
			continue
		}
		delete(r.sessions, id)
		expired = append(expired, entry)
	}
	n := len(r.sessions)
	r.mu.Unlock()

	for _, entry := range expired {
		entry.Store.Reset()
		entry.EndTurn()
	}
	if len(expired) > 0 {
		log.Info().Int("expired", len(expired)).Int("active", n).Msg("Expired idle practice sessions")
		r.metrics.SetActiveSessions(n)
	}
	return len(expired)
}

// RunJanitor sweeps every interval until ctx is done.
func (r *SessionRegistry) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
