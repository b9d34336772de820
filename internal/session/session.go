// Package session tracks server-side state for authenticated clients.
//
// Every login creates a session record; every data request appends to the
// session's request log. The log is the raw material for behavioral risk
// scoring: timestamps and endpoint names, in arrival order. Records are
// kept in memory for the process lifetime unless a TTL is configured.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/honeyguard/honeyguard/internal/metrics"
)

// Errors
var (
	ErrNotFound       = errors.New("session not found")
	ErrRiskAlreadySet = errors.New("identity risk already set for session")
)

const (
	// tokenBytes is the entropy of a session token (192 bits).
	tokenBytes = 24
	tokenPrefix = "hg_"

	// maxLogEntries caps the retained request log per session. The trailing
	// window is more than enough for every behavioral feature; a separate
	// counter keeps the lifetime request total exact.
	maxLogEntries = 1000
)

// record is the store-internal mutable state for one session.
// Guarded by its own mutex so concurrent requests on the same session
// serialize without blocking other sessions.
type record struct {
	mu            sync.Mutex
	subjectID     string
	customerID    int64
	createdAt     time.Time
	lastSeen      time.Time
	requests      []time.Time
	endpoints     []string
	totalRequests int
	identityRisk  int
	riskSet       bool
}

// Snapshot is a read-only copy of a session record. The store never hands
// out its internal state; callers always work on a snapshot.
type Snapshot struct {
	ID            string
	SubjectID     string
	CustomerID    int64
	CreatedAt     time.Time
	LastSeen      time.Time
	Requests      []time.Time
	Endpoints     []string
	TotalRequests int
	IdentityRisk  int
}

// Store is the process-wide session registry. It is the exclusive owner of
// all session records; creation, lookup, and log appends go through it.
type Store struct {
	sessions sync.Map // map[string]*record
	ttl      time.Duration
	logger   *slog.Logger
}

// NewStore creates a session store. With no options sessions live for the
// process lifetime.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{logger: logger}
}

// WithTTL enables idle eviction. Sessions untouched for longer than ttl are
// removed by the janitor (see StartJanitor). Zero disables eviction.
func (s *Store) WithTTL(ttl time.Duration) *Store {
	s.ttl = ttl
	return s
}

// Create allocates a new session with an empty request log and a fresh
// unguessable token. The only failure mode is the entropy source, which is
// surfaced rather than degraded into a weak token.
func (s *Store) Create(subjectID string, customerID int64) (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	id := tokenPrefix + hex.EncodeToString(b)

	now := time.Now()
	s.sessions.Store(id, &record{
		subjectID:  subjectID,
		customerID: customerID,
		createdAt:  now,
		lastSeen:   now,
	})
	metrics.ActiveSessions.Inc()

	return id, nil
}

// Get returns a snapshot of the session, or false if the token is unknown.
// Absence is a normal outcome (invalid or evicted token), not an error.
func (s *Store) Get(sessionID string) (Snapshot, bool) {
	v, ok := s.sessions.Load(sessionID)
	if !ok {
		return Snapshot{}, false
	}
	r := v.(*record)

	r.mu.Lock()
	defer r.mu.Unlock()

	snap := Snapshot{
		ID:            sessionID,
		SubjectID:     r.subjectID,
		CustomerID:    r.customerID,
		CreatedAt:     r.createdAt,
		LastSeen:      r.lastSeen,
		Requests:      make([]time.Time, len(r.requests)),
		Endpoints:     make([]string, len(r.endpoints)),
		TotalRequests: r.totalRequests,
		IdentityRisk:  r.identityRisk,
	}
	copy(snap.Requests, r.requests)
	copy(snap.Endpoints, r.endpoints)
	return snap, true
}

// RecordAccess appends the current timestamp and endpoint to the session's
// logs. Unknown sessions are logged and ignored; callers are expected to
// validate existence with Get first.
func (s *Store) RecordAccess(sessionID, endpoint string) {
	v, ok := s.sessions.Load(sessionID)
	if !ok {
		s.logger.Warn("record access on unknown session", "session_id", sessionID, "endpoint", endpoint)
		return
	}
	r := v.(*record)

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.requests = append(r.requests, now)
	r.endpoints = append(r.endpoints, endpoint)
	r.totalRequests++
	r.lastSeen = now

	// Keep the two logs index-aligned while pruning.
	if len(r.requests) > maxLogEntries {
		drop := len(r.requests) - maxLogEntries
		r.requests = r.requests[drop:]
		r.endpoints = r.endpoints[drop:]
	}
}

// SetIdentityRisk records the login-time identity risk. It is a one-time
// write: a second call for the same session fails.
func (s *Store) SetIdentityRisk(sessionID string, score int) error {
	v, ok := s.sessions.Load(sessionID)
	if !ok {
		return ErrNotFound
	}
	r := v.(*record)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.riskSet {
		return ErrRiskAlreadySet
	}
	r.identityRisk = clamp(score)
	r.riskSet = true
	return nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	n := 0
	s.sessions.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// StartJanitor evicts idle sessions in the background until ctx is done.
// A no-op when no TTL is configured. Call in a goroutine.
func (s *Store) StartJanitor(ctx context.Context) {
	if s.ttl <= 0 {
		return
	}

	interval := s.ttl / 4
	if interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("session janitor started", "ttl", s.ttl.String())
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.evictIdle(time.Now())
		}
	}
}

func (s *Store) evictIdle(now time.Time) {
	cutoff := now.Add(-s.ttl)
	s.sessions.Range(func(key, v any) bool {
		r := v.(*record)
		r.mu.Lock()
		idle := r.lastSeen.Before(cutoff)
		r.mu.Unlock()
		if idle {
			s.sessions.Delete(key)
			metrics.ActiveSessions.Dec()
			metrics.SessionEvictionsTotal.Inc()
			s.logger.Info("session evicted", "session_id", key.(string))
		}
		return true
	})
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
