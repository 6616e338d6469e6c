// Package session keeps authenticated principals in memory behind opaque
// tokens. Sessions slide: every successful Resolve pushes the expiry out to
// a full TTL from the access time.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"movie-catalog/logger"
	"movie-catalog/models"

	"github.com/robfig/cron/v3"
)

const (
	DefaultTTL           = 24 * time.Hour
	DefaultSweepInterval = time.Hour

	tokenBytes = 32
)

// Principal is the identity a token resolves to.
type Principal struct {
	UserID uint
	Role   models.UserRole
}

type entry struct {
	principal Principal
	expiresAt time.Time
}

type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	sweep    time.Duration
	now      func() time.Time

	cron *cron.Cron
}

type Option func(*Store)

func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithSweepInterval(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.sweep = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		sessions: make(map[string]*entry),
		ttl:      DefaultTTL,
		sweep:    DefaultSweepInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Create issues a fresh token for the principal.
func (s *Store) Create(userID uint, role models.UserRole) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// a collision on 256 random bits means the entropy source is broken
	if _, exists := s.sessions[token]; exists {
		return "", fmt.Errorf("session token collision")
	}
	s.sessions[token] = &entry{
		principal: Principal{UserID: userID, Role: role},
		expiresAt: s.now().Add(s.ttl),
	}
	return token, nil
}

// Resolve returns the principal for a live token and refreshes its expiry.
// Unknown and expired tokens resolve to absent; expired ones are evicted.
func (s *Store) Resolve(token string) (Principal, bool) {
	if token == "" {
		return Principal{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[token]
	if !ok {
		return Principal{}, false
	}
	now := s.now()
	if now.After(e.expiresAt) {
		delete(s.sessions, token)
		return Principal{}, false
	}
	e.expiresAt = now.Add(s.ttl)
	return e.principal, true
}

// Invalidate removes the token. Unknown tokens are ignored.
func (s *Store) Invalidate(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// RevokeUser drops every session that belongs to userID.
func (s *Store) RevokeUser(userID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, e := range s.sessions {
		if e.principal.UserID == userID {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// Sweep evicts every expired session and reports how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for token, e := range s.sessions {
		if now.After(e.expiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// Len counts stored sessions, expired ones not yet swept included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Start schedules the background sweep.
func (s *Store) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return nil
	}
	c := cron.New()
	if _, err := c.AddJob(fmt.Sprintf("@every %s", s.sweep), NewSweepJob(s)); err != nil {
		return err
	}
	c.Start()
	s.cron = c
	return nil
}

// Stop halts the background sweep and waits for a running sweep to finish.
func (s *Store) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// SweepJob is the cron job that evicts expired sessions.
type SweepJob struct {
	store *Store
}

func NewSweepJob(store *Store) *SweepJob {
	return &SweepJob{store: store}
}

func (j *SweepJob) Run() {
	if removed := j.store.Sweep(); removed > 0 {
		logger.Debugf("session sweep evicted %d expired sessions", removed)
	}
}
