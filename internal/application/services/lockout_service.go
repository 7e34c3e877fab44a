package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/storelaunch/storelaunch/configs"
	"github.com/storelaunch/storelaunch/internal/core/ports"
)

type lockoutEntry struct {
	count       int
	windowStart time.Time
	lockedUntil *time.Time
}

// LockoutService tracks failed login attempts per identifier in an
// in-process table. Each identifier moves through Clear -> Counting ->
// Locked -> Clear: reaching the attempt threshold inside the window locks
// the identifier for a fixed duration regardless of window expiry, and a
// successful login clears it immediately. State is not persisted; a process
// restart forgets all history.
type LockoutService struct {
	mu      sync.Mutex
	entries map[string]*lockoutEntry

	maxAttempts int
	window      time.Duration
	duration    time.Duration
	logger      *logrus.Logger
	now         func() time.Time
}

func NewLockoutService(cfg *config.LockoutConfig, logger *logrus.Logger) *LockoutService {
	s := &LockoutService{
		entries:     make(map[string]*lockoutEntry),
		maxAttempts: 5,
		window:      15 * time.Minute,
		duration:    30 * time.Minute,
		logger:      logger,
		now:         time.Now,
	}
	if cfg != nil {
		if cfg.MaxAttempts > 0 {
			s.maxAttempts = cfg.MaxAttempts
		}
		if cfg.Window > 0 {
			s.window = cfg.Window
		}
		if cfg.Duration > 0 {
			s.duration = cfg.Duration
		}
	}
	return s
}

// NewLockoutServiceWithClock allows tests to control the time source.
func NewLockoutServiceWithClock(cfg *config.LockoutConfig, logger *logrus.Logger, now func() time.Time) *LockoutService {
	s := NewLockoutService(cfg, logger)
	s.now = now
	return s
}

// Check reports whether identifier may attempt to log in. A locked entry
// rejects every attempt until lockedUntil passes; the comparison is strict,
// so an attempt arriving exactly at lockedUntil is allowed.
func (s *LockoutService) Check(_ context.Context, identifier string) (*ports.LockoutStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.purgeExpired(now)

	e, ok := s.entries[identifier]
	if !ok {
		return &ports.LockoutStatus{Allowed: true, Remaining: s.maxAttempts}, nil
	}

	if e.lockedUntil != nil {
		if now.Before(*e.lockedUntil) {
			until := *e.lockedUntil
			return &ports.LockoutStatus{Allowed: false, Remaining: 0, LockedUntil: &until}, nil
		}
		// lock elapsed
		delete(s.entries, identifier)
		return &ports.LockoutStatus{Allowed: true, Remaining: s.maxAttempts}, nil
	}

	if now.Sub(e.windowStart) >= s.window {
		delete(s.entries, identifier)
		return &ports.LockoutStatus{Allowed: true, Remaining: s.maxAttempts}, nil
	}

	return &ports.LockoutStatus{Allowed: true, Remaining: s.maxAttempts - e.count}, nil
}

// RecordFailure counts a failed login for identifier. The attempt that
// reaches the threshold sets lockedUntil.
func (s *LockoutService) RecordFailure(_ context.Context, identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.entries[identifier]
	if !ok || (e.lockedUntil == nil && now.Sub(e.windowStart) >= s.window) {
		s.entries[identifier] = &lockoutEntry{count: 1, windowStart: now}
		return nil
	}
	if e.lockedUntil != nil {
		// already locked; nothing to count
		return nil
	}

	e.count++
	if e.count >= s.maxAttempts {
		until := now.Add(s.duration)
		e.lockedUntil = &until
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"identifier": identifier, "locked_until": until}).
				Warn("login lockout engaged")
		}
	}
	return nil
}

// Clear removes identifier from the table. Called on successful login;
// clearing an absent identifier is a no-op, so repeated successes are
// idempotent.
func (s *LockoutService) Clear(_ context.Context, identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, identifier)
	return nil
}

// purgeExpired drops dead entries. Linear scan on every check, acceptable at
// the table sizes a single instance sees. Caller holds the lock.
func (s *LockoutService) purgeExpired(now time.Time) {
	for id, e := range s.entries {
		if e.lockedUntil != nil {
			if !now.Before(*e.lockedUntil) {
				delete(s.entries, id)
			}
			continue
		}
		if now.Sub(e.windowStart) >= s.window {
			delete(s.entries, id)
		}
	}
}
