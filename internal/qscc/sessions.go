package qscc

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Dialer opens the session of an organization.
type Dialer func(org string) (*Session, error)

// Sessions keeps one lazily opened session per organization. Sessions of
// different organizations never share a gateway or an identity, and a slow dial
// for one organization never holds up another.
type Sessions struct {
	logger *logrus.Logger
	dial   Dialer
	group  singleflight.Group

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

type SessionsOption func(*Sessions)

// WithDialer replaces the gateway dialer.
func WithDialer(dial Dialer) SessionsOption {
	return func(s *Sessions) {
		s.dial = dial
	}
}

func NewSessions(logger *logrus.Logger, cfg Config, opts ...SessionsOption) *Sessions {
	s := &Sessions{
		logger:   logger,
		sessions: make(map[string]*Session),
		dial: func(org string) (*Session, error) {
			return Connect(logger, cfg, org)
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

var errSessionsClosed = errors.New("sessions are closed")

// Get returns the session of org, opening it on first use. Concurrent callers
// for the same org share one dial. A failed dial is not cached, so the next
// call tries again.
func (s *Sessions) Get(org string) (*Session, error) {
	if org == "" {
		return nil, errors.New("organization is required")
	}
	if session, err := s.lookup(org); session != nil || err != nil {
		return session, err
	}

	v, err, _ := s.group.Do(org, func() (any, error) {
		// a flight that finished just before this one started may have stored it
		if session, err := s.lookup(org); session != nil || err != nil {
			return session, err
		}

		session, err := s.dial(org)
		if err != nil {
			return nil, fmt.Errorf("open session for %s: %w", org, err)
		}
		return s.store(org, session)
	})
	if err != nil {
		return nil, err
	}

	return v.(*Session), nil
}

func (s *Sessions) lookup(org string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errSessionsClosed
	}
	return s.sessions[org], nil
}

func (s *Sessions) store(org string, session *Session) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		session.Close()
		return nil, errSessionsClosed
	}
	s.sessions[org] = session
	openSessions.Inc()

	return session, nil
}

// Close closes every open session. Get fails afterwards.
func (s *Sessions) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for org, session := range s.sessions {
		session.Close()
		openSessions.Dec()
		s.logger.WithField("org", org).Debug("Closed session")
	}
	clear(s.sessions)
	s.closed = true
}
