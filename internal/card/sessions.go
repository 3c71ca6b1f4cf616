package card

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultSessionTTL = 30 * time.Minute

// Sessions hands each browser its own Controller, keyed by an opaque id.
// Idle sessions expire after the TTL.
type Sessions struct {
	mu    sync.Mutex
	items map[string]*session
	ttl   time.Duration
	now   func() time.Time
	build func() *Controller
}

type session struct {
	ctrl     *Controller
	lastSeen time.Time
}

// NewSessions builds a registry creating controllers with build.
func NewSessions(build func() *Controller, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &Sessions{
		items: make(map[string]*session),
		ttl:   ttl,
		now:   time.Now,
		build: build,
	}
}

// Get returns the controller for id, creating a fresh session when id is
// unknown, malformed or expired. The returned id is the one to keep using.
func (s *Sessions) Get(id string) (*Controller, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	if _, err := uuid.Parse(id); err == nil {
		if sess, ok := s.items[id]; ok {
			sess.lastSeen = now
			return sess.ctrl, id
		}
	}

	id = uuid.NewString()
	ctrl := s.build()
	s.items[id] = &session{ctrl: ctrl, lastSeen: now}
	return ctrl, id
}

// Peek returns the controller for id without creating or refreshing a session.
func (s *Sessions) Peek(id string) (*Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.items[id]
	if !ok || s.now().Sub(sess.lastSeen) > s.ttl {
		return nil, false
	}
	return sess.ctrl, true
}

// Len reports live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Close tears down every session.
func (s *Sessions) Close() {
	s.mu.Lock()
	items := s.items
	s.items = make(map[string]*session)
	s.mu.Unlock()
	for _, sess := range items {
		sess.ctrl.Close()
	}
}

func (s *Sessions) sweepLocked(now time.Time) {
	for id, sess := range s.items {
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.items, id)
			go sess.ctrl.Close()
		}
	}
}
