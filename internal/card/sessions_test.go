package card

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/preston-bernstein/swish-service/internal/testutil"
)

func TestSessionsCreateAndReuse(t *testing.T) {
	built := 0
	s := NewSessions(func() *Controller {
		built++
		return NewController(returns(jordan, nil), Options{})
	}, time.Minute)

	c1, id := s.Get("")
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected uuid session id, got %q", id)
	}
	c2, id2 := s.Get(id)
	if c1 != c2 || id2 != id {
		t.Fatalf("expected same controller for same session")
	}
	if _, other := s.Get("not-a-uuid"); other == id {
		t.Fatalf("expected fresh id for malformed cookie")
	}
	if built != 2 || s.Len() != 2 {
		t.Fatalf("expected 2 sessions, built=%d len=%d", built, s.Len())
	}
	if _, ok := s.Peek(id); !ok {
		t.Fatalf("expected peek to find session")
	}
}

func TestSessionsExpire(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewSessions(func() *Controller { return NewController(returns(jordan, nil), Options{}) }, time.Minute)
	s.now = func() time.Time { return now }

	c1, id := s.Get("")
	now = now.Add(2 * time.Minute)
	if _, ok := s.Peek(id); ok {
		t.Fatalf("expected expired session hidden from peek")
	}
	c2, id2 := s.Get(id)
	if c1 == c2 || id2 == id {
		t.Fatalf("expected expired session replaced")
	}
	if s.Len() != 1 {
		t.Fatalf("expected expired session swept, len=%d", s.Len())
	}
	s.Close()
	if s.Len() != 0 {
		t.Fatalf("expected sessions cleared on close")
	}
}

func TestSessionsSurviveWithinTTL(t *testing.T) {
	clock := testutil.NewClock(testutil.Day("2024-01-01"))
	s := NewSessions(func() *Controller { return NewController(returns(jordan, nil), Options{}) }, time.Minute)
	s.now = clock.Now
	c1, id := s.Get("")

	clock.Advance(59 * time.Second)
	if c, ok := s.Peek(id); !ok || c != c1 {
		t.Fatalf("expected session alive inside ttl")
	}
	if c, same := s.Get(id); c != c1 || same != id {
		t.Fatalf("expected get inside ttl to reuse the session")
	}

	clock.Advance(31 * time.Second)
	if _, ok := s.Peek(id); !ok {
		t.Fatalf("expected get to extend the session")
	}
}
