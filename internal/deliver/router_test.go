package deliver

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pingline/pingline/internal/presence"
)

// fakeSender records sent events and can simulate transport failures.
type fakeSender struct {
	mu     sync.Mutex
	sent   map[string][]Event
	failOn map[string]bool
}

func newFakeSender() *fakeSender {
	return &fakeSender{
		sent:   make(map[string][]Event),
		failOn: make(map[string]bool),
	}
}

func (f *fakeSender) Send(connID string, event Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn[connID] {
		return errors.New("connection closed")
	}
	f.sent[connID] = append(f.sent[connID], event)
	return nil
}

func (f *fakeSender) events(connID string) []Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Event(nil), f.sent[connID]...)
}

func (f *fakeSender) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, evs := range f.sent {
		n += len(evs)
	}
	return n
}

func TestRoute_DeliversToRecipient(t *testing.T) {
	reg := presence.NewRegistry()
	sender := newFakeSender()
	router := NewRouter(reg, sender, nil)

	reg.Attach("u1", "c1")
	reg.Attach("u2", "c2")

	before := time.Now()
	router.Route("u1", "u2", "hi")

	got := sender.events("c2")
	if len(got) != 1 {
		t.Fatalf("got %d events on c2, want 1", len(got))
	}
	if got[0].SenderID != "u1" {
		t.Errorf("SenderID = %q, want %q", got[0].SenderID, "u1")
	}
	if got[0].Message != "hi" {
		t.Errorf("Message = %q, want %q", got[0].Message, "hi")
	}
	if got[0].CreatedAt.Before(before) {
		t.Errorf("CreatedAt = %v, want >= %v", got[0].CreatedAt, before)
	}

	// Nothing reaches the sender's own connection.
	if n := len(sender.events("c1")); n != 0 {
		t.Errorf("got %d events on c1, want 0", n)
	}
}

func TestRoute_OfflineRecipientDrops(t *testing.T) {
	reg := presence.NewRegistry()
	sender := newFakeSender()
	router := NewRouter(reg, sender, nil)

	reg.Attach("u1", "c1")

	// u2 never attached: the event is silently dropped.
	router.Route("u1", "u2", "hi")

	if n := sender.total(); n != 0 {
		t.Errorf("got %d events, want 0", n)
	}
}

func TestRoute_SendFailureSwallowed(t *testing.T) {
	reg := presence.NewRegistry()
	sender := newFakeSender()
	router := NewRouter(reg, sender, nil)

	reg.Attach("u2", "c2")
	sender.failOn["c2"] = true

	// Must not panic or propagate; failure equals recipient offline.
	router.Route("u1", "u2", "hi")

	if n := sender.total(); n != 0 {
		t.Errorf("got %d events, want 0", n)
	}
}

func TestRoute_AfterDetachDrops(t *testing.T) {
	reg := presence.NewRegistry()
	sender := newFakeSender()
	router := NewRouter(reg, sender, nil)

	reg.Attach("u2", "c2")
	reg.Detach("c2")

	router.Route("u1", "u2", "are you there?")

	if n := sender.total(); n != 0 {
		t.Errorf("got %d events after detach, want 0", n)
	}
}

func TestRoute_TimestampAssignedAtRouting(t *testing.T) {
	reg := presence.NewRegistry()
	sender := newFakeSender()
	router := NewRouter(reg, sender, nil)

	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	router.now = func() time.Time { return fixed }

	reg.Attach("u2", "c2")
	router.Route("u1", "u2", "hi")

	got := sender.events("c2")
	if len(got) != 1 {
		t.Fatalf("got %d events, want 1", len(got))
	}
	if !got[0].CreatedAt.Equal(fixed) {
		t.Errorf("CreatedAt = %v, want %v", got[0].CreatedAt, fixed)
	}
}
