package core

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeBanStore is an in-memory store.BanStore for hub tests.
type fakeBanStore struct {
	mu   sync.Mutex
	bans map[string]time.Time
}

func newFakeBanStore() *fakeBanStore {
	return &fakeBanStore{bans: make(map[string]time.Time)}
}

func (f *fakeBanStore) IsBanned(_ context.Context, origin string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	expiry, ok := f.bans[origin]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		delete(f.bans, origin)
		return false, nil
	}
	return true, nil
}

func (f *fakeBanStore) Ban(_ context.Context, origin string, duration time.Duration) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	expiry := time.Now().Add(duration)
	f.bans[origin] = expiry
	return expiry, nil
}

func (f *fakeBanStore) Unban(_ context.Context, origin string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.bans, origin)
	return nil
}

func (f *fakeBanStore) Close() error { return nil }

func (f *fakeBanStore) expiry(origin string) (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	expiry, ok := f.bans[origin]
	return expiry, ok
}

// containsFilter matches any message containing one of the words.
type containsFilter struct {
	words []string
}

func (f containsFilter) Match(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range f.words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// passwordGate authorizes the admin name with a fixed password.
type passwordGate struct {
	password string
}

func (g passwordGate) Verify(password, _ string) error {
	if password == g.password {
		return nil
	}
	return errBadGateCredentials
}

var errBadGateCredentials = errors.New("bad credentials")

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				t.Fatalf("events channel closed while waiting for event kind %v", kind)
			}
			if ev.Kind == kind {
				return ev
			}
		case <-deadline:
			t.Fatalf("expected event kind %v not received", kind)
		}
	}
}

// expectNoEvent asserts that no event of the given kind arrives shortly.
func expectNoEvent(t *testing.T, ch <-chan *Event, kind EventKind) {
	t.Helper()

	timeout := time.After(150 * time.Millisecond)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if ev.Kind == kind {
				t.Fatalf("unexpected event kind %v", kind)
			}
		case <-timeout:
			return
		}
	}
}

// mustClosed asserts that the events channel is (eventually) closed.
func mustClosed(t *testing.T, ch <-chan *Event) {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("expected events channel to be closed")
		}
	}
}
