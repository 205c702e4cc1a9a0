package core

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxUsernameLen is the maximum display name length in runes.
const MaxUsernameLen = 20

// Identity binds a connection to a unique display name.
type Identity struct {
	ID       string
	Username string
	JoinedAt time.Time
}

// SessionRegistry tracks currently connected identities and enforces
// case-insensitive display name uniqueness. It is not safe for concurrent
// use; the hub goroutine owns it.
type SessionRegistry struct {
	byID  map[string]Identity
	order []string // connection ids in registration order
}

// NewSessionRegistry constructs an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{byID: make(map[string]Identity)}
}

// ValidateUsername checks the display name constraints applied at join.
func ValidateUsername(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameEmpty
	}
	if utf8.RuneCountInString(name) > MaxUsernameLen {
		return ErrNameTooLong
	}
	return nil
}

// Register binds a connection to a display name. The name must already be
// free; callers resolve collisions by evicting the incumbent first.
func (r *SessionRegistry) Register(connID, username string, at time.Time) (Identity, error) {
	username = strings.TrimSpace(username)
	if err := ValidateUsername(username); err != nil {
		return Identity{}, err
	}
	if _, ok := r.FindByName(username); ok {
		return Identity{}, ErrNameTaken
	}

	ident := Identity{ID: connID, Username: username, JoinedAt: at}
	if _, ok := r.byID[connID]; !ok {
		r.order = append(r.order, connID)
	}
	r.byID[connID] = ident
	return ident, nil
}

// Unregister removes and returns the identity for a connection.
// It is a no-op for unknown connections.
func (r *SessionRegistry) Unregister(connID string) (Identity, bool) {
	ident, ok := r.byID[connID]
	if !ok {
		return Identity{}, false
	}
	delete(r.byID, connID)
	for i, id := range r.order {
		if id == connID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return ident, true
}

// Get returns the identity bound to a connection, if any.
func (r *SessionRegistry) Get(connID string) (Identity, bool) {
	ident, ok := r.byID[connID]
	return ident, ok
}

// FindByName resolves a display name case-insensitively.
func (r *SessionRegistry) FindByName(name string) (Identity, bool) {
	name = strings.TrimSpace(name)
	for _, ident := range r.byID {
		if strings.EqualFold(ident.Username, name) {
			return ident, true
		}
	}
	return Identity{}, false
}

// ListAll returns all identities in registration order.
func (r *SessionRegistry) ListAll() []Identity {
	out := make([]Identity, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Len reports the number of live identities.
func (r *SessionRegistry) Len() int {
	return len(r.byID)
}
