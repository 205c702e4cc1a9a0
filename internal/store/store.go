package store

import (
	"context"
	"time"
)

// Ban is a moderation ban keyed by a connection origin (network address).
// Bans are a soft moderation control, not a security boundary.
type Ban struct {
	Origin    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// BanStore persists moderation bans across process restarts. Expired
// entries are purged lazily: once expired, a key reads as not banned from
// the next check onward.
type BanStore interface {
	// IsBanned reports whether the origin currently holds an unexpired
	// ban, purging expired entries for it first.
	IsBanned(ctx context.Context, origin string) (bool, error)
	// Ban records a ban for the origin and returns its expiry. An
	// existing ban for the same origin is overwritten.
	Ban(ctx context.Context, origin string, duration time.Duration) (time.Time, error)
	// Unban removes any ban for the origin.
	Unban(ctx context.Context, origin string) error
	// Close releases the backing storage.
	Close() error
}
