package core

import "time"

// SystemAuthor is the reserved author name for synthetic messages.
const SystemAuthor = "System"

// MessageKind separates user-authored messages from synthetic ones.
type MessageKind int

const (
	// MessageUser is a message typed by a connected user.
	MessageUser MessageKind = iota
	// MessageSystem is a synthetic join/leave/moderation notice.
	MessageSystem
)

// Message is the domain model for a chat log entry. Immutable once appended.
type Message struct {
	ID        string
	Username  string
	Content   string
	CreatedAt time.Time
	Kind      MessageKind
}
