package core

import "time"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventJoinSuccess confirms a join to the joiner, with room state.
	EventJoinSuccess EventKind = iota
	// EventJoinError rejects a join attempt.
	EventJoinError
	// EventNewMessage delivers a chat or system message.
	EventNewMessage
	// EventUserJoined notifies other clients about a new user.
	EventUserJoined
	// EventUserLeft notifies remaining clients about a departure.
	EventUserLeft
	// EventClearMessages notifies that the log was emptied by the admin.
	EventClearMessages
	// EventPinMessage notifies that a message was pinned.
	EventPinMessage
	// EventUnpinMessage notifies that the pin was cleared.
	EventUnpinMessage
	// EventBanUser notifies that a user was banned.
	EventBanUser
	// EventUnbanUser notifies that a user was unbanned.
	EventUnbanUser
	// EventKicked tells a client its session was terminated.
	EventKicked
	// EventListUsers replies to the admin with the current user list.
	EventListUsers
	// EventError notifies the triggering client about a failure.
	EventError
)

// Event is sent to clients to describe what happened in the room.
// Only the fields relevant to the Kind are populated.
type Event struct {
	Kind     EventKind
	Username string     // join-success name, ban/unban target
	UserID   string     // user-left connection id
	User     *Identity  // user-joined subject
	Users    []Identity // user list snapshot
	Message  *Message
	Messages []Message // join-success history
	Pinned   *Message  // join-success current pin
	Until    time.Time // ban expiry
	Reason   string    // kicked reason
	Error    *CoreError
}
