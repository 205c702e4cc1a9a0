// Package proto defines the JSON wire protocol between clients and the hub.
package proto

import (
	"encoding/json"
	"time"
)

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

const (
	ProtocolVersion = 1

	InboundTypeJoin               = "join"
	InboundTypeSendMessage        = "send-message"
	InboundTypeAdminClearMessages = "admin-clear-messages"
	InboundTypeAdminPinMessage    = "admin-pin-message"
	InboundTypeAdminUnpinMessage  = "admin-unpin-message"
	InboundTypeAdminBanUser       = "admin-ban-user"
	InboundTypeAdminUnbanUser     = "admin-unban-user"
	InboundTypeAdminKickUser      = "admin-kick-user"
	InboundTypeAdminAnnounce      = "admin-announce"
	InboundTypeAdminListUsers     = "admin-list-users"

	OutboundTypeJoinSuccess   = "join-success"
	OutboundTypeJoinError     = "join-error"
	OutboundTypeNewMessage    = "new-message"
	OutboundTypeUserJoined    = "user-joined"
	OutboundTypeUserLeft      = "user-left"
	OutboundTypeClearMessages = "clear-messages"
	OutboundTypePinMessage    = "pin-message"
	OutboundTypeUnpinMessage  = "unpin-message"
	OutboundTypeBanUser       = "ban-user"
	OutboundTypeUnbanUser     = "unban-user"
	OutboundTypeKicked        = "kicked"
	OutboundTypeListUsers     = "list-users"
	OutboundTypeError         = "error"
)

// Message is the wire form of a chat log entry.
type Message struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"` // "user" | "system"
}

// User is the wire form of a connected identity.
type User struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	JoinedAt time.Time `json:"joinedAt"`
}

// JoinData requests to join under a display name. Password or token is
// required only when claiming the admin name.
type JoinData struct {
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	Token    string `json:"token,omitempty"`
}

// SendMessageData is a chat message from the client.
type SendMessageData struct {
	Content string `json:"content"`
}

// AdminTargetData names the target of a ban/unban/kick command.
type AdminTargetData struct {
	Username   string `json:"username"`
	DurationMs int64  `json:"durationMs,omitempty"`
}

// AdminPinData names the message to pin.
type AdminPinData struct {
	MessageID string `json:"messageId"`
}

// AdminAnnounceData carries an announcement text.
type AdminAnnounceData struct {
	Text string `json:"text"`
}

// JoinSuccessData confirms a join with the current room state.
type JoinSuccessData struct {
	Username string    `json:"username"`
	Users    []User    `json:"users"`
	Messages []Message `json:"messages"`
	Pinned   *Message  `json:"pinned,omitempty"`
}

// UserJoinedData notifies other clients about a new user.
type UserJoinedData struct {
	User    User    `json:"user"`
	Message Message `json:"message"`
	Users   []User  `json:"users"`
}

// UserLeftData notifies remaining clients about a departure.
type UserLeftData struct {
	UserID  string  `json:"userId"`
	Message Message `json:"message"`
	Users   []User  `json:"users"`
}

// ClearMessagesData carries the notice left after the log was cleared.
type ClearMessagesData struct {
	Message Message `json:"message"`
}

// BanUserData announces a ban.
type BanUserData struct {
	Username string    `json:"username"`
	Until    time.Time `json:"until"`
}

// UnbanUserData announces a lifted ban.
type UnbanUserData struct {
	Username string `json:"username"`
}

// KickedData tells a client why its session ended.
type KickedData struct {
	Reason string `json:"reason"`
}

// ListUsersData replies to the admin with the current user list.
type ListUsersData struct {
	Users []User `json:"users"`
}

// Error describes a protocol or domain error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
