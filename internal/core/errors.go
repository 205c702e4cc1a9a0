package core

import "errors"

// Error codes for domain errors surfaced to clients.
const (
	ErrCodeNameEmpty      = "name_empty"
	ErrCodeNameTooLong    = "name_too_long"
	ErrCodeAlreadyJoined  = "already_joined"
	ErrCodeNotJoined      = "not_joined"
	ErrCodeBanned         = "banned"
	ErrCodeUnauthorized   = "unauthorized"
	ErrCodeMessageEmpty   = "message_empty"
	ErrCodeMessageTooLong = "message_too_long"
	ErrCodeModeration     = "moderation"
	ErrCodeInternal       = "internal_error"
)

var (
	ErrNameEmpty   = errors.New("username is empty")
	ErrNameTooLong = errors.New("username is too long")
	ErrNameTaken   = errors.New("username is taken")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
