package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// NewMessageID returns a unique id for a user message.
func NewMessageID() string {
	return "msg-" + suffix()
}

// NewSystemID returns a unique id for a synthetic system message.
func NewSystemID() string {
	return "system-" + suffix()
}

func suffix() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		// Fallback to timestamp only if crypto/rand is unavailable.
		return fmt.Sprintf("%d-%d", time.Now().UnixMilli(), time.Now().UnixNano())
	}
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), hex.EncodeToString(buf))
}
