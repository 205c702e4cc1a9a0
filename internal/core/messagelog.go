package core

const (
	// MessageCap is the retention window of the in-memory log.
	MessageCap = 100
	// HistoryLimit is how many messages a new joiner receives.
	HistoryLimit = 50
)

// MessageLog is a bounded ordered sequence of chat and system messages,
// plus a single optional pinned message reference. Like the registry it is
// owned by the hub goroutine and does no locking of its own.
type MessageLog struct {
	entries  []Message
	pinnedID string
}

// NewMessageLog constructs an empty log.
func NewMessageLog() *MessageLog {
	return &MessageLog{}
}

// Append inserts a message at the end, trimming oldest-first once the
// retention cap is exceeded. A pin referencing an evicted message goes
// stale and reads as absent.
func (l *MessageLog) Append(m Message) {
	l.entries = append(l.entries, m)
	if n := len(l.entries); n > MessageCap {
		l.entries = append(l.entries[:0:0], l.entries[n-MessageCap:]...)
	}
}

// Recent returns the most recent n messages, oldest-first.
func (l *MessageLog) Recent(n int) []Message {
	if n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]Message, n)
	copy(out, l.entries[len(l.entries)-n:])
	return out
}

// Clear empties the log and the pin, then appends the given notice so the
// cleared room is not left without context. Returns the notice.
func (l *MessageLog) Clear(notice Message) Message {
	l.entries = append(l.entries[:0:0], notice)
	l.pinnedID = ""
	return notice
}

// FindByID looks up a message currently retained in the log.
func (l *MessageLog) FindByID(id string) (Message, bool) {
	for i := len(l.entries) - 1; i >= 0; i-- {
		if l.entries[i].ID == id {
			return l.entries[i], true
		}
	}
	return Message{}, false
}

// Pin marks the message with the given id as pinned. Unknown ids leave the
// current pin unchanged.
func (l *MessageLog) Pin(id string) (Message, bool) {
	m, ok := l.FindByID(id)
	if !ok {
		return Message{}, false
	}
	l.pinnedID = id
	return m, true
}

// Unpin clears the pinned message reference.
func (l *MessageLog) Unpin() {
	l.pinnedID = ""
}

// CurrentPin returns the pinned message if it is still retained.
func (l *MessageLog) CurrentPin() (Message, bool) {
	if l.pinnedID == "" {
		return Message{}, false
	}
	return l.FindByID(l.pinnedID)
}

// Len reports the number of retained messages.
func (l *MessageLog) Len() int {
	return len(l.entries)
}
