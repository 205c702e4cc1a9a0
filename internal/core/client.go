package core

// Client is a connected transport endpoint as seen by the core layer.
// Origin is a stable per-connection attribute (network address) used as
// the ban key; it is distinct from the display name chosen at join.
type Client struct {
	ID       string
	Origin   string
	Commands chan *Command
	Events   chan *Event
}

// NewClient constructs a client with initialized channels.
func NewClient(id, origin string) *Client {
	return &Client{
		ID:       id,
		Origin:   origin,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 32),
	}
}
