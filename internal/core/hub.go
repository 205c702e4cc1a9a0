package core

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/openroom/openroom-server/internal/store"
	"github.com/openroom/openroom-server/internal/utils"
)

const (
	// MaxMessageLen is the maximum chat message length in runes.
	MaxMessageLen = 500
	// DefaultBanDuration is applied when no explicit duration is given.
	DefaultBanDuration = 2 * time.Minute
)

// WordFilter reports whether a text contains banned content.
type WordFilter interface {
	Match(text string) bool
}

// AdminGate verifies the credential presented when claiming the admin name.
type AdminGate interface {
	Verify(password, token string) error
}

type inboundCommand struct {
	client *Client
	cmd    *Command
}

// Hub coordinates all connected clients. It owns the session registry, the
// message log, the pin and the ban store; every mutation runs on the single
// Run goroutine, so interleaved events from different connections can never
// observe a torn state. Outbound delivery never blocks: slow consumers are
// dropped from rather than waited on.
type Hub struct {
	adminName   string
	banDuration time.Duration

	bans   store.BanStore
	filter WordFilter
	gate   AdminGate

	sessions *SessionRegistry
	messages *MessageLog
	clients  map[string]*Client

	register   chan *Client
	unregister chan *Client
	inbound    chan inboundCommand
	done       chan struct{}

	ctx context.Context
	log zerolog.Logger
}

// HubOptions configures a Hub. Bans, Filter and Gate may be nil; a nil gate
// makes the admin name unclaimable.
type HubOptions struct {
	AdminName   string
	BanDuration time.Duration
	Bans        store.BanStore
	Filter      WordFilter
	Gate        AdminGate
	Logger      *zerolog.Logger
}

// NewHub creates a hub instance. One hub serves the whole process.
func NewHub(opts HubOptions) *Hub {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	banDuration := opts.BanDuration
	if banDuration <= 0 {
		banDuration = DefaultBanDuration
	}
	return &Hub{
		adminName:   opts.AdminName,
		banDuration: banDuration,
		bans:        opts.Bans,
		filter:      opts.Filter,
		gate:        opts.Gate,
		sessions:    NewSessionRegistry(),
		messages:    NewMessageLog(),
		clients:     make(map[string]*Client),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		inbound:     make(chan inboundCommand),
		done:        make(chan struct{}),
		ctx:         context.Background(),
		log:         logger,
	}
}

// RegisterClient hands a new connection to the hub.
func (h *Hub) RegisterClient(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// UnregisterClient reports a closed connection. Idempotent: calling it for
// an already removed client (kicked, replaced) is a no-op.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Run drains registrations and client commands until ctx is cancelled.
// It is the only goroutine that touches hub state.
func (h *Hub) Run(ctx context.Context) {
	h.ctx = ctx
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clients[c.ID] = c
			go h.pump(ctx, c)
		case c := <-h.unregister:
			h.handleDisconnect(c)
		case in := <-h.inbound:
			h.dispatch(in.client, in.cmd)
		}
	}
}

// pump forwards one client's commands into the shared inbound queue.
func (h *Hub) pump(ctx context.Context, c *Client) {
	for {
		select {
		case cmd, ok := <-c.Commands:
			if !ok {
				return
			}
			select {
			case h.inbound <- inboundCommand{client: c, cmd: cmd}:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// dispatch applies one event's effects. A panic in a handler is contained
// here: the hub and other connections keep running, the faulting client
// gets a generic error.
func (h *Hub) dispatch(c *Client, cmd *Command) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error().Interface("panic", r).Str("client_id", c.ID).Msg("event handler fault")
			h.send(c, &Event{Kind: EventError, Error: coreError(ErrCodeInternal, "An error occurred")})
		}
	}()

	if cmd == nil {
		return
	}
	// Commands queued before a kick, eviction or moderation ban can still
	// race in through the pump; a terminated connection gets no further
	// effects.
	if _, ok := h.clients[c.ID]; !ok {
		return
	}

	switch cmd.Kind {
	case CommandJoin:
		h.handleJoin(c, cmd)
	case CommandSendMessage:
		h.handleSendMessage(c, cmd)
	default:
		h.handleAdmin(c, cmd)
	}
}

func (h *Hub) handleJoin(c *Client, cmd *Command) {
	if _, ok := h.sessions.Get(c.ID); ok {
		h.send(c, joinError(ErrCodeAlreadyJoined, "Already joined"))
		return
	}

	name := strings.TrimSpace(cmd.Username)
	switch ValidateUsername(name) {
	case ErrNameEmpty:
		h.send(c, joinError(ErrCodeNameEmpty, "Username cannot be empty"))
		return
	case ErrNameTooLong:
		h.send(c, joinError(ErrCodeNameTooLong, "Username must be under 20 characters"))
		return
	}

	if h.isBanned(c.Origin) {
		h.send(c, joinError(ErrCodeBanned, "You are banned from this chat"))
		return
	}

	if strings.EqualFold(name, h.adminName) {
		if h.gate == nil {
			h.send(c, joinError(ErrCodeUnauthorized, "Invalid admin credentials"))
			return
		}
		if err := h.gate.Verify(cmd.Password, cmd.Token); err != nil {
			h.log.Debug().Err(err).Str("client_id", c.ID).Msg("admin claim rejected")
			h.send(c, joinError(ErrCodeUnauthorized, "Invalid admin credentials"))
			return
		}
	}

	// Name collision: the newcomer wins. The incumbent is told and removed
	// before the new identity is registered under that name.
	if prev, ok := h.sessions.FindByName(name); ok {
		h.evict(prev.ID, "Another session signed in with your username")
	}

	ident, err := h.sessions.Register(c.ID, name, time.Now())
	if err != nil {
		h.log.Error().Err(err).Str("client_id", c.ID).Msg("register after collision resolution")
		h.send(c, joinError(ErrCodeInternal, "An error occurred while joining"))
		return
	}

	// History is captured before the join notice so the joiner does not
	// see their own arrival in it.
	history := h.messages.Recent(HistoryLimit)
	var pinned *Message
	if pin, ok := h.messages.CurrentPin(); ok {
		pinned = &pin
	}

	joinMsg := h.systemMessage(ident.Username + " joined the chat")
	h.messages.Append(joinMsg)
	users := h.sessions.ListAll()

	h.send(c, &Event{
		Kind:     EventJoinSuccess,
		Username: ident.Username,
		Users:    users,
		Messages: history,
		Pinned:   pinned,
	})
	h.broadcast(&Event{
		Kind:    EventUserJoined,
		User:    &ident,
		Message: &joinMsg,
		Users:   users,
	}, c.ID)

	h.log.Info().Str("username", ident.Username).Str("client_id", c.ID).Msg("user joined")
}

func (h *Hub) handleSendMessage(c *Client, cmd *Command) {
	ident, ok := h.sessions.Get(c.ID)
	if !ok {
		h.send(c, &Event{Kind: EventError, Error: coreError(ErrCodeNotJoined, "User not found")})
		return
	}

	text := strings.TrimSpace(cmd.Text)
	if text == "" {
		h.send(c, &Event{Kind: EventError, Error: coreError(ErrCodeMessageEmpty, "Message cannot be empty")})
		return
	}
	if utf8.RuneCountInString(text) > MaxMessageLen {
		h.send(c, &Event{Kind: EventError, Error: coreError(ErrCodeMessageTooLong, "Message too long (max 500 characters)")})
		return
	}

	if h.isBanned(c.Origin) || (h.filter != nil && h.filter.Match(text)) {
		until := h.banOrigin(c.Origin, 0)
		h.log.Info().Str("username", ident.Username).Str("origin", c.Origin).Time("until", until).Msg("sender banned")
		h.send(c, &Event{Kind: EventError, Error: coreError(ErrCodeModeration, "Your message was rejected and you have been banned")})
		// Force disconnect; the transport's unregister then runs the
		// normal leave flow.
		h.removeClient(c)
		return
	}

	msg := Message{
		ID:        utils.NewMessageID(),
		Username:  ident.Username,
		Content:   text,
		CreatedAt: time.Now(),
		Kind:      MessageUser,
	}
	h.messages.Append(msg)
	h.broadcast(&Event{Kind: EventNewMessage, Message: &msg}, "")
}

func (h *Hub) handleAdmin(c *Client, cmd *Command) {
	ident, ok := h.sessions.Get(c.ID)
	if !ok || !strings.EqualFold(ident.Username, h.adminName) {
		h.log.Debug().Str("client_id", c.ID).Int("kind", int(cmd.Kind)).Msg("unauthorized admin command dropped")
		return
	}

	switch cmd.Kind {
	case CommandAdminClearMessages:
		notice := h.messages.Clear(h.systemMessage("Chat was cleared by admin"))
		h.broadcast(&Event{Kind: EventClearMessages, Message: &notice}, "")

	case CommandAdminPinMessage:
		if msg, ok := h.messages.Pin(cmd.ID); ok {
			h.broadcast(&Event{Kind: EventPinMessage, Message: &msg}, "")
		}

	case CommandAdminUnpinMessage:
		h.messages.Unpin()
		h.broadcast(&Event{Kind: EventUnpinMessage}, "")

	case CommandAdminBanUser:
		h.adminBan(cmd)

	case CommandAdminUnbanUser:
		h.adminUnban(cmd)

	case CommandAdminKickUser:
		h.adminKick(cmd)

	case CommandAdminAnnounce:
		text := strings.TrimSpace(cmd.Text)
		if text == "" {
			return
		}
		msg := h.systemMessage("[Announcement] " + text)
		h.messages.Append(msg)
		h.broadcast(&Event{Kind: EventNewMessage, Message: &msg}, "")

	case CommandAdminListUsers:
		h.send(c, &Event{Kind: EventListUsers, Users: h.sessions.ListAll()})
	}
}

// adminBan bans the target's origin. The ban notice is broadcast even when
// the target is offline; in that case no ban record can be written because
// the origin key is unknown.
func (h *Hub) adminBan(cmd *Command) {
	name := strings.TrimSpace(cmd.Username)
	if name == "" {
		return
	}

	duration := cmd.Duration
	if duration <= 0 {
		duration = h.banDuration
	}
	until := time.Now().Add(duration)
	if target, ok := h.sessions.FindByName(name); ok {
		if victim, live := h.clients[target.ID]; live {
			until = h.banOrigin(victim.Origin, duration)
		}
		name = target.Username
	}

	h.broadcast(&Event{Kind: EventBanUser, Username: name, Until: until}, "")
	msg := h.systemMessage(name + " was banned by admin")
	h.messages.Append(msg)
	h.broadcast(&Event{Kind: EventNewMessage, Message: &msg}, "")
}

func (h *Hub) adminUnban(cmd *Command) {
	name := strings.TrimSpace(cmd.Username)
	if name == "" {
		return
	}

	if target, ok := h.sessions.FindByName(name); ok {
		if victim, live := h.clients[target.ID]; live && h.bans != nil {
			if err := h.bans.Unban(h.ctx, victim.Origin); err != nil {
				h.log.Warn().Err(err).Str("origin", victim.Origin).Msg("unban failed")
			}
		}
		name = target.Username
	}

	h.broadcast(&Event{Kind: EventUnbanUser, Username: name}, "")
	msg := h.systemMessage(name + " was unbanned by admin")
	h.messages.Append(msg)
	h.broadcast(&Event{Kind: EventNewMessage, Message: &msg}, "")
}

func (h *Hub) adminKick(cmd *Command) {
	target, ok := h.sessions.FindByName(strings.TrimSpace(cmd.Username))
	if !ok {
		return
	}

	h.evict(target.ID, "You were kicked by admin")

	msg := h.systemMessage(target.Username + " was kicked by admin")
	h.messages.Append(msg)
	users := h.sessions.ListAll()
	h.broadcast(&Event{Kind: EventNewMessage, Message: &msg}, "")
	h.broadcast(&Event{Kind: EventUserLeft, UserID: target.ID, Message: &msg, Users: users}, "")
}

// handleDisconnect applies the disconnect effect exactly once, even when it
// races a kick or a replacing join that already removed the client.
func (h *Hub) handleDisconnect(c *Client) {
	h.removeClient(c)

	ident, ok := h.sessions.Unregister(c.ID)
	if !ok {
		return
	}

	leaveMsg := h.systemMessage(ident.Username + " left the chat")
	h.messages.Append(leaveMsg)
	h.broadcast(&Event{
		Kind:    EventUserLeft,
		UserID:  c.ID,
		Message: &leaveMsg,
		Users:   h.sessions.ListAll(),
	}, "")

	h.log.Info().Str("username", ident.Username).Str("client_id", c.ID).Msg("user disconnected")
}

// evict terminates the session of the given connection: it is told why,
// removed from the registry and force-disconnected. No leave notice is
// produced.
func (h *Hub) evict(connID, reason string) {
	if victim, ok := h.clients[connID]; ok {
		h.send(victim, &Event{Kind: EventKicked, Reason: reason})
		h.removeClient(victim)
	}
	h.sessions.Unregister(connID)
}

// removeClient drops the client from the live set and closes its Events
// channel, which makes the transport close the connection.
func (h *Hub) removeClient(c *Client) {
	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	delete(h.clients, c.ID)
	close(c.Events)
}

// send enqueues an event for one client, dropping it if the client is slow
// or already removed.
func (h *Hub) send(c *Client, ev *Event) {
	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	select {
	case c.Events <- ev:
	default:
	}
}

// broadcast enqueues an event for every live client except the one with
// exceptID (empty means everyone). Payloads are computed before the next
// command is drained, so all clients observe the same state snapshot.
func (h *Hub) broadcast(ev *Event, exceptID string) {
	for id, c := range h.clients {
		if id == exceptID {
			continue
		}
		select {
		case c.Events <- ev:
		default:
			// Drop if slow consumer.
		}
	}
}

func (h *Hub) isBanned(origin string) bool {
	if h.bans == nil || origin == "" {
		return false
	}
	banned, err := h.bans.IsBanned(h.ctx, origin)
	if err != nil {
		h.log.Warn().Err(err).Str("origin", origin).Msg("ban check failed")
		return false
	}
	return banned
}

func (h *Hub) banOrigin(origin string, duration time.Duration) time.Time {
	if duration <= 0 {
		duration = h.banDuration
	}
	until := time.Now().Add(duration)
	if h.bans == nil || origin == "" {
		return until
	}
	stored, err := h.bans.Ban(h.ctx, origin, duration)
	if err != nil {
		h.log.Warn().Err(err).Str("origin", origin).Msg("ban write failed")
		return until
	}
	return stored
}

func (h *Hub) systemMessage(content string) Message {
	return Message{
		ID:        utils.NewSystemID(),
		Username:  SystemAuthor,
		Content:   content,
		CreatedAt: time.Now(),
		Kind:      MessageSystem,
	}
}

func joinError(code, msg string) *Event {
	return &Event{Kind: EventJoinError, Error: coreError(code, msg)}
}
