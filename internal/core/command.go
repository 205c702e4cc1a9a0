package core

import "time"

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoin claims a display name and enters the room.
	CommandJoin CommandKind = iota
	// CommandSendMessage broadcasts a chat message.
	CommandSendMessage
	// CommandAdminClearMessages empties the message log.
	CommandAdminClearMessages
	// CommandAdminPinMessage highlights a message by id.
	CommandAdminPinMessage
	// CommandAdminUnpinMessage clears the highlighted message.
	CommandAdminUnpinMessage
	// CommandAdminBanUser bans a user's origin for a duration.
	CommandAdminBanUser
	// CommandAdminUnbanUser lifts a ban on a user's origin.
	CommandAdminUnbanUser
	// CommandAdminKickUser forcibly disconnects a user.
	CommandAdminKickUser
	// CommandAdminAnnounce broadcasts a system announcement.
	CommandAdminAnnounce
	// CommandAdminListUsers replies to the admin with the user list.
	CommandAdminListUsers
)

// Command represents an action requested by a client.
type Command struct {
	Kind     CommandKind
	Username string        // join name, or the target of an admin command
	Text     string        // message body or announcement text
	Password string        // admin credential presented at join
	Token    string        // admin session token presented at join
	ID       string        // pin target message id
	Duration time.Duration // ban length; zero means the hub default
}
