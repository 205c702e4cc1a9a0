package http

import (
	"encoding/json"
	"time"

	"github.com/openroom/openroom-server/internal/core"
	"github.com/openroom/openroom-server/internal/proto"
)

// inboundToCommand maps a wire envelope to a core command. A non-nil
// proto.Error means the envelope was understood but invalid and the client
// should be told; malformed admin payloads are dropped silently instead.
func inboundToCommand(in proto.Inbound) (*core.Command, *proto.Error) {
	switch in.Type {
	case proto.InboundTypeJoin:
		var data proto.JoinData
		if err := json.Unmarshal(in.Data, &data); err != nil {
			return nil, &proto.Error{Code: "bad_payload", Msg: "invalid join payload"}
		}
		return &core.Command{
			Kind:     core.CommandJoin,
			Username: data.Username,
			Password: data.Password,
			Token:    data.Token,
		}, nil

	case proto.InboundTypeSendMessage:
		var data proto.SendMessageData
		if err := json.Unmarshal(in.Data, &data); err != nil {
			return nil, &proto.Error{Code: "bad_payload", Msg: "invalid message payload"}
		}
		return &core.Command{Kind: core.CommandSendMessage, Text: data.Content}, nil

	case proto.InboundTypeAdminClearMessages:
		return &core.Command{Kind: core.CommandAdminClearMessages}, nil

	case proto.InboundTypeAdminPinMessage:
		var data proto.AdminPinData
		if err := json.Unmarshal(in.Data, &data); err != nil {
			return nil, nil
		}
		return &core.Command{Kind: core.CommandAdminPinMessage, ID: data.MessageID}, nil

	case proto.InboundTypeAdminUnpinMessage:
		return &core.Command{Kind: core.CommandAdminUnpinMessage}, nil

	case proto.InboundTypeAdminBanUser:
		var data proto.AdminTargetData
		if err := json.Unmarshal(in.Data, &data); err != nil {
			return nil, nil
		}
		return &core.Command{
			Kind:     core.CommandAdminBanUser,
			Username: data.Username,
			Duration: time.Duration(data.DurationMs) * time.Millisecond,
		}, nil

	case proto.InboundTypeAdminUnbanUser:
		var data proto.AdminTargetData
		if err := json.Unmarshal(in.Data, &data); err != nil {
			return nil, nil
		}
		return &core.Command{Kind: core.CommandAdminUnbanUser, Username: data.Username}, nil

	case proto.InboundTypeAdminKickUser:
		var data proto.AdminTargetData
		if err := json.Unmarshal(in.Data, &data); err != nil {
			return nil, nil
		}
		return &core.Command{Kind: core.CommandAdminKickUser, Username: data.Username}, nil

	case proto.InboundTypeAdminAnnounce:
		var data proto.AdminAnnounceData
		if err := json.Unmarshal(in.Data, &data); err != nil {
			return nil, nil
		}
		return &core.Command{Kind: core.CommandAdminAnnounce, Text: data.Text}, nil

	case proto.InboundTypeAdminListUsers:
		return &core.Command{Kind: core.CommandAdminListUsers}, nil
	}

	return nil, &proto.Error{Code: "unknown_type", Msg: "unknown message type"}
}

// outboundFromEvent maps a core event to its wire envelope.
func outboundFromEvent(ev *core.Event) proto.Outbound {
	switch ev.Kind {
	case core.EventJoinSuccess:
		return proto.Outbound{Type: proto.OutboundTypeJoinSuccess, Data: proto.JoinSuccessData{
			Username: ev.Username,
			Users:    toProtoUsers(ev.Users),
			Messages: toProtoMessages(ev.Messages),
			Pinned:   toProtoMessagePtr(ev.Pinned),
		}}

	case core.EventJoinError:
		return proto.Outbound{Type: proto.OutboundTypeJoinError, Error: toProtoError(ev.Error)}

	case core.EventNewMessage:
		return proto.Outbound{Type: proto.OutboundTypeNewMessage, Data: toProtoMessage(*ev.Message)}

	case core.EventUserJoined:
		return proto.Outbound{Type: proto.OutboundTypeUserJoined, Data: proto.UserJoinedData{
			User:    toProtoUser(*ev.User),
			Message: toProtoMessage(*ev.Message),
			Users:   toProtoUsers(ev.Users),
		}}

	case core.EventUserLeft:
		return proto.Outbound{Type: proto.OutboundTypeUserLeft, Data: proto.UserLeftData{
			UserID:  ev.UserID,
			Message: toProtoMessage(*ev.Message),
			Users:   toProtoUsers(ev.Users),
		}}

	case core.EventClearMessages:
		return proto.Outbound{Type: proto.OutboundTypeClearMessages, Data: proto.ClearMessagesData{
			Message: toProtoMessage(*ev.Message),
		}}

	case core.EventPinMessage:
		return proto.Outbound{Type: proto.OutboundTypePinMessage, Data: toProtoMessage(*ev.Message)}

	case core.EventUnpinMessage:
		return proto.Outbound{Type: proto.OutboundTypeUnpinMessage}

	case core.EventBanUser:
		return proto.Outbound{Type: proto.OutboundTypeBanUser, Data: proto.BanUserData{
			Username: ev.Username,
			Until:    ev.Until,
		}}

	case core.EventUnbanUser:
		return proto.Outbound{Type: proto.OutboundTypeUnbanUser, Data: proto.UnbanUserData{
			Username: ev.Username,
		}}

	case core.EventKicked:
		return proto.Outbound{Type: proto.OutboundTypeKicked, Data: proto.KickedData{Reason: ev.Reason}}

	case core.EventListUsers:
		return proto.Outbound{Type: proto.OutboundTypeListUsers, Data: proto.ListUsersData{
			Users: toProtoUsers(ev.Users),
		}}
	}

	return proto.Outbound{Type: proto.OutboundTypeError, Error: toProtoError(ev.Error)}
}

func toProtoError(e *core.CoreError) *proto.Error {
	if e == nil {
		return &proto.Error{Code: core.ErrCodeInternal, Msg: "An error occurred"}
	}
	return &proto.Error{Code: e.Code, Msg: e.Message}
}

func toProtoMessage(m core.Message) proto.Message {
	kind := "user"
	if m.Kind == core.MessageSystem {
		kind = "system"
	}
	return proto.Message{
		ID:        m.ID,
		Username:  m.Username,
		Content:   m.Content,
		Timestamp: m.CreatedAt,
		Type:      kind,
	}
}

func toProtoMessagePtr(m *core.Message) *proto.Message {
	if m == nil {
		return nil
	}
	out := toProtoMessage(*m)
	return &out
}

func toProtoMessages(msgs []core.Message) []proto.Message {
	out := make([]proto.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toProtoMessage(m))
	}
	return out
}

func toProtoUser(ident core.Identity) proto.User {
	return proto.User{ID: ident.ID, Username: ident.Username, JoinedAt: ident.JoinedAt}
}

func toProtoUsers(idents []core.Identity) []proto.User {
	out := make([]proto.User, 0, len(idents))
	for _, ident := range idents {
		out = append(out, toProtoUser(ident))
	}
	return out
}
