// Copyright (c) 2024 RoseLoverX

package telegram

import (
	"encoding/base64"
	"encoding/binary"
	"strings"
	"time"

	"github.com/amarnathcjd/mtproto/internal/session"
)

// UpdateKind is the semantic kind an update is dispatched as.
type UpdateKind uint8

const (
	// KindRaw updates only reach raw handlers.
	KindRaw UpdateKind = iota
	KindMessage
	KindEditedMessage
	KindDeletedMessages
	KindCallbackQuery
	KindUserStatus
	KindInlineQuery
	KindPoll
	KindChosenInlineResult
	KindChatMember
	KindChatJoinRequest
)

var kindNames = [...]string{
	KindRaw:                "raw",
	KindMessage:            "message",
	KindEditedMessage:      "edited_message",
	KindDeletedMessages:    "deleted_messages",
	KindCallbackQuery:      "callback_query",
	KindUserStatus:         "user_status",
	KindInlineQuery:        "inline_query",
	KindPoll:               "poll",
	KindChosenInlineResult: "chosen_inline_result",
	KindChatMember:         "chat_member",
	KindChatJoinRequest:    "chat_join_request",
}

func (k UpdateKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Classify maps a raw update to the kind of handler it is offered to.
func Classify(u Update) UpdateKind {
	switch u.(type) {
	case *UpdateNewMessage, *UpdateNewChannelMessage:
		return KindMessage
	case *UpdateEditMessage, *UpdateEditChannelMessage:
		return KindEditedMessage
	case *UpdateDeleteMessages, *UpdateDeleteChannelMessages:
		return KindDeletedMessages
	case *UpdateBotCallbackQuery, *UpdateInlineBotCallbackQuery:
		return KindCallbackQuery
	case *UpdateUserStatus:
		return KindUserStatus
	case *UpdateBotInlineQuery:
		return KindInlineQuery
	case *UpdateMessagePollVote:
		return KindPoll
	case *UpdateBotInlineSend:
		return KindChosenInlineResult
	case *UpdateChatParticipant, *UpdateChannelParticipant:
		return KindChatMember
	case *UpdateBotChatInviteRequester:
		return KindChatJoinRequest
	}
	return KindRaw
}

// UserInfo is a user as handlers see it.
type UserInfo struct {
	ID         int64
	AccessHash int64
	FirstName  string
	LastName   string
	Username   string
	Phone      string
	LangCode   string
	IsBot      bool
	IsSelf     bool
	IsPremium  bool
}

// FullName joins the first and last name.
func (u *UserInfo) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// ChatInfo is a private chat, group or channel. ID is the marked id.
type ChatInfo struct {
	ID         int64
	AccessHash int64
	Type       session.PeerType
	Title      string
	Username   string
	FirstName  string
	LastName   string
}

type NewMessage struct {
	ID         int32
	Chat       *ChatInfo
	From       *UserInfo
	SenderChat *ChatInfo
	Date       time.Time
	EditDate   time.Time
	Text       string
	Caption    string
	Entities   []*MessageEntity
	Media      MessageMedia
	ReplyToID  int32
	Outgoing   bool
	Service    bool
	Edited     bool
	Empty      bool

	// Command is set by the Command filter: the command name followed by
	// its arguments.
	Command []string
	// Matches is set by the Regex filter.
	Matches []string

	Raw Message
}

// Content is the text or, for media messages, the caption.
func (m *NewMessage) Content() string {
	if m.Text != "" {
		return m.Text
	}
	return m.Caption
}

type CallbackQuery struct {
	ID              int64
	From            *UserInfo
	Chat            *ChatInfo
	MessageID       int32
	InlineMessageID string
	ChatInstance    int64
	Data            []byte
	GameShortName   string
	Matches         []string
}

type InlineQuery struct {
	ID       int64
	From     *UserInfo
	Query    string
	Offset   string
	ChatType string
	Location *GeoPointObj
	Matches  []string
}

type DeleteMessage struct {
	IDs []int32
	// Chat is nil for private chats and basic groups.
	Chat *ChatInfo
}

type UserStatusUpdate struct {
	UserID      int64
	Status      string
	LastOnline  time.Time
	NextOffline time.Time
}

type PollVote struct {
	PollID  int64
	Voter   *ChatInfo
	User    *UserInfo
	Options [][]byte
}

type ChosenInlineResult struct {
	ResultID        string
	From            *UserInfo
	Query           string
	InlineMessageID string
	Location        *GeoPointObj
}

type ChatMemberUpdated struct {
	Chat       *ChatInfo
	From       *UserInfo
	User       *UserInfo
	Date       time.Time
	OldStatus  string
	NewStatus  string
	InviteLink string
}

type ChatJoinRequest struct {
	Chat       *ChatInfo
	From       *UserInfo
	Date       time.Time
	Bio        string
	InviteLink string
}

// buildUpdate turns a raw update into the object handlers receive, using
// the users and chats that came with it, keyed by bare id. It returns nil
// when the update has no rich form.
func buildUpdate(u Update, users map[int64]User, chats map[int64]Chat) (any, UpdateKind) {
	kind := Classify(u)
	switch u := u.(type) {
	case *UpdateNewMessage:
		return nilIfEmpty(buildMessage(u.Message, users, chats)), kind
	case *UpdateNewChannelMessage:
		return nilIfEmpty(buildMessage(u.Message, users, chats)), kind
	case *UpdateEditMessage:
		return edited(buildMessage(u.Message, users, chats)), kind
	case *UpdateEditChannelMessage:
		return edited(buildMessage(u.Message, users, chats)), kind
	case *UpdateDeleteMessages:
		return &DeleteMessage{IDs: u.Messages}, kind
	case *UpdateDeleteChannelMessages:
		return &DeleteMessage{
			IDs:  u.Messages,
			Chat: buildChat(&PeerChannel{ChannelID: u.ChannelID}, users, chats),
		}, kind
	case *UpdateBotCallbackQuery:
		return &CallbackQuery{
			ID:            u.QueryID,
			From:          buildUser(users[u.UserID], u.UserID),
			Chat:          buildChat(u.Peer, users, chats),
			MessageID:     u.MsgID,
			ChatInstance:  u.ChatInstance,
			Data:          u.Data,
			GameShortName: u.GameShortName,
		}, kind
	case *UpdateInlineBotCallbackQuery:
		return &CallbackQuery{
			ID:              u.QueryID,
			From:            buildUser(users[u.UserID], u.UserID),
			InlineMessageID: packInlineMessageID(u.MsgID),
			ChatInstance:    u.ChatInstance,
			Data:            u.Data,
			GameShortName:   u.GameShortName,
		}, kind
	case *UpdateUserStatus:
		return buildUserStatus(u), kind
	case *UpdateBotInlineQuery:
		q := &InlineQuery{
			ID:       u.QueryID,
			From:     buildUser(users[u.UserID], u.UserID),
			Query:    u.Query,
			Offset:   u.Offset,
			ChatType: inlineChatType(u.PeerType),
		}
		if geo, ok := u.Geo.(*GeoPointObj); ok {
			q.Location = geo
		}
		return q, kind
	case *UpdateMessagePollVote:
		v := &PollVote{PollID: u.PollID, Options: u.Options}
		if p, ok := u.Peer.(*PeerUser); ok {
			v.User = buildUser(users[p.UserID], p.UserID)
		} else {
			v.Voter = buildChat(u.Peer, users, chats)
		}
		return v, kind
	case *UpdateBotInlineSend:
		r := &ChosenInlineResult{
			ResultID: u.ID,
			From:     buildUser(users[u.UserID], u.UserID),
			Query:    u.Query,
		}
		if u.MsgID != nil {
			r.InlineMessageID = packInlineMessageID(u.MsgID)
		}
		if geo, ok := u.Geo.(*GeoPointObj); ok {
			r.Location = geo
		}
		return r, kind
	case *UpdateChatParticipant:
		return &ChatMemberUpdated{
			Chat:       buildChat(&PeerChat{ChatID: u.ChatID}, users, chats),
			From:       buildUser(users[u.ActorID], u.ActorID),
			User:       buildUser(users[u.UserID], u.UserID),
			Date:       unix(u.Date),
			OldStatus:  chatParticipantStatus(u.PrevParticipant),
			NewStatus:  chatParticipantStatus(u.NewParticipant),
			InviteLink: inviteLink(u.Invite),
		}, kind
	case *UpdateChannelParticipant:
		return &ChatMemberUpdated{
			Chat:       buildChat(&PeerChannel{ChannelID: u.ChannelID}, users, chats),
			From:       buildUser(users[u.ActorID], u.ActorID),
			User:       buildUser(users[u.UserID], u.UserID),
			Date:       unix(u.Date),
			OldStatus:  channelParticipantStatus(u.PrevParticipant),
			NewStatus:  channelParticipantStatus(u.NewParticipant),
			InviteLink: inviteLink(u.Invite),
		}, kind
	case *UpdateBotChatInviteRequester:
		return &ChatJoinRequest{
			Chat:       buildChat(u.Peer, users, chats),
			From:       buildUser(users[u.UserID], u.UserID),
			Date:       unix(u.Date),
			Bio:        u.About,
			InviteLink: inviteLink(u.Invite),
		}, kind
	}
	return nil, KindRaw
}

func nilIfEmpty(m *NewMessage) any {
	if m == nil || m.Empty {
		return nil
	}
	return m
}

func edited(m *NewMessage) any {
	if m == nil || m.Empty {
		return nil
	}
	m.Edited = true
	return m
}

func buildMessage(raw Message, users map[int64]User, chats map[int64]Chat) *NewMessage {
	switch msg := raw.(type) {
	case *MessageObj:
		m := &NewMessage{
			ID:       msg.ID,
			Chat:     buildChat(msg.PeerID, users, chats),
			Date:     unix(msg.Date),
			EditDate: unix(msg.EditDate),
			Entities: msg.Entities,
			Media:    msg.Media,
			Outgoing: msg.Out(),
			Raw:      msg,
		}
		if hasMedia(msg.Media) {
			m.Caption = msg.Message
		} else {
			m.Text = msg.Message
		}
		if h, ok := msg.ReplyTo.(*MessageReplyHeaderObj); ok {
			m.ReplyToID = h.ReplyToMsgID
		}
		m.From, m.SenderChat = buildSender(msg.FromID, msg.PeerID, users, chats)
		return m
	case *MessageService:
		m := &NewMessage{
			ID:       msg.ID,
			Chat:     buildChat(msg.PeerID, users, chats),
			Date:     unix(msg.Date),
			Outgoing: msg.Out(),
			Service:  true,
			Raw:      msg,
		}
		m.From, m.SenderChat = buildSender(msg.FromID, msg.PeerID, users, chats)
		return m
	case *MessageEmpty:
		return &NewMessage{ID: msg.ID, Empty: true, Raw: msg}
	}
	return nil
}

// buildSender falls back to the chat when a private message carries no
// sender.
func buildSender(from, peer Peer, users map[int64]User, chats map[int64]Chat) (*UserInfo, *ChatInfo) {
	if from == nil {
		from = peer
	}
	switch p := from.(type) {
	case *PeerUser:
		return buildUser(users[p.UserID], p.UserID), nil
	case *PeerChat, *PeerChannel:
		return nil, buildChat(p, users, chats)
	}
	return nil, nil
}

func hasMedia(m MessageMedia) bool {
	switch m.(type) {
	case nil, *MessageMediaEmpty:
		return false
	}
	return true
}

// buildUser returns a stub carrying only id when the user was not sent.
func buildUser(u User, id int64) *UserInfo {
	obj, ok := u.(*UserObj)
	if !ok {
		if id == 0 {
			return nil
		}
		return &UserInfo{ID: id}
	}
	return &UserInfo{
		ID:         obj.ID,
		AccessHash: obj.AccessHash,
		FirstName:  obj.FirstName,
		LastName:   obj.LastName,
		Username:   primaryUsername(obj.Username, obj.Usernames),
		Phone:      obj.Phone,
		LangCode:   obj.LangCode,
		IsBot:      obj.Bot(),
		IsSelf:     obj.Self(),
		IsPremium:  obj.Flags&UserPremium != 0,
	}
}

func buildChat(peer Peer, users map[int64]User, chats map[int64]Chat) *ChatInfo {
	switch p := peer.(type) {
	case *PeerUser:
		c := &ChatInfo{ID: p.UserID, Type: session.PeerUser}
		if u, ok := users[p.UserID].(*UserObj); ok {
			c.AccessHash = u.AccessHash
			c.FirstName = u.FirstName
			c.LastName = u.LastName
			c.Username = primaryUsername(u.Username, u.Usernames)
			if u.Bot() {
				c.Type = session.PeerBot
			}
		}
		return c
	case *PeerChat:
		c := &ChatInfo{ID: -p.ChatID, Type: session.PeerGroup}
		switch chat := chats[p.ChatID].(type) {
		case *ChatObj:
			c.Title = chat.Title
		case *ChatForbidden:
			c.Title = chat.Title
		}
		return c
	case *PeerChannel:
		c := &ChatInfo{ID: session.MarkChannelID(p.ChannelID), Type: session.PeerSupergroup}
		switch ch := chats[p.ChannelID].(type) {
		case *Channel:
			c.AccessHash = ch.AccessHash
			c.Title = ch.Title
			c.Username = primaryUsername(ch.Username, ch.Usernames)
			if ch.Broadcast() {
				c.Type = session.PeerChannel
			}
		case *ChannelForbidden:
			c.AccessHash = ch.AccessHash
			c.Title = ch.Title
			if ch.Broadcast {
				c.Type = session.PeerChannel
			}
		}
		return c
	}
	return nil
}

func primaryUsername(username string, usernames []*Username) string {
	if username != "" {
		return username
	}
	for _, u := range usernames {
		if u.Active {
			return u.Username
		}
	}
	if len(usernames) > 0 {
		return usernames[0].Username
	}
	return ""
}

func buildUserStatus(u *UpdateUserStatus) *UserStatusUpdate {
	s := &UserStatusUpdate{UserID: u.UserID}
	switch st := u.Status.(type) {
	case *UserStatusOnline:
		s.Status = "online"
		s.NextOffline = unix(st.Expires)
	case *UserStatusOffline:
		s.Status = "offline"
		s.LastOnline = unix(st.WasOnline)
	case *UserStatusRecently:
		s.Status = "recently"
	case *UserStatusLastWeek:
		s.Status = "last_week"
	case *UserStatusLastMonth:
		s.Status = "last_month"
	default:
		s.Status = "long_ago"
	}
	return s
}

func inlineChatType(t InlineQueryPeerType) string {
	obj, ok := t.(*InlineQueryPeerTypeObj)
	if !ok {
		return ""
	}
	switch obj.Kind {
	case InlineQueryPeerSameBotPM:
		return "sender"
	case InlineQueryPeerPM, InlineQueryPeerBotPM:
		return "private"
	case InlineQueryPeerChat:
		return "group"
	case InlineQueryPeerMegagroup:
		return "supergroup"
	case InlineQueryPeerBroadcast:
		return "channel"
	}
	return ""
}

func chatParticipantStatus(p ChatParticipant) string {
	switch p.(type) {
	case nil:
		return ""
	case *ChatParticipantCreator:
		return "owner"
	case *ChatParticipantAdmin:
		return "administrator"
	}
	return "member"
}

func channelParticipantStatus(p ChannelParticipant) string {
	switch p := p.(type) {
	case nil:
		return ""
	case *ChannelParticipantCreator:
		return "owner"
	case *ChannelParticipantAdmin:
		return "administrator"
	case *ChannelParticipantBanned:
		if p.Left {
			return "left"
		}
		return "restricted"
	case *ChannelParticipantLeft:
		return "left"
	}
	return "member"
}

func inviteLink(inv ExportedChatInvite) string {
	if e, ok := inv.(*ChatInviteExported); ok {
		return e.Link
	}
	return ""
}

// packInlineMessageID encodes an inline message id the way bots pass it
// around: little endian fields, base64url without padding.
func packInlineMessageID(id InputBotInlineMessageID) string {
	var buf []byte
	switch id := id.(type) {
	case *InputBotInlineMessageIDObj:
		buf = binary.LittleEndian.AppendUint32(buf, uint32(id.DcID))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(id.ID))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(id.AccessHash))
	case *InputBotInlineMessageID64:
		buf = binary.LittleEndian.AppendUint32(buf, uint32(id.DcID))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(id.OwnerID))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(id.ID))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(id.AccessHash))
	default:
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}

func unix(ts int32) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(int64(ts), 0)
}

// indexPeers keys users and chats by their bare id.
func indexPeers(users []User, chats []Chat) (map[int64]User, map[int64]Chat) {
	um := make(map[int64]User, len(users))
	for _, u := range users {
		switch u := u.(type) {
		case *UserObj:
			um[u.ID] = u
		case *UserEmpty:
			um[u.ID] = u
		}
	}
	cm := make(map[int64]Chat, len(chats))
	for _, c := range chats {
		if id := bareChatID(c); id != 0 {
			cm[id] = c
		}
	}
	return um, cm
}

func bareChatID(c Chat) int64 {
	switch c := c.(type) {
	case *ChatEmpty:
		return c.ID
	case *ChatObj:
		return c.ID
	case *ChatForbidden:
		return c.ID
	case *Channel:
		return c.ID
	case *ChannelForbidden:
		return c.ID
	}
	return 0
}
