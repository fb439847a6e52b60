// Copyright (c) 2024 RoseLoverX

package telegram

import (
	"github.com/amarnathcjd/mtproto/internal/encoding/tl"
)

type Update interface {
	tl.Object
	ImplementsUpdate()
}

type UpdateNewMessage struct {
	Message  Message
	Pts      int32
	PtsCount int32
}

func (*UpdateNewMessage) CRC() uint32       { return 0x1f2b0afd }
func (*UpdateNewMessage) ImplementsUpdate() {}

func (t *UpdateNewMessage) MarshalTL(e *tl.Encoder) error {
	e.PutObject(t.Message)
	e.PutInt(t.Pts)
	e.PutInt(t.PtsCount)
	return e.CheckErr()
}

func (t *UpdateNewMessage) UnmarshalTL(d *tl.Decoder) error {
	t.Message = tl.PopObjectAs[Message](d)
	t.Pts = d.PopInt()
	t.PtsCount = d.PopInt()
	return d.Err()
}

type UpdateNewChannelMessage struct {
	Message  Message
	Pts      int32
	PtsCount int32
}

func (*UpdateNewChannelMessage) CRC() uint32       { return 0x62ba04d9 }
func (*UpdateNewChannelMessage) ImplementsUpdate() {}

func (t *UpdateNewChannelMessage) MarshalTL(e *tl.Encoder) error {
	e.PutObject(t.Message)
	e.PutInt(t.Pts)
	e.PutInt(t.PtsCount)
	return e.CheckErr()
}

func (t *UpdateNewChannelMessage) UnmarshalTL(d *tl.Decoder) error {
	t.Message = tl.PopObjectAs[Message](d)
	t.Pts = d.PopInt()
	t.PtsCount = d.PopInt()
	return d.Err()
}

type UpdateEditMessage struct {
	Message  Message
	Pts      int32
	PtsCount int32
}

func (*UpdateEditMessage) CRC() uint32       { return 0xe40370a3 }
func (*UpdateEditMessage) ImplementsUpdate() {}

func (t *UpdateEditMessage) MarshalTL(e *tl.Encoder) error {
	e.PutObject(t.Message)
	e.PutInt(t.Pts)
	e.PutInt(t.PtsCount)
	return e.CheckErr()
}

func (t *UpdateEditMessage) UnmarshalTL(d *tl.Decoder) error {
	t.Message = tl.PopObjectAs[Message](d)
	t.Pts = d.PopInt()
	t.PtsCount = d.PopInt()
	return d.Err()
}

type UpdateEditChannelMessage struct {
	Message  Message
	Pts      int32
	PtsCount int32
}

func (*UpdateEditChannelMessage) CRC() uint32       { return 0x1b3f4df7 }
func (*UpdateEditChannelMessage) ImplementsUpdate() {}

func (t *UpdateEditChannelMessage) MarshalTL(e *tl.Encoder) error {
	e.PutObject(t.Message)
	e.PutInt(t.Pts)
	e.PutInt(t.PtsCount)
	return e.CheckErr()
}

func (t *UpdateEditChannelMessage) UnmarshalTL(d *tl.Decoder) error {
	t.Message = tl.PopObjectAs[Message](d)
	t.Pts = d.PopInt()
	t.PtsCount = d.PopInt()
	return d.Err()
}

type UpdateDeleteMessages struct {
	Messages []int32
	Pts      int32
	PtsCount int32
}

func (*UpdateDeleteMessages) CRC() uint32       { return 0xa20db0e5 }
func (*UpdateDeleteMessages) ImplementsUpdate() {}

func (t *UpdateDeleteMessages) MarshalTL(e *tl.Encoder) error {
	e.PutVectorInt(t.Messages)
	e.PutInt(t.Pts)
	e.PutInt(t.PtsCount)
	return e.CheckErr()
}

func (t *UpdateDeleteMessages) UnmarshalTL(d *tl.Decoder) error {
	t.Messages = d.PopVectorInt()
	t.Pts = d.PopInt()
	t.PtsCount = d.PopInt()
	return d.Err()
}

type UpdateDeleteChannelMessages struct {
	ChannelID int64
	Messages  []int32
	Pts       int32
	PtsCount  int32
}

func (*UpdateDeleteChannelMessages) CRC() uint32       { return 0xc32d5b12 }
func (*UpdateDeleteChannelMessages) ImplementsUpdate() {}

func (t *UpdateDeleteChannelMessages) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.ChannelID)
	e.PutVectorInt(t.Messages)
	e.PutInt(t.Pts)
	e.PutInt(t.PtsCount)
	return e.CheckErr()
}

func (t *UpdateDeleteChannelMessages) UnmarshalTL(d *tl.Decoder) error {
	t.ChannelID = d.PopLong()
	t.Messages = d.PopVectorInt()
	t.Pts = d.PopInt()
	t.PtsCount = d.PopInt()
	return d.Err()
}

type UpdateUserStatus struct {
	UserID int64
	Status UserStatus
}

func (*UpdateUserStatus) CRC() uint32       { return 0xe5bdf8de }
func (*UpdateUserStatus) ImplementsUpdate() {}

func (t *UpdateUserStatus) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.UserID)
	e.PutObject(t.Status)
	return e.CheckErr()
}

func (t *UpdateUserStatus) UnmarshalTL(d *tl.Decoder) error {
	t.UserID = d.PopLong()
	t.Status = tl.PopObjectAs[UserStatus](d)
	return d.Err()
}

type UpdateBotCallbackQuery struct {
	QueryID       int64
	UserID        int64
	Peer          Peer
	MsgID         int32
	ChatInstance  int64
	Data          []byte
	GameShortName string
}

func (*UpdateBotCallbackQuery) CRC() uint32       { return 0xb9cfc48d }
func (*UpdateBotCallbackQuery) ImplementsUpdate() {}

func (t *UpdateBotCallbackQuery) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.Data != nil)
	f.set(1, t.GameShortName != "")
	e.PutUint(uint32(f))
	e.PutLong(t.QueryID)
	e.PutLong(t.UserID)
	e.PutObject(t.Peer)
	e.PutInt(t.MsgID)
	e.PutLong(t.ChatInstance)
	if f.has(0) {
		e.PutMessage(t.Data)
	}
	if f.has(1) {
		e.PutString(t.GameShortName)
	}
	return e.CheckErr()
}

func (t *UpdateBotCallbackQuery) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.QueryID = d.PopLong()
	t.UserID = d.PopLong()
	t.Peer = tl.PopObjectAs[Peer](d)
	t.MsgID = d.PopInt()
	t.ChatInstance = d.PopLong()
	if f.has(0) {
		t.Data = d.PopMessage()
	}
	if f.has(1) {
		t.GameShortName = d.PopString()
	}
	return d.Err()
}

type UpdateInlineBotCallbackQuery struct {
	QueryID       int64
	UserID        int64
	MsgID         InputBotInlineMessageID
	ChatInstance  int64
	Data          []byte
	GameShortName string
}

func (*UpdateInlineBotCallbackQuery) CRC() uint32       { return 0x691e9052 }
func (*UpdateInlineBotCallbackQuery) ImplementsUpdate() {}

func (t *UpdateInlineBotCallbackQuery) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.Data != nil)
	f.set(1, t.GameShortName != "")
	e.PutUint(uint32(f))
	e.PutLong(t.QueryID)
	e.PutLong(t.UserID)
	e.PutObject(t.MsgID)
	e.PutLong(t.ChatInstance)
	if f.has(0) {
		e.PutMessage(t.Data)
	}
	if f.has(1) {
		e.PutString(t.GameShortName)
	}
	return e.CheckErr()
}

func (t *UpdateInlineBotCallbackQuery) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.QueryID = d.PopLong()
	t.UserID = d.PopLong()
	t.MsgID = tl.PopObjectAs[InputBotInlineMessageID](d)
	t.ChatInstance = d.PopLong()
	if f.has(0) {
		t.Data = d.PopMessage()
	}
	if f.has(1) {
		t.GameShortName = d.PopString()
	}
	return d.Err()
}

type UpdateBotInlineQuery struct {
	QueryID  int64
	UserID   int64
	Query    string
	Geo      GeoPoint
	PeerType InlineQueryPeerType
	Offset   string
}

func (*UpdateBotInlineQuery) CRC() uint32       { return 0x496f379c }
func (*UpdateBotInlineQuery) ImplementsUpdate() {}

func (t *UpdateBotInlineQuery) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.Geo != nil)
	f.set(1, t.PeerType != nil)
	e.PutUint(uint32(f))
	e.PutLong(t.QueryID)
	e.PutLong(t.UserID)
	e.PutString(t.Query)
	putOptObject(e, t.Geo)
	putOptObject(e, t.PeerType)
	e.PutString(t.Offset)
	return e.CheckErr()
}

func (t *UpdateBotInlineQuery) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.QueryID = d.PopLong()
	t.UserID = d.PopLong()
	t.Query = d.PopString()
	if f.has(0) {
		t.Geo = tl.PopObjectAs[GeoPoint](d)
	}
	if f.has(1) {
		t.PeerType = tl.PopObjectAs[InlineQueryPeerType](d)
	}
	t.Offset = d.PopString()
	return d.Err()
}

type UpdateBotInlineSend struct {
	UserID int64
	Query  string
	Geo    GeoPoint
	ID     string
	MsgID  InputBotInlineMessageID
}

func (*UpdateBotInlineSend) CRC() uint32       { return 0x12f12a07 }
func (*UpdateBotInlineSend) ImplementsUpdate() {}

func (t *UpdateBotInlineSend) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.Geo != nil)
	f.set(1, t.MsgID != nil)
	e.PutUint(uint32(f))
	e.PutLong(t.UserID)
	e.PutString(t.Query)
	putOptObject(e, t.Geo)
	e.PutString(t.ID)
	putOptObject(e, t.MsgID)
	return e.CheckErr()
}

func (t *UpdateBotInlineSend) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.UserID = d.PopLong()
	t.Query = d.PopString()
	if f.has(0) {
		t.Geo = tl.PopObjectAs[GeoPoint](d)
	}
	t.ID = d.PopString()
	if f.has(1) {
		t.MsgID = tl.PopObjectAs[InputBotInlineMessageID](d)
	}
	return d.Err()
}

type UpdateMessagePollVote struct {
	PollID  int64
	Peer    Peer
	Options [][]byte
	Qts     int32
}

func (*UpdateMessagePollVote) CRC() uint32       { return 0x24f40e77 }
func (*UpdateMessagePollVote) ImplementsUpdate() {}

func (t *UpdateMessagePollVote) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.PollID)
	e.PutObject(t.Peer)
	e.PutVectorBytes(t.Options)
	e.PutInt(t.Qts)
	return e.CheckErr()
}

func (t *UpdateMessagePollVote) UnmarshalTL(d *tl.Decoder) error {
	t.PollID = d.PopLong()
	t.Peer = tl.PopObjectAs[Peer](d)
	t.Options = d.PopVectorBytes()
	t.Qts = d.PopInt()
	return d.Err()
}

type UpdateChatParticipant struct {
	ChatID          int64
	Date            int32
	ActorID         int64
	UserID          int64
	PrevParticipant ChatParticipant
	NewParticipant  ChatParticipant
	Invite          ExportedChatInvite
	Qts             int32
}

func (*UpdateChatParticipant) CRC() uint32       { return 0xd087663a }
func (*UpdateChatParticipant) ImplementsUpdate() {}

func (t *UpdateChatParticipant) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.PrevParticipant != nil)
	f.set(1, t.NewParticipant != nil)
	f.set(2, t.Invite != nil)
	e.PutUint(uint32(f))
	e.PutLong(t.ChatID)
	e.PutInt(t.Date)
	e.PutLong(t.ActorID)
	e.PutLong(t.UserID)
	putOptObject(e, t.PrevParticipant)
	putOptObject(e, t.NewParticipant)
	putOptObject(e, t.Invite)
	e.PutInt(t.Qts)
	return e.CheckErr()
}

func (t *UpdateChatParticipant) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.ChatID = d.PopLong()
	t.Date = d.PopInt()
	t.ActorID = d.PopLong()
	t.UserID = d.PopLong()
	if f.has(0) {
		t.PrevParticipant = tl.PopObjectAs[ChatParticipant](d)
	}
	if f.has(1) {
		t.NewParticipant = tl.PopObjectAs[ChatParticipant](d)
	}
	if f.has(2) {
		t.Invite = tl.PopObjectAs[ExportedChatInvite](d)
	}
	t.Qts = d.PopInt()
	return d.Err()
}

type UpdateChannelParticipant struct {
	ViaChatlist     bool
	ChannelID       int64
	Date            int32
	ActorID         int64
	UserID          int64
	PrevParticipant ChannelParticipant
	NewParticipant  ChannelParticipant
	Invite          ExportedChatInvite
	Qts             int32
}

func (*UpdateChannelParticipant) CRC() uint32       { return 0x985d3abb }
func (*UpdateChannelParticipant) ImplementsUpdate() {}

func (t *UpdateChannelParticipant) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.PrevParticipant != nil)
	f.set(1, t.NewParticipant != nil)
	f.set(2, t.Invite != nil)
	f.set(3, t.ViaChatlist)
	e.PutUint(uint32(f))
	e.PutLong(t.ChannelID)
	e.PutInt(t.Date)
	e.PutLong(t.ActorID)
	e.PutLong(t.UserID)
	putOptObject(e, t.PrevParticipant)
	putOptObject(e, t.NewParticipant)
	putOptObject(e, t.Invite)
	e.PutInt(t.Qts)
	return e.CheckErr()
}

func (t *UpdateChannelParticipant) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.ViaChatlist = f.has(3)
	t.ChannelID = d.PopLong()
	t.Date = d.PopInt()
	t.ActorID = d.PopLong()
	t.UserID = d.PopLong()
	if f.has(0) {
		t.PrevParticipant = tl.PopObjectAs[ChannelParticipant](d)
	}
	if f.has(1) {
		t.NewParticipant = tl.PopObjectAs[ChannelParticipant](d)
	}
	if f.has(2) {
		t.Invite = tl.PopObjectAs[ExportedChatInvite](d)
	}
	t.Qts = d.PopInt()
	return d.Err()
}

type UpdateBotChatInviteRequester struct {
	Peer   Peer
	Date   int32
	UserID int64
	About  string
	Invite ExportedChatInvite
	Qts    int32
}

func (*UpdateBotChatInviteRequester) CRC() uint32       { return 0x11dfa986 }
func (*UpdateBotChatInviteRequester) ImplementsUpdate() {}

func (t *UpdateBotChatInviteRequester) MarshalTL(e *tl.Encoder) error {
	e.PutObject(t.Peer)
	e.PutInt(t.Date)
	e.PutLong(t.UserID)
	e.PutString(t.About)
	e.PutObject(t.Invite)
	e.PutInt(t.Qts)
	return e.CheckErr()
}

func (t *UpdateBotChatInviteRequester) UnmarshalTL(d *tl.Decoder) error {
	t.Peer = tl.PopObjectAs[Peer](d)
	t.Date = d.PopInt()
	t.UserID = d.PopLong()
	t.About = d.PopString()
	t.Invite = tl.PopObjectAs[ExportedChatInvite](d)
	t.Qts = d.PopInt()
	return d.Err()
}

type UpdateChannelTooLong struct {
	ChannelID int64
	Pts       int32
}

func (*UpdateChannelTooLong) CRC() uint32       { return 0x108d941f }
func (*UpdateChannelTooLong) ImplementsUpdate() {}

func (t *UpdateChannelTooLong) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.Pts != 0)
	e.PutUint(uint32(f))
	e.PutLong(t.ChannelID)
	if f.has(0) {
		e.PutInt(t.Pts)
	}
	return e.CheckErr()
}

func (t *UpdateChannelTooLong) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.ChannelID = d.PopLong()
	if f.has(0) {
		t.Pts = d.PopInt()
	}
	return d.Err()
}

// ---------------------------- Update fields ----------------------------

type InputBotInlineMessageID interface {
	tl.Object
	ImplementsInputBotInlineMessageID()
}

type InputBotInlineMessageIDObj struct {
	DcID       int32
	ID         int64
	AccessHash int64
}

func (*InputBotInlineMessageIDObj) CRC() uint32                        { return 0x890c3d89 }
func (*InputBotInlineMessageIDObj) ImplementsInputBotInlineMessageID() {}

func (t *InputBotInlineMessageIDObj) MarshalTL(e *tl.Encoder) error {
	e.PutInt(t.DcID)
	e.PutLong(t.ID)
	e.PutLong(t.AccessHash)
	return e.CheckErr()
}

func (t *InputBotInlineMessageIDObj) UnmarshalTL(d *tl.Decoder) error {
	t.DcID = d.PopInt()
	t.ID = d.PopLong()
	t.AccessHash = d.PopLong()
	return d.Err()
}

type InputBotInlineMessageID64 struct {
	DcID       int32
	OwnerID    int64
	ID         int32
	AccessHash int64
}

func (*InputBotInlineMessageID64) CRC() uint32                        { return 0xb6d915d7 }
func (*InputBotInlineMessageID64) ImplementsInputBotInlineMessageID() {}

func (t *InputBotInlineMessageID64) MarshalTL(e *tl.Encoder) error {
	e.PutInt(t.DcID)
	e.PutLong(t.OwnerID)
	e.PutInt(t.ID)
	e.PutLong(t.AccessHash)
	return e.CheckErr()
}

func (t *InputBotInlineMessageID64) UnmarshalTL(d *tl.Decoder) error {
	t.DcID = d.PopInt()
	t.OwnerID = d.PopLong()
	t.ID = d.PopInt()
	t.AccessHash = d.PopLong()
	return d.Err()
}

type GeoPoint interface {
	tl.Object
	ImplementsGeoPoint()
}

type GeoPointEmpty struct{}

func (*GeoPointEmpty) CRC() uint32         { return 0x1117dd5f }
func (*GeoPointEmpty) ImplementsGeoPoint() {}

type GeoPointObj struct {
	Long           float64
	Lat            float64
	AccessHash     int64
	AccuracyRadius int32
}

func (*GeoPointObj) CRC() uint32         { return 0xb2a2f663 }
func (*GeoPointObj) ImplementsGeoPoint() {}

func (t *GeoPointObj) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.AccuracyRadius != 0)
	e.PutUint(uint32(f))
	e.PutDouble(t.Long)
	e.PutDouble(t.Lat)
	e.PutLong(t.AccessHash)
	if f.has(0) {
		e.PutInt(t.AccuracyRadius)
	}
	return e.CheckErr()
}

func (t *GeoPointObj) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.Long = d.PopDouble()
	t.Lat = d.PopDouble()
	t.AccessHash = d.PopLong()
	if f.has(0) {
		t.AccuracyRadius = d.PopInt()
	}
	return d.Err()
}

// InlineQueryPeerType carries no fields, Kind is its constructor id.
type InlineQueryPeerType interface {
	tl.Object
	ImplementsInlineQueryPeerType()
}

const (
	InlineQueryPeerSameBotPM = 0x3081ed9d
	InlineQueryPeerPM        = 0x833c0fac
	InlineQueryPeerChat      = 0xd766c50a
	InlineQueryPeerMegagroup = 0x5ec4be43
	InlineQueryPeerBroadcast = 0x6334ee9a
	InlineQueryPeerBotPM     = 0x0e3b2d0c
)

var inlineQueryPeerKinds = []uint32{
	InlineQueryPeerSameBotPM, InlineQueryPeerPM, InlineQueryPeerChat,
	InlineQueryPeerMegagroup, InlineQueryPeerBroadcast, InlineQueryPeerBotPM,
}

type InlineQueryPeerTypeObj struct {
	Kind uint32
}

func (t *InlineQueryPeerTypeObj) CRC() uint32                  { return t.Kind }
func (*InlineQueryPeerTypeObj) ImplementsInlineQueryPeerType() {}

type ChatParticipant interface {
	tl.Object
	ImplementsChatParticipant()
}

type ChatParticipantObj struct {
	UserID    int64
	InviterID int64
	Date      int32
}

func (*ChatParticipantObj) CRC() uint32                { return 0xc02d4007 }
func (*ChatParticipantObj) ImplementsChatParticipant() {}

func (t *ChatParticipantObj) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.UserID)
	e.PutLong(t.InviterID)
	e.PutInt(t.Date)
	return e.CheckErr()
}

func (t *ChatParticipantObj) UnmarshalTL(d *tl.Decoder) error {
	t.UserID = d.PopLong()
	t.InviterID = d.PopLong()
	t.Date = d.PopInt()
	return d.Err()
}

type ChatParticipantCreator struct {
	UserID int64
}

func (*ChatParticipantCreator) CRC() uint32                { return 0xe46bcee4 }
func (*ChatParticipantCreator) ImplementsChatParticipant() {}

func (t *ChatParticipantCreator) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.UserID)
	return e.CheckErr()
}

func (t *ChatParticipantCreator) UnmarshalTL(d *tl.Decoder) error {
	t.UserID = d.PopLong()
	return d.Err()
}

type ChatParticipantAdmin struct {
	UserID    int64
	InviterID int64
	Date      int32
}

func (*ChatParticipantAdmin) CRC() uint32                { return 0xa0933f5b }
func (*ChatParticipantAdmin) ImplementsChatParticipant() {}

func (t *ChatParticipantAdmin) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.UserID)
	e.PutLong(t.InviterID)
	e.PutInt(t.Date)
	return e.CheckErr()
}

func (t *ChatParticipantAdmin) UnmarshalTL(d *tl.Decoder) error {
	t.UserID = d.PopLong()
	t.InviterID = d.PopLong()
	t.Date = d.PopInt()
	return d.Err()
}

type ChannelParticipant interface {
	tl.Object
	ImplementsChannelParticipant()
}

type ChannelParticipantObj struct {
	UserID int64
	Date   int32
}

func (*ChannelParticipantObj) CRC() uint32                   { return 0xc00c07c0 }
func (*ChannelParticipantObj) ImplementsChannelParticipant() {}

func (t *ChannelParticipantObj) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.UserID)
	e.PutInt(t.Date)
	return e.CheckErr()
}

func (t *ChannelParticipantObj) UnmarshalTL(d *tl.Decoder) error {
	t.UserID = d.PopLong()
	t.Date = d.PopInt()
	return d.Err()
}

type ChannelParticipantSelf struct {
	ViaRequest bool
	UserID     int64
	InviterID  int64
	Date       int32
}

func (*ChannelParticipantSelf) CRC() uint32                   { return 0x35a8bfa7 }
func (*ChannelParticipantSelf) ImplementsChannelParticipant() {}

func (t *ChannelParticipantSelf) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.ViaRequest)
	e.PutUint(uint32(f))
	e.PutLong(t.UserID)
	e.PutLong(t.InviterID)
	e.PutInt(t.Date)
	return e.CheckErr()
}

func (t *ChannelParticipantSelf) UnmarshalTL(d *tl.Decoder) error {
	t.ViaRequest = flags(d.PopUint()).has(0)
	t.UserID = d.PopLong()
	t.InviterID = d.PopLong()
	t.Date = d.PopInt()
	return d.Err()
}

type ChannelParticipantCreator struct {
	UserID      int64
	AdminRights *ChatAdminRights
	Rank        string
}

func (*ChannelParticipantCreator) CRC() uint32                   { return 0x2fe601d3 }
func (*ChannelParticipantCreator) ImplementsChannelParticipant() {}

func (t *ChannelParticipantCreator) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.Rank != "")
	e.PutUint(uint32(f))
	e.PutLong(t.UserID)
	e.PutObject(t.AdminRights)
	if f.has(0) {
		e.PutString(t.Rank)
	}
	return e.CheckErr()
}

func (t *ChannelParticipantCreator) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.UserID = d.PopLong()
	t.AdminRights = tl.PopObjectAs[*ChatAdminRights](d)
	if f.has(0) {
		t.Rank = d.PopString()
	}
	return d.Err()
}

// ChannelParticipantAdmin carries InviterID only for the admin that is
// the current user.
type ChannelParticipantAdmin struct {
	CanEdit     bool
	Self        bool
	UserID      int64
	InviterID   int64
	PromotedBy  int64
	Date        int32
	AdminRights *ChatAdminRights
	Rank        string
}

func (*ChannelParticipantAdmin) CRC() uint32                   { return 0x34c3bb53 }
func (*ChannelParticipantAdmin) ImplementsChannelParticipant() {}

func (t *ChannelParticipantAdmin) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.CanEdit)
	f.set(1, t.Self)
	f.set(2, t.Rank != "")
	e.PutUint(uint32(f))
	e.PutLong(t.UserID)
	if f.has(1) {
		e.PutLong(t.InviterID)
	}
	e.PutLong(t.PromotedBy)
	e.PutInt(t.Date)
	e.PutObject(t.AdminRights)
	if f.has(2) {
		e.PutString(t.Rank)
	}
	return e.CheckErr()
}

func (t *ChannelParticipantAdmin) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.CanEdit = f.has(0)
	t.Self = f.has(1)
	t.UserID = d.PopLong()
	if f.has(1) {
		t.InviterID = d.PopLong()
	}
	t.PromotedBy = d.PopLong()
	t.Date = d.PopInt()
	t.AdminRights = tl.PopObjectAs[*ChatAdminRights](d)
	if f.has(2) {
		t.Rank = d.PopString()
	}
	return d.Err()
}

type ChannelParticipantBanned struct {
	Left         bool
	Peer         Peer
	KickedBy     int64
	Date         int32
	BannedRights *ChatBannedRights
}

func (*ChannelParticipantBanned) CRC() uint32                   { return 0x6df8014e }
func (*ChannelParticipantBanned) ImplementsChannelParticipant() {}

func (t *ChannelParticipantBanned) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.Left)
	e.PutUint(uint32(f))
	e.PutObject(t.Peer)
	e.PutLong(t.KickedBy)
	e.PutInt(t.Date)
	e.PutObject(t.BannedRights)
	return e.CheckErr()
}

func (t *ChannelParticipantBanned) UnmarshalTL(d *tl.Decoder) error {
	t.Left = flags(d.PopUint()).has(0)
	t.Peer = tl.PopObjectAs[Peer](d)
	t.KickedBy = d.PopLong()
	t.Date = d.PopInt()
	t.BannedRights = tl.PopObjectAs[*ChatBannedRights](d)
	return d.Err()
}

type ChannelParticipantLeft struct {
	Peer Peer
}

func (*ChannelParticipantLeft) CRC() uint32                   { return 0x1b03f006 }
func (*ChannelParticipantLeft) ImplementsChannelParticipant() {}

func (t *ChannelParticipantLeft) MarshalTL(e *tl.Encoder) error {
	e.PutObject(t.Peer)
	return e.CheckErr()
}

func (t *ChannelParticipantLeft) UnmarshalTL(d *tl.Decoder) error {
	t.Peer = tl.PopObjectAs[Peer](d)
	return d.Err()
}

type ExportedChatInvite interface {
	tl.Object
	ImplementsExportedChatInvite()
}

type ChatInviteExported struct {
	Revoked       bool
	Permanent     bool
	RequestNeeded bool
	Link          string
	AdminID       int64
	Date          int32
	StartDate     int32
	ExpireDate    int32
	UsageLimit    int32
	Usage         int32
	Requested     int32
	Title         string
}

func (*ChatInviteExported) CRC() uint32                   { return 0x0ab4a819 }
func (*ChatInviteExported) ImplementsExportedChatInvite() {}

func (t *ChatInviteExported) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.Revoked)
	f.set(1, t.ExpireDate != 0)
	f.set(2, t.UsageLimit != 0)
	f.set(3, t.Usage != 0)
	f.set(4, t.StartDate != 0)
	f.set(5, t.Permanent)
	f.set(6, t.RequestNeeded)
	f.set(7, t.Requested != 0)
	f.set(8, t.Title != "")
	e.PutUint(uint32(f))
	e.PutString(t.Link)
	e.PutLong(t.AdminID)
	e.PutInt(t.Date)
	if f.has(4) {
		e.PutInt(t.StartDate)
	}
	if f.has(1) {
		e.PutInt(t.ExpireDate)
	}
	if f.has(2) {
		e.PutInt(t.UsageLimit)
	}
	if f.has(3) {
		e.PutInt(t.Usage)
	}
	if f.has(7) {
		e.PutInt(t.Requested)
	}
	if f.has(8) {
		e.PutString(t.Title)
	}
	return e.CheckErr()
}

func (t *ChatInviteExported) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.Revoked = f.has(0)
	t.Permanent = f.has(5)
	t.RequestNeeded = f.has(6)
	t.Link = d.PopString()
	t.AdminID = d.PopLong()
	t.Date = d.PopInt()
	if f.has(4) {
		t.StartDate = d.PopInt()
	}
	if f.has(1) {
		t.ExpireDate = d.PopInt()
	}
	if f.has(2) {
		t.UsageLimit = d.PopInt()
	}
	if f.has(3) {
		t.Usage = d.PopInt()
	}
	if f.has(7) {
		t.Requested = d.PopInt()
	}
	if f.has(8) {
		t.Title = d.PopString()
	}
	return d.Err()
}

type ChatInvitePublicJoinRequests struct{}

func (*ChatInvitePublicJoinRequests) CRC() uint32                   { return 0xed107ab7 }
func (*ChatInvitePublicJoinRequests) ImplementsExportedChatInvite() {}

// ---------------------------- Containers ----------------------------

// Updates is one of the containers the server pushes updates in.
type Updates interface {
	tl.Object
	ImplementsUpdates()
}

type UpdatesObj struct {
	Updates []Update
	Users   []User
	Chats   []Chat
	Date    int32
	Seq     int32
}

func (*UpdatesObj) CRC() uint32        { return 0x74ae4240 }
func (*UpdatesObj) ImplementsUpdates() {}

func (t *UpdatesObj) MarshalTL(e *tl.Encoder) error {
	tl.PutVector(e, t.Updates)
	tl.PutVector(e, t.Users)
	tl.PutVector(e, t.Chats)
	e.PutInt(t.Date)
	e.PutInt(t.Seq)
	return e.CheckErr()
}

func (t *UpdatesObj) UnmarshalTL(d *tl.Decoder) error {
	t.Updates = tl.PopVector[Update](d)
	t.Users = tl.PopVector[User](d)
	t.Chats = tl.PopVector[Chat](d)
	t.Date = d.PopInt()
	t.Seq = d.PopInt()
	return d.Err()
}

type UpdatesCombined struct {
	Updates  []Update
	Users    []User
	Chats    []Chat
	Date     int32
	SeqStart int32
	Seq      int32
}

func (*UpdatesCombined) CRC() uint32        { return 0x725b04c3 }
func (*UpdatesCombined) ImplementsUpdates() {}

func (t *UpdatesCombined) MarshalTL(e *tl.Encoder) error {
	tl.PutVector(e, t.Updates)
	tl.PutVector(e, t.Users)
	tl.PutVector(e, t.Chats)
	e.PutInt(t.Date)
	e.PutInt(t.SeqStart)
	e.PutInt(t.Seq)
	return e.CheckErr()
}

func (t *UpdatesCombined) UnmarshalTL(d *tl.Decoder) error {
	t.Updates = tl.PopVector[Update](d)
	t.Users = tl.PopVector[User](d)
	t.Chats = tl.PopVector[Chat](d)
	t.Date = d.PopInt()
	t.SeqStart = d.PopInt()
	t.Seq = d.PopInt()
	return d.Err()
}

type UpdateShort struct {
	Update Update
	Date   int32
}

func (*UpdateShort) CRC() uint32        { return 0x78d4dec1 }
func (*UpdateShort) ImplementsUpdates() {}

func (t *UpdateShort) MarshalTL(e *tl.Encoder) error {
	e.PutObject(t.Update)
	e.PutInt(t.Date)
	return e.CheckErr()
}

func (t *UpdateShort) UnmarshalTL(d *tl.Decoder) error {
	t.Update = tl.PopObjectAs[Update](d)
	t.Date = d.PopInt()
	return d.Err()
}

type UpdatesTooLong struct{}

func (*UpdatesTooLong) CRC() uint32        { return 0xe317af7e }
func (*UpdatesTooLong) ImplementsUpdates() {}

// UpdateShortMessage flag bits match MessageObj's.
type UpdateShortMessage struct {
	Flags     uint32
	ID        int32
	UserID    int64
	Message   string
	Pts       int32
	PtsCount  int32
	Date      int32
	FwdFrom   *MessageFwdHeader
	ViaBotID  int64
	ReplyTo   MessageReplyHeader
	Entities  []*MessageEntity
	TTLPeriod int32
}

func (*UpdateShortMessage) CRC() uint32        { return 0x313bc7f8 }
func (*UpdateShortMessage) ImplementsUpdates() {}

func (t *UpdateShortMessage) MarshalTL(e *tl.Encoder) error {
	f := flags(t.Flags).without(2, 3, 7, 11, 25)
	f.set(2, t.FwdFrom != nil)
	f.set(3, t.ReplyTo != nil)
	f.set(7, len(t.Entities) > 0)
	f.set(11, t.ViaBotID != 0)
	f.set(25, t.TTLPeriod != 0)
	e.PutUint(uint32(f))
	e.PutInt(t.ID)
	e.PutLong(t.UserID)
	e.PutString(t.Message)
	e.PutInt(t.Pts)
	e.PutInt(t.PtsCount)
	e.PutInt(t.Date)
	putShortTail(e, f, t.FwdFrom, t.ViaBotID, t.ReplyTo, t.Entities, t.TTLPeriod)
	return e.CheckErr()
}

func (t *UpdateShortMessage) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.Flags = uint32(f)
	t.ID = d.PopInt()
	t.UserID = d.PopLong()
	t.Message = d.PopString()
	t.Pts = d.PopInt()
	t.PtsCount = d.PopInt()
	t.Date = d.PopInt()
	t.FwdFrom, t.ViaBotID, t.ReplyTo, t.Entities, t.TTLPeriod = popShortTail(d, f)
	return d.Err()
}

type UpdateShortChatMessage struct {
	Flags     uint32
	ID        int32
	FromID    int64
	ChatID    int64
	Message   string
	Pts       int32
	PtsCount  int32
	Date      int32
	FwdFrom   *MessageFwdHeader
	ViaBotID  int64
	ReplyTo   MessageReplyHeader
	Entities  []*MessageEntity
	TTLPeriod int32
}

func (*UpdateShortChatMessage) CRC() uint32        { return 0x4d6deea5 }
func (*UpdateShortChatMessage) ImplementsUpdates() {}

func (t *UpdateShortChatMessage) MarshalTL(e *tl.Encoder) error {
	f := flags(t.Flags).without(2, 3, 7, 11, 25)
	f.set(2, t.FwdFrom != nil)
	f.set(3, t.ReplyTo != nil)
	f.set(7, len(t.Entities) > 0)
	f.set(11, t.ViaBotID != 0)
	f.set(25, t.TTLPeriod != 0)
	e.PutUint(uint32(f))
	e.PutInt(t.ID)
	e.PutLong(t.FromID)
	e.PutLong(t.ChatID)
	e.PutString(t.Message)
	e.PutInt(t.Pts)
	e.PutInt(t.PtsCount)
	e.PutInt(t.Date)
	putShortTail(e, f, t.FwdFrom, t.ViaBotID, t.ReplyTo, t.Entities, t.TTLPeriod)
	return e.CheckErr()
}

func (t *UpdateShortChatMessage) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.Flags = uint32(f)
	t.ID = d.PopInt()
	t.FromID = d.PopLong()
	t.ChatID = d.PopLong()
	t.Message = d.PopString()
	t.Pts = d.PopInt()
	t.PtsCount = d.PopInt()
	t.Date = d.PopInt()
	t.FwdFrom, t.ViaBotID, t.ReplyTo, t.Entities, t.TTLPeriod = popShortTail(d, f)
	return d.Err()
}

func putShortTail(e *tl.Encoder, f flags, fwd *MessageFwdHeader, viaBot int64, reply MessageReplyHeader, entities []*MessageEntity, ttl int32) {
	if f.has(2) {
		e.PutObject(fwd)
	}
	if f.has(11) {
		e.PutLong(viaBot)
	}
	putOptObject(e, reply)
	if f.has(7) {
		tl.PutVector(e, entities)
	}
	if f.has(25) {
		e.PutInt(ttl)
	}
}

func popShortTail(d *tl.Decoder, f flags) (fwd *MessageFwdHeader, viaBot int64, reply MessageReplyHeader, entities []*MessageEntity, ttl int32) {
	if f.has(2) {
		fwd = tl.PopObjectAs[*MessageFwdHeader](d)
	}
	if f.has(11) {
		viaBot = d.PopLong()
	}
	if f.has(3) {
		reply = tl.PopObjectAs[MessageReplyHeader](d)
	}
	if f.has(7) {
		entities = tl.PopVector[*MessageEntity](d)
	}
	if f.has(25) {
		ttl = d.PopInt()
	}
	return
}

type UpdateShortSentMessage struct {
	Out       bool
	ID        int32
	Pts       int32
	PtsCount  int32
	Date      int32
	Media     MessageMedia
	Entities  []*MessageEntity
	TTLPeriod int32
}

func (*UpdateShortSentMessage) CRC() uint32        { return 0x9015e101 }
func (*UpdateShortSentMessage) ImplementsUpdates() {}

func (t *UpdateShortSentMessage) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(1, t.Out)
	f.set(7, len(t.Entities) > 0)
	f.set(9, t.Media != nil)
	f.set(25, t.TTLPeriod != 0)
	e.PutUint(uint32(f))
	e.PutInt(t.ID)
	e.PutInt(t.Pts)
	e.PutInt(t.PtsCount)
	e.PutInt(t.Date)
	putOptObject(e, t.Media)
	if f.has(7) {
		tl.PutVector(e, t.Entities)
	}
	if f.has(25) {
		e.PutInt(t.TTLPeriod)
	}
	return e.CheckErr()
}

func (t *UpdateShortSentMessage) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.Out = f.has(1)
	t.ID = d.PopInt()
	t.Pts = d.PopInt()
	t.PtsCount = d.PopInt()
	t.Date = d.PopInt()
	if f.has(9) {
		t.Media = tl.PopObjectAs[MessageMedia](d)
	}
	if f.has(7) {
		t.Entities = tl.PopVector[*MessageEntity](d)
	}
	if f.has(25) {
		t.TTLPeriod = d.PopInt()
	}
	return d.Err()
}

// ---------------------------- Differences ----------------------------

type UpdatesState struct {
	Pts         int32
	Qts         int32
	Date        int32
	Seq         int32
	UnreadCount int32
}

func (*UpdatesState) CRC() uint32 { return 0xa56c2a3e }

func (t *UpdatesState) MarshalTL(e *tl.Encoder) error {
	e.PutInt(t.Pts)
	e.PutInt(t.Qts)
	e.PutInt(t.Date)
	e.PutInt(t.Seq)
	e.PutInt(t.UnreadCount)
	return e.CheckErr()
}

func (t *UpdatesState) UnmarshalTL(d *tl.Decoder) error {
	t.Pts = d.PopInt()
	t.Qts = d.PopInt()
	t.Date = d.PopInt()
	t.Seq = d.PopInt()
	t.UnreadCount = d.PopInt()
	return d.Err()
}

type UpdatesDifference interface {
	tl.Object
	ImplementsUpdatesDifference()
}

type UpdatesDifferenceEmpty struct {
	Date int32
	Seq  int32
}

func (*UpdatesDifferenceEmpty) CRC() uint32                  { return 0x5d75a138 }
func (*UpdatesDifferenceEmpty) ImplementsUpdatesDifference() {}

func (t *UpdatesDifferenceEmpty) MarshalTL(e *tl.Encoder) error {
	e.PutInt(t.Date)
	e.PutInt(t.Seq)
	return e.CheckErr()
}

func (t *UpdatesDifferenceEmpty) UnmarshalTL(d *tl.Decoder) error {
	t.Date = d.PopInt()
	t.Seq = d.PopInt()
	return d.Err()
}

// UpdatesDifferenceObj also stands for updates.differenceSlice; Slice
// tells which one it was and State is the intermediate state then.
type UpdatesDifferenceObj struct {
	Slice                bool
	NewMessages          []Message
	NewEncryptedMessages []tl.Object
	OtherUpdates         []Update
	Chats                []Chat
	Users                []User
	State                *UpdatesState
}

func (t *UpdatesDifferenceObj) CRC() uint32 {
	if t.Slice {
		return 0xa8fb1981
	}
	return 0x00f49ca0
}

func (*UpdatesDifferenceObj) ImplementsUpdatesDifference() {}

func (t *UpdatesDifferenceObj) MarshalTL(e *tl.Encoder) error {
	tl.PutVector(e, t.NewMessages)
	tl.PutVector(e, t.NewEncryptedMessages)
	tl.PutVector(e, t.OtherUpdates)
	tl.PutVector(e, t.Chats)
	tl.PutVector(e, t.Users)
	e.PutObject(t.State)
	return e.CheckErr()
}

func (t *UpdatesDifferenceObj) UnmarshalTL(d *tl.Decoder) error {
	t.NewMessages = tl.PopVector[Message](d)
	t.NewEncryptedMessages = tl.PopVector[tl.Object](d)
	t.OtherUpdates = tl.PopVector[Update](d)
	t.Chats = tl.PopVector[Chat](d)
	t.Users = tl.PopVector[User](d)
	t.State = tl.PopObjectAs[*UpdatesState](d)
	return d.Err()
}

type UpdatesDifferenceTooLong struct {
	Pts int32
}

func (*UpdatesDifferenceTooLong) CRC() uint32                  { return 0x4afe8f6d }
func (*UpdatesDifferenceTooLong) ImplementsUpdatesDifference() {}

func (t *UpdatesDifferenceTooLong) MarshalTL(e *tl.Encoder) error {
	e.PutInt(t.Pts)
	return e.CheckErr()
}

func (t *UpdatesDifferenceTooLong) UnmarshalTL(d *tl.Decoder) error {
	t.Pts = d.PopInt()
	return d.Err()
}

type ChannelMessagesFilter interface {
	tl.Object
	ImplementsChannelMessagesFilter()
}

type ChannelMessagesFilterEmpty struct{}

func (*ChannelMessagesFilterEmpty) CRC() uint32                      { return 0x94d42ee7 }
func (*ChannelMessagesFilterEmpty) ImplementsChannelMessagesFilter() {}

type ChannelMessagesFilterObj struct {
	ExcludeNewMessages bool
	Ranges             []*MessageRange
}

func (*ChannelMessagesFilterObj) CRC() uint32                      { return 0xcd77d957 }
func (*ChannelMessagesFilterObj) ImplementsChannelMessagesFilter() {}

func (t *ChannelMessagesFilterObj) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(1, t.ExcludeNewMessages)
	e.PutUint(uint32(f))
	tl.PutVector(e, t.Ranges)
	return e.CheckErr()
}

func (t *ChannelMessagesFilterObj) UnmarshalTL(d *tl.Decoder) error {
	t.ExcludeNewMessages = flags(d.PopUint()).has(1)
	t.Ranges = tl.PopVector[*MessageRange](d)
	return d.Err()
}

type MessageRange struct {
	MinID int32
	MaxID int32
}

func (*MessageRange) CRC() uint32 { return 0x0ae30253 }

func (t *MessageRange) MarshalTL(e *tl.Encoder) error {
	e.PutInt(t.MinID)
	e.PutInt(t.MaxID)
	return e.CheckErr()
}

func (t *MessageRange) UnmarshalTL(d *tl.Decoder) error {
	t.MinID = d.PopInt()
	t.MaxID = d.PopInt()
	return d.Err()
}

type UpdatesChannelDifference interface {
	tl.Object
	ImplementsUpdatesChannelDifference()
}

type UpdatesChannelDifferenceEmpty struct {
	Final   bool
	Pts     int32
	Timeout int32
}

func (*UpdatesChannelDifferenceEmpty) CRC() uint32                         { return 0x3e11affb }
func (*UpdatesChannelDifferenceEmpty) ImplementsUpdatesChannelDifference() {}

func (t *UpdatesChannelDifferenceEmpty) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.Final)
	f.set(1, t.Timeout != 0)
	e.PutUint(uint32(f))
	e.PutInt(t.Pts)
	if f.has(1) {
		e.PutInt(t.Timeout)
	}
	return e.CheckErr()
}

func (t *UpdatesChannelDifferenceEmpty) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.Final = f.has(0)
	t.Pts = d.PopInt()
	if f.has(1) {
		t.Timeout = d.PopInt()
	}
	return d.Err()
}

type UpdatesChannelDifferenceObj struct {
	Final        bool
	Pts          int32
	Timeout      int32
	NewMessages  []Message
	OtherUpdates []Update
	Chats        []Chat
	Users        []User
}

func (*UpdatesChannelDifferenceObj) CRC() uint32                         { return 0x2064674e }
func (*UpdatesChannelDifferenceObj) ImplementsUpdatesChannelDifference() {}

func (t *UpdatesChannelDifferenceObj) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.Final)
	f.set(1, t.Timeout != 0)
	e.PutUint(uint32(f))
	e.PutInt(t.Pts)
	if f.has(1) {
		e.PutInt(t.Timeout)
	}
	tl.PutVector(e, t.NewMessages)
	tl.PutVector(e, t.OtherUpdates)
	tl.PutVector(e, t.Chats)
	tl.PutVector(e, t.Users)
	return e.CheckErr()
}

func (t *UpdatesChannelDifferenceObj) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.Final = f.has(0)
	t.Pts = d.PopInt()
	if f.has(1) {
		t.Timeout = d.PopInt()
	}
	t.NewMessages = tl.PopVector[Message](d)
	t.OtherUpdates = tl.PopVector[Update](d)
	t.Chats = tl.PopVector[Chat](d)
	t.Users = tl.PopVector[User](d)
	return d.Err()
}
