// Copyright (c) 2024 RoseLoverX

package telegram

import (
	"github.com/amarnathcjd/mtproto/internal/encoding/tl"
)

type Message interface {
	tl.Object
	ImplementsMessage()
}

type MessageEmpty struct {
	ID     int32
	PeerID Peer
}

func (*MessageEmpty) CRC() uint32        { return 0x90a6ca84 }
func (*MessageEmpty) ImplementsMessage() {}

func (t *MessageEmpty) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.PeerID != nil)
	e.PutUint(uint32(f))
	e.PutInt(t.ID)
	putOptObject(e, t.PeerID)
	return e.CheckErr()
}

func (t *MessageEmpty) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.ID = d.PopInt()
	if f.has(0) {
		t.PeerID = tl.PopObjectAs[Peer](d)
	}
	return d.Err()
}

// MessageObj flag bits without a field of their own.
const (
	MessageOut         = 1 << 1
	MessageMentioned   = 1 << 4
	MessageMediaUnread = 1 << 5
	MessageSilent      = 1 << 13
	MessagePost        = 1 << 14
	MessageScheduled   = 1 << 18
	MessageLegacy      = 1 << 19
	MessageEditHide    = 1 << 21
	MessagePinned      = 1 << 24
	MessageNoForwards  = 1 << 26
	MessageInvertMedia = 1 << 27
)

// MessageObj is message#38116ee0. Views and Forwards share one flag and
// are sent together.
type MessageObj struct {
	Flags             uint32
	ID                int32
	FromID            Peer
	PeerID            Peer
	FwdFrom           *MessageFwdHeader
	ViaBotID          int64
	ReplyTo           MessageReplyHeader
	Date              int32
	Message           string
	Media             MessageMedia
	ReplyMarkup       ReplyMarkup
	Entities          []*MessageEntity
	Views             int32
	Forwards          int32
	Replies           *MessageReplies
	EditDate          int32
	PostAuthor        string
	GroupedID         int64
	Reactions         *MessageReactions
	RestrictionReason []*RestrictionReason
	TTLPeriod         int32
}

func (*MessageObj) CRC() uint32        { return 0x38116ee0 }
func (*MessageObj) ImplementsMessage() {}

func (t *MessageObj) Out() bool { return t.Flags&MessageOut != 0 }

func (t *MessageObj) MarshalTL(e *tl.Encoder) error {
	f := flags(t.Flags).without(2, 3, 6, 7, 8, 9, 10, 11, 15, 16, 17, 20, 22, 23, 25)
	f.set(2, t.FwdFrom != nil)
	f.set(3, t.ReplyTo != nil)
	f.set(6, t.ReplyMarkup != nil)
	f.set(7, len(t.Entities) > 0)
	f.set(8, t.FromID != nil)
	f.set(9, t.Media != nil)
	f.set(10, t.Views != 0 || t.Forwards != 0)
	f.set(11, t.ViaBotID != 0)
	f.set(15, t.EditDate != 0)
	f.set(16, t.PostAuthor != "")
	f.set(17, t.GroupedID != 0)
	f.set(20, t.Reactions != nil)
	f.set(22, len(t.RestrictionReason) > 0)
	f.set(23, t.Replies != nil)
	f.set(25, t.TTLPeriod != 0)

	e.PutUint(uint32(f))
	e.PutInt(t.ID)
	putOptObject(e, t.FromID)
	e.PutObject(t.PeerID)
	if f.has(2) {
		e.PutObject(t.FwdFrom)
	}
	if f.has(11) {
		e.PutLong(t.ViaBotID)
	}
	putOptObject(e, t.ReplyTo)
	e.PutInt(t.Date)
	e.PutString(t.Message)
	putOptObject(e, t.Media)
	putOptObject(e, t.ReplyMarkup)
	if f.has(7) {
		tl.PutVector(e, t.Entities)
	}
	if f.has(10) {
		e.PutInt(t.Views)
		e.PutInt(t.Forwards)
	}
	if f.has(23) {
		e.PutObject(t.Replies)
	}
	if f.has(15) {
		e.PutInt(t.EditDate)
	}
	if f.has(16) {
		e.PutString(t.PostAuthor)
	}
	if f.has(17) {
		e.PutLong(t.GroupedID)
	}
	if f.has(20) {
		e.PutObject(t.Reactions)
	}
	if f.has(22) {
		tl.PutVector(e, t.RestrictionReason)
	}
	if f.has(25) {
		e.PutInt(t.TTLPeriod)
	}
	return e.CheckErr()
}

func (t *MessageObj) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.Flags = uint32(f)
	t.ID = d.PopInt()
	if f.has(8) {
		t.FromID = tl.PopObjectAs[Peer](d)
	}
	t.PeerID = tl.PopObjectAs[Peer](d)
	if f.has(2) {
		t.FwdFrom = tl.PopObjectAs[*MessageFwdHeader](d)
	}
	if f.has(11) {
		t.ViaBotID = d.PopLong()
	}
	if f.has(3) {
		t.ReplyTo = tl.PopObjectAs[MessageReplyHeader](d)
	}
	t.Date = d.PopInt()
	t.Message = d.PopString()
	if f.has(9) {
		t.Media = tl.PopObjectAs[MessageMedia](d)
	}
	if f.has(6) {
		t.ReplyMarkup = tl.PopObjectAs[ReplyMarkup](d)
	}
	if f.has(7) {
		t.Entities = tl.PopVector[*MessageEntity](d)
	}
	if f.has(10) {
		t.Views = d.PopInt()
		t.Forwards = d.PopInt()
	}
	if f.has(23) {
		t.Replies = tl.PopObjectAs[*MessageReplies](d)
	}
	if f.has(15) {
		t.EditDate = d.PopInt()
	}
	if f.has(16) {
		t.PostAuthor = d.PopString()
	}
	if f.has(17) {
		t.GroupedID = d.PopLong()
	}
	if f.has(20) {
		t.Reactions = tl.PopObjectAs[*MessageReactions](d)
	}
	if f.has(22) {
		t.RestrictionReason = tl.PopVector[*RestrictionReason](d)
	}
	if f.has(25) {
		t.TTLPeriod = d.PopInt()
	}
	return d.Err()
}

type MessageService struct {
	Flags     uint32
	ID        int32
	FromID    Peer
	PeerID    Peer
	ReplyTo   MessageReplyHeader
	Date      int32
	Action    MessageAction
	TTLPeriod int32
}

func (*MessageService) CRC() uint32        { return 0x2b085862 }
func (*MessageService) ImplementsMessage() {}

func (t *MessageService) Out() bool { return t.Flags&MessageOut != 0 }

func (t *MessageService) MarshalTL(e *tl.Encoder) error {
	f := flags(t.Flags).without(3, 8, 25)
	f.set(3, t.ReplyTo != nil)
	f.set(8, t.FromID != nil)
	f.set(25, t.TTLPeriod != 0)
	e.PutUint(uint32(f))
	e.PutInt(t.ID)
	putOptObject(e, t.FromID)
	e.PutObject(t.PeerID)
	putOptObject(e, t.ReplyTo)
	e.PutInt(t.Date)
	e.PutObject(t.Action)
	if f.has(25) {
		e.PutInt(t.TTLPeriod)
	}
	return e.CheckErr()
}

func (t *MessageService) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.Flags = uint32(f)
	t.ID = d.PopInt()
	if f.has(8) {
		t.FromID = tl.PopObjectAs[Peer](d)
	}
	t.PeerID = tl.PopObjectAs[Peer](d)
	if f.has(3) {
		t.ReplyTo = tl.PopObjectAs[MessageReplyHeader](d)
	}
	t.Date = d.PopInt()
	t.Action = tl.PopObjectAs[MessageAction](d)
	if f.has(25) {
		t.TTLPeriod = d.PopInt()
	}
	return d.Err()
}

type MessageFwdHeader struct {
	Imported       bool
	SavedOut       bool
	FromID         Peer
	FromName       string
	Date           int32
	ChannelPost    int32
	PostAuthor     string
	SavedFromPeer  Peer
	SavedFromMsgID int32
	SavedFromID    Peer
	SavedFromName  string
	SavedDate      int32
	PsaType        string
}

func (*MessageFwdHeader) CRC() uint32 { return 0x5f777dce }

func (t *MessageFwdHeader) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.FromID != nil)
	f.set(2, t.ChannelPost != 0)
	f.set(3, t.PostAuthor != "")
	f.set(4, t.SavedFromPeer != nil)
	f.set(5, t.FromName != "")
	f.set(6, t.PsaType != "")
	f.set(7, t.Imported)
	f.set(8, t.SavedFromID != nil)
	f.set(9, t.SavedFromName != "")
	f.set(10, t.SavedDate != 0)
	f.set(11, t.SavedOut)
	e.PutUint(uint32(f))
	putOptObject(e, t.FromID)
	if f.has(5) {
		e.PutString(t.FromName)
	}
	e.PutInt(t.Date)
	if f.has(2) {
		e.PutInt(t.ChannelPost)
	}
	if f.has(3) {
		e.PutString(t.PostAuthor)
	}
	if f.has(4) {
		e.PutObject(t.SavedFromPeer)
		e.PutInt(t.SavedFromMsgID)
	}
	putOptObject(e, t.SavedFromID)
	if f.has(9) {
		e.PutString(t.SavedFromName)
	}
	if f.has(10) {
		e.PutInt(t.SavedDate)
	}
	if f.has(6) {
		e.PutString(t.PsaType)
	}
	return e.CheckErr()
}

func (t *MessageFwdHeader) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.Imported = f.has(7)
	t.SavedOut = f.has(11)
	if f.has(0) {
		t.FromID = tl.PopObjectAs[Peer](d)
	}
	if f.has(5) {
		t.FromName = d.PopString()
	}
	t.Date = d.PopInt()
	if f.has(2) {
		t.ChannelPost = d.PopInt()
	}
	if f.has(3) {
		t.PostAuthor = d.PopString()
	}
	if f.has(4) {
		t.SavedFromPeer = tl.PopObjectAs[Peer](d)
		t.SavedFromMsgID = d.PopInt()
	}
	if f.has(8) {
		t.SavedFromID = tl.PopObjectAs[Peer](d)
	}
	if f.has(9) {
		t.SavedFromName = d.PopString()
	}
	if f.has(10) {
		t.SavedDate = d.PopInt()
	}
	if f.has(6) {
		t.PsaType = d.PopString()
	}
	return d.Err()
}

type MessageReplyHeader interface {
	tl.Object
	ImplementsMessageReplyHeader()
}

type MessageReplyHeaderObj struct {
	ReplyToScheduled bool
	ForumTopic       bool
	Quote            bool
	ReplyToMsgID     int32
	ReplyToPeerID    Peer
	ReplyFrom        *MessageFwdHeader
	ReplyMedia       MessageMedia
	ReplyToTopID     int32
	QuoteText        string
	QuoteEntities    []*MessageEntity
	QuoteOffset      int32
}

func (*MessageReplyHeaderObj) CRC() uint32                   { return 0xafbc09db }
func (*MessageReplyHeaderObj) ImplementsMessageReplyHeader() {}

func (t *MessageReplyHeaderObj) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.ReplyToPeerID != nil)
	f.set(1, t.ReplyToTopID != 0)
	f.set(2, t.ReplyToScheduled)
	f.set(3, t.ForumTopic)
	f.set(4, t.ReplyToMsgID != 0)
	f.set(5, t.ReplyFrom != nil)
	f.set(6, t.QuoteText != "")
	f.set(7, len(t.QuoteEntities) > 0)
	f.set(8, t.ReplyMedia != nil)
	f.set(9, t.Quote)
	f.set(10, t.QuoteOffset != 0)
	e.PutUint(uint32(f))
	if f.has(4) {
		e.PutInt(t.ReplyToMsgID)
	}
	putOptObject(e, t.ReplyToPeerID)
	if f.has(5) {
		e.PutObject(t.ReplyFrom)
	}
	putOptObject(e, t.ReplyMedia)
	if f.has(1) {
		e.PutInt(t.ReplyToTopID)
	}
	if f.has(6) {
		e.PutString(t.QuoteText)
	}
	if f.has(7) {
		tl.PutVector(e, t.QuoteEntities)
	}
	if f.has(10) {
		e.PutInt(t.QuoteOffset)
	}
	return e.CheckErr()
}

func (t *MessageReplyHeaderObj) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.ReplyToScheduled = f.has(2)
	t.ForumTopic = f.has(3)
	t.Quote = f.has(9)
	if f.has(4) {
		t.ReplyToMsgID = d.PopInt()
	}
	if f.has(0) {
		t.ReplyToPeerID = tl.PopObjectAs[Peer](d)
	}
	if f.has(5) {
		t.ReplyFrom = tl.PopObjectAs[*MessageFwdHeader](d)
	}
	if f.has(8) {
		t.ReplyMedia = tl.PopObjectAs[MessageMedia](d)
	}
	if f.has(1) {
		t.ReplyToTopID = d.PopInt()
	}
	if f.has(6) {
		t.QuoteText = d.PopString()
	}
	if f.has(7) {
		t.QuoteEntities = tl.PopVector[*MessageEntity](d)
	}
	if f.has(10) {
		t.QuoteOffset = d.PopInt()
	}
	return d.Err()
}

type MessageReplyStoryHeader struct {
	UserID  int64
	StoryID int32
}

func (*MessageReplyStoryHeader) CRC() uint32                   { return 0x9c98bfc1 }
func (*MessageReplyStoryHeader) ImplementsMessageReplyHeader() {}

func (t *MessageReplyStoryHeader) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.UserID)
	e.PutInt(t.StoryID)
	return e.CheckErr()
}

func (t *MessageReplyStoryHeader) UnmarshalTL(d *tl.Decoder) error {
	t.UserID = d.PopLong()
	t.StoryID = d.PopInt()
	return d.Err()
}

// ---------------------------- Actions ----------------------------

type MessageAction interface {
	tl.Object
	ImplementsMessageAction()
}

type MessageActionEmpty struct{}

func (*MessageActionEmpty) CRC() uint32              { return 0xb6aef7b0 }
func (*MessageActionEmpty) ImplementsMessageAction() {}

type MessageActionChatCreate struct {
	Title string
	Users []int64
}

func (*MessageActionChatCreate) CRC() uint32              { return 0xbd47cbad }
func (*MessageActionChatCreate) ImplementsMessageAction() {}

func (t *MessageActionChatCreate) MarshalTL(e *tl.Encoder) error {
	e.PutString(t.Title)
	e.PutVectorLong(t.Users)
	return e.CheckErr()
}

func (t *MessageActionChatCreate) UnmarshalTL(d *tl.Decoder) error {
	t.Title = d.PopString()
	t.Users = d.PopVectorLong()
	return d.Err()
}

type MessageActionChatEditTitle struct {
	Title string
}

func (*MessageActionChatEditTitle) CRC() uint32              { return 0xb5a1ce5a }
func (*MessageActionChatEditTitle) ImplementsMessageAction() {}

func (t *MessageActionChatEditTitle) MarshalTL(e *tl.Encoder) error {
	e.PutString(t.Title)
	return e.CheckErr()
}

func (t *MessageActionChatEditTitle) UnmarshalTL(d *tl.Decoder) error {
	t.Title = d.PopString()
	return d.Err()
}

type MessageActionChatAddUser struct {
	Users []int64
}

func (*MessageActionChatAddUser) CRC() uint32              { return 0x15cefd00 }
func (*MessageActionChatAddUser) ImplementsMessageAction() {}

func (t *MessageActionChatAddUser) MarshalTL(e *tl.Encoder) error {
	e.PutVectorLong(t.Users)
	return e.CheckErr()
}

func (t *MessageActionChatAddUser) UnmarshalTL(d *tl.Decoder) error {
	t.Users = d.PopVectorLong()
	return d.Err()
}

type MessageActionChatDeleteUser struct {
	UserID int64
}

func (*MessageActionChatDeleteUser) CRC() uint32              { return 0xa43f30cc }
func (*MessageActionChatDeleteUser) ImplementsMessageAction() {}

func (t *MessageActionChatDeleteUser) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.UserID)
	return e.CheckErr()
}

func (t *MessageActionChatDeleteUser) UnmarshalTL(d *tl.Decoder) error {
	t.UserID = d.PopLong()
	return d.Err()
}

type MessageActionChatJoinedByLink struct {
	InviterID int64
}

func (*MessageActionChatJoinedByLink) CRC() uint32              { return 0x031224c3 }
func (*MessageActionChatJoinedByLink) ImplementsMessageAction() {}

func (t *MessageActionChatJoinedByLink) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.InviterID)
	return e.CheckErr()
}

func (t *MessageActionChatJoinedByLink) UnmarshalTL(d *tl.Decoder) error {
	t.InviterID = d.PopLong()
	return d.Err()
}

type MessageActionPinMessage struct{}

func (*MessageActionPinMessage) CRC() uint32              { return 0x94bd38ed }
func (*MessageActionPinMessage) ImplementsMessageAction() {}

type MessageActionChatJoinedByRequest struct{}

func (*MessageActionChatJoinedByRequest) CRC() uint32              { return 0xebbca3cb }
func (*MessageActionChatJoinedByRequest) ImplementsMessageAction() {}

// ---------------------------- Entities ----------------------------

// Entity kinds, the constructor ids of the messageEntity* family.
const (
	EntityUnknown     uint32 = 0xbb92ba95
	EntityMention     uint32 = 0xfa04579d
	EntityHashtag     uint32 = 0x6f635b0d
	EntityBotCommand  uint32 = 0x6cef8ac7
	EntityURL         uint32 = 0x6ed02538
	EntityEmail       uint32 = 0x64e475c2
	EntityBold        uint32 = 0xbd610bc9
	EntityItalic      uint32 = 0x826f8b60
	EntityCode        uint32 = 0x28a20571
	EntityPre         uint32 = 0x73924be0
	EntityTextURL     uint32 = 0x76a6d327
	EntityMentionName uint32 = 0xdc7b1140
	EntityPhone       uint32 = 0x9b69e34b
	EntityCashtag     uint32 = 0x4c4e743f
	EntityUnderline   uint32 = 0x9c4e7e8b
	EntityStrike      uint32 = 0xbf0693d4
	EntityBankCard    uint32 = 0x761e6af4
	EntitySpoiler     uint32 = 0x32ca960f
	EntityCustomEmoji uint32 = 0xc8cf05f8
	EntityBlockquote  uint32 = 0x020df5d0
)

var entityKinds = []uint32{
	EntityUnknown, EntityMention, EntityHashtag, EntityBotCommand, EntityURL,
	EntityEmail, EntityBold, EntityItalic, EntityCode, EntityPre, EntityTextURL,
	EntityMentionName, EntityPhone, EntityCashtag, EntityUnderline, EntityStrike,
	EntityBankCard, EntitySpoiler, EntityCustomEmoji, EntityBlockquote,
}

// MessageEntity covers every messageEntity* constructor. They all share
// offset and length; Language, URL, UserID and DocumentID belong to pre,
// textUrl, mentionName and customEmoji.
type MessageEntity struct {
	Kind       uint32
	Offset     int32
	Length     int32
	Language   string
	URL        string
	UserID     int64
	DocumentID int64
}

func (t *MessageEntity) CRC() uint32 { return t.Kind }

func (t *MessageEntity) MarshalTL(e *tl.Encoder) error {
	e.PutInt(t.Offset)
	e.PutInt(t.Length)
	switch t.Kind {
	case EntityPre:
		e.PutString(t.Language)
	case EntityTextURL:
		e.PutString(t.URL)
	case EntityMentionName:
		e.PutLong(t.UserID)
	case EntityCustomEmoji:
		e.PutLong(t.DocumentID)
	}
	return e.CheckErr()
}

func (t *MessageEntity) UnmarshalTL(d *tl.Decoder) error {
	t.Offset = d.PopInt()
	t.Length = d.PopInt()
	switch t.Kind {
	case EntityPre:
		t.Language = d.PopString()
	case EntityTextURL:
		t.URL = d.PopString()
	case EntityMentionName:
		t.UserID = d.PopLong()
	case EntityCustomEmoji:
		t.DocumentID = d.PopLong()
	}
	return d.Err()
}

// ---------------------------- Media ----------------------------

type MessageMedia interface {
	tl.Object
	ImplementsMessageMedia()
}

type MessageMediaEmpty struct{}

func (*MessageMediaEmpty) CRC() uint32             { return 0x3ded6320 }
func (*MessageMediaEmpty) ImplementsMessageMedia() {}

type MessageMediaUnsupported struct{}

func (*MessageMediaUnsupported) CRC() uint32             { return 0x9f84f49e }
func (*MessageMediaUnsupported) ImplementsMessageMedia() {}

type MessageMediaPhoto struct {
	Spoiler    bool
	Photo      Photo
	TTLSeconds int32
}

func (*MessageMediaPhoto) CRC() uint32             { return 0x695150d7 }
func (*MessageMediaPhoto) ImplementsMessageMedia() {}

func (t *MessageMediaPhoto) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.Photo != nil)
	f.set(2, t.TTLSeconds != 0)
	f.set(3, t.Spoiler)
	e.PutUint(uint32(f))
	putOptObject(e, t.Photo)
	if f.has(2) {
		e.PutInt(t.TTLSeconds)
	}
	return e.CheckErr()
}

func (t *MessageMediaPhoto) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.Spoiler = f.has(3)
	if f.has(0) {
		t.Photo = tl.PopObjectAs[Photo](d)
	}
	if f.has(2) {
		t.TTLSeconds = d.PopInt()
	}
	return d.Err()
}

type MessageMediaDocument struct {
	Nopremium   bool
	Spoiler     bool
	Document    Document
	AltDocument Document
	TTLSeconds  int32
}

func (*MessageMediaDocument) CRC() uint32             { return 0x4cf4d72d }
func (*MessageMediaDocument) ImplementsMessageMedia() {}

func (t *MessageMediaDocument) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.Document != nil)
	f.set(2, t.TTLSeconds != 0)
	f.set(3, t.Nopremium)
	f.set(4, t.Spoiler)
	f.set(5, t.AltDocument != nil)
	e.PutUint(uint32(f))
	putOptObject(e, t.Document)
	putOptObject(e, t.AltDocument)
	if f.has(2) {
		e.PutInt(t.TTLSeconds)
	}
	return e.CheckErr()
}

func (t *MessageMediaDocument) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.Nopremium = f.has(3)
	t.Spoiler = f.has(4)
	if f.has(0) {
		t.Document = tl.PopObjectAs[Document](d)
	}
	if f.has(5) {
		t.AltDocument = tl.PopObjectAs[Document](d)
	}
	if f.has(2) {
		t.TTLSeconds = d.PopInt()
	}
	return d.Err()
}

type Photo interface {
	tl.Object
	ImplementsPhoto()
}

type PhotoEmpty struct {
	ID int64
}

func (*PhotoEmpty) CRC() uint32      { return 0x2331b22d }
func (*PhotoEmpty) ImplementsPhoto() {}

func (t *PhotoEmpty) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.ID)
	return e.CheckErr()
}

func (t *PhotoEmpty) UnmarshalTL(d *tl.Decoder) error {
	t.ID = d.PopLong()
	return d.Err()
}

type PhotoObj struct {
	HasStickers   bool
	ID            int64
	AccessHash    int64
	FileReference []byte
	Date          int32
	Sizes         []PhotoSize
	VideoSizes    []*VideoSize
	DcID          int32
}

func (*PhotoObj) CRC() uint32      { return 0xfb197a65 }
func (*PhotoObj) ImplementsPhoto() {}

func (t *PhotoObj) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.HasStickers)
	f.set(1, len(t.VideoSizes) > 0)
	e.PutUint(uint32(f))
	e.PutLong(t.ID)
	e.PutLong(t.AccessHash)
	e.PutMessage(t.FileReference)
	e.PutInt(t.Date)
	tl.PutVector(e, t.Sizes)
	if f.has(1) {
		tl.PutVector(e, t.VideoSizes)
	}
	e.PutInt(t.DcID)
	return e.CheckErr()
}

func (t *PhotoObj) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.HasStickers = f.has(0)
	t.ID = d.PopLong()
	t.AccessHash = d.PopLong()
	t.FileReference = d.PopMessage()
	t.Date = d.PopInt()
	t.Sizes = tl.PopVector[PhotoSize](d)
	if f.has(1) {
		t.VideoSizes = tl.PopVector[*VideoSize](d)
	}
	t.DcID = d.PopInt()
	return d.Err()
}

type PhotoSize interface {
	tl.Object
	ImplementsPhotoSize()
}

type PhotoSizeEmpty struct {
	Type string
}

func (*PhotoSizeEmpty) CRC() uint32          { return 0x0e17e23c }
func (*PhotoSizeEmpty) ImplementsPhotoSize() {}

func (t *PhotoSizeEmpty) MarshalTL(e *tl.Encoder) error {
	e.PutString(t.Type)
	return e.CheckErr()
}

func (t *PhotoSizeEmpty) UnmarshalTL(d *tl.Decoder) error {
	t.Type = d.PopString()
	return d.Err()
}

type PhotoSizeObj struct {
	Type string
	W    int32
	H    int32
	Size int32
}

func (*PhotoSizeObj) CRC() uint32          { return 0x75c78e60 }
func (*PhotoSizeObj) ImplementsPhotoSize() {}

func (t *PhotoSizeObj) MarshalTL(e *tl.Encoder) error {
	e.PutString(t.Type)
	e.PutInt(t.W)
	e.PutInt(t.H)
	e.PutInt(t.Size)
	return e.CheckErr()
}

func (t *PhotoSizeObj) UnmarshalTL(d *tl.Decoder) error {
	t.Type = d.PopString()
	t.W = d.PopInt()
	t.H = d.PopInt()
	t.Size = d.PopInt()
	return d.Err()
}

type PhotoCachedSize struct {
	Type  string
	W     int32
	H     int32
	Bytes []byte
}

func (*PhotoCachedSize) CRC() uint32          { return 0x021e1ad6 }
func (*PhotoCachedSize) ImplementsPhotoSize() {}

func (t *PhotoCachedSize) MarshalTL(e *tl.Encoder) error {
	e.PutString(t.Type)
	e.PutInt(t.W)
	e.PutInt(t.H)
	e.PutMessage(t.Bytes)
	return e.CheckErr()
}

func (t *PhotoCachedSize) UnmarshalTL(d *tl.Decoder) error {
	t.Type = d.PopString()
	t.W = d.PopInt()
	t.H = d.PopInt()
	t.Bytes = d.PopMessage()
	return d.Err()
}

type PhotoStrippedSize struct {
	Type  string
	Bytes []byte
}

func (*PhotoStrippedSize) CRC() uint32          { return 0xe0b0bc2e }
func (*PhotoStrippedSize) ImplementsPhotoSize() {}

func (t *PhotoStrippedSize) MarshalTL(e *tl.Encoder) error {
	e.PutString(t.Type)
	e.PutMessage(t.Bytes)
	return e.CheckErr()
}

func (t *PhotoStrippedSize) UnmarshalTL(d *tl.Decoder) error {
	t.Type = d.PopString()
	t.Bytes = d.PopMessage()
	return d.Err()
}

type PhotoSizeProgressive struct {
	Type  string
	W     int32
	H     int32
	Sizes []int32
}

func (*PhotoSizeProgressive) CRC() uint32          { return 0xfa3efb95 }
func (*PhotoSizeProgressive) ImplementsPhotoSize() {}

func (t *PhotoSizeProgressive) MarshalTL(e *tl.Encoder) error {
	e.PutString(t.Type)
	e.PutInt(t.W)
	e.PutInt(t.H)
	e.PutVectorInt(t.Sizes)
	return e.CheckErr()
}

func (t *PhotoSizeProgressive) UnmarshalTL(d *tl.Decoder) error {
	t.Type = d.PopString()
	t.W = d.PopInt()
	t.H = d.PopInt()
	t.Sizes = d.PopVectorInt()
	return d.Err()
}

type PhotoPathSize struct {
	Type  string
	Bytes []byte
}

func (*PhotoPathSize) CRC() uint32          { return 0xd8214d41 }
func (*PhotoPathSize) ImplementsPhotoSize() {}

func (t *PhotoPathSize) MarshalTL(e *tl.Encoder) error {
	e.PutString(t.Type)
	e.PutMessage(t.Bytes)
	return e.CheckErr()
}

func (t *PhotoPathSize) UnmarshalTL(d *tl.Decoder) error {
	t.Type = d.PopString()
	t.Bytes = d.PopMessage()
	return d.Err()
}

type VideoSize struct {
	Type         string
	W            int32
	H            int32
	Size         int32
	VideoStartTs float64
}

func (*VideoSize) CRC() uint32 { return 0xde33b094 }

func (t *VideoSize) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.VideoStartTs != 0)
	e.PutUint(uint32(f))
	e.PutString(t.Type)
	e.PutInt(t.W)
	e.PutInt(t.H)
	e.PutInt(t.Size)
	if f.has(0) {
		e.PutDouble(t.VideoStartTs)
	}
	return e.CheckErr()
}

func (t *VideoSize) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.Type = d.PopString()
	t.W = d.PopInt()
	t.H = d.PopInt()
	t.Size = d.PopInt()
	if f.has(0) {
		t.VideoStartTs = d.PopDouble()
	}
	return d.Err()
}

type Document interface {
	tl.Object
	ImplementsDocument()
}

type DocumentEmpty struct {
	ID int64
}

func (*DocumentEmpty) CRC() uint32         { return 0x36f8c871 }
func (*DocumentEmpty) ImplementsDocument() {}

func (t *DocumentEmpty) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.ID)
	return e.CheckErr()
}

func (t *DocumentEmpty) UnmarshalTL(d *tl.Decoder) error {
	t.ID = d.PopLong()
	return d.Err()
}

type DocumentObj struct {
	ID            int64
	AccessHash    int64
	FileReference []byte
	Date          int32
	MimeType      string
	Size          int64
	Thumbs        []PhotoSize
	VideoThumbs   []*VideoSize
	DcID          int32
	Attributes    []DocumentAttribute
}

func (*DocumentObj) CRC() uint32         { return 0x8fd4c4d8 }
func (*DocumentObj) ImplementsDocument() {}

func (t *DocumentObj) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, len(t.Thumbs) > 0)
	f.set(1, len(t.VideoThumbs) > 0)
	e.PutUint(uint32(f))
	e.PutLong(t.ID)
	e.PutLong(t.AccessHash)
	e.PutMessage(t.FileReference)
	e.PutInt(t.Date)
	e.PutString(t.MimeType)
	e.PutLong(t.Size)
	if f.has(0) {
		tl.PutVector(e, t.Thumbs)
	}
	if f.has(1) {
		tl.PutVector(e, t.VideoThumbs)
	}
	e.PutInt(t.DcID)
	tl.PutVector(e, t.Attributes)
	return e.CheckErr()
}

func (t *DocumentObj) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.ID = d.PopLong()
	t.AccessHash = d.PopLong()
	t.FileReference = d.PopMessage()
	t.Date = d.PopInt()
	t.MimeType = d.PopString()
	t.Size = d.PopLong()
	if f.has(0) {
		t.Thumbs = tl.PopVector[PhotoSize](d)
	}
	if f.has(1) {
		t.VideoThumbs = tl.PopVector[*VideoSize](d)
	}
	t.DcID = d.PopInt()
	t.Attributes = tl.PopVector[DocumentAttribute](d)
	return d.Err()
}

// FileName returns the name carried by a filename attribute, if any.
func (t *DocumentObj) FileName() string {
	for _, a := range t.Attributes {
		if fn, ok := a.(*DocumentAttributeFilename); ok {
			return fn.FileName
		}
	}
	return ""
}

type DocumentAttribute interface {
	tl.Object
	ImplementsDocumentAttribute()
}

type DocumentAttributeImageSize struct {
	W int32
	H int32
}

func (*DocumentAttributeImageSize) CRC() uint32                  { return 0x6c37c15c }
func (*DocumentAttributeImageSize) ImplementsDocumentAttribute() {}

func (t *DocumentAttributeImageSize) MarshalTL(e *tl.Encoder) error {
	e.PutInt(t.W)
	e.PutInt(t.H)
	return e.CheckErr()
}

func (t *DocumentAttributeImageSize) UnmarshalTL(d *tl.Decoder) error {
	t.W = d.PopInt()
	t.H = d.PopInt()
	return d.Err()
}

type DocumentAttributeAnimated struct{}

func (*DocumentAttributeAnimated) CRC() uint32                  { return 0x11b58939 }
func (*DocumentAttributeAnimated) ImplementsDocumentAttribute() {}

type DocumentAttributeHasStickers struct{}

func (*DocumentAttributeHasStickers) CRC() uint32                  { return 0x9801d2f7 }
func (*DocumentAttributeHasStickers) ImplementsDocumentAttribute() {}

type DocumentAttributeSticker struct {
	Mask       bool
	Alt        string
	Stickerset InputStickerSet
	MaskCoords *MaskCoords
}

func (*DocumentAttributeSticker) CRC() uint32                  { return 0x6319d612 }
func (*DocumentAttributeSticker) ImplementsDocumentAttribute() {}

func (t *DocumentAttributeSticker) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.MaskCoords != nil)
	f.set(1, t.Mask)
	e.PutUint(uint32(f))
	e.PutString(t.Alt)
	e.PutObject(t.Stickerset)
	if f.has(0) {
		e.PutObject(t.MaskCoords)
	}
	return e.CheckErr()
}

func (t *DocumentAttributeSticker) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.Mask = f.has(1)
	t.Alt = d.PopString()
	t.Stickerset = tl.PopObjectAs[InputStickerSet](d)
	if f.has(0) {
		t.MaskCoords = tl.PopObjectAs[*MaskCoords](d)
	}
	return d.Err()
}

type MaskCoords struct {
	N    int32
	X    float64
	Y    float64
	Zoom float64
}

func (*MaskCoords) CRC() uint32 { return 0xaed6dbb2 }

func (t *MaskCoords) MarshalTL(e *tl.Encoder) error {
	e.PutInt(t.N)
	e.PutDouble(t.X)
	e.PutDouble(t.Y)
	e.PutDouble(t.Zoom)
	return e.CheckErr()
}

func (t *MaskCoords) UnmarshalTL(d *tl.Decoder) error {
	t.N = d.PopInt()
	t.X = d.PopDouble()
	t.Y = d.PopDouble()
	t.Zoom = d.PopDouble()
	return d.Err()
}

type DocumentAttributeVideo struct {
	RoundMessage      bool
	SupportsStreaming bool
	Nosound           bool
	Duration          float64
	W                 int32
	H                 int32
	PreloadPrefixSize int32
}

func (*DocumentAttributeVideo) CRC() uint32                  { return 0xd38ff1c2 }
func (*DocumentAttributeVideo) ImplementsDocumentAttribute() {}

func (t *DocumentAttributeVideo) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.RoundMessage)
	f.set(1, t.SupportsStreaming)
	f.set(2, t.PreloadPrefixSize != 0)
	f.set(3, t.Nosound)
	e.PutUint(uint32(f))
	e.PutDouble(t.Duration)
	e.PutInt(t.W)
	e.PutInt(t.H)
	if f.has(2) {
		e.PutInt(t.PreloadPrefixSize)
	}
	return e.CheckErr()
}

func (t *DocumentAttributeVideo) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.RoundMessage = f.has(0)
	t.SupportsStreaming = f.has(1)
	t.Nosound = f.has(3)
	t.Duration = d.PopDouble()
	t.W = d.PopInt()
	t.H = d.PopInt()
	if f.has(2) {
		t.PreloadPrefixSize = d.PopInt()
	}
	return d.Err()
}

type DocumentAttributeAudio struct {
	Voice     bool
	Duration  int32
	Title     string
	Performer string
	Waveform  []byte
}

func (*DocumentAttributeAudio) CRC() uint32                  { return 0x9852f9c6 }
func (*DocumentAttributeAudio) ImplementsDocumentAttribute() {}

func (t *DocumentAttributeAudio) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.Title != "")
	f.set(1, t.Performer != "")
	f.set(2, t.Waveform != nil)
	f.set(10, t.Voice)
	e.PutUint(uint32(f))
	e.PutInt(t.Duration)
	if f.has(0) {
		e.PutString(t.Title)
	}
	if f.has(1) {
		e.PutString(t.Performer)
	}
	if f.has(2) {
		e.PutMessage(t.Waveform)
	}
	return e.CheckErr()
}

func (t *DocumentAttributeAudio) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.Voice = f.has(10)
	t.Duration = d.PopInt()
	if f.has(0) {
		t.Title = d.PopString()
	}
	if f.has(1) {
		t.Performer = d.PopString()
	}
	if f.has(2) {
		t.Waveform = d.PopMessage()
	}
	return d.Err()
}

type DocumentAttributeFilename struct {
	FileName string
}

func (*DocumentAttributeFilename) CRC() uint32                  { return 0x15590068 }
func (*DocumentAttributeFilename) ImplementsDocumentAttribute() {}

func (t *DocumentAttributeFilename) MarshalTL(e *tl.Encoder) error {
	e.PutString(t.FileName)
	return e.CheckErr()
}

func (t *DocumentAttributeFilename) UnmarshalTL(d *tl.Decoder) error {
	t.FileName = d.PopString()
	return d.Err()
}

type InputStickerSet interface {
	tl.Object
	ImplementsInputStickerSet()
}

type InputStickerSetEmpty struct{}

func (*InputStickerSetEmpty) CRC() uint32                { return 0xffb62b95 }
func (*InputStickerSetEmpty) ImplementsInputStickerSet() {}

type InputStickerSetID struct {
	ID         int64
	AccessHash int64
}

func (*InputStickerSetID) CRC() uint32                { return 0x9de7a269 }
func (*InputStickerSetID) ImplementsInputStickerSet() {}

func (t *InputStickerSetID) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.ID)
	e.PutLong(t.AccessHash)
	return e.CheckErr()
}

func (t *InputStickerSetID) UnmarshalTL(d *tl.Decoder) error {
	t.ID = d.PopLong()
	t.AccessHash = d.PopLong()
	return d.Err()
}

type InputStickerSetShortName struct {
	ShortName string
}

func (*InputStickerSetShortName) CRC() uint32                { return 0x861cc8a0 }
func (*InputStickerSetShortName) ImplementsInputStickerSet() {}

func (t *InputStickerSetShortName) MarshalTL(e *tl.Encoder) error {
	e.PutString(t.ShortName)
	return e.CheckErr()
}

func (t *InputStickerSetShortName) UnmarshalTL(d *tl.Decoder) error {
	t.ShortName = d.PopString()
	return d.Err()
}

// ---------------------------- Markup ----------------------------

type ReplyMarkup interface {
	tl.Object
	ImplementsReplyMarkup()
}

type ReplyKeyboardHide struct {
	Selective bool
}

func (*ReplyKeyboardHide) CRC() uint32            { return 0xa03e5b85 }
func (*ReplyKeyboardHide) ImplementsReplyMarkup() {}

func (t *ReplyKeyboardHide) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(2, t.Selective)
	e.PutUint(uint32(f))
	return e.CheckErr()
}

func (t *ReplyKeyboardHide) UnmarshalTL(d *tl.Decoder) error {
	t.Selective = flags(d.PopUint()).has(2)
	return d.Err()
}

type ReplyKeyboardForceReply struct {
	SingleUse   bool
	Selective   bool
	Placeholder string
}

func (*ReplyKeyboardForceReply) CRC() uint32            { return 0x86b40b08 }
func (*ReplyKeyboardForceReply) ImplementsReplyMarkup() {}

func (t *ReplyKeyboardForceReply) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(1, t.SingleUse)
	f.set(2, t.Selective)
	f.set(3, t.Placeholder != "")
	e.PutUint(uint32(f))
	if f.has(3) {
		e.PutString(t.Placeholder)
	}
	return e.CheckErr()
}

func (t *ReplyKeyboardForceReply) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.SingleUse = f.has(1)
	t.Selective = f.has(2)
	if f.has(3) {
		t.Placeholder = d.PopString()
	}
	return d.Err()
}

type ReplyKeyboardMarkup struct {
	Resize      bool
	SingleUse   bool
	Selective   bool
	Persistent  bool
	Rows        []*KeyboardButtonRow
	Placeholder string
}

func (*ReplyKeyboardMarkup) CRC() uint32            { return 0x85dd99d1 }
func (*ReplyKeyboardMarkup) ImplementsReplyMarkup() {}

func (t *ReplyKeyboardMarkup) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.Resize)
	f.set(1, t.SingleUse)
	f.set(2, t.Selective)
	f.set(3, t.Placeholder != "")
	f.set(4, t.Persistent)
	e.PutUint(uint32(f))
	tl.PutVector(e, t.Rows)
	if f.has(3) {
		e.PutString(t.Placeholder)
	}
	return e.CheckErr()
}

func (t *ReplyKeyboardMarkup) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.Resize = f.has(0)
	t.SingleUse = f.has(1)
	t.Selective = f.has(2)
	t.Persistent = f.has(4)
	t.Rows = tl.PopVector[*KeyboardButtonRow](d)
	if f.has(3) {
		t.Placeholder = d.PopString()
	}
	return d.Err()
}

type ReplyInlineMarkup struct {
	Rows []*KeyboardButtonRow
}

func (*ReplyInlineMarkup) CRC() uint32            { return 0x48a30254 }
func (*ReplyInlineMarkup) ImplementsReplyMarkup() {}

func (t *ReplyInlineMarkup) MarshalTL(e *tl.Encoder) error {
	tl.PutVector(e, t.Rows)
	return e.CheckErr()
}

func (t *ReplyInlineMarkup) UnmarshalTL(d *tl.Decoder) error {
	t.Rows = tl.PopVector[*KeyboardButtonRow](d)
	return d.Err()
}

type KeyboardButtonRow struct {
	Buttons []KeyboardButton
}

func (*KeyboardButtonRow) CRC() uint32 { return 0x77608b83 }

func (t *KeyboardButtonRow) MarshalTL(e *tl.Encoder) error {
	tl.PutVector(e, t.Buttons)
	return e.CheckErr()
}

func (t *KeyboardButtonRow) UnmarshalTL(d *tl.Decoder) error {
	t.Buttons = tl.PopVector[KeyboardButton](d)
	return d.Err()
}

type KeyboardButton interface {
	tl.Object
	ImplementsKeyboardButton()
}

type KeyboardButtonObj struct {
	Text string
}

func (*KeyboardButtonObj) CRC() uint32               { return 0xa2fa4880 }
func (*KeyboardButtonObj) ImplementsKeyboardButton() {}

func (t *KeyboardButtonObj) MarshalTL(e *tl.Encoder) error {
	e.PutString(t.Text)
	return e.CheckErr()
}

func (t *KeyboardButtonObj) UnmarshalTL(d *tl.Decoder) error {
	t.Text = d.PopString()
	return d.Err()
}

type KeyboardButtonURL struct {
	Text string
	URL  string
}

func (*KeyboardButtonURL) CRC() uint32               { return 0x258aff05 }
func (*KeyboardButtonURL) ImplementsKeyboardButton() {}

func (t *KeyboardButtonURL) MarshalTL(e *tl.Encoder) error {
	e.PutString(t.Text)
	e.PutString(t.URL)
	return e.CheckErr()
}

func (t *KeyboardButtonURL) UnmarshalTL(d *tl.Decoder) error {
	t.Text = d.PopString()
	t.URL = d.PopString()
	return d.Err()
}

type KeyboardButtonCallback struct {
	RequiresPassword bool
	Text             string
	Data             []byte
}

func (*KeyboardButtonCallback) CRC() uint32               { return 0x35bbdb6b }
func (*KeyboardButtonCallback) ImplementsKeyboardButton() {}

func (t *KeyboardButtonCallback) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.RequiresPassword)
	e.PutUint(uint32(f))
	e.PutString(t.Text)
	e.PutMessage(t.Data)
	return e.CheckErr()
}

func (t *KeyboardButtonCallback) UnmarshalTL(d *tl.Decoder) error {
	t.RequiresPassword = flags(d.PopUint()).has(0)
	t.Text = d.PopString()
	t.Data = d.PopMessage()
	return d.Err()
}

type KeyboardButtonSwitchInline struct {
	SamePeer  bool
	Text      string
	Query     string
	PeerTypes []InlineQueryPeerType
}

func (*KeyboardButtonSwitchInline) CRC() uint32               { return 0x93b9fbb5 }
func (*KeyboardButtonSwitchInline) ImplementsKeyboardButton() {}

func (t *KeyboardButtonSwitchInline) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.SamePeer)
	f.set(1, len(t.PeerTypes) > 0)
	e.PutUint(uint32(f))
	e.PutString(t.Text)
	e.PutString(t.Query)
	if f.has(1) {
		tl.PutVector(e, t.PeerTypes)
	}
	return e.CheckErr()
}

func (t *KeyboardButtonSwitchInline) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.SamePeer = f.has(0)
	t.Text = d.PopString()
	t.Query = d.PopString()
	if f.has(1) {
		t.PeerTypes = tl.PopVector[InlineQueryPeerType](d)
	}
	return d.Err()
}

// ---------------------------- Replies & reactions ----------------------------

type MessageReplies struct {
	Comments       bool
	Replies        int32
	RepliesPts     int32
	RecentRepliers []Peer
	ChannelID      int64
	MaxID          int32
	ReadMaxID      int32
}

func (*MessageReplies) CRC() uint32 { return 0x83d60fc2 }

func (t *MessageReplies) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.Comments || t.ChannelID != 0)
	f.set(1, len(t.RecentRepliers) > 0)
	f.set(2, t.MaxID != 0)
	f.set(3, t.ReadMaxID != 0)
	e.PutUint(uint32(f))
	e.PutInt(t.Replies)
	e.PutInt(t.RepliesPts)
	if f.has(1) {
		tl.PutVector(e, t.RecentRepliers)
	}
	if f.has(0) {
		e.PutLong(t.ChannelID)
	}
	if f.has(2) {
		e.PutInt(t.MaxID)
	}
	if f.has(3) {
		e.PutInt(t.ReadMaxID)
	}
	return e.CheckErr()
}

func (t *MessageReplies) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.Comments = f.has(0)
	t.Replies = d.PopInt()
	t.RepliesPts = d.PopInt()
	if f.has(1) {
		t.RecentRepliers = tl.PopVector[Peer](d)
	}
	if f.has(0) {
		t.ChannelID = d.PopLong()
	}
	if f.has(2) {
		t.MaxID = d.PopInt()
	}
	if f.has(3) {
		t.ReadMaxID = d.PopInt()
	}
	return d.Err()
}

type MessageReactions struct {
	Min             bool
	CanSeeList      bool
	Results         []*ReactionCount
	RecentReactions []*MessagePeerReaction
}

func (*MessageReactions) CRC() uint32 { return 0x4f2b9479 }

func (t *MessageReactions) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.Min)
	f.set(1, len(t.RecentReactions) > 0)
	f.set(2, t.CanSeeList)
	e.PutUint(uint32(f))
	tl.PutVector(e, t.Results)
	if f.has(1) {
		tl.PutVector(e, t.RecentReactions)
	}
	return e.CheckErr()
}

func (t *MessageReactions) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.Min = f.has(0)
	t.CanSeeList = f.has(2)
	t.Results = tl.PopVector[*ReactionCount](d)
	if f.has(1) {
		t.RecentReactions = tl.PopVector[*MessagePeerReaction](d)
	}
	return d.Err()
}

type ReactionCount struct {
	ChosenOrder int32
	Reaction    Reaction
	Count       int32
}

func (*ReactionCount) CRC() uint32 { return 0xa3d1cb80 }

func (t *ReactionCount) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.ChosenOrder != 0)
	e.PutUint(uint32(f))
	if f.has(0) {
		e.PutInt(t.ChosenOrder)
	}
	e.PutObject(t.Reaction)
	e.PutInt(t.Count)
	return e.CheckErr()
}

func (t *ReactionCount) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	if f.has(0) {
		t.ChosenOrder = d.PopInt()
	}
	t.Reaction = tl.PopObjectAs[Reaction](d)
	t.Count = d.PopInt()
	return d.Err()
}

type MessagePeerReaction struct {
	Big      bool
	Unread   bool
	My       bool
	PeerID   Peer
	Date     int32
	Reaction Reaction
}

func (*MessagePeerReaction) CRC() uint32 { return 0x8c79b63c }

func (t *MessagePeerReaction) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.Big)
	f.set(1, t.Unread)
	f.set(2, t.My)
	e.PutUint(uint32(f))
	e.PutObject(t.PeerID)
	e.PutInt(t.Date)
	e.PutObject(t.Reaction)
	return e.CheckErr()
}

func (t *MessagePeerReaction) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.Big = f.has(0)
	t.Unread = f.has(1)
	t.My = f.has(2)
	t.PeerID = tl.PopObjectAs[Peer](d)
	t.Date = d.PopInt()
	t.Reaction = tl.PopObjectAs[Reaction](d)
	return d.Err()
}

type Reaction interface {
	tl.Object
	ImplementsReaction()
}

type ReactionEmpty struct{}

func (*ReactionEmpty) CRC() uint32         { return 0x79f5d419 }
func (*ReactionEmpty) ImplementsReaction() {}

type ReactionEmoji struct {
	Emoticon string
}

func (*ReactionEmoji) CRC() uint32         { return 0x1b2286b8 }
func (*ReactionEmoji) ImplementsReaction() {}

func (t *ReactionEmoji) MarshalTL(e *tl.Encoder) error {
	e.PutString(t.Emoticon)
	return e.CheckErr()
}

func (t *ReactionEmoji) UnmarshalTL(d *tl.Decoder) error {
	t.Emoticon = d.PopString()
	return d.Err()
}

type ReactionCustomEmoji struct {
	DocumentID int64
}

func (*ReactionCustomEmoji) CRC() uint32         { return 0x8935fc73 }
func (*ReactionCustomEmoji) ImplementsReaction() {}

func (t *ReactionCustomEmoji) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.DocumentID)
	return e.CheckErr()
}

func (t *ReactionCustomEmoji) UnmarshalTL(d *tl.Decoder) error {
	t.DocumentID = d.PopLong()
	return d.Err()
}
