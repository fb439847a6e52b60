// Copyright (c) 2024 RoseLoverX

package telegram

import (
	"github.com/amarnathcjd/mtproto/internal/encoding/tl"
	"github.com/amarnathcjd/mtproto/internal/session"
)

type Peer interface {
	tl.Object
	ImplementsPeer()
}

type PeerUser struct {
	UserID int64
}

func (*PeerUser) CRC() uint32     { return 0x59511722 }
func (*PeerUser) ImplementsPeer() {}

func (t *PeerUser) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.UserID)
	return e.CheckErr()
}

func (t *PeerUser) UnmarshalTL(d *tl.Decoder) error {
	t.UserID = d.PopLong()
	return d.Err()
}

type PeerChat struct {
	ChatID int64
}

func (*PeerChat) CRC() uint32     { return 0x36c6019a }
func (*PeerChat) ImplementsPeer() {}

func (t *PeerChat) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.ChatID)
	return e.CheckErr()
}

func (t *PeerChat) UnmarshalTL(d *tl.Decoder) error {
	t.ChatID = d.PopLong()
	return d.Err()
}

type PeerChannel struct {
	ChannelID int64
}

func (*PeerChannel) CRC() uint32     { return 0xa2a5371e }
func (*PeerChannel) ImplementsPeer() {}

func (t *PeerChannel) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.ChannelID)
	return e.CheckErr()
}

func (t *PeerChannel) UnmarshalTL(d *tl.Decoder) error {
	t.ChannelID = d.PopLong()
	return d.Err()
}

// GetPeerID returns the marked id of p: users as is, chats negated and
// channels with the -100 prefix.
func GetPeerID(p Peer) int64 {
	switch p := p.(type) {
	case *PeerUser:
		return p.UserID
	case *PeerChat:
		return -p.ChatID
	case *PeerChannel:
		return session.MarkChannelID(p.ChannelID)
	}
	return 0
}

type InputPeer interface {
	tl.Object
	ImplementsInputPeer()
}

type InputPeerEmpty struct{}

func (*InputPeerEmpty) CRC() uint32          { return 0x7f3b18ea }
func (*InputPeerEmpty) ImplementsInputPeer() {}

type InputPeerSelf struct{}

func (*InputPeerSelf) CRC() uint32          { return 0x7da07ec9 }
func (*InputPeerSelf) ImplementsInputPeer() {}

type InputPeerChat struct {
	ChatID int64
}

func (*InputPeerChat) CRC() uint32          { return 0x35a95cb9 }
func (*InputPeerChat) ImplementsInputPeer() {}

func (t *InputPeerChat) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.ChatID)
	return e.CheckErr()
}

func (t *InputPeerChat) UnmarshalTL(d *tl.Decoder) error {
	t.ChatID = d.PopLong()
	return d.Err()
}

type InputPeerUser struct {
	UserID     int64
	AccessHash int64
}

func (*InputPeerUser) CRC() uint32          { return 0xdde8a54c }
func (*InputPeerUser) ImplementsInputPeer() {}

func (t *InputPeerUser) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.UserID)
	e.PutLong(t.AccessHash)
	return e.CheckErr()
}

func (t *InputPeerUser) UnmarshalTL(d *tl.Decoder) error {
	t.UserID = d.PopLong()
	t.AccessHash = d.PopLong()
	return d.Err()
}

type InputPeerChannel struct {
	ChannelID  int64
	AccessHash int64
}

func (*InputPeerChannel) CRC() uint32          { return 0x27bcbbfc }
func (*InputPeerChannel) ImplementsInputPeer() {}

func (t *InputPeerChannel) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.ChannelID)
	e.PutLong(t.AccessHash)
	return e.CheckErr()
}

func (t *InputPeerChannel) UnmarshalTL(d *tl.Decoder) error {
	t.ChannelID = d.PopLong()
	t.AccessHash = d.PopLong()
	return d.Err()
}

type InputUser interface {
	tl.Object
	ImplementsInputUser()
}

type InputUserSelf struct{}

func (*InputUserSelf) CRC() uint32          { return 0xf7c1b13f }
func (*InputUserSelf) ImplementsInputUser() {}

type InputUserObj struct {
	UserID     int64
	AccessHash int64
}

func (*InputUserObj) CRC() uint32          { return 0xf21158c6 }
func (*InputUserObj) ImplementsInputUser() {}

func (t *InputUserObj) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.UserID)
	e.PutLong(t.AccessHash)
	return e.CheckErr()
}

func (t *InputUserObj) UnmarshalTL(d *tl.Decoder) error {
	t.UserID = d.PopLong()
	t.AccessHash = d.PopLong()
	return d.Err()
}

type InputChannel interface {
	tl.Object
	ImplementsInputChannel()
}

type InputChannelEmpty struct{}

func (*InputChannelEmpty) CRC() uint32             { return 0xee8c1e86 }
func (*InputChannelEmpty) ImplementsInputChannel() {}

type InputChannelObj struct {
	ChannelID  int64
	AccessHash int64
}

func (*InputChannelObj) CRC() uint32             { return 0xf35aec28 }
func (*InputChannelObj) ImplementsInputChannel() {}

func (t *InputChannelObj) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.ChannelID)
	e.PutLong(t.AccessHash)
	return e.CheckErr()
}

func (t *InputChannelObj) UnmarshalTL(d *tl.Decoder) error {
	t.ChannelID = d.PopLong()
	t.AccessHash = d.PopLong()
	return d.Err()
}

// ---------------------------- Users ----------------------------

type User interface {
	tl.Object
	ImplementsUser()
}

type UserEmpty struct {
	ID int64
}

func (*UserEmpty) CRC() uint32     { return 0xd3bc4b7a }
func (*UserEmpty) ImplementsUser() {}

func (t *UserEmpty) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.ID)
	return e.CheckErr()
}

func (t *UserEmpty) UnmarshalTL(d *tl.Decoder) error {
	t.ID = d.PopLong()
	return d.Err()
}

// UserObj flag bits without a field of their own.
const (
	UserSelf         = 1 << 10
	UserContact      = 1 << 11
	UserMutual       = 1 << 12
	UserDeleted      = 1 << 13
	UserBot          = 1 << 14
	UserVerified     = 1 << 17
	UserRestricted   = 1 << 18
	UserMin          = 1 << 20
	UserSupport      = 1 << 23
	UserScam         = 1 << 24
	UserFake         = 1 << 26
	UserPremium      = 1 << 28
	userFlagsPresent = 1<<0 | 1<<1 | 1<<2 | 1<<3 | 1<<4 | 1<<5 | 1<<6 | 1<<19 | 1<<22 | 1<<30
)

// UserObj is user#215c4438. BotInfoVersion is sent when UserBot is set,
// RestrictionReason when UserRestricted is.
type UserObj struct {
	Flags                uint32
	Flags2               uint32
	ID                   int64
	AccessHash           int64
	FirstName            string
	LastName             string
	Username             string
	Phone                string
	Photo                UserProfilePhoto
	Status               UserStatus
	BotInfoVersion       int32
	RestrictionReason    []*RestrictionReason
	BotInlinePlaceholder string
	LangCode             string
	EmojiStatus          EmojiStatus
	Usernames            []*Username
	StoriesMaxID         int32
	Color                *PeerColor
	ProfileColor         *PeerColor
	BotActiveUsers       int32
}

func (*UserObj) CRC() uint32     { return 0x215c4438 }
func (*UserObj) ImplementsUser() {}

func (t *UserObj) Bot() bool  { return t.Flags&UserBot != 0 }
func (t *UserObj) Self() bool { return t.Flags&UserSelf != 0 }
func (t *UserObj) Min() bool  { return t.Flags&UserMin != 0 }

func (t *UserObj) MarshalTL(e *tl.Encoder) error {
	f := flags(t.Flags).without(0, 1, 2, 3, 4, 5, 6, 19, 22, 30)
	f.set(0, t.AccessHash != 0)
	f.set(1, t.FirstName != "")
	f.set(2, t.LastName != "")
	f.set(3, t.Username != "")
	f.set(4, t.Phone != "")
	f.set(5, t.Photo != nil)
	f.set(6, t.Status != nil)
	f.set(19, t.BotInlinePlaceholder != "")
	f.set(22, t.LangCode != "")
	f.set(30, t.EmojiStatus != nil)

	f2 := flags(t.Flags2).without(0, 5, 8, 9, 12)
	f2.set(0, len(t.Usernames) > 0)
	f2.set(5, t.StoriesMaxID != 0)
	f2.set(8, t.Color != nil)
	f2.set(9, t.ProfileColor != nil)
	f2.set(12, t.BotActiveUsers != 0)

	e.PutUint(uint32(f))
	e.PutUint(uint32(f2))
	e.PutLong(t.ID)
	if f.has(0) {
		e.PutLong(t.AccessHash)
	}
	if f.has(1) {
		e.PutString(t.FirstName)
	}
	if f.has(2) {
		e.PutString(t.LastName)
	}
	if f.has(3) {
		e.PutString(t.Username)
	}
	if f.has(4) {
		e.PutString(t.Phone)
	}
	putOptObject(e, t.Photo)
	putOptObject(e, t.Status)
	if f.has(14) {
		e.PutInt(t.BotInfoVersion)
	}
	if f.has(18) {
		tl.PutVector(e, t.RestrictionReason)
	}
	if f.has(19) {
		e.PutString(t.BotInlinePlaceholder)
	}
	if f.has(22) {
		e.PutString(t.LangCode)
	}
	putOptObject(e, t.EmojiStatus)
	if f2.has(0) {
		tl.PutVector(e, t.Usernames)
	}
	if f2.has(5) {
		e.PutInt(t.StoriesMaxID)
	}
	if f2.has(8) {
		e.PutObject(t.Color)
	}
	if f2.has(9) {
		e.PutObject(t.ProfileColor)
	}
	if f2.has(12) {
		e.PutInt(t.BotActiveUsers)
	}
	return e.CheckErr()
}

func (t *UserObj) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	f2 := flags(d.PopUint())
	t.Flags, t.Flags2 = uint32(f), uint32(f2)
	t.ID = d.PopLong()
	if f.has(0) {
		t.AccessHash = d.PopLong()
	}
	if f.has(1) {
		t.FirstName = d.PopString()
	}
	if f.has(2) {
		t.LastName = d.PopString()
	}
	if f.has(3) {
		t.Username = d.PopString()
	}
	if f.has(4) {
		t.Phone = d.PopString()
	}
	if f.has(5) {
		t.Photo = tl.PopObjectAs[UserProfilePhoto](d)
	}
	if f.has(6) {
		t.Status = tl.PopObjectAs[UserStatus](d)
	}
	if f.has(14) {
		t.BotInfoVersion = d.PopInt()
	}
	if f.has(18) {
		t.RestrictionReason = tl.PopVector[*RestrictionReason](d)
	}
	if f.has(19) {
		t.BotInlinePlaceholder = d.PopString()
	}
	if f.has(22) {
		t.LangCode = d.PopString()
	}
	if f.has(30) {
		t.EmojiStatus = tl.PopObjectAs[EmojiStatus](d)
	}
	if f2.has(0) {
		t.Usernames = tl.PopVector[*Username](d)
	}
	if f2.has(5) {
		t.StoriesMaxID = d.PopInt()
	}
	if f2.has(8) {
		t.Color = tl.PopObjectAs[*PeerColor](d)
	}
	if f2.has(9) {
		t.ProfileColor = tl.PopObjectAs[*PeerColor](d)
	}
	if f2.has(12) {
		t.BotActiveUsers = d.PopInt()
	}
	return d.Err()
}

type UserProfilePhoto interface {
	tl.Object
	ImplementsUserProfilePhoto()
}

type UserProfilePhotoEmpty struct{}

func (*UserProfilePhotoEmpty) CRC() uint32                 { return 0x4f11bae1 }
func (*UserProfilePhotoEmpty) ImplementsUserProfilePhoto() {}

type UserProfilePhotoObj struct {
	HasVideo      bool
	Personal      bool
	PhotoID       int64
	StrippedThumb []byte
	DcID          int32
}

func (*UserProfilePhotoObj) CRC() uint32                 { return 0x82d1f706 }
func (*UserProfilePhotoObj) ImplementsUserProfilePhoto() {}

func (t *UserProfilePhotoObj) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.HasVideo)
	f.set(1, t.StrippedThumb != nil)
	f.set(2, t.Personal)
	e.PutUint(uint32(f))
	e.PutLong(t.PhotoID)
	if f.has(1) {
		e.PutMessage(t.StrippedThumb)
	}
	e.PutInt(t.DcID)
	return e.CheckErr()
}

func (t *UserProfilePhotoObj) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.HasVideo = f.has(0)
	t.Personal = f.has(2)
	t.PhotoID = d.PopLong()
	if f.has(1) {
		t.StrippedThumb = d.PopMessage()
	}
	t.DcID = d.PopInt()
	return d.Err()
}

type UserStatus interface {
	tl.Object
	ImplementsUserStatus()
}

type UserStatusEmpty struct{}

func (*UserStatusEmpty) CRC() uint32           { return 0x09d05049 }
func (*UserStatusEmpty) ImplementsUserStatus() {}

type UserStatusOnline struct {
	Expires int32
}

func (*UserStatusOnline) CRC() uint32           { return 0xedb93949 }
func (*UserStatusOnline) ImplementsUserStatus() {}

func (t *UserStatusOnline) MarshalTL(e *tl.Encoder) error {
	e.PutInt(t.Expires)
	return e.CheckErr()
}

func (t *UserStatusOnline) UnmarshalTL(d *tl.Decoder) error {
	t.Expires = d.PopInt()
	return d.Err()
}

type UserStatusOffline struct {
	WasOnline int32
}

func (*UserStatusOffline) CRC() uint32           { return 0x008c703f }
func (*UserStatusOffline) ImplementsUserStatus() {}

func (t *UserStatusOffline) MarshalTL(e *tl.Encoder) error {
	e.PutInt(t.WasOnline)
	return e.CheckErr()
}

func (t *UserStatusOffline) UnmarshalTL(d *tl.Decoder) error {
	t.WasOnline = d.PopInt()
	return d.Err()
}

type UserStatusRecently struct{}

func (*UserStatusRecently) CRC() uint32           { return 0xe26f42f1 }
func (*UserStatusRecently) ImplementsUserStatus() {}

type UserStatusLastWeek struct{}

func (*UserStatusLastWeek) CRC() uint32           { return 0x07bf09fc }
func (*UserStatusLastWeek) ImplementsUserStatus() {}

type UserStatusLastMonth struct{}

func (*UserStatusLastMonth) CRC() uint32           { return 0x77ebc742 }
func (*UserStatusLastMonth) ImplementsUserStatus() {}

type RestrictionReason struct {
	Platform string
	Reason   string
	Text     string
}

func (*RestrictionReason) CRC() uint32 { return 0xd072acb4 }

func (t *RestrictionReason) MarshalTL(e *tl.Encoder) error {
	e.PutString(t.Platform)
	e.PutString(t.Reason)
	e.PutString(t.Text)
	return e.CheckErr()
}

func (t *RestrictionReason) UnmarshalTL(d *tl.Decoder) error {
	t.Platform = d.PopString()
	t.Reason = d.PopString()
	t.Text = d.PopString()
	return d.Err()
}

type Username struct {
	Editable bool
	Active   bool
	Username string
}

func (*Username) CRC() uint32 { return 0xb4073647 }

func (t *Username) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.Editable)
	f.set(1, t.Active)
	e.PutUint(uint32(f))
	e.PutString(t.Username)
	return e.CheckErr()
}

func (t *Username) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.Editable = f.has(0)
	t.Active = f.has(1)
	t.Username = d.PopString()
	return d.Err()
}

type EmojiStatus interface {
	tl.Object
	ImplementsEmojiStatus()
}

type EmojiStatusEmpty struct{}

func (*EmojiStatusEmpty) CRC() uint32            { return 0x2de11aae }
func (*EmojiStatusEmpty) ImplementsEmojiStatus() {}

type EmojiStatusObj struct {
	DocumentID int64
}

func (*EmojiStatusObj) CRC() uint32            { return 0x929b619d }
func (*EmojiStatusObj) ImplementsEmojiStatus() {}

func (t *EmojiStatusObj) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.DocumentID)
	return e.CheckErr()
}

func (t *EmojiStatusObj) UnmarshalTL(d *tl.Decoder) error {
	t.DocumentID = d.PopLong()
	return d.Err()
}

type EmojiStatusUntil struct {
	DocumentID int64
	Until      int32
}

func (*EmojiStatusUntil) CRC() uint32            { return 0xfa30a8c7 }
func (*EmojiStatusUntil) ImplementsEmojiStatus() {}

func (t *EmojiStatusUntil) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.DocumentID)
	e.PutInt(t.Until)
	return e.CheckErr()
}

func (t *EmojiStatusUntil) UnmarshalTL(d *tl.Decoder) error {
	t.DocumentID = d.PopLong()
	t.Until = d.PopInt()
	return d.Err()
}

type PeerColor struct {
	Color             int32
	BackgroundEmojiID int64
}

func (*PeerColor) CRC() uint32 { return 0xb54b5acf }

func (t *PeerColor) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.Color != 0)
	f.set(1, t.BackgroundEmojiID != 0)
	e.PutUint(uint32(f))
	if f.has(0) {
		e.PutInt(t.Color)
	}
	if f.has(1) {
		e.PutLong(t.BackgroundEmojiID)
	}
	return e.CheckErr()
}

func (t *PeerColor) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	if f.has(0) {
		t.Color = d.PopInt()
	}
	if f.has(1) {
		t.BackgroundEmojiID = d.PopLong()
	}
	return d.Err()
}

// ---------------------------- Chats ----------------------------

type Chat interface {
	tl.Object
	ImplementsChat()
}

type ChatEmpty struct {
	ID int64
}

func (*ChatEmpty) CRC() uint32     { return 0x29562865 }
func (*ChatEmpty) ImplementsChat() {}

func (t *ChatEmpty) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.ID)
	return e.CheckErr()
}

func (t *ChatEmpty) UnmarshalTL(d *tl.Decoder) error {
	t.ID = d.PopLong()
	return d.Err()
}

// ChatObj is a basic group, chat#41cbf256.
type ChatObj struct {
	Flags               uint32
	ID                  int64
	Title               string
	Photo               ChatPhoto
	ParticipantsCount   int32
	Date                int32
	Version             int32
	MigratedTo          InputChannel
	AdminRights         *ChatAdminRights
	DefaultBannedRights *ChatBannedRights
}

func (*ChatObj) CRC() uint32     { return 0x41cbf256 }
func (*ChatObj) ImplementsChat() {}

func (t *ChatObj) MarshalTL(e *tl.Encoder) error {
	f := flags(t.Flags).without(6, 14, 18)
	f.set(6, t.MigratedTo != nil)
	f.set(14, t.AdminRights != nil)
	f.set(18, t.DefaultBannedRights != nil)
	e.PutUint(uint32(f))
	e.PutLong(t.ID)
	e.PutString(t.Title)
	e.PutObject(t.Photo)
	e.PutInt(t.ParticipantsCount)
	e.PutInt(t.Date)
	e.PutInt(t.Version)
	putOptObject(e, t.MigratedTo)
	if f.has(14) {
		e.PutObject(t.AdminRights)
	}
	if f.has(18) {
		e.PutObject(t.DefaultBannedRights)
	}
	return e.CheckErr()
}

func (t *ChatObj) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.Flags = uint32(f)
	t.ID = d.PopLong()
	t.Title = d.PopString()
	t.Photo = tl.PopObjectAs[ChatPhoto](d)
	t.ParticipantsCount = d.PopInt()
	t.Date = d.PopInt()
	t.Version = d.PopInt()
	if f.has(6) {
		t.MigratedTo = tl.PopObjectAs[InputChannel](d)
	}
	if f.has(14) {
		t.AdminRights = tl.PopObjectAs[*ChatAdminRights](d)
	}
	if f.has(18) {
		t.DefaultBannedRights = tl.PopObjectAs[*ChatBannedRights](d)
	}
	return d.Err()
}

type ChatForbidden struct {
	ID    int64
	Title string
}

func (*ChatForbidden) CRC() uint32     { return 0x6592a1a7 }
func (*ChatForbidden) ImplementsChat() {}

func (t *ChatForbidden) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.ID)
	e.PutString(t.Title)
	return e.CheckErr()
}

func (t *ChatForbidden) UnmarshalTL(d *tl.Decoder) error {
	t.ID = d.PopLong()
	t.Title = d.PopString()
	return d.Err()
}

// Channel flag bits without a field of their own.
const (
	ChannelCreator   = 1 << 0
	ChannelLeft      = 1 << 2
	ChannelBroadcast = 1 << 5
	ChannelVerified  = 1 << 7
	ChannelMegagroup = 1 << 8
	ChannelRestrict  = 1 << 9
	ChannelMin       = 1 << 12
	ChannelForum     = 1 << 30
)

// Channel is a broadcast channel or a supergroup, channel#0aadfc8f.
// RestrictionReason is sent when ChannelRestrict is set.
type Channel struct {
	Flags               uint32
	Flags2              uint32
	ID                  int64
	AccessHash          int64
	Title               string
	Username            string
	Photo               ChatPhoto
	Date                int32
	RestrictionReason   []*RestrictionReason
	AdminRights         *ChatAdminRights
	BannedRights        *ChatBannedRights
	DefaultBannedRights *ChatBannedRights
	ParticipantsCount   int32
	Usernames           []*Username
	StoriesMaxID        int32
	Color               *PeerColor
	ProfileColor        *PeerColor
	EmojiStatus         EmojiStatus
	Level               int32
}

func (*Channel) CRC() uint32     { return 0x0aadfc8f }
func (*Channel) ImplementsChat() {}

func (t *Channel) Broadcast() bool { return t.Flags&ChannelBroadcast != 0 }
func (t *Channel) Min() bool       { return t.Flags&ChannelMin != 0 }

func (t *Channel) MarshalTL(e *tl.Encoder) error {
	f := flags(t.Flags).without(6, 13, 14, 15, 17, 18)
	f.set(6, t.Username != "")
	f.set(13, t.AccessHash != 0)
	f.set(14, t.AdminRights != nil)
	f.set(15, t.BannedRights != nil)
	f.set(17, t.ParticipantsCount != 0)
	f.set(18, t.DefaultBannedRights != nil)

	f2 := flags(t.Flags2).without(0, 4, 7, 8, 9, 10)
	f2.set(0, len(t.Usernames) > 0)
	f2.set(4, t.StoriesMaxID != 0)
	f2.set(7, t.Color != nil)
	f2.set(8, t.ProfileColor != nil)
	f2.set(9, t.EmojiStatus != nil)
	f2.set(10, t.Level != 0)

	e.PutUint(uint32(f))
	e.PutUint(uint32(f2))
	e.PutLong(t.ID)
	if f.has(13) {
		e.PutLong(t.AccessHash)
	}
	e.PutString(t.Title)
	if f.has(6) {
		e.PutString(t.Username)
	}
	e.PutObject(t.Photo)
	e.PutInt(t.Date)
	if f.has(9) {
		tl.PutVector(e, t.RestrictionReason)
	}
	if f.has(14) {
		e.PutObject(t.AdminRights)
	}
	if f.has(15) {
		e.PutObject(t.BannedRights)
	}
	if f.has(18) {
		e.PutObject(t.DefaultBannedRights)
	}
	if f.has(17) {
		e.PutInt(t.ParticipantsCount)
	}
	if f2.has(0) {
		tl.PutVector(e, t.Usernames)
	}
	if f2.has(4) {
		e.PutInt(t.StoriesMaxID)
	}
	if f2.has(7) {
		e.PutObject(t.Color)
	}
	if f2.has(8) {
		e.PutObject(t.ProfileColor)
	}
	putOptObject(e, t.EmojiStatus)
	if f2.has(10) {
		e.PutInt(t.Level)
	}
	return e.CheckErr()
}

func (t *Channel) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	f2 := flags(d.PopUint())
	t.Flags, t.Flags2 = uint32(f), uint32(f2)
	t.ID = d.PopLong()
	if f.has(13) {
		t.AccessHash = d.PopLong()
	}
	t.Title = d.PopString()
	if f.has(6) {
		t.Username = d.PopString()
	}
	t.Photo = tl.PopObjectAs[ChatPhoto](d)
	t.Date = d.PopInt()
	if f.has(9) {
		t.RestrictionReason = tl.PopVector[*RestrictionReason](d)
	}
	if f.has(14) {
		t.AdminRights = tl.PopObjectAs[*ChatAdminRights](d)
	}
	if f.has(15) {
		t.BannedRights = tl.PopObjectAs[*ChatBannedRights](d)
	}
	if f.has(18) {
		t.DefaultBannedRights = tl.PopObjectAs[*ChatBannedRights](d)
	}
	if f.has(17) {
		t.ParticipantsCount = d.PopInt()
	}
	if f2.has(0) {
		t.Usernames = tl.PopVector[*Username](d)
	}
	if f2.has(4) {
		t.StoriesMaxID = d.PopInt()
	}
	if f2.has(7) {
		t.Color = tl.PopObjectAs[*PeerColor](d)
	}
	if f2.has(8) {
		t.ProfileColor = tl.PopObjectAs[*PeerColor](d)
	}
	if f2.has(9) {
		t.EmojiStatus = tl.PopObjectAs[EmojiStatus](d)
	}
	if f2.has(10) {
		t.Level = d.PopInt()
	}
	return d.Err()
}

type ChannelForbidden struct {
	Broadcast  bool
	Megagroup  bool
	ID         int64
	AccessHash int64
	Title      string
	UntilDate  int32
}

func (*ChannelForbidden) CRC() uint32     { return 0x17d493d5 }
func (*ChannelForbidden) ImplementsChat() {}

func (t *ChannelForbidden) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(5, t.Broadcast)
	f.set(8, t.Megagroup)
	f.set(16, t.UntilDate != 0)
	e.PutUint(uint32(f))
	e.PutLong(t.ID)
	e.PutLong(t.AccessHash)
	e.PutString(t.Title)
	if f.has(16) {
		e.PutInt(t.UntilDate)
	}
	return e.CheckErr()
}

func (t *ChannelForbidden) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.Broadcast = f.has(5)
	t.Megagroup = f.has(8)
	t.ID = d.PopLong()
	t.AccessHash = d.PopLong()
	t.Title = d.PopString()
	if f.has(16) {
		t.UntilDate = d.PopInt()
	}
	return d.Err()
}

type ChatPhoto interface {
	tl.Object
	ImplementsChatPhoto()
}

type ChatPhotoEmpty struct{}

func (*ChatPhotoEmpty) CRC() uint32          { return 0x37c1011c }
func (*ChatPhotoEmpty) ImplementsChatPhoto() {}

type ChatPhotoObj struct {
	HasVideo      bool
	PhotoID       int64
	StrippedThumb []byte
	DcID          int32
}

func (*ChatPhotoObj) CRC() uint32          { return 0x1c6e1c11 }
func (*ChatPhotoObj) ImplementsChatPhoto() {}

func (t *ChatPhotoObj) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.HasVideo)
	f.set(1, t.StrippedThumb != nil)
	e.PutUint(uint32(f))
	e.PutLong(t.PhotoID)
	if f.has(1) {
		e.PutMessage(t.StrippedThumb)
	}
	e.PutInt(t.DcID)
	return e.CheckErr()
}

func (t *ChatPhotoObj) UnmarshalTL(d *tl.Decoder) error {
	f := flags(d.PopUint())
	t.HasVideo = f.has(0)
	t.PhotoID = d.PopLong()
	if f.has(1) {
		t.StrippedThumb = d.PopMessage()
	}
	t.DcID = d.PopInt()
	return d.Err()
}

// ChatAdminRights and ChatBannedRights keep their flags raw, every right
// is one bit.
type ChatAdminRights struct {
	Flags uint32
}

func (*ChatAdminRights) CRC() uint32 { return 0x5fb224d5 }

func (t *ChatAdminRights) MarshalTL(e *tl.Encoder) error {
	e.PutUint(t.Flags)
	return e.CheckErr()
}

func (t *ChatAdminRights) UnmarshalTL(d *tl.Decoder) error {
	t.Flags = d.PopUint()
	return d.Err()
}

type ChatBannedRights struct {
	Flags     uint32
	UntilDate int32
}

func (*ChatBannedRights) CRC() uint32 { return 0x9f120418 }

func (t *ChatBannedRights) MarshalTL(e *tl.Encoder) error {
	e.PutUint(t.Flags)
	e.PutInt(t.UntilDate)
	return e.CheckErr()
}

func (t *ChatBannedRights) UnmarshalTL(d *tl.Decoder) error {
	t.Flags = d.PopUint()
	t.UntilDate = d.PopInt()
	return d.Err()
}
