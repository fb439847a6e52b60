// Copyright (c) 2024 RoseLoverX

package telegram

import (
	"context"

	"github.com/pkg/errors"

	"github.com/amarnathcjd/mtproto/internal/encoding/tl"
)

// Invoker sends one request and waits for its result.
type Invoker interface {
	Invoke(ctx context.Context, req tl.Object) (any, error)
}

func expect[T any](data any, err error, method string) (T, error) {
	var zero T
	if err != nil {
		return zero, errors.Wrapf(err, "sending %s", method)
	}
	resp, ok := data.(T)
	if !ok {
		return zero, errors.Errorf("%s: got invalid response type: %T", method, data)
	}
	return resp, nil
}

// expectVector unpacks a Vector<T> read with tl.HintObjects.
func expectVector[T any](data any, err error, method string) ([]T, error) {
	items, err := expect[[]any](data, err, method)
	if err != nil {
		return nil, err
	}
	res := make([]T, 0, len(items))
	for _, item := range items {
		v, ok := item.(T)
		if !ok {
			return nil, errors.Errorf("%s: got invalid vector element: %T", method, item)
		}
		res = append(res, v)
	}
	return res, nil
}

// ---------------------------- connection ----------------------------

type InvokeWithLayerParams struct {
	Layer int32
	Query tl.Object
}

func (*InvokeWithLayerParams) CRC() uint32 { return 0xda9b0d0d }

func (t *InvokeWithLayerParams) ResultHint() tl.Hint { return tl.HintOf(t.Query) }

func (t *InvokeWithLayerParams) MarshalTL(e *tl.Encoder) error {
	e.PutInt(t.Layer)
	e.PutObject(t.Query)
	return e.CheckErr()
}

// InitConnectionParams has to wrap the first request of every session.
type InitConnectionParams struct {
	APIID          int32
	DeviceModel    string
	SystemVersion  string
	AppVersion     string
	SystemLangCode string
	LangPack       string
	LangCode       string
	Query          tl.Object
}

func (*InitConnectionParams) CRC() uint32 { return 0xc1cd5ea9 }

func (t *InitConnectionParams) ResultHint() tl.Hint { return tl.HintOf(t.Query) }

func (t *InitConnectionParams) MarshalTL(e *tl.Encoder) error {
	e.PutUint(0)
	e.PutInt(t.APIID)
	e.PutString(t.DeviceModel)
	e.PutString(t.SystemVersion)
	e.PutString(t.AppVersion)
	e.PutString(t.SystemLangCode)
	e.PutString(t.LangPack)
	e.PutString(t.LangCode)
	e.PutObject(t.Query)
	return e.CheckErr()
}

// HelpGetConfigParams is only sent to open a connection, its answer is
// kept undecoded.
type HelpGetConfigParams struct{}

func (*HelpGetConfigParams) CRC() uint32         { return 0xc4f9186b }
func (*HelpGetConfigParams) ResultHint() tl.Hint { return tl.HintRaw }

// ---------------------------- auth ----------------------------

type AuthExportAuthorizationParams struct {
	DcID int32
}

func (*AuthExportAuthorizationParams) CRC() uint32 { return 0xe5bfffcd }

func (t *AuthExportAuthorizationParams) MarshalTL(e *tl.Encoder) error {
	e.PutInt(t.DcID)
	return e.CheckErr()
}

type AuthExportedAuthorization struct {
	ID    int64
	Bytes []byte
}

func (*AuthExportedAuthorization) CRC() uint32 { return 0xb434e2b8 }

func (t *AuthExportedAuthorization) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.ID)
	e.PutMessage(t.Bytes)
	return e.CheckErr()
}

func (t *AuthExportedAuthorization) UnmarshalTL(d *tl.Decoder) error {
	t.ID = d.PopLong()
	t.Bytes = d.PopMessage()
	return d.Err()
}

func AuthExportAuthorization(ctx context.Context, m Invoker, dcID int32) (*AuthExportedAuthorization, error) {
	data, err := m.Invoke(ctx, &AuthExportAuthorizationParams{DcID: dcID})
	return expect[*AuthExportedAuthorization](data, err, "AuthExportAuthorization")
}

type AuthImportAuthorizationParams struct {
	ID    int64
	Bytes []byte
}

func (*AuthImportAuthorizationParams) CRC() uint32         { return 0xa57a7dad }
func (*AuthImportAuthorizationParams) ResultHint() tl.Hint { return tl.HintRaw }

func (t *AuthImportAuthorizationParams) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.ID)
	e.PutMessage(t.Bytes)
	return e.CheckErr()
}

// AuthImportAuthorization only reports success, the authorization the
// server returns is not needed by a media session.
func AuthImportAuthorization(ctx context.Context, m Invoker, id int64, bytes []byte) error {
	_, err := m.Invoke(ctx, &AuthImportAuthorizationParams{ID: id, Bytes: bytes})
	if err != nil {
		return errors.Wrap(err, "sending AuthImportAuthorization")
	}
	return nil
}

// ---------------------------- users & contacts ----------------------------

type UsersGetUsersParams struct {
	ID []InputUser
}

func (*UsersGetUsersParams) CRC() uint32         { return 0x0d91a548 }
func (*UsersGetUsersParams) ResultHint() tl.Hint { return tl.HintObjects }

func (t *UsersGetUsersParams) MarshalTL(e *tl.Encoder) error {
	tl.PutVector(e, t.ID)
	return e.CheckErr()
}

func UsersGetUsers(ctx context.Context, m Invoker, id ...InputUser) ([]User, error) {
	data, err := m.Invoke(ctx, &UsersGetUsersParams{ID: id})
	return expectVector[User](data, err, "UsersGetUsers")
}

type ContactsResolveUsernameParams struct {
	Username string
}

func (*ContactsResolveUsernameParams) CRC() uint32 { return 0xf93ccba3 }

func (t *ContactsResolveUsernameParams) MarshalTL(e *tl.Encoder) error {
	e.PutString(t.Username)
	return e.CheckErr()
}

type ContactsResolvedPeer struct {
	Peer  Peer
	Chats []Chat
	Users []User
}

func (*ContactsResolvedPeer) CRC() uint32 { return 0x7f077ad9 }

func (t *ContactsResolvedPeer) MarshalTL(e *tl.Encoder) error {
	e.PutObject(t.Peer)
	tl.PutVector(e, t.Chats)
	tl.PutVector(e, t.Users)
	return e.CheckErr()
}

func (t *ContactsResolvedPeer) UnmarshalTL(d *tl.Decoder) error {
	t.Peer = tl.PopObjectAs[Peer](d)
	t.Chats = tl.PopVector[Chat](d)
	t.Users = tl.PopVector[User](d)
	return d.Err()
}

func ContactsResolveUsername(ctx context.Context, m Invoker, username string) (*ContactsResolvedPeer, error) {
	data, err := m.Invoke(ctx, &ContactsResolveUsernameParams{Username: username})
	return expect[*ContactsResolvedPeer](data, err, "ContactsResolveUsername")
}

// ---------------------------- messages ----------------------------

type MessagesSendMessageParams struct {
	NoWebpage   bool
	Silent      bool
	Peer        InputPeer
	Message     string
	RandomID    int64
	ReplyMarkup ReplyMarkup
	Entities    []*MessageEntity
}

func (*MessagesSendMessageParams) CRC() uint32 { return 0x280d096f }

func (t *MessagesSendMessageParams) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(1, t.NoWebpage)
	f.set(2, t.ReplyMarkup != nil)
	f.set(3, len(t.Entities) > 0)
	f.set(5, t.Silent)
	e.PutUint(uint32(f))
	e.PutObject(t.Peer)
	e.PutString(t.Message)
	e.PutLong(t.RandomID)
	putOptObject(e, t.ReplyMarkup)
	if f.has(3) {
		tl.PutVector(e, t.Entities)
	}
	return e.CheckErr()
}

func MessagesSendMessage(ctx context.Context, m Invoker, params *MessagesSendMessageParams) (Updates, error) {
	data, err := m.Invoke(ctx, params)
	return expect[Updates](data, err, "MessagesSendMessage")
}

type MessagesSetBotCallbackAnswerParams struct {
	Alert     bool
	QueryID   int64
	Message   string
	URL       string
	CacheTime int32
}

func (*MessagesSetBotCallbackAnswerParams) CRC() uint32 { return 0xd58f130a }

func (t *MessagesSetBotCallbackAnswerParams) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.Message != "")
	f.set(1, t.Alert)
	f.set(2, t.URL != "")
	e.PutUint(uint32(f))
	e.PutLong(t.QueryID)
	if f.has(0) {
		e.PutString(t.Message)
	}
	if f.has(2) {
		e.PutString(t.URL)
	}
	e.PutInt(t.CacheTime)
	return e.CheckErr()
}

func MessagesSetBotCallbackAnswer(ctx context.Context, m Invoker, params *MessagesSetBotCallbackAnswerParams) (bool, error) {
	data, err := m.Invoke(ctx, params)
	return expect[bool](data, err, "MessagesSetBotCallbackAnswer")
}

// ---------------------------- updates ----------------------------

type UpdatesGetStateParams struct{}

func (*UpdatesGetStateParams) CRC() uint32 { return 0xedd4882a }

func UpdatesGetState(ctx context.Context, m Invoker) (*UpdatesState, error) {
	data, err := m.Invoke(ctx, &UpdatesGetStateParams{})
	return expect[*UpdatesState](data, err, "UpdatesGetState")
}

type UpdatesGetDifferenceParams struct {
	Pts           int32
	PtsTotalLimit int32
	Date          int32
	Qts           int32
}

func (*UpdatesGetDifferenceParams) CRC() uint32 { return 0x25939651 }

func (t *UpdatesGetDifferenceParams) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.PtsTotalLimit != 0)
	e.PutUint(uint32(f))
	e.PutInt(t.Pts)
	if f.has(0) {
		e.PutInt(t.PtsTotalLimit)
	}
	e.PutInt(t.Date)
	e.PutInt(t.Qts)
	return e.CheckErr()
}

func UpdatesGetDifference(ctx context.Context, m Invoker, params *UpdatesGetDifferenceParams) (UpdatesDifference, error) {
	data, err := m.Invoke(ctx, params)
	return expect[UpdatesDifference](data, err, "UpdatesGetDifference")
}

type UpdatesGetChannelDifferenceParams struct {
	Force   bool
	Channel InputChannel
	Filter  ChannelMessagesFilter
	Pts     int32
	Limit   int32
}

func (*UpdatesGetChannelDifferenceParams) CRC() uint32 { return 0x03173d78 }

func (t *UpdatesGetChannelDifferenceParams) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.Force)
	e.PutUint(uint32(f))
	e.PutObject(t.Channel)
	e.PutObject(t.Filter)
	e.PutInt(t.Pts)
	e.PutInt(t.Limit)
	return e.CheckErr()
}

func UpdatesGetChannelDifference(ctx context.Context, m Invoker, params *UpdatesGetChannelDifferenceParams) (UpdatesChannelDifference, error) {
	data, err := m.Invoke(ctx, params)
	return expect[UpdatesChannelDifference](data, err, "UpdatesGetChannelDifference")
}

// ---------------------------- upload ----------------------------

type UploadGetFileParams struct {
	Precise      bool
	CdnSupported bool
	Location     InputFileLocation
	Offset       int64
	Limit        int32
}

func (*UploadGetFileParams) CRC() uint32 { return 0xbe5335be }

func (t *UploadGetFileParams) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.Precise)
	f.set(1, t.CdnSupported)
	e.PutUint(uint32(f))
	e.PutObject(t.Location)
	e.PutLong(t.Offset)
	e.PutInt(t.Limit)
	return e.CheckErr()
}

func UploadGetFile(ctx context.Context, m Invoker, params *UploadGetFileParams) (UploadFile, error) {
	data, err := m.Invoke(ctx, params)
	return expect[UploadFile](data, err, "UploadGetFile")
}

type UploadGetCdnFileParams struct {
	FileToken []byte
	Offset    int64
	Limit     int32
}

func (*UploadGetCdnFileParams) CRC() uint32 { return 0x395f69da }

func (t *UploadGetCdnFileParams) MarshalTL(e *tl.Encoder) error {
	e.PutMessage(t.FileToken)
	e.PutLong(t.Offset)
	e.PutInt(t.Limit)
	return e.CheckErr()
}

func UploadGetCdnFile(ctx context.Context, m Invoker, params *UploadGetCdnFileParams) (UploadCdnFile, error) {
	data, err := m.Invoke(ctx, params)
	return expect[UploadCdnFile](data, err, "UploadGetCdnFile")
}

type UploadReuploadCdnFileParams struct {
	FileToken    []byte
	RequestToken []byte
}

func (*UploadReuploadCdnFileParams) CRC() uint32         { return 0x9b2754a8 }
func (*UploadReuploadCdnFileParams) ResultHint() tl.Hint { return tl.HintObjects }

func (t *UploadReuploadCdnFileParams) MarshalTL(e *tl.Encoder) error {
	e.PutMessage(t.FileToken)
	e.PutMessage(t.RequestToken)
	return e.CheckErr()
}

func UploadReuploadCdnFile(ctx context.Context, m Invoker, fileToken, requestToken []byte) ([]*FileHash, error) {
	data, err := m.Invoke(ctx, &UploadReuploadCdnFileParams{FileToken: fileToken, RequestToken: requestToken})
	return expectVector[*FileHash](data, err, "UploadReuploadCdnFile")
}

type UploadGetCdnFileHashesParams struct {
	FileToken []byte
	Offset    int64
}

func (*UploadGetCdnFileHashesParams) CRC() uint32         { return 0x91dc3f31 }
func (*UploadGetCdnFileHashesParams) ResultHint() tl.Hint { return tl.HintObjects }

func (t *UploadGetCdnFileHashesParams) MarshalTL(e *tl.Encoder) error {
	e.PutMessage(t.FileToken)
	e.PutLong(t.Offset)
	return e.CheckErr()
}

func UploadGetCdnFileHashes(ctx context.Context, m Invoker, fileToken []byte, offset int64) ([]*FileHash, error) {
	data, err := m.Invoke(ctx, &UploadGetCdnFileHashesParams{FileToken: fileToken, Offset: offset})
	return expectVector[*FileHash](data, err, "UploadGetCdnFileHashes")
}

type UploadSaveFilePartParams struct {
	FileID   int64
	FilePart int32
	Bytes    []byte
}

func (*UploadSaveFilePartParams) CRC() uint32 { return 0xb304a621 }

func (t *UploadSaveFilePartParams) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.FileID)
	e.PutInt(t.FilePart)
	e.PutMessage(t.Bytes)
	return e.CheckErr()
}

func UploadSaveFilePart(ctx context.Context, m Invoker, fileID int64, part int32, bytes []byte) (bool, error) {
	data, err := m.Invoke(ctx, &UploadSaveFilePartParams{FileID: fileID, FilePart: part, Bytes: bytes})
	return expect[bool](data, err, "UploadSaveFilePart")
}

type UploadSaveBigFilePartParams struct {
	FileID         int64
	FilePart       int32
	FileTotalParts int32
	Bytes          []byte
}

func (*UploadSaveBigFilePartParams) CRC() uint32 { return 0xde7b673d }

func (t *UploadSaveBigFilePartParams) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.FileID)
	e.PutInt(t.FilePart)
	e.PutInt(t.FileTotalParts)
	e.PutMessage(t.Bytes)
	return e.CheckErr()
}

func UploadSaveBigFilePart(ctx context.Context, m Invoker, fileID int64, part, totalParts int32, bytes []byte) (bool, error) {
	data, err := m.Invoke(ctx, &UploadSaveBigFilePartParams{FileID: fileID, FilePart: part, FileTotalParts: totalParts, Bytes: bytes})
	return expect[bool](data, err, "UploadSaveBigFilePart")
}

// ---------------------------- help ----------------------------

type HelpGetCdnConfigParams struct{}

func (*HelpGetCdnConfigParams) CRC() uint32 { return 0x52029342 }

// CdnPublicKey is the PEM encoded RSA key a CDN datacenter signs its
// handshake with.
type CdnPublicKey struct {
	DcID      int32
	PublicKey string
}

func (*CdnPublicKey) CRC() uint32 { return 0xc982eaba }

func (t *CdnPublicKey) MarshalTL(e *tl.Encoder) error {
	e.PutInt(t.DcID)
	e.PutString(t.PublicKey)
	return e.CheckErr()
}

func (t *CdnPublicKey) UnmarshalTL(d *tl.Decoder) error {
	t.DcID = d.PopInt()
	t.PublicKey = d.PopString()
	return d.Err()
}

type CdnConfig struct {
	PublicKeys []*CdnPublicKey
}

func (*CdnConfig) CRC() uint32 { return 0x5725e40a }

func (t *CdnConfig) MarshalTL(e *tl.Encoder) error {
	tl.PutVector(e, t.PublicKeys)
	return e.CheckErr()
}

func (t *CdnConfig) UnmarshalTL(d *tl.Decoder) error {
	t.PublicKeys = tl.PopVector[*CdnPublicKey](d)
	return d.Err()
}

func HelpGetCdnConfig(ctx context.Context, m Invoker) (*CdnConfig, error) {
	data, err := m.Invoke(ctx, &HelpGetCdnConfigParams{})
	return expect[*CdnConfig](data, err, "HelpGetCdnConfig")
}
