// Copyright (c) 2024 RoseLoverX

package objects

// Some types are decoded in a very specific way, so their decoding logic is stored here and only here.
import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/amarnathcjd/mtproto/internal/encoding/tl"
	"github.com/amarnathcjd/mtproto/internal/mtproto/messages"
)

const (
	CrcRpcResult    uint32 = 0xf35c6d01
	CrcRpcError     uint32 = 0x2144ca19
	CrcGzipPacked   uint32 = 0x3072cfa1
	CrcMsgContainer uint32 = 0x73f1f8dc
)

// TYPES

type ResPQ struct {
	Nonce        tl.Int128
	ServerNonce  tl.Int128
	Pq           []byte
	Fingerprints []int64
}

func (*ResPQ) CRC() uint32 {
	return 0x05162463
}

func (t *ResPQ) MarshalTL(e *tl.Encoder) error {
	e.PutInt128(t.Nonce)
	e.PutInt128(t.ServerNonce)
	e.PutMessage(t.Pq)
	e.PutVectorLong(t.Fingerprints)
	return e.CheckErr()
}

func (t *ResPQ) UnmarshalTL(d *tl.Decoder) error {
	t.Nonce = d.PopInt128()
	t.ServerNonce = d.PopInt128()
	t.Pq = d.PopMessage()
	t.Fingerprints = d.PopVectorLong()
	return d.Err()
}

type PQInnerData struct {
	Pq          []byte
	P           []byte
	Q           []byte
	Nonce       tl.Int128
	ServerNonce tl.Int128
	NewNonce    tl.Int256
}

func (*PQInnerData) CRC() uint32 {
	return 0x83c95aec
}

func (t *PQInnerData) MarshalTL(e *tl.Encoder) error {
	e.PutMessage(t.Pq)
	e.PutMessage(t.P)
	e.PutMessage(t.Q)
	e.PutInt128(t.Nonce)
	e.PutInt128(t.ServerNonce)
	e.PutInt256(t.NewNonce)
	return e.CheckErr()
}

func (t *PQInnerData) UnmarshalTL(d *tl.Decoder) error {
	t.Pq = d.PopMessage()
	t.P = d.PopMessage()
	t.Q = d.PopMessage()
	t.Nonce = d.PopInt128()
	t.ServerNonce = d.PopInt128()
	t.NewNonce = d.PopInt256()
	return d.Err()
}

type ServerDHParams interface {
	tl.Object
	ImplementsServerDHParams()
}

type ServerDHParamsFail struct {
	Nonce        tl.Int128
	ServerNonce  tl.Int128
	NewNonceHash tl.Int128
}

func (*ServerDHParamsFail) ImplementsServerDHParams() {}

func (*ServerDHParamsFail) CRC() uint32 {
	return 0x79cb045d
}

func (t *ServerDHParamsFail) MarshalTL(e *tl.Encoder) error {
	e.PutInt128(t.Nonce)
	e.PutInt128(t.ServerNonce)
	e.PutInt128(t.NewNonceHash)
	return e.CheckErr()
}

func (t *ServerDHParamsFail) UnmarshalTL(d *tl.Decoder) error {
	t.Nonce = d.PopInt128()
	t.ServerNonce = d.PopInt128()
	t.NewNonceHash = d.PopInt128()
	return d.Err()
}

type ServerDHParamsOk struct {
	Nonce           tl.Int128
	ServerNonce     tl.Int128
	EncryptedAnswer []byte
}

func (*ServerDHParamsOk) ImplementsServerDHParams() {}

func (*ServerDHParamsOk) CRC() uint32 {
	return 0xd0e8075c
}

func (t *ServerDHParamsOk) MarshalTL(e *tl.Encoder) error {
	e.PutInt128(t.Nonce)
	e.PutInt128(t.ServerNonce)
	e.PutMessage(t.EncryptedAnswer)
	return e.CheckErr()
}

func (t *ServerDHParamsOk) UnmarshalTL(d *tl.Decoder) error {
	t.Nonce = d.PopInt128()
	t.ServerNonce = d.PopInt128()
	t.EncryptedAnswer = d.PopMessage()
	return d.Err()
}

type ServerDHInnerData struct {
	Nonce       tl.Int128
	ServerNonce tl.Int128
	G           int32
	DhPrime     []byte
	GA          []byte
	ServerTime  int32
}

func (*ServerDHInnerData) CRC() uint32 {
	return 0xb5890dba
}

func (t *ServerDHInnerData) MarshalTL(e *tl.Encoder) error {
	e.PutInt128(t.Nonce)
	e.PutInt128(t.ServerNonce)
	e.PutInt(t.G)
	e.PutMessage(t.DhPrime)
	e.PutMessage(t.GA)
	e.PutInt(t.ServerTime)
	return e.CheckErr()
}

func (t *ServerDHInnerData) UnmarshalTL(d *tl.Decoder) error {
	t.Nonce = d.PopInt128()
	t.ServerNonce = d.PopInt128()
	t.G = d.PopInt()
	t.DhPrime = d.PopMessage()
	t.GA = d.PopMessage()
	t.ServerTime = d.PopInt()
	return d.Err()
}

type ClientDHInnerData struct {
	Nonce       tl.Int128
	ServerNonce tl.Int128
	Retry       int64
	GB          []byte
}

func (*ClientDHInnerData) CRC() uint32 {
	return 0x6643b654
}

func (t *ClientDHInnerData) MarshalTL(e *tl.Encoder) error {
	e.PutInt128(t.Nonce)
	e.PutInt128(t.ServerNonce)
	e.PutLong(t.Retry)
	e.PutMessage(t.GB)
	return e.CheckErr()
}

func (t *ClientDHInnerData) UnmarshalTL(d *tl.Decoder) error {
	t.Nonce = d.PopInt128()
	t.ServerNonce = d.PopInt128()
	t.Retry = d.PopLong()
	t.GB = d.PopMessage()
	return d.Err()
}

type SetClientDHParamsAnswer interface {
	tl.Object
	ImplementsSetClientDHParamsAnswer()
}

// dhGen is the shared layout of dh_gen_ok, dh_gen_retry and dh_gen_fail.
type dhGen struct {
	Nonce       tl.Int128
	ServerNonce tl.Int128
	NonceHash   tl.Int128
}

func (t *dhGen) MarshalTL(e *tl.Encoder) error {
	e.PutInt128(t.Nonce)
	e.PutInt128(t.ServerNonce)
	e.PutInt128(t.NonceHash)
	return e.CheckErr()
}

func (t *dhGen) UnmarshalTL(d *tl.Decoder) error {
	t.Nonce = d.PopInt128()
	t.ServerNonce = d.PopInt128()
	t.NonceHash = d.PopInt128()
	return d.Err()
}

func (*dhGen) ImplementsSetClientDHParamsAnswer() {}

// DHGenOk carries new_nonce_hash1.
type DHGenOk struct{ dhGen }

func (*DHGenOk) CRC() uint32 {
	return 0x3bcbf734
}

// DHGenRetry carries new_nonce_hash2.
type DHGenRetry struct{ dhGen }

func (*DHGenRetry) CRC() uint32 {
	return 0x46dc1fb9
}

// DHGenFail carries new_nonce_hash3.
type DHGenFail struct{ dhGen }

func (*DHGenFail) CRC() uint32 {
	return 0xa69dae02
}

// RpcResult keeps the result undecoded: how it is read depends on the
// request it answers, which only the session knows.
type RpcResult struct {
	ReqMsgID int64
	Body     []byte
}

func (*RpcResult) CRC() uint32 {
	return CrcRpcResult
}

func (t *RpcResult) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.ReqMsgID)
	e.PutRawBytes(t.Body)
	return e.CheckErr()
}

func (t *RpcResult) UnmarshalTL(d *tl.Decoder) error {
	t.ReqMsgID = d.PopLong()
	t.Body = d.GetRestOfMessage()
	return d.Err()
}

type RpcError struct {
	ErrorCode    int32
	ErrorMessage string
}

func (*RpcError) CRC() uint32 {
	return 0x2144ca19
}

func (t *RpcError) MarshalTL(e *tl.Encoder) error {
	e.PutInt(t.ErrorCode)
	e.PutString(t.ErrorMessage)
	return e.CheckErr()
}

func (t *RpcError) UnmarshalTL(d *tl.Decoder) error {
	t.ErrorCode = d.PopInt()
	t.ErrorMessage = d.PopString()
	return d.Err()
}

type RpcDropAnswer interface {
	tl.Object
	ImplementsRpcDropAnswer()
}

type RpcAnswerUnknown struct{}

func (*RpcAnswerUnknown) ImplementsRpcDropAnswer() {}

func (*RpcAnswerUnknown) CRC() uint32 {
	return 0x5e2ad36e
}

type RpcAnswerDroppedRunning struct{}

func (*RpcAnswerDroppedRunning) ImplementsRpcDropAnswer() {}

func (*RpcAnswerDroppedRunning) CRC() uint32 {
	return 0xcd78e586
}

type RpcAnswerDropped struct {
	MsgID int64
	SeqNo int32
	Bytes int32
}

func (*RpcAnswerDropped) ImplementsRpcDropAnswer() {}

func (*RpcAnswerDropped) CRC() uint32 {
	return 0xa43ad8b7
}

func (t *RpcAnswerDropped) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.MsgID)
	e.PutInt(t.SeqNo)
	e.PutInt(t.Bytes)
	return e.CheckErr()
}

func (t *RpcAnswerDropped) UnmarshalTL(d *tl.Decoder) error {
	t.MsgID = d.PopLong()
	t.SeqNo = d.PopInt()
	t.Bytes = d.PopInt()
	return d.Err()
}

type FutureSalt struct {
	ValidSince int32
	ValidUntil int32
	Salt       int64
}

func (*FutureSalt) CRC() uint32 {
	return 0x0949d9dc
}

func (t *FutureSalt) MarshalTL(e *tl.Encoder) error {
	e.PutInt(t.ValidSince)
	e.PutInt(t.ValidUntil)
	e.PutLong(t.Salt)
	return e.CheckErr()
}

func (t *FutureSalt) UnmarshalTL(d *tl.Decoder) error {
	t.ValidSince = d.PopInt()
	t.ValidUntil = d.PopInt()
	t.Salt = d.PopLong()
	return d.Err()
}

// FutureSalts holds salts as vector<future_salt>: a bare count followed by
// bare elements.
type FutureSalts struct {
	ReqMsgID int64
	Now      int32
	Salts    []*FutureSalt
}

func (*FutureSalts) CRC() uint32 {
	return 0xae500895
}

func (t *FutureSalts) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.ReqMsgID)
	e.PutInt(t.Now)
	e.PutUint(uint32(len(t.Salts)))
	for _, s := range t.Salts {
		if err := s.MarshalTL(e); err != nil {
			return err
		}
	}
	return e.CheckErr()
}

func (t *FutureSalts) UnmarshalTL(d *tl.Decoder) error {
	t.ReqMsgID = d.PopLong()
	t.Now = d.PopInt()
	count := int(d.PopUint())
	if d.Err() != nil {
		return d.Err()
	}
	if count*(tl.WordLen*2+tl.LongLen) > d.Len() {
		return &tl.ErrCountMismatch{Count: uint32(count), Remaining: d.Len()}
	}
	t.Salts = make([]*FutureSalt, count)
	for i := range t.Salts {
		t.Salts[i] = new(FutureSalt)
		if err := t.Salts[i].UnmarshalTL(d); err != nil {
			return err
		}
	}
	return d.Err()
}

type Pong struct {
	MsgID  int64
	PingID int64
}

func (*Pong) CRC() uint32 {
	return 0x347773c5
}

func (t *Pong) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.MsgID)
	e.PutLong(t.PingID)
	return e.CheckErr()
}

func (t *Pong) UnmarshalTL(d *tl.Decoder) error {
	t.MsgID = d.PopLong()
	t.PingID = d.PopLong()
	return d.Err()
}

type DestroySessionRes interface {
	tl.Object
	ImplementsDestroySessionRes()
}

type DestroySessionOk struct {
	SessionID int64
}

func (*DestroySessionOk) ImplementsDestroySessionRes() {}

func (*DestroySessionOk) CRC() uint32 {
	return 0xe22045fc
}

func (t *DestroySessionOk) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.SessionID)
	return e.CheckErr()
}

func (t *DestroySessionOk) UnmarshalTL(d *tl.Decoder) error {
	t.SessionID = d.PopLong()
	return d.Err()
}

type DestroySessionNone struct {
	SessionID int64
}

func (*DestroySessionNone) ImplementsDestroySessionRes() {}

func (*DestroySessionNone) CRC() uint32 {
	return 0x62d350c9
}

func (t *DestroySessionNone) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.SessionID)
	return e.CheckErr()
}

func (t *DestroySessionNone) UnmarshalTL(d *tl.Decoder) error {
	t.SessionID = d.PopLong()
	return d.Err()
}

type NewSessionCreated struct {
	FirstMsgID int64
	UniqueID   int64
	ServerSalt int64
}

func (*NewSessionCreated) CRC() uint32 {
	return 0x9ec20908
}

func (t *NewSessionCreated) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.FirstMsgID)
	e.PutLong(t.UniqueID)
	e.PutLong(t.ServerSalt)
	return e.CheckErr()
}

func (t *NewSessionCreated) UnmarshalTL(d *tl.Decoder) error {
	t.FirstMsgID = d.PopLong()
	t.UniqueID = d.PopLong()
	t.ServerSalt = d.PopLong()
	return d.Err()
}

// This is an exception to the usual vector handling rules.
//
// The data is encoded as `msg_container#73f1f8dc messages:vector<%Message> = MessageContainer;`.
// The vector is bare and so is every message in it: no constructor ids, only
// msg_id, seqno, length and the body.
type MessageContainer []*messages.Encrypted

func (*MessageContainer) CRC() uint32 {
	return CrcMsgContainer
}

func (t *MessageContainer) MarshalTL(e *tl.Encoder) error {
	e.PutInt(int32(len(*t)))
	for _, msg := range *t {
		e.PutLong(msg.MsgID)
		e.PutInt(msg.SeqNo)
		e.PutInt(int32(len(msg.Msg)))
		e.PutRawBytes(msg.Msg)
	}
	return e.CheckErr()
}

func (t *MessageContainer) UnmarshalTL(d *tl.Decoder) error {
	count := int(d.PopInt())
	if d.Err() != nil {
		return d.Err()
	}
	// msg_id + seqno + bytes, body may be empty
	if count < 0 || count*(tl.LongLen+tl.WordLen*2) > d.Len() {
		return &tl.ErrCountMismatch{Count: uint32(count), Remaining: d.Len()}
	}

	arr := make([]*messages.Encrypted, count)
	for i := 0; i < count; i++ {
		msg := new(messages.Encrypted)
		msg.MsgID = d.PopLong()
		msg.SeqNo = d.PopInt()
		size := d.PopInt()
		msg.Msg = d.PopRawBytes(int(size))
		if d.Err() != nil {
			return d.Err()
		}
		arr[i] = msg
	}
	*t = arr

	return nil
}

// GzipPacked wraps a compressed object. Decoding leaves the inflated bytes in
// Data; Obj is set when the inner object could be decoded as a boxed object.
type GzipPacked struct {
	Obj  tl.Object
	Data []byte
}

func (*GzipPacked) CRC() uint32 {
	return CrcGzipPacked
}

func (t *GzipPacked) MarshalTL(e *tl.Encoder) error {
	data := t.Data
	if t.Obj != nil {
		var err error
		if data, err = tl.Marshal(t.Obj); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		return fmt.Errorf("compressing: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("compressing: %w", err)
	}
	e.PutMessage(buf.Bytes())
	return e.CheckErr()
}

func (t *GzipPacked) UnmarshalTL(d *tl.Decoder) error {
	packed := d.PopMessage()
	if d.Err() != nil {
		return d.Err()
	}

	var err error
	t.Data, err = Gunzip(packed)
	if err != nil {
		return err
	}

	if reg := d.Registry(); reg != nil {
		// rpc results inside are decoded by the session with their own hint
		if obj, err := reg.Decode(t.Data); err == nil {
			t.Obj = obj
		}
	}
	return nil
}

// Gunzip inflates the payload of a gzip_packed object.
func Gunzip(packed []byte) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(packed))
	if err != nil {
		return nil, fmt.Errorf("creating gzip reader: %w", err)
	}
	defer gz.Close()

	out, err := io.ReadAll(gz)
	if err != nil {
		return nil, fmt.Errorf("inflating gzip_packed: %w", err)
	}
	return out, nil
}

type MsgsAck struct {
	MsgIDs []int64
}

func (*MsgsAck) CRC() uint32 {
	return 0x62d6b459
}

func (t *MsgsAck) MarshalTL(e *tl.Encoder) error {
	e.PutVectorLong(t.MsgIDs)
	return e.CheckErr()
}

func (t *MsgsAck) UnmarshalTL(d *tl.Decoder) error {
	t.MsgIDs = d.PopVectorLong()
	return d.Err()
}

type BadMsgNotification struct {
	BadMsgID    int64
	BadMsgSeqNo int32
	Code        int32
}

func (*BadMsgNotification) ImplementsBadMsgNotification() {}

func (*BadMsgNotification) CRC() uint32 {
	return 0xa7eff811
}

func (t *BadMsgNotification) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.BadMsgID)
	e.PutInt(t.BadMsgSeqNo)
	e.PutInt(t.Code)
	return e.CheckErr()
}

func (t *BadMsgNotification) UnmarshalTL(d *tl.Decoder) error {
	t.BadMsgID = d.PopLong()
	t.BadMsgSeqNo = d.PopInt()
	t.Code = d.PopInt()
	return d.Err()
}

type BadServerSalt struct {
	BadMsgID    int64
	BadMsgSeqNo int32
	ErrorCode   int32
	NewSalt     int64
}

func (*BadServerSalt) ImplementsBadMsgNotification() {}

func (*BadServerSalt) CRC() uint32 {
	return 0xedab447b
}

func (t *BadServerSalt) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.BadMsgID)
	e.PutInt(t.BadMsgSeqNo)
	e.PutInt(t.ErrorCode)
	e.PutLong(t.NewSalt)
	return e.CheckErr()
}

func (t *BadServerSalt) UnmarshalTL(d *tl.Decoder) error {
	t.BadMsgID = d.PopLong()
	t.BadMsgSeqNo = d.PopInt()
	t.ErrorCode = d.PopInt()
	t.NewSalt = d.PopLong()
	return d.Err()
}

// msgIDs is the layout shared by msg_resend_req and msgs_state_req.
type msgIDs struct {
	MsgIDs []int64
}

func (t *msgIDs) MarshalTL(e *tl.Encoder) error {
	e.PutVectorLong(t.MsgIDs)
	return e.CheckErr()
}

func (t *msgIDs) UnmarshalTL(d *tl.Decoder) error {
	t.MsgIDs = d.PopVectorLong()
	return d.Err()
}

type MsgResendReq struct{ msgIDs }

func (*MsgResendReq) CRC() uint32 {
	return 0x7d861a08
}

type MsgsStateReq struct{ msgIDs }

func (*MsgsStateReq) CRC() uint32 {
	return 0xda69fb52
}

type MsgsStateInfo struct {
	ReqMsgID int64
	Info     []byte
}

func (*MsgsStateInfo) CRC() uint32 {
	return 0x04deb57d
}

func (t *MsgsStateInfo) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.ReqMsgID)
	e.PutMessage(t.Info)
	return e.CheckErr()
}

func (t *MsgsStateInfo) UnmarshalTL(d *tl.Decoder) error {
	t.ReqMsgID = d.PopLong()
	t.Info = d.PopMessage()
	return d.Err()
}

type MsgsAllInfo struct {
	MsgIDs []int64
	Info   []byte
}

func (*MsgsAllInfo) CRC() uint32 {
	return 0x8cc0d131
}

func (t *MsgsAllInfo) MarshalTL(e *tl.Encoder) error {
	e.PutVectorLong(t.MsgIDs)
	e.PutMessage(t.Info)
	return e.CheckErr()
}

func (t *MsgsAllInfo) UnmarshalTL(d *tl.Decoder) error {
	t.MsgIDs = d.PopVectorLong()
	t.Info = d.PopMessage()
	return d.Err()
}

type MsgsDetailedInfo struct {
	MsgID       int64
	AnswerMsgID int64
	Bytes       int32
	Status      int32
}

func (*MsgsDetailedInfo) CRC() uint32 {
	return 0x276d3ec6
}

func (t *MsgsDetailedInfo) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.MsgID)
	e.PutLong(t.AnswerMsgID)
	e.PutInt(t.Bytes)
	e.PutInt(t.Status)
	return e.CheckErr()
}

func (t *MsgsDetailedInfo) UnmarshalTL(d *tl.Decoder) error {
	t.MsgID = d.PopLong()
	t.AnswerMsgID = d.PopLong()
	t.Bytes = d.PopInt()
	t.Status = d.PopInt()
	return d.Err()
}

type MsgsNewDetailedInfo struct {
	AnswerMsgID int64
	Bytes       int32
	Status      int32
}

func (*MsgsNewDetailedInfo) CRC() uint32 {
	return 0x809db6df
}

func (t *MsgsNewDetailedInfo) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.AnswerMsgID)
	e.PutInt(t.Bytes)
	e.PutInt(t.Status)
	return e.CheckErr()
}

func (t *MsgsNewDetailedInfo) UnmarshalTL(d *tl.Decoder) error {
	t.AnswerMsgID = d.PopLong()
	t.Bytes = d.PopInt()
	t.Status = d.PopInt()
	return d.Err()
}
