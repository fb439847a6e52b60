// Copyright (c) 2024 RoseLoverX

package messages

// messages provides functions for encoding and decoding messages in MTProto.
// It handles the serialization and deserialization of messages using the MTProto protocol.
import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"

	ige "github.com/amarnathcjd/mtproto/internal/aes_ige"
	"github.com/amarnathcjd/mtproto/internal/encoding/tl"
	"github.com/amarnathcjd/mtproto/internal/utils"
)

// header of the plaintext: salt, session_id, message_id, seq_no, message_data_length
const encryptedHeaderLen = tl.LongLen + tl.LongLen + tl.LongLen + tl.WordLen + tl.WordLen

// ErrWrongAuthKey is returned for packets encrypted with another key.
var ErrWrongAuthKey = errors.New("wrong encryption key")

// Common is a message (either encrypted or unencrypted) used for communication between the client and server.
type Common interface {
	GetMsg() []byte
	GetMsgID() int64
	GetSeqNo() int32
}

type Encrypted struct {
	Msg   []byte
	MsgID int64

	Salt      int64
	SessionID int64
	SeqNo     int32
}

// Serialize encrypts the message with the session state of client.
func (msg *Encrypted) Serialize(client MessageInformator) ([]byte, error) {
	obj := serializePacket(client, msg.Msg, msg.MsgID, msg.SeqNo)
	encryptedData, msgKey, err := ige.Encrypt(obj, client.GetAuthKey())
	if err != nil {
		return nil, fmt.Errorf("encrypting: %w", err)
	}

	out := make([]byte, 0, tl.LongLen+len(msgKey)+len(encryptedData))
	out = append(out, utils.AuthKeyHash(client.GetAuthKey())...)
	out = append(out, msgKey...)
	out = append(out, encryptedData...)
	return out, nil
}

func DeserializeEncrypted(data, authKey []byte) (*Encrypted, error) {
	if len(data) < tl.LongLen+tl.Int128Len+encryptedHeaderLen {
		return nil, errors.Errorf("encrypted packet too short: %d bytes", len(data))
	}

	if !bytes.Equal(data[:tl.LongLen], utils.AuthKeyHash(authKey)) {
		return nil, ErrWrongAuthKey
	}
	msgKey := data[tl.LongLen : tl.LongLen+tl.Int128Len]
	encryptedData := data[tl.LongLen+tl.Int128Len:]

	decrypted, err := ige.Decrypt(encryptedData, authKey, msgKey)
	if err != nil {
		return nil, fmt.Errorf("decrypting message: %w", err)
	}

	msg := new(Encrypted)
	d := tl.NewDecoder(decrypted)
	msg.Salt = d.PopLong()
	msg.SessionID = d.PopLong()
	msg.MsgID = d.PopLong()
	msg.SeqNo = d.PopInt()
	messageLen := d.PopInt()
	if messageLen < 0 || int(messageLen) > d.Len() || messageLen%tl.WordLen != 0 {
		return nil, fmt.Errorf("message is smaller than it's defining: have %v, but messageLen is %v", d.Len(), messageLen)
	}

	if err := checkMsgID(msg.MsgID); err != nil {
		return nil, err
	}

	msg.Msg = d.PopRawBytes(int(messageLen))
	return msg, d.Err()
}

func (msg *Encrypted) GetMsg() []byte {
	return msg.Msg
}

func (msg *Encrypted) GetMsgID() int64 {
	return msg.MsgID
}

func (msg *Encrypted) GetSeqNo() int32 {
	return msg.SeqNo
}

type Unencrypted struct {
	Msg   []byte
	MsgID int64
}

func (msg *Unencrypted) Serialize() []byte {
	buf := bytes.NewBuffer(nil)
	e := tl.NewEncoder(buf)
	// authKeyHash, always 0 if unencrypted
	e.PutLong(0)
	e.PutLong(msg.MsgID)
	e.PutInt(int32(len(msg.Msg)))
	e.PutRawBytes(msg.Msg)
	return buf.Bytes()
}

func DeserializeUnencrypted(data []byte) (*Unencrypted, error) {
	msg := new(Unencrypted)
	d := tl.NewDecoder(data)
	_ = d.PopRawBytes(tl.LongLen) // authKeyHash, always 0 if unencrypted

	msg.MsgID = d.PopLong()
	messageLen := d.PopUint()
	if err := d.Err(); err != nil {
		return nil, errors.Wrap(err, "reading header")
	}

	if err := checkMsgID(msg.MsgID); err != nil {
		return nil, err
	}

	if d.Len() != int(messageLen) {
		return nil, fmt.Errorf("message not equal defined size: have %v, want %v", d.Len(), messageLen)
	}

	msg.Msg = d.GetRestOfMessage()
	return msg, nil
}

func (msg *Unencrypted) GetMsg() []byte {
	return msg.Msg
}

func (msg *Unencrypted) GetMsgID() int64 {
	return msg.MsgID
}

func (msg *Unencrypted) GetSeqNo() int32 {
	return 0
}

// IsEncrypted reports whether a packet carries a non zero auth key id.
func IsEncrypted(data []byte) bool {
	if len(data) < tl.LongLen {
		return false
	}
	return binary.LittleEndian.Uint64(data[:tl.LongLen]) != 0
}

// server message ids are odd: 1 for responses, 3 for everything else.
func checkMsgID(id int64) error {
	if mod := id & 3; mod != 1 && mod != 3 {
		return fmt.Errorf("wrong bits of message_id: %d", mod)
	}
	return nil
}

// ------------------------------------------------------------------------------------------
//
// MessageInformator is used to provide information about the current session for message serialization.
// It is essentially an MTProto data structure.
type MessageInformator interface {
	GetSessionID() int64
	GetServerSalt() int64
	GetAuthKey() []byte
}

func serializePacket(client MessageInformator, msg []byte, messageID int64, seqNo int32) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, encryptedHeaderLen+len(msg)))
	e := tl.NewEncoder(buf)

	e.PutLong(client.GetServerSalt())
	e.PutLong(client.GetSessionID())
	e.PutLong(messageID)
	e.PutInt(seqNo)
	e.PutInt(int32(len(msg)))
	e.PutRawBytes(msg)
	return buf.Bytes()
}
