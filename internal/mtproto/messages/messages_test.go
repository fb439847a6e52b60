// Copyright (c) 2024 RoseLoverX

package messages

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amarnathcjd/mtproto/internal/utils"
)

type sessionInfo struct {
	authKey []byte
}

func (s *sessionInfo) GetSessionID() int64  { return 0x1122334455 }
func (s *sessionInfo) GetServerSalt() int64 { return -7 }
func (s *sessionInfo) GetAuthKey() []byte   { return s.authKey }

func TestUnencryptedRoundTrip(t *testing.T) {
	msg := &Unencrypted{Msg: []byte{1, 2, 3, 4}, MsgID: 0x5f000001}
	data := msg.Serialize()
	assert.Equal(t, make([]byte, 8), data[:8])
	assert.False(t, IsEncrypted(data))

	got, err := DeserializeUnencrypted(data)
	require.NoError(t, err)
	assert.Equal(t, msg, got)

	_, err = DeserializeUnencrypted(data[:len(data)-1])
	assert.Error(t, err)

	even := &Unencrypted{Msg: []byte{1, 2, 3, 4}, MsgID: 0x5f000004}
	_, err = DeserializeUnencrypted(even.Serialize())
	assert.ErrorContains(t, err, "wrong bits of message_id")
}

func TestEncryptedSerialize(t *testing.T) {
	info := &sessionInfo{authKey: bytes.Repeat([]byte{0x5a}, 256)}
	msg := &Encrypted{Msg: []byte("payload!"), MsgID: 0x5f000004, SeqNo: 3}

	data, err := msg.Serialize(info)
	require.NoError(t, err)
	assert.True(t, IsEncrypted(data))
	assert.Equal(t, utils.AuthKeyHash(info.authKey), data[:8])
	assert.Zero(t, (len(data)-24)%16)

	other := bytes.Repeat([]byte{0x11}, 256)
	_, err = DeserializeEncrypted(data, other)
	assert.ErrorIs(t, err, ErrWrongAuthKey)

	// a client packet read back as a server packet fails the msg_key check
	_, err = DeserializeEncrypted(data, info.authKey)
	assert.Error(t, err)

	_, err = DeserializeEncrypted(data[:20], info.authKey)
	assert.Error(t, err)
}
