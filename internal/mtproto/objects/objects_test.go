// Copyright (c) 2024 RoseLoverX

package objects_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amarnathcjd/mtproto/internal/encoding/tl"
	"github.com/amarnathcjd/mtproto/internal/mtproto/messages"
	"github.com/amarnathcjd/mtproto/internal/mtproto/objects"
)

func registry() *tl.Registry {
	reg := tl.NewRegistry()
	objects.Register(reg)
	return reg
}

func TestServiceObjectsRoundTrip(t *testing.T) {
	reg := registry()
	var nonce, serverNonce tl.Int128
	nonce[0], serverNonce[15] = 1, 2
	var newNonce tl.Int256
	newNonce[31] = 3

	for _, obj := range []tl.Object{
		&objects.ResPQ{Nonce: nonce, ServerNonce: serverNonce, Pq: []byte{0x17, 0xed}, Fingerprints: []int64{-1, 2}},
		&objects.PQInnerData{Pq: []byte{1}, P: []byte{2}, Q: []byte{3}, Nonce: nonce, ServerNonce: serverNonce, NewNonce: newNonce},
		&objects.ServerDHParamsOk{Nonce: nonce, ServerNonce: serverNonce, EncryptedAnswer: []byte("answer")},
		&objects.ServerDHInnerData{Nonce: nonce, G: 3, DhPrime: []byte{7}, GA: []byte{9}, ServerTime: 1700000000},
		&objects.ClientDHInnerData{Nonce: nonce, Retry: 1, GB: []byte{5, 5}},
		&objects.DHGenOk{},
		&objects.RpcError{ErrorCode: 420, ErrorMessage: "FLOOD_WAIT_3"},
		&objects.RpcAnswerDropped{MsgID: 10, SeqNo: 3, Bytes: 12},
		&objects.FutureSalts{ReqMsgID: 4, Now: 100, Salts: []*objects.FutureSalt{{ValidSince: 1, ValidUntil: 2, Salt: 3}}},
		&objects.Pong{MsgID: 1, PingID: 2},
		&objects.NewSessionCreated{FirstMsgID: 1, UniqueID: 2, ServerSalt: 3},
		&objects.MsgsAck{MsgIDs: []int64{1, 2, 3}},
		&objects.BadServerSalt{BadMsgID: 8, BadMsgSeqNo: 1, ErrorCode: 48, NewSalt: 99},
		&objects.BadMsgNotification{BadMsgID: 8, Code: 16},
		&objects.MsgsAllInfo{MsgIDs: []int64{5}, Info: []byte{1}},
		&objects.MsgsDetailedInfo{MsgID: 1, AnswerMsgID: 2, Bytes: 3, Status: 0},
		&objects.PingDelayDisconnectParams{PingID: 5, DisconnectDelay: 75},
		&objects.DestroySessionOk{SessionID: 11},
	} {
		data, err := tl.Marshal(obj)
		require.NoError(t, err, "%T", obj)

		got, err := reg.Decode(data)
		require.NoError(t, err, "%T", obj)
		assert.Equal(t, obj, got)
	}
}

func TestRpcResultKeepsBody(t *testing.T) {
	inner, err := tl.Marshal(&objects.RpcError{ErrorCode: 400, ErrorMessage: "PEER_ID_INVALID"})
	require.NoError(t, err)

	data, err := tl.Marshal(&objects.RpcResult{ReqMsgID: 77, Body: inner})
	require.NoError(t, err)

	obj, err := registry().Decode(data)
	require.NoError(t, err)
	res := obj.(*objects.RpcResult)
	assert.Equal(t, int64(77), res.ReqMsgID)
	assert.Equal(t, inner, res.Body)
}

func TestMessageContainer(t *testing.T) {
	pong, err := tl.Marshal(&objects.Pong{MsgID: 1, PingID: 2})
	require.NoError(t, err)
	ack, err := tl.Marshal(&objects.MsgsAck{MsgIDs: []int64{9}})
	require.NoError(t, err)

	in := objects.MessageContainer{
		{MsgID: 101, SeqNo: 1, Msg: pong},
		{MsgID: 105, SeqNo: 2, Msg: ack},
	}
	data, err := tl.Marshal(&in)
	require.NoError(t, err)

	obj, err := registry().Decode(data)
	require.NoError(t, err)
	out := *obj.(*objects.MessageContainer)
	require.Len(t, out, 2)
	assert.Equal(t, []*messages.Encrypted(in), []*messages.Encrypted(out))

	_, err = registry().Decode(data[:len(data)-4])
	assert.Error(t, err)
}

func TestGzipPacked(t *testing.T) {
	pong := &objects.Pong{MsgID: 3, PingID: 4}
	data, err := tl.Marshal(&objects.GzipPacked{Obj: pong})
	require.NoError(t, err)

	obj, err := registry().Decode(data)
	require.NoError(t, err)
	gz := obj.(*objects.GzipPacked)
	assert.Equal(t, pong, gz.Obj)

	raw, err := tl.Marshal(pong)
	require.NoError(t, err)
	assert.Equal(t, raw, gz.Data)

	_, err = objects.Gunzip([]byte("not gzip"))
	assert.Error(t, err)
}
