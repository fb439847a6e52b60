// Copyright (c) 2024 RoseLoverX

package objects

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/amarnathcjd/mtproto/internal/encoding/tl"
)

type requester interface {
	MakeRequest(ctx context.Context, msg tl.Object) (any, error)
}

func expect[T any](data any, err error, method string) (T, error) {
	var zero T
	if err != nil {
		return zero, fmt.Errorf("sending %s: %w", method, err)
	}
	resp, ok := data.(T)
	if !ok {
		return zero, errors.Errorf("%s: got invalid response type: %T", method, data)
	}
	return resp, nil
}

type ReqPQParams struct {
	Nonce tl.Int128
}

func (*ReqPQParams) CRC() uint32 {
	return 0x60469778
}

func (t *ReqPQParams) MarshalTL(e *tl.Encoder) error {
	e.PutInt128(t.Nonce)
	return e.CheckErr()
}

func (t *ReqPQParams) UnmarshalTL(d *tl.Decoder) error {
	t.Nonce = d.PopInt128()
	return d.Err()
}

func ReqPQ(ctx context.Context, m requester, nonce tl.Int128) (*ResPQ, error) {
	data, err := m.MakeRequest(ctx, &ReqPQParams{Nonce: nonce})
	return expect[*ResPQ](data, err, "ReqPQ")
}

type ReqPQMultiParams struct {
	Nonce tl.Int128
}

func (*ReqPQMultiParams) CRC() uint32 {
	return 0xbe7e8ef1
}

func (t *ReqPQMultiParams) MarshalTL(e *tl.Encoder) error {
	e.PutInt128(t.Nonce)
	return e.CheckErr()
}

func (t *ReqPQMultiParams) UnmarshalTL(d *tl.Decoder) error {
	t.Nonce = d.PopInt128()
	return d.Err()
}

func ReqPQMulti(ctx context.Context, m requester, nonce tl.Int128) (*ResPQ, error) {
	data, err := m.MakeRequest(ctx, &ReqPQMultiParams{Nonce: nonce})
	return expect[*ResPQ](data, err, "ReqPQMulti")
}

type ReqDHParamsParams struct {
	Nonce                tl.Int128
	ServerNonce          tl.Int128
	P                    []byte
	Q                    []byte
	PublicKeyFingerprint int64
	EncryptedData        []byte
}

func (*ReqDHParamsParams) CRC() uint32 {
	return 0xd712e4be
}

func (t *ReqDHParamsParams) MarshalTL(e *tl.Encoder) error {
	e.PutInt128(t.Nonce)
	e.PutInt128(t.ServerNonce)
	e.PutMessage(t.P)
	e.PutMessage(t.Q)
	e.PutLong(t.PublicKeyFingerprint)
	e.PutMessage(t.EncryptedData)
	return e.CheckErr()
}

func (t *ReqDHParamsParams) UnmarshalTL(d *tl.Decoder) error {
	t.Nonce = d.PopInt128()
	t.ServerNonce = d.PopInt128()
	t.P = d.PopMessage()
	t.Q = d.PopMessage()
	t.PublicKeyFingerprint = d.PopLong()
	t.EncryptedData = d.PopMessage()
	return d.Err()
}

func ReqDHParams(
	ctx context.Context, m requester,
	nonce, serverNonce tl.Int128, p, q []byte, publicKeyFingerprint int64, encryptedData []byte,
) (ServerDHParams, error) {
	data, err := m.MakeRequest(ctx, &ReqDHParamsParams{
		Nonce:                nonce,
		ServerNonce:          serverNonce,
		P:                    p,
		Q:                    q,
		PublicKeyFingerprint: publicKeyFingerprint,
		EncryptedData:        encryptedData,
	})
	return expect[ServerDHParams](data, err, "ReqDHParams")
}

type SetClientDHParamsParams struct {
	Nonce         tl.Int128
	ServerNonce   tl.Int128
	EncryptedData []byte
}

func (*SetClientDHParamsParams) CRC() uint32 {
	return 0xf5045f1f
}

func (t *SetClientDHParamsParams) MarshalTL(e *tl.Encoder) error {
	e.PutInt128(t.Nonce)
	e.PutInt128(t.ServerNonce)
	e.PutMessage(t.EncryptedData)
	return e.CheckErr()
}

func (t *SetClientDHParamsParams) UnmarshalTL(d *tl.Decoder) error {
	t.Nonce = d.PopInt128()
	t.ServerNonce = d.PopInt128()
	t.EncryptedData = d.PopMessage()
	return d.Err()
}

func SetClientDHParams(ctx context.Context, m requester, nonce, serverNonce tl.Int128, encryptedData []byte) (SetClientDHParamsAnswer, error) {
	data, err := m.MakeRequest(ctx, &SetClientDHParamsParams{
		Nonce:         nonce,
		ServerNonce:   serverNonce,
		EncryptedData: encryptedData,
	})
	return expect[SetClientDHParamsAnswer](data, err, "SetClientDHParams")
}

type PingParams struct {
	PingID int64
}

func (*PingParams) CRC() uint32 {
	return 0x7abe77ec
}

func (t *PingParams) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.PingID)
	return e.CheckErr()
}

func (t *PingParams) UnmarshalTL(d *tl.Decoder) error {
	t.PingID = d.PopLong()
	return d.Err()
}

func Ping(ctx context.Context, m requester, pingID int64) (*Pong, error) {
	data, err := m.MakeRequest(ctx, &PingParams{PingID: pingID})
	return expect[*Pong](data, err, "Ping")
}

// PingDelayDisconnectParams asks the server to close the connection
// DisconnectDelay seconds after the last ping.
type PingDelayDisconnectParams struct {
	PingID          int64
	DisconnectDelay int32
}

func (*PingDelayDisconnectParams) CRC() uint32 {
	return 0xf3427b8c
}

func (t *PingDelayDisconnectParams) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.PingID)
	e.PutInt(t.DisconnectDelay)
	return e.CheckErr()
}

func (t *PingDelayDisconnectParams) UnmarshalTL(d *tl.Decoder) error {
	t.PingID = d.PopLong()
	t.DisconnectDelay = d.PopInt()
	return d.Err()
}

func PingDelayDisconnect(ctx context.Context, m requester, pingID int64, delay int32) (*Pong, error) {
	data, err := m.MakeRequest(ctx, &PingDelayDisconnectParams{PingID: pingID, DisconnectDelay: delay})
	return expect[*Pong](data, err, "PingDelayDisconnect")
}

type RpcDropAnswerParams struct {
	ReqMsgID int64
}

func (*RpcDropAnswerParams) CRC() uint32 {
	return 0x58e4a740
}

func (t *RpcDropAnswerParams) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.ReqMsgID)
	return e.CheckErr()
}

func (t *RpcDropAnswerParams) UnmarshalTL(d *tl.Decoder) error {
	t.ReqMsgID = d.PopLong()
	return d.Err()
}

type GetFutureSaltsParams struct {
	Num int32
}

func (*GetFutureSaltsParams) CRC() uint32 {
	return 0xb921bd04
}

func (t *GetFutureSaltsParams) MarshalTL(e *tl.Encoder) error {
	e.PutInt(t.Num)
	return e.CheckErr()
}

func (t *GetFutureSaltsParams) UnmarshalTL(d *tl.Decoder) error {
	t.Num = d.PopInt()
	return d.Err()
}

type DestroySessionParams struct {
	SessionID int64
}

func (*DestroySessionParams) CRC() uint32 {
	return 0xe7512126
}

func (t *DestroySessionParams) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.SessionID)
	return e.CheckErr()
}

func (t *DestroySessionParams) UnmarshalTL(d *tl.Decoder) error {
	t.SessionID = d.PopLong()
	return d.Err()
}

// http_wait#9299359f max_delay:int wait_after:int max_wait:int = HttpWait;
