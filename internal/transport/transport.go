// Copyright (c) 2024 RoseLoverX

package transport

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"

	"github.com/amarnathcjd/mtproto/internal/encoding/tl"
	"github.com/amarnathcjd/mtproto/internal/mode"
)

type transport struct {
	conn Conn
	mode mode.Mode
}

// NewTransport dials cfg and starts the framing.
func NewTransport(ctx context.Context, cfg TCPConnConfig, modeVariant mode.Variant) (Transport, error) {
	conn, err := DialTCP(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "setup connection")
	}

	t, err := NewTransportOver(conn, modeVariant)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return t, nil
}

// NewTransportOver frames an already established connection.
func NewTransportOver(conn Conn, modeVariant mode.Variant) (Transport, error) {
	m, err := mode.New(modeVariant, conn)
	if err != nil {
		return nil, errors.Wrap(err, "setup mode")
	}
	return &transport{conn: conn, mode: m}, nil
}

func (t *transport) Close() error {
	return t.conn.Close()
}

func (t *transport) WriteMsg(msg []byte) error {
	if err := t.mode.WriteMsg(msg); err != nil {
		return errors.Wrap(err, "sending request")
	}
	return nil
}

// ReadMsg returns one packet. A 4 byte packet is a transport error code.
func (t *transport) ReadMsg() ([]byte, error) {
	data, err := t.mode.ReadMsg()
	if err != nil {
		if errors.Is(err, ErrNoData) {
			return nil, err
		}
		return nil, errors.Wrap(err, "reading message")
	}

	if len(data) == tl.WordLen {
		code := int32(binary.LittleEndian.Uint32(data))
		return nil, ErrCode(code)
	}

	return data, nil
}

// ErrCode is a negative error code the server sends instead of a packet.
type ErrCode int64

func (e ErrCode) Error() string {
	switch e {
	case -404:
		return "transport error -404: auth key not found"
	case -429:
		return "transport error -429: too many connections (transport flood)"
	case -444:
		return "transport error -444: invalid dc"
	default:
		return fmt.Sprintf("transport error %v", int64(e))
	}
}
