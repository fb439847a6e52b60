// Copyright (c) 2024 RoseLoverX

package transport

import (
	"github.com/amarnathcjd/mtproto/internal/mode"
)

// Conn is a byte pipe to one server.
type Conn interface {
	mode.Conn
	Close() error
}

// Transport moves whole MTProto packets.
type Transport interface {
	WriteMsg(msg []byte) error
	ReadMsg() ([]byte, error)
	Close() error
}
