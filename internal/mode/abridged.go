// Copyright (c) 2025 @AmarnathCJD

package mode

import (
	"encoding/binary"

	"github.com/amarnathcjd/mtproto/internal/encoding/tl"
)

type abridged struct {
	conn Conn
}

var _ Mode = (*abridged)(nil)

var transportModeAbridged = [...]byte{0xef} // 0xef is a magic number

func (*abridged) getModeAnnouncement() []byte {
	return transportModeAbridged[:]
}

const (
	// If the packet length is greater than or equal to 127 words, we encode 4 bytes for the length:
	//   - 1 byte is a magic number (0x7f).
	//   - The remaining 3 bytes represent the actual length in little-endian order.
	//
	// See: https://core.telegram.org/mtproto/mtproto-transports#abridged
	magicValueSizeMoreThanSingleByte = 0x7f
)

func (m *abridged) WriteMsg(msg []byte) error {
	if len(msg)%tl.WordLen != 0 {
		return ErrNotMultiple{Len: len(msg)}
	}

	var header []byte
	msgLength := len(msg) / tl.WordLen
	if msgLength < magicValueSizeMoreThanSingleByte {
		header = []byte{byte(msgLength)}
	} else {
		header = make([]byte, tl.WordLen)
		binary.LittleEndian.PutUint32(header, uint32(msgLength)<<8|magicValueSizeMoreThanSingleByte)
	}

	return m.conn.Send(append(header, msg...))
}

func (m *abridged) ReadMsg() ([]byte, error) {
	first, err := m.conn.Recv(1)
	if err != nil {
		return nil, err
	}

	size := int(first[0])
	if size == magicValueSizeMoreThanSingleByte {
		rest, err := m.conn.Recv(3)
		if err != nil {
			return nil, err
		}
		size = int(rest[0]) | int(rest[1])<<8 | int(rest[2])<<16
	}

	return m.conn.Recv(size * tl.WordLen)
}
