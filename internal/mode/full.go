// Copyright (c) 2025 @AmarnathCJD

package mode

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// full frames are length, sequence number, payload and a CRC32 of all of it.
type full struct {
	conn    Conn
	sendSeq uint32
	recvSeq uint32
}

const fullHeaderLen = 12

func (m *full) WriteMsg(msg []byte) error {
	msgLen := uint32(len(msg) + fullHeaderLen)

	buf := make([]byte, msgLen)
	binary.LittleEndian.PutUint32(buf[0:4], msgLen)
	binary.LittleEndian.PutUint32(buf[4:8], m.sendSeq)
	copy(buf[8:8+len(msg)], msg)

	checksum := crc32.ChecksumIEEE(buf[:8+len(msg)])
	binary.LittleEndian.PutUint32(buf[8+len(msg):], checksum)

	if err := m.conn.Send(buf); err != nil {
		return err
	}

	m.sendSeq++
	return nil
}

func (m *full) ReadMsg() ([]byte, error) {
	size, bsize, err := readLength(m.conn, fullHeaderLen)
	if err != nil {
		return nil, err
	}

	rest, err := m.conn.Recv(size - 4)
	if err != nil {
		return nil, err
	}
	buf := append(bsize, rest...)

	if seq := binary.LittleEndian.Uint32(buf[4:8]); seq != m.recvSeq {
		return nil, fmt.Errorf("unexpected frame sequence %d, want %d", seq, m.recvSeq)
	}
	checksum := binary.LittleEndian.Uint32(buf[size-4:])
	if crc32.ChecksumIEEE(buf[:size-4]) != checksum {
		return nil, ErrChecksumMismatch
	}
	m.recvSeq++

	return buf[8 : size-4], nil
}

func (*full) getModeAnnouncement() []byte {
	return nil
}

var _ Mode = (*full)(nil)
