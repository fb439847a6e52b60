// Copyright (c) 2024 RoseLoverX

package mode

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"

	"github.com/amarnathcjd/mtproto/internal/encoding/tl"
)

// maxFrameSize bounds a single frame, anything larger is a desynchronised stream.
const maxFrameSize = 1 << 25

var (
	ErrInterfaceIsNil   = errors.New("conn is nil")
	ErrModeNotSupported = errors.New("framing is not supported")
	ErrChecksumMismatch = errors.New("frame checksum mismatch")
)

// ErrNotMultiple is returned for payloads a word based framing cannot carry.
type ErrNotMultiple struct {
	Len int
}

func (e ErrNotMultiple) Error() string {
	return fmt.Sprintf("payload of %d bytes is not a multiple of %d", e.Len, tl.WordLen)
}

// ErrFrameSize reports a length prefix outside what the framing allows.
type ErrFrameSize struct {
	Size int
}

func (e ErrFrameSize) Error() string {
	return fmt.Sprintf("invalid frame size %d", e.Size)
}

// lengthPrefix returns a little endian uint32 header for n bytes, with room
// for the payload after it.
func lengthPrefix(n, payload int) []byte {
	buf := make([]byte, tl.WordLen, tl.WordLen+payload)
	binary.LittleEndian.PutUint32(buf, uint32(n))
	return buf
}

// readLength reads a little endian uint32 length and checks it lies in
// [lo, maxFrameSize]. The raw prefix is returned with it.
func readLength(conn Conn, lo int) (int, []byte, error) {
	raw, err := conn.Recv(tl.WordLen)
	if err != nil {
		return 0, nil, err
	}
	size := int(binary.LittleEndian.Uint32(raw))
	if size < lo || size > maxFrameSize {
		return 0, nil, ErrFrameSize{Size: size}
	}
	return size, raw, nil
}
