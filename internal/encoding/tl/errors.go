// Copyright (c) 2022,RoseLoverX
package tl

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrUnexpectedEOF is returned when the buffer ends before a value is complete.
var ErrUnexpectedEOF = errors.New("tl: unexpected end of buffer")

type ErrRegisteredObjectNotFound struct {
	Crc  uint32
	Data []byte
}

func (e *ErrRegisteredObjectNotFound) Error() string {
	return fmt.Sprintf("object with provided crc not registered: 0x%08x", e.Crc)
}

type ErrUnexpectedCRC struct {
	Got  uint32
	Want uint32
}

func (e *ErrUnexpectedCRC) Error() string {
	return fmt.Sprintf("unexpected constructor: 0x%08x, want: 0x%08x", e.Got, e.Want)
}

// ErrCountMismatch reports a vector whose declared element count can not fit in the remaining data.
type ErrCountMismatch struct {
	Count     uint32
	Remaining int
}

func (e *ErrCountMismatch) Error() string {
	return fmt.Sprintf("vector declares %d elements but only %d bytes remain", e.Count, e.Remaining)
}

type ErrorPartialWrite struct {
	Has  int
	Want int
}

func (e *ErrorPartialWrite) Error() string {
	return fmt.Sprintf("write failed: writed only %v bytes, expected %v", e.Has, e.Want)
}
