// Copyright (c) 2025 @AmarnathCJD

package mode

import (
	"fmt"
	"strings"
)

// Mode is an interface that defines how the connection sides determine the size of transmitted messages.
// Unlike HTTP or UDP connections, raw TCP connections don't have a standard way to
// determine the size of transmitted or received messages. Their main purpose is to transmit bytes in
// the correct order. Mode allows the connection sides to avoid analyzing traffic or using end-of-message
// sequences.
//
// In the MTProto world, Mode acts like a microprotocol. It packages messages in a container that
// announces its size in advance.
type Mode interface {
	WriteMsg([]byte) error // this is not same as the io.Writer
	ReadMsg() ([]byte, error)

	// getModeAnnouncement returns announce byte sequence to other side
	getModeAnnouncement() []byte
}

// Conn is the byte pipe a Mode frames messages over. Recv returns exactly n
// bytes or an error, never a short read.
type Conn interface {
	Send([]byte) error
	Recv(n int) ([]byte, error)
}

type Variant uint8

const (
	Abridged Variant = iota
	Intermediate
	Full
)

func (v Variant) String() string {
	switch v {
	case Abridged:
		return "abridged"
	case Intermediate:
		return "intermediate"
	case Full:
		return "full"
	default:
		return fmt.Sprintf("Variant(%d)", uint8(v))
	}
}

// ParseVariant maps a configuration name to a Variant.
func ParseVariant(name string) (Variant, error) {
	switch strings.ToLower(name) {
	case "", "abridged":
		return Abridged, nil
	case "intermediate":
		return Intermediate, nil
	case "full":
		return Full, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrModeNotSupported, name)
	}
}

// New creates the framing and sends its announcement once.
func New(v Variant, conn Conn) (Mode, error) {
	if conn == nil {
		return nil, ErrInterfaceIsNil
	}

	m, err := initMode(v, conn)
	if err != nil {
		return nil, err
	}
	if announcement := m.getModeAnnouncement(); len(announcement) > 0 {
		if err := conn.Send(announcement); err != nil {
			return nil, fmt.Errorf("can't setup connection: %w", err)
		}
	}

	return m, nil
}

func initMode(v Variant, conn Conn) (Mode, error) {
	switch v {
	case Abridged:
		return &abridged{conn: conn}, nil
	case Intermediate:
		return &intermediate{conn: conn}, nil
	case Full:
		return &full{conn: conn}, nil
	default:
		return nil, ErrModeNotSupported
	}
}
