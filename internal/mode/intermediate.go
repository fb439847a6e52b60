// Copyright (c) 2025 @AmarnathCJD

package mode

// intermediate frames carry a 4 byte length before every payload, after
// the connection opened with four 0xee bytes.
type intermediate struct {
	conn Conn
}

var _ Mode = (*intermediate)(nil)

func (*intermediate) getModeAnnouncement() []byte {
	return []byte{0xee, 0xee, 0xee, 0xee}
}

func (m *intermediate) WriteMsg(msg []byte) error {
	return m.conn.Send(append(lengthPrefix(len(msg), len(msg)), msg...))
}

func (m *intermediate) ReadMsg() ([]byte, error) {
	size, _, err := readLength(m.conn, 0)
	if err != nil {
		return nil, err
	}
	return m.conn.Recv(size)
}
