// Copyright (c) 2025 @AmarnathCJD

package mode

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bufConn struct {
	bytes.Buffer
}

func (c *bufConn) Send(b []byte) error {
	_, err := c.Write(b)
	return err
}

func (c *bufConn) Recv(n int) ([]byte, error) {
	out := make([]byte, n)
	if _, err := io.ReadFull(&c.Buffer, out); err != nil {
		return nil, err
	}
	return out, nil
}

func TestAnnouncements(t *testing.T) {
	for _, tt := range []struct {
		variant Variant
		want    []byte
	}{
		{Abridged, []byte{0xef}},
		{Intermediate, []byte{0xee, 0xee, 0xee, 0xee}},
		{Full, nil},
	} {
		t.Run(tt.variant.String(), func(t *testing.T) {
			conn := &bufConn{}
			_, err := New(tt.variant, conn)
			require.NoError(t, err)
			assert.Equal(t, tt.want, conn.Bytes())
		})
	}
}

func TestIntermediateFrame(t *testing.T) {
	conn := &bufConn{}
	m := &intermediate{conn: conn}

	require.NoError(t, m.WriteMsg([]byte{1, 2, 3, 4, 5}))
	assert.Equal(t, []byte{5, 0, 0, 0, 1, 2, 3, 4, 5}, conn.Bytes())

	got, err := m.ReadMsg()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, got)
}

func TestFrameSizeBounds(t *testing.T) {
	conn := &bufConn{}
	conn.Write([]byte{0, 0, 0, 0x10})
	_, err := (&intermediate{conn: conn}).ReadMsg()
	assert.Equal(t, ErrFrameSize{Size: 0x10000000}, err)

	conn = &bufConn{}
	conn.Write([]byte{8, 0, 0, 0})
	_, err = (&full{conn: conn}).ReadMsg()
	assert.Equal(t, ErrFrameSize{Size: 8}, err)
}

func TestAbridgedLengths(t *testing.T) {
	conn := &bufConn{}
	m := &abridged{conn: conn}

	short := bytes.Repeat([]byte{7}, 8)
	require.NoError(t, m.WriteMsg(short))
	assert.Equal(t, byte(2), conn.Bytes()[0])

	got, err := m.ReadMsg()
	require.NoError(t, err)
	assert.Equal(t, short, got)

	long := bytes.Repeat([]byte{9}, 127*4)
	require.NoError(t, m.WriteMsg(long))
	assert.Equal(t, []byte{0x7f, 127, 0, 0}, conn.Bytes()[:4])

	got, err = m.ReadMsg()
	require.NoError(t, err)
	assert.Equal(t, long, got)

	assert.Equal(t, ErrNotMultiple{Len: 3}, m.WriteMsg([]byte{1, 2, 3}))
}

func TestFullChecksum(t *testing.T) {
	conn := &bufConn{}
	m := &full{conn: conn}

	require.NoError(t, m.WriteMsg([]byte("ping")))
	require.NoError(t, m.WriteMsg([]byte("pong")))

	first, err := m.ReadMsg()
	require.NoError(t, err)
	assert.Equal(t, []byte("ping"), first)

	raw := conn.Bytes()
	raw[9] ^= 0xff
	_, err = m.ReadMsg()
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant("Intermediate")
	require.NoError(t, err)
	assert.Equal(t, Intermediate, v)

	v, err = ParseVariant("")
	require.NoError(t, err)
	assert.Equal(t, Abridged, v)

	_, err = ParseVariant("obfuscated")
	assert.ErrorIs(t, err, ErrModeNotSupported)
}
