// Copyright (c) 2024 RoseLoverX

package transport

import (
	"encoding/binary"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amarnathcjd/mtproto/internal/mode"
)

func TestRecvIdleTimeout(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	conn := NewConn(client, 50*time.Millisecond)
	defer conn.Close()

	_, err := conn.Recv(4)
	assert.True(t, errors.Is(err, ErrNoData), "got %v", err)
}

func TestRecvClosed(t *testing.T) {
	client, server := net.Pipe()
	conn := NewConn(client, time.Second)
	defer conn.Close()

	go func() {
		server.Write([]byte{1, 2})
		server.Close()
	}()

	_, err := conn.Recv(4)
	assert.True(t, errors.Is(err, ErrNoData), "got %v", err)
}

func TestRecvAccumulates(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()
	conn := NewConn(client, time.Second)
	defer conn.Close()

	go func() {
		for _, b := range []byte{1, 2, 3, 4, 5, 6} {
			server.Write([]byte{b})
		}
	}()

	got, err := conn.Recv(6)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, got)
}

func TestConcurrentSendsDoNotInterleave(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	tr, errc := newPipeTransport(t, client, server)
	require.NoError(t, <-errc)

	const senders = 8
	const size = 64

	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func(b byte) {
			defer wg.Done()
			payload := make([]byte, size)
			for j := range payload {
				payload[j] = b
			}
			assert.NoError(t, tr.WriteMsg(payload))
		}(byte(i + 1))
	}

	seen := map[byte]bool{}
	for i := 0; i < senders; i++ {
		header := make([]byte, 4)
		_, err := io.ReadFull(server, header)
		require.NoError(t, err)
		require.Equal(t, uint32(size), binary.LittleEndian.Uint32(header))

		body := make([]byte, size)
		_, err = io.ReadFull(server, body)
		require.NoError(t, err)
		for _, b := range body {
			require.Equal(t, body[0], b, "frame bodies interleaved")
		}
		seen[body[0]] = true
	}
	wg.Wait()
	assert.Len(t, seen, senders)
}

func TestReadMsgErrorCode(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	tr, errc := newPipeTransport(t, client, server)
	require.NoError(t, <-errc)

	go func() {
		frame := make([]byte, 8)
		binary.LittleEndian.PutUint32(frame, 4)
		code := int32(-404)
		binary.LittleEndian.PutUint32(frame[4:], uint32(code))
		server.Write(frame)
	}()

	_, err := tr.ReadMsg()
	var code ErrCode
	require.True(t, errors.As(err, &code))
	assert.Equal(t, ErrCode(-404), code)
	assert.Contains(t, err.Error(), "auth key not found")
}

// newPipeTransport builds an intermediate transport over client and
// consumes the announcement on the server side.
func newPipeTransport(t *testing.T, client, server net.Conn) (Transport, <-chan error) {
	t.Helper()

	errc := make(chan error, 1)
	go func() {
		magic := make([]byte, 4)
		_, err := io.ReadFull(server, magic)
		if err == nil && string(magic) != "\xee\xee\xee\xee" {
			err = errors.Errorf("unexpected announcement %x", magic)
		}
		errc <- err
	}()

	tr, err := NewTransportOver(NewConn(client, time.Second), mode.Intermediate)
	require.NoError(t, err)
	t.Cleanup(func() { tr.Close() })
	return tr, errc
}
