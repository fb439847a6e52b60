// Copyright (c) 2024 RoseLoverX

package transport

import (
	"context"
	"io"
	"net"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// ErrNoData is returned by Recv when the peer closed the connection or
// nothing arrived within the idle timeout.
var ErrNoData = errors.New("transport: no data")

const (
	DefaultDialTimeout = 10 * time.Second
	DefaultIdleTimeout = 10 * time.Second
)

type TCPConnConfig struct {
	Host        string
	IpV6        bool
	DialTimeout time.Duration
	// IdleTimeout bounds the wait for the next byte, zero disables it.
	IdleTimeout time.Duration
	Proxy       *url.URL
}

// TCPConn serialises sends and reads exact lengths.
type TCPConn struct {
	conn net.Conn
	idle time.Duration

	sendMu    sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

var _ Conn = (*TCPConn)(nil)

// NewConn wraps an established connection.
func NewConn(conn net.Conn, idle time.Duration) *TCPConn {
	return &TCPConn{conn: conn, idle: idle}
}

func DialTCP(ctx context.Context, cfg TCPConnConfig) (*TCPConn, error) {
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = DefaultDialTimeout
	}

	network := "tcp"
	if cfg.IpV6 && !strings.Contains(cfg.Host, ".") {
		network = "tcp6"
	}
	host := strings.TrimPrefix(cfg.Host, ":")

	var (
		conn net.Conn
		err  error
	)
	if cfg.Proxy != nil && cfg.Proxy.Host != "" {
		conn, err = dialProxy(ctx, cfg.Proxy, host, cfg.DialTimeout)
	} else {
		d := &net.Dialer{Timeout: cfg.DialTimeout, KeepAlive: 30 * time.Second}
		conn, err = d.DialContext(ctx, network, host)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "dialing %s", host)
	}

	return NewConn(conn, cfg.IdleTimeout), nil
}

func (t *TCPConn) Send(b []byte) error {
	t.sendMu.Lock()
	defer t.sendMu.Unlock()

	for len(b) > 0 {
		n, err := t.conn.Write(b)
		if err != nil {
			return errors.Wrap(err, "writing to connection")
		}
		b = b[n:]
	}
	return nil
}

// Recv blocks until n bytes arrived. A closed socket or an idle timeout is
// reported as ErrNoData, a partial read is never returned.
func (t *TCPConn) Recv(n int) ([]byte, error) {
	buf := make([]byte, n)
	got := 0
	for got < n {
		if t.idle > 0 {
			if err := t.conn.SetReadDeadline(time.Now().Add(t.idle)); err != nil {
				return nil, errors.WithMessage(ErrNoData, err.Error())
			}
		}

		k, err := t.conn.Read(buf[got:])
		got += k
		if err != nil {
			if isNoData(err) {
				return nil, errors.WithMessage(ErrNoData, err.Error())
			}
			return nil, errors.Wrap(err, "reading from connection")
		}
		if k == 0 {
			return nil, ErrNoData
		}
	}
	return buf, nil
}

func (t *TCPConn) Close() error {
	t.closeOnce.Do(func() {
		t.closeErr = t.conn.Close()
	})
	return t.closeErr
}

func isNoData(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, net.ErrClosed) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
