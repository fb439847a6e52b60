// Copyright (c) 2024 RoseLoverX

package transport

import (
	"bufio"
	"context"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/proxy"
)

func dialProxy(ctx context.Context, s *url.URL, address string, timeout time.Duration) (net.Conn, error) {
	switch s.Scheme {
	case "socks5", "socks5h":
		return dialSocks5(ctx, s, address, timeout)
	case "http":
		return dialHTTP(ctx, s, address, timeout)
	default:
		return nil, fmt.Errorf("unsupported proxy scheme: %s", s.Scheme)
	}
}

func dialSocks5(ctx context.Context, s *url.URL, addr string, timeout time.Duration) (net.Conn, error) {
	d, err := proxy.FromURL(s, &net.Dialer{Timeout: timeout})
	if err != nil {
		return nil, errors.Wrap(err, "socks5 dialer")
	}
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext(ctx, "tcp", addr)
	}
	return d.Dial("tcp", addr)
}

func dialHTTP(ctx context.Context, s *url.URL, addr string, timeout time.Duration) (net.Conn, error) {
	d := &net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", s.Host)
	if err != nil {
		return nil, err
	}

	req := fmt.Sprintf("CONNECT %s HTTP/1.1\r\nHost: %s\r\n", addr, addr)
	if s.User != nil && s.User.Username() != "" {
		password, _ := s.User.Password()
		req += fmt.Sprintf("Proxy-Authorization: Basic %s\r\n", basicAuth(s.User.Username(), password))
	}
	req += "\r\n"

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
		defer conn.SetDeadline(time.Time{})
	}
	if _, err := conn.Write([]byte(req)); err != nil {
		conn.Close()
		return nil, err
	}

	br := bufio.NewReader(conn)
	resp, err := http.ReadResponse(br, nil)
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "reading CONNECT response")
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		conn.Close()
		return nil, fmt.Errorf("HTTP connect failed: %s", resp.Status)
	}
	if br.Buffered() > 0 {
		conn.Close()
		return nil, fmt.Errorf("HTTP connect: proxy sent data before the tunnel opened")
	}

	return conn, nil
}

func basicAuth(username, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
}
