// Copyright (c) 2022 RoseLoverX

package mtproto

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/amarnathcjd/mtproto/internal/encoding/tl"
	"github.com/amarnathcjd/mtproto/internal/mtproto/objects"
	"github.com/amarnathcjd/mtproto/internal/utils"
)

// helper methods

func (m *MTProto) GetSessionID() int64 {
	return m.sessionId
}

func (m *MTProto) GetServerSalt() int64 {
	return m.serverSalt.Load()
}

// GetAuthKey returns the key of the session, nil before the handshake.
func (m *MTProto) GetAuthKey() []byte {
	m.keyMu.RLock()
	defer m.keyMu.RUnlock()
	return m.authKey
}

func (m *MTProto) SetAuthKey(key []byte) {
	m.keyMu.Lock()
	defer m.keyMu.Unlock()
	m.authKey = key
	m.authKeyHash = utils.AuthKeyHash(key)
}

func (m *MTProto) DC() int {
	return m.dc
}

func (m *MTProto) Addr() string {
	return m.addr
}

// Registry is the constructor registry results are decoded with.
func (m *MTProto) Registry() *tl.Registry {
	return m.reg
}

// AddCustomServerRequestHandler registers a receiver of unsolicited
// objects. Handlers run on the reading goroutine in registration order.
func (m *MTProto) AddCustomServerRequestHandler(handler customHandlerFunc) {
	m.handlersMu.Lock()
	defer m.handlersMu.Unlock()
	m.serverRequestHandlers = append(m.serverRequestHandlers, handler)
}

// Ping measures the round trip of a ping.
func (m *MTProto) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if _, err := objects.Ping(ctx, m, utils.RandomInt64()); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

func nowUnix() int64 {
	return time.Now().Unix()
}

func attrConstructor(req tl.Object) attribute.KeyValue {
	return attribute.String("mtproto.method", fmt.Sprintf("%T", req))
}

func attrDC(dc int) attribute.KeyValue {
	return attribute.Int("mtproto.dc", dc)
}

func attrWait(d time.Duration) attribute.KeyValue {
	return attribute.String("mtproto.flood_wait", d.String())
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
