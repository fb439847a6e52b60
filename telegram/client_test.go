// Copyright (c) 2022 RoseLoverX

package telegram

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	mtproto "github.com/amarnathcjd/mtproto"
	"github.com/amarnathcjd/mtproto/internal/config"
	"github.com/amarnathcjd/mtproto/internal/encoding/tl"
	"github.com/amarnathcjd/mtproto/internal/session"
	"github.com/amarnathcjd/mtproto/internal/utils"
)

// fakeSession answers requests with handle and records them.
type fakeSession struct {
	mu         sync.Mutex
	handle     func(req tl.Object) (any, error)
	calls      []tl.Object
	terminated int
}

func (s *fakeSession) Invoke(_ context.Context, req tl.Object) (any, error) {
	s.mu.Lock()
	s.calls = append(s.calls, req)
	handle := s.handle
	s.mu.Unlock()
	if handle == nil {
		return nil, errors.Errorf("unexpected %T", req)
	}
	return handle(req)
}

func (s *fakeSession) Terminate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terminated++
	return nil
}

func (s *fakeSession) requests() []tl.Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]tl.Object(nil), s.calls...)
}

func countRequests[T tl.Object](s *fakeSession) int {
	n := 0
	for _, req := range s.requests() {
		if _, ok := req.(T); ok {
			n++
		}
	}
	return n
}

func rpcErr(name string) error {
	return &mtproto.ErrResponseCode{Code: 400, Message: name, Description: name}
}

func testLogger(t *testing.T) *utils.Logger {
	return utils.NewLoggerWithConfig(&utils.LoggerConfig{
		Level: utils.DebugLevel,
		Zap:   zaptest.NewLogger(t),
	})
}

// newTestClient builds a client on DC 2 with an in-memory session whose
// main session is main. It is not started.
func newTestClient(t *testing.T, main *fakeSession, mutate ...func(*config.Config)) *Client {
	t.Helper()
	ctx := context.Background()

	st := session.NewMemoryStorage("")
	require.NoError(t, st.Open(ctx))
	require.NoError(t, st.SetDcID(ctx, 2))
	require.NoError(t, st.SetAuthKey(ctx, make([]byte, 256)))

	cfg := config.Default()
	for _, m := range mutate {
		m(cfg)
	}
	c, err := NewClient(ClientConfig{Config: cfg, Storage: st, Logger: testLogger(t)})
	require.NoError(t, err)
	if main != nil {
		c.main = main
	}
	c.openSession = func(context.Context, int, []byte, bool) (Session, error) {
		return nil, errors.New("no sessions in this test")
	}
	t.Cleanup(func() { _ = c.Stop() })
	return c
}

type openCall struct {
	dc      int
	authKey []byte
	cdn     bool
}

// scriptSessions makes openSession return the session of each dc and
// records every call.
func scriptSessions(c *Client, sessions map[int]*fakeSession) *[]openCall {
	var mu sync.Mutex
	calls := &[]openCall{}
	c.openSession = func(_ context.Context, dc int, authKey []byte, cdn bool) (Session, error) {
		mu.Lock()
		*calls = append(*calls, openCall{dc: dc, authKey: authKey, cdn: cdn})
		mu.Unlock()
		s, ok := sessions[dc]
		if !ok {
			return nil, errors.Errorf("no session for dc %d", dc)
		}
		return s, nil
	}
	return calls
}

func exportingMain() *fakeSession {
	var mu sync.Mutex
	n := int64(0)
	return &fakeSession{handle: func(req tl.Object) (any, error) {
		if _, ok := req.(*AuthExportAuthorizationParams); ok {
			mu.Lock()
			defer mu.Unlock()
			n++
			return &AuthExportedAuthorization{ID: n, Bytes: []byte{byte(n)}}, nil
		}
		return nil, errors.Errorf("unexpected %T", req)
	}}
}

func TestInvokeBeforeStart(t *testing.T) {
	c := newTestClient(t, nil)
	_, err := c.Invoke(context.Background(), &HelpGetConfigParams{})
	require.Error(t, err)
}

func TestImportAuthorizationRetriesBadBytes(t *testing.T) {
	ctx := context.Background()
	main := exportingMain()
	c := newTestClient(t, main)

	imports := 0
	media := &fakeSession{handle: func(req tl.Object) (any, error) {
		imp, ok := req.(*AuthImportAuthorizationParams)
		require.True(t, ok)
		imports++
		if imports < importAttempts {
			return nil, rpcErr("AUTH_BYTES_INVALID")
		}
		assert.Equal(t, int64(importAttempts), imp.ID, "every attempt uses a fresh export")
		return &AuthExportedAuthorization{}, nil
	}}
	calls := scriptSessions(c, map[int]*fakeSession{4: media})

	s, err := c.mediaSession(ctx, 4)
	require.NoError(t, err)
	assert.Same(t, media, s)
	assert.Equal(t, importAttempts, imports)
	assert.Equal(t, importAttempts, countRequests[*AuthExportAuthorizationParams](main))
	require.Len(t, *calls, 1)
	assert.Nil(t, (*calls)[0].authKey, "other datacenters get a fresh key")

	again, err := c.mediaSession(ctx, 4)
	require.NoError(t, err)
	assert.Same(t, s, again)
	assert.Len(t, *calls, 1, "sessions are cached per datacenter")
}

func TestImportAuthorizationGivesUp(t *testing.T) {
	main := exportingMain()
	c := newTestClient(t, main)
	media := &fakeSession{handle: func(tl.Object) (any, error) {
		return nil, rpcErr("AUTH_BYTES_INVALID")
	}}
	scriptSessions(c, map[int]*fakeSession{4: media})

	_, err := c.mediaSession(context.Background(), 4)
	require.Error(t, err)
	assert.True(t, mtproto.MatchError(err, "AUTH_BYTES_INVALID"))
	assert.Equal(t, importAttempts, countRequests[*AuthImportAuthorizationParams](media))
	assert.Equal(t, 1, media.terminated)
	assert.Empty(t, c.media)
}

func TestImportAuthorizationOtherErrorsAreFinal(t *testing.T) {
	main := exportingMain()
	c := newTestClient(t, main)
	media := &fakeSession{handle: func(tl.Object) (any, error) {
		return nil, rpcErr("AUTH_KEY_UNREGISTERED")
	}}
	scriptSessions(c, map[int]*fakeSession{1: media})

	_, err := c.mediaSession(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, 1, countRequests[*AuthImportAuthorizationParams](media))
}

func TestMediaSessionOnMainDCReusesKey(t *testing.T) {
	main := &fakeSession{}
	c := newTestClient(t, main)
	media := &fakeSession{}
	calls := scriptSessions(c, map[int]*fakeSession{2: media})

	_, err := c.mediaSession(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, *calls, 1)
	assert.Len(t, (*calls)[0].authKey, 256)
	assert.False(t, (*calls)[0].cdn)
	assert.Empty(t, main.requests(), "no authorization import on the main datacenter")
}

func TestStopClosesSessions(t *testing.T) {
	main := &fakeSession{}
	c := newTestClient(t, main)
	media := &fakeSession{}
	scriptSessions(c, map[int]*fakeSession{2: media})
	_, err := c.mediaSession(context.Background(), 2)
	require.NoError(t, err)

	c.AddHandler(OnMessage(func(context.Context, *Client, *NewMessage) error { return nil }))
	c.run(context.Background())

	require.NoError(t, c.Stop())
	assert.Equal(t, 1, media.terminated)
	assert.Equal(t, 1, main.terminated)
	assert.Empty(t, c.media)
	assert.Empty(t, c.Dispatcher().Groups())
}
