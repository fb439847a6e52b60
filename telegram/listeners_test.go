// Copyright (c) 2024 RoseLoverX

package telegram

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amarnathcjd/mtproto/internal/config"
	"github.com/amarnathcjd/mtproto/internal/encoding/tl"
	"github.com/amarnathcjd/mtproto/internal/session"
)

type listened struct {
	update any
	err    error
}

func listenAsync(c *Client, opts ListenOptions) chan listened {
	out := make(chan listened, 1)
	go func() {
		u, err := c.Listen(context.Background(), opts)
		out <- listened{u, err}
	}()
	return out
}

func waitListeners(t *testing.T, c *Client, typ ListenerType, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return c.listeners.len(typ) == n }, waitFor, time.Millisecond)
}

func messageFrom(msgID int32, user *UserObj, text string) *NewMessage {
	u, users, chats := privateMessage(msgID, user, text)
	parsed, _ := buildUpdate(u, users, chats)
	return parsed.(*NewMessage)
}

func TestIdentifierMatches(t *testing.T) {
	pattern := Identifier{ChatID: []any{"@Alice", int32(7)}}
	assert.True(t, pattern.Matches(Identifier{ChatID: []any{int64(1), "alice"}}))
	assert.True(t, pattern.Matches(Identifier{ChatID: []any{int64(7)}}))
	assert.False(t, pattern.Matches(Identifier{ChatID: []any{int64(8), "bob"}}))
	assert.False(t, pattern.Matches(Identifier{}))

	assert.True(t, Identifier{}.Matches(Identifier{ChatID: []any{int64(1)}}), "empty pattern matches anything")
	assert.False(t, Identifier{ChatID: []any{int64(0), ""}}.Matches(Identifier{ChatID: []any{int64(0), ""}}))

	assert.Equal(t, 0, Identifier{}.Specificity())
	assert.Equal(t, 3, Identifier{
		ChatID:     []any{int64(1)},
		FromUserID: []any{int64(1)},
		MessageID:  []int32{4},
	}.Specificity())
}

func TestListenerMostSpecificWins(t *testing.T) {
	c := newTestClient(t, nil)
	broad := listenAsync(c, ListenOptions{Identifier: Identifier{ChatID: []any{int64(5)}}, Timeout: -1})
	waitListeners(t, c, ListenMessage, 1)
	narrow := listenAsync(c, ListenOptions{
		Identifier: Identifier{ChatID: []any{int64(5)}, FromUserID: []any{"@Five"}},
		Timeout:    -1,
	})
	waitListeners(t, c, ListenMessage, 2)

	done, err := c.resolveListener(context.Background(), messageFrom(1, testUser(5, "five"), "first"))
	require.NoError(t, err)
	assert.True(t, done)
	r := recv(t, narrow)
	require.NoError(t, r.err)
	assert.Equal(t, "first", r.update.(*NewMessage).Text)
	assert.Empty(t, broad)

	done, err = c.resolveListener(context.Background(), messageFrom(2, testUser(5, "five"), "second"))
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, "second", recv(t, broad).update.(*NewMessage).Text)
	assert.Zero(t, c.listeners.len(ListenMessage))
}

func TestListenerTiesGoToEarliest(t *testing.T) {
	c := newTestClient(t, nil)
	first := c.RegisterNextStepHandler(func(context.Context, *Client, any) error { return nil },
		ListenOptions{Identifier: Identifier{ChatID: []any{int64(5)}}})
	c.RegisterNextStepHandler(func(context.Context, *Client, any) error { return nil },
		ListenOptions{Identifier: Identifier{ChatID: []any{int64(5)}}})

	assert.Same(t, first, c.listeners.match(Identifier{ChatID: []any{int64(5)}}, ListenMessage))
}

func TestListenerResolvesOnce(t *testing.T) {
	c := newTestClient(t, nil)
	res := listenAsync(c, ListenOptions{Identifier: Identifier{ChatID: []any{int64(5)}}, Timeout: -1})
	waitListeners(t, c, ListenMessage, 1)

	var resolved atomic.Int32
	var wg sync.WaitGroup
	for i := int32(0); i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			done, err := c.resolveListener(context.Background(), messageFrom(i, testUser(5, ""), "hi"))
			assert.NoError(t, err)
			if done {
				resolved.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), resolved.Load())
	require.NoError(t, recv(t, res).err)
}

func TestListenerTimeout(t *testing.T) {
	c := newTestClient(t, nil)
	_, err := c.Listen(context.Background(), ListenOptions{
		Identifier: Identifier{ChatID: []any{int64(5)}},
		Timeout:    10 * time.Millisecond,
	})
	assert.ErrorIs(t, err, ErrListenerTimeout)
	assert.Zero(t, c.listeners.len(ListenMessage))
}

func TestListenerTimeoutFromConfig(t *testing.T) {
	c := newTestClient(t, nil, func(cfg *config.Config) {
		cfg.ListenerTimeout = 10 * time.Millisecond
		cfg.ListenerThrow = false
	})
	u, err := c.Listen(context.Background(), ListenOptions{})
	assert.NoError(t, err)
	assert.Nil(t, u)
}

func TestListenerTimeoutHandler(t *testing.T) {
	c := newTestClient(t, nil)
	var got Identifier
	var gotTimeout time.Duration
	c.timeoutHandler = func(id Identifier, _ *Listener, timeout time.Duration) {
		got, gotTimeout = id, timeout
	}

	id := Identifier{ChatID: []any{int64(5)}}
	u, err := c.Listen(context.Background(), ListenOptions{Identifier: id, Timeout: 10 * time.Millisecond})
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.Equal(t, id, got)
	assert.Equal(t, 10*time.Millisecond, gotTimeout)
}

func TestListenerContextCancel(t *testing.T) {
	c := newTestClient(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Listen(ctx, ListenOptions{Timeout: -1})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, c.listeners.len(ListenMessage))
}

func TestStopListening(t *testing.T) {
	c := newTestClient(t, nil)
	five := listenAsync(c, ListenOptions{Identifier: Identifier{ChatID: []any{int64(5)}}, Timeout: -1})
	waitListeners(t, c, ListenMessage, 1)
	six := listenAsync(c, ListenOptions{Identifier: Identifier{ChatID: []any{int64(6)}}, Timeout: -1})
	waitListeners(t, c, ListenMessage, 2)

	assert.Equal(t, 1, c.StopListening(ListenMessage, Identifier{ChatID: []any{int64(5)}}))
	assert.ErrorIs(t, recv(t, five).err, ErrListenerStopped)
	assert.Empty(t, six)
	assert.Equal(t, 1, c.listeners.len(ListenMessage))

	assert.Equal(t, 1, c.StopListening(ListenMessage, Identifier{}))
	assert.ErrorIs(t, recv(t, six).err, ErrListenerStopped)
}

func TestStopListenerWithoutThrow(t *testing.T) {
	c := newTestClient(t, nil, func(cfg *config.Config) { cfg.ListenerThrow = false })
	res := listenAsync(c, ListenOptions{Timeout: -1})
	waitListeners(t, c, ListenMessage, 1)

	assert.Equal(t, 1, c.StopListening(ListenMessage, Identifier{}))
	r := recv(t, res)
	assert.NoError(t, r.err)
	assert.Nil(t, r.update)
}

func TestCallbackListenerClickAlert(t *testing.T) {
	answers := make(chan *MessagesSetBotCallbackAnswerParams, 1)
	main := &fakeSession{handle: func(req tl.Object) (any, error) {
		answers <- req.(*MessagesSetBotCallbackAnswerParams)
		return true, nil
	}}
	c := newTestClient(t, main)
	res := listenAsync(c, ListenOptions{
		Type:       ListenCallbackQuery,
		Identifier: Identifier{MessageID: []int32{10}},
		Filter:     FilterUsers(int64(7)),
		Timeout:    -1,
	})
	waitListeners(t, c, ListenCallbackQuery, 1)

	stranger := &CallbackQuery{ID: 99, MessageID: 10, From: &UserInfo{ID: 8}}
	done, err := c.resolveListener(context.Background(), stranger)
	require.NoError(t, err)
	assert.True(t, done, "an answered click does not reach handlers")
	assert.Equal(t, 1, c.listeners.len(ListenCallbackQuery))
	answer := recv(t, answers)
	assert.Equal(t, int64(99), answer.QueryID)
	assert.Equal(t, DefaultClickAlert, answer.Message)

	owner := &CallbackQuery{ID: 100, MessageID: 10, From: &UserInfo{ID: 7}}
	done, err = c.resolveListener(context.Background(), owner)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Same(t, owner, recv(t, res).update)
}

func TestNextStepHandler(t *testing.T) {
	c := newTestClient(t, nil)
	var calls atomic.Int32
	c.RegisterNextStepHandler(func(_ context.Context, _ *Client, u any) error {
		calls.Add(1)
		assert.Equal(t, "next", u.(*NewMessage).Text)
		return StopPropagation
	}, ListenOptions{Identifier: Identifier{ChatID: []any{int64(5)}}})

	done, err := c.resolveListener(context.Background(), messageFrom(1, testUser(5, ""), "next"))
	assert.True(t, done)
	assert.ErrorIs(t, err, StopPropagation)

	done, err = c.resolveListener(context.Background(), messageFrom(2, testUser(5, ""), "next"))
	assert.False(t, done)
	assert.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestEditedMessageSkipsListeners(t *testing.T) {
	c := newTestClient(t, nil)
	res := listenAsync(c, ListenOptions{Identifier: Identifier{ChatID: []any{int64(5)}}, Timeout: -1})
	waitListeners(t, c, ListenMessage, 1)

	u, users, chats := privateMessage(1, testUser(5, ""), "old text, edited")
	edit := &UpdateEditMessage{Message: u.(*UpdateNewMessage).Message}
	parsed, kind := buildUpdate(edit, users, chats)
	require.Equal(t, KindEditedMessage, kind)

	done, err := c.resolveListener(context.Background(), parsed)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, 1, c.listeners.len(ListenMessage))

	fresh := messageFrom(2, testUser(5, ""), "new")
	done, err = c.resolveListener(context.Background(), fresh)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Same(t, fresh, recv(t, res).update)
}

func TestAsk(t *testing.T) {
	sent := make(chan *MessagesSendMessageParams, 1)
	main := &fakeSession{handle: func(req tl.Object) (any, error) {
		sent <- req.(*MessagesSendMessageParams)
		return &UpdatesObj{}, nil
	}}
	c := newTestClient(t, main)
	require.NoError(t, c.storage.UpdatePeers(context.Background(), []session.Peer{
		{ID: 5, AccessHash: 50, Type: session.PeerUser},
	}))

	res := make(chan listened, 1)
	go func() {
		u, err := c.Ask(context.Background(), int64(5), "name?", ListenOptions{Timeout: -1})
		res <- listened{u, err}
	}()

	req := recv(t, sent)
	assert.Equal(t, "name?", req.Message)
	assert.Equal(t, &InputPeerUser{UserID: 5, AccessHash: 50}, req.Peer)

	waitListeners(t, c, ListenMessage, 1)
	_, err := c.resolveListener(context.Background(), messageFrom(3, testUser(5, ""), "bob"))
	require.NoError(t, err)
	r := recv(t, res)
	require.NoError(t, r.err)
	assert.Equal(t, "bob", r.update.(*NewMessage).Text)
}
