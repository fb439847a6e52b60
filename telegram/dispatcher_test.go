// Copyright (c) 2024 RoseLoverX

package telegram

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amarnathcjd/mtproto/internal/config"
)

const waitFor = 2 * time.Second

func singleWorker(cfg *config.Config) { cfg.Workers = 1 }

func testUser(id int64, username string) *UserObj {
	return &UserObj{ID: id, AccessHash: id * 10, FirstName: "user", Username: username}
}

// privateMessage is a message from user id in their private chat.
func privateMessage(msgID int32, from *UserObj, text string) (Update, map[int64]User, map[int64]Chat) {
	u := &UpdateNewMessage{Message: &MessageObj{
		ID:      msgID,
		PeerID:  &PeerUser{UserID: from.ID},
		Date:    1700000000,
		Message: text,
	}}
	return u, map[int64]User{from.ID: from}, map[int64]Chat{}
}

func recv[T any](t *testing.T, ch chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(waitFor):
		t.Fatal("timed out")
	}
	var zero T
	return zero
}

// flush pushes a callback query through the single worker and waits for
// it, so everything pushed before has been handled.
func flush(t *testing.T, c *Client) {
	t.Helper()
	done := make(chan struct{})
	h := c.AddHandler(OnCallbackQuery(func(context.Context, *Client, *CallbackQuery) error {
		close(done)
		return nil
	}), 1<<20)
	c.dispatcher.Push(&UpdateBotCallbackQuery{QueryID: 1, UserID: 1, Peer: &PeerUser{UserID: 1}, MsgID: 1}, nil, nil)
	recv(t, done)
	require.NoError(t, c.RemoveHandler(h, 1<<20))
}

func runningClient(t *testing.T, mutate ...func(*config.Config)) (*Client, *fakeSession) {
	main := &fakeSession{}
	c := newTestClient(t, main, append([]func(*config.Config){singleWorker}, mutate...)...)
	c.run(context.Background())
	return c, main
}

func TestDispatcherGroupOrder(t *testing.T) {
	c, _ := runningClient(t)
	calls := make(chan string, 8)
	record := func(name string, err error) *Handler {
		return OnMessage(func(context.Context, *Client, *NewMessage) error {
			calls <- name
			return err
		})
	}
	c.AddHandler(record("g1", nil), 1)
	c.AddHandler(record("g-1", nil), -1)
	c.AddHandler(record("g0", nil))
	c.AddHandler(record("g0-second", nil))

	assert.Equal(t, []int{-1, 0, 1}, c.Dispatcher().Groups())

	c.dispatcher.Push(privateMessage(1, testUser(5, ""), "hi"))
	flush(t, c)
	close(calls)
	var got []string
	for name := range calls {
		got = append(got, name)
	}
	assert.Equal(t, []string{"g-1", "g0", "g1"}, got, "one handler per group")
}

func TestDispatcherPropagation(t *testing.T) {
	c, _ := runningClient(t)
	calls := make(chan string, 8)
	c.AddHandler(OnMessage(func(context.Context, *Client, *NewMessage) error {
		calls <- "first"
		return ContinuePropagation
	}))
	c.AddHandler(OnMessage(func(context.Context, *Client, *NewMessage) error {
		calls <- "second"
		return StopPropagation
	}))
	c.AddHandler(OnMessage(func(context.Context, *Client, *NewMessage) error {
		calls <- "later group"
		return nil
	}), 1)

	c.dispatcher.Push(privateMessage(1, testUser(5, ""), "hi"))
	flush(t, c)
	close(calls)
	var got []string
	for name := range calls {
		got = append(got, name)
	}
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestDispatcherFiltersAndKinds(t *testing.T) {
	c, _ := runningClient(t)
	commands := make(chan []string, 4)
	c.AddHandler(OnMessage(func(_ context.Context, _ *Client, m *NewMessage) error {
		commands <- m.Command
		return nil
	}, FilterCommand([]string{"start"})))
	c.AddHandler(OnEditedMessage(func(context.Context, *Client, *NewMessage) error {
		t.Error("edited message handler got a new message")
		return nil
	}))

	c.dispatcher.Push(privateMessage(1, testUser(5, ""), "hello"))
	c.dispatcher.Push(privateMessage(2, testUser(5, ""), "/start now"))
	assert.Equal(t, []string{"start", "now"}, recv(t, commands))
	flush(t, c)
	assert.Empty(t, commands)
}

func TestDispatcherRawHandlers(t *testing.T) {
	c, _ := runningClient(t)
	raw := make(chan Update, 2)
	c.AddHandler(OnRaw(func(_ context.Context, _ *Client, u Update, _ map[int64]User, _ map[int64]Chat) error {
		raw <- u
		return nil
	}))

	tooLong := &UpdateChannelTooLong{ChannelID: 7, Pts: 3}
	c.dispatcher.Push(tooLong, nil, nil)
	assert.Same(t, tooLong, recv(t, raw))

	c.dispatcher.Push(privateMessage(1, testUser(5, ""), "hi"))
	flush(t, c)
	assert.Empty(t, raw, "updates with a rich form go to typed handlers")
}

func TestDispatcherErrorHandlers(t *testing.T) {
	c, _ := runningClient(t)
	boom := errors.New("boom")
	c.AddHandler(OnMessage(func(context.Context, *Client, *NewMessage) error { return boom }))
	c.AddHandler(OnMessage(func(context.Context, *Client, *NewMessage) error { panic("bad handler") }), 1)
	reached := make(chan struct{}, 1)
	c.AddHandler(OnMessage(func(context.Context, *Client, *NewMessage) error {
		reached <- struct{}{}
		return nil
	}), 2)

	seen := make(chan error, 4)
	c.AddErrorHandler(OnError(func(_ context.Context, _ *Client, _ any, err error) bool {
		seen <- err
		return true
	}))
	second := c.AddErrorHandler(OnError(func(context.Context, *Client, any, error) bool {
		t.Error("a claimed error reached the next error handler")
		return true
	}))

	c.dispatcher.Push(privateMessage(1, testUser(5, ""), "hi"))
	assert.ErrorIs(t, recv(t, seen), boom)
	assert.Contains(t, recv(t, seen).Error(), "bad handler")
	recv(t, reached)

	require.NoError(t, c.RemoveErrorHandler(second))
	assert.Error(t, c.RemoveErrorHandler(second))
}

func TestDispatcherRemoveHandler(t *testing.T) {
	c := newTestClient(t, nil)
	h := c.AddHandler(OnMessage(func(context.Context, *Client, *NewMessage) error { return nil }), 3)

	assert.Error(t, c.RemoveHandler(h, 4), "unknown group")
	require.NoError(t, c.RemoveHandler(h, 3))
	assert.ErrorIs(t, c.RemoveHandler(h, 3), ErrHandlerNotFound)
}

func TestDispatcherListenerComesFirst(t *testing.T) {
	c, _ := runningClient(t)
	c.AddHandler(OnMessage(func(_ context.Context, _ *Client, m *NewMessage) error {
		if m.Text == "answer" {
			t.Error("handler got the update a listener consumed")
		}
		return nil
	}))

	got := make(chan *NewMessage, 1)
	go func() {
		m, err := c.ListenMessage(context.Background(), ListenOptions{
			Identifier: Identifier{ChatID: []any{int64(5)}},
			Timeout:    -1,
		})
		assert.NoError(t, err)
		got <- m
	}()
	require.Eventually(t, func() bool { return c.listeners.len(ListenMessage) == 1 }, waitFor, time.Millisecond)

	c.dispatcher.Push(privateMessage(1, testUser(5, ""), "answer"))
	assert.Equal(t, "answer", recv(t, got).Text)
	flush(t, c)
}

func TestDispatcherStopClearsGroups(t *testing.T) {
	c, _ := runningClient(t, func(cfg *config.Config) { cfg.Workers = 3 })
	handled := make(chan int32, 16)
	c.AddHandler(OnMessage(func(_ context.Context, _ *Client, m *NewMessage) error {
		handled <- m.ID
		return nil
	}), 5)
	for i := int32(1); i <= 5; i++ {
		c.dispatcher.Push(privateMessage(i, testUser(5, ""), "hi"))
	}

	c.dispatcher.Stop()
	assert.Len(t, handled, 5, "queued updates drain before the workers stop")
	assert.Empty(t, c.Dispatcher().Groups())
}

func TestQueue(t *testing.T) {
	q := newQueue[int]()
	out := make(chan int)
	go func() {
		for i := 0; i < 3; i++ {
			out <- q.pop()
		}
	}()
	for i := 1; i <= 3; i++ {
		q.push(i)
	}
	assert.Equal(t, 1, recv(t, out))
	assert.Equal(t, 2, recv(t, out))
	assert.Equal(t, 3, recv(t, out))
	assert.Zero(t, q.len())
}
