// Copyright (c) 2024 RoseLoverX

package telegram

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amarnathcjd/mtproto/internal/encoding/tl"
)

func messages(c *Client) chan *NewMessage {
	got := make(chan *NewMessage, 4)
	c.AddHandler(OnMessage(func(_ context.Context, _ *Client, m *NewMessage) error {
		got <- m
		return nil
	}))
	return got
}

func TestServerUpdatesAreDispatched(t *testing.T) {
	c, _ := runningClient(t)
	got := messages(c)

	assert.False(t, c.onServerObject(&UpdatesState{}))
	assert.True(t, c.onServerObject(&UpdatesObj{
		Updates: []Update{&UpdateNewMessage{Message: &MessageObj{
			ID:      1,
			PeerID:  &PeerUser{UserID: 5},
			Message: "hello",
		}}},
		Users: []User{testUser(5, "Five")},
	}))

	m := recv(t, got)
	assert.Equal(t, "hello", m.Text)
	assert.Equal(t, "Five", m.Chat.Username)

	p, err := c.storage.GetPeerByUsername(context.Background(), "five")
	require.NoError(t, err, "peers of an update are cached")
	assert.Equal(t, int64(50), p.AccessHash)
}

func TestUpdateShort(t *testing.T) {
	c, _ := runningClient(t)
	got := make(chan *UserStatusUpdate, 1)
	c.AddHandler(OnUserStatus(func(_ context.Context, _ *Client, s *UserStatusUpdate) error {
		got <- s
		return nil
	}))

	c.handleUpdates(context.Background(), &UpdateShort{Update: &UpdateUserStatus{UserID: 3, Status: &UserStatusRecently{}}})
	s := recv(t, got)
	assert.Equal(t, int64(3), s.UserID)
	assert.Equal(t, "recently", s.Status)
}

func TestShortMessageFetchesDifference(t *testing.T) {
	c, main := runningClient(t)
	main.handle = func(req tl.Object) (any, error) {
		if _, ok := req.(*UpdatesGetDifferenceParams); !ok {
			return nil, errors.Errorf("unexpected %T", req)
		}
		return &UpdatesDifferenceObj{
			NewMessages: []Message{&MessageObj{
				ID:      42,
				FromID:  &PeerUser{UserID: 8},
				PeerID:  &PeerUser{UserID: 8},
				Message: "full text",
			}},
			Users: []User{testUser(8, "eight")},
			State: &UpdatesState{},
		}, nil
	}
	got := messages(c)

	c.handleUpdates(context.Background(), &UpdateShortMessage{ID: 42, UserID: 8, Message: "full", Pts: 10, PtsCount: 1, Date: 1700000000})
	m := recv(t, got)
	assert.Equal(t, "full text", m.Text)
	require.NotNil(t, m.From)
	assert.Equal(t, int64(8), m.From.ID)

	reqs := main.requests()
	require.Len(t, reqs, 1)
	diff := reqs[0].(*UpdatesGetDifferenceParams)
	assert.Equal(t, int32(9), diff.Pts)
	assert.Equal(t, int32(1700000000), diff.Date)
}

func TestShortMessageDifferenceFails(t *testing.T) {
	c, main := runningClient(t)
	main.handle = func(tl.Object) (any, error) { return nil, rpcErr("PERSISTENT_TIMESTAMP_INVALID") }
	got := messages(c)

	c.handleUpdates(context.Background(), &UpdateShortChatMessage{ID: 1, Pts: 3, PtsCount: 1})
	flush(t, c)
	assert.Empty(t, got)
}

func TestWatchdogFetchesState(t *testing.T) {
	main := &fakeSession{handle: func(req tl.Object) (any, error) {
		if _, ok := req.(*UpdatesGetStateParams); ok {
			return &UpdatesState{Pts: 1}, nil
		}
		return nil, errors.Errorf("unexpected %T", req)
	}}
	c := newTestClient(t, main)
	c.watchdogInterval = 5 * time.Millisecond
	c.run(context.Background())

	assert.Eventually(t, func() bool {
		return countRequests[*UpdatesGetStateParams](main) > 0
	}, waitFor, time.Millisecond)
}
