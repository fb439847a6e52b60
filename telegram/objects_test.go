// Copyright (c) 2024 RoseLoverX

package telegram

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amarnathcjd/mtproto/internal/session"
)

func TestClassify(t *testing.T) {
	for u, want := range map[Update]UpdateKind{
		&UpdateNewMessage{}:             KindMessage,
		&UpdateNewChannelMessage{}:      KindMessage,
		&UpdateEditChannelMessage{}:     KindEditedMessage,
		&UpdateDeleteMessages{}:         KindDeletedMessages,
		&UpdateInlineBotCallbackQuery{}: KindCallbackQuery,
		&UpdateUserStatus{}:             KindUserStatus,
		&UpdateBotChatInviteRequester{}: KindChatJoinRequest,
		&UpdateChannelTooLong{}:         KindRaw,
	} {
		assert.Equal(t, want, Classify(u), "%T", u)
	}
	assert.Equal(t, "callback_query", KindCallbackQuery.String())
	assert.Equal(t, "unknown", UpdateKind(200).String())
}

func TestBuildPrivateMessage(t *testing.T) {
	bot := &UserObj{ID: 9, Flags: UserBot, FirstName: "Helper", Usernames: []*Username{
		{Username: "old"}, {Username: "helper_bot", Active: true},
	}}
	u := &UpdateNewMessage{Message: &MessageObj{
		ID:      3,
		Flags:   MessageOut,
		PeerID:  &PeerUser{UserID: 9},
		Date:    1700000000,
		Message: "hi",
	}}

	parsed, kind := buildUpdate(u, map[int64]User{9: bot}, nil)
	require.Equal(t, KindMessage, kind)
	m := parsed.(*NewMessage)
	assert.Equal(t, int32(3), m.ID)
	assert.Equal(t, "hi", m.Text)
	assert.True(t, m.Outgoing)
	assert.Equal(t, time.Unix(1700000000, 0), m.Date)
	assert.True(t, m.EditDate.IsZero())

	assert.Equal(t, int64(9), m.Chat.ID)
	assert.Equal(t, session.PeerBot, m.Chat.Type)
	assert.Equal(t, "helper_bot", m.Chat.Username)
	require.NotNil(t, m.From, "private messages without a sender come from the chat")
	assert.Equal(t, int64(9), m.From.ID)
	assert.True(t, m.From.IsBot)
}

func TestBuildChannelMessage(t *testing.T) {
	channel := &Channel{ID: 123, AccessHash: 77, Title: "News", Flags: ChannelBroadcast}
	u := &UpdateEditChannelMessage{Message: &MessageObj{
		ID:       8,
		PeerID:   &PeerChannel{ChannelID: 123},
		Message:  "caption",
		Media:    &MessageMediaPhoto{},
		EditDate: 1700000100,
	}}

	parsed, kind := buildUpdate(u, nil, map[int64]Chat{123: channel})
	require.Equal(t, KindEditedMessage, kind)
	m := parsed.(*NewMessage)
	assert.True(t, m.Edited)
	assert.Equal(t, "caption", m.Caption)
	assert.Empty(t, m.Text)
	assert.Equal(t, "caption", m.Content())

	assert.Equal(t, int64(-1000000000123), m.Chat.ID)
	assert.Equal(t, session.PeerChannel, m.Chat.Type)
	assert.Equal(t, "News", m.Chat.Title)
	assert.Nil(t, m.From)
	require.NotNil(t, m.SenderChat)
	assert.Equal(t, m.Chat.ID, m.SenderChat.ID)
}

func TestBuildEmptyMessage(t *testing.T) {
	parsed, kind := buildUpdate(&UpdateNewMessage{Message: &MessageEmpty{ID: 1}}, nil, nil)
	assert.Nil(t, parsed)
	assert.Equal(t, KindMessage, kind)
}

func TestBuildCallbackQueries(t *testing.T) {
	users := map[int64]User{4: &UserObj{ID: 4, FirstName: "Ann", LastName: "Lee"}}
	parsed, _ := buildUpdate(&UpdateBotCallbackQuery{
		QueryID: 1,
		UserID:  4,
		Peer:    &PeerChat{ChatID: 55},
		MsgID:   6,
		Data:    []byte("yes"),
	}, users, nil)
	q := parsed.(*CallbackQuery)
	assert.Equal(t, "Ann Lee", q.From.FullName())
	assert.Equal(t, int64(-55), q.Chat.ID)
	assert.Equal(t, session.PeerGroup, q.Chat.Type)
	assert.Equal(t, []byte("yes"), q.Data)

	parsed, _ = buildUpdate(&UpdateInlineBotCallbackQuery{
		QueryID: 2,
		UserID:  5,
		MsgID:   &InputBotInlineMessageIDObj{DcID: 2, ID: 10, AccessHash: 20},
	}, users, nil)
	q = parsed.(*CallbackQuery)
	assert.Equal(t, &UserInfo{ID: 5}, q.From, "unknown users are stubs")
	raw, err := base64.RawURLEncoding.DecodeString(q.InlineMessageID)
	require.NoError(t, err)
	assert.Len(t, raw, 20)
	assert.Nil(t, q.Chat)
}

func TestBuildUserStatus(t *testing.T) {
	parsed, kind := buildUpdate(&UpdateUserStatus{UserID: 3, Status: &UserStatusOnline{Expires: 1700000000}}, nil, nil)
	assert.Equal(t, KindUserStatus, kind)
	s := parsed.(*UserStatusUpdate)
	assert.Equal(t, "online", s.Status)
	assert.Equal(t, time.Unix(1700000000, 0), s.NextOffline)

	parsed, _ = buildUpdate(&UpdateUserStatus{UserID: 3}, nil, nil)
	assert.Equal(t, "long_ago", parsed.(*UserStatusUpdate).Status)
}

func TestIndexPeers(t *testing.T) {
	users, chats := indexPeers(
		[]User{&UserObj{ID: 1}, &UserEmpty{ID: 2}},
		[]Chat{&ChatObj{ID: 3}, &Channel{ID: 4}, &ChannelForbidden{ID: 5}},
	)
	assert.Len(t, users, 2)
	assert.Len(t, chats, 3)
	assert.Contains(t, chats, int64(4))
}
