// Copyright (c) 2024 RoseLoverX

package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amarnathcjd/mtproto/internal/session"
)

// commandClient is a client logged in as the bot @username.
func commandClient(t *testing.T) *Client {
	c := newTestClient(t, nil)
	c.me.Store(&UserInfo{ID: 1, Username: "username", IsBot: true})
	return c
}

func text(s string) *NewMessage {
	return &NewMessage{Text: s}
}

func TestCommandSingle(t *testing.T) {
	c := commandClient(t)
	f := FilterCommand([]string{"start"})
	assert.True(t, f.Eval(c, text("/start")))
}

func TestCommandMultiple(t *testing.T) {
	c := commandClient(t)
	f := FilterCommand([]string{"start", "help"})
	assert.True(t, f.Eval(c, text("/start")))
	assert.True(t, f.Eval(c, text("/help")))
	assert.False(t, f.Eval(c, text("/settings")))
}

func TestCommandPrefixes(t *testing.T) {
	c := commandClient(t)
	f := FilterCommand([]string{"start"}, CommandOptions{Prefixes: []string{".", "!", "#"}})
	assert.True(t, f.Eval(c, text(".start")))
	assert.True(t, f.Eval(c, text("!start")))
	assert.True(t, f.Eval(c, text("#start")))
	assert.False(t, f.Eval(c, text("/start")))
}

func TestCommandCase(t *testing.T) {
	c := commandClient(t)
	sensitive := FilterCommand([]string{"start"}, CommandOptions{CaseSensitive: true})
	assert.True(t, sensitive.Eval(c, text("/start")))
	assert.False(t, sensitive.Eval(c, text("/StArT")))

	insensitive := FilterCommand([]string{"start"})
	assert.True(t, insensitive.Eval(c, text("/start")))
	assert.True(t, insensitive.Eval(c, text("/StArT")))
}

func TestCommandMention(t *testing.T) {
	c := commandClient(t)
	f := FilterCommand([]string{"start"})
	assert.True(t, f.Eval(c, text("/start@username")))
	assert.True(t, f.Eval(c, text("/start@UserName")))
	assert.False(t, f.Eval(c, text("/start@another")))
	assert.False(t, f.Eval(c, text("/starting")))
}

func TestCommandArgs(t *testing.T) {
	c := commandClient(t)
	f := FilterCommand([]string{"start"})
	for _, tc := range []struct {
		input string
		want  []string
	}{
		{"/start", []string{"start"}},
		{"/StArT", []string{"start"}},
		{"/start@username", []string{"start"}},
		{"/start a b c", []string{"start", "a", "b", "c"}},
		{"/start@username a b c", []string{"start", "a", "b", "c"}},
		{"/start 'a b' c", []string{"start", "a b", "c"}},
		{`/start     a     b     "c     d"`, []string{"start", "a", "b", "c     d"}},
		{`/start "say \"hi\""`, []string{"start", `say "hi"`}},
		{`/start "open`, []string{"start", `"open`}},
	} {
		m := text(tc.input)
		assert.True(t, f.Eval(c, m), tc.input)
		assert.Equal(t, tc.want, m.Command, tc.input)
	}
}

func TestCommandCaptionAndNoText(t *testing.T) {
	c := commandClient(t)
	f := FilterCommand([]string{"start"})
	assert.True(t, f.Eval(c, &NewMessage{Caption: "/start"}))
	assert.False(t, f.Eval(c, &NewMessage{}))
	assert.False(t, f.Eval(c, &CallbackQuery{Data: []byte("/start")}))
}

func TestFilterCombinators(t *testing.T) {
	calls := 0
	counting := func(result bool) *Filter {
		return NewFilter("counting", func(*Client, any) bool {
			calls++
			return result
		})
	}

	var nilFilter *Filter
	assert.True(t, nilFilter.Eval(nil, text("x")))
	assert.Nil(t, And())

	assert.False(t, And(counting(false), counting(true)).Eval(nil, nil))
	assert.Equal(t, 1, calls, "and stops at the first false")

	calls = 0
	assert.True(t, Or(counting(true), counting(false)).Eval(nil, nil))
	assert.Equal(t, 1, calls, "or stops at the first true")

	assert.True(t, FilterText.And(FilterIncoming).Eval(nil, text("x")))
	assert.False(t, FilterText.Not().Eval(nil, text("x")))
	assert.Equal(t, "(text & ~outgoing)", And(FilterText, Not(FilterOutgoing)).String())
	assert.Equal(t, "(text | bot)", FilterText.Or(FilterBot).String())
}

func TestChatTypeFilters(t *testing.T) {
	group := &NewMessage{Chat: &ChatInfo{ID: -5, Type: session.PeerGroup}}
	super := &NewMessage{Chat: &ChatInfo{ID: -1005, Type: session.PeerSupergroup}}
	channel := &NewMessage{Chat: &ChatInfo{ID: -1006, Type: session.PeerChannel}}
	private := &NewMessage{Chat: &ChatInfo{ID: 5, Type: session.PeerBot}}

	assert.True(t, FilterGroup.Eval(nil, group))
	assert.True(t, FilterGroup.Eval(nil, super))
	assert.False(t, FilterGroup.Eval(nil, channel))
	assert.True(t, FilterChannel.Eval(nil, channel))
	assert.True(t, FilterPrivate.Eval(nil, private))
	assert.False(t, FilterPrivate.Eval(nil, &InlineQuery{}))
}

func TestPeerFilters(t *testing.T) {
	c := commandClient(t)
	m := &NewMessage{
		Chat: &ChatInfo{ID: -1001, Username: "Club"},
		From: &UserInfo{ID: 42, Username: "Alice"},
	}
	assert.True(t, FilterChats("@club").Eval(c, m))
	assert.True(t, FilterChats(int64(-1001)).Eval(c, m))
	assert.True(t, FilterChats("-1001").Eval(c, m))
	assert.False(t, FilterChats("other").Eval(c, m))

	assert.True(t, FilterUsers("alice").Eval(c, m))
	assert.True(t, FilterUsers(42).Eval(c, m))
	assert.False(t, FilterUsers("me").Eval(c, m))

	mine := &NewMessage{Chat: &ChatInfo{ID: 1}, From: &UserInfo{ID: 1, IsSelf: true}}
	assert.True(t, FilterUsers("me").Eval(c, mine))
	assert.True(t, FilterChats("self").Eval(c, mine))
	assert.True(t, FilterMe.Eval(c, mine))
}

func TestRegexFilter(t *testing.T) {
	f := FilterRegex(`^order (\d+)$`)
	m := text("order 66")
	assert.True(t, f.Eval(nil, m))
	assert.Equal(t, []string{"order 66", "66"}, m.Matches)

	q := &CallbackQuery{Data: []byte("order 7")}
	assert.True(t, f.Eval(nil, q))
	assert.Equal(t, "7", q.Matches[1])

	assert.False(t, f.Eval(nil, &InlineQuery{Query: "nope"}))
}
