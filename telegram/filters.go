// Copyright (c) 2024 RoseLoverX

package telegram

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/amarnathcjd/mtproto/internal/session"
)

type filterOp uint8

const (
	opLeaf filterOp = iota
	opAnd
	opOr
	opNot
)

// Predicate decides whether an update passes a leaf filter. c may be nil
// when a filter is evaluated outside a running client.
type Predicate func(c *Client, update any) bool

// Filter is a boolean expression over updates. A nil *Filter accepts
// everything.
type Filter struct {
	op   filterOp
	name string
	pred Predicate
	args []*Filter
}

// NewFilter wraps pred as a named leaf.
func NewFilter(name string, pred Predicate) *Filter {
	return &Filter{op: opLeaf, name: name, pred: pred}
}

func And(fs ...*Filter) *Filter { return combine(opAnd, fs) }
func Or(fs ...*Filter) *Filter  { return combine(opOr, fs) }

func Not(f *Filter) *Filter {
	return &Filter{op: opNot, args: []*Filter{f}}
}

func combine(op filterOp, fs []*Filter) *Filter {
	args := make([]*Filter, 0, len(fs))
	for _, f := range fs {
		if f != nil {
			args = append(args, f)
		}
	}
	switch len(args) {
	case 0:
		return nil
	case 1:
		return args[0]
	}
	return &Filter{op: op, args: args}
}

func (f *Filter) And(o *Filter) *Filter { return And(f, o) }
func (f *Filter) Or(o *Filter) *Filter  { return Or(f, o) }
func (f *Filter) Not() *Filter          { return Not(f) }

// Eval runs the expression left to right, stopping as soon as the result
// is known.
func (f *Filter) Eval(c *Client, update any) bool {
	if f == nil {
		return true
	}
	switch f.op {
	case opAnd:
		for _, a := range f.args {
			if !a.Eval(c, update) {
				return false
			}
		}
		return true
	case opOr:
		for _, a := range f.args {
			if a.Eval(c, update) {
				return true
			}
		}
		return false
	case opNot:
		return !f.args[0].Eval(c, update)
	}
	return f.pred(c, update)
}

func (f *Filter) String() string {
	if f == nil {
		return "all"
	}
	switch f.op {
	case opAnd, opOr:
		sep := " & "
		if f.op == opOr {
			sep = " | "
		}
		parts := make([]string, len(f.args))
		for i, a := range f.args {
			parts[i] = a.String()
		}
		return "(" + strings.Join(parts, sep) + ")"
	case opNot:
		return "~" + f.args[0].String()
	}
	return f.name
}

func messageOf(u any) *NewMessage {
	m, _ := u.(*NewMessage)
	return m
}

func chatOf(u any) *ChatInfo {
	switch u := u.(type) {
	case *NewMessage:
		return u.Chat
	case *CallbackQuery:
		return u.Chat
	case *DeleteMessage:
		return u.Chat
	case *ChatMemberUpdated:
		return u.Chat
	case *ChatJoinRequest:
		return u.Chat
	case *PollVote:
		return u.Voter
	}
	return nil
}

func fromOf(u any) *UserInfo {
	switch u := u.(type) {
	case *NewMessage:
		return u.From
	case *CallbackQuery:
		return u.From
	case *InlineQuery:
		return u.From
	case *ChosenInlineResult:
		return u.From
	case *ChatMemberUpdated:
		return u.From
	case *ChatJoinRequest:
		return u.From
	case *PollVote:
		return u.User
	}
	return nil
}

var (
	FilterAll = NewFilter("all", func(*Client, any) bool { return true })

	// FilterMe passes messages sent by this account.
	FilterMe = NewFilter("me", func(_ *Client, u any) bool {
		m := messageOf(u)
		if m == nil {
			return false
		}
		return m.Outgoing || (m.From != nil && m.From.IsSelf)
	})
	FilterOutgoing = NewFilter("outgoing", func(_ *Client, u any) bool {
		m := messageOf(u)
		return m != nil && m.Outgoing
	})
	FilterIncoming = NewFilter("incoming", func(_ *Client, u any) bool {
		m := messageOf(u)
		return m != nil && !m.Outgoing
	})

	FilterPrivate = chatType("private", session.PeerUser, session.PeerBot)
	FilterGroup   = chatType("group", session.PeerGroup, session.PeerSupergroup)
	FilterChannel = chatType("channel", session.PeerChannel)

	FilterText = NewFilter("text", func(_ *Client, u any) bool {
		m := messageOf(u)
		return m != nil && m.Text != ""
	})
	FilterBot = NewFilter("bot", func(_ *Client, u any) bool {
		from := fromOf(u)
		return from != nil && from.IsBot
	})
)

func chatType(name string, types ...session.PeerType) *Filter {
	return NewFilter(name, func(_ *Client, u any) bool {
		chat := chatOf(u)
		if chat == nil {
			return false
		}
		for _, t := range types {
			if chat.Type == t {
				return true
			}
		}
		return false
	})
}

type peerSet struct {
	ids       map[int64]struct{}
	usernames map[string]struct{}
	self      bool
}

// newPeerSet accepts ids, usernames with or without @, and "me" or "self".
func newPeerSet(peers []any) *peerSet {
	s := &peerSet{ids: map[int64]struct{}{}, usernames: map[string]struct{}{}}
	for _, p := range peers {
		switch v := normalizeKey(p).(type) {
		case int64:
			s.ids[v] = struct{}{}
		case string:
			if v == "me" || v == "self" {
				s.self = true
				continue
			}
			if id, err := strconv.ParseInt(v, 10, 64); err == nil {
				s.ids[id] = struct{}{}
				continue
			}
			s.usernames[strings.ToLower(v)] = struct{}{}
		}
	}
	return s
}

func (s *peerSet) has(id int64, username string) bool {
	if _, ok := s.ids[id]; ok {
		return true
	}
	if username != "" {
		_, ok := s.usernames[strings.ToLower(username)]
		return ok
	}
	return false
}

// FilterChats passes updates from one of chats.
func FilterChats(chats ...any) *Filter {
	s := newPeerSet(chats)
	return NewFilter(fmt.Sprintf("chat%v", chats), func(c *Client, u any) bool {
		chat := chatOf(u)
		if chat == nil {
			return false
		}
		if s.has(chat.ID, chat.Username) {
			return true
		}
		if s.self && c != nil {
			if me := c.Self(); me != nil && chat.ID == me.ID {
				return true
			}
		}
		return false
	})
}

// FilterUsers passes updates sent by one of users.
func FilterUsers(users ...any) *Filter {
	s := newPeerSet(users)
	return NewFilter(fmt.Sprintf("user%v", users), func(_ *Client, u any) bool {
		from := fromOf(u)
		if from == nil {
			return false
		}
		return s.has(from.ID, from.Username) || (s.self && from.IsSelf)
	})
}

// FilterRegex matches the message content, the callback data or the inline
// query and stores the submatches on the update.
func FilterRegex(pattern string) *Filter {
	re := regexp.MustCompile(pattern)
	return NewFilter("regex("+pattern+")", func(_ *Client, u any) bool {
		switch u := u.(type) {
		case *NewMessage:
			u.Matches = re.FindStringSubmatch(u.Content())
			return u.Matches != nil
		case *CallbackQuery:
			u.Matches = re.FindStringSubmatch(string(u.Data))
			return u.Matches != nil
		case *InlineQuery:
			u.Matches = re.FindStringSubmatch(u.Query)
			return u.Matches != nil
		}
		return false
	})
}

type CommandOptions struct {
	// Prefixes default to "/".
	Prefixes      []string
	CaseSensitive bool
}

// FilterCommand passes messages starting with one of names and stores the parsed
// command on the message: the name, then the arguments split like a shell
// would, honoring single and double quotes. A "@mention" after the name
// must be this bot's username.
func FilterCommand(names []string, opts ...CommandOptions) *Filter {
	var o CommandOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	if len(o.Prefixes) == 0 {
		o.Prefixes = []string{"/"}
	}
	cmds := make([]string, len(names))
	for i, n := range names {
		if !o.CaseSensitive {
			n = strings.ToLower(n)
		}
		cmds[i] = n
	}

	return NewFilter(fmt.Sprintf("command%v", names), func(c *Client, u any) bool {
		m := messageOf(u)
		if m == nil {
			return false
		}
		m.Command = nil
		text := m.Content()
		if text == "" {
			return false
		}
		var username string
		if c != nil {
			if me := c.Self(); me != nil {
				username = me.Username
			}
		}

		for _, prefix := range o.Prefixes {
			if !strings.HasPrefix(text, prefix) {
				continue
			}
			body := text[len(prefix):]
			for _, cmd := range cmds {
				rest, ok := matchCommand(body, cmd, username, o.CaseSensitive)
				if !ok {
					continue
				}
				m.Command = append([]string{cmd}, splitArgs(rest)...)
				return true
			}
		}
		return false
	})
}

// matchCommand checks that body starts with cmd, optionally followed by
// @username, and then whitespace or the end of the text.
func matchCommand(body, cmd, username string, caseSensitive bool) (string, bool) {
	if len(body) < len(cmd) {
		return "", false
	}
	head := body[:len(cmd)]
	if caseSensitive && head != cmd || !caseSensitive && !strings.EqualFold(head, cmd) {
		return "", false
	}
	rest := body[len(cmd):]
	if strings.HasPrefix(rest, "@") {
		end := strings.IndexAny(rest, " \t\n\r")
		if end < 0 {
			end = len(rest)
		}
		mention := rest[1:end]
		if username == "" || !strings.EqualFold(mention, username) {
			return "", false
		}
		rest = rest[end:]
	}
	if rest != "" && !isSpace(rest[0]) {
		return "", false
	}
	return rest, true
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v'
}

// splitArgs splits on whitespace. A quoted run keeps its spaces; an escaped
// quote inside it is unescaped. An unterminated quote starts a plain word.
func splitArgs(s string) []string {
	var args []string
	i := 0
	for i < len(s) {
		if isSpace(s[i]) {
			i++
			continue
		}
		if q := s[i]; q == '"' || q == '\'' {
			if end := closingQuote(s, i+1, q); end >= 0 {
				inner := s[i+1 : end]
				inner = strings.ReplaceAll(inner, `\"`, `"`)
				inner = strings.ReplaceAll(inner, `\'`, `'`)
				args = append(args, inner)
				i = end + 1
				continue
			}
		}
		start := i
		for i < len(s) && !isSpace(s[i]) {
			i++
		}
		args = append(args, s[start:i])
	}
	return args
}

func closingQuote(s string, from int, q byte) int {
	for j := from; j < len(s); j++ {
		switch s[j] {
		case '\n':
			return -1
		case q:
			if s[j-1] != '\\' {
				return j
			}
		}
	}
	return -1
}
