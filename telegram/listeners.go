// Copyright (c) 2024 RoseLoverX

package telegram

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/amarnathcjd/mtproto/internal/metrics"
)

var (
	ErrListenerTimeout = errors.New("listener timed out")
	ErrListenerStopped = errors.New("listener stopped")
)

// DefaultClickAlert answers button presses a callback listener filtered out.
const DefaultClickAlert = "You're not expected to click this button."

type ListenerType uint8

const (
	ListenMessage ListenerType = iota
	ListenCallbackQuery
)

func (t ListenerType) String() string {
	if t == ListenCallbackQuery {
		return "callback_query"
	}
	return "message"
}

// Identifier selects updates by chat, sender, message and inline message.
// An empty field matches anything. Chat and user entries are ids or
// usernames.
type Identifier struct {
	ChatID          []any
	FromUserID      []any
	MessageID       []int32
	InlineMessageID []string
}

// Matches reports whether every populated field of i shares at least one
// value with the same field of data.
func (i Identifier) Matches(data Identifier) bool {
	if len(i.ChatID) > 0 && !intersects(i.ChatID, data.ChatID) {
		return false
	}
	if len(i.FromUserID) > 0 && !intersects(i.FromUserID, data.FromUserID) {
		return false
	}
	if len(i.MessageID) > 0 && !intersectsComparable(i.MessageID, data.MessageID) {
		return false
	}
	if len(i.InlineMessageID) > 0 && !intersectsComparable(i.InlineMessageID, data.InlineMessageID) {
		return false
	}
	return true
}

// Specificity counts the populated fields.
func (i Identifier) Specificity() int {
	n := 0
	for _, populated := range []bool{
		len(i.ChatID) > 0,
		len(i.FromUserID) > 0,
		len(i.MessageID) > 0,
		len(i.InlineMessageID) > 0,
	} {
		if populated {
			n++
		}
	}
	return n
}

func intersects(a, b []any) bool {
	for _, x := range a {
		kx := normalizeKey(x)
		if kx == nil {
			continue
		}
		for _, y := range b {
			if kx == normalizeKey(y) {
				return true
			}
		}
	}
	return false
}

func intersectsComparable[T comparable](a, b []T) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// normalizeKey makes ids of any integer type and usernames with or without
// @ compare equal. Empty values normalize to nil and never match.
func normalizeKey(v any) any {
	switch v := v.(type) {
	case int:
		return normalizeKey(int64(v))
	case int32:
		return normalizeKey(int64(v))
	case int64:
		if v == 0 {
			return nil
		}
		return v
	case string:
		v = strings.ToLower(strings.TrimPrefix(v, "@"))
		if v == "" {
			return nil
		}
		return v
	}
	return nil
}

type listenResult struct {
	update any
	err    error
}

// ListenerCallback runs in place of a handler when a registered next step
// listener is fulfilled.
type ListenerCallback func(ctx context.Context, c *Client, update any) error

// Listener waits for one update matching Identifier. It is removed exactly
// once: when fulfilled, stopped or timed out.
type Listener struct {
	ID         uuid.UUID
	Type       ListenerType
	Identifier Identifier
	Filter     *Filter
	// ClickAlert answers callback queries the filter rejected, empty
	// disables it.
	ClickAlert string

	result   chan listenResult
	callback ListenerCallback
}

type listenerSet struct {
	mu      sync.Mutex
	byType  map[ListenerType][]*Listener
	metrics *metrics.Metrics
}

func newListenerSet(m *metrics.Metrics) *listenerSet {
	return &listenerSet{byType: make(map[ListenerType][]*Listener), metrics: m}
}

func (s *listenerSet) add(l *Listener) {
	s.mu.Lock()
	s.byType[l.Type] = append(s.byType[l.Type], l)
	s.mu.Unlock()
	s.metrics.Listeners(1)
}

// remove reports whether l was still registered; only the caller that
// gets true may resolve it.
func (s *listenerSet) remove(l *Listener) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.byType[l.Type]
	for i, x := range list {
		if x == l {
			s.byType[l.Type] = append(list[:i:i], list[i+1:]...)
			s.metrics.Listeners(-1)
			return true
		}
	}
	return false
}

// match returns the most specific listener matching data, the earliest
// registered one on ties.
func (s *listenerSet) match(data Identifier, t ListenerType) *Listener {
	s.mu.Lock()
	defer s.mu.Unlock()
	var best *Listener
	for _, l := range s.byType[t] {
		if !l.Identifier.Matches(data) {
			continue
		}
		if best == nil || l.Identifier.Specificity() > best.Identifier.Specificity() {
			best = l
		}
	}
	return best
}

// matchPattern returns the listeners whose identifier pattern matches.
func (s *listenerSet) matchPattern(pattern Identifier, t ListenerType) []*Listener {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []*Listener
	for _, l := range s.byType[t] {
		if pattern.Matches(l.Identifier) {
			res = append(res, l)
		}
	}
	return res
}

func (s *listenerSet) len(t ListenerType) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byType[t])
}

type ListenOptions struct {
	Identifier
	Type   ListenerType
	Filter *Filter
	// Timeout of zero falls back to the client's listener timeout; a
	// negative one waits forever.
	Timeout time.Duration
	// ClickAlert overrides DefaultClickAlert.
	ClickAlert   string
	NoClickAlert bool
}

func (o *ListenOptions) listener() *Listener {
	alert := o.ClickAlert
	if alert == "" {
		alert = DefaultClickAlert
	}
	if o.NoClickAlert {
		alert = ""
	}
	return &Listener{
		ID:         uuid.New(),
		Type:       o.Type,
		Identifier: o.Identifier,
		Filter:     o.Filter,
		ClickAlert: alert,
	}
}

// Listen waits for the next update matching opts. On timeout the
// configured timeout handler runs and Listen returns nil; without one it
// fails with ErrListenerTimeout, or returns nil when the client does not
// throw on listener errors.
func (c *Client) Listen(ctx context.Context, opts ListenOptions) (any, error) {
	l := opts.listener()
	l.result = make(chan listenResult, 1)
	c.listeners.add(l)
	c.Log.Debug("listening for %s (%s)", l.Type, l.ID)

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = c.cfg.ListenerTimeout
	}
	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case r := <-l.result:
		return c.listenOutcome(r)
	case <-expired:
		if !c.listeners.remove(l) {
			return c.listenOutcome(<-l.result)
		}
		if c.timeoutHandler != nil {
			c.timeoutHandler(opts.Identifier, l, timeout)
			return nil, nil
		}
		if c.cfg.ListenerThrow {
			return nil, errors.Wrapf(ErrListenerTimeout, "after %s", timeout)
		}
		return nil, nil
	case <-ctx.Done():
		if !c.listeners.remove(l) {
			return c.listenOutcome(<-l.result)
		}
		return nil, ctx.Err()
	}
}

func (c *Client) listenOutcome(r listenResult) (any, error) {
	if errors.Is(r.err, ErrListenerStopped) && !c.cfg.ListenerThrow {
		return nil, nil
	}
	return r.update, r.err
}

// ListenMessage is Listen for messages.
func (c *Client) ListenMessage(ctx context.Context, opts ListenOptions) (*NewMessage, error) {
	opts.Type = ListenMessage
	u, err := c.Listen(ctx, opts)
	m, _ := u.(*NewMessage)
	return m, err
}

// ListenCallback is Listen for callback queries.
func (c *Client) ListenCallback(ctx context.Context, opts ListenOptions) (*CallbackQuery, error) {
	opts.Type = ListenCallbackQuery
	u, err := c.Listen(ctx, opts)
	q, _ := u.(*CallbackQuery)
	return q, err
}

// Ask sends text to chat, unless it is blank, then listens for the answer.
// The listener is bound to chat unless opts names chats itself.
func (c *Client) Ask(ctx context.Context, chat any, text string, opts ListenOptions) (any, error) {
	if len(opts.ChatID) == 0 {
		opts.ChatID = []any{chat}
	}
	if strings.TrimSpace(text) != "" {
		if _, err := c.SendMessage(ctx, chat, text); err != nil {
			return nil, errors.Wrap(err, "asking")
		}
	}
	return c.Listen(ctx, opts)
}

// RegisterNextStepHandler runs callback on the next update matching opts
// instead of the regular handlers. It never times out.
func (c *Client) RegisterNextStepHandler(callback ListenerCallback, opts ListenOptions) *Listener {
	l := opts.listener()
	l.callback = callback
	c.listeners.add(l)
	return l
}

// StopListening stops every listener whose identifier matches pattern.
func (c *Client) StopListening(t ListenerType, pattern Identifier) int {
	n := 0
	for _, l := range c.listeners.matchPattern(pattern, t) {
		if c.StopListener(l) {
			n++
		}
	}
	return n
}

// StopListener removes l; a waiting Listen returns ErrListenerStopped.
func (c *Client) StopListener(l *Listener) bool {
	if !c.listeners.remove(l) {
		return false
	}
	if l.result != nil {
		l.result <- listenResult{err: ErrListenerStopped}
	}
	c.Log.Debug("stopped listener %s", l.ID)
	return true
}

// identifierOf describes an update the way listeners are matched against.
func identifierOf(u any) (Identifier, ListenerType, bool) {
	switch u := u.(type) {
	case *NewMessage:
		if u.Edited {
			return Identifier{}, 0, false
		}
		id := Identifier{MessageID: []int32{u.ID}}
		if u.Chat != nil {
			id.ChatID = []any{u.Chat.ID, u.Chat.Username}
		}
		if u.From != nil {
			id.FromUserID = []any{u.From.ID, u.From.Username}
		}
		return id, ListenMessage, true
	case *CallbackQuery:
		var id Identifier
		if u.MessageID != 0 {
			id.MessageID = []int32{u.MessageID}
		}
		if u.Chat != nil {
			id.ChatID = []any{u.Chat.ID, u.Chat.Username}
		}
		if u.From != nil {
			id.FromUserID = []any{u.From.ID, u.From.Username}
		}
		if u.InlineMessageID != "" {
			id.InlineMessageID = []string{u.InlineMessageID}
		}
		return id, ListenCallbackQuery, true
	}
	return Identifier{}, 0, false
}

// resolveListener hands u to the most specific matching listener. It
// reports whether a listener consumed the update. A callback query the
// listener's filter rejects is answered with its click alert and consumed
// too, while the listener keeps waiting.
func (c *Client) resolveListener(ctx context.Context, u any) (bool, error) {
	data, t, ok := identifierOf(u)
	if !ok {
		return false, nil
	}
	l := c.listeners.match(data, t)
	if l == nil {
		return false, nil
	}
	if !l.Filter.Eval(c, u) {
		if q, ok := u.(*CallbackQuery); ok && l.ClickAlert != "" {
			if err := c.AnswerCallbackQuery(ctx, q.ID, l.ClickAlert, false); err != nil {
				c.Log.Warn("answering unexpected click: %v", err)
			}
			return true, nil
		}
		return false, nil
	}
	if !c.listeners.remove(l) {
		return false, nil
	}
	if l.callback != nil {
		return true, l.callback(ctx, c, u)
	}
	l.result <- listenResult{update: u}
	return true, nil
}
