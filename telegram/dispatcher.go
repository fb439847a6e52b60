// Copyright (c) 2024 RoseLoverX

package telegram

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/amarnathcjd/mtproto/internal/metrics"
	"github.com/amarnathcjd/mtproto/internal/utils"
)

var (
	// StopPropagation returned by a handler ends the walk for the update.
	StopPropagation = errors.New("stop propagation")
	// ContinuePropagation returned by a handler lets the next handler of
	// the same group run.
	ContinuePropagation = errors.New("continue propagation")

	ErrHandlerNotFound = errors.New("handler not found")
)

const DefaultGroup = 0

// HandlerFunc receives the rich object of its kind: *NewMessage,
// *CallbackQuery, *DeleteMessage and so on.
type HandlerFunc func(ctx context.Context, c *Client, update any) error

// RawHandlerFunc receives updates as they came, with the users and chats
// that came along keyed by bare id.
type RawHandlerFunc func(ctx context.Context, c *Client, u Update, users map[int64]User, chats map[int64]Chat) error

type Handler struct {
	ID     uuid.UUID
	Kind   UpdateKind
	Filter *Filter

	fn  HandlerFunc
	raw RawHandlerFunc
}

func newHandler(kind UpdateKind, fn HandlerFunc, filters []*Filter) *Handler {
	return &Handler{ID: uuid.New(), Kind: kind, Filter: And(filters...), fn: fn}
}

func OnMessage(fn func(ctx context.Context, c *Client, m *NewMessage) error, filters ...*Filter) *Handler {
	return newHandler(KindMessage, func(ctx context.Context, c *Client, u any) error {
		return fn(ctx, c, u.(*NewMessage))
	}, filters)
}

func OnEditedMessage(fn func(ctx context.Context, c *Client, m *NewMessage) error, filters ...*Filter) *Handler {
	return newHandler(KindEditedMessage, func(ctx context.Context, c *Client, u any) error {
		return fn(ctx, c, u.(*NewMessage))
	}, filters)
}

func OnDeletedMessages(fn func(ctx context.Context, c *Client, d *DeleteMessage) error, filters ...*Filter) *Handler {
	return newHandler(KindDeletedMessages, func(ctx context.Context, c *Client, u any) error {
		return fn(ctx, c, u.(*DeleteMessage))
	}, filters)
}

func OnCallbackQuery(fn func(ctx context.Context, c *Client, q *CallbackQuery) error, filters ...*Filter) *Handler {
	return newHandler(KindCallbackQuery, func(ctx context.Context, c *Client, u any) error {
		return fn(ctx, c, u.(*CallbackQuery))
	}, filters)
}

func OnUserStatus(fn func(ctx context.Context, c *Client, s *UserStatusUpdate) error, filters ...*Filter) *Handler {
	return newHandler(KindUserStatus, func(ctx context.Context, c *Client, u any) error {
		return fn(ctx, c, u.(*UserStatusUpdate))
	}, filters)
}

func OnInlineQuery(fn func(ctx context.Context, c *Client, q *InlineQuery) error, filters ...*Filter) *Handler {
	return newHandler(KindInlineQuery, func(ctx context.Context, c *Client, u any) error {
		return fn(ctx, c, u.(*InlineQuery))
	}, filters)
}

func OnPoll(fn func(ctx context.Context, c *Client, v *PollVote) error, filters ...*Filter) *Handler {
	return newHandler(KindPoll, func(ctx context.Context, c *Client, u any) error {
		return fn(ctx, c, u.(*PollVote))
	}, filters)
}

func OnChosenInlineResult(fn func(ctx context.Context, c *Client, r *ChosenInlineResult) error, filters ...*Filter) *Handler {
	return newHandler(KindChosenInlineResult, func(ctx context.Context, c *Client, u any) error {
		return fn(ctx, c, u.(*ChosenInlineResult))
	}, filters)
}

func OnChatMember(fn func(ctx context.Context, c *Client, m *ChatMemberUpdated) error, filters ...*Filter) *Handler {
	return newHandler(KindChatMember, func(ctx context.Context, c *Client, u any) error {
		return fn(ctx, c, u.(*ChatMemberUpdated))
	}, filters)
}

func OnChatJoinRequest(fn func(ctx context.Context, c *Client, r *ChatJoinRequest) error, filters ...*Filter) *Handler {
	return newHandler(KindChatJoinRequest, func(ctx context.Context, c *Client, u any) error {
		return fn(ctx, c, u.(*ChatJoinRequest))
	}, filters)
}

// OnRaw handles updates that have no rich form.
func OnRaw(fn RawHandlerFunc) *Handler {
	return &Handler{ID: uuid.New(), Kind: KindRaw, raw: fn}
}

// ErrorHandlerFunc returns true when it dealt with err.
type ErrorHandlerFunc func(ctx context.Context, c *Client, update any, err error) bool

type ErrorHandler struct {
	ID uuid.UUID
	fn ErrorHandlerFunc
}

func OnError(fn ErrorHandlerFunc) *ErrorHandler {
	return &ErrorHandler{ID: uuid.New(), fn: fn}
}

type packet struct {
	update Update
	users  map[int64]User
	chats  map[int64]Chat
	stop   bool
}

// Dispatcher fans updates out to handler groups on a fixed set of workers.
// Each worker holds its own lock while walking the groups.
type Dispatcher struct {
	client  *Client
	log     *utils.Logger
	metrics *metrics.Metrics
	workers int

	queue *queue[packet]
	wg    sync.WaitGroup
	ctx   context.Context

	mu            sync.RWMutex
	groups        map[int][]*Handler
	order         []int
	errorHandlers []*ErrorHandler
	running       bool
}

func newDispatcher(c *Client, workers int, log *utils.Logger, m *metrics.Metrics) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	return &Dispatcher{
		client:  c,
		log:     log,
		metrics: m,
		workers: workers,
		queue:   newQueue[packet](),
		groups:  make(map[int][]*Handler),
	}
}

func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return
	}
	d.running = true
	d.ctx = ctx
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(&sync.Mutex{})
	}
	d.log.Info("started %d handler workers", d.workers)
}

// Stop sends every worker a stop packet, waits for them to drain the
// updates queued before it and clears all handlers.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	wasRunning := d.running
	d.running = false
	d.mu.Unlock()

	if wasRunning {
		for i := 0; i < d.workers; i++ {
			d.queue.push(packet{stop: true})
		}
		d.wg.Wait()
		d.log.Info("stopped %d handler workers", d.workers)
	}

	d.mu.Lock()
	d.groups = make(map[int][]*Handler)
	d.order = nil
	d.errorHandlers = nil
	d.mu.Unlock()
}

// Push queues an update for the workers.
func (d *Dispatcher) Push(u Update, users map[int64]User, chats map[int64]Chat) {
	d.queue.push(packet{update: u, users: users, chats: chats})
}

// AddHandler appends h to group, creating the group when needed.
func (d *Dispatcher) AddHandler(h *Handler, group int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.groups[group]; !ok {
		d.order = append(d.order, group)
		sort.Ints(d.order)
	}
	d.groups[group] = append(d.groups[group], h)
}

func (d *Dispatcher) RemoveHandler(h *Handler, group int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	handlers, ok := d.groups[group]
	if !ok {
		return errors.Errorf("group %d does not exist, handler was not removed", group)
	}
	for i, x := range handlers {
		if x == h {
			d.groups[group] = append(handlers[:i:i], handlers[i+1:]...)
			return nil
		}
	}
	return errors.Wrapf(ErrHandlerNotFound, "group %d", group)
}

func (d *Dispatcher) AddErrorHandler(h *ErrorHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, x := range d.errorHandlers {
		if x == h {
			return
		}
	}
	d.errorHandlers = append(d.errorHandlers, h)
}

func (d *Dispatcher) RemoveErrorHandler(h *ErrorHandler) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, x := range d.errorHandlers {
		if x == h {
			d.errorHandlers = append(d.errorHandlers[:i:i], d.errorHandlers[i+1:]...)
			return nil
		}
	}
	return errors.Errorf("error handler %s does not exist, handler was not removed", h.ID)
}

// Groups lists the group numbers in dispatch order.
func (d *Dispatcher) Groups() []int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]int(nil), d.order...)
}

// snapshot copies the handler lists so a walk never sees a concurrent
// change half applied.
func (d *Dispatcher) snapshot() ([][]*Handler, []*ErrorHandler) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	groups := make([][]*Handler, 0, len(d.order))
	for _, g := range d.order {
		groups = append(groups, append([]*Handler(nil), d.groups[g]...))
	}
	return groups, append([]*ErrorHandler(nil), d.errorHandlers...)
}

func (d *Dispatcher) worker(lock *sync.Mutex) {
	defer d.wg.Done()
	for {
		p := d.queue.pop()
		if p.stop {
			return
		}
		d.process(p, lock)
	}
}

func (d *Dispatcher) process(p packet, lock *sync.Mutex) {
	parsed, kind := buildUpdate(p.update, p.users, p.chats)
	d.metrics.Update(kind.String())

	lock.Lock()
	defer lock.Unlock()

	ctx := d.ctx
	if parsed != nil {
		done, err := d.safeListener(ctx, parsed)
		if err != nil && !isPropagation(err) {
			d.handleError(ctx, parsed, err)
		}
		if done {
			return
		}
	}

	groups, errorHandlers := d.snapshot()
	for _, group := range groups {
		for _, h := range group {
			var err error
			switch {
			case parsed != nil:
				if h.Kind != kind || h.raw != nil || !h.Filter.Eval(d.client, parsed) {
					continue
				}
				err = d.safeCall(func() error { return h.fn(ctx, d.client, parsed) })
			case h.raw != nil:
				err = d.safeCall(func() error { return h.raw(ctx, d.client, p.update, p.users, p.chats) })
			default:
				continue
			}

			if errors.Is(err, StopPropagation) {
				return
			}
			if errors.Is(err, ContinuePropagation) {
				continue
			}
			if err != nil {
				d.metrics.HandlerError()
				var update any = parsed
				if parsed == nil {
					update = p.update
				}
				d.offerError(ctx, errorHandlers, update, err)
			}
			break
		}
	}
}

func (d *Dispatcher) safeListener(ctx context.Context, parsed any) (done bool, err error) {
	err = d.safeCall(func() error {
		var e error
		done, e = d.client.resolveListener(ctx, parsed)
		return e
	})
	return done, err
}

func (d *Dispatcher) handleError(ctx context.Context, update any, err error) {
	d.metrics.HandlerError()
	_, errorHandlers := d.snapshot()
	d.offerError(ctx, errorHandlers, update, err)
}

// offerError gives err to each error handler until one claims it.
func (d *Dispatcher) offerError(ctx context.Context, handlers []*ErrorHandler, update any, err error) {
	for _, h := range handlers {
		claimed := false
		if e := d.safeCall(func() error {
			claimed = h.fn(ctx, d.client, update, err)
			return nil
		}); e != nil {
			d.log.Error("error handler %s failed: %v", h.ID, e)
			continue
		}
		if claimed {
			return
		}
	}
	d.log.Error("unhandled exception: %+v", err)
}

// safeCall turns a handler panic into an error so one bad handler cannot
// take a worker down.
func (d *Dispatcher) safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(fmt.Sprintf("handler panicked: %v", r))
		}
	}()
	return fn()
}

func isPropagation(err error) bool {
	return errors.Is(err, StopPropagation) || errors.Is(err, ContinuePropagation)
}

// queue is an unbounded FIFO safe for many producers and consumers.
type queue[T any] struct {
	mu    sync.Mutex
	cond  *sync.Cond
	items []T
}

func newQueue[T any]() *queue[T] {
	q := &queue[T]{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *queue[T]) push(v T) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()
	q.cond.Signal()
}

// pop blocks until an item is available.
func (q *queue[T]) pop() T {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 {
		q.cond.Wait()
	}
	v := q.items[0]
	var zero T
	q.items[0] = zero
	q.items = q.items[1:]
	return v
}

func (q *queue[T]) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// ---------------------------- client shortcuts ----------------------------

func (c *Client) AddHandler(h *Handler, group ...int) *Handler {
	g := DefaultGroup
	if len(group) > 0 {
		g = group[0]
	}
	c.dispatcher.AddHandler(h, g)
	return h
}

func (c *Client) RemoveHandler(h *Handler, group ...int) error {
	g := DefaultGroup
	if len(group) > 0 {
		g = group[0]
	}
	return c.dispatcher.RemoveHandler(h, g)
}

func (c *Client) AddErrorHandler(h *ErrorHandler) *ErrorHandler {
	c.dispatcher.AddErrorHandler(h)
	return h
}

func (c *Client) RemoveErrorHandler(h *ErrorHandler) error {
	return c.dispatcher.RemoveErrorHandler(h)
}
