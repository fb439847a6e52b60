// Copyright (c) 2022 RoseLoverX

package mtproto

import (
	"context"
	"crypto/rsa"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	ige "github.com/amarnathcjd/mtproto/internal/aes_ige"
	"github.com/amarnathcjd/mtproto/internal/encoding/tl"
	"github.com/amarnathcjd/mtproto/internal/keys"
	"github.com/amarnathcjd/mtproto/internal/metrics"
	"github.com/amarnathcjd/mtproto/internal/mode"
	"github.com/amarnathcjd/mtproto/internal/mtproto/objects"
	"github.com/amarnathcjd/mtproto/internal/session"
	"github.com/amarnathcjd/mtproto/internal/transport"
	"github.com/amarnathcjd/mtproto/internal/utils"
)

const tracerName = "github.com/amarnathcjd/mtproto"

// State is the connection state of a session.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "disconnected"
	}
}

// MTProto is one encrypted conversation with one datacenter.
type MTProto struct {
	dc   int
	addr string

	connMu       sync.Mutex
	transport    transport.Transport
	stopRoutines context.CancelFunc
	routineswg   sync.WaitGroup
	state        atomic.Int32
	terminated   atomic.Bool

	keyMu       sync.RWMutex
	authKey     []byte
	authKeyHash []byte

	serverSalt atomic.Int64
	encrypted  atomic.Bool
	sessionId  int64
	timeOffset atomic.Int64

	// writeMu keeps msg ids and seq numbers in the order packets are written.
	writeMu  sync.Mutex
	seqNo    int32
	genMsgID func(timeOffset int64) int64

	pending     *utils.SyncMap[int64, *pending]
	pendingAcks *utils.SyncSet[int64]
	lastRecv    atomic.Int64

	reg        *tl.Registry
	crypto     *ige.Pool
	ownCrypto  bool
	publicKeys []*rsa.PublicKey
	storage    session.Storage

	sleepThreshold time.Duration
	pingInterval   time.Duration
	reconnect      bool
	sleep          func(ctx context.Context, d time.Duration) error
	dial           func(ctx context.Context, addr string) (transport.Transport, error)

	handlersMu            sync.RWMutex
	serverRequestHandlers []customHandlerFunc

	cfg     Config
	Logger  *utils.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// customHandlerFunc receives objects the server sent on its own, it
// returns true when it consumed the object.
type customHandlerFunc = func(i any) bool

type Config struct {
	DataCenter int
	// Addr overrides the address of DataCenter.
	Addr     string
	TestMode bool
	IPv6     bool
	Proxy    *url.URL
	Mode     mode.Variant

	// PublicKeys are the server keys accepted in the handshake.
	PublicKeys []*rsa.PublicKey
	// AuthKey resumes an existing key instead of running the handshake.
	AuthKey []byte
	// Storage persists the auth key and datacenter of the main session.
	// Media and CDN sessions leave it nil.
	Storage session.Storage

	// SleepThreshold is the longest flood wait slept through; a negative
	// one sleeps through any wait.
	SleepThreshold time.Duration
	PingInterval   time.Duration
	IdleTimeout    time.Duration
	// Reconnect redials when the connection is lost.
	Reconnect bool

	Registry *tl.Registry
	Crypto   *ige.Pool
	Logger   *utils.Logger
	Metrics  *metrics.Metrics
	Tracer   trace.Tracer

	// Dial replaces the TCP dialer.
	Dial func(ctx context.Context, addr string) (transport.Transport, error)
	// Sleep replaces the flood wait timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

func NewMTProto(c Config) (*MTProto, error) {
	if c.Registry == nil {
		c.Registry = tl.NewRegistry()
	}
	objects.Register(c.Registry)
	if c.Logger == nil {
		c.Logger = utils.NewLogger("")
	}
	if c.Tracer == nil {
		c.Tracer = otel.Tracer(tracerName)
	}
	if c.Sleep == nil {
		c.Sleep = sleepContext
	}
	if len(c.PublicKeys) == 0 {
		var err error
		if c.PublicKeys, err = keys.Default(); err != nil {
			return nil, errors.Wrap(err, "loading server keys")
		}
	}

	authKey := c.AuthKey
	if c.Storage != nil {
		ctx := context.Background()
		if c.DataCenter == 0 {
			dc, err := c.Storage.DcID(ctx)
			if err != nil {
				return nil, errors.Wrap(err, "loading session")
			}
			c.DataCenter = dc
		}
		if authKey == nil {
			key, err := c.Storage.AuthKey(ctx)
			if err != nil {
				return nil, errors.Wrap(err, "loading session")
			}
			authKey = key
		}
	}
	if c.DataCenter == 0 {
		c.DataCenter = session.DefaultDC
	}

	addr := c.Addr
	if addr == "" {
		addr = utils.GetHostIp(c.DataCenter, c.TestMode, c.IPv6)
	}
	if addr == "" && c.Dial == nil {
		return nil, errors.Errorf("no address known for dc %d", c.DataCenter)
	}

	m := &MTProto{
		dc:                    c.DataCenter,
		addr:                  addr,
		sessionId:             utils.GenerateSessionID(),
		genMsgID:              utils.NewMsgIDGenerator(),
		pending:               utils.NewSyncMap[int64, *pending](),
		pendingAcks:           utils.NewSyncSet[int64](),
		reg:                   c.Registry,
		crypto:                c.Crypto,
		publicKeys:            c.PublicKeys,
		storage:               c.Storage,
		sleepThreshold:        c.SleepThreshold,
		pingInterval:          c.PingInterval,
		reconnect:             c.Reconnect,
		sleep:                 c.Sleep,
		serverRequestHandlers: make([]customHandlerFunc, 0),
		cfg:                   c,
		Logger:                c.Logger.WithPrefix(fmt.Sprintf("mtproto[dc%d]", c.DataCenter)),
		metrics:               c.Metrics,
		tracer:                c.Tracer,
	}
	if m.crypto == nil {
		m.crypto = ige.NewPool(0)
		m.ownCrypto = true
	}

	m.dial = c.Dial
	if m.dial == nil {
		m.dial = func(ctx context.Context, addr string) (transport.Transport, error) {
			return transport.NewTransport(ctx, transport.TCPConnConfig{
				Host:        addr,
				IpV6:        c.IPv6,
				IdleTimeout: c.IdleTimeout,
				Proxy:       c.Proxy,
			}, c.Mode)
		}
	}

	if len(authKey) == ige.AuthKeySize {
		m.SetAuthKey(authKey)
		m.encrypted.Store(true)
	}
	return m, nil
}

// ExportConfig returns a configuration for another session of the same
// client on dc: same registry, crypto pool, logger and network settings,
// no storage and no key.
func (m *MTProto) ExportConfig(dc int) Config {
	c := m.cfg
	c.DataCenter = dc
	c.Addr = ""
	c.AuthKey = nil
	c.Storage = nil
	c.Crypto = m.crypto
	return c
}

// CreateConnection dials the datacenter, runs the handshake when the
// session has no key yet and starts the keep-alive.
func (m *MTProto) CreateConnection(ctx context.Context) error {
	if m.terminated.Load() {
		return ErrConnectionClosed
	}
	m.setState(StateConnecting)
	m.Logger.Debug("connecting to %s/%s...", m.addr, m.cfg.Mode)

	runCtx, err := m.open(ctx)
	if err != nil {
		m.setState(StateDisconnected)
		return err
	}

	if !m.encrypted.Load() {
		if err := m.makeAuthKey(ctx); err != nil {
			m.Disconnect()
			return errors.Wrap(err, "creating auth key")
		}
	}

	m.setState(StateAuthenticated)
	m.startPinging(runCtx)
	m.Logger.Debug("connection to %s/%s complete", m.addr, m.cfg.Mode)
	return nil
}

// open dials and starts reading, it returns the context of the connection.
func (m *MTProto) open(ctx context.Context) (context.Context, error) {
	t, err := m.dial(ctx, m.addr)
	if err != nil {
		return nil, errors.Wrap(err, "creating transport")
	}

	runCtx, cancel := context.WithCancel(context.Background())
	m.connMu.Lock()
	m.transport = t
	m.stopRoutines = cancel
	m.connMu.Unlock()

	m.lastRecv.Store(time.Now().UnixNano())
	m.startReadingResponses(runCtx, t)
	return runCtx, nil
}

// Disconnect closes the connection and waits for the background routines.
// Requests still waiting fail with ErrConnectionClosed.
func (m *MTProto) Disconnect() error {
	m.connMu.Lock()
	t, stop := m.transport, m.stopRoutines
	m.transport, m.stopRoutines = nil, nil
	m.connMu.Unlock()

	var err error
	if stop != nil {
		stop()
	}
	if t != nil {
		err = t.Close()
	}
	m.routineswg.Wait()

	m.failPending(ErrConnectionClosed)
	m.setState(StateDisconnected)
	return err
}

// Terminate disconnects for good: no reconnect happens afterwards.
func (m *MTProto) Terminate() error {
	m.terminated.Store(true)
	err := m.Disconnect()
	if m.ownCrypto {
		m.crypto.Close()
	}
	return err
}

func (m *MTProto) Reconnect(ctx context.Context) error {
	m.Logger.Debug("reconnecting to %s...", m.addr)
	if err := m.Disconnect(); err != nil {
		m.Logger.Debug("closing old connection: %v", err)
	}
	if err := m.CreateConnection(ctx); err != nil {
		return errors.Wrap(err, "connecting")
	}
	return nil
}

// connectionLost tears down t if it is still the current transport.
func (m *MTProto) connectionLost(t transport.Transport, cause error) {
	m.connMu.Lock()
	if m.transport != t {
		m.connMu.Unlock()
		return
	}
	stop := m.stopRoutines
	m.transport, m.stopRoutines = nil, nil
	m.connMu.Unlock()

	stop()
	t.Close()
	m.failPending(errors.Wrap(ErrConnectionClosed, cause.Error()))
	m.setState(StateDisconnected)

	if !m.reconnect || m.terminated.Load() {
		return
	}
	if errors.Is(cause, ErrAuthKeyInvalid) {
		m.Logger.Error("server dropped the auth key, not reconnecting")
		return
	}
	go m.reconnectLoop()
}

func (m *MTProto) reconnectLoop() {
	ctx := context.Background()
	backoff := time.Second
	for attempt := 1; attempt <= 5 && !m.terminated.Load(); attempt++ {
		err := m.Reconnect(ctx)
		if err == nil {
			return
		}
		m.Logger.Warn("reconnect attempt %d failed: %v", attempt, err)
		if m.sleep(ctx, backoff) != nil {
			return
		}
		backoff *= 2
	}
}

func (m *MTProto) startPinging(ctx context.Context) {
	if m.pingInterval <= 0 {
		return
	}

	m.routineswg.Add(1)
	go func() {
		ticker := time.NewTicker(m.pingInterval)
		defer ticker.Stop()
		defer m.routineswg.Done()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if time.Since(time.Unix(0, m.lastRecv.Load())) < m.pingInterval {
					continue
				}
				pingCtx, cancel := context.WithTimeout(ctx, m.pingInterval)
				_, err := objects.PingDelayDisconnect(pingCtx, m, utils.RandomInt64(), m.disconnectDelay())
				cancel()
				if err != nil && ctx.Err() == nil {
					m.Logger.Debug("ping unsuccessful: %v", err)
				}
			}
		}
	}()
}

// disconnectDelay is how long the server keeps the connection after the
// last ping, a few missed pings are tolerated.
func (m *MTProto) disconnectDelay() int32 {
	return int32((3*m.pingInterval + 10*time.Second) / time.Second)
}

func (m *MTProto) startReadingResponses(ctx context.Context, t transport.Transport) {
	m.routineswg.Add(1)
	go func() {
		defer m.routineswg.Done()
		for {
			data, err := t.ReadMsg()
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				err = transportError(err)
				m.Logger.Warn("connection to %s lost: %v", m.addr, err)
				m.connectionLost(t, err)
				return
			}
			m.lastRecv.Store(time.Now().UnixNano())

			if err := m.readMsg(ctx, data); err != nil {
				m.Logger.Error("processing response: %v", err)
			}
			m.flushAcks()
		}
	}()
}

// Invoke sends req and waits for its result. Flood waits up to the sleep
// threshold, or any when it is negative, are slept through and the request
// is sent again.
func (m *MTProto) Invoke(ctx context.Context, req tl.Object) (any, error) {
	ctx, span := m.tracer.Start(ctx, "mtproto.invoke", trace.WithAttributes(
		attrConstructor(req),
		attrDC(m.dc),
	))
	defer span.End()

	for {
		m.metrics.Invoke(strconv.Itoa(m.dc))
		resp, err := m.makeRequest(ctx, req)
		if err == nil {
			return resp, nil
		}

		var rpcErr *ErrResponseCode
		if errors.As(err, &rpcErr) {
			m.metrics.RPCError(rpcErr.Message)
		}

		if wait, ok := IsFloodWait(err); ok && (m.sleepThreshold < 0 || wait <= m.sleepThreshold) {
			m.metrics.FloodWait()
			m.Logger.Warn("sleeping %s before repeating %T", wait, req)
			span.AddEvent("flood_wait", trace.WithAttributes(attrWait(wait)))
			if err := m.sleep(ctx, wait); err != nil {
				return nil, err
			}
			continue
		}

		recordError(span, err)
		return nil, err
	}
}

func (m *MTProto) MakeRequest(ctx context.Context, msg tl.Object) (any, error) {
	return m.Invoke(ctx, msg)
}

func (m *MTProto) setState(s State) {
	m.state.Store(int32(s))
}

func (m *MTProto) State() State {
	return State(m.state.Load())
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
