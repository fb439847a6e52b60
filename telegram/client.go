// Copyright (c) 2022 RoseLoverX

package telegram

import (
	"context"
	"crypto/rsa"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	mtproto "github.com/amarnathcjd/mtproto"
	ige "github.com/amarnathcjd/mtproto/internal/aes_ige"
	"github.com/amarnathcjd/mtproto/internal/config"
	"github.com/amarnathcjd/mtproto/internal/encoding/tl"
	"github.com/amarnathcjd/mtproto/internal/keys"
	"github.com/amarnathcjd/mtproto/internal/metrics"
	"github.com/amarnathcjd/mtproto/internal/mode"
	"github.com/amarnathcjd/mtproto/internal/session"
	"github.com/amarnathcjd/mtproto/internal/transport"
	"github.com/amarnathcjd/mtproto/internal/utils"
)

const (
	tracerName = "github.com/amarnathcjd/mtproto/telegram"

	// importAttempts bounds the export/import handshake of a media session
	// on another datacenter.
	importAttempts = 3

	defaultWatchdogInterval = 15 * time.Minute
)

// Session is one connection to a datacenter. *mtproto.MTProto is the
// implementation used outside tests.
type Session interface {
	Invoker
	Terminate() error
}

// ListenerTimeoutHandler runs instead of failing a listener that timed out.
type ListenerTimeoutHandler func(id Identifier, l *Listener, timeout time.Duration)

type ClientConfig struct {
	// Config defaults to config.Default().
	Config *config.Config
	// Storage defaults to an in-memory store for ":memory:" sessions and a
	// SQLite file otherwise.
	Storage session.Storage
	Logger  *utils.Logger
	// Registerer receives the metrics, nil disables them.
	Registerer prometheus.Registerer
	// PublicKeys default to the bundled production keys.
	PublicKeys []*rsa.PublicKey

	ListenerTimeoutHandler ListenerTimeoutHandler

	// Dial replaces the TCP dialer of every session.
	Dial func(ctx context.Context, addr string) (transport.Transport, error)
}

// Client owns the main session, the media and CDN sessions opened for file
// transfers, the peer directory and the update dispatcher.
type Client struct {
	cfg        *config.Config
	Log        *utils.Logger
	storage    session.Storage
	registry   *tl.Registry
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	crypto     *ige.Pool
	publicKeys []*rsa.PublicKey
	dial       func(ctx context.Context, addr string) (transport.Transport, error)

	main Session
	// openSession dials a session to dc. A nil authKey runs the handshake;
	// cdn sessions are not wrapped in initConnection.
	openSession func(ctx context.Context, dc int, authKey []byte, cdn bool) (Session, error)

	mediaMu sync.Mutex
	media   map[int]Session

	cdnMu   sync.Mutex
	cdnKeys []*rsa.PublicKey

	dispatcher     *Dispatcher
	listeners      *listenerSet
	timeoutHandler ListenerTimeoutHandler
	transmissions  *semaphore.Weighted

	updates          *queue[Updates]
	lastUpdate       atomic.Int64
	watchdogInterval time.Duration

	me atomic.Pointer[UserInfo]

	runMu   sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewClient(cc ClientConfig) (*Client, error) {
	cfg := cc.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := cc.Logger
	if log == nil {
		level, err := utils.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, errors.Wrap(err, "log level")
		}
		log = utils.NewLoggerWithConfig(&utils.LoggerConfig{Level: level})
	}

	storage := cc.Storage
	if storage == nil {
		if cfg.Session == "" || cfg.Session == ":memory:" {
			storage = session.NewMemoryStorage(cfg.SessionString)
		} else {
			storage = session.NewSQLiteStorage(cfg.Session, cfg.SessionString)
		}
	}

	reg := tl.NewRegistry()
	Register(reg)
	m := metrics.New(cc.Registerer)

	c := &Client{
		cfg:              cfg,
		Log:              log.WithPrefix("telegram"),
		storage:          storage,
		registry:         reg,
		metrics:          m,
		tracer:           otel.Tracer(tracerName),
		crypto:           ige.NewPool(cfg.CryptoWorkers),
		publicKeys:       cc.PublicKeys,
		dial:             cc.Dial,
		media:            make(map[int]Session),
		listeners:        newListenerSet(m),
		timeoutHandler:   cc.ListenerTimeoutHandler,
		transmissions:    semaphore.NewWeighted(int64(max(1, cfg.MaxConcurrentTransmissions))),
		updates:          newQueue[Updates](),
		watchdogInterval: defaultWatchdogInterval,
	}
	c.dispatcher = newDispatcher(c, cfg.Workers, log.WithPrefix("dispatcher"), m)
	c.openSession = c.dialSession
	return c, nil
}

// Start opens the storage, connects the main session and starts handling
// updates. A session without a logged in account still starts; Self then
// returns nil.
func (c *Client) Start(ctx context.Context) error {
	if err := c.storage.Open(ctx); err != nil {
		return errors.Wrap(err, "opening storage")
	}
	key, err := c.storage.AuthKey(ctx)
	if err != nil {
		return errors.Wrap(err, "loading session")
	}
	if len(key) == 0 {
		if err := c.storage.SetDcID(ctx, c.cfg.DC); err != nil {
			return errors.Wrap(err, "saving session")
		}
		if err := c.storage.SetTestMode(ctx, c.cfg.TestMode); err != nil {
			return errors.Wrap(err, "saving session")
		}
	}
	if c.cfg.APIID != 0 {
		if err := c.storage.SetAPIID(ctx, c.cfg.APIID); err != nil {
			return errors.Wrap(err, "saving session")
		}
	}

	sessCfg, err := c.sessionConfig()
	if err != nil {
		return err
	}
	sessCfg.Storage = c.storage
	sessCfg.Reconnect = true
	m, err := mtproto.NewMTProto(sessCfg)
	if err != nil {
		return errors.Wrap(err, "creating main session")
	}
	m.AddCustomServerRequestHandler(c.onServerObject)
	if err := m.CreateConnection(ctx); err != nil {
		return errors.Wrap(err, "connecting")
	}
	if err := c.initConnection(ctx, m); err != nil {
		_ = m.Terminate()
		return err
	}
	c.main = m

	if err := c.loadSelf(ctx); err != nil {
		_ = m.Terminate()
		return err
	}
	c.run(ctx)
	return nil
}

// sessionConfig is the configuration every session of this client shares.
func (c *Client) sessionConfig() (mtproto.Config, error) {
	variant, err := mode.ParseVariant(c.cfg.Transport)
	if err != nil {
		return mtproto.Config{}, err
	}
	var proxy *url.URL
	if c.cfg.Proxy != "" {
		if proxy, err = url.Parse(c.cfg.Proxy); err != nil {
			return mtproto.Config{}, errors.Wrap(err, "parsing proxy url")
		}
	}
	return mtproto.Config{
		TestMode:       c.cfg.TestMode,
		IPv6:           c.cfg.IPv6,
		Proxy:          proxy,
		Mode:           variant,
		PublicKeys:     c.publicKeys,
		SleepThreshold: c.cfg.SleepThreshold,
		PingInterval:   c.cfg.PingInterval,
		IdleTimeout:    c.cfg.IdleTimeout,
		Registry:       c.registry,
		Crypto:         c.crypto,
		Logger:         c.Log,
		Metrics:        c.metrics,
		Tracer:         c.tracer,
		Dial:           c.dial,
	}, nil
}

// initConnection wraps the first request of a session; the server drops
// anything else sent before it.
func (c *Client) initConnection(ctx context.Context, s Invoker) error {
	_, err := s.Invoke(ctx, &InvokeWithLayerParams{
		Layer: Layer,
		Query: &InitConnectionParams{
			APIID:          c.cfg.APIID,
			DeviceModel:    c.cfg.Device.Model,
			SystemVersion:  c.cfg.Device.SystemVersion,
			AppVersion:     c.cfg.Device.AppVersion,
			SystemLangCode: c.cfg.Device.LangCode,
			LangCode:       c.cfg.Device.LangCode,
			Query:          &HelpGetConfigParams{},
		},
	})
	return errors.Wrap(err, "initializing connection")
}

func (c *Client) loadSelf(ctx context.Context) error {
	users, err := UsersGetUsers(ctx, c.main, &InputUserSelf{})
	if err != nil {
		if mtproto.MatchError(err, "AUTH_KEY_UNREGISTERED") {
			c.Log.Info("session is not logged in")
			return nil
		}
		return errors.Wrap(err, "fetching self")
	}
	if len(users) == 0 {
		return nil
	}
	if _, err := c.fetchPeers(ctx, users, nil); err != nil {
		return err
	}
	me := buildUser(users[0], 0)
	c.me.Store(me)
	if err := c.storage.SetUserID(ctx, me.ID); err != nil {
		return errors.Wrap(err, "saving session")
	}
	if err := c.storage.SetIsBot(ctx, me.IsBot); err != nil {
		return errors.Wrap(err, "saving session")
	}
	c.Log.Info("logged in as %s (%d)", me.FullName(), me.ID)
	return nil
}

// run starts the dispatcher workers, the updates loop and the watchdog.
// They stop with Stop, not with ctx.
func (c *Client) run(ctx context.Context) {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	if c.running {
		return
	}
	c.running = true
	ctx, c.cancel = context.WithCancel(context.WithoutCancel(ctx))
	c.lastUpdate.Store(time.Now().UnixNano())
	c.dispatcher.Start(ctx)

	c.wg.Add(2)
	go func() {
		defer c.wg.Done()
		c.updatesLoop(ctx)
	}()
	go func() {
		defer c.wg.Done()
		c.watchdog(ctx)
	}()
}

// Stop shuts down the dispatcher, every session and the storage.
func (c *Client) Stop() error {
	c.runMu.Lock()
	wasRunning := c.running
	c.running = false
	c.runMu.Unlock()

	if wasRunning {
		c.cancel()
		c.updates.push(nil)
		c.wg.Wait()
		c.dispatcher.Stop()
	}

	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	c.mediaMu.Lock()
	for dc, s := range c.media {
		if s != c.main {
			keep(errors.Wrapf(s.Terminate(), "closing media session %d", dc))
		}
		delete(c.media, dc)
	}
	c.mediaMu.Unlock()

	if c.main != nil {
		keep(errors.Wrap(c.main.Terminate(), "closing main session"))
	}
	ctx := context.Background()
	keep(errors.Wrap(c.storage.SetDate(ctx, time.Now().Unix()), "saving session"))
	keep(errors.Wrap(c.storage.Save(ctx), "saving session"))
	keep(errors.Wrap(c.storage.Close(), "closing storage"))
	c.crypto.Close()
	return firstErr
}

// Invoke sends req on the main session.
func (c *Client) Invoke(ctx context.Context, req tl.Object) (any, error) {
	if c.main == nil {
		return nil, errors.New("client is not started")
	}
	return c.main.Invoke(ctx, req)
}

// Self is the logged in account, nil before Start or without a login.
func (c *Client) Self() *UserInfo {
	return c.me.Load()
}

func (c *Client) Storage() session.Storage {
	return c.storage
}

func (c *Client) Dispatcher() *Dispatcher {
	return c.dispatcher
}

// DC is the datacenter of the main session.
func (c *Client) DC(ctx context.Context) (int, error) {
	dc, err := c.storage.DcID(ctx)
	return dc, errors.Wrap(err, "loading session")
}

// SendMessage sends text to chat, anything ResolvePeer accepts.
func (c *Client) SendMessage(ctx context.Context, chat any, text string) (Updates, error) {
	peer, err := c.ResolvePeer(ctx, chat)
	if err != nil {
		return nil, err
	}
	return MessagesSendMessage(ctx, c, &MessagesSendMessageParams{
		Peer:     peer,
		Message:  text,
		RandomID: utils.RandomInt64(),
	})
}

func (c *Client) AnswerCallbackQuery(ctx context.Context, queryID int64, text string, alert bool) error {
	_, err := MessagesSetBotCallbackAnswer(ctx, c, &MessagesSetBotCallbackAnswerParams{
		QueryID: queryID,
		Message: text,
		Alert:   alert,
	})
	return err
}

// ---------------------------- media sessions ----------------------------

func (c *Client) dialSession(ctx context.Context, dc int, authKey []byte, cdn bool) (Session, error) {
	cfg, err := c.sessionConfig()
	if err != nil {
		return nil, err
	}
	cfg.DataCenter = dc
	cfg.AuthKey = authKey
	if cdn {
		if cfg.PublicKeys, err = c.cdnPublicKeys(ctx); err != nil {
			return nil, err
		}
	}
	s, err := mtproto.NewMTProto(cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "creating session to dc %d", dc)
	}
	if err := s.CreateConnection(ctx); err != nil {
		return nil, errors.Wrapf(err, "connecting to dc %d", dc)
	}
	if !cdn {
		if err := c.initConnection(ctx, s); err != nil {
			_ = s.Terminate()
			return nil, err
		}
	}
	return s, nil
}

// mediaSession returns the cached session to dc, opening it when needed.
// The main datacenter reuses the main auth key; any other gets a fresh key
// and imports the authorization of the main session.
func (c *Client) mediaSession(ctx context.Context, dc int) (Session, error) {
	c.mediaMu.Lock()
	defer c.mediaMu.Unlock()
	if s, ok := c.media[dc]; ok {
		return s, nil
	}

	mainDC, err := c.DC(ctx)
	if err != nil {
		return nil, err
	}
	var key []byte
	if dc == mainDC {
		if key, err = c.storage.AuthKey(ctx); err != nil {
			return nil, errors.Wrap(err, "loading session")
		}
	}
	s, err := c.openSession(ctx, dc, key, false)
	if err != nil {
		return nil, err
	}
	if dc != mainDC {
		if err := c.importAuthorization(ctx, s, dc); err != nil {
			_ = s.Terminate()
			return nil, err
		}
	}
	c.Log.Debug("opened media session to dc %d", dc)
	c.media[dc] = s
	return s, nil
}

// importAuthorization copies the login of the main session to s. The
// server rejects an exported authorization now and then with
// AUTH_BYTES_INVALID, which is retried with a new export.
func (c *Client) importAuthorization(ctx context.Context, s Session, dc int) error {
	var lastErr error
	for attempt := 1; attempt <= importAttempts; attempt++ {
		exported, err := AuthExportAuthorization(ctx, c.main, int32(dc))
		if err != nil {
			return err
		}
		err = AuthImportAuthorization(ctx, s, exported.ID, exported.Bytes)
		if err == nil {
			return nil
		}
		if !mtproto.MatchError(err, "AUTH_BYTES_INVALID") {
			return err
		}
		c.Log.Debug("import to dc %d rejected, attempt %d/%d", dc, attempt, importAttempts)
		lastErr = err
	}
	return errors.Wrapf(lastErr, "importing authorization to dc %d", dc)
}

// cdnSession opens a session to a CDN datacenter. It is never cached.
func (c *Client) cdnSession(ctx context.Context, dc int) (Session, error) {
	return c.openSession(ctx, dc, nil, true)
}

func (c *Client) cdnPublicKeys(ctx context.Context) ([]*rsa.PublicKey, error) {
	c.cdnMu.Lock()
	defer c.cdnMu.Unlock()
	if c.cdnKeys != nil {
		return c.cdnKeys, nil
	}
	cfg, err := HelpGetCdnConfig(ctx, c)
	if err != nil {
		return nil, err
	}
	var pem []string
	for _, k := range cfg.PublicKeys {
		pem = append(pem, k.PublicKey)
	}
	parsed, err := keys.Parse([]byte(strings.Join(pem, "\n")))
	if err != nil {
		return nil, errors.Wrap(err, "parsing cdn keys")
	}
	c.cdnKeys = parsed
	return parsed, nil
}
