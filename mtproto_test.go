// Copyright (c) 2022 RoseLoverX

package mtproto

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"io"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	ige "github.com/amarnathcjd/mtproto/internal/aes_ige"
	"github.com/amarnathcjd/mtproto/internal/encoding/tl"
	"github.com/amarnathcjd/mtproto/internal/keys"
	"github.com/amarnathcjd/mtproto/internal/mtproto/messages"
	"github.com/amarnathcjd/mtproto/internal/mtproto/objects"
	"github.com/amarnathcjd/mtproto/internal/session"
	"github.com/amarnathcjd/mtproto/internal/transport"
	"github.com/amarnathcjd/mtproto/internal/utils"
)

// echoRequest is answered with a Vector<long> holding Value.
type echoRequest struct {
	Value int64
}

func (*echoRequest) CRC() uint32 { return 0x0e40c0de }

func (r *echoRequest) MarshalTL(e *tl.Encoder) error {
	e.PutLong(r.Value)
	return e.CheckErr()
}

func (r *echoRequest) UnmarshalTL(d *tl.Decoder) error {
	r.Value = d.PopLong()
	return d.Err()
}

func (*echoRequest) ResultHint() tl.Hint { return tl.HintLongs }

type fakeTransport struct {
	in     chan []byte
	out    chan []byte
	closed chan struct{}
	once   sync.Once
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		in:     make(chan []byte, 16),
		out:    make(chan []byte, 16),
		closed: make(chan struct{}),
	}
}

func (f *fakeTransport) WriteMsg(msg []byte) error {
	select {
	case <-f.closed:
		return io.ErrClosedPipe
	case f.out <- append([]byte(nil), msg...):
		return nil
	}
}

func (f *fakeTransport) ReadMsg() ([]byte, error) {
	select {
	case <-f.closed:
		return nil, transport.ErrNoData
	case msg := <-f.in:
		return msg, nil
	}
}

func (f *fakeTransport) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

// testServer plays the server side of a plain text session.
type testServer struct {
	t     *testing.T
	ft    *fakeTransport
	reg   *tl.Registry
	mu    sync.Mutex
	count int64
}

type clientFrame struct {
	msgID int64
	obj   tl.Object
}

func (s *testServer) read() clientFrame {
	s.t.Helper()
	select {
	case frame := <-s.ft.out:
		d := tl.NewDecoder(frame)
		require.Zero(s.t, d.PopLong())
		msgID := d.PopLong()
		size := d.PopInt()
		body := d.PopRawBytes(int(size))
		require.NoError(s.t, d.Err())
		require.Zero(s.t, msgID%4)

		obj, err := s.reg.Decode(body)
		require.NoError(s.t, err)
		return clientFrame{msgID: msgID, obj: obj}
	case <-time.After(5 * time.Second):
		s.t.Fatal("client sent nothing")
		return clientFrame{}
	}
}

// request returns the next frame that is not an ack.
func (s *testServer) request() clientFrame {
	s.t.Helper()
	for {
		f := s.read()
		if _, ok := f.obj.(*objects.MsgsAck); !ok {
			return f
		}
	}
}

func (s *testServer) msgID(at time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count++
	return at.Unix()<<32 | s.count<<2 | 1
}

func (s *testServer) sendAt(at time.Time, obj tl.Object) {
	s.t.Helper()
	body, err := tl.Marshal(obj)
	require.NoError(s.t, err)
	s.ft.in <- (&messages.Unencrypted{Msg: body, MsgID: s.msgID(at)}).Serialize()
}

func (s *testServer) send(obj tl.Object) {
	s.t.Helper()
	s.sendAt(time.Now(), obj)
}

func (s *testServer) result(reqMsgID int64, obj tl.Object) {
	s.t.Helper()
	body, err := tl.Marshal(obj)
	require.NoError(s.t, err)
	s.send(&objects.RpcResult{ReqMsgID: reqMsgID, Body: body})
}

func (s *testServer) echo(f clientFrame) {
	s.t.Helper()
	req, ok := f.obj.(*echoRequest)
	require.True(s.t, ok, "got %T", f.obj)
	s.result(f.msgID, tl.Vector{req.Value})
}

type sleepRecorder struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

func (r *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sleeps = append(r.sleeps, d)
	return nil
}

func (r *sleepRecorder) all() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.sleeps...)
}

func testLogger(t *testing.T) *utils.Logger {
	return utils.NewLoggerWithConfig(&utils.LoggerConfig{
		Level: utils.DebugLevel,
		Zap:   zaptest.NewLogger(t),
	})
}

func newTestSession(t *testing.T, mutate func(*Config)) (*MTProto, *testServer, *sleepRecorder) {
	t.Helper()
	ft := newFakeTransport()
	rec := &sleepRecorder{}
	reg := tl.NewRegistry()
	reg.Register(func() tl.Object { return &echoRequest{} })

	cfg := Config{
		DataCenter:     2,
		Addr:           "127.0.0.1:443",
		SleepThreshold: 10 * time.Second,
		Registry:       reg,
		Logger:         testLogger(t),
		Sleep:          rec.sleep,
		Dial: func(context.Context, string) (transport.Transport, error) {
			return ft, nil
		},
	}
	if mutate != nil {
		mutate(&cfg)
	}

	m, err := NewMTProto(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { m.Terminate() })
	return m, &testServer{t: t, ft: ft, reg: reg}, rec
}

// open connects without a handshake, the session stays in plain text.
func openTestSession(t *testing.T, mutate func(*Config)) (*MTProto, *testServer, *sleepRecorder) {
	t.Helper()
	m, srv, rec := newTestSession(t, mutate)
	_, err := m.open(context.Background())
	require.NoError(t, err)
	return m, srv, rec
}

type invokeResult struct {
	resp any
	err  error
}

func invokeAsync(m *MTProto, req tl.Object) <-chan invokeResult {
	ch := make(chan invokeResult, 1)
	go func() {
		resp, err := m.Invoke(context.Background(), req)
		ch <- invokeResult{resp, err}
	}()
	return ch
}

func wait(t *testing.T, ch <-chan invokeResult) invokeResult {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("invoke did not return")
		return invokeResult{}
	}
}

func TestInvokeMatchesResultsByMsgID(t *testing.T) {
	m, srv, _ := openTestSession(t, nil)

	first := invokeAsync(m, &echoRequest{Value: 1})
	f1 := srv.request()
	second := invokeAsync(m, &echoRequest{Value: 2})
	f2 := srv.request()
	assert.NotEqual(t, f1.msgID, f2.msgID)

	// answered in reverse order
	srv.echo(f2)
	srv.echo(f1)

	r1, r2 := wait(t, first), wait(t, second)
	require.NoError(t, r1.err)
	require.NoError(t, r2.err)
	assert.Equal(t, []any{int64(1)}, r1.resp)
	assert.Equal(t, []any{int64(2)}, r2.resp)
	assert.Zero(t, m.pending.Len())
}

func TestInvokeSleepsThroughShortFloodWait(t *testing.T) {
	m, srv, rec := openTestSession(t, nil)

	res := invokeAsync(m, &echoRequest{Value: 7})
	f := srv.request()
	srv.result(f.msgID, &objects.RpcError{ErrorCode: 420, ErrorMessage: "FLOOD_WAIT_3"})

	retry := srv.request()
	assert.NotEqual(t, f.msgID, retry.msgID)
	srv.echo(retry)

	r := wait(t, res)
	require.NoError(t, r.err)
	assert.Equal(t, []any{int64(7)}, r.resp)
	assert.Equal(t, []time.Duration{3 * time.Second}, rec.all())
}

func TestInvokeNegativeThresholdSleepsThroughAnyWait(t *testing.T) {
	m, srv, rec := openTestSession(t, func(c *Config) {
		c.SleepThreshold = -1
	})

	res := invokeAsync(m, &echoRequest{Value: 7})
	f := srv.request()
	srv.result(f.msgID, &objects.RpcError{ErrorCode: 420, ErrorMessage: "FLOOD_WAIT_3600"})
	srv.echo(srv.request())

	r := wait(t, res)
	require.NoError(t, r.err)
	assert.Equal(t, []time.Duration{time.Hour}, rec.all())
}

func TestInvokeReturnsLongFloodWait(t *testing.T) {
	m, srv, rec := openTestSession(t, func(c *Config) {
		c.SleepThreshold = time.Second
	})

	res := invokeAsync(m, &echoRequest{Value: 7})
	f := srv.request()
	srv.result(f.msgID, &objects.RpcError{ErrorCode: 420, ErrorMessage: "FLOOD_WAIT_30"})

	r := wait(t, res)
	require.Error(t, r.err)
	d, ok := IsFloodWait(r.err)
	assert.True(t, ok)
	assert.Equal(t, 30*time.Second, d)
	assert.Empty(t, rec.all())
}

func TestRpcErrorIsReturned(t *testing.T) {
	m, srv, _ := openTestSession(t, nil)

	res := invokeAsync(m, &echoRequest{Value: 7})
	f := srv.request()
	srv.result(f.msgID, &objects.RpcError{ErrorCode: 303, ErrorMessage: "FILE_MIGRATE_4"})

	r := wait(t, res)
	var rpcErr *ErrResponseCode
	require.ErrorAs(t, r.err, &rpcErr)
	assert.Equal(t, int64(303), rpcErr.Code)
	dc, ok := MigrateTarget(r.err)
	assert.True(t, ok)
	assert.Equal(t, 4, dc)
}

func TestBadServerSaltResendsRequest(t *testing.T) {
	m, srv, _ := openTestSession(t, nil)

	res := invokeAsync(m, &echoRequest{Value: 9})
	f := srv.request()
	srv.send(&objects.BadServerSalt{BadMsgID: f.msgID, ErrorCode: 48, NewSalt: 77})

	again := srv.request()
	assert.NotEqual(t, f.msgID, again.msgID)
	assert.Equal(t, &echoRequest{Value: 9}, again.obj)
	srv.echo(again)

	r := wait(t, res)
	require.NoError(t, r.err)
	assert.Equal(t, []any{int64(9)}, r.resp)
	assert.Equal(t, int64(77), m.GetServerSalt())
}

func TestBadMsgIDCorrectsClock(t *testing.T) {
	m, srv, _ := openTestSession(t, nil)

	res := invokeAsync(m, &echoRequest{Value: 3})
	f := srv.request()
	srv.sendAt(time.Now().Add(300*time.Second), &objects.BadMsgNotification{
		BadMsgID: f.msgID,
		Code:     int32(ErrBadMsgIdTooLow),
	})

	again := srv.request()
	assert.InDelta(t, 300, m.timeOffset.Load(), 2)
	assert.InDelta(t, time.Now().Unix()+300, again.msgID>>32, 2)
	srv.echo(again)

	require.NoError(t, wait(t, res).err)
}

func TestBadMsgNotificationFailsRequest(t *testing.T) {
	m, srv, _ := openTestSession(t, nil)

	res := invokeAsync(m, &echoRequest{Value: 3})
	f := srv.request()
	srv.send(&objects.BadMsgNotification{BadMsgID: f.msgID, Code: int32(ErrBadMsgSeqNoExpectedOdd)})

	var badMsg *BadMsgError
	require.ErrorAs(t, wait(t, res).err, &badMsg)
}

func TestContainerWithGzipAndAcks(t *testing.T) {
	m, srv, _ := openTestSession(t, nil)

	first := invokeAsync(m, &echoRequest{Value: 1})
	f1 := srv.request()
	second := invokeAsync(m, &echoRequest{Value: 2})
	f2 := srv.request()

	plain, err := tl.Marshal(tl.Vector{int64(1)})
	require.NoError(t, err)
	packed, err := tl.Marshal(&objects.GzipPacked{Data: plain})
	require.NoError(t, err)
	gzipped, err := tl.Marshal(&objects.RpcResult{ReqMsgID: f1.msgID, Body: packed})
	require.NoError(t, err)

	vec, err := tl.Marshal(tl.Vector{int64(2)})
	require.NoError(t, err)
	direct, err := tl.Marshal(&objects.RpcResult{ReqMsgID: f2.msgID, Body: vec})
	require.NoError(t, err)

	now := time.Now()
	inner1, inner2 := srv.msgID(now), srv.msgID(now)
	srv.send(&objects.MessageContainer{
		{MsgID: inner1, SeqNo: 1, Msg: gzipped},
		{MsgID: inner2, SeqNo: 3, Msg: direct},
	})

	r1, r2 := wait(t, first), wait(t, second)
	require.NoError(t, r1.err)
	require.NoError(t, r2.err)
	assert.Equal(t, []any{int64(1)}, r1.resp)
	assert.Equal(t, []any{int64(2)}, r2.resp)

	ack := srv.read()
	require.IsType(t, &objects.MsgsAck{}, ack.obj)
	assert.ElementsMatch(t, []int64{inner1, inner2}, ack.obj.(*objects.MsgsAck).MsgIDs)
}

func TestPongResolvesPing(t *testing.T) {
	m, srv, _ := openTestSession(t, nil)

	done := make(chan error, 1)
	go func() {
		_, err := m.Ping(context.Background())
		done <- err
	}()

	f := srv.request()
	ping, ok := f.obj.(*objects.PingParams)
	require.True(t, ok, "got %T", f.obj)
	srv.send(&objects.Pong{MsgID: f.msgID, PingID: ping.PingID})

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("ping did not return")
	}
}

func TestUnsolicitedObjectsReachHandlers(t *testing.T) {
	m, srv, _ := openTestSession(t, nil)

	got := make(chan any, 1)
	m.AddCustomServerRequestHandler(func(i any) bool {
		got <- i
		return true
	})

	srv.send(&objects.DestroySessionOk{SessionID: 5})
	select {
	case obj := <-got:
		assert.Equal(t, &objects.DestroySessionOk{SessionID: 5}, obj)
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}
}

func TestDisconnectFailsPending(t *testing.T) {
	m, srv, _ := openTestSession(t, nil)

	res := invokeAsync(m, &echoRequest{Value: 1})
	srv.request()
	require.NoError(t, m.Disconnect())

	assert.ErrorIs(t, wait(t, res).err, ErrConnectionClosed)
	assert.Equal(t, StateDisconnected, m.State())
	assert.Zero(t, m.pending.Len())

	_, err := m.Invoke(context.Background(), &echoRequest{Value: 2})
	assert.ErrorIs(t, err, ErrConnectionClosed)
}

func TestConnectionLossFailsPending(t *testing.T) {
	m, srv, _ := openTestSession(t, nil)

	res := invokeAsync(m, &echoRequest{Value: 1})
	srv.request()
	srv.ft.Close()

	assert.ErrorIs(t, wait(t, res).err, ErrConnectionClosed)
}

func TestInvokeHonoursContext(t *testing.T) {
	m, srv, _ := openTestSession(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := m.Invoke(ctx, &echoRequest{Value: 1})
		errCh <- err
	}()
	srv.request()
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("invoke ignored cancellation")
	}
	assert.Zero(t, m.pending.Len())
}

func TestHandshakeCreatesKey(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	store := session.NewMemoryStorage("")

	m, srv, _ := newTestSession(t, func(c *Config) {
		c.PublicKeys = []*rsa.PublicKey{&priv.PublicKey}
		c.Storage = store
	})

	done := make(chan error, 1)
	go func() { done <- m.CreateConnection(context.Background()) }()

	serverKey, serverSalt := runHandshakeServer(t, srv, priv)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("handshake did not finish")
	}

	assert.Equal(t, serverKey, m.GetAuthKey())
	assert.Equal(t, serverSalt, m.GetServerSalt())
	assert.Equal(t, StateAuthenticated, m.State())

	stored, err := store.AuthKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, serverKey, stored)
}

// runHandshakeServer answers one key exchange and returns the key and salt
// the server side derived.
func runHandshakeServer(t *testing.T, srv *testServer, priv *rsa.PrivateKey) ([]byte, int64) {
	const p, q = 1229739323, 1402015859

	f := srv.request()
	reqPQ, ok := f.obj.(*objects.ReqPQMultiParams)
	require.True(t, ok, "got %T", f.obj)

	serverNonce := tl.Int128(utils.RandomBytes(tl.Int128Len))
	pq := new(big.Int).Mul(big.NewInt(p), big.NewInt(q))
	srv.send(&objects.ResPQ{
		Nonce:        reqPQ.Nonce,
		ServerNonce:  serverNonce,
		Pq:           pq.Bytes(),
		Fingerprints: []int64{42, keys.RSAFingerprint(&priv.PublicKey)},
	})

	f = srv.request()
	reqDH, ok := f.obj.(*objects.ReqDHParamsParams)
	require.True(t, ok, "got %T", f.obj)
	assert.Equal(t, keys.RSAFingerprint(&priv.PublicKey), reqDH.PublicKeyFingerprint)

	block := new(big.Int).Exp(new(big.Int).SetBytes(reqDH.EncryptedData), priv.D, priv.N).FillBytes(make([]byte, 255))
	obj, err := srv.reg.Decode(block[20:])
	require.NoError(t, err)
	inner := obj.(*objects.PQInnerData)
	assert.Equal(t, reqPQ.Nonce, inner.Nonce)
	assert.Equal(t, pq.Bytes(), inner.Pq)
	newNonce := inner.NewNonce

	primeBytes := utils.RandomBytes(256)
	primeBytes[0] |= 0x80
	primeBytes[255] |= 1
	dhPrime := new(big.Int).SetBytes(primeBytes)
	a, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 2048))
	require.NoError(t, err)
	gA := new(big.Int).Exp(big.NewInt(3), a, dhPrime)

	answer, err := tl.Marshal(&objects.ServerDHInnerData{
		Nonce:       reqPQ.Nonce,
		ServerNonce: serverNonce,
		G:           3,
		DhPrime:     dhPrime.Bytes(),
		GA:          gA.Bytes(),
		ServerTime:  int32(time.Now().Unix()),
	})
	require.NoError(t, err)
	encrypted, err := ige.EncryptMessageWithTempKeys(answer, newNonce, serverNonce)
	require.NoError(t, err)
	srv.send(&objects.ServerDHParamsOk{Nonce: reqPQ.Nonce, ServerNonce: serverNonce, EncryptedAnswer: encrypted})

	f = srv.request()
	setDH, ok := f.obj.(*objects.SetClientDHParamsParams)
	require.True(t, ok, "got %T", f.obj)
	plain, err := ige.DecryptMessageWithTempKeys(setDH.EncryptedData, newNonce, serverNonce)
	require.NoError(t, err)
	obj, err = srv.reg.Decode(plain)
	require.NoError(t, err)
	clientDH := obj.(*objects.ClientDHInnerData)

	gB := new(big.Int).SetBytes(clientDH.GB)
	authKey := new(big.Int).Exp(gB, a, dhPrime).FillBytes(make([]byte, ige.AuthKeySize))

	ok1 := &objects.DHGenOk{}
	ok1.Nonce = reqPQ.Nonce
	ok1.ServerNonce = serverNonce
	ok1.NonceHash = tl.Int128(newNonceHash(newNonce, 1, authKey))
	srv.send(ok1)

	var salt int64
	for i := 7; i >= 0; i-- {
		salt = salt<<8 | int64(newNonce[i]^serverNonce[i])
	}
	return authKey, salt
}
