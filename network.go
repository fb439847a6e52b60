// Copyright (c) 2022 RoseLoverX

package mtproto

import (
	"context"
	"encoding/binary"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/amarnathcjd/mtproto/internal/encoding/tl"
	"github.com/amarnathcjd/mtproto/internal/mtproto/messages"
	"github.com/amarnathcjd/mtproto/internal/mtproto/objects"
	"github.com/amarnathcjd/mtproto/internal/transport"
)

// pending is a request waiting for its answer. The msg id changes when
// the request is resent after a bad salt or a clock correction.
type pending struct {
	request tl.Object
	hint    tl.Hint
	msgID   atomic.Int64
	done    chan response
	once    sync.Once
}

type response struct {
	obj any
	err error
}

func (p *pending) resolve(obj any, err error) {
	p.once.Do(func() {
		p.done <- response{obj: obj, err: err}
	})
}

func (m *MTProto) makeRequest(ctx context.Context, data tl.Object) (any, error) {
	p := &pending{
		request: data,
		hint:    tl.HintOf(data),
		done:    make(chan response, 1),
	}
	if err := m.sendPacket(p); err != nil {
		return nil, errors.Wrap(err, "sending packet")
	}

	m.metrics.Pending(1)
	defer m.metrics.Pending(-1)

	select {
	case res := <-p.done:
		return res.obj, res.err
	case <-ctx.Done():
		m.pending.Delete(p.msgID.Load())
		return nil, ctx.Err()
	}
}

// sendPacket registers p under a fresh msg id and writes it.
func (m *MTProto) sendPacket(p *pending) error {
	msg, err := tl.Marshal(p.request)
	if err != nil {
		return errors.Wrap(err, "encoding message")
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	msgID := m.genMsgID(m.timeOffset.Load())
	p.msgID.Store(msgID)
	m.pending.Add(msgID, p)

	if err := m.writeMessage(msg, msgID, true); err != nil {
		m.pending.Delete(msgID)
		return err
	}
	return nil
}

// writeObject sends a message nobody waits an answer for.
func (m *MTProto) writeObject(obj tl.Object, contentRelated bool) error {
	msg, err := tl.Marshal(obj)
	if err != nil {
		return errors.Wrap(err, "encoding message")
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	return m.writeMessage(msg, m.genMsgID(m.timeOffset.Load()), contentRelated)
}

// writeMessage must be called with writeMu held.
func (m *MTProto) writeMessage(msg []byte, msgID int64, contentRelated bool) error {
	t := m.currentTransport()
	if t == nil {
		return ErrConnectionClosed
	}

	var packet []byte
	if !m.encrypted.Load() {
		packet = (&messages.Unencrypted{Msg: msg, MsgID: msgID}).Serialize()
	} else {
		enc := &messages.Encrypted{
			Msg:   msg,
			MsgID: msgID,
			SeqNo: m.nextSeqNo(contentRelated),
		}
		err := m.crypto.Do(context.Background(), func() (err error) {
			packet, err = enc.Serialize(m)
			return err
		})
		if err != nil {
			return errors.Wrap(err, "encrypting message")
		}
	}

	if err := t.WriteMsg(packet); err != nil {
		return errors.Wrap(err, "writing message")
	}
	return nil
}

// nextSeqNo must be called with writeMu held. Content related messages
// get an odd number and bump the counter.
func (m *MTProto) nextSeqNo(contentRelated bool) int32 {
	if !contentRelated {
		return m.seqNo * 2
	}
	seq := m.seqNo*2 + 1
	m.seqNo++
	return seq
}

func (m *MTProto) currentTransport() transport.Transport {
	m.connMu.Lock()
	defer m.connMu.Unlock()
	return m.transport
}

func (m *MTProto) readMsg(ctx context.Context, data []byte) error {
	if !messages.IsEncrypted(data) {
		msg, err := messages.DeserializeUnencrypted(data)
		if err != nil {
			return errors.Wrap(err, "reading unencrypted message")
		}
		return m.processUnencrypted(msg)
	}

	var msg *messages.Encrypted
	err := m.crypto.Do(ctx, func() (err error) {
		msg, err = messages.DeserializeEncrypted(data, m.GetAuthKey())
		return err
	})
	if err != nil {
		return errors.Wrap(err, "decrypting message")
	}
	if msg.SessionID != m.sessionId {
		return errors.Errorf("message for session %d, ours is %d", msg.SessionID, m.sessionId)
	}
	return m.processResponse(msg)
}

// processUnencrypted handles the plain messages of the handshake. Before a
// key exists they go through the usual processing too.
func (m *MTProto) processUnencrypted(msg *messages.Unencrypted) error {
	data, err := m.reg.Decode(msg.GetMsg())
	if err != nil {
		return errors.Wrap(err, "decoding message")
	}

	switch data.(type) {
	case *objects.ResPQ, objects.ServerDHParams, objects.SetClientDHParamsAnswer:
		// only one handshake request is ever in flight
		for _, p := range m.pending.Drain() {
			p.resolve(data, nil)
		}
		return nil
	}

	if m.encrypted.Load() {
		return errors.Errorf("unexpected plain %T on an encrypted session", data)
	}
	return m.processObject(msg, data)
}

func (m *MTProto) processResponse(msg messages.Common) error {
	data, err := m.reg.Decode(msg.GetMsg())
	if err != nil {
		if (msg.GetSeqNo() & 1) != 0 {
			m.pendingAcks.Add(msg.GetMsgID())
		}
		return errors.Wrap(err, "decoding message")
	}
	return m.processObject(msg, data)
}

func (m *MTProto) processObject(msg messages.Common, data tl.Object) error {
	if (msg.GetSeqNo() & 1) != 0 {
		m.pendingAcks.Add(msg.GetMsgID())
	}

	switch message := data.(type) {
	case *objects.MessageContainer:
		for _, v := range *message {
			if err := m.processResponse(v); err != nil {
				m.Logger.Warn("processing container message %d: %v", v.MsgID, err)
			}
		}

	case *objects.GzipPacked:
		if message.Obj == nil {
			return errors.New("undecodable gzip_packed message")
		}
		return m.processObject(&messages.Encrypted{MsgID: msg.GetMsgID()}, message.Obj)

	case *objects.RpcResult:
		p, ok := m.pending.Pop(message.ReqMsgID)
		if !ok {
			m.Logger.Debug("rpc_result for unknown request %d", message.ReqMsgID)
			return nil
		}
		p.resolve(m.decodeResult(message.Body, p.hint))

	case *objects.BadServerSalt:
		m.serverSalt.Store(message.NewSalt)
		m.Logger.Debug("server salt changed, resending %d", message.BadMsgID)
		m.resend(message.BadMsgID)

	case *objects.BadMsgNotification:
		switch BadSystemMessageCode(message.Code) {
		case ErrBadMsgIdTooLow, ErrBadMsgIdTooHigh:
			m.syncTime(msg.GetMsgID())
			m.resend(message.BadMsgID)
		default:
			m.deliver(message.BadMsgID, nil, BadMsgErrorFromNative(message))
		}

	case *objects.NewSessionCreated:
		m.serverSalt.Store(message.ServerSalt)
		m.Logger.Debug("new session created, first msg %d", message.FirstMsgID)

	case *objects.Pong:
		m.deliver(message.MsgID, message, nil)

	case *objects.FutureSalts:
		m.deliver(message.ReqMsgID, message, nil)

	case *objects.MsgsStateInfo:
		m.deliver(message.ReqMsgID, message, nil)

	case *objects.MsgsDetailedInfo:
		m.pendingAcks.Add(message.AnswerMsgID)

	case *objects.MsgsNewDetailedInfo:
		m.pendingAcks.Add(message.AnswerMsgID)

	case *objects.MsgsAck, *objects.MsgsAllInfo, *objects.MsgResendReq:
		// do nothing

	default:
		m.handleServerRequest(message)
	}

	return nil
}

// decodeResult reads the body of an rpc_result with the hint of the
// request it answers.
func (m *MTProto) decodeResult(body []byte, hint tl.Hint) (any, error) {
	if len(body) < tl.WordLen {
		return nil, tl.ErrUnexpectedEOF
	}

	switch binary.LittleEndian.Uint32(body) {
	case objects.CrcGzipPacked:
		d := tl.NewDecoder(body[tl.WordLen:])
		packed := d.PopMessage()
		if d.Err() != nil {
			return nil, errors.Wrap(d.Err(), "reading gzip_packed")
		}
		inflated, err := objects.Gunzip(packed)
		if err != nil {
			return nil, err
		}
		return m.decodeResult(inflated, hint)

	case objects.CrcRpcError:
		obj, err := m.reg.Decode(body)
		if err != nil {
			return nil, errors.Wrap(err, "decoding rpc_error")
		}
		return nil, RpcErrorToNative(obj.(*objects.RpcError))
	}

	obj, err := m.reg.DecodeHinted(body, hint)
	if err != nil {
		return nil, errors.Wrap(err, "decoding rpc result")
	}
	return tl.UnwrapNativeTypes(obj), nil
}

func (m *MTProto) deliver(msgID int64, obj any, err error) {
	if p, ok := m.pending.Pop(msgID); ok {
		p.resolve(obj, err)
	}
}

// resend sends the request registered under msgID again with a new msg id.
func (m *MTProto) resend(msgID int64) {
	p, ok := m.pending.Pop(msgID)
	if !ok {
		m.Logger.Debug("nothing to resend for %d", msgID)
		return
	}
	if err := m.sendPacket(p); err != nil {
		p.resolve(nil, err)
	}
}

// syncTime takes the server clock from the msg id of a server message.
func (m *MTProto) syncTime(serverMsgID int64) {
	serverTime := serverMsgID >> 32
	offset := serverTime - nowUnix()
	m.timeOffset.Store(offset)
	m.Logger.Debug("time offset corrected to %ds", offset)
}

func (m *MTProto) failPending(err error) {
	for _, p := range m.pending.Drain() {
		p.resolve(nil, err)
	}
}

func (m *MTProto) flushAcks() {
	ids := m.pendingAcks.Drain()
	if len(ids) == 0 {
		return
	}
	if err := m.writeObject(&objects.MsgsAck{MsgIDs: ids}, false); err != nil {
		m.Logger.Debug("sending acks: %v", err)
	}
}

func (m *MTProto) handleServerRequest(obj tl.Object) {
	m.handlersMu.RLock()
	handlers := m.serverRequestHandlers
	m.handlersMu.RUnlock()

	for _, f := range handlers {
		if f(obj) {
			return
		}
	}
	m.Logger.Debug("unhandled message type: %T", obj)
}
