// Copyright (c) 2024 RoseLoverX

package mtproto

import (
	"context"
	"crypto/rsa"
	"crypto/subtle"
	"encoding/binary"
	"math/big"
	"time"

	"github.com/pkg/errors"

	ige "github.com/amarnathcjd/mtproto/internal/aes_ige"
	"github.com/amarnathcjd/mtproto/internal/encoding/tl"
	"github.com/amarnathcjd/mtproto/internal/keys"
	"github.com/amarnathcjd/mtproto/internal/math"
	"github.com/amarnathcjd/mtproto/internal/mtproto/objects"
	"github.com/amarnathcjd/mtproto/internal/utils"
)

const handshakeAttempts = 5

// errRetryHandshake marks failures that a fresh handshake may not hit again.
var errRetryHandshake = errors.New("handshake must be restarted")

// https://core.telegram.org/mtproto/auth_key
func (m *MTProto) makeAuthKey(ctx context.Context) error {
	var err error
	for attempt := 1; attempt <= handshakeAttempts; attempt++ {
		err = m.exchangeKeys(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, errRetryHandshake) {
			return err
		}
		m.Logger.Debug("handshake attempt %d: %v", attempt, err)
		if err := m.sleep(ctx, 200*time.Millisecond); err != nil {
			return err
		}
	}
	return err
}

func (m *MTProto) exchangeKeys(ctx context.Context) error {
	nonce := tl.Int128(utils.RandomBytes(tl.Int128Len))
	res, err := objects.ReqPQMulti(ctx, m, nonce)
	if err != nil {
		return errors.Wrap(err, "reqPQ")
	}
	if res.Nonce != nonce {
		return errors.Wrap(errRetryHandshake, "reqPQ: nonce mismatch")
	}

	key, fingerprint := m.pickKey(res.Fingerprints)
	if key == nil {
		return errors.Errorf("reqPQ: no known key among fingerprints %v", res.Fingerprints)
	}

	var p, q *big.Int
	err = m.crypto.Do(ctx, func() error {
		var err error
		p, q, err = math.SplitPQ(new(big.Int).SetBytes(res.Pq))
		return err
	})
	if err != nil {
		return errors.Wrap(err, "reqPQ")
	}

	newNonce := tl.Int256(utils.RandomBytes(tl.Int256Len))
	serverNonce := res.ServerNonce
	inner, err := tl.Marshal(&objects.PQInnerData{
		Pq:          res.Pq,
		P:           p.Bytes(),
		Q:           q.Bytes(),
		Nonce:       nonce,
		ServerNonce: serverNonce,
		NewNonce:    newNonce,
	})
	if err != nil {
		return errors.Wrap(err, "encoding p_q_inner_data")
	}

	// sha1(data) + data + random padding up to 255 bytes
	block := make([]byte, math.RSABlockSize)
	n := copy(block, utils.Sha1Byte(inner))
	n += copy(block[n:], inner)
	copy(block[n:], utils.RandomBytes(len(block)-n))
	encrypted, err := math.EncryptBlock(block, key)
	if err != nil {
		return err
	}

	dhResponse, err := objects.ReqDHParams(ctx, m, nonce, serverNonce, p.Bytes(), q.Bytes(), fingerprint, encrypted)
	if err != nil {
		return errors.Wrap(err, "reqDHParams")
	}
	dhParams, ok := dhResponse.(*objects.ServerDHParamsOk)
	if !ok {
		return errors.Wrapf(errRetryHandshake, "reqDHParams: server answered %T", dhResponse)
	}
	if dhParams.Nonce != nonce || dhParams.ServerNonce != serverNonce {
		return errors.Wrap(errRetryHandshake, "reqDHParams: nonce mismatch")
	}

	answer, err := ige.DecryptMessageWithTempKeys(dhParams.EncryptedAnswer, newNonce, serverNonce)
	if err != nil {
		return errors.Wrap(errRetryHandshake, err.Error())
	}
	obj, err := m.reg.Decode(answer)
	if err != nil {
		return errors.Wrap(err, "decoding server_DH_inner_data")
	}
	dhi, ok := obj.(*objects.ServerDHInnerData)
	if !ok {
		return errors.Errorf("decoding server_DH_inner_data: got %T", obj)
	}
	if dhi.Nonce != nonce || dhi.ServerNonce != serverNonce {
		return errors.Wrap(errRetryHandshake, "server_DH_inner_data: nonce mismatch")
	}

	dhPrime := new(big.Int).SetBytes(dhi.DhPrime)
	gA := new(big.Int).SetBytes(dhi.GA)
	if !math.CheckDHValue(gA, dhPrime) {
		return errors.New("server_DH_inner_data: g_a out of range")
	}
	m.timeOffset.Store(int64(dhi.ServerTime) - nowUnix())

	var retryID int64
	for retry := int64(0); retry < handshakeAttempts; retry++ {
		authKey, gB, err := m.computeKey(ctx, dhi.G, gA, dhPrime)
		if err != nil {
			return err
		}

		clientData, err := tl.Marshal(&objects.ClientDHInnerData{
			Nonce:       nonce,
			ServerNonce: serverNonce,
			Retry:       retryID,
			GB:          gB.Bytes(),
		})
		if err != nil {
			return errors.Wrap(err, "encoding client_DH_inner_data")
		}
		encrypted, err := ige.EncryptMessageWithTempKeys(clientData, newNonce, serverNonce)
		if err != nil {
			return errors.Wrap(err, "encrypting client_DH_inner_data")
		}

		status, err := objects.SetClientDHParams(ctx, m, nonce, serverNonce, encrypted)
		if err != nil {
			return errors.Wrap(err, "setClientDHParams")
		}

		switch s := status.(type) {
		case *objects.DHGenOk:
			if s.Nonce != nonce || s.ServerNonce != serverNonce {
				return errors.Wrap(errRetryHandshake, "dh_gen_ok: nonce mismatch")
			}
			if !checkNonceHash(s.NonceHash, newNonce, 1, authKey) {
				return errors.New("dh_gen_ok: wrong new_nonce_hash1")
			}
			m.finishHandshake(ctx, authKey, newNonce, serverNonce)
			return nil

		case *objects.DHGenRetry:
			if !checkNonceHash(s.NonceHash, newNonce, 2, authKey) {
				return errors.New("dh_gen_retry: wrong new_nonce_hash2")
			}
			retryID = int64(binary.LittleEndian.Uint64(utils.Sha1Byte(authKey)[:8]))
			m.Logger.Debug("server asked to retry the key exchange")

		case *objects.DHGenFail:
			return errors.Wrap(errRetryHandshake, "dh_gen_fail")

		default:
			return errors.Errorf("setClientDHParams: got %T", status)
		}
	}
	return errors.Wrap(errRetryHandshake, "too many dh_gen_retry answers")
}

func (m *MTProto) pickKey(fingerprints []int64) (*rsa.PublicKey, int64) {
	for _, fp := range fingerprints {
		for _, key := range m.publicKeys {
			if keys.RSAFingerprint(key) == fp {
				return key, fp
			}
		}
	}
	return nil, 0
}

// computeKey picks b and returns g_a^b as a 256 byte key together with g^b.
func (m *MTProto) computeKey(ctx context.Context, g int32, gA, dhPrime *big.Int) ([]byte, *big.Int, error) {
	var gB, gAB *big.Int
	err := m.crypto.Do(ctx, func() (err error) {
		_, gB, gAB, err = math.MakeGAB(g, gA, dhPrime)
		return err
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "computing g_b")
	}
	if !math.CheckDHValue(gB, dhPrime) {
		return nil, nil, errors.Wrap(errRetryHandshake, "g_b out of range")
	}
	return gAB.FillBytes(make([]byte, ige.AuthKeySize)), gB, nil
}

func (m *MTProto) finishHandshake(ctx context.Context, authKey []byte, newNonce tl.Int256, serverNonce tl.Int128) {
	salt := make([]byte, tl.LongLen)
	for i := range salt {
		salt[i] = newNonce[i] ^ serverNonce[i]
	}
	m.serverSalt.Store(int64(binary.LittleEndian.Uint64(salt)))
	m.SetAuthKey(authKey)
	m.encrypted.Store(true)

	if m.storage == nil {
		return
	}
	err := m.storage.SetAuthKey(ctx, authKey)
	if err == nil {
		err = m.storage.SetDcID(ctx, m.dc)
	}
	if err == nil {
		err = m.storage.Save(ctx)
	}
	if err != nil {
		m.Logger.Error("saving session: %v", err)
	}
}

// newNonceHash is the last 128 bits of sha1(new_nonce + n + auth_key_aux_hash).
func newNonceHash(newNonce tl.Int256, n byte, authKey []byte) []byte {
	buf := make([]byte, 0, tl.Int256Len+1+8)
	buf = append(buf, newNonce[:]...)
	buf = append(buf, n)
	buf = append(buf, utils.Sha1Byte(authKey)[:8]...)
	return utils.Sha1Byte(buf)[4:20]
}

func checkNonceHash(got tl.Int128, newNonce tl.Int256, n byte, authKey []byte) bool {
	return subtle.ConstantTimeCompare(got[:], newNonceHash(newNonce, n, authKey)) == 1
}
