// Copyright (c) 2025 @AmarnathCJD

package ige

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amarnathcjd/mtproto/internal/encoding/tl"
)

func seq(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

func TestIGEVector(t *testing.T) {
	c, err := NewCipher(seq(16), seq(32))
	require.NoError(t, err)

	out := make([]byte, 32)
	require.NoError(t, c.Encrypt(make([]byte, 32), out))
	assert.Equal(t, "1a8519a6557be652e9da8e43da4ef4453cf456b4ca488aa383c79c98b34797cb", hex.EncodeToString(out))

	plain := make([]byte, 32)
	require.NoError(t, c.Decrypt(out, plain))
	assert.Equal(t, make([]byte, 32), plain)
}

func TestIGEBadInput(t *testing.T) {
	c, err := NewCipher(seq(32), seq(32))
	require.NoError(t, err)

	assert.ErrorIs(t, c.Encrypt(make([]byte, 8), make([]byte, 8)), ErrDataTooSmall)
	assert.ErrorIs(t, c.Encrypt(make([]byte, 20), make([]byte, 20)), ErrDataNotDivisible)

	_, err = NewCipher(seq(32), seq(16))
	assert.ErrorIs(t, err, ErrIVSize)
}

func TestMessageRoundTrip(t *testing.T) {
	authKey := make([]byte, AuthKeySize)
	_, err := rand.Read(authKey)
	require.NoError(t, err)

	for _, size := range []int{0, 4, 15, 16, 100, 1024} {
		msg := seq(size)
		enc, msgKey, err := encrypt(msg, authKey, true)
		require.NoError(t, err)
		assert.Zero(t, len(enc)%16)
		assert.GreaterOrEqual(t, len(enc)-size, 12)

		dec, err := Decrypt(enc, authKey, msgKey)
		require.NoError(t, err)
		assert.Equal(t, msg, dec[:size])

		enc[0] ^= 1
		_, err = Decrypt(enc, authKey, msgKey)
		assert.ErrorIs(t, err, ErrMsgKeyMismatch)
	}

	_, _, err = Encrypt([]byte("x"), authKey[:10])
	assert.ErrorIs(t, err, ErrAuthKeySize)
}

func TestTempKeysRoundTrip(t *testing.T) {
	var newNonce tl.Int256
	var serverNonce tl.Int128
	copy(newNonce[:], seq(32))
	copy(serverNonce[:], seq(16))

	for _, size := range []int{20, 33, 100} {
		msg := bytes.Repeat([]byte{0x42}, size)
		enc, err := EncryptMessageWithTempKeys(msg, newNonce, serverNonce)
		require.NoError(t, err)

		dec, err := DecryptMessageWithTempKeys(enc, newNonce, serverNonce)
		require.NoError(t, err)
		assert.Equal(t, msg, dec)
	}
}

func TestCDNChunkOffsets(t *testing.T) {
	key := seq(32)
	iv := seq(16)
	data := make([]byte, 4096)
	_, err := rand.Read(data)
	require.NoError(t, err)

	block, err := aes.NewCipher(key)
	require.NoError(t, err)
	counter := append(append([]byte(nil), iv[:12]...), 0, 0, 0, 0)
	whole := make([]byte, len(data))
	cipher.NewCTR(block, counter).XORKeyStream(whole, data)

	for _, offset := range []int64{0, 16, 1024, 4080} {
		got, err := DecryptCDNChunk(key, iv, offset, data[offset:])
		require.NoError(t, err)
		assert.Equal(t, whole[offset:], got)
	}
}

func TestPool(t *testing.T) {
	p := NewPool(2)

	var ran atomic.Int32
	for i := 0; i < 10; i++ {
		require.NoError(t, p.Do(context.Background(), func() error {
			ran.Add(1)
			return nil
		}))
	}
	assert.Equal(t, int32(10), ran.Load())

	want := assert.AnError
	assert.Equal(t, want, p.Do(context.Background(), func() error { return want }))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.Close()
	err := p.Do(ctx, func() error { return nil })
	assert.Error(t, err)
	assert.ErrorIs(t, p.Do(context.Background(), func() error { return nil }), ErrPoolClosed)
}
