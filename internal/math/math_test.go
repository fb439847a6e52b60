// Copyright (c) 2024 RoseLoverX

package math

import (
	"crypto/rand"
	"crypto/rsa"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPQ(t *testing.T) {
	pq, ok := new(big.Int).SetString("17ED48941A08F981", 16)
	require.True(t, ok)

	p, q, err := SplitPQ(pq)
	require.NoError(t, err)
	assert.Equal(t, int64(0x494C553B), p.Int64())
	assert.Equal(t, int64(0x53911073), q.Int64())

	p, q, err = SplitPQ(big.NewInt(2 * 1000003))
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.Int64())
	assert.Equal(t, int64(1000003), q.Int64())

	// two primes just below 2^32
	pq = new(big.Int).Mul(big.NewInt(4294967291), big.NewInt(4294967279))
	p, q, err = SplitPQ(pq)
	require.NoError(t, err)
	assert.Equal(t, int64(4294967279), p.Int64())
	assert.Equal(t, int64(4294967291), q.Int64())

	_, _, err = SplitPQ(new(big.Int).Lsh(big1, 70))
	assert.Error(t, err)
	_, _, err = SplitPQ(big.NewInt(0))
	assert.Error(t, err)
}

func TestMakeGAB(t *testing.T) {
	prime, err := rand.Prime(rand.Reader, 256)
	require.NoError(t, err)

	a := big.NewInt(123456789)
	gA := new(big.Int).Exp(big.NewInt(3), a, prime)

	b, gB, gAB, err := MakeGAB(3, gA, prime)
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Exp(gB, a, prime), gAB)
	assert.Equal(t, new(big.Int).Exp(gA, b, prime), gAB)
}

func TestCheckDHValue(t *testing.T) {
	prime := new(big.Int).Sub(new(big.Int).Lsh(big1, 2048), big.NewInt(159))
	assert.False(t, CheckDHValue(big.NewInt(2), prime))
	assert.True(t, CheckDHValue(new(big.Int).Lsh(big1, 2000), prime))
	assert.False(t, CheckDHValue(new(big.Int).Sub(prime, big1), prime))
}

func TestEncryptBlock(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	block := make([]byte, RSABlockSize)
	block[0], block[254] = 1, 9
	out, err := EncryptBlock(block, &key.PublicKey)
	require.NoError(t, err)
	assert.Len(t, out, 256)

	plain := new(big.Int).Exp(new(big.Int).SetBytes(out), key.D, key.N)
	assert.Equal(t, block, plain.FillBytes(make([]byte, RSABlockSize)))

	_, err = EncryptBlock(make([]byte, 10), &key.PublicKey)
	assert.Error(t, err)
}
