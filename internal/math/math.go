// Copyright (c) 2024 RoseLoverX

// Package math holds the number theory of the auth key exchange.
package math

import (
	crand "crypto/rand"
	"crypto/rsa"
	"math/big"
	"math/bits"

	"github.com/pkg/errors"
)

// RSABlockSize is the size of the data_with_hash block sent in
// req_DH_params.
const RSABlockSize = 255

var big1 = big.NewInt(1)

// EncryptBlock is textbook RSA over one 255 byte block, as the key
// exchange uses it: no padding, result left padded to 256 bytes.
func EncryptBlock(block []byte, key *rsa.PublicKey) ([]byte, error) {
	if len(block) != RSABlockSize {
		return nil, errors.Errorf("rsa block is %d bytes, want %d", len(block), RSABlockSize)
	}
	m := new(big.Int).SetBytes(block)
	c := new(big.Int).Exp(m, big.NewInt(int64(key.E)), key.N)
	return c.FillBytes(make([]byte, 256)), nil
}

// MakeGAB picks a random 2048 bit b and returns g^b and g_a^b modulo dhPrime.
func MakeGAB(g int32, gA, dhPrime *big.Int) (b, gB, gAB *big.Int, err error) {
	if b, err = crand.Int(crand.Reader, new(big.Int).Lsh(big1, 2048)); err != nil {
		return nil, nil, nil, err
	}
	gB = new(big.Int).Exp(big.NewInt(int64(g)), b, dhPrime)
	gAB = new(big.Int).Exp(gA, b, dhPrime)
	return b, gB, gAB, nil
}

// CheckDHValue reports whether 2^(2048-64) < v < dh_prime - 2^(2048-64),
// the range both g_a and g_b must fall in.
func CheckDHValue(v, dhPrime *big.Int) bool {
	low := new(big.Int).Lsh(big1, 2048-64)
	high := new(big.Int).Sub(dhPrime, low)
	return v.Cmp(low) > 0 && v.Cmp(high) < 0
}

// SplitPQ factors the pq of res_pq into its two primes, smaller first.
// The server always sends a product of two 32 bit primes.
func SplitPQ(pq *big.Int) (p, q *big.Int, err error) {
	if pq.Sign() <= 0 || pq.BitLen() > 64 {
		return nil, nil, errors.Errorf("pq %s is not a 64 bit number", pq)
	}
	n := pq.Uint64()
	if n < 4 {
		return nil, nil, errors.Errorf("pq %d has no factors", n)
	}

	d := uint64(2)
	if n%2 != 0 {
		d = n
		for c := uint64(1); c <= 16 && (d == 1 || d == n); c++ {
			d = brent(n, c)
		}
		if d == 1 || d == n {
			return nil, nil, errors.Errorf("cannot factor pq %d", n)
		}
	}
	a, b := d, n/d
	if a > b {
		a, b = b, a
	}
	return new(big.Int).SetUint64(a), new(big.Int).SetUint64(b), nil
}

// brent is Pollard's rho with Brent's cycle detection over x^2+c mod n.
// It returns a divisor of n, which is n itself when this c failed.
func brent(n, c uint64) uint64 {
	const batch = 128
	const maxRange = 1 << 24

	next := func(x uint64) uint64 { return addMod(mulMod(x, x, n), c%n, n) }
	y, g, q := uint64(2), uint64(1), uint64(1)
	var x, ys uint64

	for r := uint64(1); g == 1; r <<= 1 {
		if r > maxRange {
			return n
		}
		x = y
		for i := uint64(0); i < r; i++ {
			y = next(y)
		}
		for k := uint64(0); k < r && g == 1; k += batch {
			ys = y
			for i := uint64(0); i < min(batch, r-k); i++ {
				y = next(y)
				q = mulMod(q, diff(x, y), n)
			}
			g = gcd(q, n)
		}
	}

	if g == n {
		// the batch overshot; walk it again one step at a time
		for g = 1; g == 1; {
			ys = next(ys)
			g = gcd(diff(x, ys), n)
		}
	}
	return g
}

func mulMod(a, b, m uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	_, rem := bits.Div64(hi%m, lo, m)
	return rem
}

func addMod(a, b, m uint64) uint64 {
	s := a + b
	if s < a || s >= m {
		s -= m
	}
	return s
}

func diff(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
