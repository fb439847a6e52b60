// Copyright (c) 2025 @AmarnathCJD

package ige

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

type AesBlock [aes.BlockSize]byte

// Cipher is AES-256 in infinite garble extension mode. The iv holds the
// previous ciphertext block followed by the previous plaintext block.
type Cipher struct {
	block cipher.Block
	iv    [2]AesBlock
}

func NewCipher(key, iv []byte) (*Cipher, error) {
	if len(iv) != 2*aes.BlockSize {
		return nil, ErrIVSize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating new cipher: %w", err)
	}

	c := &Cipher{block: block}
	copy(c.iv[0][:], iv[:aes.BlockSize])
	copy(c.iv[1][:], iv[aes.BlockSize:])
	return c, nil
}

// Encrypt writes the ciphertext of in to out, both must be the same length.
func (c *Cipher) Encrypt(in, out []byte) error {
	if err := isCorrectData(in, out); err != nil {
		return err
	}

	prevCipher, prevPlain := c.iv[0], c.iv[1]
	var buf AesBlock
	for i := 0; i < len(in); i += aes.BlockSize {
		var plain AesBlock
		copy(plain[:], in[i:])

		xorBlock(&buf, &plain, &prevCipher)
		c.block.Encrypt(buf[:], buf[:])
		xorBlock(&buf, &buf, &prevPlain)

		copy(out[i:], buf[:])
		prevCipher, prevPlain = buf, plain
	}
	return nil
}

// Decrypt writes the plaintext of in to out, both must be the same length.
func (c *Cipher) Decrypt(in, out []byte) error {
	if err := isCorrectData(in, out); err != nil {
		return err
	}

	prevCipher, prevPlain := c.iv[0], c.iv[1]
	var buf AesBlock
	for i := 0; i < len(in); i += aes.BlockSize {
		var ciph AesBlock
		copy(ciph[:], in[i:])

		xorBlock(&buf, &ciph, &prevPlain)
		c.block.Decrypt(buf[:], buf[:])
		xorBlock(&buf, &buf, &prevCipher)

		copy(out[i:], buf[:])
		prevCipher, prevPlain = ciph, buf
	}
	return nil
}

func xorBlock(dst, a, b *AesBlock) {
	for i := range dst {
		dst[i] = a[i] ^ b[i]
	}
}

func isCorrectData(in, out []byte) error {
	if len(in) < aes.BlockSize {
		return ErrDataTooSmall
	}
	if len(in)%aes.BlockSize != 0 {
		return ErrDataNotDivisible
	}
	if len(out) < len(in) {
		return ErrOutputTooSmall
	}
	return nil
}
