// Copyright (c) 2025 @AmarnathCJD

package ige

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"fmt"
)

// DecryptCDNChunk decrypts a chunk served by a CDN datacenter. The counter is
// the redirect iv with its last 4 bytes replaced by offset/16, big endian.
func DecryptCDNChunk(key, iv []byte, offset int64, data []byte) ([]byte, error) {
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("cdn iv must be %d bytes, got %d", aes.BlockSize, len(iv))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cdn cipher: %w", err)
	}

	counter := make([]byte, aes.BlockSize)
	copy(counter, iv[:12])
	binary.BigEndian.PutUint32(counter[12:], uint32(offset/16))

	out := make([]byte, len(data))
	cipher.NewCTR(block, counter).XORKeyStream(out, data)
	return out, nil
}
