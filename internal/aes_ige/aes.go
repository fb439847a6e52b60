// Copyright (c) 2025 @AmarnathCJD

package ige

import (
	"bytes"
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"

	"github.com/pkg/errors"

	"github.com/amarnathcjd/mtproto/internal/encoding/tl"
)

const AuthKeySize = 256

// MessageKey is the MTProto 2.0 msg_key of a padded plaintext. decode selects
// the server to client direction.
func MessageKey(authKey, msgPadded []byte, decode bool) []byte {
	var x int
	if decode {
		x = 8
	}

	// `msg_key_large = SHA256 (substr (auth_key, 88+x, 32) + plaintext + random_padding);`
	h := sha256.New()
	_, _ = h.Write(authKey[88+x : 88+x+32])
	_, _ = h.Write(msgPadded)
	msgKeyLarge := h.Sum(nil)

	// `msg_key = substr (msg_key_large, 8, 16);`
	return append([]byte(nil), msgKeyLarge[8:8+16]...)
}

// Encrypt pads and encrypts a client message.
func Encrypt(msg, authKey []byte) (out, msgKey []byte, _ error) {
	return encrypt(msg, authKey, false)
}

// Decrypt decrypts a server message and checks its msg_key.
func Decrypt(msg, authKey, msgKey []byte) ([]byte, error) {
	return decrypt(msg, authKey, msgKey, true)
}

func encrypt(msg, authKey []byte, decode bool) (out, msgKey []byte, _ error) {
	if len(authKey) != AuthKeySize {
		return nil, nil, ErrAuthKeySize
	}

	// 12..1024 bytes of padding are allowed, 12..27 keeps packets small.
	padding := 12 + (16-(len(msg)+12)%16)%16
	data := make([]byte, len(msg)+padding)
	n := copy(data, msg)

	// See https://core.telegram.org/mtproto/description#encrypted-message-encrypted-data.
	if _, err := rand.Read(data[n:]); err != nil {
		return nil, nil, err
	}

	msgKey = MessageKey(authKey, data, decode)
	aesKey, aesIV := aesKeys(msgKey, authKey, decode)

	c, err := NewCipher(aesKey[:], aesIV[:])
	if err != nil {
		return nil, nil, err
	}

	out = make([]byte, len(data))
	if err := c.Encrypt(data, out); err != nil {
		return nil, nil, err
	}

	return out, msgKey, nil
}

func decrypt(msg, authKey, msgKey []byte, decode bool) ([]byte, error) {
	if len(authKey) != AuthKeySize {
		return nil, ErrAuthKeySize
	}

	aesKey, aesIV := aesKeys(msgKey, authKey, decode)

	c, err := NewCipher(aesKey[:], aesIV[:])
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(msg))
	if err := c.Decrypt(msg, out); err != nil {
		return nil, err
	}

	if !bytes.Equal(MessageKey(authKey, out, decode), msgKey) {
		return nil, ErrMsgKeyMismatch
	}

	return out, nil
}

func aesKeys(msgKey, authKey []byte, decode bool) (aesKey, aesIV [32]byte) {
	var x int
	if decode {
		x = 8
	}

	// sha256_a = SHA256 (msg_key + substr (auth_key, x, 36));
	h := sha256.New()
	_, _ = h.Write(msgKey)
	_, _ = h.Write(authKey[x : x+36])
	sha256a := h.Sum(nil)

	// sha256_b = SHA256 (substr (auth_key, 40+x, 36) + msg_key);
	h.Reset()
	_, _ = h.Write(authKey[40+x : 40+x+36])
	_, _ = h.Write(msgKey)
	sha256b := h.Sum(nil)

	// aes_key = substr (sha256_a, 0, 8) + substr (sha256_b, 8, 16) + substr (sha256_a, 24, 8);
	n := copy(aesKey[:], sha256a[:8])
	n += copy(aesKey[n:], sha256b[8:24])
	copy(aesKey[n:], sha256a[24:32])

	// aes_iv = substr (sha256_b, 0, 8) + substr (sha256_a, 8, 16) + substr (sha256_b, 24, 8);
	n = copy(aesIV[:], sha256b[:8])
	n += copy(aesIV[n:], sha256a[8:24])
	copy(aesIV[n:], sha256b[24:32])

	return aesKey, aesIV
}

// DecryptMessageWithTempKeys decrypts server_DH_inner_data with the keys derived from the handshake nonces.
func DecryptMessageWithTempKeys(msg []byte, newNonce tl.Int256, serverNonce tl.Int128) ([]byte, error) {
	key, iv := generateTempKeys(newNonce, serverNonce)
	c, err := NewCipher(key, iv)
	if err != nil {
		return nil, err
	}

	decodedWithHash := make([]byte, len(msg))
	if err := c.Decrypt(msg, decodedWithHash); err != nil {
		return nil, err
	}

	// decodedWithHash := SHA1(answer) + answer + (0-15); 16;
	decodedHash := decodedWithHash[:sha1.Size]
	decodedMessage := decodedWithHash[sha1.Size:]

	for i := len(decodedMessage); i > len(decodedMessage)-16 && i >= 0; i-- {
		sum := sha1.Sum(decodedMessage[:i])
		if bytes.Equal(decodedHash, sum[:]) {
			return decodedMessage[:i], nil
		}
	}

	return nil, errors.New("couldn't trim message: hashes incompatible on more than 16 tries")
}

// EncryptMessageWithTempKeys encrypts client_DH_inner_data with the keys derived from the handshake nonces.
func EncryptMessageWithTempKeys(msg []byte, newNonce tl.Int256, serverNonce tl.Int128) ([]byte, error) {
	hash := sha1.Sum(msg)

	totalLen := len(hash) + len(msg)
	needToAdd := (16 - totalLen%16) % 16

	padding := make([]byte, needToAdd)
	if _, err := rand.Read(padding); err != nil {
		return nil, err
	}
	data := bytes.Join([][]byte{hash[:], msg, padding}, nil)

	key, iv := generateTempKeys(newNonce, serverNonce)
	c, err := NewCipher(key, iv)
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(data))
	if err := c.Encrypt(data, out); err != nil {
		return nil, err
	}
	return out, nil
}

// https://core.telegram.org/mtproto/auth_key#server-responds-in-two-ways
func generateTempKeys(newNonce tl.Int256, serverNonce tl.Int128) (key, iv []byte) {
	// SHA1(new_nonce + server_nonce)
	hash1 := sha1.Sum(append(newNonce[:], serverNonce[:]...))
	// SHA1(server_nonce + new_nonce)
	hash2 := sha1.Sum(append(serverNonce[:], newNonce[:]...))
	// SHA1(new_nonce + new_nonce)
	hash3 := sha1.Sum(append(newNonce[:], newNonce[:]...))

	// tmp_aes_key := SHA1(new_nonce + server_nonce) + substr (SHA1(server_nonce + new_nonce), 0, 12);
	key = make([]byte, 32)
	copy(key, hash1[:])
	copy(key[20:], hash2[:12])

	// tmp_aes_iv := substr (SHA1(server_nonce + new_nonce), 12, 8) + SHA1(new_nonce + new_nonce) + substr (new_nonce, 0, 4);
	iv = make([]byte, 32)
	copy(iv, hash2[12:20])
	copy(iv[8:], hash3[:])
	copy(iv[28:], newNonce[:4])

	return key, iv
}
