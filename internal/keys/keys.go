// Copyright (c) 2022 RoseLoverX

package keys

import (
	"bytes"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"encoding/binary"
	"encoding/pem"
	"math/big"
	"os"

	"github.com/pkg/errors"

	"github.com/amarnathcjd/mtproto/internal/encoding/tl"
)

// production server key, https://core.telegram.org/mtproto/auth_key
const defaultKeys = `-----BEGIN RSA PUBLIC KEY-----
MIIBCgKCAQEA6LszBcC1LGzyr992NzE0ieY+BSaOW622Aa9Bd4ZHLl+TuFQ4lo4g
5nKaMBwK/BIb9xUfg0Q29/2mgIR6Zr9krM7HjuIcCzFvDtr+L0GQjae9H0pRB2OO
62cECs5HKhT5DZ98K33vmWiLowc621dQuwKWSQKjWf50XYFw42h21P2KXUGyp2y/
+aEyZ+uVgLLQbRA1dEjSDZ2iGRy12Mk5gpYc397aYp438fsJoHIgJ2lgMv5h7WY9
t6N/byY9Nw9p21Og3AoXSL2q/2IJ1WRUhebgAdGVMlV1fkuOQoEzR7EdpqtQD9Cs
5+bfo3Nhmcyvk5ftB0WkJ9z6bNZ7yxrP8wIDAQAB
-----END RSA PUBLIC KEY-----
`

// Default returns the built in server keys.
func Default() ([]*rsa.PublicKey, error) {
	return Parse([]byte(defaultKeys))
}

// RSAFingerprint is the lower 64 bits of SHA1 over the TL encoded n and e.
// https://core.telegram.org/mtproto/auth_key
func RSAFingerprint(key *rsa.PublicKey) int64 {
	buf := bytes.NewBuffer(nil)
	e := tl.NewEncoder(buf)
	e.PutMessage(key.N.Bytes())
	e.PutMessage(big.NewInt(int64(key.E)).Bytes())

	sum := sha1.Sum(buf.Bytes())
	return int64(binary.LittleEndian.Uint64(sum[12:]))
}

// ReadFromFile loads every PEM encoded key in path.
func ReadFromFile(path string) ([]*rsa.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading keys")
	}
	return Parse(data)
}

func Parse(data []byte) ([]*rsa.PublicKey, error) {
	keys := make([]*rsa.PublicKey, 0)
	total := len(data)
	for {
		block, rest := pem.Decode(data)
		if block == nil {
			break
		}

		key, err := pemBytesToRsa(block.Bytes)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse key at offset %d", total-len(data))
		}

		keys = append(keys, key)
		data = rest
	}
	if len(keys) == 0 {
		return nil, errors.New("no PEM encoded keys found")
	}

	return keys, nil
}

func pemBytesToRsa(data []byte) (*rsa.PublicKey, error) {
	key, err := x509.ParsePKCS1PublicKey(data)
	if err == nil {
		return key, nil
	}

	k, pkixErr := x509.ParsePKIXPublicKey(data)
	if pkixErr != nil {
		return nil, err
	}
	rsaKey, ok := k.(*rsa.PublicKey)
	if !ok {
		return nil, errors.Errorf("not an RSA key: %T", k)
	}
	return rsaKey, nil
}

// Encode formats key as a PKCS1 PEM block.
func Encode(key *rsa.PublicKey) []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PUBLIC KEY",
		Bytes: x509.MarshalPKCS1PublicKey(key),
	})
}
