// Copyright (c) 2022 RoseLoverX

package keys

import (
	"crypto/rand"
	"crypto/rsa"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeys(t *testing.T) {
	keys, err := Default()
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, 2048, keys[0].N.BitLen())
	assert.Equal(t, 65537, keys[0].E)
}

func TestEncodeReadRoundTrip(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "keys.pem")
	require.NoError(t, os.WriteFile(path, Encode(&key.PublicKey), 0o600))

	keys, err := ReadFromFile(path)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, key.PublicKey.N, keys[0].N)
	assert.Equal(t, RSAFingerprint(&key.PublicKey), RSAFingerprint(keys[0]))

	_, err = Parse([]byte("garbage"))
	assert.Error(t, err)
}
