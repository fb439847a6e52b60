// Copyright (c) 2024 RoseLoverX

package mtproto

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/amarnathcjd/mtproto/internal/mtproto/objects"
	"github.com/amarnathcjd/mtproto/internal/transport"
)

func TestTryExpandError(t *testing.T) {
	name, data := TryExpandError("FLOOD_WAIT_42")
	assert.Equal(t, "FLOOD_WAIT_X", name)
	assert.Equal(t, 42, data)

	name, data = TryExpandError("FILE_PART_3_MISSING")
	assert.Equal(t, "FILE_PART_X_MISSING", name)
	assert.Equal(t, 3, data)

	name, data = TryExpandError("FILE_TOKEN_INVALID")
	assert.Equal(t, "FILE_TOKEN_INVALID", name)
	assert.Nil(t, data)
}

func TestFloodWaitKinds(t *testing.T) {
	for msg, want := range map[string]time.Duration{
		"FLOOD_WAIT_5":         5 * time.Second,
		"FLOOD_PREMIUM_WAIT_2": 2 * time.Second,
		"SLOWMODE_WAIT_60":     time.Minute,
	} {
		err := errors.Wrap(RpcErrorToNative(&objects.RpcError{ErrorCode: 420, ErrorMessage: msg}), "invoking")
		got, ok := IsFloodWait(err)
		assert.True(t, ok, msg)
		assert.Equal(t, want, got, msg)
	}

	_, ok := IsFloodWait(RpcErrorToNative(&objects.RpcError{ErrorCode: 400, ErrorMessage: "PEER_ID_INVALID"}))
	assert.False(t, ok)
	_, ok = IsFloodWait(errors.New("FLOOD_WAIT_5"))
	assert.False(t, ok)
}

func TestMatchError(t *testing.T) {
	err := RpcErrorToNative(&objects.RpcError{ErrorCode: 400, ErrorMessage: "FILE_TOKEN_INVALID"}, "upload.getCdnFile")
	assert.True(t, MatchError(err, "FILE_MIGRATE_X", "FILE_TOKEN_INVALID"))
	assert.False(t, MatchError(err, "FILE_MIGRATE_X"))
	assert.Contains(t, err.Error(), "upload.getCdnFile")

	_, ok := MigrateTarget(err)
	assert.False(t, ok)
}

func TestTransportError(t *testing.T) {
	assert.ErrorIs(t, transportError(transport.ErrCode(-404)), ErrAuthKeyInvalid)
	assert.ErrorIs(t, transportError(transport.ErrCode(-429)), ErrTransportCode)
	assert.Equal(t, transport.ErrNoData, transportError(transport.ErrNoData))
}
