// Copyright (c) 2024 RoseLoverX

package session_test

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amarnathcjd/mtproto/internal/session"
)

type clockStorage interface {
	session.Storage
	SetClock(func() time.Time)
}

func storages(t *testing.T) map[string]clockStorage {
	t.Helper()
	return map[string]clockStorage{
		"memory": session.NewMemoryStorage(""),
		"sqlite": session.NewSQLiteStorage(filepath.Join(t.TempDir(), "acc.session"), ""),
	}
}

func TestStorageAccessors(t *testing.T) {
	ctx := context.Background()
	for name, st := range storages(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, st.Open(ctx))
			defer st.Close()

			dc, err := st.DcID(ctx)
			require.NoError(t, err)
			assert.Equal(t, session.DefaultDC, dc)

			key := bytes.Repeat([]byte{7}, 256)
			require.NoError(t, st.SetDcID(ctx, 4))
			require.NoError(t, st.SetAPIID(ctx, 12345))
			require.NoError(t, st.SetTestMode(ctx, true))
			require.NoError(t, st.SetAuthKey(ctx, key))
			require.NoError(t, st.SetUserID(ctx, 777000))
			require.NoError(t, st.SetIsBot(ctx, true))

			dc, _ = st.DcID(ctx)
			apiID, _ := st.APIID(ctx)
			test, _ := st.TestMode(ctx)
			gotKey, _ := st.AuthKey(ctx)
			uid, _ := st.UserID(ctx)
			bot, _ := st.IsBot(ctx)
			assert.Equal(t, 4, dc)
			assert.Equal(t, int32(12345), apiID)
			assert.True(t, test)
			assert.Equal(t, key, gotKey)
			assert.Equal(t, int64(777000), uid)
			assert.True(t, bot)

			st.SetClock(func() time.Time { return time.Unix(1700000000, 0) })
			require.NoError(t, st.Save(ctx))
			date, err := st.Date(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(1700000000), date)
		})
	}
}

func TestPeerDirectory(t *testing.T) {
	ctx := context.Background()
	for name, st := range storages(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, st.Open(ctx))
			defer st.Close()

			now := time.Unix(1700000000, 0)
			st.SetClock(func() time.Time { return now })

			require.NoError(t, st.UpdatePeers(ctx, []session.Peer{
				{ID: 42, AccessHash: 99, Type: session.PeerUser, Username: "Durov", Phone: "+4242"},
				{ID: -1001234, AccessHash: 5, Type: session.PeerSupergroup, Username: "gophers"},
				{ID: -77, Type: session.PeerGroup},
			}))

			p, err := st.GetPeerByID(ctx, 42)
			require.NoError(t, err)
			assert.Equal(t, int64(99), p.AccessHash)
			assert.Equal(t, session.PeerUser, p.Type)

			p, err = st.GetPeerByUsername(ctx, "durov")
			require.NoError(t, err)
			assert.Equal(t, int64(42), p.ID)

			p, err = st.GetPeerByPhone(ctx, "+4242")
			require.NoError(t, err)
			assert.Equal(t, int64(42), p.ID)

			_, err = st.GetPeerByID(ctx, 1)
			assert.ErrorIs(t, err, session.ErrPeerNotFound)

			// usernames go stale, ids do not
			now = now.Add(session.UsernameTTL + time.Minute)
			_, err = st.GetPeerByUsername(ctx, "gophers")
			assert.ErrorIs(t, err, session.ErrUsernameExpired)
			assert.ErrorIs(t, err, session.ErrPeerNotFound)
			_, err = st.GetPeerByID(ctx, -1001234)
			assert.NoError(t, err)

			require.NoError(t, st.UpdatePeers(ctx, []session.Peer{
				{ID: -1001234, AccessHash: 6, Type: session.PeerSupergroup, Username: "gophers"},
			}))
			p, err = st.GetPeerByUsername(ctx, "gophers")
			require.NoError(t, err)
			assert.Equal(t, int64(6), p.AccessHash)

			require.NoError(t, st.Delete(ctx))
		})
	}
}

func TestStringSession(t *testing.T) {
	in := &session.StringSession{DcID: 5, APIID: 611335, TestMode: false, UserID: 1 << 40, IsBot: true}
	for i := range in.AuthKey {
		in.AuthKey[i] = byte(i)
	}

	encoded := in.Encode()
	assert.NotContains(t, encoded, "=")
	assert.NotContains(t, encoded, "+")

	out, err := session.DecodeStringSession(encoded)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	_, err = session.DecodeStringSession(encoded[:40])
	assert.ErrorIs(t, err, session.ErrInvalidSession)
	_, err = session.DecodeStringSession("!!!")
	assert.ErrorIs(t, err, session.ErrInvalidSession)

	ctx := context.Background()
	st := session.NewMemoryStorage(encoded)
	require.NoError(t, st.Open(ctx))
	dc, _ := st.DcID(ctx)
	assert.Equal(t, 5, dc)

	exported, err := session.ExportString(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, encoded, exported)

	sq := session.NewSQLiteStorage(session.MemoryPath, encoded)
	require.NoError(t, sq.Open(ctx))
	defer sq.Close()
	exported, err = session.ExportString(ctx, sq)
	require.NoError(t, err)
	assert.Equal(t, encoded, exported)
}

func TestSQLiteMigration(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "old.session")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	for _, stmt := range []string{
		`CREATE TABLE sessions (dc_id INTEGER PRIMARY KEY, test_mode INTEGER, auth_key BLOB, date INTEGER NOT NULL, user_id INTEGER, is_bot INTEGER)`,
		`CREATE TABLE peers (id INTEGER PRIMARY KEY, access_hash INTEGER, type INTEGER NOT NULL, username TEXT, phone_number TEXT, last_update_on INTEGER NOT NULL DEFAULT 0)`,
		`CREATE TABLE version (number INTEGER PRIMARY KEY)`,
		`INSERT INTO version VALUES (1)`,
		`INSERT INTO sessions VALUES (1, 0, NULL, 0, 10, 0)`,
		`INSERT INTO peers (id, access_hash, type) VALUES (5, 5, 'user')`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
	require.NoError(t, db.Close())

	st := session.NewSQLiteStorage(path, "")
	require.NoError(t, st.Open(ctx))
	defer st.Close()

	v, err := st.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	_, err = st.GetPeerByID(ctx, 5)
	assert.True(t, errors.Is(err, session.ErrPeerNotFound))

	require.NoError(t, st.SetAPIID(ctx, 9))
	apiID, err := st.APIID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(9), apiID)

	dc, err := st.DcID(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, dc)
}

func TestPeerTypes(t *testing.T) {
	for _, tt := range []struct {
		id   int64
		want session.PeerKind
	}{
		{777000, session.KindUser},
		{-12345, session.KindChat},
		{-1001234567890, session.KindChannel},
	} {
		got, err := session.GetPeerType(tt.id)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := session.GetPeerType(0)
	assert.Error(t, err)
	_, err = session.GetPeerType(-1000000000000)
	assert.Error(t, err)

	assert.Equal(t, int64(1234567890), session.GetChannelID(-1001234567890))
	assert.Equal(t, int64(-1001234567890), session.MarkChannelID(1234567890))
}
