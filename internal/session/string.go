// Copyright (c) 2024 RoseLoverX

package session

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"strings"

	"github.com/pkg/errors"
)

// StringSession is the portable form of a session: dc id (u8), api id
// (u32), test mode, a 256 byte auth key, user id (u64) and the bot flag,
// big endian, base64url without padding.
type StringSession struct {
	DcID     uint8
	APIID    uint32
	TestMode bool
	AuthKey  [256]byte
	UserID   uint64
	IsBot    bool
}

const stringSessionLen = 1 + 4 + 1 + 256 + 8 + 1

func (s *StringSession) Encode() string {
	buf := make([]byte, stringSessionLen)
	buf[0] = s.DcID
	binary.BigEndian.PutUint32(buf[1:5], s.APIID)
	buf[5] = boolByte(s.TestMode)
	copy(buf[6:262], s.AuthKey[:])
	binary.BigEndian.PutUint64(buf[262:270], s.UserID)
	buf[270] = boolByte(s.IsBot)
	return base64.RawURLEncoding.EncodeToString(buf)
}

// DecodeStringSession parses a session string. Trailing padding is accepted.
func DecodeStringSession(encoded string) (*StringSession, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(strings.TrimSpace(encoded), "="))
	if err != nil {
		return nil, errors.Wrap(ErrInvalidSession, err.Error())
	}
	if len(raw) != stringSessionLen {
		return nil, errors.Wrapf(ErrInvalidSession, "want %d bytes, got %d", stringSessionLen, len(raw))
	}

	s := &StringSession{
		DcID:     raw[0],
		APIID:    binary.BigEndian.Uint32(raw[1:5]),
		TestMode: raw[5] != 0,
		UserID:   binary.BigEndian.Uint64(raw[262:270]),
		IsBot:    raw[270] != 0,
	}
	copy(s.AuthKey[:], raw[6:262])
	return s, nil
}

// ExportString reads the session fields of st into a session string.
func ExportString(ctx context.Context, st Storage) (string, error) {
	var (
		s   StringSession
		err error
	)
	dc, err := st.DcID(ctx)
	if err != nil {
		return "", err
	}
	apiID, err := st.APIID(ctx)
	if err != nil {
		return "", err
	}
	if s.TestMode, err = st.TestMode(ctx); err != nil {
		return "", err
	}
	key, err := st.AuthKey(ctx)
	if err != nil {
		return "", err
	}
	if len(key) != len(s.AuthKey) {
		return "", errors.Errorf("auth key is %d bytes, nothing to export", len(key))
	}
	userID, err := st.UserID(ctx)
	if err != nil {
		return "", err
	}
	if s.IsBot, err = st.IsBot(ctx); err != nil {
		return "", err
	}

	s.DcID = uint8(dc)
	s.APIID = uint32(apiID)
	copy(s.AuthKey[:], key)
	s.UserID = uint64(userID)
	return s.Encode(), nil
}

// ImportString writes the fields of a session string into st and resets
// its date.
func ImportString(ctx context.Context, st Storage, encoded string) error {
	s, err := DecodeStringSession(encoded)
	if err != nil {
		return err
	}

	for _, set := range []func() error{
		func() error { return st.SetDcID(ctx, int(s.DcID)) },
		func() error { return st.SetAPIID(ctx, int32(s.APIID)) },
		func() error { return st.SetTestMode(ctx, s.TestMode) },
		func() error { return st.SetAuthKey(ctx, s.AuthKey[:]) },
		func() error { return st.SetUserID(ctx, int64(s.UserID)) },
		func() error { return st.SetIsBot(ctx, s.IsBot) },
		func() error { return st.SetDate(ctx, 0) },
	} {
		if err := set(); err != nil {
			return errors.Wrap(err, "importing session string")
		}
	}
	return nil
}

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}
