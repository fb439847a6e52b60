// Copyright (c) 2024 RoseLoverX

package session

import (
	"fmt"
)

const (
	MinChannelID int64 = -1002147483647
	MaxChannelID int64 = -1000000000000
	MinChatID    int64 = -2147483647
	MaxUserID    int64 = 999999999999
)

// PeerKind is the kind of peer a marked id refers to.
type PeerKind string

const (
	KindUser    PeerKind = "user"
	KindChat    PeerKind = "chat"
	KindChannel PeerKind = "channel"
)

// GetPeerType classifies a marked id.
func GetPeerType(id int64) (PeerKind, error) {
	switch {
	case id < 0 && MinChatID <= id:
		return KindChat, nil
	case MinChannelID <= id && id < MaxChannelID:
		return KindChannel, nil
	case 0 < id && id <= MaxUserID:
		return KindUser, nil
	}
	return "", fmt.Errorf("peer id invalid: %d", id)
}

// GetChannelID turns a marked channel id into the bare one.
func GetChannelID(id int64) int64 {
	return MaxChannelID - id
}

// MarkChannelID turns a bare channel id into the marked one.
func MarkChannelID(id int64) int64 {
	return MaxChannelID - id
}

// usernameFresh reports whether a username entry updated at updated may
// still be served at now.
func usernameFresh(updated, now int64) bool {
	d := now - updated
	if d < 0 {
		d = -d
	}
	return d <= int64(UsernameTTL.Seconds())
}
