// Copyright (c) 2024 RoseLoverX

package session

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// Storage keeps the auth material of one account and a directory of the
// peers it has seen. Implementations must be safe for concurrent use.
type Storage interface {
	Open(ctx context.Context) error
	// Save stamps the session date and flushes pending writes.
	Save(ctx context.Context) error
	Close() error
	// Delete wipes the storage, used on logout.
	Delete(ctx context.Context) error

	DcID(ctx context.Context) (int, error)
	SetDcID(ctx context.Context, dc int) error
	APIID(ctx context.Context) (int32, error)
	SetAPIID(ctx context.Context, id int32) error
	TestMode(ctx context.Context) (bool, error)
	SetTestMode(ctx context.Context, v bool) error
	AuthKey(ctx context.Context) ([]byte, error)
	SetAuthKey(ctx context.Context, key []byte) error
	Date(ctx context.Context) (int64, error)
	SetDate(ctx context.Context, unix int64) error
	UserID(ctx context.Context) (int64, error)
	SetUserID(ctx context.Context, id int64) error
	IsBot(ctx context.Context) (bool, error)
	SetIsBot(ctx context.Context, v bool) error

	UpdatePeers(ctx context.Context, peers []Peer) error
	GetPeerByID(ctx context.Context, id int64) (*Peer, error)
	// GetPeerByUsername fails with ErrUsernameExpired when the entry is
	// older than UsernameTTL.
	GetPeerByUsername(ctx context.Context, username string) (*Peer, error)
	GetPeerByPhone(ctx context.Context, phone string) (*Peer, error)
}

type PeerType string

const (
	PeerUser       PeerType = "user"
	PeerBot        PeerType = "bot"
	PeerGroup      PeerType = "group"
	PeerChannel    PeerType = "channel"
	PeerSupergroup PeerType = "supergroup"
)

func (t PeerType) Valid() bool {
	switch t {
	case PeerUser, PeerBot, PeerGroup, PeerChannel, PeerSupergroup:
		return true
	}
	return false
}

// Peer is one entry of the peer directory. ID is the marked id: negative
// for groups, -100... for channels.
type Peer struct {
	ID         int64
	AccessHash int64
	Type       PeerType
	Username   string
	Phone      string
	UpdatedAt  time.Time
}

// UsernameTTL is how long a cached username resolves.
const UsernameTTL = 8 * time.Hour

// DefaultDC is the datacenter of a fresh storage.
const DefaultDC = 2

var (
	ErrPeerNotFound = errors.New("peer not found")
	// ErrUsernameExpired also matches ErrPeerNotFound.
	ErrUsernameExpired = errors.Wrap(ErrPeerNotFound, "username expired")
	ErrInvalidSession  = errors.New("the session string is invalid/has been tampered with")
	ErrNotOpen         = errors.New("storage is not open")
)
