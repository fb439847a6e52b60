// Copyright (c) 2025 @AmarnathCJD

package session

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStorage keeps everything in process memory.
type MemoryStorage struct {
	mu sync.RWMutex

	dcID     int
	apiID    int32
	testMode bool
	authKey  []byte
	date     int64
	userID   int64
	isBot    bool

	peers map[int64]Peer

	sessionString string
	now           func() time.Time
}

var _ Storage = (*MemoryStorage)(nil)

// NewMemoryStorage returns a store seeded from sessionString when it is
// not empty.
func NewMemoryStorage(sessionString string) *MemoryStorage {
	return &MemoryStorage{
		dcID:          DefaultDC,
		peers:         make(map[int64]Peer),
		sessionString: sessionString,
		now:           time.Now,
	}
}

// SetClock replaces the clock used for username freshness.
func (m *MemoryStorage) SetClock(now func() time.Time) {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
}

func (m *MemoryStorage) Open(ctx context.Context) error {
	if m.sessionString == "" {
		return nil
	}
	return ImportString(ctx, m, m.sessionString)
}

func (m *MemoryStorage) Save(context.Context) error {
	m.mu.Lock()
	m.date = m.now().Unix()
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) Close() error { return nil }

func (m *MemoryStorage) Delete(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dcID, m.apiID, m.testMode, m.authKey = DefaultDC, 0, false, nil
	m.date, m.userID, m.isBot = 0, 0, false
	m.peers = make(map[int64]Peer)
	return nil
}

func (m *MemoryStorage) DcID(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dcID, nil
}

func (m *MemoryStorage) SetDcID(_ context.Context, dc int) error {
	m.mu.Lock()
	m.dcID = dc
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) APIID(context.Context) (int32, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.apiID, nil
}

func (m *MemoryStorage) SetAPIID(_ context.Context, id int32) error {
	m.mu.Lock()
	m.apiID = id
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) TestMode(context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.testMode, nil
}

func (m *MemoryStorage) SetTestMode(_ context.Context, v bool) error {
	m.mu.Lock()
	m.testMode = v
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) AuthKey(context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]byte(nil), m.authKey...), nil
}

func (m *MemoryStorage) SetAuthKey(_ context.Context, key []byte) error {
	m.mu.Lock()
	m.authKey = append([]byte(nil), key...)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) Date(context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.date, nil
}

func (m *MemoryStorage) SetDate(_ context.Context, unix int64) error {
	m.mu.Lock()
	m.date = unix
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) UserID(context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.userID, nil
}

func (m *MemoryStorage) SetUserID(_ context.Context, id int64) error {
	m.mu.Lock()
	m.userID = id
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) IsBot(context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.isBot, nil
}

func (m *MemoryStorage) SetIsBot(_ context.Context, v bool) error {
	m.mu.Lock()
	m.isBot = v
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) UpdatePeers(_ context.Context, peers []Peer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for _, p := range peers {
		p.UpdatedAt = now
		m.peers[p.ID] = p
	}
	return nil
}

func (m *MemoryStorage) GetPeerByID(_ context.Context, id int64) (*Peer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.peers[id]
	if !ok {
		return nil, ErrPeerNotFound
	}
	return &p, nil
}

func (m *MemoryStorage) GetPeerByUsername(_ context.Context, username string) (*Peer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	username = strings.ToLower(username)
	var found *Peer
	for _, p := range m.peers {
		if p.Username != username {
			continue
		}
		if found == nil || p.UpdatedAt.After(found.UpdatedAt) {
			p := p
			found = &p
		}
	}
	if found == nil {
		return nil, ErrPeerNotFound
	}
	if !usernameFresh(found.UpdatedAt.Unix(), m.now().Unix()) {
		return nil, ErrUsernameExpired
	}
	return found, nil
}

func (m *MemoryStorage) GetPeerByPhone(_ context.Context, phone string) (*Peer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.peers {
		if p.Phone != "" && p.Phone == phone {
			p := p
			return &p, nil
		}
	}
	return nil, ErrPeerNotFound
}
