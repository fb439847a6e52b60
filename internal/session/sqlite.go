// Copyright (c) 2025 @AmarnathCJD

package session

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	_ "modernc.org/sqlite" // SQLite driver registration
)

const (
	schemaVersion = 3
	// MemoryPath keeps the database in memory.
	MemoryPath = ":memory:"
)

var schemaStatements = []string{
	`CREATE TABLE sessions (
		dc_id     INTEGER PRIMARY KEY,
		api_id    INTEGER,
		test_mode INTEGER,
		auth_key  BLOB,
		date      INTEGER NOT NULL,
		user_id   INTEGER,
		is_bot    INTEGER
	)`,

	`CREATE TABLE peers (
		id             INTEGER PRIMARY KEY,
		access_hash    INTEGER,
		type           INTEGER NOT NULL,
		username       TEXT,
		phone_number   TEXT,
		last_update_on INTEGER NOT NULL DEFAULT (CAST(STRFTIME('%s', 'now') AS INTEGER))
	)`,

	`CREATE TABLE version (
		number INTEGER PRIMARY KEY
	)`,

	`CREATE INDEX idx_peers_id ON peers (id)`,
	`CREATE INDEX idx_peers_username ON peers (username)`,
	`CREATE INDEX idx_peers_phone_number ON peers (phone_number)`,

	`CREATE TRIGGER trg_peers_last_update_on AFTER UPDATE ON peers BEGIN
		UPDATE peers SET last_update_on = CAST(STRFTIME('%s', 'now') AS INTEGER) WHERE id = NEW.id;
	END`,
}

// SQLiteStorage persists the session in one SQLite file.
type SQLiteStorage struct {
	path          string
	sessionString string

	mu  sync.RWMutex
	db  *sql.DB
	now func() time.Time
}

var _ Storage = (*SQLiteStorage)(nil)

// NewSQLiteStorage returns a store at path, MemoryPath for an in memory one.
// A non empty sessionString is imported on Open.
func NewSQLiteStorage(path, sessionString string) *SQLiteStorage {
	return &SQLiteStorage{path: path, sessionString: sessionString, now: time.Now}
}

// SetClock replaces the clock used for peer timestamps and username freshness.
func (s *SQLiteStorage) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

func (s *SQLiteStorage) Path() string {
	return s.path
}

// Open creates the schema for a new file or migrates an existing one.
func (s *SQLiteStorage) Open(ctx context.Context) error {
	exists := false
	if s.path != MemoryPath {
		if dir := filepath.Dir(s.path); dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return fmt.Errorf("sqlite: create directory %s: %w", dir, err)
			}
		}
		if info, err := os.Stat(s.path); err == nil && !info.IsDir() && info.Size() > 0 {
			exists = true
		}
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("sqlite: open %s: %w", s.path, err)
	}
	// one connection: writes are serialised and a memory database stays alive
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return fmt.Errorf("sqlite: enable WAL: %w", err)
	}

	if exists {
		err = migrate(ctx, db)
		if err == nil {
			_, err = db.ExecContext(ctx, "VACUUM")
		}
	} else {
		err = create(ctx, db)
	}
	if err != nil {
		_ = db.Close()
		return err
	}

	s.mu.Lock()
	s.db = db
	s.mu.Unlock()

	if s.sessionString != "" {
		return ImportString(ctx, s, s.sessionString)
	}
	return nil
}

func create(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: create schema: %w\nstatement: %s", err, stmt)
		}
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO version VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("sqlite: record schema version: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO sessions VALUES (?, ?, ?, ?, ?, ?, ?)",
		DefaultDC, nil, nil, nil, 0, nil, nil,
	); err != nil {
		return fmt.Errorf("sqlite: seed session: %w", err)
	}
	return tx.Commit()
}

// migrate brings a file written by an older version up to schemaVersion:
// version 1 peers are dropped, version 2 gains the api_id column.
func migrate(ctx context.Context, db *sql.DB) error {
	var version int
	if err := db.QueryRowContext(ctx, "SELECT number FROM version").Scan(&version); err != nil {
		return fmt.Errorf("sqlite: read schema version: %w", err)
	}

	if version == 1 {
		if _, err := db.ExecContext(ctx, "DELETE FROM peers"); err != nil {
			return fmt.Errorf("sqlite: migrate to 2: %w", err)
		}
		version++
	}

	if version == 2 {
		if _, err := db.ExecContext(ctx, "ALTER TABLE sessions ADD api_id INTEGER"); err != nil {
			return fmt.Errorf("sqlite: migrate to 3: %w", err)
		}
		version++
	}

	if _, err := db.ExecContext(ctx, "UPDATE version SET number = ?", version); err != nil {
		return fmt.Errorf("sqlite: record schema version: %w", err)
	}
	return nil
}

// Version returns the schema version of the open database.
func (s *SQLiteStorage) Version(ctx context.Context) (int, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	var v int
	err = db.QueryRowContext(ctx, "SELECT number FROM version").Scan(&v)
	return v, err
}

func (s *SQLiteStorage) conn() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, ErrNotOpen
	}
	return s.db, nil
}

func (s *SQLiteStorage) clock() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now()
}

func (s *SQLiteStorage) Save(ctx context.Context) error {
	return s.SetDate(ctx, s.clock().Unix())
}

func (s *SQLiteStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStorage) Delete(ctx context.Context) error {
	if s.path == MemoryPath {
		db, err := s.conn()
		if err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx, "DELETE FROM peers"); err != nil {
			return fmt.Errorf("sqlite: delete peers: %w", err)
		}
		_, err = db.ExecContext(ctx,
			"UPDATE sessions SET dc_id = ?, api_id = NULL, test_mode = NULL, auth_key = NULL, date = 0, user_id = NULL, is_bot = NULL",
			DefaultDC)
		return err
	}

	if err := s.Close(); err != nil {
		return err
	}
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(s.path + suffix); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(err, "removing session file")
		}
	}
	return nil
}

// sessions columns are addressed by name, the set is closed
func (s *SQLiteStorage) get(ctx context.Context, column string, dst any) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	err = db.QueryRowContext(ctx, "SELECT "+column+" FROM sessions").Scan(dst)
	if err != nil {
		return fmt.Errorf("sqlite: read %s: %w", column, err)
	}
	return nil
}

func (s *SQLiteStorage) set(ctx context.Context, column string, value any) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "UPDATE sessions SET "+column+" = ?", value); err != nil {
		return fmt.Errorf("sqlite: write %s: %w", column, err)
	}
	return nil
}

func (s *SQLiteStorage) DcID(ctx context.Context) (int, error) {
	var v sql.NullInt64
	err := s.get(ctx, "dc_id", &v)
	return int(v.Int64), err
}

func (s *SQLiteStorage) SetDcID(ctx context.Context, dc int) error {
	return s.set(ctx, "dc_id", dc)
}

func (s *SQLiteStorage) APIID(ctx context.Context) (int32, error) {
	var v sql.NullInt64
	err := s.get(ctx, "api_id", &v)
	return int32(v.Int64), err
}

func (s *SQLiteStorage) SetAPIID(ctx context.Context, id int32) error {
	return s.set(ctx, "api_id", id)
}

func (s *SQLiteStorage) TestMode(ctx context.Context) (bool, error) {
	var v sql.NullBool
	err := s.get(ctx, "test_mode", &v)
	return v.Bool, err
}

func (s *SQLiteStorage) SetTestMode(ctx context.Context, v bool) error {
	return s.set(ctx, "test_mode", v)
}

func (s *SQLiteStorage) AuthKey(ctx context.Context) ([]byte, error) {
	var v []byte
	err := s.get(ctx, "auth_key", &v)
	return v, err
}

func (s *SQLiteStorage) SetAuthKey(ctx context.Context, key []byte) error {
	return s.set(ctx, "auth_key", key)
}

func (s *SQLiteStorage) Date(ctx context.Context) (int64, error) {
	var v sql.NullInt64
	err := s.get(ctx, "date", &v)
	return v.Int64, err
}

func (s *SQLiteStorage) SetDate(ctx context.Context, unix int64) error {
	return s.set(ctx, "date", unix)
}

func (s *SQLiteStorage) UserID(ctx context.Context) (int64, error) {
	var v sql.NullInt64
	err := s.get(ctx, "user_id", &v)
	return v.Int64, err
}

func (s *SQLiteStorage) SetUserID(ctx context.Context, id int64) error {
	return s.set(ctx, "user_id", id)
}

func (s *SQLiteStorage) IsBot(ctx context.Context) (bool, error) {
	var v sql.NullBool
	err := s.get(ctx, "is_bot", &v)
	return v.Bool, err
}

func (s *SQLiteStorage) SetIsBot(ctx context.Context, v bool) error {
	return s.set(ctx, "is_bot", v)
}

func (s *SQLiteStorage) UpdatePeers(ctx context.Context, peers []Peer) error {
	if len(peers) == 0 {
		return nil
	}
	db, err := s.conn()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		"REPLACE INTO peers (id, access_hash, type, username, phone_number, last_update_on) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("sqlite: prepare update peers: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := s.clock().Unix()
	for _, p := range peers {
		if _, err := stmt.ExecContext(ctx, p.ID, p.AccessHash, string(p.Type),
			nullString(strings.ToLower(p.Username)), nullString(p.Phone), now); err != nil {
			return fmt.Errorf("sqlite: update peer %d: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

const peerColumns = "id, access_hash, type, username, phone_number, last_update_on"

func (s *SQLiteStorage) queryPeer(ctx context.Context, where string, arg any) (*Peer, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	var (
		p               Peer
		accessHash      sql.NullInt64
		typ             string
		username, phone sql.NullString
		updated         int64
	)
	err = db.QueryRowContext(ctx,
		"SELECT "+peerColumns+" FROM peers WHERE "+where+" ORDER BY last_update_on DESC LIMIT 1", arg,
	).Scan(&p.ID, &accessHash, &typ, &username, &phone, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPeerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get peer: %w", err)
	}

	p.AccessHash = accessHash.Int64
	p.Type = PeerType(typ)
	p.Username = username.String
	p.Phone = phone.String
	p.UpdatedAt = time.Unix(updated, 0)
	return &p, nil
}

func (s *SQLiteStorage) GetPeerByID(ctx context.Context, id int64) (*Peer, error) {
	return s.queryPeer(ctx, "id = ?", id)
}

func (s *SQLiteStorage) GetPeerByUsername(ctx context.Context, username string) (*Peer, error) {
	p, err := s.queryPeer(ctx, "username = ?", strings.ToLower(username))
	if err != nil {
		return nil, err
	}
	if !usernameFresh(p.UpdatedAt.Unix(), s.clock().Unix()) {
		return nil, ErrUsernameExpired
	}
	return p, nil
}

func (s *SQLiteStorage) GetPeerByPhone(ctx context.Context, phone string) (*Peer, error) {
	return s.queryPeer(ctx, "phone_number = ?", phone)
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
