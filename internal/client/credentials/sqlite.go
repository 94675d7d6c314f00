package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/trackinventory/internal/client/migrations"
	"github.com/dmitrijs2005/trackinventory/internal/common"
	"github.com/dmitrijs2005/trackinventory/internal/cryptox"
	"github.com/dmitrijs2005/trackinventory/internal/dbx"
	"github.com/dmitrijs2005/trackinventory/internal/logging"
	"github.com/pressly/goose/v3"
)

const saltMetaKey = "salt"

// goose keeps its configuration in package globals.
var gooseMu sync.Mutex

// RunMigrations applies the embedded schema to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// SQLiteStore keeps sealed credentials in a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	sealer *sealer
	log    logging.Logger
}

var _ Backend = (*SQLiteStore)(nil)

// OpenSQLiteStore opens the database file at path, migrates it and binds it
// to secret.
func OpenSQLiteStore(ctx context.Context, path string, secret []byte, log logging.Logger) (*SQLiteStore, error) {
	db, err := dbx.OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	s, err := NewSQLiteStore(ctx, db, secret, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLiteStore migrates db and loads (or creates) the store salt.
func NewSQLiteStore(ctx context.Context, db *sql.DB, secret []byte, log logging.Logger) (*SQLiteStore, error) {
	if err := RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to migrate credential store: %w", err)
	}

	var salt []byte
	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		salt, err = loadOrCreateSalt(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db, sealer: newSealer(secret, salt), log: log}, nil
}

func loadOrCreateSalt(ctx context.Context, tx dbx.DBTX) ([]byte, error) {
	var salt []byte
	err := tx.QueryRowContext(ctx, `SELECT value FROM store_meta WHERE key = ?`, saltMetaKey).Scan(&salt)
	if err == nil {
		return salt, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get store_meta[%s]: %w", saltMetaKey, err)
	}

	salt = common.GenerateRandByteArray(cryptox.SaltSize)
	if _, err := tx.ExecContext(ctx, `INSERT INTO store_meta (key, value) VALUES (?, ?)`, saltMetaKey, salt); err != nil {
		return nil, fmt.Errorf("failed to set store_meta[%s]: %w", saltMetaKey, err)
	}
	return salt, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	ct, nonce, err := s.sealer.seal(value)
	if err != nil {
		return storageError("seal", key, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO credentials (key, value, nonce, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, nonce = excluded.nonce, updated_at = excluded.updated_at
	`, key, ct, nonce)
	if err != nil {
		return storageError("set", key, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool) {
	var ct, nonce []byte
	err := s.db.QueryRowContext(ctx, `SELECT value, nonce FROM credentials WHERE key = ?`, key).Scan(&ct, &nonce)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	if err != nil {
		s.log.Warn(ctx, "credential read failed", "key", key, "error", err)
		return "", false
	}

	v, err := s.sealer.open(ct, nonce)
	if err != nil {
		s.log.Warn(ctx, "credential unseal failed", "key", key, "error", err)
		return "", false
	}
	return v, true
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE key = ?`, key); err != nil {
		return storageError("delete", key, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	s.sealer.wipe()
	return s.db.Close()
}
