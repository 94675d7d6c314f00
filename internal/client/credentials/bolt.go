package credentials

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/trackinventory/internal/common"
	"github.com/dmitrijs2005/trackinventory/internal/cryptox"
	"github.com/dmitrijs2005/trackinventory/internal/logging"
	"go.etcd.io/bbolt"
)

var (
	credentialsBucket = []byte("credentials")
	metaBucket        = []byte("meta")
)

// Records are stored as nonce || ciphertext.
const gcmNonceSize = 12

// BoltStore keeps sealed credentials in a bbolt file.
type BoltStore struct {
	db     *bbolt.DB
	sealer *sealer
	log    logging.Logger
}

var _ Backend = (*BoltStore)(nil)

// OpenBoltStore opens (creating if needed) the bbolt file at path.
func OpenBoltStore(path string, secret []byte, log logging.Logger) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db: %w", err)
	}

	var salt []byte
	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(credentialsBucket); err != nil {
			return err
		}
		meta, err := tx.CreateBucketIfNotExists(metaBucket)
		if err != nil {
			return err
		}
		if v := meta.Get([]byte(saltMetaKey)); v != nil {
			salt = append([]byte(nil), v...)
			return nil
		}
		salt = common.GenerateRandByteArray(cryptox.SaltSize)
		return meta.Put([]byte(saltMetaKey), salt)
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialising bbolt db: %w", err)
	}

	return &BoltStore{db: db, sealer: newSealer(secret, salt), log: log}, nil
}

func (s *BoltStore) Set(ctx context.Context, key, value string) error {
	ct, nonce, err := s.sealer.seal(value)
	if err != nil {
		return storageError("seal", key, err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(credentialsBucket).Put([]byte(key), append(nonce, ct...))
	})
	if err != nil {
		return storageError("set", key, err)
	}
	return nil
}

func (s *BoltStore) Get(ctx context.Context, key string) (string, bool) {
	var raw []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(credentialsBucket).Get([]byte(key)); v != nil {
			// v is only valid inside the transaction
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		s.log.Warn(ctx, "credential read failed", "key", key, "error", err)
		return "", false
	}
	if raw == nil {
		return "", false
	}
	if len(raw) < gcmNonceSize {
		s.log.Warn(ctx, "credential record truncated", "key", key)
		return "", false
	}

	v, err := s.sealer.open(raw[gcmNonceSize:], raw[:gcmNonceSize])
	if err != nil {
		s.log.Warn(ctx, "credential unseal failed", "key", key, "error", err)
		return "", false
	}
	return v, true
}

func (s *BoltStore) Delete(ctx context.Context, key string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(credentialsBucket).Delete([]byte(key))
	})
	if err != nil {
		return storageError("delete", key, err)
	}
	return nil
}

func (s *BoltStore) Close() error {
	s.sealer.wipe()
	return s.db.Close()
}
