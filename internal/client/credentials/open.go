package credentials

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/trackinventory/internal/common"
	"github.com/dmitrijs2005/trackinventory/internal/filex"
	"github.com/dmitrijs2005/trackinventory/internal/logging"
)

const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bbolt"
	BackendMemory = "memory"
)

// Open builds the named backend rooted at dir. Durable backends bind to the
// device secret stored in dir/device.key, which is created on first use.
func Open(ctx context.Context, backend, dir string, log logging.Logger) (Backend, error) {
	log = log.With("store", backend)

	if backend == BackendMemory {
		return NewMemoryStore(log), nil
	}
	if backend != BackendSQLite && backend != BackendBolt {
		return nil, fmt.Errorf("unknown credential store backend %q", backend)
	}

	dir, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}

	secret, err := filex.ReadOrCreateSecret(filepath.Join(dir, "device.key"), deviceSecretSize)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(secret)

	switch backend {
	case BackendSQLite:
		return OpenSQLiteStore(ctx, filepath.Join(dir, "credentials.db"), secret, log)
	default:
		return OpenBoltStore(filepath.Join(dir, "credentials.bolt"), secret, log)
	}
}
