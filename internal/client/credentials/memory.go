package credentials

import (
	"context"
	"sync"

	"github.com/awnumar/memguard"
	"github.com/dmitrijs2005/trackinventory/internal/logging"
)

// MemoryStore holds credentials in memguard enclaves. Nothing survives the
// process.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]*memguard.Enclave
	log    logging.Logger
}

var _ Backend = (*MemoryStore)(nil)

func NewMemoryStore(log logging.Logger) *MemoryStore {
	return &MemoryStore{values: make(map[string]*memguard.Enclave), log: log}
}

func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	var e *memguard.Enclave
	// enclaves cannot be empty; a nil entry stands for ""
	if value != "" {
		// NewEnclave wipes its argument
		e = memguard.NewEnclave([]byte(value))
	}

	s.mu.Lock()
	s.values[key] = e
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool) {
	s.mu.RLock()
	e, ok := s.values[key]
	s.mu.RUnlock()
	if !ok {
		return "", false
	}
	if e == nil {
		return "", true
	}

	buf, err := e.Open()
	if err != nil {
		s.log.Warn(ctx, "credential enclave open failed", "key", key, "error", err)
		return "", false
	}
	defer buf.Destroy()

	return string(buf.Bytes()), true
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	clear(s.values)
	s.mu.Unlock()
	return nil
}
