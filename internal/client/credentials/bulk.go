package credentials

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/trackinventory/internal/logging"
)

// SetAll writes every entry of values in parallel. A failing key does not
// stop the others; failures are logged and the failed keys returned sorted.
func SetAll(ctx context.Context, s Store, values map[string]string, log logging.Logger) []string {
	return parallel(ctx, keysOf(values), log, "credential write failed", func(key string) error {
		return s.Set(ctx, key, values[key])
	})
}

// DeleteAll removes every key in parallel with the same best-effort
// semantics as SetAll.
func DeleteAll(ctx context.Context, s Store, keys []string, log logging.Logger) []string {
	return parallel(ctx, keys, log, "credential delete failed", func(key string) error {
		return s.Delete(ctx, key)
	})
}

func parallel(ctx context.Context, keys []string, log logging.Logger, msg string, fn func(key string) error) []string {
	var (
		mu     sync.Mutex
		failed []string
		wg     sync.WaitGroup
	)

	for _, key := range keys {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			if err := fn(key); err != nil {
				log.Warn(ctx, msg, "key", key, "error", err)
				mu.Lock()
				failed = append(failed, key)
				mu.Unlock()
			}
		}(key)
	}
	wg.Wait()

	sort.Strings(failed)
	return failed
}

func keysOf(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
