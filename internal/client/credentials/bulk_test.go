package credentials

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dmitrijs2005/trackinventory/internal/common"
	"github.com/dmitrijs2005/trackinventory/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStore wraps a Store and fails Set/Delete for selected keys.
type failingStore struct {
	Store
	mu      sync.Mutex
	fail    map[string]bool
	deletes []string
}

func (f *failingStore) Set(ctx context.Context, key, value string) error {
	if f.fail[key] {
		return storageError("set", key, errors.New("keychain locked"))
	}
	return f.Store.Set(ctx, key, value)
}

func (f *failingStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	f.deletes = append(f.deletes, key)
	f.mu.Unlock()
	if f.fail[key] {
		return storageError("delete", key, errors.New("keychain locked"))
	}
	return f.Store.Delete(ctx, key)
}

func TestDeleteAll_OneFailingKeyDoesNotBlockOthers(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore(logging.Nop())
	keys := []string{common.KeyAccessToken, common.KeyUserToken, common.KeyUserID, common.KeyFirstLogin}
	for _, k := range keys {
		require.NoError(t, mem.Set(ctx, k, "v-"+k))
	}

	fs := &failingStore{Store: mem, fail: map[string]bool{common.KeyUserToken: true}}
	var buf bytes.Buffer

	failed := DeleteAll(ctx, fs, keys, logging.New("warn", &buf))

	assert.Equal(t, []string{common.KeyUserToken}, failed)
	assert.ElementsMatch(t, keys, fs.deletes, "every key must be attempted")
	for _, k := range []string{common.KeyAccessToken, common.KeyUserID, common.KeyFirstLogin} {
		_, ok := mem.Get(ctx, k)
		assert.False(t, ok, "%s must be deleted", k)
	}
	_, ok := mem.Get(ctx, common.KeyUserToken)
	assert.True(t, ok, "failing key stays behind")
	assert.Contains(t, buf.String(), "credential delete failed")
	assert.Contains(t, buf.String(), "key="+common.KeyUserToken)
}

func TestSetAll_WritesEveryKeyAndReportsFailures(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore(logging.Nop())
	fs := &failingStore{Store: mem, fail: map[string]bool{common.KeyFirstLogin: true}}

	failed := SetAll(ctx, fs, map[string]string{
		common.KeyAccessToken: "a",
		common.KeyUserToken:   "u",
		common.KeyUserID:      "1",
		common.KeyFirstLogin:  "True",
	}, logging.Nop())

	assert.Equal(t, []string{common.KeyFirstLogin}, failed)
	for k, want := range map[string]string{common.KeyAccessToken: "a", common.KeyUserToken: "u", common.KeyUserID: "1"} {
		got, ok := mem.Get(ctx, k)
		require.True(t, ok, k)
		assert.Equal(t, want, got)
	}
}

func TestDeleteAll_NoKeys(t *testing.T) {
	assert.Empty(t, DeleteAll(context.Background(), NewMemoryStore(logging.Nop()), nil, logging.Nop()))
}

func TestSessionKeys_CoverLoginAndOnboardingKeys(t *testing.T) {
	assert.ElementsMatch(t, []string{
		common.KeyAccessToken, common.KeyUserToken, common.KeyUserID, common.KeyFirstLogin,
		common.KeyUserDetails, common.KeyBusinessDetails,
	}, SessionKeys)
	assert.NotContains(t, SessionKeys, common.KeyServiceName)
}
