package credentials

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/trackinventory/internal/common"
)

// Store is the contract every credential backend implements.
type Store interface {
	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Get returns the value under key. Read failures are logged by the
	// backend and reported as absent.
	Get(ctx context.Context, key string) (string, bool)
	// Delete removes key. Deleting an absent key succeeds.
	Delete(ctx context.Context, key string) error
}

// Backend is a Store that owns an underlying resource.
type Backend interface {
	Store
	Close() error
}

// SessionKeys is the set of keys erased on logout. The service type is a
// device onboarding choice and survives logout.
var SessionKeys = []string{
	common.KeyAccessToken,
	common.KeyUserToken,
	common.KeyUserID,
	common.KeyFirstLogin,
	common.KeyUserDetails,
	common.KeyBusinessDetails,
}

func storageError(op, key string, err error) error {
	return fmt.Errorf("failed to %s credential[%s]: %w: %w", op, key, common.ErrStorage, err)
}
