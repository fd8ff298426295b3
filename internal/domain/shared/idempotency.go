package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers operation keys so that retried requests do not
// apply the same side effect twice. Implementations must be safe for
// concurrent use.
type IdempotencyStore interface {
	// MarkProcessed records the key if it has not been seen within the TTL.
	// It returns true when the key was newly recorded (the operation should
	// proceed) and false when the key was already present (the operation is
	// a duplicate).
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Forget removes a key, allowing the operation to be applied again.
	// Used to roll back the mark when the guarded operation fails.
	Forget(ctx context.Context, key string) error
}
