package port

import "context"

// Guard is an optional cross-replica confirmation lease. It narrows, but
// does not close, the window between the durable sale-exists check and the
// sale write when several replicas race on one order; the durable predicate
// remains the deciding check.
type Guard interface {
	// Acquire returns false when another holder has the order leased.
	Acquire(ctx context.Context, orderID string) (bool, error)

	// Release drops this process's lease, if it still holds it.
	Release(ctx context.Context, orderID string) error
}
