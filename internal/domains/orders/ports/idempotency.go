package ports

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrIdempotencyConflict indicates the same key was replayed with a different order payload.
	ErrIdempotencyConflict = errors.New("idempotency key reused with a different order")
	// ErrIdempotencyPending indicates another request holding the key has not produced its order yet.
	ErrIdempotencyPending = errors.New("idempotency key is still being processed")
)

// IdempotencyRecord ties a client-supplied key to the order it produced.
// OrderID stays empty while the key is reserved by an in-flight placement.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	OrderID     string
	CreatedAt   time.Time
}

// Pending reports whether the reserving placement has not completed yet.
func (r IdempotencyRecord) Pending() bool { return r.OrderID == "" }

// IdempotencyStore persists idempotency keys so retried placements return the original order.
type IdempotencyStore interface {
	// Get returns the stored record for the key, or nil when unknown.
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	// Reserve claims an unknown key for a new placement and reports true.
	// A held key returns the stored record and false; a different hash also
	// returns ErrIdempotencyConflict.
	Reserve(ctx context.Context, key, requestHash string) (*IdempotencyRecord, bool, error)
	// Complete attaches the placed order to a reserved key.
	Complete(ctx context.Context, key, orderID string) error
	// Release drops a reservation that never produced an order.
	Release(ctx context.Context, key string) error
}
