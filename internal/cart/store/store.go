package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("cart state not found")

// PersistenceStore is the durable storage contract for serialized cart
// state. Values are opaque strings written atomically as a whole; a missing
// key is ErrNotFound, never an empty value. Implementations must tolerate
// corrupt data by returning it as-is — deserialization failures are the
// caller's concern.
type PersistenceStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
