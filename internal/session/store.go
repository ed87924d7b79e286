package session

import "context"

// Store keeps per-browser studio state between requests. Entries live
// only for the process lifetime; selections are never persisted.
type Store[T any] interface {
	Get(ctx context.Context, id string) (T, bool, error)
	Put(ctx context.Context, id string, v T) error
	Delete(ctx context.Context, id string) error
	NewID() string
}
