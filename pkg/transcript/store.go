package transcript

import "context"

// Store persists transcript entries. Put is idempotent by hash, which gives
// deduplication for free: a replayed conversation prefix maps onto the
// entries already stored.
type Store interface {
	// Put stores an entry. Storing an existing hash is a no-op.
	Put(ctx context.Context, entry *Entry) error

	// Get retrieves an entry by hash. Returns ErrNotFound when absent.
	Get(ctx context.Context, hash string) (*Entry, error)

	// Has reports whether an entry exists.
	Has(ctx context.Context, hash string) (bool, error)

	// List returns every stored entry.
	List(ctx context.Context) ([]*Entry, error)

	// Roots returns entries with no parent (conversation starts).
	Roots(ctx context.Context) ([]*Entry, error)

	// Leaves returns entries with no children (conversation heads).
	Leaves(ctx context.Context) ([]*Entry, error)

	// Ancestry returns the chain from hash back to its root, entry first.
	Ancestry(ctx context.Context, hash string) ([]*Entry, error)

	// Close releases any resources held by the store.
	Close() error
}

// ErrNotFound is returned when an entry doesn't exist in the store.
type ErrNotFound struct {
	Hash string
}

func (e ErrNotFound) Error() string {
	if e.Hash == "" {
		return "entry not found"
	}
	return "entry not found: " + e.Hash
}
