package repositories

import "context"

// KeyValueReader defines read operations against the opaque ledger store.
type KeyValueReader interface {
	// Get returns the stored value for key. found is false when nothing is stored.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// ListKeys returns every stored key that starts with prefix, in no particular order.
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}

// KeyValueWriter defines write operations against the opaque ledger store.
type KeyValueWriter interface {
	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// KeyValueStore is the persistence collaborator of the ledger. Values are JSON documents.
type KeyValueStore interface {
	KeyValueReader
	KeyValueWriter
}

// PrefixDeleter is implemented by stores that can remove every key under a
// prefix in one operation.
type PrefixDeleter interface {
	DeletePrefix(ctx context.Context, prefix string) (int64, error)
}
