package storage

import "fmt"

// NewStore selects a persistence backend by name. The empty kind falls back
// to the in-memory store.
func NewStore(kind, sqlitePath string) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return newSQLiteStore(sqlitePath)
	}
	return nil, fmt.Errorf("unknown store backend %q", kind)
}

// CloseIfSupported closes backends that hold external resources; the memory
// store has nothing to release.
func CloseIfSupported(store Store) error {
	if closer, ok := store.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
