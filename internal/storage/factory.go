package storage

import "fmt"

const (
	KindMemory = "memory"
	KindFile   = "file"
	KindSQLite = "sqlite"
)

func DefaultStoreKind() string {
	return KindFile
}

// NewStore builds a backend. path is the snapshot directory for the file
// store and the database file for sqlite; memory ignores it.
func NewStore(kind, path string) (Store, error) {
	switch kind {
	case "", KindFile:
		return NewFileStore(path), nil
	case KindMemory:
		return NewMemoryStore(), nil
	case KindSQLite:
		return NewSQLiteStore(path), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}

func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
