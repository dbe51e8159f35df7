package store

import (
	"context"
	"fmt"
)

// Backend persists the raw bytes of the single client record.
type Backend interface {
	// Read returns the stored bytes. found is false when nothing is stored.
	Read(ctx context.Context) (data []byte, found bool, err error)
	// Write replaces the stored bytes.
	Write(ctx context.Context, data []byte) error
	// Delete removes the record. Deleting a missing record is not an error.
	Delete(ctx context.Context) error
	// Path is the file backing the record, used for change notification.
	Path() string
	Close() error
}

// Backend names accepted by OpenBackend.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// OpenBackend opens the named backend at path. driver only applies to sqlite.
func OpenBackend(name, path, driver string) (Backend, error) {
	switch name {
	case BackendSQLite, "":
		return NewSQLiteBackend(path, driver)
	case BackendFile:
		return NewFileBackend(path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", name)
	}
}
