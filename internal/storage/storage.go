package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned by Open when no object has the given name.
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore holds uploaded resource files addressed by flat names such as "<id>.mp3".
type ObjectStore interface {
	// Save writes r under name, replacing any object with the same name.
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	// FindByPrefix returns the first object name starting with prefix, or "" if none exists.
	FindByPrefix(ctx context.Context, prefix string) (string, error)
	// Open returns a reader over the named object.
	Open(ctx context.Context, name string) (io.ReadSeekCloser, error)
}
