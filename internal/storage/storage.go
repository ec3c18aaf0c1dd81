// Package storage holds raw file bytes, keyed by storage object ID.
package storage

import (
	"context"
	"errors"
	"io"
)

var ErrObjectNotFound = errors.New("storage object not found")

type ObjectStorage interface {
	// Save writes the object and returns the number of bytes stored.
	Save(ctx context.Context, id string, data io.Reader) (int64, error)
	// Open returns a reader over the object bytes.
	Open(ctx context.Context, id string) (io.ReadCloser, error)
	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, id string) error
}
