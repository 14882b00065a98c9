package storage

import (
	"context"
	"io"
)

// Storage abstracts the object store backing uploaded movie files. The movie
// record and its object share a lifecycle, so Delete must be callable from
// the same code path that removes the database row.
type Storage interface {
	// Save streams the object to the given key, overwriting any prior content.
	Save(ctx context.Context, key string, r io.Reader) error

	// Delete removes the object at key. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error

	// URL returns the public URL the object is served from.
	URL(key string) string
}
