// Package results persists run artifacts (summary text, summary JSON,
// distribution figures) to a local directory or an S3-compatible bucket.
package results

import "context"

// Store is the interface run artifacts are written through.
type Store interface {
	// Write stores data at the given path
	Write(ctx context.Context, path string, data []byte) error

	// Read retrieves data from the given path
	Read(ctx context.Context, path string) ([]byte, error)

	// List returns all paths matching the prefix
	List(ctx context.Context, prefix string) ([]string, error)

	// Exists checks if data exists at the given path
	Exists(ctx context.Context, path string) (bool, error)
}
