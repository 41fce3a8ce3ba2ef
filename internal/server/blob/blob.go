// Package blob defines the key/value object store all service state lives in,
// with an S3 implementation for production and an in-memory one for tests.
package blob

import "context"

// Object is a stored blob together with its declared content type and
// caller-supplied metadata.
type Object struct {
	Content     []byte
	ContentType string
	Metadata    map[string]string
}

// Store is a minimal object store over a single bucket.
//
// Get distinguishes "no such key" from backend failure explicitly: a missing
// key yields (nil, nil), never an error. Callers rely on this to tell an
// unregistered user or absent persona apart from an outage.
type Store interface {
	// Put stores obj under key, overwriting any previous object.
	Put(ctx context.Context, key string, obj Object) error

	// Get returns the object under key, or (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) (*Object, error)

	// Delete removes the given keys. Absent keys are not an error.
	Delete(ctx context.Context, keys []string) error

	// ListKeys returns all keys starting with prefix.
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}
