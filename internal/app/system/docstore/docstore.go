// Package docstore is the document store adapter used by the services.
//
// Documents live at slash-separated paths that alternate collection and
// document segments, e.g. "users/{uid}/categories/{cid}". Adapters
// (MongoDB in production, memory for dev mode and tests) implement Store.
package docstore

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("docstore: document not found")
	// ErrAlreadyExists is returned when a write violates a unique constraint.
	ErrAlreadyExists = errors.New("docstore: document already exists")
	// ErrPermissionDenied is returned when the backend refuses access.
	ErrPermissionDenied = errors.New("docstore: permission denied")
	// ErrInvalidPath is returned for malformed document or collection paths.
	ErrInvalidPath = errors.New("docstore: invalid path")
)

// Store is the set of primitives the services need from a document store.
type Store interface {
	// Get loads one document. Returns ErrNotFound when absent.
	Get(ctx context.Context, doc Path) (*Snapshot, error)

	// Query returns the documents of one collection matching q.
	Query(ctx context.Context, q Query) ([]Snapshot, error)

	// Set writes a document, replacing it unless WithMerge is given.
	Set(ctx context.Context, doc Path, data Fields, opts ...SetOption) error

	// Add inserts a new document with a generated ID and returns the ID.
	Add(ctx context.Context, coll Path, data Fields) (string, error)

	// Update sets the given fields (dotted keys address nested fields).
	// Returns ErrNotFound when the document does not exist.
	Update(ctx context.Context, doc Path, data Fields) error

	// Delete removes a document. Deleting a missing document is not an error.
	Delete(ctx context.Context, doc Path) error

	// Batch starts an atomic multi-write.
	Batch() Batch

	// Ping checks connectivity with the backend.
	Ping(ctx context.Context) error
}

// Batch collects writes that commit together or not at all.
type Batch interface {
	Set(doc Path, data Fields, opts ...SetOption) Batch
	// Add queues an insert and returns the path the document will have.
	Add(coll Path, data Fields) Path
	Update(doc Path, data Fields) Batch
	Delete(doc Path) Batch
	Commit(ctx context.Context) error
}

// SetOptions controls Set behaviour.
type SetOptions struct {
	Merge bool
}

// SetOption mutates SetOptions.
type SetOption func(*SetOptions)

// WithMerge makes Set merge the given fields into an existing document
// instead of replacing it. Nested Fields are merged recursively.
func WithMerge() SetOption {
	return func(o *SetOptions) { o.Merge = true }
}

// ApplySetOptions folds opts into a SetOptions value.
func ApplySetOptions(opts []SetOption) SetOptions {
	var o SetOptions
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
