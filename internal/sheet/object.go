package sheet

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by ObjectStore.Get for a missing key.
	ErrNotFound = errors.New("object not found")
	// ErrPreconditionFailed is returned by ObjectStore.Put when a conditional
	// write loses to another writer.
	ErrPreconditionFailed = errors.New("object changed since it was read")
)

// Object is a stored blob and its version tag.
type Object struct {
	Body []byte
	ETag string
}

// PutOptions makes a write conditional. IfMatch requires the current ETag;
// IfNoneMatch "*" requires that the key does not exist yet.
type PutOptions struct {
	IfMatch     string
	IfNoneMatch string
	ContentType string
}

// ObjectStore is the bucket holding the workbook and its backups.
type ObjectStore interface {
	Get(ctx context.Context, key string) (Object, error)
	Put(ctx context.Context, key string, body []byte, opts PutOptions) (string, error)
}
