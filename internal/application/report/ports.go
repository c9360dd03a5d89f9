package report

import (
	"context"
	"time"
)

// Emitter delivers a rendered export. Implementations write to disk, object
// storage or an HTTP response; the report engine never performs I/O itself.
type Emitter interface {
	Emit(ctx context.Context, data []byte, filename string) error
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(ctx context.Context, data []byte, filename string) error

// Emit calls f.
func (f EmitterFunc) Emit(ctx context.Context, data []byte, filename string) error {
	return f(ctx, data, filename)
}

// ExportCache stores rendered CSV documents keyed by a digest of their input.
type ExportCache interface {
	// Get returns the cached document and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a document for ttl.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
}
