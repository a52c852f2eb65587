// Package cache defines the rendered-page cache contract. Entries are keyed
// by route path and carry content-type tags; a change notification for a
// document of type T invalidates the T tag and any path embedding a document
// of type T.
package cache

import (
	"context"
	"time"
)

// Entry is one cached rendered page.
type Entry struct {
	Path        string
	ContentType string
	Body        []byte
	Tags        []string
	RenderedAt  time.Time
}

// Invalidator discards cached renderings. All operations are idempotent:
// invalidating an absent target is a no-op, so webhook replays are harmless.
type Invalidator interface {
	InvalidateTag(ctx context.Context, tag string) (int64, error)
	InvalidatePath(ctx context.Context, path string) (int64, error)
	InvalidateAll(ctx context.Context) (int64, error)
}

// Store persists rendered pages.
type Store interface {
	Invalidator
	Get(ctx context.Context, path string) (*Entry, bool, error)
	Put(ctx context.Context, entry Entry) error
}
