package policies

import (
	"context"
	"io"
)

// EventPublisher emits integration events to the message broker.
type EventPublisher interface {
	PublishEvent(ctx context.Context, name string, key string, data any) error
}

// SnapshotArchiver stores report documents and returns a URL for retrieval.
type SnapshotArchiver interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)
}
