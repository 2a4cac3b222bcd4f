package ports

import (
	"context"

	"streamhub/internal/app/domain/stream"
)

// CatalogSource is one provider feeding the merged live-channel catalog.
type CatalogSource interface {
	// Name labels the source in logs and error strings.
	Name() string
	// LiveStreams lists live channels for the configured category, already
	// normalized to the canonical shape.
	LiveStreams(ctx context.Context) ([]stream.Item, error)
}
