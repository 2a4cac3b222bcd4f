package ports

import (
	"context"

	"streamhub/internal/app/domain/stream"
)

// TrovoPort mirrors the slice of the Trovo open API the hub consumes.
type TrovoPort interface {
	StreamsByGame(ctx context.Context, name string, first int) ([]stream.Item, error)
}
