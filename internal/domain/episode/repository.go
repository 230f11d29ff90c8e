package episode

import "context"

// Repository describes episode persistence needs from use cases.
type Repository interface {
	ListBySeason(ctx context.Context, seasonID int64) ([]Episode, error)
}
