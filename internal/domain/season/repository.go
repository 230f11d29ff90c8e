package season

import "context"

// Repository describes season roster persistence needs from use cases.
type Repository interface {
	ListCastaways(ctx context.Context, seasonID int64) ([]Castaway, error)
	ListTribes(ctx context.Context, seasonID int64) ([]Tribe, error)
}
