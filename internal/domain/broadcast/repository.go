package broadcast

import "context"

// Repository describes broadcast event persistence needs from use cases.
type Repository interface {
	ListBySeason(ctx context.Context, seasonID int64) ([]Event, error)
	ListCustomByLeague(ctx context.Context, leagueID int64) ([]Event, error)
}
