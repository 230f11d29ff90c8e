package prediction

import "context"

// Repository describes prediction persistence needs from use cases.
type Repository interface {
	ListByLeague(ctx context.Context, leagueID int64) ([]Prediction, error)
	Upsert(ctx context.Context, leagueID int64, item Prediction) error
}
