package selection

import "context"

// Repository describes selection persistence needs from use cases.
type Repository interface {
	ListUpdatesByLeague(ctx context.Context, leagueID int64) ([]Update, error)
	InsertUpdate(ctx context.Context, leagueID int64, update Update) error
	ListSecondaryPicksByLeague(ctx context.Context, leagueID int64) ([]SecondaryPick, error)
	UpsertSecondaryPick(ctx context.Context, leagueID int64, pick SecondaryPick) error
}
