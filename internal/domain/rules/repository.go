package rules

import "context"

// Repository describes league rules persistence needs from use cases.
type Repository interface {
	GetByLeague(ctx context.Context, leagueID int64) (LeagueRules, bool, error)
	Upsert(ctx context.Context, leagueID int64, rules LeagueRules) error
}
