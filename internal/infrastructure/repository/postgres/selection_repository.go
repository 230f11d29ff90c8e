package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/castaway-fantasy/internal/domain/selection"
	qb "github.com/riskibarqy/castaway-fantasy/internal/platform/querybuilder"
)

type SelectionRepository struct {
	db *sqlx.DB
}

func NewSelectionRepository(db *sqlx.DB) *SelectionRepository {
	return &SelectionRepository{db: db}
}

// ListUpdatesByLeague returns updates in insertion order within an episode so
// the latest write wins when replayed.
func (r *SelectionRepository) ListUpdatesByLeague(ctx context.Context, leagueID int64) ([]selection.Update, error) {
	query, args, err := qb.Select(qb.ColumnsOf(selectionUpdateTableModel{})...).From("selection_updates").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("episode_number", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list selection updates query: %w", err)
	}

	var rows []selectionUpdateTableModel
	if err := selectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list selection updates league=%d: %w", leagueID, err)
	}

	out := make([]selection.Update, 0, len(rows))
	for _, row := range rows {
		out = append(out, selection.Update{
			EpisodeNumber: row.EpisodeNumber,
			MemberID:      row.MemberID,
			CastawayID:    row.CastawayID,
			Draft:         row.Draft,
		})
	}
	return out, nil
}

func (r *SelectionRepository) InsertUpdate(ctx context.Context, leagueID int64, update selection.Update) error {
	builder, err := qb.InsertModel("selection_updates", selectionUpdateInsertModel{
		LeagueID:      leagueID,
		MemberID:      update.MemberID,
		CastawayID:    update.CastawayID,
		EpisodeNumber: update.EpisodeNumber,
		Draft:         update.Draft,
	})
	if err != nil {
		return fmt.Errorf("build insert selection update model: %w", err)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert selection update query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert selection update league=%d member=%d: %w", leagueID, update.MemberID, err)
	}
	return nil
}

func (r *SelectionRepository) ListSecondaryPicksByLeague(ctx context.Context, leagueID int64) ([]selection.SecondaryPick, error) {
	query, args, err := qb.Select(qb.ColumnsOf(secondaryPickTableModel{})...).From("secondary_picks").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("episode_number", "member_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list secondary picks query: %w", err)
	}

	var rows []secondaryPickTableModel
	if err := selectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list secondary picks league=%d: %w", leagueID, err)
	}

	out := make([]selection.SecondaryPick, 0, len(rows))
	for _, row := range rows {
		out = append(out, selection.SecondaryPick{
			EpisodeNumber: row.EpisodeNumber,
			MemberID:      row.MemberID,
			CastawayID:    row.CastawayID,
		})
	}
	return out, nil
}

func (r *SelectionRepository) UpsertSecondaryPick(ctx context.Context, leagueID int64, pick selection.SecondaryPick) error {
	builder, err := qb.InsertModel("secondary_picks", secondaryPickTableModel{
		LeagueID:      leagueID,
		MemberID:      pick.MemberID,
		CastawayID:    pick.CastawayID,
		EpisodeNumber: pick.EpisodeNumber,
	})
	if err != nil {
		return fmt.Errorf("build upsert secondary pick model: %w", err)
	}
	query, args, err := builder.
		OnConflict("league_id", "member_id", "episode_number").
		DoUpdate("castaway_id").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert secondary pick query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert secondary pick league=%d member=%d episode=%d: %w", leagueID, pick.MemberID, pick.EpisodeNumber, err)
	}
	return nil
}
