package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/castaway-fantasy/internal/domain/broadcast"
	qb "github.com/riskibarqy/castaway-fantasy/internal/platform/querybuilder"
)

type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) ListBySeason(ctx context.Context, seasonID int64) ([]broadcast.Event, error) {
	return r.list(ctx, "list base events", qb.Eq("season_id", seasonID), qb.IsNull("league_id"))
}

func (r *EventRepository) ListCustomByLeague(ctx context.Context, leagueID int64) ([]broadcast.Event, error) {
	return r.list(ctx, "list custom events", qb.Eq("league_id", leagueID))
}

func (r *EventRepository) list(ctx context.Context, op string, conditions ...qb.Condition) ([]broadcast.Event, error) {
	query, args, err := qb.Select(qb.ColumnsOf(broadcastEventTableModel{})...).From("broadcast_events").
		Where(conditions...).
		Where(qb.IsNull("deleted_at")).
		OrderBy("episode_number", "sequence", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []broadcastEventTableModel
	if err := selectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]broadcast.Event, 0, len(rows))
	for _, row := range rows {
		item, err := eventFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func eventFromRow(row broadcastEventTableModel) (broadcast.Event, error) {
	refs := make([]broadcast.Reference, 0)
	if len(row.References) > 0 {
		if err := sonic.Unmarshal(row.References, &refs); err != nil {
			return broadcast.Event{}, fmt.Errorf("decode references of event=%d: %w", row.ID, err)
		}
	}

	var notes []string
	if len(row.Notes) > 0 {
		notes = append(notes, row.Notes...)
	}

	return broadcast.Event{
		ID:            row.ID,
		EpisodeNumber: row.EpisodeNumber,
		Name:          broadcast.EventName(row.EventName),
		Label:         row.Label.String,
		Notes:         notes,
		References:    refs,
		Sequence:      row.Sequence,
		Custom:        row.LeagueID.Valid,
	}, nil
}
