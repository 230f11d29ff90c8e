package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/castaway-fantasy/internal/domain/broadcast"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/prediction"
	qb "github.com/riskibarqy/castaway-fantasy/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) ListByLeague(ctx context.Context, leagueID int64) ([]prediction.Prediction, error) {
	query, args, err := qb.Select(qb.ColumnsOf(predictionTableModel{})...).From("predictions").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("episode_number", "member_id", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list predictions query: %w", err)
	}

	var rows []predictionTableModel
	if err := selectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list predictions league=%d: %w", leagueID, err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, predictionFromRow(row))
	}
	return out, nil
}

// Upsert keeps one prediction per member, episode and event.
func (r *PredictionRepository) Upsert(ctx context.Context, leagueID int64, item prediction.Prediction) error {
	builder, err := qb.InsertModel("predictions", predictionInsertModel{
		LeagueID:      leagueID,
		MemberID:      item.MemberID,
		EpisodeNumber: item.EpisodeNumber,
		EventName:     string(item.EventName),
		Custom:        item.Custom,
		ReferenceType: string(item.Reference.Type),
		ReferenceID:   item.Reference.ID,
		Bet:           intPtrToNullable(item.Bet),
	})
	if err != nil {
		return fmt.Errorf("build upsert prediction model: %w", err)
	}
	query, args, err := builder.
		OnConflict("league_id", "member_id", "episode_number", "event_name", "custom").
		DoUpdate("reference_type", "reference_id", "bet").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert prediction query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert prediction league=%d member=%d event=%s: %w", leagueID, item.MemberID, item.EventName, err)
	}
	return nil
}

func predictionFromRow(row predictionTableModel) prediction.Prediction {
	return prediction.Prediction{
		ID:            row.ID,
		MemberID:      row.MemberID,
		EpisodeNumber: row.EpisodeNumber,
		EventName:     broadcast.EventName(row.EventName),
		Custom:        row.Custom,
		Reference: broadcast.Reference{
			Type: broadcast.ReferenceType(row.ReferenceType),
			ID:   row.ReferenceID,
		},
		Bet: nullIntToPtr(row.Bet),
	}
}
