package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/castaway-fantasy/internal/domain/episode"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/season"
	qb "github.com/riskibarqy/castaway-fantasy/internal/platform/querybuilder"
)

type SeasonRepository struct {
	db *sqlx.DB
}

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) ListCastaways(ctx context.Context, seasonID int64) ([]season.Castaway, error) {
	query, args, err := qb.Select(qb.ColumnsOf(castawayTableModel{})...).From("castaways").
		Where(
			qb.Eq("season_id", seasonID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list castaways query: %w", err)
	}

	var rows []castawayTableModel
	if err := selectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list castaways season=%d: %w", seasonID, err)
	}

	out := make([]season.Castaway, 0, len(rows))
	for _, row := range rows {
		out = append(out, season.Castaway{
			ID:         row.ID,
			SeasonID:   row.SeasonID,
			FullName:   row.FullName,
			ShortName:  row.ShortName,
			Age:        int(nullInt64ToInt64(row.Age)),
			Residence:  row.Residence.String,
			Occupation: row.Occupation.String,
			ImageURL:   row.ImageURL.String,
		})
	}
	return out, nil
}

func (r *SeasonRepository) ListTribes(ctx context.Context, seasonID int64) ([]season.Tribe, error) {
	query, args, err := qb.Select(qb.ColumnsOf(tribeTableModel{})...).From("tribes").
		Where(
			qb.Eq("season_id", seasonID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list tribes query: %w", err)
	}

	var rows []tribeTableModel
	if err := selectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list tribes season=%d: %w", seasonID, err)
	}

	out := make([]season.Tribe, 0, len(rows))
	for _, row := range rows {
		out = append(out, season.Tribe{
			ID:       row.ID,
			SeasonID: row.SeasonID,
			Name:     row.Name,
			Color:    row.Color,
		})
	}
	return out, nil
}

type EpisodeRepository struct {
	db *sqlx.DB
}

func NewEpisodeRepository(db *sqlx.DB) *EpisodeRepository {
	return &EpisodeRepository{db: db}
}

func (r *EpisodeRepository) ListBySeason(ctx context.Context, seasonID int64) ([]episode.Episode, error) {
	query, args, err := qb.Select(qb.ColumnsOf(episodeTableModel{})...).From("episodes").
		Where(
			qb.Eq("season_id", seasonID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("episode_number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list episodes query: %w", err)
	}

	var rows []episodeTableModel
	if err := selectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list episodes season=%d: %w", seasonID, err)
	}

	out := make([]episode.Episode, 0, len(rows))
	for _, row := range rows {
		out = append(out, episode.Episode{
			ID:             row.ID,
			SeasonID:       row.SeasonID,
			EpisodeNumber:  row.EpisodeNumber,
			Title:          row.Title,
			AirDate:        row.AirDate.UTC(),
			RuntimeMinutes: row.RuntimeMinutes,
			IsMerge:        row.IsMerge,
			IsFinale:       row.IsFinale,
		})
	}
	return out, nil
}
