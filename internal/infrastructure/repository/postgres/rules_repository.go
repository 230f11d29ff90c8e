package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/castaway-fantasy/internal/domain/rules"
	qb "github.com/riskibarqy/castaway-fantasy/internal/platform/querybuilder"
)

// RulesRepository stores each league's rules as one jsonb document.
type RulesRepository struct {
	db *sqlx.DB
}

func NewRulesRepository(db *sqlx.DB) *RulesRepository {
	return &RulesRepository{db: db}
}

func (r *RulesRepository) GetByLeague(ctx context.Context, leagueID int64) (rules.LeagueRules, bool, error) {
	query, args, err := qb.Select(qb.ColumnsOf(leagueRulesTableModel{})...).From("league_rules").
		Where(qb.Eq("league_id", leagueID)).
		ToSQL()
	if err != nil {
		return rules.LeagueRules{}, false, fmt.Errorf("build get league rules query: %w", err)
	}

	var row leagueRulesTableModel
	if err := getContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return rules.LeagueRules{}, false, nil
		}
		return rules.LeagueRules{}, false, fmt.Errorf("get league rules league=%d: %w", leagueID, err)
	}

	out, err := decodeRules(row.Rules)
	if err != nil {
		return rules.LeagueRules{}, false, fmt.Errorf("decode league rules league=%d: %w", leagueID, err)
	}
	return out, true, nil
}

func (r *RulesRepository) Upsert(ctx context.Context, leagueID int64, item rules.LeagueRules) error {
	if err := item.Validate(); err != nil {
		return err
	}
	payload, err := sonic.MarshalString(item)
	if err != nil {
		return fmt.Errorf("encode league rules: %w", err)
	}

	builder, err := qb.InsertModel("league_rules", leagueRulesInsertModel{LeagueID: leagueID, Rules: payload})
	if err != nil {
		return fmt.Errorf("build upsert league rules model: %w", err)
	}
	query, args, err := builder.OnConflict("league_id").DoUpdate("rules").ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert league rules query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert league rules league=%d: %w", leagueID, err)
	}
	return nil
}

// decodeRules layers a stored document over the defaults so rules saved before
// a field existed still validate.
func decodeRules(data []byte) (rules.LeagueRules, error) {
	out := rules.Default()
	if len(data) == 0 {
		return out, nil
	}
	if err := sonic.Unmarshal(data, &out); err != nil {
		return rules.LeagueRules{}, err
	}
	if err := out.Validate(); err != nil {
		return rules.LeagueRules{}, err
	}
	return out, nil
}
