package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/castaway-fantasy/internal/domain/rules"
)

type RulesRepository struct {
	mu    sync.RWMutex
	items map[int64]rules.LeagueRules
}

func NewRulesRepository() *RulesRepository {
	return &RulesRepository{items: make(map[int64]rules.LeagueRules)}
}

func (r *RulesRepository) GetByLeague(_ context.Context, leagueID int64) (rules.LeagueRules, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[leagueID]
	return item, ok, nil
}

func (r *RulesRepository) Upsert(_ context.Context, leagueID int64, item rules.LeagueRules) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[leagueID] = item
	return nil
}
