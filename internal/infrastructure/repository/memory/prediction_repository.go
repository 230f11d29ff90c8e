package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/castaway-fantasy/internal/domain/prediction"
)

type PredictionRepository struct {
	mu     sync.RWMutex
	items  map[int64][]prediction.Prediction
	nextID int64
}

func NewPredictionRepository() *PredictionRepository {
	return &PredictionRepository{items: make(map[int64][]prediction.Prediction)}
}

func (r *PredictionRepository) ListByLeague(_ context.Context, leagueID int64) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.Prediction, 0, len(r.items[leagueID]))
	for _, item := range r.items[leagueID] {
		out = append(out, clonePrediction(item))
	}
	return out, nil
}

// Upsert replaces the member's prediction on the same event in the same
// episode, or stores a new one with a fresh id.
func (r *PredictionRepository) Upsert(_ context.Context, leagueID int64, item prediction.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.items[leagueID]
	for idx, existing := range items {
		if existing.MemberID == item.MemberID && existing.SameDefinition(item) {
			item.ID = existing.ID
			items[idx] = clonePrediction(item)
			return nil
		}
	}

	r.nextID++
	item.ID = r.nextID
	r.items[leagueID] = append(items, clonePrediction(item))
	return nil
}

func clonePrediction(item prediction.Prediction) prediction.Prediction {
	copied := item
	if item.Bet != nil {
		bet := *item.Bet
		copied.Bet = &bet
	}
	return copied
}
