package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/castaway-fantasy/internal/domain/selection"
)

type SelectionRepository struct {
	mu        sync.RWMutex
	updates   map[int64][]selection.Update
	secondary map[int64]map[secondaryKey]selection.SecondaryPick
}

type secondaryKey struct {
	memberID      int64
	episodeNumber int
}

func NewSelectionRepository() *SelectionRepository {
	return &SelectionRepository{
		updates:   make(map[int64][]selection.Update),
		secondary: make(map[int64]map[secondaryKey]selection.SecondaryPick),
	}
}

func (r *SelectionRepository) ListUpdatesByLeague(_ context.Context, leagueID int64) ([]selection.Update, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]selection.Update(nil), r.updates[leagueID]...), nil
}

func (r *SelectionRepository) InsertUpdate(_ context.Context, leagueID int64, update selection.Update) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.updates[leagueID] = append(r.updates[leagueID], update)
	return nil
}

func (r *SelectionRepository) ListSecondaryPicksByLeague(_ context.Context, leagueID int64) ([]selection.SecondaryPick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]selection.SecondaryPick, 0, len(r.secondary[leagueID]))
	for _, pick := range r.secondary[leagueID] {
		out = append(out, pick)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EpisodeNumber != out[j].EpisodeNumber {
			return out[i].EpisodeNumber < out[j].EpisodeNumber
		}
		return out[i].MemberID < out[j].MemberID
	})
	return out, nil
}

func (r *SelectionRepository) UpsertSecondaryPick(_ context.Context, leagueID int64, pick selection.SecondaryPick) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	picks, ok := r.secondary[leagueID]
	if !ok {
		picks = make(map[secondaryKey]selection.SecondaryPick)
		r.secondary[leagueID] = picks
	}
	picks[secondaryKey{memberID: pick.MemberID, episodeNumber: pick.EpisodeNumber}] = pick
	return nil
}
