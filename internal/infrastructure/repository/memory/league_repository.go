package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/castaway-fantasy/internal/domain/league"
)

type LeagueRepository struct {
	mu      sync.RWMutex
	items   map[int64]league.League
	orders  []int64
	members map[int64][]league.Member
}

func NewLeagueRepository(leagues []league.League, members []league.Member) *LeagueRepository {
	items := make(map[int64]league.League, len(leagues))
	orders := make([]int64, 0, len(leagues))
	for _, l := range leagues {
		items[l.ID] = l
		orders = append(orders, l.ID)
	}

	byLeague := make(map[int64][]league.Member)
	for _, m := range members {
		byLeague[m.LeagueID] = append(byLeague[m.LeagueID], m)
	}

	return &LeagueRepository{
		items:   items,
		orders:  orders,
		members: byLeague,
	}
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}

	return out, nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID int64) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.items[leagueID]
	if !ok {
		return league.League{}, false, nil
	}

	return l, true, nil
}

func (r *LeagueRepository) ListMembers(_ context.Context, leagueID int64) ([]league.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]league.Member(nil), r.members[leagueID]...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DraftOrder != out[j].DraftOrder {
			return out[i].DraftOrder < out[j].DraftOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// SetStatus moves a league to another lifecycle phase.
func (r *LeagueRepository) SetStatus(_ context.Context, leagueID int64, status league.Status) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.items[leagueID]
	if !ok {
		return false
	}
	l.Status = status
	r.items[leagueID] = l
	return true
}
