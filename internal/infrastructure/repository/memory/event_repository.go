package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/castaway-fantasy/internal/domain/broadcast"
)

type EventRepository struct {
	mu     sync.RWMutex
	base   map[int64][]broadcast.Event
	custom map[int64][]broadcast.Event
}

func NewEventRepository() *EventRepository {
	return &EventRepository{
		base:   make(map[int64][]broadcast.Event),
		custom: make(map[int64][]broadcast.Event),
	}
}

// AddSeasonEvents appends broadcast events shared by every league of a season.
func (r *EventRepository) AddSeasonEvents(seasonID int64, events ...broadcast.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range events {
		item.Custom = false
		r.base[seasonID] = append(r.base[seasonID], cloneEvent(item))
	}
}

// AddLeagueEvents appends custom events scored by one league only.
func (r *EventRepository) AddLeagueEvents(leagueID int64, events ...broadcast.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range events {
		item.Custom = true
		r.custom[leagueID] = append(r.custom[leagueID], cloneEvent(item))
	}
}

func (r *EventRepository) ListBySeason(_ context.Context, seasonID int64) ([]broadcast.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return cloneEvents(r.base[seasonID]), nil
}

func (r *EventRepository) ListCustomByLeague(_ context.Context, leagueID int64) ([]broadcast.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return cloneEvents(r.custom[leagueID]), nil
}

func cloneEvents(items []broadcast.Event) []broadcast.Event {
	out := make([]broadcast.Event, 0, len(items))
	for _, item := range items {
		out = append(out, cloneEvent(item))
	}
	return out
}

func cloneEvent(item broadcast.Event) broadcast.Event {
	copied := item
	copied.Notes = append([]string(nil), item.Notes...)
	copied.References = append([]broadcast.Reference(nil), item.References...)
	return copied
}
