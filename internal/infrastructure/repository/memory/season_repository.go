package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/castaway-fantasy/internal/domain/episode"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/season"
)

type SeasonRepository struct {
	mu        sync.RWMutex
	castaways map[int64][]season.Castaway
	tribes    map[int64][]season.Tribe
}

func NewSeasonRepository(castaways []season.Castaway, tribes []season.Tribe) *SeasonRepository {
	r := &SeasonRepository{
		castaways: make(map[int64][]season.Castaway),
		tribes:    make(map[int64][]season.Tribe),
	}
	for _, item := range castaways {
		r.castaways[item.SeasonID] = append(r.castaways[item.SeasonID], item)
	}
	for _, item := range tribes {
		r.tribes[item.SeasonID] = append(r.tribes[item.SeasonID], item)
	}
	return r
}

func (r *SeasonRepository) ListCastaways(_ context.Context, seasonID int64) ([]season.Castaway, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]season.Castaway(nil), r.castaways[seasonID]...), nil
}

func (r *SeasonRepository) ListTribes(_ context.Context, seasonID int64) ([]season.Tribe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]season.Tribe(nil), r.tribes[seasonID]...), nil
}

type EpisodeRepository struct {
	mu    sync.RWMutex
	items map[int64][]episode.Episode
}

func NewEpisodeRepository(episodes []episode.Episode) *EpisodeRepository {
	items := make(map[int64][]episode.Episode)
	for _, item := range episodes {
		items[item.SeasonID] = append(items[item.SeasonID], item)
	}
	return &EpisodeRepository{items: items}
}

func (r *EpisodeRepository) ListBySeason(_ context.Context, seasonID int64) ([]episode.Episode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]episode.Episode(nil), r.items[seasonID]...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EpisodeNumber < out[j].EpisodeNumber
	})
	return out, nil
}
