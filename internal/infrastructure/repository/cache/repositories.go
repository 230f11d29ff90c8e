package cache

import (
	"context"
	"strconv"

	"github.com/riskibarqy/castaway-fantasy/internal/domain/episode"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/league"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/season"
	basecache "github.com/riskibarqy/castaway-fantasy/internal/platform/cache"
)

// LeagueRepository reads leagues and members through the cache. Entries are
// tagged so a league invalidation drops them with the compiled scores.
type LeagueRepository struct {
	next  league.Repository
	cache *basecache.Store
}

func NewLeagueRepository(next league.Repository, cache *basecache.Store) *LeagueRepository {
	return &LeagueRepository{next: next, cache: cache}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	v, err := r.cache.GetOrLoad(ctx, "league:list", []string{basecache.LeaguesTag}, func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]league.League(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]league.League)
	return append([]league.League(nil), items...), nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID int64) (league.League, bool, error) {
	key := "league:id:" + strconv.FormatInt(leagueID, 10)
	tags := []string{basecache.LeaguesTag, basecache.LeagueTag(leagueID)}
	v, err := r.cache.GetOrLoad(ctx, key, tags, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return cachedLeagueByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return league.League{}, false, err
	}

	cached, _ := v.(cachedLeagueByID)
	return cached.value, cached.exists, nil
}

func (r *LeagueRepository) ListMembers(ctx context.Context, leagueID int64) ([]league.Member, error) {
	key := "league:members:" + strconv.FormatInt(leagueID, 10)
	v, err := r.cache.GetOrLoad(ctx, key, []string{basecache.LeagueTag(leagueID)}, func(ctx context.Context) (any, error) {
		items, err := r.next.ListMembers(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return append([]league.Member(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]league.Member)
	return append([]league.Member(nil), items...), nil
}

type cachedLeagueByID struct {
	value  league.League
	exists bool
}

type EpisodeRepository struct {
	next  episode.Repository
	cache *basecache.Store
}

func NewEpisodeRepository(next episode.Repository, cache *basecache.Store) *EpisodeRepository {
	return &EpisodeRepository{next: next, cache: cache}
}

func (r *EpisodeRepository) ListBySeason(ctx context.Context, seasonID int64) ([]episode.Episode, error) {
	key := "episode:list:" + strconv.FormatInt(seasonID, 10)
	v, err := r.cache.GetOrLoad(ctx, key, []string{basecache.SeasonTag(seasonID)}, func(ctx context.Context) (any, error) {
		items, err := r.next.ListBySeason(ctx, seasonID)
		if err != nil {
			return nil, err
		}
		return append([]episode.Episode(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]episode.Episode)
	return append([]episode.Episode(nil), items...), nil
}

type SeasonRepository struct {
	next  season.Repository
	cache *basecache.Store
}

func NewSeasonRepository(next season.Repository, cache *basecache.Store) *SeasonRepository {
	return &SeasonRepository{next: next, cache: cache}
}

func (r *SeasonRepository) ListCastaways(ctx context.Context, seasonID int64) ([]season.Castaway, error) {
	key := "season:castaways:" + strconv.FormatInt(seasonID, 10)
	v, err := r.cache.GetOrLoad(ctx, key, []string{basecache.SeasonTag(seasonID)}, func(ctx context.Context) (any, error) {
		items, err := r.next.ListCastaways(ctx, seasonID)
		if err != nil {
			return nil, err
		}
		return append([]season.Castaway(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]season.Castaway)
	return append([]season.Castaway(nil), items...), nil
}

func (r *SeasonRepository) ListTribes(ctx context.Context, seasonID int64) ([]season.Tribe, error) {
	key := "season:tribes:" + strconv.FormatInt(seasonID, 10)
	v, err := r.cache.GetOrLoad(ctx, key, []string{basecache.SeasonTag(seasonID)}, func(ctx context.Context) (any, error) {
		items, err := r.next.ListTribes(ctx, seasonID)
		if err != nil {
			return nil, err
		}
		return append([]season.Tribe(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]season.Tribe)
	return append([]season.Tribe(nil), items...), nil
}
