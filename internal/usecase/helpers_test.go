package usecase

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/castaway-fantasy/internal/domain/episode"
	"github.com/riskibarqy/castaway-fantasy/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/castaway-fantasy/internal/platform/cache"
	"github.com/riskibarqy/castaway-fantasy/internal/platform/logging"
)

// testNow sits two days after episode four aired; episode five is next.
var testNow = time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

func testPremiere() time.Time {
	return testNow.Add(-(3*7*24 + 48) * time.Hour)
}

func scoringRepos(repos memory.Repositories) ScoringRepositories {
	return ScoringRepositories{
		Leagues:     repos.Leagues,
		Rules:       repos.Rules,
		Episodes:    repos.Episodes,
		Seasons:     repos.Seasons,
		Events:      repos.Events,
		Selections:  repos.Selections,
		Predictions: repos.Predictions,
	}
}

func newTestScoringService(t *testing.T, repos ScoringRepositories) *ScoringService {
	t.Helper()

	svc := NewScoringService(repos, ScoringOptions{
		Cache:  cache.NewStore(time.Minute),
		Logger: logging.NewNop(),
	})
	svc.now = func() time.Time { return testNow }
	return svc
}

// countingEpisodes counts snapshot loads through the episode store.
type countingEpisodes struct {
	episode.Repository
	calls atomic.Int32
}

func (c *countingEpisodes) ListBySeason(ctx context.Context, seasonID int64) ([]episode.Episode, error) {
	c.calls.Add(1)
	return c.Repository.ListBySeason(ctx, seasonID)
}
