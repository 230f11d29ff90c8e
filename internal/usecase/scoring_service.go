package usecase

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/castaway-fantasy/internal/domain/broadcast"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/episode"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/league"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/prediction"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/rules"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/season"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/selection"
	"github.com/riskibarqy/castaway-fantasy/internal/platform/cache"
	idgen "github.com/riskibarqy/castaway-fantasy/internal/platform/id"
	"github.com/riskibarqy/castaway-fantasy/internal/platform/logging"
	"github.com/riskibarqy/castaway-fantasy/internal/platform/resilience"
)

const (
	defaultScoringWorkers     = 4
	defaultScoringLoadTimeout = 10 * time.Second

	recompileStatusSuccess = "success"
	recompileStatusFailed  = "failed"
)

// ScoringRepositories are the stores a league snapshot is read from.
type ScoringRepositories struct {
	Leagues     league.Repository
	Rules       rules.Repository
	Episodes    episode.Repository
	Seasons     season.Repository
	Events      broadcast.Repository
	Selections  selection.Repository
	Predictions prediction.Repository
}

type ScoringOptions struct {
	// Cache is optional; without it every read compiles from the repositories.
	Cache        *cache.Store
	Breaker      resilience.CircuitBreakerConfig
	Workers      int
	LoadTimeout  time.Duration
	DefaultRules *rules.LeagueRules
	IDGenerator  idgen.Generator
	Logger       *logging.Logger
}

// LeagueScores is one compiled league together with the snapshot it was
// compiled from.
type LeagueScores struct {
	League     league.League
	Snapshot   scoring.Input
	Output     scoring.Output
	CompiledAt time.Time
}

// KeyEpisodes resolves the key episodes of the snapshot at now.
func (s LeagueScores) KeyEpisodes(now time.Time) episode.KeyEpisodes {
	return episode.ResolveKeyEpisodes(s.Snapshot.Episodes, now)
}

// Directory resolves references against the snapshot's roster and members.
func (s LeagueScores) Directory() scoring.Directory {
	return scoring.NewDirectory(s.Snapshot.Castaways, s.Snapshot.Tribes, s.Snapshot.Members).WithTribes(s.Output.Tribes)
}

func (s LeagueScores) member(memberID int64) (league.Member, bool) {
	for _, item := range s.Snapshot.Members {
		if item.ID == memberID {
			return item, true
		}
	}
	return league.Member{}, false
}

type LeaderboardEntry struct {
	scoring.Standing
	DisplayName string `json:"displayName"`
	Color       string `json:"color"`
}

type RecompileResult struct {
	RunID        string                  `json:"runId"`
	LeagueCount  int                     `json:"leagueCount"`
	SuccessCount int                     `json:"successCount"`
	FailedCount  int                     `json:"failedCount"`
	WorkerCount  int                     `json:"workerCount"`
	Leagues      []RecompileLeagueResult `json:"leagues"`
}

type RecompileLeagueResult struct {
	LeagueID   int64  `json:"leagueId"`
	Status     string `json:"status"`
	Episodes   int    `json:"episodes"`
	Members    int    `json:"members"`
	DurationMs int64  `json:"durationMs"`
	Message    string `json:"message,omitempty"`
}

type ScoringService struct {
	repos        ScoringRepositories
	cache        *cache.Store
	breaker      *resilience.CircuitBreaker
	workers      int
	loadTimeout  time.Duration
	defaultRules rules.LeagueRules
	idGenerator  idgen.Generator
	logger       *logging.Logger
	now          func() time.Time
}

func NewScoringService(repos ScoringRepositories, opts ScoringOptions) *ScoringService {
	workers := opts.Workers
	if workers < 1 {
		workers = defaultScoringWorkers
	}
	loadTimeout := opts.LoadTimeout
	if loadTimeout <= 0 {
		loadTimeout = defaultScoringLoadTimeout
	}
	defaultRules := rules.Default()
	if opts.DefaultRules != nil {
		defaultRules = *opts.DefaultRules
	}
	idGenerator := opts.IDGenerator
	if idGenerator == nil {
		idGenerator = idgen.NewUUIDGenerator()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &ScoringService{
		repos:        repos,
		cache:        opts.Cache,
		breaker:      resilience.NewCircuitBreaker(opts.Breaker),
		workers:      workers,
		loadTimeout:  loadTimeout,
		defaultRules: defaultRules,
		idGenerator:  idGenerator,
		logger:       logger,
		now:          time.Now,
	}
}

func scoresCacheKey(leagueID int64) string {
	return "scores:" + strconv.FormatInt(leagueID, 10)
}

// GetLeagueScores returns the compiled scores of a league, from cache when a
// fresh compilation is available.
func (s *ScoringService) GetLeagueScores(ctx context.Context, leagueID int64) (LeagueScores, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.GetLeagueScores", leagueID)
	defer span.End()

	item, err := s.getLeague(ctx, leagueID)
	if err != nil {
		return LeagueScores{}, err
	}
	if s.cache == nil {
		return s.compile(ctx, item)
	}

	tags := []string{cache.LeagueTag(item.ID), cache.SeasonTag(item.SeasonID)}
	value, err := s.cache.GetOrLoad(ctx, scoresCacheKey(item.ID), tags, func(ctx context.Context) (any, error) {
		return s.compile(ctx, item)
	})
	if err != nil {
		return LeagueScores{}, err
	}
	scores, ok := value.(LeagueScores)
	if !ok {
		return LeagueScores{}, crerr.Newf("unexpected cached scores type %T", value)
	}
	return scores, nil
}

// GetLeaderboard ranks the league's members by their current totals.
func (s *ScoringService) GetLeaderboard(ctx context.Context, leagueID int64) ([]LeaderboardEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.GetLeaderboard", leagueID)
	defer span.End()

	scores, err := s.GetLeagueScores(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	standings := scores.Output.Leaderboard()
	out := make([]LeaderboardEntry, 0, len(standings))
	for _, standing := range standings {
		entry := LeaderboardEntry{Standing: standing}
		if member, ok := scores.member(standing.MemberID); ok {
			entry.DisplayName = member.DisplayName
			entry.Color = member.Color
		}
		out = append(out, entry)
	}
	return out, nil
}

// NextRefresh returns how long until an episode of the league's season starts
// or ends, the point at which compiled scores may change.
func (s *ScoringService) NextRefresh(ctx context.Context, leagueID int64) (time.Duration, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.NextRefresh", leagueID)
	defer span.End()

	item, err := s.getLeague(ctx, leagueID)
	if err != nil {
		return 0, false, err
	}
	episodes, err := s.repos.Episodes.ListBySeason(ctx, item.SeasonID)
	if err != nil {
		return 0, false, mark(ErrDependencyUnavailable, err, "list episodes by season")
	}
	interval, ok := episode.PollingInterval(episodes, s.now().UTC())
	return interval, ok, nil
}

// RecompileLeagues drops and recompiles the given leagues on a worker pool.
// An empty list recompiles every league that is not inactive.
func (s *ScoringService) RecompileLeagues(ctx context.Context, leagueIDs []int64) (RecompileResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.RecompileLeagues", 0)
	defer span.End()

	targets, err := s.recompileTargets(ctx, leagueIDs)
	if err != nil {
		return RecompileResult{}, err
	}

	runID, err := s.idGenerator.NewID()
	if err != nil {
		return RecompileResult{}, crerr.Wrap(err, "generate recompile run id")
	}
	logger := s.logger.With("run_id", runID)

	result := RecompileResult{
		RunID:       runID,
		LeagueCount: len(targets),
		WorkerCount: min(s.workers, max(len(targets), 1)),
		Leagues:     make([]RecompileLeagueResult, 0, len(targets)),
	}
	if len(targets) == 0 {
		return result, nil
	}

	workerPool, err := ants.NewPool(result.WorkerCount)
	if err != nil {
		return RecompileResult{}, crerr.Wrap(err, "create recompile worker pool")
	}
	defer workerPool.Release()

	var (
		mu           sync.Mutex
		workers      sync.WaitGroup
		successCount atomic.Int32
		failedCount  atomic.Int32
	)
	for _, leagueID := range targets {
		leagueID := leagueID
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := RecompileLeagueResult{LeagueID: leagueID, Status: recompileStatusSuccess}
			s.InvalidateLeague(ctx, leagueID)
			scores, err := s.GetLeagueScores(ctx, leagueID)
			if err != nil {
				row.Status = recompileStatusFailed
				row.Message = err.Error()
				failedCount.Add(1)
				logger.WarnContext(ctx, "recompile league failed", "league_id", leagueID, "error", err)
			} else {
				row.Episodes = scores.Output.Episodes
				row.Members = len(scores.Snapshot.Members)
				successCount.Add(1)
			}
			row.DurationMs = time.Since(start).Milliseconds()

			mu.Lock()
			result.Leagues = append(result.Leagues, row)
			mu.Unlock()
		}); err != nil {
			workers.Done()
			return RecompileResult{}, crerr.Wrap(err, "submit league to worker pool")
		}
	}
	workers.Wait()

	sort.SliceStable(result.Leagues, func(i, j int) bool {
		return result.Leagues[i].LeagueID < result.Leagues[j].LeagueID
	})
	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	logger.InfoContext(ctx, "recompiled leagues",
		"leagues", result.LeagueCount,
		"success", result.SuccessCount,
		"failed", result.FailedCount,
	)
	return result, nil
}

// InvalidateLeague drops cached scores after a league-level write.
func (s *ScoringService) InvalidateLeague(ctx context.Context, leagueID int64) int {
	if s.cache == nil {
		return 0
	}
	removed := s.cache.Invalidate(ctx, cache.LeagueTag(leagueID))
	s.logger.DebugContext(ctx, "invalidated league scores", "league_id", leagueID, "removed", removed)
	return removed
}

// InvalidateSeason drops cached scores of every league playing the season,
// used when broadcast events or episodes change.
func (s *ScoringService) InvalidateSeason(ctx context.Context, seasonID int64) int {
	if s.cache == nil {
		return 0
	}
	removed := s.cache.Invalidate(ctx, cache.SeasonTag(seasonID))
	s.logger.DebugContext(ctx, "invalidated season scores", "season_id", seasonID, "removed", removed)
	return removed
}

func (s *ScoringService) getLeague(ctx context.Context, leagueID int64) (league.League, error) {
	if leagueID <= 0 {
		return league.League{}, markf(ErrInvalidInput, "league id must be positive, got %d", leagueID)
	}
	item, found, err := s.repos.Leagues.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, mark(ErrDependencyUnavailable, err, "get league")
	}
	if !found {
		return league.League{}, markf(ErrNotFound, "league=%d not found", leagueID)
	}
	return item, nil
}

func (s *ScoringService) recompileTargets(ctx context.Context, leagueIDs []int64) ([]int64, error) {
	if len(leagueIDs) > 0 {
		seen := make(map[int64]struct{}, len(leagueIDs))
		out := make([]int64, 0, len(leagueIDs))
		for _, id := range leagueIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
		return out, nil
	}

	leagues, err := s.repos.Leagues.List(ctx)
	if err != nil {
		return nil, mark(ErrDependencyUnavailable, err, "list leagues")
	}
	out := make([]int64, 0, len(leagues))
	for _, item := range leagues {
		if item.Status == league.StatusInactive {
			continue
		}
		out = append(out, item.ID)
	}
	return out, nil
}

func (s *ScoringService) compile(ctx context.Context, item league.League) (LeagueScores, error) {
	input, err := s.loadSnapshot(ctx, item)
	if err != nil {
		return LeagueScores{}, err
	}

	now := s.now().UTC()
	input.Now = now
	start := time.Now()
	output := scoring.Compile(input, s.logger.With("league_id", item.ID))
	s.logger.DebugContext(ctx, "compiled league scores",
		"league_id", item.ID,
		"episodes", output.Episodes,
		"events", len(output.Events),
		"duration", time.Since(start),
	)

	return LeagueScores{
		League:     item,
		Snapshot:   input,
		Output:     output,
		CompiledAt: now,
	}, nil
}

// loadSnapshot reads every input of one compilation concurrently. The first
// failing read cancels the rest.
func (s *ScoringService) loadSnapshot(ctx context.Context, item league.League) (scoring.Input, error) {
	var (
		input        scoring.Input
		baseEvents   []broadcast.Event
		customEvents []broadcast.Event
		leagueRules  rules.LeagueRules
		rulesFound   bool
	)

	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, s.loadTimeout)
		defer cancel()

		p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError()
		p.Go(func(ctx context.Context) error {
			items, err := s.repos.Episodes.ListBySeason(ctx, item.SeasonID)
			input.Episodes = items
			return crerr.Wrap(err, "list episodes")
		})
		p.Go(func(ctx context.Context) error {
			items, err := s.repos.Seasons.ListCastaways(ctx, item.SeasonID)
			input.Castaways = items
			return crerr.Wrap(err, "list castaways")
		})
		p.Go(func(ctx context.Context) error {
			items, err := s.repos.Seasons.ListTribes(ctx, item.SeasonID)
			input.Tribes = items
			return crerr.Wrap(err, "list tribes")
		})
		p.Go(func(ctx context.Context) error {
			items, err := s.repos.Events.ListBySeason(ctx, item.SeasonID)
			baseEvents = items
			return crerr.Wrap(err, "list broadcast events")
		})
		p.Go(func(ctx context.Context) error {
			items, err := s.repos.Events.ListCustomByLeague(ctx, item.ID)
			customEvents = items
			return crerr.Wrap(err, "list custom events")
		})
		p.Go(func(ctx context.Context) error {
			items, err := s.repos.Leagues.ListMembers(ctx, item.ID)
			input.Members = items
			return crerr.Wrap(err, "list league members")
		})
		p.Go(func(ctx context.Context) error {
			items, err := s.repos.Selections.ListUpdatesByLeague(ctx, item.ID)
			input.Updates = items
			return crerr.Wrap(err, "list selection updates")
		})
		p.Go(func(ctx context.Context) error {
			items, err := s.repos.Selections.ListSecondaryPicksByLeague(ctx, item.ID)
			input.SecondaryPicks = items
			return crerr.Wrap(err, "list secondary picks")
		})
		p.Go(func(ctx context.Context) error {
			items, err := s.repos.Predictions.ListByLeague(ctx, item.ID)
			input.Predictions = items
			return crerr.Wrap(err, "list predictions")
		})
		p.Go(func(ctx context.Context) error {
			found, ok, err := s.repos.Rules.GetByLeague(ctx, item.ID)
			leagueRules, rulesFound = found, ok
			return crerr.Wrap(err, "get league rules")
		})
		return p.Wait()
	})
	if err != nil {
		s.logger.WarnContext(ctx, "load league snapshot failed", "league_id", item.ID, "error", err)
		return scoring.Input{}, mark(ErrDependencyUnavailable, err, "load league snapshot")
	}

	if !rulesFound {
		leagueRules = s.defaultRules
	}
	input.Rules = leagueRules
	input.Events = make([]broadcast.Event, 0, len(baseEvents)+len(customEvents))
	input.Events = append(input.Events, baseEvents...)
	input.Events = append(input.Events, customEvents...)
	return input, nil
}
