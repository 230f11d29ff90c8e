package usecase

import (
	"context"
	"sort"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/castaway-fantasy/internal/domain/broadcast"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/episode"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/league"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/prediction"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/rules"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/castaway-fantasy/internal/platform/logging"
)

type SubmitPredictionInput struct {
	LeagueID  int64               `validate:"gt=0"`
	MemberID  int64               `validate:"gt=0"`
	EventName broadcast.EventName `validate:"required,max=64"`
	Custom    bool
	Reference broadcast.Reference
	Bet       *int `validate:"omitempty,gte=0"`
}

// EligiblePrediction is an event members may predict on for the upcoming
// episode.
type EligiblePrediction struct {
	EpisodeNumber  int                       `json:"episodeNumber"`
	EventName      broadcast.EventName       `json:"eventName"`
	Custom         bool                      `json:"custom"`
	Points         int                       `json:"points"`
	Timing         []rules.Timing            `json:"timing"`
	ReferenceTypes []broadcast.ReferenceType `json:"referenceTypes,omitempty"`
	BetAllowed     bool                      `json:"betAllowed"`
}

type PredictionService struct {
	predictionRepo prediction.Repository
	scores         *ScoringService
	validate       *validator.Validate
	logger         *logging.Logger
	now            func() time.Time
}

func NewPredictionService(predictionRepo prediction.Repository, scores *ScoringService, logger *logging.Logger) *PredictionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PredictionService{
		predictionRepo: predictionRepo,
		scores:         scores,
		validate:       validator.New(),
		logger:         logger,
		now:            time.Now,
	}
}

// ListEligible returns the prediction rules open for the upcoming episode.
func (s *PredictionService) ListEligible(ctx context.Context, leagueID int64) ([]EligiblePrediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.ListEligible", leagueID)
	defer span.End()

	scores, err := s.scores.GetLeagueScores(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	return eligiblePredictions(scores.Snapshot.Rules, scores.League.Status, scores.KeyEpisodes(now), now), nil
}

// Submit validates and stores a prediction for the upcoming episode. A
// prediction on the same event replaces the member's earlier one.
func (s *PredictionService) Submit(ctx context.Context, input SubmitPredictionInput) (prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Submit", input.LeagueID)
	defer span.End()

	if err := s.validate.Struct(input); err != nil {
		return prediction.Prediction{}, mark(ErrInvalidInput, err, "validate prediction input")
	}

	scores, err := s.scores.GetLeagueScores(ctx, input.LeagueID)
	if err != nil {
		return prediction.Prediction{}, err
	}
	if scores.League.Status == league.StatusInactive {
		return prediction.Prediction{}, markf(ErrLeagueInactive, "league=%d is inactive", input.LeagueID)
	}
	if _, ok := scores.member(input.MemberID); !ok {
		return prediction.Prediction{}, markf(ErrUnauthorized, "member=%d is not in league=%d", input.MemberID, input.LeagueID)
	}

	now := s.now().UTC()
	key := scores.KeyEpisodes(now)
	if key.Next == nil {
		return prediction.Prediction{}, markf(ErrNoUpcomingEpisode, "league=%d has no upcoming episode", input.LeagueID)
	}

	leagueRules := scores.Snapshot.Rules
	rule, ok := leagueRules.PredictionFor(input.EventName, input.Custom)
	if !ok {
		return prediction.Prediction{}, markf(ErrPredictionClosed, "no prediction rule for event %q", input.EventName)
	}
	if !rules.IsEligible(rule.Timing, rules.ActiveTimings(key, scores.League.Status, now)) {
		return prediction.Prediction{}, markf(ErrPredictionClosed, "event %q is not open for predictions", input.EventName)
	}
	if err := checkReference(leagueRules, input, scores.Directory()); err != nil {
		return prediction.Prediction{}, err
	}

	item := prediction.Prediction{
		MemberID:      input.MemberID,
		EpisodeNumber: key.Next.EpisodeNumber,
		EventName:     input.EventName,
		Custom:        input.Custom,
		Reference:     input.Reference,
		Bet:           input.Bet,
	}
	var pendingBets []int
	for _, existing := range scores.Snapshot.Predictions {
		if existing.MemberID != item.MemberID || existing.EpisodeNumber != item.EpisodeNumber {
			continue
		}
		if existing.SameDefinition(item) {
			item.ID = existing.ID
			continue
		}
		if bet := existing.BetAmount(); bet > 0 {
			pendingBets = append(pendingBets, bet)
		}
	}

	if bet := item.BetAmount(); bet > 0 {
		if !leagueRules.Shauhin.Open(key) || !leagueRules.Shauhin.BetAllowed(item.EventName) {
			return prediction.Prediction{}, markf(ErrPredictionClosed, "betting is closed for event %q", item.EventName)
		}
		balance := scoring.Current(scores.Output.Scores.Member[item.MemberID])
		if err := scoring.ValidateBet(bet, balance, pendingBets, leagueRules.Shauhin); err != nil {
			return prediction.Prediction{}, betError(err)
		}
	}

	if err := item.Validate(); err != nil {
		return prediction.Prediction{}, mark(ErrInvalidInput, err, "validate prediction")
	}
	if err := s.predictionRepo.Upsert(ctx, input.LeagueID, item); err != nil {
		return prediction.Prediction{}, mark(ErrDependencyUnavailable, err, "upsert prediction")
	}
	s.scores.InvalidateLeague(ctx, input.LeagueID)
	s.logger.InfoContext(ctx, "prediction submitted",
		"league_id", input.LeagueID,
		"member_id", item.MemberID,
		"event", item.EventName,
		"episode", item.EpisodeNumber,
		"bet", item.BetAmount(),
	)
	return item, nil
}

func checkReference(leagueRules rules.LeagueRules, input SubmitPredictionInput, directory scoring.Directory) error {
	if input.Custom {
		for _, rule := range leagueRules.Custom {
			if rule.Name != string(input.EventName) || len(rule.ReferenceTypes) == 0 {
				continue
			}
			allowed := false
			for _, kind := range rule.ReferenceTypes {
				allowed = allowed || kind == input.Reference.Type
			}
			if !allowed {
				return markf(ErrInvalidInput, "event %q does not take %s references", input.EventName, input.Reference.Type)
			}
		}
	}
	if !directory.Resolves(input.Reference) {
		return markf(ErrNotFound, "reference %s not found", input.Reference)
	}
	return nil
}

func betError(err error) error {
	switch {
	case crerr.Is(err, scoring.ErrInsufficientBalance):
		return mark(ErrInsufficientBalance, err, "validate bet")
	case crerr.Is(err, scoring.ErrBettingClosed):
		return mark(ErrPredictionClosed, err, "validate bet")
	default:
		return mark(ErrInvalidInput, err, "validate bet")
	}
}

func eligiblePredictions(leagueRules rules.LeagueRules, status league.Status, key episode.KeyEpisodes, now time.Time) []EligiblePrediction {
	if key.Next == nil {
		return []EligiblePrediction{}
	}
	active := rules.ActiveTimings(key, status, now)
	betsOpen := leagueRules.Shauhin.Open(key)

	names := make([]broadcast.EventName, 0, len(leagueRules.BasePredictions))
	for name := range leagueRules.BasePredictions {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	out := make([]EligiblePrediction, 0, len(names)+len(leagueRules.Custom))
	for _, name := range names {
		rule, ok := leagueRules.PredictionFor(name, false)
		if !ok || !rules.IsEligible(rule.Timing, active) {
			continue
		}
		out = append(out, EligiblePrediction{
			EpisodeNumber: key.Next.EpisodeNumber,
			EventName:     name,
			Points:        rule.Points,
			Timing:        rule.Timing,
			BetAllowed:    betsOpen && leagueRules.Shauhin.BetAllowed(name),
		})
	}
	for _, custom := range leagueRules.Custom {
		if custom.Kind != rules.CustomPrediction || !rules.IsEligible(custom.Timing, active) {
			continue
		}
		name := broadcast.EventName(custom.Name)
		out = append(out, EligiblePrediction{
			EpisodeNumber:  key.Next.EpisodeNumber,
			EventName:      name,
			Custom:         true,
			Points:         custom.Points,
			Timing:         custom.Timing,
			ReferenceTypes: custom.ReferenceTypes,
			BetAllowed:     betsOpen && leagueRules.Shauhin.BetAllowed(name),
		})
	}
	return out
}
