package usecase

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/castaway-fantasy/internal/domain/league"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/selection"
	"github.com/riskibarqy/castaway-fantasy/internal/platform/logging"
)

type SelectionInput struct {
	LeagueID   int64 `validate:"gt=0"`
	MemberID   int64 `validate:"gt=0"`
	CastawayID int64 `validate:"gt=0"`
}

type SelectionService struct {
	selectionRepo selection.Repository
	scores        *ScoringService
	validate      *validator.Validate
	logger        *logging.Logger
	now           func() time.Time
}

func NewSelectionService(selectionRepo selection.Repository, scores *ScoringService, logger *logging.Logger) *SelectionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SelectionService{
		selectionRepo: selectionRepo,
		scores:        scores,
		validate:      validator.New(),
		logger:        logger,
		now:           time.Now,
	}
}

// DraftPick records a member's draft pick. It applies from the upcoming
// episode and back-fills everything before it with no pick.
func (s *SelectionService) DraftPick(ctx context.Context, input SelectionInput) (selection.Update, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SelectionService.DraftPick", input.LeagueID)
	defer span.End()

	state, err := s.prepare(ctx, input)
	if err != nil {
		return selection.Update{}, err
	}
	if state.scores.League.Status == league.StatusInactive {
		return selection.Update{}, markf(ErrLeagueInactive, "league=%d is inactive", input.LeagueID)
	}

	drafted := make(map[int64]struct{})
	for _, item := range state.scores.Snapshot.Updates {
		if item.Draft {
			drafted[item.MemberID] = struct{}{}
		}
	}
	onClock, ok := league.DraftTurn(state.scores.Snapshot.Members, drafted)
	if !ok || onClock.ID != input.MemberID {
		return selection.Update{}, markf(ErrOutOfTurn, "member=%d cannot draft now", input.MemberID)
	}
	if err := state.checkAvailable(input.CastawayID, input.MemberID); err != nil {
		return selection.Update{}, err
	}

	update := selection.Update{
		EpisodeNumber: state.next,
		MemberID:      input.MemberID,
		CastawayID:    input.CastawayID,
		Draft:         true,
	}
	if err := s.store(ctx, input.LeagueID, update); err != nil {
		return selection.Update{}, err
	}
	s.logger.InfoContext(ctx, "draft pick recorded",
		"league_id", input.LeagueID,
		"member_id", input.MemberID,
		"castaway_id", input.CastawayID,
		"episode", state.next,
	)
	return update, nil
}

// ChangeSelection swaps a member's castaway starting with the upcoming episode.
func (s *SelectionService) ChangeSelection(ctx context.Context, input SelectionInput) (selection.Update, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SelectionService.ChangeSelection", input.LeagueID)
	defer span.End()

	state, err := s.prepare(ctx, input)
	if err != nil {
		return selection.Update{}, err
	}
	if state.scores.League.Status != league.StatusActive {
		return selection.Update{}, markf(ErrLeagueInactive, "league=%d is %s", input.LeagueID, state.scores.League.Status)
	}

	current := state.scores.Output.Selections.CastawayAt(input.MemberID, state.next)
	if current == input.CastawayID {
		return selection.Update{}, markf(ErrInvalidInput, "member=%d already holds castaway=%d", input.MemberID, input.CastawayID)
	}
	if err := state.checkAvailable(input.CastawayID, input.MemberID); err != nil {
		return selection.Update{}, err
	}

	update := selection.Update{
		EpisodeNumber: state.next,
		MemberID:      input.MemberID,
		CastawayID:    input.CastawayID,
	}
	if err := s.store(ctx, input.LeagueID, update); err != nil {
		return selection.Update{}, err
	}
	s.logger.InfoContext(ctx, "selection changed",
		"league_id", input.LeagueID,
		"member_id", input.MemberID,
		"castaway_id", input.CastawayID,
		"previous_castaway_id", current,
		"episode", state.next,
	)
	return update, nil
}

// SetSecondaryPick sets the member's secondary castaway for the upcoming
// episode, replacing an earlier pick for the same episode.
func (s *SelectionService) SetSecondaryPick(ctx context.Context, input SelectionInput) (selection.SecondaryPick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SelectionService.SetSecondaryPick", input.LeagueID)
	defer span.End()

	state, err := s.prepare(ctx, input)
	if err != nil {
		return selection.SecondaryPick{}, err
	}
	if state.scores.League.Status != league.StatusActive {
		return selection.SecondaryPick{}, markf(ErrLeagueInactive, "league=%d is %s", input.LeagueID, state.scores.League.Status)
	}
	if state.scores.Output.Eliminations.EliminatedBy(input.CastawayID, state.next-1) {
		return selection.SecondaryPick{}, markf(ErrCastawayEliminated, "castaway=%d is eliminated", input.CastawayID)
	}

	pick := selection.SecondaryPick{
		EpisodeNumber: state.next,
		MemberID:      input.MemberID,
		CastawayID:    input.CastawayID,
	}
	secondaryRules := state.scores.Snapshot.Rules.Secondary.Selection()
	if err := selection.ValidateSecondaryPick(pick, state.scores.Output.Secondary, state.scores.Output.Selections, secondaryRules); err != nil {
		switch {
		case crerr.Is(err, selection.ErrLockout):
			return selection.SecondaryPick{}, mark(ErrSecondaryLockout, err, "validate secondary pick")
		case crerr.Is(err, selection.ErrNotEnabled):
			return selection.SecondaryPick{}, mark(ErrPredictionClosed, err, "validate secondary pick")
		default:
			return selection.SecondaryPick{}, mark(ErrInvalidInput, err, "validate secondary pick")
		}
	}

	if err := s.selectionRepo.UpsertSecondaryPick(ctx, input.LeagueID, pick); err != nil {
		return selection.SecondaryPick{}, mark(ErrDependencyUnavailable, err, "upsert secondary pick")
	}
	s.scores.InvalidateLeague(ctx, input.LeagueID)
	return pick, nil
}

type selectionState struct {
	scores LeagueScores
	next   int
}

// checkAvailable rejects castaways that are unknown, already out of the game
// or held by another member in the upcoming episode.
func (st selectionState) checkAvailable(castawayID, memberID int64) error {
	if _, ok := st.scores.Directory().Castaway(castawayID); !ok {
		return markf(ErrNotFound, "castaway=%d not found", castawayID)
	}
	if st.scores.Output.Eliminations.EliminatedBy(castawayID, st.next-1) {
		return markf(ErrCastawayEliminated, "castaway=%d is eliminated", castawayID)
	}
	if holder := st.scores.Output.Selections.MemberAt(castawayID, st.next); holder != selection.None && holder != memberID {
		return markf(ErrCastawayTaken, "castaway=%d is held by member=%d", castawayID, holder)
	}
	return nil
}

func (s *SelectionService) prepare(ctx context.Context, input SelectionInput) (selectionState, error) {
	if err := s.validate.Struct(input); err != nil {
		return selectionState{}, mark(ErrInvalidInput, err, "validate selection input")
	}

	scores, err := s.scores.GetLeagueScores(ctx, input.LeagueID)
	if err != nil {
		return selectionState{}, err
	}
	if _, ok := scores.member(input.MemberID); !ok {
		return selectionState{}, markf(ErrUnauthorized, "member=%d is not in league=%d", input.MemberID, input.LeagueID)
	}

	key := scores.KeyEpisodes(s.now().UTC())
	if key.Next == nil {
		return selectionState{}, markf(ErrNoUpcomingEpisode, "league=%d has no upcoming episode", input.LeagueID)
	}
	return selectionState{scores: scores, next: key.Next.EpisodeNumber}, nil
}

func (s *SelectionService) store(ctx context.Context, leagueID int64, update selection.Update) error {
	if err := update.Validate(); err != nil {
		return mark(ErrInvalidInput, err, "validate selection update")
	}
	if err := s.selectionRepo.InsertUpdate(ctx, leagueID, update); err != nil {
		return mark(ErrDependencyUnavailable, err, "insert selection update")
	}
	s.scores.InvalidateLeague(ctx, leagueID)
	return nil
}
