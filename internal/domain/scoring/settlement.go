package scoring

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/castaway-fantasy/internal/domain/broadcast"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/episode"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/prediction"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/rules"
	"github.com/riskibarqy/castaway-fantasy/internal/platform/logging"
)

var (
	ErrBettingClosed       = errors.New("betting is not open")
	ErrInvalidBet          = errors.New("invalid bet")
	ErrBetTooLarge         = errors.New("bet exceeds the league maximum")
	ErrTooManyBets         = errors.New("too many bets this week")
	ErrInsufficientBalance = errors.New("insufficient point balance for bet")
)

// Bettor is a member on one side of a prediction, with the optional wager.
type Bettor struct {
	MemberID int64 `json:"memberId"`
	Bet      *int  `json:"bet"`
}

func (b Bettor) betAmount() int {
	if b.Bet == nil {
		return 0
	}
	return *b.Bet
}

// Miss is a wrong prediction with the reference the member picked. Display
// is empty when the reference no longer resolves.
type Miss struct {
	Bettor
	Reference broadcast.Reference `json:"reference"`
	Display   Display             `json:"display"`
	Resolved  bool                `json:"resolved"`
}

// PredictionResult groups all predictions on one event definition in one
// episode. Pending holds predictions whose outcome is not known yet.
type PredictionResult struct {
	EpisodeNumber int                   `json:"episodeNumber"`
	EventName     broadcast.EventName   `json:"eventName"`
	Custom        bool                  `json:"custom"`
	Points        int                   `json:"points"`
	Outcomes      []broadcast.Reference `json:"outcomes"`
	Settled       bool                  `json:"settled"`
	Hits          []Bettor              `json:"hits"`
	Misses        []Miss                `json:"misses"`
	Pending       []Bettor              `json:"pending"`
}

// DisplayMisses returns the misses whose reference still resolves.
func (r PredictionResult) DisplayMisses() []Miss {
	out := make([]Miss, 0, len(r.Misses))
	for _, miss := range r.Misses {
		if miss.Resolved {
			out = append(out, miss)
		}
	}
	return out
}

// Payouts returns each member's net change from this result. A hit earns the
// rule points plus the bet; a miss loses the bet.
func (r PredictionResult) Payouts() map[int64]int {
	out := make(map[int64]int)
	for _, hit := range r.Hits {
		out[hit.MemberID] += r.Points + hit.betAmount()
	}
	for _, miss := range r.Misses {
		out[miss.MemberID] -= miss.betAmount()
	}
	return out
}

type definitionKey struct {
	episode int
	name    broadcast.EventName
	custom  bool
}

// Hit reports whether p matched the events of its episode. It is nil while
// the episode has not aired and no matching event exists yet; once the
// episode aired, a missing event settles the prediction as a miss.
func Hit(p prediction.Prediction, events []broadcast.Event, aired bool) *bool {
	found := false
	hit := false
	for _, event := range events {
		if event.EpisodeNumber != p.EpisodeNumber || event.Name != p.EventName || event.Custom != p.Custom {
			continue
		}
		found = true
		if event.HasReference(p.Reference) {
			hit = true
			break
		}
	}
	if !found && !aired {
		return nil
	}
	return &hit
}

// SettlePredictions resolves every prediction against the broadcast events.
// Predictions without a configured rule are skipped. Bets only count when
// Shauhin Mode allows betting on the event. Misses whose reference no longer
// resolves are logged and kept without a display so their bets still settle.
func SettlePredictions(
	predictions []prediction.Prediction,
	events []broadcast.Event,
	episodes []episode.Episode,
	leagueRules rules.LeagueRules,
	directory Directory,
	now time.Time,
	logger *logging.Logger,
) []PredictionResult {
	aired := make(map[int]bool, len(episodes))
	for _, item := range episodes {
		aired[item.EpisodeNumber] = item.AirStatus(now) == episode.StatusAired
	}

	outcomes := make(map[definitionKey][]broadcast.Reference)
	for _, event := range events {
		key := definitionKey{episode: event.EpisodeNumber, name: event.Name, custom: event.Custom}
		outcomes[key] = append(outcomes[key], event.References...)
	}

	ordered := append([]prediction.Prediction(nil), predictions...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].MemberID != ordered[j].MemberID {
			return ordered[i].MemberID < ordered[j].MemberID
		}
		return ordered[i].ID < ordered[j].ID
	})

	results := make(map[definitionKey]*PredictionResult)
	for _, item := range ordered {
		rule, ok := leagueRules.PredictionFor(item.EventName, item.Custom)
		if !ok {
			logger.Warn("skip prediction without rule",
				"member_id", item.MemberID,
				"episode", item.EpisodeNumber,
				"event", string(item.EventName),
			)
			continue
		}

		key := definitionKey{episode: item.EpisodeNumber, name: item.EventName, custom: item.Custom}
		result, ok := results[key]
		if !ok {
			result = &PredictionResult{
				EpisodeNumber: item.EpisodeNumber,
				EventName:     item.EventName,
				Custom:        item.Custom,
				Points:        rule.Points,
				Outcomes:      outcomes[key],
				Hits:          make([]Bettor, 0),
				Misses:        make([]Miss, 0),
				Pending:       make([]Bettor, 0),
			}
			if result.Outcomes == nil {
				result.Outcomes = make([]broadcast.Reference, 0)
			}
			results[key] = result
		}

		bettor := Bettor{MemberID: item.MemberID}
		if item.Bet != nil && *item.Bet > 0 && leagueRules.Shauhin.BetAllowed(item.EventName) {
			bet := *item.Bet
			bettor.Bet = &bet
		}

		hit := Hit(item, events, aired[item.EpisodeNumber])
		switch {
		case hit == nil:
			result.Pending = append(result.Pending, bettor)
		case *hit:
			result.Hits = append(result.Hits, bettor)
		default:
			display, ok := directory.Resolve(item.Reference, item.EpisodeNumber)
			if !ok {
				logger.Warn("miss with unresolved reference",
					"member_id", item.MemberID,
					"episode", item.EpisodeNumber,
					"reference", item.Reference.String(),
				)
			}
			result.Misses = append(result.Misses, Miss{Bettor: bettor, Reference: item.Reference, Display: display, Resolved: ok})
		}
	}

	out := make([]PredictionResult, 0, len(results))
	for _, result := range results {
		result.Settled = len(result.Pending) == 0
		out = append(out, *result)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EpisodeNumber != out[j].EpisodeNumber {
			return out[i].EpisodeNumber < out[j].EpisodeNumber
		}
		if out[i].Custom != out[j].Custom {
			return !out[i].Custom
		}
		return out[i].EventName < out[j].EventName
	})
	return out
}

// ValidateBet checks a new bet against Shauhin Mode limits and the member's
// balance minus the bets already pending for the upcoming episode. A zero bet
// is always accepted.
func ValidateBet(bet int, balance int, pendingBets []int, shauhin rules.ShauhinMode) error {
	if bet < 0 {
		return fmt.Errorf("%w: bet cannot be negative", ErrInvalidBet)
	}
	if bet == 0 {
		return nil
	}
	if !shauhin.Enabled {
		return ErrBettingClosed
	}
	if shauhin.MaxBet > 0 && bet > shauhin.MaxBet {
		return fmt.Errorf("%w: bet=%d max=%d", ErrBetTooLarge, bet, shauhin.MaxBet)
	}
	if shauhin.MaxBetsPerWeek > 0 && len(pendingBets) >= shauhin.MaxBetsPerWeek {
		return fmt.Errorf("%w: max=%d", ErrTooManyBets, shauhin.MaxBetsPerWeek)
	}

	available := balance
	for _, pending := range pendingBets {
		available -= pending
	}
	if bet > available {
		return fmt.Errorf("%w: bet=%d available=%d", ErrInsufficientBalance, bet, available)
	}
	return nil
}
