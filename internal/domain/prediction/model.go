package prediction

import (
	"fmt"

	"github.com/riskibarqy/castaway-fantasy/internal/domain/broadcast"
)

// Prediction is a member's guess at which castaway, tribe or member triggers
// an event in one episode, optionally backed by a bet.
type Prediction struct {
	ID            int64
	MemberID      int64
	EpisodeNumber int
	EventName     broadcast.EventName
	Custom        bool
	Reference     broadcast.Reference
	Bet           *int
}

func (p Prediction) Validate() error {
	if p.MemberID <= 0 {
		return fmt.Errorf("prediction member id is required")
	}
	if p.EpisodeNumber <= 0 {
		return fmt.Errorf("prediction episode number must be greater than zero")
	}
	if p.EventName == "" {
		return fmt.Errorf("prediction event name is required")
	}
	if !p.Custom && !broadcast.IsBaseEvent(p.EventName) {
		return fmt.Errorf("unknown prediction event %q", p.EventName)
	}
	if p.Reference.ID <= 0 {
		return fmt.Errorf("prediction reference is required")
	}
	if p.Bet != nil && *p.Bet < 0 {
		return fmt.Errorf("prediction bet cannot be negative")
	}

	return nil
}

// BetAmount returns the wager or zero when the prediction carries none.
func (p Prediction) BetAmount() int {
	if p.Bet == nil {
		return 0
	}
	return *p.Bet
}

// SameDefinition reports whether two predictions target the same event in the
// same episode.
func (p Prediction) SameDefinition(other Prediction) bool {
	return p.EpisodeNumber == other.EpisodeNumber && p.EventName == other.EventName && p.Custom == other.Custom
}
