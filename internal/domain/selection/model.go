package selection

import (
	"errors"
	"fmt"
)

var (
	ErrLockout     = errors.New("castaway is locked out for secondary pick")
	ErrOwnPrimary  = errors.New("secondary pick cannot be the member's own primary castaway")
	ErrNotEnabled  = errors.New("secondary picks are not enabled")
	ErrInvalidPick = errors.New("invalid selection")
)

// None marks an episode index where nobody holds the castaway or the member
// holds nobody.
const None int64 = 0

// Update records that, as of EpisodeNumber, a member's active castaway pick
// changed. Draft marks the initial draft-phase pick.
type Update struct {
	EpisodeNumber int
	MemberID      int64
	CastawayID    int64
	Draft         bool
}

func (u Update) Validate() error {
	if u.EpisodeNumber < 0 {
		return fmt.Errorf("%w: episode number cannot be negative", ErrInvalidPick)
	}
	if u.MemberID <= 0 {
		return fmt.Errorf("%w: member id is required", ErrInvalidPick)
	}
	if u.CastawayID <= 0 {
		return fmt.Errorf("%w: castaway id is required", ErrInvalidPick)
	}

	return nil
}

// SecondaryPick is an optional per-episode second castaway a member designates.
type SecondaryPick struct {
	EpisodeNumber int
	MemberID      int64
	CastawayID    int64
}
