package selection

import (
	"fmt"
	"sort"
)

// SecondaryRules configures the optional second-pick layer.
type SecondaryRules struct {
	Enabled       bool
	CanPickOwn    bool
	LockoutPeriod int
}

// SecondaryTimeline maps member id to the secondary castaway per episode.
// Unlike primary picks, secondary picks are never carried forward.
type SecondaryTimeline map[int64][]int64

func BuildSecondaryTimeline(picks []SecondaryPick) SecondaryTimeline {
	ordered := append([]SecondaryPick(nil), picks...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].EpisodeNumber < ordered[j].EpisodeNumber
	})

	out := make(SecondaryTimeline)
	for _, pick := range ordered {
		if pick.MemberID == None || pick.EpisodeNumber <= 0 {
			continue
		}
		row := extend(out[pick.MemberID], pick.EpisodeNumber+1)
		row[pick.EpisodeNumber] = pick.CastawayID
		out[pick.MemberID] = row
	}
	return out
}

// At returns the member's secondary castaway in episodeNumber.
func (s SecondaryTimeline) At(memberID int64, episodeNumber int) int64 {
	row := s[memberID]
	if episodeNumber < 0 || episodeNumber >= len(row) {
		return None
	}
	return row[episodeNumber]
}

// ValidateSecondaryPick checks a new secondary pick against the member's own
// primary castaway and the lockout window of earlier secondary picks.
func ValidateSecondaryPick(pick SecondaryPick, history SecondaryTimeline, primary Timelines, rules SecondaryRules) error {
	if !rules.Enabled {
		return ErrNotEnabled
	}
	if pick.MemberID == None || pick.CastawayID == None || pick.EpisodeNumber <= 0 {
		return fmt.Errorf("%w: member, castaway and episode are required", ErrInvalidPick)
	}
	if !rules.CanPickOwn && primary.CastawayAt(pick.MemberID, pick.EpisodeNumber) == pick.CastawayID {
		return ErrOwnPrimary
	}
	if rules.LockoutPeriod <= 0 {
		return nil
	}

	row := history[pick.MemberID]
	for ep := pick.EpisodeNumber - 1; ep >= 1 && ep >= pick.EpisodeNumber-rules.LockoutPeriod; ep-- {
		if ep < len(row) && row[ep] == pick.CastawayID {
			return fmt.Errorf("%w: castaway=%d used in episode %d", ErrLockout, pick.CastawayID, ep)
		}
	}
	return nil
}
