package rules

import (
	"time"

	"github.com/riskibarqy/castaway-fantasy/internal/domain/episode"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/league"
)

// Timing is a window in the season when a prediction may be made.
type Timing string

const (
	TimingDraft           Timing = "Draft"
	TimingWeekly          Timing = "Weekly"
	TimingWeeklyPremerge  Timing = "Weekly (Premerge only)"
	TimingWeeklyPostmerge Timing = "Weekly (Postmerge only)"
	TimingAfterMerge      Timing = "After Merge"
	TimingBeforeFinale    Timing = "Before Finale"
)

var AllTimings = []Timing{
	TimingDraft,
	TimingWeekly,
	TimingWeeklyPremerge,
	TimingWeeklyPostmerge,
	TimingAfterMerge,
	TimingBeforeFinale,
}

func validTiming(value string) bool {
	for _, timing := range AllTimings {
		if string(timing) == value {
			return true
		}
	}
	return false
}

// ActiveTimings returns the prediction windows open right now.
//
// Draft is open while the league drafts and through the first week, until the
// premiere airs. Weekly windows need an upcoming episode and an active league;
// the merge episode's air status decides between pre and post merge. After
// Merge is open the week right after the merge airs and Before Finale the week
// leading into the finale.
func ActiveTimings(key episode.KeyEpisodes, status league.Status, now time.Time) []Timing {
	if status == league.StatusInactive {
		return nil
	}

	out := make([]Timing, 0, 3)
	if status == league.StatusDraft || key.Previous == nil {
		out = append(out, TimingDraft)
	}
	if status != league.StatusActive || key.Next == nil {
		return out
	}

	out = append(out, TimingWeekly)
	merged := key.Merge != nil && key.Merge.AirStatus(now) != episode.StatusUpcoming
	if merged {
		out = append(out, TimingWeeklyPostmerge)
	} else {
		out = append(out, TimingWeeklyPremerge)
	}
	if key.Previous != nil && key.Previous.IsMerge {
		out = append(out, TimingAfterMerge)
	}
	if key.Next.IsFinale {
		out = append(out, TimingBeforeFinale)
	}
	return out
}

// IsEligible reports whether any of the rule's timings is active.
func IsEligible(ruleTimings []Timing, active []Timing) bool {
	for _, want := range ruleTimings {
		for _, have := range active {
			if want == have {
				return true
			}
		}
	}
	return false
}

// Open reports whether betting is open for the upcoming episode.
func (s ShauhinMode) Open(key episode.KeyEpisodes) bool {
	if !s.Enabled || key.Next == nil {
		return false
	}

	switch s.StartWeek {
	case ShauhinAfterPremiere, "":
		return key.Previous != nil
	case ShauhinAfterMerge:
		return key.Merge != nil && key.PreviousNumber() >= key.Merge.EpisodeNumber
	case ShauhinBeforeFinale:
		return key.Next.IsFinale
	case ShauhinCustom:
		return s.CustomStartEpisode > 0 && key.NextNumber() >= s.CustomStartEpisode
	default:
		return false
	}
}
