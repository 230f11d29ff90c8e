package selection

import (
	"sort"

	"github.com/riskibarqy/castaway-fantasy/internal/platform/logging"
)

// Timelines are the two dense per-episode views of the same selection
// relation. Index 0 is "before episode 1". Arrays only extend as far as the
// last change; reads past the end return the last known value.
//
// A member whose first update is an in-season swap has no history before it:
// their array starts at that episode and MemberStarts records the offset.
// Members absent from MemberStarts start at index 0.
type Timelines struct {
	MemberCastaways map[int64][]int64 `json:"memberCastaways"`
	MemberStarts    map[int64]int     `json:"memberStarts,omitempty"`
	CastawayMembers map[int64][]int64 `json:"castawayMembers"`
	Conflicts       []Conflict        `json:"conflicts,omitempty"`
}

// Conflict reports two members holding the same castaway at one episode.
type Conflict struct {
	EpisodeNumber int     `json:"episodeNumber"`
	CastawayID    int64   `json:"castawayId"`
	MemberIDs     []int64 `json:"memberIds"`
}

// BuildTimelines replays selection updates into member->castaway and
// castaway->member arrays. Updates are grouped by member and replayed in
// episode order, so the input order only matters between updates of one member
// at the same episode, where the later update wins.
func BuildTimelines(updates []Update, logger *logging.Logger) Timelines {
	byMember := make(map[int64][]Update)
	for _, item := range updates {
		if item.MemberID == None || item.EpisodeNumber < 0 {
			logger.Warn("skip malformed selection update", "member_id", item.MemberID, "episode", item.EpisodeNumber)
			continue
		}
		byMember[item.MemberID] = append(byMember[item.MemberID], item)
	}

	memberIDs := sortedKeys(byMember)
	out := Timelines{
		MemberCastaways: make(map[int64][]int64, len(byMember)),
		MemberStarts:    make(map[int64]int),
		CastawayMembers: make(map[int64][]int64),
	}

	for _, memberID := range memberIDs {
		items := byMember[memberID]
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].EpisodeNumber < items[j].EpisodeNumber
		})
		picks, start := replayMember(memberID, items, logger)
		out.MemberCastaways[memberID] = picks
		if start > 0 {
			out.MemberStarts[memberID] = start
		}
	}

	for _, memberID := range memberIDs {
		out.transposeMember(memberID, logger)
	}

	return out
}

// replayMember returns the member's picks and the episode picks[0] stands
// for. A leading draft pick back-fills from episode 0 with None; a leading
// swap starts at its own episode.
func replayMember(memberID int64, items []Update, logger *logging.Logger) ([]int64, int) {
	var picks []int64
	start := 0
	for idx, item := range items {
		if idx == 0 {
			if item.Draft {
				picks = make([]int64, item.EpisodeNumber+1)
			} else {
				start = item.EpisodeNumber
				picks = make([]int64, 1)
			}
			picks[len(picks)-1] = item.CastawayID
			continue
		}

		last := len(picks) - 1
		if item.EpisodeNumber <= start+last {
			picks[last] = item.CastawayID
			if last > 0 && picks[last-1] == picks[last] {
				picks = picks[:last]
			}
			continue
		}

		current := picks[last]
		if item.CastawayID == current {
			logger.Debug("duplicate selection ignored",
				"member_id", memberID,
				"castaway_id", item.CastawayID,
				"episode", item.EpisodeNumber,
			)
			continue
		}

		for start+len(picks) < item.EpisodeNumber {
			picks = append(picks, current)
		}
		picks = append(picks, item.CastawayID)
	}
	return picks, start
}

func (t *Timelines) transposeMember(memberID int64, logger *logging.Logger) {
	picks := t.MemberCastaways[memberID]
	start := t.MemberStarts[memberID]
	for i, castawayID := range picks {
		episodeNumber := start + i
		if castawayID != None {
			row := extend(t.CastawayMembers[castawayID], episodeNumber+1)
			if holder := row[episodeNumber]; holder != None && holder != memberID {
				t.Conflicts = append(t.Conflicts, Conflict{
					EpisodeNumber: episodeNumber,
					CastawayID:    castawayID,
					MemberIDs:     []int64{holder, memberID},
				})
				logger.Warn("castaway held by two members",
					"castaway_id", castawayID,
					"member_id", memberID,
					"holder_id", holder,
					"episode", episodeNumber,
				)
			}
			row[episodeNumber] = memberID
			t.CastawayMembers[castawayID] = row
		}

		if i == 0 {
			continue
		}
		// Dropped castaways read None from this episode unless another member
		// already picked them up here.
		previous := picks[i-1]
		if previous != None && previous != castawayID {
			t.CastawayMembers[previous] = extend(t.CastawayMembers[previous], episodeNumber+1)
		}
	}
}

// CastawayAt returns the castaway the member held at episodeNumber.
// Episodes before the member's first observed update read None.
func (t Timelines) CastawayAt(memberID int64, episodeNumber int) int64 {
	start := t.MemberStarts[memberID]
	if episodeNumber < start {
		return None
	}
	return valueAt(t.MemberCastaways[memberID], episodeNumber-start)
}

// Observed reports whether the member's history covers episodeNumber.
func (t Timelines) Observed(memberID int64, episodeNumber int) bool {
	row, ok := t.MemberCastaways[memberID]
	return ok && len(row) > 0 && episodeNumber >= t.MemberStarts[memberID]
}

// MemberAt returns the member holding the castaway at episodeNumber.
func (t Timelines) MemberAt(castawayID int64, episodeNumber int) int64 {
	return valueAt(t.CastawayMembers[castawayID], episodeNumber)
}

// MemberIDs returns every member with at least one selection, ascending.
func (t Timelines) MemberIDs() []int64 {
	return sortedKeys(t.MemberCastaways)
}

func valueAt(row []int64, episodeNumber int) int64 {
	if len(row) == 0 || episodeNumber < 0 {
		return None
	}
	idx := episodeNumber
	if last := len(row) - 1; idx > last {
		idx = last
	}
	return row[idx]
}

func extend(row []int64, length int) []int64 {
	for len(row) < length {
		row = append(row, None)
	}
	return row
}

func sortedKeys[V any](in map[int64]V) []int64 {
	out := make([]int64, 0, len(in))
	for key := range in {
		out = append(out, key)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
