package broadcast

import "sort"

// TribeAssignment places one castaway on a tribe.
type TribeAssignment struct {
	TribeID    int64 `json:"tribeId"`
	CastawayID int64 `json:"castawayId"`
}

// TribesTimeline maps episode number to the tribe assignments made in that
// episode, in event order. A later assignment of the same castaway wins.
type TribesTimeline map[int][]TribeAssignment

// BuildTribesTimeline collects tribeUpdate castaway references by episode in
// the order events are given. An update referencing several tribes assigns
// its castaways to each, the last tribe listed winning.
func BuildTribesTimeline(events []Event) TribesTimeline {
	out := make(TribesTimeline)
	for _, event := range events {
		if event.Name != EventTribeUpdate {
			continue
		}
		for _, tribeID := range event.TribeIDs() {
			for _, castawayID := range event.CastawayIDs() {
				out[event.EpisodeNumber] = append(out[event.EpisodeNumber], TribeAssignment{TribeID: tribeID, CastawayID: castawayID})
			}
		}
	}
	return out
}

// Episodes returns the episode numbers with tribe updates, ascending.
func (t TribesTimeline) Episodes() []int {
	out := make([]int, 0, len(t))
	for episodeNumber := range t {
		out = append(out, episodeNumber)
	}
	sort.Ints(out)
	return out
}

// Assigned returns the castaways moved onto tribeID in exactly that episode.
func (t TribesTimeline) Assigned(episodeNumber int, tribeID int64) []int64 {
	out := make([]int64, 0)
	for _, item := range t[episodeNumber] {
		if item.TribeID == tribeID {
			out = append(out, item.CastawayID)
		}
	}
	return out
}

// TribeOf scans backward from episodeNumber to the most recent assignment of
// the castaway. It returns zero when the castaway has no tribe.
func (t TribesTimeline) TribeOf(castawayID int64, episodeNumber int) int64 {
	episodes := t.Episodes()
	for i := len(episodes) - 1; i >= 0; i-- {
		if episodes[i] > episodeNumber {
			continue
		}
		assignments := t[episodes[i]]
		for j := len(assignments) - 1; j >= 0; j-- {
			if assignments[j].CastawayID == castawayID {
				return assignments[j].TribeID
			}
		}
	}
	return 0
}

// Roster returns the castaways whose latest tribe as of episodeNumber is
// tribeID, ordered by when they first appeared in any tribe.
func (t TribesTimeline) Roster(tribeID int64, episodeNumber int) []int64 {
	current := make(map[int64]int64)
	order := make([]int64, 0)
	for _, ep := range t.Episodes() {
		if ep > episodeNumber {
			break
		}
		for _, item := range t[ep] {
			if _, ok := current[item.CastawayID]; !ok {
				order = append(order, item.CastawayID)
			}
			current[item.CastawayID] = item.TribeID
		}
	}

	out := make([]int64, 0)
	for _, castawayID := range order {
		if current[castawayID] == tribeID {
			out = append(out, castawayID)
		}
	}
	return out
}

// Elimination records which event removed which castaway.
type Elimination struct {
	CastawayID int64 `json:"castawayId"`
	EventID    int64 `json:"eventId"`
}

// Eliminations is indexed by episode number; index 0 is always empty.
type Eliminations [][]Elimination

// BuildEliminations groups elim and noVoteExit castaway references by episode.
// Rows missing a castaway reference or an event id are skipped.
func BuildEliminations(events []Event) Eliminations {
	maxEpisode := 0
	for _, event := range events {
		if IsElimination(event.Name) && event.EpisodeNumber > maxEpisode {
			maxEpisode = event.EpisodeNumber
		}
	}

	out := make(Eliminations, maxEpisode+1)
	for i := range out {
		out[i] = []Elimination{}
	}
	for _, event := range events {
		if !IsElimination(event.Name) || event.ID <= 0 || event.EpisodeNumber <= 0 {
			continue
		}
		for _, castawayID := range event.CastawayIDs() {
			out[event.EpisodeNumber] = append(out[event.EpisodeNumber], Elimination{
				CastawayID: castawayID,
				EventID:    event.ID,
			})
		}
	}
	return out
}

// EliminatedEpisode returns the first episode the castaway was eliminated in,
// or zero when the castaway is still in the game.
func (e Eliminations) EliminatedEpisode(castawayID int64) int {
	for episodeNumber, items := range e {
		for _, item := range items {
			if item.CastawayID == castawayID {
				return episodeNumber
			}
		}
	}
	return 0
}

// EliminatedIn reports whether the castaway was eliminated in episodeNumber.
func (e Eliminations) EliminatedIn(castawayID int64, episodeNumber int) bool {
	if episodeNumber <= 0 || episodeNumber >= len(e) {
		return false
	}
	for _, item := range e[episodeNumber] {
		if item.CastawayID == castawayID {
			return true
		}
	}
	return false
}

// EliminatedBy reports whether the castaway was out of the game by the end of
// episodeNumber.
func (e Eliminations) EliminatedBy(castawayID int64, episodeNumber int) bool {
	ep := e.EliminatedEpisode(castawayID)
	return ep > 0 && ep <= episodeNumber
}
