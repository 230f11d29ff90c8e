package episode

import (
	"sort"
	"time"
)

// KeyEpisodes are the episodes that drive draft/active transitions and
// prediction timing. Any of them may be nil.
type KeyEpisodes struct {
	Previous *Episode `json:"previous"`
	Next     *Episode `json:"next"`
	Merge    *Episode `json:"merge"`
}

// ResolveKeyEpisodes walks episodes in episode order. Previous is the last
// aired or airing episode, Next is the first upcoming one and Merge is the last
// episode flagged as the merge regardless of its status.
func ResolveKeyEpisodes(episodes []Episode, now time.Time) KeyEpisodes {
	ordered := append([]Episode(nil), episodes...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].EpisodeNumber < ordered[j].EpisodeNumber
	})

	var out KeyEpisodes
	for idx := range ordered {
		item := ordered[idx]
		switch item.AirStatus(now) {
		case StatusAired, StatusAiring:
			out.Previous = &item
		case StatusUpcoming:
			if out.Next == nil {
				out.Next = &item
			}
		}
		if item.IsMerge {
			out.Merge = &item
		}
	}

	return out
}

// PreviousNumber returns the previous episode number or zero.
func (k KeyEpisodes) PreviousNumber() int {
	if k.Previous == nil {
		return 0
	}
	return k.Previous.EpisodeNumber
}

// NextNumber returns the next episode number or zero.
func (k KeyEpisodes) NextNumber() int {
	if k.Next == nil {
		return 0
	}
	return k.Next.EpisodeNumber
}
