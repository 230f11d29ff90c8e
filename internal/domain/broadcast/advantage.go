package broadcast

import (
	"sort"

	"github.com/riskibarqy/castaway-fantasy/internal/platform/logging"
)

// AdvantageStatus is the lifecycle state of a found advantage.
type AdvantageStatus string

const (
	AdvantageActive     AdvantageStatus = "Active"
	AdvantagePlayed     AdvantageStatus = "Played"
	AdvantageMisplayed  AdvantageStatus = "Misplayed"
	AdvantageEliminated AdvantageStatus = "Eliminated"
)

// Advantage is one advantage found by a castaway. LastUpdated is the replay
// sequence of the most recent event touching it and is the display sort key.
type Advantage struct {
	FoundEventID  int64           `json:"foundEventId"`
	HolderID      int64           `json:"holderId"`
	Name          string          `json:"name"`
	Status        AdvantageStatus `json:"status"`
	FoundEpisode  int             `json:"foundEpisode"`
	LastEpisode   int             `json:"lastEpisode"`
	LastEventName EventName       `json:"lastEventName"`
	LastUpdated   int64           `json:"lastUpdated"`
}

// TrackAdvantages replays advantage events in broadcast order. Plays and
// eliminations resolve against the holder's oldest active advantage with a
// matching label (any label when the event carries none). A play with no
// matching active advantage is logged and ignored.
func TrackAdvantages(events []Event, logger *logging.Logger) []Advantage {
	ordered := orderedEvents(events)

	out := make([]Advantage, 0)
	var seq int64
	for _, event := range ordered {
		switch event.Name {
		case EventAdvFound:
			for _, castawayID := range event.CastawayIDs() {
				seq++
				out = append(out, Advantage{
					FoundEventID:  event.ID,
					HolderID:      castawayID,
					Name:          event.Label,
					Status:        AdvantageActive,
					FoundEpisode:  event.EpisodeNumber,
					LastEpisode:   event.EpisodeNumber,
					LastEventName: event.Name,
					LastUpdated:   seq,
				})
			}
		case EventAdvPlay, EventBadAdvPlay, EventAdvElim:
			castaways := event.CastawayIDs()
			if len(castaways) == 0 {
				logger.Warn("advantage event without castaway", "event_id", event.ID, "episode", event.EpisodeNumber)
				continue
			}
			// The first castaway reference is the holder; the rest are targets.
			holderID := castaways[0]
			idx := findActiveAdvantage(out, holderID, event.Label)
			if idx < 0 {
				logger.Warn("advantage played without having been found",
					"event_id", event.ID,
					"castaway_id", holderID,
					"episode", event.EpisodeNumber,
				)
				continue
			}
			seq++
			out[idx].Status = advantageStatusFor(event.Name)
			out[idx].LastEpisode = event.EpisodeNumber
			out[idx].LastEventName = event.Name
			out[idx].LastUpdated = seq
		case EventElim, EventNoVoteExit:
			for _, castawayID := range event.CastawayIDs() {
				for idx := range out {
					if out[idx].HolderID != castawayID || out[idx].Status != AdvantageActive {
						continue
					}
					seq++
					out[idx].Status = AdvantageEliminated
					out[idx].LastEpisode = event.EpisodeNumber
					out[idx].LastEventName = event.Name
					out[idx].LastUpdated = seq
				}
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastUpdated < out[j].LastUpdated
	})
	return out
}

func advantageStatusFor(name EventName) AdvantageStatus {
	switch name {
	case EventAdvPlay:
		return AdvantagePlayed
	case EventBadAdvPlay:
		return AdvantageMisplayed
	default:
		return AdvantageEliminated
	}
}

func findActiveAdvantage(items []Advantage, holderID int64, label string) int {
	found := -1
	for idx, item := range items {
		if item.HolderID != holderID || item.Status != AdvantageActive {
			continue
		}
		if label != "" && item.Name != "" && item.Name != label {
			continue
		}
		if found < 0 || item.FoundEpisode < items[found].FoundEpisode {
			found = idx
		}
	}
	return found
}

// orderedEvents sorts a copy of events by episode, then sequence, then id.
func orderedEvents(events []Event) []Event {
	out := append([]Event(nil), events...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].EpisodeNumber != out[j].EpisodeNumber {
			return out[i].EpisodeNumber < out[j].EpisodeNumber
		}
		if out[i].Sequence != out[j].Sequence {
			return out[i].Sequence < out[j].Sequence
		}
		return out[i].ID < out[j].ID
	})
	return out
}
