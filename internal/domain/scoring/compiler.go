package scoring

import (
	"math"
	"sort"
	"time"

	"github.com/riskibarqy/castaway-fantasy/internal/domain/broadcast"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/episode"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/league"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/prediction"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/rules"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/season"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/selection"
	"github.com/riskibarqy/castaway-fantasy/internal/platform/logging"
)

// Input is a consistent snapshot of one league playing one season.
type Input struct {
	Episodes       []episode.Episode
	Castaways      []season.Castaway
	Tribes         []season.Tribe
	Members        []league.Member
	Events         []broadcast.Event
	Updates        []selection.Update
	SecondaryPicks []selection.SecondaryPick
	Predictions    []prediction.Prediction
	Rules          rules.LeagueRules
	Now            time.Time
}

// Scores are cumulative totals per entity; index e is the total through
// episode e and index 0 is always zero.
type Scores struct {
	Castaway map[int64][]int `json:"castaway"`
	Tribe    map[int64][]int `json:"tribe"`
	Member   map[int64][]int `json:"member"`
}

// Output is everything derived from one compilation pass.
type Output struct {
	Episodes        int                         `json:"episodes"`
	Scores          Scores                      `json:"scores"`
	CurrentStreaks  map[int64]int               `json:"currentStreaks"`
	StreakAvailable map[int64]int               `json:"streakAvailable"`
	Streaks         map[int64][]int             `json:"streaks"`
	Eliminations    broadcast.Eliminations      `json:"eliminations"`
	Tribes          broadcast.TribesTimeline    `json:"tribes"`
	Selections      selection.Timelines         `json:"selections"`
	Secondary       selection.SecondaryTimeline `json:"secondary"`
	Advantages      []broadcast.Advantage       `json:"advantages"`
	Events          []EnrichedEvent             `json:"events"`
	Predictions     []PredictionResult          `json:"predictions"`
}

// Current returns the latest cumulative total of a series.
func Current(series []int) int {
	if len(series) == 0 {
		return 0
	}
	return series[len(series)-1]
}

// ScoreAt returns the total through episodeNumber, clamped to the series.
func ScoreAt(series []int, episodeNumber int) int {
	if len(series) == 0 || episodeNumber < 0 {
		return 0
	}
	if episodeNumber >= len(series) {
		return series[len(series)-1]
	}
	return series[episodeNumber]
}

// Compile replays the snapshot episode by episode into cumulative scores. It
// never fails: unresolvable references are logged and contribute nothing.
func Compile(input Input, logger *logging.Logger) Output {
	events := orderEvents(input.Events)
	tribes := broadcast.BuildTribesTimeline(events)
	eliminations := broadcast.BuildEliminations(events)
	selections := selection.BuildTimelines(input.Updates, logger)
	secondary := selection.BuildSecondaryTimeline(input.SecondaryPicks)
	directory := NewDirectory(input.Castaways, input.Tribes, input.Members).WithTribes(tribes)

	ctx := EnrichContext{
		Rules:        input.Rules,
		Tribes:       tribes,
		Eliminations: eliminations,
		Selections:   selections,
		Directory:    directory,
		Logger:       logger,
	}
	enriched := make([]EnrichedEvent, 0, len(events))
	for _, event := range events {
		enriched = append(enriched, EnrichEvent(event, ctx))
	}
	predictions := SettlePredictions(input.Predictions, input.Events, input.Episodes, input.Rules, directory, input.Now, logger)

	total := lastEpisode(input, events)
	c := newCompilation(directory, total)
	for _, memberID := range selections.MemberIDs() {
		if _, ok := directory.Member(memberID); !ok {
			logger.Warn("skip selections of unknown member", "member_id", memberID)
		}
	}

	eventIdx, predictionIdx := 0, 0
	streak := make(map[int64]int)
	for ep := 1; ep <= total; ep++ {
		c.carry(ep)

		castawayDelta := make(map[int64]int)
		for ; eventIdx < len(enriched) && enriched[eventIdx].Event.EpisodeNumber <= ep; eventIdx++ {
			item := enriched[eventIdx]
			if item.Event.EpisodeNumber < ep {
				continue
			}
			points := item.PointsValue()
			if points == 0 {
				continue
			}
			for _, id := range item.Credits.Castaways {
				if c.add(c.scores.Castaway, id, ep, points) {
					castawayDelta[id] += points
				} else {
					logger.Warn("skip points for unknown castaway", "event_id", item.Event.ID, "castaway_id", id, "episode", ep)
				}
			}
			for _, id := range item.Credits.Tribes {
				c.add(c.scores.Tribe, id, ep, points)
			}
			for _, id := range item.Credits.Members {
				c.add(c.scores.Member, id, ep, points)
			}
		}

		for ; predictionIdx < len(predictions) && predictions[predictionIdx].EpisodeNumber <= ep; predictionIdx++ {
			result := predictions[predictionIdx]
			if result.EpisodeNumber < ep {
				continue
			}
			payouts := result.Payouts()
			for _, memberID := range sortedIDs(payouts) {
				if !c.add(c.scores.Member, memberID, ep, payouts[memberID]) {
					logger.Warn("skip payout for unknown member", "member_id", memberID, "episode", ep)
				}
			}
		}

		for _, memberID := range directory.memberIDs() {
			bonus := secondaryBonus(secondary.At(memberID, ep), castawayDelta, input.Rules.Secondary)
			points, next := survival(memberID, ep, streak[memberID], selections, eliminations, input.Rules.Settings)
			streak[memberID] = next
			c.streaks[memberID][ep] = next
			c.add(c.scores.Member, memberID, ep, bonus+points)
		}
	}

	out := Output{
		Episodes:        total,
		Scores:          c.scores,
		CurrentStreaks:  make(map[int64]int, len(c.streaks)),
		StreakAvailable: make(map[int64]int, len(c.streaks)),
		Streaks:         c.streaks,
		Eliminations:    eliminations,
		Tribes:          tribes,
		Selections:      selections,
		Secondary:       secondary,
		Advantages:      broadcast.TrackAdvantages(events, logger),
		Events:          enriched,
		Predictions:     predictions,
	}
	for _, memberID := range directory.memberIDs() {
		current := streak[memberID]
		out.CurrentStreaks[memberID] = current
		out.StreakAvailable[memberID] = input.Rules.Settings.StreakAvailable(current)
	}
	return out
}

// survival returns the survival points a member earns in episodeNumber and the
// streak carried into the next episode.
//
// A castaway switch the member chose resets the streak unless PreserveStreak
// is on. A switch forced by the old castaway's elimination starts over, since
// the elimination already reset the streak. A held castaway eliminated in this
// episode earns nothing and resets the streak.
func survival(
	memberID int64,
	episodeNumber int,
	streak int,
	selections selection.Timelines,
	eliminations broadcast.Eliminations,
	settings rules.Settings,
) (int, int) {
	held := selections.CastawayAt(memberID, episodeNumber)
	if held == selection.None || eliminations.EliminatedBy(held, episodeNumber-1) {
		return 0, 0
	}

	previous := selections.CastawayAt(memberID, episodeNumber-1)
	voluntary := previous != selection.None && previous != held && !eliminations.EliminatedBy(previous, episodeNumber-1)
	if voluntary && !settings.PreserveStreak {
		streak = 0
	}

	if eliminations.EliminatedIn(held, episodeNumber) {
		return 0, 0
	}
	streak++
	return settings.StreakAvailable(streak), streak
}

// secondaryBonus is the share of the secondary castaway's event points the
// member earns this episode.
func secondaryBonus(castawayID int64, castawayDelta map[int64]int, secondary rules.SecondaryPickRules) int {
	if !secondary.Enabled || castawayID == selection.None || secondary.Multiplier <= 0 {
		return 0
	}
	return int(math.Round(float64(castawayDelta[castawayID]) * secondary.Multiplier))
}

type compilation struct {
	scores  Scores
	streaks map[int64][]int
}

func newCompilation(directory Directory, total int) *compilation {
	c := &compilation{
		scores: Scores{
			Castaway: make(map[int64][]int),
			Tribe:    make(map[int64][]int),
			Member:   make(map[int64][]int),
		},
		streaks: make(map[int64][]int),
	}
	for _, id := range directory.castawayIDs() {
		c.scores.Castaway[id] = make([]int, 1, total+1)
	}
	for _, id := range directory.tribeIDs() {
		c.scores.Tribe[id] = make([]int, 1, total+1)
	}
	for _, id := range directory.memberIDs() {
		c.scores.Member[id] = make([]int, 1, total+1)
		c.streaks[id] = make([]int, total+1)
	}
	return c
}

// carry appends episodeNumber's entry to every series, starting from the
// previous cumulative total.
func (c *compilation) carry(episodeNumber int) {
	for _, series := range []map[int64][]int{c.scores.Castaway, c.scores.Tribe, c.scores.Member} {
		for id, values := range series {
			series[id] = append(values, values[episodeNumber-1])
		}
	}
}

func (c *compilation) add(series map[int64][]int, id int64, episodeNumber int, points int) bool {
	values, ok := series[id]
	if !ok {
		return false
	}
	values[episodeNumber] += points
	return true
}

// lastEpisode is the last episode to compile: the most recent aired or airing
// episode, extended by any episode that already has events.
func lastEpisode(input Input, events []broadcast.Event) int {
	key := episode.ResolveKeyEpisodes(input.Episodes, input.Now)
	total := key.PreviousNumber()
	if n := len(events); n > 0 && events[n-1].EpisodeNumber > total {
		total = events[n-1].EpisodeNumber
	}
	return total
}

func orderEvents(events []broadcast.Event) []broadcast.Event {
	out := make([]broadcast.Event, 0, len(events))
	for _, event := range events {
		if event.EpisodeNumber <= 0 {
			continue
		}
		out = append(out, event)
	}
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
