package scoring

import (
	"sort"

	"github.com/riskibarqy/castaway-fantasy/internal/domain/broadcast"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/rules"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/selection"
	"github.com/riskibarqy/castaway-fantasy/internal/platform/logging"
)

// NoTribe groups referenced castaways that are on no tribe at the episode.
const NoTribe int64 = 0

// TribeRoster lists castaways under one tribe, or under NoTribe.
type TribeRoster struct {
	TribeID   int64   `json:"tribeId"`
	Castaways []int64 `json:"castaways"`
}

// CastawayOwner is a referenced castaway with its tribe and controlling
// member at the event's episode.
type CastawayOwner struct {
	CastawayID int64 `json:"castawayId"`
	TribeID    int64 `json:"tribeId"`
	MemberID   int64 `json:"memberId"`
}

// Credits are the distinct entities an event's points go to.
type Credits struct {
	Castaways []int64 `json:"castaways"`
	Tribes    []int64 `json:"tribes"`
	Members   []int64 `json:"members"`
}

// EnrichedEvent is a broadcast event with its points and ownership resolved.
// Points is nil when the league has no rule for the event.
type EnrichedEvent struct {
	Event     broadcast.Event `json:"event"`
	Points    *int            `json:"points"`
	Tribes    []TribeRoster   `json:"tribes"`
	Castaways []CastawayOwner `json:"castaways"`
	ByTribe   []TribeRoster   `json:"byTribe"`
	Credits   Credits         `json:"credits"`
}

// PointsValue returns the points or zero when no rule is configured.
func (e EnrichedEvent) PointsValue() int {
	if e.Points == nil {
		return 0
	}
	return *e.Points
}

// EnrichContext is the season and league state an event is enriched against.
type EnrichContext struct {
	Rules        rules.LeagueRules
	Tribes       broadcast.TribesTimeline
	Eliminations broadcast.Eliminations
	Selections   selection.Timelines
	Directory    Directory
	Logger       *logging.Logger
}

// EnrichEvent resolves the event's points, the rosters of referenced tribes,
// the owner and tribe of referenced castaways and the distinct entities that
// are credited. Unresolvable references are logged and left out.
func EnrichEvent(event broadcast.Event, ctx EnrichContext) EnrichedEvent {
	ep := event.EpisodeNumber
	out := EnrichedEvent{
		Event:     event,
		Points:    ctx.Rules.PointsFor(event.Name, event.Custom),
		Tribes:    make([]TribeRoster, 0),
		Castaways: make([]CastawayOwner, 0),
		ByTribe:   make([]TribeRoster, 0),
	}

	credits := newCreditSet()
	grouped := make(map[int64][]int64)
	for _, ref := range event.References {
		if !ctx.Directory.Resolves(ref) {
			ctx.Logger.Warn("skip unresolved event reference",
				"event_id", event.ID,
				"episode", ep,
				"reference", ref.String(),
			)
			continue
		}

		switch ref.Type {
		case broadcast.RefCastaway:
			tribeID := ctx.Tribes.TribeOf(ref.ID, ep)
			memberID := ctx.Selections.MemberAt(ref.ID, ep)
			out.Castaways = append(out.Castaways, CastawayOwner{
				CastawayID: ref.ID,
				TribeID:    tribeID,
				MemberID:   memberID,
			})
			grouped[tribeID] = append(grouped[tribeID], ref.ID)
			credits.castaway(ref.ID)
			credits.member(ctx, memberID, event)
		case broadcast.RefTribe:
			roster := activeRoster(ctx, ref.ID, ep)
			out.Tribes = append(out.Tribes, TribeRoster{TribeID: ref.ID, Castaways: roster})
			credits.tribe(ref.ID)
			for _, castawayID := range roster {
				credits.castaway(castawayID)
				credits.member(ctx, ctx.Selections.MemberAt(castawayID, ep), event)
			}
		case broadcast.RefMember:
			credits.member(ctx, ref.ID, event)
		}
	}

	tribeIDs := make([]int64, 0, len(grouped))
	for tribeID := range grouped {
		tribeIDs = append(tribeIDs, tribeID)
	}
	sort.Slice(tribeIDs, func(i, j int) bool {
		// NoTribe sorts last.
		if (tribeIDs[i] == NoTribe) != (tribeIDs[j] == NoTribe) {
			return tribeIDs[j] == NoTribe
		}
		return tribeIDs[i] < tribeIDs[j]
	})
	for _, tribeID := range tribeIDs {
		out.ByTribe = append(out.ByTribe, TribeRoster{TribeID: tribeID, Castaways: grouped[tribeID]})
	}

	out.Credits = credits.sorted()
	return out
}

// activeRoster is the tribe roster at the episode without castaways eliminated
// in earlier episodes. Castaways voted out in this episode still count.
func activeRoster(ctx EnrichContext, tribeID int64, episodeNumber int) []int64 {
	roster := ctx.Tribes.Roster(tribeID, episodeNumber)
	out := make([]int64, 0, len(roster))
	for _, castawayID := range roster {
		if ctx.Eliminations.EliminatedBy(castawayID, episodeNumber-1) {
			continue
		}
		out = append(out, castawayID)
	}
	return out
}

type creditSet struct {
	castaways map[int64]struct{}
	tribes    map[int64]struct{}
	members   map[int64]struct{}
}

func newCreditSet() creditSet {
	return creditSet{
		castaways: make(map[int64]struct{}),
		tribes:    make(map[int64]struct{}),
		members:   make(map[int64]struct{}),
	}
}

func (c creditSet) castaway(id int64) {
	c.castaways[id] = struct{}{}
}

func (c creditSet) tribe(id int64) {
	c.tribes[id] = struct{}{}
}

func (c creditSet) member(ctx EnrichContext, id int64, event broadcast.Event) {
	if id == selection.None {
		return
	}
	if _, ok := ctx.Directory.Member(id); !ok {
		ctx.Logger.Warn("skip unknown member credit",
			"event_id", event.ID,
			"episode", event.EpisodeNumber,
			"member_id", id,
		)
		return
	}
	c.members[id] = struct{}{}
}

func (c creditSet) sorted() Credits {
	return Credits{
		Castaways: sortedIDs(c.castaways),
		Tribes:    sortedIDs(c.tribes),
		Members:   sortedIDs(c.members),
	}
}

func sortedIDs[V any](in map[int64]V) []int64 {
	out := make([]int64, 0, len(in))
	for id := range in {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
