package scoring

import (
	"time"

	"github.com/riskibarqy/castaway-fantasy/internal/domain/broadcast"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/episode"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/league"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/rules"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/season"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/selection"
)

var fixtureNow = time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)

const (
	tribeRed  int64 = 100
	tribeBlue int64 = 200
)

// seasonEpisodes returns episodes 1..total where the first `aired` are over.
func seasonEpisodes(total, aired int) []episode.Episode {
	out := make([]episode.Episode, 0, total)
	for n := 1; n <= total; n++ {
		out = append(out, episode.Episode{
			ID:             int64(n),
			SeasonID:       1,
			EpisodeNumber:  n,
			AirDate:        fixtureNow.Add(time.Duration(n-aired)*7*24*time.Hour - 72*time.Hour),
			RuntimeMinutes: 90,
		})
	}
	return out
}

func fixtureCastaways() []season.Castaway {
	names := []string{"Ana", "Ben", "Cleo", "Dev", "Eli", "Fay", "Gus"}
	out := make([]season.Castaway, 0, len(names))
	for idx, name := range names {
		out = append(out, season.Castaway{ID: int64(idx + 1), SeasonID: 1, FullName: name + " Castaway", ShortName: name})
	}
	return out
}

func fixtureTribes() []season.Tribe {
	return []season.Tribe{
		{ID: tribeRed, SeasonID: 1, Name: "Red", Color: "#ff0000"},
		{ID: tribeBlue, SeasonID: 1, Name: "Blue", Color: "#0000ff"},
	}
}

func fixtureMembers() []league.Member {
	return []league.Member{
		{ID: 10, LeagueID: 1, DisplayName: "Ana's fan", Color: "#111111", Role: league.RoleOwner, DraftOrder: 1},
		{ID: 20, LeagueID: 1, DisplayName: "Ben's fan", Color: "#222222", Role: league.RoleMember, DraftOrder: 2},
		{ID: 30, LeagueID: 1, DisplayName: "Dev's fan", Color: "#333333", Role: league.RoleMember, DraftOrder: 3},
	}
}

func event(id int64, ep int, name broadcast.EventName, refs ...broadcast.Reference) broadcast.Event {
	return broadcast.Event{ID: id, EpisodeNumber: ep, Name: name, References: refs, Sequence: id}
}

// fixtureEvents: Red is 1,2,3 and Blue is 4,5,6. Fay goes home in episode 1,
// Ben in episode 2 and Cleo in episode 3. Gus never joins a tribe.
func fixtureEvents() []broadcast.Event {
	return []broadcast.Event{
		event(1, 1, broadcast.EventTribeUpdate, broadcast.TribeRef(tribeRed), broadcast.CastawayRef(1), broadcast.CastawayRef(2), broadcast.CastawayRef(3)),
		event(2, 1, broadcast.EventTribeUpdate, broadcast.TribeRef(tribeBlue), broadcast.CastawayRef(4), broadcast.CastawayRef(5), broadcast.CastawayRef(6)),
		event(3, 1, broadcast.EventTribe1st, broadcast.TribeRef(tribeRed)),
		event(4, 1, broadcast.EventElim, broadcast.CastawayRef(6)),
		event(5, 2, broadcast.EventAdvFound, broadcast.CastawayRef(1)),
		event(6, 2, broadcast.EventElim, broadcast.CastawayRef(2)),
		{ID: 7, EpisodeNumber: 3, Name: "Confessional", Custom: true, References: []broadcast.Reference{broadcast.CastawayRef(4)}, Sequence: 7},
		event(8, 3, broadcast.EventElim, broadcast.CastawayRef(3)),
	}
}

func fixtureRules() rules.LeagueRules {
	return rules.LeagueRules{
		Base: rules.BaseRules{
			broadcast.EventTribe1st: 2,
			broadcast.EventAdvFound: 3,
		},
		BasePredictions: map[broadcast.EventName]rules.PredictionRule{
			broadcast.EventElim: {Enabled: true, Points: 5, Timing: []rules.Timing{rules.TimingWeekly}},
		},
		Custom: []rules.CustomRule{
			{ID: 1, Name: "Confessional", Kind: rules.CustomDirect, Points: 1},
		},
		Shauhin:  rules.ShauhinMode{Enabled: true, MaxBet: 10},
		Settings: rules.Settings{SurvivalCap: 2},
	}
}

// fixtureUpdates: member 10 keeps Ana, member 20 drafts Ben and is forced onto
// Eli after Ben's elimination, member 30 keeps Dev.
func fixtureUpdates() []selection.Update {
	return []selection.Update{
		{EpisodeNumber: 1, MemberID: 10, CastawayID: 1, Draft: true},
		{EpisodeNumber: 1, MemberID: 20, CastawayID: 2, Draft: true},
		{EpisodeNumber: 1, MemberID: 30, CastawayID: 4, Draft: true},
		{EpisodeNumber: 3, MemberID: 20, CastawayID: 5},
	}
}

func fixtureInput() Input {
	return Input{
		Episodes:  seasonEpisodes(6, 4),
		Castaways: fixtureCastaways(),
		Tribes:    fixtureTribes(),
		Members:   fixtureMembers(),
		Events:    fixtureEvents(),
		Updates:   fixtureUpdates(),
		Rules:     fixtureRules(),
		Now:       fixtureNow,
	}
}

func intPtr(v int) *int {
	return &v
}
