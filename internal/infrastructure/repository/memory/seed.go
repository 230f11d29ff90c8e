package memory

import (
	"time"

	"github.com/riskibarqy/castaway-fantasy/internal/domain/broadcast"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/episode"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/league"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/rules"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/season"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/selection"
)

const (
	SeasonIDDemo int64 = 1

	LeagueIDDemo     int64 = 1
	LeagueIDDrafting int64 = 2

	TribeIDLavo   int64 = 10
	TribeIDManu   int64 = 20
	TribeIDSolana int64 = 30
)

// Repositories bundles in-memory stores for every repository interface.
type Repositories struct {
	Leagues     *LeagueRepository
	Seasons     *SeasonRepository
	Episodes    *EpisodeRepository
	Events      *EventRepository
	Selections  *SelectionRepository
	Predictions *PredictionRepository
	Rules       *RulesRepository
}

// NewSeeded returns stores holding the demo season with its premiere at the
// given time.
func NewSeeded(premiere time.Time) Repositories {
	repos := Repositories{
		Leagues:     NewLeagueRepository(SeedLeagues(), SeedMembers()),
		Seasons:     NewSeasonRepository(SeedCastaways(), SeedTribes()),
		Episodes:    NewEpisodeRepository(SeedEpisodes(premiere)),
		Events:      NewEventRepository(),
		Selections:  NewSelectionRepository(),
		Predictions: NewPredictionRepository(),
		Rules:       NewRulesRepository(),
	}
	repos.Events.AddSeasonEvents(SeasonIDDemo, SeedEvents()...)
	repos.Events.AddLeagueEvents(LeagueIDDemo, SeedCustomEvents()...)
	for _, update := range SeedUpdates() {
		repos.Selections.updates[LeagueIDDemo] = append(repos.Selections.updates[LeagueIDDemo], update)
	}
	repos.Rules.items[LeagueIDDemo] = SeedRules()
	return repos
}

// SeedEpisodes is a six-episode season airing weekly from premiere. Episode
// four is the merge.
func SeedEpisodes(premiere time.Time) []episode.Episode {
	titles := []string{
		"Sand in Every Pocket",
		"The Tide Turns",
		"Idol Hands",
		"One Tribe",
		"Blindside Season",
		"Final Flame",
	}

	out := make([]episode.Episode, 0, len(titles))
	for idx, title := range titles {
		n := idx + 1
		runtime := 90
		if n == len(titles) {
			runtime = 180
		}
		out = append(out, episode.Episode{
			ID:             int64(n),
			SeasonID:       SeasonIDDemo,
			EpisodeNumber:  n,
			Title:          title,
			AirDate:        premiere.Add(time.Duration(idx) * 7 * 24 * time.Hour),
			RuntimeMinutes: runtime,
			IsMerge:        n == 4,
			IsFinale:       n == len(titles),
		})
	}
	return out
}

func SeedCastaways() []season.Castaway {
	return []season.Castaway{
		{ID: 1, SeasonID: SeasonIDDemo, FullName: "Ana Reyes", ShortName: "Ana", Age: 29, Occupation: "Paramedic"},
		{ID: 2, SeasonID: SeasonIDDemo, FullName: "Ben Okafor", ShortName: "Ben", Age: 41, Occupation: "Carpenter"},
		{ID: 3, SeasonID: SeasonIDDemo, FullName: "Cleo Park", ShortName: "Cleo", Age: 24, Occupation: "Grad Student"},
		{ID: 4, SeasonID: SeasonIDDemo, FullName: "Dev Patel", ShortName: "Dev", Age: 35, Occupation: "Chef"},
		{ID: 5, SeasonID: SeasonIDDemo, FullName: "Eli Moss", ShortName: "Eli", Age: 31, Occupation: "Firefighter"},
		{ID: 6, SeasonID: SeasonIDDemo, FullName: "Fay Lin", ShortName: "Fay", Age: 27, Occupation: "Lawyer"},
		{ID: 7, SeasonID: SeasonIDDemo, FullName: "Gus Hale", ShortName: "Gus", Age: 52, Occupation: "Fisherman"},
		{ID: 8, SeasonID: SeasonIDDemo, FullName: "Hana Ito", ShortName: "Hana", Age: 22, Occupation: "Barista"},
	}
}

func SeedTribes() []season.Tribe {
	return []season.Tribe{
		{ID: TribeIDLavo, SeasonID: SeasonIDDemo, Name: "Lavo", Color: "#e4572e"},
		{ID: TribeIDManu, SeasonID: SeasonIDDemo, Name: "Manu", Color: "#2e86ab"},
		{ID: TribeIDSolana, SeasonID: SeasonIDDemo, Name: "Solana", Color: "#f4d35e"},
	}
}

// SeedEvents covers the first four episodes: starting tribes, three pre-merge
// boots, an idol found and played, the merge and an immunity win.
func SeedEvents() []broadcast.Event {
	return []broadcast.Event{
		seedEvent(101, 1, broadcast.EventTribeUpdate, "", broadcast.TribeRef(TribeIDLavo),
			broadcast.CastawayRef(1), broadcast.CastawayRef(2), broadcast.CastawayRef(3), broadcast.CastawayRef(4)),
		seedEvent(102, 1, broadcast.EventTribeUpdate, "", broadcast.TribeRef(TribeIDManu),
			broadcast.CastawayRef(5), broadcast.CastawayRef(6), broadcast.CastawayRef(7), broadcast.CastawayRef(8)),
		seedEvent(103, 1, broadcast.EventTribe1st, "", broadcast.TribeRef(TribeIDLavo)),
		seedEvent(104, 1, broadcast.EventElim, "", broadcast.CastawayRef(8)),
		seedEvent(105, 2, broadcast.EventAdvFound, "Idol", broadcast.CastawayRef(3)),
		seedEvent(106, 2, broadcast.EventTribe1st, "", broadcast.TribeRef(TribeIDManu)),
		seedEvent(107, 2, broadcast.EventElim, "", broadcast.CastawayRef(4)),
		seedEvent(108, 3, broadcast.EventTribe1st, "", broadcast.TribeRef(TribeIDLavo)),
		seedEvent(109, 3, broadcast.EventAdvPlay, "Idol", broadcast.CastawayRef(3)),
		seedEvent(110, 3, broadcast.EventElim, "", broadcast.CastawayRef(6)),
		seedEvent(111, 4, broadcast.EventTribeUpdate, "", broadcast.TribeRef(TribeIDSolana),
			broadcast.CastawayRef(1), broadcast.CastawayRef(2), broadcast.CastawayRef(3), broadcast.CastawayRef(5), broadcast.CastawayRef(7)),
		seedEvent(112, 4, broadcast.EventIndivWin, "", broadcast.CastawayRef(5)),
		seedEvent(113, 4, broadcast.EventElim, "", broadcast.CastawayRef(2)),
	}
}

// SeedCustomEvents are scored by the demo league's custom rules only.
func SeedCustomEvents() []broadcast.Event {
	return []broadcast.Event{
		seedEvent(201, 4, "Confessional", "Narrated the merge feast", broadcast.CastawayRef(1)),
	}
}

func SeedLeagues() []league.League {
	return []league.League{
		{ID: LeagueIDDemo, Hash: "demo-island", Name: "Demo Island", SeasonID: SeasonIDDemo, Status: league.StatusActive},
		{ID: LeagueIDDrafting, Hash: "late-drafters", Name: "Late Drafters", SeasonID: SeasonIDDemo, Status: league.StatusDraft},
	}
}

func SeedMembers() []league.Member {
	return []league.Member{
		{ID: 1, LeagueID: LeagueIDDemo, DisplayName: "Riley", Color: "#8338ec", Role: league.RoleOwner, DraftOrder: 1},
		{ID: 2, LeagueID: LeagueIDDemo, DisplayName: "Sam", Color: "#ff006e", Role: league.RoleAdmin, DraftOrder: 2},
		{ID: 3, LeagueID: LeagueIDDemo, DisplayName: "Jordan", Color: "#3a86ff", Role: league.RoleMember, DraftOrder: 3},
		{ID: 4, LeagueID: LeagueIDDrafting, DisplayName: "Casey", Color: "#fb5607", Role: league.RoleOwner, DraftOrder: 1},
		{ID: 5, LeagueID: LeagueIDDrafting, DisplayName: "Morgan", Color: "#ffbe0b", Role: league.RoleMember, DraftOrder: 2},
	}
}

// SeedUpdates are the demo league's draft picks before the premiere.
func SeedUpdates() []selection.Update {
	return []selection.Update{
		{EpisodeNumber: 1, MemberID: 1, CastawayID: 1, Draft: true},
		{EpisodeNumber: 1, MemberID: 2, CastawayID: 3, Draft: true},
		{EpisodeNumber: 1, MemberID: 3, CastawayID: 5, Draft: true},
	}
}

// SeedRules are the default rules with elimination predictions, one custom
// event, betting and secondary picks switched on.
func SeedRules() rules.LeagueRules {
	out := rules.Default()
	out.BasePredictions[broadcast.EventElim] = rules.PredictionRule{
		Enabled: true,
		Points:  3,
		Timing:  []rules.Timing{rules.TimingWeekly},
	}
	out.Custom = []rules.CustomRule{
		{ID: 1, Name: "Confessional", Description: "Narrates a confessional", Points: 1, Kind: rules.CustomDirect},
		{
			ID:             2,
			Name:           "Next Idol",
			Description:    "Finds the next hidden immunity idol",
			Points:         4,
			Kind:           rules.CustomPrediction,
			ReferenceTypes: []broadcast.ReferenceType{broadcast.RefCastaway},
			Timing:         []rules.Timing{rules.TimingWeeklyPostmerge},
		},
	}
	out.Shauhin = rules.ShauhinMode{
		Enabled:        true,
		MaxBet:         20,
		MaxBetsPerWeek: 2,
		StartWeek:      rules.ShauhinAfterPremiere,
	}
	out.Secondary = rules.SecondaryPickRules{
		Enabled:       true,
		LockoutPeriod: 2,
		Multiplier:    0.5,
	}
	return out
}

func seedEvent(id int64, episodeNumber int, name broadcast.EventName, label string, refs ...broadcast.Reference) broadcast.Event {
	return broadcast.Event{
		ID:            id,
		EpisodeNumber: episodeNumber,
		Name:          name,
		Label:         label,
		References:    refs,
		Sequence:      id,
	}
}
