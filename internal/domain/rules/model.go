package rules

import (
	"errors"
	"math"

	"github.com/riskibarqy/castaway-fantasy/internal/domain/broadcast"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/selection"
)

var ErrInvalidRules = errors.New("invalid league rules")

// MaxSurvivalCap lifts the survival cap entirely.
const MaxSurvivalCap = math.MaxInt32

// CustomKind tells whether a custom rule scores directly or as a prediction.
type CustomKind string

const (
	CustomDirect     CustomKind = "Direct"
	CustomPrediction CustomKind = "Prediction"
)

// BaseRules holds points per base event. Events absent from the map have no
// rule configured.
type BaseRules map[broadcast.EventName]int

// PredictionRule configures predictions on one base event.
type PredictionRule struct {
	Enabled bool     `yaml:"enabled" json:"enabled"`
	Points  int      `yaml:"points" json:"points"`
	Timing  []Timing `yaml:"timing" json:"timing" validate:"dive,timing"`
}

// CustomRule is a league-defined event scored by name.
type CustomRule struct {
	ID             int64                     `yaml:"id" json:"id"`
	Name           string                    `yaml:"name" json:"name" validate:"required,max=64"`
	Description    string                    `yaml:"description" json:"description" validate:"max=256"`
	Points         int                       `yaml:"points" json:"points"`
	Kind           CustomKind                `yaml:"kind" json:"kind" validate:"oneof=Direct Prediction"`
	ReferenceTypes []broadcast.ReferenceType `yaml:"referenceTypes" json:"referenceTypes" validate:"dive,oneof=Castaway Tribe Member"`
	Timing         []Timing                  `yaml:"timing" json:"timing" validate:"dive,timing"`
}

// ShauhinStart is when betting opens for the season.
type ShauhinStart string

const (
	ShauhinAfterPremiere ShauhinStart = "After Premiere"
	ShauhinAfterMerge    ShauhinStart = "After Merge"
	ShauhinBeforeFinale  ShauhinStart = "Before Finale"
	ShauhinCustom        ShauhinStart = "Custom"
)

// ShauhinMode is the optional wagering layer on predictions.
type ShauhinMode struct {
	Enabled            bool                  `yaml:"enabled" json:"enabled"`
	MaxBet             int                   `yaml:"maxBet" json:"maxBet" validate:"gte=0"`
	MaxBetsPerWeek     int                   `yaml:"maxBetsPerWeek" json:"maxBetsPerWeek" validate:"gte=0"`
	StartWeek          ShauhinStart          `yaml:"startWeek" json:"startWeek" validate:"omitempty,shauhinstart"`
	CustomStartEpisode int                   `yaml:"customStartEpisode" json:"customStartEpisode" validate:"gte=0"`
	EnabledBets        []broadcast.EventName `yaml:"enabledBets" json:"enabledBets"`
}

// BetAllowed reports whether predictions on name may carry a bet. An empty
// EnabledBets list allows every event.
func (s ShauhinMode) BetAllowed(name broadcast.EventName) bool {
	if !s.Enabled {
		return false
	}
	if len(s.EnabledBets) == 0 {
		return true
	}
	for _, item := range s.EnabledBets {
		if item == name {
			return true
		}
	}
	return false
}

// SecondaryPickRules configures the optional second pick per episode.
type SecondaryPickRules struct {
	Enabled       bool    `yaml:"enabled" json:"enabled"`
	CanPickOwn    bool    `yaml:"canPickOwn" json:"canPickOwn"`
	LockoutPeriod int     `yaml:"lockoutPeriod" json:"lockoutPeriod" validate:"gte=0,lte=20"`
	PublicPicks   bool    `yaml:"publicPicks" json:"publicPicks"`
	Multiplier    float64 `yaml:"multiplier" json:"multiplier" validate:"gte=0,lte=1"`
}

func (s SecondaryPickRules) Selection() selection.SecondaryRules {
	return selection.SecondaryRules{
		Enabled:       s.Enabled,
		CanPickOwn:    s.CanPickOwn,
		LockoutPeriod: s.LockoutPeriod,
	}
}

// Settings are the survival streak knobs. A zero cap disables survival points.
type Settings struct {
	SurvivalCap    int  `yaml:"survivalCap" json:"survivalCap" validate:"gte=0"`
	PreserveStreak bool `yaml:"preserveStreak" json:"preserveStreak"`
}

// StreakAvailable is the number of points the streak is worth this episode.
func (s Settings) StreakAvailable(streak int) int {
	if s.SurvivalCap <= 0 || streak <= 0 {
		return 0
	}
	return min(streak, s.SurvivalCap)
}

// LeagueRules is the full scoring configuration of a league.
type LeagueRules struct {
	Base            BaseRules                              `yaml:"base" json:"base"`
	BasePredictions map[broadcast.EventName]PredictionRule `yaml:"basePredictions" json:"basePredictions" validate:"dive"`
	Custom          []CustomRule                           `yaml:"custom" json:"custom" validate:"dive"`
	Shauhin         ShauhinMode                            `yaml:"shauhin" json:"shauhin"`
	Secondary       SecondaryPickRules                     `yaml:"secondary" json:"secondary"`
	Settings        Settings                               `yaml:"settings" json:"settings"`
}

// Default returns the rules a new league starts with.
func Default() LeagueRules {
	return LeagueRules{
		Base: BaseRules{
			broadcast.EventAdvFound:     2,
			broadcast.EventAdvPlay:      3,
			broadcast.EventBadAdvPlay:   -3,
			broadcast.EventAdvElim:      -3,
			broadcast.EventSpokeEpTitle: 2,
			broadcast.EventTribe1st:     2,
			broadcast.EventTribe2nd:     1,
			broadcast.EventIndivWin:     10,
			broadcast.EventIndivReward:  5,
			broadcast.EventFinalists:    5,
			broadcast.EventFireWin:      5,
			broadcast.EventSoleSurvivor: 10,
		},
		BasePredictions: map[broadcast.EventName]PredictionRule{},
		Shauhin: ShauhinMode{
			MaxBet:         100,
			MaxBetsPerWeek: 3,
			StartWeek:      ShauhinAfterMerge,
		},
		Secondary: SecondaryPickRules{
			LockoutPeriod: 3,
			Multiplier:    0.5,
		},
		Settings: Settings{
			SurvivalCap:    5,
			PreserveStreak: true,
		},
	}
}

// PointsFor returns the configured points of an event, or nil when the event
// has no rule.
func (r LeagueRules) PointsFor(name broadcast.EventName, custom bool) *int {
	if custom {
		for _, rule := range r.Custom {
			if rule.Name == string(name) && rule.Kind == CustomDirect {
				points := rule.Points
				return &points
			}
		}
		return nil
	}

	points, ok := r.Base[name]
	if !ok {
		return nil
	}
	return &points
}

// PredictionFor returns the prediction rule for an event definition. Custom
// prediction rules are always enabled.
func (r LeagueRules) PredictionFor(name broadcast.EventName, custom bool) (PredictionRule, bool) {
	if custom {
		for _, rule := range r.Custom {
			if rule.Name == string(name) && rule.Kind == CustomPrediction {
				return PredictionRule{Enabled: true, Points: rule.Points, Timing: rule.Timing}, true
			}
		}
		return PredictionRule{}, false
	}

	rule, ok := r.BasePredictions[name]
	if !ok || !rule.Enabled {
		return PredictionRule{}, false
	}
	return rule, true
}
