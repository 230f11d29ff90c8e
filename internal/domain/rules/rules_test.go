package rules

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/castaway-fantasy/internal/domain/broadcast"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/episode"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/league"
)

var now = time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

// weekly builds a season where the first `aired` episodes are over and the
// rest air on following weeks.
func weekly(total, aired, merge, finale int) []episode.Episode {
	out := make([]episode.Episode, 0, total)
	for n := 1; n <= total; n++ {
		out = append(out, episode.Episode{
			ID:             int64(n),
			EpisodeNumber:  n,
			AirDate:        now.Add(time.Duration(n-aired)*7*24*time.Hour - 72*time.Hour),
			RuntimeMinutes: 90,
			IsMerge:        n == merge,
			IsFinale:       n == finale,
		})
	}
	return out
}

func TestActiveTimings(t *testing.T) {
	tests := []struct {
		name   string
		aired  int
		status league.Status
		want   []Timing
	}{
		{name: "drafting", aired: 0, status: league.StatusDraft, want: []Timing{TimingDraft}},
		{name: "first week", aired: 0, status: league.StatusActive, want: []Timing{TimingDraft, TimingWeekly, TimingWeeklyPremerge}},
		{name: "premerge week", aired: 3, status: league.StatusActive, want: []Timing{TimingWeekly, TimingWeeklyPremerge}},
		{name: "week after merge", aired: 5, status: league.StatusActive, want: []Timing{TimingWeekly, TimingWeeklyPostmerge, TimingAfterMerge}},
		{name: "postmerge week", aired: 7, status: league.StatusActive, want: []Timing{TimingWeekly, TimingWeeklyPostmerge}},
		{name: "finale week", aired: 12, status: league.StatusActive, want: []Timing{TimingWeekly, TimingWeeklyPostmerge, TimingBeforeFinale}},
		{name: "season over", aired: 13, status: league.StatusActive, want: []Timing{}},
		{name: "inactive", aired: 3, status: league.StatusInactive, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := episode.ResolveKeyEpisodes(weekly(13, tt.aired, 5, 13), now)
			got := ActiveTimings(key, tt.status, now)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestIsEligible(t *testing.T) {
	active := []Timing{TimingWeekly, TimingWeeklyPremerge}

	if !IsEligible([]Timing{TimingDraft, TimingWeeklyPremerge}, active) {
		t.Fatalf("expected premerge rule to be eligible")
	}
	if IsEligible([]Timing{TimingAfterMerge}, active) {
		t.Fatalf("after merge rule must not be eligible before the merge")
	}
	if IsEligible(nil, active) {
		t.Fatalf("rule without timings must never be eligible")
	}
}

func TestShauhinModeOpen(t *testing.T) {
	premerge := episode.ResolveKeyEpisodes(weekly(13, 3, 5, 13), now)
	postmerge := episode.ResolveKeyEpisodes(weekly(13, 6, 5, 13), now)
	finale := episode.ResolveKeyEpisodes(weekly(13, 12, 5, 13), now)

	tests := []struct {
		name string
		mode ShauhinMode
		key  episode.KeyEpisodes
		want bool
	}{
		{name: "disabled", mode: ShauhinMode{StartWeek: ShauhinAfterPremiere}, key: premerge, want: false},
		{name: "after premiere", mode: ShauhinMode{Enabled: true, StartWeek: ShauhinAfterPremiere}, key: premerge, want: true},
		{name: "after merge early", mode: ShauhinMode{Enabled: true, StartWeek: ShauhinAfterMerge}, key: premerge, want: false},
		{name: "after merge", mode: ShauhinMode{Enabled: true, StartWeek: ShauhinAfterMerge}, key: postmerge, want: true},
		{name: "before finale early", mode: ShauhinMode{Enabled: true, StartWeek: ShauhinBeforeFinale}, key: postmerge, want: false},
		{name: "before finale", mode: ShauhinMode{Enabled: true, StartWeek: ShauhinBeforeFinale}, key: finale, want: true},
		{name: "custom", mode: ShauhinMode{Enabled: true, StartWeek: ShauhinCustom, CustomStartEpisode: 4}, key: premerge, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mode.Open(tt.key); got != tt.want {
				t.Fatalf("unexpected open state: got=%v want=%v", got, tt.want)
			}
		})
	}
}

func TestShauhinModeBetAllowed(t *testing.T) {
	mode := ShauhinMode{Enabled: true, EnabledBets: []broadcast.EventName{broadcast.EventIndivWin}}
	assert.True(t, mode.BetAllowed(broadcast.EventIndivWin))
	assert.False(t, mode.BetAllowed(broadcast.EventElim))

	mode.EnabledBets = nil
	assert.True(t, mode.BetAllowed(broadcast.EventElim))
}

func TestSettingsStreakAvailable(t *testing.T) {
	settings := Settings{SurvivalCap: 2}
	assert.Equal(t, 0, settings.StreakAvailable(0))
	assert.Equal(t, 1, settings.StreakAvailable(1))
	assert.Equal(t, 2, settings.StreakAvailable(7))

	assert.Equal(t, 0, Settings{}.StreakAvailable(7))
	assert.Equal(t, 40, Settings{SurvivalCap: MaxSurvivalCap}.StreakAvailable(40))
}

func TestParse(t *testing.T) {
	got, err := Parse([]byte(`
base:
  indivWin: 8
basePredictions:
  soleSurvivor:
    enabled: true
    points: 15
    timing: [Draft, Before Finale]
custom:
  - name: Confessional
    kind: Direct
    points: 1
  - name: FirstBoot
    kind: Prediction
    points: 4
    referenceTypes: [Castaway]
    timing: [Draft]
settings:
  survivalCap: 3
  preserveStreak: false
`))
	require.NoError(t, err)

	assert.Equal(t, 8, got.Base[broadcast.EventIndivWin])
	assert.Equal(t, 2, got.Base[broadcast.EventAdvFound], "defaults survive partial overrides")
	assert.Equal(t, Settings{SurvivalCap: 3}, got.Settings)

	points := got.PointsFor("Confessional", true)
	require.NotNil(t, points)
	assert.Equal(t, 1, *points)
	assert.Nil(t, got.PointsFor("FirstBoot", true))
	assert.Nil(t, got.PointsFor(broadcast.EventTribeUpdate, false))

	prediction, ok := got.PredictionFor("FirstBoot", true)
	require.True(t, ok)
	assert.Equal(t, 4, prediction.Points)
	assert.Equal(t, []Timing{TimingDraft}, prediction.Timing)

	prediction, ok = got.PredictionFor(broadcast.EventSoleSurvivor, false)
	require.True(t, ok)
	assert.Equal(t, []Timing{TimingDraft, TimingBeforeFinale}, prediction.Timing)

	_, ok = got.PredictionFor(broadcast.EventIndivWin, false)
	assert.False(t, ok)
}

func TestParseEmptyReturnsDefaults(t *testing.T) {
	got, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), got)
}

func TestParseRejectsInvalidRules(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "unknown timing", yaml: "basePredictions:\n  elim:\n    enabled: true\n    timing: [Monthly]\n"},
		{name: "unknown field", yaml: "survival: 3\n"},
		{name: "negative cap", yaml: "settings:\n  survivalCap: -1\n"},
		{name: "unknown base event", yaml: "base:\n  hugged: 3\n"},
		{name: "custom shadows base", yaml: "custom:\n  - name: elim\n    kind: Direct\n"},
		{name: "duplicate custom", yaml: "custom:\n  - name: Cry\n    kind: Direct\n  - name: Cry\n    kind: Direct\n"},
		{name: "custom prediction without timing", yaml: "custom:\n  - name: Cry\n    kind: Prediction\n"},
		{name: "custom start without episode", yaml: "shauhin:\n  startWeek: Custom\n"},
		{name: "multiplier above one", yaml: "secondary:\n  multiplier: 1.5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if !errors.Is(err, ErrInvalidRules) {
				t.Fatalf("expected ErrInvalidRules, got %v", err)
			}
		})
	}
}
