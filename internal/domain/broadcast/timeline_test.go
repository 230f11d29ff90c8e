package broadcast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEliminations(t *testing.T) {
	events := []Event{
		{ID: 1, EpisodeNumber: 1, Name: EventElim, References: []Reference{CastawayRef(10)}},
		{ID: 2, EpisodeNumber: 2, Name: EventElim, References: []Reference{CastawayRef(20)}},
		{ID: 3, EpisodeNumber: 2, Name: EventNoVoteExit, References: []Reference{CastawayRef(21)}},
		{ID: 4, EpisodeNumber: 2, Name: EventElim},
		{ID: 0, EpisodeNumber: 2, Name: EventElim, References: []Reference{CastawayRef(22)}},
		{ID: 5, EpisodeNumber: 2, Name: EventIndivWin, References: []Reference{CastawayRef(23)}},
	}

	got := BuildEliminations(events)

	require.Len(t, got, 3)
	assert.Empty(t, got[0])
	assert.Equal(t, []Elimination{{CastawayID: 10, EventID: 1}}, got[1])
	assert.Equal(t, []Elimination{
		{CastawayID: 20, EventID: 2},
		{CastawayID: 21, EventID: 3},
	}, got[2])

	assert.Equal(t, 1, got.EliminatedEpisode(10))
	assert.Equal(t, 2, got.EliminatedEpisode(21))
	assert.Equal(t, 0, got.EliminatedEpisode(22))
	assert.True(t, got.EliminatedIn(20, 2))
	assert.False(t, got.EliminatedIn(20, 1))
	assert.True(t, got.EliminatedBy(10, 2))
	assert.False(t, got.EliminatedBy(20, 1))
}

func TestBuildTribesTimeline(t *testing.T) {
	events := []Event{
		{ID: 1, EpisodeNumber: 1, Name: EventTribeUpdate, References: []Reference{TribeRef(100), CastawayRef(3), CastawayRef(1)}},
		{ID: 2, EpisodeNumber: 1, Name: EventTribeUpdate, References: []Reference{TribeRef(200), CastawayRef(2), CastawayRef(4)}},
		{ID: 3, EpisodeNumber: 1, Name: EventTribeUpdate, References: []Reference{TribeRef(100), CastawayRef(5)}},
		{ID: 4, EpisodeNumber: 4, Name: EventTribeUpdate, References: []Reference{TribeRef(200), CastawayRef(1)}},
		{ID: 5, EpisodeNumber: 7, Name: EventTribeUpdate, References: []Reference{TribeRef(300), CastawayRef(1), CastawayRef(2), CastawayRef(3)}},
		{ID: 6, EpisodeNumber: 2, Name: EventTribe1st, References: []Reference{TribeRef(100)}},
	}

	timeline := BuildTribesTimeline(events)

	require.Len(t, timeline, 3)
	assert.Equal(t, []int64{3, 1, 5}, timeline.Assigned(1, 100))
	assert.Equal(t, []int64{2, 4}, timeline.Assigned(1, 200))
	assert.Equal(t, []int64{1}, timeline.Assigned(4, 200))
	assert.Equal(t, []int{1, 4, 7}, timeline.Episodes())

	t.Run("tribe of scans backward", func(t *testing.T) {
		assert.Equal(t, int64(100), timeline.TribeOf(1, 3))
		assert.Equal(t, int64(200), timeline.TribeOf(1, 4))
		assert.Equal(t, int64(200), timeline.TribeOf(1, 6))
		assert.Equal(t, int64(300), timeline.TribeOf(1, 9))
		assert.Equal(t, int64(0), timeline.TribeOf(99, 9))
		assert.Equal(t, int64(0), timeline.TribeOf(1, 0))
	})

	t.Run("roster follows swaps", func(t *testing.T) {
		assert.Equal(t, []int64{3, 1, 5}, timeline.Roster(100, 1))
		assert.Equal(t, []int64{3, 5}, timeline.Roster(100, 4))
		assert.Equal(t, []int64{1, 2, 4}, timeline.Roster(200, 5))
		assert.Equal(t, []int64{4}, timeline.Roster(200, 7))
		assert.Equal(t, []int64{3, 1, 2}, timeline.Roster(300, 7))
	})
}

func TestTribesTimeline_LaterAssignmentInEpisodeWins(t *testing.T) {
	tests := []struct {
		name      string
		order     []int64
		wantTribe int64
	}{
		{name: "higher tribe id first", order: []int64{200, 100}, wantTribe: 100},
		{name: "lower tribe id first", order: []int64{100, 200}, wantTribe: 200},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			events := []Event{
				{ID: 1, EpisodeNumber: 1, Name: EventTribeUpdate, References: []Reference{TribeRef(300), CastawayRef(7), CastawayRef(8)}},
			}
			for i, tribeID := range tc.order {
				events = append(events, Event{
					ID:            int64(10 + i),
					EpisodeNumber: 4,
					Name:          EventTribeUpdate,
					References:    []Reference{TribeRef(tribeID), CastawayRef(7)},
				})
			}

			timeline := BuildTribesTimeline(events)
			other := tc.order[0]

			assert.Equal(t, tc.wantTribe, timeline.TribeOf(7, 4))
			assert.Equal(t, []int64{7}, timeline.Roster(tc.wantTribe, 4))
			assert.Empty(t, timeline.Roster(other, 4))
			assert.Equal(t, []int64{8}, timeline.Roster(300, 4))
			assert.Equal(t, int64(300), timeline.TribeOf(7, 3))
		})
	}
}

func TestTrackAdvantages(t *testing.T) {
	events := []Event{
		{ID: 1, EpisodeNumber: 1, Name: EventAdvFound, Label: "Idol", References: []Reference{CastawayRef(1)}},
		{ID: 2, EpisodeNumber: 2, Name: EventAdvFound, Label: "Extra Vote", References: []Reference{CastawayRef(2)}},
		{ID: 3, EpisodeNumber: 3, Name: EventAdvPlay, Label: "Idol", References: []Reference{CastawayRef(1), CastawayRef(4)}},
		{ID: 4, EpisodeNumber: 3, Name: EventAdvPlay, References: []Reference{CastawayRef(7)}},
		{ID: 5, EpisodeNumber: 4, Name: EventAdvFound, Label: "Idol", References: []Reference{CastawayRef(3)}},
		{ID: 6, EpisodeNumber: 5, Name: EventElim, References: []Reference{CastawayRef(2)}},
	}

	got := TrackAdvantages(events, nil)

	require.Len(t, got, 3)
	assert.Equal(t, int64(1), got[0].HolderID)
	assert.Equal(t, AdvantagePlayed, got[0].Status)
	assert.Equal(t, 3, got[0].LastEpisode)

	assert.Equal(t, int64(3), got[1].HolderID)
	assert.Equal(t, AdvantageActive, got[1].Status)

	assert.Equal(t, int64(2), got[2].HolderID)
	assert.Equal(t, AdvantageEliminated, got[2].Status)
	assert.Equal(t, EventElim, got[2].LastEventName)
}
