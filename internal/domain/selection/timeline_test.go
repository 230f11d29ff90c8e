package selection

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTimelines_DraftThenSwap(t *testing.T) {
	got := BuildTimelines([]Update{
		{EpisodeNumber: 5, MemberID: 10, CastawayID: 2, Draft: false},
		{EpisodeNumber: 1, MemberID: 10, CastawayID: 1, Draft: true},
	}, nil)

	assert.Equal(t, []int64{0, 1, 1, 1, 1, 2}, got.MemberCastaways[10])
	assert.Equal(t, []int64{0, 10, 10, 10, 10, 0}, got.CastawayMembers[1])
	assert.Equal(t, []int64{0, 0, 0, 0, 0, 10}, got.CastawayMembers[2])
	assert.Empty(t, got.Conflicts)
	assertInverse(t, got)
}

func TestBuildTimelines_DraftBackfillsAndSwapDoesNot(t *testing.T) {
	got := BuildTimelines([]Update{
		{EpisodeNumber: 3, MemberID: 10, CastawayID: 1, Draft: true},
		{EpisodeNumber: 4, MemberID: 20, CastawayID: 5, Draft: false},
		{EpisodeNumber: 6, MemberID: 20, CastawayID: 2},
	}, nil)

	assert.Equal(t, []int64{0, 0, 0, 1}, got.MemberCastaways[10])
	_, hasStart := got.MemberStarts[10]
	assert.False(t, hasStart)
	assert.True(t, got.Observed(10, 0))

	assert.Equal(t, []int64{5, 5, 2}, got.MemberCastaways[20])
	assert.Equal(t, 4, got.MemberStarts[20])
	assert.False(t, got.Observed(20, 3))
	assert.True(t, got.Observed(20, 4))
	assert.Equal(t, None, got.CastawayAt(20, 3))
	assert.Equal(t, int64(5), got.CastawayAt(20, 4))
	assert.Equal(t, int64(5), got.CastawayAt(20, 5))
	assert.Equal(t, int64(2), got.CastawayAt(20, 9))

	assert.Equal(t, []int64{0, 0, 0, 0, 20, 20, 0}, got.CastawayMembers[5])
	assert.Equal(t, []int64{0, 0, 0, 0, 0, 0, 20}, got.CastawayMembers[2])
	assertInverse(t, got)
}

func TestBuildTimelines_SwapFirstThenSameEpisodeOverwrite(t *testing.T) {
	got := BuildTimelines([]Update{
		{EpisodeNumber: 2, MemberID: 10, CastawayID: 4},
		{EpisodeNumber: 2, MemberID: 10, CastawayID: 6},
		{EpisodeNumber: 3, MemberID: 10, CastawayID: 6},
	}, nil)

	assert.Equal(t, []int64{6}, got.MemberCastaways[10])
	assert.Equal(t, 2, got.MemberStarts[10])
	assert.Equal(t, int64(6), got.CastawayAt(10, 3))
	_, exists := got.CastawayMembers[4]
	assert.False(t, exists)
	assertInverse(t, got)
}

func TestBuildTimelines_DuplicateIsNoop(t *testing.T) {
	got := BuildTimelines([]Update{
		{EpisodeNumber: 1, MemberID: 10, CastawayID: 1, Draft: true},
		{EpisodeNumber: 6, MemberID: 10, CastawayID: 1},
	}, nil)

	assert.Equal(t, []int64{0, 1}, got.MemberCastaways[10])
	assert.Equal(t, int64(1), got.CastawayAt(10, 6))
	assert.Equal(t, int64(10), got.MemberAt(1, 9))
}

func TestBuildTimelines_SameEpisodeOverwrite(t *testing.T) {
	got := BuildTimelines([]Update{
		{EpisodeNumber: 2, MemberID: 10, CastawayID: 1, Draft: true},
		{EpisodeNumber: 2, MemberID: 10, CastawayID: 3, Draft: true},
	}, nil)

	assert.Equal(t, []int64{0, 0, 3}, got.MemberCastaways[10])
	assert.Equal(t, []int64{0, 0, 10}, got.CastawayMembers[3])
	_, exists := got.CastawayMembers[1]
	assert.False(t, exists)
}

func TestBuildTimelines_TradeAcrossMembers(t *testing.T) {
	got := BuildTimelines([]Update{
		{EpisodeNumber: 4, MemberID: 20, CastawayID: 1},
		{EpisodeNumber: 1, MemberID: 10, CastawayID: 1, Draft: true},
		{EpisodeNumber: 1, MemberID: 20, CastawayID: 3, Draft: true},
		{EpisodeNumber: 3, MemberID: 10, CastawayID: 2},
	}, nil)

	assert.Equal(t, []int64{0, 1, 1, 2}, got.MemberCastaways[10])
	assert.Equal(t, []int64{0, 3, 3, 3, 1}, got.MemberCastaways[20])
	assert.Equal(t, []int64{0, 10, 10, 0, 20}, got.CastawayMembers[1])
	assert.Equal(t, []int64{0, 20, 20, 20, 0}, got.CastawayMembers[3])
	assert.Equal(t, []int64{0, 0, 0, 10}, got.CastawayMembers[2])
	assert.Empty(t, got.Conflicts)
	assertInverse(t, got)

	assert.Equal(t, int64(20), got.MemberAt(1, 12))
	assert.Equal(t, None, got.MemberAt(3, 12))
	assert.Equal(t, []int64{10, 20}, got.MemberIDs())
}

func TestBuildTimelines_ReportsConflicts(t *testing.T) {
	got := BuildTimelines([]Update{
		{EpisodeNumber: 1, MemberID: 10, CastawayID: 1, Draft: true},
		{EpisodeNumber: 1, MemberID: 20, CastawayID: 1, Draft: true},
	}, nil)

	require.Len(t, got.Conflicts, 1)
	assert.Equal(t, int64(1), got.Conflicts[0].CastawayID)
	assert.Equal(t, 1, got.Conflicts[0].EpisodeNumber)
	assert.Equal(t, []int64{10, 20}, got.Conflicts[0].MemberIDs)
}

func TestBuildTimelines_Deterministic(t *testing.T) {
	updates := []Update{
		{EpisodeNumber: 1, MemberID: 30, CastawayID: 7, Draft: true},
		{EpisodeNumber: 1, MemberID: 10, CastawayID: 1, Draft: true},
		{EpisodeNumber: 3, MemberID: 30, CastawayID: 8},
		{EpisodeNumber: 5, MemberID: 10, CastawayID: 7},
	}

	first := BuildTimelines(updates, nil)
	second := BuildTimelines(updates, nil)
	assert.Equal(t, first, second)
}

func assertInverse(t *testing.T, got Timelines) {
	t.Helper()

	for memberID, row := range got.MemberCastaways {
		start := got.MemberStarts[memberID]
		for i, castawayID := range row {
			if castawayID == None {
				continue
			}
			ep := start + i
			castawayRow := got.CastawayMembers[castawayID]
			require.Greater(t, len(castawayRow), ep, "castaway=%d episode=%d", castawayID, ep)
			assert.Equal(t, memberID, castawayRow[ep], "castaway=%d episode=%d", castawayID, ep)
		}
	}
	for castawayID, row := range got.CastawayMembers {
		for ep, memberID := range row {
			if memberID == None {
				continue
			}
			memberRow := got.MemberCastaways[memberID]
			require.True(t, got.Observed(memberID, ep), "member=%d episode=%d", memberID, ep)
			require.Greater(t, len(memberRow), ep-got.MemberStarts[memberID], "member=%d episode=%d", memberID, ep)
			assert.Equal(t, castawayID, got.CastawayAt(memberID, ep), "member=%d episode=%d", memberID, ep)
		}
	}
}

func TestValidateSecondaryPick(t *testing.T) {
	primary := BuildTimelines([]Update{
		{EpisodeNumber: 1, MemberID: 10, CastawayID: 1, Draft: true},
	}, nil)
	history := BuildSecondaryTimeline([]SecondaryPick{
		{EpisodeNumber: 2, MemberID: 10, CastawayID: 4},
		{EpisodeNumber: 3, MemberID: 10, CastawayID: 5},
	})
	rules := SecondaryRules{Enabled: true, LockoutPeriod: 2}

	tests := []struct {
		name      string
		pick      SecondaryPick
		rules     SecondaryRules
		targetErr error
	}{
		{name: "valid", pick: SecondaryPick{EpisodeNumber: 4, MemberID: 10, CastawayID: 6}, rules: rules},
		{name: "disabled", pick: SecondaryPick{EpisodeNumber: 4, MemberID: 10, CastawayID: 6}, rules: SecondaryRules{}, targetErr: ErrNotEnabled},
		{name: "own primary", pick: SecondaryPick{EpisodeNumber: 4, MemberID: 10, CastawayID: 1}, rules: rules, targetErr: ErrOwnPrimary},
		{
			name:  "own primary allowed",
			pick:  SecondaryPick{EpisodeNumber: 4, MemberID: 10, CastawayID: 1},
			rules: SecondaryRules{Enabled: true, CanPickOwn: true, LockoutPeriod: 2},
		},
		{name: "inside lockout", pick: SecondaryPick{EpisodeNumber: 4, MemberID: 10, CastawayID: 4}, rules: rules, targetErr: ErrLockout},
		{name: "lockout elapsed", pick: SecondaryPick{EpisodeNumber: 5, MemberID: 10, CastawayID: 4}, rules: rules},
		{name: "missing castaway", pick: SecondaryPick{EpisodeNumber: 5, MemberID: 10}, rules: rules, targetErr: ErrInvalidPick},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSecondaryPick(tt.pick, history, primary, tt.rules)
			if tt.targetErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.targetErr) {
				t.Fatalf("expected error %v, got %v", tt.targetErr, err)
			}
		})
	}

	if got := history.At(10, 3); got != 5 {
		t.Fatalf("unexpected secondary pick: got=%d want=5", got)
	}
	if got := history.At(10, 9); got != None {
		t.Fatalf("secondary picks must not carry forward, got=%d", got)
	}
}
