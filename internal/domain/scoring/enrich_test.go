package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/castaway-fantasy/internal/domain/broadcast"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/selection"
)

func fixtureContext() EnrichContext {
	events := fixtureEvents()
	tribes := broadcast.BuildTribesTimeline(events)
	return EnrichContext{
		Rules:        fixtureRules(),
		Tribes:       tribes,
		Eliminations: broadcast.BuildEliminations(events),
		Selections:   selection.BuildTimelines(fixtureUpdates(), nil),
		Directory:    NewDirectory(fixtureCastaways(), fixtureTribes(), fixtureMembers()).WithTribes(tribes),
	}
}

func TestEnrichEvent_GroupsTribelessCastaways(t *testing.T) {
	got := EnrichEvent(event(40, 3, broadcast.EventIndivWin,
		broadcast.CastawayRef(1),
		broadcast.CastawayRef(7),
		broadcast.CastawayRef(99),
	), fixtureContext())

	assert.Nil(t, got.Points, "indivWin has no rule in this league")
	assert.Equal(t, 0, got.PointsValue())
	assert.Equal(t, []CastawayOwner{
		{CastawayID: 1, TribeID: tribeRed, MemberID: 10},
		{CastawayID: 7, TribeID: NoTribe, MemberID: selection.None},
	}, got.Castaways)
	assert.Equal(t, []TribeRoster{
		{TribeID: tribeRed, Castaways: []int64{1}},
		{TribeID: NoTribe, Castaways: []int64{7}},
	}, got.ByTribe)
	assert.Equal(t, Credits{Castaways: []int64{1, 7}, Tribes: []int64{}, Members: []int64{10}}, got.Credits)
}

func TestEnrichEvent_TribeRosterSkipsEarlierEliminations(t *testing.T) {
	got := EnrichEvent(event(41, 3, broadcast.EventTribe1st, broadcast.TribeRef(tribeRed)), fixtureContext())

	require.NotNil(t, got.Points)
	assert.Equal(t, 2, *got.Points)
	// Ben left in episode 2; Cleo leaves in episode 3 and still counts.
	assert.Equal(t, []TribeRoster{{TribeID: tribeRed, Castaways: []int64{1, 3}}}, got.Tribes)
	assert.Equal(t, []int64{1, 3}, got.Credits.Castaways)
	assert.Equal(t, []int64{tribeRed}, got.Credits.Tribes)
	assert.Equal(t, []int64{10}, got.Credits.Members)
}

func TestEnrichEvent_CustomAndMemberReferences(t *testing.T) {
	item := broadcast.Event{
		ID:            42,
		EpisodeNumber: 2,
		Name:          "Confessional",
		Custom:        true,
		References:    []broadcast.Reference{broadcast.CastawayRef(4), broadcast.MemberRef(20)},
	}

	got := EnrichEvent(item, fixtureContext())
	require.NotNil(t, got.Points)
	assert.Equal(t, 1, *got.Points)
	assert.Equal(t, []int64{20, 30}, got.Credits.Members)
	assert.Equal(t, []TribeRoster{{TribeID: tribeBlue, Castaways: []int64{4}}}, got.ByTribe)
}

func TestDirectoryResolve(t *testing.T) {
	ctx := fixtureContext()

	display, ok := ctx.Directory.Resolve(broadcast.CastawayRef(3), 2)
	require.True(t, ok)
	assert.Equal(t, Display{Name: "Cleo", Color: "#ff0000"}, display)

	display, ok = ctx.Directory.Resolve(broadcast.CastawayRef(7), 2)
	require.True(t, ok)
	assert.Equal(t, Display{Name: "Gus"}, display)

	display, ok = ctx.Directory.Resolve(broadcast.MemberRef(30), 2)
	require.True(t, ok)
	assert.Equal(t, "Dev's fan", display.Name)

	_, ok = ctx.Directory.Resolve(broadcast.TribeRef(5), 2)
	assert.False(t, ok)
}
