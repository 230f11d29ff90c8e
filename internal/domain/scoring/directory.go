package scoring

import (
	"github.com/riskibarqy/castaway-fantasy/internal/domain/broadcast"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/league"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/season"
)

// Display is a display-ready name and color for a reference.
type Display struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Directory resolves typed references to season and league entities.
type Directory struct {
	castaways map[int64]season.Castaway
	tribes    map[int64]season.Tribe
	members   map[int64]league.Member
	timeline  broadcast.TribesTimeline
}

func NewDirectory(castaways []season.Castaway, tribes []season.Tribe, members []league.Member) Directory {
	out := Directory{
		castaways: make(map[int64]season.Castaway, len(castaways)),
		tribes:    make(map[int64]season.Tribe, len(tribes)),
		members:   make(map[int64]league.Member, len(members)),
	}
	for _, item := range castaways {
		out.castaways[item.ID] = item
	}
	for _, item := range tribes {
		out.tribes[item.ID] = item
	}
	for _, item := range members {
		out.members[item.ID] = item
	}
	return out
}

// WithTribes lets castaway displays take the color of their tribe.
func (d Directory) WithTribes(timeline broadcast.TribesTimeline) Directory {
	d.timeline = timeline
	return d
}

func (d Directory) Castaway(id int64) (season.Castaway, bool) {
	item, ok := d.castaways[id]
	return item, ok
}

func (d Directory) Tribe(id int64) (season.Tribe, bool) {
	item, ok := d.tribes[id]
	return item, ok
}

func (d Directory) Member(id int64) (league.Member, bool) {
	item, ok := d.members[id]
	return item, ok
}

// Resolves reports whether the referenced entity exists.
func (d Directory) Resolves(ref broadcast.Reference) bool {
	_, ok := d.Resolve(ref, 0)
	return ok
}

// Resolve returns the display of ref as of episodeNumber. Castaways take the
// color of the tribe they were on at that episode.
func (d Directory) Resolve(ref broadcast.Reference, episodeNumber int) (Display, bool) {
	switch ref.Type {
	case broadcast.RefCastaway:
		return d.resolveCastaway(ref.ID, episodeNumber)
	case broadcast.RefTribe:
		tribe, ok := d.tribes[ref.ID]
		if !ok {
			return Display{}, false
		}
		return Display{Name: tribe.Name, Color: tribe.Color}, true
	case broadcast.RefMember:
		member, ok := d.members[ref.ID]
		if !ok {
			return Display{}, false
		}
		return Display{Name: member.DisplayName, Color: member.Color}, true
	default:
		return Display{}, false
	}
}

func (d Directory) resolveCastaway(id int64, episodeNumber int) (Display, bool) {
	castaway, ok := d.castaways[id]
	if !ok {
		return Display{}, false
	}
	out := Display{Name: castaway.FullName}
	if castaway.ShortName != "" {
		out.Name = castaway.ShortName
	}
	if d.timeline != nil {
		if tribe, ok := d.tribes[d.timeline.TribeOf(id, episodeNumber)]; ok {
			out.Color = tribe.Color
		}
	}
	return out, true
}

func (d Directory) castawayIDs() []int64 {
	return sortedIDs(d.castaways)
}

func (d Directory) tribeIDs() []int64 {
	return sortedIDs(d.tribes)
}

func (d Directory) memberIDs() []int64 {
	return sortedIDs(d.members)
}
