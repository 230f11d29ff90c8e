package broadcast

import "fmt"

// EventName identifies what happened on-air. Custom league events carry the
// custom rule name instead of one of the base names below.
type EventName string

const (
	EventAdvFound     EventName = "advFound"
	EventAdvPlay      EventName = "advPlay"
	EventBadAdvPlay   EventName = "badAdvPlay"
	EventAdvElim      EventName = "advElim"
	EventSpokeEpTitle EventName = "spokeEpTitle"
	EventTribe1st     EventName = "tribe1st"
	EventTribe2nd     EventName = "tribe2nd"
	EventIndivWin     EventName = "indivWin"
	EventIndivReward  EventName = "indivReward"
	EventFinalists    EventName = "finalists"
	EventFireWin      EventName = "fireWin"
	EventSoleSurvivor EventName = "soleSurvivor"
	EventElim         EventName = "elim"
	EventNoVoteExit   EventName = "noVoteExit"
	EventTribeUpdate  EventName = "tribeUpdate"
	EventOtherNotes   EventName = "otherNotes"
)

// BaseEvents lists every show-defined scoring trigger.
var BaseEvents = []EventName{
	EventAdvFound,
	EventAdvPlay,
	EventBadAdvPlay,
	EventAdvElim,
	EventSpokeEpTitle,
	EventTribe1st,
	EventTribe2nd,
	EventIndivWin,
	EventIndivReward,
	EventFinalists,
	EventFireWin,
	EventSoleSurvivor,
	EventElim,
	EventNoVoteExit,
	EventTribeUpdate,
	EventOtherNotes,
}

var baseEventSet = func() map[EventName]struct{} {
	out := make(map[EventName]struct{}, len(BaseEvents))
	for _, name := range BaseEvents {
		out[name] = struct{}{}
	}
	return out
}()

func IsBaseEvent(name EventName) bool {
	_, ok := baseEventSet[name]
	return ok
}

// IsElimination reports whether the event removes a castaway from the game.
func IsElimination(name EventName) bool {
	return name == EventElim || name == EventNoVoteExit
}

// ReferenceType tags which kind of entity a Reference points at.
type ReferenceType string

const (
	RefCastaway ReferenceType = "Castaway"
	RefTribe    ReferenceType = "Tribe"
	RefMember   ReferenceType = "Member"
)

// Reference is a typed pointer at a castaway, tribe or league member.
type Reference struct {
	Type ReferenceType `json:"type"`
	ID   int64         `json:"id"`
}

func CastawayRef(id int64) Reference {
	return Reference{Type: RefCastaway, ID: id}
}

func TribeRef(id int64) Reference {
	return Reference{Type: RefTribe, ID: id}
}

func MemberRef(id int64) Reference {
	return Reference{Type: RefMember, ID: id}
}

func (r Reference) String() string {
	return fmt.Sprintf("%s:%d", r.Type, r.ID)
}

// Event is an immutable fact about what happened in one episode.
type Event struct {
	ID            int64       `json:"id"`
	EpisodeNumber int         `json:"episodeNumber"`
	Name          EventName   `json:"name"`
	Label         string      `json:"label,omitempty"`
	Notes         []string    `json:"notes,omitempty"`
	References    []Reference `json:"references"`
	Sequence      int64       `json:"sequence"`
	Custom        bool        `json:"custom"`
}

func (e Event) Validate() error {
	if e.EpisodeNumber <= 0 {
		return fmt.Errorf("event episode number must be greater than zero")
	}
	if e.Name == "" {
		return fmt.Errorf("event name is required")
	}
	if !e.Custom && !IsBaseEvent(e.Name) {
		return fmt.Errorf("unknown base event %q", e.Name)
	}
	for _, ref := range e.References {
		switch ref.Type {
		case RefCastaway, RefTribe, RefMember:
		default:
			return fmt.Errorf("unknown reference type %q", ref.Type)
		}
		if ref.ID <= 0 {
			return fmt.Errorf("reference id must be greater than zero")
		}
	}

	return nil
}

// CastawayIDs returns the castaway references in insertion order.
func (e Event) CastawayIDs() []int64 {
	return e.referencesOf(RefCastaway)
}

// TribeIDs returns the tribe references in insertion order.
func (e Event) TribeIDs() []int64 {
	return e.referencesOf(RefTribe)
}

func (e Event) referencesOf(kind ReferenceType) []int64 {
	out := make([]int64, 0, len(e.References))
	for _, ref := range e.References {
		if ref.Type == kind {
			out = append(out, ref.ID)
		}
	}
	return out
}

// HasReference reports whether the event points at ref.
func (e Event) HasReference(ref Reference) bool {
	for _, item := range e.References {
		if item == ref {
			return true
		}
	}
	return false
}
