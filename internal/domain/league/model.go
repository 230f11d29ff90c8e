package league

import (
	"fmt"
	"sort"
)

// Status is the lifecycle phase of a league.
type Status string

const (
	StatusDraft    Status = "Draft"
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// Role is a member's permission level within a league.
type Role string

const (
	RoleOwner  Role = "Owner"
	RoleAdmin  Role = "Admin"
	RoleMember Role = "Member"
)

// League is one fantasy league playing a season.
type League struct {
	ID       int64
	Hash     string
	Name     string
	SeasonID int64
	Status   Status
}

func (l League) Validate() error {
	if l.ID <= 0 {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.SeasonID <= 0 {
		return fmt.Errorf("league season id is required")
	}
	switch l.Status {
	case StatusDraft, StatusActive, StatusInactive:
	default:
		return fmt.Errorf("unknown league status %q", l.Status)
	}

	return nil
}

// Member is a person in one league.
type Member struct {
	ID          int64
	LeagueID    int64
	DisplayName string
	Color       string
	Role        Role
	DraftOrder  int
}

// DraftTurn returns the member on the clock: the first member by draft order
// who has not drafted yet. The boolean is false once everyone has drafted.
func DraftTurn(members []Member, drafted map[int64]struct{}) (Member, bool) {
	ordered := append([]Member(nil), members...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].DraftOrder != ordered[j].DraftOrder {
			return ordered[i].DraftOrder < ordered[j].DraftOrder
		}
		return ordered[i].ID < ordered[j].ID
	})

	for _, member := range ordered {
		if _, ok := drafted[member.ID]; !ok {
			return member, true
		}
	}
	return Member{}, false
}
