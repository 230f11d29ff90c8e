package season

import "fmt"

// Season is one broadcast season of the show.
type Season struct {
	ID   int64
	Name string
}

// Castaway is a contestant of a season; the unit league members draft.
type Castaway struct {
	ID         int64
	SeasonID   int64
	FullName   string
	ShortName  string
	Age        int
	Residence  string
	Occupation string
	ImageURL   string
}

func (c Castaway) Validate() error {
	if c.ID <= 0 {
		return fmt.Errorf("castaway id is required")
	}
	if c.FullName == "" {
		return fmt.Errorf("castaway full name is required")
	}

	return nil
}

// Tribe is a team grouping of castaways with a display color.
type Tribe struct {
	ID       int64
	SeasonID int64
	Name     string
	Color    string
}
