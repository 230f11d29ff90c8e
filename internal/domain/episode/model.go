package episode

import (
	"fmt"
	"time"
)

// AirStatus is the broadcast state of an episode relative to the current time.
type AirStatus string

const (
	StatusUpcoming AirStatus = "Upcoming"
	StatusAiring   AirStatus = "Airing"
	StatusAired    AirStatus = "Aired"
)

// Episode is one broadcast episode of a season.
type Episode struct {
	ID             int64     `json:"id"`
	SeasonID       int64     `json:"seasonId"`
	EpisodeNumber  int       `json:"episodeNumber"`
	Title          string    `json:"title"`
	AirDate        time.Time `json:"airDate"`
	RuntimeMinutes int       `json:"runtime"`
	IsMerge        bool      `json:"isMerge"`
	IsFinale       bool      `json:"isFinale"`
}

func (e Episode) Validate() error {
	if e.EpisodeNumber <= 0 {
		return fmt.Errorf("episode number must be greater than zero")
	}
	if e.AirDate.IsZero() {
		return fmt.Errorf("episode air date is required")
	}
	if e.RuntimeMinutes < 0 {
		return fmt.Errorf("episode runtime cannot be negative")
	}

	return nil
}

func (e Episode) EndsAt() time.Time {
	return e.AirDate.Add(time.Duration(e.RuntimeMinutes) * time.Minute)
}

func (e Episode) AirStatus(now time.Time) AirStatus {
	return ComputeAirStatus(e.AirDate, e.RuntimeMinutes, now)
}

// ComputeAirStatus returns Upcoming before airDate, Airing inside
// [airDate, airDate+runtime) and Aired afterwards.
func ComputeAirStatus(airDate time.Time, runtimeMinutes int, now time.Time) AirStatus {
	if now.Before(airDate) {
		return StatusUpcoming
	}
	end := airDate.Add(time.Duration(runtimeMinutes) * time.Minute)
	if now.Before(end) {
		return StatusAiring
	}
	return StatusAired
}
