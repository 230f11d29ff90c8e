package episode

import "time"

const (
	MinPollingInterval = 15 * time.Second
	MaxPollingInterval = 24 * time.Hour
)

// PollingInterval returns how long callers should wait before re-evaluating
// air statuses: half the time until the nearest pending start or end boundary,
// clamped to [MinPollingInterval, MaxPollingInterval]. The boolean is false
// when every episode has already aired.
func PollingInterval(episodes []Episode, now time.Time) (time.Duration, bool) {
	var nearest time.Duration
	found := false

	consider := func(boundary time.Time) {
		if !boundary.After(now) {
			return
		}
		until := boundary.Sub(now)
		if !found || until < nearest {
			nearest = until
			found = true
		}
	}

	for _, item := range episodes {
		consider(item.AirDate)
		consider(item.EndsAt())
	}
	if !found {
		return 0, false
	}

	interval := nearest / 2
	if interval < MinPollingInterval {
		interval = MinPollingInterval
	}
	if interval > MaxPollingInterval {
		interval = MaxPollingInterval
	}
	return interval, true
}
