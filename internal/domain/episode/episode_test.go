package episode

import (
	"testing"
	"time"
)

func TestComputeAirStatus(t *testing.T) {
	airDate := time.Date(2026, time.March, 4, 20, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want AirStatus
	}{
		{name: "before air date", now: airDate.Add(-time.Minute), want: StatusUpcoming},
		{name: "exactly at air date", now: airDate, want: StatusAiring},
		{name: "mid broadcast", now: airDate.Add(45 * time.Minute), want: StatusAiring},
		{name: "exactly at end", now: airDate.Add(90 * time.Minute), want: StatusAired},
		{name: "long after", now: airDate.Add(72 * time.Hour), want: StatusAired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeAirStatus(airDate, 90, tt.now)
			if got != tt.want {
				t.Fatalf("unexpected status: got=%s want=%s", got, tt.want)
			}
		})
	}
}

func TestPollingInterval(t *testing.T) {
	now := time.Date(2026, time.March, 4, 20, 0, 0, 0, time.UTC)

	t.Run("start in ten seconds hits the floor", func(t *testing.T) {
		got, ok := PollingInterval([]Episode{
			{EpisodeNumber: 1, AirDate: now.Add(10 * time.Second), RuntimeMinutes: 60},
		}, now)
		if !ok {
			t.Fatalf("expected pending boundary")
		}
		if got != MinPollingInterval {
			t.Fatalf("unexpected interval: got=%s want=%s", got, MinPollingInterval)
		}
	})

	t.Run("start in ten days hits the ceiling", func(t *testing.T) {
		got, ok := PollingInterval([]Episode{
			{EpisodeNumber: 1, AirDate: now.Add(10 * 24 * time.Hour), RuntimeMinutes: 60},
		}, now)
		if !ok {
			t.Fatalf("expected pending boundary")
		}
		if got != MaxPollingInterval {
			t.Fatalf("unexpected interval: got=%s want=%s", got, MaxPollingInterval)
		}
	})

	t.Run("airing episode halves the remaining runtime", func(t *testing.T) {
		got, ok := PollingInterval([]Episode{
			{EpisodeNumber: 1, AirDate: now.Add(-30 * time.Minute), RuntimeMinutes: 60},
		}, now)
		if !ok {
			t.Fatalf("expected pending boundary")
		}
		if got != 15*time.Minute {
			t.Fatalf("unexpected interval: got=%s want=15m", got)
		}
	})

	t.Run("nearest boundary wins across episodes", func(t *testing.T) {
		got, ok := PollingInterval([]Episode{
			{EpisodeNumber: 1, AirDate: now.Add(-2 * time.Hour), RuntimeMinutes: 60},
			{EpisodeNumber: 2, AirDate: now.Add(4 * time.Hour), RuntimeMinutes: 60},
			{EpisodeNumber: 3, AirDate: now.Add(2 * time.Hour), RuntimeMinutes: 60},
		}, now)
		if !ok {
			t.Fatalf("expected pending boundary")
		}
		if got != time.Hour {
			t.Fatalf("unexpected interval: got=%s want=1h", got)
		}
	})

	t.Run("nothing pending", func(t *testing.T) {
		_, ok := PollingInterval([]Episode{
			{EpisodeNumber: 1, AirDate: now.Add(-48 * time.Hour), RuntimeMinutes: 60},
		}, now)
		if ok {
			t.Fatalf("expected no pending boundary")
		}
	})
}

func TestResolveKeyEpisodes(t *testing.T) {
	now := time.Date(2026, time.March, 25, 12, 0, 0, 0, time.UTC)
	week := 7 * 24 * time.Hour
	first := time.Date(2026, time.March, 4, 20, 0, 0, 0, time.UTC)

	episodes := []Episode{
		{EpisodeNumber: 5, AirDate: first.Add(4 * week), RuntimeMinutes: 60, IsMerge: true},
		{EpisodeNumber: 1, AirDate: first, RuntimeMinutes: 90},
		{EpisodeNumber: 2, AirDate: first.Add(week), RuntimeMinutes: 60},
		{EpisodeNumber: 3, AirDate: first.Add(2 * week), RuntimeMinutes: 60, IsMerge: true},
		{EpisodeNumber: 4, AirDate: first.Add(3 * week), RuntimeMinutes: 60},
		{EpisodeNumber: 6, AirDate: first.Add(5 * week), RuntimeMinutes: 120, IsFinale: true},
	}

	got := ResolveKeyEpisodes(episodes, now)
	if got.PreviousNumber() != 3 {
		t.Fatalf("unexpected previous episode: got=%d want=3", got.PreviousNumber())
	}
	if got.NextNumber() != 4 {
		t.Fatalf("unexpected next episode: got=%d want=4", got.NextNumber())
	}
	if got.Merge == nil || got.Merge.EpisodeNumber != 5 {
		t.Fatalf("expected last merge flag to win, got=%+v", got.Merge)
	}

	empty := ResolveKeyEpisodes(nil, now)
	if empty.Previous != nil || empty.Next != nil || empty.Merge != nil {
		t.Fatalf("expected nil key episodes, got=%+v", empty)
	}
}
