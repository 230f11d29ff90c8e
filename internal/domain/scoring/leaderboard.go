package scoring

import "sort"

// Standing is a member's place on the league leaderboard.
type Standing struct {
	MemberID        int64 `json:"memberId"`
	Points          int   `json:"points"`
	Rank            int   `json:"rank"`
	CurrentStreak   int   `json:"currentStreak"`
	StreakAvailable int   `json:"streakAvailable"`
}

// Leaderboard ranks members by their current total. Equal totals share a rank.
func (o Output) Leaderboard() []Standing {
	out := make([]Standing, 0, len(o.Scores.Member))
	for memberID, series := range o.Scores.Member {
		out = append(out, Standing{
			MemberID:        memberID,
			Points:          Current(series),
			CurrentStreak:   o.CurrentStreaks[memberID],
			StreakAvailable: o.StreakAvailable[memberID],
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].MemberID < out[j].MemberID
	})

	lastPoints := 0
	rank := 0
	for idx := range out {
		if idx == 0 || out[idx].Points != lastPoints {
			rank++
			lastPoints = out[idx].Points
		}
		out[idx].Rank = rank
	}
	return out
}
