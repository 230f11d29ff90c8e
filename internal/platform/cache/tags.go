package cache

import "strconv"

// LeagueTag groups entries derived from one league's own data.
func LeagueTag(leagueID int64) string {
	return "league:" + strconv.FormatInt(leagueID, 10)
}

// SeasonTag groups entries derived from a season's episodes, roster or
// broadcast events.
func SeasonTag(seasonID int64) string {
	return "season:" + strconv.FormatInt(seasonID, 10)
}

// LeaguesTag groups entries that list leagues.
const LeaguesTag = "leagues"
