package domain

import "sort"

// MaxLeaderboardEntries bounds every persisted leaderboard.
const MaxLeaderboardEntries = 10

// RankLeaderboard orders entries by score desc, then earliest timestamp, and truncates to limit.
// A non-positive limit falls back to MaxLeaderboardEntries.
func RankLeaderboard(entries []LeaderboardEntry, limit int) []LeaderboardEntry {
	if limit <= 0 {
		limit = MaxLeaderboardEntries
	}
	ranked := make([]LeaderboardEntry, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Timestamp.Before(ranked[j].Timestamp)
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// InsertLeaderboardEntry appends entry and re-ranks the list.
func InsertLeaderboardEntry(entries []LeaderboardEntry, entry LeaderboardEntry, limit int) []LeaderboardEntry {
	merged := make([]LeaderboardEntry, 0, len(entries)+1)
	merged = append(merged, entries...)
	merged = append(merged, entry)
	return RankLeaderboard(merged, limit)
}
