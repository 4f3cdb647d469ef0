package speedrun

import "strings"

// Leaderboard is one fetched board. Runs are rank-ordered by the source and
// that order is authoritative. Players is the directory of runners keyed by id.
type Leaderboard struct {
	Weblink    string
	GameID     string
	CategoryID string
	LevelID    string
	Platform   string
	Region     string
	Emulators  string
	VideoOnly  bool
	Timing     string
	Runs       []RunEntry
	Players    map[string]User
}

// Key recomputes the lookup identity of the board from its category and level.
func (lb Leaderboard) Key() string {
	return LeaderboardKey(lb.CategoryID, lb.LevelID)
}

// NewPlayerDirectory indexes users by id. Users without an id are skipped and
// duplicate ids collapse to the last record seen.
func NewPlayerDirectory(users []User) map[string]User {
	out := make(map[string]User, len(users))
	for _, u := range users {
		id := strings.TrimSpace(u.ID)
		if id == "" {
			continue
		}
		out[id] = u
	}
	return out
}

// ResolvePlayer returns the directory record for ref, or ref itself when it has
// no id or the directory does not know it.
func ResolvePlayer(lb Leaderboard, ref User) User {
	if ref.ID == "" {
		return ref
	}
	if player, ok := lb.Players[ref.ID]; ok {
		return player
	}
	return ref
}

// ResolvedEntry is a run entry whose player references were resolved against
// the leaderboard directory.
type ResolvedEntry struct {
	RunEntry
	Players []User
}

func ResolveEntries(lb Leaderboard, entries []RunEntry) []ResolvedEntry {
	out := make([]ResolvedEntry, 0, len(entries))
	for _, entry := range entries {
		players := make([]User, 0, len(entry.Run.Players))
		for _, ref := range entry.Run.Players {
			players = append(players, ResolvePlayer(lb, ref))
		}
		out = append(out, ResolvedEntry{
			RunEntry: entry,
			Players:  players,
		})
	}
	return out
}
