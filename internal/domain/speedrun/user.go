package speedrun

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const avatarURLFormat = "https://www.speedrun.com/themes/user/%s/image.png"

type MediaLink struct {
	URI string
}

// User is a runner. Guests carry only a display name and no stable id.
type User struct {
	ID            string
	Names         Names
	Name          string
	Guest         bool
	Weblink       string
	Twitch        *MediaLink
	Twitter       *MediaLink
	Youtube       *MediaLink
	SpeedrunsLive *MediaLink
	Bests         map[string]UserGameBests
}

func (u User) IsGuest() bool {
	return u.Guest || strings.TrimSpace(u.ID) == ""
}

func (u User) DisplayName() string {
	if name := u.Names.International(); name != "" {
		return name
	}
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	return unknownName
}

// AvatarURL returns the profile image location of a registered user.
func (u User) AvatarURL() (string, bool) {
	name := u.Names.International()
	if u.IsGuest() || name == "" {
		return "", false
	}
	return fmt.Sprintf(avatarURLFormat, name), true
}

// UserGameBests holds a user's personal bests for one game.
type UserGameBests struct {
	ID         string
	Names      Names
	Assets     GameAssets
	Categories map[string]UserCategoryBest
}

func (g UserGameBests) Name() string {
	if name := g.Names.International(); name != "" {
		return name
	}
	return unknownName
}

// NewestRun returns the most recently dated best across every category and
// level of the game, or nil when none of them carries a date.
func (g UserGameBests) NewestRun() *RunEntry {
	var newest *RunEntry
	for _, id := range SortedKeys(g.Categories) {
		candidate := g.Categories[id].NewestRun()
		if candidate == nil {
			continue
		}
		if newest == nil || newerThan(candidate.Run.Date, newest.Run.Date) {
			newest = candidate
		}
	}
	return newest
}

// UserCategoryBest is either a full-game best (Run) or a set of per-level
// bests (Levels); a non-empty Levels map takes precedence.
type UserCategoryBest struct {
	ID     string
	Name   string
	Type   CategoryType
	Run    *RunEntry
	Levels map[string]UserLevelBest
}

func (c UserCategoryBest) HasLevels() bool {
	return len(c.Levels) > 0
}

// NewestRun returns the most recently dated run of the category, or nil.
func (c UserCategoryBest) NewestRun() *RunEntry {
	if !c.HasLevels() {
		if c.Run == nil || c.Run.Run.Date == nil {
			return nil
		}
		return c.Run
	}

	var newest *RunEntry
	for _, id := range SortedKeys(c.Levels) {
		run := c.Levels[id].Run
		if run == nil || run.Run.Date == nil {
			continue
		}
		if newest == nil || newerThan(run.Run.Date, newest.Run.Date) {
			newest = run
		}
	}
	return newest
}

type UserLevelBest struct {
	ID   string
	Name string
	Run  *RunEntry
}

// NewestDate is a convenience for callers sorting by recency.
func NewestDate(entry *RunEntry) *time.Time {
	if entry == nil {
		return nil
	}
	return entry.Run.Date
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
