package speedrun

import "strings"

// NameKeyInternational is the locale key every named entity carries.
const NameKeyInternational = "international"

const unknownName = "? Unknown Name ?"

// Names maps a locale key to a localized display name.
type Names map[string]string

// International returns the international name or an empty string.
func (n Names) International() string {
	return strings.TrimSpace(n[NameKeyInternational])
}

// Asset is a remotely hosted image.
type Asset struct {
	URI    string
	Width  int
	Height int
}

// GameAssets holds the optional images attached to a game.
type GameAssets struct {
	CoverLarge *Asset
	Icon       *Asset
	Trophy1st  *Asset
	Trophy2nd  *Asset
	Trophy3rd  *Asset
	Trophy4th  *Asset
}

type Ruleset struct {
	ShowMilliseconds    bool
	RequireVerification bool
	RequireVideo        bool
	EmulatorsAllowed    bool
	RunTimes            []string
	DefaultTime         string
}

// Game is a speedrun.com game with its categories and levels.
type Game struct {
	ID           string
	Names        Names
	Abbreviation string
	Weblink      string
	Released     int
	ReleaseDate  string
	Ruleset      Ruleset
	Romhack      bool
	Categories   []Category
	Levels       []Level
	Assets       GameAssets
}

func (g Game) Name() string {
	if name := g.Names.International(); name != "" {
		return name
	}
	return unknownName
}

func (g Game) Category(categoryID string) (Category, bool) {
	for _, c := range g.Categories {
		if c.ID == categoryID {
			return c, true
		}
	}
	return Category{}, false
}

func (g Game) Level(levelID string) (Level, bool) {
	for _, l := range g.Levels {
		if l.ID == levelID {
			return l, true
		}
	}
	return Level{}, false
}

type CategoryType string

const (
	CategoryTypePerGame  CategoryType = "per-game"
	CategoryTypePerLevel CategoryType = "per-level"
)

// Category groups runs under one ruleset and owns the variables that classify them.
type Category struct {
	ID            string
	Name          string
	Type          CategoryType
	Rules         string
	Miscellaneous bool
	Variables     []Variable
}

func (c Category) PerLevel() bool {
	return c.Type == CategoryTypePerLevel
}

type Level struct {
	ID    string
	Name  string
	Rules string
}

// LeaderboardKey derives the lookup identity of a leaderboard: the category id,
// suffixed with "_" and the level id for per-level boards. An empty category id
// yields an empty key, which must never be loaded.
func LeaderboardKey(categoryID, levelID string) string {
	categoryID = strings.TrimSpace(categoryID)
	if categoryID == "" {
		return ""
	}

	levelID = strings.TrimSpace(levelID)
	if levelID == "" {
		return categoryID
	}

	return categoryID + "_" + levelID
}
