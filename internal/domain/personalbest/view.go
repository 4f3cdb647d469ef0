// Package personalbest flattens a runner's per-game bests into display rows.
package personalbest

import (
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/speedrun-browser/internal/domain/speedrun"
)

// Row is one personal best ready for display.
type Row struct {
	Label        string
	CategoryID   string
	CategoryName string
	LevelID      string
	LevelName    string
	Entry        speedrun.RunEntry
	PlaceName    string
	Time         string
	Trophy       *speedrun.Asset
}

func (r Row) Date() *time.Time {
	return r.Entry.Run.Date
}

// Section groups the rows of one game.
type Section struct {
	GameID        string
	GameName      string
	Cover         *speedrun.Asset
	NewestRunDate *time.Time
	Rows          []Row
}

// BuildView turns a bests map keyed by game id into sections ordered by each
// game's most recent best, newest first. Rows inside a section are ordered the
// same way. Undated runs compare equal to every other run, so dated sections
// separated by an undated one keep their game id order instead of date order.
func BuildView(bests map[string]speedrun.UserGameBests) []Section {
	sections := make([]Section, 0, len(bests))
	for _, gameID := range speedrun.SortedKeys(bests) {
		game := bests[gameID]
		if strings.TrimSpace(game.ID) == "" {
			game.ID = gameID
		}
		sections = append(sections, buildSection(game))
	}

	sort.SliceStable(sections, func(i, j int) bool {
		return speedrun.CompareDatesDesc(sections[i].NewestRunDate, sections[j].NewestRunDate) < 0
	})
	return sections
}

func buildSection(game speedrun.UserGameBests) Section {
	rows := flattenRows(game)
	sort.SliceStable(rows, func(i, j int) bool {
		return speedrun.CompareDatesDesc(rows[i].Date(), rows[j].Date()) < 0
	})

	return Section{
		GameID:        game.ID,
		GameName:      game.Name(),
		Cover:         game.Assets.CoverLarge,
		NewestRunDate: speedrun.NewestDate(game.NewestRun()),
		Rows:          rows,
	}
}

// flattenRows emits one row per level for per-level categories and one row per
// full-game category. A category carrying neither is skipped.
func flattenRows(game speedrun.UserGameBests) []Row {
	rows := make([]Row, 0, len(game.Categories))
	for _, categoryID := range speedrun.SortedKeys(game.Categories) {
		category := game.Categories[categoryID]
		categoryName := nameOr(category.Name, categoryID)

		if category.HasLevels() {
			for _, levelID := range speedrun.SortedKeys(category.Levels) {
				level := category.Levels[levelID]
				if level.Run == nil {
					continue
				}
				levelName := nameOr(level.Name, levelID)
				row := newRow(game.Assets, *level.Run)
				row.Label = categoryName + " - " + levelName
				row.CategoryID = categoryID
				row.CategoryName = categoryName
				row.LevelID = levelID
				row.LevelName = levelName
				rows = append(rows, row)
			}
			continue
		}

		if category.Run == nil {
			continue
		}
		row := newRow(game.Assets, *category.Run)
		row.Label = categoryName
		row.CategoryID = categoryID
		row.CategoryName = categoryName
		rows = append(rows, row)
	}
	return rows
}

func newRow(assets speedrun.GameAssets, entry speedrun.RunEntry) Row {
	return Row{
		Entry:     entry,
		PlaceName: entry.PlaceName(),
		Time:      entry.Run.Times.Format(),
		Trophy:    TrophyFor(assets, entry.Place),
	}
}

// TrophyFor returns the trophy image for places 1 to 4, or nil.
func TrophyFor(assets speedrun.GameAssets, place int) *speedrun.Asset {
	switch place {
	case 1:
		return assets.Trophy1st
	case 2:
		return assets.Trophy2nd
	case 3:
		return assets.Trophy3rd
	case 4:
		return assets.Trophy4th
	default:
		return nil
	}
}

// AssetURIs lists every distinct image referenced by sections, in render order.
func AssetURIs(sections []Section) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	add := func(asset *speedrun.Asset) {
		if asset == nil {
			return
		}
		uri := strings.TrimSpace(asset.URI)
		if uri == "" {
			return
		}
		if _, ok := seen[uri]; ok {
			return
		}
		seen[uri] = struct{}{}
		out = append(out, uri)
	}

	for _, section := range sections {
		add(section.Cover)
		for _, row := range section.Rows {
			add(row.Trophy)
		}
	}
	return out
}

func nameOr(name, fallback string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return fallback
}
