package srcom

import (
	"strings"
	"time"

	"github.com/riskibarqy/speedrun-browser/internal/domain/speedrun"
)

const userRelGuest = "guest"

func mapLeaderboard(src leaderboardPayload) speedrun.Leaderboard {
	runs := make([]speedrun.RunEntry, 0, len(src.Runs))
	for _, item := range src.Runs {
		runs = append(runs, mapRunEntry(item))
	}

	players := make([]speedrun.User, 0, len(src.Players))
	for _, item := range src.Players {
		players = append(players, mapUser(item))
	}

	return speedrun.Leaderboard{
		Weblink:    src.Weblink,
		GameID:     src.Game,
		CategoryID: src.Category,
		LevelID:    src.Level,
		Platform:   src.Platform,
		Region:     src.Region,
		Emulators:  src.Emulators,
		VideoOnly:  src.VideoOnly,
		Timing:     src.Timing,
		Runs:       runs,
		Players:    speedrun.NewPlayerDirectory(players),
	}
}

func mapRunEntry(src runEntryPayload) speedrun.RunEntry {
	return speedrun.RunEntry{
		Place: src.Place,
		Run:   mapRun(src.Run),
	}
}

func mapRunEntryPtr(src *runEntryPayload) *speedrun.RunEntry {
	if src == nil {
		return nil
	}
	entry := mapRunEntry(*src)
	return &entry
}

func mapRun(src runPayload) speedrun.Run {
	players := make([]speedrun.User, 0, len(src.Players))
	for _, item := range src.Players {
		players = append(players, mapUser(item))
	}

	var videos []string
	if src.Videos != nil {
		for _, link := range src.Videos.Links {
			if uri := strings.TrimSpace(link.URI); uri != "" {
				videos = append(videos, uri)
			}
		}
	}

	return speedrun.Run{
		ID:         src.ID,
		Weblink:    src.Weblink,
		GameID:     src.Game,
		CategoryID: src.Category,
		LevelID:    src.Level,
		Date:       parseRunDate(src.Date),
		Submitted:  parseTimestamp(src.Submitted),
		Players:    players,
		Times: speedrun.RunTimes{
			Primary:          src.Times.Primary,
			PrimaryT:         src.Times.PrimaryT,
			Realtime:         src.Times.Realtime,
			RealtimeT:        src.Times.RealtimeT,
			RealtimeNoLoads:  src.Times.RealtimeNoLoads,
			RealtimeNoLoadsT: src.Times.RealtimeNoLoadsT,
			Ingame:           src.Times.Ingame,
			IngameT:          src.Times.IngameT,
		},
		System: speedrun.RunSystem{
			Platform: src.System.Platform,
			Region:   src.System.Region,
			Emulated: src.System.Emulated,
		},
		Values:  src.Values,
		Comment: src.Comment,
		Videos:  videos,
		Status:  src.Status.Status,
	}
}

func mapUser(src userPayload) speedrun.User {
	user := speedrun.User{
		ID:            src.ID,
		Names:         speedrun.Names(src.Names),
		Name:          src.Name,
		Guest:         strings.EqualFold(src.Rel, userRelGuest),
		Weblink:       src.Weblink,
		Twitch:        mapLink(src.Twitch),
		Twitter:       mapLink(src.Twitter),
		Youtube:       mapLink(src.Youtube),
		SpeedrunsLive: mapLink(src.SpeedrunsLive),
	}
	if len(src.Bests) == 0 {
		return user
	}

	user.Bests = make(map[string]speedrun.UserGameBests, len(src.Bests))
	for gameID, game := range src.Bests {
		user.Bests[gameID] = mapUserGameBests(gameID, game)
	}
	return user
}

func mapUserGameBests(gameID string, src userGameBestsPayload) speedrun.UserGameBests {
	if src.ID == "" {
		src.ID = gameID
	}

	categories := make(map[string]speedrun.UserCategoryBest, len(src.Categories))
	for categoryID, category := range src.Categories {
		var levels map[string]speedrun.UserLevelBest
		if len(category.Levels) > 0 {
			levels = make(map[string]speedrun.UserLevelBest, len(category.Levels))
			for levelID, level := range category.Levels {
				levels[levelID] = speedrun.UserLevelBest{
					ID:   firstNonEmpty(level.ID, levelID),
					Name: level.Name,
					Run:  mapRunEntryPtr(level.Run),
				}
			}
		}

		categories[categoryID] = speedrun.UserCategoryBest{
			ID:     firstNonEmpty(category.ID, categoryID),
			Name:   category.Name,
			Type:   speedrun.CategoryType(category.Type),
			Run:    mapRunEntryPtr(category.Run),
			Levels: levels,
		}
	}

	return speedrun.UserGameBests{
		ID:         src.ID,
		Names:      speedrun.Names(src.Names),
		Assets:     mapGameAssets(src.Assets),
		Categories: categories,
	}
}

func mapGame(src gamePayload) speedrun.Game {
	categories := make([]speedrun.Category, 0, len(src.Categories))
	for _, item := range src.Categories {
		categories = append(categories, mapCategory(item))
	}

	levels := make([]speedrun.Level, 0, len(src.Levels))
	for _, item := range src.Levels {
		levels = append(levels, speedrun.Level{ID: item.ID, Name: item.Name, Rules: item.Rules})
	}

	return speedrun.Game{
		ID:           src.ID,
		Names:        speedrun.Names(src.Names),
		Abbreviation: src.Abbreviation,
		Weblink:      src.Weblink,
		Released:     src.Released,
		ReleaseDate:  src.ReleaseDate,
		Ruleset: speedrun.Ruleset{
			ShowMilliseconds:    src.Ruleset.ShowMilliseconds,
			RequireVerification: src.Ruleset.RequireVerification,
			RequireVideo:        src.Ruleset.RequireVideo,
			EmulatorsAllowed:    src.Ruleset.EmulatorsAllowed,
			RunTimes:            src.Ruleset.RunTimes,
			DefaultTime:         src.Ruleset.DefaultTime,
		},
		Romhack:    src.Romhack,
		Categories: categories,
		Levels:     levels,
		Assets:     mapGameAssets(src.Assets),
	}
}

func mapCategory(src categoryPayload) speedrun.Category {
	variables := make([]speedrun.Variable, 0, len(src.Variables))
	for _, item := range src.Variables {
		values := make([]speedrun.VariableValue, 0, len(item.Values.Values))
		for _, value := range item.Values.Values {
			values = append(values, speedrun.VariableValue{
				ID:            value.ID,
				Label:         value.Label,
				Rules:         value.Rules,
				Miscellaneous: value.Misc,
			})
		}
		variables = append(variables, speedrun.Variable{
			ID:            item.ID,
			Name:          item.Name,
			CategoryID:    item.Category,
			Mandatory:     item.Mandatory,
			IsSubcategory: item.IsSubcategory,
			DefaultValue:  item.Values.Default,
			Values:        values,
		})
	}

	return speedrun.Category{
		ID:            src.ID,
		Name:          src.Name,
		Type:          speedrun.CategoryType(src.Type),
		Rules:         src.Rules,
		Miscellaneous: src.Miscellaneous,
		Variables:     variables,
	}
}

func mapGameAssets(src gameAssetsPayload) speedrun.GameAssets {
	return speedrun.GameAssets{
		CoverLarge: mapAsset(src.CoverLarge),
		Icon:       mapAsset(src.Icon),
		Trophy1st:  mapAsset(src.Trophy1st),
		Trophy2nd:  mapAsset(src.Trophy2nd),
		Trophy3rd:  mapAsset(src.Trophy3rd),
		Trophy4th:  mapAsset(src.Trophy4th),
	}
}

func mapAsset(src *assetPayload) *speedrun.Asset {
	if src == nil || strings.TrimSpace(src.URI) == "" {
		return nil
	}
	return &speedrun.Asset{URI: strings.TrimSpace(src.URI), Width: src.Width, Height: src.Height}
}

func mapLink(src *linkPayload) *speedrun.MediaLink {
	if src == nil || strings.TrimSpace(src.URI) == "" {
		return nil
	}
	return &speedrun.MediaLink{URI: strings.TrimSpace(src.URI)}
}

// parseRunDate reads the calendar date a run was performed on. Missing or
// malformed dates yield nil.
func parseRunDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if parsed, err := time.Parse(time.DateOnly, raw); err == nil {
		return &parsed
	}
	return parseTimestamp(raw)
}

func parseTimestamp(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	parsed = parsed.UTC()
	return &parsed
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if v := strings.TrimSpace(value); v != "" {
			return v
		}
	}
	return ""
}
