package httpapi

import (
	"time"

	"github.com/riskibarqy/speedrun-browser/internal/domain/personalbest"
	"github.com/riskibarqy/speedrun-browser/internal/domain/speedrun"
	"github.com/riskibarqy/speedrun-browser/internal/domain/subscription"
	"github.com/riskibarqy/speedrun-browser/internal/usecase"
)

type assetDTO struct {
	URI    string `json:"uri"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

type gameAssetsDTO struct {
	CoverLarge *assetDTO `json:"cover_large,omitempty"`
	Icon       *assetDTO `json:"icon,omitempty"`
	Trophy1st  *assetDTO `json:"trophy_1st,omitempty"`
	Trophy2nd  *assetDTO `json:"trophy_2nd,omitempty"`
	Trophy3rd  *assetDTO `json:"trophy_3rd,omitempty"`
	Trophy4th  *assetDTO `json:"trophy_4th,omitempty"`
}

type rulesetDTO struct {
	ShowMilliseconds    bool     `json:"show_milliseconds"`
	RequireVerification bool     `json:"require_verification"`
	RequireVideo        bool     `json:"require_video"`
	EmulatorsAllowed    bool     `json:"emulators_allowed"`
	RunTimes            []string `json:"run_times"`
	DefaultTime         string   `json:"default_time"`
}

type variableValueDTO struct {
	ID            string `json:"id"`
	Label         string `json:"label"`
	Rules         string `json:"rules,omitempty"`
	Miscellaneous bool   `json:"miscellaneous"`
}

type variableDTO struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Mandatory     bool               `json:"mandatory"`
	IsSubcategory bool               `json:"is_subcategory"`
	DefaultValue  string             `json:"default_value,omitempty"`
	Values        []variableValueDTO `json:"values"`
}

type categoryDTO struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Type          string        `json:"type"`
	PerLevel      bool          `json:"per_level"`
	Miscellaneous bool          `json:"miscellaneous"`
	Rules         string        `json:"rules,omitempty"`
	Variables     []variableDTO `json:"variables"`
}

type levelDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Rules string `json:"rules,omitempty"`
}

type gameDTO struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Abbreviation string        `json:"abbreviation,omitempty"`
	Weblink      string        `json:"weblink,omitempty"`
	ReleaseDate  string        `json:"release_date,omitempty"`
	Romhack      bool          `json:"romhack"`
	Ruleset      rulesetDTO    `json:"ruleset"`
	Categories   []categoryDTO `json:"categories"`
	Levels       []levelDTO    `json:"levels"`
	Assets       gameAssetsDTO `json:"assets"`
}

type userDTO struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Guest     bool   `json:"guest"`
	Weblink   string `json:"weblink,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Twitch    string `json:"twitch,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Youtube   string `json:"youtube,omitempty"`
}

type runTimesDTO struct {
	Primary          float64 `json:"primary_seconds"`
	Realtime         float64 `json:"realtime_seconds,omitempty"`
	RealtimeNoLoads  float64 `json:"realtime_noloads_seconds,omitempty"`
	Ingame           float64 `json:"ingame_seconds,omitempty"`
	PrimaryFormatted string  `json:"primary"`
}

type runEntryDTO struct {
	Place     int               `json:"place"`
	PlaceName string            `json:"place_name"`
	RunID     string            `json:"run_id"`
	Weblink   string            `json:"weblink,omitempty"`
	Date      *string           `json:"date"`
	Submitted *string           `json:"submitted,omitempty"`
	Times     runTimesDTO       `json:"times"`
	Players   []userDTO         `json:"players"`
	Values    map[string]string `json:"values,omitempty"`
	Videos    []string          `json:"videos,omitempty"`
	Comment   string            `json:"comment,omitempty"`
	Status    string            `json:"status,omitempty"`
	Platform  string            `json:"platform,omitempty"`
	Emulated  bool              `json:"emulated"`
}

type leaderboardDTO struct {
	Key        string        `json:"key"`
	GameID     string        `json:"game_id,omitempty"`
	CategoryID string        `json:"category_id"`
	LevelID    string        `json:"level_id,omitempty"`
	Weblink    string        `json:"weblink,omitempty"`
	Timing     string        `json:"timing,omitempty"`
	VideoOnly  bool          `json:"video_only"`
	Empty      bool          `json:"empty"`
	Missing    bool          `json:"missing,omitempty"`
	Variables  []variableDTO `json:"variables,omitempty"`
	Runs       []runEntryDTO `json:"runs"`
}

type personalBestRowDTO struct {
	Label        string    `json:"label"`
	CategoryID   string    `json:"category_id"`
	CategoryName string    `json:"category_name"`
	LevelID      string    `json:"level_id,omitempty"`
	LevelName    string    `json:"level_name,omitempty"`
	Place        int       `json:"place"`
	PlaceName    string    `json:"place_name"`
	Time         string    `json:"time"`
	Date         *string   `json:"date"`
	RunID        string    `json:"run_id"`
	Weblink      string    `json:"weblink,omitempty"`
	Trophy       *assetDTO `json:"trophy,omitempty"`
}

type personalBestSectionDTO struct {
	GameID        string               `json:"game_id"`
	GameName      string               `json:"game_name"`
	Cover         *assetDTO            `json:"cover,omitempty"`
	NewestRunDate *string              `json:"newest_run_date"`
	Rows          []personalBestRowDTO `json:"rows"`
}

type personalBestsDTO struct {
	Player   userDTO                  `json:"player"`
	Sections []personalBestSectionDTO `json:"sections"`
}

type subscriptionDTO struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Topic      string `json:"topic"`
	CreatedAt  string `json:"created_at"`
}

func assetToDTO(v *speedrun.Asset) *assetDTO {
	if v == nil {
		return nil
	}
	return &assetDTO{URI: v.URI, Width: v.Width, Height: v.Height}
}

func gameAssetsToDTO(v speedrun.GameAssets) gameAssetsDTO {
	return gameAssetsDTO{
		CoverLarge: assetToDTO(v.CoverLarge),
		Icon:       assetToDTO(v.Icon),
		Trophy1st:  assetToDTO(v.Trophy1st),
		Trophy2nd:  assetToDTO(v.Trophy2nd),
		Trophy3rd:  assetToDTO(v.Trophy3rd),
		Trophy4th:  assetToDTO(v.Trophy4th),
	}
}

func variablesToDTO(items []speedrun.Variable) []variableDTO {
	out := make([]variableDTO, 0, len(items))
	for _, v := range items {
		values := make([]variableValueDTO, 0, len(v.Values))
		for _, value := range v.Values {
			values = append(values, variableValueDTO{
				ID:            value.ID,
				Label:         value.Label,
				Rules:         value.Rules,
				Miscellaneous: value.Miscellaneous,
			})
		}
		out = append(out, variableDTO{
			ID:            v.ID,
			Name:          v.Name,
			Mandatory:     v.Mandatory,
			IsSubcategory: v.IsSubcategory,
			DefaultValue:  v.DefaultValue,
			Values:        values,
		})
	}
	return out
}

func gameToDTO(v speedrun.Game) gameDTO {
	categories := make([]categoryDTO, 0, len(v.Categories))
	for _, c := range v.Categories {
		categories = append(categories, categoryDTO{
			ID:            c.ID,
			Name:          c.Name,
			Type:          string(c.Type),
			PerLevel:      c.PerLevel(),
			Miscellaneous: c.Miscellaneous,
			Rules:         c.Rules,
			Variables:     variablesToDTO(c.Variables),
		})
	}

	levels := make([]levelDTO, 0, len(v.Levels))
	for _, l := range v.Levels {
		levels = append(levels, levelDTO{ID: l.ID, Name: l.Name, Rules: l.Rules})
	}

	return gameDTO{
		ID:           v.ID,
		Name:         v.Name(),
		Abbreviation: v.Abbreviation,
		Weblink:      v.Weblink,
		ReleaseDate:  v.ReleaseDate,
		Romhack:      v.Romhack,
		Ruleset: rulesetDTO{
			ShowMilliseconds:    v.Ruleset.ShowMilliseconds,
			RequireVerification: v.Ruleset.RequireVerification,
			RequireVideo:        v.Ruleset.RequireVideo,
			EmulatorsAllowed:    v.Ruleset.EmulatorsAllowed,
			RunTimes:            append([]string{}, v.Ruleset.RunTimes...),
			DefaultTime:         v.Ruleset.DefaultTime,
		},
		Categories: categories,
		Levels:     levels,
		Assets:     gameAssetsToDTO(v.Assets),
	}
}

func userToDTO(v speedrun.User) userDTO {
	out := userDTO{
		ID:      v.ID,
		Name:    v.DisplayName(),
		Guest:   v.IsGuest(),
		Weblink: v.Weblink,
		Twitch:  linkURI(v.Twitch),
		Twitter: linkURI(v.Twitter),
		Youtube: linkURI(v.Youtube),
	}
	if avatar, ok := v.AvatarURL(); ok {
		out.AvatarURL = avatar
	}
	return out
}

func linkURI(v *speedrun.MediaLink) string {
	if v == nil {
		return ""
	}
	return v.URI
}

func runEntryToDTO(entry speedrun.RunEntry, players []speedrun.User) runEntryDTO {
	run := entry.Run
	out := runEntryDTO{
		Place:     entry.Place,
		PlaceName: speedrun.PlaceName(entry.Place),
		RunID:     run.ID,
		Weblink:   run.Weblink,
		Date:      formatDate(run.Date),
		Submitted: formatTimestamp(run.Submitted),
		Times: runTimesDTO{
			Primary:          run.Times.PrimaryT,
			Realtime:         run.Times.RealtimeT,
			RealtimeNoLoads:  run.Times.RealtimeNoLoadsT,
			Ingame:           run.Times.IngameT,
			PrimaryFormatted: run.Times.Format(),
		},
		Players:  make([]userDTO, 0, len(players)),
		Values:   run.Values,
		Videos:   run.Videos,
		Comment:  run.Comment,
		Status:   run.Status,
		Platform: run.System.Platform,
		Emulated: run.System.Emulated,
	}
	for _, p := range players {
		out.Players = append(out.Players, userToDTO(p))
	}
	return out
}

func leaderboardViewToDTO(v usecase.LeaderboardView) leaderboardDTO {
	runs := make([]runEntryDTO, 0, len(v.Runs))
	for _, entry := range v.Runs {
		runs = append(runs, runEntryToDTO(entry.RunEntry, entry.Players))
	}

	categoryID := v.CategoryID
	if categoryID == "" {
		categoryID = v.Leaderboard.CategoryID
	}
	levelID := v.LevelID
	if levelID == "" {
		levelID = v.Leaderboard.LevelID
	}

	out := leaderboardDTO{
		Key:        v.Key,
		GameID:     v.Leaderboard.GameID,
		CategoryID: categoryID,
		LevelID:    levelID,
		Weblink:    v.Leaderboard.Weblink,
		Timing:     v.Leaderboard.Timing,
		VideoOnly:  v.Leaderboard.VideoOnly,
		Empty:      v.Empty,
		Missing:    v.Missing,
		Runs:       runs,
	}
	if len(v.Variables) > 0 {
		out.Variables = variablesToDTO(v.Variables)
	}
	return out
}

func personalBestsToDTO(v usecase.PersonalBestsView) personalBestsDTO {
	sections := make([]personalBestSectionDTO, 0, len(v.Sections))
	for _, section := range v.Sections {
		sections = append(sections, sectionToDTO(section))
	}
	return personalBestsDTO{
		Player:   userToDTO(v.Player),
		Sections: sections,
	}
}

func sectionToDTO(v personalbest.Section) personalBestSectionDTO {
	rows := make([]personalBestRowDTO, 0, len(v.Rows))
	for _, row := range v.Rows {
		rows = append(rows, personalBestRowDTO{
			Label:        row.Label,
			CategoryID:   row.CategoryID,
			CategoryName: row.CategoryName,
			LevelID:      row.LevelID,
			LevelName:    row.LevelName,
			Place:        row.Entry.Place,
			PlaceName:    row.PlaceName,
			Time:         row.Time,
			Date:         formatDate(row.Date()),
			RunID:        row.Entry.Run.ID,
			Weblink:      row.Entry.Run.Weblink,
			Trophy:       assetToDTO(row.Trophy),
		})
	}

	return personalBestSectionDTO{
		GameID:        v.GameID,
		GameName:      v.GameName,
		Cover:         assetToDTO(v.Cover),
		NewestRunDate: formatDate(v.NewestRunDate),
		Rows:          rows,
	}
}

func subscriptionToDTO(v subscription.Subscription) subscriptionDTO {
	return subscriptionDTO{
		EntityType: string(v.EntityType),
		EntityID:   v.EntityID,
		Topic:      v.Topic(),
		CreatedAt:  v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func formatDate(v *time.Time) *string {
	if v == nil {
		return nil
	}
	out := v.Format(time.DateOnly)
	return &out
}

func formatTimestamp(v *time.Time) *string {
	if v == nil {
		return nil
	}
	out := v.UTC().Format(time.RFC3339)
	return &out
}
