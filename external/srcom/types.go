package srcom

import (
	"fmt"
	"sort"

	"github.com/bytedance/sonic"
	"github.com/tidwall/gjson"
)

type envelope[T any] struct {
	Data  []T          `json:"data"`
	Error *apiError    `json:"error"`
	More  *moreSummary `json:"more"`
}

type apiError struct {
	Msg string `json:"msg"`
}

type moreSummary struct {
	Code  string `json:"code"`
	Count int    `json:"count"`
}

// listOrData accepts either a bare JSON array or an embedded {"data": [...]} object.
type listOrData[T any] []T

func (l *listOrData[T]) UnmarshalJSON(raw []byte) error {
	node := gjson.ParseBytes(raw)
	if node.IsObject() {
		node = node.Get("data")
	}
	if !node.IsArray() {
		*l = nil
		return nil
	}

	var items []T
	if err := sonic.UnmarshalString(node.Raw, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

// playerList accepts the leaderboard players either as an array or as an
// object keyed by user id. Object entries are read in key order.
type playerList []userPayload

func (p *playerList) UnmarshalJSON(raw []byte) error {
	node := gjson.ParseBytes(raw)
	switch {
	case node.IsArray():
		var items []userPayload
		if err := sonic.UnmarshalString(node.Raw, &items); err != nil {
			return err
		}
		*p = items
	case node.IsObject():
		byID := make(map[string]userPayload)
		if err := sonic.UnmarshalString(node.Raw, &byID); err != nil {
			return err
		}
		ids := make([]string, 0, len(byID))
		for id := range byID {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		items := make([]userPayload, 0, len(ids))
		for _, id := range ids {
			item := byID[id]
			if item.ID == "" {
				item.ID = id
			}
			items = append(items, item)
		}
		*p = items
	default:
		*p = nil
	}
	return nil
}

type assetPayload struct {
	URI    string `json:"uri"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type gameAssetsPayload struct {
	CoverLarge *assetPayload `json:"cover-large"`
	Icon       *assetPayload `json:"icon"`
	Trophy1st  *assetPayload `json:"trophy-1st"`
	Trophy2nd  *assetPayload `json:"trophy-2nd"`
	Trophy3rd  *assetPayload `json:"trophy-3rd"`
	Trophy4th  *assetPayload `json:"trophy-4th"`
}

type rulesetPayload struct {
	ShowMilliseconds    bool     `json:"show-milliseconds"`
	RequireVerification bool     `json:"require-verification"`
	RequireVideo        bool     `json:"require-video"`
	RunTimes            []string `json:"run-times"`
	DefaultTime         string   `json:"default-time"`
	EmulatorsAllowed    bool     `json:"emulators-allowed"`
}

type gamePayload struct {
	ID           string                      `json:"id"`
	Names        map[string]string           `json:"names"`
	Abbreviation string                      `json:"abbreviation"`
	Weblink      string                      `json:"weblink"`
	Released     int                         `json:"released"`
	ReleaseDate  string                      `json:"release-date"`
	Ruleset      rulesetPayload              `json:"ruleset"`
	Romhack      bool                        `json:"romhack"`
	Categories   listOrData[categoryPayload] `json:"categories"`
	Levels       listOrData[levelPayload]    `json:"levels"`
	Assets       gameAssetsPayload           `json:"assets"`
}

type categoryPayload struct {
	ID            string                      `json:"id"`
	Name          string                      `json:"name"`
	Type          string                      `json:"type"`
	Rules         string                      `json:"rules"`
	Miscellaneous bool                        `json:"miscellaneous"`
	Variables     listOrData[variablePayload] `json:"variables"`
}

type levelPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Rules string `json:"rules"`
}

type variablePayload struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Category      string                `json:"category"`
	Mandatory     bool                  `json:"mandatory"`
	IsSubcategory bool                  `json:"is-subcategory"`
	Values        variableValuesPayload `json:"values"`
}

type variableValuePayload struct {
	ID    string
	Label string
	Rules string
	Misc  bool
}

// variableValuesPayload keeps values in the order the upstream lists them:
// {"values": {"<id>": {"label": ..., "rules": ..., "flags": {"miscellaneous": ...}}}, "default": "<id>"}.
type variableValuesPayload struct {
	Values  []variableValuePayload
	Default string
}

func (v *variableValuesPayload) UnmarshalJSON(raw []byte) error {
	node := gjson.ParseBytes(raw)
	if !node.IsObject() {
		return fmt.Errorf("variable values must be an object")
	}

	v.Default = node.Get("default").String()
	v.Values = v.Values[:0]
	node.Get("values").ForEach(func(key, value gjson.Result) bool {
		v.Values = append(v.Values, variableValuePayload{
			ID:    key.String(),
			Label: value.Get("label").String(),
			Rules: value.Get("rules").String(),
			Misc:  value.Get("flags.miscellaneous").Bool(),
		})
		return true
	})
	return nil
}

type linkPayload struct {
	URI string `json:"uri"`
}

type userPayload struct {
	ID            string                          `json:"id"`
	Rel           string                          `json:"rel"`
	Name          string                          `json:"name"`
	Names         map[string]string               `json:"names"`
	Weblink       string                          `json:"weblink"`
	Twitch        *linkPayload                    `json:"twitch"`
	Twitter       *linkPayload                    `json:"twitter"`
	Youtube       *linkPayload                    `json:"youtube"`
	SpeedrunsLive *linkPayload                    `json:"speedrunslive"`
	Bests         map[string]userGameBestsPayload `json:"bests"`
}

type userGameBestsPayload struct {
	ID         string                             `json:"id"`
	Names      map[string]string                  `json:"names"`
	Assets     gameAssetsPayload                  `json:"assets"`
	Categories map[string]userCategoryBestPayload `json:"categories"`
}

type userCategoryBestPayload struct {
	ID     string                          `json:"id"`
	Name   string                          `json:"name"`
	Type   string                          `json:"type"`
	Run    *runEntryPayload                `json:"run"`
	Levels map[string]userLevelBestPayload `json:"levels"`
}

type userLevelBestPayload struct {
	ID   string           `json:"id"`
	Name string           `json:"name"`
	Run  *runEntryPayload `json:"run"`
}

type runEntryPayload struct {
	Place int        `json:"place"`
	Run   runPayload `json:"run"`
}

type runTimesPayload struct {
	Primary          string  `json:"primary"`
	PrimaryT         float64 `json:"primary_t"`
	Realtime         string  `json:"realtime"`
	RealtimeT        float64 `json:"realtime_t"`
	RealtimeNoLoads  string  `json:"realtime_noloads"`
	RealtimeNoLoadsT float64 `json:"realtime_noloads_t"`
	Ingame           string  `json:"ingame"`
	IngameT          float64 `json:"ingame_t"`
}

type runSystemPayload struct {
	Platform string `json:"platform"`
	Region   string `json:"region"`
	Emulated bool   `json:"emulated"`
}

type runStatusPayload struct {
	Status string `json:"status"`
}

type runVideosPayload struct {
	Links []linkPayload `json:"links"`
}

type runPayload struct {
	ID        string            `json:"id"`
	Weblink   string            `json:"weblink"`
	Game      string            `json:"game"`
	Category  string            `json:"category"`
	Level     string            `json:"level"`
	Date      string            `json:"date"`
	Submitted string            `json:"submitted"`
	Comment   string            `json:"comment"`
	Status    runStatusPayload  `json:"status"`
	Players   []userPayload     `json:"players"`
	Times     runTimesPayload   `json:"times"`
	System    runSystemPayload  `json:"system"`
	Values    map[string]string `json:"values"`
	Videos    *runVideosPayload `json:"videos"`
}

type leaderboardPayload struct {
	Weblink   string            `json:"weblink"`
	Game      string            `json:"game"`
	Category  string            `json:"category"`
	Level     string            `json:"level"`
	Platform  string            `json:"platform"`
	Region    string            `json:"region"`
	Emulators string            `json:"emulators"`
	VideoOnly bool              `json:"video-only"`
	Timing    string            `json:"timing"`
	Runs      []runEntryPayload `json:"runs"`
	Players   playerList        `json:"players"`
}
