package speedrun

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// RunTimes carries the timings of a run. The *T fields are seconds.
type RunTimes struct {
	Primary          string
	PrimaryT         float64
	Realtime         string
	RealtimeT        float64
	RealtimeNoLoads  string
	RealtimeNoLoadsT float64
	Ingame           string
	IngameT          float64
}

// Format renders the primary time as "1h 02m 03s 450ms", falling back to the
// raw primary value when no numeric time was recorded.
func (t RunTimes) Format() string {
	if t.PrimaryT > 0 {
		return FormatSeconds(t.PrimaryT)
	}
	return strings.TrimSpace(t.Primary)
}

func FormatSeconds(seconds float64) string {
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return ""
	}

	total := int64(math.Round(seconds * 1000))
	ms := total % 1000
	total /= 1000
	s := total % 60
	total /= 60
	m := total % 60
	h := total / 60

	var out string
	switch {
	case h > 0:
		out = fmt.Sprintf("%dh %02dm %02ds", h, m, s)
	case m > 0:
		out = fmt.Sprintf("%dm %02ds", m, s)
	default:
		out = fmt.Sprintf("%ds", s)
	}
	if ms > 0 {
		out += fmt.Sprintf(" %03dms", ms)
	}
	return out
}

type RunSystem struct {
	Platform string
	Region   string
	Emulated bool
}

// Run is a single recorded attempt. Date is nil when the runner did not record one.
type Run struct {
	ID         string
	Weblink    string
	GameID     string
	CategoryID string
	LevelID    string
	Date       *time.Time
	Submitted  *time.Time
	Players    []User
	Times      RunTimes
	System     RunSystem
	Values     map[string]string
	Comment    string
	Videos     []string
	Status     string
}

// RunEntry is a run as ranked on a leaderboard. Place is 1-based; ties share a
// place and 0 means the run is unranked.
type RunEntry struct {
	Place int
	Run   Run
}

func (e RunEntry) PlaceName() string {
	return PlaceName(e.Place)
}

// PlaceName returns the ordinal label of a place ("1st", "12th", "23rd") or "-"
// for unranked runs.
func PlaceName(place int) string {
	if place <= 0 {
		return "-"
	}

	suffix := "th"
	switch place % 100 {
	case 11, 12, 13:
	default:
		switch place % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(place) + suffix
}

// newerThan orders two optional dates newest first. It returns false whenever
// either date is missing so that undated runs compare equal to everything.
func newerThan(a, b *time.Time) bool {
	if a == nil || b == nil {
		return false
	}
	return a.After(*b)
}

// CompareDatesDesc is a three-way comparator ordering dates newest first.
// A missing date on either side compares equal and never panics.
func CompareDatesDesc(a, b *time.Time) int {
	switch {
	case a == nil || b == nil:
		return 0
	case a.After(*b):
		return -1
	case b.After(*a):
		return 1
	default:
		return 0
	}
}
