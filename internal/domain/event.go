package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Event groups.
const (
	GroupSprint         = "Sprint"
	GroupMiddleDistance = "Middle Distance"
	GroupDistance       = "Distance"
	GroupRoad           = "Distance (Road)"
	GroupHurdles        = "Hurdles"
	GroupJumps          = "Jumps"
	GroupThrows         = "Throws"
	GroupOther          = "Other"
)

// Event categories.
const (
	CategoryTrack = "Track"
	CategoryField = "Field"
	CategoryRoad  = "Road"
	CategoryMulti = "Multi-event"
)

// Measurement units.
const (
	UnitSeconds = "seconds"
	UnitMeters  = "meters"
)

// EventGenderMixed is the gender context of events that are not gender specific.
const EventGenderMixed = "Mixed"

const metresPerMile = 1609.344

// mileMetres is the whole-metre distance of one mile.
const mileMetres = 1609

var (
	thousandsRe = regexp.MustCompile(`(\d),(\d{3})`)
	excludedRe  = regexp.MustCompile(`decathlon|heptathlon`)
	hurdlesRe   = regexp.MustCompile(`hurdles`)
	jumpsRe     = regexp.MustCompile(`jump|vault`)
	throwsRe    = regexp.MustCompile(`throw|\bput\b|\bshot\b`)

	// Distances are anchored on a non-digit so "1000" never matches inside
	// "10000" and "4x100" still matches "100".
	sprintRe   = regexp.MustCompile(`(?:^|\D)(?:60|100|200|300|400)\s*(?:m|metres|meters)\b`)
	roadRe     = regexp.MustCompile(`kilomet|\d\s*km\b|marathon|\broad\b`)
	distanceRe = regexp.MustCompile(`(?:^|\D)(?:5000|10000|15000|20000|25000|30000)\s*(?:m|metres|meters)\b|race walk|cross country`)
	middleRe   = regexp.MustCompile(`(?:^|\D)(?:600|800|1000|1500|2000|3000)\s*(?:m|metres|meters)\b|\bmiles?\b|steeplechase`)

	mileNumberRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:miles?|mi)\b`)
	mileWordRe   = regexp.MustCompile(`\b(half|one|two|three|four|five|six|seven|eight|nine|ten)\s+miles?\b`)
	bareMileRe   = regexp.MustCompile(`^(?:the\s+)?miles?$`)
	meterRe      = regexp.MustCompile(`(\d+)\s*(?:metres|meters|m)\b`)
	kilometreRe  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:kilometres|kilometers|km)\b`)
	relayRe      = regexp.MustCompile(`(\d+)\s*[x×]\s*(\d+)`)

	mileWords = map[string]float64{
		"half": 0.5, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
		"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	}

	fieldNames = []struct{ keyword, name string }{
		{"high jump", "High Jump"},
		{"pole vault", "Pole Vault"},
		{"long jump", "Long Jump"},
		{"triple jump", "Triple Jump"},
		{"shot", "Shot Put"},
		{"discus", "Discus Throw"},
		{"hammer", "Hammer Throw"},
		{"javelin", "Javelin Throw"},
	}
)

// eventText lower-cases an event name and removes thousands separators.
func eventText(raw string) string {
	return thousandsRe.ReplaceAllString(strings.ToLower(collapseSpaces(raw)), "$1$2")
}

// IsExcludedEvent reports combined events, which never reach the output.
func IsExcludedEvent(raw string) bool {
	return excludedRe.MatchString(eventText(raw))
}

// EventGroup assigns the group by keyword priority. Hurdles are checked
// before any distance so "110m Hurdles" is never a sprint.
func EventGroup(raw string) string {
	s := eventText(raw)
	switch {
	case hurdlesRe.MatchString(s):
		return GroupHurdles
	case jumpsRe.MatchString(s):
		return GroupJumps
	case throwsRe.MatchString(s):
		return GroupThrows
	case sprintRe.MatchString(s):
		return GroupSprint
	case roadRe.MatchString(s):
		return GroupRoad
	case distanceRe.MatchString(s):
		return GroupDistance
	case middleRe.MatchString(s):
		return GroupMiddleDistance
	default:
		return GroupOther
	}
}

// EventCategory derives the category from the group.
func EventCategory(group string) string {
	switch group {
	case GroupSprint, GroupMiddleDistance, GroupDistance, GroupHurdles:
		return CategoryTrack
	case GroupJumps, GroupThrows:
		return CategoryField
	case GroupRoad:
		return CategoryRoad
	default:
		return CategoryMulti
	}
}

// EventUnit is seconds for track and road events, metres otherwise.
func EventUnit(category string) string {
	if category == CategoryTrack || category == CategoryRoad {
		return UnitSeconds
	}
	return UnitMeters
}

// ExtractDistance returns the race distance in metres. Rules apply in order:
// miles, metres, kilometres, named distances, relay legs.
func ExtractDistance(raw string) (int, bool) {
	s := eventText(raw)

	if m := mileNumberRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.ParseFloat(m[1], 64)
		return int(n * metresPerMile), true
	}
	if m := mileWordRe.FindStringSubmatch(s); m != nil {
		return int(mileWords[m[1]] * metresPerMile), true
	}
	if bareMileRe.MatchString(s) {
		return mileMetres, true
	}
	if m := meterRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n, true
	}
	if m := kilometreRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.ParseFloat(m[1], 64)
		return int(n * 1000), true
	}
	switch {
	case strings.Contains(s, "half marathon"):
		return 21098, true
	case strings.Contains(s, "marathon"):
		return 42195, true
	case strings.Contains(s, "steeplechase"):
		return 3000, true
	}
	if m := relayRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[2])
		return n, true
	}
	return 0, false
}

// EventGender tags the gender-specific hurdles heights.
func EventGender(raw string) string {
	s := eventText(raw)
	if !strings.Contains(s, "hurdles") {
		return EventGenderMixed
	}
	switch {
	case strings.Contains(s, "110"):
		return string(GenderMale)
	case strings.Contains(s, "100"):
		return string(GenderFemale)
	default:
		return EventGenderMixed
	}
}

// StandardizeEventName maps a raw event name to its canonical form, e.g.
// "110 Metres Hurdles" -> "110m Hurdles". It is a pure function of the raw
// name and canonical names map to themselves.
func StandardizeEventName(raw string) string {
	s := eventText(raw)
	if s == "" {
		return Unknown
	}
	group := EventGroup(raw)
	if group == GroupJumps || group == GroupThrows {
		for _, f := range fieldNames {
			if strings.Contains(s, f.keyword) {
				return f.name
			}
		}
		return TitleCase(raw)
	}

	switch {
	case strings.Contains(s, "half marathon"):
		return "Half Marathon"
	case strings.Contains(s, "marathon"):
		return "Marathon"
	}

	d, ok := ExtractDistance(raw)
	if !ok {
		return TitleCase(raw)
	}
	switch {
	case strings.Contains(s, "relay"):
		if m := relayRe.FindStringSubmatch(s); m != nil {
			return fmt.Sprintf("%sx%dm Relay", m[1], d)
		}
		return fmt.Sprintf("%dm Relay", d)
	case group == GroupHurdles:
		return fmt.Sprintf("%dm Hurdles", d)
	case strings.Contains(s, "steeplechase"):
		return fmt.Sprintf("%dm Steeplechase", d)
	case strings.Contains(s, "race walk") || strings.Contains(s, "racewalk"):
		if d%1000 == 0 && d >= 10000 {
			return fmt.Sprintf("%dkm Race Walk", d/1000)
		}
		return fmt.Sprintf("%dm Race Walk", d)
	case strings.Contains(s, "mile") || bareMileRe.MatchString(s):
		if d == mileMetres {
			return "Mile"
		}
		return TitleCase(raw)
	case group == GroupRoad:
		if d%1000 == 0 {
			return fmt.Sprintf("%dkm Road", d/1000)
		}
		return fmt.Sprintf("%dm Road", d)
	default:
		return fmt.Sprintf("%dm", d)
	}
}

// ClassifyEvent maps a raw event name to the taxonomy. ok is false for
// combined events, which are excluded from every output.
func ClassifyEvent(raw string) (Event, bool) {
	name := collapseSpaces(raw)
	if name == "" || IsExcludedEvent(name) {
		return Event{}, false
	}
	group := EventGroup(name)
	category := EventCategory(group)
	ev := Event{
		Name:             name,
		StandardizedName: StandardizeEventName(name),
		Group:            group,
		Category:         category,
		Unit:             EventUnit(category),
		Gender:           EventGender(name),
		IsOutdoor:        !strings.Contains(strings.ToLower(name), "short track"),
	}
	if d, ok := ExtractDistance(name); ok {
		ev.DistanceMeters = &d
	}
	return ev, true
}

// EventStats counts the classifier outcomes.
type EventStats struct {
	Distinct int
	Excluded int
	ByGroup  map[string]int
}

// BuildEvents classifies every distinct raw event name, keyed in sorted order.
func BuildEvents(names []string) ([]Event, EventStats) {
	seen := make(map[string]struct{}, len(names))
	distinct := make([]string, 0, len(names))
	for _, n := range names {
		n = collapseSpaces(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		distinct = append(distinct, n)
	}
	sort.Strings(distinct)

	stats := EventStats{Distinct: len(distinct), ByGroup: make(map[string]int)}
	events := make([]Event, 0, len(distinct))
	for _, n := range distinct {
		ev, ok := ClassifyEvent(n)
		if !ok {
			stats.Excluded++
			continue
		}
		ev.Key = int64(len(events) + 1)
		stats.ByGroup[ev.Group]++
		events = append(events, ev)
	}
	return events, stats
}
