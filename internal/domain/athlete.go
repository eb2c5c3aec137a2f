package domain

import (
	"sort"
	"strings"
	"unicode"
)

// AthleteQualityScore is assigned to every athlete; the source carries no
// per-record quality signal.
const AthleteQualityScore = 8

// DefaultSpecialization is used when none of an athlete's events classify.
const DefaultSpecialization = "All-around"

// NormalizeGender maps free-text gender to the single-character enum.
func NormalizeGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "female", "f", "w", "women", "woman":
		return GenderFemale
	case "male", "m", "men", "man":
		return GenderMale
	default:
		return GenderUnknown
	}
}

// NationalityCode is the first three letters of the nationality, upper case.
func NationalityCode(nationality string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(stripDiacritics(nationality)) {
		if r < unicode.MaxASCII && unicode.IsLetter(r) {
			b.WriteRune(r)
			if b.Len() == 3 {
				break
			}
		}
	}
	if b.Len() == 0 {
		return "UNK"
	}
	return b.String()
}

type athleteCandidate struct {
	key         string
	name        string
	nationality string
	gender      string
	source      string
}

// AthleteStats counts the deduplication outcome.
type AthleteStats struct {
	Mentions   int
	Athletes   int
	Duplicates int
}

// DeduplicateAthletes collapses staged rows into one athlete per normalized
// name. Candidates are sorted by (name key, nationality, source) with empty
// values last and the first row per key survives; fields of discarded rows
// are not merged. events supplies groups for the specialization.
func DeduplicateAthletes(rows []StagedPerformance, events []Event) ([]Athlete, AthleteStats) {
	groupByEvent := make(map[string]string, len(events))
	for _, ev := range events {
		groupByEvent[ev.Name] = ev.Group
	}

	candidates := make([]athleteCandidate, 0, len(rows))
	groupCounts := make(map[string]map[string]int)
	for _, r := range rows {
		if strings.TrimSpace(r.AthleteName) == "" {
			continue
		}
		key := NormalizeAthleteName(r.AthleteName)
		candidates = append(candidates, athleteCandidate{
			key:         key,
			name:        collapseSpaces(r.AthleteName),
			nationality: collapseSpaces(r.Nationality),
			gender:      r.Gender,
			source:      strings.TrimSpace(r.Source),
		})
		if group, ok := groupByEvent[collapseSpaces(r.EventName)]; ok && group != GroupOther {
			if groupCounts[key] == nil {
				groupCounts[key] = make(map[string]int)
			}
			groupCounts[key][group]++
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.key != b.key {
			return a.key < b.key
		}
		if c := compareNullsLast(a.nationality, b.nationality); c != 0 {
			return c < 0
		}
		return compareNullsLast(a.source, b.source) < 0
	})

	stats := AthleteStats{Mentions: len(candidates)}
	athletes := make([]Athlete, 0, len(candidates))
	for i, c := range candidates {
		if i > 0 && candidates[i-1].key == c.key {
			stats.Duplicates++
			continue
		}
		nationality := Unknown
		if c.nationality != "" {
			nationality = strings.ToUpper(c.nationality)
		}
		athletes = append(athletes, Athlete{
			Key:             int64(len(athletes) + 1),
			Name:            c.name,
			NameClean:       TitleCase(c.name),
			NameKey:         c.key,
			Nationality:     nationality,
			NationalityCode: NationalityCode(c.nationality),
			Gender:          NormalizeGender(c.gender),
			Specialization:  specialization(groupCounts[c.key]),
			QualityScore:    AthleteQualityScore,
			Source:          c.source,
		})
	}
	stats.Athletes = len(athletes)
	return athletes, stats
}

// compareNullsLast orders empty strings after every non-empty one.
func compareNullsLast(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	default:
		return strings.Compare(a, b)
	}
}

// specialization is the most frequent event group; ties go to the group
// name that sorts first.
func specialization(counts map[string]int) string {
	best, bestCount := DefaultSpecialization, 0
	for group, n := range counts {
		if n > bestCount || (n == bestCount && group < best) {
			best, bestCount = group, n
		}
	}
	return best
}
