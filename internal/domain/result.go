package domain

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Record-level rejection causes. They are counted, never returned from a run.
var (
	ErrNoResult          = errors.New("no result")
	ErrMalformedResult   = errors.New("malformed result")
	ErrResultOutOfRange  = errors.New("result outside sanity window")
	ErrUnrealisticResult = errors.New("result outside realism bounds")
	ErrMalformedDate     = errors.New("malformed competition date")
)

var (
	nonResults = map[string]bool{"DNF": true, "DQ": true, "DNS": true, "NM": true, "": true}

	// resultMarkRe strips annotations trailing a mark: "A" altitude assisted,
	// "h" hand timed, "*" / "+" / "#" record and split markers.
	resultMarkRe = regexp.MustCompile(`\s*[Ah*+#]+$`)

	leadingIntRe = regexp.MustCompile(`^\s*(\d+)`)

	dateLayouts = []string{
		"2006-01-02",
		"02 Jan 2006",
		"2 Jan 2006",
		"02/01/2006",
		"2006-01-02 15:04:05",
		time.RFC3339,
	}
)

// ParseResult converts a raw mark to seconds or metres. Marks with one colon
// are MM:SS.ss, with two HH:MM:SS.ss, otherwise a plain number.
func ParseResult(raw string) (float64, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if nonResults[s] {
		return 0, ErrNoResult
	}
	s = strings.TrimSpace(resultMarkRe.ReplaceAllString(strings.TrimSpace(raw), ""))
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}

	parts := strings.Split(s, ":")
	values := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: %q", ErrMalformedResult, raw)
		}
		values[i] = v
	}

	switch len(values) {
	case 1:
		return values[0], nil
	case 2:
		return values[0]*60 + values[1], nil
	case 3:
		return values[0]*3600 + values[1]*60 + values[2], nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrMalformedResult, raw)
	}
}

// CheckSanity rejects values outside the configured window.
func CheckSanity(v, minValue, maxValue float64) error {
	if v < minValue || v > maxValue {
		return fmt.Errorf("%w: %v not in [%v, %v]", ErrResultOutOfRange, v, minValue, maxValue)
	}
	return nil
}

// ParseCompetitionDate parses the staged date. ok is false for an empty
// value, which resolves to the unknown date rather than a rejection.
func ParseCompetitionDate(raw string) (t time.Time, ok bool, err error) {
	s := collapseSpaces(raw)
	if s == "" {
		return time.Time{}, false, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("%w: %q", ErrMalformedDate, raw)
}

// DateKey is the yyyymmdd smart key of a date.
func DateKey(t time.Time) int64 {
	return int64(t.Year()*10000 + int(t.Month())*100 + t.Day())
}

// ParseWind returns the wind reading, or nil when absent or unparseable.
func ParseWind(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return nil
	}
	return &v
}

// ParsePosition keeps the leading place of marks such as "1", "3h1" or "2sf2".
func ParsePosition(raw string) *int {
	m := leadingIntRe.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}
