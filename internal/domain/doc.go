// Package domain reconciles staged athletics data into warehouse-ready
// entities and scores every performance.
//
// # Data Sources
//
// Three staged datasets feed a run: World Athletics performance rows, a world
// cities gazetteer, and historical daily city temperatures. They arrive as
// loosely typed strings; nothing in this package performs I/O.
//
// # Reconciliation Order
//
// Stages run strictly in sequence because later stages join against the
// output of earlier ones:
//
//	events -> athletes -> venues -> weather -> performances
//
// Athletes depend on events only for the specialization attribute. The
// performance stage is the terminal fan-in: it resolves every row against
// all four reconciled tables before scoring.
//
// # Keys and Sentinels
//
// Entity keys are assigned sequentially from 1 in a deterministic order
// (sorted natural keys), so identical input yields identical keys. Key 0 is
// reserved for the explicit unknown entities returned by [UnknownVenue] and
// [UnknownWeather], and for [UnknownDateKey]. Athletes and events have no
// sentinel: a performance that cannot resolve either is dropped.
//
// # Name Conventions
//
// Matching keys are upper case with diacritics removed and punctuation
// stripped ("Zürich" -> "ZURICH"). Display names are title case. The key
// form of a missing value is "UNKNOWN"; the display form is "Unknown".
//
// # Result Encoding
//
// Marks are seconds for track and road events and metres for field events:
//
//	"9.58"      -> 9.58 s
//	"3:45.20"   -> 225.20 s   (MM:SS.ss)
//	"2:01:09"   -> 7269 s     (HH:MM:SS)
//	"8.95"      -> 8.95 m
//	DNF DQ DNS NM "" -> no result
//
// # Scoring Model
//
// Points follow the World Athletics power law. Coefficients are data, keyed
// by standardized event name and gender, calibrated so each world record
// scores 1200:
//
//	track/road: A * (B - result)^C   when result < B
//	field:      A * (result - B)^C   when result > B
//
// Scores are clamped to [0, 1400]. Events without coefficients use a linear
// legacy heuristic; formula failures (NaN, Inf) yield a neutral 500.
//
// Environmental normalisation:
//
//	Altitude (above 300 m, km = (alt - 300) / 1000):
//	  Sprint:           time / (1 - 0.0095 km)
//	  Jumps, Throws:    mark / (1 + 0.012 km)
//	  Middle, Distance: time / (1 + 0.063 km)
//	Temperature: 1 - |T - 11| * rate, clamped to [0.5, 1.5]
//	  rate 0.001 sprint/jumps/throws | 0.002 middle distance | 0.004 distance
package domain
