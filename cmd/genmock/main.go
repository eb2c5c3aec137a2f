// Command genmock writes synthetic staged CSV fixtures for local runs: an
// athletics results file in the World Athletics export layout, a city
// gazetteer and a monthly temperature file. Marks are drawn inside the
// realism window of the embedded scoring tables, and a share of rows is
// deliberately dirty so every rejection path is exercised.
//
// Usage:
//
//	go run ./cmd/genmock -out data -rows 500 -seed 42
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/igor224659/athletics-dw/internal/domain"
	"github.com/igor224659/athletics-dw/internal/refdata"
)

type athlete struct {
	name   string
	nat    string
	gender domain.Gender
	events []string
}

type venue struct {
	label     string
	city      string
	country   string // ISO2 in the gazetteer
	name      string // country name in the temperature file
	lat, lon  float64
	altitude  float64 // NaN leaves the cell empty
	baseTempC float64 // July mean, northern hemisphere shape
}

var roster = []athlete{
	{name: "Usain BOLT", nat: "JAM", gender: domain.GenderMale, events: []string{"100 Metres", "200 Metres"}},
	{name: "Shelly-Ann FRASER-PRYCE", nat: "JAM", gender: domain.GenderFemale, events: []string{"100 Metres", "200 Metres"}},
	{name: "Grant HOLLOWAY", nat: "USA", gender: domain.GenderMale, events: []string{"110 Metres Hurdles"}},
	{name: "Tobi AMUSAN", nat: "NGR", gender: domain.GenderFemale, events: []string{"100 Metres Hurdles"}},
	{name: "Jakob INGEBRIGTSEN", nat: "NOR", gender: domain.GenderMale, events: []string{"1500 Metres", "5000 Metres"}},
	{name: "Faith KIPYEGON", nat: "KEN", gender: domain.GenderFemale, events: []string{"1500 Metres", "5000 Metres"}},
	{name: "Eliud KIPCHOGE", nat: "KEN", gender: domain.GenderMale, events: []string{"Marathon"}},
	{name: "Armand DUPLANTIS", nat: "SWE", gender: domain.GenderMale, events: []string{"Pole Vault"}},
	{name: "Yulimar ROJAS", nat: "VEN", gender: domain.GenderFemale, events: []string{"Triple Jump", "Long Jump"}},
	{name: "Ryan CROUSER", nat: "USA", gender: domain.GenderMale, events: []string{"Shot Put"}},
	{name: "usain bolt", nat: "JAM", gender: domain.GenderMale, events: []string{"100 Metres"}},
	{name: "Local CLUBRUNNER", nat: "GBR", gender: domain.GenderUnknown, events: []string{"800 Metres", "Mile Road"}},
}

var venues = []venue{
	{label: "Olympiastadion, Berlin (GER)", city: "Berlin", country: "DE", name: "Germany", lat: 52.52, lon: 13.405, altitude: 34, baseTempC: 19.5},
	{label: "Stade de France, Paris (FRA)", city: "Paris", country: "FR", name: "France", lat: 48.8566, lon: 2.3522, altitude: 35, baseTempC: 20.5},
	{label: "Hayward Field, Eugene, OR (USA)", city: "Eugene", country: "US", name: "US", lat: 44.0521, lon: -123.0868, altitude: 130, baseTempC: 20},
	{label: "Estadio Olímpico Universitario, Ciudad de México (MEX)", city: "Mexico City", country: "MX", name: "Mexico", lat: 19.4326, lon: -99.1332, altitude: 2240, baseTempC: 17},
	{label: "Stadio Olimpico, Roma (ITA)", city: "Rome", country: "IT", name: "Italy", lat: 41.9028, lon: 12.4964, altitude: math.NaN(), baseTempC: 25},
	{label: "Letzigrund, Zürich (SUI)", city: "Zurich", country: "CH", name: "Switzerland", lat: 47.3769, lon: 8.5417, altitude: 408, baseTempC: 18.5},
	{label: "Hometown Track", city: "", country: "", name: "", baseTempC: math.NaN()},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out", "data", "directory for the generated CSV files")
	rows := flag.Int("rows", 500, "number of athletics rows")
	seed := flag.Uint64("seed", 42, "random seed")
	dirty := flag.Float64("dirty", 0.1, "share of rows made deliberately invalid")
	fahrenheit := flag.Bool("fahrenheit", true, "write temperatures in Fahrenheit")
	flag.Parse()

	if *rows <= 0 || *dirty < 0 || *dirty > 1 {
		flag.Usage()
		return fmt.Errorf("invalid flags: -rows must be positive and -dirty within [0, 1]")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	tables, err := refdata.Load("")
	if err != nil {
		return fmt.Errorf("load reference tables: %w", err)
	}
	g := &generator{
		rng:    rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15)),
		scorer: domain.NewScorer(tables),
		margin: tables.RealismMargin,
	}

	perfRows, dirtyCount := g.performances(*rows, *dirty)
	if err := writeCSV(filepath.Join(*outDir, "athletics.csv"), ';', perfRows); err != nil {
		return fmt.Errorf("writing athletics fixture: %w", err)
	}
	log.Printf("wrote %d athletics rows (%d dirty)", len(perfRows)-1, dirtyCount)

	if err := writeCSV(filepath.Join(*outDir, "cities.csv"), ',', gazetteer()); err != nil {
		return fmt.Errorf("writing gazetteer fixture: %w", err)
	}
	log.Printf("wrote %d gazetteer rows", len(venues)-1)

	tempRows := g.temperatures(*fahrenheit)
	if err := writeCSV(filepath.Join(*outDir, "temperatures.csv"), ',', tempRows); err != nil {
		return fmt.Errorf("writing temperature fixture: %w", err)
	}
	log.Printf("wrote %d temperature rows", len(tempRows)-1)
	return nil
}

type generator struct {
	rng    *rand.Rand
	scorer *domain.Scorer
	margin float64
}

func (g *generator) performances(n int, dirtyShare float64) ([][]string, int) {
	out := make([][]string, 0, n+1)
	out = append(out, []string{"Competitor", "Event", "Mark", "Venue", "Date", "Nat", "Sex", "Pos", "Wind", "Source"})

	start := time.Date(2005, time.January, 1, 0, 0, 0, 0, time.UTC)
	dirty := 0
	for i := 0; i < n; i++ {
		a := roster[g.rng.IntN(len(roster))]
		raw := a.events[g.rng.IntN(len(a.events))]
		v := venues[g.rng.IntN(len(venues))]
		date := start.AddDate(0, 0, g.rng.IntN(18*365))
		ev, _ := domain.ClassifyEvent(raw)

		row := []string{
			a.name,
			raw,
			g.mark(ev, a.gender),
			v.label,
			date.Format("2006-01-02"),
			a.nat,
			string(a.gender),
			strconv.Itoa(1 + g.rng.IntN(8)),
			g.wind(ev),
			"genmock",
		}
		if g.rng.Float64() < dirtyShare {
			g.spoil(row)
			dirty++
		}
		out = append(out, row)
	}

	// A combined event and an exact duplicate.
	out = append(out,
		[]string{"Ashton EATON", "Decathlon", "9045", venues[0].label, "2015-08-29", "USA", "M", "1", "", "genmock"},
		append([]string(nil), out[1]...),
	)
	return out, dirty + 2
}

// spoil replaces one field so the row hits a specific rejection reason.
func (g *generator) spoil(row []string) {
	switch g.rng.IntN(5) {
	case 0:
		row[2] = []string{"DNF", "DNS", "DQ", "NM"}[g.rng.IntN(4)]
	case 1:
		row[2] = "abc"
	case 2:
		row[2] = "0.01"
	case 3:
		row[4] = "sometime in May"
	default:
		if v, err := domain.ParseResult(row[2]); err == nil {
			row[2] = formatMark(v*0.7, true)
		}
	}
}

// mark draws a result inside the realism window, or a loose one when the
// event has no coefficients.
func (g *generator) mark(ev domain.Event, gender domain.Gender) string {
	timed := ev.Unit == domain.UnitSeconds
	b, ok := g.scorer.RealismBounds(ev, gender)
	if !ok {
		if timed {
			return formatMark(120+g.rng.Float64()*60, true)
		}
		return formatMark(5+g.rng.Float64()*3, false)
	}
	span := (b.Max - b.Min) * 0.8
	if timed {
		return formatMark(b.Min+g.rng.Float64()*span, true)
	}
	return formatMark(b.Max-g.rng.Float64()*span, false)
}

func (g *generator) wind(ev domain.Event) string {
	if ev.Group != domain.GroupSprint && ev.Group != domain.GroupHurdles && ev.StandardizedName != "Long Jump" && ev.StandardizedName != "Triple Jump" {
		return ""
	}
	return fmt.Sprintf("%+.1f", g.rng.Float64()*4-2)
}

func formatMark(v float64, timed bool) string {
	if !timed || v < 60 {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	total := int(v)
	frac := v - float64(total)
	h, m, s := total/3600, (total%3600)/60, float64(total%60)+frac
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%05.2f", h, m, s)
	}
	return fmt.Sprintf("%d:%05.2f", m, s)
}

func gazetteer() [][]string {
	out := [][]string{{"City", "Country", "Latitude", "Longitude", "Altitude"}}
	for _, v := range venues {
		if v.city == "" {
			continue
		}
		alt := ""
		if !math.IsNaN(v.altitude) {
			alt = strconv.FormatFloat(v.altitude, 'f', 0, 64)
		}
		out = append(out, []string{
			v.city,
			v.country,
			strconv.FormatFloat(v.lat, 'f', 4, 64),
			strconv.FormatFloat(v.lon, 'f', 4, 64),
			alt,
		})
	}
	return out
}

// temperatures writes monthly means following a sine around each city's
// July mean. Cities inside the tropics barely vary.
func (g *generator) temperatures(fahrenheit bool) [][]string {
	out := [][]string{{"City", "Country", "Month", "Year", "AvgTemperature"}}
	for _, v := range venues {
		if v.city == "" {
			continue
		}
		amplitude := 10.0
		if math.Abs(v.lat) < 23.5 {
			amplitude = 2
		}
		for year := 2000; year <= 2020; year++ {
			for month := 1; month <= 12; month++ {
				c := v.baseTempC - amplitude*(1-math.Cos(2*math.Pi*float64(month-7)/12)) + g.rng.NormFloat64()*0.8
				value := c
				if fahrenheit {
					value = c*9/5 + 32
				}
				out = append(out, []string{
					v.city,
					v.name,
					strconv.Itoa(month),
					strconv.Itoa(year),
					strconv.FormatFloat(value, 'f', 1, 64),
				})
			}
		}
	}
	return out
}

func writeCSV(path string, delim rune, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	w.Comma = delim
	if err := w.WriteAll(rows); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
