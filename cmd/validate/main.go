// Command validate checks the scoring reference tables against the world
// records they carry. Every coefficient must be reachable from the event
// classifier, score its own record inside the calibration window and score
// results at the edge of the realism window below the record.
//
// Usage:
//
//	go run ./cmd/validate -refdata overrides.yaml -min 1000 -max 1400
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/igor224659/athletics-dw/internal/domain"
	"github.com/igor224659/athletics-dw/internal/refdata"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// calibrated pairs a coefficient with the event it classifies to.
type calibrated struct {
	coef  domain.Coefficient
	event domain.Event
}

func main() {
	refPath := flag.String("refdata", "", "optional YAML file layered over the embedded reference tables")
	minScore := flag.Float64("min", 1000, "lowest acceptable score for a world record")
	maxScore := flag.Float64("max", domain.MaxScore, "highest acceptable score for a world record")
	flag.Parse()

	if *minScore >= *maxScore {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*refPath, *minScore, *maxScore); code != 0 {
		os.Exit(code)
	}
}

func run(refPath string, minScore, maxScore float64) int {
	fmt.Println("=== Scoring Table Calibration ===")
	fmt.Println()

	tables, err := refdata.Load(refPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load reference tables: %v\n", err)
		return 1
	}
	scorer := domain.NewScorer(tables)

	reach, coefs := validateReachability(tables.Coefficients)
	phases := []*phase{
		reach,
		validateRecordScores(scorer, coefs, minScore, maxScore),
		validateRealismWindow(scorer, coefs, tables.RealismMargin),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Coefficients: %d (%d reachable), realism margin %.0f%%\n",
		len(tables.Coefficients), len(coefs), tables.RealismMargin*100)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// validateReachability classifies each coefficient's event name and requires
// the standardized name to round-trip, otherwise no staged row can ever use it.
func validateReachability(coefs []domain.Coefficient) (*phase, []calibrated) {
	p := &phase{name: "Coefficient reachability"}
	out := make([]calibrated, 0, len(coefs))
	seen := make(map[string]bool, len(coefs))

	for _, c := range coefs {
		id := c.Event + "/" + string(c.Gender)
		if seen[id] {
			p.errorf("%s: duplicate coefficient", id)
			continue
		}
		seen[id] = true

		ev, ok := domain.ClassifyEvent(c.Event)
		if !ok {
			p.errorf("%s: event is excluded by the classifier", id)
			continue
		}
		if ev.StandardizedName != c.Event {
			p.errorf("%s: classifier standardizes to %q", id, ev.StandardizedName)
			continue
		}
		out = append(out, calibrated{coef: c, event: ev})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].coef.Event != out[j].coef.Event {
			return out[i].coef.Event < out[j].coef.Event
		}
		return out[i].coef.Gender < out[j].coef.Gender
	})
	return p, out
}

func validateRecordScores(scorer *domain.Scorer, coefs []calibrated, minScore, maxScore float64) *phase {
	p := &phase{name: "World record calibration"}
	for _, c := range coefs {
		score, method := scorer.Score(c.event, c.coef.Gender, c.coef.Record)
		if method != domain.ScoreMethodCoefficients {
			p.errorf("%s/%s: scored with %s method", c.coef.Event, c.coef.Gender, method)
			continue
		}
		if score < minScore || score > maxScore {
			p.errorf("%s/%s: record %.2f scores %.0f, want [%.0f, %.0f]",
				c.coef.Event, c.coef.Gender, c.coef.Record, score, minScore, maxScore)
		}
	}
	return p
}

// validateRealismWindow scores the weakest plausible result and one just
// outside the window.
func validateRealismWindow(scorer *domain.Scorer, coefs []calibrated, margin float64) *phase {
	p := &phase{name: "Realism window"}
	for _, c := range coefs {
		id := c.coef.Event + "/" + string(c.coef.Gender)
		bounds, ok := scorer.RealismBounds(c.event, c.coef.Gender)
		if !ok {
			p.errorf("%s: no realism bounds", id)
			continue
		}

		weakest, outside := bounds.Min, bounds.Min*(1-margin/2)
		if c.event.Unit == domain.UnitSeconds {
			weakest, outside = bounds.Max, bounds.Max*(1+margin/2)
		}

		if err := scorer.CheckRealism(c.event, c.coef.Gender, weakest); err != nil {
			p.errorf("%s: weakest plausible result %.2f rejected", id, weakest)
		}
		if margin > 0 && scorer.CheckRealism(c.event, c.coef.Gender, outside) == nil {
			p.errorf("%s: result %.2f outside the window accepted", id, outside)
		}

		record, _ := scorer.Score(c.event, c.coef.Gender, c.coef.Record)
		edge, _ := scorer.Score(c.event, c.coef.Gender, weakest)
		if record < domain.MaxScore && edge >= record {
			p.errorf("%s: weakest plausible result scores %.0f, record %.0f", id, edge, record)
		}
	}
	return p
}
