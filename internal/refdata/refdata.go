// Package refdata loads the immutable reference tables used by the
// reconciliation engine: country codes, curated venues, city aliases,
// climate estimates and scoring coefficients.
package refdata

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/igor224659/athletics-dw/internal/domain"
)

//go:embed defaults.yaml
var defaults []byte

// envPrefix scopes scalar overrides such as REFDATA_REALISM_MARGIN.
const envPrefix = "REFDATA_"

// Load layers the embedded defaults, the optional YAML file at path and
// REFDATA_* environment overrides, then validates the result.
func Load(path string) (domain.Tables, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider(defaults), yaml.Parser()); err != nil {
		return domain.Tables{}, fmt.Errorf("load embedded reference data: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return domain.Tables{}, fmt.Errorf("load reference data %s: %w", path, err)
		}
	}
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		if key == "file" {
			return ""
		}
		return key
	})
	if err := k.Load(envProvider, nil); err != nil {
		return domain.Tables{}, fmt.Errorf("load reference data overrides: %w", err)
	}

	var t domain.Tables
	if err := k.UnmarshalWithConf("", &t, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return domain.Tables{}, fmt.Errorf("decode reference data: %w", err)
	}
	if err := Validate(t); err != nil {
		return domain.Tables{}, err
	}
	return t, nil
}

// Validate reports every inconsistency in the tables at once.
func Validate(t domain.Tables) error {
	var result *multierror.Error

	if t.RealismMargin < 0 || t.RealismMargin >= 1 {
		result = multierror.Append(result, fmt.Errorf("realism_margin %v must be in [0, 1)", t.RealismMargin))
	}
	for _, c := range t.Countries {
		if len(c.IOC) != 3 || len(c.ISO2) != 2 {
			result = multierror.Append(result, fmt.Errorf("country %q: want a 3-letter IOC and 2-letter ISO code", c.IOC))
		}
	}
	for _, v := range t.Venues {
		if strings.TrimSpace(v.Match) == "" || strings.TrimSpace(v.City) == "" {
			result = multierror.Append(result, fmt.Errorf("venue %q: match and city are required", v.Match))
		}
	}
	for _, e := range t.ClimateEstimates {
		if len(e.Temperatures) != 12 {
			result = multierror.Append(result, fmt.Errorf("climate estimate %s: %d temperatures, want 12", e.City, len(e.Temperatures)))
		}
	}

	seen := make(map[string]bool, len(t.Coefficients))
	for _, c := range t.Coefficients {
		id := c.Event + "/" + string(c.Gender)
		if c.Gender != domain.GenderMale && c.Gender != domain.GenderFemale {
			result = multierror.Append(result, fmt.Errorf("coefficient %s: gender must be M or F", id))
		}
		if c.A <= 0 || c.C <= 0 || c.Record <= 0 {
			result = multierror.Append(result, fmt.Errorf("coefficient %s: a, c and record must be positive", id))
		}
		if seen[id] {
			result = multierror.Append(result, fmt.Errorf("coefficient %s: duplicate", id))
		}
		seen[id] = true
	}
	return result.ErrorOrNil()
}
