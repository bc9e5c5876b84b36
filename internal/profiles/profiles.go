// Package profiles loads named search profiles from a YAML config file.
// A profile is a saved set of search options; values merge in precedence
// order defaults, then the named profile, then command-line flags.
package profiles

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ch-finder/internal/engine"
)

// DefaultPath is where Load looks when no config path is given.
const DefaultPath = "config.yaml"

// Profile is one saved set of search options. All fields are optional;
// nil means "not set here", so merging can tell an explicit zero from an
// absent value.
type Profile struct {
	Postcode          *string  `yaml:"postcode" json:"postcode,omitempty"`
	RadiusMiles       *float64 `yaml:"radius_miles" json:"radius_miles,omitempty"`
	CompanyStatus     *string  `yaml:"company_status" json:"company_status,omitempty"`
	AccountCategories []string `yaml:"account_categories" json:"account_categories,omitempty"`
	SICCodes          []int    `yaml:"sic_codes" json:"sic_codes,omitempty"`
	MinCompanyAge     *int     `yaml:"min_company_age" json:"min_company_age,omitempty"`
	MaxCompanyAge     *int     `yaml:"max_company_age" json:"max_company_age,omitempty"`
	MinPSCAge         *int     `yaml:"min_psc_age" json:"min_psc_age,omitempty"`
	MaxPSCAge         *int     `yaml:"max_psc_age" json:"max_psc_age,omitempty"`
	MinTenure         *int     `yaml:"min_tenure" json:"min_tenure,omitempty"`
	MaxTenure         *int     `yaml:"max_tenure" json:"max_tenure,omitempty"`
	StrictTenure      *bool    `yaml:"strict_tenure" json:"strict_tenure,omitempty"`
	MaxResults        *int     `yaml:"max_results" json:"max_results,omitempty"`
	OutputFormat      *string  `yaml:"output_format" json:"output_format,omitempty"`
	OutputDir         *string  `yaml:"output_dir" json:"output_dir,omitempty"`
}

// Config is the parsed config file: shared defaults plus named profiles.
type Config struct {
	Defaults Profile            `yaml:"defaults"`
	Profiles map[string]Profile `yaml:"profiles"`
}

// Load parses the config file at path. A missing file is not an error;
// it yields an empty config so the tool works without one.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Names returns the profile names in sorted order.
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get resolves a named profile merged over the config defaults.
func (c *Config) Get(name string) (Profile, error) {
	p, ok := c.Profiles[name]
	if !ok {
		available := c.Names()
		if len(available) == 0 {
			return Profile{}, fmt.Errorf("profile %q not found: the config file defines no profiles", name)
		}
		return Profile{}, fmt.Errorf("profile %q not found (available: %s)",
			name, strings.Join(available, ", "))
	}
	return Merge(c.Defaults, p), nil
}

// Merge overlays one profile on another. Set fields in the overlay win;
// unset fields fall through to the base.
func Merge(base, overlay Profile) Profile {
	out := base
	if overlay.Postcode != nil {
		out.Postcode = overlay.Postcode
	}
	if overlay.RadiusMiles != nil {
		out.RadiusMiles = overlay.RadiusMiles
	}
	if overlay.CompanyStatus != nil {
		out.CompanyStatus = overlay.CompanyStatus
	}
	if overlay.AccountCategories != nil {
		out.AccountCategories = overlay.AccountCategories
	}
	if overlay.SICCodes != nil {
		out.SICCodes = overlay.SICCodes
	}
	if overlay.MinCompanyAge != nil {
		out.MinCompanyAge = overlay.MinCompanyAge
	}
	if overlay.MaxCompanyAge != nil {
		out.MaxCompanyAge = overlay.MaxCompanyAge
	}
	if overlay.MinPSCAge != nil {
		out.MinPSCAge = overlay.MinPSCAge
	}
	if overlay.MaxPSCAge != nil {
		out.MaxPSCAge = overlay.MaxPSCAge
	}
	if overlay.MinTenure != nil {
		out.MinTenure = overlay.MinTenure
	}
	if overlay.MaxTenure != nil {
		out.MaxTenure = overlay.MaxTenure
	}
	if overlay.StrictTenure != nil {
		out.StrictTenure = overlay.StrictTenure
	}
	if overlay.MaxResults != nil {
		out.MaxResults = overlay.MaxResults
	}
	if overlay.OutputFormat != nil {
		out.OutputFormat = overlay.OutputFormat
	}
	if overlay.OutputDir != nil {
		out.OutputDir = overlay.OutputDir
	}
	return out
}

// Apply copies the profile's set fields onto a query spec. Fields the
// profile leaves unset keep whatever the query spec already holds.
func (p Profile) Apply(spec *engine.QuerySpec) {
	if p.Postcode != nil {
		spec.Postcode = *p.Postcode
	}
	if p.RadiusMiles != nil {
		spec.RadiusMiles = *p.RadiusMiles
	}
	if p.CompanyStatus != nil {
		spec.CompanyStatus = *p.CompanyStatus
	}
	if p.AccountCategories != nil {
		spec.AccountCategories = p.AccountCategories
	}
	if p.SICCodes != nil {
		spec.SICCodes = p.SICCodes
	}
	if p.MinCompanyAge != nil {
		spec.MinCompanyAge = p.MinCompanyAge
	}
	if p.MaxCompanyAge != nil {
		spec.MaxCompanyAge = p.MaxCompanyAge
	}
	if p.MinPSCAge != nil {
		spec.MinPSCAge = p.MinPSCAge
	}
	if p.MaxPSCAge != nil {
		spec.MaxPSCAge = p.MaxPSCAge
	}
	if p.MinTenure != nil {
		spec.MinTenure = p.MinTenure
	}
	if p.MaxTenure != nil {
		spec.MaxTenure = p.MaxTenure
	}
	if p.StrictTenure != nil {
		spec.StrictTenure = *p.StrictTenure
	}
	if p.MaxResults != nil {
		spec.MaxResults = *p.MaxResults
	}
}
