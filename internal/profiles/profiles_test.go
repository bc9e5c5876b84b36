package profiles

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ch-finder/internal/engine"
)

const sampleConfig = `
defaults:
  radius_miles: 10
  company_status: Active
  output_format: csv

profiles:
  retiring-owners:
    min_psc_age: 55
    max_psc_age: 75
    min_tenure: 10
  it-consultancies:
    sic_codes: [62020, 62090]
    radius_miles: 25
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config fixture: %v", err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() on a missing file should succeed, got %v", err)
	}
	if len(cfg.Profiles) != 0 {
		t.Errorf("missing file should yield an empty config")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "profiles: [not: a: map")
	if _, err := Load(path); err == nil {
		t.Error("Load() should reject malformed YAML")
	}
}

func TestGetMergesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	p, err := cfg.Get("retiring-owners")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}

	if p.RadiusMiles == nil || *p.RadiusMiles != 10 {
		t.Errorf("radius should fall through from defaults, got %v", p.RadiusMiles)
	}
	if p.CompanyStatus == nil || *p.CompanyStatus != "Active" {
		t.Errorf("status should fall through from defaults, got %v", p.CompanyStatus)
	}
	if p.MinPSCAge == nil || *p.MinPSCAge != 55 {
		t.Errorf("profile min age = %v, want 55", p.MinPSCAge)
	}
}

func TestGetProfileOverridesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	p, err := cfg.Get("it-consultancies")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if p.RadiusMiles == nil || *p.RadiusMiles != 25 {
		t.Errorf("profile radius should override defaults, got %v", p.RadiusMiles)
	}
	if !reflect.DeepEqual(p.SICCodes, []int{62020, 62090}) {
		t.Errorf("sic codes = %v, want [62020 62090]", p.SICCodes)
	}
}

func TestGetUnknownProfile(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	_, err = cfg.Get("no-such-profile")
	if err == nil {
		t.Fatal("Get() should fail for an unknown profile")
	}
	for _, want := range []string{"it-consultancies", "retiring-owners"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should list available profile %q, got: %v", want, err)
		}
	}
}

func TestNamesSorted(t *testing.T) {
	cfg := &Config{Profiles: map[string]Profile{
		"zebra": {}, "alpha": {}, "middle": {},
	}}
	got := cfg.Names()
	want := []string{"alpha", "middle", "zebra"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestApplyLeavesUnsetFields(t *testing.T) {
	radius := 25.0
	minAge := 55
	p := Profile{RadiusMiles: &radius, MinPSCAge: &minAge}

	spec := engine.QuerySpec{Postcode: "SW1A 1AA", RadiusMiles: 10, MaxResults: 500}
	p.Apply(&spec)

	if spec.RadiusMiles != 25 {
		t.Errorf("radius = %v, want the profile's 25", spec.RadiusMiles)
	}
	if spec.Postcode != "SW1A 1AA" {
		t.Errorf("postcode = %q, unset profile field must not clear it", spec.Postcode)
	}
	if spec.MaxResults != 500 {
		t.Errorf("max results = %d, unset profile field must not clear it", spec.MaxResults)
	}
	if spec.MinPSCAge == nil || *spec.MinPSCAge != 55 {
		t.Errorf("min age = %v, want 55", spec.MinPSCAge)
	}
}
