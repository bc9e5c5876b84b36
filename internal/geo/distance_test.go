package geo

import (
	"math"
	"testing"
)

// Reference coordinates from the ONSPD.
var (
	buckinghamPalace = Coordinate{Lat: 51.501009, Long: -0.141588}  // SW1A 1AA
	bankOfEngland    = Coordinate{Lat: 51.514178, Long: -0.087065}  // EC2R 8AH
	edinburghCastle  = Coordinate{Lat: 55.948700, Long: -3.200000}  // EH1 2NG (approx)
)

func TestDistanceMiles(t *testing.T) {
	tests := []struct {
		name      string
		a, b      Coordinate
		wantMiles float64
		tolerance float64
	}{
		{
			name:      "central London pair",
			a:         buckinghamPalace,
			b:         bankOfEngland,
			wantMiles: 2.52, // hand-computed Haversine, R=3958.8
			tolerance: 0.05,
		},
		{
			name:      "London to Edinburgh",
			a:         buckinghamPalace,
			b:         edinburghCastle,
			wantMiles: 331.5,
			tolerance: 2.0,
		},
		{
			name:      "identical points",
			a:         buckinghamPalace,
			b:         buckinghamPalace,
			wantMiles: 0,
			tolerance: 0.000001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceMiles(tt.a, tt.b)
			if math.Abs(got-tt.wantMiles) > tt.tolerance {
				t.Errorf("DistanceMiles() = %.4f, want %.4f ± %.4f", got, tt.wantMiles, tt.tolerance)
			}
		})
	}
}

func TestDistanceSymmetry(t *testing.T) {
	pairs := []struct{ a, b Coordinate }{
		{buckinghamPalace, bankOfEngland},
		{buckinghamPalace, edinburghCastle},
		{bankOfEngland, edinburghCastle},
	}

	for _, p := range pairs {
		forward := DistanceMiles(p.a, p.b)
		backward := DistanceMiles(p.b, p.a)
		if math.Abs(forward-backward) > 1e-9 {
			t.Errorf("distance not symmetric: %.9f vs %.9f", forward, backward)
		}
	}
}

func TestBoxAroundContainsCircle(t *testing.T) {
	center := buckinghamPalace
	radius := 10.0
	box := BoxAround(center, radius)

	// Points just inside the radius in each cardinal direction must fall
	// inside the box, otherwise the prefilter would discard true matches.
	offsets := []Coordinate{
		{Lat: center.Lat + 0.14, Long: center.Long}, // ~9.7 miles north
		{Lat: center.Lat - 0.14, Long: center.Long},
		{Lat: center.Lat, Long: center.Long + 0.22}, // ~9.5 miles east at this latitude
		{Lat: center.Lat, Long: center.Long - 0.22},
	}

	for _, c := range offsets {
		d := DistanceMiles(center, c)
		if d > radius {
			t.Fatalf("test point at %.2f miles is outside the radius; adjust fixture", d)
		}
		if !box.Contains(c) {
			t.Errorf("bounding box excludes point %.1f miles from center", d)
		}
	}
}

func TestWithinRadius(t *testing.T) {
	candidates := []Point{
		{Postcode: "SW1A 1AA", Lat: buckinghamPalace.Lat, Long: buckinghamPalace.Long},
		{Postcode: "EC2R 8AH", Lat: bankOfEngland.Lat, Long: bankOfEngland.Long},
		{Postcode: "EH1 2NG", Lat: edinburghCastle.Lat, Long: edinburghCastle.Long},
	}

	got := WithinRadius(buckinghamPalace, 10, candidates)

	if !got["SW1A 1AA"] {
		t.Error("center postcode should match at any radius")
	}
	if !got["EC2R 8AH"] {
		t.Error("postcode 2.5 miles away should match a 10 mile radius")
	}
	if got["EH1 2NG"] {
		t.Error("Edinburgh should not match a 10 mile radius around London")
	}
}

func TestWithinRadiusMonotonic(t *testing.T) {
	candidates := []Point{
		{Postcode: "SW1A 1AA", Lat: buckinghamPalace.Lat, Long: buckinghamPalace.Long},
		{Postcode: "EC2R 8AH", Lat: bankOfEngland.Lat, Long: bankOfEngland.Long},
		{Postcode: "EH1 2NG", Lat: edinburghCastle.Lat, Long: edinburghCastle.Long},
	}

	radii := []float64{1, 5, 10, 100, 500}
	var previous map[string]bool

	for _, r := range radii {
		current := WithinRadius(buckinghamPalace, r, candidates)
		for pc := range previous {
			if !current[pc] {
				t.Errorf("postcode %s matched radius %f but not a larger one", pc, r)
			}
		}
		previous = current
	}
}
