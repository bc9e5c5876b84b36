package geo

import "math"

// EarthRadiusMiles is the mean Earth radius in miles, chosen to match the
// miles-based radii published for UK postcode distances.
const EarthRadiusMiles = 3958.8

// Coordinate is a WGS84 latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Lat  float64
	Long float64
}

// Point is a postcode with known coordinates.
type Point struct {
	Postcode string
	Lat      float64
	Long     float64
}

// DistanceMiles returns the Haversine great-circle distance between two
// coordinates in miles.
func DistanceMiles(a, b Coordinate) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLong := radians(b.Long - a.Long)

	h := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLong/2), 2)

	return EarthRadiusMiles * 2 * math.Asin(math.Sqrt(h))
}

// BoundingBox is a latitude/longitude window used to cheaply discard
// far-away rows before the exact Haversine test.
type BoundingBox struct {
	MinLat  float64
	MaxLat  float64
	MinLong float64
	MaxLong float64
}

// Contains reports whether the coordinate lies inside the box.
func (b BoundingBox) Contains(c Coordinate) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat &&
		c.Long >= b.MinLong && c.Long <= b.MaxLong
}

// BoxAround returns a bounding box that contains every point within
// radiusMiles of center. Longitude degrees shrink with latitude, so the
// longitude window is widened by 1/cos(lat).
func BoxAround(center Coordinate, radiusMiles float64) BoundingBox {
	latDelta := degrees(radiusMiles / EarthRadiusMiles)

	cosLat := math.Cos(radians(center.Lat))
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	longDelta := latDelta / cosLat

	return BoundingBox{
		MinLat:  center.Lat - latDelta,
		MaxLat:  center.Lat + latDelta,
		MinLong: center.Long - longDelta,
		MaxLong: center.Long + longDelta,
	}
}

// WithinRadius returns the set of candidate postcodes whose coordinates lie
// within radiusMiles of center. Inclusion is inclusive: a point exactly at
// the radius matches. The bounding-box prefilter only discards rows; the
// final inclusion test is always the exact Haversine distance.
func WithinRadius(center Coordinate, radiusMiles float64, candidates []Point) map[string]bool {
	box := BoxAround(center, radiusMiles)
	matched := make(map[string]bool)

	for _, p := range candidates {
		c := Coordinate{Lat: p.Lat, Long: p.Long}
		if !box.Contains(c) {
			continue
		}
		if DistanceMiles(center, c) <= radiusMiles {
			matched[p.Postcode] = true
		}
	}

	return matched
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
