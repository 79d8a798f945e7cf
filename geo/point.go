package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Point is a WGS84 coordinate. Construct through one of the From
// functions so fixed-point wire values are scaled consistently.
type Point struct {
	Lat float64
	Lon float64
}

func FromDouble(lat, lon float64) Point {
	return Point{Lat: lat, Lon: lon}
}

// From1E6 scales integer micro-degrees, the encoding used by the JSON
// protocol family.
func From1E6(lat, lon int) Point {
	return Point{Lat: float64(lat) / 1e6, Lon: float64(lon) / 1e6}
}

// From1E5 scales the 1E5 fixed-point encoding used by encoded polylines.
func From1E5(lat, lon int) Point {
	return Point{Lat: float64(lat) / 1e5, Lon: float64(lon) / 1e5}
}

// ParsePoint parses a "lon,lat" decimal coordinate pair as emitted by the
// XML protocol family.
func ParsePoint(s string) (Point, error) {
	parts := strings.Split(strings.TrimRight(s, ","), ",")
	if len(parts) < 2 {
		return Point{}, fmt.Errorf("geo: cannot parse coordinate %q", s)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("geo: cannot parse coordinate %q: %w", s, err)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("geo: cannot parse coordinate %q: %w", s, err)
	}
	return Point{Lat: lat, Lon: lon}, nil
}

func (p Point) LatAs1E6() int { return int(math.Round(p.Lat * 1e6)) }
func (p Point) LonAs1E6() int { return int(math.Round(p.Lon * 1e6)) }
func (p Point) LatAs1E5() int { return int(math.Round(p.Lat * 1e5)) }
func (p Point) LonAs1E5() int { return int(math.Round(p.Lon * 1e5)) }

// IsZero reports whether the point is the (0,0) null island placeholder
// some backends emit for stops without known coordinates.
func (p Point) IsZero() bool {
	return p.LatAs1E6() == 0 && p.LonAs1E6() == 0
}

// String renders the point as "lat/lon" with 7 decimal places, the wire
// compatible textual form.
func (p Point) String() string {
	return format7(p.Lat) + "/" + format7(p.Lon)
}

func format7(v float64) string {
	truncated := float64(int64(v*1e7)) / 1e7
	s := strconv.FormatFloat(truncated, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	for len(s) < 9 {
		s += "0"
	}
	return s
}
