package geo

import (
	"math"
	"testing"
)

func TestPointConversions(t *testing.T) {
	p := From1E6(52520008, 13404954)
	if p.Lat != 52.520008 || p.Lon != 13.404954 {
		t.Errorf("From1E6 = %v", p)
	}
	if p.LatAs1E6() != 52520008 || p.LonAs1E6() != 13404954 {
		t.Errorf("round-trip 1E6 = %d/%d", p.LatAs1E6(), p.LonAs1E6())
	}

	q := From1E5(5252000, 1340495)
	if q.Lat != 52.52 || q.LatAs1E5() != 5252000 {
		t.Errorf("From1E5 = %v", q)
	}
}

func TestParsePoint(t *testing.T) {
	// the XML family emits lon,lat order
	p, err := ParsePoint("13.404954,52.520008")
	if err != nil {
		t.Fatal(err)
	}
	if p.Lat != 52.520008 || p.Lon != 13.404954 {
		t.Errorf("ParsePoint = %v", p)
	}

	if _, err := ParsePoint("13.404954"); err == nil {
		t.Error("expected error for single component")
	}
}

func TestPointString(t *testing.T) {
	tests := []struct {
		p    Point
		want string
	}{
		{FromDouble(52.5, 13.4), "52.500000/13.400000"},
		{FromDouble(52.520008, 13.404954), "52.520008/13.404954"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("String(%v) = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func TestHaversineDistance(t *testing.T) {
	// Berlin Hbf to Alexanderplatz, roughly 2.9 km
	hbf := FromDouble(52.525592, 13.369545)
	alex := FromDouble(52.521512, 13.411267)

	d := HaversineDistance(hbf, alex)
	if d < 2700 || d > 3000 {
		t.Errorf("HaversineDistance = %.0f m, want ~2850 m", d)
	}

	if d := HaversineDistance(hbf, hbf); d != 0 {
		t.Errorf("zero distance = %f", d)
	}
}

func TestDistanceAgainstHaversine(t *testing.T) {
	// the ellipsoidal formula should stay within 1% of the spherical
	// approximation at city scale
	p1 := FromDouble(48.137154, 11.576124)
	p2 := FromDouble(48.140232, 11.558335)

	h := HaversineDistance(p1, p2)
	v := Distance(p1.Lat, p1.Lon, p2.Lat, p2.Lon)
	if math.Abs(h-v)/h > 0.01 {
		t.Errorf("haversine %.1f vs ellipsoidal %.1f", h, v)
	}
}

func TestDecodePolyline(t *testing.T) {
	// example from the polyline algorithm documentation
	points := DecodePolyline("_p~iF~ps|U_ulLnnqC_mqNvxq`@")
	if len(points) != 3 {
		t.Fatalf("got %d points, want 3", len(points))
	}
	want := []Point{
		{38.5, -120.2},
		{40.7, -120.95},
		{43.252, -126.453},
	}
	for i, p := range points {
		if math.Abs(p.Lat-want[i].Lat) > 1e-9 || math.Abs(p.Lon-want[i].Lon) > 1e-9 {
			t.Errorf("point %d = %v, want %v", i, p, want[i])
		}
	}
}

func TestDecodePolylineTruncated(t *testing.T) {
	// cut mid-pair: the complete pairs survive, no panic
	points := DecodePolyline("_p~iF~ps|U_ulL")
	if len(points) != 1 {
		t.Fatalf("got %d points, want 1", len(points))
	}
	if math.Abs(points[0].Lat-38.5) > 1e-9 || math.Abs(points[0].Lon-(-120.2)) > 1e-9 {
		t.Errorf("point = %v", points[0])
	}

	// cut mid-varint inside the very first pair
	if points := DecodePolyline("_p~iF~ps"); len(points) != 0 {
		t.Errorf("got %d points, want none", len(points))
	}
}

func TestNormalizeStationID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"8011160", "8011160"},
		{"008011160", "8011160"},
		{"0", ""},
	}
	for _, tt := range tests {
		if got := NormalizeStationID(tt.in); got != tt.want {
			t.Errorf("NormalizeStationID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
