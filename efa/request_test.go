package efa

import (
	"net/url"
	"testing"
	"time"

	"github.com/theoremus-urban-solutions/pt-client/geo"
	"github.com/theoremus-urban-solutions/pt-client/pt"
)

func TestSetLocationParams(t *testing.T) {
	p := testProvider(t)

	tests := []struct {
		name     string
		location pt.Location
		wantType string
		wantName string
	}{
		{
			name:     "station by id",
			location: pt.Location{Type: pt.LocationStation, ID: "0002000101"},
			wantType: "stop",
			wantName: "2000101",
		},
		{
			name: "address by coordinates",
			location: pt.Location{
				Type:  pt.LocationAddress,
				Coord: &geo.Point{Lat: 48.3654, Lon: 10.8857},
			},
			wantType: "coord",
			wantName: "48.3654:10.8857:WGS84[DD.ddddd]",
		},
		{
			name:     "free text fallback",
			location: pt.Location{Type: pt.LocationAny, Place: "Augsburg", Name: "Rathaus"},
			wantType: "any",
			wantName: "Augsburg Rathaus",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := url.Values{}
			p.setLocationParams(v, tt.location, "origin")
			if got := v.Get("type_origin"); got != tt.wantType {
				t.Errorf("type_origin = %q, want %q", got, tt.wantType)
			}
			if got := v.Get("name_origin"); got != tt.wantName {
				t.Errorf("name_origin = %q, want %q", got, tt.wantName)
			}
		})
	}
}

func TestTripParams(t *testing.T) {
	p := testProvider(t)
	from := pt.Location{Type: pt.LocationStation, ID: "2000101"}
	to := pt.Location{Type: pt.LocationStation, ID: "2000505"}
	when := time.Date(2026, time.May, 30, 10, 0, 0, 0, p.tz)

	v := p.tripParams(from, nil, to, when, true, &pt.TripOptions{
		Products:  map[pt.Product]bool{pt.RegionalTrain: true, pt.Bus: true},
		Optimize:  pt.OptimizeLeastChanges,
		WalkSpeed: pt.WalkSpeedFast,
	})

	expect := map[string]string{
		"outputFormat":          "XML",
		"stateless":             "1",
		"sessionID":             "0",
		"requestID":             "0",
		"type_origin":           "stop",
		"name_origin":           "2000101",
		"type_destination":      "stop",
		"name_destination":      "2000505",
		"itdDate":               "20260530",
		"itdTime":               "1000",
		"itdTripDateTimeDepArr": "dep",
		"routeType":             "LEASTINTERCHANGE",
		"changeSpeed":           "fast",
		"includedMeans":         "checkbox",
		"inclMOT_0":             "on",
		"inclMOT_13":            "on",
		"inclMOT_5":             "on",
		"inclMOT_17":            "on",
		"lineRestriction":       "403",
	}
	for key, want := range expect {
		if got := v.Get(key); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
	if v.Get("inclMOT_2") != "" {
		t.Error("subway must not be requested")
	}
	if v.Get("type_via") != "" {
		t.Error("no via params expected")
	}
}

func TestTripParamsHighSpeedSkipsLineRestriction(t *testing.T) {
	p := testProvider(t)
	from := pt.Location{Type: pt.LocationStation, ID: "1"}
	to := pt.Location{Type: pt.LocationStation, ID: "2"}

	v := p.tripParams(from, nil, to, time.Now(), false, &pt.TripOptions{
		Products: map[pt.Product]bool{pt.HighSpeedTrain: true},
	})
	if v.Get("lineRestriction") != "" {
		t.Error("high speed request must not restrict line classes")
	}
	if v.Get("itdTripDateTimeDepArr") != "arr" {
		t.Errorf("itdTripDateTimeDepArr = %q", v.Get("itdTripDateTimeDepArr"))
	}
}

func TestCommandLink(t *testing.T) {
	p := testProvider(t)
	link := p.commandLink("SID-1", "42")
	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatal(err)
	}
	q := parsed.Query()
	if q.Get("sessionID") != "SID-1" || q.Get("requestID") != "42" {
		t.Errorf("query = %v", q)
	}
	if q.Get("calcNumberOfTrips") != "6" {
		t.Errorf("calcNumberOfTrips = %q", q.Get("calcNumberOfTrips"))
	}
}

func TestContinuationURL(t *testing.T) {
	p := testProvider(t)
	link := p.continuationURL(p.commandLink("SID-1", "42"))
	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatal(err)
	}
	q := parsed.Query()
	if q.Get("command") != "tripNext" {
		t.Errorf("command = %q, want %q", q.Get("command"), "tripNext")
	}
	if q.Get("sessionID") != "SID-1" || q.Get("requestID") != "42" {
		t.Errorf("session params = %v", q)
	}
	// the session endpoint needs the common params restated
	if q.Get("outputFormat") != "XML" || q.Get("stateless") != "1" {
		t.Errorf("common params missing: %v", q)
	}
	if q.Get("coordOutputFormat") == "" {
		t.Error("coordOutputFormat missing")
	}
}

func TestEndpointDefaults(t *testing.T) {
	p := testProvider(t)
	if got := p.tripEndpoint(); got != "https://efa.example.org/efa/XSLT_TRIP_REQUEST2" {
		t.Errorf("trip endpoint = %q", got)
	}
	if got := p.stopFinderEndpoint(); got != "https://efa.example.org/efa/XML_STOPFINDER_REQUEST" {
		t.Errorf("stop finder endpoint = %q", got)
	}
}
