package hci

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/theoremus-urban-solutions/pt-client/geo"
	"github.com/theoremus-urban-solutions/pt-client/pt"
)

func TestWrapRequest(t *testing.T) {
	p := testProvider(t)
	body, err := p.wrapRequest(svcReq{
		Meth: "LocMatch",
		Cfg:  &svcCfg{PolyEnc: "GPA"},
		Req:  locMatchReq{Input: locMatchInput{Field: "S", Loc: jsonLoc{Type: "ALL", Name: "Alexanderplatz?"}, MaxLoc: 10}},
	})
	if err != nil {
		t.Fatal(err)
	}

	var envelope struct {
		Auth    map[string]string `json:"auth"`
		Client  map[string]string `json:"client"`
		Ver     string            `json:"ver"`
		Lang    string            `json:"lang"`
		SvcReqL []struct {
			Meth string          `json:"meth"`
			Cfg  *svcCfg         `json:"cfg"`
			Req  json.RawMessage `json:"req"`
		} `json:"svcReqL"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatal(err)
	}
	if envelope.Auth["aid"] != "abc123" || envelope.Client["id"] != "BVG" {
		t.Errorf("auth/client = %v %v", envelope.Auth, envelope.Client)
	}
	if envelope.Ver != "1.18" || envelope.Lang != "eng" {
		t.Errorf("ver/lang = %q %q", envelope.Ver, envelope.Lang)
	}
	if len(envelope.SvcReqL) != 2 {
		t.Fatalf("got %d service requests", len(envelope.SvcReqL))
	}
	if envelope.SvcReqL[0].Meth != "ServerInfo" || envelope.SvcReqL[0].Cfg != nil {
		t.Errorf("leader = %+v", envelope.SvcReqL[0])
	}
	if envelope.SvcReqL[1].Meth != "LocMatch" || envelope.SvcReqL[1].Cfg == nil || envelope.SvcReqL[1].Cfg.PolyEnc != "GPA" {
		t.Errorf("operation = %+v", envelope.SvcReqL[1])
	}
}

func TestRequestURLUnsigned(t *testing.T) {
	p := testProvider(t)
	if got := p.requestURL([]byte("abc")); got != "https://hci.example.org/bin/mgate.exe" {
		t.Errorf("url = %q", got)
	}
}

func TestRequestURLChecksum(t *testing.T) {
	p := testProvider(t)
	p.cfg.ChecksumSalt = "xyz"
	got := p.requestURL([]byte("abc"))
	if !strings.Contains(got, "checksum=70fb874a43097a25234382390c0baeb3") {
		t.Errorf("url = %q", got)
	}
}

func TestRequestURLMicMac(t *testing.T) {
	p := testProvider(t)
	p.cfg.MicMacSalt = "s3cr3t"
	got := p.requestURL([]byte("abc"))
	if !strings.Contains(got, "mic=900150983cd24fb0d6963f7d28e17f72") {
		t.Errorf("mic missing: %q", got)
	}
	if !strings.Contains(got, "mac=66350530e0f11478682cfa31e8a2a9cc") {
		t.Errorf("mac missing: %q", got)
	}
}

func TestToLocObj(t *testing.T) {
	station, err := toLocObj(pt.Location{Type: pt.LocationStation, ID: "00900012103"})
	if err != nil {
		t.Fatal(err)
	}
	if station.Type != "S" || station.ExtID != "900012103" || station.Lid != "" {
		t.Errorf("station = %+v", station)
	}

	address, err := toLocObj(pt.Location{Type: pt.LocationAddress, ID: "A=2@X=1@Y=2"})
	if err != nil {
		t.Fatal(err)
	}
	if address.Type != "A" || address.Lid != "A=2@X=1@Y=2" || address.ExtID != "" {
		t.Errorf("address = %+v", address)
	}

	if _, err := toLocObj(pt.Location{Type: pt.LocationStation}); err == nil {
		t.Error("expected error for location without id")
	}
	if _, err := toLocObj(pt.Location{Type: pt.LocationCoord, ID: "x"}); err == nil {
		t.Error("expected error for unaddressable type")
	}
}

func TestFilterNearby(t *testing.T) {
	origin := geo.Point{Lat: 52.5211, Lon: 13.4106}
	near := pt.Location{Type: pt.LocationStation, ID: "1", Name: "Alexanderplatz", Coord: &geo.Point{Lat: 52.5219, Lon: 13.4132}}
	far := pt.Location{Type: pt.LocationStation, ID: "2", Name: "Rathaus Schöneberg", Coord: &geo.Point{Lat: 52.4577, Lon: 13.3904}}
	poi := pt.Location{Type: pt.LocationPOI, ID: "3", Name: "Fernsehturm", Coord: &geo.Point{Lat: 52.5208, Lon: 13.4094}}

	got := filterNearby([]pt.Location{near, far, poi}, origin, nil, 1000)
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Errorf("radius filter = %v", got)
	}

	got = filterNearby([]pt.Location{near, far, poi}, origin, map[pt.LocationType]bool{pt.LocationStation: true}, 1000)
	if len(got) != 1 || got[0].ID != "1" {
		t.Errorf("type filter = %v", got)
	}
}

func TestLocMatchType(t *testing.T) {
	if got := locMatchType(nil); got != "ALL" {
		t.Errorf("nil = %q", got)
	}
	all := map[pt.LocationType]bool{pt.LocationStation: true, pt.LocationAddress: true, pt.LocationPOI: true}
	if got := locMatchType(all); got != "ALL" {
		t.Errorf("all three = %q", got)
	}
	if got := locMatchType(map[pt.LocationType]bool{pt.LocationStation: true}); got != "S" {
		t.Errorf("stations = %q", got)
	}
	if got := locMatchType(map[pt.LocationType]bool{pt.LocationStation: true, pt.LocationPOI: true}); got != "SP" {
		t.Errorf("stations and pois = %q", got)
	}
}
