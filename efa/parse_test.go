package efa

import (
	"encoding/json"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/theoremus-urban-solutions/pt-client/config"
	"github.com/theoremus-urban-solutions/pt-client/pt"
)

func testProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := New(config.Network{
		Name:     "avv",
		Kind:     "efa",
		Timezone: "Europe/Berlin",
		EFA:      config.EFAConfig{BaseURL: "https://efa.example.org/efa/"},
	}, config.ClientConfig{UserAgent: "pt-client-test", TimeoutMS: 5000})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

const tripsResponseXML = `<?xml version="1.0" encoding="UTF-8"?>
<itdRequest version="10.4.18.18" language="de" sessionID="SID-1" serverID="srv-7" now="2026-05-30T10:00:00">
 <itdTripRequest requestID="3">
  <itdOdv type="stop" usage="origin">
   <itdOdvPlace state="identified"><odvPlaceElem>Augsburg</odvPlaceElem></itdOdvPlace>
   <itdOdvName state="identified">
    <odvNameElem id="2000101" stateless="2000101" locality="Augsburg" objectName="Hauptbahnhof" mapName="WGS84[DD.ddddd]" x="10.8857000" y="48.3654000">Hauptbahnhof</odvNameElem>
   </itdOdvName>
  </itdOdv>
  <itdOdv type="stop" usage="destination">
   <itdOdvPlace state="identified"><odvPlaceElem>Augsburg</odvPlaceElem></itdOdvPlace>
   <itdOdvName state="identified">
    <odvNameElem id="2000505" stateless="2000505" locality="Augsburg" objectName="Oberhausen Bf" mapName="WGS84[DD.ddddd]" x="10.8700000" y="48.3900000">Oberhausen Bf</odvNameElem>
   </itdOdvName>
  </itdOdv>
  <itdTripDateTime deparr="dep">
   <itdDateTime>
    <itdDate year="2026" month="4" day="30" weekday="6"/>
    <itdTime hour="10" minute="0"/>
   </itdDateTime>
  </itdTripDateTime>
  <itdItinerary>
   <itdRouteList>
    <itdRoute routeIndex="1" routeTripIndex="1" changes="0">
     <itdPartialRouteList>
      <itdPartialRoute type="PT" timeMinute="12">
       <itdPoint stopID="2000101" locality="Augsburg" nameWO="Hauptbahnhof" usage="departure" mapName="WGS84[DD.ddddd]" x="10.8857000" y="48.3654000" platformName="Gleis 2">
        <itdDateTime>
         <itdDate year="2026" month="4" day="30" weekday="6"/>
         <itdTime hour="10" minute="5"/>
        </itdDateTime>
       </itdPoint>
       <itdPoint stopID="2000505" locality="Augsburg" nameWO="Oberhausen Bf" usage="arrival" mapName="WGS84[DD.ddddd]" x="10.8700000" y="48.3900000" platformName="Gleis 1">
        <itdDateTime>
         <itdDate year="2026" month="4" day="30" weekday="6"/>
         <itdTime hour="10" minute="17"/>
        </itdDateTime>
       </itdPoint>
       <itdMeansOfTransport type="1" motType="1" symbol="S2" shortname="S2" name="S-Bahn S2" productName="S-Bahn">
        <motDivaParams line="02002" project="j26" direction="H" supplement=" " network="avv"/>
       </itdMeansOfTransport>
       <itdRBLControlled delayMinutes="2" delayMinutesArr="2"/>
      </itdPartialRoute>
      <itdPartialRoute type="IT" distance="350">
       <itdPoint stopID="2000505" locality="Augsburg" nameWO="Oberhausen Bf" usage="departure" mapName="WGS84[DD.ddddd]" x="10.8700000" y="48.3900000">
        <itdDateTime>
         <itdDate year="2026" month="4" day="30" weekday="6"/>
         <itdTime hour="10" minute="17"/>
        </itdDateTime>
       </itdPoint>
       <itdPoint stopID="99999" locality="Augsburg" nameWO="Zielstrasse 5" usage="arrival" mapName="WGS84[DD.ddddd]" x="10.8680000" y="48.3925000">
        <itdDateTime>
         <itdDate year="2026" month="4" day="30" weekday="6"/>
         <itdTime hour="10" minute="22"/>
        </itdDateTime>
       </itdPoint>
       <itdMeansOfTransport type="100" productName="Fussweg">
        <motDivaParams line="" direction="" network=""/>
       </itdMeansOfTransport>
      </itdPartialRoute>
     </itdPartialRouteList>
     <itdFare>
      <itdSingleTicket net="avv" currency="EUR" fareAdult="3.20" fareChild="1.60" unitName="Zone" unitsAdult="2" unitsChild="2"/>
     </itdFare>
    </itdRoute>
   </itdRouteList>
  </itdItinerary>
 </itdTripRequest>
</itdRequest>`

func TestParseTripsResponse(t *testing.T) {
	p := testProvider(t)
	var data itdTripsResponse
	if err := xml.Unmarshal([]byte(tripsResponseXML), &data); err != nil {
		t.Fatal(err)
	}

	result, err := p.parseTripsResponse(&data, "http://example/query")
	if err != nil {
		t.Fatal(err)
	}
	if result.Status != pt.StatusOK {
		t.Fatalf("Status = %v", result.Status)
	}
	if result.From == nil || result.From.ID != "2000101" || result.From.Place != "Augsburg" {
		t.Errorf("From = %+v", result.From)
	}
	if result.To == nil || result.To.ID != "2000505" {
		t.Errorf("To = %+v", result.To)
	}
	if len(result.Trips) != 1 {
		t.Fatalf("got %d trips", len(result.Trips))
	}

	trip := result.Trips[0]
	if len(trip.Legs) != 2 {
		t.Fatalf("got %d legs", len(trip.Legs))
	}
	public, ok := trip.Legs[0].(*pt.PublicLeg)
	if !ok {
		t.Fatalf("legs[0] = %T", trip.Legs[0])
	}
	if public.Line.Product != pt.SuburbanTrain || public.Line.Label != "S2" {
		t.Errorf("line = %v %q", public.Line.Product, public.Line.Label)
	}
	if public.Line.Style == nil {
		t.Error("line style not applied")
	}
	if got := public.DepartureStop.PlannedDeparturePosition; got == nil || got.Name != "2" {
		t.Errorf("departure position = %v", got)
	}
	wantDep := time.Date(2026, time.May, 30, 10, 5, 0, 0, p.tz)
	if !public.DepartureTime().Equal(wantDep) {
		t.Errorf("departure = %v, want %v", public.DepartureTime(), wantDep)
	}

	walk, ok := trip.Legs[1].(*pt.IndividualLeg)
	if !ok {
		t.Fatalf("legs[1] = %T", trip.Legs[1])
	}
	if walk.Type != pt.IndividualWalk || walk.DistanceM != 350 {
		t.Errorf("walk = %v %dm", walk.Type, walk.DistanceM)
	}

	if len(trip.Fares) != 2 {
		t.Fatalf("got %d fares", len(trip.Fares))
	}
	if trip.Fares[0].Name != "AVV" || trip.Fares[0].Type != pt.FareAdult || trip.Fares[0].Amount != 3.20 {
		t.Errorf("adult fare = %+v", trip.Fares[0])
	}
	if trip.Fares[1].Type != pt.FareChild || trip.Fares[1].Units != "2" {
		t.Errorf("child fare = %+v", trip.Fares[1])
	}

	urlContext, ok := result.Context.(*pt.URLContext)
	if !ok || !urlContext.CanQueryLater() {
		t.Fatalf("context = %#v", result.Context)
	}
	if !strings.Contains(urlContext.URL, "sessionID=SID-1") || !strings.Contains(urlContext.URL, "requestID=3") {
		t.Errorf("continuation url = %q", urlContext.URL)
	}
}

func TestParseTripsResponseNoTrips(t *testing.T) {
	p := testProvider(t)
	data := &itdTripsResponse{
		Now: "2026-05-30T10:00:00",
		TripRequest: itdTripRequest{
			Messages: []itdMessage{{Code: -4000, Text: "no trips found"}},
		},
	}
	result, err := p.parseTripsResponse(data, "")
	if err != nil {
		t.Fatal(err)
	}
	if result.Status != pt.StatusNoTrips {
		t.Errorf("Status = %v", result.Status)
	}
	if result.StatusHint != "no trips found" {
		t.Errorf("StatusHint = %q", result.StatusHint)
	}
}

func TestParseTripsResponseAmbiguous(t *testing.T) {
	p := testProvider(t)
	data := &itdTripsResponse{
		Now: "2026-05-30T10:00:00",
		TripRequest: itdTripRequest{
			Odvs: []itdOdv{
				{
					Type:  "stop",
					Usage: "origin",
					Name: itdOdvName{
						State: "list",
						Elems: []odvNameElem{
							{AnyType: "stop", ID: "100", Stateless: "100", Value: "Neuhausen"},
							{AnyType: "stop", ID: "200", Stateless: "200", Value: "Neuhausen ob Eck"},
						},
					},
				},
			},
		},
	}
	result, err := p.parseTripsResponse(data, "")
	if err != nil {
		t.Fatal(err)
	}
	if result.Status != pt.StatusAmbiguous {
		t.Fatalf("Status = %v", result.Status)
	}
	if len(result.AmbiguousFrom) != 2 {
		t.Errorf("AmbiguousFrom = %v", result.AmbiguousFrom)
	}
}

func TestParseTripsResponseUnknownOrigin(t *testing.T) {
	p := testProvider(t)
	data := &itdTripsResponse{
		TripRequest: itdTripRequest{
			Odvs: []itdOdv{
				{Type: "stop", Usage: "origin", Name: itdOdvName{State: "notidentified"}},
			},
		},
	}
	result, err := p.parseTripsResponse(data, "")
	if err != nil {
		t.Fatal(err)
	}
	if result.Status != pt.StatusUnknownFrom {
		t.Errorf("Status = %v", result.Status)
	}
}

const departuresResponseXML = `<?xml version="1.0" encoding="UTF-8"?>
<itdRequest version="10.4.18.18" language="de" sessionID="SID-9" serverID="srv-2" now="2026-05-30T11:00:00">
 <itdDepartureMonitorRequest requestID="5">
  <itdOdv type="stop" usage="dm">
   <itdOdvPlace state="identified"><odvPlaceElem>Augsburg</odvPlaceElem></itdOdvPlace>
   <itdOdvName state="identified">
    <odvNameElem id="2000101" stateless="2000101" locality="Augsburg" objectName="Hauptbahnhof">Hauptbahnhof</odvNameElem>
   </itdOdvName>
  </itdOdv>
  <itdServingLines>
   <itdServingLine number="21" symbol="21" motType="5" direction="Firnhaberau" destID="2000822" stateless="avv:03021: :H:j26" realtime="1">
    <motDivaParams line="03021" direction="H" network="avv"/>
   </itdServingLine>
  </itdServingLines>
  <itdDepartureList>
   <itdDeparture stopID="2000101" mapName="WGS84[DD.ddddd]" x="10.8857000" y="48.3654000" platformName="Bstg. 7">
    <itdDateTime>
     <itdDate year="2026" month="4" day="30" weekday="6"/>
     <itdTime hour="11" minute="10"/>
    </itdDateTime>
    <itdRTDateTime>
     <itdDate year="2026" month="4" day="30" weekday="6"/>
     <itdTime hour="11" minute="13"/>
    </itdRTDateTime>
    <itdServingLine number="21" symbol="21" motType="5" direction="Firnhaberau" destID="2000822" stateless="avv:03021: :H:j26" realtime="1">
     <motDivaParams line="03021" direction="H" network="avv"/>
    </itdServingLine>
   </itdDeparture>
   <itdDeparture stopID="2000101" platformName="Bstg. 3">
    <itdDateTime>
     <itdDate year="2026" month="4" day="30" weekday="6"/>
     <itdTime hour="11" minute="20"/>
    </itdDateTime>
    <itdServingLine number="35" symbol="35" motType="5" direction="Uni" destID="-1" delay="-9999" stateless="avv:03035: :H:j26">
     <motDivaParams line="03035" direction="H" network="avv"/>
    </itdServingLine>
   </itdDeparture>
  </itdDepartureList>
 </itdDepartureMonitorRequest>
</itdRequest>`

func TestParseDepartureMonitorResponse(t *testing.T) {
	p := testProvider(t)
	var data itdDepartureMonitorResponse
	if err := xml.Unmarshal([]byte(departuresResponseXML), &data); err != nil {
		t.Fatal(err)
	}

	result, err := p.parseDepartureMonitorResponse(&data, 0)
	if err != nil {
		t.Fatal(err)
	}
	if result.Status != pt.StatusOK {
		t.Fatalf("Status = %v", result.Status)
	}
	if len(result.StationDepartures) != 1 {
		t.Fatalf("got %d stations", len(result.StationDepartures))
	}

	station := result.StationDepartures[0]
	if station.Location.ID != "2000101" || station.Location.Name != "Hauptbahnhof" {
		t.Errorf("station = %+v", station.Location)
	}
	if len(station.Lines) != 1 || station.Lines[0].Line.Label != "21" || station.Lines[0].Line.Product != pt.Bus {
		t.Errorf("lines = %+v", station.Lines)
	}
	if dest := station.Lines[0].Destination; dest == nil || dest.ID != "2000822" || dest.Name != "Firnhaberau" {
		t.Errorf("line destination = %+v", dest)
	}

	// the cancelled second entry must be dropped
	if len(station.Departures) != 1 {
		t.Fatalf("got %d departures", len(station.Departures))
	}
	dep := station.Departures[0]
	planned := time.Date(2026, time.May, 30, 11, 10, 0, 0, p.tz)
	predicted := time.Date(2026, time.May, 30, 11, 13, 0, 0, p.tz)
	if !dep.PlannedTime.Equal(planned) || !dep.PredictedTime.Equal(predicted) {
		t.Errorf("times = %v / %v", dep.PlannedTime, dep.PredictedTime)
	}
	if !dep.Time().Equal(predicted) {
		t.Errorf("Time() = %v", dep.Time())
	}
	if dep.Position == nil || dep.Position.Name != "Bstg. 7" {
		t.Errorf("position = %v", dep.Position)
	}
}

func TestParseDepartureMonitorUnidentified(t *testing.T) {
	p := testProvider(t)
	data := &itdDepartureMonitorResponse{
		MonitorRequest: itdDepartureMonitorRequest{
			Odv: itdOdv{Type: "stop", Usage: "dm", Name: itdOdvName{State: "list"}},
		},
	}
	result, err := p.parseDepartureMonitorResponse(data, 0)
	if err != nil {
		t.Fatal(err)
	}
	if result.Status != pt.StatusInvalidStation {
		t.Errorf("Status = %v", result.Status)
	}
}

const coordResponseXML = `<?xml version="1.0" encoding="UTF-8"?>
<itdRequest version="10.4.18.18" language="de" sessionID="SID-3" serverID="srv-1" now="2026-05-30T12:00:00">
 <itdCoordInfoRequest requestID="7">
  <itdCoordInfo>
   <coordInfoItemList>
    <coordInfoItem type="STOP" id="2000101" stateless="2000101" name="Hauptbahnhof" locality="Augsburg" distance="120">
     <itdPathCoordinates>
      <coordEllipsoid>WGS84</coordEllipsoid>
      <coordType>GEO_DECIMAL</coordType>
      <itdCoordinateString>10.8857000,48.3654000</itdCoordinateString>
     </itdPathCoordinates>
     <genAttrList>
      <genAttrElem><name>STOP_MEANS_LIST</name><value>2,3</value></genAttrElem>
     </genAttrList>
    </coordInfoItem>
    <coordInfoItem type="GIS_AREA" id="x1" name="Irrelevant"/>
   </coordInfoItemList>
  </itdCoordInfo>
 </itdCoordInfoRequest>
</itdRequest>`

func TestParseCoordResponse(t *testing.T) {
	p := testProvider(t)
	var data itdCoordResponse
	if err := xml.Unmarshal([]byte(coordResponseXML), &data); err != nil {
		t.Fatal(err)
	}

	result, err := p.parseCoordResponse(&data)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Locations) != 1 {
		t.Fatalf("got %d locations, want unknown type skipped", len(result.Locations))
	}
	loc := result.Locations[0]
	if loc.Type != pt.LocationStation || loc.ID != "2000101" || loc.Place != "Augsburg" {
		t.Errorf("location = %+v", loc)
	}
	if loc.Coord == nil || loc.Coord.LatAs1E6() != 48365400 {
		t.Errorf("coord = %v", loc.Coord)
	}
	if !loc.Products[pt.SuburbanTrain] || !loc.Products[pt.Bus] || loc.Products[pt.Subway] {
		t.Errorf("products = %v", loc.Products)
	}
}

const stopfinderJSON = `{
 "stopFinder": {
  "points": [
   {"type": "any", "anyType": "stop", "stateless": "2000101", "name": "Augsburg, Hauptbahnhof", "object": "Hauptbahnhof", "quality": 980,
    "ref": {"id": "2000101", "place": "Augsburg", "coords": "10.8857000,48.3654000"}},
   {"type": "any", "anyType": "street", "stateless": "street:123", "name": "Bahnhofstrasse", "object": "Bahnhofstrasse", "quality": 700,
    "ref": {"id": "123", "place": "Augsburg", "coords": "10.8900000,48.3700000"}}
  ]
 }
}`

func TestParseStopfinderResponse(t *testing.T) {
	p := testProvider(t)
	var data stopfinderResponse
	if err := json.Unmarshal([]byte(stopfinderJSON), &data); err != nil {
		t.Fatal(err)
	}

	result := p.parseStopfinderResponse(&data)
	if result.Status != pt.StatusOK {
		t.Fatalf("Status = %v", result.Status)
	}
	if len(result.Locations) != 2 {
		t.Fatalf("got %d locations", len(result.Locations))
	}
	first := result.Locations[0]
	if first.Location.Type != pt.LocationStation || first.Location.ID != "2000101" {
		t.Errorf("first = %+v", first.Location)
	}
	if first.Location.Name != "Hauptbahnhof" || first.Location.Place != "Augsburg" {
		t.Errorf("first names = %q / %q", first.Location.Place, first.Location.Name)
	}
	if first.Priority != 980 {
		t.Errorf("priority = %d", first.Priority)
	}
	if second := result.Locations[1]; second.Location.Type != pt.LocationAddress {
		t.Errorf("second = %+v", second.Location)
	}
}

func TestParseStopfinderSoloPoint(t *testing.T) {
	p := testProvider(t)
	solo := `{"stopFinder": {"points": {"point":
  {"type": "stop", "stateless": "2000101", "object": "Hauptbahnhof", "quality": 999,
   "ref": {"id": "2000101", "place": "Augsburg", "coords": "10.8857000,48.3654000"}}}}}`
	var data stopfinderResponse
	if err := json.Unmarshal([]byte(solo), &data); err != nil {
		t.Fatal(err)
	}
	result := p.parseStopfinderResponse(&data)
	if len(result.Locations) != 1 || result.Locations[0].Location.ID != "2000101" {
		t.Errorf("locations = %+v", result.Locations)
	}
}

func TestParseStopfinderServiceDown(t *testing.T) {
	p := testProvider(t)
	var data stopfinderResponse
	raw := `{"stopFinder": {"message": [{"name": "code", "value": "-4050"}], "points": []}}`
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		t.Fatal(err)
	}
	if result := p.parseStopfinderResponse(&data); result.Status != pt.StatusServiceDown {
		t.Errorf("Status = %v", result.Status)
	}
}

func TestOdvLocationTypes(t *testing.T) {
	tests := []struct {
		name    string
		odvType string
		elem    odvNameElem
		want    pt.Location
	}{
		{
			name:    "station with default place",
			odvType: "any",
			elem:    odvNameElem{AnyType: "stop", ID: "900", Stateless: "900", ObjectName: "Rathaus", Value: "Rathaus"},
			want:    pt.Location{ID: "900", Type: pt.LocationStation, Place: "Ulm", Name: "Rathaus"},
		},
		{
			name:    "address with building number",
			odvType: "singlehouse",
			elem:    odvNameElem{Stateless: "sh:1", Locality: "Ulm", ObjectName: "Marktgasse", BuildingNumber: "4"},
			want:    pt.Location{ID: "sh:1", Type: pt.LocationAddress, Place: "Ulm", Name: "Marktgasse 4"},
		},
		{
			name:    "postcode",
			odvType: "postcode",
			elem:    odvNameElem{Stateless: "pc:89073", PostCode: "89073"},
			want:    pt.Location{ID: "pc:89073", Type: pt.LocationAddress, Place: "Ulm", Name: "89073"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := odvLocation(tt.elem, tt.odvType, "Ulm")
			if err != nil {
				t.Fatal(err)
			}
			if got == nil || got.ID != tt.want.ID || got.Type != tt.want.Type ||
				got.Place != tt.want.Place || got.Name != tt.want.Name {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}

	if loc, err := odvLocation(odvNameElem{AnyType: "unknown"}, "any", ""); err != nil || loc != nil {
		t.Errorf("unknown type: got %v, %v, want nil, nil", loc, err)
	}
	if _, err := odvLocation(odvNameElem{AnyType: "teleporter"}, "any", ""); err == nil {
		t.Error("unhandled type must error")
	}
}

func TestPathCoordinatePoints(t *testing.T) {
	stringForm := &itdPathCoordinates{
		Ellipsoid:   "WGS84",
		Type:        "GEO_DECIMAL",
		CoordString: "10.8857000,48.3654000 10.8700000,48.3900000",
	}
	points := stringForm.points()
	if len(points) != 2 || points[0].LonAs1E6() != 10885700 || points[1].LatAs1E6() != 48390000 {
		t.Errorf("points = %v", points)
	}

	listForm := &itdPathCoordinates{
		Ellipsoid: "WGS84",
		Type:      "GEO_DECIMAL",
		BaseElems: []itdCoordinateBaseElem{{X: 48.3654, Y: 10.8857}},
	}
	points = listForm.points()
	if len(points) != 1 || points[0].LatAs1E6() != 48365400 {
		t.Errorf("points = %v", points)
	}

	other := &itdPathCoordinates{Ellipsoid: "UTM", Type: "GEO_DECIMAL", CoordString: "1,2"}
	if got := other.points(); got != nil {
		t.Errorf("foreign ellipsoid must yield nil, got %v", got)
	}
}
