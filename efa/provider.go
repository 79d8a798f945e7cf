// Package efa speaks the XML protocol family: stateless HTTP GET
// endpoints answering with an itdRequest envelope, except for the stop
// finder which is queried in its JSON rendering. Responses are decoded
// into wire structs and normalized through the classifier and the
// assembler into the shared domain model.
package efa

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gopkg.in/resty.v1"

	"github.com/theoremus-urban-solutions/pt-client/assembler"
	"github.com/theoremus-urban-solutions/pt-client/config"
	"github.com/theoremus-urban-solutions/pt-client/geo"
	"github.com/theoremus-urban-solutions/pt-client/pt"
)

// Default endpoint names under the deployment's base URL.
const (
	defaultTripEndpoint             = "XSLT_TRIP_REQUEST2"
	defaultDepartureMonitorEndpoint = "XSLT_DM_REQUEST"
	defaultStopFinderEndpoint       = "XML_STOPFINDER_REQUEST"
	defaultCoordEndpoint            = "XML_COORD_REQUEST"
)

const defaultNumTrips = 6

// Provider is one configured XML-family network.
type Provider struct {
	network string
	cfg     config.EFAConfig
	client  *resty.Client
	tz      *time.Location
	asm     *assembler.Assembler

	// NumTrips is how many itineraries a trip search asks for.
	NumTrips int

	// UseRouteIndexAsTripID keeps the backend's route index as the trip
	// id instead of deriving one from the legs.
	UseRouteIndexAsTripID bool

	// Language is the request language parameter.
	Language string
}

// New builds a provider for one network entry of the registry.
func New(network config.Network, client config.ClientConfig) (*Provider, error) {
	if network.Kind != "efa" {
		return nil, fmt.Errorf("efa: network %s is of kind %q", network.Name, network.Kind)
	}
	tz := time.UTC
	if network.Timezone != "" {
		loaded, err := time.LoadLocation(network.Timezone)
		if err != nil {
			return nil, fmt.Errorf("efa: network %s: %w", network.Name, err)
		}
		tz = loaded
	}

	rc := resty.New().
		SetTimeout(time.Duration(client.TimeoutMS) * time.Millisecond)
	if client.UserAgent != "" {
		rc.SetHeader("User-Agent", client.UserAgent)
	}

	p := &Provider{
		network:  network.Name,
		cfg:      network.EFA,
		client:   rc,
		tz:       tz,
		NumTrips: defaultNumTrips,
		Language: "de",
	}
	p.asm = &assembler.Assembler{Styles: p.lineStyle}
	return p, nil
}

// Capabilities lists the operations this protocol family supports.
func (p *Provider) Capabilities() []pt.Capability {
	return []pt.Capability{
		pt.CapabilitySuggestLocations,
		pt.CapabilityNearbyLocations,
		pt.CapabilityDepartures,
		pt.CapabilityTrips,
		pt.CapabilityTripsVia,
	}
}

func (p *Provider) lineStyle(network string, product pt.Product, label string) *pt.Style {
	style := pt.DefaultStyle(product)
	return &style
}

func (p *Provider) endpoint(configured, name string) string {
	if configured != "" {
		return configured
	}
	return strings.TrimSuffix(p.cfg.BaseURL, "/") + "/" + name
}

func (p *Provider) tripEndpoint() string {
	return p.endpoint(p.cfg.TripEndpoint, defaultTripEndpoint)
}

func (p *Provider) departureMonitorEndpoint() string {
	return p.endpoint(p.cfg.DepartureMonitorEndpoint, defaultDepartureMonitorEndpoint)
}

func (p *Provider) stopFinderEndpoint() string {
	return p.endpoint(p.cfg.StopFinderEndpoint, defaultStopFinderEndpoint)
}

func (p *Provider) coordEndpoint() string {
	return p.endpoint(p.cfg.CoordEndpoint, defaultCoordEndpoint)
}

func (p *Provider) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	target := endpoint
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	resp, err := p.client.R().SetContext(ctx).Get(target)
	if err != nil {
		return nil, fmt.Errorf("efa: request %s: %w", endpoint, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("efa: request %s: status %d", endpoint, resp.StatusCode())
	}
	return resp.Body(), nil
}

func (p *Provider) commonParams(outputFormat string) url.Values {
	v := url.Values{}
	v.Set("outputFormat", outputFormat)
	v.Set("language", p.Language)
	v.Set("stateless", "1")
	v.Set("coordOutputFormat", coordFormat)
	v.Set("coordOutputFormatTail", "7")
	return v
}

// coordParam renders a point in the protocol's "lat:lon:format" form.
func coordParam(c geo.Point) string {
	return strings.ReplaceAll(c.String(), "/", ":") + ":" + coordFormat
}

// SuggestLocations returns autocomplete matches for a partial user
// input. types limits the kinds of matches; nil means all.
func (p *Provider) SuggestLocations(ctx context.Context, constraint string, types map[pt.LocationType]bool, maxLocations int) (*pt.SuggestLocationsResult, error) {
	v := p.commonParams("JSON")
	v.Set("locationServerActive", "1")
	v.Set("type_sf", "any")
	v.Set("name_sf", constraint)

	filter := 0
	if types == nil || types[pt.LocationStation] {
		filter += 2
	}
	if types == nil || types[pt.LocationPOI] {
		filter += 32
	}
	if types == nil || types[pt.LocationAddress] {
		filter += 4 + 8 + 16 + 64 // street, address, crossing, postcode
	}
	v.Set("anyObjFilter_sf", strconv.Itoa(filter))
	v.Set("reducedAnyPostcodeObjFilter_sf", "64")
	v.Set("reducedAnyTooManyObjFilter_sf", "2")
	v.Set("useHouseNumberList", "true")
	if maxLocations > 0 {
		v.Set("anyMaxSizeHitList", strconv.Itoa(maxLocations))
	}

	body, err := p.get(ctx, p.stopFinderEndpoint(), v)
	if err != nil {
		return nil, err
	}
	var data stopfinderResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("efa: decode stop finder response: %w", err)
	}
	return p.parseStopfinderResponse(&data), nil
}

// NearbyLocations finds stations and POIs around a reference location.
// A location with coordinates is resolved spatially; a station without
// them through its departure monitor entry.
func (p *Provider) NearbyLocations(ctx context.Context, types map[pt.LocationType]bool, location pt.Location, maxDistance, maxLocations int) (*pt.NearbyLocationsResult, error) {
	if location.HasCoords() {
		return p.coordRequest(ctx, types, *location.Coord, maxDistance, maxLocations)
	}
	if location.Type != pt.LocationStation || !location.HasID() {
		return nil, fmt.Errorf("efa: nearby reference needs coordinates or a station id")
	}
	return p.nearbyStations(ctx, location.ID, maxLocations)
}

func (p *Provider) coordRequest(ctx context.Context, types map[pt.LocationType]bool, coord geo.Point, maxDistance, maxLocations int) (*pt.NearbyLocationsResult, error) {
	v := p.commonParams("XML")
	v.Set("coord", coordParam(coord))
	v.Set("coordListOutputFormat", "string")
	if maxLocations == 0 {
		maxLocations = 50
	}
	v.Set("max", strconv.Itoa(maxLocations))
	v.Set("inclFilter", "1")
	if maxDistance == 0 {
		maxDistance = 1320
	}

	i := 1
	for _, typ := range []pt.LocationType{pt.LocationStation, pt.LocationPOI} {
		if types != nil && !types[typ] {
			continue
		}
		v.Set(fmt.Sprintf("radius_%d", i), strconv.Itoa(maxDistance))
		if typ == pt.LocationStation {
			v.Set(fmt.Sprintf("type_%d", i), "STOP")
		} else {
			v.Set(fmt.Sprintf("type_%d", i), "POI_POINT")
		}
		i++
	}

	body, err := p.get(ctx, p.coordEndpoint(), v)
	if err != nil {
		return nil, err
	}
	var data itdCoordResponse
	if err := xml.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("efa: decode coord response: %w", err)
	}
	return p.parseCoordResponse(&data)
}

func (p *Provider) nearbyStations(ctx context.Context, stationID string, maxLocations int) (*pt.NearbyLocationsResult, error) {
	v := p.commonParams("XML")
	v.Set("type_dm", "stop")
	v.Set("name_dm", geo.NormalizeStationID(stationID))
	v.Set("itOptionsActive", "1")
	v.Set("ptOptionsActive", "1")
	if p.cfg.UseProxFootSearch {
		v.Set("useProxFootSearch", "1")
	}
	v.Set("mergeDep", "1")
	v.Set("useAllStops", "1")
	v.Set("mode", "direct")

	body, err := p.get(ctx, p.departureMonitorEndpoint(), v)
	if err != nil {
		return nil, err
	}
	var data itdDepartureMonitorResponse
	if err := xml.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("efa: decode departure monitor response: %w", err)
	}

	header := p.parseHeader(data.Version, data.Now, data.SessionID)
	odv := &data.MonitorRequest.Odv
	if odv.Usage != "dm" {
		return nil, fmt.Errorf("efa: expected odv usage %q, got %q", "dm", odv.Usage)
	}
	if odv.Name.State == "notidentified" {
		return &pt.NearbyLocationsResult{Header: header, Status: pt.StatusInvalidStation}, nil
	}

	locations, err := odvLocations(odv)
	if err != nil {
		return nil, err
	}
	var stations []pt.Location
	for _, loc := range locations {
		if loc.Type == pt.LocationStation {
			stations = append(stations, loc)
		}
	}
	if maxLocations > 0 && maxLocations < len(stations) {
		stations = stations[:maxLocations]
	}
	return &pt.NearbyLocationsResult{Header: header, Status: pt.StatusOK, Locations: stations}, nil
}

// QueryDepartures returns the station board of a station. equivs
// includes equivalent neighbor stops.
func (p *Provider) QueryDepartures(ctx context.Context, stationID string, when time.Time, maxDepartures int, equivs bool) (*pt.QueryDeparturesResult, error) {
	if stationID == "" {
		return nil, fmt.Errorf("efa: station id must not be empty")
	}
	v := p.commonParams("XML")
	v.Set("type_dm", "stop")
	v.Set("name_dm", geo.NormalizeStationID(stationID))
	if !when.IsZero() {
		p.setDateTimeParams(v, when)
	}
	v.Set("useRealtime", "1")
	v.Set("mode", "direct")
	v.Set("ptOptionsActive", "1")
	if equivs {
		v.Set("deleteAssignedStops_dm", "0")
	} else {
		v.Set("deleteAssignedStops_dm", "1")
	}
	if p.cfg.UseProxFootSearch {
		if equivs {
			v.Set("useProxFootSearch", "1")
		} else {
			v.Set("useProxFootSearch", "0")
		}
	}
	v.Set("mergeDep", "1")
	if maxDepartures > 0 {
		v.Set("limit", strconv.Itoa(maxDepartures))
	}

	body, err := p.get(ctx, p.departureMonitorEndpoint(), v)
	if err != nil {
		return nil, err
	}
	var data itdDepartureMonitorResponse
	if err := xml.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("efa: decode departure monitor response: %w", err)
	}
	return p.parseDepartureMonitorResponse(&data, maxDepartures)
}

func (p *Provider) setDateTimeParams(v url.Values, when time.Time) {
	local := when.In(p.tz)
	v.Set("itdDate", local.Format("20060102"))
	v.Set("itdTime", local.Format("1504"))
}

func (p *Provider) setLocationParams(v url.Values, location pt.Location, suffix string) {
	switch {
	case location.Type == pt.LocationStation && location.HasID():
		v.Set("type_"+suffix, "stop")
		v.Set("name_"+suffix, geo.NormalizeStationID(location.ID))
	case location.Type == pt.LocationPOI && location.HasID():
		v.Set("type_"+suffix, "poi")
		v.Set("name_"+suffix, location.ID)
	case location.Type == pt.LocationAddress && location.HasID():
		v.Set("type_"+suffix, "address")
		v.Set("name_"+suffix, location.ID)
	case (location.Type == pt.LocationAddress || location.Type == pt.LocationCoord) && location.HasCoords():
		v.Set("type_"+suffix, "coord")
		v.Set("name_"+suffix, coordParam(*location.Coord))
	default:
		v.Set("type_"+suffix, "any")
		name := location.Name
		if location.Place != "" {
			name = location.Place + " " + location.Name
		}
		v.Set("name_"+suffix, name)
	}
}

// Request mode bits per product; one product may enable several.
var productMOTs = map[pt.Product][]int{
	pt.HighSpeedTrain: {0, 14, 15, 16},
	pt.RegionalTrain:  {0, 13, 18},
	pt.SuburbanTrain:  {1},
	pt.Subway:         {2},
	pt.Tram:           {3, 4},
	pt.Bus:            {5, 6, 7, 17, 19},
	pt.OnDemand:       {10},
	pt.Ferry:          {9},
	pt.CableCar:       {8},
}

func (p *Provider) tripParams(from pt.Location, via *pt.Location, to pt.Location, when time.Time, departure bool, opts *pt.TripOptions) url.Values {
	v := p.commonParams("XML")
	v.Set("sessionID", "0")
	v.Set("requestID", "0")
	v.Set("coordListOutputFormat", "string")

	p.setLocationParams(v, from, "origin")
	p.setLocationParams(v, to, "destination")
	if via != nil {
		p.setLocationParams(v, *via, "via")
	}

	p.setDateTimeParams(v, when)
	if departure {
		v.Set("itdTripDateTimeDepArr", "dep")
	} else {
		v.Set("itdTripDateTimeDepArr", "arr")
	}

	v.Set("calcNumberOfTrips", strconv.Itoa(p.NumTrips))
	v.Set("ptOptionsActive", "1")
	v.Set("itOptionsActive", "1")

	if opts == nil {
		opts = &pt.TripOptions{}
	}
	switch opts.Optimize {
	case pt.OptimizeLeastDuration:
		v.Set("routeType", "LEASTTIME")
	case pt.OptimizeLeastChanges:
		v.Set("routeType", "LEASTINTERCHANGE")
	case pt.OptimizeLeastWalking:
		v.Set("routeType", "LEASTWALKING")
	}
	v.Set("changeSpeed", opts.WalkSpeed.String())

	switch opts.Accessibility {
	case pt.AccessibilityBarrierFree:
		v.Set("imparedOptionsActive", "1")
		v.Set("wheelchair", "on")
		v.Set("noSolidStairs", "on")
	case pt.AccessibilityLimited:
		v.Set("imparedOptionsActive", "1")
		v.Set("wheelchair", "on")
		v.Set("lowPlatformVhcl", "on")
		v.Set("noSolidStairs", "on")
	}

	if opts.Products != nil {
		v.Set("includedMeans", "checkbox")
		highSpeed := false
		for product, enabled := range opts.Products {
			if !enabled {
				continue
			}
			if product == pt.HighSpeedTrain {
				highSpeed = true
			}
			for _, mot := range productMOTs[product] {
				v.Set(fmt.Sprintf("inclMOT_%d", mot), "on")
			}
		}
		// asking for regional without high speed fails outright, so
		// restrict by line class instead
		if !highSpeed {
			v.Set("lineRestriction", "403")
		}
	}

	if p.cfg.UseProxFootSearch {
		v.Set("useProxFootSearch", "1")
	}
	v.Set("trITMOTvalue100", "10")
	if opts.Bike {
		v.Set("bikeTakeAlong", "1")
	}

	v.Set("locationServerActive", "1")
	v.Set("useRealtime", "1")
	v.Set("nextDepsPerLeg", "1")
	return v
}

// QueryTrips searches itineraries between two locations.
func (p *Provider) QueryTrips(ctx context.Context, from pt.Location, via *pt.Location, to pt.Location, when time.Time, departure bool, opts *pt.TripOptions) (*pt.QueryTripsResult, error) {
	endpoint := p.tripEndpoint()
	params := p.tripParams(from, via, to, when, departure, opts)
	queryURI := endpoint + "?" + params.Encode()

	body, err := p.get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	var data itdTripsResponse
	if err := xml.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("efa: decode trip response: %w", err)
	}
	return p.parseTripsResponse(&data, queryURI)
}

// commandLink is the session continuation URL a trip result can be
// extended through.
func (p *Provider) commandLink(sessionID, requestID string) string {
	v := url.Values{}
	v.Set("sessionID", sessionID)
	v.Set("requestID", requestID)
	v.Set("calcNumberOfTrips", strconv.Itoa(p.NumTrips))
	v.Set("coordListOutputFormat", "string")
	return p.tripEndpoint() + "?" + v.Encode()
}

// continuationURL extends a stored session link with the common request
// params and the paging command. Without the command the session
// endpoint replays the current result page instead of advancing.
func (p *Provider) continuationURL(sessionURL string) string {
	return sessionURL + "&" + p.commonParams("XML").Encode() + "&command=tripNext"
}

// QueryMoreTrips continues an earlier trip search through its session
// context. The XML family only pages forward.
func (p *Provider) QueryMoreTrips(ctx context.Context, tripsContext pt.QueryTripsContext, later bool) (*pt.QueryTripsResult, error) {
	urlContext, ok := tripsContext.(*pt.URLContext)
	if !ok {
		return nil, fmt.Errorf("efa: cannot continue with context of type %T", tripsContext)
	}
	if !later || urlContext.URL == "" {
		return nil, fmt.Errorf("efa: cannot page in the requested direction")
	}

	body, err := p.get(ctx, p.continuationURL(urlContext.URL), nil)
	if err != nil {
		return nil, err
	}
	var data itdTripsResponse
	if err := xml.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("efa: decode trip response: %w", err)
	}
	return p.parseTripsResponse(&data, urlContext.URL)
}
