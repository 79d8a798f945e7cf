// Package hci speaks the JSON protocol family: one POST endpoint
// multiplexing service methods inside a shared request envelope, with
// optional MD5 signing of the request body. Responses reference shared
// lookup tables by index; parsing resolves the references through the
// location resolver and the mode table into the shared domain model.
package hci

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gopkg.in/resty.v1"

	"github.com/theoremus-urban-solutions/pt-client/config"
	"github.com/theoremus-urban-solutions/pt-client/fares"
	"github.com/theoremus-urban-solutions/pt-client/geo"
	"github.com/theoremus-urban-solutions/pt-client/pt"
	"github.com/theoremus-urban-solutions/pt-client/resolver"
)

const (
	defaultMaxDepartures = 100
	defaultMaxLocations  = 50
	defaultMaxDistance   = 20000
)

// Provider is one configured JSON-family network.
type Provider struct {
	network string
	cfg     config.HCIConfig
	client  *resty.Client
	tz      *time.Location
	res     *resolver.Resolver
	modes   pt.ModeTable

	// Fares extracts trip fares; its Hide and NormalizeName hooks may
	// be set before the first query.
	Fares fares.Extractor

	// Language is the request language of the envelope.
	Language string
}

// New builds a provider for one network entry of the registry.
func New(network config.Network, client config.ClientConfig) (*Provider, error) {
	if network.Kind != "hci" {
		return nil, fmt.Errorf("hci: network %s is of kind %q", network.Name, network.Kind)
	}
	tz := time.UTC
	if network.Timezone != "" {
		loaded, err := time.LoadLocation(network.Timezone)
		if err != nil {
			return nil, fmt.Errorf("hci: network %s: %w", network.Name, err)
		}
		tz = loaded
	}
	res, err := network.Resolver()
	if err != nil {
		return nil, err
	}
	modes, err := network.ModeTable()
	if err != nil {
		return nil, err
	}

	rc := resty.New().
		SetTimeout(time.Duration(client.TimeoutMS) * time.Millisecond)
	if client.UserAgent != "" {
		rc.SetHeader("User-Agent", client.UserAgent)
	}

	return &Provider{
		network:  network.Name,
		cfg:      network.HCI,
		client:   rc,
		tz:       tz,
		res:      res,
		modes:    modes,
		Language: "eng",
	}, nil
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

// wrapRequest builds the envelope body: a ServerInfo leader followed by
// the operation. Authorization and client identification are verbatim
// JSON objects from the deployment config.
func (p *Provider) wrapRequest(operation svcReq) ([]byte, error) {
	req := apiRequest{
		Ext:  p.cfg.APIExt,
		Ver:  p.cfg.APIVersion,
		Lang: p.Language,
		SvcReqL: []svcReq{
			{Meth: "ServerInfo", Req: serverInfoReq{GetServerDateTime: true}},
			operation,
		},
	}
	if p.cfg.APIAuth != "" {
		req.Auth = json.RawMessage(p.cfg.APIAuth)
	}
	if p.cfg.APIClient != "" {
		req.Client = json.RawMessage(p.cfg.APIClient)
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("hci: encode request: %w", err)
	}
	return body, nil
}

// requestURL appends the signing parameters the deployment demands. The
// salts stay opaque byte strings.
func (p *Provider) requestURL(body []byte) string {
	endpoint := p.cfg.Endpoint
	q := url.Values{}
	if p.cfg.ChecksumSalt != "" {
		sum := md5.Sum(append(append([]byte{}, body...), []byte(p.cfg.ChecksumSalt)...))
		q.Set("checksum", hex.EncodeToString(sum[:]))
	}
	if p.cfg.MicMacSalt != "" {
		mic := md5.Sum(body)
		q.Set("mic", hex.EncodeToString(mic[:]))
		mac := md5.Sum(append(append([]byte{}, body...), []byte(p.cfg.MicMacSalt)...))
		q.Set("mac", hex.EncodeToString(mac[:]))
	}
	if len(q) == 0 {
		return endpoint
	}
	return endpoint + "?" + q.Encode()
}

// exchange runs one envelope round trip and peels the leader off,
// returning the operation block for method-specific handling.
func (p *Provider) exchange(ctx context.Context, meth string, req any) (*pt.ResultHeader, *svcRes, error) {
	body, err := p.wrapRequest(svcReq{
		Meth: meth,
		Cfg:  &svcCfg{PolyEnc: "GPA"},
		Req:  req,
	})
	if err != nil {
		return nil, nil, err
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetBody(body).
		Post(p.requestURL(body))
	if err != nil {
		return nil, nil, fmt.Errorf("hci: request %s: %w", meth, err)
	}
	if resp.StatusCode() != 200 {
		return nil, nil, fmt.Errorf("hci: request %s: status %d", meth, resp.StatusCode())
	}

	var data apiResponse
	if err := json.Unmarshal(resp.Body(), &data); err != nil {
		return nil, nil, fmt.Errorf("hci: decode %s response: %w", meth, err)
	}
	if data.Err != "" && data.Err != "OK" {
		return nil, nil, fmt.Errorf("hci: %s: %s %s", meth, data.Err, data.ErrTxt)
	}
	if len(data.SvcResL) != 2 {
		return nil, nil, fmt.Errorf("hci: %s: expected 2 service results, got %d", meth, len(data.SvcResL))
	}

	header := p.parseServerInfo(&data.SvcResL[0], data.Ver)
	operation := &data.SvcResL[1]
	if operation.Meth != meth {
		return nil, nil, fmt.Errorf("hci: expected method %s, got %s", meth, operation.Meth)
	}
	return header, operation, nil
}

func operationOK(op *svcRes) bool {
	return op.Err == "" || op.Err == "OK"
}

// SuggestLocations returns autocomplete matches for a partial user
// input. types limits the kinds of matches; nil means all.
func (p *Provider) SuggestLocations(ctx context.Context, constraint string, types map[pt.LocationType]bool, maxLocations int) (*pt.SuggestLocationsResult, error) {
	if maxLocations == 0 {
		maxLocations = defaultMaxLocations
	}
	req := locMatchReq{Input: locMatchInput{
		Field: "S",
		Loc: jsonLoc{
			Type: locMatchType(types),
			Name: constraint + "?",
		},
		MaxLoc: maxLocations,
	}}

	header, op, err := p.exchange(ctx, "LocMatch", req)
	if err != nil {
		return nil, err
	}
	if !operationOK(op) {
		if serviceDown(op.Err, op.ErrTxt) {
			return &pt.SuggestLocationsResult{Header: header, Status: pt.StatusServiceDown}, nil
		}
		return nil, fmt.Errorf("hci: LocMatch: %s %s", op.Err, op.ErrTxt)
	}

	var res locMatchRes
	if err := json.Unmarshal(op.Res, &res); err != nil {
		return nil, fmt.Errorf("hci: decode LocMatch payload: %w", err)
	}
	result := &pt.SuggestLocationsResult{Header: header, Status: pt.StatusOK}
	if res.Match != nil {
		locations, err := p.parseLocTable(res.Match.LocL, res.Common.CrdSysL)
		if err != nil {
			return nil, err
		}
		for _, loc := range locations {
			result.Locations = append(result.Locations, pt.SuggestedLocation{Location: loc})
		}
	}
	return result, nil
}

// locMatchType renders the type filter. All three concrete kinds, or
// any, collapse to the ALL shorthand.
func locMatchType(types map[pt.LocationType]bool) string {
	if types == nil || types[pt.LocationAny] ||
		(types[pt.LocationStation] && types[pt.LocationAddress] && types[pt.LocationPOI]) {
		return "ALL"
	}
	var b strings.Builder
	if types[pt.LocationStation] {
		b.WriteByte('S')
	}
	if types[pt.LocationAddress] {
		b.WriteByte('A')
	}
	if types[pt.LocationPOI] {
		b.WriteByte('P')
	}
	return b.String()
}

// NearbyLocations finds stations and POIs around a reference location,
// which must carry coordinates in this protocol family.
func (p *Provider) NearbyLocations(ctx context.Context, types map[pt.LocationType]bool, location pt.Location, maxDistance, maxLocations int) (*pt.NearbyLocationsResult, error) {
	if !location.HasCoords() {
		return nil, fmt.Errorf("hci: nearby reference needs coordinates")
	}
	if maxDistance == 0 {
		maxDistance = defaultMaxDistance
	}
	if maxLocations == 0 {
		maxLocations = defaultMaxLocations
	}
	req := locGeoPosReq{
		Ring: ring{
			CCrd:    jsonCrd{X: location.Coord.LonAs1E6(), Y: location.Coord.LatAs1E6()},
			MaxDist: maxDistance,
		},
		GetStops: types == nil || types[pt.LocationStation],
		GetPOIs:  types == nil || types[pt.LocationPOI],
		MaxLoc:   maxLocations,
	}

	header, op, err := p.exchange(ctx, "LocGeoPos", req)
	if err != nil {
		return nil, err
	}
	if !operationOK(op) {
		if serviceDown(op.Err, op.ErrTxt) {
			return &pt.NearbyLocationsResult{Header: header, Status: pt.StatusServiceDown}, nil
		}
		return nil, fmt.Errorf("hci: LocGeoPos: %s %s", op.Err, op.ErrTxt)
	}

	var res locGeoPosRes
	if err := json.Unmarshal(op.Res, &res); err != nil {
		return nil, fmt.Errorf("hci: decode LocGeoPos payload: %w", err)
	}
	locations, err := p.parseLocTable(res.LocL, res.Common.CrdSysL)
	if err != nil {
		return nil, err
	}
	return &pt.NearbyLocationsResult{
		Header:    header,
		Status:    pt.StatusOK,
		Locations: filterNearby(locations, *location.Coord, types, maxDistance),
	}, nil
}

// filterNearby keeps locations of the wanted types inside the radius.
// Some deployments treat the ring parameter as advisory, so the radius
// is enforced here as well.
func filterNearby(locations []pt.Location, origin geo.Point, types map[pt.LocationType]bool, maxDistance int) []pt.Location {
	var out []pt.Location
	for _, loc := range locations {
		if types != nil && !types[loc.Type] {
			continue
		}
		if loc.HasLocation() && geo.Distance(origin.Lat, origin.Lon, loc.Coord.Lat, loc.Coord.Lon) > float64(maxDistance) {
			continue
		}
		out = append(out, loc)
	}
	return out
}

// QueryDepartures returns the station board of a station. equivs
// includes equivalent neighbor stops. Servers past protocol version
// 1.18 dropped the equivalence filter, so the board is over-fetched and
// filtered here instead.
func (p *Provider) QueryDepartures(ctx context.Context, stationID string, when time.Time, maxDepartures int, equivs bool) (*pt.QueryDeparturesResult, error) {
	if stationID == "" {
		return nil, fmt.Errorf("hci: station id must not be empty")
	}
	if when.IsZero() {
		when = time.Now()
	}
	local := when.In(p.tz)

	canFilterEquivs := strings.Compare(strings.ToLower(p.cfg.APIVersion), "1.18") <= 0
	maxJny := maxDepartures
	if maxJny == 0 {
		maxJny = defaultMaxDepartures
	}
	if !equivs && !canFilterEquivs {
		maxJny *= 4
	}

	req := stationBoardReq{
		Type:   "DEP",
		Date:   local.Format("20060102"),
		Time:   local.Format("1504") + "00",
		StbLoc: stationBoard{Type: "S", State: "F", ExtID: geo.NormalizeStationID(stationID)},
		MaxJny: maxJny,
	}
	if canFilterEquivs {
		req.StbFltrEquiv = &equivs
	}

	header, op, err := p.exchange(ctx, "StationBoard", req)
	if err != nil {
		return nil, err
	}
	if !operationOK(op) {
		switch {
		case op.Err == "LOCATION" && op.ErrTxt == "HCI Service: location missing or invalid":
			return &pt.QueryDeparturesResult{Header: header, Status: pt.StatusInvalidStation, StatusHint: op.ErrTxt}, nil
		case serviceDown(op.Err, op.ErrTxt):
			return &pt.QueryDeparturesResult{Header: header, Status: pt.StatusServiceDown, StatusHint: op.ErrTxt}, nil
		}
		return nil, fmt.Errorf("hci: StationBoard: %s %s", op.Err, op.ErrTxt)
	}

	var res stationBoardRes
	if err := json.Unmarshal(op.Res, &res); err != nil {
		return nil, fmt.Errorf("hci: decode StationBoard payload: %w", err)
	}
	return p.parseStationBoard(header, &res, stationID, maxDepartures, equivs)
}

// identify pins a fuzzy trip endpoint down to an identified location,
// first by name suggestion, then spatially.
func (p *Provider) identify(ctx context.Context, location pt.Location) (*pt.Location, error) {
	if location.HasID() {
		return &location, nil
	}
	if location.HasName() {
		name := location.Name
		if location.HasPlace() {
			name = location.Place + " " + location.Name
		}
		result, err := p.SuggestLocations(ctx, name, nil, 1)
		if err != nil {
			return nil, err
		}
		if result.Status == pt.StatusOK && len(result.Locations) > 0 {
			return &result.Locations[0].Location, nil
		}
	}
	if location.HasCoords() {
		result, err := p.NearbyLocations(ctx, nil, location, 0, 1)
		if err != nil {
			return nil, err
		}
		if result.Status == pt.StatusOK && len(result.Locations) > 0 {
			return &result.Locations[0], nil
		}
	}
	return nil, nil
}

func (p *Provider) unknownEndpoint(status pt.Status) *pt.QueryTripsResult {
	return &pt.QueryTripsResult{
		Header: &pt.ResultHeader{Network: p.network, ServerProduct: serverProduct},
		Status: status,
	}
}

// QueryTrips searches itineraries between two locations. Endpoints
// without an id are identified first; an unidentifiable one short
// circuits the search.
func (p *Provider) QueryTrips(ctx context.Context, from pt.Location, via *pt.Location, to pt.Location, when time.Time, departure bool, opts *pt.TripOptions) (*pt.QueryTripsResult, error) {
	if opts == nil {
		opts = &pt.TripOptions{}
	}

	identifiedFrom, err := p.identify(ctx, from)
	if err != nil {
		return nil, err
	}
	if identifiedFrom == nil {
		return p.unknownEndpoint(pt.StatusUnknownFrom), nil
	}
	var identifiedVia *pt.Location
	if via != nil {
		if identifiedVia, err = p.identify(ctx, *via); err != nil {
			return nil, err
		}
		if identifiedVia == nil {
			return p.unknownEndpoint(pt.StatusUnknownVia), nil
		}
	}
	identifiedTo, err := p.identify(ctx, to)
	if err != nil {
		return nil, err
	}
	if identifiedTo == nil {
		return p.unknownEndpoint(pt.StatusUnknownTo), nil
	}

	return p.tripSearch(ctx, &pt.CursorContext{
		From:      *identifiedFrom,
		Via:       identifiedVia,
		To:        *identifiedTo,
		Time:      when,
		Departure: departure,
		Products:  opts.Products,
		WalkSpeed: opts.WalkSpeed,
	}, "")
}

// QueryMoreTrips continues an earlier trip search in either direction
// through its cursor context.
func (p *Provider) QueryMoreTrips(ctx context.Context, tripsContext pt.QueryTripsContext, later bool) (*pt.QueryTripsResult, error) {
	cursorContext, ok := tripsContext.(*pt.CursorContext)
	if !ok {
		return nil, fmt.Errorf("hci: cannot continue with context of type %T", tripsContext)
	}
	cursor := cursorContext.Cursor(later)
	if cursor == "" {
		return nil, fmt.Errorf("hci: cannot page in the requested direction")
	}
	replay := *cursorContext
	return p.tripSearch(ctx, &replay, cursor)
}

// toLocObj renders an identified location in the request shape. Stations
// travel by external id, addresses and POIs by their opaque lid.
func toLocObj(location pt.Location) (jsonLoc, error) {
	if !location.HasID() {
		return jsonLoc{}, fmt.Errorf("hci: cannot address location without id: %s", location)
	}
	switch location.Type {
	case pt.LocationStation:
		return jsonLoc{Type: "S", ExtID: geo.NormalizeStationID(location.ID)}, nil
	case pt.LocationAddress:
		return jsonLoc{Type: "A", Lid: location.ID}, nil
	case pt.LocationPOI:
		return jsonLoc{Type: "P", Lid: location.ID}, nil
	}
	return jsonLoc{}, fmt.Errorf("hci: cannot address location of type %s", location.Type)
}

func (p *Provider) tripSearch(ctx context.Context, tripCtx *pt.CursorContext, cursor string) (*pt.QueryTripsResult, error) {
	fromObj, err := toLocObj(tripCtx.From)
	if err != nil {
		return nil, err
	}
	toObj, err := toLocObj(tripCtx.To)
	if err != nil {
		return nil, err
	}

	local := tripCtx.Time.In(p.tz)
	req := tripSearchReq{
		CtxScr:  cursor,
		DepLocL: []jsonLoc{fromObj},
		ArrLocL: []jsonLoc{toObj},
		OutDate: local.Format("20060102"),
		OutTime: local.Format("1504") + "00",
		OutFrwd: strconv.FormatBool(tripCtx.Departure),
		GisFltrL: []gisFilter{{
			Mode:    "FB",
			Profile: gisProfile{Type: "F", MaxDist: 2000},
			Type:    "M",
			Meta:    "foot_speed_" + tripCtx.WalkSpeed.String(),
		}},
		GetPolyline: true,
		GetPasslist: true,
		ExtChgTime:  -1,
	}
	if tripCtx.Via != nil {
		viaObj, err := toLocObj(*tripCtx.Via)
		if err != nil {
			return nil, err
		}
		req.ViaLocL = []viaLoc{{Loc: viaObj}}
	}
	if tripCtx.Products != nil {
		req.JnyFltrL = []jnyFilter{{
			Value: p.modes.FilterString(tripCtx.Products),
			Mode:  "BIT",
			Type:  "PROD",
		}}
	}

	header, op, err := p.exchange(ctx, "TripSearch", req)
	if err != nil {
		return nil, err
	}
	if !operationOK(op) {
		if status, hint, known := tripStatus(op.Err); known {
			if hint == "" {
				hint = op.ErrTxt
			}
			return &pt.QueryTripsResult{Header: header, Status: status, StatusHint: hint}, nil
		}
		return nil, fmt.Errorf("hci: TripSearch: %s %s", op.Err, op.ErrTxt)
	}

	var res tripSearchRes
	if err := json.Unmarshal(op.Res, &res); err != nil {
		return nil, fmt.Errorf("hci: decode TripSearch payload: %w", err)
	}
	return p.parseTripSearch(header, &res, tripCtx)
}
