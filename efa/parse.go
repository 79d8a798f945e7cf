package efa

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/theoremus-urban-solutions/pt-client/assembler"
	"github.com/theoremus-urban-solutions/pt-client/classifier"
	"github.com/theoremus-urban-solutions/pt-client/geo"
	"github.com/theoremus-urban-solutions/pt-client/pt"
)

// coordFormat is the only coordinate reference system requested and
// accepted; payloads tagged with anything else carry no usable point.
const coordFormat = "WGS84[DD.ddddd]"

const serverProduct = "efa"

// normalize collapses the whitespace runs EFA servers pad names with.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func parseCoord(mapName, x, y string) *geo.Point {
	if mapName != coordFormat || x == "" || y == "" {
		return nil
	}
	lon, err := strconv.ParseFloat(x, 64)
	if err != nil {
		return nil
	}
	lat, err := strconv.ParseFloat(y, 64)
	if err != nil {
		return nil
	}
	p := geo.FromDouble(lat, lon)
	return &p
}

// parseCoordPair parses the "lon,lat" string form.
func parseCoordPair(s string) *geo.Point {
	if s == "" {
		return nil
	}
	p, err := geo.ParsePoint(s)
	if err != nil {
		return nil
	}
	return &p
}

// points extracts the leg path, either from the space separated string
// form or from the element list form.
func (c *itdPathCoordinates) points() []geo.Point {
	if c == nil || c.Ellipsoid != "WGS84" || c.Type != "GEO_DECIMAL" {
		return nil
	}
	if c.CoordString != "" {
		var path []geo.Point
		for _, pair := range strings.Fields(c.CoordString) {
			if p := parseCoordPair(pair); p != nil {
				path = append(path, *p)
			}
		}
		return path
	}
	if len(c.BaseElems) > 0 {
		path := make([]geo.Point, 0, len(c.BaseElems))
		for _, e := range c.BaseElems {
			path = append(path, geo.FromDouble(e.X, e.Y))
		}
		return path
	}
	return nil
}

// parseDateTime converts a wire date/time pair. The month is zero based
// on the wire; year 0 or a negative weekday mark an unset value.
func (p *Provider) parseDateTime(dt itdDateTime) time.Time {
	if dt.Date.Year == 0 || dt.Date.Weekday < 0 {
		return time.Time{}
	}
	return time.Date(dt.Date.Year, time.Month(dt.Date.Month+1), dt.Date.Day,
		dt.Time.Hour, dt.Time.Minute, dt.Time.Second, 0, p.tz)
}

func (p *Provider) parseHeader(version, now, sessionID string) *pt.ResultHeader {
	serverTime, _ := time.ParseInLocation("2006-01-02T15:04:05", now, p.tz)
	return &pt.ResultHeader{
		Network:       p.network,
		ServerProduct: serverProduct,
		ServerVersion: version,
		ServerTime:    serverTime,
		Context:       sessionID,
	}
}

// odvLocation converts one origin/destination/via name element. Elements
// of type "unknown" resolve to nil; a genuinely unknown type is an
// error so new vocabulary surfaces instead of being dropped.
func odvLocation(elem odvNameElem, odvType, defaultPlace string) (*pt.Location, error) {
	typ := odvType
	if typ == "any" && elem.AnyType != "" {
		typ = elem.AnyType
	}

	coord := parseCoord(elem.MapName, elem.X, elem.Y)
	name := normalize(elem.Value)
	objectName := normalize(elem.ObjectName)
	locality := normalize(elem.Locality)

	place := locality
	if place == "" {
		place = defaultPlace
	}
	displayName := objectName
	if displayName == "" {
		displayName = name
	}

	switch typ {
	case "stop":
		if elem.ID != "" && !strings.HasPrefix(elem.Stateless, elem.ID) {
			return nil, fmt.Errorf("efa: stop id mismatch: %q vs %q", elem.ID, elem.Stateless)
		}
		id := elem.ID
		if id == "" {
			id = elem.Stateless
		}
		return &pt.Location{ID: id, Type: pt.LocationStation, Coord: coord, Place: place, Name: displayName}, nil

	case "poi":
		return &pt.Location{ID: elem.Stateless, Type: pt.LocationPOI, Coord: coord, Place: place, Name: displayName}, nil

	case "loc":
		switch {
		case locality != "":
			return &pt.Location{ID: elem.Stateless, Type: pt.LocationAddress, Coord: coord, Name: locality}, nil
		case name != "":
			return &pt.Location{ID: elem.Stateless, Type: pt.LocationAddress, Coord: coord, Name: name}, nil
		case coord != nil:
			return &pt.Location{ID: elem.Stateless, Type: pt.LocationCoord, Coord: coord}, nil
		}
		return nil, fmt.Errorf("efa: loc element carries neither name nor coordinates")

	case "address", "singlehouse":
		addressName := objectName
		if elem.BuildingNumber != "" {
			addressName += " " + elem.BuildingNumber
		}
		return &pt.Location{ID: elem.Stateless, Type: pt.LocationAddress, Coord: coord, Place: place, Name: addressName}, nil

	case "street", "crossing":
		return &pt.Location{ID: elem.Stateless, Type: pt.LocationAddress, Coord: coord, Place: place, Name: displayName}, nil

	case "postcode":
		return &pt.Location{ID: elem.Stateless, Type: pt.LocationAddress, Coord: coord, Place: place, Name: elem.PostCode}, nil

	case "buildingname":
		buildingName := normalize(elem.BuildingName)
		if buildingName == "" {
			buildingName = normalize(elem.StreetName)
		}
		return &pt.Location{ID: elem.Stateless, Type: pt.LocationAddress, Coord: coord, Place: place, Name: buildingName}, nil

	case "coord":
		return &pt.Location{ID: elem.Stateless, Type: pt.LocationAddress, Coord: coord, Place: defaultPlace, Name: name}, nil

	case "unknown":
		return nil, nil
	}

	return nil, fmt.Errorf("efa: unknown odv element type %q", typ)
}

func assignedStopLocation(s itdAssignedStop) *pt.Location {
	name := normalize(s.Value)
	if name == "" {
		return nil
	}
	return &pt.Location{
		ID:    s.StopID,
		Type:  pt.LocationStation,
		Coord: parseCoord(s.MapName, s.X, s.Y),
		Place: normalize(s.Place),
		Name:  name,
	}
}

func pointLocation(p itdPoint) pt.Location {
	place := normalize(p.Locality)
	if place == "" {
		place = normalize(p.Place)
	}
	name := normalize(p.NameWO)
	if name == "" {
		name = normalize(p.Name)
	}
	return pt.Location{ID: p.StopID, Type: pt.LocationStation, Coord: parseCoord(p.MapName, p.X, p.Y), Place: place, Name: name}
}

// odvPlace yields the identified place context, used as the fallback
// place of the odv's name elements.
func odvPlace(odv *itdOdv) string {
	if odv.Place.State != "identified" {
		return ""
	}
	return normalize(odv.Place.Elem.Value)
}

// odvLocations resolves every name element plus the assigned stops of
// one odv block.
func odvLocations(odv *itdOdv) ([]pt.Location, error) {
	place := odvPlace(odv)
	var locations []pt.Location
	for _, elem := range odv.Name.Elems {
		loc, err := odvLocation(elem, odv.Type, place)
		if err != nil {
			return nil, err
		}
		if loc != nil {
			locations = append(locations, *loc)
		}
	}
	for _, s := range odv.AssignedStops {
		if loc := assignedStopLocation(s); loc != nil {
			locations = append(locations, *loc)
		}
	}
	return locations, nil
}

// servingLineInput maps a departure board line element onto the
// classifier's vocabulary. The short number doubles as the train number
// on this wire.
func servingLineInput(sl *itdServingLine) classifier.Input {
	trainType := sl.TrainType
	if trainType == "" {
		trainType = sl.Type
	}
	trainName := sl.TrainName
	if trainName == "" {
		trainName = sl.Name
	}
	return classifier.Input{
		ID:        sl.Stateless,
		Network:   sl.DivaParams.Network,
		ModeCode:  sl.MotType,
		Symbol:    sl.Symbol,
		Name:      sl.Number,
		LongName:  sl.Number,
		TrainType: trainType,
		TrainNum:  sl.TrainNum,
		TrainName: trainName,
	}
}

func (p *Provider) servingLine(sl *itdServingLine) (pt.Line, error) {
	line, err := classifier.Classify(servingLineInput(sl))
	if err != nil {
		return pt.Line{}, err
	}
	line.Style = p.lineStyle(line.Network, line.Product, line.Label)

	// on-demand lines carry their booking instructions in itdNoTrain
	noTrain := normalize(sl.NoTrainName)
	if noTrain != "" && (strings.Contains(strings.ToLower(sl.Name), "ruf") ||
		strings.Contains(strings.ToLower(noTrain), "ruf")) {
		line.Message = noTrain
	}
	return line, nil
}

func servingLineDestination(sl *itdServingLine) *pt.Location {
	direction := normalize(sl.Direction)
	if sl.DestID != "" && sl.DestID != "-1" {
		return &pt.Location{ID: sl.DestID, Type: pt.LocationStation, Name: direction}
	}
	if direction != "" {
		return &pt.Location{Type: pt.LocationAny, Name: direction}
	}
	return nil
}

func servingLineCancelled(sl *itdServingLine) bool {
	return sl.Delay == strconv.Itoa(assembler.CancelledDelayMinutes)
}

// tripSegments converts the partial routes of one itinerary into the
// assembler's segment form.
func (p *Provider) tripSegments(route *itdRoute) ([]assembler.Segment, error) {
	segments := make([]assembler.Segment, 0, len(route.PartialRoutes))

	for i := range route.PartialRoutes {
		pr := &route.PartialRoutes[i]
		if len(pr.Points) < 2 {
			return nil, fmt.Errorf("efa: partial route without endpoints")
		}
		first, last := pr.Points[0], pr.Points[len(pr.Points)-1]
		mot := &pr.MeansOfTransport

		seg := assembler.Segment{
			ModeType:    mot.Type,
			ProductName: mot.ProductName,
			Line:        p.meansOfTransportInput(mot),
			Destination: meansOfTransportDestination(mot),
			Path:        pr.PathCoordinates.points(),
			DistanceM:   pr.Distance,
			Message:     partialRouteMessage(pr),
		}

		seg.DepartureStop = p.boundaryStop(first, true)
		seg.ArrivalStop = p.boundaryStop(last, false)

		if pr.RBLControlled != nil {
			if pr.RBLControlled.DelayMinutes != nil {
				seg.DepartureDelayMin = *pr.RBLControlled.DelayMinutes
			}
			if pr.RBLControlled.DelayMinutesArr != nil {
				seg.ArrivalDelayMin = *pr.RBLControlled.DelayMinutesArr
			}
		}

		for _, stop := range pr.StopSeq {
			seg.IntermediateStops = append(seg.IntermediateStops, p.seqStop(stop, pr.RBLControlled))
		}

		if wheelchairAccessible(pr) {
			seg.LineAttrs = map[pt.LineAttr]bool{pt.AttrWheelchairAccess: true}
		}

		segments = append(segments, seg)
	}
	return segments, nil
}

// boundaryStop builds the departure or arrival stop of a leg. The
// timetable time lives in itdDateTimeTarget when realtime is active; the
// plain itdDateTime then carries the prediction.
func (p *Provider) boundaryStop(point itdPoint, departure bool) pt.Stop {
	var current time.Time
	if len(point.DateTimes) > 0 {
		if departure {
			current = p.parseDateTime(point.DateTimes[0])
		} else {
			current = p.parseDateTime(point.DateTimes[len(point.DateTimes)-1])
		}
	}
	planned := current
	if point.DateTimeTarget != nil {
		if t := p.parseDateTime(*point.DateTimeTarget); !t.IsZero() {
			planned = t
		}
	}

	stop := pt.Stop{Location: pointLocation(point)}
	if departure {
		stop.PlannedDepartureTime = planned
		stop.PredictedDepartureTime = current
		stop.PlannedDeparturePosition = pt.ParsePosition(point.PlatformName)
	} else {
		stop.PlannedArrivalTime = planned
		stop.PredictedArrivalTime = current
		stop.PlannedArrivalPosition = pt.ParsePosition(point.PlatformName)
	}
	return stop
}

// seqStop builds one intermediate stop, applying the partial route's
// realtime delays to its timetable times.
func (p *Provider) seqStop(point itdPoint, rbl *itdRBLControlled) pt.Stop {
	stop := pt.Stop{Location: pointLocation(point)}
	position := pt.ParsePosition(point.PlatformName)
	stop.PlannedArrivalPosition = position
	stop.PlannedDeparturePosition = position

	if len(point.DateTimes) > 0 {
		stop.PlannedArrivalTime = p.parseDateTime(point.DateTimes[0])
		stop.PlannedDepartureTime = p.parseDateTime(point.DateTimes[len(point.DateTimes)-1])
	}
	if rbl != nil {
		if rbl.DelayMinutesArr != nil && !stop.PlannedArrivalTime.IsZero() {
			stop.PredictedArrivalTime = stop.PlannedArrivalTime.Add(time.Duration(*rbl.DelayMinutesArr) * time.Minute)
		}
		if rbl.DelayMinutes != nil && !stop.PlannedDepartureTime.IsZero() {
			stop.PredictedDepartureTime = stop.PlannedDepartureTime.Add(time.Duration(*rbl.DelayMinutes) * time.Minute)
		}
	}
	return stop
}

func (p *Provider) meansOfTransportInput(mot *itdMeansOfTransport) classifier.Input {
	// dial-a-ride services carry no usable line fields
	if mot.Symbol == "AST" {
		return classifier.Input{ID: "?", Network: mot.DivaParams.Network, ModeCode: "5", Symbol: "AST", Name: "AST"}
	}
	d := mot.DivaParams
	lineID := strings.Join([]string{d.Network, d.Line, d.Supplement, d.Direction, d.Project}, ":")
	return classifier.Input{
		ID:        lineID,
		Network:   d.Network,
		ModeCode:  mot.MotType,
		Symbol:    mot.Symbol,
		Name:      mot.Shortname,
		LongName:  mot.Name,
		TrainType: mot.TrainType,
		TrainNum:  mot.Shortname,
		TrainName: mot.TrainName,
	}
}

func meansOfTransportDestination(mot *itdMeansOfTransport) *pt.Location {
	name := normalize(mot.Destination)
	if mot.DestID != "" && mot.DestID != "-1" {
		return &pt.Location{ID: mot.DestID, Type: pt.LocationStation, Name: name}
	}
	if name != "" {
		return &pt.Location{Type: pt.LocationAny, Name: name}
	}
	return nil
}

// partialRouteMessage collects booking hints from the info texts, or
// falls back to the info link text.
func partialRouteMessage(pr *itdPartialRoute) string {
	var hints []string
	for _, text := range pr.InfoTexts {
		lower := strings.ToLower(text)
		if strings.Contains(lower, "ruf") || strings.Contains(lower, "anmeld") {
			hints = append(hints, text)
		}
	}
	if len(hints) > 0 {
		return strings.Join(hints, ", ")
	}
	return strings.TrimSpace(pr.InfoLinkText)
}

func wheelchairAccessible(pr *itdPartialRoute) bool {
	for _, attr := range pr.GenAttrs {
		if attr.Name == "PlanWheelChairAccess" && attr.Value == "1" {
			return true
		}
	}
	for _, text := range pr.InfoTexts {
		if strings.HasPrefix(strings.ToLower(text), "niederflurwagen") {
			return true
		}
	}
	return false
}

func singleTicketFares(ticket *itdSingleTicket) []pt.Fare {
	if ticket == nil || ticket.Net == "" || ticket.Currency == "" {
		return nil
	}
	name := strings.ToUpper(ticket.Net)
	var fares []pt.Fare
	if amount, err := strconv.ParseFloat(ticket.FareAdult, 64); err == nil {
		fares = append(fares, pt.Fare{
			Name: name, Type: pt.FareAdult, Currency: ticket.Currency,
			Amount: amount, UnitName: ticket.UnitName, Units: ticket.UnitsAdult,
		})
	}
	if amount, err := strconv.ParseFloat(ticket.FareChild, 64); err == nil {
		fares = append(fares, pt.Fare{
			Name: name, Type: pt.FareChild, Currency: ticket.Currency,
			Amount: amount, UnitName: ticket.UnitName, Units: ticket.UnitsChild,
		})
	}
	return fares
}

const noTripsMessageCode = -4000

func (p *Provider) parseTripsResponse(data *itdTripsResponse, queryURI string) (*pt.QueryTripsResult, error) {
	header := p.parseHeader(data.Version, data.Now, data.SessionID)
	result := &pt.QueryTripsResult{Header: header, QueryURI: queryURI}
	req := &data.TripRequest

	for _, msg := range req.Messages {
		if msg.Code == noTripsMessageCode {
			result.Status = pt.StatusNoTrips
			result.StatusHint = strings.TrimSpace(msg.Text)
			return result, nil
		}
	}

	for i := range req.Odvs {
		odv := &req.Odvs[i]
		locations, err := odvLocations(odv)
		if err != nil {
			return nil, err
		}

		switch odv.Name.State {
		case "identified":
			if len(locations) == 0 {
				continue
			}
			switch odv.Usage {
			case "origin":
				result.From = &locations[0]
			case "via":
				result.Via = &locations[0]
			case "destination":
				result.To = &locations[0]
			default:
				return nil, fmt.Errorf("efa: unknown odv usage %q", odv.Usage)
			}

		case "list":
			switch odv.Usage {
			case "origin":
				result.AmbiguousFrom = locations
			case "via":
				result.AmbiguousVia = locations
			case "destination":
				result.AmbiguousTo = locations
			default:
				return nil, fmt.Errorf("efa: unknown odv usage %q", odv.Usage)
			}

		case "notidentified":
			switch odv.Usage {
			case "origin":
				result.Status = pt.StatusUnknownFrom
			case "via":
				result.Status = pt.StatusUnknownVia
			case "destination":
				result.Status = pt.StatusUnknownTo
			default:
				return nil, fmt.Errorf("efa: unknown odv usage %q", odv.Usage)
			}
			return result, nil
		}
	}

	if len(result.AmbiguousFrom) > 0 || len(result.AmbiguousVia) > 0 || len(result.AmbiguousTo) > 0 {
		result.Status = pt.StatusAmbiguous
		return result, nil
	}

	for _, msg := range req.DateTime.DateTime.Date.Messages {
		if msg.Text == "invalid date" {
			result.Status = pt.StatusInvalidDate
			return result, nil
		}
	}

	if result.From == nil || result.To == nil {
		return nil, fmt.Errorf("efa: trip response resolved neither endpoints nor an error state")
	}

	for i := range req.Routes {
		route := &req.Routes[i]
		segments, err := p.tripSegments(route)
		if err != nil {
			return nil, err
		}
		if len(segments) == 0 {
			continue
		}

		id := ""
		if p.UseRouteIndexAsTripID && route.RouteIndex != "" && route.RouteTripIndex != "" {
			id = route.RouteIndex + "-" + route.RouteTripIndex
		}

		from := segments[0].DepartureStop.Location
		to := segments[len(segments)-1].ArrivalStop.Location
		trip, err := p.asm.Assemble(id, from, to, segments, singleTicketFares(route.SingleTicket), route.Changes)
		if err != nil {
			return nil, err
		}
		if trip != nil {
			result.Trips = append(result.Trips, trip)
		}
	}

	result.Context = &pt.URLContext{URL: p.commandLink(data.SessionID, req.RequestID)}
	return result, nil
}

func (p *Provider) parseDepartureMonitorResponse(data *itdDepartureMonitorResponse, maxDepartures int) (*pt.QueryDeparturesResult, error) {
	header := p.parseHeader(data.Version, data.Now, data.SessionID)
	result := &pt.QueryDeparturesResult{Header: header}
	req := &data.MonitorRequest

	if req.Odv.Usage != "dm" {
		return nil, fmt.Errorf("efa: expected odv usage %q, got %q", "dm", req.Odv.Usage)
	}

	if req.Odv.Name.State != "identified" {
		result.Status = pt.StatusInvalidStation
		result.StatusHint = req.Odv.Name.State
		return result, nil
	}

	locations, err := odvLocations(&req.Odv)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	for _, loc := range locations {
		if loc.Type != pt.LocationStation || seen[loc.ID] {
			continue
		}
		seen[loc.ID] = true
		result.StationDepartures = append(result.StationDepartures, pt.StationDepartures{Location: loc})
	}
	if len(result.StationDepartures) == 0 {
		result.Status = pt.StatusInvalidStation
		return result, nil
	}

	findStation := func(stopID string, coord *geo.Point) *pt.StationDepartures {
		for i := range result.StationDepartures {
			if result.StationDepartures[i].Location.ID == stopID {
				return &result.StationDepartures[i]
			}
		}
		result.StationDepartures = append(result.StationDepartures, pt.StationDepartures{
			Location: pt.Location{ID: stopID, Type: pt.LocationStation, Coord: coord},
		})
		return &result.StationDepartures[len(result.StationDepartures)-1]
	}

	for i := range req.ServingLines {
		sl := &req.ServingLines[i]
		line, err := p.servingLine(sl)
		if err != nil {
			return nil, err
		}
		lineDest := pt.LineDestination{Line: line, Destination: servingLineDestination(sl)}

		station := &result.StationDepartures[0]
		if sl.AssignedStopID != "" {
			station = findStation(sl.AssignedStopID, nil)
		}
		duplicate := false
		for _, existing := range station.Lines {
			if existing.Line.Equal(lineDest.Line) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			station.Lines = append(station.Lines, lineDest)
		}
	}

	total := 0
	for i := range req.Departures {
		dep := &req.Departures[i]
		if servingLineCancelled(&dep.ServingLine) {
			continue
		}
		if maxDepartures > 0 && total >= maxDepartures {
			break
		}

		line, err := p.servingLine(&dep.ServingLine)
		if err != nil {
			return nil, err
		}

		planned := p.parseDateTime(dep.DateTime)
		var predicted time.Time
		if dep.RTDateTime != nil {
			predicted = p.parseDateTime(*dep.RTDateTime)
		} else if dep.ServingLine.Realtime == "1" {
			predicted = planned
		}

		station := findStation(dep.StopID, parseCoord(dep.MapName, dep.X, dep.Y))
		station.Departures = append(station.Departures, pt.Departure{
			PlannedTime:   planned,
			PredictedTime: predicted,
			Line:          line,
			Position:      pt.ParsePosition(dep.PlatformName),
			Destination:   servingLineDestination(&dep.ServingLine),
		})
		total++
	}

	result.Status = pt.StatusOK
	return result, nil
}

// stopMeansProducts maps the STOP_MEANS_LIST attribute codes of the
// coordinate service, a vocabulary separate from the mode table.
var stopMeansProducts = map[string]pt.Product{
	"1": pt.Subway,
	"2": pt.SuburbanTrain,
	"3": pt.Bus,
	"4": pt.Tram,
}

func (p *Provider) parseCoordResponse(data *itdCoordResponse) (*pt.NearbyLocationsResult, error) {
	header := p.parseHeader(data.Version, data.Now, data.SessionID)
	result := &pt.NearbyLocationsResult{Header: header, Status: pt.StatusOK}

	for _, item := range data.Items {
		var typ pt.LocationType
		switch item.Type {
		case "STOP":
			typ = pt.LocationStation
		case "POI_POINT":
			typ = pt.LocationPOI
		default:
			log.Printf("efa: skipping coord item of unknown type %q", item.Type)
			continue
		}

		name := normalize(item.Name)
		if name == "" {
			continue
		}
		id := item.Stateless
		if id == "" {
			id = item.ID
		}

		var coord *geo.Point
		if path := item.PathCoordinates.points(); len(path) > 0 {
			coord = &path[0]
		}

		var products map[pt.Product]bool
		for _, attr := range item.GenAttrs {
			if attr.Name != "STOP_MAJOR_MEANS" && attr.Name != "STOP_MEANS_LIST" {
				continue
			}
			for _, mean := range strings.Split(attr.Value, ",") {
				if product, ok := stopMeansProducts[strings.TrimSpace(mean)]; ok {
					if products == nil {
						products = map[pt.Product]bool{}
					}
					products[product] = true
				}
			}
		}

		result.Locations = append(result.Locations, pt.Location{
			ID:       id,
			Type:     typ,
			Coord:    coord,
			Place:    normalize(item.Locality),
			Name:     name,
			Products: products,
		})
	}
	return result, nil
}

// suggestedLocation converts one stop finder point. Points of unknown
// type are dropped with a log line so one exotic entry does not void the
// suggestion list.
func suggestedLocation(point *jsonPoint) *pt.SuggestedLocation {
	typ := point.Type
	if typ == "any" && point.AnyType != "" {
		typ = point.AnyType
	}
	coord := parseCoordPair(point.Ref.Coords)
	place := strings.TrimSpace(point.Ref.Place)

	var loc pt.Location
	switch typ {
	case "stop":
		if !strings.HasPrefix(point.Stateless, point.Ref.ID) {
			log.Printf("efa: suggestion id mismatch: %q vs %q", point.Ref.ID, point.Stateless)
			return nil
		}
		loc = pt.Location{ID: point.Ref.ID, Type: pt.LocationStation, Coord: coord, Place: place, Name: normalize(point.Object)}
	case "poi":
		loc = pt.Location{ID: point.Stateless, Type: pt.LocationPOI, Coord: coord, Place: place, Name: normalize(point.Object)}
	case "crossing":
		loc = pt.Location{ID: point.Stateless, Type: pt.LocationAddress, Coord: coord, Place: place, Name: normalize(point.Object)}
	case "street", "address", "singlehouse", "buildingname", "loc":
		loc = pt.Location{ID: point.Stateless, Type: pt.LocationAddress, Coord: coord, Place: place, Name: normalize(point.Name)}
	case "postcode":
		loc = pt.Location{ID: point.Stateless, Type: pt.LocationAddress, Coord: coord, Place: place, Name: point.Postcode}
	default:
		log.Printf("efa: skipping suggestion of unknown type %q", typ)
		return nil
	}
	return &pt.SuggestedLocation{Location: loc, Priority: point.Quality}
}

// stopfinderStatus inspects the response messages. Codes -8010 and
// -8011 accompany ordinary empty results; anything else flags a backend
// failure.
func stopfinderStatus(messages []jsonMessage) pt.Status {
	for _, msg := range messages {
		if msg.Name == "code" && msg.Value != "-8010" && msg.Value != "-8011" {
			return pt.StatusServiceDown
		}
	}
	return pt.StatusOK
}

func (p *Provider) parseStopfinderResponse(data *stopfinderResponse) *pt.SuggestLocationsResult {
	result := &pt.SuggestLocationsResult{
		Header: &pt.ResultHeader{Network: p.network, ServerProduct: serverProduct},
		Status: stopfinderStatus(data.StopFinder.Messages),
	}
	if result.Status != pt.StatusOK {
		return result
	}
	for i := range data.StopFinder.Points {
		if suggested := suggestedLocation(&data.StopFinder.Points[i]); suggested != nil {
			result.Locations = append(result.Locations, *suggested)
		}
	}
	return result
}
