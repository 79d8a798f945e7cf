package hci

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/theoremus-urban-solutions/pt-client/fares"
	"github.com/theoremus-urban-solutions/pt-client/geo"
	"github.com/theoremus-urban-solutions/pt-client/pt"
	"github.com/theoremus-urban-solutions/pt-client/resolver"
)

const serverProduct = "hci"

// Section types of a trip connection. Journey and dial-a-ride taxi
// sections are public legs, the rest are traveled individually.
const (
	sectionJourney  = "JNY"
	sectionTeleTaxi = "TETA"
	sectionWalk     = "WALK"
	sectionTransfer = "TRSF"
	sectionDeviate  = "DEVI"
	sectionCheckIn  = "CHKI"
	sectionCheckOut = "CHKO"
)

// Times come as HHMMSS with an optional leading day offset.
var jsonTimePattern = regexp.MustCompile(`^(\d{2})?(\d{2})(\d{2})(\d{2})$`)

func parseJSONTime(base time.Time, s string) (time.Time, error) {
	m := jsonTimePattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("hci: cannot parse time %q", s)
	}
	hour, _ := strconv.Atoi(m[2])
	minute, _ := strconv.Atoi(m[3])
	second, _ := strconv.Atoi(m[4])
	day := base.Day()
	if m[1] != "" {
		offset, _ := strconv.Atoi(m[1])
		day += offset
	}
	return time.Date(base.Year(), base.Month(), day, hour, minute, second, 0, base.Location()), nil
}

func parseISODate(s string, tz *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("20060102", s, tz)
	if err != nil {
		return time.Time{}, fmt.Errorf("hci: cannot parse date %q", s)
	}
	return t, nil
}

// serviceDown matches the transport-level failures every operation can
// report.
func serviceDown(errCode, errTxt string) bool {
	switch errCode {
	case "CGI_READ_FAILED", "CGI_NO_SERVER", "H_UNKNOWN":
		return true
	case "FAIL":
		return errTxt == "HCI Service: request failed"
	case "PROBLEMS":
		return errTxt == "HCI Service: problems during service execution"
	}
	return false
}

// tripStatus maps a trip search error code to a shared status. The
// boolean reports whether the code is a known, reportable outcome.
func tripStatus(errCode string) (pt.Status, string, bool) {
	switch errCode {
	case "H890":
		return pt.StatusNoTrips, "No connections found", true
	case "H891":
		return pt.StatusNoTrips, "No route found, try entering an intermediate station", true
	case "H892":
		return pt.StatusNoTrips, "Request too complex, try entering less intermediate stations", true
	case "H886":
		return pt.StatusNoTrips, "No connections found within the requested time interval", true
	case "H895":
		return pt.StatusTooClose, "Departure and arrival are too near", true
	case "H9380":
		return pt.StatusTooClose, "Stations defined more than once", true
	case "H9220":
		return pt.StatusUnresolvableAddress, "No stations found nearby the given address", true
	case "H887":
		return pt.StatusServiceDown, "Kernel computation time limit reached", true
	case "H9240":
		return pt.StatusServiceDown, "Internal error", true
	case "H9360":
		return pt.StatusInvalidDate, "Date outside of the timetable period", true
	case "LOCATION":
		return pt.StatusUnknownLocation, "", true
	case "PROBLEMS", "FAIL", "CGI_READ_FAILED", "CGI_NO_SERVER", "H_UNKNOWN":
		return pt.StatusServiceDown, "", true
	}
	return pt.StatusOK, "", false
}

// parseServerInfo reads the leading ServerInfo block into the result
// header. A failing leader does not fail the whole exchange.
func (p *Provider) parseServerInfo(svc *svcRes, ver string) *pt.ResultHeader {
	header := &pt.ResultHeader{
		Network:       p.network,
		ServerProduct: serverProduct,
		ServerVersion: ver,
	}
	if svc.Meth != "ServerInfo" || (svc.Err != "" && svc.Err != "OK") {
		return header
	}
	var res serverInfoRes
	if err := json.Unmarshal(svc.Res, &res); err != nil {
		return header
	}
	if res.Common.SD != "" && res.Common.ST != "" {
		if date, err := parseISODate(res.Common.SD, p.tz); err == nil {
			if t, err := parseJSONTime(date, res.Common.ST); err == nil {
				header.ServerTime = t
			}
		}
	}
	return header
}

// locRecords converts the location lookup table into resolver records.
// Coordinates referencing a non-WGS84 system are rejected.
func locRecords(locL []jsonLoc, crdSysL []jsonCrdSys) ([]resolver.Record, error) {
	records := make([]resolver.Record, len(locL))
	for i, loc := range locL {
		rec := resolver.Record{
			Type:        loc.Type,
			ID:          loc.Lid,
			ExtID:       loc.ExtID,
			Name:        loc.Name,
			MasterIndex: -1,
			ProductBits: -1,
		}
		if loc.MMastLocX != nil {
			rec.MasterIndex = *loc.MMastLocX
		}
		if loc.PCls != nil {
			rec.ProductBits = *loc.PCls
		}
		if loc.Crd != nil {
			if loc.CrdSysX != nil && *loc.CrdSysX != -1 {
				if *loc.CrdSysX >= len(crdSysL) {
					return nil, fmt.Errorf("hci: coordinate system index %d out of range", *loc.CrdSysX)
				}
				if typ := crdSysL[*loc.CrdSysX].Type; typ != "WGS84" {
					return nil, fmt.Errorf("hci: unknown coordinate system %q", typ)
				}
			}
			point := geo.From1E6(loc.Crd.Y, loc.Crd.X)
			rec.Coord = &point
		}
		records[i] = rec
	}
	return records, nil
}

func (p *Provider) resolveLoc(table []resolver.Record, index int) (*pt.Location, error) {
	return p.res.Resolve(table, index, make(map[int]bool))
}

func (p *Provider) splitName(raw string) (string, string) {
	if p.res.SplitStation == nil {
		return "", raw
	}
	return p.res.SplitStation(raw)
}

func (c *jsonColor) argb() int {
	a := 255
	if c.A != nil {
		a = *c.A
	}
	return a<<24 | c.R<<16 | c.G<<8 | c.B
}

func iconStyle(icon jsonIcon) *pt.Style {
	if icon.Bg == nil {
		return nil
	}
	style := pt.Style{BackgroundColor: icon.Bg.argb()}
	if icon.Fg != nil {
		style.ForegroundColor = icon.Fg.argb()
	} else {
		style.ForegroundColor = pt.DeriveForegroundColor(style.BackgroundColor)
	}
	switch icon.Shp {
	case "C":
		style.Shape = pt.ShapeCircle
	case "R":
		style.Shape = pt.ShapeRect
	default:
		style.Shape = pt.ShapeRounded
	}
	return &style
}

func iconStyles(icoL []jsonIcon) []*pt.Style {
	styles := make([]*pt.Style, len(icoL))
	for i, icon := range icoL {
		styles[i] = iconStyle(icon)
	}
	return styles
}

func operatorNames(opL []jsonOperator) []string {
	names := make([]string, len(opL))
	for i, op := range opL {
		names[i] = op.Name
	}
	return names
}

// parseRemList keeps remarks as (code, text) pairs; the short text wins
// over the long one.
func parseRemList(remL []jsonRemark) [][2]string {
	remarks := make([][2]string, len(remL))
	for i, rem := range remL {
		text := rem.TxtS
		if text == "" {
			text = rem.TxtN
		}
		remarks[i] = [2]string{rem.Code, text}
	}
	return remarks
}

// remarkMessage extracts the line message remark, code "l?".
func remarkMessage(refs []jsonRemRef, remarks [][2]string) string {
	message := ""
	for _, ref := range refs {
		if ref.RemX >= 0 && ref.RemX < len(remarks) && remarks[ref.RemX][0] == "l?" {
			message = remarks[ref.RemX][1]
		}
	}
	return message
}

// parseProdList builds the line lookup table. Entries without a line id
// or a decodable product class stay invalid placeholders so that the
// indexes of the following entries keep their meaning.
func (p *Provider) parseProdList(prodL []jsonProduct, operators []string, styles []*pt.Style) []pt.Line {
	lines := make([]pt.Line, len(prodL))
	for i, prod := range prodL {
		lines[i] = p.parseProd(prod, operators, styles)
	}
	return lines
}

func (p *Provider) parseProd(prod jsonProduct, operators []string, styles []*pt.Style) pt.Line {
	if prod.ProdCtx == nil || prod.ProdCtx.LineID == "" {
		return pt.LineInvalid
	}
	if prod.Cls == nil || *prod.Cls == -1 {
		return pt.LineInvalid
	}
	product, err := p.modes.Product(*prod.Cls)
	if err != nil {
		return pt.LineInvalid
	}

	operator := ""
	if prod.OprX != nil && *prod.OprX >= 0 && *prod.OprX < len(operators) {
		operator = operators[*prod.OprX]
	}
	var style *pt.Style
	if prod.IcoX >= 0 && prod.IcoX < len(styles) {
		style = styles[prod.IcoX]
	}
	shortName := prod.AddName
	if shortName == "" {
		shortName = prod.NameS
	}
	return p.newLine(prod.ProdCtx.LineID, operator, product, prod.Name, shortName, prod.Number, style)
}

// newLine derives the display labels. Bus, tram and regional lines get
// the shorter label without the product prefix when one is available.
func (p *Provider) newLine(id, operator string, product pt.Product, name, shortName, number string, style *pt.Style) pt.Line {
	longName := ""
	switch {
	case name != "":
		longName = name
		if number != "" && !strings.HasSuffix(name, number) {
			longName += " (" + number + ")"
		}
	case shortName != "":
		longName = shortName
		if number != "" && !strings.HasSuffix(shortName, number) {
			longName += " (" + number + ")"
		}
	default:
		longName = number
	}

	label := name
	switch product {
	case pt.Bus, pt.Tram:
		if shortName != "" {
			label = shortName
		} else if number != "" && name != "" && strings.HasSuffix(name, number) {
			label = number
		}
	case pt.RegionalTrain:
		label = shortName
	}

	network := p.network
	if operator != "" {
		network = operator
	}
	if style == nil {
		fallback := pt.DefaultStyle(product)
		style = &fallback
	}
	return pt.Line{
		ID:      id,
		Network: network,
		Product: product,
		Label:   label,
		Name:    longName,
		Style:   style,
	}
}

func platformPosition(pltf *jsonPlatform, flat string) *pt.Position {
	if pltf != nil {
		return &pt.Position{Name: pltf.Txt}
	}
	return pt.ParsePosition(flat)
}

// parseStop turns one wire stop into the domain stop with its four
// independent time/platform pairs.
func (p *Provider) parseStop(stop jsonStop, table []resolver.Record, baseDate time.Time) (pt.Stop, error) {
	loc, err := p.resolveLoc(table, stop.LocX)
	if err != nil {
		return pt.Stop{}, err
	}
	if loc == nil {
		return pt.Stop{}, fmt.Errorf("hci: stop references unusable location %d", stop.LocX)
	}

	s := pt.Stop{
		Location:           *loc,
		ArrivalCancelled:   stop.ACncl,
		DepartureCancelled: stop.DCncl,
	}
	if stop.ATimeS != "" {
		if s.PlannedArrivalTime, err = parseJSONTime(baseDate, stop.ATimeS); err != nil {
			return pt.Stop{}, err
		}
	}
	if stop.ATimeR != "" {
		if s.PredictedArrivalTime, err = parseJSONTime(baseDate, stop.ATimeR); err != nil {
			return pt.Stop{}, err
		}
	}
	if stop.DTimeS != "" {
		if s.PlannedDepartureTime, err = parseJSONTime(baseDate, stop.DTimeS); err != nil {
			return pt.Stop{}, err
		}
	}
	if stop.DTimeR != "" {
		if s.PredictedDepartureTime, err = parseJSONTime(baseDate, stop.DTimeR); err != nil {
			return pt.Stop{}, err
		}
	}
	s.PlannedArrivalPosition = platformPosition(stop.APltfS, stop.APlatfS)
	s.PredictedArrivalPosition = platformPosition(stop.APltfR, stop.APlatfR)
	s.PlannedDeparturePosition = platformPosition(stop.DPltfS, stop.DPlatfS)
	s.PredictedDeparturePosition = platformPosition(stop.DPltfR, stop.DPlatfR)
	return s, nil
}

// parseStationBoard normalizes a station board payload. Cancelled
// journeys and journeys of foreign stations are dropped; with equivs the
// neighbor stations each get their own group.
func (p *Provider) parseStationBoard(header *pt.ResultHeader, res *stationBoardRes, stationID string, maxDepartures int, equivs bool) (*pt.QueryDeparturesResult, error) {
	records, err := locRecords(res.Common.LocL, res.Common.CrdSysL)
	if err != nil {
		return nil, err
	}
	remarks := parseRemList(res.Common.RemL)
	lines := p.parseProdList(res.Common.ProdL, operatorNames(res.Common.OpL), iconStyles(res.Common.IcoL))
	wantedID := geo.NormalizeStationID(stationID)

	result := &pt.QueryDeparturesResult{Header: header, Status: pt.StatusOK}
	for _, jny := range res.JnyL {
		if jny.StbStop.DCncl {
			continue
		}
		if jny.StbStop.DProdX == nil || *jny.StbStop.DProdX < 0 || *jny.StbStop.DProdX >= len(lines) {
			continue
		}
		line := lines[*jny.StbStop.DProdX]

		location, err := p.resolveLoc(records, jny.StbStop.LocX)
		if err != nil {
			return nil, err
		}
		if location == nil || location.Type != pt.LocationStation {
			continue
		}
		if !equivs && location.ID != wantedID {
			continue
		}

		date, err := parseISODate(jny.Date, p.tz)
		if err != nil {
			return nil, err
		}
		departure := pt.Departure{
			Line:     line,
			Position: platformPosition(jny.StbStop.DPltfS, jny.StbStop.DPlatfS),
			Message:  remarkMessage(jny.RemL, remarks),
		}
		if jny.StbStop.DTimeS != "" {
			if departure.PlannedTime, err = parseJSONTime(date, jny.StbStop.DTimeS); err != nil {
				return nil, err
			}
		}
		if jny.StbStop.DTimeR != "" {
			if departure.PredictedTime, err = parseJSONTime(date, jny.StbStop.DTimeR); err != nil {
				return nil, err
			}
		}
		if departure.Destination, err = p.journeyDestination(&jny, records); err != nil {
			return nil, err
		}

		group := result.FindStationDepartures(*location)
		if group == nil {
			result.StationDepartures = append(result.StationDepartures, pt.StationDepartures{Location: *location})
			group = &result.StationDepartures[len(result.StationDepartures)-1]
		}
		group.Departures = append(group.Departures, departure)
	}

	for i := range result.StationDepartures {
		group := &result.StationDepartures[i]
		sort.SliceStable(group.Departures, func(a, b int) bool {
			return group.Departures[a].Time().Before(group.Departures[b].Time())
		})
		if maxDepartures > 0 && len(group.Departures) > maxDepartures {
			group.Departures = group.Departures[:maxDepartures]
		}
	}
	return result, nil
}

// journeyDestination prefers the journey's last listed stop when its
// name matches the direction text; otherwise the raw direction text is
// split like a station name.
func (p *Provider) journeyDestination(jny *jsonJourney, records []resolver.Record) (*pt.Location, error) {
	if jny.DirTxt == "" {
		return nil, nil
	}
	if len(jny.StopL) > 0 {
		last := jny.StopL[len(jny.StopL)-1]
		if last.LocX >= 0 && last.LocX < len(records) && records[last.LocX].Name == jny.DirTxt {
			return p.resolveLoc(records, last.LocX)
		}
	}
	place, name := p.splitName(jny.DirTxt)
	return &pt.Location{Type: pt.LocationAny, Place: place, Name: name}, nil
}

// parseTripSearch normalizes a trip search payload into trips with legs,
// fares and the cursor pair for continuation.
func (p *Provider) parseTripSearch(header *pt.ResultHeader, res *tripSearchRes, ctx *pt.CursorContext) (*pt.QueryTripsResult, error) {
	records, err := locRecords(res.Common.LocL, res.Common.CrdSysL)
	if err != nil {
		return nil, err
	}
	remarks := parseRemList(res.Common.RemL)
	lines := p.parseProdList(res.Common.ProdL, operatorNames(res.Common.OpL), iconStyles(res.Common.IcoL))
	polylines := deltaPolylines(res.Common.PolyL)

	var trips []*pt.Trip
	for i := range res.OutConL {
		trip, err := p.parseConnection(&res.OutConL[i], records, res.Common.CrdSysL, lines, remarks, polylines)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}

	ctx.LaterCursor = res.OutCtxScrF
	ctx.EarlierCursor = res.OutCtxScrB
	return &pt.QueryTripsResult{
		Header:  header,
		Status:  pt.StatusOK,
		From:    &ctx.From,
		Via:     ctx.Via,
		To:      &ctx.To,
		Context: ctx,
		Trips:   trips,
	}, nil
}

// deltaPolylines returns the shared polyline table, but only when every
// entry uses delta encoding; mixed tables are unusable as one scheme.
func deltaPolylines(polyL []jsonPoly) []string {
	if len(polyL) == 0 {
		return nil
	}
	encoded := make([]string, len(polyL))
	for i, poly := range polyL {
		if !poly.Delta {
			return nil
		}
		encoded[i] = poly.CrdEncYX
	}
	return encoded
}

func (p *Provider) parseConnection(con *jsonConnection, records []resolver.Record, crdSysL []jsonCrdSys, lines []pt.Line, remarks [][2]string, polylines []string) (*pt.Trip, error) {
	from, err := p.resolveLoc(records, con.Dep.LocX)
	if err != nil {
		return nil, err
	}
	to, err := p.resolveLoc(records, con.Arr.LocX)
	if err != nil {
		return nil, err
	}
	if from == nil || to == nil {
		return nil, fmt.Errorf("hci: connection endpoints unresolvable")
	}
	baseDate, err := parseISODate(con.Date, p.tz)
	if err != nil {
		return nil, err
	}

	var legs []pt.Leg
	for i := range con.SecL {
		leg, err := p.parseSection(&con.SecL[i], records, crdSysL, lines, remarks, polylines, baseDate)
		if err != nil {
			return nil, err
		}
		legs = append(legs, leg)
	}

	var tripFares []pt.Fare
	if con.TrfRes != nil && len(con.OvwTrfRefL) > 0 {
		sets, refs := fareData(con.TrfRes, con.OvwTrfRefL)
		if tripFares, err = p.Fares.Extract(sets, refs); err != nil {
			return nil, err
		}
	}
	return pt.NewTrip("", *from, *to, legs, tripFares, nil)
}

func (p *Provider) parseSection(sec *jsonSection, records []resolver.Record, crdSysL []jsonCrdSys, lines []pt.Line, remarks [][2]string, polylines []string, baseDate time.Time) (pt.Leg, error) {
	departureStop, err := p.parseStop(sec.Dep, records, baseDate)
	if err != nil {
		return nil, err
	}
	arrivalStop, err := p.parseStop(sec.Arr, records, baseDate)
	if err != nil {
		return nil, err
	}

	if sec.Type == sectionJourney || sec.Type == sectionTeleTaxi {
		jny := sec.Jny
		if jny == nil {
			return nil, fmt.Errorf("hci: %s section without journey", sec.Type)
		}
		if jny.ProdX < 0 || jny.ProdX >= len(lines) {
			return nil, fmt.Errorf("hci: journey references unknown product %d", jny.ProdX)
		}
		remarkRefs := jny.RemL
		if remarkRefs == nil {
			remarkRefs = jny.MsgL
		}
		leg := &pt.PublicLeg{
			Line:          lines[jny.ProdX],
			DepartureStop: departureStop,
			ArrivalStop:   arrivalStop,
			Message:       remarkMessage(remarkRefs, remarks),
		}
		if jny.DirTxt != "" {
			place, name := p.splitName(jny.DirTxt)
			leg.Destination = &pt.Location{Type: pt.LocationAny, Place: place, Name: name}
		}
		if jny.StopL != nil {
			if len(jny.StopL) < 2 {
				return nil, fmt.Errorf("hci: stop list must hold at least the two endpoints")
			}
			for _, stop := range jny.StopL[1 : len(jny.StopL)-1] {
				parsed, err := p.parseStop(stop, records, baseDate)
				if err != nil {
					return nil, err
				}
				leg.IntermediateStops = append(leg.IntermediateStops, parsed)
			}
		}
		if leg.LegPath, err = sectionPath(jny.PolyG, crdSysL, polylines); err != nil {
			return nil, err
		}
		return leg, nil
	}

	individualType, ok := individualType(sec.Type)
	if !ok {
		return nil, fmt.Errorf("hci: cannot handle section type %q", sec.Type)
	}
	leg := &pt.IndividualLeg{
		Type:        individualType,
		From:        departureStop.Location,
		DepartureAt: departureStop.DepartureTime(),
		To:          arrivalStop.Location,
		ArrivalAt:   arrivalStop.ArrivalTime(),
	}
	if sec.Gis != nil {
		leg.DistanceM = sec.Gis.Dist
	}
	return leg, nil
}

func sectionPath(polyG *jsonPolyG, crdSysL []jsonCrdSys, polylines []string) ([]geo.Point, error) {
	if polyG == nil || polylines == nil {
		return nil, nil
	}
	if polyG.CrdSysX != nil && *polyG.CrdSysX != -1 {
		if *polyG.CrdSysX >= len(crdSysL) {
			return nil, fmt.Errorf("hci: coordinate system index %d out of range", *polyG.CrdSysX)
		}
		if typ := crdSysL[*polyG.CrdSysX].Type; typ != "WGS84" {
			return nil, fmt.Errorf("hci: unknown coordinate system %q", typ)
		}
	}
	var path []geo.Point
	for _, idx := range polyG.PolyXL {
		if idx >= 0 && idx < len(polylines) {
			path = append(path, geo.DecodePolyline(polylines[idx])...)
		}
	}
	return path, nil
}

func individualType(sectionType string) (pt.IndividualType, bool) {
	switch sectionType {
	case sectionWalk:
		return pt.IndividualWalk, true
	case sectionTransfer, sectionDeviate:
		return pt.IndividualTransfer, true
	case sectionCheckIn:
		return pt.IndividualCheckIn, true
	case sectionCheckOut:
		return pt.IndividualCheckOut, true
	}
	return 0, false
}

func fareData(trfRes *jsonTrfRes, refL []jsonTrfRef) ([]fares.Set, []fares.Ref) {
	sets := make([]fares.Set, len(trfRes.FareSetL))
	for i, fareSet := range trfRes.FareSetL {
		set := fares.Set{Name: fareSet.Name}
		for _, fare := range fareSet.FareL {
			item := fares.Item{Name: fare.Name, Currency: fare.Cur, PriceCents: fare.Prc}
			for _, ticket := range fare.TicketL {
				item.Tickets = append(item.Tickets, fares.Ticket{
					Name:       ticket.Name,
					Currency:   ticket.Cur,
					PriceCents: ticket.Prc,
				})
			}
			set.Fares = append(set.Fares, item)
		}
		sets[i] = set
	}

	refs := make([]fares.Ref, len(refL))
	for i, ref := range refL {
		refs[i] = fares.Ref{Type: ref.Type, SetX: ref.FareSetX, FareX: ref.FareX, TicketX: ref.TicketX}
	}
	return sets, refs
}

// parseLocTable resolves a whole location table, dropping entries of
// unknown type.
func (p *Provider) parseLocTable(locL []jsonLoc, crdSysL []jsonCrdSys) ([]pt.Location, error) {
	records, err := locRecords(locL, crdSysL)
	if err != nil {
		return nil, err
	}
	return p.res.ResolveAll(records)
}
