package efa

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
)

// Wire schema of the XML protocol family. Every response shares the
// itdRequest envelope; each operation only populates its own child, so
// one root struct per operation keeps decoding unambiguous.

type itdTripsResponse struct {
	XMLName   xml.Name `xml:"itdRequest"`
	Version   string   `xml:"version,attr"`
	Now       string   `xml:"now,attr"`
	SessionID string   `xml:"sessionID,attr"`
	ServerID  string   `xml:"serverID,attr"`

	TripRequest itdTripRequest `xml:"itdTripRequest"`
}

type itdTripRequest struct {
	RequestID string         `xml:"requestID,attr"`
	Messages  []itdMessage   `xml:"itdMessage"`
	Odvs      []itdOdv       `xml:"itdOdv"`
	DateTime  itdTripDateTime `xml:"itdTripDateTime"`
	Routes    []itdRoute     `xml:"itdItinerary>itdRouteList>itdRoute"`
}

type itdTripDateTime struct {
	DateTime itdDateTime `xml:"itdDateTime"`
}

type itdMessage struct {
	Code int    `xml:"code,attr"`
	Type string `xml:"type,attr"`
	Text string `xml:",chardata"`
}

type itdOdv struct {
	Type  string     `xml:"type,attr"`
	Usage string     `xml:"usage,attr"`
	Place itdOdvPlace `xml:"itdOdvPlace"`
	Name  itdOdvName  `xml:"itdOdvName"`

	AssignedStops []itdAssignedStop `xml:"itdOdvAssignedStops>itdOdvAssignedStop"`
}

type itdOdvPlace struct {
	State string       `xml:"state,attr"`
	Elem  odvPlaceElem `xml:"odvPlaceElem"`
}

type odvPlaceElem struct {
	Value string `xml:",chardata"`
}

type itdOdvName struct {
	State string        `xml:"state,attr"`
	Elems []odvNameElem `xml:"odvNameElem"`
}

type odvNameElem struct {
	AnyType        string `xml:"anyType,attr"`
	ID             string `xml:"id,attr"`
	Stateless      string `xml:"stateless,attr"`
	Locality       string `xml:"locality,attr"`
	ObjectName     string `xml:"objectName,attr"`
	BuildingName   string `xml:"buildingName,attr"`
	BuildingNumber string `xml:"buildingNumber,attr"`
	PostCode       string `xml:"postCode,attr"`
	StreetName     string `xml:"streetName,attr"`
	MatchQuality   int    `xml:"matchQuality,attr"`
	X              string `xml:"x,attr"`
	Y              string `xml:"y,attr"`
	MapName        string `xml:"mapName,attr"`
	Value          string `xml:",chardata"`
}

type itdAssignedStop struct {
	StopID  string `xml:"stopID,attr"`
	X       string `xml:"x,attr"`
	Y       string `xml:"y,attr"`
	MapName string `xml:"mapName,attr"`
	Place   string `xml:"place,attr"`
	Value   string `xml:",chardata"`
}

type itdDateTime struct {
	Date itdDate `xml:"itdDate"`
	Time itdTime `xml:"itdTime"`
}

type itdDate struct {
	Year     int          `xml:"year,attr"`
	Month    int          `xml:"month,attr"`
	Day      int          `xml:"day,attr"`
	Weekday  int          `xml:"weekday,attr"`
	Messages []itdMessage `xml:"itdMessage"`
}

type itdTime struct {
	Hour   int `xml:"hour,attr"`
	Minute int `xml:"minute,attr"`
	Second int `xml:"second,attr"`
}

type itdRoute struct {
	RouteIndex     string            `xml:"routeIndex,attr"`
	RouteTripIndex string            `xml:"routeTripIndex,attr"`
	Changes        *int              `xml:"changes,attr"`
	PartialRoutes  []itdPartialRoute `xml:"itdPartialRouteList>itdPartialRoute"`
	SingleTicket   *itdSingleTicket  `xml:"itdFare>itdSingleTicket"`
}

type itdSingleTicket struct {
	Net        string `xml:"net,attr"`
	Currency   string `xml:"currency,attr"`
	FareAdult  string `xml:"fareAdult,attr"`
	FareChild  string `xml:"fareChild,attr"`
	UnitName   string `xml:"unitName,attr"`
	UnitsAdult string `xml:"unitsAdult,attr"`
	UnitsChild string `xml:"unitsChild,attr"`
}

type itdPartialRoute struct {
	Type     string   `xml:"type,attr"`
	Distance int      `xml:"distance,attr"`
	Points   []itdPoint `xml:"itdPoint"`

	MeansOfTransport itdMeansOfTransport `xml:"itdMeansOfTransport"`
	RBLControlled    *itdRBLControlled   `xml:"itdRBLControlled"`
	StopSeq          []itdPoint          `xml:"itdStopSeq>itdPoint"`
	PathCoordinates  *itdPathCoordinates `xml:"itdPathCoordinates"`
	InfoTexts        []string            `xml:"itdInfoTextList>infoTextListElem"`
	InfoLinkText     string              `xml:"infoLink>infoLinkText"`
	GenAttrs         []genAttrElem       `xml:"genAttrList>genAttrElem"`
}

type itdMeansOfTransport struct {
	Type        int    `xml:"type,attr"`
	ProductName string `xml:"productName,attr"`
	Destination string `xml:"destination,attr"`
	DestID      string `xml:"destID,attr"`
	Symbol      string `xml:"symbol,attr"`
	MotType     string `xml:"motType,attr"`
	Shortname   string `xml:"shortname,attr"`
	Name        string `xml:"name,attr"`
	TrainName   string `xml:"trainName,attr"`
	TrainType   string `xml:"trainType,attr"`
	DivaParams  motDivaParams `xml:"motDivaParams"`
}

type motDivaParams struct {
	Line       string `xml:"line,attr"`
	Project    string `xml:"project,attr"`
	Direction  string `xml:"direction,attr"`
	Supplement string `xml:"supplement,attr"`
	Network    string `xml:"network,attr"`
}

type itdRBLControlled struct {
	DelayMinutes    *int `xml:"delayMinutes,attr"`
	DelayMinutesArr *int `xml:"delayMinutesArr,attr"`
}

type itdPoint struct {
	StopID       string `xml:"stopID,attr"`
	Locality     string `xml:"locality,attr"`
	Place        string `xml:"place,attr"`
	NameWO       string `xml:"nameWO,attr"`
	Name         string `xml:"name,attr"`
	MapName      string `xml:"mapName,attr"`
	X            string `xml:"x,attr"`
	Y            string `xml:"y,attr"`
	Usage        string `xml:"usage,attr"`
	PlatformName string `xml:"platformName,attr"`

	DateTimes      []itdDateTime `xml:"itdDateTime"`
	DateTimeTarget *itdDateTime  `xml:"itdDateTimeTarget"`
}

type itdPathCoordinates struct {
	Ellipsoid   string `xml:"coordEllipsoid"`
	Type        string `xml:"coordType"`
	CoordString string `xml:"itdCoordinateString"`

	BaseElems []itdCoordinateBaseElem `xml:"itdCoordinateBaseElemList>itdCoordinateBaseElem"`
}

type itdCoordinateBaseElem struct {
	X float64 `xml:"x"`
	Y float64 `xml:"y"`
}

type genAttrElem struct {
	Name  string `xml:"name"`
	Value string `xml:"value"`
}

type itdDepartureMonitorResponse struct {
	XMLName   xml.Name `xml:"itdRequest"`
	Version   string   `xml:"version,attr"`
	Now       string   `xml:"now,attr"`
	SessionID string   `xml:"sessionID,attr"`
	ServerID  string   `xml:"serverID,attr"`

	MonitorRequest itdDepartureMonitorRequest `xml:"itdDepartureMonitorRequest"`
}

type itdDepartureMonitorRequest struct {
	RequestID    string            `xml:"requestID,attr"`
	Odv          itdOdv            `xml:"itdOdv"`
	ServingLines []itdServingLine  `xml:"itdServingLines>itdServingLine"`
	Departures   []itdDeparture    `xml:"itdDepartureList>itdDeparture"`
}

type itdServingLine struct {
	Number    string `xml:"number,attr"`
	Symbol    string `xml:"symbol,attr"`
	MotType   string `xml:"motType,attr"`
	Direction string `xml:"direction,attr"`
	TrainType string `xml:"trainType,attr"`
	TrainNum  string `xml:"trainNum,attr"`
	TrainName string `xml:"trainName,attr"`
	Type      string `xml:"type,attr"`
	Name      string `xml:"name,attr"`
	Delay     string `xml:"delay,attr"`
	DestID    string `xml:"destID,attr"`
	Stateless string `xml:"stateless,attr"`

	AssignedStopID string `xml:"assignedStopID,attr"`
	Realtime       string `xml:"realtime,attr"`

	NoTrainName string        `xml:"itdNoTrain"`
	DivaParams  motDivaParams `xml:"motDivaParams"`
}

type itdDeparture struct {
	StopID       string `xml:"stopID,attr"`
	X            string `xml:"x,attr"`
	Y            string `xml:"y,attr"`
	MapName      string `xml:"mapName,attr"`
	PlatformName string `xml:"platformName,attr"`

	DateTime    itdDateTime    `xml:"itdDateTime"`
	RTDateTime  *itdDateTime   `xml:"itdRTDateTime"`
	ServingLine itdServingLine `xml:"itdServingLine"`
}

type itdCoordResponse struct {
	XMLName   xml.Name `xml:"itdRequest"`
	Version   string   `xml:"version,attr"`
	Now       string   `xml:"now,attr"`
	SessionID string   `xml:"sessionID,attr"`
	ServerID  string   `xml:"serverID,attr"`

	Items []coordInfoItem `xml:"itdCoordInfoRequest>itdCoordInfo>coordInfoItemList>coordInfoItem"`
}

type coordInfoItem struct {
	Name      string `xml:"name,attr"`
	Distance  string `xml:"distance,attr"`
	ID        string `xml:"id,attr"`
	Locality  string `xml:"locality,attr"`
	Stateless string `xml:"stateless,attr"`
	Type      string `xml:"type,attr"`

	PathCoordinates *itdPathCoordinates `xml:"itdPathCoordinates"`
	GenAttrs        []genAttrElem       `xml:"genAttrList>genAttrElem"`
}

// Stop-finder responses use the protocol's JSON rendering; the XML
// rendering of this operation is not stable across deployments.

type stopfinderResponse struct {
	StopFinder stopfinderPayload `json:"stopFinder"`
}

type stopfinderPayload struct {
	Messages []jsonMessage `json:"message"`
	Points   jsonPoints    `json:"points"`
}

type jsonMessage struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// jsonPoints absorbs the three shapes backends emit: a plain array, an
// object wrapping a single point, or nothing.
type jsonPoints []jsonPoint

type jsonPoint struct {
	Type      string  `json:"type"`
	AnyType   string  `json:"anyType"`
	Stateless string  `json:"stateless"`
	Name      string  `json:"name"`
	Object    string  `json:"object"`
	Postcode  string  `json:"postcode"`
	Quality   int     `json:"quality"`
	Ref       jsonRef `json:"ref"`
}

type jsonRef struct {
	ID     string `json:"id"`
	Place  string `json:"place"`
	Coords string `json:"coords"`
}

// UnmarshalJSON accepts both the enveloped object form and the bare
// point array some deployments answer with.
func (p *stopfinderPayload) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &p.Points)
	}
	type payload stopfinderPayload
	var v payload
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return err
	}
	*p = stopfinderPayload(v)
	return nil
}

// UnmarshalJSON accepts a point array or the {"point": {...}} wrapper a
// single match is delivered in.
func (pts *jsonPoints) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []jsonPoint
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		*pts = list
		return nil
	}
	var solo struct {
		Point jsonPoint `json:"point"`
	}
	if err := json.Unmarshal(trimmed, &solo); err != nil {
		return err
	}
	*pts = []jsonPoint{solo.Point}
	return nil
}
