package pt

import "time"

// Status is the shared outcome code of a query, translated from
// backend-specific error codes by the adapters. The verbatim backend
// wording travels alongside in the result's StatusHint.
type Status int

const (
	StatusOK Status = iota
	StatusAmbiguous
	StatusTooClose
	StatusUnknownFrom
	StatusUnknownVia
	StatusUnknownTo
	StatusUnknownLocation
	StatusUnresolvableAddress
	StatusNoTrips
	StatusInvalidDate
	StatusInvalidStation
	StatusServiceDown
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusAmbiguous:
		return "AMBIGUOUS"
	case StatusTooClose:
		return "TOO_CLOSE"
	case StatusUnknownFrom:
		return "UNKNOWN_FROM"
	case StatusUnknownVia:
		return "UNKNOWN_VIA"
	case StatusUnknownTo:
		return "UNKNOWN_TO"
	case StatusUnknownLocation:
		return "UNKNOWN_LOCATION"
	case StatusUnresolvableAddress:
		return "UNRESOLVABLE_ADDRESS"
	case StatusNoTrips:
		return "NO_TRIPS"
	case StatusInvalidDate:
		return "INVALID_DATE"
	case StatusInvalidStation:
		return "INVALID_STATION"
	case StatusServiceDown:
		return "SERVICE_DOWN"
	}
	return "UNKNOWN"
}

// SuggestedLocation is one autocomplete match with its ranking weight.
type SuggestedLocation struct {
	Location Location
	Priority int
}

// SuggestLocationsResult is the outcome of a location suggestion query.
type SuggestLocationsResult struct {
	Header    *ResultHeader
	Status    Status
	Locations []SuggestedLocation
}

// NearbyLocationsResult is the outcome of a nearby-locations query.
type NearbyLocationsResult struct {
	Header    *ResultHeader
	Status    Status
	Locations []Location
}

// Departure is one upcoming service leaving a station.
type Departure struct {
	PlannedTime   time.Time
	PredictedTime time.Time
	Line          Line
	Position      *Position
	Destination   *Location
	Message       string
}

// Time prefers the predicted departure time over the planned one.
func (d Departure) Time() time.Time {
	if !d.PredictedTime.IsZero() {
		return d.PredictedTime
	}
	return d.PlannedTime
}

// StationDepartures groups the departures of one station.
type StationDepartures struct {
	Location   Location
	Departures []Departure
	Lines      []LineDestination
}

// QueryDeparturesResult is the outcome of a station board query.
type QueryDeparturesResult struct {
	Header            *ResultHeader
	Status            Status
	StatusHint        string
	StationDepartures []StationDepartures
}

// FindStationDepartures returns the entry matching a location, or nil.
func (r *QueryDeparturesResult) FindStationDepartures(location Location) *StationDepartures {
	for i := range r.StationDepartures {
		if r.StationDepartures[i].Location.Equal(location) {
			return &r.StationDepartures[i]
		}
	}
	return nil
}

// QueryTripsResult is the outcome of a trip search or continuation.
type QueryTripsResult struct {
	Header     *ResultHeader
	Status     Status
	StatusHint string

	AmbiguousFrom []Location
	AmbiguousVia  []Location
	AmbiguousTo   []Location

	QueryURI string
	From     *Location
	Via      *Location
	To       *Location
	Context  QueryTripsContext
	Trips    []*Trip
}
