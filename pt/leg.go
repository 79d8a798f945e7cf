package pt

import (
	"time"

	"github.com/theoremus-urban-solutions/pt-client/geo"
)

// Leg is one continuous segment of a trip, either a PublicLeg or an
// IndividualLeg. The closed set of implementations lives in this
// package.
type Leg interface {
	Departure() Location
	Arrival() Location
	DepartureTime() time.Time
	ArrivalTime() time.Time
	Path() []geo.Point

	isLeg()
}

// PublicLeg is a leg traveled on a public-transport line.
type PublicLeg struct {
	Line              Line
	Destination       *Location
	DepartureStop     Stop
	ArrivalStop       Stop
	IntermediateStops []Stop
	LegPath           []geo.Point
	Message           string
}

func (l *PublicLeg) isLeg() {}

func (l *PublicLeg) Departure() Location { return l.DepartureStop.Location }
func (l *PublicLeg) Arrival() Location   { return l.ArrivalStop.Location }

func (l *PublicLeg) DepartureTime() time.Time { return l.DepartureStop.DepartureTime() }
func (l *PublicLeg) ArrivalTime() time.Time   { return l.ArrivalStop.ArrivalTime() }

func (l *PublicLeg) PlannedDepartureTime() time.Time { return l.DepartureStop.PlannedDepartureTime }
func (l *PublicLeg) PlannedArrivalTime() time.Time   { return l.ArrivalStop.PlannedArrivalTime }

func (l *PublicLeg) DepartureDelay() time.Duration { return l.DepartureStop.DepartureDelay() }
func (l *PublicLeg) ArrivalDelay() time.Duration   { return l.ArrivalStop.ArrivalDelay() }

func (l *PublicLeg) Path() []geo.Point { return l.LegPath }

// IndividualType is the means of an individually traveled leg.
type IndividualType int

const (
	IndividualWalk IndividualType = iota
	IndividualBike
	IndividualCar
	IndividualTransfer
	IndividualCheckIn
	IndividualCheckOut
)

func (t IndividualType) String() string {
	switch t {
	case IndividualWalk:
		return "WALK"
	case IndividualBike:
		return "BIKE"
	case IndividualCar:
		return "CAR"
	case IndividualTransfer:
		return "TRANSFER"
	case IndividualCheckIn:
		return "CHECK_IN"
	case IndividualCheckOut:
		return "CHECK_OUT"
	}
	return "INDIVIDUAL"
}

// IndividualLeg is a leg traveled by one's own means.
type IndividualLeg struct {
	Type          IndividualType
	From          Location
	DepartureAt   time.Time
	To            Location
	ArrivalAt     time.Time
	LegPath       []geo.Point
	DistanceM     int
}

func (l *IndividualLeg) isLeg() {}

func (l *IndividualLeg) Departure() Location { return l.From }
func (l *IndividualLeg) Arrival() Location   { return l.To }

func (l *IndividualLeg) DepartureTime() time.Time { return l.DepartureAt }
func (l *IndividualLeg) ArrivalTime() time.Time   { return l.ArrivalAt }

func (l *IndividualLeg) Path() []geo.Point { return l.LegPath }

// MovedTo shifts the leg to a new departure time, keeping its duration.
func (l *IndividualLeg) MovedTo(departure time.Time) *IndividualLeg {
	moved := *l
	moved.DepartureAt = departure
	moved.ArrivalAt = departure.Add(l.ArrivalAt.Sub(l.DepartureAt))
	return &moved
}

// InterpolatePath builds a leg path from the stop coordinates when the
// backend does not deliver one.
func InterpolatePath(departure Location, intermediateStops []Stop, arrival Location) []geo.Point {
	path := make([]geo.Point, 0, len(intermediateStops)+2)
	if departure.HasLocation() {
		path = append(path, *departure.Coord)
	}
	for _, stop := range intermediateStops {
		if stop.Location.HasLocation() {
			path = append(path, *stop.Location.Coord)
		}
	}
	if arrival.HasLocation() {
		path = append(path, *arrival.Coord)
	}
	return path
}
