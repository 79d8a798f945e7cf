// Package assembler folds the ordered raw route segments of one
// itinerary into a typed leg chain and a trip. The fold is strictly
// sequential: each step consults the previously emitted leg to decide
// whether to merge, and a post-pass inserts synthetic walks so the chain
// stays spatially and temporally continuous.
package assembler

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/theoremus-urban-solutions/pt-client/classifier"
	"github.com/theoremus-urban-solutions/pt-client/geo"
	"github.com/theoremus-urban-solutions/pt-client/pt"
)

// Coarse mode ids of non-public segments. Everything at or below
// maxPublicMode is a public-transport segment.
const (
	maxPublicMode         = 16
	modeNoInterchange     = 97
	modeSecuredConnection = 98
	modeFootpath          = 99
	modeFootpathAlt       = 100
	modeTaxi              = 105
)

// CancelledDelayMinutes is the delay sentinel marking a cancelled
// segment. A single cancelled segment cancels the whole trip.
const CancelledDelayMinutes = -9999

// walkSpeed is the nominal speed used for synthesized interchange walks.
const walkSpeed = 1.25 // m/s

// Segment is one raw route part as delivered by a backend, with times,
// positions and locations already decoded by the adapter. Classification
// of the line fields happens here.
type Segment struct {
	ModeType    int
	ProductName string

	Line        classifier.Input
	LineAttrs   map[pt.LineAttr]bool
	Destination *pt.Location

	DepartureStop     pt.Stop
	ArrivalStop       pt.Stop
	IntermediateStops []pt.Stop

	Path      []geo.Point
	DistanceM int
	Message   string

	DepartureDelayMin int
	ArrivalDelayMin   int
}

// UnhandledSegmentError reports a segment whose coarse mode id matches
// no known case. Routes are never silently truncated.
type UnhandledSegmentError struct {
	ModeType    int
	ProductName string
}

func (e *UnhandledSegmentError) Error() string {
	return fmt.Sprintf("assembler: unhandled segment mode %d (product name %q)", e.ModeType, e.ProductName)
}

// Assembler builds trips from raw segments. Styles, when set, decorates
// classified lines with the network's color scheme.
type Assembler struct {
	Styles func(network string, product pt.Product, label string) *pt.Style
}

// Assemble folds the segments of one itinerary into a trip. A cancelled
// itinerary yields (nil, nil): cancelled service is not a candidate
// result. changes may be nil when the backend did not report a count.
func (a *Assembler) Assemble(id string, from, to pt.Location, segments []Segment, fares []pt.Fare, changes *int) (*pt.Trip, error) {
	var legs []pt.Leg
	cancelled := false

	for i := range segments {
		seg := &segments[i]
		switch {
		case seg.ModeType <= maxPublicMode:
			leg, err := a.publicLeg(seg)
			if err != nil {
				return nil, err
			}
			legs = append(legs, leg)
			if seg.DepartureDelayMin == CancelledDelayMinutes || seg.ArrivalDelayMin == CancelledDelayMinutes {
				cancelled = true
			}

		case seg.ModeType == modeNoInterchange && strings.ToLower(seg.ProductName) == "nicht umsteigen":
			// advisory marker, carries no travel

		case seg.ModeType == modeSecuredConnection && strings.ToLower(seg.ProductName) == "gesicherter anschluss":
			// advisory marker, carries no travel

		case seg.ModeType == modeFootpath && strings.ToLower(seg.ProductName) == "fussweg",
			seg.ModeType == modeFootpathAlt && (strings.ToLower(seg.ProductName) == "fussweg" || seg.ProductName == ""):
			legs = appendIndividual(legs, pt.IndividualWalk, seg)

		case seg.ModeType == modeTaxi && strings.ToLower(seg.ProductName) == "taxi":
			legs = appendIndividual(legs, pt.IndividualCar, seg)

		default:
			return nil, &UnhandledSegmentError{ModeType: seg.ModeType, ProductName: seg.ProductName}
		}
	}

	if cancelled {
		return nil, nil
	}

	return pt.NewTrip(id, from, to, separatePublicLegs(legs), fares, changes)
}

func (a *Assembler) publicLeg(seg *Segment) (*pt.PublicLeg, error) {
	line, err := classifier.Classify(seg.Line)
	if err != nil {
		return nil, err
	}
	if a.Styles != nil {
		line.Style = a.Styles(line.Network, line.Product, line.Label)
	}
	if len(seg.LineAttrs) > 0 {
		line.Attributes = seg.LineAttrs
	}

	// the first and last entries duplicate the leg's own endpoints
	var intermediates []pt.Stop
	if len(seg.IntermediateStops) > 2 {
		intermediates = seg.IntermediateStops[1 : len(seg.IntermediateStops)-1]
	}

	path := seg.Path
	if path == nil {
		path = pt.InterpolatePath(seg.DepartureStop.Location, intermediates, seg.ArrivalStop.Location)
	}

	return &pt.PublicLeg{
		Line:              line,
		Destination:       seg.Destination,
		DepartureStop:     seg.DepartureStop,
		ArrivalStop:       seg.ArrivalStop,
		IntermediateStops: intermediates,
		LegPath:           path,
		Message:           seg.Message,
	}, nil
}

// appendIndividual appends an individual leg, merging it into a trailing
// leg of the same type. Backends split one physical walk into several
// wire segments around elevators and station exits.
func appendIndividual(legs []pt.Leg, typ pt.IndividualType, seg *Segment) []pt.Leg {
	if len(legs) > 0 {
		if last, ok := legs[len(legs)-1].(*pt.IndividualLeg); ok && last.Type == typ {
			path := seg.Path
			if path != nil {
				path = append(append([]geo.Point{}, last.LegPath...), path...)
			} else {
				path = pt.InterpolatePath(last.From, nil, seg.ArrivalStop.Location)
			}
			merged := &pt.IndividualLeg{
				Type:        typ,
				From:        last.From,
				DepartureAt: last.DepartureAt,
				To:          seg.ArrivalStop.Location,
				ArrivalAt:   seg.ArrivalStop.ArrivalTime(),
				LegPath:     path,
				DistanceM:   last.DistanceM + seg.DistanceM,
			}
			return append(legs[:len(legs)-1], merged)
		}
	}

	path := seg.Path
	if path == nil {
		path = pt.InterpolatePath(seg.DepartureStop.Location, nil, seg.ArrivalStop.Location)
	}
	return append(legs, &pt.IndividualLeg{
		Type:        typ,
		From:        seg.DepartureStop.Location,
		DepartureAt: seg.DepartureStop.DepartureTime(),
		To:          seg.ArrivalStop.Location,
		ArrivalAt:   seg.ArrivalStop.ArrivalTime(),
		LegPath:     path,
		DistanceM:   seg.DistanceM,
	})
}

// separatePublicLegs inserts a synthetic walk between every pair of
// directly adjacent public legs, so transfers always appear as an
// explicit leg even when the backend omits them.
func separatePublicLegs(legs []pt.Leg) []pt.Leg {
	out := make([]pt.Leg, 0, len(legs))
	for i, leg := range legs {
		out = append(out, leg)

		public, ok := leg.(*pt.PublicLeg)
		if !ok || i+1 >= len(legs) {
			continue
		}
		next, ok := legs[i+1].(*pt.PublicLeg)
		if !ok {
			continue
		}

		arrival := public.Arrival()
		departure := next.Departure()
		dist := 0
		if arrival.HasLocation() && departure.HasLocation() {
			dist = int(math.Round(geo.HaversineDistance(*arrival.Coord, *departure.Coord)))
		}
		duration := time.Duration(float64(dist) / walkSpeed * float64(time.Second))

		out = append(out, &pt.IndividualLeg{
			Type:        pt.IndividualWalk,
			From:        arrival,
			DepartureAt: public.ArrivalTime(),
			To:          departure,
			ArrivalAt:   public.ArrivalTime().Add(duration),
			LegPath:     pt.InterpolatePath(arrival, nil, departure),
			DistanceM:   dist,
		})
	}
	return out
}
