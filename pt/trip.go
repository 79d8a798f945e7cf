package pt

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// tripIDNamespace is the fixed namespace for derived trip ids. Hashing
// the canonical leg string through a name-based UUID keeps generated ids
// stable across repeated queries without leaking coordinates.
var tripIDNamespace = uuid.MustParse("8c1f3b8e-4c6a-4f50-9d35-6f3f6d1a2b90")

// Trip is one itinerary from one location to another.
type Trip struct {
	ID         string
	From       Location
	To         Location
	Legs       []Leg
	Fares      []Fare
	changes    int
	hasChanges bool
}

// NewTrip builds a trip. When id is empty, a deterministic id is derived
// from the leg sequence so that identical trips from repeated queries
// compare equal. changes may be nil when the backend did not supply a
// count.
func NewTrip(id string, from, to Location, legs []Leg, fares []Fare, changes *int) (*Trip, error) {
	if len(legs) == 0 {
		return nil, fmt.Errorf("pt: trip legs cannot be empty")
	}
	if id == "" {
		id = generateTripID(legs)
	}
	t := &Trip{ID: id, From: from, To: to, Legs: legs, Fares: fares}
	if changes != nil {
		t.changes = *changes
		t.hasChanges = true
	}
	return t, nil
}

func generateTripID(legs []Leg) string {
	var b strings.Builder
	for _, leg := range legs {
		writeEndpoint(&b, leg.Departure())
		b.WriteByte('-')
		writeEndpoint(&b, leg.Arrival())
		b.WriteByte('-')
		if public, ok := leg.(*PublicLeg); ok {
			if t := public.DepartureStop.PlannedDepartureTime; !t.IsZero() {
				fmt.Fprintf(&b, "%d-", t.UnixMilli())
			}
			if t := public.ArrivalStop.PlannedArrivalTime; !t.IsZero() {
				fmt.Fprintf(&b, "%d-", t.UnixMilli())
			}
			b.WriteByte(public.Line.Product.Code())
			b.WriteString(public.Line.Label)
		} else {
			b.WriteString("individual")
		}
		b.WriteByte('|')
	}
	return uuid.NewSHA1(tripIDNamespace, []byte(b.String())).String()
}

func writeEndpoint(b *strings.Builder, loc Location) {
	if loc.HasID() {
		b.WriteString(loc.ID)
	} else if loc.HasCoords() {
		b.WriteString(loc.Coord.String())
	}
}

func (t *Trip) FirstDepartureTime() time.Time {
	return t.Legs[0].DepartureTime()
}

func (t *Trip) LastArrivalTime() time.Time {
	return t.Legs[len(t.Legs)-1].ArrivalTime()
}

// FirstPublicLeg returns the first public leg, or nil.
func (t *Trip) FirstPublicLeg() *PublicLeg {
	for _, leg := range t.Legs {
		if public, ok := leg.(*PublicLeg); ok {
			return public
		}
	}
	return nil
}

// LastPublicLeg returns the last public leg, or nil.
func (t *Trip) LastPublicLeg() *PublicLeg {
	for i := len(t.Legs) - 1; i >= 0; i-- {
		if public, ok := t.Legs[i].(*PublicLeg); ok {
			return public
		}
	}
	return nil
}

// Duration of the whole trip, including leading and trailing individual
// legs.
func (t *Trip) Duration() time.Duration {
	return t.LastArrivalTime().Sub(t.FirstDepartureTime())
}

// PublicDuration covers the public part of the trip, including
// individual legs between public legs but excluding leading and
// trailing ones. Zero when there are no public legs.
func (t *Trip) PublicDuration() time.Duration {
	first := t.FirstPublicLeg()
	last := t.LastPublicLeg()
	if first == nil || last == nil {
		return 0
	}
	return last.ArrivalTime().Sub(first.DepartureTime())
}

// NumChanges returns the backend-reported change count if present, else
// the count of public legs minus one. A trip with only individual legs
// reports zero.
func (t *Trip) NumChanges() int {
	if t.hasChanges {
		return t.changes
	}
	public := 0
	for _, leg := range t.Legs {
		if _, ok := leg.(*PublicLeg); ok {
			public++
		}
	}
	if public == 0 {
		return 0
	}
	return public - 1
}

// Products returns the set of products used by the trip's public legs.
func (t *Trip) Products() map[Product]bool {
	products := make(map[Product]bool)
	for _, leg := range t.Legs {
		if public, ok := leg.(*PublicLeg); ok {
			products[public.Line.Product] = true
		}
	}
	return products
}

// CanTravel reports whether the trip still looks travelable: no
// cancelled boarding or alighting, and no leg starting before the
// previous one ended.
func (t *Trip) CanTravel() bool {
	var cursor time.Time
	for _, leg := range t.Legs {
		if public, ok := leg.(*PublicLeg); ok {
			if public.DepartureStop.DepartureCancelled || public.ArrivalStop.ArrivalCancelled {
				return false
			}
		}
		if !cursor.IsZero() && leg.DepartureTime().Before(cursor) {
			return false
		}
		cursor = leg.DepartureTime()
		if leg.ArrivalTime().Before(cursor) {
			return false
		}
		cursor = leg.ArrivalTime()
	}
	return true
}

// AdjustUntravelableIndividualLegs moves individual legs that overlap
// their predecessor so that the chain stays temporally continuous.
func (t *Trip) AdjustUntravelableIndividualLegs() *Trip {
	adjusted := *t
	adjusted.Legs = make([]Leg, len(t.Legs))
	copy(adjusted.Legs, t.Legs)

	for i := 1; i < len(adjusted.Legs); i++ {
		individual, ok := adjusted.Legs[i].(*IndividualLeg)
		if !ok {
			continue
		}
		prevArrival := adjusted.Legs[i-1].ArrivalTime()
		if individual.DepartureAt.Before(prevArrival) {
			adjusted.Legs[i] = individual.MovedTo(prevArrival)
		}
	}
	return &adjusted
}

// Equal compares trips by id.
func (t *Trip) Equal(other *Trip) bool {
	return other != nil && t.ID == other.ID
}
