package pt

import (
	"fmt"
	"strings"

	"github.com/theoremus-urban-solutions/pt-client/geo"
)

// LocationType discriminates what a Location stands for.
type LocationType int

const (
	// LocationAny can represent any of the below. Mainly meant for user input.
	LocationAny LocationType = iota
	LocationStation
	LocationPOI
	LocationAddress
	LocationCoord
)

func (t LocationType) String() string {
	switch t {
	case LocationAny:
		return "ANY"
	case LocationStation:
		return "STATION"
	case LocationPOI:
		return "POI"
	case LocationAddress:
		return "ADDRESS"
	case LocationCoord:
		return "COORD"
	}
	return fmt.Sprintf("LocationType(%d)", int(t))
}

// Location is one place a trip can start, pass or end at. Construct via
// NewLocation so the type invariants hold; values are never mutated
// afterwards.
type Location struct {
	ID       string
	Type     LocationType
	Coord    *geo.Point
	Place    string
	Name     string
	Products map[Product]bool
}

// NewLocation validates the cross-field invariants.
func NewLocation(loc Location) (Location, error) {
	if loc.Type == LocationAny && loc.ID != "" {
		return Location{}, fmt.Errorf("pt: location of type ANY cannot have an id")
	}
	if loc.ID != "" && strings.TrimSpace(loc.ID) == "" {
		return Location{}, fmt.Errorf("pt: location id cannot be blank")
	}
	if loc.Place != "" && loc.Name == "" {
		return Location{}, fmt.Errorf("pt: location place cannot be set without name")
	}
	if loc.Type == LocationCoord {
		if loc.Coord == nil {
			return Location{}, fmt.Errorf("pt: coordinate location is missing coordinates")
		}
		if loc.Place != "" || loc.Name != "" {
			return Location{}, fmt.Errorf("pt: coordinate location cannot have place or name")
		}
	}
	return loc, nil
}

// CoordLocation builds a plain coordinate location, e.g. acquired by GPS.
func CoordLocation(p geo.Point) Location {
	return Location{Type: LocationCoord, Coord: &p}
}

func (l Location) HasID() bool     { return strings.TrimSpace(l.ID) != "" }
func (l Location) HasCoords() bool { return l.Coord != nil }
func (l Location) HasName() bool   { return strings.TrimSpace(l.Name) != "" }
func (l Location) HasPlace() bool  { return strings.TrimSpace(l.Place) != "" }

// HasLocation reports whether the location carries usable coordinates,
// excluding the (0,0) placeholder.
func (l Location) HasLocation() bool {
	return l.Coord != nil && !l.Coord.IsZero()
}

// IsIdentified reports whether the location is concrete enough to be
// used as a trip endpoint without disambiguation.
func (l Location) IsIdentified() bool {
	switch l.Type {
	case LocationStation:
		return l.HasID()
	case LocationPOI:
		return true
	case LocationAddress, LocationCoord:
		return l.HasCoords()
	}
	return false
}

// nonUniqueNames are station names that only identify a stop together
// with its place.
var nonUniqueNames = map[string]bool{
	"Hauptbahnhof": true, "Hbf": true, "Bahnhof": true, "Bf": true,
	"Busbahnhof": true, "ZOB": true, "Schiffstation": true, "Schiffst.": true,
	"Zentrum": true, "Markt": true, "Dorf": true, "Kirche": true,
	"Nord": true, "Ost": true, "Süd": true, "West": true,
}

// UniqueShortName returns the shortest display name that still uniquely
// identifies the location.
func (l Location) UniqueShortName() string {
	if l.Place != "" && l.Name != "" && nonUniqueNames[l.Name] {
		return l.Place + ", " + l.Name
	}
	if l.Name != "" {
		return l.Name
	}
	return l.ID
}

// Equal compares locations by id if both have one, by coordinate if
// neither does, and only then by name and place.
func (l Location) Equal(other Location) bool {
	if l.Type != other.Type {
		return false
	}
	if l.HasID() {
		return l.ID == other.ID
	}
	if l.HasCoords() {
		return other.HasCoords() && *l.Coord == *other.Coord
	}
	return l.Place == other.Place && l.Name == other.Name
}

func (l Location) String() string {
	switch {
	case l.HasName() && l.HasPlace():
		return l.Place + ", " + l.Name
	case l.HasName():
		return l.Name
	case l.HasID():
		return l.ID
	case l.HasCoords():
		return l.Coord.String()
	}
	return l.Type.String()
}
