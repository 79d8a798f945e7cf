package pt

import "strings"

// LineAttr flags a property of a line.
type LineAttr int

const (
	AttrCircleClockwise LineAttr = iota
	AttrCircleAnticlockwise
	AttrServiceReplacement
	AttrLineAirport
	AttrWheelchairAccess
	AttrBicycleCarriage
)

// Line identifies one logical service. Identity is (Network, Product,
// Label); backends assign unstable or duplicate ids to the same logical
// line, so ID is excluded from equality and ordering.
type Line struct {
	ID         string
	Network    string
	Product    Product
	Label      string
	Name       string
	Style      *Style
	Attributes map[LineAttr]bool
	Message    string
}

// LineInvalid stands in for a line entry that could not be decoded, so
// one exotic product does not fail a whole response.
var LineInvalid = Line{ID: "INVALID", Product: ProductUnknown}

func (l Line) HasAttr(attr LineAttr) bool {
	return l.Attributes[attr]
}

func (l Line) Equal(other Line) bool {
	return l.Network == other.Network &&
		l.Product == other.Product &&
		l.Label == other.Label
}

// Compare orders lines by network, then product, then label.
func (l Line) Compare(other Line) int {
	if c := strings.Compare(l.Network, other.Network); c != 0 {
		return c
	}
	if l.Product != other.Product {
		if l.Product < other.Product {
			return -1
		}
		return 1
	}
	return strings.Compare(l.Label, other.Label)
}

func (l Line) String() string {
	if l.Label != "" {
		return string(l.Product.Code()) + " " + l.Label
	}
	return string(l.Product.Code())
}

// LineDestination pairs a line with the terminus it is heading for.
type LineDestination struct {
	Line        Line
	Destination *Location
}
