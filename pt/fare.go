package pt

import "fmt"

// FareType classifies who or what a fare is priced for.
type FareType int

const (
	FareAdult FareType = iota
	FareChild
	FareStudent
	FareSenior
	FareBike
)

func (t FareType) String() string {
	switch t {
	case FareAdult:
		return "ADULT"
	case FareChild:
		return "CHILD"
	case FareStudent:
		return "STUDENT"
	case FareSenior:
		return "SENIOR"
	case FareBike:
		return "BIKE"
	}
	return fmt.Sprintf("FareType(%d)", int(t))
}

// Fare is one priced ticket option for a trip. Amount is in decimal
// currency units; Currency is the code string as supplied by the
// backend, unconverted.
type Fare struct {
	Name     string
	Type     FareType
	Currency string
	Amount   float64
	UnitName string
	Units    string
}
