// Package fares extracts normalized fares from the nested tariff
// structures of a trip response. Three reference shapes exist on the
// wire: a single ticket inside a fare, a directly priced fare, and a
// whole named fare set.
package fares

import (
	"fmt"
	"strings"

	"github.com/theoremus-urban-solutions/pt-client/pt"
)

// Reference shape discriminators.
const (
	RefTicket  = "T"
	RefFare    = "F"
	RefFareSet = "FS"
)

// Ticket is one priced ticket inside a fare.
type Ticket struct {
	Name       string
	Currency   string
	PriceCents *int
}

// Item is one fare, optionally priced itself, optionally carrying
// tickets.
type Item struct {
	Name       string
	Currency   string
	PriceCents *int
	Tickets    []Ticket
}

// Set is one named group of fares.
type Set struct {
	Name  string
	Fares []Item
}

// Ref points into the fare-set table and selects the extraction shape.
type Ref struct {
	Type    string
	SetX    int
	FareX   int
	TicketX int
}

// UnhandledRefError reports a tariff reference of unknown shape.
type UnhandledRefError struct {
	Type string
}

func (e *UnhandledRefError) Error() string {
	return fmt.Sprintf("fares: cannot handle tariff reference type %q", e.Type)
}

// Extractor resolves tariff references into fares. Hide, when set,
// suppresses individual fares after classification; it must not modify
// them. NormalizeName, when set, rewrites fare names for display.
type Extractor struct {
	Hide          func(pt.Fare) bool
	NormalizeName func(string) string
}

// Extract resolves the references against the fare-set table. References
// pointing at entries without a currency or price are skipped; partial
// fare lists are acceptable.
func (e *Extractor) Extract(sets []Set, refs []Ref) ([]pt.Fare, error) {
	var out []pt.Fare
	for _, ref := range refs {
		if ref.SetX < 0 || ref.SetX >= len(sets) {
			continue
		}
		set := sets[ref.SetX]

		switch ref.Type {
		case RefTicket:
			if ref.FareX < 0 || ref.FareX >= len(set.Fares) {
				continue
			}
			fare := set.Fares[ref.FareX]
			if ref.TicketX < 0 || ref.TicketX >= len(fare.Tickets) {
				continue
			}
			ticket := fare.Tickets[ref.TicketX]
			if ticket.Currency == "" || ticket.PriceCents == nil {
				continue
			}
			out = e.appendFare(out, pt.Fare{
				Name:     e.normalize(fare.Name) + "\n" + ticket.Name,
				Type:     ClassifyType(ticket.Name),
				Currency: ticket.Currency,
				Amount:   float64(*ticket.PriceCents) / 100,
			})

		case RefFare:
			if ref.FareX < 0 || ref.FareX >= len(set.Fares) {
				continue
			}
			fare := set.Fares[ref.FareX]
			if fare.Currency == "" || fare.PriceCents == nil {
				continue
			}
			out = e.appendFare(out, pt.Fare{
				Name:     e.normalize(fare.Name),
				Type:     ClassifyType(fare.Name),
				Currency: fare.Currency,
				Amount:   float64(*fare.PriceCents) / 100,
			})

		case RefFareSet:
			if set.Name == "" {
				continue
			}
			for _, fare := range set.Fares {
				if fare.Currency == "" || fare.PriceCents == nil {
					continue
				}
				out = e.appendFare(out, pt.Fare{
					Name:     e.normalize(set.Name),
					Type:     ClassifyType(fare.Name),
					Currency: fare.Currency,
					Amount:   float64(*fare.PriceCents) / 100,
				})
			}

		default:
			return nil, &UnhandledRefError{Type: ref.Type}
		}
	}
	return out, nil
}

func (e *Extractor) appendFare(out []pt.Fare, fare pt.Fare) []pt.Fare {
	if e.Hide != nil && e.Hide(fare) {
		return out
	}
	return append(out, fare)
}

func (e *Extractor) normalize(name string) string {
	if e.NormalizeName != nil {
		return e.NormalizeName(name)
	}
	return name
}

// ClassifyType maps a free-text fare or ticket name to a fare type by
// case-insensitive keyword. Adult is the default for unrecognized names.
func ClassifyType(name string) pt.FareType {
	lc := strings.ToLower(name)
	switch {
	case strings.Contains(lc, "erwachsene"), strings.Contains(lc, "adult"):
		return pt.FareAdult
	case strings.Contains(lc, "kind"), strings.Contains(lc, "child"), strings.Contains(lc, "kids"):
		return pt.FareChild
	case strings.Contains(lc, "ermigung"):
		return pt.FareChild
	case strings.Contains(lc, "schler"), strings.Contains(lc, "azubi"):
		return pt.FareStudent
	case strings.Contains(lc, "fahrrad"):
		return pt.FareBike
	case strings.Contains(lc, "senior"):
		return pt.FareSenior
	}
	return pt.FareAdult
}
