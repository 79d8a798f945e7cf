// Package resolver converts flat backend location-record tables into
// domain locations. Backends that model minor stops as children of a
// master station are normalized by dereferencing the master reference,
// with a visited set guarding against reference cycles.
package resolver

import (
	"github.com/theoremus-urban-solutions/pt-client/geo"
	"github.com/theoremus-urban-solutions/pt-client/pt"
)

// Record is one entry of a backend's location table. Records reference
// each other by table index; MasterIndex and ProductBits use -1 for
// absence, matching the wire encoding.
type Record struct {
	Type        string
	ID          string
	ExtID       string
	Name        string
	Coord       *geo.Point
	MasterIndex int
	ProductBits int
}

// Resolver holds the per-network splitting patterns and mode table. The
// zero value splits nothing and decodes no products.
type Resolver struct {
	SplitStation NameSplitter
	SplitPOI     NameSplitter
	SplitAddress NameSplitter
	Modes        pt.ModeTable
}

// Resolve turns the record at index into a location. A record declaring
// a master index not yet visited resolves to its master instead. Records
// of unknown type resolve to nil so that one odd entry does not fail the
// whole table; callers filter nils out.
func (r *Resolver) Resolve(table []Record, index int, visited map[int]bool) (*pt.Location, error) {
	if index < 0 || index >= len(table) {
		return nil, nil
	}
	rec := table[index]

	switch rec.Type {
	case "S":
		if visited != nil && rec.MasterIndex >= 0 && !visited[rec.MasterIndex] {
			visited[index] = true
			return r.Resolve(table, rec.MasterIndex, visited)
		}
		place, name := split(r.SplitStation, rec.Name)
		loc := pt.Location{
			ID:    geo.NormalizeStationID(rec.ExtID),
			Type:  pt.LocationStation,
			Coord: rec.Coord,
			Place: place,
			Name:  name,
		}
		if rec.ProductBits >= 0 && r.Modes != nil {
			products, err := r.Modes.Products(rec.ProductBits)
			if err != nil {
				return nil, err
			}
			loc.Products = products
		}
		return &loc, nil

	case "P":
		place, name := split(r.SplitPOI, rec.Name)
		return &pt.Location{ID: rec.ID, Type: pt.LocationPOI, Coord: rec.Coord, Place: place, Name: name}, nil

	case "A":
		place, name := split(r.SplitAddress, rec.Name)
		return &pt.Location{ID: rec.ID, Type: pt.LocationAddress, Coord: rec.Coord, Place: place, Name: name}, nil
	}

	return nil, nil
}

// ResolveAll resolves a whole table, sharing one visited set so chained
// master references terminate. A master keeps one emission per
// referencing child plus its own table entry; table order is preserved
// since consumers address results by index.
func (r *Resolver) ResolveAll(table []Record) ([]pt.Location, error) {
	visited := make(map[int]bool)
	locations := make([]pt.Location, 0, len(table))
	for index := range table {
		loc, err := r.Resolve(table, index, visited)
		if err != nil {
			return nil, err
		}
		if loc != nil {
			locations = append(locations, *loc)
		}
	}
	return locations, nil
}

func split(s NameSplitter, raw string) (place, name string) {
	if s == nil {
		return "", raw
	}
	return s(raw)
}
