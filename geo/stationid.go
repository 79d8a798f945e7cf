package geo

import "strings"

// NormalizeStationID strips leading zeros so that the same station
// compares equal regardless of which backend padded the id.
func NormalizeStationID(id string) string {
	if id == "" {
		return ""
	}
	if id[0] != '0' {
		return id
	}
	return strings.TrimLeft(id, "0")
}
