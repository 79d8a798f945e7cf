package pt

import "time"

// ResultHeader identifies which backend answered a query and carries the
// opaque session context needed for follow-up requests.
type ResultHeader struct {
	Network       string
	ServerProduct string
	ServerVersion string
	ServerName    string
	ServerTime    time.Time
	Context       string
}
