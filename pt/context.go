package pt

import "time"

// QueryTripsContext is the opaque continuation state of a trip search.
// Concrete variants carry whatever a backend family needs to replay the
// search; callers only see the two capability flags.
type QueryTripsContext interface {
	CanQueryEarlier() bool
	CanQueryLater() bool
}

// URLContext continues a trip search through a single session
// continuation URL, the scheme of the XML protocol family. Only forward
// continuation is available.
type URLContext struct {
	URL string
}

// TODO enable earlier querying once the backend's session protocol for
// backward paging is understood
func (c *URLContext) CanQueryEarlier() bool { return false }

func (c *URLContext) CanQueryLater() bool { return c.URL != "" }

// CursorContext continues a trip search through a forward/backward
// cursor pair, the scheme of the JSON protocol family. The cursors alone
// cannot replay the search against a stateless backend, so the full
// original query is retained.
type CursorContext struct {
	From      Location
	Via       *Location
	To        Location
	Time      time.Time
	Departure bool
	Products  map[Product]bool
	WalkSpeed WalkSpeed

	// LaterCursor holds the wire field ctxScrF, EarlierCursor ctxScrB.
	LaterCursor   string
	EarlierCursor string
}

func (c *CursorContext) CanQueryEarlier() bool { return c.EarlierCursor != "" }

func (c *CursorContext) CanQueryLater() bool { return c.LaterCursor != "" }

// Cursor returns the continuation token for the requested direction.
func (c *CursorContext) Cursor(later bool) string {
	if later {
		return c.LaterCursor
	}
	return c.EarlierCursor
}
