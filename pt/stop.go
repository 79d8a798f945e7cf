package pt

import (
	"regexp"
	"strings"
	"time"
)

// Position is a platform, track, bay or similar.
type Position struct {
	Name    string
	Section string
}

var platformPrefix = regexp.MustCompile(`(?i)Gleis\s*(.*?)\s*$`)

// ParsePosition normalizes a platform string, stripping the localized
// "Gleis" prefix the XML family adds.
func ParsePosition(s string) *Position {
	if s == "" {
		return nil
	}
	if m := platformPrefix.FindStringSubmatch(s); m != nil && m[1] != "" {
		s = m[1]
	}
	return &Position{Name: strings.TrimSpace(s)}
}

func (p Position) String() string {
	if p.Section != "" {
		return p.Name + p.Section
	}
	return p.Name
}

// Stop is a location plus up to four independent time/position pairs.
// A zero time means the backend did not supply one.
type Stop struct {
	Location Location

	PlannedArrivalTime        time.Time
	PredictedArrivalTime      time.Time
	PlannedArrivalPosition    *Position
	PredictedArrivalPosition  *Position
	ArrivalCancelled          bool

	PlannedDepartureTime       time.Time
	PredictedDepartureTime     time.Time
	PlannedDeparturePosition   *Position
	PredictedDeparturePosition *Position
	DepartureCancelled         bool
}

// ArrivalTime prefers the predicted time over the planned one.
func (s Stop) ArrivalTime() time.Time {
	if !s.PredictedArrivalTime.IsZero() {
		return s.PredictedArrivalTime
	}
	return s.PlannedArrivalTime
}

// DepartureTime prefers the predicted time over the planned one.
func (s Stop) DepartureTime() time.Time {
	if !s.PredictedDepartureTime.IsZero() {
		return s.PredictedDepartureTime
	}
	return s.PlannedDepartureTime
}

func (s Stop) ArrivalTimePredicted() bool   { return !s.PredictedArrivalTime.IsZero() }
func (s Stop) DepartureTimePredicted() bool { return !s.PredictedDepartureTime.IsZero() }

// ArrivalDelay returns the delay, or 0 when either time is missing.
func (s Stop) ArrivalDelay() time.Duration {
	if s.PlannedArrivalTime.IsZero() || s.PredictedArrivalTime.IsZero() {
		return 0
	}
	return s.PredictedArrivalTime.Sub(s.PlannedArrivalTime)
}

// DepartureDelay returns the delay, or 0 when either time is missing.
func (s Stop) DepartureDelay() time.Duration {
	if s.PlannedDepartureTime.IsZero() || s.PredictedDepartureTime.IsZero() {
		return 0
	}
	return s.PredictedDepartureTime.Sub(s.PlannedDepartureTime)
}

func (s Stop) ArrivalPosition() *Position {
	if s.PredictedArrivalPosition != nil {
		return s.PredictedArrivalPosition
	}
	return s.PlannedArrivalPosition
}

func (s Stop) DeparturePosition() *Position {
	if s.PredictedDeparturePosition != nil {
		return s.PredictedDeparturePosition
	}
	return s.PlannedDeparturePosition
}

// MinTime is the earliest time occurring at this stop.
func (s Stop) MinTime() time.Time {
	if s.PlannedDepartureTime.IsZero() ||
		(!s.PredictedDepartureTime.IsZero() && s.PredictedDepartureTime.Before(s.PlannedDepartureTime)) {
		return s.PredictedDepartureTime
	}
	return s.PlannedDepartureTime
}

// MaxTime is the latest time occurring at this stop.
func (s Stop) MaxTime() time.Time {
	if s.PlannedArrivalTime.IsZero() ||
		(!s.PredictedArrivalTime.IsZero() && s.PredictedArrivalTime.After(s.PlannedArrivalTime)) {
		return s.PredictedArrivalTime
	}
	return s.PlannedArrivalTime
}
