package pt

// Optimize selects what a trip search should minimize.
type Optimize int

const (
	OptimizeLeastDuration Optimize = iota
	OptimizeLeastChanges
	OptimizeLeastWalking
)

// WalkSpeed is the walking-speed preference of a trip search.
type WalkSpeed int

const (
	WalkSpeedNormal WalkSpeed = iota
	WalkSpeedSlow
	WalkSpeedFast
)

func (s WalkSpeed) String() string {
	switch s {
	case WalkSpeedSlow:
		return "slow"
	case WalkSpeedFast:
		return "fast"
	}
	return "normal"
}

// Accessibility is the barrier-freedom preference of a trip search.
type Accessibility int

const (
	AccessibilityNeutral Accessibility = iota
	AccessibilityLimited
	AccessibilityBarrierFree
)

// TripOptions are the optional parameters of a trip search. A nil
// products set means the provider default. Accessibility and Bike only
// affect request construction upstream.
type TripOptions struct {
	Products      map[Product]bool
	Optimize      Optimize
	WalkSpeed     WalkSpeed
	Accessibility Accessibility
	Bike          bool
}

// Capability names one operation a provider supports.
type Capability int

const (
	CapabilitySuggestLocations Capability = iota
	CapabilityNearbyLocations
	CapabilityDepartures
	CapabilityTrips
	CapabilityTripsVia
)
