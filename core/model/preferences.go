package model

// DriverPreferences carries the per-driver knobs the recommendation
// scorer honours.
type DriverPreferences struct {
	PreferCovered      bool
	NeedEVCharging     bool
	NeedHandicapAccess bool

	// MaxWalkMeters is the longest acceptable walk from lot to
	// destination. Zero means no limit.
	MaxWalkMeters float64
}
