package routing

import "time"

// AgeBand classifies how long an order has been waiting.
type AgeBand int

const (
	BandNominal  AgeBand = iota // < 5 min
	BandWarning                 // 5-10 min
	BandCritical                // >= 10 min
)

func (b AgeBand) String() string {
	switch b {
	case BandWarning:
		return "warning"
	case BandCritical:
		return "critical"
	default:
		return "nominal"
	}
}

const (
	warningAfter  = 5 * time.Minute
	criticalAfter = 10 * time.Minute
)

// BandFor is a pure function of now - createdAt. Long-lived kiosk displays
// recompute it on a coarse timer rather than per render.
func BandFor(now, createdAt time.Time) AgeBand {
	age := now.Sub(createdAt)
	switch {
	case age >= criticalAfter:
		return BandCritical
	case age >= warningAfter:
		return BandWarning
	default:
		return BandNominal
	}
}

// RefreshInterval is the coarse re-banding cadence for kiosk displays.
const RefreshInterval = 30 * time.Second
