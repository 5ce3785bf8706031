package trim

// Regime is the sailing regime selected by the apparent wind.
type Regime uint8

const (
	// InIrons: wind too close to the bow to sail, boom centred.
	InIrons Regime = iota
	// PortTack: sail interpolated from centre out to the port run position.
	PortTack
	// DownwindRunOrGybe: running downwind, see Downwind for the phase.
	DownwindRunOrGybe
	// StarboardTack: sail interpolated from the starboard run position back to centre.
	StarboardTack
)

// Regimes lists every regime in wind order.
var Regimes = []Regime{InIrons, PortTack, DownwindRunOrGybe, StarboardTack}

func (r Regime) String() string {
	switch r {
	case InIrons:
		return "in irons"
	case PortTack:
		return "port tack"
	case DownwindRunOrGybe:
		return "downwind"
	case StarboardTack:
		return "starboard tack"
	}
	return "unknown"
}

// Downwind is the phase inside the DownwindRunOrGybe regime.
type Downwind uint8

const (
	// NotDownwind is reported for winds outside the downwind regime.
	NotDownwind Downwind = iota
	PortRun
	Gybe
	StarboardRun
)

func (d Downwind) String() string {
	switch d {
	case NotDownwind:
		return "-"
	case PortRun:
		return "port run"
	case Gybe:
		return "gybe"
	case StarboardRun:
		return "starboard run"
	}
	return "unknown"
}

// Classify returns the regime for an apparent wind code.
// The four intervals partition [0, MaxCode]; codes above MaxCode are in irons.
func Classify(w Wind) Regime {
	switch {
	case w <= BoundaryIrons || w > BoundaryIronsStbd:
		return InIrons
	case w <= BoundaryPortRun:
		return PortTack
	case w <= BoundaryStbdTack:
		return DownwindRunOrGybe
	default:
		return StarboardTack
	}
}

// ClassifyDownwind returns the downwind phase, or NotDownwind when the wind
// is in any other regime.
func ClassifyDownwind(w Wind) Downwind {
	if Classify(w) != DownwindRunOrGybe {
		return NotDownwind
	}
	switch {
	case w <= BoundaryGybe:
		return PortRun
	case w <= BoundaryStbdRun:
		return Gybe
	default:
		return StarboardRun
	}
}
