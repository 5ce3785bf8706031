package trim

// Curve returns the decision for every wind code from 0 to MaxCode.
func (m *Mapper) Curve() []Decision {
	curve := make([]Decision, 0, Codes)
	for w := 0; w < Codes; w++ {
		curve = append(curve, m.Decide(Wind(w)))
	}
	return curve
}

// Segment is a contiguous run of wind codes sharing one regime and phase.
type Segment struct {
	Regime    Regime
	Downwind  Downwind
	From, To  Wind  // inclusive
	PulseFrom Pulse // pulse at From
	PulseTo   Pulse // pulse at To
}

// Segments splits the curve into regime segments in wind order. In irons
// appears twice, at both ends of the range.
func (m *Mapper) Segments() []Segment {
	var segs []Segment
	for _, d := range m.Curve() {
		n := len(segs)
		if n > 0 && segs[n-1].Regime == d.Regime && segs[n-1].Downwind == d.Downwind {
			segs[n-1].To = d.Wind
			segs[n-1].PulseTo = d.Pulse
			continue
		}
		segs = append(segs, Segment{
			Regime:    d.Regime,
			Downwind:  d.Downwind,
			From:      d.Wind,
			To:        d.Wind,
			PulseFrom: d.Pulse,
			PulseTo:   d.Pulse,
		})
	}
	return segs
}

// PulseRange returns the smallest and largest pulse over the whole curve.
func (m *Mapper) PulseRange() (lo, hi Pulse) {
	lo, hi = m.ApparentCentre(), m.ApparentCentre()
	for _, d := range m.Curve() {
		if d.Pulse < lo {
			lo = d.Pulse
		}
		if d.Pulse > hi {
			hi = d.Pulse
		}
	}
	return lo, hi
}
