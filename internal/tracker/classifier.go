package tracker

// Classifier derives the descending-phase signal from the knee angle trend.
// It carries a small hysteresis so single-frame jitter does not open or
// close phases.
type Classifier struct {
	// Hysteresis is the minimum angle change, in degrees, treated as real
	// movement.
	Hysteresis float64

	prev       float64
	hasPrev    bool
	descending bool
}

// NewClassifier returns a classifier with the given hysteresis.
func NewClassifier(hysteresis float64) *Classifier {
	return &Classifier{Hysteresis: hysteresis}
}

// Observe consumes the next frame's knee angle (nil when unknown) and
// reports whether the subject is descending. Unknown angles hold the
// current state.
func (c *Classifier) Observe(kneeAngle *float64) bool {
	if kneeAngle == nil {
		return c.descending
	}
	angle := *kneeAngle
	if !c.hasPrev {
		c.prev = angle
		c.hasPrev = true
		return c.descending
	}

	delta := angle - c.prev
	switch {
	case delta < -c.Hysteresis:
		c.descending = true
		c.prev = angle
	case delta > c.Hysteresis:
		c.descending = false
		c.prev = angle
	}
	return c.descending
}
