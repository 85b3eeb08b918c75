package snap

import "github.com/1broseidon/aerosnap/internal/platform"

// band is one edge hot zone. It arms when the pointer touches the exact
// edge and stays armed until the pointer leaves the band.
type band struct {
	sticky bool
}

// update feeds the pointer coordinate along the band's axis. inward is +1
// when the band extends toward larger coordinates from edge, -1 otherwise.
func (b *band) update(pos, edge, inward, spacing int) bool {
	depth := (pos - edge) * inward
	inBand := depth >= 0 && depth <= spacing
	if depth == 0 {
		b.sticky = true
	}
	if !inBand {
		b.sticky = false
	}
	return b.sticky && inBand
}

// Classifier maps pointer positions to snap zones. It is stateful: each band
// carries a sticky latch, so feed it every move of a drag in order.
type Classifier struct {
	EdgeSpacing int
	DeadZone    int
	HalfSnap    bool

	top   band
	left  band
	right band

	// seamLeft and seamRight mark monitor edges shared with a neighboring
	// display. Side bands never arm on a seam.
	seamLeft  bool
	seamRight bool
}

// SetSeams records which side edges of the current monitor border another
// display.
func (c *Classifier) SetSeams(left, right bool) {
	c.seamLeft = left
	c.seamRight = right
}

// Reset clears every latch.
func (c *Classifier) Reset() {
	c.top = band{}
	c.left = band{}
	c.right = band{}
}

// Armed reports whether the top band latch is set.
func (c *Classifier) Armed() bool { return c.top.sticky }

// Classify returns the zone for a pointer at (x, y) on a monitor whose
// usable area is usable.
func (c *Classifier) Classify(x, y int, usable platform.Rect) Zone {
	inTop := c.top.update(y, usable.Y, 1, c.EdgeSpacing)

	inLeft, inRight := false, false
	if c.HalfSnap && !c.seamLeft {
		inLeft = c.left.update(x, usable.X, 1, c.EdgeSpacing)
	} else {
		c.left.sticky = false
	}
	if c.HalfSnap && !c.seamRight {
		inRight = c.right.update(x, usable.Right()-1, -1, c.EdgeSpacing)
	} else {
		c.right.sticky = false
	}

	if inTop {
		if usable.X+c.DeadZone < x && x < usable.Right()-c.DeadZone {
			return ZoneFull
		}
		// Top corners are left unassigned.
		return ZoneNone
	}

	// Side bands only apply below the top band.
	if y <= usable.Y+c.EdgeSpacing || y >= usable.Bottom() {
		return ZoneNone
	}
	switch {
	case inLeft:
		return ZoneLeftHalf
	case inRight:
		return ZoneRightHalf
	}
	return ZoneNone
}
