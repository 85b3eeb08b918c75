package snap

import "math"

// Session is the state of one drag, from press to release.
type Session struct {
	// OffsetX and OffsetY are the pointer position inside the drag handle at press.
	OffsetX int
	OffsetY int
	// RestorePending is set when the window was maximized at press; the
	// first move restores it.
	RestorePending bool

	// Monitor is the monitor under the pointer.
	Monitor    Monitor
	HasMonitor bool
	// DefaultMonitor is where the last snap preview was shown.
	DefaultMonitor    Monitor
	HasDefaultMonitor bool

	Zone Zone

	LastX int
	LastY int
}

// newSession records the grab offset. Pressing a maximized window scales the
// x offset down by divisor so the restored window is regrabbed under the
// pointer proportionally.
func newSession(p Pointer, maximized bool, divisor float64) *Session {
	s := &Session{
		OffsetX: p.EventX,
		OffsetY: p.EventY,
		LastX:   p.RootX,
		LastY:   p.RootY,
	}
	if maximized {
		if divisor > 0 {
			s.OffsetX = int(math.Floor(float64(p.EventX) / divisor))
		}
		s.RestorePending = true
		s.Zone = ZoneRestore
	}
	return s
}

// windowOrigin returns where the window goes for a pointer at (rootX, rootY).
func (s *Session) windowOrigin(rootX, rootY, xAdjust, yAdjust int) (int, int) {
	return rootX - s.OffsetX - xAdjust, rootY - s.OffsetY - yAdjust
}
