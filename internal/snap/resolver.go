package snap

import (
	"fmt"
	"sort"

	"github.com/1broseidon/aerosnap/internal/platform"
)

// Monitor is a display plus the height reserved along its bottom edge.
type Monitor struct {
	platform.Display
	Reserved int
}

// Usable returns the monitor bounds with the reserved height removed from the bottom.
func (m Monitor) Usable() platform.Rect {
	r := m.Bounds
	reserved := m.Reserved
	if reserved < 0 {
		reserved = 0
	}
	r.Height -= reserved
	if r.Height < 0 {
		r.Height = 0
	}
	if r.Width < 0 {
		r.Width = 0
	}
	return r
}

// Resolve maps a horizontal pointer position to a display.
//
// Displays are ordered by horizontal origin and partitioned into half-open
// spans [origin_i, origin_i+1). The rightmost span is unbounded and a pointer
// left of every display clamps to the leftmost one.
func Resolve(pointerX int, displays []platform.Display) (platform.Display, error) {
	if len(displays) == 0 {
		return platform.Display{}, fmt.Errorf("%w: %w", ErrMonitorResolution, ErrNoDisplays)
	}

	sorted := make([]platform.Display, len(displays))
	copy(sorted, displays)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Bounds.X < sorted[j].Bounds.X
	})

	idx := 0
	for i, d := range sorted {
		if d.Bounds.X > pointerX {
			break
		}
		idx = i
	}
	return sorted[idx], nil
}

// sharedEdges reports whether another display touches d along its left or
// right edge with some vertical overlap.
func sharedEdges(d platform.Display, displays []platform.Display) (left, right bool) {
	for _, o := range displays {
		if o.ID == d.ID && o.Bounds == d.Bounds {
			continue
		}
		if o.Bounds.Y >= d.Bounds.Bottom() || d.Bounds.Y >= o.Bounds.Bottom() {
			continue
		}
		if o.Bounds.Right() == d.Bounds.X {
			left = true
		}
		if o.Bounds.X == d.Bounds.Right() {
			right = true
		}
	}
	return left, right
}
