package snap

import "github.com/1broseidon/aerosnap/internal/platform"

// Zone is the snap region the pointer currently targets.
type Zone int

const (
	ZoneNone Zone = iota
	// ZoneRestore marks a drag that began on a maximized window; the window
	// is restored on the first move. It never has a target rectangle.
	ZoneRestore
	ZoneFull
	ZoneLeftHalf
	ZoneRightHalf
)

func (z Zone) String() string {
	switch z {
	case ZoneNone:
		return "none"
	case ZoneRestore:
		return "restore"
	case ZoneFull:
		return "full"
	case ZoneLeftHalf:
		return "left-half"
	case ZoneRightHalf:
		return "right-half"
	default:
		return "unknown"
	}
}

// Snaps reports whether releasing in z commits a placement.
func (z Zone) Snaps() bool {
	return z == ZoneFull || z == ZoneLeftHalf || z == ZoneRightHalf
}

// TargetRect returns the geometry a window occupies when snapped to z.
func TargetRect(z Zone, usable platform.Rect) (platform.Rect, bool) {
	switch z {
	case ZoneFull:
		return usable, true
	case ZoneLeftHalf:
		return platform.Rect{X: usable.X, Y: usable.Y, Width: usable.Width / 2, Height: usable.Height}, true
	case ZoneRightHalf:
		half := usable.Width / 2
		return platform.Rect{X: usable.X + half, Y: usable.Y, Width: usable.Width - half, Height: usable.Height}, true
	default:
		return platform.Rect{}, false
	}
}

// SeedRect is the small pin, centered along the top of usable, that the
// overlay grows out of.
func SeedRect(usable platform.Rect, width, height int) platform.Rect {
	if width > usable.Width {
		width = usable.Width
	}
	if height > usable.Height {
		height = usable.Height
	}
	return platform.Rect{
		X:      usable.X + (usable.Width-width)/2,
		Y:      usable.Y,
		Width:  width,
		Height: height,
	}
}
