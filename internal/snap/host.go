package snap

import (
	"time"

	"github.com/1broseidon/aerosnap/internal/platform"
)

// Window is the dragged top-level window.
type Window interface {
	Move(x, y int) error
	MoveResize(bounds platform.Rect) error
	Maximize() error
	Restore() error
	IsMaximized() (bool, error)
}

// Displays enumerates monitors and their reserved (taskbar) areas.
type Displays interface {
	Displays() ([]platform.Display, error)
	ReservedHeight(display platform.Display) (int, error)
}

// Surface is the translucent preview overlay. Opacity is in [0, 1].
type Surface interface {
	SetGeometry(r platform.Rect) error
	SetOpacity(opacity float64) error
	Show() error
	Hide() error
	Close() error
}

// Timer is a pending scheduled callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs one-shot callbacks and reports the current time.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}
