package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Display describes a physical display.
type Display struct {
	ID      int
	Name    string
	Bounds  Rect
	Primary bool
}

// Backend abstracts window-system operations needed while dragging a window.
type Backend interface {
	Displays() ([]Display, error)
	// ReservedHeight returns the height of the reserved area (taskbar/dock)
	// along the bottom of the display.
	ReservedHeight(display Display) (int, error)
	Pointer() (x, y int, err error)
	WindowBounds(windowID WindowID) (Rect, error)
	Move(windowID WindowID, x, y int) error
	MoveResize(windowID WindowID, bounds Rect) error
	Maximize(windowID WindowID) error
	Restore(windowID WindowID) error
	IsMaximized(windowID WindowID) (bool, error)
	// Activate focuses and raises a window.
	Activate(windowID WindowID) error
}

// WindowHandle binds a Backend to a single top-level window.
type WindowHandle struct {
	backend Backend
	id      WindowID
}

// NewWindowHandle returns a handle for windowID on backend.
func NewWindowHandle(backend Backend, windowID WindowID) *WindowHandle {
	return &WindowHandle{backend: backend, id: windowID}
}

// ID returns the wrapped window ID.
func (w *WindowHandle) ID() WindowID { return w.id }

// Bounds returns the window's frame geometry.
func (w *WindowHandle) Bounds() (Rect, error) { return w.backend.WindowBounds(w.id) }

func (w *WindowHandle) Move(x, y int) error { return w.backend.Move(w.id, x, y) }

func (w *WindowHandle) MoveResize(bounds Rect) error { return w.backend.MoveResize(w.id, bounds) }

func (w *WindowHandle) Maximize() error { return w.backend.Maximize(w.id) }

func (w *WindowHandle) Restore() error { return w.backend.Restore(w.id) }

func (w *WindowHandle) IsMaximized() (bool, error) { return w.backend.IsMaximized(w.id) }

func (w *WindowHandle) Activate() error { return w.backend.Activate(w.id) }
