package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

const (
	stateMaxVert = "_NET_WM_STATE_MAXIMIZED_VERT"
	stateMaxHorz = "_NET_WM_STATE_MAXIMIZED_HORZ"

	// sourceIndication tells the window manager the request comes from a
	// pager or direct user action.
	sourceIndication = 2
)

// MoveWindow moves a top-level window so its frame origin is at (x, y).
func (c *Connection) MoveWindow(windowID xproto.Window, x, y int) error {
	if err := ewmh.MoveWindow(c.XUtil, windowID, x, y); err != nil {
		// Fallback to direct window manipulation
		xwindow.New(c.XUtil, windowID).Move(x, y)
	}
	return nil
}

// MoveResizeWindow moves and resizes a window to the specified geometry
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid size %dx%d", width, height)
	}
	if err := ewmh.MoveresizeWindow(c.XUtil, windowID, x, y, width, height); err != nil {
		xwindow.New(c.XUtil, windowID).MoveResize(x, y, width, height)
	}
	return nil
}

// MaximizeWindow asks the window manager to maximize the window in both directions.
func (c *Connection) MaximizeWindow(windowID xproto.Window) error {
	err := ewmh.WmStateReqExtra(c.XUtil, windowID, ewmh.StateAdd, stateMaxVert, stateMaxHorz, sourceIndication)
	if err != nil {
		return fmt.Errorf("request maximize: %w", err)
	}
	return nil
}

// RestoreWindow removes the maximized state if present.
func (c *Connection) RestoreWindow(windowID xproto.Window) error {
	maximized, err := c.IsMaximized(windowID)
	if err != nil {
		return err
	}
	if !maximized {
		return nil
	}
	err = ewmh.WmStateReqExtra(c.XUtil, windowID, ewmh.StateRemove, stateMaxVert, stateMaxHorz, sourceIndication)
	if err != nil {
		return fmt.Errorf("request restore: %w", err)
	}
	return nil
}

// IsMaximized reports whether the window is maximized both vertically and
// horizontally.
func (c *Connection) IsMaximized(windowID xproto.Window) (bool, error) {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return false, err
	}
	return isMaximized(states), nil
}

func isMaximized(states []string) bool {
	hasMaxH := false
	hasMaxV := false
	for _, state := range states {
		switch state {
		case stateMaxHorz:
			hasMaxH = true
		case stateMaxVert:
			hasMaxV = true
		}
	}
	return hasMaxH && hasMaxV
}

// WindowGeometry returns the frame geometry of a top-level window in root
// coordinates.
func (c *Connection) WindowGeometry(windowID xproto.Window) (x, y, width, height int, err error) {
	geom, err := xwindow.New(c.XUtil, windowID).DecorGeometry()
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return geom.X(), geom.Y(), geom.Width(), geom.Height(), nil
}

// QueryPointer returns the pointer position in root coordinates.
func (c *Connection) QueryPointer() (x, y int, err error) {
	reply, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return 0, 0, err
	}
	return int(reply.RootX), int(reply.RootY), nil
}

// ActivateWindow asks the window manager to focus and raise windowID via
// _NET_ACTIVE_WINDOW, stamped with the last server time seen so focus
// stealing prevention accepts it. Message data must be plain ints:
// xevent.NewClientMessage type-asserts them.
func (c *Connection) ActivateWindow(windowID xproto.Window) error {
	atom, err := xprop.Atm(c.XUtil, "_NET_ACTIVE_WINDOW")
	if err != nil {
		return fmt.Errorf("intern _NET_ACTIVE_WINDOW: %w", err)
	}
	current, err := ewmh.ActiveWindowGet(c.XUtil)
	if err != nil {
		current = 0
	}

	ev, err := xevent.NewClientMessage(32, windowID, atom,
		sourceIndication, int(c.XUtil.TimeGet()), int(current))
	if err != nil {
		return fmt.Errorf("build activate message: %w", err)
	}
	return xevent.SendRootEvent(c.XUtil, ev,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify)
}
