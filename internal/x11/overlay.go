package x11

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// OverlayStyle controls how the snap preview is painted.
type OverlayStyle struct {
	Fill        uint32
	Border      uint32
	BorderWidth int
	// Margin insets the painted rectangle from the requested geometry.
	Margin int
	// MaxOpacity is the window opacity at full preview opacity.
	MaxOpacity float64
}

// Overlay is a single override-redirect window used as the snap preview.
// Its methods may be called from timer goroutines.
type Overlay struct {
	mu     sync.Mutex
	conn   *Connection
	window xproto.Window
	style  OverlayStyle
	mapped bool
	closed bool
}

// NewOverlay creates the preview window unmapped.
func (c *Connection) NewOverlay(style OverlayStyle) (*Overlay, error) {
	conn := c.XUtil.Conn()
	screen := c.XUtil.Screen()

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return nil, err
	}

	// Value list order follows the bit positions of the mask (low to high).
	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		wid,
		c.Root,
		0, 0,
		1, 1,
		uint16(style.BorderWidth),
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwBackPixel|xproto.CwBorderPixel|xproto.CwOverrideRedirect,
		[]uint32{style.Fill, style.Border, 1},
	).Check()
	if err != nil {
		return nil, fmt.Errorf("create overlay window: %w", err)
	}

	o := &Overlay{conn: c, window: wid, style: style}
	if err := ewmh.WmWindowOpacitySet(c.XUtil, wid, 0); err != nil {
		xproto.DestroyWindow(conn, wid)
		return nil, fmt.Errorf("set overlay opacity: %w", err)
	}
	if c.shapeReady {
		if err := clearInputShape(c, wid); err != nil {
			xproto.DestroyWindow(conn, wid)
			return nil, fmt.Errorf("make overlay click-through: %w", err)
		}
	}
	return o, nil
}

// clearInputShape sets an empty input region so pointer events fall through
// to whatever is below the window.
func clearInputShape(c *Connection, wid xproto.Window) error {
	return shape.RectanglesChecked(c.XUtil.Conn(), shape.SoSet, shape.SkInput,
		xproto.ClipOrderingUnsorted, wid, 0, 0, nil).Check()
}

// Window returns the preview window ID.
func (o *Overlay) Window() xproto.Window { return o.window }

// SetStyle repaints the overlay with new colors and spacing. Geometry
// changes apply on the next SetGeometry.
func (o *Overlay) SetStyle(style OverlayStyle) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.style = style
	conn := o.conn.XUtil.Conn()
	xproto.ChangeWindowAttributes(conn, o.window, xproto.CwBackPixel|xproto.CwBorderPixel,
		[]uint32{style.Fill, style.Border})
	xproto.ConfigureWindow(conn, o.window, xproto.ConfigWindowBorderWidth,
		[]uint32{uint32(style.BorderWidth)})
	xproto.ClearArea(conn, false, o.window, 0, 0, 0, 0)
}

// SetGeometry places the overlay over the given root rectangle.
func (o *Overlay) SetGeometry(x, y, width, height int) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil
	}

	ix, iy, iw, ih := paintedGeometry(x, y, width, height, o.style)
	return xproto.ConfigureWindowChecked(
		o.conn.XUtil.Conn(),
		o.window,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|xproto.ConfigWindowStackMode,
		[]uint32{
			uint32(int32(ix)),
			uint32(int32(iy)),
			uint32(iw),
			uint32(ih),
			xproto.StackModeAbove,
		},
	).Check()
}

// paintedGeometry insets the requested rect by the margin and leaves room for
// the X border, which is drawn outside the window. Width and height are at
// least 1.
func paintedGeometry(x, y, width, height int, style OverlayStyle) (int, int, int, int) {
	ix := x + style.Margin
	iy := y + style.Margin
	iw := width - 2*style.Margin - 2*style.BorderWidth
	ih := height - 2*style.Margin - 2*style.BorderWidth
	if iw < 1 {
		iw = 1
	}
	if ih < 1 {
		ih = 1
	}
	return ix, iy, iw, ih
}

// SetOpacity sets the preview opacity in [0,1], scaled by MaxOpacity.
func (o *Overlay) SetOpacity(opacity float64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil
	}
	return ewmh.WmWindowOpacitySet(o.conn.XUtil, o.window, windowOpacity(opacity, o.style.MaxOpacity))
}

func windowOpacity(opacity, maxOpacity float64) float64 {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	return opacity * maxOpacity
}

// Show maps and raises the overlay.
func (o *Overlay) Show() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || o.mapped {
		return nil
	}
	conn := o.conn.XUtil.Conn()
	if err := xproto.MapWindowChecked(conn, o.window).Check(); err != nil {
		return err
	}
	xproto.ConfigureWindow(conn, o.window, xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove})
	o.mapped = true
	return nil
}

// Hide unmaps the overlay without destroying it.
func (o *Overlay) Hide() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || !o.mapped {
		return nil
	}
	o.mapped = false
	return xproto.UnmapWindowChecked(o.conn.XUtil.Conn(), o.window).Check()
}

// Close destroys the overlay window.
func (o *Overlay) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil
	}
	o.closed = true
	o.mapped = false
	return xproto.DestroyWindowChecked(o.conn.XUtil.Conn(), o.window).Check()
}
