package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Monitor represents a physical display
type Monitor struct {
	ID      int
	Name    string
	X       int
	Y       int
	Width   int
	Height  int
	Primary bool
}

func (m Monitor) right() int  { return m.X + m.Width }
func (m Monitor) bottom() int { return m.Y + m.Height }

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := c.initRandr(); err != nil {
		return nil, err
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var primary randr.Output
	if reply, err := randr.GetOutputPrimary(c.XUtil.Conn(), c.Root).Reply(); err == nil {
		primary = reply.Output
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		outputName := fmt.Sprintf("Monitor%d", i)
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			outputName = string(outputInfo.Name)
		}

		isPrimary := false
		for _, out := range crtcInfo.Outputs {
			if primary != 0 && out == primary {
				isPrimary = true
			}
		}

		monitors = append(monitors, Monitor{
			ID:      i,
			Name:    outputName,
			X:       int(crtcInfo.X),
			Y:       int(crtcInfo.Y),
			Width:   int(crtcInfo.Width),
			Height:  int(crtcInfo.Height),
			Primary: isPrimary,
		})
	}

	if len(monitors) == 0 {
		return nil, fmt.Errorf("no active monitors")
	}
	return monitors, nil
}

// OnScreenChange calls fn whenever RandR reports a screen configuration
// change, e.g. a monitor was plugged, unplugged or rotated. fn runs on the
// event loop goroutine.
func (c *Connection) OnScreenChange(fn func()) error {
	if err := c.initRandr(); err != nil {
		return err
	}
	err := randr.SelectInputChecked(c.XUtil.Conn(), c.Root,
		randr.NotifyMaskScreenChange|randr.NotifyMaskCrtcChange|randr.NotifyMaskOutputChange).Check()
	if err != nil {
		return fmt.Errorf("randr select input: %w", err)
	}

	xevent.HookFun(func(xu *xgbutil.XUtil, event interface{}) bool {
		switch event.(type) {
		case randr.ScreenChangeNotifyEvent, randr.NotifyEvent:
			fn()
		}
		return true
	}).Connect(c.XUtil)
	return nil
}

// ReservedBottom returns the height reserved by docks and panels along the
// bottom edge of monitor. Dock struts are preferred; _NET_WORKAREA is the
// fallback for window managers that only publish a work area.
func (c *Connection) ReservedBottom(monitor Monitor) (int, error) {
	if reserved, ok := c.dockReservedBottom(monitor); ok {
		return reserved, nil
	}

	workArea, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("read _NET_WORKAREA: %w", err)
	}
	if len(workArea) == 0 {
		return 0, nil
	}

	desktopIndex := 0
	if currentDesktop, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil {
		if int(currentDesktop) >= 0 && int(currentDesktop) < len(workArea) {
			desktopIndex = int(currentDesktop)
		}
	}
	return workareaReservedBottom(monitor, workArea[desktopIndex]), nil
}

func (c *Connection) dockReservedBottom(monitor Monitor) (int, bool) {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return 0, false
	}
	rootWidth := int(rootGeom.Width)
	rootHeight := int(rootGeom.Height)

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return 0, false
	}

	var struts []ewmh.WmStrutPartial
	for _, windowID := range clients {
		types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
		if err != nil || !hasType(types, "_NET_WM_WINDOW_TYPE_DOCK") {
			continue
		}

		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, windowID); err == nil {
			struts = append(struts, *sp)
			continue
		}

		// Some docks only set _NET_WM_STRUT (no partial ranges).
		if s, err := ewmh.WmStrutGet(c.XUtil, windowID); err == nil {
			struts = append(struts, fullWidthStrut(s, rootWidth, rootHeight))
		}
	}
	if len(struts) == 0 {
		return 0, false
	}
	return strutReservedBottom(monitor, rootHeight, struts), true
}

func hasType(types []string, want string) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}

func fullWidthStrut(s *ewmh.WmStrut, rootWidth, rootHeight int) ewmh.WmStrutPartial {
	return ewmh.WmStrutPartial{
		Left:       s.Left,
		Right:      s.Right,
		Top:        s.Top,
		Bottom:     s.Bottom,
		LeftEndY:   uint(rootHeight - 1),
		RightEndY:  uint(rootHeight - 1),
		TopEndX:    uint(rootWidth - 1),
		BottomEndX: uint(rootWidth - 1),
	}
}

// strutReservedBottom returns how far bottom struts reach into monitor.
// Bottom struts are measured from the bottom of the root window.
func strutReservedBottom(monitor Monitor, rootHeight int, struts []ewmh.WmStrutPartial) int {
	reserved := 0
	for _, sp := range struts {
		if sp.Bottom == 0 {
			continue
		}
		x1 := int(sp.BottomStartX)
		x2 := int(sp.BottomEndX) + 1
		y1 := rootHeight - int(sp.Bottom)
		y2 := rootHeight

		isect := intersectionSize(monitor.X, monitor.Y, monitor.right(), monitor.bottom(), x1, y1, x2, y2)
		if isect.w > 0 && isect.h > 0 {
			reserved = max(reserved, isect.h)
		}
	}
	return reserved
}

// workareaReservedBottom returns the rows of monitor below the work area.
func workareaReservedBottom(monitor Monitor, wa ewmh.Workarea) int {
	waX1, waY1 := wa.X, wa.Y
	waX2, waY2 := wa.X+int(wa.Width), wa.Y+int(wa.Height)

	isect := intersectionSize(monitor.X, monitor.Y, monitor.right(), monitor.bottom(), waX1, waY1, waX2, waY2)
	if isect.w <= 0 || isect.h <= 0 {
		return 0
	}
	if waY2 >= monitor.bottom() {
		return 0
	}
	return monitor.bottom() - max(waY2, monitor.Y)
}

type intersection struct {
	w int
	h int
}

func intersectionSize(ax1, ay1, ax2, ay2, bx1, by1, bx2, by2 int) intersection {
	x1 := max(ax1, bx1)
	y1 := max(ay1, by1)
	x2 := min(ax2, bx2)
	y2 := min(ay2, by2)

	if x2 <= x1 || y2 <= y1 {
		return intersection{}
	}
	return intersection{w: x2 - x1, h: y2 - y1}
}
