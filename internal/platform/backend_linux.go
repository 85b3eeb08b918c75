//go:build linux

package platform

import (
	"fmt"
	"sort"

	"github.com/1broseidon/aerosnap/internal/config"
	"github.com/1broseidon/aerosnap/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh
// X11 connection to display ("" means $DISPLAY).
func NewLinuxBackendFromDisplay(display string) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Connection returns the underlying X11 connection.
func (b *LinuxBackend) Connection() *x11.Connection {
	if b == nil {
		return nil
	}
	return b.conn
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// Quit stops EventLoop.
func (b *LinuxBackend) Quit() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Displays returns all active displays ordered by ID.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, displayFromMonitor(m))
	}

	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})

	return displays, nil
}

// ReservedHeight returns the dock/panel height along the bottom of display.
func (b *LinuxBackend) ReservedHeight(display Display) (int, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}
	return conn.ReservedBottom(monitorFromDisplay(display))
}

// OnDisplaysChanged calls fn when the monitor layout changes.
func (b *LinuxBackend) OnDisplaysChanged(fn func()) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.OnScreenChange(fn)
}

// Pointer returns the pointer position in root coordinates.
func (b *LinuxBackend) Pointer() (int, int, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, 0, err
	}
	return conn.QueryPointer()
}

// WindowBounds returns the frame geometry of a window.
func (b *LinuxBackend) WindowBounds(windowID WindowID) (Rect, error) {
	conn, err := b.connection()
	if err != nil {
		return Rect{}, err
	}
	x, y, w, h, err := conn.WindowGeometry(xproto.Window(windowID))
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: x, Y: y, Width: w, Height: h}, nil
}

// Activate focuses and raises a window through the window manager.
func (b *LinuxBackend) Activate(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.ActivateWindow(xproto.Window(windowID))
}

// Move moves a window without resizing it.
func (b *LinuxBackend) Move(windowID WindowID, x, y int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MoveWindow(xproto.Window(windowID), x, y)
}

// MoveResize moves and resizes a window to the specified bounds.
func (b *LinuxBackend) MoveResize(windowID WindowID, bounds Rect) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}

	return conn.MoveResizeWindow(
		xproto.Window(windowID),
		bounds.X,
		bounds.Y,
		bounds.Width,
		bounds.Height,
	)
}

// Maximize asks the window manager to maximize a window.
func (b *LinuxBackend) Maximize(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MaximizeWindow(xproto.Window(windowID))
}

// Restore clears the maximized state of a window.
func (b *LinuxBackend) Restore(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.RestoreWindow(xproto.Window(windowID))
}

// IsMaximized reports whether a window is maximized.
func (b *LinuxBackend) IsMaximized(windowID WindowID) (bool, error) {
	conn, err := b.connection()
	if err != nil {
		return false, err
	}
	return conn.IsMaximized(xproto.Window(windowID))
}

// NewOverlay creates the snap preview surface styled from cfg.
func (b *LinuxBackend) NewOverlay(cfg config.OverlayConfig) (*OverlaySurface, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}
	style, err := overlayStyle(cfg)
	if err != nil {
		return nil, err
	}
	o, err := conn.NewOverlay(style)
	if err != nil {
		return nil, err
	}
	return &OverlaySurface{overlay: o}, nil
}

// OverlaySurface adapts an X11 overlay window to platform rectangles.
type OverlaySurface struct {
	overlay *x11.Overlay
}

// Restyle applies a reloaded overlay configuration.
func (s *OverlaySurface) Restyle(cfg config.OverlayConfig) error {
	style, err := overlayStyle(cfg)
	if err != nil {
		return err
	}
	s.overlay.SetStyle(style)
	return nil
}

func (s *OverlaySurface) SetGeometry(r Rect) error {
	return s.overlay.SetGeometry(r.X, r.Y, r.Width, r.Height)
}

func (s *OverlaySurface) SetOpacity(opacity float64) error { return s.overlay.SetOpacity(opacity) }

func (s *OverlaySurface) Show() error { return s.overlay.Show() }

func (s *OverlaySurface) Hide() error { return s.overlay.Hide() }

func (s *OverlaySurface) Close() error { return s.overlay.Close() }

func overlayStyle(cfg config.OverlayConfig) (x11.OverlayStyle, error) {
	fill, err := config.ParseColor(cfg.FillColor)
	if err != nil {
		return x11.OverlayStyle{}, fmt.Errorf("overlay fill: %w", err)
	}
	border, err := config.ParseColor(cfg.BorderColor)
	if err != nil {
		return x11.OverlayStyle{}, fmt.Errorf("overlay border: %w", err)
	}
	return x11.OverlayStyle{
		Fill:        fill,
		Border:      border,
		BorderWidth: cfg.BorderWidth,
		Margin:      cfg.Margin,
		MaxOpacity:  cfg.MaxOpacity,
	}, nil
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func displayFromMonitor(m x11.Monitor) Display {
	return Display{
		ID:   m.ID,
		Name: m.Name,
		Bounds: Rect{
			X:      m.X,
			Y:      m.Y,
			Width:  m.Width,
			Height: m.Height,
		},
		Primary: m.Primary,
	}
}

func monitorFromDisplay(d Display) x11.Monitor {
	return x11.Monitor{
		ID:      d.ID,
		Name:    d.Name,
		X:       d.Bounds.X,
		Y:       d.Bounds.Y,
		Width:   d.Bounds.Width,
		Height:  d.Bounds.Height,
		Primary: d.Primary,
	}
}
