package x11

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// DemoOptions describes the frameless demo window.
type DemoOptions struct {
	Title          string
	X, Y           int
	Width, Height  int
	TitleBarHeight int
	Background     uint32
	TitleBarColor  uint32
}

// DemoWindow is an undecorated top-level window with a custom title bar
// child. The title bar is the drag handle.
type DemoWindow struct {
	Frame    *xwindow.Window
	TitleBar *xwindow.Window

	destroyOnce sync.Once
}

// NewDemoWindow creates and maps the demo window. onClose runs when the
// window manager asks the window to close.
func (c *Connection) NewDemoWindow(opts DemoOptions, onClose func()) (*DemoWindow, error) {
	xu := c.XUtil

	frame, err := xwindow.Generate(xu)
	if err != nil {
		return nil, fmt.Errorf("generate frame window: %w", err)
	}
	err = frame.CreateChecked(c.Root, opts.X, opts.Y, opts.Width, opts.Height,
		xproto.CwBackPixel|xproto.CwEventMask,
		opts.Background, xproto.EventMaskStructureNotify)
	if err != nil {
		return nil, fmt.Errorf("create frame window: %w", err)
	}

	titleBar, err := xwindow.Generate(xu)
	if err != nil {
		frame.Destroy()
		return nil, fmt.Errorf("generate title bar: %w", err)
	}
	err = titleBar.CreateChecked(frame.Id, 0, 0, opts.Width, opts.TitleBarHeight,
		xproto.CwBackPixel, opts.TitleBarColor)
	if err != nil {
		frame.Destroy()
		return nil, fmt.Errorf("create title bar: %w", err)
	}

	if err := c.decorateDemo(frame, opts); err != nil {
		frame.Destroy()
		return nil, err
	}

	frame.WMGracefulClose(func(w *xwindow.Window) {
		if onClose != nil {
			onClose()
		}
	})

	// Keep the title bar as wide as the window across resizes and maximize.
	xevent.ConfigureNotifyFun(func(xu *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		titleBar.Resize(int(ev.Width), opts.TitleBarHeight)
	}).Connect(xu, frame.Id)

	titleBar.Map()
	frame.Map()

	return &DemoWindow{Frame: frame, TitleBar: titleBar}, nil
}

func (c *Connection) decorateDemo(frame *xwindow.Window, opts DemoOptions) error {
	xu := c.XUtil

	if err := ewmh.WmNameSet(xu, frame.Id, opts.Title); err != nil {
		return fmt.Errorf("set _NET_WM_NAME: %w", err)
	}
	if err := icccm.WmNameSet(xu, frame.Id, opts.Title); err != nil {
		return fmt.Errorf("set WM_NAME: %w", err)
	}
	if err := icccm.WmClassSet(xu, frame.Id, &icccm.WmClass{Instance: "aerosnap", Class: "Aerosnap"}); err != nil {
		return fmt.Errorf("set WM_CLASS: %w", err)
	}
	if err := icccm.WmProtocolsSet(xu, frame.Id, []string{"WM_DELETE_WINDOW"}); err != nil {
		return fmt.Errorf("set WM_PROTOCOLS: %w", err)
	}
	if err := ewmh.WmWindowTypeSet(xu, frame.Id, []string{"_NET_WM_WINDOW_TYPE_NORMAL"}); err != nil {
		return fmt.Errorf("set window type: %w", err)
	}

	hints := &icccm.NormalHints{
		Flags:  icccm.SizeHintUSPosition | icccm.SizeHintUSSize,
		X:      opts.X,
		Y:      opts.Y,
		Width:  uint(opts.Width),
		Height: uint(opts.Height),
	}
	if err := icccm.WmNormalHintsSet(xu, frame.Id, hints); err != nil {
		return fmt.Errorf("set normal hints: %w", err)
	}

	// No window manager decorations; the title bar child replaces them.
	mh := &motif.Hints{
		Flags:      motif.HintDecorations,
		Decoration: motif.DecorationNone,
	}
	if err := motif.WmHintsSet(xu, frame.Id, mh); err != nil {
		return fmt.Errorf("set motif hints: %w", err)
	}
	return nil
}

// Destroy unmaps and destroys the demo window. Later calls do nothing.
func (d *DemoWindow) Destroy() {
	if d == nil || d.Frame == nil {
		return
	}
	d.destroyOnce.Do(d.Frame.Destroy)
}
