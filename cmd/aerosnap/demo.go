package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/1broseidon/aerosnap/internal/config"
	"github.com/1broseidon/aerosnap/internal/hotkeys"
	"github.com/1broseidon/aerosnap/internal/ipc"
	"github.com/1broseidon/aerosnap/internal/logging"
	"github.com/1broseidon/aerosnap/internal/platform"
	"github.com/1broseidon/aerosnap/internal/runtimepath"
	"github.com/1broseidon/aerosnap/internal/snap"
	"github.com/1broseidon/aerosnap/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
)

const titleBarHeight = 30

// titleBarHandle delivers button-1 drags on an X11 window to a snap
// PointerHandler.
type titleBarHandle struct {
	conn   *x11.Connection
	window xproto.Window
}

func (h titleBarHandle) Subscribe(ph snap.PointerHandler) (func(), error) {
	pointer := func(rootX, rootY, eventX, eventY int) snap.Pointer {
		return snap.Pointer{RootX: rootX, RootY: rootY, EventX: eventX, EventY: eventY}
	}
	return h.conn.BindDrag(h.window, x11.DragFuncs{
		Begin: func(rx, ry, ex, ey int) { ph.PointerPressed(pointer(rx, ry, ex, ey)) },
		Step:  func(rx, ry, ex, ey int) { ph.PointerMoved(pointer(rx, ry, ex, ey)) },
		End:   func(rx, ry, ex, ey int) { ph.PointerReleased(pointer(rx, ry, ex, ey)) },
	})
}

func runDemo(args []string) int {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "Config file path (default: ~/.config/aerosnap/config.yaml)")
	display := fs.String("display", "", "X display (default: config display or $DISPLAY)")
	halfSnap := fs.Bool("half-snap", false, "Enable left/right half snapping regardless of config")
	noWatch := fs.Bool("no-watch", false, "Do not reload the config file when it changes")
	noIPC := fs.Bool("no-ipc", false, "Do not listen for 'aerosnap ctl' commands")
	title := fs.String("title", "Aero Snap", "Window title")
	x := fs.Int("x", 0, "Initial x position (default: centered on the pointer's monitor)")
	y := fs.Int("y", 0, "Initial y position (default: centered on the pointer's monitor)")
	width := fs.Int("width", 640, "Initial width")
	height := fs.Int("height", 400, "Initial height")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: aerosnap demo [options]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open a frameless window with a custom title bar. Drag the title bar")
		fmt.Fprintln(os.Stderr, "to the top edge of a monitor to maximize it there.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	placed := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { placed[f.Name] = true })
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "demo takes no arguments")
		fs.Usage()
		return 2
	}
	if *width <= 0 || *height <= titleBarHeight {
		fmt.Fprintf(os.Stderr, "window must be wider than 0 and taller than %dpx\n", titleBarHeight)
		return 2
	}

	cfg, path, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	applyDisplayEnv(cfg, *display)
	if *halfSnap {
		cfg.HalfSnap = true
	}

	logger, err := logging.Init(cfg.Logging, logging.Options{Version: version, Command: "demo"})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer logger.Close()

	backend, err := platform.NewLinuxBackendFromDisplay(cfg.Display)
	if err != nil {
		logger.Error("failed to connect to display", "error", err)
		return 1
	}
	defer backend.Disconnect()

	if !placed["x"] || !placed["y"] {
		cx, cy, err := centerOnPointer(backend, *width, *height)
		if err != nil {
			logger.Debug("pointer placement unavailable", "error", err)
			cx, cy = 200, 150
		}
		if !placed["x"] {
			*x = cx
		}
		if !placed["y"] {
			*y = cy
		}
	}

	d := &demo{
		backend:  backend,
		logger:   logger,
		path:     path,
		halfSnap: *halfSnap,
		cfg:      cfg,
	}
	opts := x11.DemoOptions{
		Title:          *title,
		X:              *x,
		Y:              *y,
		Width:          *width,
		Height:         *height,
		TitleBarHeight: titleBarHeight,
		Background:     0xf3f3f3,
		TitleBarColor:  0x2b5797,
	}
	if err := d.start(cfg, opts); err != nil {
		logger.Error("demo failed to start", "error", err)
		d.shutdown()
		return 1
	}
	defer d.shutdown()

	if !*noIPC {
		d.startIPC(cfg.Display)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if !*noWatch {
		err := config.Watch(ctx, path, config.DefaultWatchDebounce, func(newCfg *config.Config, err error) {
			if err != nil {
				logger.Warn("config reload failed", "path", path, "error", err)
				return
			}
			d.apply(newCfg)
		})
		if err != nil {
			logger.Warn("config watcher disabled", "error", err)
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigCh:
				if sig == syscall.SIGHUP {
					logger.Info("received SIGHUP, reloading config", "path", path)
					res, err := config.LoadFromPath(path)
					if err != nil {
						logger.Warn("config reload failed", "error", err)
						continue
					}
					d.apply(res.Config)
					continue
				}
				logger.Info("shutting down", "signal", sig.String())
				d.stop()
				return
			}
		}
	}()

	logger.Info("demo window ready", "window", uint32(d.window.ID()), "config", path)
	backend.EventLoop()
	return 0
}

// demo owns the wiring between the X11 backend and the snap engine.
type demo struct {
	backend  *platform.LinuxBackend
	logger   *logging.Logger
	path     string
	halfSnap bool

	win         *x11.DemoWindow
	window      *platform.WindowHandle
	surface     *platform.OverlaySurface
	engine      *snap.Engine
	hotkeys     *hotkeys.Handler
	server      *ipc.Server
	unsubscribe func()

	mu       sync.Mutex
	cfg      *config.Config
	hotkey   string
	stopOnce sync.Once
}

var _ ipc.Controller = (*demo)(nil)

func (d *demo) start(cfg *config.Config, opts x11.DemoOptions) error {
	conn := d.backend.Connection()

	surface, err := d.backend.NewOverlay(cfg.Overlay)
	if err != nil {
		return fmt.Errorf("create overlay: %w", err)
	}
	d.surface = surface

	win, err := conn.NewDemoWindow(opts, d.stop)
	if err != nil {
		return fmt.Errorf("create demo window: %w", err)
	}
	d.win = win
	d.window = platform.NewWindowHandle(d.backend, platform.WindowID(win.Frame.Id))

	d.engine = snap.New(d.window, d.backend, surface, cfg,
		snap.WithLogger(d.logger.With("component", "snap")),
		snap.WithReleaseHook(func(res snap.Result) {
			d.logger.Debug("drag finished",
				"zone", res.Zone.String(), "committed", res.Committed, "bounds", res.Bounds)
			activateOnCommit(d.window, res, d.logger.Logger)
		}),
	)

	unsubscribe, err := snap.Attach(titleBarHandle{conn: conn, window: win.TitleBar.Id}, d.engine)
	if err != nil {
		return err
	}
	d.unsubscribe = unsubscribe

	if err := d.backend.OnDisplaysChanged(func() {
		d.logger.Info("monitor layout changed")
		d.engine.InvalidateDisplays()
	}); err != nil {
		d.logger.Warn("monitor change notifications unavailable", "error", err)
	}

	handler, err := hotkeys.NewHandler(d.backend, d.logger.With("component", "hotkeys"))
	if err != nil {
		d.logger.Warn("hotkeys unavailable", "error", err)
	} else {
		d.hotkeys = handler
		d.bindHotkey(cfg.ToggleHotkey)
	}
	return nil
}

// startIPC serves 'aerosnap ctl' on the display's control socket.
func (d *demo) startIPC(display string) {
	socket, err := runtimepath.SocketPath(display)
	if err != nil {
		d.logger.Warn("control socket unavailable", "error", err)
		return
	}
	server := ipc.NewServer(socket, d, d.logger.With("component", "ipc"))
	if err := server.Start(); err != nil {
		d.logger.Warn("control socket unavailable", "error", err)
		return
	}
	d.server = server
}

// Status reports the engine state for 'aerosnap ctl status'.
func (d *demo) Status() ipc.StatusData {
	d.mu.Lock()
	halfSnap := d.cfg.HalfSnap
	d.mu.Unlock()

	status := ipc.StatusData{
		Enabled:    d.engine.Enabled(),
		Overlay:    d.engine.OverlayState().String(),
		HalfSnap:   halfSnap,
		ConfigPath: d.path,
	}
	if s, ok := d.engine.Session(); ok {
		status.Dragging = true
		status.Zone = s.Zone.String()
	}
	if r, err := d.window.Bounds(); err == nil {
		status.Window = &ipc.WindowInfo{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
	}
	if d.hotkeys != nil {
		status.Hotkeys = d.hotkeys.Bound()
	}
	return status
}

func (d *demo) Enabled() bool { return d.engine.Enabled() }

func (d *demo) SetEnabled(enabled bool) { d.engine.SetEnabled(enabled) }

// Reload re-reads the config file and applies it.
func (d *demo) Reload() error {
	res, err := config.LoadFromPath(d.path)
	if err != nil {
		return err
	}
	d.apply(res.Config)
	return nil
}

// Monitors lists the displays with their reserved heights.
func (d *demo) Monitors() ([]ipc.MonitorInfo, error) {
	infos, err := collectMonitors(d.backend)
	if err != nil {
		return nil, err
	}
	out := make([]ipc.MonitorInfo, 0, len(infos))
	for _, m := range infos {
		out = append(out, ipc.MonitorInfo{
			ID:       m.ID,
			Name:     m.Name,
			Primary:  m.Primary,
			X:        m.Bounds.X,
			Y:        m.Bounds.Y,
			Width:    m.Bounds.Width,
			Height:   m.Bounds.Height,
			Reserved: m.Reserved,
		})
	}
	return out, nil
}

// apply hands a reloaded config to every component.
func (d *demo) apply(cfg *config.Config) {
	if d.halfSnap {
		cfg.HalfSnap = true
	}
	d.mu.Lock()
	d.cfg = cfg
	d.mu.Unlock()
	d.logger.SetLevel(cfg.Logging.Level)
	if err := d.surface.Restyle(cfg.Overlay); err != nil {
		d.logger.Warn("overlay restyle failed", "error", err)
	}
	d.engine.UpdateConfig(cfg)
	d.bindHotkey(cfg.ToggleHotkey)
	d.logger.Info("config reloaded", "half_snap", cfg.HalfSnap, "edge_spacing", cfg.EdgeSpacing)
}

func (d *demo) bindHotkey(keys string) {
	if d.hotkeys == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if keys == d.hotkey {
		return
	}
	d.hotkeys.Reset()
	d.hotkey = ""
	if keys == "" {
		return
	}
	if err := d.hotkeys.RegisterToggle(keys, d.engine); err != nil {
		d.logger.Warn("failed to register toggle hotkey", "keys", keys, "error", err)
		return
	}
	d.hotkey = keys
	d.logger.Info("toggle hotkey registered", "keys", keys)
}

// stop ends the event loop. Destroying the window wakes the loop so it sees
// the quit request.
func (d *demo) stop() {
	d.stopOnce.Do(func() {
		if d.engine != nil {
			d.engine.Cancel()
		}
		d.backend.Quit()
		d.win.Destroy()
	})
}

func (d *demo) shutdown() {
	if d.server != nil {
		d.server.Stop()
	}
	if d.unsubscribe != nil {
		d.unsubscribe()
	}
	if d.engine != nil {
		d.engine.Cancel()
		if err := d.engine.Close(); err != nil {
			d.logger.Debug("overlay close failed", "error", err)
		}
	} else if d.surface != nil {
		d.surface.Close()
	}
	if d.hotkeys != nil {
		d.hotkeys.Reset()
	}
	d.win.Destroy()
}

// activator is a window that can be focused and raised.
type activator interface {
	Activate() error
}

// activateOnCommit raises the window after a committed snap so it ends up on
// top of whatever it now covers.
func activateOnCommit(w activator, res snap.Result, logger *slog.Logger) {
	if !res.Committed {
		return
	}
	if err := w.Activate(); err != nil {
		logger.Debug("activate after snap failed", "error", err)
	}
}

// pointerHost reports the pointer position and the displays around it.
type pointerHost interface {
	snap.Displays
	Pointer() (x, y int, err error)
}

// centerOnPointer returns the origin that centers a width x height window in
// the usable area of the monitor under the pointer.
func centerOnPointer(host pointerHost, width, height int) (int, int, error) {
	px, _, err := host.Pointer()
	if err != nil {
		return 0, 0, fmt.Errorf("query pointer: %w", err)
	}
	displays, err := host.Displays()
	if err != nil {
		return 0, 0, err
	}
	d, err := snap.Resolve(px, displays)
	if err != nil {
		return 0, 0, err
	}
	reserved, err := host.ReservedHeight(d)
	if err != nil {
		reserved = 0
	}
	usable := snap.Monitor{Display: d, Reserved: reserved}.Usable()
	return usable.X + (usable.Width-width)/2, usable.Y + (usable.Height-height)/2, nil
}

var _ snap.Surface = (*platform.OverlaySurface)(nil)
