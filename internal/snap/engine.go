package snap

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/aerosnap/internal/config"
	"github.com/1broseidon/aerosnap/internal/platform"
)

// Result describes how a drag ended.
type Result struct {
	Zone      Zone
	Committed bool
	Monitor   Monitor
	// Bounds is the committed window geometry; zero when not committed.
	Bounds platform.Rect
}

// Option customizes an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithScheduler replaces the wall-clock scheduler.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) {
		if s != nil {
			e.baseSched = s
		}
	}
}

// WithReleaseHook registers a callback run after every release.
func WithReleaseHook(fn func(Result)) Option {
	return func(e *Engine) { e.onRelease = fn }
}

// Engine snaps a window to monitor regions while it is dragged by its handle.
// It implements PointerHandler. Pointer handlers and scheduled overlay
// callbacks run one at a time under the engine lock.
type Engine struct {
	mu sync.Mutex

	window    Window
	displays  Displays
	cfg       *config.Config
	logger    *slog.Logger
	baseSched Scheduler
	onRelease func(Result)

	classifier Classifier
	overlay    *OverlayController
	session    *Session
	enabled    bool

	cache      []platform.Display
	cacheStale bool
	lastGood   Monitor
	hasGood    bool
}

var _ PointerHandler = (*Engine)(nil)

// New creates an engine for window. cfg nil means config.DefaultConfig().
func New(window Window, displays Displays, surface Surface, cfg *config.Config, opts ...Option) *Engine {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	e := &Engine{
		window:     window,
		displays:   displays,
		cfg:        cfg,
		logger:     slog.Default(),
		baseSched:  RealScheduler(),
		enabled:    true,
		cacheStale: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.classifier = Classifier{
		EdgeSpacing: cfg.EdgeSpacing,
		DeadZone:    cfg.DeadZone,
		HalfSnap:    cfg.HalfSnap,
	}
	sched := lockedScheduler{mu: &e.mu, inner: e.baseSched}
	e.overlay = NewOverlayController(surface, sched, cfg.Overlay, e.logger.With("component", "overlay"))
	return e
}

// UpdateConfig applies a reloaded configuration. An open drag keeps its
// grab offset.
func (e *Engine) UpdateConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cfg = cfg
	e.classifier.EdgeSpacing = cfg.EdgeSpacing
	e.classifier.DeadZone = cfg.DeadZone
	e.classifier.HalfSnap = cfg.HalfSnap
	e.overlay.UpdateConfig(cfg.Overlay)
}

// SetEnabled turns snapping on or off. A disabled engine still moves the
// window but never previews or commits a snap.
func (e *Engine) SetEnabled(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.enabled = enabled
	if !enabled {
		e.overlay.Commit()
		e.classifier.Reset()
	}
	e.logger.Info("snapping toggled", "enabled", enabled)
}

// Enabled reports whether snapping is on.
func (e *Engine) Enabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled
}

// InvalidateDisplays forces the display set to be re-enumerated on the next
// move, e.g. after a monitor was plugged or unplugged.
func (e *Engine) InvalidateDisplays() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cacheStale = true
}

// Dragging reports whether a drag session is open.
func (e *Engine) Dragging() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session != nil
}

// Session returns a copy of the open drag session.
func (e *Engine) Session() (Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return Session{}, false
	}
	return *e.session, true
}

// OverlayState returns the preview overlay's state.
func (e *Engine) OverlayState() OverlayState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.overlay.State()
}

// Close hides the overlay and releases its surface.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session = nil
	return e.overlay.Close()
}

// PointerPressed starts a drag session.
func (e *Engine) PointerPressed(p Pointer) {
	e.mu.Lock()
	defer e.mu.Unlock()

	maximized, err := e.window.IsMaximized()
	if err != nil {
		e.logger.Debug("maximize state unavailable, assuming normal", "error", err)
		maximized = false
	}

	s := newSession(p, maximized, e.cfg.RegrabDivisor)
	e.session = s
	e.classifier.Reset()
	e.refreshMonitor(s, p.RootX)
	e.logger.Debug("drag started",
		"offset_x", s.OffsetX, "offset_y", s.OffsetY,
		"maximized", maximized, "monitor", s.Monitor.Name,
	)
}

// PointerMoved repositions the window and updates the snap preview.
func (e *Engine) PointerMoved(p Pointer) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if s == nil {
		return
	}

	if s.RestorePending {
		if err := e.window.Restore(); err != nil {
			e.logger.Debug("restore failed", "error", err)
		}
		s.RestorePending = false
		s.Zone = ZoneNone
	}

	x, y := s.windowOrigin(p.RootX, p.RootY, e.cfg.XAdjust, e.cfg.YAdjust)
	if err := e.window.Move(x, y); err != nil {
		e.logger.Debug("move failed", "x", x, "y", y, "error", err)
	}
	s.LastX, s.LastY = p.RootX, p.RootY

	e.refreshMonitor(s, p.RootX)
	if !e.enabled || !s.HasMonitor {
		return
	}
	e.updateZone(s, p.RootX, p.RootY)
}

// PointerReleased ends the drag, committing a snap if the pointer is in a
// hot zone.
func (e *Engine) PointerReleased(p Pointer) {
	e.mu.Lock()
	res, ok := e.release(p.RootX, p.RootY)
	hook := e.onRelease
	e.mu.Unlock()

	if ok && hook != nil {
		hook(res)
	}
}

// Cancel ends the drag after the pointer capture was lost. It is treated as
// a release at the last known pointer position.
func (e *Engine) Cancel() {
	e.mu.Lock()
	var res Result
	ok := false
	if s := e.session; s != nil {
		res, ok = e.release(s.LastX, s.LastY)
	}
	hook := e.onRelease
	e.mu.Unlock()

	if ok && hook != nil {
		hook(res)
	}
}

func (e *Engine) release(rootX, rootY int) (Result, bool) {
	s := e.session
	if s == nil {
		return Result{}, false
	}
	e.session = nil

	zone := ZoneNone
	if e.enabled && s.HasMonitor {
		zone = e.classifier.Classify(rootX, rootY, s.Monitor.Usable())
	}
	e.overlay.Commit()
	e.classifier.Reset()

	res := Result{Zone: zone, Monitor: s.Monitor}
	target, ok := TargetRect(zone, s.Monitor.Usable())
	if !ok {
		e.logger.Debug("drag released without snap", "x", rootX, "y", rootY)
		return res, true
	}

	if err := e.commit(s, zone, target); err != nil {
		e.logger.Warn("snap commit failed", "zone", zone, "error", err)
		return res, true
	}
	res.Committed = true
	res.Bounds = target
	e.logger.Info("snap committed", "zone", zone, "monitor", s.Monitor.Name, "bounds", target)
	return res, true
}

func (e *Engine) commit(s *Session, zone Zone, target platform.Rect) error {
	if zone == ZoneFull {
		if err := e.window.Move(target.X, target.Y); err != nil {
			return fmt.Errorf("move to monitor origin: %w", err)
		}
		if err := e.window.Maximize(); err != nil {
			return fmt.Errorf("maximize: %w", err)
		}
		return nil
	}

	if s.RestorePending {
		if err := e.window.Restore(); err != nil {
			return fmt.Errorf("restore: %w", err)
		}
	}
	if err := e.window.MoveResize(target); err != nil {
		return fmt.Errorf("move-resize to %s: %w", zone, err)
	}
	return nil
}

func (e *Engine) updateZone(s *Session, x, y int) {
	usable := s.Monitor.Usable()
	zone := e.classifier.Classify(x, y, usable)
	if zone != s.Zone {
		e.logger.Debug("zone changed", "from", s.Zone, "to", zone, "x", x, "y", y)
	}
	s.Zone = zone

	target, ok := TargetRect(zone, usable)
	if !ok {
		e.overlay.Exit()
		return
	}
	seed := SeedRect(usable, e.cfg.Overlay.SeedWidth, e.cfg.Overlay.SeedHeight)
	e.overlay.Enter(target, seed)
	s.DefaultMonitor = s.Monitor
	s.HasDefaultMonitor = true
}

// refreshMonitor re-resolves the session monitor for pointerX. The usable
// rect is recomputed and the overlay reset only when the monitor changes.
func (e *Engine) refreshMonitor(s *Session, pointerX int) {
	displays := e.displayList()
	d, err := Resolve(pointerX, displays)
	if err != nil {
		e.logger.Debug("monitor resolution failed", "x", pointerX, "error", err)
		if !s.HasMonitor && e.hasGood {
			s.Monitor = e.lastGood
			s.HasMonitor = true
		}
		return
	}
	e.classifier.SetSeams(sharedEdges(d, displays))
	if s.HasMonitor && d.ID == s.Monitor.ID && d.Bounds == s.Monitor.Bounds {
		return
	}

	reserved, err := e.displays.ReservedHeight(d)
	if err != nil {
		e.logger.Debug("reserved height unavailable, using 0",
			"display", d.Name, "error", fmt.Errorf("%w: %v", ErrReservedAreaQuery, err))
		reserved = 0
	}

	changed := s.HasMonitor
	s.Monitor = Monitor{Display: d, Reserved: reserved}
	s.HasMonitor = true
	e.lastGood = s.Monitor
	e.hasGood = true

	if changed {
		e.overlay.Reset()
		e.logger.Debug("monitor changed", "display", d.Name, "usable", s.Monitor.Usable())
	}
}

// displayList returns the cached display set, enumerating it when stale or
// empty. An enumeration failure keeps the previous set.
func (e *Engine) displayList() []platform.Display {
	if !e.cacheStale && len(e.cache) > 0 {
		return e.cache
	}
	displays, err := e.displays.Displays()
	if err != nil {
		e.logger.Debug("display enumeration failed", "error", err)
		return e.cache
	}
	e.cache = displays
	e.cacheStale = false
	return e.cache
}
