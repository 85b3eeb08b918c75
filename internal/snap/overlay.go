package snap

import (
	"log/slog"

	"github.com/1broseidon/aerosnap/internal/config"
	"github.com/1broseidon/aerosnap/internal/platform"
)

// OverlayState is the preview overlay's lifecycle state.
type OverlayState int

const (
	OverlayHidden OverlayState = iota
	OverlayGrowingIn
	OverlayShown
	OverlayShrinkingOut
)

func (s OverlayState) String() string {
	switch s {
	case OverlayHidden:
		return "hidden"
	case OverlayGrowingIn:
		return "growing-in"
	case OverlayShown:
		return "shown"
	case OverlayShrinkingOut:
		return "shrinking-out"
	default:
		return "unknown"
	}
}

// OverlayController drives the preview surface through grow-in, shown,
// shrink-out and hidden. At most one transition is in flight; starting one
// stops the other. The controller is not safe for concurrent use: the engine
// serializes calls and scheduled callbacks.
type OverlayController struct {
	surface Surface
	sched   Scheduler
	cfg     config.OverlayConfig
	logger  *slog.Logger

	state    OverlayState
	geometry platform.Rect
	opacity  float64
	target   platform.Rect

	anim      *transition
	hideTimer Timer
	hideToken uint64
	seq       uint64
}

// NewOverlayController creates a hidden controller.
func NewOverlayController(surface Surface, sched Scheduler, cfg config.OverlayConfig, logger *slog.Logger) *OverlayController {
	if logger == nil {
		logger = slog.Default()
	}
	return &OverlayController{
		surface: surface,
		sched:   sched,
		cfg:     cfg,
		logger:  logger,
	}
}

func (c *OverlayController) State() OverlayState { return c.state }

func (c *OverlayController) Geometry() platform.Rect { return c.geometry }

func (c *OverlayController) Opacity() float64 { return c.opacity }

// Target returns the rectangle the overlay is growing toward or showing.
func (c *OverlayController) Target() platform.Rect { return c.target }

// Active reports whether the overlay is growing in or shown.
func (c *OverlayController) Active() bool {
	return c.state == OverlayGrowingIn || c.state == OverlayShown
}

// Transition reports the direction of the in-flight animation, if any.
func (c *OverlayController) Transition() (Direction, bool) {
	if c.anim == nil {
		return 0, false
	}
	return c.anim.dir, true
}

// HidePending reports whether the pending-hide timer is armed.
func (c *OverlayController) HidePending() bool { return c.hideTimer != nil }

// UpdateConfig applies new timings and sizes to subsequent transitions.
func (c *OverlayController) UpdateConfig(cfg config.OverlayConfig) {
	c.cfg = cfg
}

// Enter shows the overlay growing toward target. From hidden it starts at seed
// with zero opacity; otherwise it continues from the current geometry and
// opacity. Entering the target already shown or growing in is a no-op.
func (c *OverlayController) Enter(target, seed platform.Rect) {
	switch c.state {
	case OverlayHidden:
		c.geometry = seed
		c.opacity = 0
		c.apply(seed, 0, true)
		if err := c.surface.Show(); err != nil {
			c.logger.Debug("overlay show failed", "error", err)
		}
	case OverlayGrowingIn, OverlayShown:
		if target == c.target {
			return
		}
	case OverlayShrinkingOut:
		c.cancelHide()
	}

	c.target = target
	c.state = OverlayGrowingIn
	c.start(GrowIn, target, 1)
	c.logger.Debug("overlay grow-in", "target", target)
}

// Exit fades the overlay out and arms the pending-hide timer. The timer, not
// the end of the fade, hides the surface.
func (c *OverlayController) Exit() {
	if !c.Active() {
		return
	}
	c.state = OverlayShrinkingOut
	c.start(ShrinkOut, c.geometry, 0)

	c.seq++
	token := c.seq
	c.hideToken = token
	c.hideTimer = c.sched.AfterFunc(c.cfg.HideDelay(), func() { c.hideFired(token) })
	c.logger.Debug("overlay shrink-out", "hide_delay", c.cfg.HideDelay())
}

// Commit hides the overlay immediately, skipping any animation.
func (c *OverlayController) Commit() {
	c.stop()
	c.cancelHide()
	if c.state == OverlayHidden {
		return
	}
	c.hide()
}

// Reset hides the overlay without animation, e.g. after the pointer moved to
// another monitor.
func (c *OverlayController) Reset() {
	c.Commit()
	c.target = platform.Rect{}
}

// Close hides and releases the surface.
func (c *OverlayController) Close() error {
	c.Reset()
	return c.surface.Close()
}

func (c *OverlayController) start(dir Direction, toGeom platform.Rect, toOpacity float64) {
	c.stop()

	c.seq++
	tr := &transition{
		dir:         dir,
		token:       c.seq,
		started:     c.sched.Now(),
		fromGeom:    c.geometry,
		toGeom:      toGeom,
		fromOpacity: c.opacity,
		toOpacity:   toOpacity,
		opacityDur:  c.cfg.FadeDuration(),
	}
	if dir == GrowIn {
		tr.geomDur = c.cfg.GrowDuration()
	}
	c.anim = tr
	c.scheduleFrame(tr)
}

func (c *OverlayController) scheduleFrame(tr *transition) {
	token := tr.token
	tr.timer = c.sched.AfterFunc(c.cfg.FrameInterval(), func() { c.frame(token) })
}

func (c *OverlayController) frame(token uint64) {
	tr := c.anim
	if tr == nil || tr.token != token {
		return
	}

	geom, opacity, done := tr.sample(c.sched.Now())
	c.apply(geom, opacity, false)
	if !done {
		c.scheduleFrame(tr)
		return
	}

	c.anim = nil
	if tr.dir == GrowIn && c.state == OverlayGrowingIn {
		c.state = OverlayShown
		c.logger.Debug("overlay shown", "geometry", geom)
	}
}

func (c *OverlayController) hideFired(token uint64) {
	if c.hideTimer == nil || c.hideToken != token {
		return
	}
	c.hideTimer = nil
	if c.state != OverlayShrinkingOut {
		return
	}
	c.stop()
	c.hide()
}

func (c *OverlayController) stop() {
	if c.anim == nil {
		return
	}
	if c.anim.timer != nil {
		c.anim.timer.Stop()
	}
	c.anim = nil
}

func (c *OverlayController) cancelHide() {
	if c.hideTimer == nil {
		return
	}
	c.hideTimer.Stop()
	c.hideTimer = nil
	c.hideToken = 0
}

func (c *OverlayController) hide() {
	if err := c.surface.Hide(); err != nil {
		c.logger.Debug("overlay hide failed", "error", err)
	}
	c.opacity = 0
	c.state = OverlayHidden
	c.logger.Debug("overlay hidden")
}

func (c *OverlayController) apply(geom platform.Rect, opacity float64, force bool) {
	if force || geom != c.geometry {
		if err := c.surface.SetGeometry(geom); err != nil {
			c.logger.Debug("overlay geometry failed", "error", err)
		}
	}
	if force || opacity != c.opacity {
		if err := c.surface.SetOpacity(opacity); err != nil {
			c.logger.Debug("overlay opacity failed", "error", err)
		}
	}
	c.geometry = geom
	c.opacity = opacity
}
