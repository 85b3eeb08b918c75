package snap

import (
	"testing"
	"time"

	"github.com/1broseidon/aerosnap/internal/config"
	"github.com/1broseidon/aerosnap/internal/platform"
)

type engineFixture struct {
	engine   *Engine
	window   *fakeWindow
	displays *fakeDisplays
	surface  *fakeSurface
	sched    *fakeScheduler
	results  []Result
}

func newEngineFixture(t *testing.T, mutate func(*config.Config)) *engineFixture {
	t.Helper()
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	f := &engineFixture{
		window:   &fakeWindow{x: 200, y: 200, width: 800, height: 600},
		displays: twoMonitors(),
		surface:  &fakeSurface{},
		sched:    newFakeScheduler(),
	}
	f.engine = New(f.window, f.displays, f.surface, cfg,
		WithLogger(discardLogger),
		WithScheduler(f.sched),
		WithReleaseHook(func(r Result) { f.results = append(f.results, r) }),
	)
	return f
}

func (f *engineFixture) press(rootX, rootY, eventX, eventY int) {
	f.engine.PointerPressed(Pointer{RootX: rootX, RootY: rootY, EventX: eventX, EventY: eventY})
}

func (f *engineFixture) move(rootX, rootY int) {
	f.engine.PointerMoved(Pointer{RootX: rootX, RootY: rootY})
}

func (f *engineFixture) release(rootX, rootY int) {
	f.engine.PointerReleased(Pointer{RootX: rootX, RootY: rootY})
}

func (f *engineFixture) lastResult(t *testing.T) Result {
	t.Helper()
	if len(f.results) == 0 {
		t.Fatalf("no release result recorded")
	}
	return f.results[len(f.results)-1]
}

func TestEngine_MoveTracksPointerWithOffsetAndBias(t *testing.T) {
	f := newEngineFixture(t, func(c *config.Config) {
		c.XAdjust = 40
		c.YAdjust = 5
	})

	f.press(340, 215, 100, 10)
	f.move(600, 400)

	if f.window.x != 600-100-40 || f.window.y != 400-10-5 {
		t.Fatalf("window at (%d,%d), want (%d,%d)", f.window.x, f.window.y, 460, 385)
	}
	if f.window.restores != 0 {
		t.Fatalf("normal window must not be restored")
	}
}

func TestEngine_MoveWithoutPressIgnored(t *testing.T) {
	f := newEngineFixture(t, nil)
	f.move(600, 400)
	f.release(600, 400)
	if f.window.moves != 0 || len(f.results) != 0 {
		t.Fatalf("events without a press must be ignored")
	}
}

func TestEngine_PressWhileMaximizedRegrabsProportionally(t *testing.T) {
	f := newEngineFixture(t, nil)
	f.window.maximized = true

	f.press(240, 10, 240, 10)
	s, ok := f.engine.Session()
	if !ok {
		t.Fatalf("expected an open session")
	}
	if s.OffsetX != 100 || s.OffsetY != 10 {
		t.Fatalf("offset = (%d,%d), want (100,10)", s.OffsetX, s.OffsetY)
	}
	if s.Zone != ZoneRestore || !s.RestorePending {
		t.Fatalf("expected restore pending, got zone=%v pending=%v", s.Zone, s.RestorePending)
	}

	f.move(300, 60)
	f.move(320, 80)
	if f.window.maximized {
		t.Fatalf("first move must restore the window")
	}
	if f.window.restores != 1 {
		t.Fatalf("restored %d times, want 1", f.window.restores)
	}
	if f.window.x != 320-100 || f.window.y != 80-10 {
		t.Fatalf("window at (%d,%d), want (220,70)", f.window.x, f.window.y)
	}
}

func TestEngine_ReleaseInTopBandCommitsFullSnap(t *testing.T) {
	f := newEngineFixture(t, nil)

	f.press(500, 300, 100, 10)
	f.move(960, 100)
	f.move(960, 0)
	if got := f.engine.OverlayState(); got != OverlayGrowingIn {
		t.Fatalf("overlay = %v, want growing-in", got)
	}
	f.move(960, 5)
	f.release(960, 5)

	if !f.window.maximized {
		t.Fatalf("window must be maximized after commit")
	}
	if f.window.x != 0 || f.window.y != 0 {
		t.Fatalf("window at (%d,%d), want monitor origin", f.window.x, f.window.y)
	}
	res := f.lastResult(t)
	if !res.Committed || res.Zone != ZoneFull {
		t.Fatalf("result = %+v, want committed full", res)
	}
	if res.Bounds != (platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1040}) {
		t.Fatalf("bounds = %+v, want usable rect", res.Bounds)
	}
	if f.engine.OverlayState() != OverlayHidden || f.surface.visible {
		t.Fatalf("commit must hide the overlay immediately")
	}
	if f.engine.Dragging() {
		t.Fatalf("session must close on release")
	}
	if f.sched.armed() != 0 {
		t.Fatalf("commit left %d armed timers", f.sched.armed())
	}
}

func TestEngine_ReleaseOutsideZoneKeepsFreeformPosition(t *testing.T) {
	f := newEngineFixture(t, nil)

	f.press(500, 300, 100, 10)
	f.move(960, 0)
	f.move(960, 400)
	if got := f.engine.OverlayState(); got != OverlayShrinkingOut {
		t.Fatalf("overlay = %v, want shrinking-out", got)
	}
	f.release(960, 400)

	if f.window.maximized || f.window.maximizes != 0 {
		t.Fatalf("no snap expected")
	}
	if f.window.x != 860 || f.window.y != 390 {
		t.Fatalf("window at (%d,%d), want (860,390)", f.window.x, f.window.y)
	}
	res := f.lastResult(t)
	if res.Committed || res.Zone != ZoneNone {
		t.Fatalf("result = %+v, want uncommitted", res)
	}
	if f.engine.OverlayState() != OverlayHidden {
		t.Fatalf("release must hide the overlay")
	}
}

func TestEngine_NoPreviewUntilEdgeTouched(t *testing.T) {
	f := newEngineFixture(t, nil)
	f.press(500, 300, 100, 10)
	f.move(960, 10)
	if got := f.engine.OverlayState(); got != OverlayHidden {
		t.Fatalf("overlay = %v, want hidden", got)
	}
	f.release(960, 10)
	if f.window.maximized {
		t.Fatalf("release in band without edge contact must not snap")
	}
}

func TestEngine_CrossingMonitorsReResolves(t *testing.T) {
	f := newEngineFixture(t, nil)

	f.press(100, 300, 100, 10)
	f.move(100, 0)
	f.sched.Advance(400 * time.Millisecond)
	if f.surface.geometry != (platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1040}) {
		t.Fatalf("preview on first monitor = %+v", f.surface.geometry)
	}

	f.move(2500, 0)
	s, _ := f.engine.Session()
	if s.Monitor.ID != 1 {
		t.Fatalf("current monitor = %d, want 1", s.Monitor.ID)
	}
	if s.DefaultMonitor.ID != 1 || !s.HasDefaultMonitor {
		t.Fatalf("default monitor = %d, want 1", s.DefaultMonitor.ID)
	}
	if f.surface.hides != 1 {
		t.Fatalf("crossing monitors should reset the overlay once, hides=%d", f.surface.hides)
	}

	f.sched.Advance(400 * time.Millisecond)
	want := platform.Rect{X: 1920, Y: 0, Width: 2560, Height: 1440}
	if f.surface.geometry != want {
		t.Fatalf("preview on second monitor = %+v, want %+v", f.surface.geometry, want)
	}

	f.release(2500, 3)
	if f.window.x != 1920 || f.window.y != 0 || !f.window.maximized {
		t.Fatalf("expected snap to second monitor origin, window=%+v", f.window)
	}
}

func TestEngine_SameMonitorMovesDoNotRequery(t *testing.T) {
	f := newEngineFixture(t, nil)
	f.press(100, 300, 100, 10)
	for x := 100; x < 1900; x += 100 {
		f.move(x, 300)
	}
	if f.displays.listCalls != 1 {
		t.Fatalf("displays enumerated %d times, want 1", f.displays.listCalls)
	}
}

func TestEngine_ReservedHeightFailureFallsBackToZero(t *testing.T) {
	f := newEngineFixture(t, nil)
	f.displays.reservedErr = errHost

	f.press(500, 300, 100, 10)
	f.move(960, 0)
	f.release(960, 0)

	res := f.lastResult(t)
	if res.Bounds.Height != 1080 {
		t.Fatalf("bounds height = %d, want full 1080 without reserved area", res.Bounds.Height)
	}
}

func TestEngine_DisplayRemovedMidDrag(t *testing.T) {
	f := newEngineFixture(t, nil)

	f.press(2500, 300, 100, 10)
	if s, _ := f.engine.Session(); s.Monitor.ID != 1 {
		t.Fatalf("expected drag to start on monitor 1")
	}

	f.displays.list = f.displays.list[:1]
	f.engine.InvalidateDisplays()
	f.move(2500, 300)

	s, _ := f.engine.Session()
	if s.Monitor.ID != 0 {
		t.Fatalf("current monitor = %d, want the remaining monitor 0", s.Monitor.ID)
	}
}

func TestEngine_NoDisplaysNeverPanics(t *testing.T) {
	f := newEngineFixture(t, nil)
	f.displays.listErr = errHost

	f.press(500, 300, 100, 10)
	f.move(960, 0)
	f.move(960, 5)
	f.release(960, 5)

	if f.window.maximized {
		t.Fatalf("no monitor means no snap")
	}
	if f.window.x != 860 || f.window.y != -5 {
		t.Fatalf("window still follows the pointer, got (%d,%d)", f.window.x, f.window.y)
	}
}

func TestEngine_EnumerationFailureKeepsLastGoodMonitor(t *testing.T) {
	f := newEngineFixture(t, nil)
	f.press(500, 300, 100, 10)
	f.release(500, 300)

	f.displays.listErr = errHost
	f.engine.InvalidateDisplays()

	f.press(500, 300, 100, 10)
	f.move(960, 0)
	f.release(960, 2)
	if res := f.lastResult(t); !res.Committed || res.Monitor.ID != 0 {
		t.Fatalf("expected commit on cached monitor, got %+v", res)
	}
}

func TestEngine_Disabled(t *testing.T) {
	f := newEngineFixture(t, nil)
	f.engine.SetEnabled(false)
	if f.engine.Enabled() {
		t.Fatalf("expected disabled")
	}

	f.press(500, 300, 100, 10)
	f.move(960, 0)
	if f.engine.OverlayState() != OverlayHidden {
		t.Fatalf("disabled engine must not preview")
	}
	f.release(960, 0)
	if f.window.maximized {
		t.Fatalf("disabled engine must not snap")
	}
	if f.window.x != 860 || f.window.y != -10 {
		t.Fatalf("disabled engine still drags, window at (%d,%d)", f.window.x, f.window.y)
	}
}

func TestEngine_HalfSnapCommitResizes(t *testing.T) {
	f := newEngineFixture(t, func(c *config.Config) { c.HalfSnap = true })

	f.press(500, 300, 100, 10)
	f.move(0, 500)
	f.move(10, 500)
	f.release(10, 500)

	want := platform.Rect{X: 0, Y: 0, Width: 960, Height: 1040}
	got := platform.Rect{X: f.window.x, Y: f.window.y, Width: f.window.width, Height: f.window.height}
	if got != want {
		t.Fatalf("window = %+v, want %+v", got, want)
	}
	if f.window.maximized {
		t.Fatalf("half snap must not maximize")
	}
	if res := f.lastResult(t); res.Zone != ZoneLeftHalf || !res.Committed {
		t.Fatalf("result = %+v", res)
	}
}

func TestEngine_HalfSnapOuterRightEdge(t *testing.T) {
	f := newEngineFixture(t, func(c *config.Config) { c.HalfSnap = true })

	f.press(3000, 300, 100, 10)
	f.move(4479, 700)
	f.release(4470, 700)

	res := f.lastResult(t)
	want := platform.Rect{X: 3200, Y: 0, Width: 1280, Height: 1440}
	if res.Zone != ZoneRightHalf || !res.Committed || res.Bounds != want {
		t.Fatalf("result = %+v, want right-half %+v", res, want)
	}
}

func TestEngine_HalfSnapIgnoresMonitorSeam(t *testing.T) {
	tests := []struct {
		name string
		path [][2]int
	}{
		{name: "stop short of the seam", path: [][2]int{{1919, 500}, {1910, 500}}},
		{name: "cross the seam", path: [][2]int{{1919, 500}, {1920, 500}, {1930, 500}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEngineFixture(t, func(c *config.Config) { c.HalfSnap = true })

			f.press(1000, 500, 100, 10)
			for _, p := range tt.path {
				f.move(p[0], p[1])
				if f.surface.shows != 0 {
					t.Fatalf("preview shown at seam point %v", p)
				}
			}
			last := tt.path[len(tt.path)-1]
			f.release(last[0], last[1])

			res := f.lastResult(t)
			if res.Committed || res.Zone != ZoneNone {
				t.Fatalf("seam release committed: %+v", res)
			}
			if f.window.maximizes != 0 || f.window.moveResizes != 0 {
				t.Fatalf("window snapped at the seam: %+v", *f.window)
			}
		})
	}
}

func TestEngine_CancelActsAsRelease(t *testing.T) {
	f := newEngineFixture(t, nil)
	f.press(500, 300, 100, 10)
	f.move(960, 0)
	f.engine.Cancel()

	if !f.window.maximized {
		t.Fatalf("cancel in hot zone should commit like a release")
	}
	if f.engine.Dragging() {
		t.Fatalf("cancel must close the session")
	}
	f.engine.Cancel()
	if len(f.results) != 1 {
		t.Fatalf("second cancel must be a no-op, results=%d", len(f.results))
	}
}

func TestEngine_NewDragClearsEdgeLatch(t *testing.T) {
	f := newEngineFixture(t, nil)
	f.press(500, 300, 100, 10)
	f.move(960, 0)
	f.release(960, 0)

	f.window.maximized = false
	f.press(960, 10, 100, 10)
	f.move(960, 12)
	if f.engine.OverlayState() != OverlayHidden {
		t.Fatalf("a new drag must not inherit the previous latch")
	}
}

func TestEngine_UpdateConfig(t *testing.T) {
	f := newEngineFixture(t, nil)
	cfg := config.DefaultConfig()
	cfg.XAdjust = 7
	cfg.EdgeSpacing = 3
	f.engine.UpdateConfig(cfg)

	f.press(500, 300, 100, 10)
	f.move(960, 0)
	f.move(960, 4)
	if f.window.x != 960-100-7 {
		t.Fatalf("x_adjust not applied, window x=%d", f.window.x)
	}
	f.release(960, 4)
	if f.window.maximized {
		t.Fatalf("edge_spacing 3 should exclude y=4")
	}
}

func TestEngine_IsMaximizedFailureAssumesNormal(t *testing.T) {
	f := newEngineFixture(t, nil)
	f.window.maxErr = errHost
	f.press(340, 215, 100, 10)
	f.move(600, 400)
	if f.window.restores != 0 || f.window.x != 500 {
		t.Fatalf("expected a plain drag, restores=%d x=%d", f.window.restores, f.window.x)
	}
}

func TestEngine_CloseReleasesSurface(t *testing.T) {
	f := newEngineFixture(t, nil)
	f.press(500, 300, 100, 10)
	f.move(960, 0)
	if err := f.engine.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !f.surface.closed || f.engine.Dragging() {
		t.Fatalf("close must release the surface and drop the session")
	}
}
