package snap

import (
	"errors"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/1broseidon/aerosnap/internal/platform"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeScheduler is a virtual clock. Callbacks only run from Advance.
type fakeScheduler struct {
	now    time.Time
	timers []*fakeTimer
	// leaky timers still fire after Stop, like a time.AfterFunc callback
	// that already started when Stop was called.
	leaky bool
}

type fakeTimer struct {
	at      time.Time
	seq     int
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (s *fakeScheduler) Now() time.Time { return s.now }

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{at: s.now.Add(d), seq: len(s.timers), f: f}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the clock forward by d, firing due timers in order.
func (s *fakeScheduler) Advance(d time.Duration) {
	end := s.now.Add(d)
	for {
		next := s.nextDue(end)
		if next == nil {
			break
		}
		if next.at.After(s.now) {
			s.now = next.at
		}
		next.fired = true
		next.f()
	}
	s.now = end
}

func (s *fakeScheduler) nextDue(end time.Time) *fakeTimer {
	var due []*fakeTimer
	for _, t := range s.timers {
		if t.fired || t.at.After(end) {
			continue
		}
		if t.stopped && !s.leaky {
			continue
		}
		due = append(due, t)
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at.Equal(due[j].at) {
			return due[i].seq < due[j].seq
		}
		return due[i].at.Before(due[j].at)
	})
	return due[0]
}

// armed counts timers that are neither stopped nor fired.
func (s *fakeScheduler) armed() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type fakeSurface struct {
	geometry platform.Rect
	opacity  float64
	visible  bool
	closed   bool
	shows    int
	hides    int
}

func (s *fakeSurface) SetGeometry(r platform.Rect) error { s.geometry = r; return nil }
func (s *fakeSurface) SetOpacity(o float64) error       { s.opacity = o; return nil }
func (s *fakeSurface) Show() error                      { s.visible = true; s.shows++; return nil }
func (s *fakeSurface) Hide() error                      { s.visible = false; s.hides++; return nil }
func (s *fakeSurface) Close() error                     { s.closed = true; return nil }

type fakeWindow struct {
	x, y          int
	width, height int
	maximized     bool
	maxErr        error
	restores      int
	maximizes     int
	moves         int
	moveResizes   int
}

func (w *fakeWindow) Move(x, y int) error {
	w.x, w.y = x, y
	w.moves++
	return nil
}

func (w *fakeWindow) MoveResize(r platform.Rect) error {
	w.x, w.y, w.width, w.height = r.X, r.Y, r.Width, r.Height
	w.moveResizes++
	return nil
}

func (w *fakeWindow) Maximize() error {
	w.maximized = true
	w.maximizes++
	return nil
}

func (w *fakeWindow) Restore() error {
	w.maximized = false
	w.restores++
	return nil
}

func (w *fakeWindow) IsMaximized() (bool, error) {
	if w.maxErr != nil {
		return false, w.maxErr
	}
	return w.maximized, nil
}

type fakeDisplays struct {
	list        []platform.Display
	reserved    map[int]int
	listErr     error
	reservedErr error
	listCalls   int
}

func (d *fakeDisplays) Displays() ([]platform.Display, error) {
	d.listCalls++
	if d.listErr != nil {
		return nil, d.listErr
	}
	return d.list, nil
}

func (d *fakeDisplays) ReservedHeight(display platform.Display) (int, error) {
	if d.reservedErr != nil {
		return 0, d.reservedErr
	}
	return d.reserved[display.ID], nil
}

var errHost = errors.New("host unavailable")

// twoMonitors is a 1920x1080 display with a 40px taskbar next to a 2560x1440 one.
func twoMonitors() *fakeDisplays {
	return &fakeDisplays{
		list: []platform.Display{
			{ID: 0, Name: "DP-1", Bounds: platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}, Primary: true},
			{ID: 1, Name: "HDMI-1", Bounds: platform.Rect{X: 1920, Y: 0, Width: 2560, Height: 1440}},
		},
		reserved: map[int]int{0: 40},
	}
}
