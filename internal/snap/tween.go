package snap

import (
	"math"
	"time"

	"github.com/1broseidon/aerosnap/internal/platform"
)

// Easing maps linear progress in [0, 1] to eased progress.
type Easing func(t float64) float64

// EaseOutCubic decelerates toward the end.
func EaseOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

// EaseInOutQuad accelerates then decelerates.
func EaseInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	u := -2*t + 2
	return 1 - u*u/2
}

// progress returns eased progress for elapsed out of d, clamped to [0, 1].
func progress(elapsed, d time.Duration, ease Easing) float64 {
	if d <= 0 || elapsed >= d {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	return ease(float64(elapsed) / float64(d))
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func lerpInt(a, b int, t float64) int {
	return int(math.Round(lerp(float64(a), float64(b), t)))
}

func lerpRect(a, b platform.Rect, t float64) platform.Rect {
	return platform.Rect{
		X:      lerpInt(a.X, b.X, t),
		Y:      lerpInt(a.Y, b.Y, t),
		Width:  lerpInt(a.Width, b.Width, t),
		Height: lerpInt(a.Height, b.Height, t),
	}
}

// Direction is the way an overlay transition runs.
type Direction int

const (
	GrowIn Direction = iota
	ShrinkOut
)

func (d Direction) String() string {
	if d == GrowIn {
		return "grow-in"
	}
	return "shrink-out"
}

// transition is a geometry tween and an opacity tween running in parallel.
type transition struct {
	dir     Direction
	token   uint64
	started time.Time
	timer   Timer

	fromGeom, toGeom platform.Rect
	geomDur          time.Duration

	fromOpacity, toOpacity float64
	opacityDur             time.Duration
}

// sample returns the values at now and whether both tweens have finished.
func (tr *transition) sample(now time.Time) (platform.Rect, float64, bool) {
	elapsed := now.Sub(tr.started)
	gp := progress(elapsed, tr.geomDur, EaseOutCubic)
	op := progress(elapsed, tr.opacityDur, EaseInOutQuad)
	done := elapsed >= tr.geomDur && elapsed >= tr.opacityDur
	return lerpRect(tr.fromGeom, tr.toGeom, gp), lerp(tr.fromOpacity, tr.toOpacity, op), done
}
