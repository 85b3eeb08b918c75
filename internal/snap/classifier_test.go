package snap

import (
	"testing"

	"github.com/1broseidon/aerosnap/internal/platform"
)

var usable1080 = platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1040}

func newClassifier() *Classifier {
	return &Classifier{EdgeSpacing: 20, DeadZone: 5}
}

func TestClassify_RequiresEdgeContact(t *testing.T) {
	c := newClassifier()
	if got := c.Classify(960, 10, usable1080); got != ZoneNone {
		t.Fatalf("in band without touching the edge: got %v, want none", got)
	}
	if got := c.Classify(960, 0, usable1080); got != ZoneFull {
		t.Fatalf("touching the edge: got %v, want full", got)
	}
}

func TestClassify_StickyEdgeEntry(t *testing.T) {
	c := newClassifier()
	c.Classify(960, 0, usable1080)

	for _, y := range []int{1, 10, 20} {
		if got := c.Classify(960, y, usable1080); got != ZoneFull {
			t.Fatalf("y=%d after edge contact: got %v, want full", y, got)
		}
	}

	if got := c.Classify(960, 21, usable1080); got != ZoneNone {
		t.Fatalf("y=21 leaves the band: got %v, want none", got)
	}
	if c.Armed() {
		t.Fatalf("leaving the band must clear the latch")
	}
	if got := c.Classify(960, 10, usable1080); got != ZoneNone {
		t.Fatalf("re-entering the band without edge contact: got %v, want none", got)
	}
}

func TestClassify_OutsideBandIsNone(t *testing.T) {
	c := newClassifier()
	c.Classify(960, 0, usable1080)

	for _, p := range [][2]int{{960, 21}, {960, 500}, {10, 1039}, {960, -1}} {
		if got := c.Classify(p[0], p[1], usable1080); got != ZoneNone {
			t.Errorf("Classify(%d,%d) = %v, want none", p[0], p[1], got)
		}
		if c.Armed() {
			t.Errorf("Classify(%d,%d) left the latch set", p[0], p[1])
		}
	}
}

func TestClassify_HorizontalDeadZone(t *testing.T) {
	tests := []struct {
		x    int
		want Zone
	}{
		{0, ZoneNone},
		{5, ZoneNone},
		{6, ZoneFull},
		{1914, ZoneFull},
		{1915, ZoneNone},
		{1919, ZoneNone},
	}
	for _, tt := range tests {
		c := newClassifier()
		if got := c.Classify(tt.x, 0, usable1080); got != tt.want {
			t.Errorf("Classify(%d, top) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestClassify_OffsetMonitor(t *testing.T) {
	usable := platform.Rect{X: 1920, Y: 200, Width: 2560, Height: 1440}
	c := newClassifier()
	if got := c.Classify(3000, 200, usable); got != ZoneFull {
		t.Fatalf("edge of offset monitor: got %v, want full", got)
	}
	if got := c.Classify(3000, 220, usable); got != ZoneFull {
		t.Fatalf("bottom of band on offset monitor: got %v, want full", got)
	}
	if got := c.Classify(1922, 210, usable); got != ZoneNone {
		t.Fatalf("dead zone on offset monitor: got %v, want none", got)
	}
}

func TestClassify_HalfSnapBands(t *testing.T) {
	c := &Classifier{EdgeSpacing: 20, DeadZone: 5, HalfSnap: true}

	if got := c.Classify(0, 500, usable1080); got != ZoneLeftHalf {
		t.Fatalf("left edge: got %v, want left-half", got)
	}
	if got := c.Classify(15, 500, usable1080); got != ZoneLeftHalf {
		t.Fatalf("inside left band: got %v, want left-half", got)
	}
	if got := c.Classify(30, 500, usable1080); got != ZoneNone {
		t.Fatalf("outside left band: got %v, want none", got)
	}
	if got := c.Classify(1919, 500, usable1080); got != ZoneRightHalf {
		t.Fatalf("right edge: got %v, want right-half", got)
	}
	if got := c.Classify(1905, 600, usable1080); got != ZoneRightHalf {
		t.Fatalf("inside right band: got %v, want right-half", got)
	}
	// Top corner stays unassigned.
	if got := c.Classify(1919, 0, usable1080); got != ZoneNone {
		t.Fatalf("top-right corner: got %v, want none", got)
	}
}

func TestClassify_SeamsNeverArmSideBands(t *testing.T) {
	c := &Classifier{EdgeSpacing: 20, DeadZone: 5, HalfSnap: true}
	c.SetSeams(false, true)

	if got := c.Classify(1919, 500, usable1080); got != ZoneNone {
		t.Fatalf("right seam: got %v, want none", got)
	}
	if got := c.Classify(1910, 500, usable1080); got != ZoneNone {
		t.Fatalf("inside right band after seam: got %v, want none", got)
	}
	if got := c.Classify(0, 500, usable1080); got != ZoneLeftHalf {
		t.Fatalf("outer left edge: got %v, want left-half", got)
	}
}

func TestSharedEdges(t *testing.T) {
	dp := platform.Display{ID: 0, Bounds: platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}}
	hdmi := platform.Display{ID: 1, Bounds: platform.Rect{X: 1920, Y: 0, Width: 2560, Height: 1440}}
	below := platform.Display{ID: 2, Bounds: platform.Rect{X: 1920, Y: 1440, Width: 1920, Height: 1080}}

	tests := []struct {
		name        string
		d           platform.Display
		all         []platform.Display
		left, right bool
	}{
		{name: "single", d: dp, all: []platform.Display{dp}},
		{name: "left of neighbor", d: dp, all: []platform.Display{dp, hdmi}, right: true},
		{name: "right of neighbor", d: hdmi, all: []platform.Display{dp, hdmi}, left: true},
		{name: "no vertical overlap", d: dp, all: []platform.Display{dp, below}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left, right := sharedEdges(tt.d, tt.all)
			if left != tt.left || right != tt.right {
				t.Fatalf("sharedEdges = (%v, %v), want (%v, %v)", left, right, tt.left, tt.right)
			}
		})
	}
}

func TestClassify_HalfSnapDisabledIgnoresSides(t *testing.T) {
	c := newClassifier()
	if got := c.Classify(0, 500, usable1080); got != ZoneNone {
		t.Fatalf("left edge with half snap off: got %v, want none", got)
	}
}

func TestTargetRect_Halves(t *testing.T) {
	usable := platform.Rect{X: 100, Y: 0, Width: 1921, Height: 1000}
	left, _ := TargetRect(ZoneLeftHalf, usable)
	right, _ := TargetRect(ZoneRightHalf, usable)
	if left != (platform.Rect{X: 100, Y: 0, Width: 960, Height: 1000}) {
		t.Fatalf("left half = %+v", left)
	}
	if right != (platform.Rect{X: 1060, Y: 0, Width: 961, Height: 1000}) {
		t.Fatalf("right half = %+v", right)
	}
	if left.Width+right.Width != usable.Width {
		t.Fatalf("halves must cover the usable width")
	}
	if _, ok := TargetRect(ZoneRestore, usable); ok {
		t.Fatalf("restore has no target")
	}
	if _, ok := TargetRect(ZoneNone, usable); ok {
		t.Fatalf("none has no target")
	}
}

func TestSeedRect_CenteredAtTop(t *testing.T) {
	seed := SeedRect(platform.Rect{X: 1920, Y: 0, Width: 2560, Height: 1440}, 40, 10)
	want := platform.Rect{X: 1920 + 1260, Y: 0, Width: 40, Height: 10}
	if seed != want {
		t.Fatalf("SeedRect = %+v, want %+v", seed, want)
	}
}
