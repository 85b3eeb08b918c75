package x11

import (
	"os"
	"testing"

	"github.com/BurntSushi/xgb/shape"
)

// Needs a running X server, e.g. DISPLAY=:99 under Xvfb.
func TestOverlayIgnoresPointerInput(t *testing.T) {
	if os.Getenv("DISPLAY") == "" {
		t.Skip("DISPLAY not set")
	}
	conn, err := NewConnection("")
	if err != nil {
		t.Skipf("no X server: %v", err)
	}
	defer conn.Close()
	if !conn.shapeReady {
		t.Skip("X server lacks the SHAPE extension")
	}

	o, err := conn.NewOverlay(OverlayStyle{Fill: 0xffffff, Border: 0x9c9c9c, BorderWidth: 1, Margin: 9, MaxOpacity: 0.5})
	if err != nil {
		t.Fatalf("NewOverlay: %v", err)
	}
	defer o.Close()

	if err := o.SetGeometry(0, 0, 400, 300); err != nil {
		t.Fatalf("SetGeometry: %v", err)
	}
	if err := o.Show(); err != nil {
		t.Fatalf("Show: %v", err)
	}

	reply, err := shape.GetRectangles(conn.XUtil.Conn(), o.Window(), shape.SkInput).Reply()
	if err != nil {
		t.Fatalf("GetRectangles: %v", err)
	}
	if reply.RectanglesLen != 0 {
		t.Fatalf("input region has %d rectangles, want none", reply.RectanglesLen)
	}
}
