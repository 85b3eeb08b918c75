package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/mousebind"
)

// DragFuncs receives button-1 drag events in root and handle-relative
// coordinates.
type DragFuncs struct {
	Begin func(rootX, rootY, eventX, eventY int)
	Step  func(rootX, rootY, eventX, eventY int)
	End   func(rootX, rootY, eventX, eventY int)
}

// BindDrag routes button-1 drags that start on handle to fns. The pointer is
// grabbed for the duration of the drag. Binding again replaces the previous
// callbacks. The returned function detaches the binding.
func (c *Connection) BindDrag(handle xproto.Window, fns DragFuncs) (func(), error) {
	if handle == 0 {
		return nil, fmt.Errorf("drag handle window is not set")
	}
	mousebind.Detach(c.XUtil, handle)

	begin := func(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) (bool, xproto.Cursor) {
		if fns.Begin != nil {
			fns.Begin(rootX, rootY, eventX, eventY)
		}
		return true, 0
	}
	step := func(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) {
		if fns.Step != nil {
			fns.Step(rootX, rootY, eventX, eventY)
		}
	}
	end := func(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) {
		if fns.End != nil {
			fns.End(rootX, rootY, eventX, eventY)
		}
	}

	mousebind.Drag(c.XUtil, handle, handle, "1", true, begin, step, end)
	return func() { mousebind.Detach(c.XUtil, handle) }, nil
}
