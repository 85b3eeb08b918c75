package snap

import "fmt"

// Pointer is a pointer event in root (global) and drag-handle coordinates.
type Pointer struct {
	RootX  int
	RootY  int
	EventX int
	EventY int
}

// PointerHandler consumes primary-button drag events from a drag handle.
type PointerHandler interface {
	PointerPressed(p Pointer)
	PointerMoved(p Pointer)
	PointerReleased(p Pointer)
}

// DragHandle is a widget (e.g. a title bar) that delivers drag events to a
// single subscriber. Subscribing replaces any previous subscriber.
type DragHandle interface {
	Subscribe(h PointerHandler) (unsubscribe func(), err error)
}

// Attach registers h as the pointer consumer of handle.
func Attach(handle DragHandle, h PointerHandler) (func(), error) {
	if handle == nil {
		return nil, fmt.Errorf("drag handle is nil")
	}
	unsubscribe, err := handle.Subscribe(h)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to drag handle: %w", err)
	}
	return unsubscribe, nil
}
