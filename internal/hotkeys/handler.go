package hotkeys

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Toggler is anything that can be switched on and off from a hotkey.
type Toggler interface {
	Enabled() bool
	SetEnabled(enabled bool)
}

// x11Accessor is implemented by backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	logger *slog.Logger

	mu    sync.Mutex
	bound []string
}

var ignoreModsOnce sync.Once

// NewHandler creates a hotkey handler on the backend's X connection.
func NewHandler(backend x11Accessor, logger *slog.Logger) (*Handler, error) {
	xu := backend.XUtil()
	if xu == nil {
		return nil, fmt.Errorf("hotkeys need an X11 connection")
	}
	if logger == nil {
		logger = slog.Default()
	}

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:     xu,
		root:   backend.RootWindow(),
		logger: logger,
	}, nil
}

// RegisterToggle flips t each time keySequence is pressed.
func (h *Handler) RegisterToggle(keySequence string, t Toggler) error {
	return h.RegisterFunc(keySequence, func() {
		enabled := !t.Enabled()
		t.SetEnabled(enabled)
		h.logger.Info("toggle hotkey", "keys", keySequence, "enabled", enabled)
	})
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	keySequence = strings.TrimSpace(keySequence)
	if keySequence == "" {
		return fmt.Errorf("empty key sequence")
	}
	err := keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
	if err != nil {
		return fmt.Errorf("bind %q: %w", keySequence, err)
	}

	h.mu.Lock()
	h.bound = append(h.bound, keySequence)
	h.mu.Unlock()
	return nil
}

// Reset ungrabs every registered hotkey, e.g. before rebinding after a
// config reload.
func (h *Handler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, seq := range h.bound {
		mods, keycodes, err := keybind.ParseString(h.xu, seq)
		if err != nil {
			continue
		}
		for _, kc := range keycodes {
			keybind.Ungrab(h.xu, h.root, mods, kc)
		}
	}
	keybind.Detach(h.xu, h.root)
	h.bound = nil
}

// Bound returns the registered key sequences.
func (h *Handler) Bound() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.bound...)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	xevent.IgnoreMods = ignoreMasks(base)
}

// ignoreMasks returns every combination of the given lock masks, including
// the empty one.
func ignoreMasks(base []uint16) []uint16 {
	unique := make(map[uint16]struct{})
	unique[0] = struct{}{}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		unique[mask] = struct{}{}
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}
	return ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
