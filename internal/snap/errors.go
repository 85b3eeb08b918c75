package snap

import "errors"

var (
	// ErrMonitorResolution means the pointer mapped to no known monitor.
	// The engine recovers by keeping the current or last known good monitor.
	ErrMonitorResolution = errors.New("pointer maps to no known monitor")

	// ErrReservedAreaQuery means the taskbar/dock height was unavailable.
	// The engine recovers by treating the reserved height as 0.
	ErrReservedAreaQuery = errors.New("reserved area query failed")

	// ErrNoDisplays means the host reported no active displays.
	ErrNoDisplays = errors.New("no displays available")
)
