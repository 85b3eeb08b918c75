package snap

import (
	"sync"
	"time"
)

type realScheduler struct{}

// RealScheduler returns a Scheduler backed by the time package.
func RealScheduler() Scheduler { return realScheduler{} }

func (realScheduler) Now() time.Time { return time.Now() }

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// lockedScheduler serializes scheduled callbacks with pointer handlers.
type lockedScheduler struct {
	mu    *sync.Mutex
	inner Scheduler
}

func (s lockedScheduler) Now() time.Time { return s.inner.Now() }

func (s lockedScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return s.inner.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		f()
	})
}
