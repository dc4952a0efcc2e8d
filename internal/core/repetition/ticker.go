package repetition

import (
	"sync"
	"time"
)

// TickSource delivers a callback periodically until the returned handle is cancelled.
type TickSource interface {
	Schedule(interval time.Duration, callback func()) TickHandle
}

// TickHandle stops a scheduled callback. Cancel must not block and may be
// called from inside the callback.
type TickHandle interface {
	Cancel()
}

// IntervalTicker drives callbacks from a time.Ticker goroutine.
type IntervalTicker struct{}

// NewIntervalTicker returns the wall-clock tick source.
func NewIntervalTicker() IntervalTicker {
	return IntervalTicker{}
}

// Schedule starts a goroutine invoking callback every interval.
func (IntervalTicker) Schedule(interval time.Duration, callback func()) TickHandle {
	if interval <= 0 {
		interval = time.Second
	}
	handle := &intervalHandle{stopCh: make(chan struct{})}
	go handle.run(interval, callback)
	return handle
}

type intervalHandle struct {
	stopCh chan struct{}
	once   sync.Once
}

func (handle *intervalHandle) Cancel() {
	handle.once.Do(func() {
		close(handle.stopCh)
	})
}

func (handle *intervalHandle) run(interval time.Duration, callback func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-handle.stopCh:
			return
		case <-ticker.C:
			select {
			case <-handle.stopCh:
				return
			default:
			}
			callback()
		}
	}
}
