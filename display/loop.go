package display

import (
	"time"
)

// Loop ticks Frame at a fixed interval until the surface asks to close,
// Frame fails or Stop is called. Run must stay on the thread that owns the
// surface; Stop may be called from any goroutine, e.g. a closer hook.
type Loop struct {
	Surface  Surface
	Interval time.Duration
	Frame    func() error
	// Cleanup runs on the loop thread before the surface is destroyed.
	Cleanup func()

	exitC  chan struct{}
	doneC  chan struct{}
	frames int
	err    error
}

func NewLoop(surface Surface, interval time.Duration, frame func() error) *Loop {
	return &Loop{
		Surface:  surface,
		Interval: interval,
		Frame:    frame,

		exitC: make(chan struct{}, 2),
		doneC: make(chan struct{}, 2),
	}
}

// Run returns the error that ended the loop, if any.
func (l *Loop) Run() error {
	ticker := time.NewTicker(l.Interval)
	start := time.Now()
	for {
		select {
		case <-l.exitC:
			if elapsed := time.Since(start); elapsed > 0 {
				logger.Infof("FPS: %.2f", float64(l.frames)/elapsed.Seconds())
			}
			if l.Cleanup != nil {
				l.Cleanup()
			}
			l.Surface.Destroy()
			ticker.Stop()
			l.doneC <- struct{}{}
			return l.err
		case <-ticker.C:
			if l.Surface.ShouldClose() {
				l.exitC <- struct{}{}
				continue
			}
			l.Surface.PollEvents()
			if err := l.Frame(); err != nil {
				l.err = err
				l.exitC <- struct{}{}
				continue
			}
			l.frames++
		}
	}
}

// Stop asks Run to exit and waits until it has cleaned up.
func (l *Loop) Stop() {
	l.exitC <- struct{}{}
	<-l.doneC
}

func (l *Loop) Frames() int {
	return l.frames
}
