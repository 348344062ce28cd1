package listing

import "context"

// VisibilitySignal fires when the end of the displayed list comes into view.
type VisibilitySignal interface {
	Visible() <-chan struct{}
}

// Watch calls LoadMore each time signal fires, until ctx is done or the
// signal channel is closed. Signals that arrive while a page is loading are
// ignored by the LoadMore guard.
func (c *Controller) Watch(ctx context.Context, signal VisibilitySignal) {
	visible := signal.Visible()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-visible:
			if !ok {
				return
			}
			c.LoadMore()
		}
	}
}

// Sentinel is a VisibilitySignal fired by hand, for example from an HTTP
// handler. Signals fired before the previous one is consumed coalesce.
type Sentinel struct {
	ch chan struct{}
}

// NewSentinel creates a sentinel.
func NewSentinel() *Sentinel {
	return &Sentinel{ch: make(chan struct{}, 1)}
}

// Visible implements VisibilitySignal.
func (s *Sentinel) Visible() <-chan struct{} {
	return s.ch
}

// Signal reports that the sentinel is visible.
func (s *Sentinel) Signal() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}
