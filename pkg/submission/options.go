package submission

import (
	"time"

	"go.uber.org/zap"
)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for attempt start/outcome lines.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver registers an observer notified after every transition.
func WithObserver(observer Observer) Option {
	return func(c *Controller) {
		if observer != nil {
			c.observers = append(c.observers, observer)
		}
	}
}

// WithIDGenerator overrides the attempt id generator (uuid by default).
func WithIDGenerator(fn func() string) Option {
	return func(c *Controller) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// WithClock overrides the time source used for elapsed measurements.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithInitialForm seeds the form, e.g. from prefilled values.
func WithInitialForm(form FormData) Option {
	return func(c *Controller) {
		c.form = form
	}
}
