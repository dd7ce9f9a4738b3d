package submission

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Controller owns the form, the submission status and the error message.
// It is safe for concurrent use; at most one attempt is in flight at a time.
type Controller struct {
	mu sync.Mutex

	form         FormData
	status       Status
	errorMessage string
	lastErr      error
	attempts     int
	attemptID    string
	startedAt    time.Time

	transport Transport
	logger    *zap.Logger
	observers []Observer
	newID     func() string
	now       func() time.Time
}

// New constructs a Controller in the idle state.
func New(transport Transport, options ...Option) (*Controller, error) {
	if transport == nil {
		return nil, ErrTransportRequired
	}
	c := &Controller{
		status:    StatusIdle,
		transport: transport,
		logger:    zap.NewNop(),
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Status returns the current status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// LastError returns the typed failure of the latest attempt, or nil when the
// latest attempt did not fail.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Update replaces a single form attribute. Status and error message are left
// untouched.
func (c *Controller) Update(field Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := c.form.With(field, value)
	if err != nil {
		return err
	}
	c.form = next
	return nil
}

// UpdateByName is Update keyed by the raw input name.
func (c *Controller) UpdateByName(name, value string) error {
	field, ok := ParseField(name)
	if !ok {
		return unknownField(name)
	}
	return c.Update(field, value)
}

// Start begins a submission attempt. The controller is in StatusLoading when
// Start returns; the terminal snapshot is delivered on the returned channel,
// which is then closed.
func (c *Controller) Start(ctx context.Context) (<-chan Snapshot, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	c.mu.Lock()
	if c.status == StatusLoading {
		c.mu.Unlock()
		return nil, ErrSubmitDisabled
	}
	if missing := c.form.Missing(); len(missing) > 0 {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: missing %v", ErrIncompleteForm, missing)
	}

	from := c.status
	c.status = StatusLoading
	c.errorMessage = ""
	c.lastErr = nil
	c.attempts++
	c.attemptID = c.newID()
	c.startedAt = c.now()
	form := c.form
	loading := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Info("submission started",
		zap.String("attempt_id", loading.AttemptID),
		zap.Int("attempt", loading.Attempts),
		zap.String("client_name", form.ClientName),
	)
	c.notify(Transition{From: from, To: StatusLoading, Snapshot: loading})

	done := make(chan Snapshot, 1)
	go func() {
		defer close(done)
		code, err := c.dispatch(ctx, form)
		done <- c.finish(loading.AttemptID, code, err)
	}()
	return done, nil
}

// Submit runs Start and waits for the terminal snapshot. The returned error
// only reports gating failures or ctx ending while waiting; failed attempts
// are reflected in the snapshot.
func (c *Controller) Submit(ctx context.Context) (Snapshot, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	done, err := c.Start(ctx)
	if err != nil {
		return c.Snapshot(), err
	}
	select {
	case snap := <-done:
		return snap, nil
	case <-ctx.Done():
		return c.Snapshot(), ctx.Err()
	}
}

func (c *Controller) dispatch(ctx context.Context, form FormData) (code int, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			code, err = 0, &PanicError{Value: recovered}
		}
	}()

	body, err := json.Marshal(form)
	if err != nil {
		return 0, fmt.Errorf("submission: encode form: %w", err)
	}
	return c.transport.Post(ctx, body)
}

func (c *Controller) finish(attemptID string, code int, err error) Snapshot {
	var failure error
	switch {
	case err != nil:
		failure = err
		if _, isPanic := err.(*PanicError); !isPanic {
			failure = &TransportError{Err: err}
		}
	case code == 0:
		failure = ErrNoResponse
	case !IsSuccessStatus(code):
		failure = &ResponseError{StatusCode: code}
	}

	c.mu.Lock()
	elapsed := c.now().Sub(c.startedAt)
	if failure != nil {
		c.status = StatusError
		c.errorMessage = FailureMessage(failure)
	} else {
		c.status = StatusSuccess
		c.errorMessage = ""
	}
	c.lastErr = failure
	snap := c.snapshotLocked()
	c.mu.Unlock()

	fields := []zap.Field{
		zap.String("attempt_id", attemptID),
		zap.String("status", string(snap.Status)),
		zap.Duration("elapsed", elapsed),
	}
	if code != 0 {
		fields = append(fields, zap.Int("status_code", code))
	}
	if failure != nil {
		c.logger.Warn("submission failed", append(fields, zap.Error(failure))...)
	} else {
		c.logger.Info("submission succeeded", fields...)
	}

	c.notify(Transition{
		From:     StatusLoading,
		To:       snap.Status,
		Snapshot: snap,
		Elapsed:  elapsed,
		Err:      failure,
	})
	return snap
}

func (c *Controller) notify(tr Transition) {
	for _, observer := range c.observers {
		observer(tr)
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Form:         c.form,
		Status:       c.status,
		ErrorMessage: c.errorMessage,
		Attempts:     c.attempts,
		AttemptID:    c.attemptID,
	}
}
