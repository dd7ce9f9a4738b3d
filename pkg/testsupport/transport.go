package testsupport

import (
	"context"
	"sync"
)

// Call records one Post made against a RecordingTransport.
type Call struct {
	Body []byte
}

// RecordingTransport is a scripted submission.Transport. Each Post records the
// body and answers with StatusCode/Err, or panics with PanicValue when set.
// When Gate is non-nil, Post blocks until the gate is closed or receives.
type RecordingTransport struct {
	StatusCode int
	Err        error
	PanicValue any
	Gate       chan struct{}

	mu      sync.Mutex
	calls   []Call
	entered chan struct{}
}

// NewBlockingTransport returns a transport that answers statusCode once the
// returned release function is called.
func NewBlockingTransport(statusCode int) (*RecordingTransport, func()) {
	gate := make(chan struct{})
	var once sync.Once
	return &RecordingTransport{StatusCode: statusCode, Gate: gate}, func() {
		once.Do(func() { close(gate) })
	}
}

// Post implements submission.Transport.
func (r *RecordingTransport) Post(ctx context.Context, body []byte) (int, error) {
	r.mu.Lock()
	r.calls = append(r.calls, Call{Body: append([]byte(nil), body...)})
	entered := r.entered
	r.mu.Unlock()

	if entered != nil {
		select {
		case entered <- struct{}{}:
		default:
		}
	}

	if r.Gate != nil {
		select {
		case <-r.Gate:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	if r.PanicValue != nil {
		panic(r.PanicValue)
	}
	return r.StatusCode, r.Err
}

// Entered returns a channel signalled each time Post is entered.
func (r *RecordingTransport) Entered() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entered == nil {
		r.entered = make(chan struct{}, 16)
	}
	return r.entered
}

// Calls returns a copy of the recorded calls.
func (r *RecordingTransport) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// CallCount returns how many times Post was invoked.
func (r *RecordingTransport) CallCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}
