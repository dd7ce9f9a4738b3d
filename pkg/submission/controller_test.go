package submission_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-intake/pkg/submission"
	"github.com/goliatone/go-intake/pkg/testsupport"
)

type transitionLog struct {
	mu   sync.Mutex
	seen []submission.Transition
}

func (l *transitionLog) observe(tr submission.Transition) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen = append(l.seen, tr)
}

func (l *transitionLog) statuses() []submission.Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := []submission.Status{}
	for i, tr := range l.seen {
		if i == 0 {
			out = append(out, tr.From)
		}
		out = append(out, tr.To)
	}
	return out
}

func newController(t *testing.T, transport submission.Transport, opts ...submission.Option) *submission.Controller {
	t.Helper()
	c, err := submission.New(transport, opts...)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return c
}

func TestNewRequiresTransport(t *testing.T) {
	if _, err := submission.New(nil); !errors.Is(err, submission.ErrTransportRequired) {
		t.Fatalf("expected ErrTransportRequired, got %v", err)
	}
}

func TestControllerStartsIdle(t *testing.T) {
	c := newController(t, &testsupport.RecordingTransport{StatusCode: http.StatusOK})
	snap := c.Snapshot()
	if snap.Status != submission.StatusIdle {
		t.Fatalf("expected idle, got %s", snap.Status)
	}
	if snap.ErrorMessage != "" || snap.Attempts != 0 || snap.AttemptID != "" {
		t.Fatalf("unexpected initial snapshot: %+v", snap)
	}
	if snap.SubmitDisabled() || snap.SubmitLabel() != submission.LabelSubmit {
		t.Fatalf("submit trigger must be enabled with label %q", submission.LabelSubmit)
	}
}

func TestUpdateLeavesStatusUntouched(t *testing.T) {
	transport := &testsupport.RecordingTransport{StatusCode: http.StatusBadGateway}
	c := newController(t, transport)
	testsupport.FillForm(t, c, testsupport.CompleteForm())
	if _, err := c.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	before := c.Snapshot()
	if err := c.Update(submission.FieldClientName, "Renamed"); err != nil {
		t.Fatalf("update: %v", err)
	}
	after := c.Snapshot()

	if after.Status != before.Status || after.ErrorMessage != before.ErrorMessage {
		t.Fatalf("update changed status: before %+v after %+v", before, after)
	}
	wantForm := before.Form
	wantForm.ClientName = "Renamed"
	if diff := cmp.Diff(wantForm, after.Form); diff != "" {
		t.Fatalf("form mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateByNameRejectsUnknownKey(t *testing.T) {
	c := newController(t, &testsupport.RecordingTransport{StatusCode: http.StatusOK})
	if err := c.UpdateByName("email", "x"); !errors.Is(err, submission.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if diff := cmp.Diff(submission.FormData{}, c.Snapshot().Form); diff != "" {
		t.Fatalf("form changed (-want +got):\n%s", diff)
	}
}

func TestSubmitSuccessTransitions(t *testing.T) {
	log := &transitionLog{}
	transport := &testsupport.RecordingTransport{StatusCode: http.StatusCreated}
	c := newController(t, transport, submission.WithObserver(log.observe))
	form := testsupport.CompleteForm()
	testsupport.FillForm(t, c, form)

	snap, err := c.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if snap.Status != submission.StatusSuccess {
		t.Fatalf("expected success, got %s", snap.Status)
	}
	if snap.ErrorMessage != "" {
		t.Fatalf("expected empty error message, got %q", snap.ErrorMessage)
	}
	want := []submission.Status{submission.StatusIdle, submission.StatusLoading, submission.StatusSuccess}
	if diff := cmp.Diff(want, log.statuses()); diff != "" {
		t.Fatalf("transitions mismatch (-want +got):\n%s", diff)
	}

	calls := transport.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected one outbound call, got %d", len(calls))
	}
	var sent submission.FormData
	if err := json.Unmarshal(calls[0].Body, &sent); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if diff := cmp.Diff(form, sent); diff != "" {
		t.Fatalf("body mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmitFailureMessages(t *testing.T) {
	tests := []struct {
		name      string
		transport *testsupport.RecordingTransport
		want      string
		wantErr   error
	}{
		{
			name:      "non-success status",
			transport: &testsupport.RecordingTransport{StatusCode: http.StatusInternalServerError},
			want:      "Failed to submit form",
			wantErr:   submission.ErrUnsuccessfulResponse,
		},
		{
			name:      "redirect status is not success",
			transport: &testsupport.RecordingTransport{StatusCode: http.StatusMultipleChoices},
			want:      "Failed to submit form",
			wantErr:   submission.ErrUnsuccessfulResponse,
		},
		{
			name:      "transport error message",
			transport: &testsupport.RecordingTransport{Err: errors.New("boom")},
			want:      "boom",
		},
		{
			name:      "transport error without message",
			transport: &testsupport.RecordingTransport{Err: errors.New("")},
			want:      "An error occurred. Please try again.",
		},
		{
			name:      "no response",
			transport: &testsupport.RecordingTransport{},
			want:      "An error occurred. Please try again.",
			wantErr:   submission.ErrNoResponse,
		},
		{
			name:      "panic with plain string",
			transport: &testsupport.RecordingTransport{PanicValue: "kaboom"},
			want:      "An error occurred. Please try again.",
		},
		{
			name:      "panic with error value",
			transport: &testsupport.RecordingTransport{PanicValue: errors.New("boom")},
			want:      "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newController(t, tt.transport)
			testsupport.FillForm(t, c, testsupport.CompleteForm())

			snap, err := c.Submit(context.Background())
			if err != nil {
				t.Fatalf("submit: %v", err)
			}
			if snap.Status != submission.StatusError {
				t.Fatalf("expected error status, got %s", snap.Status)
			}
			if snap.ErrorMessage != tt.want {
				t.Fatalf("message mismatch: want %q, got %q", tt.want, snap.ErrorMessage)
			}
			if tt.wantErr != nil && !errors.Is(c.LastError(), tt.wantErr) {
				t.Fatalf("expected last error %v, got %v", tt.wantErr, c.LastError())
			}
			if tt.transport.CallCount() != 1 {
				t.Fatalf("expected one call, got %d", tt.transport.CallCount())
			}
		})
	}
}

func TestResponseErrorKeepsCode(t *testing.T) {
	c := newController(t, &testsupport.RecordingTransport{StatusCode: http.StatusTeapot})
	testsupport.FillForm(t, c, testsupport.CompleteForm())
	if _, err := c.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	var respErr *submission.ResponseError
	if !errors.As(c.LastError(), &respErr) {
		t.Fatalf("expected ResponseError, got %T", c.LastError())
	}
	if respErr.StatusCode != http.StatusTeapot {
		t.Fatalf("expected code %d, got %d", http.StatusTeapot, respErr.StatusCode)
	}
	if !errors.Is(c.LastError(), submission.ErrUnsuccessfulResponse) {
		t.Fatalf("expected ErrUnsuccessfulResponse, got %v", c.LastError())
	}
	if got := c.Status(); got != submission.StatusError {
		t.Fatalf("expected status %q, got %q", submission.StatusError, got)
	}
}

func TestStartRejectsIncompleteForm(t *testing.T) {
	transport := &testsupport.RecordingTransport{StatusCode: http.StatusOK}
	c := newController(t, transport)
	if err := c.Update(submission.FieldClientName, "Acme"); err != nil {
		t.Fatalf("update: %v", err)
	}

	if _, err := c.Start(context.Background()); !errors.Is(err, submission.ErrIncompleteForm) {
		t.Fatalf("expected ErrIncompleteForm, got %v", err)
	}
	if c.Status() != submission.StatusIdle {
		t.Fatalf("status must stay idle, got %s", c.Status())
	}
	if transport.CallCount() != 0 {
		t.Fatalf("expected no outbound call")
	}
}

func TestSingleFlightWhileLoading(t *testing.T) {
	transport, release := testsupport.NewBlockingTransport(http.StatusOK)
	defer release()
	entered := transport.Entered()

	c := newController(t, transport)
	testsupport.FillForm(t, c, testsupport.CompleteForm())

	done, err := c.Start(context.Background())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if snap := c.Snapshot(); !snap.SubmitDisabled() || snap.SubmitLabel() != submission.LabelProcessing {
		t.Fatalf("expected disabled trigger labelled %q, got %+v", submission.LabelProcessing, snap)
	}

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatalf("transport was not called")
	}

	if _, err := c.Start(context.Background()); !errors.Is(err, submission.ErrSubmitDisabled) {
		t.Fatalf("expected ErrSubmitDisabled, got %v", err)
	}
	if _, err := c.Submit(context.Background()); !errors.Is(err, submission.ErrSubmitDisabled) {
		t.Fatalf("expected ErrSubmitDisabled from Submit, got %v", err)
	}

	release()
	select {
	case snap := <-done:
		if snap.Status != submission.StatusSuccess {
			t.Fatalf("expected success, got %s", snap.Status)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("attempt did not finish")
	}

	if transport.CallCount() != 1 {
		t.Fatalf("expected exactly one outbound call, got %d", transport.CallCount())
	}
	if _, open := <-done; open {
		t.Fatalf("result channel must be closed after delivery")
	}
}

func TestResubmitAfterSuccessIssuesNewRequest(t *testing.T) {
	log := &transitionLog{}
	ids := []string{"first", "second"}
	var next int
	transport := &testsupport.RecordingTransport{StatusCode: http.StatusOK}
	c := newController(t, transport,
		submission.WithObserver(log.observe),
		submission.WithIDGenerator(func() string {
			id := ids[next]
			next++
			return id
		}),
	)
	testsupport.FillForm(t, c, testsupport.CompleteForm())

	first, err := c.Submit(context.Background())
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	second, err := c.Submit(context.Background())
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}

	if transport.CallCount() != 2 {
		t.Fatalf("expected two outbound calls, got %d", transport.CallCount())
	}
	if first.AttemptID != "first" || second.AttemptID != "second" || second.Attempts != 2 {
		t.Fatalf("unexpected attempts: first %+v second %+v", first, second)
	}
	calls := transport.Calls()
	if diff := cmp.Diff(string(calls[0].Body), string(calls[1].Body)); diff != "" {
		t.Fatalf("identical forms must serialize identically (-first +second):\n%s", diff)
	}
	want := []submission.Status{
		submission.StatusIdle, submission.StatusLoading, submission.StatusSuccess,
		submission.StatusLoading, submission.StatusSuccess,
	}
	if diff := cmp.Diff(want, log.statuses()); diff != "" {
		t.Fatalf("transitions mismatch (-want +got):\n%s", diff)
	}
}

func TestResubmitAfterErrorClearsMessage(t *testing.T) {
	transport := &testsupport.RecordingTransport{Err: errors.New("boom")}
	var loadingMessages []string
	c := newController(t, transport, submission.WithObserver(func(tr submission.Transition) {
		if tr.To == submission.StatusLoading {
			loadingMessages = append(loadingMessages, tr.Snapshot.ErrorMessage)
		}
	}))
	testsupport.FillForm(t, c, testsupport.CompleteForm())

	if snap, _ := c.Submit(context.Background()); snap.ErrorMessage != "boom" {
		t.Fatalf("expected boom, got %q", snap.ErrorMessage)
	}

	transport.Err = nil
	transport.StatusCode = http.StatusOK
	snap, err := c.Submit(context.Background())
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if snap.Status != submission.StatusSuccess || snap.ErrorMessage != "" {
		t.Fatalf("expected clean success, got %+v", snap)
	}
	if c.LastError() != nil {
		t.Fatalf("expected last error cleared, got %v", c.LastError())
	}
	if diff := cmp.Diff([]string{"", ""}, loadingMessages); diff != "" {
		t.Fatalf("loading snapshots must carry an empty message (-want +got):\n%s", diff)
	}
}

func TestTransitionElapsedUsesClock(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ticks := []time.Time{base, base.Add(1500 * time.Millisecond)}
	var idx int
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := ticks[idx]
		if idx < len(ticks)-1 {
			idx++
		}
		return now
	}

	var terminal submission.Transition
	c := newController(t, &testsupport.RecordingTransport{StatusCode: http.StatusOK},
		submission.WithClock(clock),
		submission.WithObserver(func(tr submission.Transition) {
			if tr.From == submission.StatusLoading {
				terminal = tr
			}
		}),
	)
	testsupport.FillForm(t, c, testsupport.CompleteForm())
	if _, err := c.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if terminal.Elapsed != 1500*time.Millisecond {
		t.Fatalf("expected 1.5s elapsed, got %s", terminal.Elapsed)
	}
}

func TestSubmitReturnsWhenCallerStopsWaiting(t *testing.T) {
	release := make(chan struct{})
	transport := submission.TransportFunc(func(context.Context, []byte) (int, error) {
		<-release
		return http.StatusOK, nil
	})
	c := newController(t, transport)
	testsupport.FillForm(t, c, testsupport.CompleteForm())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	snap, err := c.Submit(ctx)
	close(release)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if snap.Attempts != 1 || snap.Status != submission.StatusLoading {
		t.Fatalf("attempt must still be in flight, got %+v", snap)
	}
}
