package intake

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-intake/pkg/contract"
	"github.com/goliatone/go-intake/pkg/render"
	"github.com/goliatone/go-intake/pkg/submission"
	"github.com/goliatone/go-intake/pkg/testsupport"
	"github.com/goliatone/go-intake/pkg/workflow"
)

func TestNewControllerSubmitsToEndpoint(t *testing.T) {
	var (
		mu   sync.Mutex
		body []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		body = data
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var statuses []submission.Status
	controller, err := NewController(
		WithEndpoint(srv.URL+"/create-workflow"),
		WithHTTPClient(srv.Client()),
		WithInitialForm(testsupport.CompleteForm()),
		WithObserver(func(tr submission.Transition) { statuses = append(statuses, tr.To) }),
	)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}

	snap, err := controller.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if snap.Status != submission.StatusSuccess {
		t.Fatalf("expected success, got %s (%s)", snap.Status, snap.ErrorMessage)
	}
	if diff := cmp.Diff([]submission.Status{submission.StatusLoading, submission.StatusSuccess}, statuses); diff != "" {
		t.Fatalf("observer mismatch (-want +got):\n%s", diff)
	}

	mu.Lock()
	defer mu.Unlock()
	var sent FormData
	if err := json.Unmarshal(body, &sent); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if diff := cmp.Diff(testsupport.CompleteForm(), sent); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestNewControllerRejectsInvalidEndpoint(t *testing.T) {
	_, err := NewController(WithEndpoint("localhost:8000/create-workflow"))
	if !errors.Is(err, workflow.ErrInvalidEndpoint) {
		t.Fatalf("expected ErrInvalidEndpoint, got %v", err)
	}
}

func TestNewControllerDetectsFieldDrift(t *testing.T) {
	drifted := &contract.Contract{
		ServerURL: "http://localhost:8000",
		Path:      "/create-workflow",
		Fields:    []contract.Field{{Name: "clientName", Required: true}},
	}
	_, err := NewController(WithContract(drifted))
	if !errors.Is(err, contract.ErrFieldDrift) {
		t.Fatalf("expected ErrFieldDrift, got %v", err)
	}
}

func TestNewRegistryAndRenderSnapshot(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if diff := cmp.Diff([]string{"tui", "vanilla"}, registry.List()); diff != "" {
		t.Fatalf("registry mismatch (-want +got):\n%s", diff)
	}

	snap := submission.Snapshot{Status: submission.StatusError, ErrorMessage: "Failed to submit form"}

	text, contentType, err := RenderSnapshot(context.Background(), registry, "tui", snap, RenderOptions{})
	if err != nil {
		t.Fatalf("render tui: %v", err)
	}
	if !strings.HasPrefix(contentType, "text/plain") || !strings.Contains(string(text), "Failed to submit form") {
		t.Fatalf("unexpected tui output (%s):\n%s", contentType, text)
	}

	html, contentType, err := RenderSnapshot(context.Background(), registry, "vanilla", snap, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render vanilla: %v", err)
	}
	if !strings.HasPrefix(contentType, "text/html") || !strings.Contains(string(html), `role="alert">Failed to submit form`) {
		t.Fatalf("unexpected vanilla output (%s):\n%s", contentType, html)
	}
}

func TestEmbeddedBundles(t *testing.T) {
	if _, err := fs.ReadFile(EmbeddedTemplates(), "templates/page.tmpl"); err != nil {
		t.Fatalf("expected page template: %v", err)
	}
	if _, err := fs.ReadFile(AssetsFS(), "intake.css"); err != nil {
		t.Fatalf("expected stylesheet: %v", err)
	}
}
