package intake

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/goliatone/go-intake/pkg/contract"
	"github.com/goliatone/go-intake/pkg/render"
	"github.com/goliatone/go-intake/pkg/renderers/tui"
	"github.com/goliatone/go-intake/pkg/renderers/vanilla"
	"github.com/goliatone/go-intake/pkg/submission"
	"github.com/goliatone/go-intake/pkg/workflow"
)

// Snapshot aliases submission.Snapshot for callers that only import the root
// package.
type Snapshot = submission.Snapshot

// FormData aliases submission.FormData.
type FormData = submission.FormData

// RenderOptions aliases render.RenderOptions.
type RenderOptions = render.RenderOptions

// Option configures NewController.
type Option func(*settings)

type settings struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
	observers  []submission.Observer
	contract   *contract.Contract
	initial    *submission.FormData
}

// WithEndpoint overrides the contract endpoint.
func WithEndpoint(endpoint string) Option {
	return func(s *settings) {
		s.endpoint = endpoint
	}
}

// WithHTTPClient sets the client used for the workflow POST.
func WithHTTPClient(client *http.Client) Option {
	return func(s *settings) {
		s.httpClient = client
	}
}

// WithLogger shares logger between the transport and the controller.
func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithObserver registers a transition observer (metrics, audit logging).
func WithObserver(observer submission.Observer) Option {
	return func(s *settings) {
		if observer != nil {
			s.observers = append(s.observers, observer)
		}
	}
}

// WithContract replaces the embedded contract.
func WithContract(c *contract.Contract) Option {
	return func(s *settings) {
		s.contract = c
	}
}

// WithInitialForm prefills the controller.
func WithInitialForm(form submission.FormData) Option {
	return func(s *settings) {
		s.initial = &form
	}
}

// NewController checks the contract against the recognized fields, builds
// the workflow client for the contract endpoint (or WithEndpoint) and returns
// a controller posting through it.
func NewController(options ...Option) (*submission.Controller, error) {
	s := &settings{}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	c := s.contract
	if c == nil {
		var err error
		if c, err = contract.Default(); err != nil {
			return nil, err
		}
	}
	if err := c.CheckFields(submission.FieldNames()); err != nil {
		return nil, err
	}

	endpoint := s.endpoint
	if endpoint == "" {
		endpoint = c.Endpoint()
	}

	client, err := workflow.NewClient(
		workflow.WithEndpoint(endpoint),
		workflow.WithHTTPClient(s.httpClient),
		workflow.WithLogger(s.logger),
	)
	if err != nil {
		return nil, err
	}

	controllerOpts := []submission.Option{submission.WithLogger(s.logger)}
	for _, observer := range s.observers {
		controllerOpts = append(controllerOpts, submission.WithObserver(observer))
	}
	if s.initial != nil {
		controllerOpts = append(controllerOpts, submission.WithInitialForm(*s.initial))
	}
	return submission.New(client, controllerOpts...)
}

// NewRegistry returns a registry holding the vanilla and tui renderers.
func NewRegistry(tuiOptions ...tui.Option) (*render.Registry, error) {
	registry := render.NewRegistry()

	html, err := vanilla.New()
	if err != nil {
		return nil, fmt.Errorf("intake: vanilla renderer: %w", err)
	}
	if err := registry.Register(html); err != nil {
		return nil, err
	}

	text, err := tui.New(tuiOptions...)
	if err != nil {
		return nil, fmt.Errorf("intake: tui renderer: %w", err)
	}
	if err := registry.Register(text); err != nil {
		return nil, err
	}
	return registry, nil
}

// RenderSnapshot projects snap with the embedded contract labels and renders
// it with the named renderer, returning the output and its content type.
func RenderSnapshot(ctx context.Context, registry *render.Registry, name string, snap submission.Snapshot, options render.RenderOptions) ([]byte, string, error) {
	if registry == nil {
		return nil, "", fmt.Errorf("intake: registry is required")
	}
	return registry.Render(ctx, name, render.ProjectDefault(snap), options)
}
