// Package server serves the booking setup page over HTTP. One controller is
// shared by every request, so the process behaves as a single page session.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	theme "github.com/goliatone/go-theme"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/goliatone/go-intake/internal/metrics"
	"github.com/goliatone/go-intake/pkg/contract"
	"github.com/goliatone/go-intake/pkg/render"
	"github.com/goliatone/go-intake/pkg/renderers/vanilla"
	"github.com/goliatone/go-intake/pkg/submission"
)

// Route paths.
const (
	PathPage   = "/"
	PathState  = "/state"
	PathHealth = "/health"
	PathAssets = "/assets/{file}"

	assetsPrefix = "/assets/"
)

// DefaultRefresh is how often the page reloads while a submission is loading.
const DefaultRefresh = time.Second

type Server struct {
	controller *submission.Controller
	renderer   render.Renderer
	fields     []contract.Field
	options    render.RenderOptions
	baseCtx    context.Context
	logger     *zap.Logger

	metrics     *metrics.Metrics
	metricsPath string
	gatherer    prometheus.Gatherer

	router *mux.Router
}

type Option func(*Server)

// WithLogger sets the request and submission logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRenderer replaces the vanilla HTML renderer.
func WithRenderer(renderer render.Renderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.renderer = renderer
		}
	}
}

// WithContract supplies field labels. The embedded contract is used otherwise.
func WithContract(c *contract.Contract) Option {
	return func(s *Server) {
		if c != nil {
			s.fields = c.Fields
		}
	}
}

// WithTheme passes resolved theme tokens to the renderer.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(s *Server) {
		s.options.Theme = cfg
	}
}

// WithRefresh overrides DefaultRefresh. Zero disables reloading.
func WithRefresh(d time.Duration) Option {
	return func(s *Server) {
		s.options.Refresh = d
	}
}

// WithBaseContext sets the context submissions run under. Submissions outlive
// the request that started them, so this is normally the process context.
func WithBaseContext(ctx context.Context) Option {
	return func(s *Server) {
		if ctx != nil {
			s.baseCtx = ctx
		}
	}
}

// WithMetrics instruments routes and exposes path. A nil gatherer serves the
// default Prometheus registry.
func WithMetrics(m *metrics.Metrics, path string, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.metricsPath = path
		s.gatherer = gatherer
	}
}

// New builds the server and its routes.
func New(controller *submission.Controller, options ...Option) (*Server, error) {
	if controller == nil {
		return nil, errors.New("server: controller is required")
	}

	s := &Server{
		controller: controller,
		baseCtx:    context.Background(),
		logger:     zap.NewNop(),
		options: render.RenderOptions{
			Action:  PathPage,
			Refresh: DefaultRefresh,
		},
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	if s.renderer == nil {
		renderer, err := vanilla.New()
		if err != nil {
			return nil, err
		}
		s.renderer = renderer
	}
	if s.fields == nil {
		c, err := contract.Default()
		if err != nil {
			return nil, err
		}
		s.fields = c.Fields
	}

	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
		handler := promhttp.Handler()
		if s.gatherer != nil {
			handler = promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})
		}
		r.Handle(s.metricsPath, handler).Methods(http.MethodGet)
	}

	r.HandleFunc(PathPage, s.handlePage).Methods(http.MethodGet)
	r.HandleFunc(PathPage, s.handleSubmit).Methods(http.MethodPost)
	r.HandleFunc(PathState, s.handleState).Methods(http.MethodGet)
	r.HandleFunc(PathHealth, s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc(PathAssets, s.handleAsset).Methods(http.MethodGet)
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form body", http.StatusBadRequest)
		return
	}

	for _, name := range submission.FieldNames() {
		if _, ok := r.PostForm[name]; !ok {
			continue
		}
		if err := s.controller.UpdateByName(name, r.PostForm.Get(name)); err != nil {
			s.logger.Error("apply form field", zap.String("field", name), zap.Error(err))
		}
	}

	_, err := s.controller.Start(s.baseCtx)
	switch {
	case err == nil:
		http.Redirect(w, r, PathPage, http.StatusSeeOther)
	case errors.Is(err, submission.ErrSubmitDisabled):
		s.renderPage(w, r, http.StatusConflict)
	case errors.Is(err, submission.ErrIncompleteForm):
		s.renderPage(w, r, http.StatusUnprocessableEntity)
	default:
		s.logger.Error("start submission", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int) {
	view := render.Project(s.controller.Snapshot(), s.fields)
	out, err := s.renderer.Render(r.Context(), view, s.options)
	if err != nil {
		s.logger.Error("render page", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", s.renderer.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

// StateResponse is the JSON body of GET /state. The token is redacted.
type StateResponse struct {
	Status       submission.Status   `json:"status"`
	ErrorMessage string              `json:"errorMessage"`
	Attempts     int                 `json:"attempts"`
	AttemptID    string              `json:"attemptId,omitempty"`
	Form         submission.FormData `json:"form"`
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	snap := s.controller.Snapshot()
	writeJSON(w, http.StatusOK, StateResponse{
		Status:       snap.Status,
		ErrorMessage: snap.ErrorMessage,
		Attempts:     snap.Attempts,
		AttemptID:    snap.AttemptID,
		Form:         snap.Form.Redacted(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	http.StripPrefix(assetsPrefix, http.FileServerFS(vanilla.AssetsFS())).ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
