package vanilla

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"math"
	"sort"
	"strings"

	"github.com/flosch/pongo2/v6"
	gotemplate "github.com/goliatone/go-template"

	"github.com/goliatone/go-intake/pkg/render"
	"github.com/goliatone/go-intake/pkg/submission"
)

const (
	pageTemplate = "templates/page.tmpl"

	// StylesheetAssetKey is resolved through theme.RendererConfig.AssetURL
	// when no explicit stylesheet URL is set.
	StylesheetAssetKey = "vanilla.stylesheet"

	// FieldIDPrefix is prepended by the fieldid filter so labels and inputs
	// share a stable element id.
	FieldIDPrefix = "field-"
)

// TemplateRenderer is the part of the go-template engine the page uses.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateDir      string
	templateRenderer TemplateRenderer
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir overrides templates from a directory on disk. The
// directory mirrors the embedded layout (templates/page.tmpl); files it does
// not provide are read from the bundle.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templateDir = strings.TrimSpace(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// Renderer produces the booking setup page as a standalone HTML document.
type Renderer struct {
	templates TemplateRenderer
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engineOpts := []gotemplate.Option{
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
			gotemplate.WithTemplateFunc(templateFuncs()),
			gotemplate.WithGlobalData(map[string]any{
				"default_css": defaultStylesheet(),
			}),
		}
		if cfg.templateDir != "" {
			engineOpts = append(engineOpts, gotemplate.WithBaseDir(cfg.templateDir))
		}
		engine, err := gotemplate.NewRenderer(engineOpts...)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(_ context.Context, view render.View, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	result, err := r.templates.RenderTemplate(pageTemplate, pageData(view, options))
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func pageData(view render.View, options render.RenderOptions) map[string]any {
	data := map[string]any{
		"view":    view,
		"method":  strings.ToLower(options.FormMethod()),
		"action":  options.Action,
		"refresh": refreshSeconds(view, options),
		"theme":   themeContext(options),
	}

	stylesheet := strings.TrimSpace(options.Stylesheet)
	if stylesheet == "" && options.Theme != nil && options.Theme.AssetURL != nil {
		stylesheet = strings.TrimSpace(options.Theme.AssetURL(StylesheetAssetKey))
	}
	if stylesheet != "" {
		data["stylesheet"] = stylesheet
	}
	return data
}

// refreshSeconds is non-zero only while a submission is in flight so the
// page polls until the outcome lands.
func refreshSeconds(view render.View, options render.RenderOptions) int {
	if options.Refresh <= 0 || view.Status != submission.StatusLoading {
		return 0
	}
	return int(math.Max(1, math.Ceil(options.Refresh.Seconds())))
}

func themeContext(options render.RenderOptions) map[string]any {
	cfg := options.Theme
	if cfg == nil {
		return map[string]any{}
	}
	return map[string]any{
		"name":     cfg.Theme,
		"variant":  cfg.Variant,
		"css_vars": cssVarsStyle(cfg.CSSVars),
	}
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		if strings.HasPrefix(key, "--") {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s: %s;", key, vars[key])
	}
	return b.String()
}

func templateFuncs() map[string]any {
	return map[string]any{
		"fieldid":    pongo2.FilterFunction(filterFieldID),
		"bannerrole": pongo2.FilterFunction(filterBannerRole),
	}
}

func filterFieldID(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	name := strings.TrimSpace(in.String())
	if name == "" {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(FieldIDPrefix + name), nil
}

// filterBannerRole maps a banner kind to its ARIA role: errors interrupt,
// everything else is announced politely.
func filterBannerRole(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if render.BannerKind(in.String()) == render.BannerError {
		return pongo2.AsValue("alert"), nil
	}
	return pongo2.AsValue("status"), nil
}
