package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-intake/pkg/contract"
	"github.com/goliatone/go-intake/pkg/render"
	"github.com/goliatone/go-intake/pkg/submission"
)

const secretMask = "********"

// Renderer prints the booking setup view as plain text and drives
// interactive sessions through a PromptDriver.
type Renderer struct {
	driver PromptDriver
	out    io.Writer
	fields []contract.Field
	theme  Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer backed by survey prompts unless a driver is
// supplied.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{theme: DefaultTheme}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		r.driver = newSurveyDriver(r.out)
	}
	if r.fields == nil {
		c, err := contract.Default()
		if err != nil {
			return nil, fmt.Errorf("tui: load contract: %w", err)
		}
		r.fields = c.Fields
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render writes the title, each field with its value, the submit control and
// the outcome banner. Secret values are masked.
func (r *Renderer) Render(ctx context.Context, view render.View, _ render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString(view.Title)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("=", len(view.Title)))
	b.WriteString("\n\n")

	for _, field := range view.Fields {
		value := field.Value
		if field.Secret && value != "" {
			value = secretMask
		}
		marker := ""
		if field.Required {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s%s: %s\n", field.Label, marker, value)
	}

	b.WriteByte('\n')
	if view.Submit.Disabled {
		fmt.Fprintf(&b, "[%s] (disabled)\n", view.Submit.Label)
	} else {
		fmt.Fprintf(&b, "[%s]\n", view.Submit.Label)
	}

	if view.Banner != nil {
		b.WriteByte('\n')
		b.WriteString(r.bannerLine(view.Banner))
		b.WriteByte('\n')
	}
	return []byte(b.String()), nil
}

func (r *Renderer) bannerLine(banner *render.Banner) string {
	if banner.Kind == render.BannerSuccess {
		return r.theme.SuccessPrefix + banner.Text
	}
	return r.theme.ErrorPrefix + banner.Text
}

func (r *Renderer) project(snap submission.Snapshot) render.View {
	return render.Project(snap, r.fields)
}
