package tui

import (
	"io"

	"github.com/goliatone/go-intake/pkg/contract"
)

// Theme captures the message prefixes used when printing. Keep minimal to
// avoid coupling renderer logic to ANSI specifics.
type Theme struct {
	PromptPrefix  string
	InfoPrefix    string
	SuccessPrefix string
	ErrorPrefix   string
}

// DefaultTheme is applied when WithTheme is not used.
var DefaultTheme = Theme{
	InfoPrefix:    "",
	SuccessPrefix: "[ok] ",
	ErrorPrefix:   "[error] ",
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by sessions.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutput redirects the default driver's informational output.
func WithOutput(w io.Writer) Option {
	return func(r *Renderer) {
		if w != nil {
			r.out = w
		}
	}
}

// WithContract supplies field labels and help text. The embedded contract is
// used otherwise.
func WithContract(c *contract.Contract) Option {
	return func(r *Renderer) {
		if c != nil {
			r.fields = c.Fields
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}
