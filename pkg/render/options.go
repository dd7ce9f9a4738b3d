package render

import (
	"time"

	theme "github.com/goliatone/go-theme"
)

// RenderOptions carry per-request data that does not belong in the View.
type RenderOptions struct {
	// Action is the form action URL. Empty posts back to the current page.
	Action string
	// Method is the form method; defaults to POST.
	Method string
	// Refresh asks HTML surfaces to reload after the duration while a
	// submission is loading. Zero disables it.
	Refresh time.Duration
	// Stylesheet is an optional stylesheet URL linked from the page head.
	Stylesheet string
	// Theme carries resolved go-theme tokens; CSSVars are emitted inline.
	Theme *theme.RendererConfig
}

// FormMethod returns Method or POST when unset.
func (o RenderOptions) FormMethod() string {
	if o.Method == "" {
		return "post"
	}
	return o.Method
}
