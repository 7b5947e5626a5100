// Package template renders To Do item titles.
package template

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
)

// Engine renders item titles from a text/template with the sprig function
// library. The "now" function reads the engine's clock.
type Engine struct {
	tmpl *template.Template
	now  func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source behind the "now" template function.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New parses text. Unknown functions and syntax errors are reported here,
// not at render time.
func New(text string, opts ...Option) (*Engine, error) {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}

	funcs := sprig.TxtFuncMap()
	funcs["now"] = func() time.Time { return e.now() }

	tmpl, err := template.New("title").Option("missingkey=error").Funcs(funcs).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("invalid title template: %w", err)
	}
	e.tmpl = tmpl
	return e, nil
}

// Render executes the template against ctx.
func (e *Engine) Render(ctx Context) (string, error) {
	var b strings.Builder
	if err := e.tmpl.Execute(&b, ctx.values()); err != nil {
		return "", fmt.Errorf("failed to render title: %w", err)
	}
	return strings.TrimSpace(b.String()), nil
}
