// Package template implements the template-rendering collaborator for
// the digwebs dispatch engine over html/template. Templates are loaded
// once at startup from a views directory; rendering is buffered so a
// template error never produces partial output.
package template

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
	"time"

	"github.com/m271828ngtao/digwebs/pkg/common"
)

// Engine loads and renders named templates. Configure it with AddFunc
// before Load; after Load it is immutable and safe for concurrent use.
type Engine struct {
	dir   string
	funcs template.FuncMap
	tmpl  *template.Template
}

// New creates an engine that loads "*.html" templates from dir. The
// "datetime" function is preinstalled for relative timestamps.
func New(dir string) *Engine {
	return &Engine{
		dir: dir,
		funcs: template.FuncMap{
			"datetime": RelativeTime,
		},
	}
}

// AddFunc installs a template function. It must be called before Load.
func (e *Engine) AddFunc(name string, fn any) {
	e.funcs[name] = fn
}

// Load parses every template in the engine's directory.
func (e *Engine) Load() error {
	tmpl, err := template.New("views").Funcs(e.funcs).ParseGlob(filepath.Join(e.dir, "*.html"))
	if err != nil {
		return fmt.Errorf("template: load %s: %w", e.dir, err)
	}
	e.tmpl = tmpl
	return nil
}

// ParseString parses a single template from source text, mainly for
// tests and embedded defaults.
func (e *Engine) ParseString(name, text string) error {
	if e.tmpl == nil {
		e.tmpl = template.New("views").Funcs(e.funcs)
	}
	if _, err := e.tmpl.New(name).Parse(text); err != nil {
		return fmt.Errorf("template: parse %s: %w", name, err)
	}
	return nil
}

// Render executes the named template with the given model and returns
// the rendered text. It implements the dispatcher's Renderer interface.
func (e *Engine) Render(name string, model common.Model) (string, error) {
	if e.tmpl == nil {
		return "", fmt.Errorf("template: engine not loaded")
	}
	var buf bytes.Buffer
	if err := e.tmpl.ExecuteTemplate(&buf, name, map[string]any(model)); err != nil {
		return "", fmt.Errorf("template: render %s: %w", name, err)
	}
	return buf.String(), nil
}

// RelativeTime formats a timestamp relative to now: "1 minute ago",
// "5 hours ago", "3 days ago", falling back to the calendar date for
// anything older than a week.
func RelativeTime(t time.Time) string {
	delta := time.Since(t)
	switch {
	case delta < time.Minute:
		return "1 minute ago"
	case delta < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(delta.Minutes()))
	case delta < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(delta.Hours()))
	case delta < 7*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(delta.Hours()/24))
	}
	return t.Format("Jan 2, 2006")
}
