package common

// Result is the value a handler (or middleware) hands back to the
// dispatcher. It is a closed set of variants; the result translator
// switches on the concrete type rather than inspecting arbitrary
// values. A nil Result means an empty body.
type Result interface {
	// isResult seals the interface to the variants defined in this package.
	isResult()
}

// Text is a textual result. The dispatcher encodes it as UTF-8 bytes.
type Text string

func (Text) isResult() {}

// Raw is the escape hatch for handlers that produce their own body
// chunks. The dispatcher passes the chunks through to the transport
// unchanged.
type Raw [][]byte

func (Raw) isResult() {}

// Model is the key/value mapping a view handler returns. On its own it
// is not renderable; the View wrapper converts it into a *Template
// bound to a template name.
type Model map[string]any

func (Model) isResult() {}

// Template marks a result that must be rendered through the template
// engine before being sent. It carries the template identifier and the
// model to render it with.
type Template struct {
	Name  string
	Model Model
}

func (*Template) isResult() {}
