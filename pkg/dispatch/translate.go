package dispatch

import (
	"errors"
	"fmt"
	"html"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/m271828ngtao/digwebs/pkg/common"
)

const faultStatus = "500 Internal Server Error"

// panicError wraps a recovered panic value together with the stack
// captured at the panic site, so the fault page and the log both show
// where the failure actually happened.
type panicError struct {
	value any
	stack []byte
}

func newPanicError(value any) *panicError {
	return &panicError{value: value, stack: debug.Stack()}
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

// translate converts a handler's result into the body chunks sent to
// the transport. Template results are rendered through the injected
// renderer; textual results are encoded as UTF-8; a nil result is an
// empty body; Raw chunks pass through unchanged.
func (a *App) translate(res common.Result) ([][]byte, error) {
	switch v := res.(type) {
	case nil:
		return nil, nil
	case *common.Template:
		if a.renderer == nil {
			return nil, fmt.Errorf("template result %q without a renderer", v.Name)
		}
		text, err := a.renderer.Render(v.Name, v.Model)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", v.Name, err)
		}
		return [][]byte{[]byte(text)}, nil
	case common.Text:
		return [][]byte{[]byte(v)}, nil
	case common.Raw:
		return v, nil
	case common.Model:
		// A bare mapping is only meaningful inside a View wrapper.
		return nil, fmt.Errorf("model result outside a view handler")
	default:
		return nil, fmt.Errorf("unknown result type %T", res)
	}
}

// translateError maps a failure raised during dispatch onto a response
// triple. Declared redirects and HTTP errors are intentional: neither
// is logged, neither exposes a trace. Anything else is an unexpected
// fault: it is logged once with full detail, and the client sees a 500
// page whose contents depend on the debug flag.
func (a *App) translateError(ctx *common.Context, err error) (string, []common.Header, [][]byte) {
	var redirect *common.RedirectError
	if errors.As(err, &redirect) {
		ctx.Response.SetHeader("Location", redirect.Location)
		return redirect.Status, ctx.Response.Headers(), nil
	}

	var httpErr *common.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status, ctx.Response.Headers(), [][]byte{statusPage(httpErr.Status)}
	}

	stack := faultStack(err)
	a.logger.Error("unexpected fault",
		zap.String("method", ctx.Request.Method()),
		zap.String("path", ctx.Request.Path()),
		zap.Error(err),
		zap.String("stack", string(stack)),
	)

	// Headers accumulated before the fault are discarded: a partially
	// built response must not leak onto the fault page.
	if !ctx.App.Debug {
		return faultStatus, nil, [][]byte{statusPage(faultStatus)}
	}
	return faultStatus, nil, tracePage(err, stack)
}

// faultStack returns the stack to show for a fault: the panic site's
// stack when the failure was a panic, the dispatch site's otherwise.
func faultStack(err error) []byte {
	var pe *panicError
	if errors.As(err, &pe) {
		return pe.stack
	}
	return debug.Stack()
}

// statusPage builds the minimal HTML page for a declared error: the
// status text and nothing else.
func statusPage(status string) []byte {
	return []byte("<html><body><h1>" + html.EscapeString(status) + "</h1></body></html>")
}

// tracePage builds the development-mode fault page: the 500 heading
// followed by the escaped failure message and stack as preformatted
// text. Escaping keeps markup in the trace from being interpreted.
func tracePage(err error, stack []byte) [][]byte {
	return [][]byte{
		[]byte(`<html><body><h1>500 Internal Server Error</h1><div style="font-family:Monaco, Menlo, Consolas, 'Courier New', monospace;"><pre>`),
		[]byte(html.EscapeString(err.Error() + "\n\n" + string(stack))),
		[]byte("</pre></div></body></html>"),
	}
}
