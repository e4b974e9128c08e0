package common

import "sort"

// Entry pairs a middleware with its priority. Lower priorities run
// closer to the outside of the chain.
type Entry struct {
	Middleware Middleware
	Priority   int
}

// Chain is an ordered middleware pipeline.
type Chain []Entry

// NewChain creates a chain from the given entries.
func NewChain(entries ...Entry) Chain {
	return entries
}

// Append adds entries to the end of the chain.
func (c Chain) Append(entries ...Entry) Chain {
	return append(c, entries...)
}

// Len reports how many middleware the chain holds, which is also the
// continuation depth a request passes through before the terminal.
func (c Chain) Len() int {
	return len(c)
}

// Build sorts the chain ascending by priority and composes it with the
// terminal handler into a single entry point. The sort is stable:
// entries with equal priority keep their registration order. Sorting
// happens once, here; the returned handler is an immutable, stateless
// composition safe to invoke from any number of concurrent requests.
//
// When invoked, the entry point runs the first middleware, handing it a
// continuation that advances to the next index and, past the last
// entry, to terminal. A middleware that never calls its continuation
// short-circuits the rest of the chain; its own result becomes the
// dispatch result.
func (c Chain) Build(terminal Handler) Handler {
	sorted := make(Chain, len(c))
	copy(sorted, c)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})

	return func(ctx *Context) (Result, error) {
		var advance func(i int) (Result, error)
		advance = func(i int) (Result, error) {
			if i == len(sorted) {
				return terminal(ctx)
			}
			return sorted[i].Middleware(ctx, func() (Result, error) {
				return advance(i + 1)
			})
		}
		return advance(0)
	}
}
