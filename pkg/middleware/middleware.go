// Package middleware provides an ordered HTTP middleware chain plus the
// cross-cutting middleware quarry mounts on its API: request logging and
// CORS.
package middleware

import "net/http"

// System collects middleware in registration order and wraps a handler so
// the first registered middleware is the outermost.
type System interface {
	Use(mw func(http.Handler) http.Handler)
	Apply(handler http.Handler) http.Handler
}

type chain struct {
	entries []func(http.Handler) http.Handler
}

// New creates an empty middleware System.
func New() System {
	return &chain{}
}

func (c *chain) Use(fn func(http.Handler) http.Handler) {
	c.entries = append(c.entries, fn)
}

func (c *chain) Apply(handler http.Handler) http.Handler {
	wrapped := handler
	for i := len(c.entries) - 1; i >= 0; i-- {
		wrapped = c.entries[i](wrapped)
	}
	return wrapped
}
