// Package routes describes HTTP endpoints as data so domain modules can
// declare their surface and let the server decide where to mount it.
package routes

import "net/http"

// Route binds one HTTP method and path pattern to its handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}
