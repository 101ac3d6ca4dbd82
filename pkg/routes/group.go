package routes

import "github.com/go-chi/chi/v5"

// Group organizes routes under a common prefix with shared tags.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Register adds all routes from the given groups to the router.
func Register(r chi.Router, groups ...Group) {
	for _, group := range groups {
		registerGroup(r, "", group)
	}
}

func registerGroup(r chi.Router, parentPrefix string, group Group) {
	fullPrefix := parentPrefix + group.Prefix
	for _, route := range group.Routes {
		pattern := fullPrefix + route.Pattern
		if pattern == "" {
			pattern = "/"
		}
		r.Method(route.Method, pattern, route.Handler)
	}
	for _, child := range group.Children {
		registerGroup(r, fullPrefix, child)
	}
}
