package inbuilt

import "github.com/indigo-web/minihttp/http/method"

// Get is a shortcut for Route(method.GET, ...)
func (r *Router) Get(path string, handler Handler) *Router {
	return r.Route(method.GET, path, handler)
}

// Post is a shortcut for Route(method.POST, ...)
func (r *Router) Post(path string, handler Handler) *Router {
	return r.Route(method.POST, path, handler)
}

// GetPrefix is a shortcut for Prefix(method.GET, ...)
func (r *Router) GetPrefix(prefix string, handler Handler) *Router {
	return r.Prefix(method.GET, prefix, handler)
}

// PostPrefix is a shortcut for Prefix(method.POST, ...)
func (r *Router) PostPrefix(prefix string, handler Handler) *Router {
	return r.Prefix(method.POST, prefix, handler)
}
