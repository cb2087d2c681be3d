package inbuilt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/indigo-web/minihttp/http"
	"github.com/indigo-web/minihttp/http/method"
	"github.com/indigo-web/minihttp/http/status"
	"github.com/indigo-web/minihttp/router"
)

var _ router.Router = new(Router)

type Handler func(request *http.Request) *http.Response

type prefixRoute struct {
	prefix  string
	handler Handler
}

type methodRoutes struct {
	static   map[string]Handler
	prefixes []prefixRoute
}

// Router is a table of routes, split by method. Within a method, exact static paths
// are matched first, then the longest registered prefix. Paths are compared verbatim,
// without any normalization or decoding.
type Router struct {
	routes      [method.Count + 1]*methodRoutes
	errHandlers map[status.Code]Handler
	errs        []error
}

// New constructs a new instance of inbuilt router
func New() *Router {
	return &Router{
		errHandlers: newErrorHandlers(),
	}
}

// Route registers a handler for the exact path. Registering the same route twice is an
// error reported by OnStart.
func (r *Router) Route(m method.Method, path string, handler Handler) *Router {
	routes := r.methodRoutes(m)
	if _, found := routes.static[path]; found {
		r.errs = append(r.errs, fmt.Errorf("route already registered: %s %s", m, path))
		return r
	}

	routes.static[path] = handler
	return r
}

// Prefix registers a handler for every path starting with the prefix. The rest of
// the path is available to the handler via request.Env.Vars
func (r *Router) Prefix(m method.Method, prefix string, handler Handler) *Router {
	routes := r.methodRoutes(m)
	for _, route := range routes.prefixes {
		if route.prefix == prefix {
			r.errs = append(r.errs, fmt.Errorf("prefix already registered: %s %s", m, prefix))
			return r
		}
	}

	routes.prefixes = append(routes.prefixes, prefixRoute{
		prefix:  prefix,
		handler: handler,
	})
	return r
}

// RouteError sets a handler for responses with the code. The error itself is
// available via request.Env.Error
func (r *Router) RouteError(code status.Code, handler Handler) *Router {
	r.errHandlers[code] = handler
	return r
}

// OnStart validates the routes and prepares them for matching
func (r *Router) OnStart() error {
	if len(r.errs) > 0 {
		return r.errs[0]
	}

	for _, routes := range r.routes {
		if routes == nil {
			continue
		}

		sort.SliceStable(routes.prefixes, func(i, j int) bool {
			return len(routes.prefixes[i].prefix) > len(routes.prefixes[j].prefix)
		})
	}

	return nil
}

// OnRequest routes the request. Methods having no routes at all result in 405,
// unmatched paths in 404
func (r *Router) OnRequest(request *http.Request) *http.Response {
	m := method.Parse(request.Method)
	routes := r.routes[m]
	if m == method.Unknown || routes == nil {
		return r.OnError(request, status.ErrMethodNotAllowed)
	}

	if handler, found := routes.static[request.Path]; found {
		return handler(request)
	}

	for _, route := range routes.prefixes {
		if rest, found := strings.CutPrefix(request.Path, route.prefix); found {
			request.Env.Vars = rest
			return route.handler(request)
		}
	}

	return r.OnError(request, status.ErrNotFound)
}

// OnError picks the error handler by the code of the error. When there's none, the
// generic one is used
func (r *Router) OnError(request *http.Request, err error) *http.Response {
	request.Env.Error = err

	if handler, found := r.errHandlers[status.CodeOf(err)]; found {
		return handler(request)
	}

	return r.errHandlers[AllErrors](request)
}

func (r *Router) methodRoutes(m method.Method) *methodRoutes {
	if r.routes[m] == nil {
		r.routes[m] = &methodRoutes{
			static: make(map[string]Handler),
		}
	}

	return r.routes[m]
}
