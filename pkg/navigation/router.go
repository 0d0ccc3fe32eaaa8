package navigation

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Router dispatches routes by path pattern. Patterns use chi syntax:
// "/users/{id}", "/files/*", "/posts/{slug:[a-z-]+}".
type Router struct {
	mux      *chi.Mux
	handlers map[string]Handler
	notFound Handler
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{
		mux:      chi.NewRouter(),
		handlers: make(map[string]Handler),
	}
}

// unused satisfies chi, which needs an http.Handler per route. Routes are
// only ever matched, never served.
var unused = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

// Handle registers h for pattern. Registering a pattern twice replaces the
// handler.
func (r *Router) Handle(pattern string, h Handler) {
	if _, ok := r.handlers[pattern]; !ok {
		r.mux.Get(pattern, unused)
	}
	r.handlers[pattern] = h
}

// NotFound sets the handler for routes no pattern matches.
func (r *Router) NotFound(h Handler) {
	r.notFound = h
}

// Match resolves route against the registered patterns. On success the
// returned route carries Pattern and Params.
func (r *Router) Match(route Route) (Route, bool) {
	rctx := chi.NewRouteContext()
	pattern := r.mux.Find(rctx, http.MethodGet, route.Path)
	if pattern == "" {
		return route, false
	}

	route.Pattern = pattern
	if n := len(rctx.URLParams.Keys); n > 0 {
		route.Params = make(map[string]string, n)
		for i, key := range rctx.URLParams.Keys {
			route.Params[key] = rctx.URLParams.Values[i]
		}
	}
	return route, true
}

// Serve matches route and calls the pattern's handler, or the NotFound
// handler. Serve is a Handler, so a
// Router can drive a Listener directly:
//
//	navigation.NewListener(router.Serve)
func (r *Router) Serve(route Route) {
	r.dispatch(route)
}

func (r *Router) dispatch(route Route) bool {
	matched, ok := r.Match(route)
	if !ok {
		if r.notFound != nil {
			r.notFound(route)
		}
		return false
	}
	if h := r.handlers[matched.Pattern]; h != nil {
		h(matched)
	}
	return true
}

// Navigate parses hash and dispatches it. It reports whether a pattern
// matched.
func (r *Router) Navigate(hash string) bool {
	return r.dispatch(Parse(hash))
}
