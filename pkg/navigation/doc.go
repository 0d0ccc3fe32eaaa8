// Package navigation turns location-hash changes into routes.
//
// A hash such as "#/users/42?tab=posts" is parsed into a Route with its
// path, segments and query. A Listener watches a HashSource and calls its
// handler once on Start and again on every change. A Router matches route
// paths against chi-style patterns ("/users/{id}") and fills Params.
//
// Navigation never renders anything itself. Handlers typically update a
// store, and the store's subscribers re-render.
package navigation
