// Package errors provides structured, coded errors for patchwork.
//
// Every error carries a short code (e.g. "E101") that maps to a registered
// template with a category, a one-line message, and a longer detail. Errors
// wrap their cause so errors.Is and errors.As see through them.
//
// # Categories
//
//   - render: reconciliation failures (reentrant render, live tree rejected a mutation)
//   - fixture: virtual-tree fixture files that cannot be decoded
//   - config: patchwork.yaml / patchwork.json problems
//   - snapshot: snapshot store failures
//   - server: preview server protocol errors
//   - cli: command line usage errors
//
// # Usage
//
//	err := errors.New("E201").
//	    WithLocation("trees/home.yaml", 12, 3).
//	    WithSuggestion("Children must be a YAML sequence").
//	    Wrap(cause)
//
//	fmt.Fprintln(os.Stderr, err.Format())
package errors
