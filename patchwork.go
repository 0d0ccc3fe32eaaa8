// Package patchwork keeps a live node tree in sync with a virtual tree
// computed from application state.
//
// An App ties the pieces together: a store holds the state, a view turns
// the state into a virtual tree, and a reconcile.Renderer patches the
// container to match. Every store change re-renders synchronously, so
// after Update returns the live tree already reflects the new state.
//
//	doc := memdom.NewDocument()
//	counter := store.New(0)
//	app := patchwork.New(doc, counter, patchwork.Config{})
//
//	err := app.Mount(doc.Body(), func(n int) *vdom.VNode {
//	    return vdom.Button(vdom.OnClick(func() { counter.Update(inc) }), vdom.Number(n))
//	})
//
// Events reach handlers through the App's events.Delegator, and hash
// navigation is wired with Navigate.
package patchwork

// Version is the patchwork release, reported by the CLI.
const Version = "0.4.0"
