// Package events binds virtual-tree event handlers to live nodes.
//
// The reconciler never attaches listeners itself. It hands each element's
// current and previous handler sets to a Bridge, which decides how they are
// wired. Delegator is the bridge used by the in-process runtime: it keeps a
// table from live node to handlers and dispatches events by walking up the
// live tree from the target, so rebinding after a patch is a table update.
//
// Supported handler signatures:
//
//	func()
//	func(*Event)
//	func(value string)  // input and change values
//	events.Handler
//
// Any other value is reported once through the delegator's logger and
// ignored.
package events
