// Package fixture decodes virtual trees from YAML or JSON files.
//
// A fixture node is one of:
//
//   - a string or number, which becomes a text node
//   - null, which renders nothing
//   - a mapping with a tag and optional key, props and children
//   - a mapping with only a text field
//
// Example:
//
//	tag: ul
//	props: {className: list}
//	children:
//	  - {tag: li, key: a, children: ["A"]}
//	  - "plain text"
//	  - 42
//
// Event props ("onclick: increment") name a handler. The name is passed to
// the resolver set with WithHandlers; the default resolver returns a no-op.
package fixture
