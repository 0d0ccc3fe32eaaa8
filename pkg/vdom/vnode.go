package vdom

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement VKind = iota // <div>, <button>, etc.
	KindText                 // Plain text node
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

// VNode is one node of a virtual tree.
type VNode struct {
	Kind     VKind    // Node type
	Tag      string   // Element tag name (e.g., "div")
	Props    Props    // Attributes and event handlers
	Children []*VNode // Child nodes, never nil entries
	Key      string   // Reconciliation key
	Text     string   // For KindText
}

// Valid reports whether the node can be rendered. A nil node, an element
// without a tag, or an unknown kind renders nothing.
func (v *VNode) Valid() bool {
	if v == nil {
		return false
	}
	switch v.Kind {
	case KindText:
		return true
	case KindElement:
		return v.Tag != ""
	}
	return false
}

// IsText reports whether v is a text node.
func (v *VNode) IsText() bool {
	return v != nil && v.Kind == KindText
}

// Identity returns the node's list identity: the Key field, else a string
// "key" prop, else "".
func (v *VNode) Identity() string {
	if v == nil {
		return ""
	}
	if v.Key != "" {
		return v.Key
	}
	if v.Props == nil {
		return ""
	}
	if key, ok := v.Props["key"].(string); ok {
		return key
	}
	return ""
}

// IsInteractive returns true if this node has event handlers.
func (v *VNode) IsInteractive() bool {
	if v == nil || v.Kind != KindElement {
		return false
	}
	for key := range v.Props {
		if IsEventKey(key) {
			return true
		}
	}
	return false
}

// Props holds attributes and event handlers.
type Props map[string]any

// Events returns the event-handler subset of p, or nil if there is none.
func (p Props) Events() map[string]any {
	var events map[string]any
	for key, value := range p {
		if !IsEventKey(key) || value == nil {
			continue
		}
		if events == nil {
			events = make(map[string]any)
		}
		events[key] = value
	}
	return events
}

// Attr represents a single prop.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// EventHandler represents an event handler prop.
type EventHandler struct {
	Event   string // "onclick", "oninput", etc.
	Handler any    // Function to call
}

// Component is anything that can render to a VNode. Factories expand
// components when the tree is built.
type Component interface {
	Render() *VNode
}

// FuncComponent wraps a render function.
type FuncComponent struct {
	render func() *VNode
}

// Render implements Component.
func (f *FuncComponent) Render() *VNode {
	return f.render()
}

// Func creates a component from a render function.
func Func(render func() *VNode) Component {
	return &FuncComponent{render: render}
}
