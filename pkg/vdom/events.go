package vdom

// On creates a handler prop for an arbitrary event name ("click", "keydown").
func On(name string, handler any) EventHandler {
	return EventHandler{Event: "on" + name, Handler: handler}
}

// Mouse events

// OnClick handles click events.
func OnClick(handler any) EventHandler { return On("click", handler) }

// OnDblClick handles double-click events.
func OnDblClick(handler any) EventHandler { return On("dblclick", handler) }

// OnMouseEnter handles mouseenter events.
func OnMouseEnter(handler any) EventHandler { return On("mouseenter", handler) }

// OnMouseLeave handles mouseleave events.
func OnMouseLeave(handler any) EventHandler { return On("mouseleave", handler) }

// Keyboard events

// OnKeyDown handles keydown events.
func OnKeyDown(handler any) EventHandler { return On("keydown", handler) }

// Form events

// OnInput handles input events (fired when value changes).
func OnInput(handler any) EventHandler { return On("input", handler) }

// OnChange handles change events (fired when value is committed).
func OnChange(handler any) EventHandler { return On("change", handler) }

// OnSubmit handles form submit events.
func OnSubmit(handler any) EventHandler { return On("submit", handler) }

// OnFocus handles focus events.
func OnFocus(handler any) EventHandler { return On("focus", handler) }

// OnBlur handles blur events.
func OnBlur(handler any) EventHandler { return On("blur", handler) }
