package vdom

import "strings"

// Prop creates an arbitrary prop. Unknown keys become plain attributes.
func Prop(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return Prop("id", id) }

// ClassName sets the class attribute, joining multiple classes with spaces.
func ClassName(classes ...string) Attr {
	return Prop("className", strings.Join(nonEmpty(classes), " "))
}

// ClassIf adds a class conditionally.
func ClassIf(condition bool, class string) Attr {
	if condition {
		return Prop("className", class)
	}
	return Attr{}
}

// Styles sets the style as a map of CSS properties. Each property is
// diffed on its own.
func Styles(style map[string]string) Attr { return Prop("style", style) }

// StyleAttr sets the style attribute as one opaque string.
func StyleAttr(style string) Attr { return Prop("style", style) }

// Data creates a data-* attribute.
func Data(key, value string) Attr { return Prop("data-"+key, value) }

// Role sets the role attribute.
func Role(role string) Attr { return Prop("role", role) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return Prop("aria-label", label) }

// TabIndex sets the tabindex attribute.
func TabIndex(index int) Attr { return Prop("tabindex", index) }

// TitleAttr sets the title attribute.
func TitleAttr(title string) Attr { return Prop("title", title) }

// Link attributes

// Href sets the href attribute.
func Href(url string) Attr { return Prop("href", url) }

// Form input attributes

// Name sets the name attribute.
func Name(name string) Attr { return Prop("name", name) }

// Value sets the editable value of inputs, textareas and selects.
func Value(value string) Attr { return Prop("value", value) }

// Type sets the type attribute.
func Type(t string) Attr { return Prop("type", t) }

// Placeholder sets the placeholder attribute.
func Placeholder(text string) Attr { return Prop("placeholder", text) }

// HtmlFor sets the for attribute of a label.
func HtmlFor(id string) Attr { return Prop("htmlFor", id) }

// Boolean attributes. The live node gets both the property and an empty
// attribute when true, and neither when false.

// Disabled sets the disabled attribute.
func Disabled() Attr { return Prop("disabled", true) }

// DisabledIf sets disabled to the condition.
func DisabledIf(condition bool) Attr { return Prop("disabled", condition) }

// Checked sets the checked attribute.
func Checked() Attr { return Prop("checked", true) }

// CheckedIf sets checked to the condition.
func CheckedIf(condition bool) Attr { return Prop("checked", condition) }

// Selected sets the selected attribute.
func Selected() Attr { return Prop("selected", true) }

// Readonly sets the readonly attribute.
func Readonly() Attr { return Prop("readonly", true) }

// Required sets the required attribute.
func Required() Attr { return Prop("required", true) }

// Hidden sets the hidden attribute.
func Hidden() Attr { return Prop("hidden", true) }

// Autofocus sets the autofocus attribute.
func Autofocus() Attr { return Prop("autofocus", true) }

// AttrIf adds any attribute conditionally.
func AttrIf(condition bool, a Attr) Attr {
	if condition {
		return a
	}
	return Attr{}
}

func nonEmpty(values []string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
