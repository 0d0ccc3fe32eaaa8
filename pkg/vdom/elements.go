package vdom

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// El creates an element with an arbitrary tag. An empty tag yields a node
// that renders nothing.
func El(tag string, args ...any) *VNode {
	return createElement(tag, args)
}

// createElement creates a new VNode with the given tag and arguments.
// Arguments can be: nil, Attr, []Attr, Props, EventHandler, *VNode, []*VNode,
// Component, string, or a number.
func createElement(tag string, args []any) *VNode {
	node := &VNode{
		Kind:     KindElement,
		Tag:      tag,
		Props:    make(Props),
		Children: make([]*VNode, 0),
	}
	for _, arg := range args {
		node.add(arg)
	}
	return node
}

func (v *VNode) add(arg any) {
	switch a := arg.(type) {
	case nil:
		// Allows conditional arguments.

	case Attr:
		v.setProp(a)

	case []Attr:
		for _, attr := range a {
			v.setProp(attr)
		}

	case Props:
		for key, value := range a {
			v.setProp(Attr{Key: key, Value: value})
		}

	case EventHandler:
		if a.Event != "" && a.Handler != nil {
			v.Props[a.Event] = a.Handler
		}

	case *VNode:
		if a.Valid() {
			v.Children = append(v.Children, a)
		}

	case []*VNode:
		for _, child := range a {
			if child.Valid() {
				v.Children = append(v.Children, child)
			}
		}

	case Component:
		if a == nil {
			return
		}
		if rendered := a.Render(); rendered.Valid() {
			v.Children = append(v.Children, rendered)
		}

	case string:
		v.Children = append(v.Children, Text(a))

	case int, int64, float64:
		v.Children = append(v.Children, Text(PropString(a)))
	}
}

func (v *VNode) setProp(a Attr) {
	if a.IsEmpty() {
		return
	}
	if a.Key == PropKey {
		if s, ok := a.Value.(string); ok {
			v.Key = s
		}
	}
	if a.Key == "className" || a.Key == "class" {
		// Repeated class props accumulate like ClassIf chains do.
		if prev, ok := v.Props[a.Key].(string); ok && prev != "" {
			if next := PropString(a.Value); next != "" {
				v.Props[a.Key] = prev + " " + next
			}
			return
		}
	}
	v.Props[a.Key] = a.Value
}

// Document structure elements

func Html(args ...any) *VNode  { return createElement("html", args) }
func Head(args ...any) *VNode  { return createElement("head", args) }
func Body(args ...any) *VNode  { return createElement("body", args) }
func Title(args ...any) *VNode { return createElement("title", args) }

// Content sectioning elements

func Header(args ...any) *VNode  { return createElement("header", args) }
func Footer(args ...any) *VNode  { return createElement("footer", args) }
func Main(args ...any) *VNode    { return createElement("main", args) }
func Nav(args ...any) *VNode     { return createElement("nav", args) }
func Section(args ...any) *VNode { return createElement("section", args) }
func Article(args ...any) *VNode { return createElement("article", args) }
func H1(args ...any) *VNode      { return createElement("h1", args) }
func H2(args ...any) *VNode      { return createElement("h2", args) }
func H3(args ...any) *VNode      { return createElement("h3", args) }

// Text content elements

func Div(args ...any) *VNode  { return createElement("div", args) }
func P(args ...any) *VNode    { return createElement("p", args) }
func Span(args ...any) *VNode { return createElement("span", args) }
func Pre(args ...any) *VNode  { return createElement("pre", args) }
func Ul(args ...any) *VNode   { return createElement("ul", args) }
func Ol(args ...any) *VNode   { return createElement("ol", args) }
func Li(args ...any) *VNode   { return createElement("li", args) }
func Hr(args ...any) *VNode   { return createElement("hr", args) }

// Inline text semantics

func A(args ...any) *VNode      { return createElement("a", args) }
func Strong(args ...any) *VNode { return createElement("strong", args) }
func Em(args ...any) *VNode     { return createElement("em", args) }
func Code(args ...any) *VNode   { return createElement("code", args) }
func Br(args ...any) *VNode     { return createElement("br", args) }

// Form elements

func Form(args ...any) *VNode     { return createElement("form", args) }
func Input(args ...any) *VNode    { return createElement("input", args) }
func Textarea(args ...any) *VNode { return createElement("textarea", args) }
func Select(args ...any) *VNode   { return createElement("select", args) }
func Option(args ...any) *VNode   { return createElement("option", args) }
func Button(args ...any) *VNode   { return createElement("button", args) }
func Label(args ...any) *VNode    { return createElement("label", args) }
func Fieldset(args ...any) *VNode { return createElement("fieldset", args) }

// Table elements

func Table(args ...any) *VNode { return createElement("table", args) }
func Thead(args ...any) *VNode { return createElement("thead", args) }
func Tbody(args ...any) *VNode { return createElement("tbody", args) }
func Tr(args ...any) *VNode    { return createElement("tr", args) }
func Th(args ...any) *VNode    { return createElement("th", args) }
func Td(args ...any) *VNode    { return createElement("td", args) }

// Media elements

func Img(args ...any) *VNode { return createElement("img", args) }
