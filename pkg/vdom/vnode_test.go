package vdom

import "testing"

func TestVKindString(t *testing.T) {
	tests := []struct {
		kind VKind
		want string
	}{
		{KindElement, "Element"},
		{KindText, "Text"},
		{VKind(255), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("VKind.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVNodeValid(t *testing.T) {
	tests := []struct {
		name string
		node *VNode
		want bool
	}{
		{"nil", nil, false},
		{"text", Text("x"), true},
		{"empty text", Text(""), true},
		{"element", Div(), true},
		{"element without tag", &VNode{Kind: KindElement}, false},
		{"unknown kind", &VNode{Kind: VKind(9), Tag: "div"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVNodeIdentity(t *testing.T) {
	if got := Li(Key(7)).Identity(); got != "7" {
		t.Errorf("Identity() = %q, want 7", got)
	}
	propOnly := &VNode{Kind: KindElement, Tag: "li", Props: Props{"key": "a"}}
	if got := propOnly.Identity(); got != "a" {
		t.Errorf("Identity() from props = %q, want a", got)
	}
	if got := Li().Identity(); got != "" {
		t.Errorf("Identity() = %q, want empty", got)
	}
	var nilNode *VNode
	if nilNode.Identity() != "" {
		t.Error("nil Identity() should be empty")
	}
}

func TestVNodeIsInteractive(t *testing.T) {
	tests := []struct {
		name string
		node *VNode
		want bool
	}{
		{"nil node", nil, false},
		{"text node", Text("hello"), false},
		{"element without handlers", Div(ClassName("test")), false},
		{"element with onclick", Button(OnClick(func() {})), true},
		{"camel case handler", &VNode{Kind: KindElement, Tag: "input", Props: Props{"onInput": func() {}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.IsInteractive(); got != tt.want {
				t.Errorf("IsInteractive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPropsEvents(t *testing.T) {
	click := func() {}
	p := Props{"onclick": click, "className": "x", "onfocus": nil, "one": "attr"}
	events := p.Events()
	if len(events) != 2 {
		t.Fatalf("Events() = %v, want onclick and one", events)
	}
	if _, ok := events["onclick"]; !ok {
		t.Error("Events() missing onclick")
	}
	if (Props{"id": "a"}).Events() != nil {
		t.Error("Events() without handlers should be nil")
	}
}

func TestFuncComponent(t *testing.T) {
	comp := Func(func() *VNode { return Span(Text("hi")) })
	node := Div(comp)
	if len(node.Children) != 1 || node.Children[0].Tag != "span" {
		t.Fatalf("component not expanded: %+v", node.Children)
	}
}
