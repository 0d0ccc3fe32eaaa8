package fixture

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	perrors "github.com/vango-dev/patchwork/internal/errors"
	"github.com/vango-dev/patchwork/pkg/vdom"
)

const list = `
tag: ul
props: {className: list, style: {color: red}}
children:
  - {tag: li, key: a, children: ["A"]}
  - "plain text"
  - 42
  - null
  - tag: li
    props: {key: b, onclick: increment}
    children: [{text: B}]
`

func TestParseList(t *testing.T) {
	root, err := Parse([]byte(list))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if root.Tag != "ul" {
		t.Errorf("Tag = %q, want ul", root.Tag)
	}
	if got := root.Props["className"]; got != "list" {
		t.Errorf("className = %v, want list", got)
	}
	if style, ok := vdom.StyleMap(root.Props["style"]); !ok || style["color"] != "red" {
		t.Errorf("style = %v, want color: red", root.Props["style"])
	}

	if len(root.Children) != 4 {
		t.Fatalf("len(Children) = %d, want 4 (null dropped)", len(root.Children))
	}

	a := root.Children[0]
	if a.Identity() != "a" || a.Tag != "li" || a.Children[0].Text != "A" {
		t.Errorf("first child = %+v, want li key=a with text A", a)
	}
	if got := root.Children[1]; !got.IsText() || got.Text != "plain text" {
		t.Errorf("second child = %+v, want text", got)
	}
	if got := root.Children[2]; !got.IsText() || got.Text != "42" {
		t.Errorf("third child = %+v, want text 42", got)
	}

	b := root.Children[3]
	if b.Identity() != "b" {
		t.Errorf("Identity() = %q, want b", b.Identity())
	}
	if _, ok := b.Props["onclick"].(func()); !ok {
		t.Errorf("onclick = %T, want no-op func()", b.Props["onclick"])
	}
	if got := b.Children[0]; !got.IsText() || got.Text != "B" {
		t.Errorf("text field child = %+v, want text B", got)
	}
}

func TestParseJSON(t *testing.T) {
	root, err := Parse([]byte(`{"tag": "p", "key": 7, "children": ["x", 1.5]}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if root.Identity() != "7" {
		t.Errorf("Identity() = %q, want 7", root.Identity())
	}
	if got := root.Children[1].Text; got != "1.5" {
		t.Errorf("number child = %q, want 1.5", got)
	}
}

func TestParseScalarsAndEmpty(t *testing.T) {
	root, err := Parse([]byte(`"hello"`))
	if err != nil || !root.IsText() || root.Text != "hello" {
		t.Errorf("Parse(string) = %+v, %v; want text hello", root, err)
	}

	root, err = Parse(nil)
	if err != nil || root != nil {
		t.Errorf("Parse(empty) = %+v, %v; want nil, nil", root, err)
	}
}

func TestWithHandlers(t *testing.T) {
	type call struct{ event, name string }
	var calls []call

	root, err := Parse([]byte("tag: button\nprops: {onClick: save, onInput: typed}\n"),
		WithHandlers(func(event, name string) any {
			calls = append(calls, call{event, name})
			return func() {}
		}))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	// Props are visited in sorted order.
	want := []call{{"click", "save"}, {"input", "typed"}}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("calls[%d] = %v, want %v", i, calls[i], want[i])
		}
	}
	if !root.IsInteractive() {
		t.Error("IsInteractive() = false, want true")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		code   string
		detail string
	}{
		{"syntax", "tag: [div", "E201", ""},
		{"missing tag", "props: {id: x}", "E202", "missing tag"},
		{"unknown field", "tag: div\nclass: x", "E202", "unknown field class"},
		{"children not list", "tag: div\nchildren: x", "E202", "children: children must be a sequence"},
		{"bad child", "tag: div\nchildren:\n  - ok\n  - true", "E202", "children[1]: unexpected bool"},
		{"nested", "tag: div\nchildren:\n  - tag: p\n    children:\n      - {props: {id: a}}", "E202", "children[0].children[0]: missing tag"},
		{"handler not string", "tag: a\nprops: {onclick: 1}", "E202", "props.onclick: event props name a handler"},
		{"children prop", "tag: a\nprops: {children: []}", "E202", "props.children"},
		{"text mixed", "text: a\ntag: p", "E202", "text cannot be combined"},
		{"props not map", "tag: a\nprops: [1]", "E202", "props must be a mapping"},
		{"bad key", "tag: a\nkey: [1]", "E202", "key must be a string or number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if err == nil {
				t.Fatal("Parse() error = nil, want error")
			}
			if !errors.Is(err, perrors.New(tt.code)) {
				t.Errorf("Parse() error = %v, want code %s", err, tt.code)
			}

			var perr *perrors.PatchworkError
			if !errors.As(err, &perr) {
				t.Fatalf("error %T is not a PatchworkError", err)
			}
			if !strings.Contains(perr.Detail, tt.detail) {
				t.Errorf("Detail = %q, want it to contain %q", perr.Detail, tt.detail)
			}
		})
	}
}

func TestParseErrorLocation(t *testing.T) {
	_, err := Parse([]byte("tag: div\nchildren:\n  - ok\n  - true\n"))

	var perr *perrors.PatchworkError
	if !errors.As(err, &perr) {
		t.Fatalf("Parse() error = %v, want PatchworkError", err)
	}
	if perr.Location == nil {
		t.Fatal("Location = nil, want the line of the bad child")
	}
	if perr.Location.Line != 4 {
		t.Errorf("Location.Line = %d, want 4", perr.Location.Line)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tree.yaml")
	if err := os.WriteFile(path, []byte(list), 0o644); err != nil {
		t.Fatal(err)
	}

	root, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if root.Tag != "ul" {
		t.Errorf("Tag = %q, want ul", root.Tag)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("tag: div\nchildren:\n  - false\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = Load(bad)
	var perr *perrors.PatchworkError
	if !errors.As(err, &perr) || perr.Location == nil {
		t.Fatalf("Load(bad) error = %v, want located PatchworkError", err)
	}
	if perr.Location.File != bad {
		t.Errorf("Location.File = %q, want %q", perr.Location.File, bad)
	}
	if len(perr.Context) == 0 {
		t.Error("Context is empty, want surrounding source lines")
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, perrors.New("E201")) {
		t.Errorf("Load(missing) error = %v, want E201", err)
	}
}
