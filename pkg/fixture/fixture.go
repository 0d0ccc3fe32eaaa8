package fixture

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/parser"

	perrors "github.com/vango-dev/patchwork/internal/errors"
	"github.com/vango-dev/patchwork/pkg/vdom"
)

// Fields allowed on a mapping node.
const (
	fieldTag      = "tag"
	fieldKey      = "key"
	fieldProps    = "props"
	fieldChildren = "children"
	fieldText     = "text"
)

// Resolver maps a handler name from an event prop to a handler value.
type Resolver func(event, name string) any

// Option configures decoding.
type Option func(*decoder)

// WithHandlers sets the resolver for event props. The resolver receives
// the event name ("click") and the handler name from the fixture.
func WithHandlers(resolve Resolver) Option {
	return func(d *decoder) {
		if resolve != nil {
			d.resolve = resolve
		}
	}
}

func nop() {}

type decoder struct {
	file    string
	data    []byte
	resolve Resolver
}

// Parse decodes a fixture. An empty document yields a nil tree.
func Parse(data []byte, opts ...Option) (*vdom.VNode, error) {
	return decode("", data, opts)
}

// Load reads and decodes the fixture at path. Errors carry the file
// location of the offending node.
func Load(path string, opts ...Option) (*vdom.VNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, perrors.New("E201").Wrap(err)
	}
	return decode(path, data, opts)
}

func decode(file string, data []byte, opts []Option) (*vdom.VNode, error) {
	d := &decoder{
		file:    file,
		data:    data,
		resolve: func(string, string) any { return nop },
	}
	for _, opt := range opts {
		opt(d)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		perr := perrors.New("E201").
			WithDetail(yaml.FormatError(err, false, true)).
			WithSuggestion("Check that the file is valid YAML or JSON").
			Wrap(err)
		var yerr yaml.Error
		if errors.As(err, &yerr) {
			if tok := yerr.GetToken(); tok != nil && tok.Position != nil {
				d.locate(perr, tok.Position.Line, tok.Position.Column)
			}
		}
		return nil, perr
	}

	return d.node(raw, nil)
}

func (d *decoder) node(raw any, path nodePath) (*vdom.VNode, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return vdom.Text(v), nil
	case int, int64, uint64, float64:
		return vdom.Number(v), nil
	case map[string]any:
		return d.mapping(v, path)
	}
	return nil, d.invalid(path, fmt.Sprintf("unexpected %T", raw), "")
}

func (d *decoder) mapping(m map[string]any, path nodePath) (*vdom.VNode, error) {
	for _, field := range sortedKeys(m) {
		switch field {
		case fieldTag, fieldKey, fieldProps, fieldChildren, fieldText:
		default:
			return nil, d.invalid(path, "unknown field "+field,
				"Node fields are tag, key, props, children and text")
		}
	}

	if text, ok := m[fieldText]; ok {
		if len(m) != 1 {
			return nil, d.invalid(path, "text cannot be combined with other fields", "")
		}
		s, ok := scalar(text)
		if !ok {
			return nil, d.invalid(path.child(fieldText), "text must be a string or number", "")
		}
		return vdom.Text(s), nil
	}

	tag, _ := m[fieldTag].(string)
	if tag == "" {
		return nil, d.invalid(path, "missing tag", "Add a tag field, e.g. tag: div")
	}

	args := make([]any, 0, 2)

	if rawProps, ok := m[fieldProps]; ok && rawProps != nil {
		props, err := d.props(rawProps, path.child(fieldProps))
		if err != nil {
			return nil, err
		}
		args = append(args, props)
	}

	if rawKey, ok := m[fieldKey]; ok {
		key, ok := scalar(rawKey)
		if !ok {
			return nil, d.invalid(path.child(fieldKey), "key must be a string or number", "")
		}
		args = append(args, vdom.Key(key))
	}

	if rawChildren, ok := m[fieldChildren]; ok && rawChildren != nil {
		list, ok := rawChildren.([]any)
		if !ok {
			return nil, d.invalid(path.child(fieldChildren), "children must be a sequence",
				"Write children as a YAML list")
		}
		children := make([]*vdom.VNode, 0, len(list))
		for i, rawChild := range list {
			child, err := d.node(rawChild, path.child(fieldChildren).index(i))
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		args = append(args, children)
	}

	return vdom.El(tag, args...), nil
}

func (d *decoder) props(raw any, path nodePath) (vdom.Props, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, d.invalid(path, "props must be a mapping", "")
	}

	props := make(vdom.Props, len(m))
	for _, name := range sortedKeys(m) {
		value := m[name]
		switch {
		case name == vdom.PropChildren:
			return nil, d.invalid(path.child(name), "children is a node field, not a prop", "")
		case name == vdom.PropKey:
			key, ok := scalar(value)
			if !ok {
				return nil, d.invalid(path.child(name), "key must be a string or number", "")
			}
			props[name] = key
		case vdom.IsEventKey(name):
			handler, ok := value.(string)
			if !ok || handler == "" {
				return nil, d.invalid(path.child(name), "event props name a handler",
					"Write the handler name as a string, e.g. onclick: increment")
			}
			props[name] = d.resolve(vdom.EventName(name), handler)
		default:
			props[name] = value
		}
	}
	return props, nil
}

// invalid builds an E202 error located at path when the source position
// can be recovered.
func (d *decoder) invalid(path nodePath, msg, suggestion string) error {
	p := path.build()
	err := perrors.New("E202").WithDetail(fmt.Sprintf("%s: %s", strings.TrimPrefix(p.String(), "$."), msg))
	if suggestion != "" {
		err.WithSuggestion(suggestion)
	}

	if file, perr := parser.ParseBytes(d.data, 0); perr == nil {
		if n, ferr := p.FilterFile(file); ferr == nil && n != nil {
			if tok := n.GetToken(); tok != nil && tok.Position != nil {
				d.locate(err, tok.Position.Line, tok.Position.Column)
			}
		}
	}
	return err
}

func (d *decoder) locate(err *perrors.PatchworkError, line, column int) {
	if d.file != "" {
		err.WithLocation(d.file, line, column)
		return
	}
	err.Location = &perrors.Location{File: "<fixture>", Line: line, Column: column}
}

// nodePath locates a node inside the document. yaml.PathBuilder mutates
// itself, so paths are kept as values and built on demand.
type nodePath []pathStep

type pathStep struct {
	field string
	index int
}

func (p nodePath) child(name string) nodePath {
	return append(p[:len(p):len(p)], pathStep{field: name, index: -1})
}

func (p nodePath) index(i int) nodePath {
	return append(p[:len(p):len(p)], pathStep{index: i})
}

func (p nodePath) build() *yaml.Path {
	b := (&yaml.PathBuilder{}).Root()
	for _, step := range p {
		if step.index >= 0 {
			b = b.Index(uint(step.index))
		} else {
			b = b.Child(step.field)
		}
	}
	return b.Build()
}

func scalar(v any) (string, bool) {
	switch v.(type) {
	case string, int, int64, uint64, float64:
		s := vdom.PropString(v)
		return s, s != ""
	}
	return "", false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
