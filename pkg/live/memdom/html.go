package memdom

import (
	"sort"
	"strconv"
	"strings"

	"github.com/vango-dev/patchwork/pkg/vdom"
)

// NodeIDAttr is the attribute written by WithNodeIDs. The preview client
// uses it to address nodes in event frames.
const NodeIDAttr = "data-pw-id"

// HTMLOption configures HTML serialization.
type HTMLOption func(*htmlConfig)

type htmlConfig struct {
	indent  string
	nodeIDs bool
}

// WithIndent pretty-prints the output, one node per line.
func WithIndent(indent string) HTMLOption {
	return func(c *htmlConfig) { c.indent = indent }
}

// WithNodeIDs adds a NodeIDAttr attribute carrying each element's id.
func WithNodeIDs() HTMLOption {
	return func(c *htmlConfig) { c.nodeIDs = true }
}

// OuterHTML serializes n and its subtree. Attributes are sorted by name so
// the output is deterministic. The inline style map, when non-empty, wins
// over a "style" attribute.
func OuterHTML(n *Node, opts ...HTMLOption) string {
	var cfg htmlConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	var b strings.Builder
	writeNode(&b, n, &cfg, 0)
	return b.String()
}

// InnerHTML serializes n's children.
func InnerHTML(n *Node, opts ...HTMLOption) string {
	var cfg htmlConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	var b strings.Builder
	for _, c := range n.children {
		writeNode(&b, c, &cfg, 0)
	}
	return b.String()
}

func writeNode(b *strings.Builder, n *Node, cfg *htmlConfig, depth int) {
	pretty := cfg.indent != ""
	if pretty {
		b.WriteString(strings.Repeat(cfg.indent, depth))
	}
	if n.isText {
		b.WriteString(escapeHTML(n.text))
		if pretty {
			b.WriteByte('\n')
		}
		return
	}

	b.WriteByte('<')
	b.WriteString(n.tag)
	writeAttrs(b, n, cfg)
	b.WriteByte('>')
	if vdom.IsVoidElement(n.tag) {
		if pretty {
			b.WriteByte('\n')
		}
		return
	}
	if pretty && len(n.children) > 0 {
		b.WriteByte('\n')
	}
	for _, c := range n.children {
		writeNode(b, c, cfg, depth+1)
	}
	if pretty && len(n.children) > 0 {
		b.WriteString(strings.Repeat(cfg.indent, depth))
	}
	b.WriteString("</")
	b.WriteString(n.tag)
	b.WriteByte('>')
	if pretty {
		b.WriteByte('\n')
	}
}

func writeAttrs(b *strings.Builder, n *Node, cfg *htmlConfig) {
	attrs := make(map[string]string, len(n.attrs)+2)
	for k, v := range n.attrs {
		attrs[k] = v
	}
	if len(n.style) > 0 {
		attrs["style"] = styleString(n.style)
	}
	// An input's live value shows up as its value attribute.
	if n.tag == "input" {
		if v, ok := n.props["value"].(string); ok {
			attrs["value"] = v
		}
	}
	if cfg.nodeIDs {
		attrs[NodeIDAttr] = strconv.Itoa(n.id)
	}

	names := make([]string, 0, len(attrs))
	for k := range attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, name := range names {
		b.WriteByte(' ')
		b.WriteString(name)
		if v := attrs[name]; v != "" {
			b.WriteString(`="`)
			b.WriteString(escapeAttr(v))
			b.WriteByte('"')
		}
	}
}

func styleString(style map[string]string) string {
	names := make([]string, 0, len(style))
	for k := range style {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, k := range names {
		parts[i] = k + ": " + style[k]
	}
	return strings.Join(parts, "; ")
}

// escapeHTML escapes text for inclusion in HTML content.
func escapeHTML(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}

// escapeAttr escapes a double-quoted attribute value, including whitespace
// that would otherwise be normalized away.
func escapeAttr(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		case '\n':
			buf.WriteString("&#10;")
		case '\r':
			buf.WriteString("&#13;")
		case '\t':
			buf.WriteString("&#9;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}
