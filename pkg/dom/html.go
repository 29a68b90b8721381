package dom

import (
	"io"
	"strings"
)

// voidElements are elements that cannot have children and have no closing tag.
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
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// Render serializes a node of a Document and its subtree to HTML.
// Inline styles are emitted as a style attribute unless one is already set.
// Properties and listeners have no markup and are omitted.
func Render(h Handle) string {
	var b strings.Builder
	writeNode(&b, node(h))
	return b.String()
}

// RenderTo writes the HTML serialization of h to w.
func RenderTo(w io.Writer, h Handle) error {
	_, err := io.WriteString(w, Render(h))
	return err
}

func writeNode(b *strings.Builder, n *Node) {
	switch n.Type {
	case TextNode:
		b.WriteString(escapeHTML(n.Data))
	case CommentNode:
		b.WriteString("<!--")
		b.WriteString(escapeComment(n.Data))
		b.WriteString("-->")
	case ElementNode:
		writeElement(b, n)
	}
}

func writeElement(b *strings.Builder, n *Node) {
	b.WriteByte('<')
	b.WriteString(n.Tag)

	hasStyleAttr := false
	for _, a := range n.attrs {
		if a.Name == "style" {
			hasStyleAttr = true
		}
		b.WriteByte(' ')
		b.WriteString(a.Name)
		if a.Value != "" {
			b.WriteString(`="`)
			b.WriteString(escapeAttr(a.Value))
			b.WriteByte('"')
		}
	}
	if !hasStyleAttr && len(n.style) > 0 {
		b.WriteString(` style="`)
		for i, name := range n.StyleNames() {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(escapeAttr(name + ": " + n.style[name] + ";"))
		}
		b.WriteByte('"')
	}
	b.WriteByte('>')

	if n.Namespace == "" && voidElements[n.Tag] {
		return
	}

	for _, c := range n.children {
		writeNode(b, c)
	}

	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteByte('>')
}
