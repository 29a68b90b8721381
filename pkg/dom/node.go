package dom

import (
	"sort"
	"strings"
)

// NodeType is the node type discriminator, numbered like the browser DOM.
type NodeType uint8

const (
	ElementNode NodeType = 1
	TextNode    NodeType = 3
	CommentNode NodeType = 8
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	case CommentNode:
		return "Comment"
	default:
		return "Unknown"
	}
}

// Attr is a single element attribute.
type Attr struct {
	NS    string
	Name  string
	Value string
}

// Node is a node of an in-memory Document.
type Node struct {
	Type      NodeType
	ID        int    // unique within the owning Document
	Tag       string // element tag as created
	Namespace string // element namespace, empty for HTML
	Data      string // text or comment content

	attrs     []Attr
	props     map[string]any
	style     map[string]string
	listeners map[string][]EventListener

	parent   *Node
	children []*Node
}

// Parent returns the parent node, or nil.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the i-th child, or nil if out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Attribute returns the value of the named attribute.
func (n *Node) Attribute(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Attributes returns the attributes in insertion order.
func (n *Node) Attributes() []Attr {
	out := make([]Attr, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// Property returns the named property.
func (n *Node) Property(name string) (any, bool) {
	v, ok := n.props[name]
	return v, ok
}

// Style returns the named inline style value, or "".
func (n *Node) Style(name string) string { return n.style[name] }

// StyleNames returns the inline style names in sorted order.
func (n *Node) StyleNames() []string {
	names := make([]string, 0, len(n.style))
	for name := range n.style {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListenerCount returns the number of listeners registered for event.
func (n *Node) ListenerCount(event string) int { return len(n.listeners[event]) }

// TextContent returns the node's text, or the concatenated text of all
// descendant text nodes for an element.
func (n *Node) TextContent() string {
	if n.Type != ElementNode {
		return n.Data
	}
	var b strings.Builder
	n.collectText(&b)
	return b.String()
}

func (n *Node) collectText(b *strings.Builder) {
	for _, c := range n.children {
		switch c.Type {
		case TextNode:
			b.WriteString(c.Data)
		case ElementNode:
			c.collectText(b)
		}
	}
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

func (n *Node) nextSibling() *Node {
	if n.parent == nil {
		return nil
	}
	i := n.parent.indexOf(n)
	if i < 0 || i+1 >= len(n.parent.children) {
		return nil
	}
	return n.parent.children[i+1]
}

func (n *Node) detach() {
	p := n.parent
	if p == nil {
		return
	}
	if i := p.indexOf(n); i >= 0 {
		p.children = append(p.children[:i], p.children[i+1:]...)
	}
	n.parent = nil
}

func (n *Node) setAttr(ns, name, value string) {
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			n.attrs[i].NS = ns
			n.attrs[i].Value = value
			return
		}
	}
	n.attrs = append(n.attrs, Attr{NS: ns, Name: name, Value: value})
}

func (n *Node) removeAttr(name string) {
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			return
		}
	}
}
