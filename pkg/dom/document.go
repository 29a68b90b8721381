package dom

import (
	"fmt"
	"strings"
)

// Document is an in-memory tree implementing DocumentAPI.
// It is not safe for concurrent use.
type Document struct {
	nextID int
}

var _ DocumentAPI = (*Document)(nil)

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{}
}

func (d *Document) newNode(t NodeType) *Node {
	d.nextID++
	return &Node{Type: t, ID: d.nextID}
}

// node converts a handle back into a *Node. Foreign handles are a
// programming error.
func node(h Handle) *Node {
	if h == nil {
		return nil
	}
	n, ok := h.(*Node)
	if !ok {
		panic(fmt.Sprintf("dom: foreign handle %T", h))
	}
	return n
}

// handle wraps a *Node so that nil stays an untyped nil.
func handle(n *Node) Handle {
	if n == nil {
		return nil
	}
	return n
}

// CreateElement implements API.
func (d *Document) CreateElement(tag string) Handle {
	n := d.newNode(ElementNode)
	n.Tag = tag
	return n
}

// CreateElementNS implements API.
func (d *Document) CreateElementNS(ns, tag string) Handle {
	n := d.newNode(ElementNode)
	n.Tag = tag
	n.Namespace = ns
	return n
}

// CreateTextNode implements API.
func (d *Document) CreateTextNode(text string) Handle {
	n := d.newNode(TextNode)
	n.Data = text
	return n
}

// CreateComment implements API.
func (d *Document) CreateComment(text string) Handle {
	n := d.newNode(CommentNode)
	n.Data = text
	return n
}

// InsertBefore implements API.
func (d *Document) InsertBefore(parent, child, ref Handle) {
	p, c, r := node(parent), node(child), node(ref)
	if r == c {
		r = c.nextSibling()
	}
	c.detach()
	if r == nil {
		p.children = append(p.children, c)
		c.parent = p
		return
	}
	i := p.indexOf(r)
	if i < 0 {
		panic("dom: reference node is not a child of parent")
	}
	p.children = append(p.children, nil)
	copy(p.children[i+1:], p.children[i:])
	p.children[i] = c
	c.parent = p
}

// RemoveChild implements API.
func (d *Document) RemoveChild(parent, child Handle) {
	p, c := node(parent), node(child)
	if c.parent != p {
		panic("dom: node is not a child of parent")
	}
	c.detach()
}

// AppendChild implements API.
func (d *Document) AppendChild(parent, child Handle) {
	d.InsertBefore(parent, child, nil)
}

// ParentNode implements API.
func (d *Document) ParentNode(h Handle) Handle {
	return handle(node(h).parent)
}

// NextSibling implements API.
func (d *Document) NextSibling(h Handle) Handle {
	return handle(node(h).nextSibling())
}

// TagName implements API. HTML element names are upper-cased as in the
// browser DOM; namespaced elements keep their case.
func (d *Document) TagName(h Handle) string {
	n := node(h)
	if n.Namespace == "" {
		return strings.ToUpper(n.Tag)
	}
	return n.Tag
}

// SetTextContent implements API. On an element it replaces all children
// with a single text node, or with nothing when text is empty.
func (d *Document) SetTextContent(h Handle, text string) {
	n := node(h)
	if n.Type != ElementNode {
		n.Data = text
		return
	}
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
	if text != "" {
		t := d.newNode(TextNode)
		t.Data = text
		t.parent = n
		n.children = []*Node{t}
	}
}

// TextContent implements API.
func (d *Document) TextContent(h Handle) string {
	return node(h).TextContent()
}

// IsElement implements API.
func (d *Document) IsElement(h Handle) bool { return node(h).Type == ElementNode }

// IsText implements API.
func (d *Document) IsText(h Handle) bool { return node(h).Type == TextNode }

// IsComment implements API.
func (d *Document) IsComment(h Handle) bool { return node(h).Type == CommentNode }

// GetAttribute implements API.
func (d *Document) GetAttribute(h Handle, name string) (string, bool) {
	return node(h).Attribute(name)
}

// SetAttribute implements API.
func (d *Document) SetAttribute(h Handle, name, value string) {
	node(h).setAttr("", name, value)
}

// SetAttributeNS implements API.
func (d *Document) SetAttributeNS(h Handle, ns, name, value string) {
	node(h).setAttr(ns, name, value)
}

// RemoveAttribute implements API.
func (d *Document) RemoveAttribute(h Handle, name string) {
	node(h).removeAttr(name)
}

// Property implements PropertyAPI.
func (d *Document) Property(h Handle, name string) (any, bool) {
	return node(h).Property(name)
}

// SetProperty implements PropertyAPI.
func (d *Document) SetProperty(h Handle, name string, value any) {
	n := node(h)
	if n.props == nil {
		n.props = make(map[string]any)
	}
	n.props[name] = value
}

// Style implements StyleAPI.
func (d *Document) Style(h Handle, name string) string {
	return node(h).Style(name)
}

// SetStyle implements StyleAPI. An empty value removes the declaration.
func (d *Document) SetStyle(h Handle, name, value string) {
	n := node(h)
	if value == "" {
		delete(n.style, name)
		return
	}
	if n.style == nil {
		n.style = make(map[string]string)
	}
	n.style[name] = value
}

// RemoveStyle implements StyleAPI.
func (d *Document) RemoveStyle(h Handle, name string) {
	delete(node(h).style, name)
}

// AddEventListener implements EventAPI. Adding the same listener twice is
// a no-op.
func (d *Document) AddEventListener(h Handle, event string, l EventListener) {
	n := node(h)
	for _, existing := range n.listeners[event] {
		if existing == l {
			return
		}
	}
	if n.listeners == nil {
		n.listeners = make(map[string][]EventListener)
	}
	n.listeners[event] = append(n.listeners[event], l)
}

// RemoveEventListener implements EventAPI.
func (d *Document) RemoveEventListener(h Handle, event string, l EventListener) {
	n := node(h)
	list := n.listeners[event]
	for i, existing := range list {
		if existing == l {
			n.listeners[event] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(n.listeners[event]) == 0 {
		delete(n.listeners, event)
	}
}

// Dispatch delivers ev to target and then to each ancestor until a listener
// stops propagation.
func Dispatch(target Handle, ev *Event) {
	ev.Target = target
	for n := node(target); n != nil && !ev.stopped; n = n.parent {
		ev.CurrentTarget = n
		listeners := append([]EventListener(nil), n.listeners[ev.Type]...)
		for _, l := range listeners {
			l.HandleEvent(ev)
		}
	}
}
