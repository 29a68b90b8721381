package vdom

import "github.com/vango-dev/vtree/pkg/dom"

// CommentSel is the selector of a comment (empty placeholder) node.
const CommentSel = "!"

// Key re-identifies a node among its siblings across passes. Any comparable
// value works (string, number, pointer used as a unique symbol). A nil Key
// means "unkeyed".
type Key any

// VNode describes one tree position for one render pass.
//
// An empty Sel makes the node a text node. Text and Children are mutually
// exclusive; an empty Text or a zero-length Children counts as absent.
type VNode struct {
	Sel      string
	Data     *Data
	Children []*VNode
	Text     string
	Key      Key

	// Elm is the native node materialized for this VNode. It is set by the
	// engine and must not be reassigned by module code.
	Elm dom.Handle
}

// Data is the cross-cutting payload of a VNode. Each module reads the
// fields it owns; Ext holds fields for third-party modules.
type Data struct {
	Key  Key
	NS   string // element namespace, e.g. SVG
	Is   string // customized built-in marker
	Hook *Hooks

	Attrs   map[string]any
	Class   map[string]bool
	Props   map[string]any
	Style   map[string]string
	Dataset map[string]string
	On      map[string]Handler

	// RemoveStyle is applied just before the node is detached;
	// DestroyStyle when its subtree is destroyed.
	RemoveStyle  map[string]string
	DestroyStyle map[string]string

	// Fn and Args describe a deferred subtree (see Thunk).
	Fn   func(args ...any) *VNode
	Args []any

	Ext map[string]any
}

// Handler is an event handler bound through Data.On. It receives the event
// and the VNode currently rendered at the listening element.
type Handler func(ev *dom.Event, v *VNode)

// NewNode builds a VNode, mirroring data.Key into Key.
func NewNode(sel string, data *Data, children []*VNode, text string, elm dom.Handle) *VNode {
	var key Key
	if data != nil {
		key = data.Key
	}
	return &VNode{
		Sel:      sel,
		Data:     data,
		Children: children,
		Text:     text,
		Key:      key,
		Elm:      elm,
	}
}

// SameVNode reports whether a and b occupy the same logical position:
// equal selector, key and is-marker.
func SameVNode(a, b *VNode) bool {
	return a.Sel == b.Sel && a.Key == b.Key && a.is() == b.is()
}

// IsVNode reports whether x is a VNode rather than a bare native handle.
func IsVNode(x any) bool {
	v, ok := x.(*VNode)
	return ok && v != nil
}

// IsText reports whether v is a text node.
func (v *VNode) IsText() bool { return v.Sel == "" }

// IsComment reports whether v is a comment placeholder.
func (v *VNode) IsComment() bool { return v.Sel == CommentSel }

func (v *VNode) is() string {
	if v.Data == nil {
		return ""
	}
	return v.Data.Is
}

func (v *VNode) hooks() *Hooks {
	if v.Data == nil {
		return nil
	}
	return v.Data.Hook
}

func (v *VNode) hasText() bool     { return v.Text != "" }
func (v *VNode) hasChildren() bool { return len(v.Children) > 0 }

// sameChildren reports whether a and b are the same slice.
func sameChildren(a, b []*VNode) bool {
	return len(a) == len(b) && len(a) > 0 && &a[0] == &b[0]
}
