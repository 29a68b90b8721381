package vdom

import (
	"fmt"
	"strconv"
)

// H builds a VNode from a selector and any mix of arguments:
//
//   - *Data sets the node data (the last one wins)
//   - *VNode and []*VNode append children
//   - string and numeric values become the node text when they are the only
//     content, otherwise text children
//   - []any is flattened with the same rules
//   - nil is ignored, which allows conditional children
//
// Selectors "svg", "svg#..." and "svg...." put the subtree in the SVG
// namespace, except below a foreignObject.
//
//	H("ul#list",
//	    H("li.item", &Data{Key: "a"}, "first"),
//	    H("li.item", &Data{Key: "b"}, "second"),
//	)
func H(sel string, args ...any) *VNode {
	var data *Data
	var content []any

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
		case *Data:
			data = v
		case []any:
			content = append(content, v...)
		default:
			content = append(content, v)
		}
	}
	if data == nil {
		data = &Data{}
	}

	var children []*VNode
	text := ""
	if len(content) == 1 {
		if s, ok := primitive(content[0]); ok {
			text = s
			content = nil
		}
	}
	for _, c := range content {
		children = appendChild(children, c)
	}

	if isSVGSelector(sel) {
		addNS(data, children, sel)
	}
	return NewNode(sel, data, children, text, nil)
}

// Text creates a text node.
func Text(s string) *VNode {
	return NewNode("", nil, nil, s, nil)
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Comment creates a comment placeholder node.
func Comment(s string) *VNode {
	return NewNode(CommentSel, &Data{}, nil, s, nil)
}

func appendChild(children []*VNode, c any) []*VNode {
	switch v := c.(type) {
	case nil:
		return children
	case *VNode:
		if v != nil {
			children = append(children, v)
		}
		return children
	case []*VNode:
		for _, ch := range v {
			if ch != nil {
				children = append(children, ch)
			}
		}
		return children
	}
	if s, ok := primitive(c); ok {
		return append(children, Text(s))
	}
	panic(fmt.Sprintf("vdom: unsupported child type %T", c))
}

// primitive converts strings and numbers to their text form.
func primitive(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case int32:
		return strconv.FormatInt(int64(x), 10), true
	case uint:
		return strconv.FormatUint(uint64(x), 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case fmt.Stringer:
		return x.String(), true
	}
	return "", false
}

func isSVGSelector(sel string) bool {
	return len(sel) >= 3 && sel[:3] == "svg" &&
		(len(sel) == 3 || sel[3] == '.' || sel[3] == '#')
}

// addNS tags data and, recursively, every child that has data with the SVG
// namespace. Children of a foreignObject stay in HTML.
func addNS(data *Data, children []*VNode, sel string) {
	data.NS = SVGNamespace
	if sel == foreignObjectTag {
		return
	}
	for _, ch := range children {
		if ch.Data != nil {
			addNS(ch.Data, ch.Children, ch.Sel)
		}
	}
}
