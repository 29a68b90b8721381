package vdom

import (
	"strings"

	"github.com/vango-dev/vtree/pkg/dom"
)

const (
	// SVGNamespace is the namespace H assigns to svg subtrees.
	SVGNamespace = "http://www.w3.org/2000/svg"

	// foreignObjectTag ends namespace inheritance: its children are HTML.
	foreignObjectTag = "foreignObject"
)

// emptyNode is the "old" side handed to create hooks.
var emptyNode = NewNode("", &Data{}, nil, "", nil)

// createElm materializes v and its subtree, returning the new native node.
// Nodes declaring an insert hook are queued on inserted.
func (p *Patcher) createElm(v *VNode, inserted *[]*VNode) dom.Handle {
	data := v.Data
	if data != nil && data.Hook != nil && data.Hook.Init != nil {
		data.Hook.Init(v)
		data = v.Data
	}

	switch {
	case v.Sel == CommentSel:
		v.Elm = p.api.CreateComment(v.Text)

	case v.Sel != "":
		tag, id, hasID, class := parseSelector(v.Sel)
		ns := ""
		if data != nil {
			ns = data.NS
		}

		var elm dom.Handle
		if ns != "" {
			elm = p.api.CreateElementNS(ns, tag)
		} else {
			elm = p.api.CreateElement(tag)
		}
		v.Elm = elm

		if hasID {
			p.api.SetAttribute(elm, "id", id)
		}
		if class != "" {
			p.api.SetAttribute(elm, "class", class)
		}

		for _, fn := range p.cbs.create {
			fn(emptyNode, v)
		}

		if ns != "" && tag != foreignObjectTag {
			inheritNamespace(v.Children, ns)
		}

		if len(v.Children) > 0 {
			for _, ch := range v.Children {
				if ch != nil {
					p.api.AppendChild(elm, p.createElm(ch, inserted))
				}
			}
		} else if v.Text != "" {
			p.api.AppendChild(elm, p.api.CreateTextNode(v.Text))
		}

		if hook := v.hooks(); hook != nil {
			if hook.Create != nil {
				hook.Create(emptyNode, v)
			}
			if hook.Insert != nil {
				*inserted = append(*inserted, v)
			}
		}

	default:
		v.Elm = p.api.CreateTextNode(v.Text)
	}

	return v.Elm
}

// addVNodes materializes vnodes[start:end+1] and inserts them before ref.
func (p *Patcher) addVNodes(parent, ref dom.Handle, vnodes []*VNode, start, end int, inserted *[]*VNode) {
	for ; start <= end; start++ {
		if ch := vnodes[start]; ch != nil {
			p.api.InsertBefore(parent, p.createElm(ch, inserted), ref)
		}
	}
}

// inheritNamespace gives element children without a namespace the parent's.
func inheritNamespace(children []*VNode, ns string) {
	for _, ch := range children {
		if ch == nil || ch.Sel == "" || ch.Sel == CommentSel {
			continue
		}
		if ch.Data == nil {
			ch.Data = &Data{}
		}
		if ch.Data.NS == "" {
			ch.Data.NS = ns
		}
	}
}

// parseSelector splits "tag#id.c1.c2" into its parts. The id runs from the
// first '#' to the first '.' after it; every '.' in the class part becomes
// a space.
func parseSelector(sel string) (tag, id string, hasID bool, class string) {
	hashIdx := strings.IndexByte(sel, '#')
	from := hashIdx
	if from < 0 {
		from = 0
	}
	dotIdx := strings.IndexByte(sel[from:], '.')
	if dotIdx >= 0 {
		dotIdx += from
	}

	hash, dot := len(sel), len(sel)
	if hashIdx > 0 {
		hash = hashIdx
	}
	if dotIdx > 0 {
		dot = dotIdx
	}

	tag = sel
	if hashIdx != -1 || dotIdx != -1 {
		tag = sel[:min(hash, dot)]
	}
	if hash < dot {
		id, hasID = sel[hash+1:dot], true
	}
	if dotIdx > 0 {
		class = strings.ReplaceAll(sel[dot+1:], ".", " ")
	}
	return tag, id, hasID, class
}
