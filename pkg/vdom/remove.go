package vdom

import "github.com/vango-dev/vtree/pkg/dom"

// invokeDestroyHook fires destroy hooks through the subtree of v, parent
// before children.
func (p *Patcher) invokeDestroyHook(v *VNode) {
	if v.Data == nil {
		return
	}
	if h := v.Data.Hook; h != nil && h.Destroy != nil {
		h.Destroy(v)
	}
	for _, fn := range p.cbs.destroy {
		fn(v)
	}
	for _, ch := range v.Children {
		if ch != nil {
			p.invokeDestroyHook(ch)
		}
	}
}

// removeVNodes tears down vnodes[start:end+1]. Element nodes are detached
// once every module remove hook, and the node's own remove hook if any,
// has called Done. Text nodes are detached immediately.
func (p *Patcher) removeVNodes(parent dom.Handle, vnodes []*VNode, start, end int) {
	for ; start <= end; start++ {
		ch := vnodes[start]
		if ch == nil {
			continue
		}
		if ch.Sel == "" {
			p.api.RemoveChild(parent, ch.Elm)
			continue
		}

		p.invokeDestroyHook(ch)

		rm := newRemoval(len(p.cbs.remove)+1, p.detachFunc(ch.Elm))
		for _, fn := range p.cbs.remove {
			fn(ch, rm)
		}
		if h := ch.hooks(); h != nil && h.Remove != nil {
			h.Remove(ch, rm)
		} else {
			rm.Done()
		}
	}
}

// detachFunc removes elm from whatever parent it has when called.
func (p *Patcher) detachFunc(elm dom.Handle) func() {
	return func() {
		if parent := p.api.ParentNode(elm); parent != nil {
			p.api.RemoveChild(parent, elm)
		}
	}
}
