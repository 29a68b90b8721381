package vdom

import (
	"log/slog"
	"strings"

	"github.com/vango-dev/vtree/pkg/dom"
)

// Patcher reconciles VNode trees against a native tree. It is built once
// from an ordered module list and reused for every pass. A Patcher holds
// no per-pass state, but concurrent Patch calls against the same native
// tree must be serialized by the caller.
type Patcher struct {
	api    dom.API
	cbs    pipeline
	logger *slog.Logger
}

// Option configures a Patcher.
type Option func(*Patcher)

// WithLogger sets the logger used for debug records.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Patcher) {
		p.logger = logger
	}
}

// NewPatcher creates a Patcher mutating the tree through api and running
// the hooks of modules in the given order.
func NewPatcher(api dom.API, modules []Module, opts ...Option) *Patcher {
	p := &Patcher{
		api: api,
		cbs: newPipeline(modules),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	p.logger = p.logger.With("component", "vdom")
	return p
}

// API returns the native tree capability the Patcher mutates.
func (p *Patcher) API() dom.API { return p.api }

// Patch transforms the native tree described by old into vnode and returns
// vnode, now carrying live native handles. old is either a *VNode from the
// previous pass or a bare dom.Handle that has never been reconciled.
//
// If old and vnode are the same logical node the existing native node is
// patched in place. Otherwise vnode is materialized, inserted right after
// old, and old is removed.
func (p *Patcher) Patch(old any, vnode *VNode) *VNode {
	var inserted []*VNode

	for _, fn := range p.cbs.pre {
		fn()
	}

	var oldVNode *VNode
	if IsVNode(old) {
		oldVNode = old.(*VNode)
	} else {
		oldVNode = p.emptyNodeAt(old)
	}

	if SameVNode(oldVNode, vnode) {
		p.patchVNode(oldVNode, vnode, &inserted)
	} else {
		elm := oldVNode.Elm
		parent := p.api.ParentNode(elm)

		p.createElm(vnode, &inserted)

		if parent != nil {
			p.logger.Debug("replacing root", "old", oldVNode.Sel, "new", vnode.Sel)
			p.api.InsertBefore(parent, vnode.Elm, p.api.NextSibling(elm))
			p.removeVNodes(parent, []*VNode{oldVNode}, 0, 0)
		}
	}

	for _, v := range inserted {
		v.Data.Hook.Insert(v)
	}
	for _, fn := range p.cbs.post {
		fn()
	}
	return vnode
}

// emptyNodeAt builds a placeholder VNode for an element that was not
// produced by a previous pass, reading its selector off the element.
func (p *Patcher) emptyNodeAt(elm dom.Handle) *VNode {
	sel := strings.ToLower(p.api.TagName(elm))
	if id, ok := p.api.GetAttribute(elm, "id"); ok && id != "" {
		sel += "#" + id
	}
	if classes, ok := p.api.GetAttribute(elm, "class"); ok && classes != "" {
		sel += "." + strings.Join(strings.Fields(classes), ".")
	}
	return NewNode(sel, &Data{}, nil, "", elm)
}

// patchVNode updates the native node of old in place so that it matches
// vnode. The caller guarantees SameVNode(old, vnode).
func (p *Patcher) patchVNode(old, vnode *VNode, inserted *[]*VNode) {
	hook := vnode.hooks()
	if hook != nil && hook.Prepatch != nil {
		hook.Prepatch(old, vnode)
	}

	elm := old.Elm
	vnode.Elm = elm
	if old == vnode {
		return
	}

	if vnode.Data != nil {
		for _, fn := range p.cbs.update {
			fn(old, vnode)
		}
		if h := vnode.Data.Hook; h != nil && h.Update != nil {
			h.Update(old, vnode)
		}
	}

	oldCh, ch := old.Children, vnode.Children
	switch {
	case !vnode.hasText():
		switch {
		case len(oldCh) > 0 && len(ch) > 0:
			if !sameChildren(oldCh, ch) {
				p.updateChildren(elm, oldCh, ch, inserted)
			}
		case len(ch) > 0:
			if old.hasText() {
				p.api.SetTextContent(elm, "")
			}
			p.addVNodes(elm, nil, ch, 0, len(ch)-1, inserted)
		case len(oldCh) > 0:
			p.removeVNodes(elm, oldCh, 0, len(oldCh)-1)
		case old.hasText():
			p.api.SetTextContent(elm, "")
		}
	case old.Text != vnode.Text:
		if len(oldCh) > 0 {
			p.removeVNodes(elm, oldCh, 0, len(oldCh)-1)
		}
		p.api.SetTextContent(elm, vnode.Text)
	}

	if hook != nil && hook.Postpatch != nil {
		hook.Postpatch(old, vnode)
	}
}
