package vdom

import (
	"testing"

	"github.com/vango-dev/vtree/pkg/dom"
)

// fixture is a mounted tree: container > root, patched through a journal.
type fixture struct {
	doc       *dom.Document
	journal   *dom.Journal
	patcher   *Patcher
	container dom.Handle
	root      dom.Handle
}

func newFixture(t testing.TB, modules ...Module) *fixture {
	t.Helper()
	doc := dom.NewDocument()
	f := &fixture{
		doc:       doc,
		journal:   dom.NewJournal(doc),
		container: doc.CreateElement("div"),
		root:      doc.CreateElement("div"),
	}
	doc.AppendChild(f.container, f.root)
	f.patcher = NewPatcher(f.journal, modules)
	return f
}

// mount patches the bare root into v and clears the journal.
func (f *fixture) mount(v *VNode) *VNode {
	v = f.patcher.Patch(f.root, v)
	f.journal.Reset()
	return v
}

func (f *fixture) html() string {
	return dom.Render(f.container)
}

// childHandles returns the native children of h.
func childHandles(h dom.Handle) []dom.Handle {
	n := h.(*dom.Node)
	out := make([]dom.Handle, 0, n.ChildCount())
	for _, c := range n.Children() {
		out = append(out, c)
	}
	return out
}

func keyed(sel string, keys ...string) []*VNode {
	out := make([]*VNode, len(keys))
	for i, k := range keys {
		out[i] = H(sel, &Data{Key: k}, k)
	}
	return out
}

func sameHandle(a, b dom.Handle) bool {
	return a != nil && a == b
}
