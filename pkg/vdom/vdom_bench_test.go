package vdom

import (
	"fmt"
	"testing"

	"github.com/vango-dev/vtree/pkg/dom"
)

func BenchmarkH(b *testing.B) {
	b.Run("simple div", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = H("div.card")
		}
	})

	b.Run("with children", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = H("div.card",
				H("h1", "Title"),
				H("p", "Content"),
			)
		}
	})

	b.Run("svg subtree", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = H("svg", H("g", H("circle"), H("rect")))
		}
	})
}

func createDeepTree(depth int) *VNode {
	if depth == 0 {
		return Text("Leaf")
	}
	return H("div.level", createDeepTree(depth-1))
}

func createWideTree(n int, keyed bool) *VNode {
	children := make([]*VNode, n)
	for i := 0; i < n; i++ {
		d := &Data{}
		if keyed {
			d.Key = i
		}
		children[i] = H("li", d, fmt.Sprintf("Item %d", i))
	}
	return H("ul", children)
}

func reversedWideTree(n int) *VNode {
	children := make([]*VNode, n)
	for i := 0; i < n; i++ {
		k := n - 1 - i
		children[i] = H("li", &Data{Key: k}, fmt.Sprintf("Item %d", k))
	}
	return H("ul", children)
}

// benchPatch mounts prev and then alternates between next and prev.
func benchPatch(b *testing.B, prev, next *VNode) {
	b.Helper()
	doc := dom.NewDocument()
	root := doc.CreateElement("div")
	container := doc.CreateElement("div")
	doc.AppendChild(container, root)

	p := NewPatcher(doc, nil)
	cur := p.Patch(root, prev)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if i%2 == 0 {
			cur = p.Patch(cur, next)
		} else {
			cur = p.Patch(cur, prev)
		}
	}
}

func BenchmarkCreateDeepTree(b *testing.B) {
	for _, depth := range []int{5, 10} {
		b.Run(fmt.Sprintf("depth %d", depth), func(b *testing.B) {
			doc := dom.NewDocument()
			p := NewPatcher(doc, nil)
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				root := doc.CreateElement("div")
				container := doc.CreateElement("div")
				doc.AppendChild(container, root)
				p.Patch(root, H("section", createDeepTree(depth)))
			}
		})
	}
}

func BenchmarkPatchSameTree(b *testing.B) {
	tree := createWideTree(100, true)
	doc := dom.NewDocument()
	root := doc.CreateElement("div")
	doc.AppendChild(doc.CreateElement("div"), root)
	p := NewPatcher(doc, nil)
	tree = p.Patch(root, tree)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree = p.Patch(tree, tree)
	}
}

func BenchmarkPatchTextChange(b *testing.B) {
	benchPatch(b,
		H("div", H("h1", "Hello"), H("p", "Count: 0")),
		H("div", H("h1", "Hello"), H("p", "Count: 1")),
	)
}

func BenchmarkPatchUnkeyedChildren(b *testing.B) {
	for _, n := range []int{10, 100} {
		b.Run(fmt.Sprintf("%d children", n), func(b *testing.B) {
			benchPatch(b, createWideTree(n, false), createWideTree(n+1, false))
		})
	}
}

func BenchmarkPatchKeyedReverse(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("%d children", n), func(b *testing.B) {
			benchPatch(b, createWideTree(n, true), reversedWideTree(n))
		})
	}
}

func BenchmarkPatchKeyedShuffle(b *testing.B) {
	n := 100
	prev := createWideTree(n, true)
	children := make([]*VNode, n)
	for i := 0; i < n; i++ {
		k := (i * 37) % n
		children[i] = H("li", &Data{Key: k}, fmt.Sprintf("Item %d", k))
	}
	benchPatch(b, prev, H("ul", children))
}

func BenchmarkPatchKeyedAddRemove(b *testing.B) {
	benchPatch(b, createWideTree(100, true), createWideTree(50, true))
}
