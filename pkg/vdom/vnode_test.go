package vdom

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/vango-dev/vtree/pkg/dom"
)

func TestNewNode_MirrorsKey(t *testing.T) {
	v := NewNode("li", &Data{Key: 7}, nil, "x", nil)
	if v.Key != 7 {
		t.Errorf("Key = %v, want 7", v.Key)
	}
	if NewNode("li", nil, nil, "", nil).Key != nil {
		t.Error("Key should be nil without data")
	}
}

func TestSameVNode(t *testing.T) {
	tests := []struct {
		name string
		a, b *VNode
		want bool
	}{
		{"same selector", H("div"), H("div"), true},
		{"different selector", H("div"), H("span"), false},
		{"same key", H("li", &Data{Key: "a"}), H("li", &Data{Key: "a"}), true},
		{"different key", H("li", &Data{Key: "a"}), H("li", &Data{Key: "b"}), false},
		{"keyed and unkeyed", H("li", &Data{Key: "a"}), H("li"), false},
		{"string and int key", H("li", &Data{Key: "1"}), H("li", &Data{Key: 1}), false},
		{"same is", H("button", &Data{Is: "x"}), H("button", &Data{Is: "x"}), true},
		{"different is", H("button", &Data{Is: "x"}), H("button"), false},
		{"texts", Text("a"), Text("b"), true},
		{"text data ignored", Text("a"), H("", &Data{Attrs: map[string]any{"x": 1}}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameVNode(tt.a, tt.b); got != tt.want {
				t.Errorf("SameVNode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsVNode(t *testing.T) {
	doc := dom.NewDocument()
	var nilNode *VNode

	if !IsVNode(H("div")) {
		t.Error("IsVNode(*VNode) = false")
	}
	if !IsVNode(Text("x")) {
		t.Error("a text VNode is still a VNode")
	}
	if IsVNode(doc.CreateElement("div")) {
		t.Error("IsVNode(native handle) = true")
	}
	if IsVNode(nilNode) {
		t.Error("IsVNode(nil *VNode) = true")
	}
}

func TestSameVNodeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(2468)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	sels := gen.OneConstOf("div", "span", "li", "")
	keys := gen.OneConstOf("", "a", "b")
	iss := gen.OneConstOf("", "x")

	build := func(sel, key, is, text string) *VNode {
		d := &Data{Is: is}
		if key != "" {
			d.Key = key
		}
		return NewNode(sel, d, nil, text, nil)
	}

	properties.Property("sameness is symmetric", prop.ForAll(
		func(s1, k1, i1, s2, k2, i2 string) bool {
			a, b := build(s1, k1, i1, ""), build(s2, k2, i2, "")
			return SameVNode(a, b) == SameVNode(b, a)
		},
		sels, keys, iss, sels, keys, iss,
	))

	properties.Property("sameness ignores everything but selector, key and is", prop.ForAll(
		func(sel, key, is, t1, t2 string) bool {
			a := build(sel, key, is, t1)
			b := build(sel, key, is, t2)
			b.Data.Attrs = map[string]any{"title": t2}
			b.Children = []*VNode{Text(t1)}
			return SameVNode(a, b)
		},
		sels, keys, iss, gen.AlphaString(), gen.AlphaString(),
	))

	properties.TestingRun(t)
}
