package vdom

import (
	"cmp"
	"maps"
	"slices"
)

// If returns node when cond holds and nil otherwise. H drops nil children,
// so If can sit inline in a child list.
func If(cond bool, node *VNode) *VNode {
	if cond {
		return node
	}
	return nil
}

// When is If with a lazily built node.
func When(cond bool, build func() *VNode) *VNode {
	if !cond {
		return nil
	}
	return build()
}

// Switch returns cases[value], or fallback when value has no case.
func Switch[T comparable](value T, cases map[T]*VNode, fallback *VNode) *VNode {
	if n, ok := cases[value]; ok {
		return n
	}
	return fallback
}

// Range maps items to nodes, dropping nil results.
func Range[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	out := make([]*VNode, 0, len(items))
	for i, item := range items {
		if n := fn(item, i); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// RangeMap maps m to nodes in ascending key order so that repeated passes
// over the same map yield the same sibling order.
func RangeMap[K cmp.Ordered, V any](m map[K]V, fn func(key K, value V) *VNode) []*VNode {
	out := make([]*VNode, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		if n := fn(k, m[k]); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Keyed maps items to nodes and stamps each with key(item), so the child
// reconciler can follow items across reorders. A node built without data
// gets an empty Data to carry the key.
func Keyed[T any](items []T, key func(T) Key, fn func(T) *VNode) []*VNode {
	out := make([]*VNode, 0, len(items))
	for _, item := range items {
		n := fn(item)
		if n == nil {
			continue
		}
		k := key(item)
		n.Key = k
		if n.Data == nil {
			n.Data = &Data{}
		}
		n.Data.Key = k
		out = append(out, n)
	}
	return out
}
