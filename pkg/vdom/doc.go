// Package vdom reconciles virtual node trees against a native tree.
//
// A VNode describes one position of the desired tree for one render pass:
// a selector ("tag#id.class1.class2", "!" for a comment, empty for text),
// optional Data, and either Text or Children. A Patcher built from a
// dom.API and an ordered list of Modules turns the previous pass's tree
// into the next one with few native mutations.
//
// # Building trees
//
//	H("ul#list",
//	    H("li", &Data{Key: "a"}, "first"),
//	    H("li", &Data{Key: "b"}, "second"),
//	)
//
// Thunk defers and memoizes a subtree. DecodeJSON and EncodeJSON read and
// write the JSON tree document used by the CLI and the live server.
//
// # Reconciliation
//
// Two nodes are the same when selector, key and Data.Is match. Same nodes
// are patched in place and keep their native handle; otherwise the old
// node is destroyed and a new one is created. Children are matched with a
// four-pointer scan from both ends and, failing that, by key.
//
// # Hooks
//
// Modules subscribe to pre, create, update, destroy, remove and post.
// Per-node Hooks add init, create, insert, prepatch, update, postpatch,
// destroy and remove. A remove hook receives a *Removal and the node is
// detached when every party has called Done.
package vdom
