// Package dom defines the native-tree capability the reconciliation engine
// mutates, together with an in-memory implementation of it.
//
// The engine in package vdom never touches a concrete tree. It is handed an
// API value and works exclusively through opaque Handle values returned by
// it. Any backend (a browser bridge, a terminal renderer, a remote patch
// stream) can be plugged in by implementing API.
//
// # In-memory document
//
// Document is a small DOM: elements with attributes, properties, inline
// styles and event listeners, plus text and comment nodes. It is used by
// tests, by the CLI and by the live server.
//
//	doc := dom.NewDocument()
//	root := doc.CreateElement("div")
//	doc.AppendChild(root, doc.CreateTextNode("hello"))
//	fmt.Println(dom.Render(root)) // <div>hello</div>
//
// # Journal
//
// Journal wraps a DocumentAPI and records every mutating call as an Op with
// stable numeric node IDs, so a sequence of mutations can be counted,
// asserted on, or shipped to a remote client.
package dom
