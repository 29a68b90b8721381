// Package modules provides the built-in vdom modules that keep element
// state in sync with VNode data: attributes, class tokens, properties,
// inline styles, data-* attributes and event listeners.
//
// A module value holds per-document state and belongs to one Patcher.
//
//	doc := dom.NewDocument()
//	mods, err := modules.New(modules.DefaultNames, doc)
//	p := vdom.NewPatcher(doc, mods)
package modules
