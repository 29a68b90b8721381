package dom

import "strings"

// Handle is an opaque reference to a node in the native tree.
// Handles must be comparable; the engine compares them with ==.
type Handle any

// API is the tree-mutation capability consumed by the engine.
//
// Methods returning a Handle return a nil interface value (not a typed nil)
// when there is no such node.
type API interface {
	CreateElement(tag string) Handle
	CreateElementNS(ns, tag string) Handle
	CreateTextNode(text string) Handle
	CreateComment(text string) Handle

	// InsertBefore inserts node into parent before ref. A nil ref appends.
	// A node that is already attached elsewhere is moved.
	InsertBefore(parent, node, ref Handle)
	RemoveChild(parent, child Handle)
	AppendChild(parent, child Handle)

	ParentNode(node Handle) Handle
	NextSibling(node Handle) Handle
	TagName(elm Handle) string

	SetTextContent(node Handle, text string)
	TextContent(node Handle) string

	IsElement(node Handle) bool
	IsText(node Handle) bool
	IsComment(node Handle) bool

	GetAttribute(elm Handle, name string) (string, bool)
	SetAttribute(elm Handle, name, value string)
	SetAttributeNS(elm Handle, ns, name, value string)
	RemoveAttribute(elm Handle, name string)
}

// PropertyAPI exposes element properties (as opposed to attributes).
type PropertyAPI interface {
	Property(elm Handle, name string) (any, bool)
	SetProperty(elm Handle, name string, value any)
}

// StyleAPI exposes inline style declarations.
type StyleAPI interface {
	Style(elm Handle, name string) string
	SetStyle(elm Handle, name, value string)
	RemoveStyle(elm Handle, name string)
}

// EventAPI exposes listener registration. Listeners are identified by
// interface equality, so implementations should be pointer types.
type EventAPI interface {
	AddEventListener(elm Handle, event string, l EventListener)
	RemoveEventListener(elm Handle, event string, l EventListener)
}

// DocumentAPI is the full capability set implemented by Document and
// Journal.
type DocumentAPI interface {
	API
	PropertyAPI
	StyleAPI
	EventAPI
}

// Event is a dispatched event.
type Event struct {
	Type          string
	Target        Handle
	CurrentTarget Handle
	Detail        any

	stopped bool
}

// StopPropagation prevents the event from reaching further ancestors.
func (e *Event) StopPropagation() { e.stopped = true }

// EventListener receives dispatched events.
type EventListener interface {
	HandleEvent(ev *Event)
}

// ListenerFunc adapts a function to EventListener. Because functions are
// not comparable, register a *ListenerFunc when it must be removed later.
type ListenerFunc func(ev *Event)

// HandleEvent implements EventListener.
func (f *ListenerFunc) HandleEvent(ev *Event) { (*f)(ev) }

// AddClass adds a class token to the element's class attribute.
func AddClass(api API, elm Handle, name string) {
	current, _ := api.GetAttribute(elm, "class")
	tokens := strings.Fields(current)
	for _, t := range tokens {
		if t == name {
			return
		}
	}
	api.SetAttribute(elm, "class", strings.Join(append(tokens, name), " "))
}

// RemoveClass removes a class token from the element's class attribute.
func RemoveClass(api API, elm Handle, name string) {
	current, ok := api.GetAttribute(elm, "class")
	if !ok {
		return
	}
	tokens := strings.Fields(current)
	kept := tokens[:0]
	found := false
	for _, t := range tokens {
		if t == name {
			found = true
			continue
		}
		kept = append(kept, t)
	}
	if found {
		api.SetAttribute(elm, "class", strings.Join(kept, " "))
	}
}

// HasClass reports whether the element's class attribute contains name.
func HasClass(api API, elm Handle, name string) bool {
	current, _ := api.GetAttribute(elm, "class")
	for _, t := range strings.Fields(current) {
		if t == name {
			return true
		}
	}
	return false
}
