package dom

import "fmt"

// OpKind names a recorded mutation.
type OpKind string

const (
	OpCreateElement  OpKind = "createElement"
	OpCreateText     OpKind = "createText"
	OpCreateComment  OpKind = "createComment"
	OpInsertBefore   OpKind = "insertBefore"
	OpAppendChild    OpKind = "appendChild"
	OpRemoveChild    OpKind = "removeChild"
	OpSetText        OpKind = "setText"
	OpSetAttr        OpKind = "setAttr"
	OpRemoveAttr     OpKind = "removeAttr"
	OpSetProp        OpKind = "setProp"
	OpSetStyle       OpKind = "setStyle"
	OpRemoveStyle    OpKind = "removeStyle"
	OpAddListener    OpKind = "addListener"
	OpRemoveListener OpKind = "removeListener"
)

// IsCreate reports whether the op only allocates a detached node.
func (k OpKind) IsCreate() bool {
	return k == OpCreateElement || k == OpCreateText || k == OpCreateComment
}

// Op is one recorded call. Node, Parent and Ref are journal node IDs; zero
// means "none" (for Ref: append at end).
type Op struct {
	Kind   OpKind `json:"op"`
	Node   int    `json:"node"`
	Parent int    `json:"parent,omitempty"`
	Ref    int    `json:"ref,omitempty"`
	NS     string `json:"ns,omitempty"`
	Name   string `json:"name,omitempty"`
	Value  string `json:"value,omitempty"`
}

// Journal is a DocumentAPI decorator that records every mutating call.
// Queries are forwarded without being recorded.
type Journal struct {
	DocumentAPI

	ids    map[Handle]int
	nextID int
	ops    []Op
}

var _ DocumentAPI = (*Journal)(nil)

// NewJournal wraps api.
func NewJournal(api DocumentAPI) *Journal {
	return &Journal{
		DocumentAPI: api,
		ids:         make(map[Handle]int),
	}
}

// ID returns the journal ID of h, assigning one on first sight.
func (j *Journal) ID(h Handle) int {
	if h == nil {
		return 0
	}
	if id, ok := j.ids[h]; ok {
		return id
	}
	j.nextID++
	j.ids[h] = j.nextID
	return j.nextID
}

// Ops returns a copy of the recorded ops.
func (j *Journal) Ops() []Op {
	out := make([]Op, len(j.ops))
	copy(out, j.ops)
	return out
}

// Len returns the number of recorded ops.
func (j *Journal) Len() int { return len(j.ops) }

// Count returns the number of recorded ops of the given kinds.
func (j *Journal) Count(kinds ...OpKind) int {
	n := 0
	for _, op := range j.ops {
		for _, k := range kinds {
			if op.Kind == k {
				n++
				break
			}
		}
	}
	return n
}

// Mutations returns the number of ops that touched an existing node,
// excluding plain node allocations.
func (j *Journal) Mutations() int {
	n := 0
	for _, op := range j.ops {
		if !op.Kind.IsCreate() {
			n++
		}
	}
	return n
}

// Reset discards the recorded ops. Node IDs are kept.
func (j *Journal) Reset() { j.ops = j.ops[:0] }

// Drain returns the recorded ops and resets the journal.
func (j *Journal) Drain() []Op {
	out := j.Ops()
	j.Reset()
	return out
}

// Forget drops the ID mapping for h so the handle can be collected.
func (j *Journal) Forget(h Handle) { delete(j.ids, h) }

func (j *Journal) record(op Op) { j.ops = append(j.ops, op) }

// CreateElement implements API.
func (j *Journal) CreateElement(tag string) Handle {
	h := j.DocumentAPI.CreateElement(tag)
	j.record(Op{Kind: OpCreateElement, Node: j.ID(h), Name: tag})
	return h
}

// CreateElementNS implements API.
func (j *Journal) CreateElementNS(ns, tag string) Handle {
	h := j.DocumentAPI.CreateElementNS(ns, tag)
	j.record(Op{Kind: OpCreateElement, Node: j.ID(h), NS: ns, Name: tag})
	return h
}

// CreateTextNode implements API.
func (j *Journal) CreateTextNode(text string) Handle {
	h := j.DocumentAPI.CreateTextNode(text)
	j.record(Op{Kind: OpCreateText, Node: j.ID(h), Value: text})
	return h
}

// CreateComment implements API.
func (j *Journal) CreateComment(text string) Handle {
	h := j.DocumentAPI.CreateComment(text)
	j.record(Op{Kind: OpCreateComment, Node: j.ID(h), Value: text})
	return h
}

// InsertBefore implements API.
func (j *Journal) InsertBefore(parent, child, ref Handle) {
	j.DocumentAPI.InsertBefore(parent, child, ref)
	j.record(Op{Kind: OpInsertBefore, Node: j.ID(child), Parent: j.ID(parent), Ref: j.ID(ref)})
}

// RemoveChild implements API.
func (j *Journal) RemoveChild(parent, child Handle) {
	j.DocumentAPI.RemoveChild(parent, child)
	j.record(Op{Kind: OpRemoveChild, Node: j.ID(child), Parent: j.ID(parent)})
}

// AppendChild implements API.
func (j *Journal) AppendChild(parent, child Handle) {
	j.DocumentAPI.AppendChild(parent, child)
	j.record(Op{Kind: OpAppendChild, Node: j.ID(child), Parent: j.ID(parent)})
}

// SetTextContent implements API.
func (j *Journal) SetTextContent(h Handle, text string) {
	j.DocumentAPI.SetTextContent(h, text)
	j.record(Op{Kind: OpSetText, Node: j.ID(h), Value: text})
}

// SetAttribute implements API.
func (j *Journal) SetAttribute(h Handle, name, value string) {
	j.DocumentAPI.SetAttribute(h, name, value)
	j.record(Op{Kind: OpSetAttr, Node: j.ID(h), Name: name, Value: value})
}

// SetAttributeNS implements API.
func (j *Journal) SetAttributeNS(h Handle, ns, name, value string) {
	j.DocumentAPI.SetAttributeNS(h, ns, name, value)
	j.record(Op{Kind: OpSetAttr, Node: j.ID(h), NS: ns, Name: name, Value: value})
}

// RemoveAttribute implements API.
func (j *Journal) RemoveAttribute(h Handle, name string) {
	j.DocumentAPI.RemoveAttribute(h, name)
	j.record(Op{Kind: OpRemoveAttr, Node: j.ID(h), Name: name})
}

// SetProperty implements PropertyAPI.
func (j *Journal) SetProperty(h Handle, name string, value any) {
	j.DocumentAPI.SetProperty(h, name, value)
	j.record(Op{Kind: OpSetProp, Node: j.ID(h), Name: name, Value: fmt.Sprint(value)})
}

// SetStyle implements StyleAPI.
func (j *Journal) SetStyle(h Handle, name, value string) {
	j.DocumentAPI.SetStyle(h, name, value)
	j.record(Op{Kind: OpSetStyle, Node: j.ID(h), Name: name, Value: value})
}

// RemoveStyle implements StyleAPI.
func (j *Journal) RemoveStyle(h Handle, name string) {
	j.DocumentAPI.RemoveStyle(h, name)
	j.record(Op{Kind: OpRemoveStyle, Node: j.ID(h), Name: name})
}

// AddEventListener implements EventAPI.
func (j *Journal) AddEventListener(h Handle, event string, l EventListener) {
	j.DocumentAPI.AddEventListener(h, event, l)
	j.record(Op{Kind: OpAddListener, Node: j.ID(h), Name: event})
}

// RemoveEventListener implements EventAPI.
func (j *Journal) RemoveEventListener(h Handle, event string, l EventListener) {
	j.DocumentAPI.RemoveEventListener(h, event, l)
	j.record(Op{Kind: OpRemoveListener, Node: j.ID(h), Name: event})
}
