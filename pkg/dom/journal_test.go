package dom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestJournalRecordsMutations(t *testing.T) {
	j := NewJournal(NewDocument())

	root := j.CreateElement("ul")
	item := j.CreateElement("li")
	text := j.CreateTextNode("one")
	j.AppendChild(item, text)
	j.InsertBefore(root, item, nil)
	j.SetAttribute(item, "class", "x")
	j.SetTextContent(text, "uno")
	j.RemoveChild(root, item)

	want := []Op{
		{Kind: OpCreateElement, Node: 1, Name: "ul"},
		{Kind: OpCreateElement, Node: 2, Name: "li"},
		{Kind: OpCreateText, Node: 3, Value: "one"},
		{Kind: OpAppendChild, Node: 3, Parent: 2},
		{Kind: OpInsertBefore, Node: 2, Parent: 1},
		{Kind: OpSetAttr, Node: 2, Name: "class", Value: "x"},
		{Kind: OpSetText, Node: 3, Value: "uno"},
		{Kind: OpRemoveChild, Node: 2, Parent: 1},
	}
	if diff := cmp.Diff(want, j.Ops()); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
	if got := j.Mutations(); got != 5 {
		t.Errorf("Mutations = %d, want 5", got)
	}
	if got := j.Count(OpCreateElement, OpCreateText); got != 3 {
		t.Errorf("Count(create) = %d, want 3", got)
	}
}

func TestJournalQueriesAreNotRecorded(t *testing.T) {
	j := NewJournal(NewDocument())
	el := j.CreateElement("div")
	j.Reset()

	_ = j.TagName(el)
	_ = j.ParentNode(el)
	_, _ = j.GetAttribute(el, "id")
	_ = j.TextContent(el)

	if j.Len() != 0 {
		t.Errorf("Len = %d, want 0", j.Len())
	}
}

func TestJournalDrain(t *testing.T) {
	j := NewJournal(NewDocument())
	el := j.CreateElement("div")
	j.SetStyle(el, "color", "red")

	ops := j.Drain()
	if len(ops) != 2 {
		t.Fatalf("Drain returned %d ops, want 2", len(ops))
	}
	if j.Len() != 0 {
		t.Errorf("Len after Drain = %d, want 0", j.Len())
	}

	// IDs survive a drain.
	j.RemoveStyle(el, "color")
	if got := j.Ops()[0].Node; got != 1 {
		t.Errorf("node id = %d, want 1", got)
	}
}
