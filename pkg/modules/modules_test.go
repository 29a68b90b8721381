package modules

import (
	stderrors "errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/vdom"
)

type harness struct {
	doc     *dom.Document
	journal *dom.Journal
	patcher *vdom.Patcher
	root    dom.Handle
}

func newHarness(t *testing.T, names ...string) *harness {
	t.Helper()
	doc := dom.NewDocument()
	j := dom.NewJournal(doc)
	mods, err := New(names, j)
	if err != nil {
		t.Fatalf("New(%v) error = %v", names, err)
	}
	container := doc.CreateElement("div")
	root := doc.CreateElement("div")
	doc.AppendChild(container, root)
	return &harness{doc: doc, journal: j, patcher: vdom.NewPatcher(j, mods), root: root}
}

func elm(v *vdom.VNode) *dom.Node { return v.Elm.(*dom.Node) }

func TestAttributes(t *testing.T) {
	h := newHarness(t, "attributes")

	v := h.patcher.Patch(h.root, vdom.H("input", &vdom.Data{Attrs: map[string]any{
		"type":     "text",
		"disabled": true,
		"hidden":   false,
		"size":     10,
	}}))

	n := elm(v)
	if got, _ := n.Attribute("type"); got != "text" {
		t.Errorf("type = %q", got)
	}
	if got, ok := n.Attribute("disabled"); !ok || got != "" {
		t.Errorf("disabled = %q, %v; want empty, true", got, ok)
	}
	if _, ok := n.Attribute("hidden"); ok {
		t.Error("false attribute should not be set")
	}
	if got, _ := n.Attribute("size"); got != "10" {
		t.Errorf("size = %q, want 10", got)
	}

	h.journal.Reset()
	v = h.patcher.Patch(v, vdom.H("input", &vdom.Data{Attrs: map[string]any{
		"type":     "text",
		"disabled": false,
		"size":     10,
	}}))

	if _, ok := n.Attribute("disabled"); ok {
		t.Error("disabled should be removed")
	}
	id := h.journal.ID(v.Elm)
	want := []dom.Op{
		{Kind: dom.OpRemoveAttr, Node: id, Name: "disabled"},
		{Kind: dom.OpRemoveAttr, Node: id, Name: "hidden"},
	}
	if diff := cmp.Diff(want, h.journal.Ops()); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}

	h.patcher.Patch(v, vdom.H("input"))
	if attrs := n.Attributes(); len(attrs) != 0 {
		t.Errorf("attributes left: %v", attrs)
	}
}

func TestAttributes_Namespaced(t *testing.T) {
	h := newHarness(t, "attributes")

	v := h.patcher.Patch(h.root, vdom.H("svg", vdom.H("use", &vdom.Data{Attrs: map[string]any{
		"xlink:href": "#icon",
		"xml:lang":   "en",
	}})))

	got := map[string]string{}
	for _, a := range elm(v.Children[0]).Attributes() {
		got[a.Name] = a.NS
	}
	want := map[string]string{"xlink:href": xlinkNS, "xml:lang": xmlNS}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("namespaces mismatch (-want +got):\n%s", diff)
	}
}

func TestClass(t *testing.T) {
	h := newHarness(t, "class")

	v := h.patcher.Patch(h.root, vdom.H("div.base", &vdom.Data{Class: map[string]bool{"a": true, "b": false}}))
	n := elm(v)
	if got, _ := n.Attribute("class"); got != "base a" {
		t.Errorf("class = %q, want %q", got, "base a")
	}

	v = h.patcher.Patch(v, vdom.H("div.base", &vdom.Data{Class: map[string]bool{"a": false, "b": true}}))
	if got, _ := n.Attribute("class"); got != "base b" {
		t.Errorf("class = %q, want %q", got, "base b")
	}

	h.patcher.Patch(v, vdom.H("div.base"))
	if got, _ := n.Attribute("class"); got != "base" {
		t.Errorf("class = %q, want %q", got, "base")
	}
}

func TestProps(t *testing.T) {
	h := newHarness(t, "props")

	v := h.patcher.Patch(h.root, vdom.H("input", &vdom.Data{Props: map[string]any{"value": "a", "checked": true}}))
	n := elm(v)
	if got, _ := n.Property("value"); got != "a" {
		t.Errorf("value = %v", got)
	}

	// A user edit is overwritten even though the data did not change.
	h.doc.SetProperty(v.Elm, "value", "edited")
	h.journal.Reset()
	v = h.patcher.Patch(v, vdom.H("input", &vdom.Data{Props: map[string]any{"value": "a", "checked": true}}))
	if got, _ := n.Property("value"); got != "a" {
		t.Errorf("value = %v, want a", got)
	}
	if got := h.journal.Count(dom.OpSetProp); got != 1 {
		t.Errorf("setProp = %d, want 1", got)
	}

	h.journal.Reset()
	h.patcher.Patch(v, vdom.H("input", &vdom.Data{Props: map[string]any{"value": "a"}}))
	if got := h.journal.Count(dom.OpSetProp); got != 0 {
		t.Errorf("setProp = %d, want 0", got)
	}
	if got, ok := n.Property("checked"); !ok || got != true {
		t.Error("removed props are kept")
	}
}

func TestStyle(t *testing.T) {
	h := newHarness(t, "style")

	v := h.patcher.Patch(h.root, vdom.H("div", &vdom.Data{Style: map[string]string{
		"color":    "red",
		"--accent": "blue",
	}}))
	n := elm(v)
	if diff := cmp.Diff([]string{"--accent", "color"}, n.StyleNames()); diff != "" {
		t.Errorf("styles mismatch (-want +got):\n%s", diff)
	}

	h.patcher.Patch(v, vdom.H("div", &vdom.Data{Style: map[string]string{"color": "green", "margin": ""}}))
	if got := n.Style("color"); got != "green" {
		t.Errorf("color = %q", got)
	}
	if diff := cmp.Diff([]string{"color"}, n.StyleNames()); diff != "" {
		t.Errorf("styles mismatch (-want +got):\n%s", diff)
	}
}

func TestStyle_RemoveAndDestroy(t *testing.T) {
	h := newHarness(t, "style")

	var atDetach, atDestroy string
	old := h.patcher.Patch(h.root, vdom.H("ul", vdom.H("li", &vdom.Data{
		Style:        map[string]string{"opacity": "1"},
		RemoveStyle:  map[string]string{"opacity": "0"},
		DestroyStyle: map[string]string{"color": "gray"},
		Hook: &vdom.Hooks{
			Destroy: func(v *vdom.VNode) { atDestroy = h.doc.Style(v.Elm, "color") },
			Remove: func(v *vdom.VNode, rm *vdom.Removal) {
				atDetach = h.doc.Style(v.Elm, "opacity")
				rm.Done()
			},
		},
	})))
	li := old.Children[0].Elm

	h.patcher.Patch(old, vdom.H("ul"))

	if atDestroy != "" {
		t.Errorf("node hook ran after module destroy: color = %q", atDestroy)
	}
	if got := h.doc.Style(li, "color"); got != "gray" {
		t.Errorf("destroy style color = %q, want gray", got)
	}
	if atDetach != "0" {
		t.Errorf("remove style opacity = %q, want 0", atDetach)
	}
	if h.doc.ParentNode(li) != nil {
		t.Error("li still attached")
	}
}

func TestDataset(t *testing.T) {
	h := newHarness(t, "dataset")

	v := h.patcher.Patch(h.root, vdom.H("div", &vdom.Data{Dataset: map[string]string{"userId": "7", "x": "1"}}))
	n := elm(v)
	if got, _ := n.Attribute("data-user-id"); got != "7" {
		t.Errorf("data-user-id = %q", got)
	}

	h.patcher.Patch(v, vdom.H("div", &vdom.Data{Dataset: map[string]string{"userId": "8"}}))
	if got, _ := n.Attribute("data-user-id"); got != "8" {
		t.Errorf("data-user-id = %q", got)
	}
	if _, ok := n.Attribute("data-x"); ok {
		t.Error("data-x should be removed")
	}
}

func TestDatasetAttr(t *testing.T) {
	tests := map[string]string{
		"id":        "data-id",
		"userId":    "data-user-id",
		"someLongX": "data-some-long-x",
	}
	for in, want := range tests {
		if got := datasetAttr(in); got != want {
			t.Errorf("datasetAttr(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEventListeners(t *testing.T) {
	h := newHarness(t, "eventlisteners")

	var got []string
	handler := func(tag string) vdom.Handler {
		return func(ev *dom.Event, v *vdom.VNode) {
			got = append(got, tag+":"+ev.Type+":"+v.Text)
		}
	}

	v := h.patcher.Patch(h.root, vdom.H("button", &vdom.Data{On: map[string]vdom.Handler{
		"click": handler("first"),
	}}, "one"))
	n := elm(v)

	dom.Dispatch(v.Elm, &dom.Event{Type: "click"})

	h.journal.Reset()
	v = h.patcher.Patch(v, vdom.H("button", &vdom.Data{On: map[string]vdom.Handler{
		"click": handler("second"),
		"focus": handler("second"),
	}}, "two"))
	if got := h.journal.Count(dom.OpAddListener, dom.OpRemoveListener); got != 1 {
		t.Errorf("listener ops = %d, want 1 (only focus added)", got)
	}

	dom.Dispatch(v.Elm, &dom.Event{Type: "click"})
	dom.Dispatch(v.Elm, &dom.Event{Type: "focus"})

	want := []string{"first:click:one", "second:click:two", "second:focus:two"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if n.ListenerCount("click") != 1 || n.ListenerCount("focus") != 1 {
		t.Error("expected one listener per event type")
	}

	v = h.patcher.Patch(v, vdom.H("button", &vdom.Data{On: map[string]vdom.Handler{
		"focus": handler("third"),
	}}, "three"))
	if n.ListenerCount("click") != 0 {
		t.Error("click listener should be removed")
	}

	h.patcher.Patch(v, vdom.H("div"))
	if n.ListenerCount("focus") != 0 {
		t.Error("listeners should be removed on destroy")
	}
}

func TestEventListeners_Bubbling(t *testing.T) {
	h := newHarness(t, "eventlisteners")
	var got []string

	v := h.patcher.Patch(h.root, vdom.H("ul", &vdom.Data{On: map[string]vdom.Handler{
		"click": func(ev *dom.Event, v *vdom.VNode) { got = append(got, "ul") },
	}}, vdom.H("li", &vdom.Data{On: map[string]vdom.Handler{
		"click": func(ev *dom.Event, v *vdom.VNode) { got = append(got, "li") },
	}})))

	dom.Dispatch(v.Children[0].Elm, &dom.Event{Type: "click"})

	if diff := cmp.Diff([]string{"li", "ul"}, got); diff != "" {
		t.Errorf("bubbling mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_UnknownModule(t *testing.T) {
	_, err := New([]string{"attributes", "bogus"}, dom.NewDocument())

	var e *errors.Error
	if !stderrors.As(err, &e) || e.Code != "E102" {
		t.Fatalf("error = %v, want E102", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	mods, err := New(DefaultNames, dom.NewDocument())
	if err != nil {
		t.Fatal(err)
	}
	for i, m := range mods {
		if m.Name != DefaultNames[i] {
			t.Errorf("module %d = %q, want %q", i, m.Name, DefaultNames[i])
		}
	}
}

func TestValuesEqual(t *testing.T) {
	tests := []struct {
		a, b any
		want bool
	}{
		{"a", "a", true},
		{"1", 1, false},
		{1, 1, true},
		{1.5, 1.5, true},
		{true, false, false},
		{nil, nil, true},
		{[]int{1}, []int{1}, true},
		{int64(1), 1, false},
		{nil, "", false},
	}
	for _, tt := range tests {
		if got := valuesEqual(tt.a, tt.b); got != tt.want {
			t.Errorf("valuesEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestValueToString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"x", "x"},
		{true, "true"},
		{42, "42"},
		{int8(-3), "-3"},
		{uint16(7), "7"},
		{float32(0.5), "0.5"},
		{2.25, "2.25"},
		{nil, ""},
		{[]int{1, 2}, "[1 2]"},
	}
	for _, tt := range tests {
		if got := valueToString(tt.in); got != tt.want {
			t.Errorf("valueToString(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
