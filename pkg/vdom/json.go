package vdom

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"math"

	"github.com/vango-dev/vtree/internal/errors"
)

// wireNode is the JSON shape of a VNode. A child may also be a bare JSON
// string, which stands for a text node.
type wireNode struct {
	Sel      string            `json:"sel,omitempty"`
	Key      any               `json:"key,omitempty"`
	Text     string            `json:"text,omitempty"`
	Children []json.RawMessage `json:"children,omitempty"`
	Data     *wireData         `json:"data,omitempty"`
}

type wireData struct {
	NS      string            `json:"ns,omitempty"`
	Is      string            `json:"is,omitempty"`
	Attrs   map[string]any    `json:"attrs,omitempty"`
	Class   map[string]bool   `json:"class,omitempty"`
	Props   map[string]any    `json:"props,omitempty"`
	Style   map[string]string `json:"style,omitempty"`
	Dataset map[string]string `json:"dataset,omitempty"`
}

// DecodeJSON parses a tree document. The returned tree carries no native
// handles. Whole-number keys decode as int, other numbers as float64.
//
// Errors are *errors.Error with code E100 for malformed documents and
// E101 for a node carrying both text and children.
func DecodeJSON(data []byte) (*VNode, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, decodeError(data, err)
	}
	v, err := decodeNode(raw, "$")
	if err == nil && v == nil {
		err = errors.New("E100").WithDetail("the document is null")
	}
	return v, err
}

// decodeNode returns nil for a JSON null.
func decodeNode(raw json.RawMessage, path string) (*VNode, error) {
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, errors.New("E100").WithDetailf("%s: %v", path, err)
		}
		return Text(s), nil
	}

	var w wireNode
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, errors.New("E100").WithDetailf("%s: %v", path, err).Wrap(err)
	}
	if w.Text != "" && len(w.Children) > 0 {
		return nil, errors.New("E101").
			WithDetailf("%s: node %q has both text and children", path, w.Sel).
			WithSuggestion(`Move the text into a child string, e.g. "children": ["text"]`)
	}

	key, err := decodeKey(w.Key)
	if err != nil {
		return nil, errors.New("E100").WithDetailf("%s.key: %v", path, err)
	}

	if w.Sel == "" {
		if len(w.Children) > 0 || w.Data != nil {
			return nil, errors.New("E101").
				WithDetailf("%s: a text node has no selector, data or children", path)
		}
		v := Text(w.Text)
		v.Key = key
		return v, nil
	}

	d := &Data{Key: key}
	if w.Data != nil {
		d.NS = w.Data.NS
		d.Is = w.Data.Is
		d.Attrs = w.Data.Attrs
		d.Class = w.Data.Class
		d.Props = w.Data.Props
		d.Style = w.Data.Style
		d.Dataset = w.Data.Dataset
	}

	var children []*VNode
	for i, rc := range w.Children {
		ch, err := decodeNode(rc, fmt.Sprintf("%s.children[%d]", path, i))
		if err != nil {
			return nil, err
		}
		if ch != nil {
			children = append(children, ch)
		}
	}

	return NewNode(w.Sel, d, children, w.Text, nil), nil
}

func decodeKey(k any) (Key, error) {
	switch v := k.(type) {
	case nil:
		return nil, nil
	case string:
		return v, nil
	case float64:
		if v == math.Trunc(v) && math.Abs(v) <= math.MaxInt32 {
			return int(v), nil
		}
		return v, nil
	}
	return nil, fmt.Errorf("key must be a string or a number, got %T", k)
}

// decodeError turns a JSON syntax or type error into an E100 error with a
// line and column when the decoder reports an offset.
func decodeError(data []byte, err error) error {
	e := errors.New("E100").Wrap(err)

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case stderrors.As(err, &syntaxErr):
		e.At("<input>", data, syntaxErr.Offset)
	case stderrors.As(err, &typeErr):
		e.At("<input>", data, typeErr.Offset)
	}
	return e
}

// EncodeJSON serializes v into the document shape read by DecodeJSON.
// Hooks, listeners, thunk functions and native handles are not encoded.
func EncodeJSON(v *VNode) ([]byte, error) {
	if v == nil {
		return nil, errors.New("E100").WithDetail("cannot encode a nil tree")
	}
	w, err := encodeNode(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

func encodeNode(v *VNode) (*wireNode, error) {
	if v.hasText() && v.hasChildren() {
		return nil, errors.New("E101").WithDetailf("node %q has both text and children", v.Sel)
	}
	w := &wireNode{Sel: v.Sel, Key: v.Key, Text: v.Text}

	if d := v.Data; d != nil {
		wd := &wireData{
			NS:      d.NS,
			Is:      d.Is,
			Attrs:   d.Attrs,
			Class:   d.Class,
			Props:   d.Props,
			Style:   d.Style,
			Dataset: d.Dataset,
		}
		if !wd.empty() {
			w.Data = wd
		}
	}

	for _, ch := range v.Children {
		if ch == nil {
			continue
		}
		var (
			b   []byte
			err error
		)
		if ch.IsText() && ch.Key == nil {
			b, err = json.Marshal(ch.Text)
		} else {
			var cw *wireNode
			if cw, err = encodeNode(ch); err == nil {
				b, err = json.Marshal(cw)
			}
		}
		if err != nil {
			return nil, err
		}
		w.Children = append(w.Children, b)
	}
	return w, nil
}

func (d *wireData) empty() bool {
	return d.NS == "" && d.Is == "" && len(d.Attrs) == 0 && len(d.Class) == 0 &&
		len(d.Props) == 0 && len(d.Style) == 0 && len(d.Dataset) == 0
}
