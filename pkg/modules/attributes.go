package modules

import (
	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/vdom"
)

const (
	xlinkNS = "http://www.w3.org/1999/xlink"
	xmlNS   = "http://www.w3.org/XML/1998/namespace"
)

// Attributes syncs Data.Attrs onto elements. A true value sets an empty
// attribute, false removes it. Names starting with "xml:" or "xlink:" are
// set in their namespace.
func Attributes(api dom.API) vdom.Module {
	update := func(old, v *vdom.VNode) {
		var oldAttrs, attrs map[string]any
		if old.Data != nil {
			oldAttrs = old.Data.Attrs
		}
		if v.Data != nil {
			attrs = v.Data.Attrs
		}
		if oldAttrs == nil && attrs == nil {
			return
		}
		elm := v.Elm

		for name, cur := range attrs {
			if prev, ok := oldAttrs[name]; ok && valuesEqual(prev, cur) {
				continue
			}
			switch cur {
			case true:
				api.SetAttribute(elm, name, "")
			case false:
				api.RemoveAttribute(elm, name)
			default:
				setAttribute(api, elm, name, valueToString(cur))
			}
		}
		for name := range oldAttrs {
			if _, ok := attrs[name]; !ok {
				api.RemoveAttribute(elm, name)
			}
		}
	}

	return vdom.Module{
		Name:   "attributes",
		Create: update,
		Update: update,
	}
}

func setAttribute(api dom.API, elm dom.Handle, name, value string) {
	switch {
	case len(name) > 4 && name[:4] == "xml:":
		api.SetAttributeNS(elm, xmlNS, name, value)
	case len(name) > 6 && name[:6] == "xlink:":
		api.SetAttributeNS(elm, xlinkNS, name, value)
	default:
		api.SetAttribute(elm, name, value)
	}
}
