package modules

import (
	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// Props sets element properties from Data.Props when they change. Removed
// props are not reset. "value" is compared against the live property so
// that user edits are overwritten.
func Props(api dom.PropertyAPI) vdom.Module {
	update := func(old, v *vdom.VNode) {
		var oldProps, props map[string]any
		if old.Data != nil {
			oldProps = old.Data.Props
		}
		if v.Data != nil {
			props = v.Data.Props
		}
		if oldProps == nil && props == nil {
			return
		}
		elm := v.Elm

		for name, cur := range props {
			prev, had := oldProps[name]
			if had && valuesEqual(prev, cur) {
				if name != "value" {
					continue
				}
				if live, ok := api.Property(elm, name); ok && valuesEqual(live, cur) {
					continue
				}
			}
			api.SetProperty(elm, name, cur)
		}
	}

	return vdom.Module{
		Name:   "props",
		Create: update,
		Update: update,
	}
}
