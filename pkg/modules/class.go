package modules

import (
	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// Class toggles class tokens from Data.Class. Tokens coming from the
// selector are left alone unless Data.Class names them.
func Class(api dom.API) vdom.Module {
	update := func(old, v *vdom.VNode) {
		var oldClass, class map[string]bool
		if old.Data != nil {
			oldClass = old.Data.Class
		}
		if v.Data != nil {
			class = v.Data.Class
		}
		if oldClass == nil && class == nil {
			return
		}
		elm := v.Elm

		for name, on := range oldClass {
			if _, kept := class[name]; on && !kept {
				dom.RemoveClass(api, elm, name)
			}
		}
		for name, cur := range class {
			if prev, ok := oldClass[name]; ok && prev == cur {
				continue
			}
			if cur {
				dom.AddClass(api, elm, name)
			} else {
				dom.RemoveClass(api, elm, name)
			}
		}
	}

	return vdom.Module{
		Name:   "class",
		Create: update,
		Update: update,
	}
}
