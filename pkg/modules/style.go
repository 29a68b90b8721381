package modules

import (
	"strings"

	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// Style syncs Data.Style onto the element's inline style. Data.DestroyStyle
// is applied when the node's subtree is destroyed, Data.RemoveStyle just
// before the node is detached.
func Style(api dom.StyleAPI) vdom.Module {
	update := func(old, v *vdom.VNode) {
		var oldStyle, style map[string]string
		if old.Data != nil {
			oldStyle = old.Data.Style
		}
		if v.Data != nil {
			style = v.Data.Style
		}
		if oldStyle == nil && style == nil {
			return
		}
		elm := v.Elm

		for name := range oldStyle {
			if _, ok := style[name]; !ok {
				api.RemoveStyle(elm, name)
			}
		}
		for name, cur := range style {
			if prev, ok := oldStyle[name]; ok && prev == cur {
				continue
			}
			if strings.HasPrefix(name, "--") || cur != "" {
				api.SetStyle(elm, name, cur)
			} else {
				api.RemoveStyle(elm, name)
			}
		}
	}

	applyAll := func(elm dom.Handle, style map[string]string) {
		for name, value := range style {
			api.SetStyle(elm, name, value)
		}
	}

	return vdom.Module{
		Name:   "style",
		Create: update,
		Update: update,
		Destroy: func(v *vdom.VNode) {
			if v.Data != nil && len(v.Data.DestroyStyle) > 0 {
				applyAll(v.Elm, v.Data.DestroyStyle)
			}
		},
		Remove: func(v *vdom.VNode, rm *vdom.Removal) {
			if v.Data != nil && len(v.Data.RemoveStyle) > 0 {
				applyAll(v.Elm, v.Data.RemoveStyle)
			}
			rm.Done()
		},
	}
}
