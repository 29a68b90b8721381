package modules

import (
	"strings"

	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// Dataset maps Data.Dataset entries to data-* attributes. Keys are
// camelCase and become kebab-case: "userId" sets data-user-id.
func Dataset(api dom.API) vdom.Module {
	update := func(old, v *vdom.VNode) {
		var oldSet, set map[string]string
		if old.Data != nil {
			oldSet = old.Data.Dataset
		}
		if v.Data != nil {
			set = v.Data.Dataset
		}
		if oldSet == nil && set == nil {
			return
		}
		elm := v.Elm

		for key := range oldSet {
			if _, ok := set[key]; !ok {
				api.RemoveAttribute(elm, datasetAttr(key))
			}
		}
		for key, cur := range set {
			if prev, ok := oldSet[key]; ok && prev == cur {
				continue
			}
			api.SetAttribute(elm, datasetAttr(key), cur)
		}
	}

	return vdom.Module{
		Name:   "dataset",
		Create: update,
		Update: update,
	}
}

func datasetAttr(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 8)
	b.WriteString("data-")
	for _, r := range key {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
