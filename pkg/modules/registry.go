package modules

import (
	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// DefaultNames lists the built-in modules in their default order.
var DefaultNames = []string{"attributes", "class", "props", "style", "dataset", "eventlisteners"}

// New builds the named modules, in order, against api. An unknown name
// yields an E102 error.
func New(names []string, api dom.DocumentAPI) ([]vdom.Module, error) {
	mods := make([]vdom.Module, 0, len(names))
	for _, name := range names {
		m, err := ByName(name, api)
		if err != nil {
			return nil, err
		}
		mods = append(mods, m)
	}
	return mods, nil
}

// ByName builds a single built-in module.
func ByName(name string, api dom.DocumentAPI) (vdom.Module, error) {
	switch name {
	case "attributes":
		return Attributes(api), nil
	case "class":
		return Class(api), nil
	case "props":
		return Props(api), nil
	case "style":
		return Style(api), nil
	case "dataset":
		return Dataset(api), nil
	case "eventlisteners":
		return EventListeners(api), nil
	}
	return vdom.Module{}, errors.New("E102").
		WithDetailf("unknown module %q", name).
		WithSuggestion("Known modules: attributes, class, props, style, dataset, eventlisteners")
}
