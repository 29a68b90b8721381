package modules

import (
	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// listener is the single native listener registered per element. It
// forwards events to the handler table of the VNode currently rendered at
// the element, so changing handlers needs no native calls.
type listener struct {
	vnode *vdom.VNode
}

func (l *listener) HandleEvent(ev *dom.Event) {
	if l.vnode == nil || l.vnode.Data == nil {
		return
	}
	if h := l.vnode.Data.On[ev.Type]; h != nil {
		h(ev, l.vnode)
	}
}

// EventListeners binds Data.On handlers. Each element gets one listener
// for all of its event types; a patch only adds or removes event types.
func EventListeners(api dom.EventAPI) vdom.Module {
	listeners := make(map[dom.Handle]*listener)

	update := func(old, v *vdom.VNode) {
		var oldOn, on map[string]vdom.Handler
		if old.Data != nil {
			oldOn = old.Data.On
		}
		if v.Data != nil {
			on = v.Data.On
		}
		if oldOn == nil && on == nil {
			return
		}

		elm := v.Elm
		l := listeners[elm]

		if l != nil {
			for event := range oldOn {
				if _, ok := on[event]; !ok {
					api.RemoveEventListener(elm, event, l)
				}
			}
		}

		if len(on) == 0 {
			delete(listeners, elm)
			return
		}

		fresh := l == nil
		if fresh {
			l = &listener{}
			listeners[elm] = l
		}
		l.vnode = v

		for event := range on {
			if _, ok := oldOn[event]; !ok || fresh {
				api.AddEventListener(elm, event, l)
			}
		}
	}

	return vdom.Module{
		Name:   "eventlisteners",
		Create: update,
		Update: update,
		Destroy: func(v *vdom.VNode) {
			l := listeners[v.Elm]
			if l == nil {
				return
			}
			if v.Data != nil {
				for event := range v.Data.On {
					api.RemoveEventListener(v.Elm, event, l)
				}
			}
			l.vnode = nil
			delete(listeners, v.Elm)
		},
	}
}
