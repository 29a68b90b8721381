package vdom

import "reflect"

// Thunk defers building a subtree until it is needed and skips rebuilding
// and re-patching it while fn and args are unchanged.
//
// The subtree returned by fn must have selector sel.
//
//	Thunk("div", "chart", renderChart, series, width)
func Thunk(sel string, key Key, fn func(args ...any) *VNode, args ...any) *VNode {
	return H(sel, &Data{
		Key:  key,
		Hook: &Hooks{Init: thunkInit, Prepatch: thunkPrepatch},
		Fn:   fn,
		Args: args,
	})
}

// copyToThunk makes thunk carry the rendered content of v.
func copyToThunk(v, thunk *VNode) {
	if v.Data == nil {
		v.Data = &Data{}
	}
	v.Data.Fn = thunk.Data.Fn
	v.Data.Args = thunk.Data.Args
	thunk.Data = v.Data
	thunk.Children = v.Children
	thunk.Text = v.Text
	thunk.Elm = v.Elm
}

func thunkInit(thunk *VNode) {
	cur := thunk.Data
	copyToThunk(cur.Fn(cur.Args...), thunk)
}

func thunkPrepatch(old, thunk *VNode) {
	prev, cur := old.Data, thunk.Data
	if prev == nil || !sameFunc(prev.Fn, cur.Fn) || !sameArgs(prev.Args, cur.Args) {
		copyToThunk(cur.Fn(cur.Args...), thunk)
		return
	}
	copyToThunk(old, thunk)
}

// sameFunc compares function code pointers. Closures created by the same
// literal compare equal.
func sameFunc(a, b func(args ...any) *VNode) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

// sameArgs compares argument lists element by element with ==. Values of
// non-comparable types never compare equal.
func sameArgs(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !comparableEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func comparableEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
