package vdom

// Hooks are the per-node lifecycle callbacks carried in Data.Hook. They run
// in addition to the module hooks, after them for create, update, destroy
// and remove.
type Hooks struct {
	// Init runs before the node is materialized and may rewrite v.Data.
	Init func(v *VNode)
	// Create runs once the element exists, before it is attached.
	Create func(empty, v *VNode)
	// Insert runs after the whole patch has attached the new subtree.
	Insert func(v *VNode)
	// Prepatch runs before an existing element is patched.
	Prepatch func(old, v *VNode)
	// Update runs while an existing element is patched.
	Update func(old, v *VNode)
	// Postpatch runs after an existing element and its children are patched.
	Postpatch func(old, v *VNode)
	// Destroy runs for every node of a removed subtree.
	Destroy func(v *VNode)
	// Remove runs for the root of a removed subtree and takes over the
	// responsibility of calling rm.Done.
	Remove func(v *VNode, rm *Removal)
}

// Module is a cross-cutting extension applied to every node. Nil hooks are
// skipped. Modules are called in registration order.
type Module struct {
	Name string

	Pre     func()
	Create  func(empty, v *VNode)
	Update  func(old, v *VNode)
	Destroy func(v *VNode)
	Remove  func(v *VNode, rm *Removal)
	Post    func()
}

// pipeline holds the module hooks flattened into per-hook call lists.
type pipeline struct {
	pre     []func()
	create  []func(empty, v *VNode)
	update  []func(old, v *VNode)
	destroy []func(v *VNode)
	remove  []func(v *VNode, rm *Removal)
	post    []func()
}

func newPipeline(modules []Module) pipeline {
	var p pipeline
	for _, m := range modules {
		if m.Pre != nil {
			p.pre = append(p.pre, m.Pre)
		}
		if m.Create != nil {
			p.create = append(p.create, m.Create)
		}
		if m.Update != nil {
			p.update = append(p.update, m.Update)
		}
		if m.Destroy != nil {
			p.destroy = append(p.destroy, m.Destroy)
		}
		if m.Remove != nil {
			p.remove = append(p.remove, m.Remove)
		}
		if m.Post != nil {
			p.post = append(p.post, m.Post)
		}
	}
	return p
}

// Removal counts down the parties that must agree before a removed node is
// detached: one per module remove hook plus one for the node itself.
type Removal struct {
	remaining int
	onZero    func()
}

func newRemoval(listeners int, onZero func()) *Removal {
	return &Removal{remaining: listeners, onZero: onZero}
}

// Done signals that one party is finished with the node. The node is
// detached when the last party calls Done. Extra calls are ignored.
func (r *Removal) Done() {
	if r.remaining <= 0 {
		return
	}
	r.remaining--
	if r.remaining == 0 && r.onZero != nil {
		r.onZero()
	}
}

// Remaining returns the number of outstanding Done calls.
func (r *Removal) Remaining() int { return r.remaining }
