package vdom

import "github.com/vango-dev/vtree/pkg/dom"

// keyToOldIdx maps the keys of children[begin:end+1] to their indices.
// A later duplicate key shadows an earlier one.
func keyToOldIdx(children []*VNode, begin, end int) map[Key]int {
	m := make(map[Key]int, end-begin+1)
	for i := begin; i <= end; i++ {
		if ch := children[i]; ch != nil && ch.Key != nil {
			m[ch.Key] = i
		}
	}
	return m
}

// updateChildren reconciles the children of parentElm from oldCh to newCh.
//
// Four pointers walk both lists from the ends inward. Each step tries, in
// order: start/start, end/end, old start/new end (moved right), old
// end/new start (moved left). When none match, the new start node is looked
// up by key in the remaining old range. Whatever is left over once one range
// is exhausted is bulk-inserted or bulk-removed.
//
// Slots of oldCh consumed by the key lookup are set to nil.
func (p *Patcher) updateChildren(parentElm dom.Handle, oldCh, newCh []*VNode, inserted *[]*VNode) {
	oldStartIdx, newStartIdx := 0, 0
	oldEndIdx, newEndIdx := len(oldCh)-1, len(newCh)-1

	at := func(list []*VNode, i int) *VNode {
		if i < 0 || i >= len(list) {
			return nil
		}
		return list[i]
	}

	oldStart, oldEnd := at(oldCh, oldStartIdx), at(oldCh, oldEndIdx)
	newStart, newEnd := at(newCh, newStartIdx), at(newCh, newEndIdx)

	var oldKeyToIdx map[Key]int

	for oldStartIdx <= oldEndIdx && newStartIdx <= newEndIdx {
		switch {
		case oldStart == nil:
			oldStartIdx++
			oldStart = at(oldCh, oldStartIdx)
		case oldEnd == nil:
			oldEndIdx--
			oldEnd = at(oldCh, oldEndIdx)
		case newStart == nil:
			newStartIdx++
			newStart = at(newCh, newStartIdx)
		case newEnd == nil:
			newEndIdx--
			newEnd = at(newCh, newEndIdx)

		case SameVNode(oldStart, newStart):
			p.patchVNode(oldStart, newStart, inserted)
			oldStartIdx++
			newStartIdx++
			oldStart, newStart = at(oldCh, oldStartIdx), at(newCh, newStartIdx)

		case SameVNode(oldEnd, newEnd):
			p.patchVNode(oldEnd, newEnd, inserted)
			oldEndIdx--
			newEndIdx--
			oldEnd, newEnd = at(oldCh, oldEndIdx), at(newCh, newEndIdx)

		case SameVNode(oldStart, newEnd):
			// Moved right.
			p.patchVNode(oldStart, newEnd, inserted)
			p.api.InsertBefore(parentElm, oldStart.Elm, p.api.NextSibling(oldEnd.Elm))
			oldStartIdx++
			newEndIdx--
			oldStart, newEnd = at(oldCh, oldStartIdx), at(newCh, newEndIdx)

		case SameVNode(oldEnd, newStart):
			// Moved left.
			p.patchVNode(oldEnd, newStart, inserted)
			p.api.InsertBefore(parentElm, oldEnd.Elm, oldStart.Elm)
			oldEndIdx--
			newStartIdx++
			oldEnd, newStart = at(oldCh, oldEndIdx), at(newCh, newStartIdx)

		default:
			if oldKeyToIdx == nil {
				oldKeyToIdx = keyToOldIdx(oldCh, oldStartIdx, oldEndIdx)
			}
			idxInOld, found := -1, false
			if newStart.Key != nil {
				idxInOld, found = oldKeyToIdx[newStart.Key]
			}
			// A key repeated in the new list can point at an old child that
			// was already moved or patched; that child is no longer available.
			if found && (idxInOld < oldStartIdx || idxInOld > oldEndIdx || oldCh[idxInOld] == nil) {
				found = false
			}

			switch {
			case !found:
				p.api.InsertBefore(parentElm, p.createElm(newStart, inserted), oldStart.Elm)
			case oldCh[idxInOld].Sel != newStart.Sel:
				p.logger.Debug("key reused with a different selector",
					"key", newStart.Key, "old", oldCh[idxInOld].Sel, "new", newStart.Sel)
				p.api.InsertBefore(parentElm, p.createElm(newStart, inserted), oldStart.Elm)
			default:
				elmToMove := oldCh[idxInOld]
				p.patchVNode(elmToMove, newStart, inserted)
				oldCh[idxInOld] = nil
				p.api.InsertBefore(parentElm, elmToMove.Elm, oldStart.Elm)
			}
			newStartIdx++
			newStart = at(newCh, newStartIdx)
		}
	}

	if oldStartIdx > oldEndIdx {
		var before dom.Handle
		if next := at(newCh, newEndIdx+1); next != nil {
			before = next.Elm
		}
		p.addVNodes(parentElm, before, newCh, newStartIdx, newEndIdx, inserted)
	} else if newStartIdx > newEndIdx {
		p.removeVNodes(parentElm, oldCh, oldStartIdx, oldEndIdx)
	}
}
