package exercises

// Recalc re-derives completion along the ancestor chain starting at the node
// with parentID: every ancestor that has children ends up completed iff all of
// its direct children are completed. The walk always goes up to the root.
// An unknown parentID leaves the forest unchanged.
func Recalc(forest Forest, parentID *int64) Forest {
	if parentID == nil {
		return forest
	}
	path := PathTo(forest, *parentID)
	if len(path) == 0 {
		return forest
	}

	var replacement *Node
	for i := len(path) - 1; i >= 0; i-- {
		orig := path[i]
		n := orig
		if replacement != nil {
			n = orig.clone()
			n.Children = replaceChild(orig.Children, path[i+1], replacement)
		}

		if len(n.Children) > 0 {
			if all := allCompleted(n.Children); all != n.Completed {
				if n == orig {
					n = orig.clone()
				}
				n.Completed = all
			}
		}

		if n == orig {
			replacement = nil
		} else {
			replacement = n
		}
	}

	if replacement == nil {
		return forest
	}
	return replaceChild(forest, path[0], replacement)
}

// Propagate is Recalc starting from the parent of the node with id.
func Propagate(forest Forest, id int64) Forest {
	n := Find(forest, id)
	if n == nil {
		return forest
	}
	return Recalc(forest, n.ParentID)
}

func allCompleted(nodes []*Node) bool {
	for _, n := range nodes {
		if !n.Completed {
			return false
		}
	}
	return true
}

func replaceChild(level []*Node, old, replacement *Node) []*Node {
	out := make([]*Node, len(level))
	copy(out, level)
	for i, n := range out {
		if n == old {
			out[i] = replacement
		}
	}
	return out
}
