package exercises

import (
	"sort"

	"github.com/2beens/fitdash/internal/calendar"
)

// MatchFunc selects the node(s) an Update call works on.
type MatchFunc func(n *Node) bool

// UpdateFunc returns the replacement for a matched node, or nil to drop the
// node together with its subtree.
type UpdateFunc func(n *Node) *Node

// Update is the one traversal every tree mutation goes through. It visits the
// forest depth-first and hands each matched node to fn; matched nodes are not
// descended into. Ancestors of a replaced node are copied, every other branch
// is shared with the input. When nothing matches, the input forest itself is
// returned together with NotFound.
func Update(forest Forest, match MatchFunc, fn UpdateFunc) (Forest, Outcome) {
	updated, changed := updateLevel(forest, match, fn)
	if !changed {
		return forest, NotFound
	}
	return updated, Found
}

func updateLevel(level []*Node, match MatchFunc, fn UpdateFunc) ([]*Node, bool) {
	var out []*Node
	changed := false
	for i, n := range level {
		var replacement *Node
		hit := false
		if match(n) {
			replacement = fn(n)
			hit = true
		} else if len(n.Children) > 0 {
			if children, ok := updateLevel(n.Children, match, fn); ok {
				replacement = n.clone()
				replacement.Children = children
				hit = true
			}
		}

		if !hit {
			if changed {
				out = append(out, n)
			}
			continue
		}

		if !changed {
			out = make([]*Node, i, len(level))
			copy(out, level[:i])
			changed = true
		}
		if replacement != nil {
			out = append(out, replacement)
		}
	}

	if !changed {
		return level, false
	}
	return out, true
}

// Walk visits the forest depth-first, parents before children.
// Returning false from visit skips the node's children.
func Walk(forest Forest, visit func(n *Node, depth int) bool) {
	walk(forest, 0, visit)
}

func walk(level []*Node, depth int, visit func(n *Node, depth int) bool) {
	for _, n := range level {
		if visit(n, depth) {
			walk(n.Children, depth+1, visit)
		}
	}
}

// Find returns the node persisted under id, or nil.
func Find(forest Forest, id int64) *Node {
	path := PathTo(forest, id)
	if len(path) == 0 {
		return nil
	}
	return path[len(path)-1]
}

// PathTo returns the chain of nodes from a root down to the node with id,
// or nil if no such node exists.
func PathTo(forest Forest, id int64) []*Node {
	for _, n := range forest {
		if n.HasID(id) {
			return []*Node{n}
		}
		if sub := PathTo(n.Children, id); sub != nil {
			return append([]*Node{n}, sub...)
		}
	}
	return nil
}

// FindAt returns the node located by (parentID, position), roots by (date,
// position), or nil.
func FindAt(forest Forest, parentID *int64, date calendar.Date, position int) *Node {
	var found *Node
	Walk(forest, func(n *Node, _ int) bool {
		if found != nil {
			return false
		}
		if n.IsChildOf(parentID) && n.Position == position && (parentID != nil || n.Date == date) {
			found = n
			return false
		}
		return true
	})
	return found
}

// AddChild appends node as the last child of the node with parentID, or as a
// new root of node's day when parentID is nil. The new node gets the next free
// position among its siblings; positions of existing siblings are untouched.
func AddChild(forest Forest, parentID *int64, node Node) (Forest, Outcome) {
	child := node
	child.ParentID = parentID
	child.ID = nil
	if parentID == nil {
		child.Position = nextPosition(forest, func(n *Node) bool {
			return n.Date == child.Date
		})
		roots := make(Forest, 0, len(forest)+1)
		roots = append(roots, forest...)
		return append(roots, &child), Found
	}

	return Update(forest,
		func(n *Node) bool { return n.HasID(*parentID) },
		func(parent *Node) *Node {
			child.Date = parent.Date
			child.Position = nextPosition(parent.Children, func(*Node) bool { return true })
			p := parent.clone()
			p.Children = make([]*Node, 0, len(parent.Children)+1)
			p.Children = append(p.Children, parent.Children...)
			p.Children = append(p.Children, &child)
			return p
		},
	)
}

func nextPosition(siblings []*Node, include func(*Node) bool) int {
	next := 0
	for _, s := range siblings {
		if include(s) && s.Position >= next {
			next = s.Position + 1
		}
	}
	return next
}

// ReplaceAt replaces the node located by (parentID, position) with updated.
// Roots are located by (updated.Date, position).
func ReplaceAt(forest Forest, parentID *int64, position int, updated Node) (Forest, Outcome) {
	return Update(forest,
		func(n *Node) bool {
			if !n.IsChildOf(parentID) || n.Position != position {
				return false
			}
			return parentID != nil || n.Date == updated.Date
		},
		func(n *Node) *Node {
			replacement := updated
			replacement.ParentID = parentID
			replacement.Position = position
			if parentID != nil {
				replacement.Date = n.Date
			}
			return &replacement
		},
	)
}

// RemoveSubtree removes the node with id and all of its descendants.
func RemoveSubtree(forest Forest, id int64) (Forest, Outcome) {
	return Update(forest,
		func(n *Node) bool { return n.HasID(id) },
		func(*Node) *Node { return nil },
	)
}

// ToggleCompletion sets completed on the node with id and forces the same value
// onto every descendant, in both directions. Ancestors are not touched here;
// see Recalc.
func ToggleCompletion(forest Forest, id int64, completed bool) (Forest, Outcome) {
	return Update(forest,
		func(n *Node) bool { return n.HasID(id) },
		func(n *Node) *Node { return withCompletion(n, completed) },
	)
}

func withCompletion(n *Node, completed bool) *Node {
	c := n.clone()
	c.Completed = completed
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = withCompletion(child, completed)
		}
	}
	return c
}

// SetExpanded sets the dashboard expand/collapse flag of the node with id.
func SetExpanded(forest Forest, id int64, expanded bool) (Forest, Outcome) {
	return Update(forest,
		func(n *Node) bool { return n.HasID(id) },
		func(n *Node) *Node {
			c := n.clone()
			c.Expanded = expanded
			return c
		},
	)
}

// AssignID stores the backend id of a not yet persisted node, located the
// same way as in ReplaceAt.
func AssignID(forest Forest, parentID *int64, date calendar.Date, position int, id int64) (Forest, Outcome) {
	return Update(forest,
		func(n *Node) bool {
			if n.ID != nil || !n.IsChildOf(parentID) || n.Position != position {
				return false
			}
			return parentID != nil || n.Date == date
		},
		func(n *Node) *Node {
			c := n.clone()
			c.ID = Int64(id)
			return c
		},
	)
}

// Flatten lists every node of the forest once, parents before children, with
// the Children field dropped. Used when submitting a bulk set of nodes.
func Flatten(forest Forest) []Node {
	var flat []Node
	Walk(forest, func(n *Node, _ int) bool {
		c := *n
		c.Children = nil
		flat = append(flat, c)
		return true
	})
	return flat
}

// Build assembles a forest from flat nodes linked by ParentID. Siblings are
// ordered by position, roots by date and then position. Nodes whose parent is
// not among the given nodes are kept as roots.
func Build(flat []Node) Forest {
	byID := make(map[int64]*Node, len(flat))
	nodes := make([]*Node, len(flat))
	for i := range flat {
		n := flat[i]
		n.Children = nil
		nodes[i] = &n
		if n.ID != nil {
			byID[*n.ID] = &n
		}
	}

	var forest Forest
	for _, n := range nodes {
		if n.ParentID != nil && !sameID(n.ParentID, n.ID) {
			if parent, ok := byID[*n.ParentID]; ok {
				parent.Children = append(parent.Children, n)
				continue
			}
		}
		forest = append(forest, n)
	}

	for _, n := range nodes {
		sortSiblings(n.Children)
	}
	sort.SliceStable(forest, func(i, j int) bool {
		if forest[i].Date != forest[j].Date {
			return forest[i].Date.Before(forest[j].Date)
		}
		return forest[i].Position < forest[j].Position
	})

	return forest
}

func sortSiblings(siblings []*Node) {
	sort.SliceStable(siblings, func(i, j int) bool {
		return siblings[i].Position < siblings[j].Position
	})
}
