package exercises

import (
	"github.com/2beens/fitdash/internal/calendar"
)

// Metric is a single measured value of an exercise, e.g. a weight-training set
// {"weight", "60", "kg"} or cardio distance {"distance", "5", "km"}.
type Metric struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

// Node is one exercise (or grouping of exercises) on a calendar day.
// Nodes are never mutated after they are placed in a Forest; every change
// produces a new node and shares the untouched branches.
type Node struct {
	// ID is nil until the backend persists the node.
	ID *int64 `json:"id"`
	// ParentID is nil for a root node of the day.
	ParentID    *int64        `json:"parentId"`
	Position    int           `json:"position"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Notes       string        `json:"notes"`
	Metrics     []Metric      `json:"metrics"`
	Completed   bool          `json:"completed"`
	Date        calendar.Date `json:"date"`
	Children    []*Node       `json:"children"`

	// Expanded is dashboard-only state, never sent to the backend.
	Expanded bool `json:"expanded"`
}

type Forest []*Node

// Outcome tells whether a tree operation found its target.
type Outcome int

const (
	NotFound Outcome = iota
	Found
)

func (o Outcome) String() string {
	if o == Found {
		return "found"
	}
	return "not-found"
}

func Int64(v int64) *int64 {
	return &v
}

// HasID reports whether the node is persisted under the given id.
func (n *Node) HasID(id int64) bool {
	return n.ID != nil && *n.ID == id
}

// IsChildOf reports whether the node hangs under parentID (nil = root).
func (n *Node) IsChildOf(parentID *int64) bool {
	if parentID == nil {
		return n.ParentID == nil
	}
	return n.ParentID != nil && *n.ParentID == *parentID
}

// clone returns a shallow copy; children slice is shared until replaced.
func (n *Node) clone() *Node {
	c := *n
	return &c
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
