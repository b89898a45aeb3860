package activities

import (
	"github.com/2beens/fitdash/internal/calendar"
	"github.com/2beens/fitdash/internal/exercises"
)

// Activity is the wire form of an exercise node, as the fitness backend stores it.
type Activity struct {
	ID          *int64             `json:"id,omitempty"`
	ParentID    *int64             `json:"parent_id"`
	Position    int                `json:"position"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Notes       string             `json:"notes"`
	Metrics     []exercises.Metric `json:"metrics"`
	Completed   bool               `json:"completed"`
	Date        calendar.Date      `json:"date"`
}

func FromNode(n exercises.Node) Activity {
	metrics := n.Metrics
	if metrics == nil {
		metrics = []exercises.Metric{}
	}
	return Activity{
		ID:          n.ID,
		ParentID:    n.ParentID,
		Position:    n.Position,
		Name:        n.Name,
		Description: n.Description,
		Notes:       n.Notes,
		Metrics:     metrics,
		Completed:   n.Completed,
		Date:        n.Date,
	}
}

func (a Activity) Node() exercises.Node {
	return exercises.Node{
		ID:          a.ID,
		ParentID:    a.ParentID,
		Position:    a.Position,
		Name:        a.Name,
		Description: a.Description,
		Notes:       a.Notes,
		Metrics:     a.Metrics,
		Completed:   a.Completed,
		Date:        a.Date,
	}
}

func FromNodes(nodes []exercises.Node) []Activity {
	acts := make([]Activity, 0, len(nodes))
	for _, n := range nodes {
		acts = append(acts, FromNode(n))
	}
	return acts
}

func ToNodes(acts []Activity) []exercises.Node {
	nodes := make([]exercises.Node, 0, len(acts))
	for _, a := range acts {
		nodes = append(nodes, a.Node())
	}
	return nodes
}

// IDs returns the ids of the persisted activities.
func IDs(acts []Activity) []int64 {
	ids := make([]int64, 0, len(acts))
	for _, a := range acts {
		if a.ID != nil {
			ids = append(ids, *a.ID)
		}
	}
	return ids
}

// PendingActivity locates an activity the backend has not handed an id to yet.
type PendingActivity struct {
	ParentID *int64        `json:"parentId,omitempty"`
	Date     calendar.Date `json:"date"`
	Position int           `json:"position"`
	Name     string        `json:"name"`
}

// Pending lists the activities without an id.
func Pending(acts []Activity) []PendingActivity {
	pending := make([]PendingActivity, 0)
	for _, a := range acts {
		if a.ID != nil {
			continue
		}
		pending = append(pending, PendingActivity{
			ParentID: a.ParentID,
			Date:     a.Date,
			Position: a.Position,
			Name:     a.Name,
		})
	}
	return pending
}
