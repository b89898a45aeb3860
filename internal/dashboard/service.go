package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/2beens/fitdash/internal/activities"
	"github.com/2beens/fitdash/internal/calendar"
	"github.com/2beens/fitdash/internal/exercises"
	"github.com/2beens/fitdash/internal/session"
	"github.com/2beens/fitdash/internal/telemetry/metrics"
	"github.com/2beens/fitdash/internal/telemetry/tracing"
	"github.com/2beens/fitdash/internal/upstream"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrNodeNotFound = errors.New("exercise not found")
	ErrOutOfRange   = errors.New("date outside of the displayed range")
)

type activitySyncer interface {
	Retrieve(ctx context.Context, sess *session.Session, rng calendar.Range) ([]activities.Activity, upstream.Result)
	Upsert(ctx context.Context, sess *session.Session, acts ...activities.Activity) ([]activities.Activity, upstream.Result)
	Delete(ctx context.Context, sess *session.Session, ids []int64) upstream.Result
}

// Service owns the exercise tree of every dashboard session. Mutations are
// applied to the stored view first, then persisted; a failed sync is reported
// back and journaled, but the view keeps the change.
type Service struct {
	store   *exercises.Store
	sync    activitySyncer
	metrics *metrics.Manager
}

func NewService(store *exercises.Store, sync activitySyncer, metricsManager *metrics.Manager) *Service {
	return &Service{
		store:   store,
		sync:    sync,
		metrics: metricsManager,
	}
}

// Load fetches the range from the backend and makes it the session's view.
// Expand state of nodes already on screen is kept.
func (s *Service) Load(ctx context.Context, sess *session.Session, rng calendar.Range) (exercises.View, upstream.Result) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "dashboard.load")
	defer span.End()
	span.SetAttributes(attribute.String("dashboard.range", rng.String()))

	acts, res := s.sync.Retrieve(ctx, sess, rng)
	if !res.Success {
		return exercises.View{Range: rng, Forest: exercises.Forest{}}, res
	}

	forest := exercises.Build(activities.ToNodes(acts))
	if forest == nil {
		forest = exercises.Forest{}
	}
	if prev, ok := s.store.Get(sess.ID); ok {
		forest = keepExpanded(prev.Forest, forest)
	}

	view := exercises.View{Range: rng, Forest: forest}
	s.store.Set(sess.ID, view)
	s.viewsMetric()
	return view, res
}

// View returns the session's current view without going to the backend.
func (s *Service) View(sess *session.Session) (exercises.View, error) {
	view, ok := s.store.Get(sess.ID)
	if !ok {
		return exercises.View{}, exercises.ErrViewNotLoaded
	}
	return view, nil
}

// DropView forgets the session's view. Used as a session expire hook.
func (s *Service) DropView(sess *session.Session) {
	s.store.Drop(sess.ID)
	s.viewsMetric()
	log.Tracef("dashboard view of [%s] dropped", sess.ID)
}

// Add places node as the last child of parentID, or as a new root of the
// node's day when parentID is nil.
func (s *Service) Add(ctx context.Context, sess *session.Session, parentID *int64, node exercises.Node) (exercises.View, upstream.Result, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "dashboard.add")
	defer span.End()

	var (
		added   exercises.Node
		changed []exercises.Node
	)
	view, err := s.apply(sess, "add", func(v exercises.View) (exercises.Forest, exercises.Outcome, error) {
		if parentID == nil && !v.Range.Contains(node.Date) {
			return nil, exercises.NotFound, fmt.Errorf("%w: %s not in %s", ErrOutOfRange, node.Date, v.Range)
		}

		forest, outcome := exercises.AddChild(v.Forest, parentID, node)
		if outcome != exercises.Found {
			return forest, outcome, nil
		}
		added = *lastAdded(forest, parentID, node.Date)

		after := exercises.Recalc(forest, parentID)
		changed = changedAncestors(forest, after, parentID)
		return after, exercises.Found, nil
	})
	if err != nil {
		return view, upstream.Result{}, err
	}

	added.Children = nil
	res := s.persist(ctx, sess, append([]exercises.Node{added}, changed...))
	view, _ = s.View(sess)
	return view, res, nil
}

// Replace swaps the node located by (parentID, position) for updated. An
// updated node without children keeps the existing ones, and a persisted node
// keeps its id. A nil completed keeps the existing completion; updated.Completed
// is not read.
func (s *Service) Replace(ctx context.Context, sess *session.Session, parentID *int64, position int, updated exercises.Node, completed *bool) (exercises.View, upstream.Result, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "dashboard.replace")
	defer span.End()

	var toSync []exercises.Node
	view, err := s.apply(sess, "replace", func(v exercises.View) (exercises.Forest, exercises.Outcome, error) {
		existing := exercises.FindAt(v.Forest, parentID, updated.Date, position)
		if existing == nil {
			return v.Forest, exercises.NotFound, nil
		}

		replacement := updated
		if replacement.ID == nil {
			replacement.ID = existing.ID
		}
		if replacement.Children == nil {
			replacement.Children = existing.Children
		}
		replacement.Expanded = existing.Expanded
		replacement.Completed = existing.Completed
		if completed != nil {
			replacement.Completed = *completed
		}

		forest, outcome := exercises.ReplaceAt(v.Forest, parentID, position, replacement)
		if outcome != exercises.Found {
			return forest, outcome, nil
		}

		replaced := exercises.FindAt(forest, parentID, updated.Date, position)
		if replaced.ID != nil && len(replaced.Children) > 0 && replaced.Completed != existing.Completed {
			// an explicit completion change goes down the subtree
			forest, _ = exercises.ToggleCompletion(forest, *replaced.ID, replaced.Completed)
		} else if len(replaced.Children) > 0 {
			// otherwise completion stays derived from the children
			forest = exercises.Recalc(forest, replaced.ID)
		}

		after := exercises.Recalc(forest, parentID)
		toSync = changedSubtree(existing, exercises.FindAt(after, parentID, updated.Date, position))
		toSync = append(toSync, changedAncestors(forest, after, parentID)...)
		return after, exercises.Found, nil
	})
	if err != nil {
		return view, upstream.Result{}, err
	}

	res := s.persist(ctx, sess, toSync)
	view, _ = s.View(sess)
	return view, res, nil
}

// Remove deletes the node with id together with its subtree.
func (s *Service) Remove(ctx context.Context, sess *session.Session, id int64) (exercises.View, upstream.Result, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "dashboard.remove")
	defer span.End()

	var (
		removedIDs []int64
		changed    []exercises.Node
	)
	view, err := s.apply(sess, "remove", func(v exercises.View) (exercises.Forest, exercises.Outcome, error) {
		target := exercises.Find(v.Forest, id)
		if target == nil {
			return v.Forest, exercises.NotFound, nil
		}
		for _, n := range subtree(target) {
			if n.ID != nil {
				removedIDs = append(removedIDs, *n.ID)
			}
		}

		forest, outcome := exercises.RemoveSubtree(v.Forest, id)
		if outcome != exercises.Found {
			return forest, outcome, nil
		}
		after := exercises.Recalc(forest, target.ParentID)
		changed = changedAncestors(forest, after, target.ParentID)
		return after, exercises.Found, nil
	})
	if err != nil {
		return view, upstream.Result{}, err
	}

	res := s.sync.Delete(ctx, sess, removedIDs)
	if res.Success && len(changed) > 0 {
		res = s.persist(ctx, sess, changed)
	}
	view, _ = s.View(sess)
	return view, res, nil
}

// Complete sets the completion of the node with id and its whole subtree,
// then re-derives the ancestors.
func (s *Service) Complete(ctx context.Context, sess *session.Session, id int64, completed bool) (exercises.View, upstream.Result, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "dashboard.complete")
	defer span.End()

	var toSync []exercises.Node
	view, err := s.apply(sess, "complete", func(v exercises.View) (exercises.Forest, exercises.Outcome, error) {
		forest, outcome := exercises.ToggleCompletion(v.Forest, id, completed)
		if outcome != exercises.Found {
			return forest, outcome, nil
		}
		after := exercises.Propagate(forest, id)
		target := exercises.Find(after, id)
		toSync = subtree(target)
		toSync = append(toSync, changedAncestors(forest, after, target.ParentID)...)
		return after, exercises.Found, nil
	})
	if err != nil {
		return view, upstream.Result{}, err
	}

	res := s.persist(ctx, sess, toSync)
	view, _ = s.View(sess)
	return view, res, nil
}

// Expand sets the expand/collapse flag of a node. Dashboard-only state, nothing
// is persisted.
func (s *Service) Expand(sess *session.Session, id int64, expanded bool) (exercises.View, error) {
	return s.apply(sess, "expand", func(v exercises.View) (exercises.Forest, exercises.Outcome, error) {
		forest, outcome := exercises.SetExpanded(v.Forest, id, expanded)
		return forest, outcome, nil
	})
}

type mutation func(v exercises.View) (exercises.Forest, exercises.Outcome, error)

func (s *Service) apply(sess *session.Session, op string, fn mutation) (exercises.View, error) {
	view, ok := s.store.Get(sess.ID)
	if !ok {
		s.mutationMetric(op, "not_loaded")
		return exercises.View{}, exercises.ErrViewNotLoaded
	}

	var fnErr error
	view, outcome, err := s.store.Apply(sess.ID, func(forest exercises.Forest) (exercises.Forest, exercises.Outcome) {
		updated, outcome, err := fn(exercises.View{Range: view.Range, Forest: forest})
		if err != nil {
			fnErr = err
			return forest, exercises.NotFound
		}
		return updated, outcome
	})
	switch {
	case err != nil:
		s.mutationMetric(op, "not_loaded")
		return view, err
	case fnErr != nil:
		s.mutationMetric(op, "rejected")
		return view, fnErr
	case outcome != exercises.Found:
		s.mutationMetric(op, outcome.String())
		return view, ErrNodeNotFound
	}

	s.mutationMetric(op, outcome.String())
	return view, nil
}

// persist upserts nodes and writes the backend ids of newly created ones back
// into the view.
func (s *Service) persist(ctx context.Context, sess *session.Session, nodes []exercises.Node) upstream.Result {
	if len(nodes) == 0 {
		return upstream.OK(http.StatusOK)
	}

	stored, res := s.sync.Upsert(ctx, sess, activities.FromNodes(nodes)...)
	if !res.Success {
		log.Debugf("dashboard [%s]: sync of %d nodes failed: %s", sess.ID, len(nodes), res.Message)
		return res
	}

	for _, act := range stored {
		if act.ID == nil {
			continue
		}
		_, _, err := s.store.Apply(sess.ID, func(forest exercises.Forest) (exercises.Forest, exercises.Outcome) {
			return exercises.AssignID(forest, act.ParentID, act.Date, act.Position, *act.ID)
		})
		if err != nil {
			// view dropped meanwhile, e.g. forced logout
			break
		}
	}
	return res
}

func (s *Service) mutationMetric(op, outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.CounterTreeMutations.WithLabelValues(op, outcome).Inc()
}

func (s *Service) viewsMetric() {
	if s.metrics == nil {
		return
	}
	s.metrics.GaugeActiveViews.Set(float64(s.store.Len()))
}

// lastAdded finds the node AddChild just appended.
func lastAdded(forest exercises.Forest, parentID *int64, date calendar.Date) *exercises.Node {
	siblings := []*exercises.Node(forest)
	if parentID != nil {
		siblings = exercises.Find(forest, *parentID).Children
	}
	for i := len(siblings) - 1; i >= 0; i-- {
		if siblings[i].ID == nil && (parentID != nil || siblings[i].Date == date) {
			return siblings[i]
		}
	}
	return nil
}

// subtree lists n and its descendants without their children slices.
func subtree(n *exercises.Node) []exercises.Node {
	if n == nil {
		return nil
	}
	return exercises.Flatten(exercises.Forest{n})
}

// changedSubtree lists after without its children, plus the descendants that
// are new or whose completion differs from before.
func changedSubtree(before, after *exercises.Node) []exercises.Node {
	if after == nil {
		return nil
	}
	prevCompleted := map[int64]bool{}
	prevNodes := map[*exercises.Node]bool{}
	exercises.Walk(exercises.Forest{before}, func(n *exercises.Node, _ int) bool {
		prevNodes[n] = true
		if n.ID != nil {
			prevCompleted[*n.ID] = n.Completed
		}
		return true
	})

	var changed []exercises.Node
	exercises.Walk(exercises.Forest{after}, func(n *exercises.Node, _ int) bool {
		include := n == after
		if !include && n.ID != nil {
			prev, ok := prevCompleted[*n.ID]
			include = !ok || prev != n.Completed
		} else if !include {
			include = !prevNodes[n]
		}
		if include {
			c := *n
			c.Children = nil
			changed = append(changed, c)
		}
		return true
	})
	return changed
}

// changedAncestors lists the ancestors, starting at parentID, whose completion
// differs between before and after.
func changedAncestors(before, after exercises.Forest, parentID *int64) []exercises.Node {
	if parentID == nil {
		return nil
	}
	var changed []exercises.Node
	for _, n := range exercises.PathTo(after, *parentID) {
		if n.ID == nil {
			continue
		}
		if prev := exercises.Find(before, *n.ID); prev == nil || prev.Completed != n.Completed {
			c := *n
			c.Children = nil
			changed = append(changed, c)
		}
	}
	return changed
}

// keepExpanded copies the expand flags of prev onto the persisted nodes of next.
func keepExpanded(prev, next exercises.Forest) exercises.Forest {
	expanded := map[int64]bool{}
	exercises.Walk(prev, func(n *exercises.Node, _ int) bool {
		if n.ID != nil && n.Expanded {
			expanded[*n.ID] = true
		}
		return true
	})
	for id := range expanded {
		next, _ = exercises.SetExpanded(next, id, true)
	}
	return next
}
