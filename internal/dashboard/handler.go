package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/2beens/fitdash/internal/calendar"
	"github.com/2beens/fitdash/internal/exercises"
	"github.com/2beens/fitdash/internal/forms"
	"github.com/2beens/fitdash/internal/session"
	"github.com/2beens/fitdash/internal/telemetry/tracing"
	"github.com/2beens/fitdash/internal/upstream"
	"github.com/2beens/fitdash/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=dashboard_test

type treeService interface {
	Load(ctx context.Context, sess *session.Session, rng calendar.Range) (exercises.View, upstream.Result)
	View(sess *session.Session) (exercises.View, error)
	Add(ctx context.Context, sess *session.Session, parentID *int64, node exercises.Node) (exercises.View, upstream.Result, error)
	Replace(ctx context.Context, sess *session.Session, parentID *int64, position int, updated exercises.Node, completed *bool) (exercises.View, upstream.Result, error)
	Remove(ctx context.Context, sess *session.Session, id int64) (exercises.View, upstream.Result, error)
	Complete(ctx context.Context, sess *session.Session, id int64, completed bool) (exercises.View, upstream.Result, error)
	Expand(sess *session.Session, id int64, expanded bool) (exercises.View, error)
}

// ExerciseRequest is the exercise form of the dashboard. ParentID nil adds a
// root exercise on Date. On replace, a missing completed keeps the current
// completion.
type ExerciseRequest struct {
	ParentID    *int64             `json:"parentId"`
	Position    int                `json:"position" validate:"gte=0"`
	Name        string             `json:"name" validate:"required,max=200"`
	Description string             `json:"description" validate:"max=2000"`
	Notes       string             `json:"notes" validate:"max=2000"`
	Metrics     []exercises.Metric `json:"metrics" validate:"max=50,dive"`
	Completed   *bool              `json:"completed"`
	Date        calendar.Date      `json:"date"`
}

func (r ExerciseRequest) node() exercises.Node {
	return exercises.Node{
		ParentID:    r.ParentID,
		Position:    r.Position,
		Name:        r.Name,
		Description: r.Description,
		Notes:       r.Notes,
		Metrics:     r.Metrics,
		Completed:   r.Completed != nil && *r.Completed,
		Date:        r.Date,
	}
}

type CompleteRequest struct {
	Completed bool `json:"completed"`
}

type ExpandRequest struct {
	Expanded bool `json:"expanded"`
}

// ViewResponse is the displayed forest plus the outcome of the backend sync
// the request triggered.
type ViewResponse struct {
	Range  calendar.Range   `json:"range"`
	Forest exercises.Forest `json:"forest"`
	Sync   upstream.Result  `json:"sync"`
}

type Handler struct {
	service treeService
	today   func() calendar.Date
}

func NewHandler(service treeService) *Handler {
	return &Handler{
		service: service,
		today:   calendar.Today,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/dashboard", handler.HandleLoad).Methods("GET", "OPTIONS").Name("dashboard")
	r.HandleFunc("/dashboard/exercises", handler.HandleAdd).Methods("POST", "OPTIONS").Name("add-exercise")
	r.HandleFunc("/dashboard/exercises", handler.HandleReplace).Methods("PUT", "OPTIONS").Name("replace-exercise")
	r.HandleFunc("/dashboard/exercises/{id}", handler.HandleRemove).Methods("DELETE", "OPTIONS").Name("remove-exercise")
	r.HandleFunc("/dashboard/exercises/{id}/complete", handler.HandleComplete).Methods("POST", "OPTIONS").Name("complete-exercise")
	r.HandleFunc("/dashboard/exercises/{id}/expand", handler.HandleExpand).Methods("POST", "OPTIONS").Name("expand-exercise")
}

// HandleLoad loads ?from=..&to=.. (both YYYY-MM-DD); without them the current week.
// ?cached=true answers from the stored view when there is one.
func (handler *Handler) HandleLoad(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboard.load")
	defer span.End()

	sess := session.FromContext(ctx)
	if sess == nil {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	rng, err := handler.rangeParam(r)
	if err != nil {
		http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
		return
	}

	if r.URL.Query().Get("cached") == "true" {
		if view, err := handler.service.View(sess); err == nil && view.Range == rng {
			writeView(w, view, upstream.OK(http.StatusOK))
			return
		}
	}

	view, res := handler.service.Load(ctx, sess, rng)
	if !res.Success {
		writeResult(w, res)
		return
	}
	writeView(w, view, res)
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboard.add")
	defer span.End()

	sess := session.FromContext(ctx)
	if sess == nil {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	req, ok := decodeExercise(w, r)
	if !ok {
		return
	}
	if !rootHasDate(w, req) {
		return
	}

	view, res, err := handler.service.Add(ctx, sess, req.ParentID, req.node())
	writeMutation(w, "add exercise", view, res, err)
}

// rootHasDate answers 422 for a root exercise without a date, since roots are
// told apart by their day.
func rootHasDate(w http.ResponseWriter, req ExerciseRequest) bool {
	if req.ParentID != nil || !req.Date.IsZero() {
		return true
	}
	writeResult(w, upstream.ToResult(&upstream.ValidationError{
		Status:  http.StatusUnprocessableEntity,
		Message: "please correct the highlighted fields",
		Fields:  map[string][]string{"date": {"is required"}},
	}))
	return false
}

func (handler *Handler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboard.replace")
	defer span.End()

	sess := session.FromContext(ctx)
	if sess == nil {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	req, ok := decodeExercise(w, r)
	if !ok {
		return
	}

	if !rootHasDate(w, req) {
		return
	}

	view, res, err := handler.service.Replace(ctx, sess, req.ParentID, req.Position, req.node(), req.Completed)
	writeMutation(w, "replace exercise", view, res, err)
}

func (handler *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboard.remove")
	defer span.End()

	sess := session.FromContext(ctx)
	if sess == nil {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := idParam(r)
	if err != nil {
		http.Error(w, "error, invalid exercise id", http.StatusBadRequest)
		return
	}

	view, res, err := handler.service.Remove(ctx, sess, id)
	writeMutation(w, "remove exercise", view, res, err)
}

func (handler *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboard.complete")
	defer span.End()

	sess := session.FromContext(ctx)
	if sess == nil {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := idParam(r)
	if err != nil {
		http.Error(w, "error, invalid exercise id", http.StatusBadRequest)
		return
	}

	var req CompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("complete exercise, unmarshal json params: %s", err)
		http.Error(w, "error, invalid request", http.StatusBadRequest)
		return
	}

	view, res, err := handler.service.Complete(ctx, sess, id, req.Completed)
	writeMutation(w, "complete exercise", view, res, err)
}

func (handler *Handler) HandleExpand(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboard.expand")
	defer span.End()

	sess := session.FromContext(ctx)
	if sess == nil {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id, err := idParam(r)
	if err != nil {
		http.Error(w, "error, invalid exercise id", http.StatusBadRequest)
		return
	}

	var req ExpandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("expand exercise, unmarshal json params: %s", err)
		http.Error(w, "error, invalid request", http.StatusBadRequest)
		return
	}

	view, err := handler.service.Expand(sess, id, req.Expanded)
	writeMutation(w, "expand exercise", view, upstream.OK(http.StatusOK), err)
}

func (handler *Handler) rangeParam(r *http.Request) (calendar.Range, error) {
	fromStr, toStr := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if fromStr == "" && toStr == "" {
		return calendar.WeekRange(handler.today()), nil
	}
	from, err := calendar.ParseDate(fromStr)
	if err != nil {
		return calendar.Range{}, err
	}
	to, err := calendar.ParseDate(toStr)
	if err != nil {
		return calendar.Range{}, err
	}
	return calendar.NewRange(from, to)
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func decodeExercise(w http.ResponseWriter, r *http.Request) (ExerciseRequest, bool) {
	var req ExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("exercise request [%s], unmarshal json params: %s", r.URL.Path, err)
		http.Error(w, "error, invalid exercise", http.StatusBadRequest)
		return req, false
	}
	if err := forms.Validate(&req); err != nil {
		writeResult(w, upstream.ToResult(err))
		return req, false
	}
	return req, true
}

func writeMutation(w http.ResponseWriter, action string, view exercises.View, res upstream.Result, err error) {
	switch {
	case errors.Is(err, exercises.ErrViewNotLoaded):
		http.Error(w, "error, dashboard not loaded", http.StatusConflict)
	case errors.Is(err, ErrNodeNotFound):
		http.Error(w, "error, exercise not found", http.StatusNotFound)
	case errors.Is(err, ErrOutOfRange):
		http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
	case err != nil:
		log.Errorf("%s: %s", action, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	case res.Status == http.StatusUnauthorized:
		// forced logout, the view is gone with the session
		writeResult(w, res)
	default:
		writeView(w, view, res)
	}
}

func writeView(w http.ResponseWriter, view exercises.View, res upstream.Result) {
	forest := view.Forest
	if forest == nil {
		forest = exercises.Forest{}
	}
	if res.RetryAfter != nil {
		w.Header().Set("Retry-After", strconv.Itoa(*res.RetryAfter))
	}
	pkg.WriteJSON(w, ViewResponse{
		Range:  view.Range,
		Forest: forest,
		Sync:   res,
	}, http.StatusOK)
}

func writeResult(w http.ResponseWriter, res upstream.Result) {
	if res.RetryAfter != nil {
		w.Header().Set("Retry-After", strconv.Itoa(*res.RetryAfter))
	}
	pkg.WriteJSON(w, res, res.HTTPStatus())
}
