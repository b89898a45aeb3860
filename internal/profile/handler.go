package profile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/2beens/fitdash/internal/session"
	"github.com/2beens/fitdash/internal/telemetry/tracing"
	"github.com/2beens/fitdash/internal/upstream"
	"github.com/2beens/fitdash/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=profile_test

type profileService interface {
	GetAttributes(ctx context.Context, sess *session.Session) (*Attributes, error)
	SaveAttributes(ctx context.Context, sess *session.Session, attrs Attributes) (*Attributes, error)
	SetupStatus(ctx context.Context, sess *session.Session) (*SetupStatus, error)
	SaveStep(ctx context.Context, sess *session.Session, step Step, payload json.RawMessage) (*SetupStatus, error)
	CompleteSetup(ctx context.Context, sess *session.Session) (*SetupStatus, error)
}

type Handler struct {
	service profileService
}

func NewHandler(service profileService) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/profile", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-profile")
	r.HandleFunc("/profile", handler.HandleSave).Methods("PUT", "OPTIONS").Name("save-profile")
	r.HandleFunc("/profile/setup", handler.HandleSetupStatus).Methods("GET", "OPTIONS").Name("setup-status")
	r.HandleFunc("/profile/setup/complete", handler.HandleSetupComplete).Methods("POST", "OPTIONS").Name("setup-complete")
	r.HandleFunc("/profile/setup/{step}", handler.HandleSetupStep).Methods("PUT", "OPTIONS").Name("setup-step")
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.get")
	defer span.End()

	sess := session.FromContext(ctx)
	if sess == nil {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	attrs, err := handler.service.GetAttributes(ctx, sess)
	if err != nil {
		writeError(w, "get profile", err)
		return
	}
	writeJSON(w, attrs)
}

func (handler *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.save")
	defer span.End()

	sess := session.FromContext(ctx)
	if sess == nil {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var attrs Attributes
	if err := json.NewDecoder(r.Body).Decode(&attrs); err != nil {
		log.Errorf("save profile, unmarshal json params: %s", err)
		http.Error(w, "error, invalid profile", http.StatusBadRequest)
		return
	}

	saved, err := handler.service.SaveAttributes(ctx, sess, attrs)
	if err != nil {
		writeError(w, "save profile", err)
		return
	}
	writeJSON(w, saved)
}

func (handler *Handler) HandleSetupStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.setup")
	defer span.End()

	sess := session.FromContext(ctx)
	if sess == nil {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	status, err := handler.service.SetupStatus(ctx, sess)
	if err != nil {
		writeError(w, "setup status", err)
		return
	}
	writeJSON(w, status)
}

func (handler *Handler) HandleSetupStep(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.setup.step")
	defer span.End()

	sess := session.FromContext(ctx)
	if sess == nil {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	step, err := ParseStep(mux.Vars(r)["step"])
	if err != nil {
		http.Error(w, "error, "+err.Error(), http.StatusNotFound)
		return
	}

	var payload json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Errorf("setup step [%s], unmarshal json params: %s", step, err)
		http.Error(w, "error, invalid setup step", http.StatusBadRequest)
		return
	}

	status, err := handler.service.SaveStep(ctx, sess, step, payload)
	if err != nil {
		writeError(w, "setup step "+string(step), err)
		return
	}
	writeJSON(w, status)
}

func (handler *Handler) HandleSetupComplete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.setup.complete")
	defer span.End()

	sess := session.FromContext(ctx)
	if sess == nil {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	status, err := handler.service.CompleteSetup(ctx, sess)
	if err != nil {
		writeError(w, "complete setup", err)
		return
	}
	writeJSON(w, status)
}

func writeJSON(w http.ResponseWriter, resp any) {
	pkg.WriteJSON(w, resp, http.StatusOK)
}

// writeError answers with the uniform result body, so the wizard can show
// field messages next to the inputs.
func writeError(w http.ResponseWriter, action string, err error) {
	if errors.Is(err, context.Canceled) {
		log.Debugf("%s: client went away", action)
		return
	}

	res := upstream.ToResult(err)
	switch {
	case errors.Is(err, ErrStepOutOfOrder), errors.Is(err, ErrSetupIncomplete):
		res.Message = err.Error()
		res.Status = http.StatusConflict
	case res.Status == 0:
		log.Errorf("%s: %s", action, err)
	}

	respJson, mErr := json.Marshal(res)
	if mErr != nil {
		log.Errorf("marshal profile error: %s", mErr)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if res.RetryAfter != nil {
		w.Header().Set("Retry-After", strconv.Itoa(*res.RetryAfter))
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, res.HTTPStatus())
}
