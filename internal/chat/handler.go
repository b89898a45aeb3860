package chat

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/2beens/fitdash/internal/session"
	"github.com/2beens/fitdash/internal/telemetry/tracing"
	"github.com/2beens/fitdash/internal/upstream"
	"github.com/2beens/fitdash/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=chat_test

type coach interface {
	Send(ctx context.Context, sess *session.Session, message string) (string, error)
	Await(ctx context.Context, sess *session.Session, jobID string) (*Message, error)
	History(ctx context.Context, sess *session.Session) ([]Message, error)
}

type SendMessageRequest struct {
	Message string `json:"message"`
}

// AwaitResponse carries either the reply or, when the wait ran out, the job id
// to come back for.
type AwaitResponse struct {
	JobID  string   `json:"job_id"`
	Status string   `json:"status"`
	Reply  *Message `json:"reply,omitempty"`
}

type HistoryResponse struct {
	Messages []Message `json:"messages"`
}

type Handler struct {
	coach coach
}

func NewHandler(coach coach) *Handler {
	return &Handler{
		coach: coach,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/chat", handler.HandleSend).Methods("POST", "OPTIONS").Name("chat-send")
	r.HandleFunc("/chat/jobs/{id}", handler.HandleAwait).Methods("GET", "OPTIONS").Name("chat-await")
	r.HandleFunc("/chat/history", handler.HandleHistory).Methods("GET", "OPTIONS").Name("chat-history")
}

func (handler *Handler) HandleSend(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.chat.send")
	defer span.End()

	sess := session.FromContext(ctx)
	if sess == nil {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("chat send, unmarshal json params: %s", err)
		http.Error(w, "error, invalid chat message", http.StatusBadRequest)
		return
	}

	jobID, err := handler.coach.Send(ctx, sess, req.Message)
	if err != nil {
		writeError(w, "send chat message", err)
		return
	}

	handler.await(ctx, w, sess, jobID)
}

func (handler *Handler) HandleAwait(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.chat.await")
	defer span.End()

	sess := session.FromContext(ctx)
	if sess == nil {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	jobID := mux.Vars(r)["id"]
	if jobID == "" {
		http.Error(w, "error, job id empty", http.StatusBadRequest)
		return
	}

	handler.await(ctx, w, sess, jobID)
}

func (handler *Handler) await(ctx context.Context, w http.ResponseWriter, sess *session.Session, jobID string) {
	reply, err := handler.coach.Await(ctx, sess, jobID)
	switch {
	case errors.Is(err, ErrAwaitTimeout):
		writeJSON(w, AwaitResponse{JobID: jobID, Status: JobPending}, http.StatusAccepted)
	case err != nil:
		writeError(w, "await chat reply", err)
	default:
		writeJSON(w, AwaitResponse{JobID: jobID, Status: JobCompleted, Reply: reply}, http.StatusOK)
	}
}

func (handler *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.chat.history")
	defer span.End()

	sess := session.FromContext(ctx)
	if sess == nil {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	messages, err := handler.coach.History(ctx, sess)
	if err != nil {
		writeError(w, "chat history", err)
		return
	}

	writeJSON(w, HistoryResponse{Messages: messages}, http.StatusOK)
}

func writeJSON(w http.ResponseWriter, resp any, status int) {
	pkg.WriteJSON(w, resp, status)
}

func writeError(w http.ResponseWriter, action string, err error) {
	var (
		validationErr  *upstream.ValidationError
		rateLimitedErr *upstream.RateLimitedError
	)
	switch {
	case errors.Is(err, ErrEmptyMessage):
		http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
	case errors.Is(err, upstream.ErrUnauthorized):
		http.Error(w, "no can do", http.StatusUnauthorized)
	case errors.As(err, &validationErr):
		http.Error(w, validationErr.Error(), http.StatusUnprocessableEntity)
	case errors.As(err, &rateLimitedErr):
		retryAfter := int(math.Ceil(rateLimitedErr.RetryAfter.Seconds()))
		if retryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		}
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	case errors.Is(err, context.Canceled):
		log.Debugf("%s: client went away", action)
	default:
		log.Errorf("%s: %s", action, err)
		http.Error(w, "error, coach unavailable", http.StatusBadGateway)
	}
}
