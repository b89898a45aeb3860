package activities

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/2beens/fitdash/internal/session"
	"github.com/2beens/fitdash/internal/telemetry/tracing"
	"github.com/2beens/fitdash/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=activities_test

type journalLister interface {
	List(ctx context.Context, owner string, onlyFailed bool, limit int) ([]JournalEntry, error)
}

type JournalListResponse struct {
	Entries []JournalEntry `json:"entries"`
}

// JournalHandler surfaces past sync attempts, so failed persistence can be
// shown to the user after the fact.
type JournalHandler struct {
	journal journalLister
}

func NewJournalHandler(journal journalLister) *JournalHandler {
	return &JournalHandler{
		journal: journal,
	}
}

func (handler *JournalHandler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/sync/journal", handler.HandleList).Methods("GET", "OPTIONS").Name("sync-journal")
}

func (handler *JournalHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sync.journal")
	defer span.End()

	sess := session.FromContext(ctx)
	if sess == nil {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			http.Error(w, "error, limit invalid", http.StatusBadRequest)
			return
		}
	}
	onlyFailed := r.URL.Query().Get("failed") == "true"

	entries, err := handler.journal.List(ctx, Owner(sess), onlyFailed, limit)
	if err != nil {
		log.Errorf("list sync journal: %s", err)
		http.Error(w, "error, failed to get sync journal", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []JournalEntry{}
	}

	respJson, err := json.Marshal(JournalListResponse{Entries: entries})
	if err != nil {
		log.Errorf("marshal sync journal: %s", err)
		http.Error(w, "error, failed to get sync journal", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}
