package chat_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/2beens/fitdash/internal/chat"
	"github.com/2beens/fitdash/internal/session"
	"github.com/2beens/fitdash/internal/upstream"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newHandlerRouter(t *testing.T) (*mux.Router, *Mockcoach) {
	t.Helper()
	ctrl := gomock.NewController(t)
	coach := NewMockcoach(ctrl)
	r := mux.NewRouter()
	chat.NewHandler(coach).SetupRoutes(r)
	return r, coach
}

func withSession(req *http.Request, sess *session.Session) *http.Request {
	return req.WithContext(session.NewContext(req.Context(), sess))
}

func TestHandler_HandleSend(t *testing.T) {
	r, coach := newHandlerRouter(t)
	sess := testSession()
	reply := &chat.Message{Role: "assistant", Content: "Rest today.", CreatedAt: time.Date(2024, 5, 13, 10, 0, 0, 0, time.UTC)}

	coach.EXPECT().Send(gomock.Any(), sess, "Should I train?").Return("job-7", nil).Times(1)
	coach.EXPECT().Await(gomock.Any(), sess, "job-7").Return(reply, nil).Times(1)

	req := withSession(httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"Should I train?"}`)), sess)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"job_id":"job-7","status":"completed","reply":{"role":"assistant","content":"Rest today.","created_at":"2024-05-13T10:00:00Z"}}`, rr.Body.String())
}

func TestHandler_HandleSend_StillPending(t *testing.T) {
	r, coach := newHandlerRouter(t)
	sess := testSession()

	coach.EXPECT().Send(gomock.Any(), sess, "Long question").Return("job-8", nil).Times(1)
	coach.EXPECT().Await(gomock.Any(), sess, "job-8").Return(nil, fmt.Errorf("%w: job [job-8]", chat.ErrAwaitTimeout)).Times(1)

	req := withSession(httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"Long question"}`)), sess)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusAccepted, rr.Code)
	assert.JSONEq(t, `{"job_id":"job-8","status":"pending"}`, rr.Body.String())

	// come back for it later
	coach.EXPECT().Await(gomock.Any(), sess, "job-8").Return(&chat.Message{Role: "assistant", Content: "Done."}, nil).Times(1)
	req = withSession(httptest.NewRequest(http.MethodGet, "/chat/jobs/job-8", nil), sess)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"content":"Done."`)
}

func TestHandler_HandleSend_Errors(t *testing.T) {
	r, coach := newHandlerRouter(t)
	sess := testSession()

	// no session
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"x"}`)))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// bad body
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, withSession(httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{`)), sess))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	for _, tc := range []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"empty", chat.ErrEmptyMessage, http.StatusBadRequest},
		{"unauthorized", fmt.Errorf("send: %w", upstream.ErrUnauthorized), http.StatusUnauthorized},
		{"validation", &upstream.ValidationError{Status: 422, Message: "too long"}, http.StatusUnprocessableEntity},
		{"rate limited", &upstream.RateLimitedError{RetryAfter: 12 * time.Second}, http.StatusTooManyRequests},
		{"server", &upstream.ServerError{Status: 500, Message: "boom"}, http.StatusBadGateway},
	} {
		t.Run(tc.name, func(t *testing.T) {
			coach.EXPECT().Send(gomock.Any(), sess, "x").Return("", tc.err).Times(1)
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, withSession(httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"x"}`)), sess))
			assert.Equal(t, tc.wantStatus, rr.Code)
			if tc.wantStatus == http.StatusTooManyRequests {
				assert.Equal(t, "12", rr.Header().Get("Retry-After"))
			}
		})
	}

	// job failure after a successful send
	coach.EXPECT().Send(gomock.Any(), sess, "y").Return("job-9", nil).Times(1)
	coach.EXPECT().Await(gomock.Any(), sess, "job-9").Return(nil, chat.ErrJobFailed).Times(1)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, withSession(httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"y"}`)), sess))
	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestHandler_HandleHistory(t *testing.T) {
	r, coach := newHandlerRouter(t)
	sess := testSession()

	coach.EXPECT().History(gomock.Any(), sess).Return([]chat.Message{{Role: "user", Content: "Hi"}}, nil).Times(1)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, withSession(httptest.NewRequest(http.MethodGet, "/chat/history", nil), sess))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"content":"Hi"`)

	coach.EXPECT().History(gomock.Any(), sess).Return(nil, context.Canceled).Times(1)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, withSession(httptest.NewRequest(http.MethodGet, "/chat/history", nil), sess))
	assert.Equal(t, http.StatusOK, rr.Code, "nothing is written for a client that went away")
	assert.Empty(t, rr.Body.String())
}
