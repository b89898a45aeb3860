package upstream

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/2beens/fitdash/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoBody struct {
	Name string `json:"name"`
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", srv.Client())
}

func TestCaller_Do_OK(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/things", r.URL.Path)
		assert.Equal(t, "2024-05-01", r.URL.Query().Get("from"))
		assert.Equal(t, "Bearer secret-bearer", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"squat"}`))
	})

	sess := session.New("s1", "secret-bearer", "", time.Now())
	var out echoBody
	err := client.ForSession(sess).Get(context.Background(), "/api/things", url.Values{"from": {"2024-05-01"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, "squat", out.Name)
	assert.False(t, sess.Expired())
}

func TestCaller_Do_PostsJSON(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"lunge"}`, string(body))
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.Anonymous().Post(context.Background(), "/api/auth/login", echoBody{Name: "lunge"}, &echoBody{})
	require.NoError(t, err)
}

func TestCaller_Do_Unauthorized_ExpiresSession(t *testing.T) {
	var calls int32
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	})

	sess := session.New("s1", "stale", "", time.Now())
	var hookCalled bool
	sess.OnExpire(func(*session.Session) { hookCalled = true })

	caller := client.ForSession(sess)
	err := caller.Get(context.Background(), "/api/activities", nil, nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.True(t, sess.Expired())
	assert.True(t, hookCalled)

	// no more calls go out for an expired session
	err = caller.Get(context.Background(), "/api/activities", nil, nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCaller_Do_ErrorMapping(t *testing.T) {
	testCases := []struct {
		name    string
		status  int
		header  map[string]string
		body    string
		checkFn func(t *testing.T, err error)
	}{
		{
			name:   "validation",
			status: http.StatusUnprocessableEntity,
			body:   `{"message":"invalid data","errors":{"email":["already taken"]}}`,
			checkFn: func(t *testing.T, err error) {
				var vErr *ValidationError
				require.True(t, errors.As(err, &vErr))
				assert.Equal(t, "invalid data", vErr.Message)
				assert.Equal(t, []string{"already taken"}, vErr.Fields["email"])
				assert.Contains(t, vErr.Error(), "email: already taken")
			},
		},
		{
			name:   "bad request plain text",
			status: http.StatusBadRequest,
			body:   "missing date",
			checkFn: func(t *testing.T, err error) {
				var vErr *ValidationError
				require.True(t, errors.As(err, &vErr))
				assert.Equal(t, http.StatusBadRequest, vErr.Status)
				assert.Equal(t, "missing date", vErr.Message)
			},
		},
		{
			name:   "rate limited header",
			status: http.StatusTooManyRequests,
			header: map[string]string{"Retry-After": "30"},
			checkFn: func(t *testing.T, err error) {
				var rlErr *RateLimitedError
				require.True(t, errors.As(err, &rlErr))
				assert.Equal(t, 30*time.Second, rlErr.RetryAfter)
			},
		},
		{
			name:   "rate limited body",
			status: http.StatusTooManyRequests,
			body:   `{"message":"slow down","retry_after":12}`,
			checkFn: func(t *testing.T, err error) {
				var rlErr *RateLimitedError
				require.True(t, errors.As(err, &rlErr))
				assert.Equal(t, 12*time.Second, rlErr.RetryAfter)
				assert.Equal(t, "slow down", rlErr.Message)
			},
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   `{"error":"db down"}`,
			checkFn: func(t *testing.T, err error) {
				var sErr *ServerError
				require.True(t, errors.As(err, &sErr))
				assert.Equal(t, http.StatusInternalServerError, sErr.Status)
				assert.Equal(t, "db down", sErr.Message)
			},
		},
		{
			name:   "broken json on success",
			status: http.StatusOK,
			body:   `{"name":`,
			checkFn: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrUnexpected)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tc.header {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			sess := session.New("s1", "bearer", "", time.Now())
			err := client.ForSession(sess).Get(context.Background(), "/api/activities", nil, &echoBody{})
			require.Error(t, err)
			tc.checkFn(t, err)
			assert.False(t, sess.Expired())
		})
	}
}

func TestCaller_Do_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := NewClient(srv.URL, srv.Client())
	srv.Close()

	err := client.Anonymous().Get(context.Background(), "/api/activities", nil, nil)
	assert.ErrorIs(t, err, ErrUnexpected)
	assert.Equal(t, msgUnexpected, ToResult(err).Message)
}

func TestCaller_Do_ContextCanceled(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.Anonymous().Get(ctx, "/api/chat/jobs/1", nil, nil)
	assert.ErrorIs(t, err, ErrUnexpected)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2024, 5, 13, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Duration(0), ParseRetryAfter("", now))
	assert.Equal(t, 5*time.Second, ParseRetryAfter("5", now))
	assert.Equal(t, 1500*time.Millisecond, ParseRetryAfter("1.5", now))
	assert.Equal(t, time.Duration(0), ParseRetryAfter("-3", now))
	assert.Equal(t, 90*time.Second, ParseRetryAfter(now.Add(90*time.Second).Format(http.TimeFormat), now))
	assert.Equal(t, time.Duration(0), ParseRetryAfter("garbage", now))
}
