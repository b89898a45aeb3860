package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/fitdash/internal/session"
	"github.com/2beens/fitdash/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const maxErrorBodySize = 64 << 10

// Client talks REST/JSON to the fitness backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// ForSession returns a caller that authenticates every request with the session's bearer token.
func (c *Client) ForSession(sess *session.Session) *Caller {
	return &Caller{client: c, sess: sess}
}

// Anonymous returns a caller for the unauthenticated auth endpoints.
func (c *Client) Anonymous() *Caller {
	return &Caller{client: c}
}

type Caller struct {
	client *Client
	sess   *session.Session
}

func (c *Caller) Session() *session.Session {
	return c.sess
}

func (c *Caller) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Caller) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Caller) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

// Do sends one request and decodes a 2xx JSON answer into out (when not nil).
// Non-2xx answers are mapped onto ErrUnauthorized, *ValidationError,
// *RateLimitedError and *ServerError; everything else wraps ErrUnexpected.
func (c *Caller) Do(ctx context.Context, method, path string, query url.Values, body, out any) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "upstream.do")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("upstream.method", method),
		attribute.String("upstream.path", path),
	)

	if c.sess != nil && c.sess.Expired() {
		return ErrUnauthorized
	}

	reqURL := c.client.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: marshal request: %w", ErrUnexpected, err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return fmt.Errorf("%w: new request: %w", ErrUnexpected, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.sess != nil {
		req.Header.Set("Authorization", "Bearer "+c.sess.BearerToken)
	}

	resp, err := c.client.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrUnexpected, method, path, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		if err := resp.Body.Close(); err != nil {
			log.Warnf("upstream: close response body: %s", err)
		}
	}()

	span.SetAttributes(attribute.Int("upstream.status", resp.StatusCode))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: decode response: %w", ErrUnexpected, err)
		}
		return nil
	}

	return c.statusError(resp)
}

type errorBody struct {
	Message    string              `json:"message"`
	Error      string              `json:"error"`
	Errors     map[string][]string `json:"errors"`
	RetryAfter *float64            `json:"retry_after"`
}

func (c *Caller) statusError(resp *http.Response) error {
	var eb errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &eb); err != nil {
			eb.Message = strings.TrimSpace(string(raw))
		}
	}
	message := eb.Message
	if message == "" {
		message = eb.Error
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if c.sess != nil {
			log.Debugf("upstream: bearer rejected, expiring session [%s]", c.sess.ID)
			c.sess.Expire()
		}
		return ErrUnauthorized
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &ValidationError{
			Status:  resp.StatusCode,
			Message: message,
			Fields:  eb.Errors,
		}
	case http.StatusTooManyRequests:
		retryAfter := ParseRetryAfter(resp.Header.Get("Retry-After"), time.Now())
		if retryAfter == 0 && eb.RetryAfter != nil {
			retryAfter = time.Duration(*eb.RetryAfter * float64(time.Second))
		}
		return &RateLimitedError{
			Message:    message,
			RetryAfter: retryAfter,
		}
	default:
		return &ServerError{
			Status:  resp.StatusCode,
			Message: message,
		}
	}
}

// ParseRetryAfter reads a Retry-After header given either in seconds or as an HTTP date.
func ParseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs * float64(time.Second))
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
