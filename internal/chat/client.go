package chat

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/2beens/fitdash/internal/session"
	"github.com/2beens/fitdash/internal/telemetry/metrics"
	"github.com/2beens/fitdash/internal/telemetry/tracing"
	"github.com/2beens/fitdash/internal/upstream"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	chatPath    = "/api/chat"
	jobsPath    = "/api/chat/jobs/"
	historyPath = "/api/chat/history"

	maxMessageLength = 4000
)

type sendRequest struct {
	Message string `json:"message"`
}

type sendResponse struct {
	JobID string `json:"job_id"`
}

type historyResponse struct {
	Messages []Message `json:"messages"`
}

// Client talks to the coach chat endpoints. Unlike the activity and auth
// services it returns plain errors.
type Client struct {
	upstream   *upstream.Client
	pollConfig PollConfig
	metrics    *metrics.Manager
}

func NewClient(upstreamClient *upstream.Client, pollConfig PollConfig, metricsManager *metrics.Manager) (*Client, error) {
	if err := pollConfig.Validate(); err != nil {
		return nil, fmt.Errorf("chat poll config: %w", err)
	}
	return &Client{
		upstream:   upstreamClient,
		pollConfig: pollConfig,
		metrics:    metricsManager,
	}, nil
}

// Send queues a message for the coach and returns the job id to await.
func (c *Client) Send(ctx context.Context, sess *session.Session, message string) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "chat.send")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}
	if len(message) > maxMessageLength {
		return "", fmt.Errorf("message longer than %d characters", maxMessageLength)
	}

	var resp sendResponse
	if err := c.upstream.ForSession(sess).Post(ctx, chatPath, sendRequest{Message: message}, &resp); err != nil {
		return "", fmt.Errorf("send chat message: %w", err)
	}
	if resp.JobID == "" {
		return "", fmt.Errorf("%w: chat job id missing", upstream.ErrUnexpected)
	}

	span.SetAttributes(attribute.String("chat.job", resp.JobID))
	return resp.JobID, nil
}

// Job fetches the current state of a chat job once.
func (c *Client) Job(ctx context.Context, sess *session.Session, jobID string) (*Job, error) {
	var job Job
	if err := c.upstream.ForSession(sess).Get(ctx, jobsPath+url.PathEscape(jobID), nil, &job); err != nil {
		return nil, fmt.Errorf("get chat job [%s]: %w", jobID, err)
	}
	if job.ID == "" {
		job.ID = jobID
	}
	return &job, nil
}

// Await polls the job until the coach replied, the job failed, the poll budget
// ran out (ErrAwaitTimeout) or ctx is done. Backend errors other than transient
// 5xx answers stop the wait right away.
func (c *Client) Await(ctx context.Context, sess *session.Session, jobID string) (_ *Message, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "chat.await")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("chat.job", jobID))

	start := time.Now()
	defer func() {
		if c.metrics != nil {
			c.metrics.HistChatAwaitDuration.Observe(time.Since(start).Seconds())
		}
	}()

	attempts := 0
	var reply *Message
	operation := func() error {
		attempts++
		if c.metrics != nil {
			c.metrics.CounterChatPolls.Inc()
		}

		job, err := c.Job(ctx, sess, jobID)
		if err != nil {
			if transient(err) {
				return err
			}
			return backoff.Permanent(err)
		}

		switch job.Status {
		case JobCompleted:
			if job.Reply == nil {
				return backoff.Permanent(fmt.Errorf("%w: completed job without reply", upstream.ErrUnexpected))
			}
			reply = job.Reply
			return nil
		case JobFailed:
			if job.Error != "" {
				return backoff.Permanent(fmt.Errorf("%w: %s", ErrJobFailed, job.Error))
			}
			return backoff.Permanent(ErrJobFailed)
		default:
			return errJobPending
		}
	}

	notify := func(err error, next time.Duration) {
		log.Tracef("chat job [%s] attempt %d: %s, next poll in %s", jobID, attempts, err, next)
	}

	err = backoff.RetryNotify(operation, c.newBackOff(ctx), notify)
	span.SetAttributes(attribute.Int("chat.attempts", attempts))
	switch {
	case err == nil:
		return reply, nil
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case errors.Is(err, errJobPending):
		return nil, fmt.Errorf("%w: job [%s] after %d attempts", ErrAwaitTimeout, jobID, attempts)
	default:
		return nil, err
	}
}

// Ask sends a message and waits for the coach's reply.
func (c *Client) Ask(ctx context.Context, sess *session.Session, message string) (*Message, error) {
	jobID, err := c.Send(ctx, sess, message)
	if err != nil {
		return nil, err
	}
	return c.Await(ctx, sess, jobID)
}

func (c *Client) History(ctx context.Context, sess *session.Session) (_ []Message, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "chat.history")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var resp historyResponse
	if err := c.upstream.ForSession(sess).Get(ctx, historyPath, nil, &resp); err != nil {
		return nil, fmt.Errorf("get chat history: %w", err)
	}
	if resp.Messages == nil {
		resp.Messages = []Message{}
	}
	return resp.Messages, nil
}

func (c *Client) newBackOff(ctx context.Context) backoff.BackOff {
	expBackOff := backoff.NewExponentialBackOff()
	expBackOff.InitialInterval = c.pollConfig.InitialInterval
	expBackOff.MaxInterval = c.pollConfig.MaxInterval
	expBackOff.Multiplier = c.pollConfig.Multiplier
	expBackOff.MaxElapsedTime = c.pollConfig.MaxWait
	expBackOff.Reset()

	// MaxAttempts counts the first poll too
	return backoff.WithContext(
		backoff.WithMaxRetries(expBackOff, uint64(c.pollConfig.MaxAttempts-1)),
		ctx,
	)
}

func transient(err error) bool {
	var serverErr *upstream.ServerError
	if errors.As(err, &serverErr) {
		return serverErr.Status >= 500
	}
	var rateLimitedErr *upstream.RateLimitedError
	return errors.As(err, &rateLimitedErr)
}
