package activities

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/2beens/fitdash/internal/calendar"
	"github.com/2beens/fitdash/internal/session"
	"github.com/2beens/fitdash/internal/telemetry/metrics"
	"github.com/2beens/fitdash/internal/upstream"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const activitiesPath = "/api/activities"

//go:generate mockgen -source=$GOFILE -destination=client_mocks_test.go -package=activities_test

type journalRepo interface {
	Add(ctx context.Context, entry JournalEntry) (*JournalEntry, error)
}

// Client is the activity sync service: retrieve, upsert and delete against
// the fitness backend. Mutations are journaled and never retried.
type Client struct {
	upstream *upstream.Client
	journal  journalRepo
	cache    *retrieveCache
	metrics  *metrics.Manager
	now      func() time.Time
}

// NewClient creates the sync client. journal and cache may be nil.
func NewClient(
	upstreamClient *upstream.Client,
	journal journalRepo,
	cache *freecache.Cache,
	metricsManager *metrics.Manager,
) *Client {
	return &Client{
		upstream: upstreamClient,
		journal:  journal,
		cache:    newRetrieveCache(cache, DefaultCacheTTLSeconds),
		metrics:  metricsManager,
		now:      time.Now,
	}
}

// Owner is the key journal entries and cached ranges are kept under.
func Owner(sess *session.Session) string {
	if sess.Email != "" {
		return sess.Email
	}
	return sess.ID
}

func (c *Client) Retrieve(ctx context.Context, sess *session.Session, rng calendar.Range) ([]Activity, upstream.Result) {
	owner := Owner(sess)
	if acts, ok := c.cache.get(owner, rng); ok {
		c.cacheMetric("hit")
		return acts, upstream.OK(http.StatusOK)
	}
	c.cacheMetric("miss")

	query := url.Values{}
	query.Set("from", rng.From.String())
	query.Set("to", rng.To.String())

	var acts []Activity
	err := c.upstream.ForSession(sess).Get(ctx, activitiesPath, query, &acts)
	res := upstream.ToResult(err)
	c.syncMetric("retrieve", res)
	if err != nil {
		log.Debugf("activities retrieve [%s] failed: %s", rng, err)
		return nil, res
	}

	if acts == nil {
		acts = []Activity{}
	}
	c.cache.set(owner, rng, acts)
	return acts, res
}

// Upsert creates or updates the given activities. The backend answers with the
// stored activities, new ones carrying their ids.
func (c *Client) Upsert(ctx context.Context, sess *session.Session, acts ...Activity) ([]Activity, upstream.Result) {
	if len(acts) == 0 {
		return []Activity{}, upstream.OK(http.StatusOK)
	}

	var stored []Activity
	err := c.upstream.ForSession(sess).Put(ctx, activitiesPath, acts, &stored)
	res := upstream.ToResult(err)
	c.cache.invalidate(Owner(sess))
	c.syncMetric(OpUpsert, res)
	c.record(ctx, sess, JournalEntry{Op: OpUpsert, ActivityIDs: IDs(acts), Pending: Pending(acts)}, res)
	if err != nil {
		log.Debugf("activities upsert of %d failed: %s", len(acts), err)
		return nil, res
	}

	return stored, res
}

type deleteRequest struct {
	IDs []int64 `json:"ids"`
}

func (c *Client) Delete(ctx context.Context, sess *session.Session, ids []int64) upstream.Result {
	if len(ids) == 0 {
		return upstream.OK(http.StatusOK)
	}

	err := c.upstream.ForSession(sess).Do(ctx, http.MethodDelete, activitiesPath, nil, deleteRequest{IDs: ids}, nil)
	res := upstream.ToResult(err)
	c.cache.invalidate(Owner(sess))
	c.syncMetric(OpDelete, res)
	c.record(ctx, sess, JournalEntry{Op: OpDelete, ActivityIDs: ids}, res)
	if err != nil {
		log.Debugf("activities delete %v failed: %s", ids, err)
	}

	return res
}

func (c *Client) record(ctx context.Context, sess *session.Session, entry JournalEntry, res upstream.Result) {
	if c.journal == nil {
		return
	}
	entry.Owner = Owner(sess)
	entry.Success = res.Success
	entry.Status = res.Status
	entry.Message = res.Message
	entry.RetryAfter = res.RetryAfter
	entry.CreatedAt = c.now()
	if _, err := c.journal.Add(ctx, entry); err != nil {
		log.Errorf("sync journal [%s]: %s", entry.Op, err)
	}
}

func (c *Client) syncMetric(op string, res upstream.Result) {
	if c.metrics == nil {
		return
	}
	c.metrics.CounterSyncOps.WithLabelValues(op, OutcomeLabel(res)).Inc()
}

func (c *Client) cacheMetric(result string) {
	if c.metrics == nil || c.cache == nil {
		return
	}
	c.metrics.CounterActivitiesCache.WithLabelValues(result).Inc()
}

func OutcomeLabel(res upstream.Result) string {
	switch {
	case res.Success:
		return "ok"
	case res.Status == http.StatusUnauthorized:
		return "unauthorized"
	case res.Status == http.StatusTooManyRequests:
		return "rate_limited"
	case res.Status == http.StatusBadRequest, res.Status == http.StatusUnprocessableEntity:
		return "validation"
	case res.Status == 0:
		return "unexpected"
	default:
		return "server_error"
	}
}
