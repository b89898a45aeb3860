package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitdash/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "fitdash-session||"
	tokensSetKey     = "fitdash-sessions"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// Store keeps dashboard sessions in redis.
type Store struct {
	redisClient *redis.Client
	ttl         time.Duration
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

func NewStore(ttl time.Duration, redisClient *redis.Client) *Store {
	return &Store{
		ttl:            ttl,
		redisClient:    redisClient,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

// Create stores a new session for the given backend bearer token.
func (s *Store) Create(ctx context.Context, bearerToken, email string, createdAt time.Time) (*Session, error) {
	id, err := s.RandStringFunc(35)
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}

	sess := New(id, bearerToken, email, createdAt)
	sessJson, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}

	sessionKey := sessionKeyPrefix + id
	if err := s.redisClient.Set(ctx, sessionKey, string(sessJson), 0).Err(); err != nil {
		return nil, err
	}

	// add token to list of sessions
	if err := s.redisClient.SAdd(ctx, tokensSetKey, id).Err(); err != nil {
		return nil, err
	}

	return sess, nil
}

// Get loads the session; expired sessions are reported, not returned.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	cmd := s.redisClient.Get(ctx, sessionKeyPrefix+id)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	sess := &Session{}
	if err := json.Unmarshal([]byte(cmd.Val()), sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	sess.ID = id

	if time.Since(sess.CreatedAt) > s.ttl {
		return nil, ErrSessionExpired
	}

	return sess, nil
}

// Delete removes the session; false is returned if there was nothing to remove.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.redisClient.Del(ctx, sessionKeyPrefix+id).Result()
	if err != nil {
		return false, err
	}

	// remove token from the list of sessions
	if err := s.redisClient.SRem(ctx, tokensSetKey, id).Err(); err != nil {
		return false, err
	}

	return deleted > 0, nil
}

// ScanAndClean will run through all sessions, check the TTL, and clean them if old.
// The ids of the removed sessions are returned.
func (s *Store) ScanAndClean(ctx context.Context) []string {
	cmd := s.redisClient.SMembers(ctx, tokensSetKey)
	if err := cmd.Err(); err != nil {
		log.Errorf("!!! session store, scan and clean, get sessions: %s", err)
		return nil
	}

	ids := cmd.Val()
	if len(ids) == 0 {
		log.Debugln("=> session store, scan and clean abort, no sessions")
		return nil
	}

	log.Infof("=> session store, scan and clean [%d sessions] start ...", len(ids))
	var toRemove []string
	for _, id := range ids {
		_, err := s.Get(ctx, id)
		switch {
		case err == nil:
			continue
		case errors.Is(err, ErrSessionExpired), errors.Is(err, ErrSessionNotFound):
			toRemove = append(toRemove, id)
		default:
			log.Errorf("=> session store, scan and clean session %s: %s", id, err)
		}
	}

	var removed []string
	for _, id := range toRemove {
		log.Debugf("=>\twill clean the session: %s", id)
		if _, err := s.Delete(ctx, id); err != nil {
			log.Errorf("=> session store, clean session %s: %s", id, err)
			continue
		}
		removed = append(removed, id)
	}
	return removed
}
