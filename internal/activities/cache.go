package activities

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/2beens/fitdash/internal/calendar"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const DefaultCacheTTLSeconds = 60

// retrieveCache holds retrieve answers per owner and date range.
// The owner key set is tracked so a mutation can drop every range of that owner.
type retrieveCache struct {
	mu         sync.Mutex
	cache      *freecache.Cache
	ttlSeconds int
	keys       map[string]map[string]struct{}
}

func newRetrieveCache(cache *freecache.Cache, ttlSeconds int) *retrieveCache {
	if cache == nil {
		return nil
	}
	return &retrieveCache{
		cache:      cache,
		ttlSeconds: ttlSeconds,
		keys:       make(map[string]map[string]struct{}),
	}
}

func cacheKey(owner string, rng calendar.Range) string {
	return owner + "|" + rng.String()
}

func (rc *retrieveCache) get(owner string, rng calendar.Range) ([]Activity, bool) {
	if rc == nil {
		return nil, false
	}
	raw, err := rc.cache.Get([]byte(cacheKey(owner, rng)))
	if err != nil {
		if !errors.Is(err, freecache.ErrNotFound) {
			log.Warnf("activities cache get: %s", err)
		}
		return nil, false
	}
	var acts []Activity
	if err := json.Unmarshal(raw, &acts); err != nil {
		log.Warnf("activities cache unmarshal: %s", err)
		return nil, false
	}
	return acts, true
}

func (rc *retrieveCache) set(owner string, rng calendar.Range, acts []Activity) {
	if rc == nil {
		return
	}
	raw, err := json.Marshal(acts)
	if err != nil {
		log.Warnf("activities cache marshal: %s", err)
		return
	}

	key := cacheKey(owner, rng)
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if err := rc.cache.Set([]byte(key), raw, rc.ttlSeconds); err != nil {
		log.Warnf("activities cache set [%s]: %s", key, err)
		return
	}
	if rc.keys[owner] == nil {
		rc.keys[owner] = make(map[string]struct{})
	}
	rc.keys[owner][key] = struct{}{}
}

func (rc *retrieveCache) invalidate(owner string) {
	if rc == nil {
		return
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()
	for key := range rc.keys[owner] {
		rc.cache.Del([]byte(key))
	}
	delete(rc.keys, owner)
}
