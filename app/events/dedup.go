package events

import (
	"sync"
	"time"

	cache "github.com/go-pkgz/expirable-cache/v3"
)

// Dedup remembers handled objects for a while. Nil Dedup is allowed and never reports duplicates.
type Dedup struct {
	mu    sync.Mutex
	ttl   time.Duration
	cache cache.Cache[string, struct{}]
}

// NewDedup makes Dedup keeping up to maxKeys objects for ttl. Returns nil if ttl is 0.
func NewDedup(ttl time.Duration, maxKeys int) *Dedup {
	if ttl <= 0 {
		return nil
	}
	c := cache.NewCache[string, struct{}]().WithTTL(ttl)
	if maxKeys > 0 {
		c = c.WithMaxKeys(maxKeys)
	}
	return &Dedup{ttl: ttl, cache: c}
}

// Seen reports if the object was already seen and marks it as seen otherwise
func (d *Dedup) Seen(ref ObjectRef) bool {
	if d == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	key := d.key(ref)
	if _, ok := d.cache.Get(key); ok {
		return true
	}
	d.cache.Set(key, struct{}{}, d.ttl)
	return false
}

// Forget removes the object, so it can be handled again
func (d *Dedup) Forget(ref ObjectRef) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cache.Invalidate(d.key(ref))
}

func (d *Dedup) key(ref ObjectRef) string {
	return ref.Bucket + "/" + ref.Key + "@" + ref.ETag
}
