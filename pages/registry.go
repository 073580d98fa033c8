// Package pages holds the per-page controllers. Every page load gets its own
// controller, registered under a random page id, and every gesture on that
// page is routed back to it. Controllers never share state.
package pages

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase/tools/store"
)

const keyPrefix = "page:"

// DefaultTTL is how long an idle page controller is kept.
const DefaultTTL = 2 * time.Hour

type entry struct {
	page     any
	lastSeen atomic.Int64
}

// Registry maps page ids to controllers. It lives inside the application
// store so it shares the app's lifetime.
type Registry struct {
	store *store.Store[string, any]
	ttl   time.Duration
	now   func() time.Time
}

// NewRegistry creates a registry on top of s. A non-positive ttl means
// DefaultTTL.
func NewRegistry(s *store.Store[string, any], ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Registry{store: s, ttl: ttl, now: time.Now}
}

// Register stores page under a fresh id and returns the id.
func (r *Registry) Register(page any) string {
	id := uuid.NewString()
	e := &entry{page: page}
	e.lastSeen.Store(r.now().UnixNano())
	r.store.Set(keyPrefix+id, e)
	return id
}

// Lookup returns the controller registered under id when it has type T.
// A successful lookup keeps the page alive.
func Lookup[T any](r *Registry, id string) (T, bool) {
	var zero T
	if id == "" {
		return zero, false
	}
	raw, ok := r.store.GetOk(keyPrefix + id)
	if !ok {
		return zero, false
	}
	e, ok := raw.(*entry)
	if !ok {
		return zero, false
	}
	page, ok := e.page.(T)
	if !ok {
		return zero, false
	}
	e.lastSeen.Store(r.now().UnixNano())
	return page, true
}

// Remove discards the controller of a closed page. It reports whether one
// was registered.
func (r *Registry) Remove(id string) bool {
	if id == "" || !r.store.Has(keyPrefix+id) {
		return false
	}
	r.store.Remove(keyPrefix + id)
	return true
}

// Sweep drops every controller idle for longer than the ttl and returns how
// many were dropped.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.ttl).UnixNano()
	removed := 0
	for key, raw := range r.store.GetAll() {
		if !strings.HasPrefix(key, keyPrefix) {
			continue
		}
		e, ok := raw.(*entry)
		if !ok || e.lastSeen.Load() < cutoff {
			r.store.Remove(key)
			removed++
		}
	}
	return removed
}

// Len is the number of live controllers.
func (r *Registry) Len() int {
	n := 0
	for key := range r.store.GetAll() {
		if strings.HasPrefix(key, keyPrefix) {
			n++
		}
	}
	return n
}
