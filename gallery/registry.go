package gallery

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNoGallery is returned by With for a session id with no live gallery.
var ErrNoGallery = errors.New("gallery: no gallery for session")

// Registry keeps one Gallery per visitor, keyed by an opaque session id.
// Idle galleries are dropped by Sweep. At most limit galleries are live;
// opening one more evicts the least recently used.
type Registry struct {
	source func() []Project
	ttl    time.Duration
	limit  int
	now    func() time.Time

	mu        sync.Mutex
	instances map[string]*instance
}

type instance struct {
	mu       sync.Mutex
	gallery  *Gallery
	lastSeen time.Time
}

// NewRegistry returns a registry whose new galleries are built over the
// project list returned by source at creation time. A limit of zero or
// less means no limit.
func NewRegistry(source func() []Project, ttl time.Duration, limit int) *Registry {
	return &Registry{
		source:    source,
		ttl:       ttl,
		limit:     limit,
		now:       time.Now,
		instances: make(map[string]*instance),
	}
}

// Open runs fn against the gallery for id while holding that gallery's
// lock. An empty or unknown id gets a fresh gallery under a new id, which
// is returned so the caller can hand it back to the visitor.
func (r *Registry) Open(id string, fn func(*Gallery) error) (string, error) {
	return r.run(r.getOrCreate(id), fn)
}

// With is like Open but never creates a gallery: an empty or unknown id
// yields ErrNoGallery and fn does not run.
func (r *Registry) With(id string, fn func(*Gallery) error) error {
	e, ok := r.lookup(id)
	if !ok {
		return ErrNoGallery
	}
	_, err := r.run(e, fn)
	return err
}

type entry struct {
	id   string
	inst *instance
}

func (r *Registry) run(e entry, fn func(*Gallery) error) (string, error) {
	e.inst.mu.Lock()
	defer e.inst.mu.Unlock()
	return e.id, fn(e.inst.gallery)
}

func (r *Registry) lookup(id string) (entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inst, ok := r.instances[id]
	if !ok || id == "" {
		return entry{}, false
	}
	inst.lastSeen = r.now()
	return entry{id, inst}, true
}

func (r *Registry) getOrCreate(id string) entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if inst, ok := r.instances[id]; ok && id != "" {
		inst.lastSeen = now
		return entry{id, inst}
	}
	if r.limit > 0 && len(r.instances) >= r.limit {
		r.evictOldest()
	}
	id = uuid.NewString()
	inst := &instance{gallery: New(r.source()), lastSeen: now}
	r.instances[id] = inst
	return entry{id, inst}
}

// evictOldest drops the least recently used gallery. r.mu must be held.
func (r *Registry) evictOldest() {
	var (
		oldest string
		seen   time.Time
	)
	for id, inst := range r.instances {
		if oldest == "" || inst.lastSeen.Before(seen) {
			oldest, seen = id, inst.lastSeen
		}
	}
	delete(r.instances, oldest)
}

// Remove discards the gallery for id, if any.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.instances, id)
}

// Len returns the number of live galleries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.instances)
}

// Expire drops galleries idle for longer than the registry TTL and returns
// how many were removed.
func (r *Registry) Expire() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	n := 0
	for id, inst := range r.instances {
		if inst.lastSeen.Before(cutoff) {
			delete(r.instances, id)
			n++
		}
	}
	return n
}

// Sweep calls Expire every interval until ctx is cancelled.
func (r *Registry) Sweep(ctx context.Context, every time.Duration, onExpire func(n int)) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := r.Expire(); n > 0 && onExpire != nil {
				onExpire(n)
			}
		}
	}
}
