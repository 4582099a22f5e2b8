package services

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// ViewRegistry keeps one OrdersView per visitor and forgets idle ones.
type ViewRegistry struct {
	mu    sync.Mutex
	views map[string]*registeredView
	ttl   time.Duration
	now   func() time.Time
}

type registeredView struct {
	view     *OrdersView
	lastSeen time.Time
}

func NewViewRegistry(ttl time.Duration) *ViewRegistry {
	return &ViewRegistry{
		views: make(map[string]*registeredView),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns the visitor's view, creating it on first use.
func (r *ViewRegistry) Get(visitorID string) *OrdersView {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.views[visitorID]
	if !ok {
		entry = &registeredView{view: NewOrdersView()}
		r.views[visitorID] = entry
	}
	entry.lastSeen = r.now()
	return entry.view
}

func (r *ViewRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// Sweep evicts views idle for longer than the TTL. Views with a fetch in
// flight are kept.
func (r *ViewRegistry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	evicted := 0
	for id, entry := range r.views {
		if entry.lastSeen.Before(cutoff) && !entry.view.Loading() {
			delete(r.views, id)
			evicted++
		}
	}
	return evicted
}

// Run sweeps every interval until ctx is done.
func (r *ViewRegistry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				log.WithField("evicted", n).Debug("swept idle order views")
			}
		}
	}
}
