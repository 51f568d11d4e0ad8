package web

import (
	"sync"
	"time"

	"github.com/gdresist/optimizer/internal/services/web/controller"
)

const (
	defaultPageIdleTimeout = 30 * time.Minute
	defaultMaxPages        = 1000
)

type pageEntry struct {
	c       *controller.Controller
	touched time.Time
}

// pageTable holds the live controller of each client. A page load replaces
// the previous one. Pages idle for longer than idle are dropped, and the
// table never holds more than limit pages; the least recently used page goes
// first.
type pageTable struct {
	mu    sync.Mutex
	pages map[string]pageEntry
	idle  time.Duration
	limit int
	now   func() time.Time
}

func newPageTable(idle time.Duration, limit int) *pageTable {
	if idle <= 0 {
		idle = defaultPageIdleTimeout
	}
	if limit <= 0 {
		limit = defaultMaxPages
	}
	return &pageTable{
		pages: map[string]pageEntry{},
		idle:  idle,
		limit: limit,
		now:   time.Now,
	}
}

func (t *pageTable) get(clientID string) (*controller.Controller, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.pages[clientID]
	if !ok {
		return nil, false
	}
	now := t.now()
	if now.Sub(e.touched) > t.idle {
		delete(t.pages, clientID)
		return nil, false
	}
	e.touched = now
	t.pages[clientID] = e
	return e.c, true
}

// put stores c for clientID and returns how many other pages were evicted to
// make room.
func (t *pageTable) put(clientID string, c *controller.Controller) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	evicted := 0
	if _, ok := t.pages[clientID]; !ok {
		evicted = t.sweepLocked(now.Add(-t.idle))
		for len(t.pages) >= t.limit {
			t.evictOldestLocked()
			evicted++
		}
	}
	t.pages[clientID] = pageEntry{c: c, touched: now}
	return evicted
}

// sweep drops every page idle for longer than the idle timeout.
func (t *pageTable) sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sweepLocked(t.now().Add(-t.idle))
}

func (t *pageTable) sweepLocked(cutoff time.Time) int {
	n := 0
	for id, e := range t.pages {
		if e.touched.Before(cutoff) {
			delete(t.pages, id)
			n++
		}
	}
	return n
}

func (t *pageTable) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
		found    bool
	)
	for id, e := range t.pages {
		if !found || e.touched.Before(oldest) {
			oldestID, oldest, found = id, e.touched, true
		}
	}
	if found {
		delete(t.pages, oldestID)
	}
}

func (t *pageTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pages)
}
