package application

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/example/running-order/internal/document"
)

// documentCache keeps recently migrated documents so repeated reads of an
// unchanged programme skip decoding and migration. Entries expire after ttl
// and are dropped on every write through the service.
type documentCache struct {
	now     func() time.Time
	ttl     time.Duration
	entries *lru.Cache[string, documentCacheEntry]
}

type documentCacheEntry struct {
	doc       document.Document
	expiresAt time.Time
}

func newDocumentCache(ttl time.Duration, maxEntries int, now func() time.Time) *documentCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 128
	}
	if now == nil {
		now = time.Now
	}
	entries, err := lru.New[string, documentCacheEntry](maxEntries)
	if err != nil {
		// lru.New only fails for non-positive sizes.
		panic(err)
	}
	return &documentCache{now: now, ttl: ttl, entries: entries}
}

func (c *documentCache) Get(key string) (document.Document, bool) {
	if c == nil {
		return document.Document{}, false
	}
	entry, ok := c.entries.Get(key)
	if !ok {
		return document.Document{}, false
	}
	if c.now().After(entry.expiresAt) {
		c.entries.Remove(key)
		return document.Document{}, false
	}
	return entry.doc.Clone(), true
}

func (c *documentCache) Store(key string, doc document.Document) {
	if c == nil {
		return
	}
	c.entries.Add(key, documentCacheEntry{doc: doc.Clone(), expiresAt: c.now().Add(c.ttl)})
}

func (c *documentCache) Invalidate(key string) {
	if c == nil {
		return
	}
	c.entries.Remove(key)
}

func (c *documentCache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}
