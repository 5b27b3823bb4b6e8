package application

import (
	"testing"
	"time"

	"github.com/example/running-order/internal/document"
)

func cachedDocument() document.Document {
	doc := document.Empty()
	doc.Categories = []document.Category{{ID: "cat-1", Name: "Pre-match"}}
	item := document.NewItem("item-1", "cat-1")
	item.AudioSources = []string{"PA"}
	doc.RunningOrder = []document.Item{item}
	return doc
}

func TestDocumentCacheStoresAndReturnsCopies(t *testing.T) {
	current := time.Date(2022, time.November, 20, 16, 0, 0, 0, time.UTC)
	cache := newDocumentCache(time.Minute, 4, func() time.Time { return current })

	original := cachedDocument()
	cache.Store("final", original)

	// Mutating the original should not affect the cached copy.
	original.RunningOrder[0].AudioSources[0] = "mutated"

	cached, ok := cache.Get("final")
	if !ok {
		t.Fatalf("expected cache hit")
	}
	if cached.RunningOrder[0].AudioSources[0] != "PA" {
		t.Fatalf("expected cached audio source to remain unchanged, got %s", cached.RunningOrder[0].AudioSources[0])
	}

	// Mutating the returned document should not be visible on subsequent reads.
	cached.RunningOrder[0].Title = "changed"
	again, ok := cache.Get("final")
	if !ok {
		t.Fatalf("expected cache hit on second read")
	}
	if again.RunningOrder[0].Title != "" {
		t.Fatalf("expected cache to return independent copy, got %q", again.RunningOrder[0].Title)
	}
}

func TestDocumentCacheExpiresEntries(t *testing.T) {
	current := time.Date(2022, time.November, 20, 16, 0, 0, 0, time.UTC)
	cache := newDocumentCache(time.Second, 4, func() time.Time { return current })

	cache.Store("final", cachedDocument())
	if _, ok := cache.Get("final"); !ok {
		t.Fatalf("expected cache hit before expiry")
	}

	current = current.Add(2 * time.Second)
	if _, ok := cache.Get("final"); ok {
		t.Fatalf("expected cache entry to expire")
	}
	if cache.Len() != 0 {
		t.Fatalf("expected expired entry to be removed, have %d", cache.Len())
	}
}

func TestDocumentCacheEvictsLeastRecentlyUsed(t *testing.T) {
	cache := newDocumentCache(time.Minute, 2, time.Now)

	cache.Store("a", cachedDocument())
	cache.Store("b", cachedDocument())
	cache.Get("a")
	cache.Store("c", cachedDocument())

	if _, ok := cache.Get("b"); ok {
		t.Fatalf("expected least recently used entry to be evicted")
	}
	if _, ok := cache.Get("a"); !ok {
		t.Fatalf("expected recently used entry to survive")
	}
}

func TestDocumentCacheInvalidate(t *testing.T) {
	cache := newDocumentCache(time.Minute, 4, time.Now)
	cache.Store("final", cachedDocument())
	cache.Invalidate("final")
	if _, ok := cache.Get("final"); ok {
		t.Fatalf("expected cache to be empty after invalidation")
	}

	var nilCache *documentCache
	nilCache.Store("final", cachedDocument())
	if _, ok := nilCache.Get("final"); ok {
		t.Fatalf("expected nil cache to miss")
	}
}
