package previewcache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"
)

const (
	// storageKey is the single durable blob holding all cached entries.
	storageKey = "movie-image-cache"

	// TTL is how long a cached resolution (positive or negative) stays valid.
	TTL = 7 * 24 * time.Hour

	// fallbackKeepEntries is how many most-recent entries survive a
	// quota-exceeded prune.
	fallbackKeepEntries = 100
)

// Entry is the serialized form of one cached resolution. A nil URL is a
// legitimate terminal value meaning "resolved, no preview image exists" —
// distinct from the key being absent.
type Entry struct {
	URL       *string `json:"url"`
	Timestamp int64   `json:"timestamp"` // milliseconds since epoch
}

// Source resolves a preview image over the network, typically by calling
// the server's link-preview endpoint.
type Source interface {
	GetImage(ctx context.Context, link string) (*string, error)
}

// Cache is a two-tier preview-image cache: a process-lifetime in-memory map
// in front of a durable Storage with a 7-day TTL. Lookups that miss both
// tiers go to the Source, and whatever comes back — including a negative
// result or an outright network failure — is cached so the same link is not
// retried on every render within the TTL window.
//
// Keys are the raw link strings exactly as supplied; no normalization is
// applied, so trivially different spellings of the same URL cache separately.
//
// Concurrent lookups for the same link are not collapsed into a single
// in-flight request; each performs its own round trip until one of them
// populates the cache.
type Cache struct {
	mu         sync.Mutex
	mem        map[string]*string
	storage    Storage
	source     Source
	ttl        time.Duration
	memoryOnly bool
	now        func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the cache's time source.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithTTL overrides the default 7-day TTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// New creates a Cache and promotes unexpired durable entries into memory.
// Expired entries are dropped silently. A nil storage yields a memory-only
// cache.
func New(storage Storage, source Source, opts ...Option) *Cache {
	c := &Cache{
		mem:     make(map[string]*string),
		storage: storage,
		source:  source,
		ttl:     TTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if storage == nil {
		c.memoryOnly = true
		return c
	}
	c.loadFromStorage()
	return c
}

// GetImage returns the cached preview image for link, resolving through the
// Source on a miss. It never returns an error to the caller: a failed
// resolution is cached and reported as a nil image.
func (c *Cache) GetImage(ctx context.Context, link string) *string {
	c.mu.Lock()
	if cached, ok := c.mem[link]; ok {
		c.mu.Unlock()
		return cached
	}
	c.mu.Unlock()

	image, err := c.source.GetImage(ctx, link)
	if err != nil {
		// A failed round trip caches the same as "no image": retrying a
		// broken link on every lookup would hammer the endpoint.
		image = nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.mem[link] = image
	c.persist(link, image)
	return image
}

// Contains reports whether link has a cached resolution, distinguishing a
// cached-negative entry from an absent one.
func (c *Cache) Contains(link string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.mem[link]
	return ok
}

// loadFromStorage reads the durable blob, dropping entries past the TTL.
func (c *Cache) loadFromStorage() {
	raw, ok, err := c.storage.Get(storageKey)
	if err != nil || !ok {
		return
	}

	var entries map[string]Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		slog.Warn("discarding unreadable preview cache", "error", err)
		return
	}

	nowMS := c.now().UnixMilli()
	ttlMS := c.ttl.Milliseconds()
	for link, e := range entries {
		if nowMS-e.Timestamp < ttlMS {
			c.mem[link] = e.URL
		}
	}
}

// persist writes one entry through to durable storage, pruning expired
// entries on the way. Called with c.mu held.
func (c *Cache) persist(link string, image *string) {
	if c.memoryOnly {
		return
	}

	entries := c.readEntries()
	nowMS := c.now().UnixMilli()
	ttlMS := c.ttl.Milliseconds()

	entries[link] = Entry{URL: image, Timestamp: nowMS}

	// Bounded growth: prune expired entries on every write.
	for k, e := range entries {
		if nowMS-e.Timestamp >= ttlMS {
			delete(entries, k)
		}
	}

	if err := c.writeEntries(entries); err == nil {
		return
	} else if !errors.Is(err, ErrQuotaExceeded) {
		slog.Warn("preview cache write failed", "error", err)
		return
	}

	// Quota exceeded: keep only the most recent entries and retry once.
	entries = mostRecent(entries, fallbackKeepEntries)
	entries[link] = Entry{URL: image, Timestamp: nowMS}
	if err := c.writeEntries(entries); err != nil {
		slog.Warn("preview cache storage full, continuing in memory only")
		c.memoryOnly = true
	}
}

func (c *Cache) readEntries() map[string]Entry {
	entries := make(map[string]Entry)
	raw, ok, err := c.storage.Get(storageKey)
	if err != nil || !ok {
		return entries
	}
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return make(map[string]Entry)
	}
	return entries
}

func (c *Cache) writeEntries(entries map[string]Entry) error {
	encoded, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.storage.Set(storageKey, string(encoded))
}

// mostRecent returns the n newest-by-timestamp entries.
func mostRecent(entries map[string]Entry, n int) map[string]Entry {
	type keyed struct {
		link  string
		entry Entry
	}
	all := make([]keyed, 0, len(entries))
	for link, e := range entries {
		all = append(all, keyed{link, e})
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].entry.Timestamp > all[j].entry.Timestamp
	})
	if len(all) > n {
		all = all[:n]
	}
	out := make(map[string]Entry, len(all))
	for _, k := range all {
		out[k.link] = k.entry
	}
	return out
}
