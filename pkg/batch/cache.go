package batch

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/trailhead-diy/retrofit/pkg/transform"
)

// cacheEntry is one persisted transform result.
type cacheEntry struct {
	Content  string   `msgpack:"content"`
	Changed  bool     `msgpack:"changed"`
	Changes  []string `msgpack:"changes"`
	Warnings []string `msgpack:"warnings"`
}

// ResultCache memoizes transform results keyed by a content hash, persisted
// with msgpack. The cache is a pure optimization: a missing or corrupt cache
// file is treated as empty, never as an error.
type ResultCache struct {
	mu      sync.Mutex
	path    string
	entries map[string]cacheEntry
	dirty   bool
}

// OpenResultCache loads the cache at path, or starts empty.
func OpenResultCache(path string) *ResultCache {
	c := &ResultCache{
		path:    path,
		entries: make(map[string]cacheEntry),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	var entries map[string]cacheEntry
	if err := msgpack.Unmarshal(data, &entries); err != nil {
		// Corrupt cache: start over.
		return c
	}
	c.entries = entries

	return c
}

// Key derives the cache key for one source text under the given options.
func Key(source string, opts transform.Options) string {
	h := sha256.New()
	h.Write([]byte(opts.Marker))
	h.Write([]byte{0})
	h.Write([]byte(opts.ProtectedPackage))
	h.Write([]byte{0})
	h.Write([]byte(opts.TypeSuffix))
	h.Write([]byte{0})
	h.Write([]byte(source))
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached result for a key, if present.
func (c *ResultCache) Get(key string) (*transform.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return &transform.Result{
		Content:  e.Content,
		Changed:  e.Changed,
		Changes:  e.Changes,
		Warnings: e.Warnings,
	}, true
}

// Put stores a result under a key.
func (c *ResultCache) Put(key string, res *transform.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		Content:  res.Content,
		Changed:  res.Changed,
		Changes:  res.Changes,
		Warnings: res.Warnings,
	}
	c.dirty = true
}

// Len returns the number of cached results.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Save persists the cache if it changed since loading.
func (c *ResultCache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dirty {
		return nil
	}

	data, err := msgpack.Marshal(c.entries)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return err
	}
	c.dirty = false

	return nil
}
