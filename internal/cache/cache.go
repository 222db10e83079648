// Package cache stores per-file extraction results between runs.
//
// Entries live as JSON files under the cache directory, keyed by the xxhash
// of the entry key, with a bounded in-memory LRU in front. Each entry records
// the BLAKE3 hash of the source content it was computed from, so a changed
// file never returns a stale result.
package cache

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/zeebo/blake3"
)

// DefaultMemoryEntries bounds the in-memory tier.
const DefaultMemoryEntries = 4096

// Cache provides file-based caching for analysis results.
type Cache struct {
	dir     string
	ttl     time.Duration
	enabled bool
	mem     *lru.Cache[uint64, Entry]
	now     func() time.Time
}

// Entry represents a cached analysis result.
type Entry struct {
	Key       string    `json:"key"`
	Hash      string    `json:"hash"`
	Timestamp time.Time `json:"timestamp"`
	Data      []byte    `json:"data"`
}

// New creates a new cache instance. A disabled cache accepts every call and
// stores nothing.
func New(dir string, ttlHours int, enabled bool) (*Cache, error) {
	if !enabled {
		return &Cache{enabled: false, now: time.Now}, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	mem, err := lru.New[uint64, Entry](DefaultMemoryEntries)
	if err != nil {
		return nil, err
	}

	return &Cache{
		dir:     dir,
		ttl:     time.Duration(ttlHours) * time.Hour,
		enabled: true,
		mem:     mem,
		now:     time.Now,
	}, nil
}

// Enabled reports whether the cache stores anything.
func (c *Cache) Enabled() bool {
	return c != nil && c.enabled
}

// HashBytes computes a BLAKE3 hash of bytes and returns it as a hex string.
func HashBytes(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// GetWithHash retrieves a cached entry only if the hash matches.
func (c *Cache) GetWithHash(key, hash string) ([]byte, bool) {
	entry, ok := c.load(key)
	if !ok || entry.Hash != hash {
		return nil, false
	}
	return entry.Data, true
}

// SetWithHash stores data in the cache with a hash for validation.
func (c *Cache) SetWithHash(key, hash string, data []byte) error {
	if !c.Enabled() {
		return nil
	}

	entry := Entry{
		Key:       key,
		Hash:      hash,
		Timestamp: c.now(),
		Data:      data,
	}

	entryData, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	id := keyID(key)
	if err := os.WriteFile(c.pathFor(id), entryData, 0o600); err != nil {
		return err
	}
	c.mem.Add(id, entry)
	return nil
}

func (c *Cache) load(key string) (Entry, bool) {
	if !c.Enabled() {
		return Entry{}, false
	}

	id := keyID(key)
	entry, ok := c.mem.Get(id)
	if !ok {
		data, err := os.ReadFile(c.pathFor(id))
		if err != nil {
			return Entry{}, false
		}
		if err := json.Unmarshal(data, &entry); err != nil {
			return Entry{}, false
		}
	}

	// xxhash collisions are possible; the stored key settles it
	if entry.Key != key {
		return Entry{}, false
	}

	if c.now().Sub(entry.Timestamp) > c.ttl {
		c.mem.Remove(id)
		_ = os.Remove(c.pathFor(id))
		return Entry{}, false
	}

	if !ok {
		c.mem.Add(id, entry)
	}
	return entry, true
}

// Clear removes all cache entries. The cache stays usable afterwards.
func (c *Cache) Clear() error {
	if !c.Enabled() {
		return nil
	}
	c.mem.Purge()
	if err := os.RemoveAll(c.dir); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

func keyID(key string) uint64 {
	return xxhash.Sum64String(key)
}

func (c *Cache) pathFor(id uint64) string {
	return filepath.Join(c.dir, fmt.Sprintf("%016x.json", id))
}

// keyPath converts a key to a filesystem path.
func (c *Cache) keyPath(key string) string {
	return c.pathFor(keyID(key))
}

// Stats returns cache statistics.
type Stats struct {
	Entries   int           `json:"entries"`
	InMemory  int           `json:"in_memory"`
	TotalSize int64         `json:"total_size"`
	OldestAge time.Duration `json:"oldest_age"`
	NewestAge time.Duration `json:"newest_age"`
}

// GetStats returns statistics about the cache.
func (c *Cache) GetStats() (*Stats, error) {
	if !c.Enabled() {
		return &Stats{}, nil
	}

	stats := &Stats{InMemory: c.mem.Len()}
	var oldest, newest time.Time

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}

		stats.Entries++
		stats.TotalSize += info.Size()

		modTime := info.ModTime()
		if oldest.IsZero() || modTime.Before(oldest) {
			oldest = modTime
		}
		if newest.IsZero() || modTime.After(newest) {
			newest = modTime
		}
	}

	if !oldest.IsZero() {
		stats.OldestAge = c.now().Sub(oldest)
	}
	if !newest.IsZero() {
		stats.NewestAge = c.now().Sub(newest)
	}

	return stats, nil
}
