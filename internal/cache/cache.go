// Package cache stores compiled component modules on disk, keyed by a hash
// of everything that affects the output. Unchanged components are served from
// the cache instead of being recompiled.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const indexVersion = "2"

// Cache is a directory of compiled outputs plus a JSON index.
type Cache struct {
	mu         sync.RWMutex
	dir        string
	index      *Index
	maxEntries int
	maxAge     time.Duration
	strategy   EvictionStrategy
	stats      *Stats
	stopCh     chan struct{}
	closeOnce  sync.Once
}

// Index tracks all cached entries
type Index struct {
	Version string            `json:"version"`
	Entries map[string]*Entry `json:"entries"`
	Updated time.Time         `json:"updated"`
}

// Entry is one cached output.
type Entry struct {
	Key         string    `json:"key"`
	Hash        string    `json:"hash"`
	Path        string    `json:"path"`
	Size        int64     `json:"size"`
	Source      string    `json:"source,omitempty"`
	Created     time.Time `json:"created"`
	LastAccess  time.Time `json:"last_access"`
	AccessCount int       `json:"access_count"`
}

// Stats tracks cache performance metrics
type Stats struct {
	Hits       int64 `json:"hits"`
	Misses     int64 `json:"misses"`
	Evictions  int64 `json:"evictions"`
	TotalSize  int64 `json:"total_size"`
	EntryCount int   `json:"entry_count"`
}

// EvictionStrategy defines how cache entries are removed
type EvictionStrategy int

const (
	// LRU removes least recently used entries
	LRU EvictionStrategy = iota
	// LFU removes least frequently used entries
	LFU
	// FIFO removes oldest entries first
	FIFO
)

// Config holds cache configuration
type Config struct {
	Dir        string           // Cache directory (default: .reactify/cache)
	MaxEntries int              // Maximum number of entries, 0 for no limit
	MaxAge     time.Duration    // Maximum age of an entry, 0 for no limit
	Strategy   EvictionStrategy // Eviction strategy (default: LRU)
}

// DefaultConfig returns the default cache configuration
func DefaultConfig() Config {
	return Config{
		Dir:        filepath.Join(".reactify", "cache"),
		MaxEntries: 1000,
		MaxAge:     7 * 24 * time.Hour,
		Strategy:   LRU,
	}
}

// New opens the cache in config.Dir, loading an existing index if there is
// one.
func New(config Config) (*Cache, error) {
	if config.Dir == "" {
		config.Dir = DefaultConfig().Dir
	}

	if err := os.MkdirAll(filepath.Join(config.Dir, "outputs"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	c := &Cache{
		dir:        config.Dir,
		maxEntries: config.MaxEntries,
		maxAge:     config.MaxAge,
		strategy:   config.Strategy,
		stats:      &Stats{},
		stopCh:     make(chan struct{}),
		index:      newIndex(),
	}

	// A missing or unreadable index starts the cache empty
	if err := c.loadIndex(); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️  Ignoring cache index in %s: %v", config.Dir, err)
		c.index = newIndex()
	}

	if c.maxAge > 0 {
		go c.cleanup(cleanupInterval(c.maxAge))
	}

	return c, nil
}

func newIndex() *Index {
	return &Index{
		Version: indexVersion,
		Entries: make(map[string]*Entry),
		Updated: time.Now(),
	}
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Get returns the output stored under key.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	entry, exists := c.index.Entries[key]
	c.mu.RUnlock()

	if !exists {
		c.recordMiss()
		return nil, false
	}

	if c.isExpired(entry) {
		c.Delete(key)
		c.recordMiss()
		return nil, false
	}

	data, err := os.ReadFile(entry.Path)
	if err != nil || hash(data) != entry.Hash {
		// Output file is missing or was modified
		c.Delete(key)
		c.recordMiss()
		return nil, false
	}

	c.mu.Lock()
	entry.LastAccess = time.Now()
	entry.AccessCount++
	c.stats.Hits++
	c.mu.Unlock()

	return data, true
}

// Put stores the output compiled from source under key.
func (c *Cache) Put(key string, data []byte, source string) error {
	sum := hash(data)

	c.mu.RLock()
	if existing, ok := c.index.Entries[key]; ok && existing.Hash == sum {
		c.mu.RUnlock()
		return nil
	}
	c.mu.RUnlock()

	path := filepath.Join(c.dir, "outputs", sanitizeKey(key)+"_"+sum[:8]+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	now := time.Now()
	entry := &Entry{
		Key:        key,
		Hash:       sum,
		Path:       path,
		Size:       int64(len(data)),
		Source:     source,
		Created:    now,
		LastAccess: now,
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.index.Entries[key]; ok {
		if old.Path != path {
			c.removeFile(old.Path)
		}
		c.stats.TotalSize -= old.Size
		delete(c.index.Entries, key)
	}
	c.evict(1)

	c.index.Entries[key] = entry
	c.index.Updated = now
	c.stats.TotalSize += entry.Size
	c.stats.EntryCount = len(c.index.Entries)

	return c.saveIndexNoLock()
}

// Delete removes an entry from the cache
func (c *Cache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.index.Entries[key]
	if !ok {
		return nil
	}
	c.removeEntry(key, entry)
	c.index.Updated = time.Now()

	return c.saveIndexNoLock()
}

// InvalidateSource removes every entry compiled from source and returns how
// many were removed.
func (c *Cache) InvalidateSource(source string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for key, entry := range c.index.Entries {
		if entry.Source == source {
			c.removeEntry(key, entry)
			count++
		}
	}
	if count > 0 {
		c.index.Updated = time.Now()
		if err := c.saveIndexNoLock(); err != nil {
			log.Printf("⚠️  Failed to save cache index: %v", err)
		}
	}
	return count
}

// Clear removes all cached entries
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	outputs := filepath.Join(c.dir, "outputs")
	if err := os.RemoveAll(outputs); err != nil {
		return fmt.Errorf("failed to clear outputs: %w", err)
	}
	if err := os.MkdirAll(outputs, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	c.index = newIndex()
	c.stats = &Stats{}

	return c.saveIndexNoLock()
}

// GetStats returns cache statistics
func (c *Cache) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return *c.stats
}

// Close stops the cleanup goroutine and saves the index.
func (c *Cache) Close() error {
	c.closeOnce.Do(func() { close(c.stopCh) })

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.saveIndexNoLock()
}

// Key hashes inputs into a cache key. Inputs are length-prefixed so that
// ("ab", "c") and ("a", "bc") produce different keys.
func Key(inputs ...string) string {
	h := sha256.New()
	var size [8]byte
	for _, input := range inputs {
		binary.LittleEndian.PutUint64(size[:], uint64(len(input)))
		h.Write(size[:])
		h.Write([]byte(input))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Cache) loadIndex() error {
	data, err := os.ReadFile(filepath.Join(c.dir, "index.json"))
	if err != nil {
		return err
	}

	var index Index
	if err := json.Unmarshal(data, &index); err != nil {
		return err
	}
	if index.Version != indexVersion {
		return fmt.Errorf("index version %q, want %q", index.Version, indexVersion)
	}
	if index.Entries == nil {
		index.Entries = make(map[string]*Entry)
	}
	c.index = &index

	var totalSize int64
	for _, entry := range c.index.Entries {
		totalSize += entry.Size
	}
	c.stats.TotalSize = totalSize
	c.stats.EntryCount = len(c.index.Entries)

	return nil
}

// saveIndexNoLock saves the index without acquiring a lock
// Caller must hold at least a read lock
func (c *Cache) saveIndexNoLock() error {
	data, err := json.MarshalIndent(c.index, "", "  ")
	if err != nil {
		return err
	}

	// Write then rename so a crash never leaves a truncated index
	path := filepath.Join(c.dir, "index.json")
	tmp, err := os.CreateTemp(c.dir, "index-*.json")
	if err != nil {
		return fmt.Errorf("failed to save cache index: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to save cache index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to save cache index: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

func (c *Cache) isExpired(entry *Entry) bool {
	if c.maxAge <= 0 {
		return false
	}
	return time.Since(entry.Created) > c.maxAge
}

// evict makes room for n new entries. Caller must hold the write lock.
func (c *Cache) evict(n int) {
	if c.maxEntries <= 0 {
		return
	}

	for len(c.index.Entries)+n > c.maxEntries && len(c.index.Entries) > 0 {
		var evictKey string
		var evictEntry *Entry

		for key, entry := range c.index.Entries {
			if evictEntry == nil || c.before(entry, evictEntry) {
				evictKey = key
				evictEntry = entry
			}
		}

		c.removeEntry(evictKey, evictEntry)
		c.stats.Evictions++
	}
}

// before reports whether a should be evicted before b.
func (c *Cache) before(a, b *Entry) bool {
	switch c.strategy {
	case LFU:
		if a.AccessCount != b.AccessCount {
			return a.AccessCount < b.AccessCount
		}
		return a.LastAccess.Before(b.LastAccess)
	case FIFO:
		return a.Created.Before(b.Created)
	default:
		return a.LastAccess.Before(b.LastAccess)
	}
}

// removeEntry drops an entry and its file. Caller must hold the write lock.
func (c *Cache) removeEntry(key string, entry *Entry) {
	c.removeFile(entry.Path)
	delete(c.index.Entries, key)
	c.stats.TotalSize -= entry.Size
	c.stats.EntryCount = len(c.index.Entries)
}

func cleanupInterval(maxAge time.Duration) time.Duration {
	interval := maxAge / 2
	if interval > time.Hour {
		interval = time.Hour
	}
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}

func (c *Cache) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			removed := 0
			for key, entry := range c.index.Entries {
				if c.isExpired(entry) {
					c.removeEntry(key, entry)
					removed++
				}
			}
			if removed > 0 {
				c.index.Updated = time.Now()
				if err := c.saveIndexNoLock(); err != nil {
					log.Printf("⚠️  Failed to save cache index: %v", err)
				}
			}
			c.mu.Unlock()
		case <-c.stopCh:
			return
		}
	}
}

func (c *Cache) removeFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️  Failed to remove cache file %s: %v", path, err)
	}
}

func (c *Cache) recordMiss() {
	c.mu.Lock()
	c.stats.Misses++
	c.mu.Unlock()
}

var keyReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "_",
)

// sanitizeKey turns a key into a short file name prefix.
func sanitizeKey(key string) string {
	sanitized := keyReplacer.Replace(key)
	if len(sanitized) > 16 {
		sanitized = sanitized[:16]
	}
	return sanitized
}

func hash(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
