// Package caching wraps an in-memory go-cache instance used for blog read
// caching and short-lived counters such as login throttling.
package caching

import (
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/quillpress/blog-api/util/json_util"
	"go.uber.org/atomic"
)

const (
	DefaultExpiration = 5 * time.Minute
	cleanupInterval   = 10 * time.Minute
)

// Stats is a snapshot of cache usage.
type Stats struct {
	Items  int    `json:"items"`
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
}

type Cache struct {
	memoryCache *cache.Cache

	hits   atomic.Uint64
	misses atomic.Uint64

	// generations counts DeletePrefix calls per prefix so that a value read
	// before an invalidation is never stored after it.
	genMu       sync.Mutex
	generations map[string]uint64
}

func NewCache() *Cache {
	return &Cache{
		memoryCache: cache.New(DefaultExpiration, cleanupInterval),
		generations: make(map[string]uint64),
	}
}

// Flush drops every entry.
func (s *Cache) Flush() {
	s.memoryCache.Flush()
}

// GetJSON decodes the cached payload under key into dest and reports whether
// the key was present.
func (s *Cache) GetJSON(key string, dest any) bool {
	raw, ok := s.memoryCache.Get(key)
	if !ok {
		s.misses.Inc()
		return false
	}
	data, ok := raw.([]byte)
	if !ok || json_util.Unmarshal(data, dest) != nil {
		s.memoryCache.Delete(key)
		s.misses.Inc()
		return false
	}
	s.hits.Inc()
	return true
}

func (s *Cache) Delete(key string) {
	s.memoryCache.Delete(key)
}

// DeletePrefix removes every key starting with prefix and advances the
// prefix generation.
func (s *Cache) DeletePrefix(prefix string) {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	s.generations[prefix]++
	for key := range s.memoryCache.Items() {
		if strings.HasPrefix(key, prefix) {
			s.memoryCache.Delete(key)
		}
	}
}

// Generation returns the current generation of prefix. Read it before
// loading a value that will be stored with SetJSONIfCurrent.
func (s *Cache) Generation(prefix string) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.generations[prefix]
}

// SetJSONIfCurrent stores value under key only while prefix is still at
// generation gen, and reports whether it did.
func (s *Cache) SetJSONIfCurrent(prefix string, gen uint64, key string, value any, ttl time.Duration) (bool, error) {
	data, err := json_util.Marshal(value)
	if err != nil {
		return false, err
	}
	s.genMu.Lock()
	defer s.genMu.Unlock()
	if s.generations[prefix] != gen {
		return false, nil
	}
	s.memoryCache.Set(key, data, ttl)
	return true, nil
}

// Incr increments the counter under key, creating it with the given window
// when absent. The window is not extended by later increments.
func (s *Cache) Incr(key string, window time.Duration) int {
	if err := s.memoryCache.Add(key, 1, window); err == nil {
		return 1
	}
	n, err := s.memoryCache.IncrementInt(key, 1)
	if err != nil {
		// expired between Add and IncrementInt
		s.memoryCache.Set(key, 1, window)
		return 1
	}
	return n
}

// Count returns the current value of a counter created by Incr.
func (s *Cache) Count(key string) int {
	raw, ok := s.memoryCache.Get(key)
	if !ok {
		return 0
	}
	n, _ := raw.(int)
	return n
}

func (s *Cache) Stats() Stats {
	return Stats{
		Items:  s.memoryCache.ItemCount(),
		Hits:   s.hits.Load(),
		Misses: s.misses.Load(),
	}
}
