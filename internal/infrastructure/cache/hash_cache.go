package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/listinglens/backend/internal/domain"
)

// Fallbacks applied when the cache is constructed with zero values.
const (
	defaultCapacity = 4096
	defaultTTL      = time.Hour
)

// entry is a single cached hash with its expiration, stored in the LRU list.
type entry struct {
	url        string
	hash       domain.ImageHash
	expiration time.Time
}

// HashCache is a thread-safe URL-to-hash cache bounded two ways: entries
// expire after a TTL, and once the capacity is reached the least recently
// used entry is evicted. Image URLs are stable per listing, so a hit saves
// a full download and decode.
type HashCache struct {
	capacity int
	ttl      time.Duration
	mutex    sync.Mutex
	items    map[string]*list.Element
	order    *list.List // front = most recently used
}

// NewHashCache creates a hash cache with the given capacity and TTL.
// Non-positive values fall back to the defaults.
func NewHashCache(capacity int, ttl time.Duration) *HashCache {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}

	cache := &HashCache{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*list.Element),
		order:    list.New(),
	}

	// Start cleanup goroutine to remove expired entries every 5 minutes
	go cache.cleanupExpired()

	return cache
}

// Get retrieves the cached hash for an image URL, promoting the entry to
// most recently used. Expired entries are removed and report a miss.
func (c *HashCache) Get(url string) (domain.ImageHash, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	elem, exists := c.items[url]
	if !exists {
		return 0, domain.ErrCacheMiss
	}

	item := elem.Value.(*entry)
	if time.Now().After(item.expiration) {
		c.removeElement(elem)
		return 0, domain.ErrCacheMiss
	}

	c.order.MoveToFront(elem)
	return item.hash, nil
}

// Set stores the hash for an image URL, evicting the least recently used
// entry once the cache is full. Setting an existing URL refreshes its TTL.
func (c *HashCache) Set(url string, hash domain.ImageHash) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	expiration := time.Now().Add(c.ttl)

	if elem, exists := c.items[url]; exists {
		item := elem.Value.(*entry)
		item.hash = hash
		item.expiration = expiration
		c.order.MoveToFront(elem)
		return
	}

	c.items[url] = c.order.PushFront(&entry{url: url, hash: hash, expiration: expiration})

	if c.order.Len() > c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}
}

// Size returns the current number of cached hashes.
func (c *HashCache) Size() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.order.Len()
}

// Clear removes all cached hashes.
func (c *HashCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.items = make(map[string]*list.Element)
	c.order.Init()
}

// removeElement unlinks an entry from both the list and the index.
// Callers must hold the mutex.
func (c *HashCache) removeElement(elem *list.Element) {
	item := elem.Value.(*entry)
	c.order.Remove(elem)
	delete(c.items, item.url)
}

// cleanupExpired removes expired entries from the cache periodically.
// LRU order is not expiration order, so the whole list is walked.
func (c *HashCache) cleanupExpired() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now()
		for elem := c.order.Back(); elem != nil; {
			prev := elem.Prev()
			if now.After(elem.Value.(*entry).expiration) {
				c.removeElement(elem)
			}
			elem = prev
		}
		c.mutex.Unlock()
	}
}
