// Package cache holds decoded images ahead of the slide being displayed.
package cache

import (
	"sync"

	"github.com/nvalette/photodrift/internal/imgutil"
)

// DefaultCapacity bounds the prefetch cache to five decoded images.
const DefaultCapacity = 5

type entry struct {
	photo *imgutil.Photo
	seq   uint64
}

// Cache is a bounded store of decoded images keyed by playback index.
//
// The controller reads entries and the background loader writes them; one
// mutex guards both sides so neither ever observes a torn entry. The entry
// for the current playback index is pinned: eviction always removes the
// oldest entry (by insertion sequence) among the others.
type Cache struct {
	mu       sync.Mutex
	capacity int
	seq      uint64
	current  int
	entries  map[int]entry
}

// New creates a cache bounded to capacity entries. Non-positive capacities
// fall back to DefaultCapacity.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		current:  -1,
		entries:  make(map[int]entry, capacity+1),
	}
}

// SetCurrent pins the entry for index against eviction.
func (c *Cache) SetCurrent(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = index
}

// Get returns the cached photo for index, or nil on a miss.
func (c *Cache) Get(index int) *imgutil.Photo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[index].photo
}

// Contains reports whether index is cached.
func (c *Cache) Contains(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[index]
	return ok
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Put inserts a photo at index. When the insertion pushes the cache over
// capacity, exactly one entry is evicted: the oldest by insertion sequence
// among entries that are neither the pinned current index nor the one just
// inserted. If no such entry exists the cache temporarily exceeds capacity
// by the pinned entry.
func (c *Cache) Put(index int, photo *imgutil.Photo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	c.entries[index] = entry{photo: photo, seq: c.seq}

	if len(c.entries) <= c.capacity {
		return
	}

	victim, found := -1, false
	var oldest uint64
	for k, e := range c.entries {
		if k == c.current || k == index {
			continue
		}
		if !found || e.seq < oldest {
			victim, oldest, found = k, e.seq, true
		}
	}
	if found {
		delete(c.entries, victim)
	}
}
