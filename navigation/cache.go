package navigation

import (
	"container/list"
	"sync"
)

// DefaultMaxEntryCells is the longest path, in cells, the cache will store.
const DefaultMaxEntryCells = 512

// CacheKey identifies a grid search by local start and end index and the
// simplification step applied to the result.
type CacheKey struct {
	Start int
	End   int
	Step  int
}

type cacheEntry struct {
	key  CacheKey
	path []Cell
}

// PathCache memoizes grid paths. Stored and returned paths are copies.
// Entries are only dropped by Clear, or by LRU eviction when MaxEntries is set.
type PathCache struct {
	mu            sync.Mutex
	maxEntryCells int
	maxEntries    int
	entries       map[CacheKey]*list.Element
	order         *list.List
}

// NewPathCache creates a cache that refuses paths longer than maxEntryCells and
// keeps at most maxEntries paths (0 for no limit).
func NewPathCache(maxEntryCells, maxEntries int) *PathCache {
	if maxEntryCells <= 0 {
		maxEntryCells = DefaultMaxEntryCells
	}
	if maxEntries < 0 {
		maxEntries = 0
	}
	return &PathCache{
		maxEntryCells: maxEntryCells,
		maxEntries:    maxEntries,
		entries:       make(map[CacheKey]*list.Element),
		order:         list.New(),
	}
}

func (c *PathCache) Get(key CacheKey) ([]Cell, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return append([]Cell(nil), el.Value.(*cacheEntry).path...), true
}

// Put stores a copy of path. It reports false when the path is empty or over
// the cell ceiling.
func (c *PathCache) Put(key CacheKey, path []Cell) bool {
	if len(path) == 0 || len(path) > c.maxEntryCells {
		return false
	}
	stored := append([]Cell(nil), path...)

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).path = stored
		c.order.MoveToFront(el)
		return true
	}
	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, path: stored})

	for c.maxEntries > 0 && c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
	return true
}

func (c *PathCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	c.order.Init()
}

func (c *PathCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
