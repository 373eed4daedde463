package dataset

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/SuperSnake427/DosecheckDashboard/internal/table"
)

// Snapshot is one cached load of a source. ID is assigned when the source
// is fetched and is shared by every Get served from that fetch.
type Snapshot struct {
	ID       string
	Table    *table.Table
	LoadedAt time.Time
	// Hit is true when the table came from the cache rather than a fetch.
	Hit bool
}

type cacheEntry struct {
	id       string
	table    *table.Table
	loadedAt time.Time
}

// Cache memoizes source loads for the life of the process, keyed by source
// ID. Concurrent misses for the same source share a single fetch. Every
// caller gets its own clone of the table.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	gen     uint64
	group   singleflight.Group
	now     func() time.Time
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached snapshot for src, loading it on a miss.
func (c *Cache) Get(ctx context.Context, src Source) (Snapshot, error) {
	id := src.ID()

	c.mu.Lock()
	entry, ok := c.entries[id]
	gen := c.gen
	c.mu.Unlock()
	if ok {
		return Snapshot{ID: entry.id, Table: entry.table.Clone(), LoadedAt: entry.loadedAt, Hit: true}, nil
	}

	// Loads started before an invalidation must not be joined after it.
	key := fmt.Sprintf("%d\x00%s", gen, id)
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		t, err := src.Load(ctx)
		if err != nil {
			return nil, err
		}
		e := cacheEntry{id: uuid.New().String(), table: t, loadedAt: c.now()}

		c.mu.Lock()
		if c.gen == gen {
			c.entries[id] = e
		}
		c.mu.Unlock()
		return e, nil
	})
	if err != nil {
		return Snapshot{}, err
	}

	e := v.(cacheEntry)
	return Snapshot{ID: e.id, Table: e.table.Clone(), LoadedAt: e.loadedAt}, nil
}

// Invalidate drops the snapshot for id so the next Get reloads it.
func (c *Cache) Invalidate(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	c.gen++
}

// Reset drops every snapshot.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
	c.gen++
}

// Len returns the number of cached snapshots.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
