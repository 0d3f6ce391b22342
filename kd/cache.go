package kd

import (
	"database/sql/driver"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	sqlite "modernc.org/sqlite"
)

const defaultCacheEntries = 128

// Global shared cache of built datasets keyed by db path/table/dataset for
// cross-connection reuse.
var (
	sharedCache   = newSharedCache(defaultCacheEntries)
	sharedCacheMu sync.Mutex
)

var registerInvalidateOnce sync.Once

func newSharedCache(size int) *lru.Cache[string, *cacheEntry] {
	cache, err := lru.NewWithEvict[string, *cacheEntry](size, func(key string, _ *cacheEntry) {
		log().Debug("kd: index evicted", "key", key)
	})
	if err != nil {
		panic(err)
	}
	return cache
}

// SetCacheSize changes the number of built datasets kept in memory.
func SetCacheSize(entries int) {
	if entries <= 0 {
		return
	}
	sharedCache.Resize(entries)
}

type cacheEntry struct {
	mu       sync.RWMutex
	built    *dataset
	building bool
	// version changes on every invalidation; a build started under an older
	// version is not published.
	version uint64
	cond    *sync.Cond
}

func newCacheEntry() *cacheEntry {
	e := &cacheEntry{}
	e.cond = sync.NewCond(&e.mu)
	return e
}

func (e *cacheEntry) get() *dataset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.built
}

func (e *cacheEntry) invalidate() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	had := e.built != nil || e.building
	e.built = nil
	e.version++
	return had
}

func (e *cacheEntry) waitForBuild() *dataset {
	e.mu.Lock()
	for e.building {
		e.cond.Wait()
	}
	built := e.built
	e.mu.Unlock()
	return built
}

func (e *cacheEntry) startBuild() (uint64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.built != nil || e.building {
		return 0, false
	}
	e.building = true
	return e.version, true
}

func (e *cacheEntry) finishBuild(built *dataset, version uint64) {
	e.mu.Lock()
	if built != nil && e.version == version {
		e.built = built
	}
	e.building = false
	e.cond.Broadcast()
	e.mu.Unlock()
}

func cacheKey(dbPath, tableName, dataset string) string {
	return dbPath + "|" + tableName + "|" + dataset
}

func getCacheEntry(key string) *cacheEntry {
	if entry, ok := sharedCache.Get(key); ok {
		return entry
	}
	sharedCacheMu.Lock()
	defer sharedCacheMu.Unlock()
	if entry, ok := sharedCache.Get(key); ok {
		return entry
	}
	entry := newCacheEntry()
	sharedCache.Add(key, entry)
	return entry
}

// InvalidateCache clears cached indexes for a shadow table and dataset; an
// empty dataset clears every dataset of the table. It returns the number of
// entries cleared.
func InvalidateCache(shadow, dataset string) int {
	tableName := tableNameFromShadow(shadow)
	if tableName == "" {
		tableName = shadow
	}
	count := 0
	for _, key := range sharedCache.Keys() {
		matched := false
		if dataset == "" {
			matched = strings.Contains(key, "|"+tableName+"|")
		} else {
			matched = strings.HasSuffix(key, "|"+tableName+"|"+dataset)
		}
		if !matched {
			continue
		}
		if entry, ok := sharedCache.Peek(key); ok && entry.invalidate() {
			count++
		}
	}
	if count > 0 {
		log().Debug("kd: index invalidated", "shadow", shadow, "dataset", dataset, "entries", count)
	}
	return count
}

// invalidateFunc implements SQL scalar kd_invalidate(shadow TEXT, dataset TEXT) → INT.
func invalidateFunc(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	if len(args) != 2 {
		return int64(0), nil
	}
	shadow, err := asString(args[0])
	if err != nil {
		return int64(0), nil
	}
	dataset, err := asString(args[1])
	if err != nil {
		return int64(0), nil
	}
	return int64(InvalidateCache(shadow, dataset)), nil
}
