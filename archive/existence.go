package archive

import (
	"os"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/SummonTheCat/smn-archive/internal/block"
	"github.com/SummonTheCat/smn-archive/internal/logger"
	"github.com/SummonTheCat/smn-archive/internal/scalar"
	"github.com/SummonTheCat/smn-archive/internal/search"
)

// existenceCacheImpl caches one Bloom filter per archive path, rebuilt from
// the on-disk INDEX the first time Exists is consulted for that path.
// Insertion is supported natively by the filter and kept incremental;
// deletion is not (Bloom filters cannot un-set bits), so a delete
// invalidates the whole cached entry and the next Exists call rebuilds it
// lazily from disk.
type existenceCacheImpl struct {
	mu      sync.Mutex
	filters map[string]*bloom.BloomFilter
}

var existenceCacheStore = &existenceCacheImpl{filters: make(map[string]*bloom.BloomFilter)}

func idBytes(id scalar.FormID) []byte {
	return id.Encode(nil)
}

// lookup reports whether id might be present, reading and caching the full
// index from f on first use for path. A false result means id is
// definitely absent and the caller may skip the binary search entirely; a
// true result requires the caller to confirm with the binary search, since
// the filter can false-positive.
func existenceCacheLookup(path string, f *os.File, info Info, id scalar.FormID) (maybePresent bool, err error) {
	existenceCacheStore.mu.Lock()
	filter, ok := existenceCacheStore.filters[path]
	existenceCacheStore.mu.Unlock()
	if ok {
		return filter.Test(idBytes(id)), nil
	}

	fpRate := activeConfig().BloomFalsePositiveRate

	if info.FormCount == 0 {
		filter = bloom.NewWithEstimates(1, fpRate)
		existenceCacheStore.mu.Lock()
		existenceCacheStore.filters[path] = filter
		existenceCacheStore.mu.Unlock()
		return false, nil
	}

	if _, err := f.Seek(int64(info.ByteStartIndex), 0); err != nil {
		return false, err
	}
	entries, err := block.ReadIndex(f, info.FormCount)
	if err != nil {
		return false, err
	}

	filter = bloom.NewWithEstimates(uint(len(entries)), fpRate)
	for _, e := range entries {
		filter.Add(idBytes(e.FormID))
	}
	existenceCacheStore.mu.Lock()
	existenceCacheStore.filters[path] = filter
	existenceCacheStore.mu.Unlock()
	logger.Debug("existence cache rebuilt path=%s entries=%d", path, len(entries))

	return filter.Test(idBytes(id)), nil
}

// existenceCacheAdd records id as resident after a successful insert,
// incrementally updating the cached filter if one exists for path. A
// filter is not built eagerly here — only Exists triggers the initial
// build — so this is a no-op until Exists has been called once for path.
func existenceCacheAdd(path string, id scalar.FormID) {
	existenceCacheStore.mu.Lock()
	defer existenceCacheStore.mu.Unlock()
	if filter, ok := existenceCacheStore.filters[path]; ok {
		filter.Add(idBytes(id))
	}
}

// existenceCacheInvalidate drops the cached filter for path, called after
// any successful delete since Bloom filters cannot un-set bits.
func existenceCacheInvalidate(path string) {
	existenceCacheStore.mu.Lock()
	defer existenceCacheStore.mu.Unlock()
	delete(existenceCacheStore.filters, path)
}

// bitsetCacheImpl is the exact-membership counterpart to the Bloom cache
// above, used by ReadForm to short-circuit a miss without the
// possibility of a false positive. Exact membership over the 16-bit FormID
// space costs only 8KiB per archive, so there is no reason to accept
// Bloom's false-positive rate on this hot path the way Exists does.
type bitsetCacheImpl struct {
	mu     sync.Mutex
	caches map[string]*search.ExistenceCache
}

var bitsetCacheStore = &bitsetCacheImpl{caches: make(map[string]*search.ExistenceCache)}

// bitsetCacheLookup reports definite absence (false) or possible presence
// (true, always correct here since the cache is exact) for id in path,
// building the cache from f's index on first use.
func bitsetCacheLookup(path string, f *os.File, info Info, id scalar.FormID) (bool, error) {
	bitsetCacheStore.mu.Lock()
	c, ok := bitsetCacheStore.caches[path]
	bitsetCacheStore.mu.Unlock()
	if ok {
		return c.Has(id), nil
	}

	if info.FormCount == 0 {
		c = search.NewExistenceCache(nil)
		bitsetCacheStore.mu.Lock()
		bitsetCacheStore.caches[path] = c
		bitsetCacheStore.mu.Unlock()
		return false, nil
	}

	if _, err := f.Seek(int64(info.ByteStartIndex), 0); err != nil {
		return false, err
	}
	entries, err := block.ReadIndex(f, info.FormCount)
	if err != nil {
		return false, err
	}
	ids := make([]scalar.FormID, len(entries))
	for i, e := range entries {
		ids[i] = e.FormID
	}
	c = search.NewExistenceCache(ids)
	bitsetCacheStore.mu.Lock()
	bitsetCacheStore.caches[path] = c
	bitsetCacheStore.mu.Unlock()

	return c.Has(id), nil
}

func bitsetCacheAdd(path string, id scalar.FormID) {
	bitsetCacheStore.mu.Lock()
	defer bitsetCacheStore.mu.Unlock()
	if c, ok := bitsetCacheStore.caches[path]; ok {
		c.Add(id)
	}
}

// bitsetCacheInvalidate drops the cached bitset for path entirely, called
// after any successful delete, rather than clearing just the deleted bit.
// Dropping forces the next lookup to rebuild from the on-disk index, so the
// cache never outlives the file state it was built from, mirroring
// existenceCacheInvalidate's Bloom-side policy.
func bitsetCacheInvalidate(path string) {
	bitsetCacheStore.mu.Lock()
	defer bitsetCacheStore.mu.Unlock()
	delete(bitsetCacheStore.caches, path)
}
