package search

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/SummonTheCat/smn-archive/internal/scalar"
)

// ExistenceCache is an exact, in-memory membership cache over the FormIDs
// resident in one archive. Because FormID is only 16 bits wide, a full
// bitset of 65536 bits (8KiB) is cheap enough to keep exact rather than
// probabilistic, and gives an O(1) "definitely absent" short-circuit before
// paying for a disk-backed binary search.
type ExistenceCache struct {
	bits *bitset.BitSet
}

// NewExistenceCache builds a cache from a freshly loaded index.
func NewExistenceCache(formIDs []scalar.FormID) *ExistenceCache {
	c := &ExistenceCache{bits: bitset.New(1 << 16)}
	for _, id := range formIDs {
		c.bits.Set(uint(id))
	}
	return c
}

// Has reports whether id is known to be resident. A false negative never
// occurs; a false positive never occurs either, since the cache is exact —
// callers may skip the disk search entirely on a Has() == false result.
func (c *ExistenceCache) Has(id scalar.FormID) bool {
	return c.bits.Test(uint(id))
}

// Add marks id as resident, called after a successful insert.
func (c *ExistenceCache) Add(id scalar.FormID) {
	c.bits.Set(uint(id))
}

// Remove marks id as no longer resident. The archive package does not call
// it: a delete drops the whole cached entry for the path instead.
func (c *ExistenceCache) Remove(id scalar.FormID) {
	c.bits.Clear(uint(id))
}
