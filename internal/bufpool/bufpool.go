// Package bufpool provides a reusable byte-buffer pool for the mutator's
// inner-delete path: avoiding a fresh allocation every time a delete needs
// to hold the displaced tail of DATA in memory. The insert and overwrite
// paths stream their displaced bytes through a scratch file instead.
package bufpool

import "sync"

var pool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 0, 64*1024)
		return &b
	},
}

// Get returns a byte slice of length n, reusing pooled backing storage when
// large enough.
func Get(n int) []byte {
	p := pool.Get().(*[]byte)
	if cap(*p) < n {
		*p = make([]byte, n)
		return *p
	}
	*p = (*p)[:n]
	return *p
}

// Put returns buf to the pool. Buffers larger than 8MiB are dropped rather
// than pooled, so one oversized archive operation doesn't pin that memory
// for the lifetime of the process.
func Put(buf []byte) {
	if cap(buf) > 8*1024*1024 {
		return
	}
	pool.Put(&buf)
}
