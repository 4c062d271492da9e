// Package pool provides typed object pools for argsnap's scratch memory.
// The parser itself allocates per parse; pooling is reserved for buffers that
// are thrown away immediately (edit-distance rows, log lines, index lists).
package pool

import (
	"sync"
)

// Pool is a type-safe wrapper around sync.Pool with an optional reset hook.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(*T) // called on every Get before the object is handed out
}

// NewPool creates a pool that builds new objects with factory.
func NewPool[T any](factory func() *T) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any {
				return factory()
			},
		},
	}
}

// NewPoolWithReset creates a pool whose objects are passed through reset
// before reuse.
func NewPoolWithReset[T any](factory func() *T, reset func(*T)) *Pool[T] {
	p := NewPool(factory)
	p.reset = reset
	return p
}

// Get retrieves an object from the pool or creates a new one.
func (p *Pool[T]) Get() *T {
	obj := p.pool.Get().(*T)
	if p.reset != nil {
		p.reset(obj)
	}
	return obj
}

// Put returns an object to the pool. Nil is ignored.
func (p *Pool[T]) Put(obj *T) {
	if obj == nil {
		return
	}
	p.pool.Put(obj)
}

// BufferPool hands out byte slices bucketed by capacity.
type BufferPool struct {
	pools   map[int]*Pool[[]byte]
	buckets []int
	maxCap  int
}

// NewBufferPool creates a buffer pool with fixed capacity buckets.
func NewBufferPool() *BufferPool {
	buckets := []int{64, 128, 256, 512, 1024, 2048, 4096}
	bp := &BufferPool{
		pools:   make(map[int]*Pool[[]byte], len(buckets)),
		buckets: buckets,
		maxCap:  buckets[len(buckets)-1],
	}
	for _, c := range buckets {
		capacity := c
		bp.pools[capacity] = NewPoolWithReset(
			func() *[]byte {
				buf := make([]byte, 0, capacity)
				return &buf
			},
			func(buf *[]byte) {
				*buf = (*buf)[:0]
			},
		)
	}
	return bp
}

// Get returns an empty buffer with at least minCap capacity.
func (bp *BufferPool) Get(minCap int) *[]byte {
	if minCap > bp.maxCap {
		buf := make([]byte, 0, minCap)
		return &buf
	}
	return bp.pools[bp.bucket(minCap)].Get()
}

// Put returns a buffer. Buffers that grew past the largest bucket, or that
// are smaller than the smallest, are dropped.
func (bp *BufferPool) Put(buf *[]byte) {
	if buf == nil {
		return
	}
	c := cap(*buf)
	if c < bp.buckets[0] || c > bp.maxCap {
		return
	}
	// A buffer belongs to the largest bucket it can fully serve.
	target := bp.buckets[0]
	for _, b := range bp.buckets {
		if b <= c {
			target = b
		}
	}
	bp.pools[target].Put(buf)
}

func (bp *BufferPool) bucket(minCap int) int {
	for _, b := range bp.buckets {
		if b >= minCap {
			return b
		}
	}
	return bp.maxCap
}

// IntsPool hands out int slices of an exact length, zeroed.
type IntsPool struct {
	pool *Pool[[]int]
}

// NewIntsPool creates a pool whose fresh slices start with defaultCap capacity.
func NewIntsPool(defaultCap int) *IntsPool {
	return &IntsPool{
		pool: NewPool(func() *[]int {
			s := make([]int, 0, defaultCap)
			return &s
		}),
	}
}

// Get returns a slice of length n with every element set to zero.
func (ip *IntsPool) Get(n int) *[]int {
	s := ip.pool.Get()
	if cap(*s) < n {
		*s = make([]int, n)
		return s
	}
	*s = (*s)[:n]
	clear(*s)
	return s
}

// Put returns a slice to the pool.
func (ip *IntsPool) Put(s *[]int) {
	ip.pool.Put(s)
}

var (
	globalBuffers = NewBufferPool()
	globalInts    = NewIntsPool(64)
)

// GetBuffer retrieves a buffer from the shared buffer pool.
func GetBuffer(minCap int) *[]byte { return globalBuffers.Get(minCap) }

// PutBuffer returns a buffer to the shared buffer pool.
func PutBuffer(buf *[]byte) { globalBuffers.Put(buf) }

// GetInts retrieves a zeroed int slice of length n from the shared pool.
func GetInts(n int) *[]int { return globalInts.Get(n) }

// PutInts returns an int slice to the shared pool.
func PutInts(s *[]int) { globalInts.Put(s) }
