// Package pool provides object pooling for go-cmdline rendering paths.
// Used by the parse diagram and the help renderer to reuse text buffers.
package pool

import (
	"bytes"
	"sync"
)

// Pool provides a generic, type-safe object pool
type Pool[T any] struct {
	pool  sync.Pool
	reset func(*T) // Optional reset function called before reuse
}

// NewPool creates a new generic pool with the given factory function
func NewPool[T any](factory func() *T) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any {
				return factory()
			},
		},
	}
}

// NewPoolWithReset creates a pool with a reset function called before reuse
func NewPoolWithReset[T any](factory func() *T, reset func(*T)) *Pool[T] {
	p := NewPool(factory)
	p.reset = reset
	return p
}

// Get retrieves an object from the pool or creates a new one
func (p *Pool[T]) Get() *T {
	obj := p.pool.Get().(*T)
	if p.reset != nil {
		p.reset(obj)
	}
	return obj
}

// Put returns an object to the pool for reuse
func (p *Pool[T]) Put(obj *T) {
	if obj == nil {
		return
	}
	p.pool.Put(obj)
}

// BufferPool pools text buffers. Buffers that grew past maxCap are dropped
// instead of being kept alive by the pool.
type BufferPool struct {
	*Pool[bytes.Buffer]
	maxCap int
}

// NewBufferPool creates a buffer pool that keeps buffers up to maxCap bytes
func NewBufferPool(maxCap int) *BufferPool {
	return &BufferPool{
		Pool: NewPoolWithReset(
			func() *bytes.Buffer { return new(bytes.Buffer) },
			func(b *bytes.Buffer) { b.Reset() },
		),
		maxCap: maxCap,
	}
}

// Put returns a buffer to the pool unless it is oversized
func (bp *BufferPool) Put(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > bp.maxCap {
		return
	}
	bp.Pool.Put(buf)
}

// StringSlicePool provides pooling for string slices
type StringSlicePool struct {
	*Pool[[]string]
}

// NewStringSlicePool creates a new string slice pool
func NewStringSlicePool(defaultCap int) *StringSlicePool {
	return &StringSlicePool{
		Pool: NewPoolWithReset(
			func() *[]string {
				slice := make([]string, 0, defaultCap)
				return &slice
			},
			func(slice *[]string) {
				*slice = (*slice)[:0] // Reset length but keep capacity
			},
		),
	}
}

var (
	// GlobalBufferPool serves diagram and help rendering
	GlobalBufferPool = NewBufferPool(64 << 10)

	// GlobalStringSlicePool serves candidate lists for suggestions and help rows
	GlobalStringSlicePool = NewStringSlicePool(32)
)

// GetBuffer retrieves an empty buffer
func GetBuffer() *bytes.Buffer {
	return GlobalBufferPool.Get()
}

// PutBuffer returns a buffer to the global pool
func PutBuffer(buf *bytes.Buffer) {
	GlobalBufferPool.Put(buf)
}

// GetStringSlice retrieves an empty string slice
func GetStringSlice() *[]string {
	return GlobalStringSlicePool.Get()
}

// PutStringSlice returns a string slice to the global pool
func PutStringSlice(slice *[]string) {
	GlobalStringSlicePool.Put(slice)
}
