// Package pool provides recycled scratch buffers for the tokenizer and
// serializer hot paths, where per-node allocations would otherwise
// dominate.
package pool

import "sync"

const defaultByteSliceCapacity = 64

// ByteSlicePool hands out zero-length byte slices with a usable
// capacity, and takes them back once the caller is done appending.
type ByteSlicePool struct {
	pool sync.Pool
}

var byteSlice = &ByteSlicePool{
	pool: sync.Pool{
		New: func() interface{} {
			return make([]byte, 0, defaultByteSliceCapacity)
		},
	},
}

// ByteSlice returns the process-wide pool of byte slices.
func ByteSlice() *ByteSlicePool {
	return byteSlice
}

// Get returns a zero-length slice with at least the default capacity.
func (p *ByteSlicePool) Get() []byte {
	return p.pool.Get().([]byte)
}

// GetCapacity returns a zero-length slice whose capacity is at least n.
func (p *ByteSlicePool) GetCapacity(n int) []byte {
	b := p.Get()
	if cap(b) < n {
		p.Put(b)
		b = make([]byte, 0, n)
	}
	return b
}

// Put returns b to the pool. The slice must not be used afterwards;
// contents are discarded, capacity is retained.
func (p *ByteSlicePool) Put(b []byte) {
	p.pool.Put(b[:0]) //nolint:staticcheck
}
