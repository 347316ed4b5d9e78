package pool_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/lestrrat-go/xmlrw/internal/pool"
	"github.com/stretchr/testify/require"
)

func TestByteSliceReuse(t *testing.T) {
	p := pool.ByteSlice()

	b := p.Get()
	require.Len(t, b, 0, "a fresh slice is empty")
	require.GreaterOrEqual(t, cap(b), 64, "a fresh slice has usable capacity")

	b = append(b, "some scratch work"...)
	p.Put(b)

	b = p.Get()
	require.Len(t, b, 0, "Put resets the length")
}

func TestByteSliceGetCapacity(t *testing.T) {
	p := pool.ByteSlice()

	b := p.GetCapacity(4096)
	require.Len(t, b, 0, "slice is empty")
	require.GreaterOrEqual(t, cap(b), 4096, "capacity honors the request")
	p.Put(b)
}

func TestByteSliceConcurrent(t *testing.T) {
	const workers = 16
	const size = 256
	p := pool.ByteSlice()

	results := make([]string, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			b := p.GetCapacity(size)
			defer p.Put(b)
			for j := 0; j < size; j++ {
				b = append(b, byte('a'+i%26))
			}
			results[i] = string(b)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		expected := strings.Repeat(string(rune('a'+i%26)), size)
		require.Equal(t, expected, got, "worker %d content intact", i)
	}
}
