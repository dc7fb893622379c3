package pool

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	capacity := 1024
	bb := NewByteBuffer(capacity)

	require.NotNil(t, bb)
	require.NotNil(t, bb.B)
	assert.Equal(t, 0, len(bb.B), "new buffer should have zero length")
	assert.Equal(t, capacity, cap(bb.B), "new buffer should have specified capacity")
}

func TestByteBuffer_Reset(t *testing.T) {
	bb := NewByteBuffer(PayloadBufferDefaultSize)
	bb.B = append(bb.B, []byte("some data")...)
	originalCap := cap(bb.B)

	bb.Reset()

	assert.Equal(t, 0, len(bb.B), "Reset should clear the buffer length")
	assert.Equal(t, originalCap, cap(bb.B), "Reset should preserve capacity")
}

func TestByteBuffer_MustWrite(t *testing.T) {
	bb := NewByteBuffer(PayloadBufferDefaultSize)

	bb.MustWrite([]byte("hello"))
	assert.Equal(t, []byte("hello"), bb.B)

	bb.MustWrite([]byte(" world"))
	assert.Equal(t, []byte("hello world"), bb.B)
}

func TestByteBuffer_Write(t *testing.T) {
	bb := NewByteBuffer(PayloadBufferDefaultSize)

	n, err := bb.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []byte("hello"), bb.B)
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(PayloadBufferDefaultSize)
	bb.B = append(bb.B, []byte("test data")...)

	var buf bytes.Buffer
	n, err := bb.WriteTo(&buf)

	require.NoError(t, err)
	assert.Equal(t, int64(9), n)
	assert.Equal(t, "test data", buf.String())
}

func TestByteBuffer_WriteTo_ErrorPropagation(t *testing.T) {
	bb := NewByteBuffer(PayloadBufferDefaultSize)
	bb.B = append(bb.B, []byte("test")...)

	errorWriter := &errorWriter{err: io.ErrShortWrite}
	n, err := bb.WriteTo(errorWriter)

	assert.Error(t, err)
	assert.Equal(t, io.ErrShortWrite, err)
	assert.Equal(t, int64(0), n)
}

func TestByteBuffer_Grow_SufficientCapacity(t *testing.T) {
	bb := NewByteBuffer(PayloadBufferDefaultSize)
	originalCap := cap(bb.B)

	bb.Grow(100) // Request growth smaller than available capacity

	assert.Equal(t, originalCap, cap(bb.B), "should not reallocate when capacity is sufficient")
}

func TestByteBuffer_Grow_SmallBuffer(t *testing.T) {
	bb := NewByteBuffer(PayloadBufferDefaultSize)
	bb.B = append(bb.B, make([]byte, PayloadBufferDefaultSize)...) // Fill to capacity

	bb.Grow(1024)

	assert.GreaterOrEqual(t, cap(bb.B), PayloadBufferDefaultSize+1024, "should have at least requested capacity")
	assert.Equal(t, PayloadBufferDefaultSize, len(bb.B), "length should not change")
}

func TestByteBuffer_Grow_PreservesData(t *testing.T) {
	bb := NewByteBuffer(PayloadBufferDefaultSize)
	testData := []byte("important data that must be preserved")
	bb.B = append(bb.B, testData...)

	bb.Grow(PayloadBufferDefaultSize * 2) // Force reallocation

	assert.Equal(t, testData, bb.B, "data should be preserved after growth")
}

func TestByteBuffer_ExtendOrGrow(t *testing.T) {
	bb := NewByteBuffer(16)

	bb.ExtendOrGrow(8)
	assert.Equal(t, 8, bb.Len())

	bb.ExtendOrGrow(64) // forces growth past initial capacity
	assert.Equal(t, 72, bb.Len())
}

func TestGetPayloadBuffer(t *testing.T) {
	bb := GetPayloadBuffer()

	require.NotNil(t, bb)
	require.NotNil(t, bb.B)
	assert.Equal(t, 0, len(bb.B), "pooled buffer should be empty")
	assert.GreaterOrEqual(t, cap(bb.B), PayloadBufferDefaultSize, "pooled buffer should have at least default capacity")
	PutPayloadBuffer(bb)
}

func TestPutPayloadBuffer_NilBuffer(t *testing.T) {
	assert.NotPanics(t, func() {
		PutPayloadBuffer(nil)
	})
}

func TestPayloadBuffer_ResetOnPut(t *testing.T) {
	bb := GetPayloadBuffer()
	bb.B = append(bb.B, []byte("peak payload bytes")...)

	PutPayloadBuffer(bb)

	assert.Equal(t, 0, len(bb.B), "PutPayloadBuffer should reset the buffer")

	bb2 := GetPayloadBuffer()
	assert.Equal(t, 0, len(bb2.B), "buffer should be empty after retrieval from pool")
	PutPayloadBuffer(bb2)
}

func TestScratchBuffer_MaxThreshold(t *testing.T) {
	bb := GetScratchBuffer()
	bb.Grow(10 * 1024 * 1024) // beyond ScratchBufferMaxThreshold (8MB)

	assert.Greater(t, cap(bb.B), ScratchBufferMaxThreshold, "buffer should have grown beyond threshold")

	// Put it back - should be discarded
	PutScratchBuffer(bb)

	bb2 := GetScratchBuffer()
	assert.LessOrEqual(t, cap(bb2.B), ScratchBufferMaxThreshold, "should not reuse overly large buffer")
	PutScratchBuffer(bb2)
}

func TestByteBufferPool_MaxThreshold_Discard(t *testing.T) {
	pool := NewByteBufferPool(1024, 4096)

	bb := pool.Get()
	bb.Grow(10000) // Grow beyond 4096 threshold
	assert.Greater(t, cap(bb.B), 4096, "buffer should have grown beyond threshold")

	pool.Put(bb)

	bb2 := pool.Get()
	assert.LessOrEqual(t, cap(bb2.B), 4096, "should not reuse buffer larger than threshold")
}

func TestPool_ConcurrentAccess(t *testing.T) {
	const numGoroutines = 32
	const numIterations = 500

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for range numGoroutines {
		go func() {
			defer wg.Done()
			for range numIterations {
				bb := GetPayloadBuffer()
				bb.MustWrite([]byte("data"))
				assert.Equal(t, 4, bb.Len())
				PutPayloadBuffer(bb)
			}
		}()
	}

	wg.Wait()
}

func BenchmarkPool_GetWritePut(b *testing.B) {
	data := []byte("benchmark data")

	b.ResetTimer()
	for b.Loop() {
		bb := GetPayloadBuffer()
		bb.MustWrite(data)
		PutPayloadBuffer(bb)
	}
}

// errorWriter is a writer that always returns an error
type errorWriter struct {
	err error
}

func (ew *errorWriter) Write(p []byte) (n int, err error) {
	return 0, ew.err
}
