package render

import (
	"errors"
	"fmt"
)

// ErrInvalidSize is returned by New for a non-positive capacity.
var ErrInvalidSize = errors.New("render: buffer size must be > 0")

// Buffer is a fixed-capacity circular history of downsampled render samples.
//
// The sample at WriteIndex is the most recent one. ReadIndex is WriteIndex
// shifted towards older samples by the configured read delay; it is the
// position that lines up with the most recent capture sample.
type Buffer struct {
	samples   []float64
	write     int
	read      int
	readDelay int
}

// New returns a zeroed render history holding size samples.
func New(size int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return &Buffer{samples: make([]float64, size)}, nil
}

// Samples returns the backing ring. It must be treated as read-only.
func (b *Buffer) Samples() []float64 {
	return b.samples
}

// Len returns the ring capacity.
func (b *Buffer) Len() int {
	return len(b.samples)
}

// WriteIndex returns the index of the most recent sample.
func (b *Buffer) WriteIndex() int {
	return b.write
}

// ReadIndex returns the index aligned with the most recent capture sample.
func (b *Buffer) ReadIndex() int {
	return b.read
}

// ReadDelay returns the configured read delay in samples.
func (b *Buffer) ReadDelay() int {
	return b.readDelay
}

// SetReadDelay places the read index delay samples behind the write index.
// The delay is wrapped into [0, Len()).
func (b *Buffer) SetReadDelay(delay int) {
	b.readDelay = b.OffsetIndex(0, delay)
	b.read = b.OffsetIndex(b.write, b.readDelay)
}

// OffsetIndex returns (index + offset) wrapped into [0, Len()).
func (b *Buffer) OffsetIndex(index, offset int) int {
	size := len(b.samples)
	i := (index + offset) % size
	if i < 0 {
		i += size
	}
	return i
}

// Insert appends block (oldest sample first) to the history. The block must
// not be longer than the ring.
func (b *Buffer) Insert(block []float64) {
	n := len(block)
	if n > len(b.samples) {
		panic("render: block longer than buffer")
	}
	if n == 0 {
		return
	}

	b.write = b.OffsetIndex(b.write, -n)
	dst := Window(b.samples, b.write, n)
	for k := 0; k < n; k++ {
		dst.Set(k, block[n-1-k])
	}
	b.read = b.OffsetIndex(b.write, b.readDelay)
}

// Reset clears the history and rewinds both indices. The read delay is kept.
func (b *Buffer) Reset() {
	for i := range b.samples {
		b.samples[i] = 0
	}
	b.write = 0
	b.read = b.OffsetIndex(0, b.readDelay)
}
