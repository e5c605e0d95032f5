package transport

import (
	"sync"

	"github.com/tphakala/go-audio-blockfilter/internal/simdops"
)

const recorderGrowthFactor = 2

// Recorder captures the interleaved blocks a Device plays, in order.
//
// It is a FIFO over a power-of-2 ring so indexing is a mask instead of a
// modulo. Size it for the whole stream up front to keep the callback path
// free of allocations; it grows by doubling otherwise.
type Recorder[F simdops.Float] struct {
	data     []F
	mask     int // len(data) - 1
	size     int
	readPos  uint32
	writePos uint32
	mu       sync.Mutex
}

// NewRecorder creates a recorder. Capacity is rounded up to the nearest power of 2.
func NewRecorder[F simdops.Float](capacity int) *Recorder[F] {
	cap2 := 1
	for cap2 < capacity {
		cap2 <<= 1
	}

	return &Recorder[F]{
		data: make([]F, cap2),
		mask: cap2 - 1,
	}
}

// Write appends samples.
func (r *Recorder[F]) Write(samples []F) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for r.size+len(samples) > len(r.data) {
		r.grow()
	}
	for _, sample := range samples {
		r.data[r.writePos&uint32(r.mask)] = sample
		r.writePos++
	}
	r.size += len(samples)
}

// Read removes and returns up to n samples, oldest first.
func (r *Recorder[F]) Read(n int) []F {
	r.mu.Lock()
	defer r.mu.Unlock()

	n = min(n, r.size)
	if n <= 0 {
		return []F{}
	}

	result := make([]F, n)
	for i := range n {
		result[i] = r.data[r.readPos&uint32(r.mask)]
		r.readPos++
	}
	r.size -= n
	return result
}

// ReadAll removes and returns every recorded sample.
func (r *Recorder[F]) ReadAll() []F {
	return r.Read(r.Available())
}

// Available returns the number of samples waiting to be read.
func (r *Recorder[F]) Available() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

// Capacity returns the current ring size.
func (r *Recorder[F]) Capacity() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.data)
}

// Clear drops all recorded samples.
func (r *Recorder[F]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.size = 0
	r.readPos = 0
	r.writePos = 0
}

// grow doubles the ring, unwrapping the live samples to the front.
func (r *Recorder[F]) grow() {
	newData := make([]F, len(r.data)*recorderGrowthFactor)
	for i := range r.size {
		newData[i] = r.data[(r.readPos+uint32(i))&uint32(r.mask)]
	}

	r.data = newData
	r.mask = len(newData) - 1
	r.readPos = 0
	r.writePos = uint32(r.size)
}
