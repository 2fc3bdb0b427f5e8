package input

import (
	"sync"

	"github.com/cbodonnell/snake/pkg/game/types"
)

// Buffer is a single-slot holder for the latest requested direction.
// Requests made between two ticks collapse to the most recent one.
// It is safe for concurrent use by input sources and the game loop.
type Buffer struct {
	lock    sync.Mutex
	pending types.Direction
}

// NewBuffer returns a buffer whose pending direction is initial.
func NewBuffer(initial types.Direction) *Buffer {
	return &Buffer{
		pending: initial,
	}
}

// Set overwrites the pending direction.
func (b *Buffer) Set(direction types.Direction) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.pending = direction
}

// Pending returns the pending direction without consuming it.
func (b *Buffer) Pending() types.Direction {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.pending
}

// Resolve calls arbitrate with the pending direction and resets the pending
// direction to the result. No Set can interleave with the call.
func (b *Buffer) Resolve(arbitrate func(pending types.Direction) types.Direction) types.Direction {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.pending = arbitrate(b.pending)
	return b.pending
}
