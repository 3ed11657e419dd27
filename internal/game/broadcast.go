package game

import (
	"context"
	"sync"

	"github.com/hailam/chesscore/internal/board"
)

// Snapshot is an immutable view of the game after a ply.
type Snapshot struct {
	Board    board.Board
	LastMove board.HalfMove
	Ply      int
	Outcome  board.Outcome
}

// Broadcaster hands the latest Snapshot from one writer to any number of
// readers. Readers never observe a half-applied move and the writer never
// waits for them.
type Broadcaster struct {
	mu      sync.Mutex
	latest  Snapshot
	version uint64
	changed chan struct{}
}

// NewBroadcaster creates a broadcaster with no published snapshot.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{changed: make(chan struct{})}
}

// Publish replaces the latest snapshot and wakes all waiting readers.
// It returns the new version.
func (bc *Broadcaster) Publish(s Snapshot) uint64 {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	bc.latest = s
	bc.version++
	close(bc.changed)
	bc.changed = make(chan struct{})
	return bc.version
}

// Latest returns the newest snapshot and its version. Version 0 means
// nothing has been published yet.
func (bc *Broadcaster) Latest() (Snapshot, uint64) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return bc.latest, bc.version
}

// Wait blocks until a version newer than after is published, then returns
// it. Intermediate versions may be skipped.
func (bc *Broadcaster) Wait(ctx context.Context, after uint64) (Snapshot, uint64, error) {
	for {
		bc.mu.Lock()
		if bc.version > after {
			s, v := bc.latest, bc.version
			bc.mu.Unlock()
			return s, v, nil
		}
		ch := bc.changed
		bc.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return Snapshot{}, after, ctx.Err()
		}
	}
}
