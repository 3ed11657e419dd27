package book

import (
	"context"
	"math/rand"
	"sync"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/game"
)

// Player plays book moves while the position is in the book and defers to
// a fallback player afterwards. It is safe for concurrent use.
type Player struct {
	book     *Book
	fallback game.Player

	mu  sync.Mutex
	rng *rand.Rand
}

// NewPlayer creates a book player. A nil book always defers to fallback.
func NewPlayer(b *Book, fallback game.Player, seed int64) *Player {
	return &Player{
		book:     b,
		fallback: fallback,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// SuggestMove returns a book move for b, or the fallback's suggestion.
func (p *Player) SuggestMove(ctx context.Context, b *board.Board) (board.HalfMove, error) {
	if err := ctx.Err(); err != nil {
		return board.NoMove, err
	}

	p.mu.Lock()
	m, ok := p.book.Probe(b, p.rng)
	p.mu.Unlock()

	if ok {
		return m, nil
	}
	if p.fallback == nil {
		return board.NoMove, game.ErrNoMoves
	}
	return p.fallback.SuggestMove(ctx, b)
}
