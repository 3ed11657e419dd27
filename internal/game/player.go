// Package game drives a chess game between two players over a board.
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/hailam/chesscore/internal/board"
)

var (
	// ErrIllegalSuggestion is returned when a player suggests a move that is
	// not among the pseudo-legal moves of the side to move.
	ErrIllegalSuggestion = errors.New("game: illegal move suggested")

	// ErrNoMoves is returned by players that find nothing to play.
	ErrNoMoves = errors.New("game: no pseudo-legal moves")

	// ErrScriptExhausted is returned by a ScriptedPlayer with no moves left.
	ErrScriptExhausted = errors.New("game: script exhausted")
)

// Player suggests the next move for the side to move on b.
//
// The board passed in is a private copy; implementations may inspect or
// mutate it freely.
type Player interface {
	SuggestMove(ctx context.Context, b *board.Board) (board.HalfMove, error)
}

// PlayerFunc adapts a function to Player.
type PlayerFunc func(ctx context.Context, b *board.Board) (board.HalfMove, error)

// SuggestMove calls f(ctx, b).
func (f PlayerFunc) SuggestMove(ctx context.Context, b *board.Board) (board.HalfMove, error) {
	return f(ctx, b)
}

// RandomPlayer picks uniformly among the pseudo-legal moves of the side to
// move. It is safe for concurrent use.
type RandomPlayer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomPlayer creates a random player with a fixed seed, so games are
// reproducible.
func NewRandomPlayer(seed int64) *RandomPlayer {
	return &RandomPlayer{rng: rand.New(rand.NewSource(seed))}
}

// SuggestMove returns a random pseudo-legal move.
func (p *RandomPlayer) SuggestMove(ctx context.Context, b *board.Board) (board.HalfMove, error) {
	if err := ctx.Err(); err != nil {
		return board.NoMove, err
	}

	moves := b.PseudoLegalMoves()
	if moves.Len() == 0 {
		return board.NoMove, ErrNoMoves
	}

	p.mu.Lock()
	i := p.rng.Intn(moves.Len())
	p.mu.Unlock()

	return moves.Get(i), nil
}

// ScriptedPlayer replays a fixed list of moves in coordinate notation.
type ScriptedPlayer struct {
	mu    sync.Mutex
	moves []string
	next  int
}

// NewScriptedPlayer creates a player that plays moves in order.
func NewScriptedPlayer(moves ...string) *ScriptedPlayer {
	return &ScriptedPlayer{moves: moves}
}

// SuggestMove parses the next scripted move against b. Parsing needs the
// board to recognise castling and en passant.
func (p *ScriptedPlayer) SuggestMove(ctx context.Context, b *board.Board) (board.HalfMove, error) {
	if err := ctx.Err(); err != nil {
		return board.NoMove, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.next >= len(p.moves) {
		return board.NoMove, ErrScriptExhausted
	}
	s := p.moves[p.next]
	m, err := board.ParseHalfMove(s, b)
	if err != nil {
		return board.NoMove, fmt.Errorf("scripted move %d: %w", p.next+1, err)
	}
	p.next++
	return m, nil
}

// Remaining reports how many scripted moves are left.
func (p *ScriptedPlayer) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.moves) - p.next
}
