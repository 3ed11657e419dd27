package game

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/hailam/chesscore/internal/board"
)

// StopReason tells why Play returned.
type StopReason int

const (
	StopOutcome StopReason = iota
	StopPlyLimit
	StopCanceled
	StopError
)

func (r StopReason) String() string {
	switch r {
	case StopOutcome:
		return "outcome"
	case StopPlyLimit:
		return "ply limit"
	case StopCanceled:
		return "canceled"
	default:
		return "error"
	}
}

// Result summarises a finished (or interrupted) game.
type Result struct {
	StartFEN string
	FinalFEN string
	Moves    []board.HalfMove
	Outcome  board.Outcome
	Reason   StopReason
	Duration time.Duration
}

// MoveStrings returns the moves in coordinate notation.
func (r Result) MoveStrings() []string {
	out := make([]string, len(r.Moves))
	for i, m := range r.Moves {
		out[i] = m.String()
	}
	return out
}

// Option configures a Game.
type Option func(*Game)

// WithStart sets the starting position. The board is copied.
func WithStart(b *board.Board) Option {
	return func(g *Game) {
		if b != nil {
			g.board = b.Copy()
		}
	}
}

// WithMaxPlies stops the game after n plies. Zero means no limit.
func WithMaxPlies(n int) Option {
	return func(g *Game) {
		if n >= 0 {
			g.maxPlies = n
		}
	}
}

// WithDetector sets the terminal-position detector.
func WithDetector(d board.OutcomeDetector) Option {
	return func(g *Game) {
		g.detector = d
	}
}

// WithBroadcaster publishes a snapshot after every ply to bc.
func WithBroadcaster(bc *Broadcaster) Option {
	return func(g *Game) {
		g.broadcaster = bc
	}
}

// WithLogger logs every ply to l.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.logger = l
		}
	}
}

// Game is the single writer of a board. It alternates between the two
// players, validates each suggestion and applies it.
type Game struct {
	players     [board.NumColors]Player
	board       *board.Board
	startFEN    string
	history     []board.HalfMove
	maxPlies    int
	detector    board.OutcomeDetector
	broadcaster *Broadcaster
	logger      *log.Logger
}

// New creates a game from the standard starting position unless WithStart
// says otherwise.
func New(white, black Player, opts ...Option) *Game {
	g := &Game{
		players:  [board.NumColors]Player{board.White: white, board.Black: black},
		board:    board.NewBoard(),
		detector: board.NoOutcome,
		logger:   log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.startFEN = g.board.FEN()
	return g
}

// Board returns a copy of the current position.
func (g *Game) Board() *board.Board {
	return g.board.Copy()
}

// History returns the moves played so far.
func (g *Game) History() []board.HalfMove {
	return append([]board.HalfMove(nil), g.history...)
}

// Play runs the game until the detector reports an outcome, the ply limit
// is reached, ctx is canceled or a player fails. The returned Result is
// always filled in, even alongside an error.
func (g *Game) Play(ctx context.Context) (Result, error) {
	started := time.Now()
	g.publish(board.NoMove)

	finish := func(reason StopReason, err error) (Result, error) {
		return Result{
			StartFEN: g.startFEN,
			FinalFEN: g.board.FEN(),
			Moves:    g.History(),
			Outcome:  g.board.Outcome(g.detector),
			Reason:   reason,
			Duration: time.Since(started),
		}, err
	}

	for {
		if g.board.Outcome(g.detector).IsOver() {
			return finish(StopOutcome, nil)
		}
		if g.maxPlies > 0 && len(g.history) >= g.maxPlies {
			return finish(StopPlyLimit, nil)
		}
		if err := ctx.Err(); err != nil {
			return finish(StopCanceled, err)
		}
		if err := g.Step(ctx); err != nil {
			if ctx.Err() != nil {
				return finish(StopCanceled, err)
			}
			return finish(StopError, err)
		}
	}
}

// Step asks the side to move for one move and applies it.
func (g *Game) Step(ctx context.Context) error {
	side := g.board.CurrentTurn()
	player := g.players[side]
	if player == nil {
		return fmt.Errorf("%v has no player", side)
	}

	m, err := player.SuggestMove(ctx, g.board.Copy())
	if err != nil {
		return fmt.Errorf("%v to move: %w", side, err)
	}
	if !g.board.PseudoLegalMoves().Contains(m) {
		return fmt.Errorf("%v suggested %v: %w", side, m, ErrIllegalSuggestion)
	}
	if err := g.board.MovePiece(m); err != nil {
		return fmt.Errorf("%v plays %v: %w", side, m, err)
	}

	g.history = append(g.history, m)
	g.logger.Printf("ply %d: %v %v", len(g.history), side, m)
	g.publish(m)
	return nil
}

func (g *Game) publish(last board.HalfMove) {
	if g.broadcaster == nil {
		return
	}
	g.broadcaster.Publish(Snapshot{
		Board:    *g.board,
		LastMove: last,
		Ply:      len(g.history),
		Outcome:  g.board.Outcome(g.detector),
	})
}

// KingCapture ends a game that ignores check: the side to move loses once
// its king has been captured, and a side with no pseudo-legal move at all
// is stalemated.
var KingCapture board.OutcomeDetector = board.OutcomeFunc(func(b *board.Board) board.Outcome {
	side := b.CurrentTurn()
	if b.Pieces(board.King, side) == 0 {
		return board.Outcome{Kind: board.Checkmate, Winner: side.Other()}
	}
	if b.PseudoLegalMoves().Len() == 0 {
		return board.Outcome{Kind: board.Stalemate, Winner: board.NoColor}
	}
	return board.Outcome{Kind: board.Ongoing, Winner: board.NoColor}
})
