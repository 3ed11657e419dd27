// Package console implements a line-oriented command protocol over a board.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/slices"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/render"
	"github.com/hailam/chesscore/internal/storage"
)

var (
	// ErrUsage is returned for malformed command arguments.
	ErrUsage = errors.New("console: bad usage")

	// ErrNoStorage is returned by storage commands when none is configured.
	ErrNoStorage = errors.New("console: no storage configured")

	// ErrIllegalMove is returned when a move is not pseudo-legal.
	ErrIllegalMove = errors.New("console: illegal move")
)

// DefaultPNGSize is the diagram size used by the png command.
const DefaultPNGSize = 480

// Console reads commands from in and writes responses to out.
type Console struct {
	in      io.Reader
	out     io.Writer
	board   *board.Board
	store   *storage.Storage
	logger  *log.Logger
	pngSize int
}

// Option configures a Console.
type Option func(*Console)

// WithStorage enables save, load, list, delete and position tracking.
func WithStorage(s *storage.Storage) Option {
	return func(c *Console) {
		c.store = s
	}
}

// WithLogger logs every command to l.
func WithLogger(l *log.Logger) Option {
	return func(c *Console) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithBoard sets the initial position. The board is copied.
func WithBoard(b *board.Board) Option {
	return func(c *Console) {
		if b != nil {
			c.board = b.Copy()
		}
	}
}

// WithPNGSize sets the size of diagrams written by the png command.
func WithPNGSize(n int) Option {
	return func(c *Console) {
		if n >= render.MinSize {
			c.pngSize = n
		}
	}
}

// New creates a console starting from the standard position.
func New(in io.Reader, out io.Writer, opts ...Option) *Console {
	c := &Console{
		in:      in,
		out:     out,
		board:   board.NewBoard(),
		logger:  log.New(io.Discard, "", 0),
		pngSize: DefaultPNGSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Board returns a copy of the current position.
func (c *Console) Board() *board.Board {
	return c.board.Copy()
}

// Run processes commands until quit, end of input or ctx is done.
// Command errors are reported on out and do not stop the loop.
//
// Input is read on a separate goroutine so that Run returns as soon as ctx
// is done, even while a read is blocked. That goroutine exits at its next
// line or at end of input.
func (c *Console) Run(ctx context.Context) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var text string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				return <-scanErr
			}
			text = l
		}

		line := strings.TrimSpace(text)
		if line == "" {
			continue
		}

		quit, err := c.Execute(line)
		if err != nil {
			c.logger.Printf("%q: %v", line, err)
			fmt.Fprintf(c.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// Execute runs one command line. It reports whether the console should stop.
func (c *Console) Execute(line string) (bool, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false, nil
	}
	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "quit":
		return true, nil
	case "position":
		return false, c.handlePosition(args)
	case "moves":
		return false, c.handleMoves(args)
	case "move":
		return false, c.handleMove(args)
	case "d":
		fmt.Fprintln(c.out, c.board.String())
		fmt.Fprintf(c.out, "Fen: %s\n", c.board.FEN())
		fmt.Fprintf(c.out, "Key: %016x\n", c.board.Hash())
	case "fen":
		fmt.Fprintln(c.out, c.board.FEN())
	case "hash":
		return false, c.handleHash()
	case "perft":
		return false, c.handlePerft(args)
	case "save":
		return false, c.handleSave(args)
	case "load":
		return false, c.handleLoad(args)
	case "delete":
		return false, c.handleDelete(args)
	case "list":
		return false, c.handleList()
	case "png":
		return false, c.handlePNG(args)
	default:
		return false, fmt.Errorf("unknown command %q", cmd)
	}
	return false, nil
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (c *Console) handlePosition(args []string) error {
	setup, moves := args, []string(nil)
	if i := slices.Index(args, "moves"); i >= 0 {
		setup, moves = args[:i], args[i+1:]
	}
	if len(setup) == 0 {
		return fmt.Errorf("position: missing startpos or fen: %w", ErrUsage)
	}

	var b *board.Board
	switch setup[0] {
	case "startpos":
		b = board.NewBoard()
	case "fen":
		var err error
		b, err = board.ParseFEN(strings.Join(setup[1:], " "))
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("position %q: %w", setup[0], ErrUsage)
	}

	for _, s := range moves {
		if err := applyMove(b, s); err != nil {
			return err
		}
	}

	c.board = b
	c.remember()
	return nil
}

// handleMoves lists the pseudo-legal moves of the side to move, or the
// destinations reachable from one square.
func (c *Console) handleMoves(args []string) error {
	if len(args) == 0 {
		moves := c.board.PseudoLegalMoves().Slice()
		strs := make([]string, len(moves))
		for i, m := range moves {
			strs[i] = m.String()
		}
		slices.Sort(strs)
		fmt.Fprintln(c.out, strings.Join(strs, " "))
		return nil
	}

	sq, err := board.ParseSquare(args[0])
	if err != nil {
		return err
	}
	targets := make([]board.Square, 0, 32)
	for _, m := range c.board.PseudoLegalMovesFrom(sq) {
		targets = append(targets, m.To())
	}
	// Promotions share a destination.
	slices.Sort(targets)
	targets = slices.Compact(targets)

	strs := make([]string, len(targets))
	for i, t := range targets {
		strs[i] = t.String()
	}
	fmt.Fprintln(c.out, strings.Join(strs, " "))
	return nil
}

func (c *Console) handleMove(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("move: missing move: %w", ErrUsage)
	}
	next := c.board.Copy()
	for _, s := range args {
		if err := applyMove(next, s); err != nil {
			return err
		}
	}
	c.board = next
	c.remember()
	return nil
}

// applyMove parses s against b, checks it is pseudo-legal and plays it.
func applyMove(b *board.Board, s string) error {
	m, err := board.ParseHalfMove(s, b)
	if err != nil {
		return err
	}
	if !b.PseudoLegalMoves().Contains(m) {
		return fmt.Errorf("move %s: %w", s, ErrIllegalMove)
	}
	return b.MovePiece(m)
}

// remember records the current position in the store, if any.
func (c *Console) remember() {
	if c.store == nil {
		return
	}
	seen, err := c.store.RememberPosition(c.board)
	if err != nil {
		c.logger.Printf("remember position: %v", err)
		return
	}
	c.logger.Printf("position %016x seen %d times", c.board.Hash(), seen)
}

func (c *Console) handleHash() error {
	hash := c.board.Hash()
	if c.store == nil {
		fmt.Fprintf(c.out, "%016x\n", hash)
		return nil
	}
	rec, err := c.store.LookupHash(hash)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		fmt.Fprintf(c.out, "%016x seen 0\n", hash)
	case err != nil:
		return err
	default:
		fmt.Fprintf(c.out, "%016x seen %d\n", hash, rec.Seen)
	}
	return nil
}

func (c *Console) handlePerft(args []string) error {
	depth := 3
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return fmt.Errorf("perft depth %q: %w", args[0], ErrUsage)
		}
		depth = n
	}

	start := time.Now()
	nodes := c.board.Perft(depth)
	elapsed := time.Since(start)

	fmt.Fprintf(c.out, "Nodes: %d\n", nodes)
	c.logger.Printf("perft %d: %d nodes in %v", depth, nodes, elapsed)
	return nil
}

func (c *Console) handleSave(args []string) error {
	if c.store == nil {
		return ErrNoStorage
	}
	if len(args) != 1 {
		return fmt.Errorf("save <name>: %w", ErrUsage)
	}
	return c.store.SavePosition(args[0], c.board)
}

func (c *Console) handleLoad(args []string) error {
	if c.store == nil {
		return ErrNoStorage
	}
	if len(args) != 1 {
		return fmt.Errorf("load <name>: %w", ErrUsage)
	}
	b, err := c.store.LoadPosition(args[0])
	if err != nil {
		return err
	}
	c.board = b
	return nil
}

func (c *Console) handleDelete(args []string) error {
	if c.store == nil {
		return ErrNoStorage
	}
	if len(args) != 1 {
		return fmt.Errorf("delete <name>: %w", ErrUsage)
	}
	return c.store.DeletePosition(args[0])
}

func (c *Console) handleList() error {
	if c.store == nil {
		return ErrNoStorage
	}
	names, err := c.store.ListPositions()
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(c.out, name)
	}
	return nil
}

func (c *Console) handlePNG(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("png <file>: %w", ErrUsage)
	}
	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	if err := render.PNG(f, c.board, c.pngSize); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
