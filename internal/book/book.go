// Package book implements an opening book keyed by board hash.
//
// Books use the Polyglot record layout (key, move, weight, learn) so the
// same tooling can inspect them, but keys are board.Board.Hash values
// rather than Polyglot keys.
package book

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/storage"
)

const entrySize = 16

// ErrIllegalMove is returned by FromGames for a move that is not
// pseudo-legal in its position.
var ErrIllegalMove = errors.New("book: illegal move")

// Entry is one book move with its weight.
type Entry struct {
	Move   board.HalfMove
	Weight uint16
}

// Book represents an opening book.
type Book struct {
	entries map[uint64][]Entry
}

// New creates an empty book.
func New() *Book {
	return &Book{
		entries: make(map[uint64][]Entry),
	}
}

// Load reads a book file.
func Load(filename string) (*Book, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Read(bufio.NewReader(file))
}

// Read reads a book from r.
func Read(r io.Reader) (*Book, error) {
	book := New()

	// Entry format:
	// 8 bytes: position key (big-endian)
	// 2 bytes: move (big-endian)
	// 2 bytes: weight (big-endian)
	// 4 bytes: learn data (ignored)
	var entry [entrySize]byte

	for {
		_, err := io.ReadFull(r, entry[:])
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read book entry %d: %w", book.entryCount(), err)
		}

		key := binary.BigEndian.Uint64(entry[0:8])
		move := decodeMove(binary.BigEndian.Uint16(entry[8:10]))
		weight := binary.BigEndian.Uint16(entry[10:12])
		book.entries[key] = append(book.entries[key], Entry{Move: move, Weight: weight})
	}

	return book, nil
}

// WriteTo writes the book sorted by key, heaviest move first.
func (b *Book) WriteTo(w io.Writer) (int64, error) {
	keys := make([]uint64, 0, len(b.entries))
	for k := range b.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var n int64
	var entry [entrySize]byte
	for _, key := range keys {
		for _, e := range b.ProbeAll(key) {
			binary.BigEndian.PutUint64(entry[0:8], key)
			binary.BigEndian.PutUint16(entry[8:10], encodeMove(e.Move))
			binary.BigEndian.PutUint16(entry[10:12], e.Weight)
			binary.BigEndian.PutUint32(entry[12:16], 0)

			written, err := w.Write(entry[:])
			n += int64(written)
			if err != nil {
				return n, err
			}
		}
	}
	return n, nil
}

// Add credits m in position pos with weight, saturating at the maximum.
func (b *Book) Add(pos *board.Board, m board.HalfMove, weight uint16) {
	key := pos.Hash()
	entries := b.entries[key]
	for i := range entries {
		if sameMove(entries[i].Move, m) {
			if sum := uint32(entries[i].Weight) + uint32(weight); sum > 0xFFFF {
				entries[i].Weight = 0xFFFF
			} else {
				entries[i].Weight = uint16(sum)
			}
			return
		}
	}
	b.entries[key] = append(entries, Entry{Move: m, Weight: weight})
}

// FromGames builds a book from the first maxPly plies of each game.
func FromGames(games []storage.GameRecord, maxPly int) (*Book, error) {
	book := New()
	for _, g := range games {
		pos, err := board.ParseFEN(g.StartFEN)
		if err != nil {
			return nil, fmt.Errorf("game %s: %w", g.ID, err)
		}
		for ply, s := range g.Moves {
			if ply >= maxPly {
				break
			}
			m, err := board.ParseHalfMove(s, pos)
			if err != nil {
				return nil, fmt.Errorf("game %s ply %d: %w", g.ID, ply+1, err)
			}
			if !pos.PseudoLegalMoves().Contains(m) {
				return nil, fmt.Errorf("game %s ply %d: %s: %w", g.ID, ply+1, s, ErrIllegalMove)
			}
			book.Add(pos, m, 1)
			if err := pos.MovePiece(m); err != nil {
				return nil, fmt.Errorf("game %s ply %d: %w", g.ID, ply+1, err)
			}
		}
	}
	return book, nil
}

// Probe picks a book move for pos by weighted random selection, or the
// heaviest move when rng is nil. Entries that are not pseudo-legal in pos
// are skipped.
func (b *Book) Probe(pos *board.Board, rng *rand.Rand) (board.HalfMove, bool) {
	if b == nil {
		return board.NoMove, false
	}

	legal := pos.PseudoLegalMoves()
	var candidates []Entry
	totalWeight := uint32(0)
	for _, e := range b.ProbeAll(pos.Hash()) {
		if m, ok := resolve(pos, legal, e.Move); ok {
			candidates = append(candidates, Entry{Move: m, Weight: e.Weight})
			totalWeight += uint32(e.Weight)
		}
	}
	if len(candidates) == 0 {
		return board.NoMove, false
	}

	if totalWeight == 0 || rng == nil {
		// All weights are 0, just pick the first
		return candidates[0].Move, true
	}

	r := uint32(rng.Int63n(int64(totalWeight)))
	cumulative := uint32(0)
	for _, e := range candidates {
		cumulative += uint32(e.Weight)
		if r < cumulative {
			return e.Move, true
		}
	}

	// Fallback to first entry
	return candidates[0].Move, true
}

// ProbeAll returns all book moves stored under key, sorted by weight.
func (b *Book) ProbeAll(key uint64) []Entry {
	if b == nil {
		return nil
	}

	entries, ok := b.entries[key]
	if !ok {
		return nil
	}

	// Sort by weight (highest first)
	result := make([]Entry, len(entries))
	copy(result, entries)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Weight > result[j].Weight
	})

	return result
}

// Size returns the number of unique positions in the book.
func (b *Book) Size() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}

func (b *Book) entryCount() int {
	n := 0
	for _, entries := range b.entries {
		n += len(entries)
	}
	return n
}

// resolve finds the generated move matching a decoded one, which restores
// the castling and en passant flags the file format does not carry.
func resolve(pos *board.Board, legal *board.MoveList, m board.HalfMove) (board.HalfMove, bool) {
	if m.IsCastling() && pos.PieceAt(m.From()).Type() != board.King {
		// A rook or queen leaving e1 for h1 shares the castling encoding.
		m = board.NewHalfMove(m.From(), castleRookSquares[m.To()])
	}
	for _, lm := range legal.Slice() {
		if sameMove(lm, m) {
			return lm, true
		}
	}
	return board.NoMove, false
}

func sameMove(a, b board.HalfMove) bool {
	if a.From() != b.From() || a.To() != b.To() || a.IsPromotion() != b.IsPromotion() {
		return false
	}
	return !a.IsPromotion() || a.Promotion() == b.Promotion()
}

// Polyglot move format (bits):
// 0-5: to square
// 6-11: from square
// 12-14: promotion piece (0=none, 1=knight, 2=bishop, 3=rook, 4=queen)
var promoCodes = map[board.PieceType]uint16{board.Knight: 1, board.Bishop: 2, board.Rook: 3, board.Queen: 4}

// Castling is stored as the king capturing its own rook.
var castleRookSquares = map[board.Square]board.Square{
	board.G1: board.H1, board.C1: board.A1, board.G8: board.H8, board.C8: board.A8,
}

func encodeMove(m board.HalfMove) uint16 {
	to := m.To()
	if m.IsCastling() {
		to = castleRookSquares[to]
	}
	data := uint16(to) | uint16(m.From())<<6
	if m.IsPromotion() {
		data |= promoCodes[m.Promotion()] << 12
	}
	return data
}

func decodeMove(data uint16) board.HalfMove {
	to := board.Square(data & 0x3F)
	from := board.Square((data >> 6) & 0x3F)
	promo := (data >> 12) & 7

	// Handle castling: convert king-captures-rook to the king's destination
	switch {
	case from == board.E1 && to == board.H1:
		return board.NewCastling(from, board.G1)
	case from == board.E1 && to == board.A1:
		return board.NewCastling(from, board.C1)
	case from == board.E8 && to == board.H8:
		return board.NewCastling(from, board.G8)
	case from == board.E8 && to == board.A8:
		return board.NewCastling(from, board.C8)
	}

	if promo > 0 && promo <= 4 {
		promoTypes := [5]board.PieceType{board.NoPieceType, board.Knight, board.Bishop, board.Rook, board.Queen}
		return board.NewPromotion(from, to, promoTypes[promo])
	}

	return board.NewHalfMove(from, to)
}
