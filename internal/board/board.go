package board

import (
	"fmt"
	"strings"
)

// BoardSide distinguishes the two castling wings.
type BoardSide uint8

const (
	QueenSide BoardSide = iota
	KingSide
)

// String returns the side name.
func (s BoardSide) String() string {
	if s == KingSide {
		return "KingSide"
	}
	return "QueenSide"
}

// ParseBoardSide resolves 'K' or 'Q' (either case) to a side.
func ParseBoardSide(c byte) (BoardSide, error) {
	switch c {
	case 'K', 'k':
		return KingSide, nil
	case 'Q', 'q':
		return QueenSide, nil
	}
	return QueenSide, fmt.Errorf("board side %q: %w", c, ErrInvalidChar)
}

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// CastlingRight returns the single right for a color and side.
func CastlingRight(c Color, side BoardSide) CastlingRights {
	r := WhiteQueenSideCastle
	if side == KingSide {
		r = WhiteKingSideCastle
	}
	if c == Black {
		r <<= 2
	}
	return r
}

// Has returns true if the given color may castle on the given side.
func (cr CastlingRights) Has(c Color, side BoardSide) bool {
	return cr&CastlingRight(c, side) != 0
}

// With returns the rights with the given right added.
func (cr CastlingRights) With(c Color, side BoardSide) CastlingRights {
	return cr | CastlingRight(c, side)
}

// Without returns the rights with the given right removed.
func (cr CastlingRights) Without(c Color, side BoardSide) CastlingRights {
	return cr &^ CastlingRight(c, side)
}

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// Board is a complete chess position: one bitboard per (piece type, color)
// plus the side to move, castling rights, en passant target and clocks.
//
// Board is a plain value. Copying it yields an independent snapshot; it has
// no internal synchronization, so concurrent readers must not share an
// instance with a writer.
type Board struct {
	pieces [NumColors][NumPieceTypes]Bitboard

	sideToMove     Color
	castlingRights CastlingRights
	enPassant      Square // NoSquare if none
	halfMoveClock  uint32
	fullMoveClock  uint32
}

// EmptyBoard returns a board with no pieces, White to move, no castling
// rights, no en passant target and clocks 0 and 1.
func EmptyBoard() *Board {
	return &Board{
		enPassant:     NoSquare,
		fullMoveClock: 1,
	}
}

// NewBoard creates the starting position.
func NewBoard() *Board {
	b, err := ParseFEN(StartFEN)
	if err != nil {
		panic(fmt.Sprintf("board: start position does not parse: %v", err))
	}
	return b
}

// Copy returns an independent copy of the board.
func (b *Board) Copy() *Board {
	c := *b
	return &c
}

// Equal reports whether both boards describe the same position.
func (b *Board) Equal(o *Board) bool {
	return *b == *o
}

// CurrentTurn returns the side to move.
func (b *Board) CurrentTurn() Color {
	return b.sideToMove
}

// SetCurrentTurn sets the side to move.
func (b *Board) SetCurrentTurn(c Color) {
	b.sideToMove = c
}

// CastlingRights returns the current castling rights.
func (b *Board) CastlingRights() CastlingRights {
	return b.castlingRights
}

// EnPassant returns the en passant target square, or NoSquare.
func (b *Board) EnPassant() Square {
	return b.enPassant
}

// HalfMoveClock returns the number of plies since the last pawn move or capture.
func (b *Board) HalfMoveClock() uint32 {
	return b.halfMoveClock
}

// FullMoveClock returns the full move number.
func (b *Board) FullMoveClock() uint32 {
	return b.fullMoveClock
}

// Pieces returns the bitboard of one piece type and color.
func (b *Board) Pieces(pt PieceType, c Color) Bitboard {
	return b.pieces[c][pt]
}

// Occupied returns all squares occupied by pieces of the given color.
func (b *Board) Occupied(c Color) Bitboard {
	var occ Bitboard
	for _, bb := range b.pieces[c] {
		occ |= bb
	}
	return occ
}

// AllOccupied returns all occupied squares.
func (b *Board) AllOccupied() Bitboard {
	return b.Occupied(White) | b.Occupied(Black)
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
// Sets are scanned piece type first, then color; the first match wins.
func (b *Board) PieceAt(sq Square) Piece {
	for _, pt := range PieceTypes {
		for c := White; c <= Black; c++ {
			if b.pieces[c][pt].IsSet(sq) {
				return NewPiece(pt, c)
			}
		}
	}
	return NoPiece
}

// IsEmpty returns true if the square is empty.
func (b *Board) IsEmpty(sq Square) bool {
	return !b.AllOccupied().IsSet(sq)
}

// SetPiece places a piece on a square. It does not clear whatever already
// occupies the square; callers must RemovePiece first.
func (b *Board) SetPiece(piece Piece, sq Square) {
	if piece >= NoPiece {
		return
	}
	b.pieces[piece.Color()][piece.Type()].Set(sq)
}

// RemovePiece clears the first set found at the square and returns the piece
// that stood there. It is a no-op on an empty square.
func (b *Board) RemovePiece(sq Square) Piece {
	for _, pt := range PieceTypes {
		for c := White; c <= Black; c++ {
			if b.pieces[c][pt].IsSet(sq) {
				b.pieces[c][pt].Clear(sq)
				return NewPiece(pt, c)
			}
		}
	}
	return NoPiece
}

// Count returns the number of pieces of the given type and color.
func (b *Board) Count(pt PieceType, c Color) int {
	return b.pieces[c][pt].PopCount()
}

// Validate checks that no square is claimed by more than one piece set.
func (b *Board) Validate() error {
	var seen Bitboard
	for c := White; c <= Black; c++ {
		for _, pt := range PieceTypes {
			bb := b.pieces[c][pt]
			if overlap := seen & bb; overlap != 0 {
				return fmt.Errorf("board: %v %v overlaps another piece on %v", c, pt, overlap.LSB())
			}
			seen |= bb
		}
	}
	return nil
}

// String returns the board as an 8x8 grid, rank 8 first: uppercase glyphs
// for White, lowercase for Black and '-' for empty squares.
func (b *Board) String() string {
	rows := make([]string, 0, NumAxes)
	for rank := AxisH; ; rank-- {
		cells := make([]string, 0, NumAxes)
		for file := AxisA; file <= AxisH; file++ {
			cells = append(cells, string(b.PieceAt(NewSquare(rank, file)).Char()))
		}
		rows = append(rows, strings.Join(cells, " "))
		if rank == AxisA {
			break
		}
	}
	return strings.Join(rows, "\n")
}
