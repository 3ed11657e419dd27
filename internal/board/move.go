package board

import "fmt"

// HalfMove encodes one ply in 16 bits:
// bits 0-5:   from square (0-63)
// bits 6-11:  to square (0-63)
// bits 12-13: promotion piece (0=Knight, 1=Bishop, 2=Rook, 3=Queen)
// bits 14-15: flags (0=normal, 1=promotion, 2=en passant, 3=castling)
type HalfMove uint16

// Move flags
const (
	FlagNormal    uint16 = 0 << 14
	FlagPromotion uint16 = 1 << 14
	FlagEnPassant uint16 = 2 << 14
	FlagCastling  uint16 = 3 << 14
)

// NoMove represents an invalid or null move.
const NoMove HalfMove = 0

// NewHalfMove creates a normal move.
func NewHalfMove(from, to Square) HalfMove {
	return HalfMove(from) | HalfMove(to)<<6
}

// NewPromotion creates a promotion move.
func NewPromotion(from, to Square, promo PieceType) HalfMove {
	promoIdx := promo - Knight
	return HalfMove(from) | HalfMove(to)<<6 | HalfMove(promoIdx)<<12 | HalfMove(FlagPromotion)
}

// NewEnPassant creates an en passant capture move.
func NewEnPassant(from, to Square) HalfMove {
	return HalfMove(from) | HalfMove(to)<<6 | HalfMove(FlagEnPassant)
}

// NewCastling creates a castling move (king's movement).
func NewCastling(from, to Square) HalfMove {
	return HalfMove(from) | HalfMove(to)<<6 | HalfMove(FlagCastling)
}

// From returns the origin square.
func (m HalfMove) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m HalfMove) To() Square {
	return Square((m >> 6) & 0x3F)
}

// Flag returns the move flag.
func (m HalfMove) Flag() uint16 {
	return uint16(m) & 0xC000
}

// Promotion returns the promotion piece type (only valid if IsPromotion() is true).
func (m HalfMove) Promotion() PieceType {
	return PieceType((m>>12)&3) + Knight
}

// IsPromotion returns true if this is a promotion move.
func (m HalfMove) IsPromotion() bool {
	return m.Flag() == FlagPromotion
}

// IsCastling returns true if this is a castling move.
func (m HalfMove) IsCastling() bool {
	return m.Flag() == FlagCastling
}

// IsEnPassant returns true if this is an en passant capture.
func (m HalfMove) IsEnPassant() bool {
	return m.Flag() == FlagEnPassant
}

// String returns the coordinate form of the move (e.g., "e2e4", "e7e8q").
func (m HalfMove) String() string {
	if m == NoMove {
		return "0000"
	}

	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string(m.Promotion().Char())
	}
	return s
}

// ParseHalfMove parses coordinate notation. The board is consulted to tag
// castling and en passant moves, which the text does not spell out.
func ParseHalfMove(s string, b *Board) (HalfMove, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("move %q: %w", s, ErrInvalidMove)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, fmt.Errorf("move %q: %w", s, err)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, fmt.Errorf("move %q: %w", s, err)
	}

	piece := b.PieceAt(from)
	if piece == NoPiece {
		return NoMove, fmt.Errorf("move %q: no piece at %s: %w", s, from, ErrInvalidMove)
	}

	if len(s) == 5 {
		promo, err := PieceTypeFromChar(s[4])
		if err != nil || promo == Pawn || promo == King {
			return NoMove, fmt.Errorf("move %q: promotion %q: %w", s, s[4], ErrInvalidChar)
		}
		if piece.Type() != Pawn {
			return NoMove, fmt.Errorf("move %q: %v cannot promote: %w", s, piece, ErrInvalidMove)
		}
		return NewPromotion(from, to, promo), nil
	}

	switch piece.Type() {
	case King:
		if _, ok := castlingFor(piece.Color(), from, to); ok {
			return NewCastling(from, to), nil
		}
	case Pawn:
		if b.EnPassant() == to && from.File() != to.File() {
			return NewEnPassant(from, to), nil
		}
	}
	return NewHalfMove(from, to), nil
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// MoveList is a growable list of moves. It starts with room for a typical
// position so most generations never reallocate.
type MoveList struct {
	moves []HalfMove
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{moves: make([]HalfMove, 0, 64)}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m HalfMove) {
	ml.moves = append(ml.moves, m)
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return len(ml.moves)
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) HalfMove {
	return ml.moves[i]
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m HalfMove) bool {
	for _, mv := range ml.moves {
		if mv == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice.
func (ml *MoveList) Slice() []HalfMove {
	return ml.moves
}
