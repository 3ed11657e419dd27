package board

import "fmt"

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// NumColors is the number of playing colors.
const NumColors = 2

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// Char returns the FEN side-to-move character.
func (c Color) Char() byte {
	if c == Black {
		return 'b'
	}
	return 'w'
}

// ParseColor parses a FEN side-to-move character ('w' or 'b').
func ParseColor(c byte) (Color, error) {
	switch c {
	case 'w':
		return White, nil
	case 'b':
		return Black, nil
	}
	return NoColor, fmt.Errorf("color %q: %w", c, ErrInvalidChar)
}

// PieceType represents the type of a chess piece.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType PieceType = 6
)

// NumPieceTypes is the number of distinct piece kinds.
const NumPieceTypes = 6

// PieceTypes lists the kinds in their fixed scan order.
var PieceTypes = [NumPieceTypes]PieceType{Pawn, Knight, Bishop, Rook, Queen, King}

// kinds holds the immutable per-kind descriptors, indexed by PieceType.
var kinds = [NumPieceTypes]struct {
	name string
	char byte
}{
	Pawn:   {"Pawn", 'p'},
	Knight: {"Knight", 'n'},
	Bishop: {"Bishop", 'b'},
	Rook:   {"Rook", 'r'},
	Queen:  {"Queen", 'q'},
	King:   {"King", 'k'},
}

// String returns the piece type name.
func (pt PieceType) String() string {
	if pt >= NoPieceType {
		return "None"
	}
	return kinds[pt].name
}

// Char returns the FEN character for the piece type (lowercase).
func (pt PieceType) Char() byte {
	if pt >= NoPieceType {
		return ' '
	}
	return kinds[pt].char
}

// PieceTypeFromChar resolves a piece letter, ignoring case.
func PieceTypeFromChar(c byte) (PieceType, error) {
	lower := c | 0x20
	for pt := Pawn; pt <= King; pt++ {
		if kinds[pt].char == lower {
			return pt, nil
		}
	}
	return NoPieceType, fmt.Errorf("piece %q: %w", c, ErrInvalidChar)
}

// Piece combines PieceType and Color into a single value.
// Encoded as: pieceType + color*6
type Piece uint8

const (
	WhitePawn   Piece = Piece(Pawn) + Piece(White)*6
	WhiteKnight Piece = Piece(Knight) + Piece(White)*6
	WhiteBishop Piece = Piece(Bishop) + Piece(White)*6
	WhiteRook   Piece = Piece(Rook) + Piece(White)*6
	WhiteQueen  Piece = Piece(Queen) + Piece(White)*6
	WhiteKing   Piece = Piece(King) + Piece(White)*6
	BlackPawn   Piece = Piece(Pawn) + Piece(Black)*6
	BlackKnight Piece = Piece(Knight) + Piece(Black)*6
	BlackBishop Piece = Piece(Bishop) + Piece(Black)*6
	BlackRook   Piece = Piece(Rook) + Piece(Black)*6
	BlackQueen  Piece = Piece(Queen) + Piece(Black)*6
	BlackKing   Piece = Piece(King) + Piece(Black)*6
	NoPiece     Piece = 12
)

// NewPiece creates a Piece from PieceType and Color.
func NewPiece(pt PieceType, c Color) Piece {
	if pt >= NoPieceType || c >= NoColor {
		return NoPiece
	}
	return Piece(pt) + Piece(c)*6
}

// Type returns the PieceType of the piece.
func (p Piece) Type() PieceType {
	if p >= NoPiece {
		return NoPieceType
	}
	return PieceType(p % 6)
}

// Color returns the Color of the piece.
func (p Piece) Color() Color {
	if p >= NoPiece {
		return NoColor
	}
	return Color(p / 6)
}

// Char returns the display glyph: uppercase for White, lowercase for Black.
func (p Piece) Char() byte {
	if p >= NoPiece {
		return '-'
	}
	c := p.Type().Char()
	if p.Color() == White {
		return c &^ 0x20
	}
	return c
}

// String returns the FEN character for the piece.
func (p Piece) String() string {
	if p >= NoPiece {
		return " "
	}
	return string(p.Char())
}

// PieceFromChar converts a FEN character to a Piece.
// Uppercase letters are White, lowercase Black.
func PieceFromChar(c byte) (Piece, error) {
	isUpper := c >= 'A' && c <= 'Z'
	isLower := c >= 'a' && c <= 'z'
	if !isUpper && !isLower {
		return NoPiece, fmt.Errorf("piece %q: %w", c, ErrInvalidChar)
	}
	pt, err := PieceTypeFromChar(c)
	if err != nil {
		return NoPiece, err
	}
	if isUpper {
		return NewPiece(pt, White), nil
	}
	return NewPiece(pt, Black), nil
}

// PseudoLegalMoves generates the pseudo-legal moves of this piece standing on sq.
// The piece is expected to occupy sq; Board.PseudoLegalMovesFrom guarantees that.
func (p Piece) PseudoLegalMoves(b *Board, sq Square) []HalfMove {
	if p >= NoPiece {
		return nil
	}
	ml := NewMoveList()
	generators[p.Type()](b, p.Color(), sq, ml)
	return ml.Slice()
}
