// Package board implements chess board representation using bitboards.
package board

import "fmt"

// Axis is one of the eight ordinal positions along a rank or a file (0-7).
type Axis uint8

const (
	AxisA Axis = iota
	AxisB
	AxisC
	AxisD
	AxisE
	AxisF
	AxisG
	AxisH
)

// NumAxes is the number of values an Axis can take.
const NumAxes = 8

// AxisFromIndex converts a 0-7 index into an Axis.
func AxisFromIndex(i int) (Axis, error) {
	if i < 0 || i >= NumAxes {
		return 0, fmt.Errorf("axis %d: %w", i, ErrPositionOutOfBounds)
	}
	return Axis(i), nil
}

// ParseFileAxis parses a file letter ('a'-'h', either case).
func ParseFileAxis(c byte) (Axis, error) {
	switch {
	case c >= 'a' && c <= 'h':
		return Axis(c - 'a'), nil
	case c >= 'A' && c <= 'H':
		return Axis(c - 'A'), nil
	}
	return 0, fmt.Errorf("file %q: %w", c, ErrInvalidChar)
}

// ParseRankAxis parses a rank digit ('1'-'8').
func ParseRankAxis(c byte) (Axis, error) {
	if c < '1' || c > '8' {
		return 0, fmt.Errorf("rank %q: %w", c, ErrInvalidChar)
	}
	return Axis(c - '1'), nil
}

// Square represents a square on the chess board (0-63).
// Uses Little-Endian Rank-File Mapping: A1=0, H1=7, A8=56, H8=63.
type Square uint8

// Square constants for all 64 squares.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	NoSquare Square = 64
)

// NewSquare creates a square from its rank and file.
func NewSquare(rank, file Axis) Square {
	return Square(rank)*8 + Square(file)
}

// SquareFromIndex converts a linear 0-63 index into a Square.
func SquareFromIndex(i int) (Square, error) {
	if i < 0 || i >= int(NoSquare) {
		return NoSquare, fmt.Errorf("square index %d: %w", i, ErrPositionOutOfBounds)
	}
	return Square(i), nil
}

// File returns the file (column) of the square, AxisA being the a-file.
func (sq Square) File() Axis {
	return Axis(sq & 7)
}

// Rank returns the rank (row) of the square, AxisA being the 1st rank.
func (sq Square) Rank() Axis {
	return Axis(sq >> 3)
}

// Index returns the linear index rank*8+file.
func (sq Square) Index() int {
	return int(sq)
}

// Offset returns the square dRank ranks and dFile files away.
// It fails with ErrPositionOutOfBounds if either axis leaves 0-7.
func (sq Square) Offset(dRank, dFile int) (Square, error) {
	r := int(sq.Rank()) + dRank
	f := int(sq.File()) + dFile
	if r < 0 || r >= NumAxes || f < 0 || f >= NumAxes {
		return NoSquare, ErrPositionOutOfBounds
	}
	return NewSquare(Axis(r), Axis(f)), nil
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '1'+sq.Rank())
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("square %q: %w", s, ErrInvalidChar)
	}
	file, err := ParseFileAxis(s[0])
	if err != nil {
		return NoSquare, err
	}
	rank, err := ParseRankAxis(s[1])
	if err != nil {
		return NoSquare, err
	}
	return NewSquare(rank, file), nil
}

// RelativeRank returns the rank from a given color's perspective.
// For White, rank 0 is the 1st rank; for Black, rank 0 is the 8th rank.
func (sq Square) RelativeRank(c Color) Axis {
	if c == White {
		return sq.Rank()
	}
	return AxisH - sq.Rank()
}
