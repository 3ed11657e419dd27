package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// FEN field names used in FENError.
const (
	fieldFEN       = "fen"
	fieldPlacement = "placement"
	fieldSide      = "side to move"
	fieldCastling  = "castling"
	fieldEnPassant = "en passant"
	fieldHalfMove  = "half-move clock"
	fieldFullMove  = "full-move clock"
)

// ParseFEN decodes a six-field FEN string into a Board.
// Decoding is all-or-nothing: on error no board is returned.
func ParseFEN(fen string) (*Board, error) {
	parts := strings.Fields(fen)
	if len(parts) != 6 {
		return nil, fenError(fieldFEN, fen, fmt.Errorf("need 6 fields, got %d", len(parts)))
	}

	b := EmptyBoard()

	if err := parsePiecePlacement(b, parts[0]); err != nil {
		return nil, err
	}

	side, err := parseSideToMove(parts[1])
	if err != nil {
		return nil, err
	}
	b.sideToMove = side

	if b.castlingRights, err = parseCastlingRights(parts[2]); err != nil {
		return nil, err
	}
	if b.enPassant, err = parseEnPassant(parts[3]); err != nil {
		return nil, err
	}
	if b.halfMoveClock, err = parseClock(fieldHalfMove, parts[4]); err != nil {
		return nil, err
	}
	if b.fullMoveClock, err = parseClock(fieldFullMove, parts[5]); err != nil {
		return nil, err
	}

	return b, nil
}

// MustParseFEN is like ParseFEN but panics on error. Intended for literals.
func MustParseFEN(fen string) *Board {
	b, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return b
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(b *Board, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != NumAxes {
		return fenError(fieldPlacement, placement, fmt.Errorf("need 8 ranks, got %d", len(ranks)))
	}

	for i, rankStr := range ranks {
		rank := AxisH - Axis(i) // FEN starts from rank 8
		file := 0

		for j := 0; j < len(rankStr); j++ {
			c := rankStr[j]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}

			piece, err := PieceFromChar(c)
			if err != nil {
				return fenError(fieldPlacement, placement, err)
			}
			if file >= NumAxes {
				return fenError(fieldPlacement, placement, fmt.Errorf("too many squares in rank %d", rank+1))
			}
			b.SetPiece(piece, NewSquare(rank, Axis(file)))
			file++
		}

		if file != NumAxes {
			return fenError(fieldPlacement, placement, fmt.Errorf("rank %d covers %d squares", rank+1, file))
		}
	}

	return nil
}

func parseSideToMove(field string) (Color, error) {
	if len(field) != 1 {
		return NoColor, fenError(fieldSide, field, nil)
	}
	c, err := ParseColor(field[0])
	if err != nil {
		return NoColor, fenError(fieldSide, field, err)
	}
	return c, nil
}

// parseCastlingRights parses the castling rights section of a FEN string.
// Uppercase letters grant White's rights, lowercase Black's.
func parseCastlingRights(field string) (CastlingRights, error) {
	if field == "-" {
		return NoCastling, nil
	}

	rights := NoCastling
	for i := 0; i < len(field); i++ {
		c := field[i]
		side, err := ParseBoardSide(c)
		if err != nil {
			return NoCastling, fenError(fieldCastling, field, err)
		}
		color := Black
		if c >= 'A' && c <= 'Z' {
			color = White
		}
		rights = rights.With(color, side)
	}
	return rights, nil
}

func parseEnPassant(field string) (Square, error) {
	if field == "-" {
		return NoSquare, nil
	}
	if len(field) != 2 {
		return NoSquare, fenError(fieldEnPassant, field, fmt.Errorf("need 2 characters, got %d", len(field)))
	}
	sq, err := ParseSquare(field)
	if err != nil {
		return NoSquare, fenError(fieldEnPassant, field, err)
	}
	return sq, nil
}

func parseClock(name, field string) (uint32, error) {
	n, err := strconv.ParseUint(field, 10, 32)
	if err != nil {
		return 0, fenError(name, field, err)
	}
	return uint32(n), nil
}

// FEN returns the FEN representation of the board.
func (b *Board) FEN() string {
	var sb strings.Builder

	for rank := AxisH; ; rank-- {
		empty := 0
		for file := AxisA; file <= AxisH; file++ {
			piece := b.PieceAt(NewSquare(rank, file))
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(piece.Char())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank == AxisA {
			break
		}
		sb.WriteByte('/')
	}

	sb.WriteByte(' ')
	sb.WriteByte(b.sideToMove.Char())
	sb.WriteByte(' ')
	sb.WriteString(b.castlingRights.String())
	sb.WriteByte(' ')
	sb.WriteString(b.enPassant.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.FormatUint(uint64(b.halfMoveClock), 10))
	sb.WriteByte(' ')
	sb.WriteString(strconv.FormatUint(uint64(b.fullMoveClock), 10))

	return sb.String()
}
