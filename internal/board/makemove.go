package board

import "fmt"

// MovePiece applies m to the board.
//
// It fails with ErrInvalidMove, leaving the board untouched, when the origin
// square is empty. Otherwise whatever stands on the destination is captured,
// and the move flag decides the extras: the passed pawn is removed for en
// passant, the rook is relocated for castling and the pawn is replaced for
// promotion. A flag that does not fit the moving piece is ignored, so no
// square ever ends up holding two pieces. Castling rights, the en passant target, both clocks and the
// side to move are updated afterwards. MovePiece does not check legality.
func (b *Board) MovePiece(m HalfMove) error {
	from, to := m.From(), m.To()
	piece := b.PieceAt(from)
	if piece == NoPiece {
		return fmt.Errorf("move %v: no piece at %v: %w", m, from, ErrInvalidMove)
	}

	us := piece.Color()
	pt := piece.Type()

	b.RemovePiece(from)
	captured := b.RemovePiece(to)

	if m.IsEnPassant() && pt == Pawn && captured == NoPiece {
		victim := NewSquare(from.Rank(), to.File())
		if b.PieceAt(victim) == NewPiece(Pawn, us.Other()) {
			captured = b.RemovePiece(victim)
		}
	}

	placed := piece
	if m.IsPromotion() && pt == Pawn {
		placed = NewPiece(m.Promotion(), us)
	}
	b.SetPiece(placed, to)

	// Only a king travelling a castling path takes its rook along.
	if path, ok := castlingFor(us, from, to); ok && m.IsCastling() && pt == King {
		if b.PieceAt(path.rook) == NewPiece(Rook, us) && b.IsEmpty(path.rookTo) {
			b.SetPiece(b.RemovePiece(path.rook), path.rookTo)
		}
	}

	b.updateCastlingRights(us, pt, from, to)

	b.enPassant = NoSquare
	if pt == Pawn && absDiff(int(from.Rank()), int(to.Rank())) == 2 {
		b.enPassant = NewSquare((from.Rank()+to.Rank())/2, from.File())
	}

	if pt == Pawn || captured != NoPiece {
		b.halfMoveClock = 0
	} else {
		b.halfMoveClock++
	}
	if us == Black {
		b.fullMoveClock++
	}
	b.sideToMove = us.Other()

	return nil
}

// updateCastlingRights drops rights lost by a king move, or by a rook
// leaving or being captured on its home square.
func (b *Board) updateCastlingRights(us Color, pt PieceType, from, to Square) {
	if pt == King {
		b.castlingRights = b.castlingRights.Without(us, KingSide).Without(us, QueenSide)
	}
	for c := White; c <= Black; c++ {
		for _, side := range [2]BoardSide{KingSide, QueenSide} {
			rookHome := castlingPaths[c][side].rook
			if from == rookHome || to == rookHome {
				b.castlingRights = b.castlingRights.Without(c, side)
			}
		}
	}
}
