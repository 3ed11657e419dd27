package board

// generatorFunc emits the pseudo-legal moves of a piece of color c on from.
type generatorFunc func(b *Board, c Color, from Square, ml *MoveList)

// generators is the per-kind dispatch table, indexed by PieceType.
var generators = [NumPieceTypes]generatorFunc{
	Pawn:   generatePawnMoves,
	Knight: generateKnightMoves,
	Bishop: generateBishopMoves,
	Rook:   generateRookMoves,
	Queen:  generateQueenMoves,
	King:   generateKingMoves,
}

// Pawn geometry per color.
var (
	pawnDirection  = [NumColors]int{White: 1, Black: -1}
	promotionKinds = [4]PieceType{Queen, Rook, Bishop, Knight}
)

// castlingPath is the geometry of one castling move.
type castlingPath struct {
	king, kingTo, rook, rookTo Square
	between                    Bitboard
}

// Castling geometry per color and side.
var castlingPaths = [NumColors][2]castlingPath{
	White: {
		QueenSide: {E1, C1, A1, D1, SquareBB(B1) | SquareBB(C1) | SquareBB(D1)},
		KingSide:  {E1, G1, H1, F1, SquareBB(F1) | SquareBB(G1)},
	},
	Black: {
		QueenSide: {E8, C8, A8, D8, SquareBB(B8) | SquareBB(C8) | SquareBB(D8)},
		KingSide:  {E8, G8, H8, F8, SquareBB(F8) | SquareBB(G8)},
	},
}

// castlingFor returns the castling path a king of color c follows when it
// moves from one square to another, if the move is a castling move at all.
func castlingFor(c Color, from, to Square) (castlingPath, bool) {
	for _, path := range castlingPaths[c] {
		if from == path.king && to == path.kingTo {
			return path, true
		}
	}
	return castlingPath{}, false
}

// PseudoLegalMovesFrom generates the pseudo-legal moves of whatever piece
// occupies sq. It returns nil for an empty square.
func (b *Board) PseudoLegalMovesFrom(sq Square) []HalfMove {
	piece := b.PieceAt(sq)
	if piece == NoPiece {
		return nil
	}
	return piece.PseudoLegalMoves(b, sq)
}

// PseudoLegalMoves generates the pseudo-legal moves of every piece of the
// side to move. Moves may leave the mover's king in check.
func (b *Board) PseudoLegalMoves() *MoveList {
	ml := NewMoveList()
	us := b.sideToMove
	for _, pt := range PieceTypes {
		pieces := b.pieces[us][pt]
		for pieces != 0 {
			from := pieces.PopLSB()
			generators[pt](b, us, from, ml)
		}
	}
	return ml
}

// addTargets emits a normal move to every square in targets.
func addTargets(ml *MoveList, from Square, targets Bitboard) {
	for targets != 0 {
		ml.Add(NewHalfMove(from, targets.PopLSB()))
	}
}

func generateKnightMoves(b *Board, c Color, from Square, ml *MoveList) {
	addTargets(ml, from, KnightAttacks(from)&^b.Occupied(c))
}

func generateBishopMoves(b *Board, c Color, from Square, ml *MoveList) {
	addTargets(ml, from, BishopAttacks(from, b.AllOccupied())&^b.Occupied(c))
}

func generateRookMoves(b *Board, c Color, from Square, ml *MoveList) {
	addTargets(ml, from, RookAttacks(from, b.AllOccupied())&^b.Occupied(c))
}

func generateQueenMoves(b *Board, c Color, from Square, ml *MoveList) {
	addTargets(ml, from, QueenAttacks(from, b.AllOccupied())&^b.Occupied(c))
}

// generateKingMoves emits king steps and castling. Castling only requires the
// right, both pieces on their home squares and an empty path; whether the
// king passes through check is left to legality filtering.
func generateKingMoves(b *Board, c Color, from Square, ml *MoveList) {
	addTargets(ml, from, KingAttacks(from)&^b.Occupied(c))

	occupied := b.AllOccupied()
	for _, side := range [2]BoardSide{KingSide, QueenSide} {
		path := castlingPaths[c][side]
		if from != path.king || !b.castlingRights.Has(c, side) {
			continue
		}
		if !b.pieces[c][Rook].IsSet(path.rook) || occupied&path.between != 0 {
			continue
		}
		ml.Add(NewCastling(from, path.kingTo))
	}
}

func generatePawnMoves(b *Board, c Color, from Square, ml *MoveList) {
	occupied := b.AllOccupied()
	enemies := b.Occupied(c.Other())
	dir := pawnDirection[c]

	if one, err := from.Offset(dir, 0); err == nil && !occupied.IsSet(one) {
		addPawnMove(ml, c, from, one)
		if from.RelativeRank(c) == AxisB {
			if two, err := one.Offset(dir, 0); err == nil && !occupied.IsSet(two) {
				ml.Add(NewHalfMove(from, two))
			}
		}
	}

	captures := PawnAttacks(from, c) & enemies
	for captures != 0 {
		addPawnMove(ml, c, from, captures.PopLSB())
	}

	// The target must sit behind an enemy pawn that just double-pushed.
	ep := b.enPassant
	if ep == NoSquare || ep.RelativeRank(c) != AxisF || occupied.IsSet(ep) || !PawnAttacks(from, c).IsSet(ep) {
		return
	}
	if b.pieces[c.Other()][Pawn].IsSet(NewSquare(from.Rank(), ep.File())) {
		ml.Add(NewEnPassant(from, ep))
	}
}

// addPawnMove emits a pawn move, expanded into the four promotions when it
// reaches the far rank.
func addPawnMove(ml *MoveList, c Color, from, to Square) {
	if to.RelativeRank(c) != AxisH {
		ml.Add(NewHalfMove(from, to))
		return
	}
	for _, pt := range promotionKinds {
		ml.Add(NewPromotion(from, to, pt))
	}
}
