package board

// Perft counts the leaf nodes of the pseudo-legal move tree to depth.
// Moves that leave the mover's king attacked are counted too, so figures
// only match published legal perft results while no check can arise.
func (b *Board) Perft(depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := b.PseudoLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for _, m := range moves.Slice() {
		child := *b
		if err := child.MovePiece(m); err != nil {
			continue
		}
		nodes += child.Perft(depth - 1)
	}
	return nodes
}
