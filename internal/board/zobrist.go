package board

// Zobrist hash keys for position hashing.
// Uses PRNG with fixed seed for reproducibility, so hashes are stable across
// runs and safe to persist.
var (
	zobristPiece      [NumColors][NumPieceTypes][64]uint64
	zobristEnPassant  [NumAxes]uint64 // One per file
	zobristCastling   [16]uint64      // All 16 castling combinations
	zobristSideToMove uint64          // XOR when black to move
)

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := &prng{state: 0x98F107A2BEEF1234}

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := A1; sq <= H8; sq++ {
				zobristPiece[c][pt][sq] = rng.next()
			}
		}
	}
	for file := range zobristEnPassant {
		zobristEnPassant[file] = rng.next()
	}
	for i := range zobristCastling {
		zobristCastling[i] = rng.next()
	}
	zobristSideToMove = rng.next()
}

// Hash computes the Zobrist hash of the board from scratch.
// Clocks are not part of the hash.
func (b *Board) Hash() uint64 {
	var hash uint64

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := b.pieces[c][pt]
			for bb != 0 {
				hash ^= zobristPiece[c][pt][bb.PopLSB()]
			}
		}
	}

	if b.sideToMove == Black {
		hash ^= zobristSideToMove
	}
	hash ^= zobristCastling[b.castlingRights&AllCastling]
	if b.enPassant != NoSquare {
		hash ^= zobristEnPassant[b.enPassant.File()]
	}

	return hash
}
