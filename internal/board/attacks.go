package board

// Offset is a (rank, file) displacement.
type Offset struct {
	DRank, DFile int
}

// Leaper offset tables.
var (
	KnightOffsets = [8]Offset{
		{1, 2}, {2, 1}, {2, -1}, {1, -2},
		{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
	}
	KingOffsets = [8]Offset{
		{0, 1}, {1, 1}, {1, 0}, {1, -1},
		{0, -1}, {-1, -1}, {-1, 0}, {-1, 1},
	}
)

// Slider ray directions.
var (
	BishopDirections = [4]Offset{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	RookDirections   = [4]Offset{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	QueenDirections  = [8]Offset{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}, {1, 0}, {-1, 0}, {0, 1}, {0, -1}}
)

// Pre-computed attack tables for non-sliding pieces
var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard // [Color][Square]
)

func init() {
	knightAttacks = LeaperTable(KnightOffsets[:])
	kingAttacks = LeaperTable(KingOffsets[:])
	initPawnAttacks()
}

// LeaperTable builds one attack bitboard per origin square from an offset
// table. Offsets that leave the board are dropped.
func LeaperTable(offsets []Offset) [64]Bitboard {
	var table [64]Bitboard
	for sq := A1; sq <= H8; sq++ {
		for _, o := range offsets {
			to, err := sq.Offset(o.DRank, o.DFile)
			if err != nil {
				continue
			}
			table[sq].Set(to)
		}
	}
	return table
}

func initPawnAttacks() {
	for sq := A1; sq <= H8; sq++ {
		bb := SquareBB(sq)
		pawnAttacks[White][sq] = bb.NorthEast() | bb.NorthWest()
		pawnAttacks[Black][sq] = bb.SouthEast() | bb.SouthWest()
	}
}

// KnightAttacks returns the knight attack bitboard for a square.
func KnightAttacks(sq Square) Bitboard {
	return knightAttacks[sq]
}

// KingAttacks returns the king attack bitboard for a square.
func KingAttacks(sq Square) Bitboard {
	return kingAttacks[sq]
}

// PawnAttacks returns the pawn attack bitboard for a square and color.
func PawnAttacks(sq Square, c Color) Bitboard {
	return pawnAttacks[c][sq]
}

// RayAttacks scans outward from sq along each direction one square at a
// time. Each ray includes the first occupied square it meets and stops there.
func RayAttacks(sq Square, occupied Bitboard, directions []Offset) Bitboard {
	var attacks Bitboard
	for _, d := range directions {
		for s, err := sq.Offset(d.DRank, d.DFile); err == nil; s, err = s.Offset(d.DRank, d.DFile) {
			attacks.Set(s)
			if occupied.IsSet(s) {
				break
			}
		}
	}
	return attacks
}

// BishopAttacks returns the bishop attack bitboard for a square with given occupancy.
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	return RayAttacks(sq, occupied, BishopDirections[:])
}

// RookAttacks returns the rook attack bitboard for a square with given occupancy.
func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	return RayAttacks(sq, occupied, RookDirections[:])
}

// QueenAttacks returns the queen attack bitboard for a square with given occupancy.
func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return RayAttacks(sq, occupied, QueenDirections[:])
}
