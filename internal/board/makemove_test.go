package board

import (
	"testing"

	"github.com/hailam/chesscore/internal/testutil"
)

func mustMove(t *testing.T, b *Board, s string) {
	t.Helper()
	m, err := ParseHalfMove(s, b)
	testutil.AssertNoError(t, err, "parse %s", s)
	testutil.AssertNoError(t, b.MovePiece(m), "apply %s", s)
}

func TestMovePieceEmptyOrigin(t *testing.T) {
	b := NewBoard()
	before := b.Copy()

	err := b.MovePiece(NewHalfMove(E4, E5))
	testutil.AssertErrorIs(t, err, ErrInvalidMove)
	if !b.Equal(before) {
		t.Errorf("board changed after a rejected move:\n%v", b)
	}
}

func TestMovePieceUpdatesState(t *testing.T) {
	b := NewBoard()

	mustMove(t, b, "e2e4")
	if b.PieceAt(E4) != WhitePawn || !b.IsEmpty(E2) {
		t.Fatalf("pawn not moved:\n%v", b)
	}
	if b.EnPassant() != E3 || b.CurrentTurn() != Black {
		t.Errorf("after e2e4: en passant %v, turn %v", b.EnPassant(), b.CurrentTurn())
	}
	if b.HalfMoveClock() != 0 || b.FullMoveClock() != 1 {
		t.Errorf("after e2e4: clocks %d %d", b.HalfMoveClock(), b.FullMoveClock())
	}

	mustMove(t, b, "e7e5")
	if b.EnPassant() != E6 || b.FullMoveClock() != 2 || b.CurrentTurn() != White {
		t.Errorf("after e7e5: en passant %v, full-move %d, turn %v", b.EnPassant(), b.FullMoveClock(), b.CurrentTurn())
	}

	mustMove(t, b, "g1f3")
	if b.EnPassant() != NoSquare || b.HalfMoveClock() != 1 {
		t.Errorf("after g1f3: en passant %v, half-move %d", b.EnPassant(), b.HalfMoveClock())
	}
	testutil.AssertEqual(t, b.FEN(), "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2")
}

func TestMovePieceCapture(t *testing.T) {
	b := MustParseFEN("4k3/8/8/3p4/4P3/8/8/4K3 w - - 5 10")
	mustMove(t, b, "e4d5")

	if b.PieceAt(D5) != WhitePawn || b.Count(Pawn, Black) != 0 {
		t.Errorf("capture not applied:\n%v", b)
	}
	if b.HalfMoveClock() != 0 {
		t.Errorf("half-move clock = %d, want 0", b.HalfMoveClock())
	}
	testutil.AssertNoError(t, b.Validate())
}

func TestMovePieceEnPassant(t *testing.T) {
	b := MustParseFEN("4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2")
	mustMove(t, b, "e5d6")

	if b.PieceAt(D6) != WhitePawn || !b.IsEmpty(D5) || !b.IsEmpty(E5) {
		t.Errorf("en passant not applied:\n%v", b)
	}
	if b.Count(Pawn, Black) != 0 {
		t.Errorf("captured pawn still on the board")
	}
	if b.EnPassant() != NoSquare {
		t.Errorf("en passant target = %v", b.EnPassant())
	}
}

func TestMovePieceCastling(t *testing.T) {
	b := MustParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")

	mustMove(t, b, "e1g1")
	if b.PieceAt(G1) != WhiteKing || b.PieceAt(F1) != WhiteRook || !b.IsEmpty(H1) {
		t.Fatalf("white castling:\n%v", b)
	}
	testutil.AssertEqual(t, b.CastlingRights().String(), "kq")

	mustMove(t, b, "e8c8")
	if b.PieceAt(C8) != BlackKing || b.PieceAt(D8) != BlackRook || !b.IsEmpty(A8) {
		t.Fatalf("black castling:\n%v", b)
	}
	testutil.AssertEqual(t, b.FEN(), "2kr3r/8/8/8/8/8/8/R4RK1 w - - 2 2")
}

func TestMovePieceRookCaptureDropsRights(t *testing.T) {
	b := MustParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	mustMove(t, b, "a1a8")
	testutil.AssertEqual(t, b.CastlingRights().String(), "Kk")

	b = MustParseFEN("r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1")
	mustMove(t, b, "h8h7")
	testutil.AssertEqual(t, b.CastlingRights().String(), "KQq")
}

func TestMovePiecePromotion(t *testing.T) {
	b := MustParseFEN("1n2k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	mustMove(t, b, "a7b8q")

	if b.PieceAt(B8) != WhiteQueen {
		t.Errorf("b8 holds %v", b.PieceAt(B8))
	}
	if b.Count(Pawn, White) != 0 || b.Count(Knight, Black) != 0 {
		t.Errorf("promotion left stale pieces:\n%v", b)
	}
}

func TestParseHalfMove(t *testing.T) {
	castle := MustParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	ep := MustParseFEN("4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2")
	promo := MustParseFEN("1n2k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	kingOffHome := MustParseFEN("4k3/8/8/8/8/8/8/3K3R w - - 0 1")

	tests := []struct {
		in   string
		b    *Board
		want HalfMove
	}{
		{"e2e4", NewBoard(), NewHalfMove(E2, E4)},
		{"e1g1", castle, NewCastling(E1, G1)},
		{"e1c1", castle, NewCastling(E1, C1)},
		{"e1f1", castle, NewHalfMove(E1, F1)},
		{"e5d6", ep, NewEnPassant(E5, D6)},
		{"e5e6", ep, NewHalfMove(E5, E6)},
		{"a7a8q", promo, NewPromotion(A7, A8, Queen)},
		{"a7b8N", promo, NewPromotion(A7, B8, Knight)},
		{"d1f1", kingOffHome, NewHalfMove(D1, F1)},
	}
	for _, tc := range tests {
		got, err := ParseHalfMove(tc.in, tc.b)
		testutil.AssertNoError(t, err, tc.in)
		if got != tc.want {
			t.Errorf("ParseHalfMove(%q) = %v (flag %x), want %v", tc.in, got, got.Flag(), tc.want)
		}
	}

	for _, bad := range []string{"", "e2", "e2e4qq", "e9e4", "e2e4k", "e2e4p"} {
		_, err := ParseHalfMove(bad, NewBoard())
		if err == nil {
			t.Errorf("ParseHalfMove(%q) accepted", bad)
		}
	}
	_, err := ParseHalfMove("e3e4", NewBoard())
	testutil.AssertErrorIs(t, err, ErrInvalidMove)

	// Only pawns promote.
	_, err = ParseHalfMove("e1e2q", MustParseFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1"))
	testutil.AssertErrorIs(t, err, ErrInvalidMove)
}

func TestMovePieceIgnoresFlagsThatDoNotFit(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		move  HalfMove
		after string
	}{
		{
			name:  "king off its home square",
			fen:   "4k3/8/8/8/8/8/8/3K3R w - - 0 1",
			move:  NewCastling(D1, F1),
			after: "4k3/8/8/8/8/8/8/5K1R b - - 1 1",
		},
		{
			name:  "king cannot promote",
			fen:   "4k3/8/8/8/8/8/8/4K3 w - - 0 1",
			move:  NewPromotion(E1, E2, Queen),
			after: "4k3/8/8/8/8/8/4K3/8 b - - 1 1",
		},
		{
			name:  "en passant without an enemy pawn",
			fen:   "4k3/8/8/8/8/8/3PP3/4K3 w - - 0 1",
			move:  NewEnPassant(E2, D3),
			after: "4k3/8/8/8/8/3P4/3P4/4K3 b - - 0 1",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := MustParseFEN(tc.fen)
			testutil.AssertNoError(t, b.MovePiece(tc.move))
			testutil.AssertNoError(t, b.Validate())
			testutil.AssertEqual(t, b.FEN(), tc.after)
		})
	}
}

func TestHalfMoveString(t *testing.T) {
	testutil.AssertEqual(t, NewHalfMove(G1, F3).String(), "g1f3")
	testutil.AssertEqual(t, NewPromotion(E7, E8, Rook).String(), "e7e8r")
	testutil.AssertEqual(t, NewCastling(E8, G8).String(), "e8g8")
	testutil.AssertEqual(t, NoMove.String(), "0000")
}

func TestCopyIsIndependent(t *testing.T) {
	b := NewBoard()
	c := b.Copy()
	mustMove(t, c, "d2d4")

	if b.PieceAt(D2) != WhitePawn || b.CurrentTurn() != White {
		t.Errorf("original mutated through copy:\n%v", b)
	}
	if b.Equal(c) {
		t.Errorf("copy and original compare equal after a move")
	}
}
