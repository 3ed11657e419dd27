package board

import (
	"testing"

	"github.com/hailam/chesscore/internal/testutil"
)

func TestHashTransposition(t *testing.T) {
	start := NewBoard()
	b := start.Copy()
	for _, s := range []string{"g1f3", "g8f6", "f3g1", "f6g8"} {
		mustMove(t, b, s)
	}
	if b.Hash() != start.Hash() {
		t.Errorf("knight shuffle changed the hash: %x vs %x", b.Hash(), start.Hash())
	}
	if b.Equal(start) {
		t.Errorf("clocks should differ after four plies")
	}
}

func TestHashDistinguishesState(t *testing.T) {
	base := MustParseFEN("rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2")
	variants := []string{
		"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 2",
		"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQk - 0 2",
		"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2",
		"rnbqkbnr/pppp1ppp/8/4p3/3PP3/8/PPP2PPP/RNBQKBNR w KQkq - 0 2",
	}
	seen := map[uint64]string{base.Hash(): base.FEN()}
	for _, fen := range variants {
		h := MustParseFEN(fen).Hash()
		if prev, ok := seen[h]; ok {
			t.Errorf("%s collides with %s", fen, prev)
		}
		seen[h] = fen
	}

	clocks := MustParseFEN("rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 7 40")
	if clocks.Hash() != base.Hash() {
		t.Errorf("clocks affected the hash")
	}
}

func TestOutcome(t *testing.T) {
	b := NewBoard()
	testutil.AssertEqual(t, b.Outcome(nil), Outcome{Kind: Ongoing, Winner: NoColor})
	testutil.AssertEqual(t, b.Outcome(NoOutcome).IsOver(), false)

	kingless := OutcomeFunc(func(b *Board) Outcome {
		if b.Pieces(King, b.CurrentTurn()) == 0 {
			return Outcome{Kind: Checkmate, Winner: b.CurrentTurn().Other()}
		}
		return Outcome{Kind: Ongoing, Winner: NoColor}
	})

	b = MustParseFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	b.RemovePiece(E1)
	got := b.Outcome(kingless)
	if !got.IsOver() || got.Winner != Black {
		t.Errorf("outcome = %v", got)
	}
	testutil.AssertEqual(t, got.String(), "checkmate, Black wins")
	testutil.AssertEqual(t, Outcome{Kind: Stalemate}.String(), "stalemate")
}
