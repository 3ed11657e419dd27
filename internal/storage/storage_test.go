package storage

import (
	"os"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/testutil"
)

func openTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := Open(t.TempDir(), nil)
	testutil.AssertNoError(t, err)
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})
	return s
}

func TestPositions(t *testing.T) {
	s := openTestStorage(t)
	kiwipete := board.MustParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")

	testutil.AssertNoError(t, s.SavePosition("start", board.NewBoard()))
	testutil.AssertNoError(t, s.SavePosition("kiwipete", kiwipete))

	got, err := s.LoadPosition("kiwipete")
	testutil.AssertNoError(t, err)
	if !got.Equal(kiwipete) {
		t.Errorf("loaded %s", got.FEN())
	}

	names, err := s.ListPositions()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, names, []string{"kiwipete", "start"})

	testutil.AssertNoError(t, s.DeletePosition("start"))
	_, err = s.LoadPosition("start")
	testutil.AssertErrorIs(t, err, ErrNotFound)
	testutil.AssertErrorIs(t, err, badger.ErrKeyNotFound)

	err = s.DeletePosition("start")
	testutil.AssertErrorIs(t, err, ErrNotFound)
}

func TestSavePositionRejectsBadNames(t *testing.T) {
	s := openTestStorage(t)
	for _, name := range []string{"", "a b", "a/b"} {
		if err := s.SavePosition(name, board.NewBoard()); err == nil {
			t.Errorf("SavePosition(%q) accepted", name)
		}
	}
}

func TestRememberPosition(t *testing.T) {
	s := openTestStorage(t)
	b := board.NewBoard()

	for want := 1; want <= 3; want++ {
		seen, err := s.RememberPosition(b)
		testutil.AssertNoError(t, err)
		if seen != want {
			t.Errorf("seen = %d, want %d", seen, want)
		}
	}

	rec, err := s.LookupHash(b.Hash())
	testutil.AssertNoError(t, err)
	if rec.FEN != board.StartFEN || rec.Seen != 3 {
		t.Errorf("record = %+v", rec)
	}

	_, err = s.LookupHash(b.Hash() ^ 1)
	testutil.AssertErrorIs(t, err, ErrNotFound)
}

func TestGames(t *testing.T) {
	s := openTestStorage(t)

	games := []GameRecord{
		{ID: "g1", StartFEN: board.StartFEN, Moves: []string{"e2e4", "e7e5"}, Result: ResultUnfinished, Duration: time.Second},
		{ID: "g2", StartFEN: board.StartFEN, Moves: []string{"f2f3", "e7e5", "g2g4", "d8h4", "a2a3", "h4e1"}, Result: ResultBlackWins, Duration: 2 * time.Second},
		{ID: "g3", StartFEN: board.StartFEN, Moves: []string{"d2d4"}, Result: ResultDraw},
	}
	for _, g := range games {
		testutil.AssertNoError(t, s.SaveGame(g))
	}

	got, err := s.LoadGame("g2")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got.Moves, games[1].Moves)
	if got.PlayedAt.IsZero() {
		t.Errorf("PlayedAt not set")
	}

	ids, err := s.ListGames()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, ids, []string{"g1", "g2", "g3"})

	stats, err := s.LoadStats()
	testutil.AssertNoError(t, err)
	want := GameStats{
		GamesPlayed:   3,
		BlackWins:     1,
		Draws:         1,
		Unfinished:    1,
		TotalPlies:    9,
		TotalPlayTime: 3 * time.Second,
		LongestGame:   6,
	}
	testutil.AssertEqual(t, *stats, want)
	if stats.AveragePlies() != 3 {
		t.Errorf("average = %v", stats.AveragePlies())
	}

	_, err = s.LoadGame("missing")
	testutil.AssertErrorIs(t, err, ErrNotFound)
	if err := s.SaveGame(GameRecord{}); err == nil {
		t.Errorf("record without id accepted")
	}
}

func TestEmptyStats(t *testing.T) {
	s := openTestStorage(t)
	stats, err := s.LoadStats()
	testutil.AssertNoError(t, err)
	if stats.GamesPlayed != 0 || stats.AveragePlies() != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestResultString(t *testing.T) {
	tests := []struct {
		o    board.Outcome
		want string
	}{
		{board.Outcome{Kind: board.Checkmate, Winner: board.White}, ResultWhiteWins},
		{board.Outcome{Kind: board.Checkmate, Winner: board.Black}, ResultBlackWins},
		{board.Outcome{Kind: board.Stalemate, Winner: board.NoColor}, ResultDraw},
		{board.Outcome{Kind: board.Ongoing, Winner: board.NoColor}, ResultUnfinished},
	}
	for _, tc := range tests {
		testutil.AssertEqual(t, ResultString(tc.o), tc.want, tc.o.String())
	}
}

func TestDataPaths(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	dataDir, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Error("DataDir returned empty path")
	}
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("Data directory was not created: %s", dataDir)
	}

	for _, fn := range []func() (string, error){DatabaseDir, ProfileDir} {
		dir, err := fn()
		testutil.AssertNoError(t, err)
		if _, err := os.Stat(dir); err != nil {
			t.Errorf("%s: %v", dir, err)
		}
	}
}
