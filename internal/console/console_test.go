package console

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/storage"
	"github.com/hailam/chesscore/internal/testutil"
)

// run feeds script to a fresh console and returns its output lines.
func run(t *testing.T, script string, opts ...Option) ([]string, *Console) {
	t.Helper()
	var out bytes.Buffer
	c := New(strings.NewReader(script), &out, opts...)
	testutil.AssertNoError(t, c.Run(context.Background()))
	text := strings.TrimRight(out.String(), "\n")
	if text == "" {
		return nil, c
	}
	return strings.Split(text, "\n"), c
}

func TestPositionAndFEN(t *testing.T) {
	lines, _ := run(t, strings.Join([]string{
		"fen",
		"position startpos moves e2e4 e7e5 g1f3",
		"fen",
		"position fen 4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2 moves e5d6",
		"fen",
	}, "\n"))

	testutil.AssertEqual(t, lines, []string{
		board.StartFEN,
		"rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2",
		"4k3/8/3P4/8/8/8/8/4K3 b - - 0 2",
	})
}

func TestMoves(t *testing.T) {
	lines, _ := run(t, "moves b1\nmoves e4\nposition fen 1n2k3/P7/8/8/8/8/8/4K3 w - - 0 1\nmoves a7\n")
	testutil.AssertEqual(t, lines, []string{"a3 c3", "", "a8 b8"})

	lines, _ = run(t, "moves\n")
	if got := len(strings.Fields(lines[0])); got != 20 {
		t.Errorf("start position lists %d moves", got)
	}
}

func TestMoveErrorsKeepPosition(t *testing.T) {
	lines, c := run(t, "move e2e4 e7e6 e1e3\nmove e2e5\nmove\nfen\n")

	if len(lines) != 4 {
		t.Fatalf("output:\n%s", strings.Join(lines, "\n"))
	}
	for _, l := range lines[:3] {
		if !strings.HasPrefix(l, "error: ") {
			t.Errorf("expected error, got %q", l)
		}
	}
	testutil.AssertEqual(t, lines[3], board.StartFEN)
	if !c.Board().Equal(board.NewBoard()) {
		t.Errorf("failed commands changed the board")
	}
}

func TestUnknownCommandAndQuit(t *testing.T) {
	lines, _ := run(t, "bogus\nquit\nfen\n")
	testutil.AssertEqual(t, lines, []string{`error: unknown command "bogus"`})
}

func TestDisplay(t *testing.T) {
	lines, _ := run(t, "d\n")
	if len(lines) != 10 {
		t.Fatalf("d printed %d lines", len(lines))
	}
	testutil.AssertEqual(t, lines[0], "r n b q k b n r")
	testutil.AssertEqual(t, lines[8], "Fen: "+board.StartFEN)
	if !strings.HasPrefix(lines[9], "Key: ") {
		t.Errorf("missing key line: %q", lines[9])
	}
}

func TestPerft(t *testing.T) {
	lines, _ := run(t, "perft 2\nperft x\n")
	testutil.AssertEqual(t, lines[0], "Nodes: 400")
	if !strings.HasPrefix(lines[1], "error: ") {
		t.Errorf("bad depth accepted: %q", lines[1])
	}
}

func TestStorageCommands(t *testing.T) {
	store, err := storage.Open(t.TempDir(), nil)
	testutil.AssertNoError(t, err)
	defer store.Close()

	lines, c := run(t, strings.Join([]string{
		"move e2e4",
		"save open",
		"position startpos",
		"save start",
		"list",
		"load open",
		"hash",
		"delete start",
		"list",
		"load start",
	}, "\n"), WithStorage(store))

	if len(lines) != 5 {
		t.Fatalf("output:\n%s", strings.Join(lines, "\n"))
	}
	testutil.AssertEqual(t, lines[:2], []string{"open", "start"})

	after := board.MustParseFEN("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	testutil.AssertEqual(t, lines[2], hashLine(after.Hash(), 1))
	testutil.AssertEqual(t, lines[3], "open")
	if !strings.HasPrefix(lines[4], "error: ") {
		t.Errorf("loading a deleted position: %q", lines[4])
	}
	if !c.Board().Equal(after) {
		t.Errorf("board = %s", c.Board().FEN())
	}
}

func TestStorageCommandsWithoutStorage(t *testing.T) {
	lines, _ := run(t, "save x\nlist\nhash\n")
	testutil.AssertEqual(t, lines[0], "error: "+ErrNoStorage.Error())
	testutil.AssertEqual(t, lines[1], "error: "+ErrNoStorage.Error())
	testutil.AssertEqual(t, lines[2], hashLine(board.NewBoard().Hash(), -1))
}

func TestPNGCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.png")
	lines, _ := run(t, "png "+path+"\n", WithPNGSize(128))
	if len(lines) != 0 {
		t.Fatalf("output: %v", lines)
	}
	data, err := os.ReadFile(path)
	testutil.AssertNoError(t, err)
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Errorf("not a png file")
	}
}

func TestRunStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := New(strings.NewReader("fen\n"), &out).Run(ctx)
	testutil.AssertErrorIs(t, err, context.Canceled)
	if out.Len() != 0 {
		t.Errorf("output after cancel: %q", out.String())
	}
}

func TestRunReturnsWhileWaitingForInput(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		errc <- New(pr, io.Discard).Run(ctx)
	}()

	cancel()
	select {
	case err := <-errc:
		testutil.AssertErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run still blocked on input after cancel")
	}
}

func hashLine(hash uint64, seen int) string {
	if seen < 0 {
		return fmt.Sprintf("%016x", hash)
	}
	return fmt.Sprintf("%016x seen %d", hash, seen)
}
