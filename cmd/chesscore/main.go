package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/pkg/profile"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/book"
	"github.com/hailam/chesscore/internal/console"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/render"
	"github.com/hailam/chesscore/internal/storage"
)

var (
	dbDir      = flag.String("db", "", "database directory (default $CHESSCORE_DB or the user data dir)")
	profileDir = flag.String("profile", "", "write a cpu profile to this directory (default $CHESSCORE_PROFILE)")
	startFEN   = flag.String("fen", board.StartFEN, "starting position")
	selfPlay   = flag.Int("selfplay", 0, "play this many random games and exit")
	seed       = flag.Int64("seed", 1, "random seed for self-play")
	maxPlies   = flag.Int("plies", 200, "ply limit per self-play game")
	pngPath    = flag.String("png", "", "write a diagram of the starting position to this file and exit")
	pngSize    = flag.Int("size", console.DefaultPNGSize, "diagram size in pixels")
	bookPath   = flag.String("book", "", "opening book used by self-play players")
	buildBook  = flag.String("buildbook", "", "build an opening book from the stored games into this file and exit")
	bookPlies  = flag.Int("bookplies", 16, "plies of each stored game added to a built book")
	verbose    = flag.Bool("v", false, "log to stderr")
)

func main() {
	flag.Parse()

	logger := log.New(os.Stderr, "chesscore: ", log.LstdFlags)
	var componentLogger *log.Logger
	if *verbose {
		componentLogger = logger
	}

	// Start CPU profiling if requested (via flag or environment variable)
	dir := *profileDir
	if dir == "" {
		dir = os.Getenv("CHESSCORE_PROFILE")
	}
	if dir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(dir), profile.Quiet).Stop()
		logger.Printf("CPU profiling enabled, writing to %s", dir)
	}

	start, err := board.ParseFEN(*startFEN)
	if err != nil {
		logger.Fatal(err)
	}

	if *pngPath != "" {
		if err := writePNG(*pngPath, start, *pngSize); err != nil {
			logger.Fatal(err)
		}
		return
	}

	store, err := openStorage(componentLogger)
	if err != nil {
		logger.Printf("Warning: storage disabled: %v", err)
	} else {
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *buildBook != "" {
		if err := writeBook(*buildBook, store); err != nil {
			logger.Fatal(err)
		}
		return
	}

	if *selfPlay > 0 {
		if err := runSelfPlay(ctx, start, store, componentLogger); err != nil {
			logger.Printf("self-play: %v", err)
		}
		return
	}

	opts := []console.Option{
		console.WithBoard(start),
		console.WithLogger(componentLogger),
		console.WithPNGSize(*pngSize),
	}
	if store != nil {
		opts = append(opts, console.WithStorage(store))
	}
	if err := console.New(os.Stdin, os.Stdout, opts...).Run(ctx); err != nil && ctx.Err() == nil {
		logger.Printf("console: %v", err)
	}
}

// openStorage opens the database named by -db, $CHESSCORE_DB or the
// platform data directory, in that order.
func openStorage(logger *log.Logger) (*storage.Storage, error) {
	dir := *dbDir
	if dir == "" {
		dir = os.Getenv("CHESSCORE_DB")
	}
	if dir == "" {
		return storage.NewStorage(logger)
	}
	return storage.Open(dir, logger)
}

func runSelfPlay(ctx context.Context, start *board.Board, store *storage.Storage, logger *log.Logger) error {
	cfg := game.SelfPlayConfig{
		Games:    *selfPlay,
		Seed:     *seed,
		MaxPlies: *maxPlies,
		Options:  []game.Option{game.WithStart(start), game.WithLogger(logger)},
	}
	player := "random"
	if *bookPath != "" {
		bk, err := book.Load(*bookPath)
		if err != nil {
			return err
		}
		cfg.NewPlayer = func(seed int64) game.Player {
			return book.NewPlayer(bk, game.NewRandomPlayer(seed), seed)
		}
		player = "book"
	}
	results, err := game.SelfPlay(ctx, cfg)

	for i, res := range results {
		if res.StartFEN == "" {
			continue // never started
		}
		result := storage.ResultString(res.Outcome)
		fmt.Printf("game %d: %s (%v) after %d plies\n", i+1, result, res.Reason, len(res.Moves))

		if store == nil {
			continue
		}
		rec := storage.GameRecord{
			ID:       fmt.Sprintf("selfplay-%d-%04d", *seed, i+1),
			White:    fmt.Sprintf("%s(%d)", player, *seed+int64(2*i)),
			Black:    fmt.Sprintf("%s(%d)", player, *seed+int64(2*i+1)),
			StartFEN: res.StartFEN,
			Moves:    res.MoveStrings(),
			FinalFEN: res.FinalFEN,
			Result:   result,
			Reason:   res.Reason.String(),
			Duration: res.Duration,
		}
		if err := store.SaveGame(rec); err != nil {
			return err
		}
	}

	if store != nil {
		stats, err := store.LoadStats()
		if err != nil {
			return err
		}
		fmt.Printf("stored games: %d (white %d, black %d, draws %d, unfinished %d), average %.1f plies\n",
			stats.GamesPlayed, stats.WhiteWins, stats.BlackWins, stats.Draws, stats.Unfinished, stats.AveragePlies())
	}
	return err
}

// writeBook builds a book from every stored game and writes it to path.
func writeBook(path string, store *storage.Storage) error {
	if store == nil {
		return fmt.Errorf("buildbook: %w", console.ErrNoStorage)
	}
	ids, err := store.ListGames()
	if err != nil {
		return err
	}
	games := make([]storage.GameRecord, 0, len(ids))
	for _, id := range ids {
		rec, err := store.LoadGame(id)
		if err != nil {
			return err
		}
		games = append(games, rec)
	}

	bk, err := book.FromGames(games, *bookPlies)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := bk.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	fmt.Printf("book: %d positions from %d games\n", bk.Size(), len(games))
	return f.Close()
}

func writePNG(path string, b *board.Board, size int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.PNG(f, b, size); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
