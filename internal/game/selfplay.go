package game

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// SelfPlayConfig describes a batch of random games.
type SelfPlayConfig struct {
	Games    int
	Seed     int64
	MaxPlies int
	Workers  int // defaults to GOMAXPROCS
	Options  []Option

	// NewPlayer builds the player for one side from its seed.
	// Defaults to NewRandomPlayer.
	NewPlayer func(seed int64) Player
}

// SelfPlay plays cfg.Games games between seeded players in parallel.
// Game i uses seeds Seed+2i and Seed+2i+1, so results do not depend on
// scheduling. The first failing game cancels the rest.
func SelfPlay(ctx context.Context, cfg SelfPlayConfig) ([]Result, error) {
	workers := cfg.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	newPlayer := cfg.NewPlayer
	if newPlayer == nil {
		newPlayer = func(seed int64) Player { return NewRandomPlayer(seed) }
	}

	results := make([]Result, cfg.Games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < cfg.Games; i++ {
		g.Go(func() error {
			white := newPlayer(cfg.Seed + int64(2*i))
			black := newPlayer(cfg.Seed + int64(2*i+1))

			opts := append([]Option{WithMaxPlies(cfg.MaxPlies), WithDetector(KingCapture)}, cfg.Options...)
			res, err := New(white, black, opts...).Play(ctx)
			results[i] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
