package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/chesscore/internal/board"
)

// ErrNotFound is returned when a key is absent.
var ErrNotFound = errors.New("storage: not found")

// Key prefixes
const (
	prefixPosition = "pos/"
	prefixHash     = "hash/"
	prefixGame     = "game/"
	keyStats       = "stats"
)

// PositionRecord is a stored position.
type PositionRecord struct {
	Name    string    `json:"name,omitempty"`
	FEN     string    `json:"fen"`
	Hash    uint64    `json:"hash"`
	Seen    int       `json:"seen,omitempty"`
	SavedAt time.Time `json:"saved_at"`
}

// Board decodes the stored FEN.
func (r PositionRecord) Board() (*board.Board, error) {
	return board.ParseFEN(r.FEN)
}

// GameRecord is a finished game.
type GameRecord struct {
	ID       string        `json:"id"`
	White    string        `json:"white"`
	Black    string        `json:"black"`
	StartFEN string        `json:"start_fen"`
	Moves    []string      `json:"moves"`
	FinalFEN string        `json:"final_fen"`
	Result   string        `json:"result"`
	Reason   string        `json:"reason"`
	PlayedAt time.Time     `json:"played_at"`
	Duration time.Duration `json:"duration"`
}

// Result strings used in GameRecord.Result, as in PGN.
const (
	ResultWhiteWins  = "1-0"
	ResultBlackWins  = "0-1"
	ResultDraw       = "1/2-1/2"
	ResultUnfinished = "*"
)

// ResultString converts an outcome to a GameRecord result.
func ResultString(o board.Outcome) string {
	switch {
	case o.Kind == board.Checkmate && o.Winner == board.White:
		return ResultWhiteWins
	case o.Kind == board.Checkmate && o.Winner == board.Black:
		return ResultBlackWins
	case o.Kind == board.Stalemate:
		return ResultDraw
	default:
		return ResultUnfinished
	}
}

// GameStats aggregates every saved game.
type GameStats struct {
	GamesPlayed   int           `json:"games_played"`
	WhiteWins     int           `json:"white_wins"`
	BlackWins     int           `json:"black_wins"`
	Draws         int           `json:"draws"`
	Unfinished    int           `json:"unfinished"`
	TotalPlies    int           `json:"total_plies"`
	TotalPlayTime time.Duration `json:"total_play_time"`
	LongestGame   int           `json:"longest_game"`
}

// AveragePlies returns the mean game length.
func (s *GameStats) AveragePlies() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.TotalPlies) / float64(s.GamesPlayed)
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db     *badger.DB
	logger *log.Logger
}

// NewStorage opens the store in the platform data directory.
func NewStorage(logger *log.Logger) (*Storage, error) {
	dbDir, err := DatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir, logger)
}

// Open opens (or creates) a store in dir. A nil logger discards output.
func Open(dir string, logger *log.Logger) (*Storage, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable badger's own logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", dir, err)
	}
	logger.Printf("Database directory: %s", dir)

	return &Storage{db: db, logger: logger}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SavePosition stores b under name, replacing any previous entry.
func (s *Storage) SavePosition(name string, b *board.Board) error {
	if name == "" || strings.ContainsAny(name, "/ ") {
		return fmt.Errorf("position name %q: must be non-empty without spaces or slashes", name)
	}
	rec := PositionRecord{
		Name:    name,
		FEN:     b.FEN(),
		Hash:    b.Hash(),
		SavedAt: time.Now(),
	}
	return s.put(prefixPosition+name, rec)
}

// LoadPosition returns the board saved under name.
func (s *Storage) LoadPosition(name string) (*board.Board, error) {
	var rec PositionRecord
	if err := s.get(prefixPosition+name, &rec); err != nil {
		return nil, fmt.Errorf("position %q: %w", name, err)
	}
	b, err := rec.Board()
	if err != nil {
		return nil, fmt.Errorf("position %q: %w", name, err)
	}
	return b, nil
}

// ListPositions returns the saved position names in order.
func (s *Storage) ListPositions() ([]string, error) {
	var names []string
	err := s.keys(prefixPosition, func(key string) {
		names = append(names, strings.TrimPrefix(key, prefixPosition))
	})
	return names, err
}

// DeletePosition removes the position saved under name.
func (s *Storage) DeletePosition(name string) error {
	key := []byte(prefixPosition + name)
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			return fmt.Errorf("position %q: %w", name, notFound(err))
		}
		return txn.Delete(key)
	})
}

// RememberPosition records that b was reached, keyed by its Zobrist hash,
// and returns how many times it has been seen, including this one.
func (s *Storage) RememberPosition(b *board.Board) (int, error) {
	hash := b.Hash()
	key := []byte(hashKey(hash))
	seen := 0

	err := s.db.Update(func(txn *badger.Txn) error {
		rec := PositionRecord{Hash: hash}
		item, err := txn.Get(key)
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
		case err != nil:
			return err
		default:
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
		}

		rec.FEN = b.FEN()
		rec.Seen++
		rec.SavedAt = time.Now()
		seen = rec.Seen

		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
	return seen, err
}

// LookupHash returns the position remembered under hash.
func (s *Storage) LookupHash(hash uint64) (PositionRecord, error) {
	var rec PositionRecord
	if err := s.get(hashKey(hash), &rec); err != nil {
		return PositionRecord{}, fmt.Errorf("hash %016x: %w", hash, err)
	}
	return rec, nil
}

// SaveGame stores rec and folds it into the aggregate statistics.
func (s *Storage) SaveGame(rec GameRecord) error {
	if rec.ID == "" {
		return errors.New("game record without id")
	}
	if rec.PlayedAt.IsZero() {
		rec.PlayedAt = time.Now()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		stats := &GameStats{}
		item, err := txn.Get([]byte(keyStats))
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
		case err != nil:
			return err
		default:
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, stats)
			}); err != nil {
				return err
			}
		}

		stats.record(rec)
		statsData, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		if err := txn.Set([]byte(keyStats), statsData); err != nil {
			return err
		}
		s.logger.Printf("saved game %s: %s after %d plies", rec.ID, rec.Result, len(rec.Moves))
		return txn.Set([]byte(prefixGame+rec.ID), data)
	})
}

// LoadGame returns the game saved under id.
func (s *Storage) LoadGame(id string) (GameRecord, error) {
	var rec GameRecord
	if err := s.get(prefixGame+id, &rec); err != nil {
		return GameRecord{}, fmt.Errorf("game %q: %w", id, err)
	}
	return rec, nil
}

// ListGames returns the saved game ids in order.
func (s *Storage) ListGames() ([]string, error) {
	var ids []string
	err := s.keys(prefixGame, func(key string) {
		ids = append(ids, strings.TrimPrefix(key, prefixGame))
	})
	return ids, err
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := &GameStats{}
	err := s.get(keyStats, stats)
	if errors.Is(err, ErrNotFound) {
		return stats, nil
	}
	return stats, err
}

func (s *GameStats) record(rec GameRecord) {
	s.GamesPlayed++
	s.TotalPlies += len(rec.Moves)
	s.TotalPlayTime += rec.Duration
	if len(rec.Moves) > s.LongestGame {
		s.LongestGame = len(rec.Moves)
	}

	switch rec.Result {
	case ResultWhiteWins:
		s.WhiteWins++
	case ResultBlackWins:
		s.BlackWins++
	case ResultDraw:
		s.Draws++
	default:
		s.Unfinished++
	}
}

func (s *Storage) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

func (s *Storage) get(key string, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return notFound(err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}

// keys calls fn for every key under prefix, in key order.
func (s *Storage) keys(prefix string, fn func(key string)) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)

		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			fn(string(it.Item().Key()))
		}
		return nil
	})
}

func hashKey(hash uint64) string {
	return fmt.Sprintf("%s%016x", prefixHash, hash)
}

// notFound maps badger's missing-key error onto ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%w (%w)", ErrNotFound, err)
	}
	return err
}
