package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-logr/logr"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	gamePrefix     = "game/"
)

// ErrGameNotFound is returned when no archived game has the given ID.
var ErrGameNotFound = errors.New("game not found")

// GameMode represents the game mode
type GameMode int

const (
	ModeHumanVsComputer GameMode = iota
	ModeHumanVsHuman
)

// String returns the short mode key used in statistics.
func (m GameMode) String() string {
	if m == ModeHumanVsHuman {
		return "hvh"
	}
	return "hvc"
}

// PlayerColor represents which color the human plays
type PlayerColor int

const (
	ColorWhite PlayerColor = iota
	ColorBlack
)

// UserPreferences stores user settings
type UserPreferences struct {
	Username     string      `json:"username"`
	SearchDepth  int         `json:"search_depth"`
	Algorithm    string      `json:"algorithm"`
	GameMode     GameMode    `json:"game_mode"`
	PlayerColor  PlayerColor `json:"player_color"`
	SoundEnabled bool        `json:"sound_enabled"`
	LastPlayed   time.Time   `json:"last_played"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() *UserPreferences {
	return &UserPreferences{
		Username:     "Player",
		SearchDepth:  3,
		Algorithm:    "negamax",
		GameMode:     ModeHumanVsComputer,
		PlayerColor:  ColorWhite,
		SoundEnabled: true,
		LastPlayed:   time.Now(),
	}
}

// GameStats stores game statistics
type GameStats struct {
	GamesPlayed    int            `json:"games_played"`
	Wins           int            `json:"wins"`
	Losses         int            `json:"losses"`
	Draws          int            `json:"draws"`
	WinsByMode     map[string]int `json:"wins_by_mode"`
	WinsByDepth    map[int]int    `json:"wins_by_depth"`
	TotalPlayTime  time.Duration  `json:"total_play_time"`
	LongestWinStrk int            `json:"longest_win_streak"`
	CurrentStreak  int            `json:"current_streak"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		WinsByMode:  make(map[string]int),
		WinsByDepth: make(map[int]int),
	}
}

// GameResult represents the result of a completed game from the local
// player's point of view.
type GameResult struct {
	Won      bool
	Draw     bool
	Mode     GameMode
	Depth    int
	Duration time.Duration
}

// GameRecord is an archived game. Moves are in UCI notation.
type GameRecord struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	White      string    `json:"white"`
	Black      string    `json:"black"`
	FEN        string    `json:"fen,omitempty"`
	Moves      []string  `json:"moves"`
	Result     string    `json:"result"`
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db  *badger.DB
	log logr.Logger
}

// Option configures a Storage.
type Option func(*Storage)

// WithLogger routes storage and badger log output to l.
func WithLogger(l logr.Logger) Option {
	return func(s *Storage) {
		s.log = l
	}
}

// NewStorage opens the database in the platform data directory.
func NewStorage(opts ...Option) (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir, opts...)
}

// Open opens (or creates) a database in dir.
func Open(dir string, opts ...Option) (*Storage, error) {
	return open(badger.DefaultOptions(dir), opts)
}

// OpenInMemory opens a database that lives only in memory.
func OpenInMemory(opts ...Option) (*Storage, error) {
	return open(badger.DefaultOptions("").WithInMemory(true), opts)
}

func open(bopts badger.Options, opts []Option) (*Storage, error) {
	s := &Storage{log: logr.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithName("storage")
	bopts.Logger = &badgerLogger{log: s.log.WithName("badger")}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s.db = db
	s.log.V(1).Info("database opened", "dir", bopts.Dir, "inMemory", bopts.InMemory)
	return s, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// putJSON stores v under key.
func (s *Storage) putJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// getJSON loads key into v and reports whether the key existed.
func (s *Storage) getJSON(key string, v any) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	return found, err
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *UserPreferences) error {
	prefs.LastPlayed = time.Now()
	return s.putJSON(keyPreferences, prefs)
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*UserPreferences, error) {
	prefs := DefaultPreferences()
	_, err := s.getJSON(keyPreferences, prefs)
	return prefs, err
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	return s.putJSON(keyStats, stats)
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	_, err := s.getJSON(keyStats, stats)
	return stats, err
}

// RecordGame records a completed game and updates statistics
func (s *Storage) RecordGame(result GameResult) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.TotalPlayTime += result.Duration

	if result.Draw {
		stats.Draws++
		stats.CurrentStreak = 0
	} else if result.Won {
		stats.Wins++
		stats.CurrentStreak++
		if stats.CurrentStreak > stats.LongestWinStrk {
			stats.LongestWinStrk = stats.CurrentStreak
		}
		stats.WinsByMode[result.Mode.String()]++
		if result.Mode == ModeHumanVsComputer {
			stats.WinsByDepth[result.Depth]++
		}
	} else {
		stats.Losses++
		stats.CurrentStreak = 0
	}

	return s.SaveStats(stats)
}

// GetWinRate returns the win rate as a percentage (0-100)
func (s *GameStats) GetWinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

// SaveGame archives a game, replacing any game with the same ID.
func (s *Storage) SaveGame(rec *GameRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("save game: empty id")
	}
	if err := s.putJSON(gamePrefix+rec.ID, rec); err != nil {
		return fmt.Errorf("save game %s: %w", rec.ID, err)
	}
	s.log.Info("game archived", "id", rec.ID, "moves", len(rec.Moves), "result", rec.Result)
	return nil
}

// LoadGame returns the archived game with the given ID.
func (s *Storage) LoadGame(id string) (*GameRecord, error) {
	rec := &GameRecord{}
	found, err := s.getJSON(gamePrefix+id, rec)
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", id, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return rec, nil
}

// ListGames returns archived games, newest first. IDs sort by start
// time, so this is a reverse prefix scan. limit <= 0 means no limit.
func (s *Storage) ListGames(limit int) ([]*GameRecord, error) {
	var games []*GameRecord
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(gamePrefix)
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(append([]byte(gamePrefix), 0xFF)); it.Valid(); it.Next() {
			rec := &GameRecord{}
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, rec)
			}); err != nil {
				return err
			}
			games = append(games, rec)
			if limit > 0 && len(games) >= limit {
				break
			}
		}
		return nil
	})
	return games, err
}

// DeleteGame removes an archived game.
func (s *Storage) DeleteGame(id string) error {
	if _, err := s.LoadGame(id); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(gamePrefix + id))
	})
}

// badgerLogger adapts logr to badger's Logger interface.
type badgerLogger struct {
	log logr.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error(nil, strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Info(strings.TrimSpace(fmt.Sprintf(format, args...)), "level", "warning")
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.log.V(1).Info(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.V(2).Info(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
