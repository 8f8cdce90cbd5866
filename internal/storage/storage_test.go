package storage

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func openTest(t *testing.T) *Storage {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStorage(t *testing.T) {
	t.Run("DefaultPreferences", func(t *testing.T) {
		prefs := DefaultPreferences()
		if prefs.Username != "Player" {
			t.Errorf("Expected username 'Player', got '%s'", prefs.Username)
		}
		if prefs.SearchDepth != 3 {
			t.Errorf("Expected search depth 3, got %d", prefs.SearchDepth)
		}
		if prefs.Algorithm != "negamax" {
			t.Errorf("Expected negamax, got %q", prefs.Algorithm)
		}
		if !prefs.SoundEnabled {
			t.Errorf("Expected sound enabled by default")
		}
	})

	t.Run("NewGameStats", func(t *testing.T) {
		stats := NewGameStats()
		if stats.GamesPlayed != 0 {
			t.Errorf("Expected 0 games played")
		}
		if stats.GetWinRate() != 0 {
			t.Errorf("Expected 0 win rate")
		}
	})

	t.Run("WinRate", func(t *testing.T) {
		stats := &GameStats{
			GamesPlayed: 10,
			Wins:        5,
			Losses:      3,
			Draws:       2,
		}
		rate := stats.GetWinRate()
		if rate != 50 {
			t.Errorf("Expected 50%% win rate, got %.2f%%", rate)
		}
	})
}

func TestPreferencesRoundTrip(t *testing.T) {
	s := openTest(t)

	prefs, err := s.LoadPreferences()
	if err != nil {
		t.Fatal(err)
	}
	if prefs.SearchDepth != 3 {
		t.Errorf("missing preferences: depth = %d, want default 3", prefs.SearchDepth)
	}

	prefs.SearchDepth = 4
	prefs.Algorithm = "minimax"
	prefs.GameMode = ModeHumanVsHuman
	prefs.PlayerColor = ColorBlack
	if err := s.SavePreferences(prefs); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadPreferences()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(prefs.LastPlayed.Unix(), got.LastPlayed.Unix()); diff != "" {
		t.Errorf("LastPlayed (-want +got):\n%s", diff)
	}
	got.LastPlayed = prefs.LastPlayed
	if diff := cmp.Diff(prefs, got); diff != "" {
		t.Errorf("preferences (-want +got):\n%s", diff)
	}
}

func TestRecordGame(t *testing.T) {
	s := openTest(t)

	results := []GameResult{
		{Won: true, Mode: ModeHumanVsComputer, Depth: 3, Duration: time.Minute},
		{Won: true, Mode: ModeHumanVsComputer, Depth: 2, Duration: time.Minute},
		{Draw: true, Mode: ModeHumanVsHuman, Duration: time.Minute},
		{Mode: ModeHumanVsComputer, Depth: 3, Duration: time.Minute},
	}
	for _, r := range results {
		if err := s.RecordGame(r); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	want := &GameStats{
		GamesPlayed:    4,
		Wins:           2,
		Losses:         1,
		Draws:          1,
		WinsByMode:     map[string]int{"hvc": 2},
		WinsByDepth:    map[int]int{2: 1, 3: 1},
		TotalPlayTime:  4 * time.Minute,
		LongestWinStrk: 2,
		CurrentStreak:  0,
	}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Errorf("stats (-want +got):\n%s", diff)
	}
}

func foolsMate(id string, started time.Time) *GameRecord {
	return &GameRecord{
		ID:         id,
		StartedAt:  started,
		FinishedAt: started.Add(time.Minute),
		White:      "Player",
		Black:      "Computer",
		Moves:      []string{"f2f3", "e7e5", "g2g4", "d8h4"},
		Result:     "0-1",
	}
}

func TestGameArchive(t *testing.T) {
	s := openTest(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"0001", "0002", "0003"} {
		if err := s.SaveGame(foolsMate(id, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.LoadGame("0002")
	if err != nil {
		t.Fatal(err)
	}
	want := foolsMate("0002", base.Add(time.Hour))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadGame (-want +got):\n%s", diff)
	}

	list, err := s.ListGames(0)
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, g := range list {
		ids = append(ids, g.ID)
	}
	if diff := cmp.Diff([]string{"0003", "0002", "0001"}, ids); diff != "" {
		t.Errorf("ListGames order (-want +got):\n%s", diff)
	}

	if list, _ := s.ListGames(2); len(list) != 2 {
		t.Errorf("ListGames(2) returned %d games", len(list))
	}

	if err := s.DeleteGame("0002"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadGame("0002"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("LoadGame after delete err = %v, want ErrGameNotFound", err)
	}
	if err := s.DeleteGame("0002"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("second DeleteGame err = %v, want ErrGameNotFound", err)
	}
	if err := s.SaveGame(&GameRecord{}); err == nil {
		t.Error("SaveGame accepted a record without id")
	}
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveGame(foolsMate("0001", time.Now())); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, err := s.LoadGame("0001"); err != nil {
		t.Errorf("game lost across reopen: %v", err)
	}
}

func TestExportPGN(t *testing.T) {
	rec := foolsMate("0001", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	pgn, err := ExportPGN(rec)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`[White "Player"]`, `[Date "2024.03.01"]`, "Qh4#", "0-1"} {
		if !strings.Contains(pgn, want) {
			t.Errorf("PGN missing %q:\n%s", want, pgn)
		}
	}

	rec.Moves = append(rec.Moves, "e1e2")
	if _, err := ExportPGN(rec); err == nil {
		t.Error("ExportPGN accepted a move after mate")
	}
}

func TestExportPGNResignation(t *testing.T) {
	rec := &GameRecord{ID: "x", White: "A", Black: "B", Moves: []string{"e2e4", "e7e5"}, Result: "1-0"}
	pgn, err := ExportPGN(rec)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(pgn, "1-0") {
		t.Errorf("PGN missing result:\n%s", pgn)
	}
}

func TestDataPaths(t *testing.T) {
	t.Setenv(DataDirEnv, t.TempDir())

	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir != os.Getenv(DataDirEnv) {
		t.Errorf("GetDataDir = %q, want override %q", dataDir, os.Getenv(DataDirEnv))
	}

	dbDir, err := GetDatabaseDir()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dbDir); os.IsNotExist(err) {
		t.Errorf("Database directory was not created: %s", dbDir)
	}
}
