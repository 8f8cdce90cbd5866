// Chesscore - a chess game built with Ebitengine
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/storage"
	"github.com/hailam/chesscore/internal/ui"
)

var (
	depth     = flag.Int("depth", engine.DefaultDepth, "search depth in plies")
	algorithm = flag.String("algorithm", "negamax", "search algorithm: negamax or minimax")
	human     = flag.String("human", "white", "side the human plays against the computer")
	mode      = flag.String("mode", "hvc", "game mode: hvc (human vs computer) or hvh")
	fen       = flag.String("fen", "", "start position in FEN")
	verbosity = flag.Int("v", 0, "log verbosity")
)

func main() {
	flag.Parse()

	stdr.SetVerbosity(*verbosity)
	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags))

	store, err := storage.NewStorage(storage.WithLogger(logger))
	if err != nil {
		logger.Error(err, "storage unavailable, running without persistence")
	}
	prefs := storage.DefaultPreferences()
	if store != nil {
		if prefs, err = store.LoadPreferences(); err != nil {
			logger.Error(err, "failed to load preferences")
			prefs = storage.DefaultPreferences()
		}
	}

	cfg, err := sessionConfig(prefs)
	if err != nil {
		logger.Error(err, "invalid flags")
		os.Exit(2)
	}

	session, err := game.New(cfg, game.WithLogger(logger))
	if err != nil {
		logger.Error(err, "failed to start game")
		os.Exit(1)
	}

	opts := []ui.GameOption{ui.WithLogger(logger)}
	if store != nil {
		opts = append(opts, ui.WithStorage(store, prefs))
	}
	g, err := ui.NewGame(session, opts...)
	if err != nil {
		logger.Error(err, "failed to create UI")
		os.Exit(1)
	}
	defer closeGame(g, logger)

	ebiten.SetWindowSize(ui.ScreenWidth, ui.ScreenHeight)
	ebiten.SetWindowTitle("Chesscore")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(g); err != nil {
		logger.Error(err, "game loop failed")
	}
}

// sessionConfig builds the game configuration from the stored
// preferences. Flags given on the command line take precedence.
func sessionConfig(prefs *storage.UserPreferences) (game.Config, error) {
	cfg := game.DefaultConfig()
	cfg.PlayerName = prefs.Username
	cfg.StartFEN = *fen

	if prefs.SearchDepth > 0 {
		cfg.Engine.Depth = prefs.SearchDepth
	}
	if alg, err := engine.ParseAlgorithm(prefs.Algorithm); err == nil {
		cfg.Engine.Algorithm = alg
	}
	if prefs.GameMode == storage.ModeHumanVsHuman {
		cfg.Mode = game.HumanVsHuman
	}
	if prefs.PlayerColor == storage.ColorBlack {
		cfg.HumanColor = board.Black
	}

	var err error
	flag.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "depth":
			cfg.Engine.Depth = *depth
		case "algorithm":
			cfg.Engine.Algorithm, err = engine.ParseAlgorithm(*algorithm)
		case "human":
			cfg.HumanColor, err = parseColor(*human)
		case "mode":
			cfg.Mode, err = parseMode(*mode)
		}
	})
	return cfg, err
}

func parseColor(s string) (board.Color, error) {
	switch s {
	case "white", "w":
		return board.White, nil
	case "black", "b":
		return board.Black, nil
	}
	return board.White, fmt.Errorf("invalid -human value %q", s)
}

func parseMode(s string) (game.Mode, error) {
	switch s {
	case "hvc":
		return game.HumanVsComputer, nil
	case "hvh":
		return game.HumanVsHuman, nil
	}
	return game.HumanVsComputer, fmt.Errorf("invalid -mode value %q", s)
}

func closeGame(g *ui.Game, logger logr.Logger) {
	if err := g.Close(); err != nil {
		logger.Error(err, "failed to close storage")
	}
}
