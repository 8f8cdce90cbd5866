package storage

import (
	"fmt"

	"github.com/notnil/chess"
)

// ExportPGN renders an archived game as PGN. The moves are replayed
// through an independent rules implementation, so a corrupt record is
// reported instead of exported.
func ExportPGN(rec *GameRecord) (string, error) {
	opts := []func(*chess.Game){chess.UseNotation(chess.UCINotation{})}
	if rec.FEN != "" {
		fen, err := chess.FEN(rec.FEN)
		if err != nil {
			return "", fmt.Errorf("game %s: start position: %w", rec.ID, err)
		}
		opts = append(opts, fen)
	}
	game := chess.NewGame(opts...)

	for i, mv := range rec.Moves {
		if err := game.MoveStr(mv); err != nil {
			return "", fmt.Errorf("game %s: move %d (%s): %w", rec.ID, i+1, mv, err)
		}
	}

	game.AddTagPair("Event", "Casual game")
	game.AddTagPair("Site", "chesscore")
	game.AddTagPair("Date", rec.StartedAt.Format("2006.01.02"))
	game.AddTagPair("White", rec.White)
	game.AddTagPair("Black", rec.Black)
	game.AddTagPair("Result", rec.Result)
	if rec.FEN != "" {
		game.AddTagPair("SetUp", "1")
		game.AddTagPair("FEN", rec.FEN)
	}

	// Checkmate and stalemate are detected by the replay; other endings
	// are recorded explicitly.
	if game.Outcome() == chess.NoOutcome {
		switch rec.Result {
		case "1-0":
			game.Resign(chess.Black)
		case "0-1":
			game.Resign(chess.White)
		case "1/2-1/2":
			if err := game.Draw(chess.ThreefoldRepetition); err != nil {
				_ = game.Draw(chess.DrawOffer)
			}
		}
	}

	return game.String(), nil
}
