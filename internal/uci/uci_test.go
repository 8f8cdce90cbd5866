package uci

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/go-logr/logr"

	"github.com/hailam/chesscore/internal/engine"
)

func run(t *testing.T, input string) string {
	t.Helper()
	u := New(engine.New(engine.DefaultConfig()), logr.Discard())
	var out bytes.Buffer
	if err := u.Run(context.Background(), strings.NewReader(input), &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func TestHandshake(t *testing.T) {
	out := run(t, "uci\nisready\nquit\n")
	for _, want := range []string{"id name chesscore", "option name Depth type spin default 3", "uciok", "readyok"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestGoFindsMate(t *testing.T) {
	out := run(t, "position fen 6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1\ngo depth 3\n")
	if !strings.Contains(out, "info depth 3 score mate 1") {
		t.Errorf("missing mate info line:\n%s", out)
	}
	if !strings.Contains(out, "bestmove a1a8") {
		t.Errorf("want bestmove a1a8:\n%s", out)
	}
}

func TestPositionMoves(t *testing.T) {
	out := run(t, "position startpos moves f2f3 e7e5 g2g4\ngo depth 2\n")
	if !strings.Contains(out, "bestmove d8h4") {
		t.Errorf("want bestmove d8h4 after f3 e5 g4:\n%s", out)
	}
}

func TestPromotionMove(t *testing.T) {
	out := run(t, "position fen 4k3/P7/8/8/8/8/8/4K3 w - - 0 1 moves a7a8n\nd\n")
	if !strings.Contains(out, "Fen: N3k3/8/8/8/8/8/8/4K3 b") {
		t.Errorf("promotion letter not honoured:\n%s", out)
	}
}

func TestInvalidInput(t *testing.T) {
	out := run(t, "position startpos moves e2e5\nposition fen bogus\nfoo\n")
	for _, want := range []string{"info string invalid move e2e5", "info string invalid fen", "info string unknown command: foo"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestGoInFinishedGame(t *testing.T) {
	out := run(t, "position fen R6k/6pp/8/8/8/8/8/K7 b - - 0 1\ngo\n")
	if !strings.Contains(out, "bestmove 0000") || !strings.Contains(out, "info string checkmate") {
		t.Errorf("want checkmate and null move:\n%s", out)
	}
}

func TestSetOption(t *testing.T) {
	out := run(t, "setoption name Depth value 1\nsetoption name Algorithm value minimax\ngo\nsetoption name Depth value 99\n")
	if !strings.Contains(out, "info depth 1 ") {
		t.Errorf("depth option ignored:\n%s", out)
	}
	if !strings.Contains(out, `info string invalid depth "99"`) {
		t.Errorf("out of range depth accepted:\n%s", out)
	}
}

func TestPerft(t *testing.T) {
	out := run(t, "perft 2\n")
	if !strings.Contains(out, "e2e4: 20\n") {
		t.Errorf("divide line missing:\n%s", out)
	}
	if !strings.Contains(out, "Nodes searched: 400") {
		t.Errorf("want 400 nodes:\n%s", out)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	u := New(engine.New(engine.DefaultConfig()), logr.Discard())
	if err := u.Run(ctx, strings.NewReader("isready\n"), &bytes.Buffer{}); err != context.Canceled {
		t.Errorf("Run err = %v, want context.Canceled", err)
	}
}
