package engine

import (
	"testing"

	"github.com/hailam/chesscore/internal/board"
)

func TestEvaluateStartIsBalanced(t *testing.T) {
	if got := Evaluate(board.NewPosition()); got != 0 {
		t.Errorf("Evaluate(start) = %d, want 0", got)
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want int
	}{
		// Two doubled, isolated a-pawns, one of them blocked: 200 material,
		// five structure defects, mobility 6 against 5.
		{"doubled pawns", "4k3/8/8/8/8/P7/P7/4K3 w - - 0 1", 200 - 5*50 + 1*10},
		// Mirror image, so the score flips.
		{"mirrored", "4k3/p7/p7/8/8/8/8/4K3 w - - 0 1", -(200 - 5*50 + 1*10)},
		// A lone extra knight in the corner.
		{"extra knight", "4k3/8/8/8/8/8/8/N3K3 w - - 0 1", 300 + (2+5-5)*10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, _, err := board.ParseFEN(tc.fen)
			if err != nil {
				t.Fatal(err)
			}
			if got := Evaluate(pos); got != tc.want {
				t.Errorf("Evaluate = %d, want %d", got, tc.want)
			}
			if got := EvaluateFor(pos, board.Black); got != -tc.want {
				t.Errorf("EvaluateFor(Black) = %d, want %d", got, -tc.want)
			}
		})
	}
}

func TestPawnStructure(t *testing.T) {
	// White: a2 a3 (doubled, isolated, a2 blocked), c4 d4 (connected),
	// d3 (doubled with d4, blocked by it).
	pos, _, err := board.ParseFEN("4k3/8/8/8/2PP4/P2P4/P7/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	doubled, blocked, isolated := pawnStructure(pos, board.White)
	if doubled != 4 || blocked != 2 || isolated != 2 {
		t.Errorf("pawnStructure = (%d, %d, %d), want (4, 2, 2)", doubled, blocked, isolated)
	}
}

func TestOrderMovesCapturesFirst(t *testing.T) {
	// The pawn can take a queen or a knight; the rook can take the queen.
	pos, side, err := board.ParseFEN("4k3/8/8/2n1q3/3P4/8/8/4RK2 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	moves := pos.LegalMoveList(side)
	OrderMoves(pos, moves)

	want := []string{"d4e5", "e1e5", "d4c5"}
	for i, w := range want {
		if got := moves[i].String(); got != w {
			t.Errorf("moves[%d] = %s, want %s", i, got, w)
		}
	}
	for _, m := range moves[len(want):] {
		if m.IsCapture(pos) {
			t.Errorf("capture %s ordered after quiet moves", m)
		}
	}
}
