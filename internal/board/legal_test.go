package board

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/dylhunn/dragontoothmg"
	"github.com/google/go-cmp/cmp"
)

// inCheckByCandidates is the textbook definition of check: some enemy
// piece has the king's square among its candidate destinations.
func inCheckByCandidates(p *Position, c Color) bool {
	k := p.King(c).Square()
	for _, pc := range p.Pieces(c.Other()) {
		for _, sq := range p.Candidates(pc) {
			if sq == k {
				return true
			}
		}
	}
	return false
}

// randomWalk plays random legal moves and calls visit before each one.
func randomWalk(t *testing.T, seed int64, games, plies int, visit func(p *Position, side Color)) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	for g := 0; g < games; g++ {
		pos := NewPosition()
		side := White
		for ply := 0; ply < plies; ply++ {
			visit(pos, side)
			moves := pos.LegalMoveList(side)
			if len(moves) == 0 {
				break
			}
			if _, err := pos.MakeMove(moves[rng.Intn(len(moves))], NoKind); err != nil {
				t.Fatal(err)
			}
			side = side.Other()
		}
	}
}

func TestLegalMovesNeverLeaveKingInCheck(t *testing.T) {
	randomWalk(t, 1, 20, 100, func(p *Position, side Color) {
		for pc, targets := range p.LegalMoves(side) {
			if len(targets) == 0 {
				t.Fatalf("piece %s on %s listed with no destinations", pc, pc.Square())
			}
			for _, to := range targets {
				m, err := p.MakeMove(NewMove(pc, to), NoKind)
				if err != nil {
					t.Fatal(err)
				}
				if p.InCheck(side) {
					t.Fatalf("%s leaves %s in check:\n%s", m, side, p)
				}
				p.UnmakeMove()
			}
		}
	})
}

func TestInCheckMatchesCandidates(t *testing.T) {
	randomWalk(t, 2, 20, 100, func(p *Position, side Color) {
		for _, c := range []Color{White, Black} {
			if got, want := p.InCheck(c), inCheckByCandidates(p, c); got != want {
				t.Fatalf("InCheck(%s) = %v, candidate scan says %v:\n%s", c, got, want, p)
			}
		}
	})
}

func TestLegalMovesMatchesMoveList(t *testing.T) {
	pos := NewPosition()
	total := 0
	for pc, targets := range pos.LegalMoves(White) {
		if pc.Color != White {
			t.Errorf("LegalMoves(White) returned %s piece", pc.Color)
		}
		total += len(targets)
	}
	if n := len(pos.LegalMoveList(White)); total != n || n != 20 {
		t.Errorf("LegalMoves total = %d, LegalMoveList = %d, want 20", total, n)
	}
	// Only pawns and knights can move at the start.
	if n := len(pos.LegalMoves(White)); n != 10 {
		t.Errorf("movable pieces = %d, want 10", n)
	}
}

// uciSet collects the from/to part of each move; promotions collapse to
// one entry per destination.
func uciSet(moves []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range moves {
		s = s[:4]
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// TestLegalMovesMatchDragontooth compares legal moves with an independent
// bitboard move generator along random games. The FEN never carries an en
// passant square, so neither generator produces one.
func TestLegalMovesMatchDragontooth(t *testing.T) {
	randomWalk(t, 3, 25, 120, func(p *Position, side Color) {
		fen := p.FEN(side)

		ref := dragontoothmg.ParseFen(fen)
		var want []string
		for _, m := range ref.GenerateLegalMoves() {
			mv := m
			want = append(want, mv.String())
		}

		var got []string
		for _, m := range p.LegalMoveList(side) {
			got = append(got, m.String())
		}

		if diff := cmp.Diff(uciSet(want), uciSet(got)); diff != "" {
			t.Fatalf("legal moves differ for %s (-dragontooth +ours):\n%s", fen, diff)
		}
	})
}

func TestLegalMovesLeavePositionUntouched(t *testing.T) {
	pos, side := mustFEN(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	before := snapshotOf(pos)
	pos.LegalMoves(side)
	pos.LegalMoveList(side.Other())
	pos.Status(side)
	if diff := cmp.Diff(before, snapshotOf(pos)); diff != "" {
		t.Errorf("move generation mutated position (-want +got):\n%s", diff)
	}
}
