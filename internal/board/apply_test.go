package board

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type pieceState struct {
	Piece    string
	Square   string
	HasMoved bool
}

// positionState is a comparable snapshot of everything apply/undo touches.
type positionState struct {
	Grid     [8]string
	White    []pieceState
	Black    []pieceState
	All      []pieceState
	Captured []pieceState
	Kings    [2]string
	History  int
}

func statesOf(pieces []*Piece) []pieceState {
	out := make([]pieceState, len(pieces))
	for i, pc := range pieces {
		out[i] = pieceState{Piece: pc.String(), Square: pc.Square().String(), HasMoved: pc.HasMoved}
	}
	return out
}

func snapshotOf(p *Position) positionState {
	var s positionState
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if pc := p.PieceAt(Sq(row, col)); pc != nil {
				s.Grid[row] += pc.String()
			} else {
				s.Grid[row] += "."
			}
		}
	}
	s.White = statesOf(p.Pieces(White))
	s.Black = statesOf(p.Pieces(Black))
	s.All = statesOf(p.AllPieces())
	s.Captured = statesOf(p.Captured())
	s.Kings = [2]string{p.King(White).Square().String(), p.King(Black).Square().String()}
	s.History = len(p.History())
	return s
}

func mustFEN(t *testing.T, fen string) (*Position, Color) {
	t.Helper()
	pos, side, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos, side
}

func mustSquare(t *testing.T, s string) Square {
	t.Helper()
	sq, err := ParseSquare(s)
	if err != nil {
		t.Fatal(err)
	}
	return sq
}

// checkRoundTrip applies and undoes every legal move of side, asserting
// the position is restored exactly each time.
func checkRoundTrip(t *testing.T, p *Position, side Color) {
	t.Helper()
	before := snapshotOf(p)
	for _, m := range p.LegalMoveList(side) {
		if _, err := p.MakeMove(m, NoKind); err != nil {
			t.Fatalf("MakeMove(%s): %v", m, err)
		}
		if err := p.Validate(); err != nil {
			t.Fatalf("after %s: %v", m, err)
		}
		p.UnmakeMove()
		if diff := cmp.Diff(before, snapshotOf(p)); diff != "" {
			t.Fatalf("undo of %s did not restore position (-want +got):\n%s", m, diff)
		}
	}
}

func TestApplyUndoRestoresStartingPosition(t *testing.T) {
	checkRoundTrip(t, NewPosition(), White)
}

func TestApplyUndoRandomPlayouts(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for game := 0; game < 10; game++ {
		pos := NewPosition()
		side := White
		for ply := 0; ply < 80; ply++ {
			checkRoundTrip(t, pos, side)
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

func TestCaptureBookkeeping(t *testing.T) {
	pos, side := mustFEN(t, "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	before := snapshotOf(pos)
	victim := pos.PieceAt(mustSquare(t, "d5"))

	m, err := pos.Play(side, mustSquare(t, "e4"), mustSquare(t, "d5"), NoKind)
	if err != nil {
		t.Fatal(err)
	}
	if m.Captured != victim {
		t.Fatalf("Captured = %v, want the d5 pawn", m.Captured)
	}
	if got := pos.Captured(); len(got) != 1 || got[0] != victim {
		t.Errorf("captured list = %v, want [d5 pawn]", got)
	}
	if n := len(pos.Pieces(Black)); n != 1 {
		t.Errorf("black pieces = %d, want 1", n)
	}
	if n := len(pos.AllPieces()); n != 3 {
		t.Errorf("all pieces = %d, want 3", n)
	}
	if err := pos.Validate(); err != nil {
		t.Fatal(err)
	}

	pos.UnmakeMove()
	if diff := cmp.Diff(before, snapshotOf(pos)); diff != "" {
		t.Errorf("undo capture (-want +got):\n%s", diff)
	}
	if pos.PieceAt(mustSquare(t, "d5")) != victim {
		t.Error("captured pawn not restored to d5")
	}
}

func TestKingsideCastling(t *testing.T) {
	pos, side := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	before := snapshotOf(pos)
	king := pos.King(White)
	rook := pos.PieceAt(mustSquare(t, "h1"))

	m, err := pos.Play(side, mustSquare(t, "e1"), mustSquare(t, "g1"), NoKind)
	if err != nil {
		t.Fatal(err)
	}
	if !m.IsCastling() {
		t.Errorf("%s not reported as castling", m)
	}
	if pos.PieceAt(mustSquare(t, "f1")) != rook {
		t.Error("rook did not move to f1")
	}
	if !king.HasMoved || !rook.HasMoved {
		t.Errorf("after castling HasMoved king=%v rook=%v, want both true", king.HasMoved, rook.HasMoved)
	}
	if n := len(pos.History()); n != 2 {
		t.Errorf("history length = %d, want 2", n)
	}
	if !pos.History()[1].Aux {
		t.Error("rook relocation not recorded as auxiliary entry")
	}

	pos.UnmakeMove()
	if king.HasMoved || rook.HasMoved {
		t.Errorf("after undo HasMoved king=%v rook=%v, want both false", king.HasMoved, rook.HasMoved)
	}
	if diff := cmp.Diff(before, snapshotOf(pos)); diff != "" {
		t.Errorf("undo castling (-want +got):\n%s", diff)
	}
}

func TestUndoQueensideCastling(t *testing.T) {
	pos, _ := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1")
	before := snapshotOf(pos)

	if _, err := pos.PlayUCI(Black, "e8c8"); err != nil {
		t.Fatal(err)
	}
	if pc := pos.PieceAt(mustSquare(t, "d8")); pc == nil || pc.Kind != Rook {
		t.Fatalf("no rook on d8 after O-O-O:\n%s", pos)
	}

	pos.UnmakeMove()
	if diff := cmp.Diff(before, snapshotOf(pos)); diff != "" {
		t.Errorf("undo queenside castling (-want +got):\n%s", diff)
	}
}

func TestCastlingRequiresUnmovedPieces(t *testing.T) {
	pos, _ := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	e1, g1, c1 := mustSquare(t, "e1"), mustSquare(t, "g1"), mustSquare(t, "c1")

	// King steps out and back: castling is gone for good.
	for _, uci := range []string{"e1f1", "a8b8", "f1e1", "b8a8"} {
		side := White
		if uci[1] == '8' {
			side = Black
		}
		if _, err := pos.PlayUCI(side, uci); err != nil {
			t.Fatalf("PlayUCI(%s): %v", uci, err)
		}
	}
	if _, ok := pos.FindLegalMove(White, e1, g1); ok {
		t.Error("kingside castling allowed after the king moved")
	}
	if _, ok := pos.FindLegalMove(White, e1, c1); ok {
		t.Error("queenside castling allowed after the king moved")
	}

	// Undoing the king's moves restores the right.
	for i := 0; i < 4; i++ {
		pos.UnmakeMove()
	}
	if _, ok := pos.FindLegalMove(White, e1, g1); !ok {
		t.Error("kingside castling not restored by undo")
	}
}

func TestCastlingBlockedOrAttacked(t *testing.T) {
	tests := []struct {
		name      string
		fen       string
		kingside  bool
		queenside bool
	}{
		{"both free", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", true, true},
		{"piece between", "r3k2r/8/8/8/8/8/8/RN2K1NR w KQkq - 0 1", false, false},
		{"transit attacked", "r3kr2/8/8/8/8/8/8/R3K2R w KQq - 0 1", false, true},
		{"destination attacked", "r1r1k3/8/8/8/8/8/8/R3K2R w KQq - 0 1", true, false},
		{"in check", "r3k2r/8/8/8/8/8/8/R3K2r w Qkq - 0 1", false, false},
		{"b-file attacked is fine", "1r2k2r/8/8/8/8/8/8/R3K2R w KQk - 0 1", true, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, _ := mustFEN(t, tc.fen)
			e1 := mustSquare(t, "e1")
			_, ks := pos.FindLegalMove(White, e1, mustSquare(t, "g1"))
			_, qs := pos.FindLegalMove(White, e1, mustSquare(t, "c1"))
			if ks != tc.kingside || qs != tc.queenside {
				t.Errorf("castling O-O=%v O-O-O=%v, want %v %v", ks, qs, tc.kingside, tc.queenside)
			}
		})
	}
}

func TestCastlingOnlyFromHomeSquare(t *testing.T) {
	tests := []struct {
		name       string
		king, rook Square
		castle     Square
		want       bool
	}{
		{"home square", Sq(7, 4), Sq(7, 7), Sq(7, 6), true},
		{"king beside corner rook", Sq(7, 6), Sq(7, 7), NoSquare, false},
		{"mid board", Sq(4, 4), Sq(4, 7), Sq(4, 6), false},
		{"king off the e-file", Sq(7, 3), Sq(7, 0), Sq(7, 1), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := NewEmptyPosition()
			king := pos.Place(King, White, tc.king)
			pos.Place(Rook, White, tc.rook)
			pos.Place(King, Black, Sq(0, 0))

			for _, sq := range pos.Candidates(king) {
				if !sq.InBounds() {
					t.Fatalf("Candidates(%s) includes off-board square", tc.king)
				}
			}
			// Must not panic on any placement.
			legal := pos.LegalMoves(White)

			if tc.castle == NoSquare {
				return
			}
			got := false
			for _, sq := range legal[king] {
				if sq == tc.castle {
					got = true
				}
			}
			if got != tc.want {
				t.Errorf("king %s castles to %s = %v, want %v", tc.king, tc.castle, got, tc.want)
			}
		})
	}
}

func TestMakeLegalMovePromotesToQueen(t *testing.T) {
	pos, side := mustFEN(t, "4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	before := snapshotOf(pos)

	m, ok := pos.FindLegalMove(side, mustSquare(t, "a7"), mustSquare(t, "a8"))
	if !ok {
		t.Fatal("a7a8 not legal")
	}
	applied := pos.MakeLegalMove(m)
	if applied.Promotion != Queen {
		t.Errorf("Promotion = %s, want %s", applied.Promotion, Queen)
	}
	if got := pos.PieceAt(mustSquare(t, "a8")); got == nil || got.Kind != Queen {
		t.Errorf("a8 = %v, want a queen", got)
	}

	pos.UnmakeMove()
	if diff := cmp.Diff(before, snapshotOf(pos)); diff != "" {
		t.Errorf("position after undo mismatch (-want +got):\n%s", diff)
	}
}

func TestPromotionHumanChoice(t *testing.T) {
	for _, k := range []Kind{Queen, Rook, Bishop, Knight} {
		t.Run(k.String(), func(t *testing.T) {
			pos, side := mustFEN(t, "4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
			before := snapshotOf(pos)
			pawn := pos.PieceAt(mustSquare(t, "a7"))

			m, err := pos.Play(side, mustSquare(t, "a7"), mustSquare(t, "a8"), k)
			if err != nil {
				t.Fatal(err)
			}
			if m.Promotion != k {
				t.Errorf("Promotion = %s, want %s", m.Promotion, k)
			}
			got := pos.PieceAt(mustSquare(t, "a8"))
			if got == nil || got.Kind != k || got.Color != White {
				t.Fatalf("a8 holds %v, want white %s", got, k)
			}
			if indexOf(pos.Pieces(White), pawn) >= 0 || indexOf(pos.AllPieces(), pawn) >= 0 {
				t.Error("promoted pawn still in piece collections")
			}
			h := pos.History()
			if len(h) != 2 || !h[1].Aux || h[1].From != h[1].To || h[1].Replaced != pawn {
				t.Errorf("history = %+v, want pawn move plus substitution entry", h)
			}
			if err := pos.Validate(); err != nil {
				t.Fatal(err)
			}

			pos.UnmakeMove()
			if diff := cmp.Diff(before, snapshotOf(pos)); diff != "" {
				t.Errorf("undo promotion (-want +got):\n%s", diff)
			}
			if pos.PieceAt(mustSquare(t, "a7")) != pawn {
				t.Error("original pawn not restored to a7")
			}
		})
	}
}

func TestPromotionAutomatedIsQueen(t *testing.T) {
	pos, side := mustFEN(t, "4k3/8/8/8/8/8/p7/4K3 b - - 0 1")
	m, ok := pos.FindLegalMove(side, mustSquare(t, "a2"), mustSquare(t, "a1"))
	if !ok {
		t.Fatal("a2a1 not legal")
	}
	if _, err := pos.MakeMove(m, NoKind); err != nil {
		t.Fatal(err)
	}
	if pc := pos.PieceAt(mustSquare(t, "a1")); pc == nil || pc.Kind != Queen {
		t.Errorf("a1 holds %v, want queen", pc)
	}
}

func TestCapturePromotionUndo(t *testing.T) {
	pos, side := mustFEN(t, "1r2k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	before := snapshotOf(pos)

	if _, err := pos.PlayUCI(side, "a7b8n"); err != nil {
		t.Fatal(err)
	}
	if n := len(pos.Captured()); n != 1 {
		t.Errorf("captured = %d, want 1", n)
	}
	if pc := pos.PieceAt(mustSquare(t, "b8")); pc == nil || pc.Kind != Knight {
		t.Errorf("b8 holds %v, want knight", pc)
	}

	pos.UnmakeMove()
	if diff := cmp.Diff(before, snapshotOf(pos)); diff != "" {
		t.Errorf("undo capture-promotion (-want +got):\n%s", diff)
	}
}

func TestInvalidPromotionRejected(t *testing.T) {
	pos, side := mustFEN(t, "4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	before := snapshotOf(pos)
	m, ok := pos.FindLegalMove(side, mustSquare(t, "a7"), mustSquare(t, "a8"))
	if !ok {
		t.Fatal("a7a8 not legal")
	}

	for _, k := range []Kind{King, Pawn} {
		if _, err := pos.MakeMove(m, k); !errors.Is(err, ErrInvalidPromotion) {
			t.Errorf("MakeMove with %s: err = %v, want ErrInvalidPromotion", k, err)
		}
		if _, err := pos.Play(side, m.From, m.To, k); !errors.Is(err, ErrInvalidPromotion) {
			t.Errorf("Play with %s: err = %v, want ErrInvalidPromotion", k, err)
		}
	}
	if diff := cmp.Diff(before, snapshotOf(pos)); diff != "" {
		t.Errorf("rejected promotion mutated position (-want +got):\n%s", diff)
	}
}

func TestUndoEmptyHistory(t *testing.T) {
	pos := NewPosition()
	before := snapshotOf(pos)
	pos.UnmakeMove()
	if diff := cmp.Diff(before, snapshotOf(pos)); diff != "" {
		t.Errorf("undo on empty history changed position (-want +got):\n%s", diff)
	}
}

func TestPawnDoubleStepRestoredByUndo(t *testing.T) {
	pos := NewPosition()
	e2, e3, e5 := mustSquare(t, "e2"), mustSquare(t, "e3"), mustSquare(t, "e5")
	side := White

	if _, err := pos.Play(side, e2, e3, NoKind); err != nil {
		t.Fatal(err)
	}
	if _, err := pos.PlayUCI(Black, "a7a6"); err != nil {
		t.Fatal(err)
	}
	if _, ok := pos.FindLegalMove(White, e3, e5); ok {
		t.Error("pawn allowed a double step after moving")
	}
	pos.UnmakeMove()
	pos.UnmakeMove()
	if pawn := pos.PieceAt(e2); pawn == nil || pawn.HasMoved {
		t.Errorf("pawn on e2 after undo = %+v, want unmoved", pawn)
	}
}

func TestPlayRejectsIllegal(t *testing.T) {
	pos := NewPosition()
	before := snapshotOf(pos)

	tests := []struct {
		name string
		side Color
		uci  string
	}{
		{"wrong color", Black, "e2e4"},
		{"empty square", White, "e4e5"},
		{"bad geometry", White, "e2e5"},
		{"blocked slider", White, "a1a3"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := pos.PlayUCI(tc.side, tc.uci); !errors.Is(err, ErrIllegalMove) {
				t.Errorf("PlayUCI(%s) err = %v, want ErrIllegalMove", tc.uci, err)
			}
		})
	}
	if diff := cmp.Diff(before, snapshotOf(pos)); diff != "" {
		t.Errorf("rejected moves mutated position (-want +got):\n%s", diff)
	}
}

func TestPlayRejectsPinnedPiece(t *testing.T) {
	// The e2 knight is pinned by the rook on e8.
	pos, side := mustFEN(t, "4r1k1/8/8/8/8/8/4N3/4K3 w - - 0 1")
	if _, err := pos.PlayUCI(side, "e2c3"); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("pinned knight move err = %v, want ErrIllegalMove", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	pos := NewPosition()
	for _, uci := range []string{"e2e4", "d7d5", "e4d5"} {
		side := White
		if uci[1] == '7' {
			side = Black
		}
		if _, err := pos.PlayUCI(side, uci); err != nil {
			t.Fatal(err)
		}
	}

	clone := pos.Clone()
	if diff := cmp.Diff(snapshotOf(pos), snapshotOf(clone)); diff != "" {
		t.Fatalf("clone differs (-orig +clone):\n%s", diff)
	}
	if err := clone.Validate(); err != nil {
		t.Fatal(err)
	}

	before := snapshotOf(pos)
	clone.UnmakeMove()
	clone.UnmakeMove()
	if _, err := clone.PlayUCI(Black, "g8f6"); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(before, snapshotOf(pos)); diff != "" {
		t.Errorf("mutating clone changed original (-want +got):\n%s", diff)
	}
	if n := len(clone.Captured()); n != 0 {
		t.Errorf("clone captured = %d pieces, want none after undo", n)
	}
}
