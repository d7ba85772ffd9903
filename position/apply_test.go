package position

import (
	"math/rand"
	"testing"
)

func TestApplyLeavesReceiverUntouched(t *testing.T) {
	pos := MustParse("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	before := pos
	for _, m := range pos.LegalMoves() {
		_ = pos.Apply(m)
		if pos != before {
			t.Fatalf("Apply(%v) modified the receiver", m)
		}
	}
}

func TestIncrementalHashMatchesRecomputed(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	starts := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	}
	for _, fen := range starts {
		pos := MustParse(fen)
		for ply := 0; ply < 80; ply++ {
			if got, want := pos.Hash(), pos.computeHash(); got != want {
				t.Fatalf("ply %d (%s): incremental hash %x, recomputed %x", ply, pos.FEN(), got, want)
			}
			reparsed := MustParse(pos.FEN())
			if reparsed != pos {
				t.Fatalf("ply %d: Parse(FEN(p)) differs for %s", ply, pos.FEN())
			}
			moves := pos.LegalMoves()
			if len(moves) == 0 {
				break
			}
			pos = pos.Apply(moves[rnd.Intn(len(moves))])
		}
	}
}

func TestApplyClocksAndRights(t *testing.T) {
	pos := MustParse("r3k2r/8/8/8/8/8/4P3/R3K2R b KQkq - 7 20")

	// rook capture on a1 strips white's queen-side right
	capture := pos.Apply(NewMove(A8, A1, NoPieceType))
	if capture.CastlingRights() != CastleWhiteKing|CastleBlackKing {
		t.Fatalf("rights after Rxa1: got %v", capture.CastlingRights())
	}
	if capture.HalfmoveClock() != 0 || capture.FullmoveNumber() != 21 {
		t.Fatalf("clocks after capture: %d %d", capture.HalfmoveClock(), capture.FullmoveNumber())
	}

	quiet := pos.Apply(NewMove(H8, SquareAt(7, 6), NoPieceType))
	if quiet.HalfmoveClock() != 8 || quiet.CastlingRights() != CastleWhiteKing|CastleWhiteQueen|CastleBlackQueen {
		t.Fatalf("after Rh7: clock %d rights %v", quiet.HalfmoveClock(), quiet.CastlingRights())
	}

	push := quiet.Apply(NewMove(SquareAt(4, 1), SquareAt(4, 3), NoPieceType))
	if push.HalfmoveClock() != 0 || push.EnPassant() != SquareAt(4, 2) {
		t.Fatalf("after e2e4: clock %d ep %v", push.HalfmoveClock(), push.EnPassant())
	}
	if push.FullmoveNumber() != 21 {
		t.Fatalf("white move must not advance the fullmove number, got %d", push.FullmoveNumber())
	}
}

func TestApplyNull(t *testing.T) {
	pos := MustParse("4k3/8/8/8/4Pp2/8/8/4K3 b - e3 0 1")
	null := pos.ApplyNull()
	if null.SideToMove() != White || null.EnPassant() != NoSquare {
		t.Fatalf("null move: side %v ep %v", null.SideToMove(), null.EnPassant())
	}
	if null.Hash() != null.computeHash() {
		t.Fatalf("null move hash out of sync")
	}
}
