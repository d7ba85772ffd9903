package position_test

import (
	"errors"
	"testing"

	"chess-advisor/position"
)

func TestParseMove(t *testing.T) {
	cases := []struct {
		text  string
		from  string
		to    string
		promo position.PieceType
	}{
		{"e2e4", "e2", "e4", position.NoPieceType},
		{" g1f3 ", "g1", "f3", position.NoPieceType},
		{"a7a8q", "a7", "a8", position.Queen},
		{"a7a8N", "a7", "a8", position.Knight},
		{"E7E8r", "e7", "e8", position.Rook},
		{"h2h1b", "h2", "h1", position.Bishop},
	}
	for _, tc := range cases {
		m, err := position.ParseMove(tc.text)
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", tc.text, err)
		}
		if m.From().String() != tc.from || m.To().String() != tc.to || m.Promotion() != tc.promo {
			t.Errorf("ParseMove(%q) = %v", tc.text, m)
		}
	}
	if got := position.NewMove(position.E1, position.G1, position.NoPieceType).String(); got != "e1g1" {
		t.Errorf("String: got %q", got)
	}
	if got := position.NoMove.String(); got != "0000" {
		t.Errorf("NoMove.String: got %q", got)
	}
}

func TestParseMoveRejectsMalformed(t *testing.T) {
	for _, text := range []string{"", "e2", "e2e", "e2e4e5", "i2e4", "e9e4", "e2e4k", "e2e4x", "0000", "e2e2", "xxxx"} {
		_, err := position.ParseMove(text)
		if !errors.Is(err, position.ErrMalformedMove) {
			t.Errorf("ParseMove(%q): expected ErrMalformedMove, got %v", text, err)
		}
		var merr *position.MoveError
		if !errors.As(err, &merr) || merr.Text != text {
			t.Errorf("ParseMove(%q): expected *MoveError carrying the text, got %v", text, err)
		}
	}
}

func TestResolveMove(t *testing.T) {
	pos := position.MustParse("1n5k/P7/8/8/8/8/8/R6K w - - 0 1")
	cases := []struct {
		text      string
		malformed bool
		legal     bool
	}{
		{"a7a8q", false, true},
		{"a7b8n", false, true},
		{"a7a8", true, false},
		{"a7b8", true, false},
		{"a1a2q", true, false},
		{"a1a6", false, true},
		{"h1g2", false, true},
		{"a1b2", false, false},
		{"c3c4q", false, false},
	}
	for _, tc := range cases {
		m, err := pos.ResolveMove(tc.text)
		if tc.malformed {
			if !errors.Is(err, position.ErrMalformedMove) {
				t.Errorf("ResolveMove(%q): expected ErrMalformedMove, got %v", tc.text, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ResolveMove(%q): %v", tc.text, err)
		}
		if pos.IsLegal(m) != tc.legal {
			t.Errorf("IsLegal(%q) = %v, want %v", tc.text, !tc.legal, tc.legal)
		}
	}

	// a promotion letter on a pawn move short of the last rank is well formed but illegal
	start := position.Start()
	m, err := start.ResolveMove("e2e4q")
	if err != nil {
		t.Fatalf("ResolveMove(e2e4q): %v", err)
	}
	if start.IsLegal(m) {
		t.Fatalf("e2e4q must be illegal")
	}
}

func TestPlayRejectsIllegal(t *testing.T) {
	pos := position.Start()
	_, err := pos.Play(mustMove(t, "e2e5"))
	if !errors.Is(err, position.ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove, got %v", err)
	}
}

func TestMoveClassification(t *testing.T) {
	pos := position.MustParse("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	capture := mustMove(t, "e5f7")
	if !pos.IsCapture(capture) || pos.CapturedPiece(capture) != position.BlackPawn || pos.MovedPiece(capture) != position.WhiteKnight {
		t.Errorf("e5f7 classification wrong")
	}
	if !pos.IsTactical(capture) {
		t.Errorf("a capture is tactical")
	}
	quiet := mustMove(t, "a2a3")
	if pos.IsCapture(quiet) || pos.IsTactical(quiet) || pos.IsCastle(quiet) || pos.IsEnPassant(quiet) {
		t.Errorf("a2a3 classification wrong")
	}
	wing, ok := pos.CastleWing(mustMove(t, "e1c1"))
	if !ok || wing != position.QueenSide {
		t.Errorf("e1c1 should be a queen-side castle")
	}
}
