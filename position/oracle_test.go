package position_test

import (
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/dylhunn/dragontoothmg"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/notnil/chess"

	"chess-advisor/position"
)

func moveStrings(moves []position.Move) []string {
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.String())
	}
	sort.Strings(out)
	return out
}

func dragontoothMoves(fen string) []string {
	board := dragontoothmg.ParseFen(fen)
	moves := board.GenerateLegalMoves()
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, strings.ToLower(m.String()))
	}
	sort.Strings(out)
	return out
}

func dragontoothPerft(b *dragontoothmg.Board, depth int) uint64 {
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var n uint64
	for _, m := range moves {
		unapply := b.Apply(m)
		n += dragontoothPerft(b, depth-1)
		unapply()
	}
	return n
}

func TestPerftMatchesDragontooth(t *testing.T) {
	for _, tc := range perftSuite {
		t.Run(tc.name, func(t *testing.T) {
			pos := position.MustParse(tc.fen)
			board := dragontoothmg.ParseFen(tc.fen)
			depth := 2
			if len(tc.counts) < depth {
				depth = len(tc.counts)
			}
			want := dragontoothPerft(&board, depth)
			if got := pos.Perft(depth); got != want {
				t.Fatalf("perft(%d): got %d, dragontoothmg %d", depth, got, want)
			}
		})
	}
}

func TestRootMovesMatchDragontooth(t *testing.T) {
	for _, tc := range perftSuite {
		pos := position.MustParse(tc.fen)
		if diff := cmp.Diff(dragontoothMoves(tc.fen), moveStrings(pos.LegalMoves())); diff != "" {
			t.Errorf("%s: legal moves mismatch (-dragontoothmg +ours):\n%s", tc.name, diff)
		}
	}
}

// TestRandomPlayoutsMatchNotnil walks seeded random games and compares the
// legal move set against notnil/chess at every ply.
func TestRandomPlayoutsMatchNotnil(t *testing.T) {
	starts := []string{position.StartFEN, perftSuite[1].fen, perftSuite[3].fen, perftSuite[4].fen}
	rnd := rand.New(rand.NewSource(7))
	for _, fen := range starts {
		for game := 0; game < 4; game++ {
			pos := position.MustParse(fen)
			opt, err := chess.FEN(fen)
			if err != nil {
				t.Fatalf("notnil FEN(%q): %v", fen, err)
			}
			ref := chess.NewGame(opt).Position()
			for ply := 0; ply < 60; ply++ {
				ours := moveStrings(pos.LegalMoves())
				var theirs []string
				byText := make(map[string]*chess.Move)
				for _, m := range ref.ValidMoves() {
					s := m.String()
					theirs = append(theirs, s)
					byText[s] = m
				}
				sort.Strings(theirs)
				if diff := cmp.Diff(theirs, ours, cmpopts.EquateEmpty()); diff != "" {
					t.Fatalf("ply %d of %s: legal moves mismatch (-notnil +ours):\n%s", ply, pos.FEN(), diff)
				}
				if len(ours) == 0 {
					break
				}
				pick := ours[rnd.Intn(len(ours))]
				m, err := position.ParseMove(pick)
				if err != nil {
					t.Fatalf("ParseMove(%q): %v", pick, err)
				}
				pos = pos.Apply(m)
				ref = ref.Update(byText[pick])
			}
		}
	}
}

func TestTerminalPositionsMatchNotnil(t *testing.T) {
	for _, fen := range []string{
		"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3",
		"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
	} {
		opt, err := chess.FEN(fen)
		if err != nil {
			t.Fatalf("notnil FEN(%q): %v", fen, err)
		}
		var theirs []string
		for _, m := range chess.NewGame(opt).Position().ValidMoves() {
			theirs = append(theirs, m.String())
		}
		ours := moveStrings(position.MustParse(fen).LegalMoves())
		if len(ours) != 0 {
			t.Fatalf("%s: expected no legal moves, got %v", fen, ours)
		}
		if diff := cmp.Diff(theirs, ours, cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("%s: legal moves mismatch (-notnil +ours):\n%s", fen, diff)
		}
	}
}
