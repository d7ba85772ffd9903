package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"chess-advisor/position"
)

func depthConfig(depth int) Config {
	return Config{Depth: depth, TTSizeMB: 4}
}

func TestSearchFindsBestMove(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		depth int
		want  string
		mate  bool
	}{
		// g6e8 also mates; the tie goes to the move generated first.
		{"mate in one tie-break", "7k/6pp/6Q1/8/8/2B5/8/6K1 w - - 0 1", 3, "g6g7", true},
		{"scholar's mate", "r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 4 4", 3, "h5f7", true},
		{"hanging queen", "k7/8/8/3q4/8/8/8/K2R4 w - - 0 1", 3, "d1d5", false},
		{"black to move", "k2r4/8/8/8/3Q4/8/8/K7 b - - 0 1", 3, "d8d4", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Search(context.Background(), position.MustParse(tt.fen), depthConfig(tt.depth))
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if res.Move.String() != tt.want {
				t.Fatalf("best move %v (score %d), want %s", res.Move, res.Score, tt.want)
			}
			if tt.mate && res.Score != MateScore-1 {
				t.Errorf("score %d, want mate in one (%d)", res.Score, MateScore-1)
			}
			if len(res.PV) == 0 || res.PV[0] != res.Move {
				t.Errorf("PV %v does not start with %v", res.PV, res.Move)
			}
			if res.BudgetExceeded {
				t.Errorf("depth bounded search reported an exceeded budget")
			}
		})
	}
}

func TestSearchWithoutLegalMoves(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want position.Status
	}{
		{"checkmate", "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", position.Checkmate},
		{"stalemate", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", position.Stalemate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Search(context.Background(), position.MustParse(tt.fen), DefaultConfig())
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if res.Move != position.NoMove || res.Status != tt.want {
				t.Fatalf("got move %v status %v, want no move and %v", res.Move, res.Status, tt.want)
			}
			m, ok, err := NextMove(context.Background(), position.MustParse(tt.fen), DefaultConfig())
			if err != nil || ok || m != position.NoMove {
				t.Fatalf("NextMove = %v, %v, %v", m, ok, err)
			}
		})
	}
}

func TestSearchSingleReply(t *testing.T) {
	res, err := Search(context.Background(), position.MustParse("k7/8/8/8/8/8/1q6/K7 w - - 0 1"), depthConfig(6))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Move.String() != "a1b2" || res.Depth != 1 {
		t.Fatalf("got %v at depth %d, want a1b2 at depth 1", res.Move, res.Depth)
	}
}

func TestSearchIsDeterministic(t *testing.T) {
	fen := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	ignore := cmpopts.IgnoreFields(Result{}, "Elapsed")
	for _, workers := range []int{1, 2, 3} {
		cfg := depthConfig(4)
		cfg.Workers = workers
		first, err := Search(context.Background(), position.MustParse(fen), cfg)
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		second, err := Search(context.Background(), position.MustParse(fen), cfg)
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		if diff := cmp.Diff(first, second, ignore); diff != "" {
			t.Fatalf("workers=%d: repeated search differs (-first +second):\n%s", workers, diff)
		}
		if first.Depth != 4 {
			t.Errorf("workers=%d: completed depth %d, want 4", workers, first.Depth)
		}
	}
}

func TestParallelSearchFindsMate(t *testing.T) {
	cfg := depthConfig(3)
	cfg.Workers = 4
	res, err := Search(context.Background(), position.MustParse("7k/6pp/6Q1/8/8/2B5/8/6K1 w - - 0 1"), cfg)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Move.String() != "g6g7" || res.Score != MateScore-1 {
		t.Fatalf("got %v score %d, want g6g7 with a mate score", res.Move, res.Score)
	}
}

func TestSearchReportsIterations(t *testing.T) {
	var depths []int
	cfg := depthConfig(4)
	cfg.OnIteration = func(it Iteration) {
		depths = append(depths, it.Depth)
		if len(it.PV) == 0 {
			t.Errorf("depth %d: empty PV", it.Depth)
		}
	}
	res, err := Search(context.Background(), position.Start(), cfg)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if diff := cmp.Diff([]int{1, 2, 3, 4}, depths); diff != "" {
		t.Fatalf("iterations (-want +got):\n%s", diff)
	}
	if res.Nodes == 0 {
		t.Errorf("no nodes counted")
	}
}

func TestSearchInvalidConfig(t *testing.T) {
	for _, cfg := range []Config{
		{},
		{Depth: -1},
		{Depth: 3, TimeLimit: -time.Second},
		{Depth: 3, Workers: -2},
	} {
		if _, err := Search(context.Background(), position.Start(), cfg); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%+v: got %v, want ErrInvalidConfig", cfg, err)
		}
	}
}

func TestSearchStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pos := position.Start()
	for _, workers := range []int{1, 3} {
		cfg := depthConfig(30)
		cfg.Workers = workers
		res, err := Search(ctx, pos, cfg)
		if err != nil {
			t.Fatalf("workers=%d: Search: %v", workers, err)
		}
		if !res.BudgetExceeded {
			t.Errorf("workers=%d: cancelled search should report an exceeded budget", workers)
		}
		if !pos.IsLegal(res.Move) {
			t.Fatalf("workers=%d: fallback move %v is not legal", workers, res.Move)
		}
	}
}

func TestSearchHonoursTimeLimit(t *testing.T) {
	pos := position.MustParse("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	for _, workers := range []int{1, 2} {
		cfg := Config{TimeLimit: 100 * time.Millisecond, Workers: workers, TTSizeMB: 4}
		start := time.Now()
		res, err := Search(context.Background(), pos, cfg)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if elapsed := time.Since(start); elapsed > 2*time.Second {
			t.Errorf("workers=%d: search took %v", workers, elapsed)
		}
		if !res.BudgetExceeded {
			t.Errorf("workers=%d: unbounded depth should end on the budget", workers)
		}
		if !pos.IsLegal(res.Move) {
			t.Errorf("workers=%d: move %v is not legal", workers, res.Move)
		}
	}
}

func TestSearchAvoidsRepetitionWhenWinning(t *testing.T) {
	// White is a queen up; the history already holds the position after
	// Qc1-c2 twice, so playing it again would throw the win away.
	pos := position.MustParse("k7/8/8/8/8/8/8/1KQ5 w - - 10 30")
	m, err := pos.ResolveMove("c1c2")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	repeat := pos.Apply(m)
	history := []uint64{repeat.Hash(), pos.Hash(), repeat.Hash(), pos.Hash()}
	res, err := SearchWithHistory(context.Background(), pos, history, depthConfig(3))
	if err != nil {
		t.Fatalf("SearchWithHistory: %v", err)
	}
	if res.Move == m {
		t.Fatalf("search walked into a repetition")
	}
	if res.Score <= 0 {
		t.Fatalf("score %d, want a winning score", res.Score)
	}
}

func TestMaterialOnlyWeights(t *testing.T) {
	cfg := depthConfig(2)
	cfg.Weights = MaterialWeights()
	res, err := Search(context.Background(), position.MustParse("k7/8/8/3q4/8/8/8/K2R4 w - - 0 1"), cfg)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Move.String() != "d1d5" {
		t.Fatalf("got %v, want d1d5", res.Move)
	}
}
