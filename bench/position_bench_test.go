package bench

import (
	"testing"

	"chess-advisor/position"
)

const (
	kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	pos6     = "r4rk1/1pp1qppp/p1np1n2/2b1p3/2B1P3/2NP1N2/PPP1QPPP/R4RK1 w - - 0 10"
)

func benchLegalMoves(b *testing.B, fen string) {
	pos := position.MustParse(fen)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = pos.LegalMoves()
	}
}

func BenchmarkLegalMoves_Initial(b *testing.B)  { benchLegalMoves(b, position.StartFEN) }
func BenchmarkLegalMoves_Kiwipete(b *testing.B) { benchLegalMoves(b, kiwipete) }
func BenchmarkLegalMoves_Pos6(b *testing.B)     { benchLegalMoves(b, pos6) }

func BenchmarkLegalCaptures_EP(b *testing.B) {
	pos := position.MustParse("k7/8/8/3pP3/8/8/8/7K w - d6 0 2")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = pos.LegalCaptures()
	}
}

func BenchmarkApply_AllMoves_Initial(b *testing.B) {
	pos := position.Start()
	moves := pos.LegalMoves()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, m := range moves {
			_ = pos.Apply(m)
		}
	}
}

func benchPerft(b *testing.B, fen string, depth int) {
	pos := position.MustParse(fen)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = pos.Perft(depth)
	}
}

func BenchmarkPerft_Initial_D4(b *testing.B)  { benchPerft(b, position.StartFEN, 4) }
func BenchmarkPerft_Kiwipete_D3(b *testing.B) { benchPerft(b, kiwipete, 3) }
