package position

import "math/rand"

// Zobrist keys for pieces, castling, en passant and side to move.
var zobristPiece [15][64]uint64 // indexed by piece code
var zobristCastle [16]uint64    // one key per castling-rights set
var zobristEnPassant [8]uint64  // one key per en-passant file
var zobristSide uint64          // toggled when black is to move

func init() {
	initZobrist()
}

// initZobrist draws every key from a fixed seed so hashes are stable
// across runs and processes.
func initZobrist() {
	rnd := rand.New(rand.NewSource(0xC0DE))
	for pc := 0; pc < 15; pc++ {
		for sq := 0; sq < 64; sq++ {
			zobristPiece[pc][sq] = rnd.Uint64()
		}
	}
	for cr := 0; cr < 16; cr++ {
		zobristCastle[cr] = rnd.Uint64()
	}
	for f := 0; f < 8; f++ {
		zobristEnPassant[f] = rnd.Uint64()
	}
	zobristSide = rnd.Uint64()
}

// computeHash rebuilds the key from scratch. The incremental key kept by
// Apply must always agree with it.
func (p *Position) computeHash() uint64 {
	var key uint64
	for sq := Square(0); sq < 64; sq++ {
		if pc := p.pieces[sq]; pc != NoPiece {
			key ^= zobristPiece[pc][sq]
		}
	}
	if p.sideToMove == Black {
		key ^= zobristSide
	}
	key ^= zobristCastle[p.castling]
	if p.enPassant != NoSquare {
		key ^= zobristEnPassant[p.enPassant.File()]
	}
	return key
}
