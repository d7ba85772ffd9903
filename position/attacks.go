package position

import (
	"math/bits"

	"github.com/dylhunn/dragontoothmg"
)

// Precomputed attack masks for the leaping pieces.
var knightAttacks [64]uint64
var kingAttacks [64]uint64

// pawnAttacks[color][sq] is the set of squares a pawn of color on sq attacks.
var pawnAttacks [2][64]uint64

const (
	fileA uint64 = 0x0101010101010101
	fileH        = fileA << 7
	rank1 uint64 = 0xff
	rank8        = rank1 << 56
)

var fileMasks [8]uint64

func init() {
	initAttackTables()
}

func initAttackTables() {
	knightOffsets := [8][2]int{
		{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
		{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
	}
	kingOffsets := [8][2]int{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
	for sq := 0; sq < 64; sq++ {
		file, rank := sq%8, sq/8
		knightAttacks[sq] = offsetMask(file, rank, knightOffsets[:])
		kingAttacks[sq] = offsetMask(file, rank, kingOffsets[:])
		pawnAttacks[White][sq] = offsetMask(file, rank, [][2]int{{1, -1}, {1, 1}})
		pawnAttacks[Black][sq] = offsetMask(file, rank, [][2]int{{-1, -1}, {-1, 1}})
	}
	for f := 0; f < 8; f++ {
		fileMasks[f] = fileA << uint(f)
	}
}

// offsetMask collects the on-board targets of (rank, file) offsets.
func offsetMask(file, rank int, offsets [][2]int) uint64 {
	var mask uint64
	for _, off := range offsets {
		r, f := rank+off[0], file+off[1]
		if r >= 0 && r < 8 && f >= 0 && f < 8 {
			mask |= uint64(1) << uint(r*8+f)
		}
	}
	return mask
}

// KnightAttacks returns the squares a knight on sq attacks.
func KnightAttacks(sq Square) uint64 { return knightAttacks[sq] }

// KingAttacks returns the squares a king on sq attacks.
func KingAttacks(sq Square) uint64 { return kingAttacks[sq] }

// PawnAttacks returns the squares a pawn of color c on sq attacks.
func PawnAttacks(c Color, sq Square) uint64 { return pawnAttacks[c][sq] }

// RookAttacks returns rook targets from sq given the occupancy. The result
// may include squares held by friendly pieces.
func RookAttacks(sq Square, occ uint64) uint64 {
	return dragontoothmg.CalculateRookMoveBitboard(uint8(sq), occ)
}

// BishopAttacks returns bishop targets from sq given the occupancy.
func BishopAttacks(sq Square, occ uint64) uint64 {
	return dragontoothmg.CalculateBishopMoveBitboard(uint8(sq), occ)
}

// QueenAttacks returns queen targets from sq given the occupancy.
func QueenAttacks(sq Square, occ uint64) uint64 {
	return RookAttacks(sq, occ) | BishopAttacks(sq, occ)
}

// FileMask returns the bitboard of a file (0 = a-file).
func FileMask(file int) uint64 { return fileMasks[file] }

// PopLSB removes and returns the lowest set square of bb.
func PopLSB(bb *uint64) Square {
	sq := Square(bits.TrailingZeros64(*bb))
	*bb &= *bb - 1
	return sq
}

// AttackersTo returns every piece of either side attacking sq under the given
// occupancy. Pieces not in occ are ignored.
func (p *Position) AttackersTo(sq Square, occ uint64) uint64 {
	bishops := p.byType[White][Bishop] | p.byType[Black][Bishop] | p.byType[White][Queen] | p.byType[Black][Queen]
	rooks := p.byType[White][Rook] | p.byType[Black][Rook] | p.byType[White][Queen] | p.byType[Black][Queen]
	att := pawnAttacks[Black][sq]&p.byType[White][Pawn] |
		pawnAttacks[White][sq]&p.byType[Black][Pawn] |
		knightAttacks[sq]&(p.byType[White][Knight]|p.byType[Black][Knight]) |
		kingAttacks[sq]&(p.byType[White][King]|p.byType[Black][King]) |
		BishopAttacks(sq, occ)&bishops |
		RookAttacks(sq, occ)&rooks
	return att & occ
}

// isAttacked reports whether side by attacks sq under occupancy occ.
func (p *Position) isAttacked(sq Square, by Color, occ uint64) bool {
	bb := &p.byType[by]
	if pawnAttacks[by.Other()][sq]&bb[Pawn] != 0 {
		return true
	}
	if knightAttacks[sq]&bb[Knight] != 0 || kingAttacks[sq]&bb[King] != 0 {
		return true
	}
	if BishopAttacks(sq, occ)&(bb[Bishop]|bb[Queen]) != 0 {
		return true
	}
	return RookAttacks(sq, occ)&(bb[Rook]|bb[Queen]) != 0
}

// Attacked reports whether any piece of side by attacks sq.
func (p Position) Attacked(sq Square, by Color) bool {
	return p.isAttacked(sq, by, p.occupied())
}
