package engine

import (
	"math/bits"

	"chess-advisor/position"
)

// Game phase weights; a full set of pieces is TotalPhase.
const (
	KnightPhase = 1
	BishopPhase = 1
	RookPhase   = 2
	QueenPhase  = 4
	TotalPhase  = 24
)

var (
	// passedMasks[c][sq] covers the squares in front of a pawn on its own
	// and adjacent files that must be free of enemy pawns.
	passedMasks   [2][64]uint64
	adjacentFiles [8]uint64
)

func init() {
	for file := 0; file < 8; file++ {
		if file > 0 {
			adjacentFiles[file] |= position.FileMask(file - 1)
		}
		if file < 7 {
			adjacentFiles[file] |= position.FileMask(file + 1)
		}
	}
	for sq := position.Square(0); sq < 64; sq++ {
		span := position.FileMask(sq.File()) | adjacentFiles[sq.File()]
		var whiteFront, blackFront uint64
		for r := sq.Rank() + 1; r < 8; r++ {
			whiteFront |= 0xFF << uint(r*8)
		}
		for r := sq.Rank() - 1; r >= 0; r-- {
			blackFront |= 0xFF << uint(r*8)
		}
		passedMasks[position.White][sq] = span & whiteFront
		passedMasks[position.Black][sq] = span & blackFront
	}
}

// Evaluate scores pos statically from the side to move's point of view.
// A nil w uses the default weights.
func Evaluate(pos *position.Position, w *Weights) int {
	if w == nil {
		w = &defaultWeights
	}
	score := evaluateWhite(pos, w)
	if pos.SideToMove() == position.Black {
		score = -score
	}
	return clamp(score, -MateThreshold+1, MateThreshold-1)
}

func evaluateWhite(pos *position.Position, w *Weights) int {
	var mg, eg int
	phase := piecePhase(pos)

	for c := position.White; c <= position.Black; c++ {
		sign := 1
		if c == position.Black {
			sign = -1
		}
		for pt := position.Pawn; pt <= position.Queen; pt++ {
			n := pos.Count(c, pt)
			mg += sign * n * w.PieceValueMG[pt]
			eg += sign * n * w.PieceValueEG[pt]
		}
	}
	if w.MaterialOnly {
		return taper(mg, eg, phase)
	}

	for c := position.White; c <= position.Black; c++ {
		sign := 1
		if c == position.Black {
			sign = -1
		}
		pm, pe := pieceSquareScore(pos, c, w)
		mm, me := mobilityScore(pos, c, w)
		sm, se := pawnStructureScore(pos, c, w)
		xm, xe := pieceBonuses(pos, c, w)
		mg += sign * (pm + mm + sm + xm)
		eg += sign * (pe + me + se + xe)
	}

	if w.MopUp {
		eg += mopUpBonus(pos, phase)
	}

	tempo := w.Tempo
	if pos.SideToMove() == position.Black {
		tempo = -tempo
	}
	mg += tempo
	eg += tempo

	return taper(mg, eg, phase)
}

func taper(mg, eg, phase int) int {
	phase = min(phase, TotalPhase)
	return (mg*phase + eg*(TotalPhase-phase)) / TotalPhase
}

func piecePhase(pos *position.Position) int {
	phase := 0
	for c := position.White; c <= position.Black; c++ {
		phase += pos.Count(c, position.Knight) * KnightPhase
		phase += pos.Count(c, position.Bishop) * BishopPhase
		phase += pos.Count(c, position.Rook) * RookPhase
		phase += pos.Count(c, position.Queen) * QueenPhase
	}
	return phase
}

// relativeSquare maps sq into the owner's table orientation.
func relativeSquare(c position.Color, sq position.Square) position.Square {
	if c == position.Black {
		return sq ^ 56
	}
	return sq
}

func pieceSquareScore(pos *position.Position, c position.Color, w *Weights) (mg, eg int) {
	for pt := position.Pawn; pt <= position.King; pt++ {
		for bb := pos.Pieces(c, pt); bb != 0; {
			sq := relativeSquare(c, position.PopLSB(&bb))
			mg += w.PSQTMG[pt][sq]
			eg += w.PSQTEG[pt][sq]
		}
	}
	return mg, eg
}

func pawnAttackSpan(pos *position.Position, c position.Color) uint64 {
	var span uint64
	for bb := pos.Pieces(c, position.Pawn); bb != 0; {
		span |= position.PawnAttacks(c, position.PopLSB(&bb))
	}
	return span
}

// mobilityScore counts reachable squares not covered by enemy pawns.
func mobilityScore(pos *position.Position, c position.Color, w *Weights) (mg, eg int) {
	occ := pos.Occupied()
	safe := ^pos.Occupancy(c) &^ pawnAttackSpan(pos, c.Other())
	for pt := position.Knight; pt <= position.Queen; pt++ {
		for bb := pos.Pieces(c, pt); bb != 0; {
			sq := position.PopLSB(&bb)
			var attacks uint64
			switch pt {
			case position.Knight:
				attacks = position.KnightAttacks(sq)
			case position.Bishop:
				attacks = position.BishopAttacks(sq, occ)
			case position.Rook:
				attacks = position.RookAttacks(sq, occ)
			case position.Queen:
				attacks = position.QueenAttacks(sq, occ)
			}
			n := bits.OnesCount64(attacks & safe)
			mg += n * w.MobilityMG[pt]
			eg += n * w.MobilityEG[pt]
		}
	}
	return mg, eg
}

func pawnStructureScore(pos *position.Position, c position.Color, w *Weights) (mg, eg int) {
	own := pos.Pieces(c, position.Pawn)
	enemy := pos.Pieces(c.Other(), position.Pawn)

	for file := 0; file < 8; file++ {
		n := bits.OnesCount64(own & position.FileMask(file))
		if n == 0 {
			continue
		}
		if n > 1 {
			mg -= (n - 1) * w.DoubledPawnMG
			eg -= (n - 1) * w.DoubledPawnEG
		}
		if own&adjacentFiles[file] == 0 {
			mg -= n * w.IsolatedPawnMG
			eg -= n * w.IsolatedPawnEG
		}
	}

	for bb := own; bb != 0; {
		sq := position.PopLSB(&bb)
		if passedMasks[c][sq]&enemy == 0 {
			rel := relativeSquare(c, sq)
			mg += w.PassedPawnMG[rel]
			eg += w.PassedPawnEG[rel]
		}
	}
	return mg, eg
}

func pieceBonuses(pos *position.Position, c position.Color, w *Weights) (mg, eg int) {
	if pos.Count(c, position.Bishop) > 1 && pos.Count(c.Other(), position.Bishop) < 2 {
		mg += w.BishopPairMG
		eg += w.BishopPairEG
	}

	own := pos.Pieces(c, position.Pawn)
	enemy := pos.Pieces(c.Other(), position.Pawn)
	for bb := pos.Pieces(c, position.Rook); bb != 0; {
		file := position.FileMask(position.PopLSB(&bb).File())
		switch {
		case file&(own|enemy) == 0:
			mg += w.RookOpenFileMG
		case file&own == 0:
			mg += w.RookSemiOpenFileMG
		}
	}

	shield := position.KingAttacks(pos.KingSquare(c))
	mg += min(3, bits.OnesCount64(own&shield)) * w.KingPawnShieldMG
	return mg, eg
}

// mopUpBonus pushes the defending king to the edge and brings the attacking
// king closer once one side is left with a bare king and no pawns remain.
func mopUpBonus(pos *position.Position, phase int) int {
	queens := pos.Count(position.White, position.Queen) + pos.Count(position.Black, position.Queen)
	if phase >= 10 && (phase >= 16 || queens > 0) {
		return 0
	}
	if pos.Count(position.White, position.Pawn)+pos.Count(position.Black, position.Pawn) > 0 {
		return 0
	}
	wPieces := nonPawnCount(pos, position.White)
	bPieces := nonPawnCount(pos, position.Black)
	switch {
	case wPieces > 0 && bPieces == 0:
		return kingMopUp(pos, position.White)
	case bPieces > 0 && wPieces == 0:
		return -kingMopUp(pos, position.Black)
	}
	return 0
}

func kingMopUp(pos *position.Position, strong position.Color) int {
	strongKing := pos.KingSquare(strong)
	weakKing := pos.KingSquare(strong.Other())
	hasQueen := pos.Count(strong, position.Queen) > 0
	hasRook := pos.Count(strong, position.Rook) > 0

	closeWeight, edgeWeight := 12, 12
	if hasQueen && !hasRook {
		closeWeight, edgeWeight = 10, 12
	} else if hasRook && !hasQueen {
		closeWeight, edgeWeight = 18, 20
	}

	bonus := (7-kingDist(strongKing, weakKing))*closeWeight + (3-edgeDist(weakKing))*edgeWeight
	return clamp(bonus, 0, 120)
}

func nonPawnCount(pos *position.Position, c position.Color) int {
	n := 0
	for pt := position.Knight; pt <= position.Queen; pt++ {
		n += pos.Count(c, pt)
	}
	return n
}

// hasNonPawnMaterial guards null-move pruning against zugzwang-prone endings.
func hasNonPawnMaterial(pos *position.Position, c position.Color) bool {
	return nonPawnCount(pos, c) > 0
}

func kingDist(a, b position.Square) int {
	return max(abs(a.File()-b.File()), abs(a.Rank()-b.Rank()))
}

func edgeDist(sq position.Square) int {
	file, rank := sq.File(), sq.Rank()
	return min(min(file, 7-file), min(rank, 7-rank))
}
