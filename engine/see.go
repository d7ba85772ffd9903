package engine

import "chess-advisor/position"

// seePieceValue are the exchange values used by SEE and move ordering.
var seePieceValue = [7]int{
	position.Pawn:   100,
	position.Knight: 300,
	position.Bishop: 300,
	position.Rook:   500,
	position.Queen:  900,
	position.King:   5000,
}

func pieceValue(pt position.PieceType) int { return seePieceValue[pt] }

// see returns the static exchange evaluation of a capture from the mover's
// point of view: the material balance after both sides keep recapturing on
// the target square with their least valuable attacker. X-ray attackers are
// picked up as pieces leave the square's lines.
func see(pos *position.Position, m position.Move) int {
	var gain [32]int
	from, to := m.From(), m.To()
	occ := pos.Occupied()

	gain[0] = pieceValue(pos.CapturedPiece(m).Type())
	if pos.IsEnPassant(m) {
		if pos.SideToMove() == position.White {
			occ &^= uint64(1) << uint(to-8)
		} else {
			occ &^= uint64(1) << uint(to+8)
		}
	}

	attacker := pos.MovedPiece(m).Type()
	attackerBB := uint64(1) << uint(from)
	side := pos.SideToMove()
	d := 0
	for {
		d++
		gain[d] = pieceValue(attacker) - gain[d-1]
		if max(-gain[d-1], gain[d]) < 0 {
			break
		}
		occ &^= attackerBB
		side = side.Other()
		attackerBB, attacker = leastValuableAttacker(pos, pos.AttackersTo(to, occ), side)
		if attackerBB == 0 || d == len(gain)-1 {
			break
		}
	}
	for d--; d > 0; d-- {
		gain[d-1] = -max(-gain[d-1], gain[d])
	}
	return gain[0]
}

func leastValuableAttacker(pos *position.Position, attackers uint64, side position.Color) (uint64, position.PieceType) {
	for pt := position.Pawn; pt <= position.King; pt++ {
		if bb := attackers & pos.Pieces(side, pt); bb != 0 {
			return bb & -bb, pt
		}
	}
	return 0, position.NoPieceType
}
