package position

// Generation filters.
const (
	genAll = iota
	genTactical
)

// PseudoLegalMoves returns every move obeying piece movement rules without
// regard to the mover's king safety, except castling which is only
// generated when CheckCastle passes. Order: origin square ascending, then
// destination ascending, then promotion Q, R, B, N.
func (p Position) PseudoLegalMoves() []Move {
	return p.generate(make([]Move, 0, 64), genAll)
}

// LegalMoves returns the legal moves in PseudoLegalMoves order.
func (p Position) LegalMoves() []Move {
	return p.filterLegal(p.generate(make([]Move, 0, 64), genAll))
}

// LegalCaptures returns the legal captures, en-passant captures and
// promotions in generation order.
func (p Position) LegalCaptures() []Move {
	return p.filterLegal(p.generate(make([]Move, 0, 32), genTactical))
}

// HasLegalMoves reports whether the side to move has any legal move.
func (p Position) HasLegalMoves() bool {
	for _, m := range p.generate(make([]Move, 0, 64), genAll) {
		if p.leavesKingSafe(m) {
			return true
		}
	}
	return false
}

// IsLegal reports whether m is one of LegalMoves.
func (p Position) IsLegal(m Move) bool {
	if m == NoMove {
		return false
	}
	pc := p.pieces[m.From()]
	if pc == NoPiece || pc.Color() != p.sideToMove {
		return false
	}
	for _, cand := range p.generate(make([]Move, 0, 64), genAll) {
		if cand == m {
			return p.leavesKingSafe(m)
		}
	}
	return false
}

func (p *Position) filterLegal(moves []Move) []Move {
	legal := moves[:0]
	for _, m := range moves {
		if p.leavesKingSafe(m) {
			legal = append(legal, m)
		}
	}
	return legal
}

// leavesKingSafe applies m to a copy and checks the mover's king.
func (p *Position) leavesKingSafe(m Move) bool {
	next := *p
	next.apply(m)
	us := p.sideToMove
	return !next.isAttacked(next.KingSquare(us), us.Other(), next.occupied())
}

func (p *Position) generate(dst []Move, filter int) []Move {
	us := p.sideToMove
	own := p.occupancy[us]
	opp := p.occupancy[us.Other()]
	occ := own | opp

	for bb := own; bb != 0; {
		from := PopLSB(&bb)
		var targets uint64
		switch p.pieces[from].Type() {
		case Pawn:
			dst = p.generatePawn(dst, from, filter)
			continue
		case Knight:
			targets = knightAttacks[from]
		case Bishop:
			targets = BishopAttacks(from, occ)
		case Rook:
			targets = RookAttacks(from, occ)
		case Queen:
			targets = QueenAttacks(from, occ)
		case King:
			targets = kingAttacks[from]
			if filter == genAll {
				targets |= p.castleTargets()
			}
		}
		targets &^= own
		if filter == genTactical {
			targets &= opp
		}
		for targets != 0 {
			dst = append(dst, NewMove(from, PopLSB(&targets), NoPieceType))
		}
	}
	return dst
}

func (p *Position) generatePawn(dst []Move, from Square, filter int) []Move {
	us := p.sideToMove
	occ := p.occupied()
	forward, startRank, lastRank := Square(8), 1, 7
	if us == Black {
		forward, startRank, lastRank = -8, 6, 0
	}

	targets := pawnAttacks[us][from] & p.occupancy[us.Other()]
	if p.enPassant != NoSquare && pawnAttacks[us][from]&p.enPassant.bit() != 0 {
		targets |= p.enPassant.bit()
	}
	one := from + forward
	if occ&one.bit() == 0 {
		if filter == genAll || one.Rank() == lastRank {
			targets |= one.bit()
		}
		two := one + forward
		if filter == genAll && from.Rank() == startRank && occ&two.bit() == 0 {
			targets |= two.bit()
		}
	}

	for targets != 0 {
		to := PopLSB(&targets)
		if to.Rank() == lastRank {
			dst = append(dst,
				NewMove(from, to, Queen),
				NewMove(from, to, Rook),
				NewMove(from, to, Bishop),
				NewMove(from, to, Knight))
			continue
		}
		dst = append(dst, NewMove(from, to, NoPieceType))
	}
	return dst
}

// castleTargets returns the king destinations of the castling moves that
// pass CheckCastle.
func (p *Position) castleTargets() uint64 {
	if p.castling == NoCastling {
		return 0
	}
	var targets uint64
	for _, w := range []Wing{KingSide, QueenSide} {
		if p.checkCastle(w) == nil {
			targets |= castlePaths[p.sideToMove][w].kingTo.bit()
		}
	}
	return targets
}
