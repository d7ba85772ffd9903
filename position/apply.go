package position

// Apply returns the position after m. The receiver is not modified. Apply
// does not check legality; use Play or IsLegal for untrusted moves.
func (p Position) Apply(m Move) Position {
	p.apply(m)
	return p
}

// Play applies m if it is legal and returns ErrIllegalMove otherwise.
func (p Position) Play(m Move) (Position, error) {
	if !p.IsLegal(m) {
		return p, &MoveError{Text: m.String(), Err: ErrIllegalMove}
	}
	p.apply(m)
	return p, nil
}

// ApplyNull passes the turn without moving. Used by null-move pruning; the
// result is only meaningful when the side to move is not in check.
func (p Position) ApplyNull() Position {
	if p.enPassant != NoSquare {
		p.hash ^= zobristEnPassant[p.enPassant.File()]
		p.enPassant = NoSquare
	}
	p.halfmoveClock++
	if p.sideToMove == Black {
		p.fullmoveNumber++
	}
	p.sideToMove = p.sideToMove.Other()
	p.hash ^= zobristSide
	return p
}

func (p *Position) apply(m Move) {
	from, to := m.From(), m.To()
	us := p.sideToMove
	moved := p.pieces[from]

	if p.enPassant != NoSquare {
		p.hash ^= zobristEnPassant[p.enPassant.File()]
	}
	ep := p.enPassant
	p.enPassant = NoSquare
	p.hash ^= zobristCastle[p.castling]
	p.halfmoveClock++

	switch moved.Type() {
	case Pawn:
		p.halfmoveClock = 0
		if to == ep && from.File() != to.File() {
			if us == White {
				p.removePiece(to - 8)
			} else {
				p.removePiece(to + 8)
			}
		}
	case King:
		if d := int(to) - int(from); d == 2 || d == -2 {
			w := KingSide
			if d < 0 {
				w = QueenSide
			}
			path := &castlePaths[us][w]
			p.addPiece(path.rookTo, p.removePiece(path.rookFrom))
		}
	}

	if p.removePiece(to) != NoPiece {
		p.halfmoveClock = 0
	}
	p.removePiece(from)
	placed := moved
	if promo := m.Promotion(); promo != NoPieceType {
		placed = NewPiece(us, promo)
	}
	p.addPiece(to, placed)

	if moved.Type() == Pawn && (int(to)-int(from) == 16 || int(from)-int(to) == 16) {
		p.enPassant = Square((int(from) + int(to)) / 2)
		p.hash ^= zobristEnPassant[p.enPassant.File()]
	}

	p.castling &^= castleMask[from] | castleMask[to]
	p.hash ^= zobristCastle[p.castling]

	if us == Black {
		p.fullmoveNumber++
	}
	p.sideToMove = us.Other()
	p.hash ^= zobristSide
}
