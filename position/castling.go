package position

type castlePath struct {
	kingFrom, kingTo Square
	rookFrom, rookTo Square
	between          uint64 // squares that must be empty
	transit          Square // square the king crosses
}

var castlePaths = [2][2]castlePath{
	White: {
		KingSide:  {kingFrom: E1, kingTo: G1, rookFrom: H1, rookTo: F1, between: F1.bit() | G1.bit(), transit: F1},
		QueenSide: {kingFrom: E1, kingTo: C1, rookFrom: A1, rookTo: D1, between: B1.bit() | C1.bit() | D1.bit(), transit: D1},
	},
	Black: {
		KingSide:  {kingFrom: E8, kingTo: G8, rookFrom: H8, rookTo: F8, between: F8.bit() | G8.bit(), transit: F8},
		QueenSide: {kingFrom: E8, kingTo: C8, rookFrom: A8, rookTo: D8, between: B8.bit() | C8.bit() | D8.bit(), transit: D8},
	},
}

// castleMask[sq] lists the rights lost when a piece moves from or to sq.
var castleMask = func() (m [64]CastlingRights) {
	m[E1] = CastleWhiteKing | CastleWhiteQueen
	m[H1] = CastleWhiteKing
	m[A1] = CastleWhiteQueen
	m[E8] = CastleBlackKing | CastleBlackQueen
	m[H8] = CastleBlackKing
	m[A8] = CastleBlackQueen
	return m
}()

// CheckCastle reports why the side to move may not castle on wing w, or nil
// if it may. Conditions are checked in order: right held, rook at home,
// path empty, king not in check, transit square safe, destination safe.
func (p Position) CheckCastle(w Wing) error {
	return p.checkCastle(w)
}

func (p *Position) checkCastle(w Wing) error {
	us := p.sideToMove
	path := &castlePaths[us][w]
	if p.castling&w.right(us) == 0 ||
		p.pieces[path.kingFrom] != NewPiece(us, King) ||
		p.pieces[path.rookFrom] != NewPiece(us, Rook) {
		return ErrNoCastlingRight
	}
	occ := p.occupied()
	if occ&path.between != 0 {
		return ErrCastlingPathBlocked
	}
	them := us.Other()
	if p.isAttacked(path.kingFrom, them, occ) {
		return ErrCastlingInCheck
	}
	if p.isAttacked(path.transit, them, occ) {
		return ErrCastlingThroughCheck
	}
	if p.isAttacked(path.kingTo, them, occ) {
		return ErrCastlingIntoCheck
	}
	return nil
}
