package position

import "strings"

// Move packs a move into 16 bits:
//
//	bits 0-5   from square
//	bits 6-11  to square
//	bits 12-14 promotion PieceType (NoPieceType if none)
//
// Capture, en passant and castling are properties of the move in a given
// position and are queried through Position.
type Move uint16

// NoMove is the zero Move; it is never legal.
const NoMove Move = 0

// NewMove builds a move. promo is NoPieceType for non-promotions.
func NewMove(from, to Square, promo PieceType) Move {
	return Move(uint16(from) | uint16(to)<<6 | uint16(promo)<<12)
}

func (m Move) From() Square { return Square(m & 0x3f) }

func (m Move) To() Square { return Square(m >> 6 & 0x3f) }

// Promotion returns the piece type a pawn promotes to, or NoPieceType.
func (m Move) Promotion() PieceType { return PieceType(m >> 12 & 7) }

// String returns the move in coordinate notation, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if promo := m.Promotion(); promo != NoPieceType {
		s += string(promoLetter(promo))
	}
	return s
}

func promoLetter(pt PieceType) byte {
	switch pt {
	case Knight:
		return 'n'
	case Bishop:
		return 'b'
	case Rook:
		return 'r'
	}
	return 'q'
}

// ParseMove reads coordinate notation: two squares plus an optional
// promotion letter (q, r, b or n, either case).
func ParseMove(text string) (Move, error) {
	s := strings.TrimSpace(text)
	if len(s) != 4 && len(s) != 5 {
		return NoMove, malformedMove(text, "expected two squares and an optional promotion letter")
	}
	from, ok := ParseSquare(s[0:2])
	if !ok {
		return NoMove, malformedMove(text, "invalid origin square")
	}
	to, ok := ParseSquare(s[2:4])
	if !ok {
		return NoMove, malformedMove(text, "invalid destination square")
	}
	promo := NoPieceType
	if len(s) == 5 {
		switch s[4] {
		case 'q', 'Q':
			promo = Queen
		case 'r', 'R':
			promo = Rook
		case 'b', 'B':
			promo = Bishop
		case 'n', 'N':
			promo = Knight
		default:
			return NoMove, malformedMove(text, "invalid promotion letter")
		}
	}
	if from == to {
		return NoMove, malformedMove(text, "origin and destination are the same square")
	}
	return NewMove(from, to, promo), nil
}

// ResolveMove parses text and checks that the promotion letter matches the
// moving piece: a pawn reaching the last rank needs one, any other move must
// not carry one. An empty origin square is left to the legality check.
func (p Position) ResolveMove(text string) (Move, error) {
	m, err := ParseMove(text)
	if err != nil {
		return NoMove, err
	}
	pc := p.pieces[m.From()]
	promoting := pc.Type() == Pawn && pc.Color() == p.sideToMove &&
		(m.To().Rank() == 7 || m.To().Rank() == 0)
	switch {
	case promoting && m.Promotion() == NoPieceType:
		return NoMove, malformedMove(text, "promotion piece required")
	case pc != NoPiece && pc.Type() != Pawn && m.Promotion() != NoPieceType:
		return NoMove, malformedMove(text, "promotion letter on a non-pawn move")
	}
	return m, nil
}

// MovedPiece returns the piece standing on the move's origin square.
func (p *Position) MovedPiece(m Move) Piece { return p.pieces[m.From()] }

// CapturedPiece returns the piece the move removes, including the pawn
// taken en passant.
func (p *Position) CapturedPiece(m Move) Piece {
	if p.IsEnPassant(m) {
		return NewPiece(p.sideToMove.Other(), Pawn)
	}
	return p.pieces[m.To()]
}

// IsCapture reports whether the move removes an enemy piece.
func (p *Position) IsCapture(m Move) bool {
	return p.pieces[m.To()] != NoPiece || p.IsEnPassant(m)
}

// IsEnPassant reports whether the move is a pawn capturing en passant.
func (p *Position) IsEnPassant(m Move) bool {
	return p.enPassant != NoSquare && m.To() == p.enPassant && p.pieces[m.From()].Type() == Pawn &&
		m.From().File() != m.To().File()
}

// IsCastle reports whether the move is a king moving two squares from its
// home square.
func (p *Position) IsCastle(m Move) bool {
	_, ok := p.CastleWing(m)
	return ok
}

// CastleWing returns the wing of a castling move.
func (p *Position) CastleWing(m Move) (Wing, bool) {
	pc := p.pieces[m.From()]
	if pc.Type() != King || pc.Color() != p.sideToMove {
		return KingSide, false
	}
	home := E1
	if p.sideToMove == Black {
		home = E8
	}
	switch {
	case m.From() != home:
		return KingSide, false
	case m.To() == home+2:
		return KingSide, true
	case m.To() == home-2:
		return QueenSide, true
	}
	return KingSide, false
}

// IsTactical reports whether the move is a capture or a promotion.
func (p *Position) IsTactical(m Move) bool {
	return m.Promotion() != NoPieceType || p.IsCapture(m)
}
