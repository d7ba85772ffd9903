package position

// Color is the side owning a piece or having the move.
type Color uint8

const (
	White Color = 0
	Black Color = 1
)

// Other returns the opposing side.
func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// PieceType is a colorless piece kind used for table lookups.
type PieceType uint8

const (
	NoPieceType PieceType = 0
	Pawn        PieceType = 1
	Knight      PieceType = 2
	Bishop      PieceType = 3
	Rook        PieceType = 4
	Queen       PieceType = 5
	King        PieceType = 6
)

func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	}
	return "none"
}

// Piece is a colored piece. Black pieces are encoded as (type | 8) so that
// piece&7 yields the type and piece&8 marks black.
type Piece uint8

const (
	NoPiece     Piece = 0
	WhitePawn   Piece = 1
	WhiteKnight Piece = 2
	WhiteBishop Piece = 3
	WhiteRook   Piece = 4
	WhiteQueen  Piece = 5
	WhiteKing   Piece = 6
	BlackPawn   Piece = 1 | 8
	BlackKnight Piece = 2 | 8
	BlackBishop Piece = 3 | 8
	BlackRook   Piece = 4 | 8
	BlackQueen  Piece = 5 | 8
	BlackKing   Piece = 6 | 8
)

// NewPiece combines a side and a type. NoPieceType yields NoPiece.
func NewPiece(c Color, pt PieceType) Piece {
	if pt == NoPieceType {
		return NoPiece
	}
	return Piece(pt) | Piece(c)<<3
}

// Type returns the colorless type of the piece.
func (p Piece) Type() PieceType { return PieceType(p & 7) }

// Color returns the owner of the piece. NoPiece reports White.
func (p Piece) Color() Color { return Color(p >> 3 & 1) }

const pieceLetters = " PNBRQK  pnbrqk"

// Char returns the FEN letter of the piece.
func (p Piece) Char() byte {
	if p == NoPiece || int(p) >= len(pieceLetters) {
		return '.'
	}
	return pieceLetters[p]
}

func pieceFromChar(ch byte) Piece {
	switch ch {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	}
	return NoPiece
}

// CastlingRights is a bit set of the four castling permissions.
type CastlingRights uint8

const (
	CastleWhiteKing CastlingRights = 1 << iota
	CastleWhiteQueen
	CastleBlackKing
	CastleBlackQueen

	NoCastling  CastlingRights = 0
	AllCastling                = CastleWhiteKing | CastleWhiteQueen | CastleBlackKing | CastleBlackQueen
)

func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var b []byte
	if cr&CastleWhiteKing != 0 {
		b = append(b, 'K')
	}
	if cr&CastleWhiteQueen != 0 {
		b = append(b, 'Q')
	}
	if cr&CastleBlackKing != 0 {
		b = append(b, 'k')
	}
	if cr&CastleBlackQueen != 0 {
		b = append(b, 'q')
	}
	return string(b)
}

// Wing selects the king side or queen side for castling.
type Wing uint8

const (
	KingSide Wing = iota
	QueenSide
)

func (w Wing) String() string {
	if w == KingSide {
		return "king side"
	}
	return "queen side"
}

// right returns the castling permission for the side and wing.
func (w Wing) right(c Color) CastlingRights {
	switch {
	case c == White && w == KingSide:
		return CastleWhiteKing
	case c == White:
		return CastleWhiteQueen
	case w == KingSide:
		return CastleBlackKing
	}
	return CastleBlackQueen
}

// Square is a board index, a1 = 0 through h8 = 63.
type Square int8

const NoSquare Square = -1

// Named squares used by castling and tests.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
)

const (
	A8 Square = 56 + iota
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

// SquareAt returns the square on file (0..7) and rank (0..7).
func SquareAt(file, rank int) Square { return Square(rank*8 + file) }

// File returns 0 for the a-file through 7 for the h-file.
func (sq Square) File() int { return int(sq) & 7 }

// Rank returns 0 for the first rank through 7 for the eighth.
func (sq Square) Rank() int { return int(sq) >> 3 }

// Valid reports whether sq is on the board.
func (sq Square) Valid() bool { return sq >= 0 && sq < 64 }

func (sq Square) String() string {
	if !sq.Valid() {
		return "-"
	}
	return string([]byte{byte('a' + sq.File()), byte('1' + sq.Rank())})
}

// ParseSquare converts algebraic text such as "e4" to a Square.
func ParseSquare(s string) (Square, bool) {
	if len(s) != 2 {
		return NoSquare, false
	}
	f, r := s[0], s[1]
	if f >= 'A' && f <= 'H' {
		f += 'a' - 'A'
	}
	if f < 'a' || f > 'h' || r < '1' || r > '8' {
		return NoSquare, false
	}
	return SquareAt(int(f-'a'), int(r-'1')), true
}

func (sq Square) bit() uint64 { return uint64(1) << uint(sq) }
