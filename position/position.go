// Package position models a chess position: FEN parsing and serialization,
// legal move generation, move application and the terminal-state queries.
//
// Position is a value type. Apply returns a new Position and leaves the
// receiver untouched, so positions can be shared freely between goroutines.
package position

import (
	"math/bits"
	"strings"
)

// Position is a complete chess position. The zero value is not a valid
// position; obtain one from Parse or Start.
type Position struct {
	pieces    [64]Piece
	byType    [2][7]uint64 // [color][PieceType], index 0 unused
	occupancy [2]uint64

	sideToMove     Color
	castling       CastlingRights
	enPassant      Square
	halfmoveClock  int
	fullmoveNumber int
	hash           uint64
}

// Start returns the standard initial position.
func Start() Position {
	p, err := Parse(StartFEN)
	if err != nil {
		panic("position: start FEN rejected: " + err.Error())
	}
	return p
}

// MustParse is like Parse but panics on error. Intended for fixtures.
func MustParse(fen string) Position {
	p, err := Parse(fen)
	if err != nil {
		panic(err)
	}
	return p
}

// SideToMove returns the side that has the move.
func (p Position) SideToMove() Color { return p.sideToMove }

// CastlingRights returns the remaining castling permissions.
func (p Position) CastlingRights() CastlingRights { return p.castling }

// EnPassant returns the en-passant target square or NoSquare.
func (p Position) EnPassant() Square { return p.enPassant }

// HalfmoveClock returns the number of plies since the last capture or pawn move.
func (p Position) HalfmoveClock() int { return p.halfmoveClock }

// FullmoveNumber starts at 1 and increments after each black move.
func (p Position) FullmoveNumber() int { return p.fullmoveNumber }

// Hash returns the Zobrist key of the position.
func (p Position) Hash() uint64 { return p.hash }

// PieceAt returns the piece on sq, or NoPiece.
func (p *Position) PieceAt(sq Square) Piece { return p.pieces[sq] }

// Pieces returns the bitboard of the given side's pieces of type pt.
func (p *Position) Pieces(c Color, pt PieceType) uint64 { return p.byType[c][pt] }

// Occupancy returns the bitboard of every piece of side c.
func (p *Position) Occupancy(c Color) uint64 { return p.occupancy[c] }

func (p *Position) occupied() uint64 { return p.occupancy[White] | p.occupancy[Black] }

// Occupied returns the bitboard of every piece on the board.
func (p *Position) Occupied() uint64 { return p.occupied() }

// KingSquare returns the square of side c's king.
func (p *Position) KingSquare(c Color) Square {
	return Square(bits.TrailingZeros64(p.byType[c][King]))
}

// Count returns how many pieces of type pt side c has.
func (p *Position) Count(c Color, pt PieceType) int {
	return bits.OnesCount64(p.byType[c][pt])
}

func (p *Position) addPiece(sq Square, pc Piece) {
	c, pt := pc.Color(), pc.Type()
	b := sq.bit()
	p.pieces[sq] = pc
	p.byType[c][pt] |= b
	p.occupancy[c] |= b
	p.hash ^= zobristPiece[pc][sq]
}

func (p *Position) removePiece(sq Square) Piece {
	pc := p.pieces[sq]
	if pc == NoPiece {
		return NoPiece
	}
	c, pt := pc.Color(), pc.Type()
	b := sq.bit()
	p.pieces[sq] = NoPiece
	p.byType[c][pt] &^= b
	p.occupancy[c] &^= b
	p.hash ^= zobristPiece[pc][sq]
	return pc
}

// String renders the position as FEN.
func (p Position) String() string { return p.FEN() }

// Diagram renders an 8x8 board with rank 8 on top, for debugging output.
func (p Position) Diagram() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteByte(byte('1' + rank))
		sb.WriteByte(' ')
		for file := 0; file < 8; file++ {
			sb.WriteByte(p.pieces[SquareAt(file, rank)].Char())
			if file < 7 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}
