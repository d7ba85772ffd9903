package position

import (
	"math/bits"
	"strconv"
	"strings"
)

// StartFEN is the FEN string of the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Parse reads a six-field FEN string. Any violation of the position
// invariants yields a *PositionError wrapping ErrMalformedPosition.
func Parse(fen string) (Position, error) {
	var p Position
	fields := strings.Fields(fen)
	if len(fields) != 6 {
		return Position{}, positionErr(fen, "fields", "expected 6 fields, got %d", len(fields))
	}
	if err := p.parsePlacement(fen, fields[0]); err != nil {
		return Position{}, err
	}

	switch fields[1] {
	case "w":
		p.sideToMove = White
	case "b":
		p.sideToMove = Black
		p.hash ^= zobristSide
	default:
		return Position{}, positionErr(fen, "side to move", "expected w or b, got %q", fields[1])
	}

	if err := p.parseCastling(fen, fields[2]); err != nil {
		return Position{}, err
	}
	p.hash ^= zobristCastle[p.castling]

	if err := p.parseEnPassant(fen, fields[3]); err != nil {
		return Position{}, err
	}
	if p.enPassant != NoSquare {
		p.hash ^= zobristEnPassant[p.enPassant.File()]
	}

	half, err := strconv.Atoi(fields[4])
	if err != nil || half < 0 {
		return Position{}, positionErr(fen, "halfmove clock", "expected a non-negative integer, got %q", fields[4])
	}
	p.halfmoveClock = half

	full, err := strconv.Atoi(fields[5])
	if err != nil || full < 1 {
		return Position{}, positionErr(fen, "fullmove number", "expected a positive integer, got %q", fields[5])
	}
	p.fullmoveNumber = full

	them := p.sideToMove.Other()
	if p.isAttacked(p.KingSquare(them), p.sideToMove, p.occupied()) {
		return Position{}, positionErr(fen, "placement", "%s king is in check with %s to move", them, p.sideToMove)
	}
	return p, nil
}

func (p *Position) parsePlacement(fen, field string) error {
	p.enPassant = NoSquare
	ranks := strings.Split(field, "/")
	if len(ranks) != 8 {
		return positionErr(fen, "placement", "expected 8 ranks, got %d", len(ranks))
	}
	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(row); j++ {
			ch := row[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				if file > 8 {
					return positionErr(fen, "placement", "rank %d has more than 8 files", rank+1)
				}
				continue
			}
			pc := pieceFromChar(ch)
			if pc == NoPiece {
				return positionErr(fen, "placement", "invalid character %q", ch)
			}
			if file >= 8 {
				return positionErr(fen, "placement", "rank %d has more than 8 files", rank+1)
			}
			if pc.Type() == Pawn && (rank == 0 || rank == 7) {
				return positionErr(fen, "placement", "pawn on rank %d", rank+1)
			}
			p.addPiece(SquareAt(file, rank), pc)
			file++
		}
		if file != 8 {
			return positionErr(fen, "placement", "rank %d has %d files", rank+1, file)
		}
	}
	for _, c := range []Color{White, Black} {
		if n := p.Count(c, King); n != 1 {
			return positionErr(fen, "placement", "%s has %d kings", c, n)
		}
		if n := bits.OnesCount64(p.occupancy[c]); n > 16 {
			return positionErr(fen, "placement", "%s has %d pieces", c, n)
		}
	}
	return nil
}

func (p *Position) parseCastling(fen, field string) error {
	if field == "-" {
		return nil
	}
	for i := 0; i < len(field); i++ {
		var right CastlingRights
		var king, rook Piece
		var kingSq, rookSq Square
		switch field[i] {
		case 'K':
			right, king, rook, kingSq, rookSq = CastleWhiteKing, WhiteKing, WhiteRook, E1, H1
		case 'Q':
			right, king, rook, kingSq, rookSq = CastleWhiteQueen, WhiteKing, WhiteRook, E1, A1
		case 'k':
			right, king, rook, kingSq, rookSq = CastleBlackKing, BlackKing, BlackRook, E8, H8
		case 'q':
			right, king, rook, kingSq, rookSq = CastleBlackQueen, BlackKing, BlackRook, E8, A8
		default:
			return positionErr(fen, "castling", "invalid character %q", field[i])
		}
		if p.castling&right != 0 {
			return positionErr(fen, "castling", "duplicate right %q", field[i])
		}
		if p.pieces[kingSq] != king || p.pieces[rookSq] != rook {
			return positionErr(fen, "castling", "right %q without king on %s and rook on %s", field[i], kingSq, rookSq)
		}
		p.castling |= right
	}
	return nil
}

func (p *Position) parseEnPassant(fen, field string) error {
	if field == "-" {
		return nil
	}
	sq, ok := ParseSquare(field)
	if !ok || field[0] < 'a' {
		return positionErr(fen, "en passant", "invalid square %q", field)
	}
	// the pawn that just double-advanced stands in front of the target
	wantRank, pawnSq, originSq, pawn := 5, sq-8, sq+8, BlackPawn
	if p.sideToMove == Black {
		wantRank, pawnSq, originSq, pawn = 2, sq+8, sq-8, WhitePawn
	}
	if sq.Rank() != wantRank {
		return positionErr(fen, "en passant", "target %s is not on rank %d", sq, wantRank+1)
	}
	if p.pieces[pawnSq] != pawn || p.pieces[sq] != NoPiece || p.pieces[originSq] != NoPiece {
		return positionErr(fen, "en passant", "target %s does not follow a double pawn advance", sq)
	}
	p.enPassant = sq
	return nil
}

// FEN serializes the position. Parse(p.FEN()) reproduces p.
func (p Position) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pc := p.pieces[SquareAt(file, rank)]
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(pc.Char())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	if p.sideToMove == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}
	sb.WriteString(p.castling.String())
	sb.WriteByte(' ')
	sb.WriteString(p.enPassant.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.halfmoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.fullmoveNumber))
	return sb.String()
}
