package position

import "math/bits"

// Status classifies a position as ongoing or terminal.
type Status uint8

const (
	Ongoing Status = iota
	Checkmate
	Stalemate
	FiftyMoveRule
	InsufficientMaterial
	Repetition
)

func (s Status) String() string {
	switch s {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case FiftyMoveRule:
		return "fifty-move rule"
	case InsufficientMaterial:
		return "insufficient material"
	case Repetition:
		return "threefold repetition"
	}
	return "ongoing"
}

// IsTerminal reports whether the game is over.
func (s Status) IsTerminal() bool { return s != Ongoing }

// IsDraw reports whether the status is a drawn result.
func (s Status) IsDraw() bool { return s != Ongoing && s != Checkmate }

// MarshalText renders the status for JSON output.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// InCheck reports whether the side to move is in check.
func (p Position) InCheck() bool {
	return p.inCheck()
}

func (p *Position) inCheck() bool {
	us := p.sideToMove
	return p.isAttacked(p.KingSquare(us), us.Other(), p.occupied())
}

// GivesCheck reports whether m leaves the opponent in check.
func (p Position) GivesCheck(m Move) bool {
	p.apply(m)
	return p.inCheck()
}

// IsCheckmate reports whether the side to move is in check with no legal move.
func (p Position) IsCheckmate() bool {
	return p.inCheck() && !p.HasLegalMoves()
}

// IsStalemate reports whether the side to move is not in check and has no
// legal move.
func (p Position) IsStalemate() bool {
	return !p.inCheck() && !p.HasLegalMoves()
}

// IsDraw reports a draw by the fifty-move rule or insufficient material.
// Stalemate and repetition are queried separately.
func (p Position) IsDraw() bool {
	return p.IsFiftyMoveDraw() || p.IsInsufficientMaterial()
}

// IsFiftyMoveDraw reports whether 100 plies have passed without a capture
// or pawn move.
func (p Position) IsFiftyMoveDraw() bool { return p.halfmoveClock >= 100 }

// IsInsufficientMaterial reports K v K, K+minor v K, and king and bishops
// versus king and bishops with every bishop on one square colour.
func (p Position) IsInsufficientMaterial() bool {
	for c := White; c <= Black; c++ {
		if p.byType[c][Pawn]|p.byType[c][Rook]|p.byType[c][Queen] != 0 {
			return false
		}
	}
	knights := p.byType[White][Knight] | p.byType[Black][Knight]
	bishops := p.byType[White][Bishop] | p.byType[Black][Bishop]
	if bits.OnesCount64(knights|bishops) <= 1 {
		return true
	}
	const darkSquares uint64 = 0xAA55AA55AA55AA55
	return knights == 0 && (bishops&darkSquares == 0 || bishops&^darkSquares == 0)
}

// IsDrawByRepetition reports whether the current position has occurred at
// least twice before in history (Zobrist keys of earlier positions, oldest
// first). A trailing entry equal to the current key is not double counted.
func (p Position) IsDrawByRepetition(history []uint64) bool {
	target := p.hash
	end := len(history)
	if end > 0 && history[end-1] == target {
		end--
	}
	matches := 0
	for i := 0; i < end; i++ {
		if history[i] == target {
			matches++
			if matches >= 2 {
				return true
			}
		}
	}
	return false
}

// Status returns the terminal state of the position. Checkmate and
// stalemate take precedence over the draw rules.
func (p Position) Status() Status {
	if !p.HasLegalMoves() {
		if p.inCheck() {
			return Checkmate
		}
		return Stalemate
	}
	if p.IsFiftyMoveDraw() {
		return FiftyMoveRule
	}
	if p.IsInsufficientMaterial() {
		return InsufficientMaterial
	}
	return Ongoing
}

// StatusWithHistory is Status extended with threefold repetition.
func (p Position) StatusWithHistory(history []uint64) Status {
	if s := p.Status(); s != Ongoing {
		return s
	}
	if p.IsDrawByRepetition(history) {
		return Repetition
	}
	return Ongoing
}
