package engine

import "chess-advisor/position"

type scoredMove struct {
	move     position.Move
	score    int
	tactical bool
}

// Most Valuable Victim - Least Valuable Aggressor, indexed [victim][attacker].
var mvvLva = [7][7]int{
	{0, 0, 0, 0, 0, 0, 0},
	{0, 14, 13, 12, 11, 10, 0}, // victim pawn
	{0, 24, 23, 22, 21, 20, 0}, // victim knight
	{0, 34, 33, 32, 31, 30, 0}, // victim bishop
	{0, 44, 43, 42, 41, 40, 0}, // victim rook
	{0, 54, 53, 52, 51, 50, 0}, // victim queen
	{0, 0, 0, 0, 0, 0, 0},      // victim king
}

// Ordering offsets. Every tactical band sits above every quiet band, and
// history scores stay below historyMax.
const (
	ttMoveOffset    = 1_000_000
	promotionOffset = 900_000
	captureOffset   = 800_000
	checkOffset     = 750_000
	killerOffset    = 700_000
	counterOffset   = 650_000
)

// scoreMoves assigns ordering keys for a full-width node.
func (s *searcher) scoreMoves(pos *position.Position, moves []position.Move, ttMove, prev position.Move, ply int) []scoredMove {
	us := pos.SideToMove()
	counter := s.history.counterFor(us, prev)
	out := make([]scoredMove, len(moves))
	for i, m := range moves {
		sm := scoredMove{move: m, tactical: pos.IsTactical(m)}
		switch {
		case m == ttMove:
			sm.score = ttMoveOffset
		case m.Promotion() != position.NoPieceType:
			sm.score = promotionOffset + pieceValue(m.Promotion())
		case sm.tactical:
			sm.score = captureOffset + mvvLva[pos.CapturedPiece(m).Type()][pos.MovedPiece(m).Type()]
		case pos.GivesCheck(m):
			sm.score = checkOffset
		case s.killers.rank(m, ply) > 0:
			sm.score = killerOffset + s.killers.rank(m, ply)
		case m == counter:
			sm.score = counterOffset
		default:
			sm.score = s.history.score[us][m.From()][m.To()]
		}
		out[i] = sm
	}
	return out
}

// scoreTactical orders quiescence moves: promotions, then MVV-LVA.
func scoreTactical(pos *position.Position, moves []position.Move) []scoredMove {
	out := make([]scoredMove, len(moves))
	for i, m := range moves {
		sm := scoredMove{move: m, tactical: true}
		if promo := m.Promotion(); promo != position.NoPieceType {
			sm.score = promotionOffset + pieceValue(promo)
		} else {
			sm.score = captureOffset + mvvLva[pos.CapturedPiece(m).Type()][pos.MovedPiece(m).Type()]
		}
		out[i] = sm
	}
	return out
}

// orderNext moves the best remaining entry to index i, shifting the ones it
// jumps over. Ties keep generation order.
func orderNext(moves []scoredMove, i int) {
	best := i
	for j := i + 1; j < len(moves); j++ {
		if moves[j].score > moves[best].score {
			best = j
		}
	}
	if best != i {
		m := moves[best]
		copy(moves[i+1:best+1], moves[i:best])
		moves[i] = m
	}
}
