package engine

import (
	"context"
	"time"

	"chess-advisor/position"
)

const pollInterval = 1024

// budget decides when a running search has to stop. It is polled from the
// search loop, so cancellation is cooperative.
type budget struct {
	ctx      context.Context
	deadline time.Time
	stopped  bool
}

func newBudget(ctx context.Context, limit time.Duration, start time.Time) *budget {
	b := &budget{ctx: ctx}
	if limit > 0 {
		b.deadline = start.Add(limit)
	}
	if d, ok := ctx.Deadline(); ok && (b.deadline.IsZero() || d.Before(b.deadline)) {
		b.deadline = d
	}
	return b
}

// poll checks the clock and the context every pollInterval nodes and
// latches the stop flag once either runs out.
func (b *budget) poll(nodes uint64) bool {
	if b.stopped {
		return true
	}
	if nodes%pollInterval != 0 {
		return false
	}
	return b.check()
}

func (b *budget) check() bool {
	if b.stopped {
		return true
	}
	if b.ctx.Err() != nil || (!b.deadline.IsZero() && !time.Now().Before(b.deadline)) {
		b.stopped = true
	}
	return b.stopped
}

// Clock allocation knobs.
const (
	moveOverhead  = 30 * time.Millisecond
	minMoveTime   = 5 * time.Millisecond
	maxTimeFrac   = 0.7
	panicTime     = time.Second
	panicIncFrac  = 0.9
	noIncDivision = 40
)

// MoveTime splits a game clock into a budget for the next move. The number
// of moves left is estimated from the game phase: between 20 in bare
// endings and 45 with all pieces on the board.
func MoveTime(remaining, increment time.Duration, pos *position.Position) time.Duration {
	if remaining <= 0 {
		return minMoveTime
	}
	movesLeft := estimateMovesRemaining(piecePhase(pos))

	var moveTime time.Duration
	switch {
	case increment > 0 && remaining < panicTime:
		moveTime = time.Duration(float64(increment) * panicIncFrac)
	case increment > 0:
		moveTime = remaining/time.Duration(movesLeft) + increment
	default:
		moveTime = remaining / noIncDivision
	}

	moveTime = min(moveTime, time.Duration(float64(remaining)*maxTimeFrac), remaining-moveOverhead)
	return max(moveTime, minMoveTime)
}

func estimateMovesRemaining(phase int) int {
	return min(phase, TotalPhase)*25/TotalPhase + 20
}
