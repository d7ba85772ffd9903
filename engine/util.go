package engine

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

type number interface {
	constraints.Integer | constraints.Float
}

func abs[T number](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts x to the inclusive range [low, high].
func clamp[T constraints.Ordered](x, low, high T) T {
	if x < low {
		return low
	}
	if x > high {
		return high
	}
	return x
}

// IsMateScore reports whether score encodes a forced mate.
func IsMateScore(score int) bool {
	return abs(score) >= MateThreshold
}

// MateIn converts a mate score to full moves; negative when the side to
// move is getting mated.
func MateIn(score int) int {
	plies := max(MateScore-abs(score), 0)
	n := (plies + 1) / 2
	if score < 0 {
		return -n
	}
	return n
}

// ScoreString formats a score the way UCI "info score" expects it.
func ScoreString(score int) string {
	if IsMateScore(score) {
		return fmt.Sprintf("mate %d", MateIn(score))
	}
	return fmt.Sprintf("cp %d", score)
}

// lmrTable[depth][moveNumber] holds the base late-move reduction.
var lmrTable [MaxPly + 1][64]int

func init() {
	for d := 1; d <= MaxPly; d++ {
		for m := 1; m < 64; m++ {
			r := 1 + d/8 + m/16
			if r > d-2 {
				r = d - 2
			}
			lmrTable[d][m] = max(r, 0)
		}
	}
}

// lmrReduction returns how many plies to take off a late quiet move.
// Moves with a good history record are reduced less.
func lmrReduction(depth, moveNumber, historyScore int) int {
	if depth < 3 || moveNumber < 3 {
		return 0
	}
	r := lmrTable[min(depth, MaxPly)][min(moveNumber, 63)]
	if r > 0 && historyScore > 0 {
		r -= min(historyScore/4000, 2, r)
	}
	if historyScore == 0 && moveNumber > 12 {
		r++
	}
	return clamp(r, 0, depth-2)
}
