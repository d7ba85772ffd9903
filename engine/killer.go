package engine

import "chess-advisor/position"

// killerTable keeps two quiet moves per ply that recently caused a cutoff.
type killerTable [MaxPly + 1][2]position.Move

func (k *killerTable) insert(m position.Move, ply int) {
	if k[ply][0] != m {
		k[ply][1] = k[ply][0]
		k[ply][0] = m
	}
}

func (k *killerTable) rank(m position.Move, ply int) int {
	switch m {
	case k[ply][0]:
		return 2
	case k[ply][1]:
		return 1
	}
	return 0
}

const historyMax = 16000

// historyTable scores quiet moves by side, origin and destination.
// Counter moves remember the reply that refuted the opponent's last move.
type historyTable struct {
	score   [2][64][64]int
	counter [2][64][64]position.Move
}

func (h *historyTable) reward(c position.Color, m position.Move, depth int) {
	v := &h.score[c][m.From()][m.To()]
	*v += depth * depth
	if *v >= historyMax {
		h.age(c)
	}
}

func (h *historyTable) penalize(c position.Color, m position.Move) {
	v := &h.score[c][m.From()][m.To()]
	*v /= 2
}

// age shrinks one side's scores so recent cutoffs dominate.
func (h *historyTable) age(c position.Color) {
	for from := range h.score[c] {
		for to := range h.score[c][from] {
			h.score[c][from][to] /= 8
		}
	}
}

func (h *historyTable) storeCounter(c position.Color, prev, reply position.Move) {
	if prev != position.NoMove {
		h.counter[c][prev.From()][prev.To()] = reply
	}
}

func (h *historyTable) counterFor(c position.Color, prev position.Move) position.Move {
	if prev == position.NoMove {
		return position.NoMove
	}
	return h.counter[c][prev.From()][prev.To()]
}
