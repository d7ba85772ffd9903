package engine

import (
	"unsafe"

	"chess-advisor/position"
)

const (
	// Bound flags
	alphaFlag int8 = iota
	betaFlag
	exactFlag

	clusterSize = 4

	// DefaultTTSizeMB is the table size used when Config.TTSizeMB is zero.
	DefaultTTSizeMB = 16
)

type ttEntry struct {
	hash  uint64
	move  position.Move
	score int16
	depth int8
	flag  int8
}

// transTable is a fixed-size, cluster-bucketed transposition table owned by
// a single searcher.
type transTable struct {
	entries      []ttEntry
	clusterCount uint64
}

func newTransTable(sizeMB int) *transTable {
	if sizeMB <= 0 {
		sizeMB = DefaultTTSizeMB
	}
	entrySize := uint64(unsafe.Sizeof(ttEntry{}))
	clusterCount := uint64(sizeMB) * 1024 * 1024 / (entrySize * clusterSize)
	if clusterCount == 0 {
		clusterCount = 1
	}
	return &transTable{
		entries:      make([]ttEntry, clusterCount*clusterSize),
		clusterCount: clusterCount,
	}
}

func (tt *transTable) probe(hash uint64) (*ttEntry, bool) {
	base := int(hash % tt.clusterCount * clusterSize)
	for i := 0; i < clusterSize; i++ {
		if e := &tt.entries[base+i]; e.hash == hash {
			return e, true
		}
	}
	return nil, false
}

// usable returns the stored score when the entry is deep enough and its
// bound decides the window. Mate scores are converted back to distance from
// the current ply.
func (e *ttEntry) usable(depth, ply, alpha, beta int) (int, bool) {
	if int(e.depth) < depth {
		return 0, false
	}
	score := scoreFromTT(int(e.score), ply)
	switch e.flag {
	case exactFlag:
		return score, true
	case alphaFlag:
		if score <= alpha {
			return score, true
		}
	case betaFlag:
		if score >= beta {
			return score, true
		}
	}
	return 0, false
}

func (tt *transTable) store(hash uint64, depth, ply int, move position.Move, score int, flag int8) {
	base := int(hash % tt.clusterCount * clusterSize)
	target := -1

	// prefer the slot already holding this position, then an empty slot
	for i := 0; i < clusterSize; i++ {
		if tt.entries[base+i].hash == hash {
			target = base + i
			break
		}
	}
	if target == -1 {
		for i := 0; i < clusterSize; i++ {
			if tt.entries[base+i].hash == 0 {
				target = base + i
				break
			}
		}
	}
	// otherwise replace the shallowest entry
	if target == -1 {
		target = base
		for i := 1; i < clusterSize; i++ {
			if tt.entries[base+i].depth < tt.entries[target].depth {
				target = base + i
			}
		}
	}

	e := &tt.entries[target]
	if e.hash == hash && move == position.NoMove {
		move = e.move
	}
	e.hash = hash
	e.move = move
	e.score = int16(scoreToTT(score, ply))
	e.depth = int8(min(depth, 127))
	e.flag = flag
}

// scoreToTT stores mate scores relative to the node rather than the root.
func scoreToTT(score, ply int) int {
	switch {
	case score >= MateThreshold:
		return score + ply
	case score <= -MateThreshold:
		return score - ply
	}
	return score
}

func scoreFromTT(score, ply int) int {
	switch {
	case score >= MateThreshold:
		return score - ply
	case score <= -MateThreshold:
		return score + ply
	}
	return score
}
