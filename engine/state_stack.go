package engine

// stateStack tracks the Zobrist keys of the game before the root followed
// by the positions on the current search path, so repetitions can be spotted
// both against played moves and inside the tree.
type stateStack struct {
	keys   []uint64
	rule50 []int
	// rootIndex is the index of the root position.
	rootIndex int
}

func newStateStack(history []uint64, rootKey uint64, rootRule50 int) *stateStack {
	s := &stateStack{
		keys:   make([]uint64, 0, len(history)+MaxPly+1),
		rule50: make([]int, 0, len(history)+MaxPly+1),
	}
	for _, k := range history {
		s.keys = append(s.keys, k)
		s.rule50 = append(s.rule50, 0)
	}
	// A history that already ends with the root key is not double counted.
	if n := len(s.keys); n > 0 && s.keys[n-1] == rootKey {
		s.keys = s.keys[:n-1]
		s.rule50 = s.rule50[:n-1]
	}
	s.push(rootKey, rootRule50)
	s.rootIndex = len(s.keys) - 1
	return s
}

func (s *stateStack) push(key uint64, rule50 int) {
	s.keys = append(s.keys, key)
	s.rule50 = append(s.rule50, rule50)
}

func (s *stateStack) pop() {
	s.keys = s.keys[:len(s.keys)-1]
	s.rule50 = s.rule50[:len(s.rule50)-1]
}

// isRepetition reports a draw by repetition for the top position. One
// earlier occurrence inside the search tree is enough; positions from the
// game history need two, matching the threefold rule.
func (s *stateStack) isRepetition() bool {
	top := len(s.keys) - 1
	if top <= 0 {
		return false
	}
	key := s.keys[top]
	start := max(top-s.rule50[top], 0)
	count := 0
	for i := top - 2; i >= start; i-- {
		if s.keys[i] != key {
			continue
		}
		if i >= s.rootIndex {
			return true
		}
		count++
		if count >= 2 {
			return true
		}
	}
	return false
}
