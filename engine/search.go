package engine

import (
	"context"
	"time"

	"chess-advisor/position"
)

// Score constants. Mate scores are MateScore minus the distance in plies
// from the root, so shorter mates score higher.
const (
	MaxPly        = 128
	Infinity      = 32500
	MateScore     = 32000
	MateThreshold = MateScore - MaxPly
	DrawScore     = 0
)

// Search margins
const (
	deltaMargin     = 200
	nullMoveMinimum = 3
)

// Result is the outcome of a search. Move is position.NoMove when the root
// has no legal move; Status then tells checkmate from stalemate.
type Result struct {
	Move  position.Move
	Score int
	// Depth is the last fully completed iteration.
	Depth          int
	Nodes          uint64
	PV             []position.Move
	Elapsed        time.Duration
	BudgetExceeded bool
	Status         position.Status
	Cuts           CutStatistics
}

// Search picks the best move for the side to move in pos.
func Search(ctx context.Context, pos position.Position, cfg Config) (Result, error) {
	return SearchWithHistory(ctx, pos, nil, cfg)
}

// NextMove is the short form of Search. ok is false when pos has no legal
// move.
func NextMove(ctx context.Context, pos position.Position, cfg Config) (position.Move, bool, error) {
	res, err := Search(ctx, pos, cfg)
	if err != nil {
		return position.NoMove, false, err
	}
	return res.Move, res.Move != position.NoMove, nil
}

// SearchWithHistory is Search for callers that track the game. history holds
// the Zobrist keys of the positions played before pos, oldest first, and is
// used to score repetitions as draws.
func SearchWithHistory(ctx context.Context, pos position.Position, history []uint64, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	start := time.Now()

	legal := pos.LegalMoves()
	if len(legal) == 0 {
		return Result{
			Move:    position.NoMove,
			Status:  pos.StatusWithHistory(history),
			Elapsed: time.Since(start),
		}, nil
	}

	if cfg.Workers > 1 && len(legal) > 1 {
		return searchParallel(ctx, &pos, legal, history, cfg, start), nil
	}

	s := newSearcher(ctx, cfg, &pos, history, start, cfg.TTSizeMB)
	root := s.orderRoot(&pos, legal)
	out := s.run(&pos, root, cfg, false, len(legal) == 1)

	res := Result{
		Move:           root[0].move,
		Depth:          out.depth,
		Nodes:          s.nodes,
		Elapsed:        time.Since(start),
		BudgetExceeded: out.stopped,
		Status:         position.Ongoing,
		Cuts:           s.cuts,
	}
	if out.hasBest {
		res.Move = out.best.move
		res.Score = out.best.score
		res.PV = out.best.pv
	}
	return res, nil
}

type rootMove struct {
	move position.Move
	// index is the move's position in LegalMoves order, used for tie-breaks.
	index int
	score int
	pv    []position.Move
}

// better reports whether a score for the move at index idx replaces the
// current best.
func better(score, idx, bestScore, bestIdx int) bool {
	return score > bestScore || (score == bestScore && idx < bestIdx)
}

type searchOutcome struct {
	best    rootMove
	hasBest bool
	depth   int
	stopped bool
	// iterations holds the best root move of every completed depth.
	iterations []rootMove
}

type searcher struct {
	tt      *transTable
	killers killerTable
	history historyTable
	weights *Weights
	budget  *budget
	states  *stateStack
	start   time.Time
	nodes   uint64
	cuts    CutStatistics

	pv    [MaxPly + 1][MaxPly + 1]position.Move
	pvLen [MaxPly + 1]int
}

func newSearcher(ctx context.Context, cfg Config, pos *position.Position, history []uint64, start time.Time, ttSizeMB int) *searcher {
	return &searcher{
		tt:      newTransTable(ttSizeMB),
		weights: cfg.weights(),
		budget:  newBudget(ctx, cfg.TimeLimit, start),
		states:  newStateStack(history, pos.Hash(), pos.HalfmoveClock()),
		start:   start,
	}
}

// orderRoot wraps the legal moves in their initial search order.
func (s *searcher) orderRoot(pos *position.Position, legal []position.Move) []rootMove {
	scored := s.scoreMoves(pos, legal, position.NoMove, position.NoMove, 0)
	index := make(map[position.Move]int, len(legal))
	for i, m := range legal {
		index[m] = i
	}
	root := make([]rootMove, len(scored))
	for i := range scored {
		orderNext(scored, i)
		root[i] = rootMove{move: scored[i].move, index: index[scored[i].move]}
	}
	return root
}

// run is the iterative deepening loop. With exact set every root move is
// searched with a full window so scores can be compared across searchers.
func (s *searcher) run(pos *position.Position, root []rootMove, cfg Config, exact, singleReply bool) searchOutcome {
	var out searchOutcome
	maxDepth := cfg.maxDepth()

	for depth := 1; depth <= maxDepth; depth++ {
		if s.budget.check() || s.softLimitReached(cfg, depth) {
			out.stopped = true
			break
		}

		best, done := s.searchRoot(pos, root, depth, exact)
		if best >= 0 {
			out.best = root[best]
			out.best.pv = append([]position.Move(nil), root[best].pv...)
			out.hasBest = true
		}
		if !done {
			out.stopped = true
			break
		}

		out.depth = depth
		out.iterations = append(out.iterations, out.best)
		promote(root, best)

		if cfg.OnIteration != nil {
			cfg.OnIteration(Iteration{
				Depth:   depth,
				Score:   out.best.score,
				Nodes:   s.nodes,
				Elapsed: time.Since(s.start),
				PV:      out.best.pv,
			})
		}

		// A proven mate cannot improve with depth. Exact workers only see
		// part of the root, so they stop on their own mates alone.
		if IsMateScore(out.best.score) && MateScore-abs(out.best.score) <= depth && (!exact || out.best.score > 0) {
			break
		}
		if singleReply {
			break
		}
	}
	return out
}

// softLimitReached stops the deepening loop when the previous iterations
// used more than half of the time budget; the next one would not finish.
func (s *searcher) softLimitReached(cfg Config, depth int) bool {
	if depth == 1 || cfg.TimeLimit == 0 {
		return false
	}
	return time.Since(s.start) > cfg.TimeLimit/2
}

// promote moves root[i] to the front, keeping the order of the others.
func promote(root []rootMove, i int) {
	if i <= 0 {
		return
	}
	m := root[i]
	copy(root[1:i+1], root[:i])
	root[0] = m
}

// searchRoot runs one iteration over the root moves and returns the index of
// the best one, or -1 when none finished. done is false when the budget ran
// out mid-iteration.
//
// Outside exact mode the first move gets a full window and the others a null
// window around the best score. The window sits at best-1 for moves that
// would win a tie, so equal scores are resolved exactly.
func (s *searcher) searchRoot(pos *position.Position, root []rootMove, depth int, exact bool) (best int, done bool) {
	best = -1
	bestScore := -Infinity
	for i := range root {
		rm := &root[i]
		child := pos.Apply(rm.move)
		s.states.push(child.Hash(), child.HalfmoveClock())

		var score int
		if best < 0 || exact {
			score = -s.alphabeta(&child, -Infinity, Infinity, depth-1, 1, rm.move, true)
		} else {
			lo := bestScore
			if rm.index < root[best].index {
				lo = bestScore - 1
			}
			score = -s.alphabeta(&child, -lo-1, -lo, depth-1, 1, rm.move, true)
			if score > lo && !s.budget.stopped {
				score = -s.alphabeta(&child, -Infinity, -lo, depth-1, 1, rm.move, true)
			}
		}
		s.states.pop()

		if s.budget.stopped {
			return best, false
		}
		rm.score = score
		if best < 0 || better(score, rm.index, bestScore, root[best].index) {
			best, bestScore = i, score
			rm.pv = append(rm.pv[:0], rm.move)
			rm.pv = append(rm.pv, s.pv[1][1:s.pvLen[1]]...)
		}
	}
	return best, true
}

func (s *searcher) updatePV(ply int, m position.Move) {
	s.pv[ply][ply] = m
	next := s.pvLen[ply+1]
	copy(s.pv[ply][ply+1:next], s.pv[ply+1][ply+1:next])
	s.pvLen[ply] = next
}

func (s *searcher) alphabeta(pos *position.Position, alpha, beta, depth, ply int, prev position.Move, allowNull bool) int {
	s.pvLen[ply] = ply
	s.nodes++
	if s.budget.poll(s.nodes) {
		return 0
	}

	pvNode := beta-alpha > 1
	inCheck := pos.InCheck()

	if pos.IsFiftyMoveDraw() && (!inCheck || pos.HasLegalMoves()) {
		return DrawScore
	}
	if pos.IsInsufficientMaterial() || s.states.isRepetition() {
		return DrawScore
	}

	// mate distance pruning
	alpha = max(alpha, -MateScore+ply)
	beta = min(beta, MateScore-ply-1)
	if alpha >= beta {
		return alpha
	}

	if ply >= MaxPly-1 {
		return Evaluate(pos, s.weights)
	}
	if inCheck && ply < MaxPly/2 {
		depth++
	}
	if depth <= 0 {
		return s.quiescence(pos, alpha, beta, ply)
	}

	ttMove := position.NoMove
	if e, ok := s.tt.probe(pos.Hash()); ok {
		ttMove = e.move
		if !pvNode {
			if score, ok := e.usable(depth, ply, alpha, beta); ok {
				s.cuts.TTCutoffs++
				return score
			}
		}
	}

	us := pos.SideToMove()
	if allowNull && !pvNode && !inCheck && depth >= nullMoveMinimum &&
		hasNonPawnMaterial(pos, us) && Evaluate(pos, s.weights) >= beta {
		r := 2 + depth/4
		child := pos.ApplyNull()
		s.states.push(child.Hash(), child.HalfmoveClock())
		score := -s.alphabeta(&child, -beta, -beta+1, depth-1-r, ply+1, position.NoMove, false)
		s.states.pop()
		if s.budget.stopped {
			return 0
		}
		if score >= beta {
			s.cuts.NullMoveCutoffs++
			if score >= MateThreshold {
				score = beta
			}
			return score
		}
	}

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return DrawScore
	}

	scored := s.scoreMoves(pos, moves, ttMove, prev, ply)
	best := -Infinity
	bestMove := position.NoMove
	flag := alphaFlag
	var quiets []position.Move

	for i := range scored {
		orderNext(scored, i)
		m := scored[i].move
		tactical := scored[i].tactical

		child := pos.Apply(m)
		s.states.push(child.Hash(), child.HalfmoveClock())

		var score int
		if i == 0 {
			score = -s.alphabeta(&child, -beta, -alpha, depth-1, ply+1, m, true)
		} else {
			r := 0
			if !tactical && !inCheck && !child.InCheck() {
				r = lmrReduction(depth, i+1, s.history.score[us][m.From()][m.To()])
			}
			score = -s.alphabeta(&child, -alpha-1, -alpha, depth-1-r, ply+1, m, true)
			if r > 0 && score > alpha {
				s.cuts.LMRResearches++
				score = -s.alphabeta(&child, -alpha-1, -alpha, depth-1, ply+1, m, true)
			}
			if score > alpha && score < beta {
				score = -s.alphabeta(&child, -beta, -alpha, depth-1, ply+1, m, true)
			}
		}
		s.states.pop()

		if s.budget.stopped {
			return 0
		}

		if score > best {
			best = score
			bestMove = m
			if score > alpha {
				alpha = score
				flag = exactFlag
				s.updatePV(ply, m)
				if alpha >= beta {
					s.cuts.BetaCutoffs++
					flag = betaFlag
					if !tactical {
						s.killers.insert(m, ply)
						s.history.reward(us, m, depth)
						s.history.storeCounter(us, prev, m)
						for _, q := range quiets {
							s.history.penalize(us, q)
						}
					}
					break
				}
			}
		}
		if !tactical {
			quiets = append(quiets, m)
		}
	}

	stored := bestMove
	if flag == alphaFlag {
		stored = position.NoMove
	}
	s.tt.store(pos.Hash(), depth, ply, stored, best, flag)
	return best
}

// quiescence resolves captures and promotions until the position is quiet.
// In check every evasion is tried, so mates are still seen.
func (s *searcher) quiescence(pos *position.Position, alpha, beta, ply int) int {
	s.pvLen[ply] = ply
	s.nodes++
	if s.budget.poll(s.nodes) {
		return 0
	}
	if ply >= MaxPly-1 {
		return Evaluate(pos, s.weights)
	}
	if pos.IsInsufficientMaterial() {
		return DrawScore
	}

	inCheck := pos.InCheck()
	best := -Infinity
	standPat := 0
	var scored []scoredMove

	if inCheck {
		moves := pos.LegalMoves()
		if len(moves) == 0 {
			return -MateScore + ply
		}
		scored = s.scoreMoves(pos, moves, position.NoMove, position.NoMove, ply)
	} else {
		standPat = Evaluate(pos, s.weights)
		if standPat >= beta {
			s.cuts.QStandPatCutoffs++
			return standPat
		}
		alpha = max(alpha, standPat)
		best = standPat
		scored = scoreTactical(pos, pos.LegalCaptures())
	}

	for i := range scored {
		orderNext(scored, i)
		m := scored[i].move

		if !inCheck && m.Promotion() == position.NoPieceType {
			if standPat+pieceValue(pos.CapturedPiece(m).Type())+deltaMargin < alpha {
				s.cuts.DeltaPrunes++
				continue
			}
			if see(pos, m) < 0 {
				s.cuts.SEEPrunes++
				continue
			}
		}

		child := pos.Apply(m)
		score := -s.quiescence(&child, -beta, -alpha, ply+1)
		if s.budget.stopped {
			return 0
		}
		if score > best {
			best = score
			if score > alpha {
				alpha = score
				s.updatePV(ply, m)
				if alpha >= beta {
					s.cuts.QBetaCutoffs++
					break
				}
			}
		}
	}
	return best
}
