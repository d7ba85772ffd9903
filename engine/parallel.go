package engine

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"chess-advisor/position"
)

// searchParallel deals the root moves round-robin, in LegalMoves order, to
// cfg.Workers searchers. Each worker owns its tables and searches every
// root move with a full window, so the merged scores are exact and the
// result does not depend on goroutine scheduling when the search is
// bounded by depth.
func searchParallel(ctx context.Context, pos *position.Position, legal []position.Move, history []uint64, cfg Config, start time.Time) Result {
	workers := min(cfg.Workers, len(legal))
	ttSize := cfg.TTSizeMB
	if ttSize == 0 {
		ttSize = DefaultTTSizeMB
	}
	ttSize = max(ttSize/workers, 1)

	outcomes := make([]searchOutcome, workers)
	nodes := make([]uint64, workers)
	cuts := make([]CutStatistics, workers)

	// Workers report progress only through the merged iterations below.
	workerCfg := cfg
	workerCfg.OnIteration = nil

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			var subset []position.Move
			for i := w; i < len(legal); i += workers {
				subset = append(subset, legal[i])
			}
			s := newSearcher(ctx, workerCfg, pos, history, start, ttSize)
			root := make([]rootMove, len(subset))
			for i, m := range subset {
				root[i] = rootMove{move: m, index: w + i*workers}
			}
			outcomes[w] = s.run(pos, root, workerCfg, true, false)
			nodes[w] = s.nodes
			cuts[w] = s.cuts
			return nil
		})
	}
	g.Wait()

	res := Result{Status: position.Ongoing}
	depth := len(outcomes[0].iterations)
	for _, out := range outcomes {
		depth = min(depth, len(out.iterations))
		res.BudgetExceeded = res.BudgetExceeded || out.stopped
	}
	for w := range nodes {
		res.Nodes += nodes[w]
		res.Cuts.add(cuts[w])
	}

	for d := 0; d < depth; d++ {
		best := outcomes[0].iterations[d]
		for _, out := range outcomes[1:] {
			rm := out.iterations[d]
			if better(rm.score, rm.index, best.score, best.index) {
				best = rm
			}
		}
		res.Move, res.Score, res.PV, res.Depth = best.move, best.score, best.pv, d+1
		if cfg.OnIteration != nil {
			cfg.OnIteration(Iteration{
				Depth:   d + 1,
				Score:   best.score,
				Nodes:   res.Nodes,
				Elapsed: time.Since(start),
				PV:      best.pv,
			})
		}
	}

	if depth == 0 {
		s := &searcher{}
		res.Move = s.orderRoot(pos, legal)[0].move
	}
	res.Elapsed = time.Since(start)
	return res
}
