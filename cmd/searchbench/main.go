// Command searchbench runs fixed-depth searches and reports timing, node
// counts and cutoff statistics.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"chess-advisor/engine"
	"chess-advisor/logx"
	"chess-advisor/position"
)

type options struct {
	depth, repeat, workers, hash int
	fen                          string
	stats                        bool
	cpuProfile, memProfile       string
}

func main() {
	var o options
	flag.IntVar(&o.depth, "depth", 6, "search depth in plies")
	flag.IntVar(&o.repeat, "repeat", 1, "number of searches to run")
	flag.StringVar(&o.fen, "fen", position.StartFEN, "FEN to search")
	flag.IntVar(&o.workers, "workers", 1, "root-split workers")
	flag.IntVar(&o.hash, "hash", engine.DefaultTTSizeMB, "transposition table size in MB")
	flag.BoolVar(&o.stats, "stats", false, "print cutoff statistics after each search")
	flag.StringVar(&o.cpuProfile, "cpuprofile", "", "write CPU profile to file")
	flag.StringVar(&o.memProfile, "memprofile", "", "write memory profile (heap) to file")
	flag.Parse()

	log := logx.New(os.Stderr, zerolog.InfoLevel)
	if err := run(o, os.Stdout); err != nil {
		log.Error().Err(err).Msg("searchbench failed")
		os.Exit(1)
	}
}

// run returns instead of exiting so deferred profile writers always flush.
func run(o options, out io.Writer) error {
	if o.depth <= 0 {
		return fmt.Errorf("depth must be positive, got %d", o.depth)
	}
	pos, err := position.Parse(o.fen)
	if err != nil {
		return fmt.Errorf("parse FEN: %w", err)
	}

	if o.cpuProfile != "" {
		f, err := os.Create(o.cpuProfile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	cfg := engine.Config{Depth: o.depth, Workers: o.workers, TTSizeMB: o.hash}
	fmt.Fprintf(out, "searchbench: fen=%q depth=%d repeat=%d workers=%d\n", o.fen, o.depth, o.repeat, o.workers)

	startAll := time.Now()
	var totalNodes uint64
	for i := 0; i < o.repeat; i++ {
		res, err := engine.Search(context.Background(), pos, cfg)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		totalNodes += res.Nodes
		fmt.Fprintf(out, "iteration %d: bestmove %v score %s nodes=%d time=%v pv %s\n",
			i+1, res.Move, engine.ScoreString(res.Score), res.Nodes, res.Elapsed, pvString(res.PV))
		if o.stats {
			fmt.Fprintln(out, "info string Cut statistics:")
			if _, err := res.Cuts.WriteTo(out); err != nil {
				return err
			}
		}
	}
	totalElapsed := time.Since(startAll)
	fmt.Fprintf(out, "total time: %v nps: %.0f\n", totalElapsed, float64(totalNodes)/totalElapsed.Seconds())

	if o.memProfile != "" {
		f, err := os.Create(o.memProfile)
		if err != nil {
			return fmt.Errorf("could not create memory profile: %w", err)
		}
		defer f.Close()

		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return fmt.Errorf("could not write memory profile: %w", err)
		}
	}
	return nil
}

func pvString(pv []position.Move) string {
	parts := make([]string, len(pv))
	for i, m := range pv {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}
