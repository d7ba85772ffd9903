// Command advisor answers legality, next-move and status queries from the
// command line, from JSON-lines batches or from PGN files.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/freeeve/pgn/v3"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog"

	"chess-advisor/advisor"
	"chess-advisor/engine"
	"chess-advisor/logx"
)

func main() {
	var (
		fen      = flag.String("fen", "", "position to query")
		move     = flag.String("move", "", "with -fen: check this move for legality")
		status   = flag.Bool("status", false, "with -fen: report the game status")
		batch    = flag.String("batch", "", "JSON-lines request file (.zst is decompressed, - reads stdin)")
		pgnPath  = flag.String("pgn", "", "PGN file; advise the side to move after each game")
		depth    = flag.Int("depth", engine.DefaultConfig().Depth, "search depth in plies (0 = time bound only)")
		movetime = flag.Duration("movetime", engine.DefaultConfig().TimeLimit, "search time per query (0 = depth bound only)")
		workers  = flag.Int("workers", 1, "search goroutines per query")
		hashMB   = flag.Int("hash", engine.DefaultTTSizeMB, "transposition table size in MB")
		parallel = flag.Int("concurrency", 4, "batch requests handled at once")
		level    = flag.String("log-level", "info", "log level")
	)
	flag.Parse()

	lvl, err := logx.ParseLevel(*level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := logx.New(os.Stderr, lvl)

	opts := advisor.DefaultOptions()
	opts.Search = engine.Config{Depth: *depth, TimeLimit: *movetime, Workers: *workers, TTSizeMB: *hashMB}
	opts.Concurrency = *parallel
	opts.Logger = logger
	svc, err := advisor.New(opts)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid options")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch {
	case *batch != "":
		err = runBatch(ctx, svc, *batch, os.Stdin, os.Stdout)
	case *pgnPath != "":
		err = runPGN(ctx, svc, logger, *pgnPath, os.Stdout)
	case *fen != "":
		err = runQuery(ctx, svc, *fen, *move, *status, os.Stdout)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("advisor failed")
		os.Exit(1)
	}
}

func runQuery(ctx context.Context, svc *advisor.Service, fen, move string, status bool, out io.Writer) error {
	var (
		result any
		err    error
	)
	switch {
	case move != "":
		result, err = svc.IsLegalMove(ctx, fen, move)
	case status:
		result, err = svc.Status(ctx, fen)
	default:
		result, err = svc.GuessNextMove(ctx, fen)
	}
	if err != nil {
		return err
	}
	return json.NewEncoder(out).Encode(result)
}

func runBatch(ctx context.Context, svc *advisor.Service, path string, stdin io.Reader, out io.Writer) error {
	in, closeFn, err := openBatch(path, stdin)
	if err != nil {
		return err
	}
	defer closeFn()
	return svc.Serve(ctx, in, out)
}

// openBatch opens a request stream. "-" is stdin and a .zst suffix selects
// zstd decompression.
func openBatch(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "-" {
		return stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open batch: %w", err)
	}
	if !strings.HasSuffix(path, ".zst") {
		return f, func() { f.Close() }, nil
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("zstd reader: %w", err)
	}
	return dec, func() {
		dec.Close()
		f.Close()
	}, nil
}

type gameAdvice struct {
	Game     int    `json:"game"`
	FEN      string `json:"fen"`
	NextMove string `json:"nextMove,omitempty"`
	Score    int    `json:"score"`
	Error    string `json:"error,omitempty"`
}

// runPGN replays every game of a PGN file (plain or .zst) and asks the
// advisor for the move after the last one played.
func runPGN(ctx context.Context, svc *advisor.Service, log zerolog.Logger, path string, out io.Writer) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("open pgn: %w", err)
	}
	parser := pgn.Games(path)
	enc := json.NewEncoder(out)
	start := time.Now()

	n := 0
	stopped := false
gameLoop:
	for game := range parser.Games {
		select {
		case <-ctx.Done():
			if !stopped {
				parser.Stop()
				stopped = true
			}
			break gameLoop
		default:
		}
		n++

		pos := pgn.NewStartingPosition()
		replayed := 0
		for _, mv := range game.Moves {
			if err := pgn.ApplyMove(pos, mv); err != nil {
				log.Warn().Err(err).Int("game", n).Int("ply", replayed).Msg("replay stopped")
				break
			}
			replayed++
		}

		line := gameAdvice{Game: n, FEN: completeFEN(pos.ToFEN(), replayed)}
		advice, err := svc.GuessNextMove(ctx, line.FEN)
		if err != nil {
			line.Error = err.Error()
		} else {
			line.NextMove, line.Score = advice.NextMove, advice.Score
		}
		if err := enc.Encode(line); err != nil {
			parser.Stop()
			return err
		}
	}
	if err := parser.Err(); err != nil {
		return fmt.Errorf("parse pgn: %w", err)
	}
	log.Info().Int("games", n).Dur("dur", time.Since(start)).Msg("pgn done")
	return ctx.Err()
}

// completeFEN appends the move counters when the replaying library emits
// only the first four FEN fields.
func completeFEN(fen string, plies int) string {
	fields := strings.Fields(fen)
	if len(fields) == 4 {
		fields = append(fields, "0", fmt.Sprint(plies/2+1))
	}
	return strings.Join(fields, " ")
}
