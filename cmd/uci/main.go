// Command uci speaks the Universal Chess Interface on stdin/stdout.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"chess-advisor/engine"
	"chess-advisor/logx"
	"chess-advisor/position"
)

const (
	engineName   = "chess-advisor"
	engineAuthor = "chess-advisor authors"

	// clock assumed when "go" carries no limits
	defaultClock = 5 * time.Minute
)

func main() {
	level := flag.String("log-level", "warn", "log level for stderr diagnostics")
	flag.Parse()

	lvl, err := logx.ParseLevel(*level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	u := newUCI(os.Stdout, logx.New(os.Stderr, lvl))
	if err := u.run(context.Background(), os.Stdin); err != nil {
		u.log.Error().Err(err).Msg("uci loop")
		os.Exit(1)
	}
}

type uci struct {
	log zerolog.Logger

	outMu sync.Mutex
	out   io.Writer

	pos     position.Position
	history []uint64
	hashMB  int
	threads int
	stats   bool

	cancel context.CancelFunc
	done   chan struct{}
}

func newUCI(out io.Writer, log zerolog.Logger) *uci {
	return &uci{
		log:     log,
		out:     out,
		pos:     position.Start(),
		hashMB:  engine.DefaultTTSizeMB,
		threads: 1,
	}
}

func (u *uci) println(a ...any) {
	u.outMu.Lock()
	defer u.outMu.Unlock()
	fmt.Fprintln(u.out, a...)
}

func (u *uci) printf(format string, a ...any) {
	u.outMu.Lock()
	defer u.outMu.Unlock()
	fmt.Fprintf(u.out, format, a...)
}

func (u *uci) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	defer u.stop()
	for scanner.Scan() {
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 {
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "uci":
			u.println("id name", engineName)
			u.println("id author", engineAuthor)
			u.println("option name Hash type spin default", engine.DefaultTTSizeMB, "min 1 max 4096")
			u.println("option name Threads type spin default 1 min 1 max 64")
			u.println("uciok")
		case "isready":
			u.println("readyok")
		case "ucinewgame":
			u.stop()
			u.pos = position.Start()
			u.history = nil
		case "setoption":
			u.setOption(tokens[1:])
		case "position":
			u.stop()
			u.position(tokens[1:])
		case "go":
			u.stop()
			u.goSearch(ctx, tokens[1:])
		case "stop":
			u.stop()
		case "eval":
			u.printf("info string eval %s\n", engine.ScoreString(engine.Evaluate(&u.pos, nil)))
		case "stats":
			u.stats = !u.stats
		case "d":
			u.printf("%s\nFen: %s\n", u.pos.Diagram(), u.pos.FEN())
		case "quit":
			return nil
		default:
			u.println("info string Unknown command", tokens[0])
		}
	}
	return scanner.Err()
}

func (u *uci) setOption(args []string) {
	// setoption name <id> value <x>
	var name, value string
	for i := 0; i+1 < len(args); i++ {
		switch strings.ToLower(args[i]) {
		case "name":
			name = strings.ToLower(args[i+1])
		case "value":
			value = args[i+1]
		}
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		u.println("info string Malformed setoption value", value)
		return
	}
	switch name {
	case "hash":
		u.hashMB = n
	case "threads":
		u.threads = n
	default:
		u.println("info string Unknown option", name)
	}
}

// position handles "position startpos|fen <fen> [moves ...]". On any error
// the previous position is kept.
func (u *uci) position(args []string) {
	if len(args) == 0 {
		u.println("info string Malformed position command")
		return
	}
	var pos position.Position
	rest := args[1:]
	switch strings.ToLower(args[0]) {
	case "startpos":
		pos = position.Start()
	case "fen":
		end := len(rest)
		for i, tok := range rest {
			if strings.ToLower(tok) == "moves" {
				end = i
				break
			}
		}
		var err error
		pos, err = position.Parse(strings.Join(rest[:end], " "))
		if err != nil {
			u.println("info string Invalid fen position:", err)
			u.log.Warn().Err(err).Msg("position rejected")
			return
		}
		rest = rest[end:]
	default:
		u.println("info string Invalid position subcommand")
		return
	}

	var history []uint64
	if len(rest) > 0 && strings.ToLower(rest[0]) == "moves" {
		for _, text := range rest[1:] {
			m, err := pos.ResolveMove(text)
			if err == nil {
				history = append(history, pos.Hash())
				pos, err = pos.Play(m)
			}
			if err != nil {
				u.println("info string Move", text, "not played:", err)
				u.log.Warn().Err(err).Str("fen", pos.FEN()).Msg("move rejected")
				return
			}
		}
	}
	u.pos, u.history = pos, history
}

// searchConfig turns "go" arguments into a search configuration. infinite
// reports that bestmove must wait for "stop".
func (u *uci) searchConfig(args []string) (cfg engine.Config, infinite bool) {
	cfg = engine.Config{Workers: u.threads, TTSizeMB: u.hashMB}
	var wtime, btime, winc, binc time.Duration

	// value reads the integer following args[i].
	value := func(i int) int {
		if i+1 >= len(args) {
			u.println("info string Malformed go command option", args[i])
			return 0
		}
		v, err := strconv.Atoi(args[i+1])
		if err != nil {
			u.println("info string Malformed go command option; could not convert", args[i])
			return 0
		}
		return v
	}
	ms := func(i int) time.Duration { return time.Duration(value(i)) * time.Millisecond }

	for i := 0; i < len(args); i++ {
		switch strings.ToLower(args[i]) {
		case "infinite":
			infinite = true
			continue
		case "depth":
			cfg.Depth = value(i)
		case "movetime":
			cfg.TimeLimit = ms(i)
		case "wtime":
			wtime = ms(i)
		case "btime":
			btime = ms(i)
		case "winc":
			winc = ms(i)
		case "binc":
			binc = ms(i)
		default:
			u.println("info string Unknown go subcommand", args[i])
			continue
		}
		i++
	}

	switch {
	case infinite:
		cfg.Depth, cfg.TimeLimit = engine.MaxPly-1, 0
	case cfg.Depth > 0 || cfg.TimeLimit > 0:
		// explicit limits win over the clock
	default:
		clock, inc := wtime, winc
		if u.pos.SideToMove() == position.Black {
			clock, inc = btime, binc
		}
		if clock <= 0 {
			clock = defaultClock
		}
		cfg.TimeLimit = engine.MoveTime(clock, inc, &u.pos)
	}
	return cfg, infinite
}

func (u *uci) goSearch(parent context.Context, args []string) {
	cfg, infinite := u.searchConfig(args)
	stats := u.stats
	start := time.Now()
	cfg.OnIteration = func(it engine.Iteration) {
		elapsed := max(it.Elapsed.Milliseconds(), 1)
		var pv strings.Builder
		for _, m := range it.PV {
			pv.WriteByte(' ')
			pv.WriteString(m.String())
		}
		u.printf("info depth %d score %s nodes %d time %d nps %d pv%s\n",
			it.Depth, engine.ScoreString(it.Score), it.Nodes, elapsed, int64(it.Nodes)*1000/elapsed, pv.String())
	}

	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	u.cancel, u.done = cancel, done

	pos, history := u.pos, append([]uint64(nil), u.history...)
	go func() {
		defer close(done)
		res, err := engine.SearchWithHistory(ctx, pos, history, cfg)
		if err != nil {
			u.println("info string search failed:", err)
			u.println("bestmove 0000")
			return
		}
		u.log.Debug().
			Str("move", res.Move.String()).
			Int("depth", res.Depth).
			Uint64("nodes", res.Nodes).
			Bool("budgetExceeded", res.BudgetExceeded).
			Dur("dur", time.Since(start)).
			Msg("search finished")
		if infinite {
			<-ctx.Done()
		}
		if stats {
			u.println("info string Cut statistics:")
			u.outMu.Lock()
			_, _ = res.Cuts.WriteTo(u.out)
			u.outMu.Unlock()
		}
		u.println("bestmove", res.Move.String())
	}()
}

// stop cancels a running search and waits for its bestmove line.
func (u *uci) stop() {
	if u.cancel == nil {
		return
	}
	u.cancel()
	<-u.done
	u.cancel, u.done = nil, nil
}
