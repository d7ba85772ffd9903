package engine

import (
	"errors"
	"fmt"
	"time"

	"chess-advisor/position"
)

// ErrInvalidConfig is returned when a Config cannot bound a search.
var ErrInvalidConfig = errors.New("invalid search config")

// Config bounds and tunes a single search. The zero value is invalid:
// at least one of Depth or TimeLimit must be set.
type Config struct {
	// Depth is the maximum iteration depth in plies; 0 means unbounded.
	Depth int
	// TimeLimit is the wall-clock budget; 0 means none.
	TimeLimit time.Duration
	// Workers splits the root moves across goroutines when above 1.
	Workers int
	// TTSizeMB sizes the transposition table; 0 selects DefaultTTSizeMB.
	TTSizeMB int
	// Weights overrides the evaluation; nil selects DefaultWeights.
	Weights *Weights
	// OnIteration is called after every completed iteration.
	OnIteration func(Iteration)
}

// Iteration reports the outcome of one iterative-deepening step.
type Iteration struct {
	Depth   int
	Score   int
	Nodes   uint64
	Elapsed time.Duration
	PV      []position.Move
}

// DefaultConfig is a depth 5 search capped at five seconds.
func DefaultConfig() Config {
	return Config{
		Depth:     5,
		TimeLimit: 5 * time.Second,
		Workers:   1,
		TTSizeMB:  DefaultTTSizeMB,
	}
}

// Validate checks that c bounds the search and that its sizes are sane.
func (c Config) Validate() error {
	switch {
	case c.Depth < 0:
		return fmt.Errorf("%w: negative depth %d", ErrInvalidConfig, c.Depth)
	case c.TimeLimit < 0:
		return fmt.Errorf("%w: negative time limit %v", ErrInvalidConfig, c.TimeLimit)
	case c.Depth == 0 && c.TimeLimit == 0:
		return fmt.Errorf("%w: neither depth nor time limit set", ErrInvalidConfig)
	case c.Workers < 0:
		return fmt.Errorf("%w: negative worker count %d", ErrInvalidConfig, c.Workers)
	case c.TTSizeMB < 0:
		return fmt.Errorf("%w: negative table size %d", ErrInvalidConfig, c.TTSizeMB)
	}
	return nil
}

func (c Config) maxDepth() int {
	if c.Depth == 0 || c.Depth > MaxPly-1 {
		return MaxPly - 1
	}
	return c.Depth
}

func (c Config) weights() *Weights {
	if c.Weights == nil {
		return &defaultWeights
	}
	return c.Weights
}
