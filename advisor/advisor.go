// Package advisor answers legality, next-move and status queries for
// positions given as FEN text.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"chess-advisor/engine"
	"chess-advisor/position"
)

// MoveLegality answers a legality query.
type MoveLegality struct {
	FEN    string `json:"fen"`
	Move   string `json:"move"`
	Legal  bool   `json:"legal"`
	Reason string `json:"reason,omitempty"`
}

// NextMove answers an advisory query. NextMove is empty when the position
// has no legal move.
type NextMove struct {
	FEN      string `json:"fen"`
	NextMove string `json:"nextMove,omitempty"`
	Score    int    `json:"score"`
	Depth    int    `json:"depth"`
}

// GameStatus describes whether a position is terminal.
type GameStatus struct {
	FEN        string          `json:"fen"`
	Status     position.Status `json:"status"`
	SideToMove string          `json:"sideToMove"`
	InCheck    bool            `json:"inCheck"`
	LegalMoves int             `json:"legalMoves"`
}

// Options configures a Service.
type Options struct {
	// Search bounds every next-move query.
	Search engine.Config
	// Concurrency caps the requests Serve handles at once.
	Concurrency int
	Logger      zerolog.Logger
}

// DefaultOptions searches with engine.DefaultConfig and serves four
// requests at a time without logging.
func DefaultOptions() Options {
	return Options{
		Search:      engine.DefaultConfig(),
		Concurrency: 4,
		Logger:      zerolog.Nop(),
	}
}

// Service is safe for concurrent use; it keeps no state between requests.
type Service struct {
	cfg         engine.Config
	concurrency int
	log         zerolog.Logger
}

// New validates opts and returns a Service.
func New(opts Options) (*Service, error) {
	if err := opts.Search.Validate(); err != nil {
		return nil, err
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Service{
		cfg:         opts.Search,
		concurrency: opts.Concurrency,
		log:         opts.Logger,
	}, nil
}

func (s *Service) requestLog(ctx context.Context, op, fen string) (context.Context, zerolog.Logger) {
	ctx, rid := ensureRequestID(ctx)
	return ctx, s.log.With().Str("rid", rid).Str("op", op).Str("fen", fen).Logger()
}

// IsLegalMove reports whether move, in coordinate notation, is legal in
// the position described by fen. Malformed input yields an error wrapping
// position.ErrMalformedPosition or position.ErrMalformedMove.
func (s *Service) IsLegalMove(ctx context.Context, fen, move string) (MoveLegality, error) {
	_, log := s.requestLog(ctx, "legal", fen)
	log.Debug().Str("move", move).Msg("request started")

	pos, err := position.Parse(fen)
	if err != nil {
		log.Debug().Err(err).Msg("rejected position")
		return MoveLegality{}, err
	}
	m, err := pos.ResolveMove(move)
	if err != nil {
		log.Debug().Err(err).Msg("rejected move")
		return MoveLegality{}, err
	}

	out := MoveLegality{FEN: fen, Move: move, Legal: pos.IsLegal(m)}
	if !out.Legal {
		out.Reason = illegalReason(&pos, m)
	}
	log.Info().Stringer("parsed", m).Bool("legal", out.Legal).Str("reason", out.Reason).Msg("request completed")
	return out, nil
}

// illegalReason explains why m is not legal in pos.
func illegalReason(pos *position.Position, m position.Move) string {
	pc := pos.PieceAt(m.From())
	switch {
	case pc == position.NoPiece:
		return fmt.Sprintf("no piece on %v", m.From())
	case pc.Color() != pos.SideToMove():
		return fmt.Sprintf("piece on %v belongs to %v", m.From(), pc.Color())
	}
	if wing, ok := pos.CastleWing(m); ok {
		if err := pos.CheckCastle(wing); err != nil {
			return fmt.Sprintf("%v castling: %v", wing, err)
		}
	}
	for _, cand := range pos.PseudoLegalMoves() {
		if cand == m {
			return "move leaves the king in check"
		}
	}
	return position.ErrIllegalMove.Error()
}

// GuessNextMove searches the position and returns the move judged best.
// A position without legal moves is not an error: NextMove is left empty.
func (s *Service) GuessNextMove(ctx context.Context, fen string) (NextMove, error) {
	ctx, log := s.requestLog(ctx, "next", fen)
	log.Debug().Msg("request started")

	pos, err := position.Parse(fen)
	if err != nil {
		log.Debug().Err(err).Msg("rejected position")
		return NextMove{}, err
	}

	start := time.Now()
	res, err := engine.Search(ctx, pos, s.cfg)
	if err != nil {
		return NextMove{}, fmt.Errorf("search: %w", err)
	}

	out := NextMove{FEN: fen, Score: res.Score, Depth: res.Depth}
	if res.Move != position.NoMove {
		out.NextMove = res.Move.String()
	}
	ev := log.Info()
	if res.BudgetExceeded {
		ev = ev.Bool("budgetExceeded", true)
	}
	ev.Str("move", out.NextMove).
		Str("score", engine.ScoreString(res.Score)).
		Int("depth", res.Depth).
		Uint64("nodes", res.Nodes).
		Dur("dur", time.Since(start)).
		Msg("request completed")
	return out, nil
}

// Status reports the terminal state of the position. Repetition cannot be
// detected from a single FEN and is never reported here.
func (s *Service) Status(ctx context.Context, fen string) (GameStatus, error) {
	_, log := s.requestLog(ctx, "status", fen)
	log.Debug().Msg("request started")

	pos, err := position.Parse(fen)
	if err != nil {
		log.Debug().Err(err).Msg("rejected position")
		return GameStatus{}, err
	}
	out := GameStatus{
		FEN:        fen,
		Status:     pos.Status(),
		SideToMove: pos.SideToMove().String(),
		InCheck:    pos.InCheck(),
		LegalMoves: len(pos.LegalMoves()),
	}
	log.Info().Stringer("status", out.Status).Msg("request completed")
	return out, nil
}

// Error kinds reported by Serve.
const (
	KindMalformedPosition = "malformed_position"
	KindMalformedMove     = "malformed_move"
	KindInvalidRequest    = "invalid_request"
	KindInternal          = "internal"
)

// ErrInvalidRequest marks requests Serve cannot dispatch.
var ErrInvalidRequest = errors.New("invalid request")

// ErrorKind classifies err for the wire.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, position.ErrMalformedPosition):
		return KindMalformedPosition
	case errors.Is(err, position.ErrMalformedMove):
		return KindMalformedMove
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, engine.ErrInvalidConfig):
		return KindInvalidRequest
	}
	return KindInternal
}
