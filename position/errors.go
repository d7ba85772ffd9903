package position

import (
	"errors"
	"fmt"
)

// Sentinel errors for position and move input.
var (
	// ErrMalformedPosition is returned when FEN text does not describe a valid position.
	ErrMalformedPosition = errors.New("malformed position")
	// ErrMalformedMove is returned when move text does not name two squares
	// and a valid promotion.
	ErrMalformedMove = errors.New("malformed move")
	// ErrIllegalMove is returned by Play for a well-formed move that is not legal.
	ErrIllegalMove = errors.New("illegal move")
)

// Castling diagnostics, returned by CheckCastle in evaluation order.
var (
	ErrNoCastlingRight      = errors.New("castling right not available")
	ErrCastlingPathBlocked  = errors.New("squares between king and rook are occupied")
	ErrCastlingInCheck      = errors.New("king is in check")
	ErrCastlingThroughCheck = errors.New("king passes through an attacked square")
	ErrCastlingIntoCheck    = errors.New("king would land on an attacked square")
)

// PositionError describes why FEN text was rejected.
type PositionError struct {
	FEN    string
	Field  string
	Reason string
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("%s: %s: %s (fen %q)", ErrMalformedPosition, e.Field, e.Reason, e.FEN)
}

func (e *PositionError) Unwrap() error { return ErrMalformedPosition }

func positionErr(fen, field, format string, args ...any) error {
	return &PositionError{FEN: fen, Field: field, Reason: fmt.Sprintf(format, args...)}
}

// MoveError describes a rejected move. Err is ErrMalformedMove or ErrIllegalMove.
type MoveError struct {
	Text   string
	Reason string
	Err    error
}

func (e *MoveError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s %q", e.Err, e.Text)
	}
	return fmt.Sprintf("%s %q: %s", e.Err, e.Text, e.Reason)
}

func (e *MoveError) Unwrap() error { return e.Err }

func malformedMove(text, reason string) error {
	return &MoveError{Text: text, Reason: reason, Err: ErrMalformedMove}
}
