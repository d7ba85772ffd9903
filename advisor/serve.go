package advisor

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"
)

// Request is one JSON line read by Serve.
type Request struct {
	ID   string `json:"id,omitempty"`
	Op   string `json:"op"`
	FEN  string `json:"fen"`
	Move string `json:"move,omitempty"`
}

// Response is one JSON line written by Serve. Exactly one of Result and
// Error is set.
type Response struct {
	ID     string     `json:"id"`
	Result any        `json:"result,omitempty"`
	Error  *ErrorBody `json:"error,omitempty"`
}

// ErrorBody carries a classified failure; see ErrorKind.
type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

const maxLine = 1 << 20

// Serve reads JSON-lines requests from r and writes one response line per
// request to w, in input order. Up to Options.Concurrency requests run at
// once. Blank lines are skipped. Serve returns when r is exhausted or ctx
// is done; per-request failures are reported inline, not returned.
func (s *Service) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	pending := make(chan chan Response, s.concurrency)
	written := make(chan error, 1)
	go func() {
		enc := json.NewEncoder(w)
		var err error
		for ch := range pending {
			resp := <-ch
			if err == nil {
				err = enc.Encode(resp)
			}
		}
		written <- err
	}()

	var g errgroup.Group
	g.SetLimit(s.concurrency)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	for sc.Scan() && ctx.Err() == nil {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var req Request
		decodeErr := json.Unmarshal(line, &req)

		ch := make(chan Response, 1)
		pending <- ch
		g.Go(func() error {
			reqCtx := WithRequestID(ctx, req.ID)
			if decodeErr != nil {
				ch <- errorResponse(RequestID(reqCtx), fmt.Errorf("%w: %v", ErrInvalidRequest, decodeErr))
				return nil
			}
			ch <- s.handle(reqCtx, req)
			return nil
		})
	}
	_ = g.Wait()
	close(pending)

	if err := <-written; err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read requests: %w", err)
	}
	return ctx.Err()
}

func (s *Service) handle(ctx context.Context, req Request) Response {
	rid := RequestID(ctx)
	var (
		result any
		err    error
	)
	switch req.Op {
	case "legal":
		result, err = s.IsLegalMove(ctx, req.FEN, req.Move)
	case "next":
		result, err = s.GuessNextMove(ctx, req.FEN)
	case "status":
		result, err = s.Status(ctx, req.FEN)
	default:
		err = fmt.Errorf("%w: unknown op %q", ErrInvalidRequest, req.Op)
	}
	if err != nil {
		return errorResponse(rid, err)
	}
	return Response{ID: rid, Result: result}
}

func errorResponse(rid string, err error) Response {
	return Response{ID: rid, Error: &ErrorBody{Kind: ErrorKind(err), Message: err.Error()}}
}
