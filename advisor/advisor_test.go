package advisor_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"chess-advisor/advisor"
	"chess-advisor/engine"
	"chess-advisor/position"
)

func newService(t *testing.T) *advisor.Service {
	t.Helper()
	opts := advisor.DefaultOptions()
	opts.Search = engine.Config{Depth: 3, TTSizeMB: 2}
	svc, err := advisor.New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return svc
}

func TestIsLegalMove(t *testing.T) {
	svc := newService(t)
	tests := []struct {
		name string
		fen  string
		move string
		want advisor.MoveLegality
	}{
		{
			name: "opening push",
			fen:  position.StartFEN,
			move: "e2e4",
			want: advisor.MoveLegality{FEN: position.StartFEN, Move: "e2e4", Legal: true},
		},
		{
			name: "upper-case promotion is echoed as given",
			fen:  "8/P6k/8/8/8/8/8/K7 w - - 0 1",
			move: "a7a8Q",
			want: advisor.MoveLegality{FEN: "8/P6k/8/8/8/8/8/K7 w - - 0 1", Move: "a7a8Q", Legal: true},
		},
		{
			name: "upper-case squares",
			fen:  position.StartFEN,
			move: "E2E4",
			want: advisor.MoveLegality{FEN: position.StartFEN, Move: "E2E4", Legal: true},
		},
		{
			name: "castling through check",
			fen:  "4k3/8/8/8/8/8/5r2/4K2R w K - 0 1",
			move: "e1g1",
			want: advisor.MoveLegality{
				FEN: "4k3/8/8/8/8/8/5r2/4K2R w K - 0 1", Move: "e1g1",
				Reason: "king side castling: king passes through an attacked square",
			},
		},
		{
			name: "pinned piece",
			fen:  "4k3/4r3/8/8/8/8/4B3/4K3 w - - 0 1",
			move: "e2d3",
			want: advisor.MoveLegality{
				FEN: "4k3/4r3/8/8/8/8/4B3/4K3 w - - 0 1", Move: "e2d3",
				Reason: "move leaves the king in check",
			},
		},
		{
			name: "empty origin",
			fen:  position.StartFEN,
			move: "e3e4",
			want: advisor.MoveLegality{FEN: position.StartFEN, Move: "e3e4", Reason: "no piece on e3"},
		},
		{
			name: "promotion letter from an empty square",
			fen:  position.StartFEN,
			move: "e3e4q",
			want: advisor.MoveLegality{FEN: position.StartFEN, Move: "e3e4q", Reason: "no piece on e3"},
		},
		{
			name: "wrong side",
			fen:  position.StartFEN,
			move: "e7e5",
			want: advisor.MoveLegality{FEN: position.StartFEN, Move: "e7e5", Reason: "piece on e7 belongs to black"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.IsLegalMove(context.Background(), tt.fen, tt.move)
			if err != nil {
				t.Fatalf("IsLegalMove: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestMalformedInputIsAnError(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if _, err := svc.IsLegalMove(ctx, "not a fen", "e2e4"); !errors.Is(err, position.ErrMalformedPosition) {
		t.Errorf("bad FEN: got %v", err)
	}
	for _, move := range []string{"", "e2", "e2e9", "e7e8", "e2e4x", "0000"} {
		fen := position.StartFEN
		if move == "e7e8" {
			// pawn promotion without a piece
			fen = "k7/4P3/8/8/8/8/8/4K3 w - - 0 1"
		}
		if _, err := svc.IsLegalMove(ctx, fen, move); !errors.Is(err, position.ErrMalformedMove) {
			t.Errorf("move %q: got %v, want ErrMalformedMove", move, err)
		}
	}
	if _, err := svc.GuessNextMove(ctx, "8/8/8/8/8/8/8/8 w - - 0 1"); !errors.Is(err, position.ErrMalformedPosition) {
		t.Errorf("kingless board: got %v", err)
	}
}

func TestGuessNextMove(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	got, err := svc.GuessNextMove(ctx, "7k/6pp/6Q1/8/8/2B5/8/6K1 w - - 0 1")
	if err != nil {
		t.Fatalf("GuessNextMove: %v", err)
	}
	if got.NextMove != "g6g7" || got.Score != engine.MateScore-1 {
		t.Fatalf("got %+v, want g6g7 with a mate score", got)
	}

	for _, fen := range []string{
		"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3",
		"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
	} {
		got, err := svc.GuessNextMove(ctx, fen)
		if err != nil {
			t.Fatalf("%s: %v", fen, err)
		}
		if got.NextMove != "" || got.FEN != fen {
			t.Fatalf("%s: got %+v, want no move", fen, got)
		}
		raw, _ := json.Marshal(got)
		if strings.Contains(string(raw), "nextMove") {
			t.Fatalf("no-move answer should omit nextMove: %s", raw)
		}
	}
}

func TestStatus(t *testing.T) {
	svc := newService(t)
	tests := []struct {
		fen  string
		want position.Status
		in   bool
	}{
		{position.StartFEN, position.Ongoing, false},
		{"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", position.Checkmate, true},
		{"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", position.Stalemate, false},
		{"4k3/8/8/8/8/8/8/4KB2 w - - 0 1", position.InsufficientMaterial, false},
	}
	for _, tt := range tests {
		got, err := svc.Status(context.Background(), tt.fen)
		if err != nil {
			t.Fatalf("%s: %v", tt.fen, err)
		}
		if got.Status != tt.want || got.InCheck != tt.in {
			t.Errorf("%s: got %+v, want %v (in check %v)", tt.fen, got, tt.want, tt.in)
		}
	}
}

func TestNewRejectsUnboundedSearch(t *testing.T) {
	opts := advisor.DefaultOptions()
	opts.Search = engine.Config{}
	if _, err := advisor.New(opts); !errors.Is(err, engine.ErrInvalidConfig) {
		t.Fatalf("got %v, want ErrInvalidConfig", err)
	}
}

func TestServe(t *testing.T) {
	var logs bytes.Buffer
	opts := advisor.DefaultOptions()
	opts.Search = engine.Config{Depth: 2, TTSizeMB: 1}
	opts.Concurrency = 3
	opts.Logger = zerolog.New(zerolog.SyncWriter(&logs)).Level(zerolog.DebugLevel)
	svc, err := advisor.New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	in := strings.Join([]string{
		`{"id":"a","op":"legal","fen":"` + position.StartFEN + `","move":"g1f3"}`,
		`{"id":"b","op":"next","fen":"k7/8/8/3q4/8/8/8/K2R4 w - - 0 1"}`,
		``,
		`{"id":"c","op":"status","fen":"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"}`,
		`{"id":"d","op":"legal","fen":"garbage","move":"e2e4"}`,
		`{"id":"e","op":"legal","fen":"` + position.StartFEN + `","move":"zz"}`,
		`{"id":"f","op":"resign","fen":"` + position.StartFEN + `"}`,
		`{not json`,
	}, "\n")

	var out bytes.Buffer
	if err := svc.Serve(context.Background(), strings.NewReader(in), &out); err != nil {
		t.Fatalf("Serve: %v", err)
	}

	type line struct {
		ID     string             `json:"id"`
		Result map[string]any     `json:"result"`
		Error  *advisor.ErrorBody `json:"error"`
	}
	var got []line
	dec := json.NewDecoder(&out)
	for dec.More() {
		var l line
		if err := dec.Decode(&l); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		got = append(got, l)
	}
	if len(got) != 7 {
		t.Fatalf("got %d responses, want 7", len(got))
	}

	ids := []string{"a", "b", "c", "d", "e", "f"}
	for i, id := range ids {
		if got[i].ID != id {
			t.Fatalf("response %d has id %q, want %q", i, got[i].ID, id)
		}
	}
	if got[6].ID == "" {
		t.Errorf("undecodable request should still get a generated id")
	}

	if got[0].Result["legal"] != true {
		t.Errorf("legal: %+v", got[0])
	}
	if got[1].Result["nextMove"] != "d1d5" {
		t.Errorf("next: %+v", got[1])
	}
	if got[2].Result["status"] != "stalemate" {
		t.Errorf("status: %+v", got[2])
	}

	kinds := map[int]string{
		3: advisor.KindMalformedPosition,
		4: advisor.KindMalformedMove,
		5: advisor.KindInvalidRequest,
		6: advisor.KindInvalidRequest,
	}
	for i, kind := range kinds {
		if got[i].Error == nil || got[i].Error.Kind != kind {
			t.Errorf("response %d: error %+v, want kind %s", i, got[i].Error, kind)
		}
	}
	if !strings.Contains(logs.String(), `"rid":"b"`) {
		t.Errorf("request id missing from logs:\n%s", logs.String())
	}
}

func TestServeStopsOnCancelledContext(t *testing.T) {
	svc := newService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	err := svc.Serve(ctx, strings.NewReader(`{"op":"status","fen":"`+position.StartFEN+`"}`), &out)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}

func TestRequestID(t *testing.T) {
	ctx := advisor.WithRequestID(context.Background(), "")
	if len(advisor.RequestID(ctx)) != 36 {
		t.Fatalf("generated id %q is not a UUID", advisor.RequestID(ctx))
	}
	if got := advisor.RequestID(advisor.WithRequestID(context.Background(), "x1")); got != "x1" {
		t.Fatalf("got %q", got)
	}
}
