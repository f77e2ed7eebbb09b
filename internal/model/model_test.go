package model_test

import (
	"testing"

	"github.com/pgxplain/xplain/internal/model"
)

func TestTitleCase(t *testing.T) {
	cases := map[string]string{
		"i/o read time": "I O Read Time",
		"rows removed":  "Rows Removed",
		"heap blks hit": "Heap Blks Hit",
	}
	for in, want := range cases {
		if got := model.TitleCase(in); got != want {
			t.Fatalf("TitleCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSetBufferKnownKindFallsIntoTypedField(t *testing.T) {
	n := &model.Node{}
	n.SetBuffer("shared", "hit", 7)
	if n.Buffers.SharedHit != 7 {
		t.Fatalf("expected typed SharedHit field to be set, got %+v", n.Buffers)
	}
	if n.Extra != nil {
		t.Fatalf("expected no Extra fallback for a known buffer kind/method pair")
	}
}

func TestSetBufferUnknownKindFallsIntoExtra(t *testing.T) {
	n := &model.Node{}
	n.SetBuffer("exotic", "hit", 3)
	if n.Extra["Exotic Hit Blocks"] != int64(3) {
		t.Fatalf("expected unknown buffer kind to fall through to Extra, got %+v", n.Extra)
	}
}

func TestNewParseErrorFormatsMessage(t *testing.T) {
	err := model.NewParseError("bad thing: %d", 42)
	if err.Error() != "bad thing: 42" {
		t.Fatalf("unexpected error message: %q", err.Error())
	}
}
