package blockscan_test

import (
	"testing"

	"github.com/pgxplain/xplain/internal/blockscan"
)

func TestHasBlockArray(t *testing.T) {
	source := "some noise\n[\n  {\"a\": 1}\n]\ntrailing noise"
	if !blockscan.HasBlock(source) {
		t.Fatalf("expected array block to be detected")
	}
}

func TestHasBlockObject(t *testing.T) {
	source := "{\n  \"a\": 1\n}"
	if !blockscan.HasBlock(source) {
		t.Fatalf("expected object block to be detected")
	}
}

func TestHasBlockNone(t *testing.T) {
	source := "Seq Scan on t (cost=0.00..1.01 rows=1 width=4)"
	if blockscan.HasBlock(source) {
		t.Fatalf("expected no block to be detected in plain text plan")
	}
}

func TestTrimStripsSurroundingNoise(t *testing.T) {
	source := "psql output header\n[\n  {\"a\": 1}\n]\n(3 rows)"
	trimmed := blockscan.Trim(source)
	want := "[\n  {\"a\": 1}\n]"
	if trimmed != want {
		t.Fatalf("Trim() = %q, want %q", trimmed, want)
	}
}

func TestTrimUnchangedWhenNoBlock(t *testing.T) {
	source := "no brackets here"
	if blockscan.Trim(source) != source {
		t.Fatalf("expected Trim to return source unchanged")
	}
}

func TestFindMatchesClosingIndentation(t *testing.T) {
	lines := []string{"  [", "    1,", "    2", "  ]"}
	start, end, ok := blockscan.Find(lines)
	if !ok || start != 0 || end != 3 {
		t.Fatalf("Find() = (%d, %d, %v), want (0, 3, true)", start, end, ok)
	}
}
