package splitter

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitRecursiveShortText(t *testing.T) {
	got := splitRecursive("fits in one piece", 100, 10)
	if len(got) != 1 || got[0] != "fits in one piece" {
		t.Errorf("got %v, want single untouched piece", got)
	}
}

func TestSplitRecursiveEmpty(t *testing.T) {
	if got := splitRecursive("   \n\n  ", 100, 10); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestSplitRecursiveParagraphPriority(t *testing.T) {
	text := "first paragraph of the document body.\n\nsecond paragraph of the document body.\n\nthird paragraph of the document body."

	got := splitRecursive(text, 50, 0)
	if len(got) != 3 {
		t.Fatalf("pieces = %d, want 3: %q", len(got), got)
	}
	for _, piece := range got {
		if strings.Contains(piece, "\n\n") {
			t.Errorf("piece crosses paragraph boundary: %q", piece)
		}
	}
}

func TestSplitRecursiveGreedyMerge(t *testing.T) {
	text := "aa.\n\nbb.\n\ncc.\n\ndd."

	got := splitRecursive(text, 100, 0)
	if len(got) != 1 {
		t.Errorf("small paragraphs should merge into one piece, got %d: %q", len(got), got)
	}
}

func TestSplitRecursiveSizeBound(t *testing.T) {
	text := strings.Repeat("word ", 200)

	got := splitRecursive(text, 50, 0)
	if len(got) < 2 {
		t.Fatalf("pieces = %d, want several", len(got))
	}
	for i, piece := range got {
		if utf8.RuneCountInString(piece) > 50 {
			t.Errorf("piece %d exceeds size: %d runes", i, utf8.RuneCountInString(piece))
		}
	}
}

func TestSplitRecursiveHardCut(t *testing.T) {
	// No separators at all forces the character-level cut.
	text := strings.Repeat("x", 120)

	got := splitRecursive(text, 50, 0)
	if len(got) != 3 {
		t.Fatalf("pieces = %d, want 3", len(got))
	}
	if utf8.RuneCountInString(got[0]) != 50 || utf8.RuneCountInString(got[2]) != 20 {
		t.Errorf("piece sizes = %d, %d, %d", utf8.RuneCountInString(got[0]),
			utf8.RuneCountInString(got[1]), utf8.RuneCountInString(got[2]))
	}
}

func TestSplitRecursiveDeterministic(t *testing.T) {
	text := strings.Repeat("sentence with several words in it.\n", 20)

	first := splitRecursive(text, 80, 15)
	second := splitRecursive(text, 80, 15)

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("piece %d differs between runs", i)
		}
	}
}

func TestApplyOverlap(t *testing.T) {
	pieces := []string{"alpha beta gamma", "delta epsilon", "zeta eta"}

	got := applyOverlap(pieces, 5)
	if got[0] != "alpha beta gamma" {
		t.Errorf("first piece modified: %q", got[0])
	}
	if got[1] != "gamma\ndelta epsilon" {
		t.Errorf("second piece = %q, want trailing overlap prefix", got[1])
	}
	if got[2] != "silon\nzeta eta" {
		t.Errorf("third piece = %q", got[2])
	}
}

func TestApplyOverlapDisabled(t *testing.T) {
	pieces := []string{"one", "two"}
	got := applyOverlap(pieces, 0)
	if got[1] != "two" {
		t.Errorf("overlap 0 must not modify pieces, got %q", got[1])
	}
}

func TestSplitRecursiveThaiRuneSizes(t *testing.T) {
	text := strings.Repeat("มาตรานี้ว่าด้วยการคุ้มครองข้อมูล ", 30)

	got := splitRecursive(text, 60, 0)
	for i, piece := range got {
		if utf8.RuneCountInString(piece) > 60 {
			t.Errorf("piece %d exceeds rune bound: %d", i, utf8.RuneCountInString(piece))
		}
	}
}
