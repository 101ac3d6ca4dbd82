package splitter

import (
	"strings"
	"testing"
)

func TestSplitStructuralThaiArticles(t *testing.T) {
	text := "มาตรา 1 บุคคลย่อมมีสิทธิ\n\nมาตรา 2 การจำกัดสิทธิจะกระทำมิได้\n\nมาตรา 3 บทบัญญัติสุดท้าย"

	got := splitStructural(text, 500, 0)
	if len(got) != 3 {
		t.Fatalf("parts = %d, want 3: %q", len(got), got)
	}
	for i, part := range got {
		if !strings.HasPrefix(part, "มาตรา") {
			t.Errorf("part %d does not start at a marker: %q", i, part)
		}
	}
}

func TestSplitStructuralQA(t *testing.T) {
	text := "คำถาม: ระบบคืออะไร\nตอบ: ระบบจัดการเอกสาร\n\nคำถาม: ใช้อย่างไร\nตอบ: ส่งไฟล์เข้ามา"

	got := splitStructural(text, 500, 0)
	if len(got) != 2 {
		t.Fatalf("parts = %d, want 2: %q", len(got), got)
	}
}

func TestSplitStructuralEnglishSections(t *testing.T) {
	text := "Section 1\nScope of the agreement.\n\nSection 2\nDefinitions used throughout.\n\nSection 3\nTermination."

	got := splitStructural(text, 500, 0)
	if len(got) != 3 {
		t.Fatalf("parts = %d, want 3: %q", len(got), got)
	}
}

func TestSplitStructuralKeepsPrefix(t *testing.T) {
	text := "Preamble before any marker.\n\nArticle 1\nFirst.\n\nArticle 2\nSecond."

	got := splitStructural(text, 500, 0)
	if len(got) != 3 {
		t.Fatalf("parts = %d, want 3 (prefix + 2 articles): %q", len(got), got)
	}
	if !strings.HasPrefix(got[0], "Preamble") {
		t.Errorf("prefix lost: %q", got[0])
	}
}

func TestSplitStructuralSingleMarkerRejected(t *testing.T) {
	text := "Article 1\nOnly one marker in the whole text."

	if got := splitStructural(text, 500, 0); got != nil {
		t.Errorf("single marker should yield nil, got %q", got)
	}
}

func TestSplitStructuralNoMarkers(t *testing.T) {
	if got := splitStructural("plain prose without any anchors", 500, 0); got != nil {
		t.Errorf("got %q, want nil", got)
	}
}

func TestSplitStructuralOversizedPartSubSplit(t *testing.T) {
	long := strings.Repeat("provision text with details. ", 20)
	text := "Article 1\n" + long + "\n\nArticle 2\nShort."

	got := splitStructural(text, 100, 10)
	if len(got) < 3 {
		t.Fatalf("parts = %d, want oversized article sub-split", len(got))
	}
	if got[len(got)-1] != "Article 2\nShort." {
		t.Errorf("last part = %q", got[len(got)-1])
	}
}

func TestSplitStructuralMidlineMarkerIgnored(t *testing.T) {
	// Markers must anchor at line starts.
	text := "the phrase Article 1 appears midline here\nand Article 2 again midline"

	if got := splitStructural(text, 500, 0); got != nil {
		t.Errorf("midline mentions matched as markers: %q", got)
	}
}
