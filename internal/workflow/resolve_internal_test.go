package workflow

import (
	"errors"
	"testing"
)

func TestNormalizeLayout(t *testing.T) {
	tests := []struct {
		name     string
		sections []Section
		textLen  int
		wantOK   bool
	}{
		{
			name:   "empty layout rejected",
			wantOK: false,
		},
		{
			name: "valid contiguous layout",
			sections: []Section{
				{ID: 1, CharStart: 0, CharEnd: 50, Strategy: StrategyStructural},
				{ID: 2, CharStart: 50, CharEnd: 100, Strategy: StrategySemantic},
			},
			textLen: 100,
			wantOK:  true,
		},
		{
			name: "gaps between sections allowed",
			sections: []Section{
				{ID: 1, CharStart: 0, CharEnd: 40, Strategy: StrategyRecursive},
				{ID: 2, CharStart: 60, CharEnd: 100, Strategy: StrategyRecursive},
			},
			textLen: 100,
			wantOK:  true,
		},
		{
			name: "duplicate ids rejected",
			sections: []Section{
				{ID: 1, CharStart: 0, CharEnd: 50, Strategy: StrategyRecursive},
				{ID: 1, CharStart: 50, CharEnd: 100, Strategy: StrategyRecursive},
			},
			textLen: 100,
			wantOK:  false,
		},
		{
			name: "overlap rejected",
			sections: []Section{
				{ID: 1, CharStart: 0, CharEnd: 60, Strategy: StrategyRecursive},
				{ID: 2, CharStart: 40, CharEnd: 100, Strategy: StrategyRecursive},
			},
			textLen: 100,
			wantOK:  false,
		},
		{
			name: "end beyond text rejected",
			sections: []Section{
				{ID: 1, CharStart: 0, CharEnd: 150, Strategy: StrategyRecursive},
			},
			textLen: 100,
			wantOK:  false,
		},
		{
			name: "inverted range rejected",
			sections: []Section{
				{ID: 1, CharStart: 50, CharEnd: 10, Strategy: StrategyRecursive},
			},
			textLen: 100,
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := normalizeLayout(tt.sections, tt.textLen)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && len(got) != len(tt.sections) {
				t.Errorf("length = %d, want %d", len(got), len(tt.sections))
			}
		})
	}
}

func TestNormalizeLayoutDegradesUnknownStrategy(t *testing.T) {
	layout, ok := normalizeLayout([]Section{
		{ID: 1, CharStart: 0, CharEnd: 50, Strategy: "sliding_window"},
		{ID: 2, CharStart: 50, CharEnd: 100, Strategy: StrategySemantic},
	}, 100)
	if !ok {
		t.Fatal("layout rejected")
	}

	if layout[0].Strategy != StrategyRecursive {
		t.Errorf("unknown strategy = %s, want recursive", layout[0].Strategy)
	}
	if layout[1].Strategy != StrategySemantic {
		t.Errorf("valid strategy = %s, want semantic", layout[1].Strategy)
	}
}

func TestFallbackLayout(t *testing.T) {
	layout := fallbackLayout("Annual Report", 2048)

	if len(layout) != 1 {
		t.Fatalf("length = %d, want 1", len(layout))
	}

	sec := layout[0]
	if sec.ID != 1 || sec.CharStart != 0 || sec.CharEnd != 2048 {
		t.Errorf("bounds = {%d %d %d}, want {1 0 2048}", sec.ID, sec.CharStart, sec.CharEnd)
	}
	if sec.Strategy != StrategyRecursive {
		t.Errorf("strategy = %s, want recursive", sec.Strategy)
	}
	if sec.Title != "Annual Report" {
		t.Errorf("title = %q", sec.Title)
	}
}

func TestPreviewClipsRunes(t *testing.T) {
	text := "สวัสดีครับ"
	if got := preview(text, 6); got != "สวัสดี" {
		t.Errorf("preview = %q, want first six runes", got)
	}
	if got := preview(text, 0); got != text {
		t.Errorf("zero limit should return full text, got %q", got)
	}
	if got := preview("short", 100); got != "short" {
		t.Errorf("short text modified: %q", got)
	}
}

func TestFailWith(t *testing.T) {
	run := NewRun("docs/a.txt")
	failWith(run, ErrExtractFailed, errors.New("no such file"))

	if !run.Failed() {
		t.Fatal("run should be failed")
	}
	if run.FatalError != "extraction failed: no such file" {
		t.Errorf("FatalError = %q", run.FatalError)
	}

	failWith(run, ErrCommitFailed, errors.New("later"))
	if run.FatalError != "extraction failed: no such file" {
		t.Errorf("first error overwritten: %q", run.FatalError)
	}
}
