package state

import "testing"

func TestClampCursor(t *testing.T) {
	if got := ClampCursor(-1, 3); got != 0 {
		t.Fatalf("expected clamp to 0, got %d", got)
	}
	if got := ClampCursor(3, 3); got != 2 {
		t.Fatalf("expected clamp to 2, got %d", got)
	}
	if got := ClampCursor(1, 3); got != 1 {
		t.Fatalf("expected keep 1, got %d", got)
	}
	if got := ClampCursor(5, 0); got != 0 {
		t.Fatalf("expected 0 for empty list, got %d", got)
	}
}

func TestPageStep(t *testing.T) {
	if got := PageStep(0, false); got != 10 {
		t.Fatalf("expected default step 10, got %d", got)
	}
	if got := PageStep(12, false); got != 6 {
		t.Fatalf("expected step 6, got %d", got)
	}
	if got := PageStep(12, true); got != 4 {
		t.Fatalf("expected step 4 with status, got %d", got)
	}
	if got := PageStep(5, true); got != 3 {
		t.Fatalf("expected minimum step 3, got %d", got)
	}
}

func TestCenteredWindow(t *testing.T) {
	cases := []struct {
		total, cursor, height int
		start, end            int
	}{
		{0, 0, 5, 0, 0},
		{4, 2, 10, 0, 4},
		{10, 0, 4, 0, 4},
		{10, 5, 4, 3, 7},
		{10, 9, 4, 6, 10},
	}
	for _, tc := range cases {
		start, end := CenteredWindow(tc.total, tc.cursor, tc.height)
		if start != tc.start || end != tc.end {
			t.Fatalf("CenteredWindow(%d, %d, %d) = (%d, %d), want (%d, %d)", tc.total, tc.cursor, tc.height, start, end, tc.start, tc.end)
		}
	}
}

func TestSplitWidths(t *testing.T) {
	if list, detail := SplitWidths(60, 0.5); list != 60 || detail != 60 {
		t.Fatalf("expected single pane widths, got %d/%d", list, detail)
	}
	if list, detail := SplitWidths(100, 0.45); list != 45 || detail != 55 {
		t.Fatalf("unexpected split %d/%d", list, detail)
	}
	if list, _ := SplitWidths(100, 0.95); list != 80 {
		t.Fatalf("expected detail pane to keep 20 columns, got list=%d", list)
	}
}

func TestNudgeRatio(t *testing.T) {
	if got := NudgeRatio(0.5, 0.05, 0.25, 0.75); got < 0.549 || got > 0.551 {
		t.Fatalf("unexpected ratio %f", got)
	}
	if got := NudgeRatio(0.74, 0.05, 0.25, 0.75); got != 0.75 {
		t.Fatalf("expected clamp to 0.75, got %f", got)
	}
	if got := NudgeRatio(0.26, -0.05, 0.25, 0.75); got != 0.25 {
		t.Fatalf("expected clamp to 0.25, got %f", got)
	}
}
