// Package state holds the pure layout arithmetic behind the list pane.
package state

// SinglePaneWidth is the terminal width below which the detail pane replaces
// the list instead of sitting beside it.
const SinglePaneWidth = 80

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

func PageStep(height int, hasStatus bool) int {
	if height <= 0 {
		return 10
	}
	headerLines := 6
	if hasStatus {
		headerLines += 2
	}
	step := height - headerLines
	if step < 3 {
		step = 3
	}
	return step
}

func CenteredWindow(totalRows, cursor, height int) (int, int) {
	if totalRows <= 0 {
		return 0, 0
	}
	if height <= 0 || totalRows <= height {
		return 0, totalRows
	}
	cursor = ClampCursor(cursor, totalRows)
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	maxStart := totalRows - height
	if start > maxStart {
		start = maxStart
	}
	return start, start + height
}

// SplitWidths divides width between the list and detail panes. In single
// pane mode the list gets everything.
func SplitWidths(width int, ratio float64) (list, detail int) {
	if width < SinglePaneWidth {
		return width, width
	}
	list = int(float64(width) * ratio)
	if list < 20 {
		list = 20
	}
	if list > width-20 {
		list = width - 20
	}
	return list, width - list
}

// NudgeRatio moves ratio by delta, clamped to [lo, hi].
func NudgeRatio(ratio, delta, lo, hi float64) float64 {
	ratio += delta
	if ratio < lo {
		return lo
	}
	if ratio > hi {
		return hi
	}
	return ratio
}
