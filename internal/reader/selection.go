package reader

type SelectionKind int

const (
	SelectNone SelectionKind = iota
	SelectIndex
	SelectSentinel
)

// Selection points at a real item, the trailing load-more sentinel, or nothing.
type Selection struct {
	Kind  SelectionKind
	Index int
}

func (s Selection) IsItem() bool {
	return s.Kind == SelectIndex
}

// Position maps the selection onto a row position, -1 for none.
func (s Selection) Position(items int) int {
	switch s.Kind {
	case SelectIndex:
		return s.Index
	case SelectSentinel:
		return items
	default:
		return -1
	}
}

// Tracker keeps a clamped cursor over items plus an optional sentinel row.
// Movement never wraps.
type Tracker struct {
	sel         Selection
	items       int
	hasSentinel bool
}

func (t *Tracker) Current() Selection {
	return t.sel
}

func (t *Tracker) total() int {
	if t.hasSentinel {
		return t.items + 1
	}
	return t.items
}

func (t *Tracker) setPosition(pos int) {
	total := t.total()
	if total == 0 {
		t.sel = Selection{Kind: SelectNone}
		return
	}
	if pos < 0 {
		pos = 0
	}
	if pos >= total {
		pos = total - 1
	}
	if t.hasSentinel && pos == t.items {
		t.sel = Selection{Kind: SelectSentinel, Index: pos}
		return
	}
	t.sel = Selection{Kind: SelectIndex, Index: pos}
}

func (t *Tracker) MoveNext() {
	t.MoveBy(1)
}

func (t *Tracker) MovePrevious() {
	t.MoveBy(-1)
}

func (t *Tracker) MoveBy(delta int) {
	if t.sel.Kind == SelectNone {
		t.setPosition(0)
		return
	}
	t.setPosition(t.sel.Position(t.items) + delta)
}

func (t *Tracker) First() {
	t.setPosition(0)
}

func (t *Tracker) Last() {
	t.setPosition(t.total() - 1)
}

// Reset selects the first row of a fresh list.
func (t *Tracker) Reset(items int, hasSentinel bool) {
	t.items = items
	t.hasSentinel = hasSentinel
	t.setPosition(0)
}

// ClampTo re-validates the cursor after the list changed shape.
func (t *Tracker) ClampTo(items int, hasSentinel bool) {
	prev := t.sel
	prevItems := t.items
	t.items = items
	t.hasSentinel = hasSentinel
	switch prev.Kind {
	case SelectNone:
		t.setPosition(0)
	case SelectSentinel:
		if hasSentinel {
			t.sel = Selection{Kind: SelectSentinel, Index: items}
			return
		}
		t.setPosition(prevItems)
	default:
		t.setPosition(prev.Index)
	}
}

// AfterAppend applies load-more continuity: a cursor parked on the sentinel
// moves to the first appended item.
func (t *Tracker) AfterAppend(prevItems, appended int, hasSentinel bool) {
	wasSentinel := t.sel.Kind == SelectSentinel
	if wasSentinel && appended > 0 {
		t.items = prevItems + appended
		t.hasSentinel = hasSentinel
		t.sel = Selection{Kind: SelectIndex, Index: prevItems}
		return
	}
	t.ClampTo(prevItems+appended, hasSentinel)
}
