package reader

// PageState is a snapshot of the accumulated list for the active view.
type PageState struct {
	Items       []Item
	CurrentPage int
	NextPage    int
	HasNext     bool
	TotalCount  int
}

// Accumulator owns the loaded items and pagination cursor of one view session.
type Accumulator struct {
	items       []Item
	currentPage int
	nextPage    int
	hasNext     bool
	totalCount  int
}

func (a *Accumulator) Len() int {
	return len(a.items)
}

func (a *Accumulator) HasSentinel() bool {
	return a.hasNext
}

func (a *Accumulator) CanLoadMore() bool {
	return a.hasNext
}

func (a *Accumulator) NextPage() int {
	return a.nextPage
}

func (a *Accumulator) At(i int) (Item, bool) {
	if i < 0 || i >= len(a.items) {
		return Item{}, false
	}
	return a.items[i], true
}

// Replace discards the current session and starts a new one from page.
func (a *Accumulator) Replace(page Page) {
	a.items = append([]Item(nil), page.Items...)
	a.currentPage = page.Page
	if a.currentPage < 1 {
		a.currentPage = 1
	}
	a.setNext(page)
	a.totalCount = page.TotalCount
}

// Append extends the session with the next page and returns how many items were added.
func (a *Accumulator) Append(page Page) int {
	a.items = append(a.items, page.Items...)
	if page.Page > 0 {
		a.currentPage = page.Page
	} else {
		a.currentPage = a.nextPage
	}
	a.setNext(page)
	if page.TotalCount > 0 {
		a.totalCount = page.TotalCount
	}
	return len(page.Items)
}

func (a *Accumulator) setNext(page Page) {
	a.hasNext = page.HasNext
	a.nextPage = 0
	if page.HasNext {
		a.nextPage = page.NextPage
	}
}

// ReplaceItem overwrites the item with the same number in place.
func (a *Accumulator) ReplaceItem(item Item) bool {
	i := a.indexOf(item.Number)
	if i < 0 {
		return false
	}
	a.items[i] = item
	return true
}

func (a *Accumulator) indexOf(number int) int {
	for i := range a.items {
		if a.items[i].Number == number {
			return i
		}
	}
	return -1
}

func (a *Accumulator) Snapshot() PageState {
	items := make([]Item, len(a.items))
	copy(items, a.items)
	return PageState{
		Items:       items,
		CurrentPage: a.currentPage,
		NextPage:    a.nextPage,
		HasNext:     a.hasNext,
		TotalCount:  a.totalCount,
	}
}
