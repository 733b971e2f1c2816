package domain

// Accumulator is the page-by-page list for one listing context.
type Accumulator struct {
	items   []Restaurant
	ids     map[string]struct{}
	page    int
	hasMore bool
}

func NewAccumulator() *Accumulator {
	a := &Accumulator{}
	a.Reset()
	return a
}

// Reset empties the list and rewinds the cursor to before the first page.
func (a *Accumulator) Reset() {
	a.items = nil
	a.ids = make(map[string]struct{})
	a.page = 0
	a.hasMore = true
}

// Append adds the unseen restaurants of page number pageNumber. HasMore becomes
// len(page) == limit: a full page is assumed to have a successor.
func (a *Accumulator) Append(pageNumber int, page []Restaurant, limit int) int {
	added := 0
	for _, r := range page {
		if _, seen := a.ids[r.ID]; seen {
			continue
		}
		a.ids[r.ID] = struct{}{}
		a.items = append(a.items, r)
		added++
	}
	if pageNumber > a.page {
		a.page = pageNumber
	}
	a.hasMore = limit > 0 && len(page) == limit
	return added
}

func (a *Accumulator) Items() []Restaurant {
	out := make([]Restaurant, len(a.items))
	copy(out, a.items)
	return out
}

func (a *Accumulator) Len() int      { return len(a.items) }
func (a *Accumulator) Page() int     { return a.page }
func (a *Accumulator) HasMore() bool { return a.hasMore }

// NextPage is the page number LoadMore should request.
func (a *Accumulator) NextPage() int { return a.page + 1 }
