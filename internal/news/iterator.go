package news

// quotaIterator hands out candidates in order until the accepted count
// reaches the remaining quota or the candidates run out.
type quotaIterator struct {
	items     []Item
	pos       int
	remaining int
	accepted  int
	done      bool
}

func newQuotaIterator(items []Item, remaining int) *quotaIterator {
	return &quotaIterator{
		items:     items,
		remaining: remaining,
		done:      remaining <= 0,
	}
}

// Next returns the next candidate, or false once the quota is met or the
// candidates are exhausted.
func (it *quotaIterator) Next() (Item, bool) {
	if it.done || it.pos >= len(it.items) {
		return Item{}, false
	}
	item := it.items[it.pos]
	it.pos++
	return item, true
}

// Accept records a persisted acceptance and evaluates the stop condition
func (it *quotaIterator) Accept() {
	it.accepted++
	if it.accepted >= it.remaining {
		it.done = true
	}
}

func (it *quotaIterator) Accepted() int {
	return it.accepted
}

// QuotaMet reports whether iteration stopped because of the quota
func (it *quotaIterator) QuotaMet() bool {
	return it.done
}
