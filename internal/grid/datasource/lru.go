package datasource

import "container/list"

// pageLRU bounds a page cache by recency of use. Nothing in the example
// corpus ships a generic LRU, so this is a small hand-rolled one built on
// container/list; see DESIGN.md for why no third-party cache library was
// pulled in for this single call site.
type pageLRU struct {
	capacity int
	order    *list.List
	elems    map[int]*list.Element
	pinned   map[int]bool
}

type lruEntry struct {
	page int
}

func newPageLRU(capacity int) *pageLRU {
	return &pageLRU{
		capacity: capacity,
		order:    list.New(),
		elems:    make(map[int]*list.Element),
		pinned:   make(map[int]bool),
	}
}

// touch marks page as most-recently-used, inserting it if absent.
func (l *pageLRU) touch(page int) {
	if el, ok := l.elems[page]; ok {
		l.order.MoveToFront(el)
		return
	}
	el := l.order.PushFront(lruEntry{page: page})
	l.elems[page] = el
}

// setPinned marks a page as exempt from eviction (row-0 anchor, or a page
// whose fetch is currently in flight).
func (l *pageLRU) setPinned(page int, pinned bool) {
	if pinned {
		l.pinned[page] = true
	} else {
		delete(l.pinned, page)
	}
}

// evictIfNeeded returns the page to evict, if the cache is over capacity
// and an unpinned candidate exists; ok is false otherwise.
func (l *pageLRU) evictIfNeeded(cached map[int][]Row) (page int, ok bool) {
	if l.capacity <= 0 || len(cached) <= l.capacity {
		return 0, false
	}
	for el := l.order.Back(); el != nil; el = el.Prev() {
		entry := el.Value.(lruEntry)
		if l.pinned[entry.page] {
			continue
		}
		if _, exists := cached[entry.page]; !exists {
			continue
		}
		l.order.Remove(el)
		delete(l.elems, entry.page)
		return entry.page, true
	}
	return 0, false
}

func (l *pageLRU) remove(page int) {
	if el, ok := l.elems[page]; ok {
		l.order.Remove(el)
		delete(l.elems, page)
	}
	delete(l.pinned, page)
}

func (l *pageLRU) reset() {
	l.order.Init()
	l.elems = make(map[int]*list.Element)
	l.pinned = make(map[int]bool)
}
