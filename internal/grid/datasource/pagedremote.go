package datasource

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	vgriderrors "github.com/chenjieyouge/vgrid/internal/errors"
)

var _ Strategy = (*PagedRemote)(nil)

// PagedRemote is the data strategy variant for server-backed datasets
// (spec §4.4.2): pages are fetched on demand through an injected
// FetchPageFunc, cached by page index, and deduplicated in flight via
// singleflight so that two viewport reads landing on the same
// not-yet-loaded page trigger exactly one network call.
type PagedRemote struct {
	mu sync.Mutex

	pageSize       int
	fetchPage      FetchPageFunc
	fetchSummary   FetchSummaryFunc
	maxCachedPages int

	pageCache map[int][]Row
	totalRows int
	query     Query

	lru   *pageLRU
	group singleflight.Group
}

// NewPagedRemote builds a PagedRemote strategy. maxCachedPages <= 0 means
// unbounded (no eviction).
func NewPagedRemote(pageSize int, fetchPage FetchPageFunc, fetchSummary FetchSummaryFunc, maxCachedPages int) *PagedRemote {
	return &PagedRemote{
		pageSize:       pageSize,
		fetchPage:      fetchPage,
		fetchSummary:   fetchSummary,
		maxCachedPages: maxCachedPages,
		pageCache:      make(map[int][]Row),
		lru:            newPageLRU(maxCachedPages),
	}
}

func (s *PagedRemote) Bootstrap(ctx context.Context) (int, error) {
	if err := s.EnsurePageForRow(ctx, 0); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalRows, nil
}

// SeedPage pre-populates the cache for pageIndex with rows already
// fetched by the caller, so the Bootstrap Policy's paged-remote-retaining
// the first page branch (spec §4.11) doesn't have to re-issue an
// identical fetch just to satisfy the cache.
func (s *PagedRemote) SeedPage(pageIndex int, rows []Row, totalRows int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageCache[pageIndex] = rows
	s.totalRows = totalRows
	s.lru.touch(pageIndex)
	s.lru.setPinned(pageIndex, pageIndex == 0)
}

func (s *PagedRemote) pageAndOffset(rowIndex int) (page, offset int) {
	return rowIndex / s.pageSize, rowIndex % s.pageSize
}

func (s *PagedRemote) GetRow(rowIndex int) (Row, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	page, offset := s.pageAndOffset(rowIndex)
	rows, ok := s.pageCache[page]
	if !ok || offset < 0 || offset >= len(rows) {
		return nil, false
	}
	s.lru.touch(page)
	return rows[offset], true
}

// EnsurePageForRow guarantees the page containing rowIndex is cached. Two
// concurrent calls for the same page share one fetch via singleflight;
// the page containing row 0 and any in-flight page are pinned against LRU
// eviction (spec §4.4.2).
func (s *PagedRemote) EnsurePageForRow(ctx context.Context, rowIndex int) error {
	page, _ := s.pageAndOffset(rowIndex)

	s.mu.Lock()
	if _, ok := s.pageCache[page]; ok {
		s.lru.touch(page)
		s.mu.Unlock()
		return nil
	}
	query := s.query
	s.lru.setPinned(page, true)
	s.mu.Unlock()

	key := strconv.Itoa(page)
	_, err, _ := s.group.Do(key, func() (any, error) {
		resp, err := s.fetchPage(ctx, page, query)
		if err != nil {
			return nil, vgriderrors.NewDataFetchError("failed to fetch page", err)
		}

		s.mu.Lock()
		s.pageCache[page] = resp.List
		s.totalRows = resp.TotalRows
		s.lru.touch(page)
		if page != 0 {
			s.lru.setPinned(page, false)
		}
		s.evictOverflow()
		s.mu.Unlock()
		return nil, nil
	})

	return err
}

// evictOverflow drops the least-recently-used unpinned page until the
// cache is back within maxCachedPages. Caller must hold s.mu.
func (s *PagedRemote) evictOverflow() {
	for {
		page, ok := s.lru.evictIfNeeded(s.pageCache)
		if !ok {
			return
		}
		delete(s.pageCache, page)
	}
}

func (s *PagedRemote) ApplyQuery(ctx context.Context, query Query) (int, bool, error) {
	s.mu.Lock()
	s.pageCache = make(map[int][]Row)
	s.lru.reset()
	s.query = query
	s.mu.Unlock()

	if err := s.EnsurePageForRow(ctx, 0); err != nil {
		return 0, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalRows, true, nil
}

func (s *PagedRemote) GetSummary(ctx context.Context, query Query) (Row, error) {
	if s.fetchSummary == nil {
		return nil, nil
	}
	row, err := s.fetchSummary(ctx, query)
	if err != nil {
		return nil, vgriderrors.NewDataFetchError("failed to fetch summary", err)
	}
	return row, nil
}

func (s *PagedRemote) GetTotalRows() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalRows
}

// GetFilterOptions has no remote-fetch counterpart specified; callers that
// need server-populated filter options should drive their own query
// against fetchSummary-style side channels. Returning nil here keeps
// PagedRemote honest about what it actually knows.
func (s *PagedRemote) GetFilterOptions(key string) []string {
	return nil
}
