// Package datasource implements the Data Strategy abstraction (spec
// §4.4): a uniform contract over an in-memory dataset and a paged-remote
// dataset with an LRU page cache and in-flight fetch deduplication.
package datasource

import (
	"context"

	"github.com/chenjieyouge/vgrid/internal/grid/gridstate"
)

// Row is a single record. Cell values are looked up by column key.
type Row map[string]any

// Query is the state-level query translated into a Data Strategy call
// (spec §4.4, §6 "Query").
type Query struct {
	SortKey       string
	SortDirection gridstate.SortDirection
	HasSort       bool
	FilterText    string
	ColumnFilters map[string]gridstate.ColumnFilter
}

// PageResponse is what an injected fetchPage call returns.
type PageResponse struct {
	List      []Row
	TotalRows int
}

// FetchPageFunc loads one page of a paged-remote dataset.
type FetchPageFunc func(ctx context.Context, pageIndex int, query Query) (PageResponse, error)

// FetchSummaryFunc loads a remote summary row for the current query.
type FetchSummaryFunc func(ctx context.Context, query Query) (Row, error)

// Strategy is the capability set implemented by InMemory and PagedRemote
// (spec §4.4 and §9 "Polymorphic data source").
type Strategy interface {
	// Bootstrap performs whatever one-time setup is needed and reports
	// the initial total row count.
	Bootstrap(ctx context.Context) (totalRows int, err error)

	// GetRow is synchronous and cheap: it must never block on I/O. It
	// returns ok == false when the row isn't available yet (paged-remote,
	// page not loaded) or is out of range.
	GetRow(rowIndex int) (row Row, ok bool)

	// EnsurePageForRow guarantees that, once it returns without error,
	// the page containing rowIndex is present in the cache (or a no-op
	// for the in-memory strategy). It is idempotent: concurrent calls
	// for the same page share one underlying fetch.
	EnsurePageForRow(ctx context.Context, rowIndex int) error

	// ApplyQuery re-evaluates the dataset under a new query.
	ApplyQuery(ctx context.Context, query Query) (totalRows int, shouldResetScroll bool, err error)

	// GetSummary computes (or fetches) the aggregate summary row for the
	// current or given query.
	GetSummary(ctx context.Context, query Query) (Row, error)

	// GetTotalRows returns the last-known filtered total row count.
	GetTotalRows() int

	// GetFilterOptions returns the distinct stringified values observed
	// for a column, for filter-UX population.
	GetFilterOptions(key string) []string
}
