package datasource

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/chenjieyouge/vgrid/internal/grid/column"
	"github.com/chenjieyouge/vgrid/internal/grid/gridstate"
)

var _ Strategy = (*InMemory)(nil)

// InMemory is the data strategy variant for datasets that fit entirely in
// memory (spec §4.4.1): filtering and sorting run over the full dataset on
// every applyQuery, with no paging or network I/O involved.
type InMemory struct {
	mu       sync.Mutex
	columns  []column.Column
	fullData []Row
	filtered []Row
	query    Query
	collator *collate.Collator
}

// NewInMemory builds an InMemory strategy over data, using columns to look
// up each key's SummaryType (for GetSummary). Sorting does not consult
// DataType: cellLess decides numeric-vs-string per pair of cell values.
func NewInMemory(columns []column.Column, data []Row) *InMemory {
	full := make([]Row, len(data))
	copy(full, data)
	return &InMemory{
		columns:  columns,
		fullData: full,
		collator: collate.New(language.Und),
	}
}

func (s *InMemory) Bootstrap(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filtered = make([]Row, len(s.fullData))
	copy(s.filtered, s.fullData)
	return len(s.filtered), nil
}

func (s *InMemory) GetRow(rowIndex int) (Row, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rowIndex < 0 || rowIndex >= len(s.filtered) {
		return nil, false
	}
	return s.filtered[rowIndex], true
}

// EnsurePageForRow is a no-op: every row is already resident in memory.
func (s *InMemory) EnsurePageForRow(ctx context.Context, rowIndex int) error {
	return nil
}

func (s *InMemory) ApplyQuery(ctx context.Context, query Query) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.query = query

	filtered := make([]Row, 0, len(s.fullData))
	for _, row := range s.fullData {
		if s.passesFilters(row, query) {
			filtered = append(filtered, row)
		}
	}

	if query.HasSort {
		s.sortRows(filtered, query.SortKey, query.SortDirection)
	}

	s.filtered = filtered
	return len(s.filtered), true, nil
}

func (s *InMemory) passesFilters(row Row, query Query) bool {
	if query.FilterText != "" {
		if !rowContainsText(row, query.FilterText) {
			return false
		}
	}
	for key, filter := range query.ColumnFilters {
		if !passesColumnFilter(row[key], filter) {
			return false
		}
	}
	return true
}

func rowContainsText(row Row, text string) bool {
	needle := strings.ToLower(text)
	for _, v := range row {
		if strings.Contains(strings.ToLower(stringify(v)), needle) {
			return true
		}
	}
	return false
}

func passesColumnFilter(value any, filter gridstate.ColumnFilter) bool {
	switch filter.Kind {
	case gridstate.ColumnFilterKindSet:
		if len(filter.Values) == 0 {
			return true
		}
		s := stringify(value)
		for _, v := range filter.Values {
			if v == s {
				return true
			}
		}
		return false

	case gridstate.ColumnFilterText:
		if filter.Value == "" {
			return true
		}
		return strings.Contains(strings.ToLower(stringify(value)), strings.ToLower(filter.Value))

	case gridstate.ColumnFilterDateRange:
		s := stringify(value)
		if filter.Start != nil && s < *filter.Start {
			return false
		}
		if filter.End != nil && s > *filter.End {
			return false
		}
		return true

	case gridstate.ColumnFilterNumberRange:
		n, ok := toFloat(value)
		if !ok {
			return false
		}
		if filter.Min != nil && n < *filter.Min {
			return false
		}
		if filter.Max != nil && n > *filter.Max {
			return false
		}
		return true

	default:
		return true
	}
}

func (s *InMemory) sortRows(rows []Row, key string, direction gridstate.SortDirection) {
	less := func(i, j int) bool {
		if direction == gridstate.SortDesc {
			return s.cellLess(rows[j][key], rows[i][key])
		}
		return s.cellLess(rows[i][key], rows[j][key])
	}
	insertionSortRows(rows, less)
}

// cellLess compares two cell values: numerically when both parse as finite
// numbers, otherwise via locale-aware string comparison (spec §4.4.1).
func (s *InMemory) cellLess(a, b any) bool {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af < bf
		}
	}
	return s.collator.CompareString(stringify(a), stringify(b)) < 0
}

// insertionSortRows is a stable sort; stability matters because two rows
// that compare equal under the active sort key must keep their relative
// fullData order across repeated applyQuery calls.
func insertionSortRows(rows []Row, less func(i, j int) bool) {
	for i := 1; i < len(rows); i++ {
		for j := i; j > 0 && less(j, j-1); j-- {
			rows[j-1], rows[j] = rows[j], rows[j-1]
		}
	}
}

func (s *InMemory) GetSummary(ctx context.Context, query Query) (Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := make(Row, len(s.columns))
	for _, col := range s.columns {
		if col.SummaryType == column.SummaryNone || col.SummaryType == "" {
			continue
		}
		summary[col.Key] = aggregate(s.filtered, col.Key, col.SummaryType)
	}
	return summary, nil
}

func aggregate(rows []Row, key string, kind column.SummaryType) any {
	switch kind {
	case column.SummaryCount:
		return len(rows)
	case column.SummarySum, column.SummaryAvg, column.SummaryMax, column.SummaryMin:
		var sum float64
		var max, min float64
		count := 0
		for _, row := range rows {
			n, ok := toFloat(row[key])
			if !ok {
				continue
			}
			if count == 0 {
				max, min = n, n
			}
			if n > max {
				max = n
			}
			if n < min {
				min = n
			}
			sum += n
			count++
		}
		switch kind {
		case column.SummarySum:
			return sum
		case column.SummaryAvg:
			if count == 0 {
				return 0.0
			}
			return sum / float64(count)
		case column.SummaryMax:
			return max
		case column.SummaryMin:
			return min
		}
	}
	return nil
}

func (s *InMemory) GetTotalRows() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.filtered)
}

func (s *InMemory) GetFilterOptions(key string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	options := make([]string, 0)
	for _, row := range s.fullData {
		v := stringify(row[key])
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		options = append(options, v)
	}
	return options
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
