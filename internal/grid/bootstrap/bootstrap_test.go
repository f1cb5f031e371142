package bootstrap

import (
	"context"
	"testing"

	vgriderrors "github.com/chenjieyouge/vgrid/internal/errors"
	"github.com/chenjieyouge/vgrid/internal/grid/column"
	"github.com/chenjieyouge/vgrid/internal/grid/datasource"
)

func rows(n int) []datasource.Row {
	out := make([]datasource.Row, n)
	for i := range out {
		out[i] = datasource.Row{"id": i}
	}
	return out
}

func TestResolveInitialDataUnderThresholdUsesInMemory(t *testing.T) {
	strategy, total, err := Resolve(context.Background(), Config{
		InitialData:       rows(10),
		ClientSideMaxRows: 100,
		Columns:           []column.Column{{Key: "id"}},
	})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if total != 10 {
		t.Errorf("total = %d, want 10", total)
	}
	if _, ok := strategy.(*datasource.InMemory); !ok {
		t.Errorf("strategy type = %T, want *datasource.InMemory", strategy)
	}
}

func TestResolveInitialDataOverThresholdUsesPagedRemote(t *testing.T) {
	fetchPage := func(ctx context.Context, pageIndex int, q datasource.Query) (datasource.PageResponse, error) {
		return datasource.PageResponse{List: rows(10), TotalRows: 1000}, nil
	}
	strategy, total, err := Resolve(context.Background(), Config{
		InitialData:       rows(1000),
		FetchPage:         fetchPage,
		ClientSideMaxRows: 100,
		PageSize:          10,
		Columns:           []column.Column{{Key: "id"}},
	})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if total != 1000 {
		t.Errorf("total = %d, want 1000", total)
	}
	if _, ok := strategy.(*datasource.PagedRemote); !ok {
		t.Errorf("strategy type = %T, want *datasource.PagedRemote", strategy)
	}
}

func TestResolveInitialDataOverThresholdWithoutFetchPageIsConfigurationError(t *testing.T) {
	_, _, err := Resolve(context.Background(), Config{
		InitialData:       rows(1000),
		ClientSideMaxRows: 100,
	})
	if err == nil {
		t.Fatal("expected a configuration error")
	}
	if _, ok := err.(*vgriderrors.ConfigurationError); !ok {
		t.Errorf("error type = %T, want *errors.ConfigurationError", err)
	}
}

func TestResolveFetchPageUnderThresholdEagerlyFetchesAllAndUsesInMemory(t *testing.T) {
	pageSize := 10
	total := 25
	fetchPage := func(ctx context.Context, pageIndex int, q datasource.Query) (datasource.PageResponse, error) {
		start := pageIndex * pageSize
		remaining := total - start
		if remaining <= 0 {
			return datasource.PageResponse{List: nil, TotalRows: total}, nil
		}
		n := pageSize
		if remaining < n {
			n = remaining
		}
		return datasource.PageResponse{List: rows(n), TotalRows: total}, nil
	}

	strategy, n, err := Resolve(context.Background(), Config{
		FetchPage:         fetchPage,
		ClientSideMaxRows: 100,
		PageSize:          pageSize,
		Columns:           []column.Column{{Key: "id"}},
	})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if n != total {
		t.Errorf("total = %d, want %d", n, total)
	}
	if _, ok := strategy.(*datasource.InMemory); !ok {
		t.Errorf("strategy type = %T, want *datasource.InMemory", strategy)
	}
	if row, ok := strategy.GetRow(total - 1); !ok || row == nil {
		t.Error("expected the last row to have been fetched during eager concatenation")
	}
}

func TestResolveFetchPageOverThresholdRetainsFirstPageInPagedRemote(t *testing.T) {
	calls := 0
	fetchPage := func(ctx context.Context, pageIndex int, q datasource.Query) (datasource.PageResponse, error) {
		calls++
		return datasource.PageResponse{List: rows(10), TotalRows: 10000}, nil
	}

	strategy, n, err := Resolve(context.Background(), Config{
		FetchPage:         fetchPage,
		ClientSideMaxRows: 100,
		PageSize:          10,
	})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if n != 10000 {
		t.Errorf("total = %d, want 10000", n)
	}
	if calls != 1 {
		t.Errorf("fetchPage calls = %d, want 1 (first page must be retained, not re-fetched)", calls)
	}
	if row, ok := strategy.GetRow(0); !ok || row == nil {
		t.Error("expected row 0 to be immediately available from the retained first page")
	}
}

func TestResolveNeitherInitialDataNorFetchPageIsConfigurationError(t *testing.T) {
	_, _, err := Resolve(context.Background(), Config{ClientSideMaxRows: 100})
	if err == nil {
		t.Fatal("expected a configuration error")
	}
	if _, ok := err.(*vgriderrors.ConfigurationError); !ok {
		t.Errorf("error type = %T, want *errors.ConfigurationError", err)
	}
}
