// Package bootstrap implements the Bootstrap Policy (spec §4.11): the
// decision tree that picks between an in-memory and a paged-remote data
// strategy based on whatever the caller supplied (a full initial dataset,
// an injected page-fetch function, or neither).
package bootstrap

import (
	"context"

	vgriderrors "github.com/chenjieyouge/vgrid/internal/errors"
	"github.com/chenjieyouge/vgrid/internal/grid/column"
	"github.com/chenjieyouge/vgrid/internal/grid/datasource"
)

// Config is the caller-supplied bootstrap input (spec §4.11).
type Config struct {
	// InitialData, if non-nil, is the complete dataset known up front.
	InitialData []datasource.Row

	// FetchPage, if non-nil, loads one page of a server-backed dataset.
	FetchPage datasource.FetchPageFunc

	// FetchSummary, if non-nil, is wired into the resulting PagedRemote's
	// summary lookups.
	FetchSummary datasource.FetchSummaryFunc

	// ClientSideMaxRows is the threshold below which a dataset — whether
	// known up front or discovered via FetchPage's first page — is
	// served entirely in memory rather than paged.
	ClientSideMaxRows int

	// PageSize is the page size used to construct a PagedRemote, and the
	// unit in which FetchPage's eager-fetch-all loop (branch 2) walks
	// the remaining pages.
	PageSize int

	// MaxCachedPages bounds a PagedRemote's page cache; <= 0 means
	// unbounded.
	MaxCachedPages int

	Columns []column.Column
}

// Resolve picks a datasource.Strategy and returns it already bootstrapped
// (its initial totalRows has been obtained). It implements the three
// branches of spec §4.11.
func Resolve(ctx context.Context, cfg Config) (datasource.Strategy, int, error) {
	switch {
	case cfg.InitialData != nil:
		return resolveFromInitialData(ctx, cfg)
	case cfg.FetchPage != nil:
		return resolveFromFetchPage(ctx, cfg)
	default:
		return nil, 0, vgriderrors.NewConfigurationError(
			"bootstrap requires either InitialData or FetchPage", vgriderrors.ErrNoDataSource,
		)
	}
}

func resolveFromInitialData(ctx context.Context, cfg Config) (datasource.Strategy, int, error) {
	total := len(cfg.InitialData)
	if total <= cfg.ClientSideMaxRows {
		strategy := datasource.NewInMemory(cfg.Columns, cfg.InitialData)
		n, err := strategy.Bootstrap(ctx)
		return strategy, n, err
	}

	if cfg.FetchPage == nil {
		return nil, 0, vgriderrors.NewConfigurationError(
			"dataset exceeds the client-side threshold and no FetchPage was supplied", vgriderrors.ErrNoDataSource,
		)
	}
	strategy := datasource.NewPagedRemote(cfg.PageSize, cfg.FetchPage, cfg.FetchSummary, cfg.MaxCachedPages)
	n, err := strategy.Bootstrap(ctx)
	return strategy, n, err
}

func resolveFromFetchPage(ctx context.Context, cfg Config) (datasource.Strategy, int, error) {
	first, err := cfg.FetchPage(ctx, 0, datasource.Query{})
	if err != nil {
		return nil, 0, vgriderrors.NewDataFetchError("failed to fetch the first page during bootstrap", err)
	}

	if first.TotalRows <= cfg.ClientSideMaxRows {
		all := make([]datasource.Row, 0, first.TotalRows)
		all = append(all, first.List...)

		for len(all) < first.TotalRows {
			pageIndex := len(all) / cfg.PageSize
			resp, err := cfg.FetchPage(ctx, pageIndex, datasource.Query{})
			if err != nil {
				return nil, 0, vgriderrors.NewDataFetchError("failed to eagerly fetch remaining pages during bootstrap", err)
			}
			if len(resp.List) == 0 {
				break
			}
			all = append(all, resp.List...)
		}

		strategy := datasource.NewInMemory(cfg.Columns, all)
		n, err := strategy.Bootstrap(ctx)
		return strategy, n, err
	}

	strategy := datasource.NewPagedRemote(cfg.PageSize, cfg.FetchPage, cfg.FetchSummary, cfg.MaxCachedPages)
	strategy.SeedPage(0, first.List, first.TotalRows)
	return strategy, first.TotalRows, nil
}
