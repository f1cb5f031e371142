package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chenjieyouge/vgrid/internal/config"
	"github.com/chenjieyouge/vgrid/internal/grid/binder"
	"github.com/chenjieyouge/vgrid/internal/grid/column"
	"github.com/chenjieyouge/vgrid/internal/grid/datasource"
	"github.com/chenjieyouge/vgrid/internal/grid/engine"
	"github.com/chenjieyouge/vgrid/internal/grid/kvstore"
	"github.com/chenjieyouge/vgrid/internal/logging"
	"github.com/chenjieyouge/vgrid/internal/termgrid"
)

var benchRows int

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Open a synthetic dataset, for exercising scroll/sort/filter performance",
	RunE:  runBench,
}

func init() {
	benchCmd.Flags().IntVar(&benchRows, "rows", 50000, "number of synthetic rows to generate")
	rootCmd.AddCommand(benchCmd)
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NopLogger()
	if cfg.Logging.Enabled {
		if l, err := logging.NewLogger(filepath.Join(config.ConfigDir(), "log"), cfg.Logging.Level); err == nil {
			logger = l
		}
	}
	defer logger.Close()

	columns := []column.Column{
		{Key: "id", Title: "ID", DataType: column.DataTypeNumber, SummaryType: column.SummaryCount, Width: 8},
		{Key: "region", Title: "Region", DataType: column.DataTypeString, Flex: 1, MinWidth: 10},
		{Key: "units", Title: "Units", DataType: column.DataTypeNumber, SummaryType: column.SummarySum, Flex: 1, MinWidth: 8},
		{Key: "revenue", Title: "Revenue", DataType: column.DataTypeNumber, SummaryType: column.SummaryAvg, Flex: 1, MinWidth: 10},
	}
	rows := syntheticRows(benchRows)

	store, err := kvstore.NewFileStore(filepath.Join(config.ConfigDir(), "state.yaml"))
	if err != nil {
		logger.Warn("persistence load failed, starting fresh", "error", err)
	}

	factory := termgrid.New()
	keyBinder := termgrid.NewKeyBinder(factory)

	eng, err := engine.New(engine.Config{
		TableID:           "bench",
		Columns:           columns,
		InitialData:       rows,
		ClientSideMaxRows: cfg.Bootstrap.ClientSideMaxRows,
		PageSize:          cfg.Server.PageSize,
		MaxCachedPages:    cfg.Server.MaxCachedPages,
		Factory:           factory,
		RowHeight:         1,
		ViewportHeight:    25,
		BufferRows:        cfg.Server.BufferRows,
		Store:             store,
		Binders:           []binder.Binder{keyBinder},
		Logger:            logger,
	})
	if err != nil {
		return fmt.Errorf("failed to construct table: %w", err)
	}
	defer eng.Destroy()

	model := termgrid.NewModel(eng, factory, keyBinder)
	return model.Run(context.Background())
}

var regions = []string{"north", "south", "east", "west", "central"}

func syntheticRows(n int) []datasource.Row {
	rows := make([]datasource.Row, n)
	for i := 0; i < n; i++ {
		rows[i] = datasource.Row{
			"id":      i + 1,
			"region":  regions[i%len(regions)],
			"units":   float64(rand.Intn(500)),
			"revenue": rand.Float64() * 10000,
		}
	}
	return rows
}
