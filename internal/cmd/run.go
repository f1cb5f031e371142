package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chenjieyouge/vgrid/internal/config"
	"github.com/chenjieyouge/vgrid/internal/grid/binder"
	"github.com/chenjieyouge/vgrid/internal/grid/engine"
	"github.com/chenjieyouge/vgrid/internal/grid/kvstore"
	"github.com/chenjieyouge/vgrid/internal/logging"
	"github.com/chenjieyouge/vgrid/internal/termgrid"
)

var runCmd = &cobra.Command{
	Use:   "run <file.csv>",
	Short: "Open a CSV file in the terminal grid",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NopLogger()
	if cfg.Logging.Enabled {
		l, err := logging.NewLogger(filepath.Join(config.ConfigDir(), "log"), cfg.Logging.Level)
		if err == nil {
			logger = l
		}
	}
	defer logger.Close()

	columns, rows, err := loadCSV(args[0])
	if err != nil {
		return err
	}

	store, err := kvstore.NewFileStore(filepath.Join(config.ConfigDir(), "state.yaml"))
	if err != nil {
		logger.Warn("persistence load failed, starting fresh", "error", err)
	}

	factory := termgrid.New()
	keyBinder := termgrid.NewKeyBinder(factory)

	eng, err := engine.New(engine.Config{
		TableID:           cfg.Table.TableID,
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
