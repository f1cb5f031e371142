// Package cmd wires the Cobra command tree: a root command plus run,
// bench, and config subcommands that boot a table over a CSV or
// synthetic data source and drive it through internal/termgrid.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chenjieyouge/vgrid/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "vgrid",
	Short: "A virtualized data-grid engine with a terminal front end",
	Long: `vgrid drives the grid engine (sort, filter, column layout,
persistence) from a terminal UI instead of a browser, reading rows from
a CSV file or a synthetic generator.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is "+config.ConfigFile()+")")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("VGRID")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = viper.ReadInConfig()
}
