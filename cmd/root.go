// Package cmd implements the xplain command-line interface: parse,
// summary, and version subcommands built on Cobra.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pgxplain/xplain/internal/config"
)

var log = logrus.New()

var configPath string

var rootCmd = &cobra.Command{
	Use:   "xplain",
	Short: "Parse and analyze PostgreSQL EXPLAIN output",
	Long: `xplain reads a PostgreSQL EXPLAIN (ANALYZE, BUFFERS) plan, in either
the psql text format or EXPLAIN (FORMAT JSON), and produces an annotated
plan tree: exclusive cost and duration per node, planner estimate error,
parallel-worker awareness, and outlier tags.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := applyConfigPath(configPath); err != nil {
			return err
		}
		level, err := logrus.ParseLevel(config.Active().LogLevel)
		if err != nil {
			level = logrus.InfoLevel
		}
		log.SetLevel(level)
		return nil
	},
}

// Execute runs the root command, setting version as the reported CLI
// version, and exits the process with status 1 on error.
func Execute(version string) {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func applyConfigPath(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		path = strings.TrimSpace(os.Getenv("XPLAIN_CONFIG"))
	}
	return config.Apply(path)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file (YAML). Falls back to $XPLAIN_CONFIG")
}
