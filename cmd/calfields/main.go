// Command calfields prepares calendar field bags from JSON or YAML files and
// manipulates field name lists.
//
// Usage:
//
//	calfields prepare date.json --fields day,month,monthCode,year --required day
//	calfields sort year month day
//	calfields merge --left day,year --right month,monthCode
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries the state shared by all subcommands.
type app struct {
	verbose    bool
	configPath string
	format     string

	cfg    Config
	logger *zap.Logger
	out    io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out, logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "calfields",
		Short:         "Prepare and validate calendar field bags",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			if !cmd.Flags().Changed("format") && cfg.Format != "" {
				a.format = cfg.Format
			}
			if a.format != "json" && a.format != "yaml" {
				return fmt.Errorf("unknown format %q (want json or yaml)", a.format)
			}

			config := zap.NewProductionConfig()
			config.OutputPaths = []string{"stderr"}
			if a.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	root.SetOut(out)
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVarP(&a.format, "format", "f", "json", "Output format (json or yaml)")

	root.AddCommand(newPrepareCmd(a))
	root.AddCommand(newSortCmd(a))
	root.AddCommand(newMergeCmd(a))
	return root
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
