// Package cli wires the cobra command tree for the layerlint binary.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/layerlint/internal/config"
	"github.com/MrSnakeDoc/layerlint/internal/logger"
	"github.com/MrSnakeDoc/layerlint/internal/version"
)

// NewRootCmd builds the root command with its subcommands.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "layerlint",
		Short: "Checks imagery source records for validity and common errors",
		Long: "layerlint validates imagery source records (GeoJSON files describing\n" +
			"tile, WMS and WMTS services) against the live endpoints they point at,\n" +
			"catching wrong layer names, unsupported projections, unreachable zoom\n" +
			"levels and mismatched image formats.",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "Optional YAML config file")
	root.PersistentFlags().String("log-level", "", "Log level: debug | info | warn | error")
	root.PersistentFlags().CountP("verbose", "v", "Increase verbosity (-v shows debug output)")
	root.PersistentFlags().Bool("json", false, "Emit JSON logs instead of colorized output")

	root.Version = version.Version
	root.SetVersionTemplate(fmt.Sprintf("layerlint version %s\n", version.Version))

	root.AddCommand(NewCheckCmd())
	root.AddCommand(NewServeCmd())

	return root
}

// setup resolves configuration and logging from the persistent flags.
func setup(cmd *cobra.Command) (*config.Config, logger.Logger, error) {
	cfg := config.Load()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		if err := cfg.ApplyFile(path); err != nil {
			return nil, nil, err
		}
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	if verbose, _ := cmd.Flags().GetCount("verbose"); verbose > 0 {
		cfg.LogLevel = "debug"
	}
	if jsonLogs, _ := cmd.Flags().GetBool("json"); jsonLogs {
		cfg.PrettyLog = false
	}

	return cfg, logger.New(cfg.LogLevel, cfg.PrettyLog), nil
}
