package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/8wontae4/cost-calculation/internal/config"
	"github.com/8wontae4/cost-calculation/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type rootOptions struct {
	configPath string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "cost-calculator",
		Short:         "Optical module production cost, revenue and profit calculator",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(calcCmd(opts))
	rootCmd.AddCommand(exportCmd(opts))
	rootCmd.AddCommand(fieldsCmd())
	rootCmd.AddCommand(serveCmd(opts))
	return rootCmd
}

// load reads the calculation config and builds a logger from it. A missing
// file is only an error when --config was given explicitly.
func (o *rootOptions) load(cmd *cobra.Command) (*config.Configuration, *zap.Logger, error) {
	conf, err := config.LoadConfiguration(o.configPath)
	if err != nil {
		explicit := cmd.Flag("config") != nil && cmd.Flag("config").Changed
		if _, statErr := os.Stat(o.configPath); explicit || !errors.Is(statErr, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("failed to load configuration at %s: %w", o.configPath, err)
		}
		conf = config.DefaultConfiguration()
	}

	logger, err := initializeLogger(conf.Logging, o.logLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return conf, logger, nil
}
