package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/8wontae4/cost-calculation/internal/estimate"
	"github.com/8wontae4/cost-calculation/internal/form"
	"github.com/8wontae4/cost-calculation/internal/report"
	"github.com/8wontae4/cost-calculation/internal/server"
	"github.com/8wontae4/cost-calculation/pkg/constants"
	"github.com/8wontae4/cost-calculation/pkg/output"
	"github.com/8wontae4/cost-calculation/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func calcCmd(opts *rootOptions) *cobra.Command {
	var outputFormat string
	var breakEven bool

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate the base plan and every active scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			// CLI override takes precedence over config
			format := conf.Output.Format
			if outputFormat != "" {
				format = outputFormat
			}
			if format == "" {
				format = constants.OutputFormatPretty
			}
			if err := validation.ValidateOutputFormat(format); err != nil {
				return err
			}
			if err := conf.Validate(); err != nil {
				logger.Error("invalid configuration",
					zap.String("op", "main.calc"),
					zap.Error(err),
				)
				return err
			}

			for _, warning := range conf.ValidateConfiguration() {
				logger.Warn("Configuration warning: "+warning,
					zap.String("op", "main.calc"),
				)
			}

			results, err := estimate.GetEstimates(logger, *conf, estimate.Options{BreakEven: breakEven})
			if err != nil {
				logger.Error("failed to compute estimates",
					zap.String("op", "main.calc"),
					zap.Error(err),
				)
				return err
			}
			for _, result := range results {
				for _, warning := range result.Warnings {
					logger.Warn(warning, zap.String("op", "main.calc"))
				}
			}

			out := cmd.OutOrStdout()
			switch format {
			case constants.OutputFormatPretty:
				output.PrettyFormat(out, results)
			case constants.OutputFormatCSV:
				return output.CsvFormat(out, results)
			case constants.OutputFormatJSON:
				return output.JSONFormat(out, results)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outputFormat, "output-format", "", "type of output override: pretty, csv, json")
	cmd.Flags().BoolVar(&breakEven, "break-even", false, "also search for the break-even set price and sales volume")
	return cmd
}

func exportCmd(opts *rootOptions) *cobra.Command {
	var outPath string
	var fontPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the base plan's results as a csv, xlsx or pdf file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := validation.ExportFormatFromPath(outPath)
			if err != nil {
				return err
			}

			conf, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			est, err := estimate.Compute(logger, constants.DefaultScenarioName, conf.Plan, estimate.Options{})
			if err != nil {
				return err
			}
			rep := report.Build(est.Plan, est.Inputs, est.Result)

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outPath, err)
			}

			switch format {
			case validation.ExportCSV:
				err = report.WriteCSV(f, rep.Rows)
			case validation.ExportXLSX:
				err = report.WriteXLSX(f, rep)
			case validation.ExportPDF:
				err = report.WritePDF(f, rep, report.PDFOptions{FontPath: fontPath})
			}
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				_ = os.Remove(outPath)
				return fmt.Errorf("failed to write %s: %w", outPath, err)
			}

			logger.Info("exported results",
				zap.String("op", "main.export"),
				zap.String("path", outPath),
				zap.String("format", format),
			)
			fmt.Fprintln(cmd.OutOrStdout(), outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", report.FileName(validation.ExportCSV), "output file; the extension selects csv, xlsx or pdf")
	cmd.Flags().StringVar(&fontPath, "font", "", "UTF-8 TrueType font for Korean labels in pdf output")
	return cmd
}

func fieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the calculator's input fields with defaults and ranges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, section := range form.Sections() {
				fmt.Fprintln(out, section.Title)
				for _, f := range section.Fields {
					bounds := fmt.Sprintf("min %g", f.Min)
					if f.Max != nil {
						bounds += fmt.Sprintf(", max %g", *f.Max)
					}
					if f.ReadOnly {
						bounds = "derived"
					}
					fmt.Fprintf(out, "  %-24s %s [default %g; %s]\n", f.Key, f.Label, f.Default, bounds)
					fmt.Fprintf(out, "  %-24s %s\n", "", f.Help)
				}
			}
			return nil
		},
	}
}

func serveCmd(opts *rootOptions) *cobra.Command {
	var serverConfigPath string
	var address string
	var envFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web calculator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := server.LoadEnvFile(envFile); err != nil {
				return err
			}

			cfg, err := server.LoadConfig(serverConfigPath)
			if err != nil {
				return err
			}
			if strings.TrimSpace(address) != "" {
				cfg.Address = address
			}

			logger, err := initializeLogger(cfg.Logging, opts.logLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() {
				_ = logger.Sync()
			}()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := server.Run(ctx, logger, cfg, version); err != nil {
				logger.Error("web server stopped",
					zap.String("op", "main.serve"),
					zap.Error(err),
				)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&serverConfigPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&address, "address", "", "listen address override (e.g., :8080)")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "optional file of COST_CALCULATOR_* environment variables")
	return cmd
}
