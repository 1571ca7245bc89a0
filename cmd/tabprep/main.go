package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"tabprep/internal/config"
	"tabprep/internal/dataprocessing"
	apperrors "tabprep/internal/errors"
	"tabprep/internal/infrastructure"
	"tabprep/internal/validation"
	"tabprep/pkg/contracts"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := newApp(os.Stdout).Run(ctx, os.Args)
	stop()
	if err != nil {
		slog.Error("Data preparation failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// newApp builds the command tree. The confirmation line and the summary go to stdout.
func newApp(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "tabprep",
		Usage:     "clean, encode and round a tabular survey dataset",
		UsageText: "tabprep [--in file] [--out file] [--config file.yaml] [--summary]",
		Writer:    stdout,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "in",
				Usage: "input .csv, .tsv, .txt or .xlsx file (default " + config.Default().Paths.Input + ")",
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "output CSV file (default " + config.Default().Paths.Output + ")",
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "optional YAML config file",
				Sources: cli.EnvVars(config.EnvPrefix + "_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "delimiter",
				Usage: `field delimiter of text input, "\t" for tab`,
			},
			&cli.StringFlag{
				Name:  "sheet",
				Usage: "worksheet of .xlsx input (default first sheet)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
			&cli.BoolFlag{
				Name:  "summary",
				Usage: "print a run summary after the confirmation line",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return prepare(ctx, cmd, stdout)
		},
		Commands: []*cli.Command{
			{
				Name:  "version",
				Usage: "print version information",
				Action: func(_ context.Context, _ *cli.Command) error {
					_, err := fmt.Fprintln(stdout, contracts.GetFullVersionString())
					return err
				},
			},
		},
	}
}

func prepare(ctx context.Context, cmd *cli.Command, stdout io.Writer) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return apperrors.NewConfigError("failed to initialize logger", err)
	}
	defer infrastructure.CloseLogFile()

	ctx = infrastructure.EnsureTraceID(ctx)
	logger.InfoContext(ctx, "tabprep starting",
		slog.String("version", contracts.Version),
		slog.String("input", cfg.Paths.Input),
		slog.String("output", cfg.Paths.Output))

	if err := validation.NewFileValidator(logger).ValidatePaths(cfg.Paths.Input, cfg.Paths.Output); err != nil {
		return err
	}

	report, err := dataprocessing.NewPipeline(pipelineOptions(cfg), logger).Run(ctx, cfg.Paths.Input, cfg.Paths.Output)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Data cleaning, encoding, and rounding completed. Saved to %s\n", cfg.Paths.Output)
	if cmd.Bool("summary") {
		if err := dataprocessing.RenderSummary(stdout, report); err != nil {
			return apperrors.NewIOError("failed to print summary", err)
		}
	}
	return nil
}

// loadConfig resolves defaults, file, environment and flags, in increasing precedence
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, apperrors.NewConfigError("invalid configuration", err)
	}

	if v := cmd.String("in"); v != "" {
		cfg.Paths.Input = v
	}
	if v := cmd.String("out"); v != "" {
		cfg.Paths.Output = v
	}
	if v := cmd.String("delimiter"); v != "" {
		if v == `\t` {
			v = "\t"
		}
		cfg.Pipeline.Delimiter = v
	}
	if v := cmd.String("sheet"); v != "" {
		cfg.Pipeline.Sheet = v
	}
	if v := cmd.String("log-level"); v != "" {
		cfg.Logging.Level = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewConfigError("invalid configuration", err)
	}
	return cfg, nil
}

// pipelineOptions maps the configured column sets onto the pipeline stages
func pipelineOptions(cfg *config.Config) dataprocessing.Options {
	cols := cfg.Pipeline.Columns
	return dataprocessing.Options{
		Load: dataprocessing.LoadOptions{
			Delimiter: cfg.DelimiterRune(),
			Sheet:     cfg.Pipeline.Sheet,
		},
		BinaryColumns:    cols.Binary,
		MultiColumns:     cols.Multi,
		WeightColumn:     cols.Weight,
		HeightColumn:     cols.Height,
		BMIColumn:        cols.BMI,
		IdentifierColumn: cols.Identifier,
		Rounding: dataprocessing.RoundingRules(cols.Age, cols.Count, cols.Intake,
			[]string{cols.Height, cols.Weight, cols.BMI}),
	}
}

// exitCode maps an error to the process exit status
func exitCode(err error) int {
	if apperrors.IsType(err, apperrors.ErrTypeConfig) {
		return 2
	}
	return 1
}
