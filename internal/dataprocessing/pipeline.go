package dataprocessing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	apperrors "tabprep/internal/errors"
	"tabprep/internal/infrastructure"
	"tabprep/pkg/contracts/domain"
)

// Pipeline runs the preparation stages over one dataset, in order:
// load, normalize headers, impute, deduplicate, encode, derive, project,
// round, persist. The first failing stage aborts the run.
type Pipeline struct {
	opts   Options
	logger *slog.Logger
	stages []Stage
}

// NewPipeline creates a pipeline for opts. A nil logger uses the global logger.
func NewPipeline(opts Options, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		opts:   opts,
		logger: infrastructure.WithComponent(logger, "pipeline"),
		stages: []Stage{
			HeaderNormalizer{},
			Imputer{},
			Deduplicator{},
			NewEncoder(opts.BinaryColumns, opts.MultiColumns),
			NewBMIDeriver(opts.WeightColumn, opts.HeightColumn, opts.BMIColumn),
			NewProjector(opts.IdentifierColumn),
			NewRounder(opts.Rounding),
		},
	}
}

// Stages returns the in-memory stages in execution order
func (p *Pipeline) Stages() []Stage {
	return p.stages
}

// Run loads inputPath, transforms it and writes the result to outputPath.
// The report is returned even on failure and covers the stages that ran.
func (p *Pipeline) Run(ctx context.Context, inputPath, outputPath string) (*domain.RunReport, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	report := &domain.RunReport{
		RunID:      infrastructure.GetTraceID(ctx),
		InputPath:  inputPath,
		OutputPath: outputPath,
		StartedAt:  time.Now(),
	}

	p.logger.InfoContext(ctx, "Starting data preparation",
		slog.String("input", inputPath),
		slog.String("output", outputPath))

	var table *Table
	err := p.timed(ctx, report, "load", func() error {
		var err error
		table, err = LoadFile(inputPath, p.opts.Load)
		if err != nil {
			return err
		}
		report.InputRows = table.Len()
		report.InputColumns = table.Names()
		return nil
	})
	if err != nil {
		return p.fail(ctx, report, err)
	}
	p.logSchema(ctx, table)

	if err := p.Transform(ctx, table, report); err != nil {
		return p.fail(ctx, report, err)
	}

	err = p.timed(ctx, report, "persist", func() error {
		return WriteCSV(table, outputPath)
	})
	if err != nil {
		return p.fail(ctx, report, err)
	}

	report.OutputRows = table.Len()
	report.OutputColumns = table.Names()
	report.FinishedAt = time.Now()
	p.logger.InfoContext(ctx, "Data preparation completed",
		slog.String("output", outputPath),
		slog.Int("input_rows", report.InputRows),
		slog.Int("output_rows", report.OutputRows),
		slog.Int("duplicates_removed", report.DuplicatesRemoved),
		slog.Duration("duration", report.Duration()))
	return report, nil
}

// Transform applies the in-memory stages to t. report may be nil.
func (p *Pipeline) Transform(ctx context.Context, t *Table, report *domain.RunReport) error {
	for _, stage := range p.stages {
		if err := p.timed(ctx, report, stage.Name(), func() error {
			return stage.Apply(ctx, t, report)
		}); err != nil {
			return err
		}
		p.logger.DebugContext(ctx, "Stage output",
			slog.String("stage", stage.Name()),
			slog.Int("rows", t.Len()),
			slog.Any("columns", t.Names()))
	}
	if report != nil {
		for _, m := range report.CodeMaps {
			p.logger.DebugContext(ctx, "Category codes assigned",
				slog.String("column", m.Column),
				slog.Any("categories", m.Categories))
		}
	}
	return nil
}

// timed checks for cancellation, runs fn and records its duration under stage
func (p *Pipeline) timed(ctx context.Context, report *domain.RunReport, stage string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cancelled before stage %s: %w", stage, err)
	}

	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	if report != nil {
		report.Stages = append(report.Stages, domain.StageTiming{Stage: stage, Duration: elapsed})
	}
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			appErr.WithContext("stage", stage)
		}
		return err
	}

	p.logger.InfoContext(ctx, "Stage completed",
		slog.String("stage", stage),
		slog.Duration("duration", elapsed))
	return nil
}

func (p *Pipeline) fail(ctx context.Context, report *domain.RunReport, err error) (*domain.RunReport, error) {
	report.FinishedAt = time.Now()
	p.logger.ErrorContext(ctx, "Data preparation failed",
		slog.String("error", err.Error()),
		slog.String("error_type", string(apperrors.TypeOf(err))))
	return report, err
}

func (p *Pipeline) logSchema(ctx context.Context, t *Table) {
	for _, meta := range t.Schema() {
		p.logger.DebugContext(ctx, "Column classified",
			slog.String("column", meta.Name),
			slog.String("kind", meta.Kind.String()),
			slog.Bool("integer", meta.Integer),
			slog.Int("missing", meta.Missing))
	}
}
