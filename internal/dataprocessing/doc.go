// Package dataprocessing turns a raw tabular survey export into a clean,
// fully numeric dataset ready for analysis.
//
// # Architecture
//
// A file is loaded into a typed, column-oriented Table and then passed
// through a fixed sequence of stages, each implementing Stage:
//
//  1. HeaderNormalizer: lowercase names, spaces and hyphens become underscores
//  2. Imputer: numeric gaps take the column median, text gaps the column mode
//  3. Deduplicator: exact repeat rows are dropped, first occurrence kept
//  4. Encoder: categorical columns become integer codes in sorted category order
//  5. BMIDeriver: bmi = weight / height² is appended
//  6. Projector: the patient identifier is dropped
//  7. Rounder: ages and counts become integers, intake one decimal, body measures two
//
// The result is written as CSV. The output file only appears once it has been
// written completely.
//
// # Usage
//
//	p := dataprocessing.NewPipeline(dataprocessing.DefaultOptions(), logger)
//	report, err := p.Run(ctx, "MS_2_Scenario_data.csv", "Cleaned_Encoded_Rounded_MS_2_Scenario_data.csv")
//	if err != nil {
//	    return err
//	}
//	dataprocessing.RenderSummary(os.Stdout, report)
//
// Failures are *errors.AppError values typed IO, FORMAT, IMPUTATION or
// DERIVATION, carrying the failing stage in their context.
package dataprocessing
