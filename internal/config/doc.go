// Package config provides configuration loading for tabprep.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources, later ones winning:
//
//  1. Default values (Default)
//  2. An optional YAML file passed to Load
//  3. Environment variables prefixed with TABPREP_
//  4. Command-line flags, applied by the caller before Validate
//
// # Environment Variables
//
// Variable names follow the struct nesting:
//
//	TABPREP_LOGGING_LEVEL=debug
//	TABPREP_PATHS_INPUT=data/raw.csv
//	TABPREP_PIPELINE_DELIMITER=;
//	TABPREP_PIPELINE_COLUMNS_BINARY=gender,smoke
//
// # Example file
//
//	logging:
//	  level: info
//	  output: both
//	  file_path: logs/tabprep.log
//	pipeline:
//	  sheet: Sheet1
//	  columns:
//	    multi: [mtrans, obesity_level, caec, calc]
//
// Validation runs through go-playground/validator struct tags and must be
// called explicitly once all overrides are in place.
package config
