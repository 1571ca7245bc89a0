package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is the prefix of every environment variable read by Load
const EnvPrefix = "TABPREP"

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// PathsConfig contains the input dataset and output file locations
type PathsConfig struct {
	Input  string `yaml:"input" envconfig:"INPUT" validate:"required"`
	Output string `yaml:"output" envconfig:"OUTPUT" validate:"required,nefield=Input"`
}

// PipelineConfig contains loader settings and the fixed column name sets
type PipelineConfig struct {
	Delimiter string        `yaml:"delimiter" envconfig:"DELIMITER" validate:"len=1"`
	Sheet     string        `yaml:"sheet" envconfig:"SHEET"`
	Columns   ColumnsConfig `yaml:"columns" envconfig:"COLUMNS"`
}

// ColumnsConfig names the columns each stage acts on. Names are compared after
// header normalization, so they should be lowercase with underscores.
type ColumnsConfig struct {
	Binary     []string `yaml:"binary" envconfig:"BINARY" validate:"dive,required"`
	Multi      []string `yaml:"multi" envconfig:"MULTI" validate:"dive,required"`
	Count      []string `yaml:"count" envconfig:"COUNT" validate:"dive,required"`
	Age        string   `yaml:"age" envconfig:"AGE"`
	Intake     string   `yaml:"intake" envconfig:"INTAKE"`
	Weight     string   `yaml:"weight" envconfig:"WEIGHT"`
	Height     string   `yaml:"height" envconfig:"HEIGHT"`
	BMI        string   `yaml:"bmi" envconfig:"BMI" validate:"required"`
	Identifier string   `yaml:"identifier" envconfig:"IDENTIFIER"`
}

// Load builds the configuration from defaults, the optional YAML file at
// path and TABPREP_* environment variables, in increasing precedence.
// An empty path means no config file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// No default tags are declared, so envconfig only touches fields whose
	// variable is actually set.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file at filePath onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(data, cfg)
}

// Validate checks the configuration. Call it after CLI overrides are applied.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// DelimiterRune returns the field delimiter as a rune
func (c *Config) DelimiterRune() rune {
	for _, r := range c.Pipeline.Delimiter {
		return r
	}
	return ','
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/tabprep.log",
		},
		Paths: PathsConfig{
			Input:  "MS_2_Scenario_data.csv",
			Output: "Cleaned_Encoded_Rounded_MS_2_Scenario_data.csv",
		},
		Pipeline: PipelineConfig{
			Delimiter: ",",
			Columns: ColumnsConfig{
				Binary:     []string{"gender", "fam_hist_o", "favc", "smoke", "scc"},
				Multi:      []string{"mtrans", "obesity_level", "caec", "calc"},
				Count:      []string{"fcvc", "ncp", "faf", "tue"},
				Age:        "age",
				Intake:     "ch2o",
				Weight:     "weight",
				Height:     "height",
				BMI:        "bmi",
				Identifier: "patient_id",
			},
		},
	}
}
