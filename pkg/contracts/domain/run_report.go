package domain

import (
	"time"
)

// RunReport describes one completed (or aborted) preparation run
type RunReport struct {
	RunID             string            `json:"run_id" validate:"required,uuid"`
	InputPath         string            `json:"input_path" validate:"required"`
	OutputPath        string            `json:"output_path" validate:"required"`
	InputRows         int               `json:"input_rows" validate:"min=0"`
	OutputRows        int               `json:"output_rows" validate:"min=0"`
	InputColumns      []string          `json:"input_columns"`
	OutputColumns     []string          `json:"output_columns"`
	DuplicatesRemoved int               `json:"duplicates_removed" validate:"min=0"`
	Imputations       []Imputation      `json:"imputations,omitempty"`
	CodeMaps          []CategoryCodeMap `json:"code_maps,omitempty"`
	DerivedColumns    []string          `json:"derived_columns,omitempty"`
	DroppedColumns    []string          `json:"dropped_columns,omitempty"`
	RoundedColumns    []RoundedColumn   `json:"rounded_columns,omitempty"`
	Stages            []StageTiming     `json:"stages"`
	StartedAt         time.Time         `json:"started_at"`
	FinishedAt        time.Time         `json:"finished_at"`
}

// Duration returns the wall-clock time of the run
func (r *RunReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// ImputationStrategy names the statistic used to fill a column
type ImputationStrategy string

const (
	ImputationMedian ImputationStrategy = "median"
	ImputationMode   ImputationStrategy = "mode"
)

// Imputation records how missing cells of one column were filled
type Imputation struct {
	Column   string             `json:"column"`
	Strategy ImputationStrategy `json:"strategy"`
	Value    string             `json:"value"`
	Filled   int                `json:"filled" validate:"min=1"`
}

// CategoryCodeMap maps each distinct value of an encoded column to its integer code.
// Categories are listed in code order, so Categories[i] has code i.
type CategoryCodeMap struct {
	Column     string   `json:"column"`
	Categories []string `json:"categories"`
}

// Code returns the code assigned to value and whether value is known
func (m CategoryCodeMap) Code(value string) (int, bool) {
	for i, c := range m.Categories {
		if c == value {
			return i, true
		}
	}
	return 0, false
}

// RoundedColumn records the precision a column was normalized to
type RoundedColumn struct {
	Column  string `json:"column"`
	Places  int32  `json:"places"`
	Integer bool   `json:"integer"`
}

// StageTiming records how long a pipeline stage took
type StageTiming struct {
	Stage    string        `json:"stage"`
	Duration time.Duration `json:"duration"`
}
