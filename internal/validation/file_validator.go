package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "tabprep/internal/errors"
)

// InputExtensions lists the file types the loader can read
var InputExtensions = []string{".csv", ".tsv", ".txt", ".xlsx"}

// FileValidator checks input and output locations before a run starts
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return apperrors.NewIOError(fmt.Sprintf("file %s does not exist", path), err).
			WithContext("path", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewIOError(fmt.Sprintf("failed to stat file %s", path), err).
			WithContext("path", path)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return apperrors.NewIOError(fmt.Sprintf("%s is a directory, not a file", path), nil).
			WithContext("path", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewIOError(fmt.Sprintf("file %s is not readable", path), err).
			WithContext("path", path)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateInputFile checks that path is a readable file of a supported type.
// Office lock files (~$name.xlsx) are rejected.
func (v *FileValidator) ValidateInputFile(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	supported := false
	for _, e := range InputExtensions {
		if ext == e {
			supported = true
			break
		}
	}
	if !supported {
		v.logger.Error("Unsupported input file type",
			slog.String("file", path),
			slog.String("extension", ext))
		return apperrors.NewAppValidationError(
			fmt.Sprintf("file %s has unsupported extension %q (want one of %s)",
				path, ext, strings.Join(InputExtensions, ", "))).
			WithContext("path", path)
	}

	if strings.HasPrefix(filepath.Base(path), "~$") {
		v.logger.Warn("Refusing temporary Excel file",
			slog.String("file", path))
		return apperrors.NewAppValidationError(fmt.Sprintf("file %s is a temporary Excel file", path)).
			WithContext("path", path)
	}

	return v.ValidateFile(path)
}

// ValidateOutputDirectory ensures the directory that will hold outputPath
// exists, creating it if needed, and is writable.
func (v *FileValidator) ValidateOutputDirectory(outputPath string) error {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewIOError(fmt.Sprintf("failed to create output directory %s", dir), err).
			WithContext("path", outputPath)
	}

	probe, err := os.CreateTemp(dir, ".write_test-*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewIOError(fmt.Sprintf("output directory %s is not writable", dir), err).
			WithContext("path", outputPath)
	}
	probe.Close()
	os.Remove(probe.Name())

	if info, err := os.Stat(outputPath); err == nil && info.IsDir() {
		v.logger.Error("Output path is a directory",
			slog.String("path", outputPath))
		return apperrors.NewIOError(fmt.Sprintf("output %s is a directory", outputPath), nil).
			WithContext("path", outputPath)
	}

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ValidatePaths validates the input file and the output location, and
// rejects an output that would overwrite the input.
func (v *FileValidator) ValidatePaths(inputPath, outputPath string) error {
	if err := v.ValidateInputFile(inputPath); err != nil {
		return err
	}
	in, errIn := filepath.Abs(inputPath)
	out, errOut := filepath.Abs(outputPath)
	if errIn == nil && errOut == nil && in == out {
		v.logger.Error("Output would overwrite input",
			slog.String("path", inputPath))
		return apperrors.NewAppValidationError("output path must differ from input path").
			WithContext("path", inputPath)
	}
	return v.ValidateOutputDirectory(outputPath)
}
