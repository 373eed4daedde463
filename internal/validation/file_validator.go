// Package validation holds pre-flight checks the CLI runs on local dataset
// files and output directories before any pipeline work starts.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/SuperSnake427/DosecheckDashboard/internal/errors"
)

// remotePrefixes are source identifiers that do not name a local file.
var remotePrefixes = []string{"http://", "https://", "s3://", "sheets://"}

// FileValidator checks local dataset files and output directories
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

// IsLocalSource reports whether a dataset source id names a local file.
func IsLocalSource(id string) bool {
	lower := strings.ToLower(id)
	for _, p := range remotePrefixes {
		if strings.HasPrefix(lower, p) {
			return false
		}
	}
	return id != ""
}

// ValidateSource checks a local dataset file. Remote sources are accepted
// as-is; they are only reachable at load time.
func (v *FileValidator) ValidateSource(id string) error {
	if !IsLocalSource(id) {
		return nil
	}

	if err := v.ValidateFile(id); err != nil {
		return apperrors.NewConfigError("dataset file is not usable", err).WithContext("source", id)
	}

	base := filepath.Base(id)
	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("Refusing temporary Excel file", slog.String("file", id))
		return apperrors.NewConfigError(fmt.Sprintf("%s is a temporary Excel lock file", base), nil).
			WithContext("source", id)
	}

	// Legacy .xls workbooks are binary BIFF, which the XLSX reader cannot open.
	if strings.EqualFold(filepath.Ext(id), ".xls") {
		v.logger.Error("Unsupported workbook format", slog.String("file", id))
		return apperrors.NewConfigError(fmt.Sprintf("%s: .xls workbooks are not supported, save as .xlsx or .csv", base), nil).
			WithContext("source", id)
	}
	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	// Verify it's writable by creating a test file
	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated", slog.String("directory", dir))
	return nil
}

// ValidateFile checks if a specific file exists, is not empty and is
// readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist", slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("file %s is empty", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}
