// Package datasource reads historical prediction and outcome tables from disk.
package datasource

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/betting-trust/internal/models"
)

// Supported file formats
const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func rowValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// RowError reports a malformed input row. Row is 1-based and counts data
// rows only, excluding any header.
type RowError struct {
	Source string
	Row    int
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s: row %d: %s", e.Source, e.Row, e.Reason)
}

// Unwrap lets callers match models.ErrInvalidRow with errors.Is.
func (e *RowError) Unwrap() error {
	return models.ErrInvalidRow
}

func newRowError(source string, row int, format string, args ...any) *RowError {
	return &RowError{Source: source, Row: row, Reason: fmt.Sprintf(format, args...)}
}

// Format returns the table format implied by the file extension.
func Format(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".parquet", ".pq":
		return FormatParquet, nil
	default:
		return "", fmt.Errorf("%w: %s", models.ErrUnsupportedFile, path)
	}
}

// ReadPredictions loads a prediction table from a CSV or Parquet file.
func ReadPredictions(path string) ([]models.PredictionRow, error) {
	format, err := Format(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatParquet:
		return readPredictionsParquet(path)
	default:
		return readPredictionsCSVFile(path)
	}
}

// ReadOutcomes loads a game outcome table from a CSV file.
func ReadOutcomes(path string) ([]models.OutcomeRow, error) {
	format, err := Format(path)
	if err != nil {
		return nil, err
	}
	if format != FormatCSV {
		return nil, fmt.Errorf("%w: outcome tables must be csv, got %s", models.ErrUnsupportedFile, path)
	}
	return readOutcomesCSVFile(path)
}

func validatePrediction(source string, row int, p models.PredictionRow) error {
	if err := rowValidator().Struct(p); err != nil {
		return newRowError(source, row, "%v", err)
	}
	return nil
}
