package datasource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/betting-trust/internal/models"
)

// Column names of the prediction and outcome tables
const (
	ColPredictedProb = "predicted_prob"
	ColActualOutcome = "actual_outcome"
	ColDecimalOdds   = "decimal_odds"
	ColStake         = "stake"
	ColClosingOdds   = "closing_odds"
	ColGameID        = "game_id"
	ColGameDate      = "game_date"

	OutcomePrefix = "outcome_"
)

var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

func readPredictionsCSVFile(path string) ([]models.PredictionRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open predictions file: %w", err)
	}
	defer f.Close()

	return ReadPredictionsCSV(f, filepath.Base(path))
}

func readOutcomesCSVFile(path string) ([]models.OutcomeRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open outcomes file: %w", err)
	}
	defer f.Close()

	return ReadOutcomesCSV(f, filepath.Base(path))
}

// ReadPredictionsCSV parses a prediction table with a header row.
func ReadPredictionsCSV(r io.Reader, source string) ([]models.PredictionRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", source, err)
	}
	cols := indexColumns(header)
	for _, required := range []string{ColPredictedProb, ColActualOutcome} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: %s is missing column %q", models.ErrInvalidRow, source, required)
		}
	}

	var rows []models.PredictionRow
	for line := 1; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, newRowError(source, line, "%v", err)
		}

		var p models.PredictionRow
		if p.PredictedProb, err = strconv.ParseFloat(field(record, cols, ColPredictedProb), 64); err != nil {
			return nil, newRowError(source, line, "invalid %s: %v", ColPredictedProb, err)
		}
		if p.ActualOutcome, err = parseOutcome(field(record, cols, ColActualOutcome)); err != nil {
			return nil, newRowError(source, line, "invalid %s: %v", ColActualOutcome, err)
		}
		if p.DecimalOdds, err = optionalFloat(record, cols, ColDecimalOdds); err != nil {
			return nil, newRowError(source, line, "invalid %s: %v", ColDecimalOdds, err)
		}
		if p.Stake, err = optionalFloat(record, cols, ColStake); err != nil {
			return nil, newRowError(source, line, "invalid %s: %v", ColStake, err)
		}
		if p.ClosingOdds, err = optionalFloat(record, cols, ColClosingOdds); err != nil {
			return nil, newRowError(source, line, "invalid %s: %v", ColClosingOdds, err)
		}

		if err := validatePrediction(source, line, p); err != nil {
			return nil, err
		}
		rows = append(rows, p)
	}

	return rows, nil
}

// ReadOutcomesCSV parses a game outcome table with a header row. Outcome
// columns are those prefixed "outcome_" or named "won" or "result"; column
// names are kept as outcome labels. Blank outcome cells are omitted and rows
// without any outcome are skipped. game_id defaults to the zero-based data
// row index.
func ReadOutcomesCSV(r io.Reader, source string) ([]models.OutcomeRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", source, err)
	}
	cols := indexColumns(header)

	var labels []string
	for _, name := range header {
		name = strings.TrimSpace(name)
		if isOutcomeColumn(name) {
			labels = append(labels, name)
		}
	}

	var rows []models.OutcomeRow
	for line := 1; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, newRowError(source, line, "%v", err)
		}

		outcomes := make(map[string]bool, len(labels))
		for _, label := range labels {
			raw := field(record, cols, label)
			if raw == "" {
				continue
			}
			v, err := parseOutcome(raw)
			if err != nil {
				return nil, newRowError(source, line, "invalid %s: %v", label, err)
			}
			outcomes[label] = v
		}
		if len(outcomes) == 0 {
			continue
		}

		row := models.OutcomeRow{
			GameID:   field(record, cols, ColGameID),
			Outcomes: outcomes,
		}
		if row.GameID == "" {
			row.GameID = strconv.Itoa(line - 1)
		}
		if raw := field(record, cols, ColGameDate); raw != "" {
			if row.GameDate, err = parseDate(raw); err != nil {
				return nil, newRowError(source, line, "invalid %s: %v", ColGameDate, err)
			}
		}

		if err := rowValidator().Struct(row); err != nil {
			return nil, newRowError(source, line, "%v", err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func isOutcomeColumn(name string) bool {
	return strings.HasPrefix(name, OutcomePrefix) || name == "won" || name == "result"
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	return cols
}

func field(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func optionalFloat(record []string, cols map[string]int, name string) (*float64, error) {
	raw := field(record, cols, name)
	if raw == "" || strings.EqualFold(raw, "nan") {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// parseOutcome accepts boolean words and numeric 0/1 encodings.
func parseOutcome(raw string) (bool, error) {
	if b, err := strconv.ParseBool(strings.ToLower(raw)); err == nil {
		return b, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return false, fmt.Errorf("not a boolean: %q", raw)
	}
	return v != 0, nil
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
}
