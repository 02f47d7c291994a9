package datasource

import (
	"fmt"
	"path/filepath"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"

	"github.com/yourusername/betting-trust/internal/models"
)

const parquetReadParallelism = 4

// parquetPrediction is the on-disk layout of a prediction table.
type parquetPrediction struct {
	PredictedProb float64  `parquet:"name=predicted_prob, type=DOUBLE"`
	ActualOutcome bool     `parquet:"name=actual_outcome, type=BOOLEAN"`
	DecimalOdds   *float64 `parquet:"name=decimal_odds, type=DOUBLE, repetitiontype=OPTIONAL"`
	Stake         *float64 `parquet:"name=stake, type=DOUBLE, repetitiontype=OPTIONAL"`
	ClosingOdds   *float64 `parquet:"name=closing_odds, type=DOUBLE, repetitiontype=OPTIONAL"`
}

func (p parquetPrediction) toRow() models.PredictionRow {
	return models.PredictionRow{
		PredictedProb: p.PredictedProb,
		ActualOutcome: p.ActualOutcome,
		DecimalOdds:   p.DecimalOdds,
		Stake:         p.Stake,
		ClosingOdds:   p.ClosingOdds,
	}
}

func readPredictionsParquet(path string) ([]models.PredictionRow, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(parquetPrediction), parquetReadParallelism)
	if err != nil {
		return nil, fmt.Errorf("new parquet reader: %w", err)
	}
	defer pr.ReadStop()

	n := int(pr.GetNumRows())
	records := make([]parquetPrediction, n)
	if err := pr.Read(&records); err != nil {
		return nil, fmt.Errorf("read parquet rows: %w", err)
	}

	source := filepath.Base(path)
	rows := make([]models.PredictionRow, 0, n)
	for i, rec := range records {
		row := rec.toRow()
		if err := validatePrediction(source, i+1, row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return rows, nil
}
