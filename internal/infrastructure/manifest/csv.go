package manifest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"dlfx/internal/domain/entity"
)

// Колонки манифеста датасета.
const (
	ColumnImagePath = "ImagePath"
	ColumnSplit     = "Split"
)

// Колонки файла предсказаний.
const (
	ColumnPrediction = "prediction"
	ColumnReference  = "reference"
	ColumnRawOutput  = "raw_output"
)

// Predictions — содержимое файла предсказаний.
type Predictions struct {
	Predictions []int
	References  []int
	RawOutputs  []string // nil, если колонки нет
}

// ReadRecordsFile читает манифест датасета из CSV.
func ReadRecordsFile(path string) ([]entity.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadRecords(f)
}

// ReadRecords читает манифест: обязательные колонки ImagePath и Split, остальные идут в Values.
func ReadRecords(r io.Reader) ([]entity.Record, error) {
	header, rows, err := readTable(r)
	if err != nil {
		return nil, err
	}
	pathCol, err := column(header, ColumnImagePath)
	if err != nil {
		return nil, err
	}
	splitCol, err := column(header, ColumnSplit)
	if err != nil {
		return nil, err
	}

	records := make([]entity.Record, 0, len(rows))
	for _, row := range rows {
		rec := entity.Record{
			ImagePath: row[pathCol],
			Split:     row[splitCol],
			Values:    make(map[string]string, len(header)),
		}
		for i, name := range header {
			if i != pathCol && i != splitCol {
				rec.Values[name] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// ReadPredictionsFile читает предсказания из CSV.
func ReadPredictionsFile(path string) (*Predictions, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadPredictions(f)
}

// ReadPredictions читает колонки prediction, reference и необязательную raw_output.
func ReadPredictions(r io.Reader) (*Predictions, error) {
	header, rows, err := readTable(r)
	if err != nil {
		return nil, err
	}
	predCol, err := column(header, ColumnPrediction)
	if err != nil {
		return nil, err
	}
	refCol, err := column(header, ColumnReference)
	if err != nil {
		return nil, err
	}
	rawCol, rawErr := column(header, ColumnRawOutput)

	out := &Predictions{}
	for i, row := range rows {
		pred, err := strconv.Atoi(strings.TrimSpace(row[predCol]))
		if err != nil {
			return nil, fmt.Errorf("row %d: prediction: %w", i+1, err)
		}
		ref, err := strconv.Atoi(strings.TrimSpace(row[refCol]))
		if err != nil {
			return nil, fmt.Errorf("row %d: reference: %w", i+1, err)
		}
		out.Predictions = append(out.Predictions, pred)
		out.References = append(out.References, ref)
		if rawErr == nil {
			out.RawOutputs = append(out.RawOutputs, row[rawCol])
		}
	}
	return out, nil
}

func readTable(r io.Reader) ([]string, [][]string, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, errors.New("csv has no header")
	}
	return rows[0], rows[1:], nil
}

func column(header []string, name string) (int, error) {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("missing column %q", name)
}
