package app

import (
	"fmt"
	"strconv"

	"github.com/samber/lo"

	"dlfx/internal/domain/entity"
	"dlfx/internal/domain/port"
)

// SplitConfig описывает, как из манифеста собрать загрузчики.
type SplitConfig struct {
	ImgBasePath string   // префикс, добавляемый к ImagePath
	Labels      []string // колонки с метками; пусто — без меток
	BatchSize   int
	Workers     int
	Seed        uint64
}

// DataLoaders — загрузчики обучающей, валидационной и тестовой выборок.
type DataLoaders struct {
	Train *DataLoader
	Valid *DataLoader
	Test  *DataLoader
}

// BuildDataLoaders делит записи по колонке Split и создаёт три загрузчика.
// Обучающая выборка перемешивается, остальные идут в исходном порядке.
func BuildDataLoaders(records []entity.Record, cfg SplitConfig, loader port.ImageLoader, normalizer *Normalizer, processor port.FeatureProcessor) (*DataLoaders, error) {
	build := func(split string, shuffle bool) (*DataLoader, error) {
		rows := lo.Filter(records, func(r entity.Record, _ int) bool {
			return r.Split == split
		})
		paths := lo.Map(rows, func(r entity.Record, _ int) string {
			return cfg.ImgBasePath + r.ImagePath
		})
		labels, err := recordLabels(rows, cfg.Labels)
		if err != nil {
			return nil, fmt.Errorf("%s split: %w", split, err)
		}
		ds, err := NewDataset(paths, labels, loader, normalizer, processor)
		if err != nil {
			return nil, fmt.Errorf("%s split: %w", split, err)
		}
		return NewDataLoader(ds, LoaderOptions{
			BatchSize: cfg.BatchSize,
			Shuffle:   shuffle,
			Workers:   cfg.Workers,
			Seed:      cfg.Seed,
		}), nil
	}

	train, err := build(entity.SplitTrain, true)
	if err != nil {
		return nil, err
	}
	valid, err := build(entity.SplitValid, false)
	if err != nil {
		return nil, err
	}
	test, err := build(entity.SplitTest, false)
	if err != nil {
		return nil, err
	}
	return &DataLoaders{Train: train, Valid: valid, Test: test}, nil
}

func recordLabels(rows []entity.Record, columns []string) ([][]float64, error) {
	if len(columns) == 0 {
		return nil, nil
	}
	labels := make([][]float64, len(rows))
	for i, r := range rows {
		label := make([]float64, len(columns))
		for j, col := range columns {
			raw, ok := r.Values[col]
			if !ok {
				return nil, fmt.Errorf("row %d (%s): missing label column %q", i, r.ImagePath, col)
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d (%s): label %q: %w", i, r.ImagePath, col, err)
			}
			label[j] = v
		}
		labels[i] = label
	}
	return labels, nil
}
