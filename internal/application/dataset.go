package app

import (
	"context"
	"errors"
	"fmt"

	"dlfx/internal/domain/entity"
	"dlfx/internal/domain/port"
)

// ErrLabelCount — число меток не совпадает с числом изображений.
var ErrLabelCount = errors.New("number of image paths must match number of labels")

// Dataset отдаёт изображения по индексу: загрузка, нормализация, подготовка тензора.
type Dataset struct {
	paths      []string
	labels     [][]float64
	loader     port.ImageLoader
	normalizer *Normalizer
	processor  port.FeatureProcessor
}

// NewDataset создаёт датасет. labels может быть nil.
func NewDataset(paths []string, labels [][]float64, loader port.ImageLoader, normalizer *Normalizer, processor port.FeatureProcessor) (*Dataset, error) {
	if labels != nil && len(labels) != len(paths) {
		return nil, fmt.Errorf("%w: %d paths, %d labels", ErrLabelCount, len(paths), len(labels))
	}
	return &Dataset{
		paths:      paths,
		labels:     labels,
		loader:     loader,
		normalizer: normalizer,
		processor:  processor,
	}, nil
}

// Len возвращает число изображений.
func (d *Dataset) Len() int {
	return len(d.paths)
}

// Get загружает и подготавливает элемент с индексом idx.
func (d *Dataset) Get(ctx context.Context, idx int) (entity.Sample, error) {
	if idx < 0 || idx >= len(d.paths) {
		return entity.Sample{}, fmt.Errorf("index %d out of range [0, %d)", idx, len(d.paths))
	}
	path := d.paths[idx]

	img, err := d.loadRGB(ctx, path)
	if err != nil {
		return entity.Sample{}, fmt.Errorf("error loading image %s: %w", path, err)
	}

	features, err := d.processor.Process(img)
	if err != nil {
		return entity.Sample{}, fmt.Errorf("process image %s: %w", path, err)
	}

	sample := entity.Sample{Path: path, Features: features}
	if d.labels != nil {
		sample.Label = append([]float64(nil), d.labels[idx]...)
	}
	return sample, nil
}

func (d *Dataset) loadRGB(ctx context.Context, path string) (*entity.RGBImage, error) {
	arr, err := d.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return d.normalizer.Normalize(arr)
}
