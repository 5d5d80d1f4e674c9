package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"

	"dlfx/internal/domain/entity"
	"dlfx/internal/domain/port"
)

var (
	ErrNoImagePaths   = errors.New("no image paths provided")
	ErrNoValidImages  = errors.New("no valid images could be loaded")
	ErrRankingsLength = errors.New("rankings and labels must match the number of images")
)

// GridRequest параметры построения сетки из файлов.
type GridRequest struct {
	Titles             []string
	UseFilenameAsTitle bool
	Grid               entity.GridOptions
}

// GridService собирает сетки изображений для визуального просмотра входов и выходов модели.
type GridService struct {
	loader     port.ImageLoader
	normalizer *Normalizer
	renderer   port.GridRenderer
}

func NewGridService(loader port.ImageLoader, normalizer *Normalizer, renderer port.GridRenderer) *GridService {
	return &GridService{
		loader:     loader,
		normalizer: normalizer,
		renderer:   renderer,
	}
}

// FromPaths загружает изображения и рисует их сеткой.
// Отсутствующие и нечитаемые файлы пропускаются с предупреждением в лог.
func (s *GridService) FromPaths(ctx context.Context, paths []string, req GridRequest) (image.Image, error) {
	if len(paths) == 0 {
		return nil, ErrNoImagePaths
	}

	cells := make([]entity.GridCell, 0, len(paths))
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			log.Printf("Warning: file not found: %s", path)
			continue
		}
		arr, err := s.loader.Load(ctx, path)
		if err != nil {
			log.Printf("Error loading %s: %v", path, err)
			continue
		}
		img, err := s.cellImage(arr)
		if err != nil {
			log.Printf("Error loading %s: %v", path, err)
			continue
		}

		cell := entity.GridCell{Image: img}
		if req.UseFilenameAsTitle && req.Titles == nil {
			cell.Title = filepath.Base(path)
		}
		cells = append(cells, cell)
	}
	if len(cells) == 0 {
		return nil, ErrNoValidImages
	}

	for i := range cells {
		if i < len(req.Titles) {
			cells[i].Title = req.Titles[i]
		}
	}
	return s.renderer.Render(cells, req.Grid)
}

// FromBatch рисует обработанные тензоры пачки с подписями лучших предсказаний.
func (s *GridService) FromBatch(batch entity.Batch, texts []string, rankings [][]int, labels []string, opts entity.GridOptions) (image.Image, error) {
	if len(batch.Samples) == 0 {
		return nil, ErrNoImagePaths
	}
	titles, err := PredictionTitles(texts, rankings, labels)
	if err != nil {
		return nil, err
	}
	if len(titles) != len(batch.Samples) {
		return nil, ErrRankingsLength
	}

	cells := make([]entity.GridCell, len(batch.Samples))
	for i, sample := range batch.Samples {
		cells[i] = entity.GridCell{Image: sample.Features.ToRGB(), Title: titles[i]}
	}
	return s.renderer.Render(cells, opts)
}

// DisplayPrediction рисует одно изображение с ответом модели и истинной меткой.
func (s *GridService) DisplayPrediction(img image.Image, prediction, label string, opts entity.GridOptions) (image.Image, error) {
	cell := entity.GridCell{
		Image: img,
		Title: fmt.Sprintf("Prediction: %s\nLabel: %s", prediction, label),
	}
	opts.Cols = 1
	return s.renderer.Render([]entity.GridCell{cell}, opts)
}

// PredictionTitles строит подписи Top1..Top3 по возрастающему ранжированию текстов.
func PredictionTitles(texts []string, rankings [][]int, labels []string) ([]string, error) {
	if len(rankings) != len(labels) {
		return nil, ErrRankingsLength
	}
	titles := make([]string, len(rankings))
	for i, ranking := range rankings {
		title := ""
		for k := 1; k <= 3 && k <= len(ranking); k++ {
			idx := ranking[len(ranking)-k]
			if idx < 0 || idx >= len(texts) {
				return nil, fmt.Errorf("ranking %d: text index %d out of range", i, idx)
			}
			title += fmt.Sprintf("Top%d: %s\n", k, texts[idx])
		}
		titles[i] = title + "Label: " + labels[i]
	}
	return titles, nil
}

// cellImage готовит массив к показу: серые изображения растягиваются по диапазону,
// цветные обрезаются до 8 бит.
func (s *GridService) cellImage(arr *entity.Array) (image.Image, error) {
	if arr.NDim() == 2 || arr.Channels() == 1 {
		return s.normalizer.Normalize(arr)
	}
	if err := arr.Validate(); err != nil {
		return nil, err
	}
	if arr.NDim() != 3 || arr.Channels() < 3 {
		return nil, &entity.UnsupportedShapeError{Shape: arr.Shape}
	}

	img := entity.NewRGBImage(arr.Width(), arr.Height())
	channels := arr.Channels()
	for i := 0; i < arr.Width()*arr.Height(); i++ {
		for c := 0; c < 3; c++ {
			v := arr.Data[i*channels+c]
			img.Pix[i*3+c] = uint8(max(0, min(255, v)))
		}
	}
	return img, nil
}
