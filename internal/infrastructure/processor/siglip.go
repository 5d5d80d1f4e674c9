package processor

import (
	"errors"
	"image"

	"golang.org/x/image/draw"

	"dlfx/internal/domain/entity"
	"dlfx/internal/domain/port"
)

// DefaultSize — сторона входа модели MedSigLIP-448.
const DefaultSize = 448

// SigLIP готовит RGB-изображение для визуального энкодера: ресайз до Size×Size,
// масштаб 1/255, нормализация (x-mean)/std и раскладка CHW.
type SigLIP struct {
	Size int
	Mean [3]float32
	Std  [3]float32
}

// NewSigLIP создаёт процессор с mean=std=0.5, что отображает пиксели в [-1, 1].
func NewSigLIP(size int) *SigLIP {
	if size <= 0 {
		size = DefaultSize
	}
	return &SigLIP{
		Size: size,
		Mean: [3]float32{0.5, 0.5, 0.5},
		Std:  [3]float32{0.5, 0.5, 0.5},
	}
}

// Process возвращает тензор 3×Size×Size.
func (p *SigLIP) Process(img *entity.RGBImage) (*entity.Features, error) {
	if img == nil || img.Width == 0 || img.Height == 0 {
		return nil, errors.New("empty image")
	}

	dst := image.NewRGBA(image.Rect(0, 0, p.Size, p.Size))
	draw.BiLinear.Scale(dst, dst.Rect, img, img.Bounds(), draw.Src, nil)

	plane := p.Size * p.Size
	out := &entity.Features{
		PixelValues: make([]float32, 3*plane),
		Channels:    3,
		Height:      p.Size,
		Width:       p.Size,
	}
	for i := 0; i < plane; i++ {
		for c := 0; c < 3; c++ {
			v := float32(dst.Pix[i*4+c]) / 255
			out.PixelValues[c*plane+i] = (v - p.Mean[c]) / p.Std[c]
		}
	}
	return out, nil
}

var _ port.FeatureProcessor = (*SigLIP)(nil)
