package app

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"dlfx/internal/domain/entity"
)

// Normalizer приводит изображение любой разрядности к 8-битному RGB,
// растягивая каждый канал независимо на весь диапазон 0..255.
type Normalizer struct {
	Rounding entity.RoundingMode
}

// NewNormalizer создаёт нормализатор с заданным режимом округления.
func NewNormalizer(rounding entity.RoundingMode) *Normalizer {
	if rounding == "" {
		rounding = entity.RoundTruncate
	}
	return &Normalizer{Rounding: rounding}
}

// Normalize возвращает новое изображение H×W×3, исходный массив не меняется.
func (n *Normalizer) Normalize(src *entity.Array) (*entity.RGBImage, error) {
	switch {
	case src.NDim() == 2:
	case src.NDim() == 3 && (src.Channels() == 1 || src.Channels() == 3):
	default:
		return nil, &entity.UnsupportedShapeError{Shape: append([]int(nil), src.Shape...)}
	}
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if src.Height() == 0 || src.Width() == 0 {
		return nil, entity.ErrEmptyImage
	}

	out := entity.NewRGBImage(src.Width(), src.Height())
	channels := src.Channels()
	for c := 0; c < channels; c++ {
		plane := n.rescale(src.Channel(c))
		if channels == 1 {
			for i, v := range plane {
				out.Pix[i*3], out.Pix[i*3+1], out.Pix[i*3+2] = v, v, v
			}
			continue
		}
		for i, v := range plane {
			out.Pix[i*3+c] = v
		}
	}
	return out, nil
}

// rescale растягивает один канал. Постоянный канал, а также канал с NaN
// или бесконечным размахом становится нулевым.
func (n *Normalizer) rescale(plane []float64) []uint8 {
	out := make([]uint8, len(plane))
	if floats.HasNaN(plane) {
		return out
	}
	minVal, maxVal := floats.Min(plane), floats.Max(plane)
	if !(maxVal > minVal) {
		return out
	}
	span := maxVal - minVal
	if math.IsInf(span, 0) {
		return out
	}
	for i, p := range plane {
		v := (p - minVal) * 255.0 / span
		if n.Rounding == entity.RoundNearest {
			v = math.Round(v)
		}
		out[i] = uint8(v)
	}
	return out
}
