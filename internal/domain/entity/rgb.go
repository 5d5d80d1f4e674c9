package entity

import (
	"image"
	"image/color"
)

// ModeRGB — явный цветовой режим нормализованного изображения.
const ModeRGB = "RGB"

// RGBImage — 8-битное трёхканальное изображение H×W×3.
type RGBImage struct {
	Width  int
	Height int
	Pix    []uint8 // R, G, B подряд для каждого пикселя
}

// NewRGBImage создаёт чёрное изображение заданного размера.
func NewRGBImage(width, height int) *RGBImage {
	return &RGBImage{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
	}
}

// Mode возвращает цветовой режим изображения.
func (m *RGBImage) Mode() string {
	return ModeRGB
}

// PixOffset возвращает индекс первого байта пикселя (x, y) в Pix.
func (m *RGBImage) PixOffset(x, y int) int {
	return (y*m.Width + x) * 3
}

func (m *RGBImage) ColorModel() color.Model {
	return color.RGBAModel
}

func (m *RGBImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width, m.Height)
}

func (m *RGBImage) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(m.Bounds())) {
		return color.RGBA{}
	}
	i := m.PixOffset(x, y)
	return color.RGBA{R: m.Pix[i], G: m.Pix[i+1], B: m.Pix[i+2], A: 0xff}
}

var _ image.Image = (*RGBImage)(nil)
