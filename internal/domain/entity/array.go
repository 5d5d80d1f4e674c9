package entity

import "fmt"

// Array — исходное изображение: H×W или H×W×C значений яркости в row-major порядке.
type Array struct {
	Shape []int     // размерности: [H, W] или [H, W, C]
	Data  []float64 // значения пикселей, диапазон произвольный
}

// NewArray создаёт массив заданной формы, заполненный нулями.
func NewArray(shape ...int) *Array {
	return &Array{
		Shape: append([]int(nil), shape...),
		Data:  make([]float64, product(shape)),
	}
}

// NDim возвращает число измерений.
func (a *Array) NDim() int {
	return len(a.Shape)
}

// Height возвращает высоту изображения.
func (a *Array) Height() int {
	if len(a.Shape) < 1 {
		return 0
	}
	return a.Shape[0]
}

// Width возвращает ширину изображения.
func (a *Array) Width() int {
	if len(a.Shape) < 2 {
		return 0
	}
	return a.Shape[1]
}

// Channels возвращает число каналов (1 для двумерного массива).
func (a *Array) Channels() int {
	if len(a.Shape) == 3 {
		return a.Shape[2]
	}
	return 1
}

// Channel копирует плоскость канала c в новый срез.
func (a *Array) Channel(c int) []float64 {
	channels := a.Channels()
	n := a.Height() * a.Width()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = a.Data[i*channels+c]
	}
	return out
}

// Validate проверяет, что длина данных совпадает с формой.
func (a *Array) Validate() error {
	if len(a.Data) != product(a.Shape) {
		return fmt.Errorf("%w: shape %v needs %d values, got %d", ErrShapeMismatch, a.Shape, product(a.Shape), len(a.Data))
	}
	return nil
}

// ArrayFromRGB превращает нормализованное изображение обратно в массив H×W×3.
func ArrayFromRGB(img *RGBImage) *Array {
	out := NewArray(img.Height, img.Width, 3)
	for i, v := range img.Pix {
		out.Data[i] = float64(v)
	}
	return out
}

func product(shape []int) int {
	if len(shape) == 0 {
		return 0
	}
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}
