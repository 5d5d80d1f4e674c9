package entity

import "math"

// Features — тензор пикселей в формате CHW, подготовленный для модели.
type Features struct {
	PixelValues []float32
	Channels    int
	Height      int
	Width       int
}

// Sample — один элемент датасета.
type Sample struct {
	Path     string
	Features *Features
	Label    []float64 // nil, если метки не заданы
}

// Batch — пачка элементов, собранная загрузчиком.
type Batch struct {
	Index   int
	Samples []Sample
}

// Paths возвращает пути всех элементов пачки.
func (b Batch) Paths() []string {
	paths := make([]string, len(b.Samples))
	for i, s := range b.Samples {
		paths[i] = s.Path
	}
	return paths
}

// Labels возвращает метки пачки или nil, если меток нет.
func (b Batch) Labels() [][]float64 {
	if len(b.Samples) == 0 || b.Samples[0].Label == nil {
		return nil
	}
	labels := make([][]float64, len(b.Samples))
	for i, s := range b.Samples {
		labels[i] = s.Label
	}
	return labels
}

// Record — строка манифеста датасета.
type Record struct {
	ImagePath string
	Split     string
	Values    map[string]string // остальные колонки
}

// Названия разбиений в манифесте.
const (
	SplitTrain = "Train"
	SplitValid = "Valid"
	SplitTest  = "Test"
)

// ToRGB переводит тензор из диапазона [-1, 1] обратно в 8-битное изображение.
func (f *Features) ToRGB() *RGBImage {
	img := NewRGBImage(f.Width, f.Height)
	plane := f.Height * f.Width
	for c := 0; c < 3; c++ {
		src := c
		if f.Channels == 1 {
			src = 0
		}
		for i := 0; i < plane; i++ {
			v := math.Round(255 * (float64(f.PixelValues[src*plane+i]) + 1) / 2)
			img.Pix[i*3+c] = uint8(max(0, min(255, v)))
		}
	}
	return img
}
