package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeMismatch — длина данных не совпадает с формой массива.
	ErrShapeMismatch = errors.New("data length does not match shape")
	// ErrEmptyImage — в изображении нет ни одного пикселя.
	ErrEmptyImage = errors.New("image has no pixels")
)

// UnsupportedShapeError — размерность или число каналов не поддерживается нормализатором.
type UnsupportedShapeError struct {
	Shape []int
}

func (e *UnsupportedShapeError) Error() string {
	if len(e.Shape) == 3 {
		return fmt.Sprintf("unsupported channel count: %d (shape %v), expected 1 or 3", e.Shape[2], e.Shape)
	}
	return fmt.Sprintf("unsupported image dimensions: %d (shape %v)", len(e.Shape), e.Shape)
}
