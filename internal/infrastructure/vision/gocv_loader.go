//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"

	"gocv.io/x/gocv"

	"dlfx/internal/domain/entity"
	"dlfx/internal/domain/port"
)

// GoCVEnabled сообщает, собран ли пакет с OpenCV.
const GoCVEnabled = true

// GoCVLoader читает изображения через OpenCV, сохраняя исходную разрядность (16 бит, float).
type GoCVLoader struct{}

// NewGoCVLoader создаёт загрузчик на базе OpenCV.
func NewGoCVLoader() *GoCVLoader {
	return &GoCVLoader{}
}

// Load читает файл с флагом IMReadUnchanged.
func (l *GoCVLoader) Load(ctx context.Context, path string) (*entity.Array, error) {
	_ = ctx
	mat := gocv.IMRead(path, gocv.IMReadUnchanged)
	if mat.Empty() {
		return nil, fmt.Errorf("could not load image: %s", path)
	}
	defer mat.Close()
	return matToArray(mat)
}

// Decode декодирует байты изображения.
func (l *GoCVLoader) Decode(ctx context.Context, data []byte) (*entity.Array, error) {
	_ = ctx
	mat, err := decodeToMat(data)
	if err != nil {
		return nil, err
	}
	defer mat.Close()
	return matToArray(mat)
}

// decodeToMat превращает байты изображения в gocv.Mat.
func decodeToMat(data []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(data, gocv.IMReadUnchanged)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if !mat.Empty() {
		mat.Close()
	}
	return gocv.NewMat(), errors.New("failed to decode image")
}

// matToArray копирует пиксели в float64 и переставляет каналы BGR(A) в RGB(A).
func matToArray(mat gocv.Mat) (*entity.Array, error) {
	rows, cols, channels := mat.Rows(), mat.Cols(), mat.Channels()
	if rows == 0 || cols == 0 {
		return nil, entity.ErrEmptyImage
	}

	// Меняется только глубина, число каналов остаётся прежним.
	wide := gocv.NewMat()
	defer wide.Close()
	mat.ConvertTo(&wide, gocv.MatTypeCV64F)

	data, err := wide.DataPtrFloat64()
	if err != nil {
		return nil, fmt.Errorf("read pixels: %w", err)
	}

	var out *entity.Array
	if channels == 1 {
		out = entity.NewArray(rows, cols)
	} else {
		out = entity.NewArray(rows, cols, channels)
	}
	copy(out.Data, data[:len(out.Data)])

	if channels == 3 || channels == 4 {
		for i := 0; i < rows*cols; i++ {
			j := i * channels
			out.Data[j], out.Data[j+2] = out.Data[j+2], out.Data[j]
		}
	}
	return out, nil
}

var _ port.ImageLoader = (*GoCVLoader)(nil)
