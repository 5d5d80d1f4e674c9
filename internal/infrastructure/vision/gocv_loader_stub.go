//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"

	"dlfx/internal/domain/entity"
)

// GoCVEnabled сообщает, собран ли пакет с OpenCV.
const GoCVEnabled = false

var errNoGoCV = errors.New("gocv build tag is not enabled")

// GoCVLoader заглушка загрузчика (без OpenCV).
type GoCVLoader struct{}

// NewGoCVLoader создаёт загрузчик-заглушку.
func NewGoCVLoader() *GoCVLoader {
	return &GoCVLoader{}
}

// Load возвращает ошибку, если сборка без тега gocv.
func (l *GoCVLoader) Load(ctx context.Context, path string) (*entity.Array, error) {
	_ = ctx
	_ = path
	return nil, errNoGoCV
}

// Decode возвращает ошибку, если сборка без тега gocv.
func (l *GoCVLoader) Decode(ctx context.Context, data []byte) (*entity.Array, error) {
	_ = ctx
	_ = data
	return nil, errNoGoCV
}
