package vision

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"dlfx/internal/domain/entity"
	"dlfx/internal/domain/port"
)

// dicomMagic стоит после 128-байтной преамбулы файла DICOM.
var dicomMagic = []byte("DICM")

// IsDICOM проверяет сигнатуру DICOM.
func IsDICOM(data []byte) bool {
	return len(data) >= 132 && bytes.Equal(data[128:132], dicomMagic)
}

// AutoLoader выбирает загрузчик по содержимому: DICOM или обычный растр.
type AutoLoader struct {
	dicom  port.ImageLoader
	raster port.ImageLoader
}

// NewAutoLoader создаёт составной загрузчик.
func NewAutoLoader(dicom, raster port.ImageLoader) *AutoLoader {
	return &AutoLoader{dicom: dicom, raster: raster}
}

// Load читает файл и передаёт его подходящему загрузчику.
func (l *AutoLoader) Load(ctx context.Context, path string) (*entity.Array, error) {
	if strings.EqualFold(filepath.Ext(path), ".dcm") {
		return l.dicom.Load(ctx, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return l.Decode(ctx, data)
}

// Decode определяет формат по сигнатуре.
func (l *AutoLoader) Decode(ctx context.Context, data []byte) (*entity.Array, error) {
	if IsDICOM(data) {
		return l.dicom.Decode(ctx, data)
	}
	return l.raster.Decode(ctx, data)
}

var _ port.ImageLoader = (*AutoLoader)(nil)
