package vision

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"dlfx/internal/domain/entity"
	"dlfx/internal/domain/port"
)

// RasterLoader декодирует PNG, JPEG, GIF, TIFF и BMP средствами пакета image.
type RasterLoader struct{}

// NewRasterLoader создаёт загрузчик растровых изображений.
func NewRasterLoader() *RasterLoader {
	return &RasterLoader{}
}

// Load читает файл и декодирует его.
func (l *RasterLoader) Load(ctx context.Context, path string) (*entity.Array, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return l.Decode(ctx, data)
}

// Decode декодирует изображение из байтов.
func (l *RasterLoader) Decode(ctx context.Context, data []byte) (*entity.Array, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("decode %s: %w", format, entity.ErrEmptyImage)
	}
	return ArrayFromImage(img), nil
}

var _ port.ImageLoader = (*RasterLoader)(nil)
