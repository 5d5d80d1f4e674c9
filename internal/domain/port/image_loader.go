package port

import (
	"context"

	"dlfx/internal/domain/entity"
)

// ImageLoader интерфейс загрузчика изображений
type ImageLoader interface {
	// Load читает файл и возвращает декодированный массив пикселей
	Load(ctx context.Context, path string) (*entity.Array, error)

	// Decode декодирует изображение из байтов
	Decode(ctx context.Context, data []byte) (*entity.Array, error)
}
