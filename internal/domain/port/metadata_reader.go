package port

import (
	"context"

	"dlfx/internal/domain/entity"
)

// MetadataReader интерфейс чтения метаданных DICOM
type MetadataReader interface {
	// ReadFile возвращает плоский список тегов файла
	ReadFile(ctx context.Context, path string) ([]entity.MetadataField, error)

	// Read возвращает плоский список тегов из байтов
	Read(ctx context.Context, data []byte) ([]entity.MetadataField, error)
}
