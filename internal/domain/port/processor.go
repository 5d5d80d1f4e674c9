package port

import "dlfx/internal/domain/entity"

// FeatureProcessor превращает RGB-изображение во входной тензор модели
type FeatureProcessor interface {
	Process(img *entity.RGBImage) (*entity.Features, error)
}
