package port

import (
	"image"

	"dlfx/internal/domain/entity"
)

// GridRenderer рисует сетку изображений с подписями
type GridRenderer interface {
	Render(cells []entity.GridCell, opts entity.GridOptions) (image.Image, error)
}
