package entity

import "image"

// GridCell — одна ячейка сетки изображений.
type GridCell struct {
	Image image.Image
	Title string // может содержать переводы строк
}

// GridOptions параметры отрисовки сетки.
type GridOptions struct {
	Cols     int    // 0 — ceil(sqrt(n))
	CellSize int    // сторона ячейки в пикселях, 0 — по умолчанию
	Suptitle string // общий заголовок
}
