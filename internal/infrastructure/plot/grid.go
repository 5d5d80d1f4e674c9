package plot

import (
	"errors"
	"image"
	"image/color"
	"math"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"dlfx/internal/domain/entity"
	"dlfx/internal/domain/port"
)

const (
	defaultCellSize = 256
	lineHeight      = 15
	padding         = 4
)

// ErrNoCells — нечего рисовать.
var ErrNoCells = errors.New("no images to plot")

// GridRenderer рисует сетку изображений на белом фоне с подписями над ячейками.
type GridRenderer struct {
	Face       font.Face
	Background color.Color
	Foreground color.Color
}

// NewGridRenderer создаёт рендерер со шрифтом basicfont 7×13.
func NewGridRenderer() *GridRenderer {
	return &GridRenderer{
		Face:       basicfont.Face7x13,
		Background: color.White,
		Foreground: color.Black,
	}
}

// Render рисует ячейки построчно. Изображение вписывается в ячейку с сохранением пропорций.
func (r *GridRenderer) Render(cells []entity.GridCell, opts entity.GridOptions) (image.Image, error) {
	n := len(cells)
	if n == 0 {
		return nil, ErrNoCells
	}
	cols := opts.Cols
	if cols <= 0 {
		cols = int(math.Ceil(math.Sqrt(float64(n))))
	}
	rows := (n + cols - 1) / cols
	size := opts.CellSize
	if size <= 0 {
		size = defaultCellSize
	}

	titleLines := 0
	for _, c := range cells {
		titleLines = max(titleLines, lineCount(c.Title))
	}
	header := 0
	if opts.Suptitle != "" {
		header = lineHeight + 2*padding
	}
	cellH := size + titleLines*lineHeight + 2*padding
	cellW := size + 2*padding

	canvas := image.NewRGBA(image.Rect(0, 0, cols*cellW, header+rows*cellH))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(r.Background), image.Point{}, draw.Src)

	if opts.Suptitle != "" {
		r.drawCentered(canvas, opts.Suptitle, 0, canvas.Bounds().Dx(), padding+lineHeight-2)
	}

	for i, c := range cells {
		x0 := (i % cols) * cellW
		y0 := header + (i/cols)*cellH

		if c.Title != "" {
			for j, line := range strings.Split(c.Title, "\n") {
				r.drawCentered(canvas, line, x0, cellW, y0+padding+(j+1)*lineHeight-2)
			}
		}

		area := image.Rect(x0+padding, y0+padding+titleLines*lineHeight, x0+padding+size, y0+padding+titleLines*lineHeight+size)
		draw.BiLinear.Scale(canvas, fit(c.Image.Bounds(), area), c.Image, c.Image.Bounds(), draw.Src, nil)
	}
	return canvas, nil
}

func (r *GridRenderer) drawCentered(dst draw.Image, text string, x0, width, baseline int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(r.Foreground),
		Face: r.Face,
	}
	w := d.MeasureString(text).Ceil()
	d.Dot = fixed.P(x0+max(0, (width-w)/2), baseline)
	d.DrawString(text)
}

// fit вписывает src в area по центру с сохранением пропорций.
func fit(src, area image.Rectangle) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	if sw == 0 || sh == 0 {
		return image.Rectangle{Min: area.Min, Max: area.Min}
	}
	scale := math.Min(float64(area.Dx())/float64(sw), float64(area.Dy())/float64(sh))
	w, h := int(float64(sw)*scale), int(float64(sh)*scale)
	x := area.Min.X + (area.Dx()-w)/2
	y := area.Min.Y + (area.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

var _ port.GridRenderer = (*GridRenderer)(nil)
