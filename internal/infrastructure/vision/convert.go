package vision

import (
	"image"
	"image/color"

	"dlfx/internal/domain/entity"
)

// ArrayFromImage переводит декодированное изображение в массив без потери разрядности.
// Серые изображения дают H×W, цветные H×W×3, полупрозрачные H×W×4.
func ArrayFromImage(img image.Image) *entity.Array {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	switch src := img.(type) {
	case *image.Gray:
		out := entity.NewArray(h, w)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.Data[y*w+x] = float64(src.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			}
		}
		return out
	case *image.Gray16:
		out := entity.NewArray(h, w)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.Data[y*w+x] = float64(src.Gray16At(b.Min.X+x, b.Min.Y+y).Y)
			}
		}
		return out
	}

	channels := 3
	if o, ok := img.(interface{ Opaque() bool }); ok && !o.Opaque() {
		channels = 4
	}
	out := entity.NewArray(h, w, channels)
	deep := isSixteenBit(img)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * channels
			c := img.At(b.Min.X+x, b.Min.Y+y)
			if deep {
				p := color.NRGBA64Model.Convert(c).(color.NRGBA64)
				out.Data[i], out.Data[i+1], out.Data[i+2] = float64(p.R), float64(p.G), float64(p.B)
				if channels == 4 {
					out.Data[i+3] = float64(p.A)
				}
				continue
			}
			p := color.NRGBAModel.Convert(c).(color.NRGBA)
			out.Data[i], out.Data[i+1], out.Data[i+2] = float64(p.R), float64(p.G), float64(p.B)
			if channels == 4 {
				out.Data[i+3] = float64(p.A)
			}
		}
	}
	return out
}

func isSixteenBit(img image.Image) bool {
	switch img.(type) {
	case *image.RGBA64, *image.NRGBA64:
		return true
	}
	return false
}
