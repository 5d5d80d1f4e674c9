package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"dlfx/internal/domain/entity"
)

// fakeLoader отдаёт массив 2×2, значения которого зависят от пути.
type fakeLoader struct {
	mu     sync.Mutex
	calls  []string
	failOn string
}

func (l *fakeLoader) Load(ctx context.Context, path string) (*entity.Array, error) {
	l.mu.Lock()
	l.calls = append(l.calls, path)
	l.mu.Unlock()
	if path == l.failOn {
		return nil, errors.New("broken file")
	}
	var seed float64
	fmt.Sscanf(path, "img%f", &seed)
	return &entity.Array{Shape: []int{2, 2}, Data: []float64{0, seed, seed * 2, 100}}, nil
}

func (l *fakeLoader) Decode(ctx context.Context, data []byte) (*entity.Array, error) {
	if string(data) == "bad" {
		return nil, errors.New("cannot decode")
	}
	if string(data) == "rgba" {
		return entity.NewArray(1, 1, 4), nil
	}
	return &entity.Array{Shape: []int{1, 2}, Data: []float64{0, 1}}, nil
}

// identityProcessor кладёт пиксели RGB-изображения в тензор без изменений.
type identityProcessor struct{}

func (identityProcessor) Process(img *entity.RGBImage) (*entity.Features, error) {
	f := &entity.Features{Channels: 3, Height: img.Height, Width: img.Width}
	for _, v := range img.Pix {
		f.PixelValues = append(f.PixelValues, float32(v))
	}
	return f, nil
}

type fakeRenderer struct {
	cells []entity.GridCell
	opts  entity.GridOptions
}

func (r *fakeRenderer) Render(cells []entity.GridCell, opts entity.GridOptions) (image.Image, error) {
	r.cells = cells
	r.opts = opts
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}

type fakeMetadataReader struct {
	fields []entity.MetadataField
	err    error
}

func (r *fakeMetadataReader) ReadFile(ctx context.Context, path string) ([]entity.MetadataField, error) {
	return r.fields, r.err
}

func (r *fakeMetadataReader) Read(ctx context.Context, data []byte) ([]entity.MetadataField, error) {
	return r.fields, r.err
}

// channelPlane копирует канал c изображения в отдельный срез.
func channelPlane(img *entity.RGBImage, c int) []uint8 {
	out := make([]uint8, img.Width*img.Height)
	for i := range out {
		out[i] = img.Pix[i*3+c]
	}
	return out
}
