package dicomfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"

	"dlfx/internal/domain/entity"
	"dlfx/internal/domain/port"
	"dlfx/internal/infrastructure/vision"
)

// ErrNoPixelData — в файле нет кадров изображения.
var ErrNoPixelData = errors.New("dicom file has no pixel data")

// Reader читает метаданные и первый кадр файлов DICOM.
type Reader struct{}

// NewReader создаёт читатель DICOM.
func NewReader() *Reader {
	return &Reader{}
}

// ReadFile возвращает плоские теги файла без разбора пиксельных данных.
func (r *Reader) ReadFile(ctx context.Context, path string) ([]entity.MetadataField, error) {
	_ = ctx
	ds, err := dicom.ParseFile(path, nil, dicom.SkipPixelData())
	if err != nil {
		return nil, fmt.Errorf("parse dicom: %w", err)
	}
	return Flatten(ds), nil
}

// Read возвращает плоские теги из байтов файла.
func (r *Reader) Read(ctx context.Context, data []byte) ([]entity.MetadataField, error) {
	_ = ctx
	ds, err := dicom.Parse(bytes.NewReader(data), int64(len(data)), nil, dicom.SkipPixelData())
	if err != nil {
		return nil, fmt.Errorf("parse dicom: %w", err)
	}
	return Flatten(ds), nil
}

// Load читает файл и возвращает первый кадр как массив пикселей.
func (r *Reader) Load(ctx context.Context, path string) (*entity.Array, error) {
	_ = ctx
	ds, err := dicom.ParseFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("parse dicom: %w", err)
	}
	return firstFrame(ds)
}

// Decode разбирает байты файла и возвращает первый кадр.
func (r *Reader) Decode(ctx context.Context, data []byte) (*entity.Array, error) {
	_ = ctx
	ds, err := dicom.Parse(bytes.NewReader(data), int64(len(data)), nil)
	if err != nil {
		return nil, fmt.Errorf("parse dicom: %w", err)
	}
	return firstFrame(ds)
}

func firstFrame(ds dicom.Dataset) (*entity.Array, error) {
	el, err := ds.FindElementByTag(tag.PixelData)
	if err != nil {
		return nil, ErrNoPixelData
	}
	info := dicom.MustGetPixelDataInfo(el.Value)
	if len(info.Frames) == 0 {
		return nil, ErrNoPixelData
	}

	f := info.Frames[0]
	if !f.IsEncapsulated() {
		native, err := f.GetNativeFrame()
		if err != nil {
			return nil, fmt.Errorf("decode frame: %w", err)
		}
		return nativeArray(native, signedBits(ds, native.BitsPerSample))
	}

	// Сжатые кадры декодирует сама библиотека
	img, err := f.GetImage()
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return vision.ArrayFromImage(img), nil
}

// signedBits возвращает разрядность знаковых отсчётов или 0 для беззнаковых
// (PixelRepresentation = 0).
func signedBits(ds dicom.Dataset, bitsAllocated int) int {
	if intTag(ds, tag.PixelRepresentation) != 1 {
		return 0
	}
	if bits := intTag(ds, tag.BitsStored); bits > 0 && bits <= 32 {
		return bits
	}
	return bitsAllocated
}

func intTag(ds dicom.Dataset, t tag.Tag) int {
	el, err := ds.FindElementByTag(t)
	if err != nil {
		return 0
	}
	ints, ok := el.Value.GetValue().([]int)
	if !ok || len(ints) == 0 {
		return 0
	}
	return ints[0]
}

// toSigned восстанавливает знак отсчёта, прочитанного как беззнаковое число.
func toSigned(v, bits int) int {
	v &= 1<<bits - 1
	if v >= 1<<(bits-1) {
		v -= 1 << bits
	}
	return v
}

// nativeArray переносит отсчёты кадра без потерь: знаковые значения остаются
// отрицательными, а многоканальные пиксели дают H×W×S.
func nativeArray(f *frame.NativeFrame, signed int) (*entity.Array, error) {
	if f.Rows*f.Cols != len(f.Data) {
		return nil, fmt.Errorf("frame %dx%d has %d pixels: %w", f.Rows, f.Cols, len(f.Data), entity.ErrShapeMismatch)
	}
	samples := 1
	if len(f.Data) > 0 {
		samples = len(f.Data[0])
	}

	arr := entity.NewArray(f.Rows, f.Cols)
	if samples != 1 {
		arr = entity.NewArray(f.Rows, f.Cols, samples)
	}
	for i, px := range f.Data {
		if len(px) != samples {
			return nil, fmt.Errorf("pixel %d has %d samples, expected %d: %w", i, len(px), samples, entity.ErrShapeMismatch)
		}
		for s, v := range px {
			if signed > 0 {
				v = toSigned(v, signed)
			}
			arr.Data[i*samples+s] = float64(v)
		}
	}
	return arr, nil
}

var (
	_ port.MetadataReader = (*Reader)(nil)
	_ port.ImageLoader    = (*Reader)(nil)
)
