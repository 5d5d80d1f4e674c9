package dicomfile

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"
	"github.com/suyashkumar/dicom/pkg/uid"

	"dlfx/internal/domain/entity"
)

func pixelElement(rows, cols, bits int, data [][]int) *dicom.Element {
	return mustElement(tag.PixelData, dicom.PixelDataInfo{
		Frames: []*frame.Frame{{
			NativeData: frame.NativeFrame{
				BitsPerSample: bits,
				Rows:          rows,
				Cols:          cols,
				Data:          data,
			},
		}},
	})
}

func TestFirstFrame_SignedPixels(t *testing.T) {
	ds := dicom.Dataset{Elements: []*dicom.Element{
		mustElement(tag.BitsStored, []int{16}),
		mustElement(tag.PixelRepresentation, []int{1}),
		// так отсчёты приходят из парсера: 16-битные слова без знака
		pixelElement(1, 3, 16, [][]int{{64536}, {0}, {1000}}),
	}}

	arr, err := firstFrame(ds)
	require.NoError(t, err)
	require.Equal(t, []int{1, 3}, arr.Shape)
	require.Equal(t, []float64{-1000, 0, 1000}, arr.Data)
}

func TestFirstFrame_SignedNegativeInts(t *testing.T) {
	ds := dicom.Dataset{Elements: []*dicom.Element{
		mustElement(tag.PixelRepresentation, []int{1}),
		pixelElement(1, 3, 16, [][]int{{-1000}, {0}, {1000}}),
	}}

	arr, err := firstFrame(ds)
	require.NoError(t, err)
	require.Equal(t, []float64{-1000, 0, 1000}, arr.Data)
}

func TestFirstFrame_UnsignedKeepsHighValues(t *testing.T) {
	ds := dicom.Dataset{Elements: []*dicom.Element{
		pixelElement(1, 2, 16, [][]int{{64536}, {10}}),
	}}

	arr, err := firstFrame(ds)
	require.NoError(t, err)
	require.Equal(t, []float64{64536, 10}, arr.Data)
}

func TestFirstFrame_MultiSample(t *testing.T) {
	ds := dicom.Dataset{Elements: []*dicom.Element{
		pixelElement(1, 2, 8, [][]int{{255, 0, 0}, {0, 0, 255}}),
	}}

	arr, err := firstFrame(ds)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, arr.Shape)
	require.Equal(t, []float64{255, 0, 0, 0, 0, 255}, arr.Data)
}

func TestFirstFrame_NoPixelData(t *testing.T) {
	ds := dicom.Dataset{Elements: []*dicom.Element{
		mustElement(tag.Rows, []int{2}),
	}}

	_, err := firstFrame(ds)
	require.ErrorIs(t, err, ErrNoPixelData)
}

func TestFirstFrame_PixelCountMismatch(t *testing.T) {
	ds := dicom.Dataset{Elements: []*dicom.Element{
		pixelElement(2, 2, 8, [][]int{{1}, {2}}),
	}}

	_, err := firstFrame(ds)
	require.ErrorIs(t, err, entity.ErrShapeMismatch)
}

func TestReader_Decode(t *testing.T) {
	ds := dicom.Dataset{Elements: []*dicom.Element{
		mustElement(tag.MediaStorageSOPClassUID, []string{"1.2.840.10008.5.1.4.1.1.1.2"}),
		mustElement(tag.MediaStorageSOPInstanceUID, []string{"1.2.3.4.5.6.7"}),
		mustElement(tag.TransferSyntaxUID, []string{uid.ImplicitVRLittleEndian}),
		mustElement(tag.Rows, []int{2}),
		mustElement(tag.Columns, []int{2}),
		mustElement(tag.BitsAllocated, []int{16}),
		mustElement(tag.NumberOfFrames, []string{"1"}),
		mustElement(tag.SamplesPerPixel, []int{1}),
		pixelElement(2, 2, 16, [][]int{{1}, {2}, {3}, {4}}),
	}}
	var buf bytes.Buffer
	require.NoError(t, dicom.Write(&buf, ds))

	r := NewReader()
	arr, err := r.Decode(context.Background(), buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, []int{2, 2}, arr.Shape)
	require.Equal(t, []float64{1, 2, 3, 4}, arr.Data)

	fields, err := r.Read(context.Background(), buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, 2, entity.MetadataMap(fields)["Rows"])
}
